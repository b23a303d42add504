package cache

import "fmt"

// SessionKey namespaces cached session lookups. Both the auth middleware
// (reads) and the auth service (invalidation on logout) use it.
func SessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}
