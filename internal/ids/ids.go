package ids

import "github.com/segmentio/ksuid"

// New returns a sortable unique id. KSUIDs embed a timestamp, so reverse
// id order matches reverse creation order.
func New() string {
	return ksuid.New().String()
}
