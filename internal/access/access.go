// Package access holds the authorization context threaded through every core
// operation and the pure policy predicates evaluated over it. Predicates have
// no side effects and fail closed: anything ambiguous is a deny.
package access

import "workdesk/api/internal/models"

// Context identifies the caller of an operation. A zero Context is an
// anonymous caller. It is built once per request from the session token and
// passed explicitly; nothing reads it from ambient state.
type Context struct {
	UserID string
	Role   models.Role
	Name   string
	Email  string
}

func (c Context) Anonymous() bool {
	return c.UserID == ""
}

func (c Context) IsAdmin() bool {
	return !c.Anonymous() && c.Role == models.RoleAdmin
}

func (c Context) IsEmployee() bool {
	return !c.Anonymous() && c.Role == models.RoleEmployee
}

// MatchesSubmitter reports whether the caller owns a submitter snapshot.
// Precedence: id match first, then email, then name. The string fallbacks
// exist because anonymous submissions carry no user id; they tolerate
// identity drift between the snapshot and the live user record.
func (c Context) MatchesSubmitter(submitterID *string, email, name string) bool {
	if c.Anonymous() {
		return false
	}
	if submitterID != nil && *submitterID == c.UserID {
		return true
	}
	if email != "" && email == c.Email {
		return true
	}
	if name != "" && name == c.Name {
		return true
	}
	return false
}

func CanViewTask(c Context, t models.Task) bool {
	if c.IsAdmin() {
		return true
	}
	if c.IsEmployee() && t.WorkOn != nil && *t.WorkOn == c.UserID {
		return true
	}
	return c.MatchesSubmitter(t.SubmitterID, t.SubmitterEmail, t.SubmitterName)
}

// CanModifyTask gates direct edits: assignment, field updates, deletion.
func CanModifyTask(c Context, _ models.Task) bool {
	return c.IsAdmin()
}

func CanSubmitResult(c Context, t models.Task) bool {
	return c.IsEmployee() && t.WorkOn != nil && *t.WorkOn == c.UserID
}

func CanViewRequest(c Context, r models.Request) bool {
	if c.IsAdmin() {
		return true
	}
	return c.MatchesSubmitter(r.SubmitterID, r.SubmitterEmail, r.SubmitterName)
}

// CanSubmitRequest permits anonymous callers for the contact kind only; the
// generic form kind requires an authenticated submitter.
func CanSubmitRequest(c Context, kind models.RequestKind) bool {
	if kind == models.RequestKindContact {
		return true
	}
	return !c.Anonymous()
}
