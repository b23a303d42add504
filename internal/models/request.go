package models

import "time"

// RequestKind tags the two physical request shapes. They live in one table
// and are projected uniformly for inbox views.
type RequestKind string

const (
	RequestKindForm    RequestKind = "form"
	RequestKindContact RequestKind = "contact"
)

func (k RequestKind) Valid() bool {
	return k == RequestKindForm || k == RequestKindContact
}

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusAccepted RequestStatus = "accepted"
	RequestStatusRejected RequestStatus = "rejected"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusPending, RequestStatusAccepted, RequestStatusRejected:
		return true
	}
	return false
}

// Request is an unconverted inbox item awaiting triage. Contact requests may
// be anonymous, so SubmitterID can be nil while name/email still identify the
// sender.
type Request struct {
	ID             string
	Kind           RequestKind
	SubmitterID    *string
	SubmitterName  string
	SubmitterEmail string
	Phone          string
	// Subject holds the contact subject or the form type tag.
	Subject   string
	Message   string
	Fields    map[string]any
	FileKey   string
	Status    RequestStatus
	CreatedAt time.Time
}
