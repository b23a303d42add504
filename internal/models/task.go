package models

import "time"

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusRejected   TaskStatus = "rejected"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusRejected:
		return true
	}
	return false
}

// Terminal statuses accept no further lifecycle transitions.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusRejected
}

// CanTransition reports whether a lifecycle operation may move a task from s
// to next. Result submission completes a task straight from pending, so
// pending -> completed is allowed. Admin corrections via direct update bypass
// this check on purpose.
func (s TaskStatus) CanTransition(next TaskStatus) bool {
	if s.Terminal() {
		return false
	}
	switch next {
	case TaskStatusInProgress:
		return s == TaskStatusPending || s == TaskStatusInProgress
	case TaskStatusCompleted, TaskStatusRejected:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityNormal TaskPriority = "normal"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityNormal, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

// Task is the unit of tracked work. The submitter snapshot (name/email/phone)
// is denormalized at creation so listings survive deletion of the owning user.
type Task struct {
	ID             string
	SubmitterID    *string
	AssignedBy     string
	WorkOn         *string
	SubmitterName  string
	SubmitterEmail string
	Phone          string
	Subject        string
	Message        string
	Title          string
	Description    string
	FileKey        string
	Status         TaskStatus
	Priority       TaskPriority
	DueDate        *time.Time
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	Results        []Result
}
