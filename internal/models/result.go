package models

import "time"

// Result is a work-product submission by the assigned employee. It belongs to
// exactly one task; submitting one completes the task.
type Result struct {
	ID          string
	TaskID      string
	EmployeeID  string
	Files       []string
	Notes       string
	SubmittedAt time.Time
}
