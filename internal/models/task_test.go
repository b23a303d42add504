package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskStatusValid(t *testing.T) {
	t.Parallel()

	for _, s := range []TaskStatus{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusRejected} {
		assert.True(t, s.Valid(), "status %s", s)
	}
	assert.False(t, TaskStatus("paused").Valid())
	assert.False(t, TaskStatus("").Valid())
}

func TestTaskStatusTerminal(t *testing.T) {
	t.Parallel()

	assert.False(t, TaskStatusPending.Terminal())
	assert.False(t, TaskStatusInProgress.Terminal())
	assert.True(t, TaskStatusCompleted.Terminal())
	assert.True(t, TaskStatusRejected.Terminal())
}

func TestTaskStatusCanTransition(t *testing.T) {
	t.Parallel()

	cases := []struct {
		from TaskStatus
		to   TaskStatus
		want bool
	}{
		{TaskStatusPending, TaskStatusInProgress, true},
		{TaskStatusPending, TaskStatusCompleted, true},
		{TaskStatusPending, TaskStatusRejected, true},
		{TaskStatusInProgress, TaskStatusInProgress, true},
		{TaskStatusInProgress, TaskStatusCompleted, true},
		{TaskStatusInProgress, TaskStatusRejected, true},
		{TaskStatusCompleted, TaskStatusInProgress, false},
		{TaskStatusCompleted, TaskStatusRejected, false},
		{TaskStatusRejected, TaskStatusInProgress, false},
		{TaskStatusRejected, TaskStatusCompleted, false},
		{TaskStatusPending, TaskStatusPending, false},
		{TaskStatusInProgress, TaskStatus("paused"), false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.from.CanTransition(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTaskPriorityValid(t *testing.T) {
	t.Parallel()

	for _, p := range []TaskPriority{TaskPriorityLow, TaskPriorityNormal, TaskPriorityHigh, TaskPriorityUrgent} {
		assert.True(t, p.Valid(), "priority %s", p)
	}
	assert.False(t, TaskPriority("someday").Valid())
}
