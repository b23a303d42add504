package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"workdesk/api/internal/access"
	"workdesk/api/internal/apperr"
	"workdesk/api/internal/models"
)

const deadlineWindow = 7 * 24 * time.Hour

// MetricsService derives the per-user dashboard from task and request state
// at query time. It never mutates, never caches, and a failed sub-count
// degrades to zero instead of failing the whole call.
type MetricsService struct {
	tasks    TaskStore
	requests RequestStore
	log      zerolog.Logger
}

func NewMetricsService(tasks TaskStore, requests RequestStore, log zerolog.Logger) *MetricsService {
	return &MetricsService{tasks: tasks, requests: requests, log: log}
}

type StatusDistribution struct {
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
	Rejected   int `json:"rejected"`
}

type UserMetrics struct {
	PendingRequests    int                `json:"pendingRequests"`
	PendingTasks       int                `json:"pendingTasks"`
	Active             int                `json:"active"`
	Completed          int                `json:"completed"`
	UpcomingDeadlines  int                `json:"upcomingDeadlines"`
	StatusDistribution StatusDistribution `json:"statusDistribution"`
}

func (s *MetricsService) ForUser(ctx context.Context, actor access.Context) (UserMetrics, error) {
	if actor.Anonymous() {
		return UserMetrics{}, apperr.ErrUnauthorized
	}

	taskCount := func(status models.TaskStatus) int {
		n, err := s.tasks.CountByStatus(ctx, actor.UserID, status)
		if err != nil {
			s.log.Warn().Err(err).Str("status", string(status)).Msg("task count failed")
			return 0
		}
		return n
	}

	pending := taskCount(models.TaskStatusPending)
	inProgress := taskCount(models.TaskStatusInProgress)
	completed := taskCount(models.TaskStatusCompleted)
	rejected := taskCount(models.TaskStatusRejected)

	pendingRequests, err := s.requests.CountPendingFor(ctx, actor.UserID, actor.Email, actor.Name)
	if err != nil {
		s.log.Warn().Err(err).Msg("pending request count failed")
		pendingRequests = 0
	}

	upcoming, err := s.tasks.CountDueWithin(ctx, actor.UserID, deadlineWindow)
	if err != nil {
		s.log.Warn().Err(err).Msg("deadline count failed")
		upcoming = 0
	}

	return UserMetrics{
		PendingRequests:   pendingRequests,
		PendingTasks:      pending,
		Active:            inProgress,
		Completed:         completed,
		UpcomingDeadlines: upcoming,
		StatusDistribution: StatusDistribution{
			Pending:    pending,
			InProgress: inProgress,
			Completed:  completed,
			Rejected:   rejected,
		},
	}, nil
}
