package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"workdesk/api/internal/access"
	"workdesk/api/internal/apperr"
	"workdesk/api/internal/ids"
	"workdesk/api/internal/models"
)

// ResultService records work-product submissions. Submitting a result
// completes the task; there is no interim state.
type ResultService struct {
	results ResultStore
	tasks   TaskStore
	log     zerolog.Logger
}

func NewResultService(results ResultStore, tasks TaskStore, log zerolog.Logger) *ResultService {
	return &ResultService{results: results, tasks: tasks, log: log}
}

func (s *ResultService) Submit(ctx context.Context, actor access.Context, taskID string, files []string, notes string) (models.Result, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return models.Result{}, err
	}
	if !access.CanSubmitResult(actor, task) {
		return models.Result{}, fmt.Errorf("%w: not the assigned worker", apperr.ErrUnauthorized)
	}
	if task.Status == models.TaskStatusRejected {
		return models.Result{}, fmt.Errorf("%w: task was rejected", apperr.ErrConflict)
	}

	if files == nil {
		files = []string{}
	}
	result := models.Result{
		ID:         ids.New(),
		TaskID:     taskID,
		EmployeeID: actor.UserID,
		Files:      files,
		Notes:      notes,
	}

	if err := s.results.Submit(ctx, result); err != nil {
		return models.Result{}, err
	}

	s.log.Info().
		Str("task_id", taskID).
		Str("employee_id", actor.UserID).
		Msg("result submitted, task completed")

	return result, nil
}

// ListForSubmitter returns the caller's tasks that carry results, with the
// results attached, for the dashboard results view.
func (s *ResultService) ListForSubmitter(ctx context.Context, actor access.Context) ([]models.Task, error) {
	if actor.Anonymous() {
		return nil, apperr.ErrUnauthorized
	}

	tasks, err := s.tasks.ListBySubmitter(ctx, actor.UserID, actor.Email, actor.Name)
	if err != nil {
		return nil, err
	}

	var withResults []models.Task
	for _, task := range tasks {
		results, err := s.results.ListByTask(ctx, task.ID)
		if err != nil {
			return nil, err
		}
		if len(results) == 0 {
			continue
		}
		task.Results = results
		withResults = append(withResults, task)
	}
	return withResults, nil
}
