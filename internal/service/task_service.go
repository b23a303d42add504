package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"workdesk/api/internal/access"
	"workdesk/api/internal/apperr"
	"workdesk/api/internal/ids"
	"workdesk/api/internal/models"
)

// TaskService owns the task lifecycle: request conversion, assignment,
// direct edits and the status machine around them.
type TaskService struct {
	tasks    TaskStore
	users    UserStore
	requests RequestStore
	results  ResultStore
	log      zerolog.Logger
}

func NewTaskService(tasks TaskStore, users UserStore, requests RequestStore, results ResultStore, log zerolog.Logger) *TaskService {
	return &TaskService{
		tasks:    tasks,
		users:    users,
		requests: requests,
		results:  results,
		log:      log,
	}
}

// AcceptRequest converts a pending request into a task and retires the
// request. The submitter snapshot is copied verbatim so the task stays
// attributable even if the request was anonymous.
func (s *TaskService) AcceptRequest(ctx context.Context, actor access.Context, requestID string, kind models.RequestKind) (models.Task, error) {
	if !actor.IsAdmin() {
		return models.Task{}, apperr.ErrUnauthorized
	}
	if !kind.Valid() {
		return models.Task{}, fmt.Errorf("%w: unknown request kind %q", apperr.ErrInvalidInput, kind)
	}

	req, err := s.requests.GetByID(ctx, requestID, kind)
	if err != nil {
		return models.Task{}, err
	}

	message := req.Message
	if message == "" && len(req.Fields) > 0 {
		raw, err := json.Marshal(req.Fields)
		if err != nil {
			return models.Task{}, fmt.Errorf("encode fields: %w", err)
		}
		message = string(raw)
	}

	task := models.Task{
		ID:             ids.New(),
		SubmitterID:    req.SubmitterID,
		AssignedBy:     actor.UserID,
		SubmitterName:  req.SubmitterName,
		SubmitterEmail: req.SubmitterEmail,
		Phone:          req.Phone,
		Subject:        req.Subject,
		Message:        message,
		FileKey:        req.FileKey,
		Status:         models.TaskStatusPending,
		Priority:       models.TaskPriorityNormal,
	}

	if err := s.tasks.ConvertRequest(ctx, task, requestID, kind); err != nil {
		return models.Task{}, err
	}

	s.log.Info().
		Str("request_id", requestID).
		Str("task_id", task.ID).
		Str("admin_id", actor.UserID).
		Msg("request accepted")

	return task, nil
}

type CreateTaskInput struct {
	Title       string
	Description string
	FileKey     string
}

// Create is the direct self-submission path that bypasses the request stage.
func (s *TaskService) Create(ctx context.Context, actor access.Context, input CreateTaskInput) (models.Task, error) {
	if actor.Anonymous() {
		return models.Task{}, apperr.ErrUnauthorized
	}
	if input.Title == "" {
		return models.Task{}, fmt.Errorf("%w: title is required", apperr.ErrInvalidInput)
	}

	id := actor.UserID
	task := models.Task{
		ID:             ids.New(),
		SubmitterID:    &id,
		SubmitterName:  actor.Name,
		SubmitterEmail: actor.Email,
		Title:          input.Title,
		Description:    input.Description,
		FileKey:        input.FileKey,
		Status:         models.TaskStatusPending,
		Priority:       models.TaskPriorityNormal,
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

type AssignInput struct {
	// OwnerID reassigns the submitter and re-denormalizes their snapshot.
	OwnerID string
	// WorkerID must refer to an employee-role user.
	WorkerID string
}

// Assign sets the owner and/or worker on a task. Assignment always advances
// the task to in-progress; there is no assigned-but-pending state.
func (s *TaskService) Assign(ctx context.Context, actor access.Context, taskID string, input AssignInput) (models.Task, error) {
	if !actor.IsAdmin() {
		return models.Task{}, apperr.ErrUnauthorized
	}

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return models.Task{}, err
	}
	if !task.Status.CanTransition(models.TaskStatusInProgress) {
		return models.Task{}, fmt.Errorf("%w: task is %s", apperr.ErrConflict, task.Status)
	}

	if input.OwnerID != "" {
		owner, err := s.users.GetByID(ctx, input.OwnerID)
		if err != nil {
			return models.Task{}, err
		}
		ownerID := owner.ID
		task.SubmitterID = &ownerID
		// Refresh the snapshot from the live record so listings match the
		// new owner.
		task.SubmitterName = owner.Name
		task.SubmitterEmail = owner.Email
	}

	if input.WorkerID != "" {
		worker, err := s.users.GetByID(ctx, input.WorkerID)
		if err != nil || worker.Role != models.RoleEmployee {
			return models.Task{}, fmt.Errorf("%w: invalid employee selected", apperr.ErrInvalidInput)
		}
		workerID := worker.ID
		task.WorkOn = &workerID
	}

	task.Status = models.TaskStatusInProgress

	if err := s.tasks.Update(ctx, task); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

type UpdateTaskInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
}

// Update is the admin correction path. Status set here is validated against
// the enum but is not constrained by the lifecycle machine.
func (s *TaskService) Update(ctx context.Context, actor access.Context, taskID string, input UpdateTaskInput) (models.Task, error) {
	if !actor.IsAdmin() {
		return models.Task{}, apperr.ErrUnauthorized
	}

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return models.Task{}, err
	}

	if input.Title != "" {
		task.Title = input.Title
	}
	if input.Description != "" {
		task.Description = input.Description
	}

	if input.Status != "" {
		status := models.TaskStatus(input.Status)
		if !status.Valid() {
			return models.Task{}, fmt.Errorf("%w: unknown status %q", apperr.ErrInvalidInput, input.Status)
		}
		task.Status = status
	}

	switch {
	case input.Priority == "":
		task.Priority = models.TaskPriorityNormal
	case !models.TaskPriority(input.Priority).Valid():
		return models.Task{}, fmt.Errorf("%w: invalid priority value %q", apperr.ErrInvalidInput, input.Priority)
	default:
		task.Priority = models.TaskPriority(input.Priority)
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// SetDueDate is open to any caller with access to the task; it does not
// interact with the status machine.
func (s *TaskService) SetDueDate(ctx context.Context, actor access.Context, taskID string, due time.Time) (models.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return models.Task{}, err
	}
	if !access.CanViewTask(actor, task) {
		return models.Task{}, apperr.ErrUnauthorized
	}

	if err := s.tasks.SetDueDate(ctx, taskID, due); err != nil {
		return models.Task{}, err
	}
	task.DueDate = &due
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, actor access.Context, taskID string) error {
	if !actor.IsAdmin() {
		return apperr.ErrUnauthorized
	}
	return s.tasks.Delete(ctx, taskID)
}

// ListFor scopes the listing to the caller: admins see everything, employees
// see their assignments, users see tasks they submitted.
func (s *TaskService) ListFor(ctx context.Context, actor access.Context) ([]models.Task, error) {
	switch {
	case actor.Anonymous():
		return nil, apperr.ErrUnauthorized
	case actor.IsAdmin():
		return s.tasks.ListAll(ctx)
	case actor.IsEmployee():
		return s.tasks.ListByWorker(ctx, actor.UserID)
	default:
		return s.tasks.ListBySubmitter(ctx, actor.UserID, actor.Email, actor.Name)
	}
}

// ListSubmitted returns the caller's own submissions regardless of role, for
// the dashboard projects view.
func (s *TaskService) ListSubmitted(ctx context.Context, actor access.Context) ([]models.Task, error) {
	if actor.Anonymous() {
		return nil, apperr.ErrUnauthorized
	}
	return s.tasks.ListBySubmitter(ctx, actor.UserID, actor.Email, actor.Name)
}

func (s *TaskService) Get(ctx context.Context, actor access.Context, taskID string) (models.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return models.Task{}, err
	}
	if !access.CanViewTask(actor, task) {
		return models.Task{}, apperr.ErrUnauthorized
	}

	results, err := s.results.ListByTask(ctx, taskID)
	if err != nil {
		return models.Task{}, err
	}
	task.Results = results
	return task, nil
}
