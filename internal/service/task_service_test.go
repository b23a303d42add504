package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workdesk/api/internal/access"
	"workdesk/api/internal/apperr"
	"workdesk/api/internal/models"
)

var (
	adminActor = access.Context{UserID: "admin-1", Role: models.RoleAdmin, Name: "Admin", Email: "admin@example.com"}
	userActor  = access.Context{UserID: "user-1", Role: models.RoleUser, Name: "Alice", Email: "alice@example.com"}
	empActor   = access.Context{UserID: "emp-1", Role: models.RoleEmployee, Name: "Eve", Email: "eve@example.com"}
)

func newTaskService(tasks *fakeTaskStore, users *fakeUserStore, requests *fakeRequestStore, results *fakeResultStore) *TaskService {
	return NewTaskService(tasks, users, requests, results, zerolog.Nop())
}

func strp(s string) *string { return &s }

func TestAcceptRequest_ConvertsAndRetiresRequest(t *testing.T) {
	t.Parallel()

	requests := newFakeRequestStore()
	tasks := newFakeTaskStore()
	tasks.requests = requests
	svc := newTaskService(tasks, newFakeUserStore(), requests, newFakeResultStore())

	requests.requests["req-1"] = models.Request{
		ID:             "req-1",
		Kind:           models.RequestKindContact,
		SubmitterID:    strp("user-1"),
		SubmitterName:  "Alice",
		SubmitterEmail: "alice@example.com",
		Phone:          "555-0100",
		Subject:        "broken printer",
		Message:        "it jams",
		Status:         models.RequestStatusPending,
	}

	task, err := svc.AcceptRequest(context.Background(), adminActor, "req-1", models.RequestKindContact)
	require.NoError(t, err)

	assert.Equal(t, models.TaskStatusPending, task.Status)
	assert.Equal(t, models.TaskPriorityNormal, task.Priority)
	assert.Equal(t, "admin-1", task.AssignedBy)
	assert.Equal(t, "Alice", task.SubmitterName)
	assert.Equal(t, "alice@example.com", task.SubmitterEmail)
	assert.Equal(t, "broken printer", task.Subject)
	assert.Equal(t, "it jams", task.Message)
	require.NotNil(t, task.SubmitterID)
	assert.Equal(t, "user-1", *task.SubmitterID)

	_, err = requests.Find(context.Background(), "req-1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, ok := tasks.tasks[task.ID]
	assert.True(t, ok)
}

func TestAcceptRequest_EncodesFieldsWhenMessageEmpty(t *testing.T) {
	t.Parallel()

	requests := newFakeRequestStore()
	tasks := newFakeTaskStore()
	tasks.requests = requests
	svc := newTaskService(tasks, newFakeUserStore(), requests, newFakeResultStore())

	requests.requests["req-2"] = models.Request{
		ID:      "req-2",
		Kind:    models.RequestKindForm,
		Subject: "equipment",
		Fields:  map[string]any{"item": "laptop"},
		Status:  models.RequestStatusPending,
	}

	task, err := svc.AcceptRequest(context.Background(), adminActor, "req-2", models.RequestKindForm)
	require.NoError(t, err)
	assert.JSONEq(t, `{"item":"laptop"}`, task.Message)
}

func TestAcceptRequest_RequiresAdmin(t *testing.T) {
	t.Parallel()

	svc := newTaskService(newFakeTaskStore(), newFakeUserStore(), newFakeRequestStore(), newFakeResultStore())

	_, err := svc.AcceptRequest(context.Background(), userActor, "req-1", models.RequestKindContact)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestAcceptRequest_UnknownKind(t *testing.T) {
	t.Parallel()

	svc := newTaskService(newFakeTaskStore(), newFakeUserStore(), newFakeRequestStore(), newFakeResultStore())

	_, err := svc.AcceptRequest(context.Background(), adminActor, "req-1", models.RequestKind("bogus"))
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestAcceptRequest_MissingRequest(t *testing.T) {
	t.Parallel()

	svc := newTaskService(newFakeTaskStore(), newFakeUserStore(), newFakeRequestStore(), newFakeResultStore())

	_, err := svc.AcceptRequest(context.Background(), adminActor, "nope", models.RequestKindContact)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCreateTask_RequiresTitleAndAuth(t *testing.T) {
	t.Parallel()

	svc := newTaskService(newFakeTaskStore(), newFakeUserStore(), newFakeRequestStore(), newFakeResultStore())

	_, err := svc.Create(context.Background(), access.Context{}, CreateTaskInput{Title: "x"})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, err = svc.Create(context.Background(), userActor, CreateTaskInput{})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestCreateTask_SnapshotsSubmitter(t *testing.T) {
	t.Parallel()

	tasks := newFakeTaskStore()
	svc := newTaskService(tasks, newFakeUserStore(), newFakeRequestStore(), newFakeResultStore())

	task, err := svc.Create(context.Background(), userActor, CreateTaskInput{Title: "deploy", Description: "staging first"})
	require.NoError(t, err)

	assert.Equal(t, "deploy", task.Title)
	assert.Equal(t, models.TaskStatusPending, task.Status)
	require.NotNil(t, task.SubmitterID)
	assert.Equal(t, "user-1", *task.SubmitterID)
	assert.Equal(t, "Alice", task.SubmitterName)
	assert.Equal(t, "alice@example.com", task.SubmitterEmail)
}

func TestAssign_MovesToInProgress(t *testing.T) {
	t.Parallel()

	tasks := newFakeTaskStore()
	users := newFakeUserStore()
	users.users["emp-1"] = models.User{ID: "emp-1", Name: "Eve", Email: "eve@example.com", Role: models.RoleEmployee}
	tasks.tasks["t1"] = models.Task{ID: "t1", Status: models.TaskStatusPending}
	svc := newTaskService(tasks, users, newFakeRequestStore(), newFakeResultStore())

	task, err := svc.Assign(context.Background(), adminActor, "t1", AssignInput{WorkerID: "emp-1"})
	require.NoError(t, err)

	assert.Equal(t, models.TaskStatusInProgress, task.Status)
	require.NotNil(t, task.WorkOn)
	assert.Equal(t, "emp-1", *task.WorkOn)
	assert.Equal(t, models.TaskStatusInProgress, tasks.tasks["t1"].Status)
}

func TestAssign_RefreshesOwnerSnapshot(t *testing.T) {
	t.Parallel()

	tasks := newFakeTaskStore()
	users := newFakeUserStore()
	users.users["user-2"] = models.User{ID: "user-2", Name: "Bob", Email: "bob@example.com", Role: models.RoleUser}
	tasks.tasks["t1"] = models.Task{ID: "t1", Status: models.TaskStatusPending, SubmitterName: "Alice", SubmitterEmail: "alice@example.com"}
	svc := newTaskService(tasks, users, newFakeRequestStore(), newFakeResultStore())

	task, err := svc.Assign(context.Background(), adminActor, "t1", AssignInput{OwnerID: "user-2"})
	require.NoError(t, err)

	require.NotNil(t, task.SubmitterID)
	assert.Equal(t, "user-2", *task.SubmitterID)
	assert.Equal(t, "Bob", task.SubmitterName)
	assert.Equal(t, "bob@example.com", task.SubmitterEmail)
}

func TestAssign_RejectsNonEmployeeWorker(t *testing.T) {
	t.Parallel()

	tasks := newFakeTaskStore()
	users := newFakeUserStore()
	users.users["user-2"] = models.User{ID: "user-2", Role: models.RoleUser}
	tasks.tasks["t1"] = models.Task{ID: "t1", Status: models.TaskStatusPending}
	svc := newTaskService(tasks, users, newFakeRequestStore(), newFakeResultStore())

	_, err := svc.Assign(context.Background(), adminActor, "t1", AssignInput{WorkerID: "user-2"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestAssign_TerminalTaskConflicts(t *testing.T) {
	t.Parallel()

	for _, status := range []models.TaskStatus{models.TaskStatusCompleted, models.TaskStatusRejected} {
		tasks := newFakeTaskStore()
		tasks.tasks["t1"] = models.Task{ID: "t1", Status: status}
		svc := newTaskService(tasks, newFakeUserStore(), newFakeRequestStore(), newFakeResultStore())

		_, err := svc.Assign(context.Background(), adminActor, "t1", AssignInput{WorkerID: "emp-1"})
		assert.ErrorIs(t, err, apperr.ErrConflict, "status %s", status)
	}
}

func TestUpdateTask_ValidatesStatusAndPriority(t *testing.T) {
	t.Parallel()

	tasks := newFakeTaskStore()
	tasks.tasks["t1"] = models.Task{ID: "t1", Status: models.TaskStatusPending, Priority: models.TaskPriorityHigh}
	svc := newTaskService(tasks, newFakeUserStore(), newFakeRequestStore(), newFakeResultStore())

	_, err := svc.Update(context.Background(), adminActor, "t1", UpdateTaskInput{Status: "paused"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = svc.Update(context.Background(), adminActor, "t1", UpdateTaskInput{Priority: "whenever"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	task, err := svc.Update(context.Background(), adminActor, "t1", UpdateTaskInput{Title: "new title"})
	require.NoError(t, err)
	assert.Equal(t, "new title", task.Title)
	assert.Equal(t, models.TaskPriorityNormal, task.Priority)
}

func TestUpdateTask_CanReopenTerminalTask(t *testing.T) {
	t.Parallel()

	tasks := newFakeTaskStore()
	tasks.tasks["t1"] = models.Task{ID: "t1", Status: models.TaskStatusRejected}
	svc := newTaskService(tasks, newFakeUserStore(), newFakeRequestStore(), newFakeResultStore())

	task, err := svc.Update(context.Background(), adminActor, "t1", UpdateTaskInput{Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusPending, task.Status)
}

func TestUpdateTask_RequiresAdmin(t *testing.T) {
	t.Parallel()

	svc := newTaskService(newFakeTaskStore(), newFakeUserStore(), newFakeRequestStore(), newFakeResultStore())

	_, err := svc.Update(context.Background(), empActor, "t1", UpdateTaskInput{Title: "x"})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestSetDueDate_SubmitterAllowedStrangerDenied(t *testing.T) {
	t.Parallel()

	tasks := newFakeTaskStore()
	tasks.tasks["t1"] = models.Task{ID: "t1", SubmitterID: strp("user-1"), Status: models.TaskStatusPending}
	svc := newTaskService(tasks, newFakeUserStore(), newFakeRequestStore(), newFakeResultStore())

	due := time.Now().Add(48 * time.Hour).Truncate(time.Second)
	task, err := svc.SetDueDate(context.Background(), userActor, "t1", due)
	require.NoError(t, err)
	require.NotNil(t, task.DueDate)
	assert.True(t, task.DueDate.Equal(due))

	stranger := access.Context{UserID: "user-9", Role: models.RoleUser, Name: "Mallory", Email: "mallory@example.com"}
	_, err = svc.SetDueDate(context.Background(), stranger, "t1", due)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestDeleteTask_AdminOnly(t *testing.T) {
	t.Parallel()

	tasks := newFakeTaskStore()
	tasks.tasks["t1"] = models.Task{ID: "t1"}
	svc := newTaskService(tasks, newFakeUserStore(), newFakeRequestStore(), newFakeResultStore())

	err := svc.Delete(context.Background(), empActor, "t1")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	require.NoError(t, svc.Delete(context.Background(), adminActor, "t1"))
	assert.Empty(t, tasks.tasks)
}

func TestListFor_ScopesByRole(t *testing.T) {
	t.Parallel()

	tasks := newFakeTaskStore()
	tasks.tasks["t1"] = models.Task{ID: "t1", SubmitterID: strp("user-1")}
	tasks.tasks["t2"] = models.Task{ID: "t2", WorkOn: strp("emp-1")}
	tasks.tasks["t3"] = models.Task{ID: "t3", SubmitterEmail: "other@example.com"}
	// Converted from an anonymous request: no id, only the email snapshot.
	tasks.tasks["t4"] = models.Task{ID: "t4", SubmitterEmail: "alice@example.com"}
	svc := newTaskService(tasks, newFakeUserStore(), newFakeRequestStore(), newFakeResultStore())

	all, err := svc.ListFor(context.Background(), adminActor)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	mine, err := svc.ListFor(context.Background(), userActor)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	ids := []string{mine[0].ID, mine[1].ID}
	assert.ElementsMatch(t, []string{"t1", "t4"}, ids)

	assigned, err := svc.ListFor(context.Background(), empActor)
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, "t2", assigned[0].ID)

	_, err = svc.ListFor(context.Background(), access.Context{})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestGetTask_AttachesResults(t *testing.T) {
	t.Parallel()

	tasks := newFakeTaskStore()
	results := newFakeResultStore()
	tasks.tasks["t1"] = models.Task{ID: "t1", SubmitterID: strp("user-1")}
	results.results["t1"] = []models.Result{{ID: "r1", TaskID: "t1"}}
	svc := newTaskService(tasks, newFakeUserStore(), newFakeRequestStore(), results)

	task, err := svc.Get(context.Background(), userActor, "t1")
	require.NoError(t, err)
	require.Len(t, task.Results, 1)
	assert.Equal(t, "r1", task.Results[0].ID)

	_, err = svc.Get(context.Background(), empActor, "t1")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}
