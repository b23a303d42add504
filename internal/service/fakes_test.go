package service

import (
	"context"
	"time"

	"workdesk/api/internal/apperr"
	"workdesk/api/internal/models"
)

// In-memory fakes for the store interfaces. Each keeps a simple map and
// supports forcing errors per method where a test needs a failure path.

type fakeUserStore struct {
	users     map[string]models.User
	createErr error
	getErr    error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]models.User{}}
}

func (f *fakeUserStore) Create(_ context.Context, user models.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, u := range f.users {
		if u.Email == user.Email {
			return apperr.ErrConflict
		}
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (models.User, error) {
	if f.getErr != nil {
		return models.User{}, f.getErr
	}
	u, ok := f.users[id]
	if !ok {
		return models.User{}, apperr.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, apperr.ErrNotFound
}

func (f *fakeUserStore) FindByLogin(_ context.Context, identifier string) (models.User, error) {
	for _, u := range f.users {
		if u.Email == identifier || (u.PhoneNumber != "" && u.PhoneNumber == identifier) {
			return u, nil
		}
	}
	return models.User{}, apperr.ErrNotFound
}

func (f *fakeUserStore) List(_ context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserStore) Update(_ context.Context, user models.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return apperr.ErrNotFound
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) Delete(_ context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

type fakeSessionStore struct {
	sessions  map[string]models.Session
	createErr error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]models.Session{}}
}

func (f *fakeSessionStore) Create(_ context.Context, session models.Session) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeSessionStore) GetByID(_ context.Context, id string) (models.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return models.Session{}, apperr.ErrNotFound
	}
	return s, nil
}

func (f *fakeSessionStore) Delete(_ context.Context, id string) error {
	if _, ok := f.sessions[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(f.sessions, id)
	return nil
}

type fakeRequestStore struct {
	requests  map[string]models.Request
	createErr error
	countErr  error
}

func newFakeRequestStore() *fakeRequestStore {
	return &fakeRequestStore{requests: map[string]models.Request{}}
}

func (f *fakeRequestStore) Create(_ context.Context, req models.Request) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.requests[req.ID] = req
	return nil
}

func (f *fakeRequestStore) GetByID(_ context.Context, id string, kind models.RequestKind) (models.Request, error) {
	r, ok := f.requests[id]
	if !ok || r.Kind != kind {
		return models.Request{}, apperr.ErrNotFound
	}
	return r, nil
}

func (f *fakeRequestStore) Find(_ context.Context, id string) (models.Request, error) {
	r, ok := f.requests[id]
	if !ok {
		return models.Request{}, apperr.ErrNotFound
	}
	return r, nil
}

func (f *fakeRequestStore) List(_ context.Context) ([]models.Request, error) {
	out := make([]models.Request, 0, len(f.requests))
	for _, r := range f.requests {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRequestStore) ListForSubmitter(_ context.Context, userID, email, name string) ([]models.Request, error) {
	var out []models.Request
	for _, r := range f.requests {
		if requestBelongsTo(r, userID, email, name) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRequestStore) Update(_ context.Context, req models.Request) error {
	if _, ok := f.requests[req.ID]; !ok {
		return apperr.ErrNotFound
	}
	f.requests[req.ID] = req
	return nil
}

func (f *fakeRequestStore) UpdateStatus(_ context.Context, id string, kind models.RequestKind, status models.RequestStatus) error {
	r, ok := f.requests[id]
	if !ok || r.Kind != kind {
		return apperr.ErrNotFound
	}
	r.Status = status
	f.requests[id] = r
	return nil
}

func (f *fakeRequestStore) Delete(_ context.Context, id string, kind models.RequestKind) error {
	r, ok := f.requests[id]
	if !ok || r.Kind != kind {
		return apperr.ErrNotFound
	}
	delete(f.requests, id)
	return nil
}

func (f *fakeRequestStore) CountPendingFor(_ context.Context, userID, email, name string) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	count := 0
	for _, r := range f.requests {
		if r.Status == models.RequestStatusPending && requestBelongsTo(r, userID, email, name) {
			count++
		}
	}
	return count, nil
}

func requestBelongsTo(r models.Request, userID, email, name string) bool {
	if r.SubmitterID != nil && *r.SubmitterID == userID {
		return true
	}
	if r.Kind != models.RequestKindContact {
		return false
	}
	return (email != "" && r.SubmitterEmail == email) || (name != "" && r.SubmitterName == name)
}

type fakeTaskStore struct {
	tasks      map[string]models.Task
	requests   *fakeRequestStore
	createErr  error
	getErr     error
	updateErr  error
	convertErr error
	countErr   error
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: map[string]models.Task{}}
}

func (f *fakeTaskStore) Create(_ context.Context, task models.Task) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.tasks[task.ID] = task
	return nil
}

func (f *fakeTaskStore) ConvertRequest(ctx context.Context, task models.Task, requestID string, kind models.RequestKind) error {
	if f.convertErr != nil {
		return f.convertErr
	}
	if f.requests != nil {
		if err := f.requests.Delete(ctx, requestID, kind); err != nil {
			return err
		}
	}
	f.tasks[task.ID] = task
	return nil
}

func (f *fakeTaskStore) GetByID(_ context.Context, id string) (models.Task, error) {
	if f.getErr != nil {
		return models.Task{}, f.getErr
	}
	t, ok := f.tasks[id]
	if !ok {
		return models.Task{}, apperr.ErrNotFound
	}
	return t, nil
}

func (f *fakeTaskStore) ListAll(_ context.Context) ([]models.Task, error) {
	out := make([]models.Task, 0, len(f.tasks))
	for _, t := range f.tasks {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTaskStore) ListBySubmitter(_ context.Context, userID, email, name string) ([]models.Task, error) {
	var out []models.Task
	for _, t := range f.tasks {
		if t.SubmitterID != nil && *t.SubmitterID == userID {
			out = append(out, t)
			continue
		}
		if (email != "" && t.SubmitterEmail == email) || (name != "" && t.SubmitterName == name) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTaskStore) ListByWorker(_ context.Context, workerID string) ([]models.Task, error) {
	var out []models.Task
	for _, t := range f.tasks {
		if t.WorkOn != nil && *t.WorkOn == workerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTaskStore) Update(_ context.Context, task models.Task) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.tasks[task.ID]; !ok {
		return apperr.ErrNotFound
	}
	f.tasks[task.ID] = task
	return nil
}

func (f *fakeTaskStore) SetDueDate(_ context.Context, id string, due time.Time) error {
	t, ok := f.tasks[id]
	if !ok {
		return apperr.ErrNotFound
	}
	t.DueDate = &due
	f.tasks[id] = t
	return nil
}

func (f *fakeTaskStore) Delete(_ context.Context, id string) error {
	if _, ok := f.tasks[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(f.tasks, id)
	return nil
}

func (f *fakeTaskStore) CountByStatus(_ context.Context, userID string, status models.TaskStatus) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	count := 0
	for _, t := range f.tasks {
		if t.SubmitterID != nil && *t.SubmitterID == userID && t.Status == status {
			count++
		}
	}
	return count, nil
}

func (f *fakeTaskStore) CountDueWithin(_ context.Context, userID string, window time.Duration) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	now := time.Now()
	count := 0
	for _, t := range f.tasks {
		if t.SubmitterID == nil || *t.SubmitterID != userID || t.DueDate == nil {
			continue
		}
		if !t.DueDate.Before(now) && !t.DueDate.After(now.Add(window)) {
			count++
		}
	}
	return count, nil
}

type fakeResultStore struct {
	results   map[string][]models.Result
	tasks     *fakeTaskStore
	submitErr error
	listErr   error
}

func newFakeResultStore() *fakeResultStore {
	return &fakeResultStore{results: map[string][]models.Result{}}
}

func (f *fakeResultStore) Submit(_ context.Context, result models.Result) error {
	if f.submitErr != nil {
		return f.submitErr
	}
	if f.tasks != nil {
		t, ok := f.tasks.tasks[result.TaskID]
		if !ok {
			return apperr.ErrNotFound
		}
		t.Status = models.TaskStatusCompleted
		f.tasks.tasks[result.TaskID] = t
	}
	f.results[result.TaskID] = append(f.results[result.TaskID], result)
	return nil
}

func (f *fakeResultStore) ListByTask(_ context.Context, taskID string) ([]models.Result, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.results[taskID], nil
}
