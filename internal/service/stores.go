package service

import (
	"context"
	"time"

	"workdesk/api/internal/models"
)

// Store interfaces are declared here, on the consuming side, so services can
// be exercised against fakes. The pgx repositories satisfy them.

type UserStore interface {
	Create(ctx context.Context, user models.User) error
	GetByID(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByLogin(ctx context.Context, identifier string) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user models.User) error
	Delete(ctx context.Context, id string) error
}

type SessionStore interface {
	Create(ctx context.Context, session models.Session) error
	GetByID(ctx context.Context, id string) (models.Session, error)
	Delete(ctx context.Context, id string) error
}

type RequestStore interface {
	Create(ctx context.Context, req models.Request) error
	GetByID(ctx context.Context, id string, kind models.RequestKind) (models.Request, error)
	Find(ctx context.Context, id string) (models.Request, error)
	List(ctx context.Context) ([]models.Request, error)
	ListForSubmitter(ctx context.Context, userID, email, name string) ([]models.Request, error)
	Update(ctx context.Context, req models.Request) error
	UpdateStatus(ctx context.Context, id string, kind models.RequestKind, status models.RequestStatus) error
	Delete(ctx context.Context, id string, kind models.RequestKind) error
	CountPendingFor(ctx context.Context, userID, email, name string) (int, error)
}

type TaskStore interface {
	Create(ctx context.Context, task models.Task) error
	ConvertRequest(ctx context.Context, task models.Task, requestID string, kind models.RequestKind) error
	GetByID(ctx context.Context, id string) (models.Task, error)
	ListAll(ctx context.Context) ([]models.Task, error)
	ListBySubmitter(ctx context.Context, userID, email, name string) ([]models.Task, error)
	ListByWorker(ctx context.Context, workerID string) ([]models.Task, error)
	Update(ctx context.Context, task models.Task) error
	SetDueDate(ctx context.Context, id string, due time.Time) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context, userID string, status models.TaskStatus) (int, error)
	CountDueWithin(ctx context.Context, userID string, window time.Duration) (int, error)
}

type ResultStore interface {
	Submit(ctx context.Context, result models.Result) error
	ListByTask(ctx context.Context, taskID string) ([]models.Result, error)
}
