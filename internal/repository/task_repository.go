package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"workdesk/api/internal/apperr"
	"workdesk/api/internal/models"
)

const taskColumns = `id, submitter_id, assigned_by, work_on, submitter_name, submitter_email,
	phone, subject, message, title, description, file_key, status, priority,
	due_date, created_at, updated_at`

type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

func scanTask(row pgx.Row) (models.Task, error) {
	var t models.Task
	err := row.Scan(
		&t.ID,
		&t.SubmitterID,
		&t.AssignedBy,
		&t.WorkOn,
		&t.SubmitterName,
		&t.SubmitterEmail,
		&t.Phone,
		&t.Subject,
		&t.Message,
		&t.Title,
		&t.Description,
		&t.FileKey,
		&t.Status,
		&t.Priority,
		&t.DueDate,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Task{}, apperr.ErrNotFound
		}
		return models.Task{}, err
	}
	return t, nil
}

const insertTaskQuery = `
	INSERT INTO tasks (
		id, submitter_id, assigned_by, work_on, submitter_name, submitter_email,
		phone, subject, message, title, description, file_key, status, priority,
		due_date, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NULL
	)
`

func taskInsertArgs(t models.Task) []any {
	return []any{
		t.ID,
		t.SubmitterID,
		t.AssignedBy,
		t.WorkOn,
		t.SubmitterName,
		t.SubmitterEmail,
		t.Phone,
		t.Subject,
		t.Message,
		t.Title,
		t.Description,
		t.FileKey,
		t.Status,
		t.Priority,
		t.DueDate,
	}
}

func (r *TaskRepository) Create(ctx context.Context, task models.Task) error {
	_, err := r.pool.Exec(ctx, insertTaskQuery, taskInsertArgs(task)...)
	return err
}

// ConvertRequest materializes a task from a request and retires the request
// in one transaction, so the item can neither double-materialize nor vanish.
func (r *TaskRepository) ConvertRequest(ctx context.Context, task models.Task, requestID string, kind models.RequestKind) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin convert: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, insertTaskQuery, taskInsertArgs(task)...); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}

	cmd, err := tx.Exec(ctx, `DELETE FROM requests WHERE id = $1 AND kind = $2`, requestID, kind)
	if err != nil {
		return fmt.Errorf("delete request: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: request %s", apperr.ErrNotFound, requestID)
	}

	return tx.Commit(ctx)
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return scanTask(r.pool.QueryRow(ctx, query, id))
}

func (r *TaskRepository) ListAll(ctx context.Context) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at DESC`
	return r.collect(r.pool.Query(ctx, query))
}

// ListBySubmitter matches by owning id or by the denormalized email/name
// snapshot, so tasks converted from anonymous requests still surface for the
// user once they log in.
func (r *TaskRepository) ListBySubmitter(ctx context.Context, userID, email, name string) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE submitter_id = $1
		   OR (submitter_email <> '' AND submitter_email = $2)
		   OR (submitter_name <> '' AND submitter_name = $3)
		ORDER BY created_at DESC`
	return r.collect(r.pool.Query(ctx, query, userID, email, name))
}

func (r *TaskRepository) ListByWorker(ctx context.Context, workerID string) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE work_on = $1 ORDER BY created_at DESC`
	return r.collect(r.pool.Query(ctx, query, workerID))
}

func (r *TaskRepository) collect(rows pgx.Rows, err error) ([]models.Task, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) Update(ctx context.Context, task models.Task) error {
	const query = `
		UPDATE tasks SET
			submitter_id = $2, work_on = $3, submitter_name = $4, submitter_email = $5,
			phone = $6, subject = $7, message = $8, title = $9, description = $10,
			status = $11, priority = $12, due_date = $13, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		task.ID,
		task.SubmitterID,
		task.WorkOn,
		task.SubmitterName,
		task.SubmitterEmail,
		task.Phone,
		task.Subject,
		task.Message,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.DueDate,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) SetDueDate(ctx context.Context, id string, due time.Time) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE tasks SET due_date = $2, updated_at = NOW() WHERE id = $1`, id, due)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Delete removes the task and its results together.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM results WHERE task_id = $1`, id); err != nil {
		return fmt.Errorf("delete results: %w", err)
	}

	cmd, err := tx.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}

	return tx.Commit(ctx)
}

func (r *TaskRepository) CountByStatus(ctx context.Context, userID string, status models.TaskStatus) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM tasks WHERE submitter_id = $1 AND status = $2`,
		userID, status,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *TaskRepository) CountDueWithin(ctx context.Context, userID string, window time.Duration) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM tasks
		 WHERE submitter_id = $1 AND due_date >= NOW() AND due_date <= NOW() + $2`,
		userID, window,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
