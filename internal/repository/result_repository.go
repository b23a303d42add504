package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"workdesk/api/internal/apperr"
	"workdesk/api/internal/models"
)

type ResultRepository struct {
	pool *pgxpool.Pool
}

func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// Submit appends the result and completes its task in one transaction.
// Concurrent submissions serialize on the task row update.
func (r *ResultRepository) Submit(ctx context.Context, result models.Result) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin submit: %w", err)
	}
	defer tx.Rollback(ctx)

	const insert = `
		INSERT INTO results (id, task_id, employee_id, files, notes, submitted_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	if _, err := tx.Exec(ctx, insert,
		result.ID,
		result.TaskID,
		result.EmployeeID,
		result.Files,
		result.Notes,
	); err != nil {
		return fmt.Errorf("insert result: %w", err)
	}

	cmd, err := tx.Exec(ctx,
		`UPDATE tasks SET status = $2, updated_at = NOW() WHERE id = $1`,
		result.TaskID, models.TaskStatusCompleted,
	)
	if err != nil {
		return fmt.Errorf("complete task: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: task %s", apperr.ErrNotFound, result.TaskID)
	}

	return tx.Commit(ctx)
}

func (r *ResultRepository) ListByTask(ctx context.Context, taskID string) ([]models.Result, error) {
	const query = `
		SELECT id, task_id, employee_id, files, notes, submitted_at
		FROM results WHERE task_id = $1 ORDER BY submitted_at ASC
	`
	rows, err := r.pool.Query(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.Result
	for rows.Next() {
		var res models.Result
		if err := rows.Scan(
			&res.ID,
			&res.TaskID,
			&res.EmployeeID,
			&res.Files,
			&res.Notes,
			&res.SubmittedAt,
		); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperr.ErrNotFound
			}
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}
