package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"workdesk/api/internal/apperr"
	"workdesk/api/internal/models"
)

const requestColumns = `id, kind, submitter_id, submitter_name, submitter_email, phone,
	subject, message, fields, file_key, status, created_at`

type RequestRepository struct {
	pool *pgxpool.Pool
}

func NewRequestRepository(pool *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{pool: pool}
}

func scanRequest(row pgx.Row) (models.Request, error) {
	var req models.Request
	err := row.Scan(
		&req.ID,
		&req.Kind,
		&req.SubmitterID,
		&req.SubmitterName,
		&req.SubmitterEmail,
		&req.Phone,
		&req.Subject,
		&req.Message,
		&req.Fields,
		&req.FileKey,
		&req.Status,
		&req.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Request{}, apperr.ErrNotFound
		}
		return models.Request{}, err
	}
	return req, nil
}

func (r *RequestRepository) Create(ctx context.Context, req models.Request) error {
	const query = `
		INSERT INTO requests (
			id, kind, submitter_id, submitter_name, submitter_email, phone,
			subject, message, fields, file_key, status, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW()
		)
	`
	_, err := r.pool.Exec(ctx, query,
		req.ID,
		req.Kind,
		req.SubmitterID,
		req.SubmitterName,
		req.SubmitterEmail,
		req.Phone,
		req.Subject,
		req.Message,
		req.Fields,
		req.FileKey,
		req.Status,
	)
	return err
}

func (r *RequestRepository) GetByID(ctx context.Context, id string, kind models.RequestKind) (models.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = $1 AND kind = $2`
	return scanRequest(r.pool.QueryRow(ctx, query, id, kind))
}

// Find looks the id up across both kinds, for detail views that do not know
// the shape in advance.
func (r *RequestRepository) Find(ctx context.Context, id string) (models.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = $1`
	return scanRequest(r.pool.QueryRow(ctx, query, id))
}

// List returns the admin inbox: both kinds merged, newest first.
func (r *RequestRepository) List(ctx context.Context) ([]models.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests ORDER BY created_at DESC`
	return r.collect(r.pool.Query(ctx, query))
}

// ListForSubmitter returns requests owned by a user: form submissions by id,
// contact requests by email or name, since those may predate the account.
func (r *RequestRepository) ListForSubmitter(ctx context.Context, userID, email, name string) ([]models.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests
		WHERE (submitter_id = $1)
		   OR (kind = 'contact' AND (submitter_email = $2 OR submitter_name = $3))
		ORDER BY created_at DESC`
	return r.collect(r.pool.Query(ctx, query, userID, email, name))
}

func (r *RequestRepository) collect(rows pgx.Rows, err error) ([]models.Request, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []models.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

func (r *RequestRepository) Update(ctx context.Context, req models.Request) error {
	const query = `
		UPDATE requests SET
			submitter_name = $3, submitter_email = $4, phone = $5,
			subject = $6, message = $7, fields = $8
		WHERE id = $1 AND kind = $2
	`
	cmd, err := r.pool.Exec(ctx, query,
		req.ID,
		req.Kind,
		req.SubmitterName,
		req.SubmitterEmail,
		req.Phone,
		req.Subject,
		req.Message,
		req.Fields,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *RequestRepository) UpdateStatus(ctx context.Context, id string, kind models.RequestKind, status models.RequestStatus) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE requests SET status = $3 WHERE id = $1 AND kind = $2`,
		id, kind, status,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *RequestRepository) Delete(ctx context.Context, id string, kind models.RequestKind) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM requests WHERE id = $1 AND kind = $2`, id, kind)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// CountPendingFor counts a user's pending requests across both kinds.
func (r *RequestRepository) CountPendingFor(ctx context.Context, userID, email, name string) (int, error) {
	const query = `
		SELECT COUNT(*) FROM requests
		WHERE status = 'pending'
		  AND ((submitter_id = $1)
		    OR (kind = 'contact' AND (submitter_email = $2 OR submitter_name = $3)))
	`
	var count int
	if err := r.pool.QueryRow(ctx, query, userID, email, name).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
