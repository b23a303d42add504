package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL DEFAULT '',
	email         TEXT NOT NULL UNIQUE,
	affiliation   TEXT NOT NULL DEFAULT '',
	job_title     TEXT NOT NULL DEFAULT '',
	gender        TEXT NOT NULL DEFAULT '',
	company       TEXT NOT NULL DEFAULT '',
	research      TEXT NOT NULL DEFAULT '',
	phone_number  TEXT NOT NULL DEFAULT '',
	birth_date    TIMESTAMPTZ,
	password_hash BYTEA NOT NULL,
	role          TEXT NOT NULL DEFAULT 'user',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS sessions (
	id           TEXT PRIMARY KEY,
	user_id      TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	ip_address   TEXT NOT NULL DEFAULT '',
	user_agent   TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	last_seen_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	expires_at   TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS requests (
	id              TEXT PRIMARY KEY,
	kind            TEXT NOT NULL,
	submitter_id    TEXT,
	submitter_name  TEXT NOT NULL DEFAULT '',
	submitter_email TEXT NOT NULL DEFAULT '',
	phone           TEXT NOT NULL DEFAULT '',
	subject         TEXT NOT NULL DEFAULT '',
	message         TEXT NOT NULL DEFAULT '',
	fields          JSONB NOT NULL DEFAULT '{}',
	file_key        TEXT NOT NULL DEFAULT '',
	status          TEXT NOT NULL DEFAULT 'pending',
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS tasks (
	id              TEXT PRIMARY KEY,
	submitter_id    TEXT,
	assigned_by     TEXT NOT NULL DEFAULT '',
	work_on         TEXT,
	submitter_name  TEXT NOT NULL DEFAULT '',
	submitter_email TEXT NOT NULL DEFAULT '',
	phone           TEXT NOT NULL DEFAULT '',
	subject         TEXT NOT NULL DEFAULT '',
	message         TEXT NOT NULL DEFAULT '',
	title           TEXT NOT NULL DEFAULT '',
	description     TEXT NOT NULL DEFAULT '',
	file_key        TEXT NOT NULL DEFAULT '',
	status          TEXT NOT NULL DEFAULT 'pending',
	priority        TEXT NOT NULL DEFAULT 'normal',
	due_date        TIMESTAMPTZ,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at      TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS results (
	id           TEXT PRIMARY KEY,
	task_id      TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	employee_id  TEXT NOT NULL,
	files        TEXT[] NOT NULL DEFAULT '{}',
	notes        TEXT NOT NULL DEFAULT '',
	submitted_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_tasks_submitter ON tasks (submitter_id);
CREATE INDEX IF NOT EXISTS idx_tasks_work_on ON tasks (work_on);
CREATE INDEX IF NOT EXISTS idx_requests_submitter ON requests (submitter_id);
CREATE INDEX IF NOT EXISTS idx_results_task ON results (task_id);
CREATE INDEX IF NOT EXISTS idx_sessions_expires ON sessions (expires_at);
`

// EnsureSchema creates the tables on startup. Statements are idempotent, so
// repeated boots are safe.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
