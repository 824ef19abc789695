package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/Paul-Karonji/client-task-tracker/internal/model"
)

const taskColumns = `id, client_name, task_description, date_commissioned, date_delivered, expected_amount, is_paid, created_at, updated_at`

// TaskStore is the Postgres-backed Store implementation. Every statement
// binds caller values through placeholders; no query text is assembled
// from input.
type TaskStore struct {
	db *sql.DB
}

func NewTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{db: db}
}

func (s *TaskStore) Close() error {
	return s.db.Close()
}

// EnsureSchema applies schema.sql's statements idempotently so a fresh
// database is usable without a separate migration step.
func (s *TaskStore) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			id                BIGSERIAL PRIMARY KEY,
			client_name       VARCHAR(255) NOT NULL,
			task_description  TEXT NOT NULL,
			date_commissioned DATE,
			date_delivered    DATE,
			expected_amount   NUMERIC(12, 2) NOT NULL CHECK (expected_amount >= 0),
			is_paid           BOOLEAN NOT NULL DEFAULT FALSE,
			created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_created_at ON tasks (created_at DESC)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*model.Task, error) {
	task := &model.Task{}
	var commissioned, delivered sql.NullTime
	err := row.Scan(
		&task.ID,
		&task.ClientName,
		&task.TaskDescription,
		&commissioned,
		&delivered,
		&task.ExpectedAmount,
		&task.IsPaid,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if commissioned.Valid {
		t := commissioned.Time
		task.DateCommissioned = &t
	}
	if delivered.Valid {
		t := delivered.Time
		task.DateDelivered = &t
	}
	return task, nil
}

func (s *TaskStore) ListTasks(ctx context.Context) ([]model.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (s *TaskStore) GetTask(ctx context.Context, id model.TaskId) (*model.Task, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, int64(id))
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %d: %w", id, ErrorNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	return task, nil
}

// InsertTask creates the row and re-reads it so the returned task carries
// the database-assigned id, defaults and timestamps rather than an echo
// of the input.
func (s *TaskStore) InsertTask(ctx context.Context, input *model.TaskInput) (*model.Task, error) {
	var id model.TaskId
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO tasks (client_name, task_description, date_commissioned, date_delivered, expected_amount, is_paid)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		input.ClientName,
		input.TaskDescription,
		nullTime(input.DateCommissioned),
		nullTime(input.DateDelivered),
		input.ExpectedAmount,
		input.IsPaid,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", translateConstraint(err))
	}
	return s.GetTask(ctx, id)
}

// UpdateTask overwrites every mutable field. Existence is the caller's
// concern; a vanished row surfaces as ErrorNotFound from the re-read.
func (s *TaskStore) UpdateTask(ctx context.Context, id model.TaskId, input *model.TaskInput) (*model.Task, error) {
	_, err := s.db.ExecContext(ctx,
		`UPDATE tasks
		 SET client_name = $1, task_description = $2, date_commissioned = $3,
		     date_delivered = $4, expected_amount = $5, is_paid = $6, updated_at = now()
		 WHERE id = $7`,
		input.ClientName,
		input.TaskDescription,
		nullTime(input.DateCommissioned),
		nullTime(input.DateDelivered),
		input.ExpectedAmount,
		input.IsPaid,
		int64(id),
	)
	if err != nil {
		return nil, fmt.Errorf("update task %d: %w", id, translateConstraint(err))
	}
	return s.GetTask(ctx, id)
}

// DeleteTask reports whether a row was actually removed so the caller can
// tell "deleted" from "nothing to delete".
func (s *TaskStore) DeleteTask(ctx context.Context, id model.TaskId) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, int64(id))
	if err != nil {
		return false, fmt.Errorf("delete task %d: %w", id, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete task %d: %w", id, err)
	}
	return rows > 0, nil
}

// TogglePayment flips is_paid in a single statement. Concurrent toggles
// for the same id each negate the committed value instead of racing on a
// stale read.
func (s *TaskStore) TogglePayment(ctx context.Context, id model.TaskId) (*model.Task, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET is_paid = NOT is_paid, updated_at = now() WHERE id = $1`, int64(id))
	if err != nil {
		return nil, fmt.Errorf("toggle payment %d: %w", id, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("toggle payment %d: %w", id, err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("task %d: %w", id, ErrorNotFound)
	}
	return s.GetTask(ctx, id)
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

// translateConstraint folds the driver's SQLSTATE class 23 errors
// (integrity violations) into the closed ErrorConstraintViolation kind.
func translateConstraint(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && len(pqErr.Code) >= 2 && pqErr.Code[:2] == "23" {
		return fmt.Errorf("%s: %w", pqErr.Code.Name(), ErrorConstraintViolation)
	}
	return err
}
