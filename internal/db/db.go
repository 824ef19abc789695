package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/Paul-Karonji/client-task-tracker/internal/model"
)

var (
	// ErrorNotFound is returned when no row matches the requested task id.
	ErrorNotFound = errors.New("task not found")
	// ErrorConstraintViolation is returned when the database rejects a
	// write for violating a schema constraint (duplicate key, check, FK).
	ErrorConstraintViolation = errors.New("constraint violation")
)

// Store is the persistence capability the handlers depend on.
type Store interface {
	ListTasks(ctx context.Context) ([]model.Task, error)
	GetTask(ctx context.Context, id model.TaskId) (*model.Task, error)
	InsertTask(ctx context.Context, input *model.TaskInput) (*model.Task, error)
	UpdateTask(ctx context.Context, id model.TaskId, input *model.TaskInput) (*model.Task, error)
	DeleteTask(ctx context.Context, id model.TaskId) (bool, error)
	TogglePayment(ctx context.Context, id model.TaskId) (*model.Task, error)
	Close() error
}

// Config sizes the shared connection pool. The pool is created once in
// main and handed to the store; there is no package-level instance.
type Config struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	PoolSize        int
	ConnMaxLifetime time.Duration
}

func ConnectDB(cfg Config) (*sql.DB, error) {
	psqlInfo := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := sql.Open("postgres", psqlInfo)
	if err != nil {
		return nil, fmt.Errorf("database initialization failed %w", err)
	}

	db.SetMaxOpenConns(cfg.PoolSize)
	db.SetMaxIdleConns(cfg.PoolSize)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	err = db.Ping()
	if err != nil {
		return nil, fmt.Errorf("database ping failed %w", err)
	}

	return db, nil
}
