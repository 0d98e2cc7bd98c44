// Package sqlite is the SQLite storage of the development server.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"todo/internal/log"
	"todo/internal/storage"
	"todo/internal/storage/sqlite/migrations"
)

// RepositoryConfig is the configuration for the SQLite repository.
type RepositoryConfig struct {
	DBPath string
	Logger log.Logger
	// TimeNow is used to stamp new todos. Defaults to time.Now.
	TimeNow func() time.Time
}

func (c *RepositoryConfig) defaults() error {
	if c.DBPath == "" {
		return fmt.Errorf("db path is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.SQLite"})

	if c.TimeNow == nil {
		c.TimeNow = time.Now
	}
	return nil
}

// Repository is a SQLite implementation of storage.Repository.
type Repository struct {
	db      *sql.DB
	timeNow func() time.Time
	logger  log.Logger
}

// NewRepository opens the database at the configured path and migrates it.
func NewRepository(ctx context.Context, cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return nil, fmt.Errorf("could not create db directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", cfg.DBPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	migrator, err := migrations.NewMigrator(db, cfg.Logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create migrator: %w", err)
	}
	if err := migrator.Up(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not run migrations: %w", err)
	}

	cfg.Logger.Debugf("SQLite repository initialized at %s", cfg.DBPath)

	return &Repository{db: db, timeNow: cfg.TimeNow, logger: cfg.Logger}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error { return r.db.Close() }

// ListTodos returns all todos in creation order.
func (r *Repository) ListTodos(ctx context.Context) ([]storage.Todo, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, text, created_at FROM todos ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("could not query todos: %w", err)
	}
	defer rows.Close()

	todos := []storage.Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan row: %w", err)
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return todos, nil
}

// GetTodo retrieves a todo by ID.
func (r *Repository) GetTodo(ctx context.Context, id string) (*storage.Todo, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, text, created_at FROM todos WHERE id = ?`, id)
	t, err := scanTodo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("todo %s: %w", id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("could not query todo: %w", err)
	}

	return &t, nil
}

// CreateTodo stores a new todo with a fresh ID.
func (r *Repository) CreateTodo(ctx context.Context, text string) (*storage.Todo, error) {
	t := storage.Todo{
		ID:        ulid.Make().String(),
		Text:      text,
		CreatedAt: r.timeNow().UTC().Truncate(time.Second),
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO todos (id, text, created_at) VALUES (?, ?, ?)`,
		t.ID, t.Text, t.CreatedAt.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("could not insert todo: %w", err)
	}

	r.logger.Debugf("Created todo in repository: %s", t.ID)
	return &t, nil
}

// UpdateTodo replaces the text of a todo.
func (r *Repository) UpdateTodo(ctx context.Context, id, text string) (*storage.Todo, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE todos SET text = ? WHERE id = ?`, text, id)
	if err != nil {
		return nil, fmt.Errorf("could not update todo: %w", err)
	}
	if err := checkAffected(result, id); err != nil {
		return nil, err
	}

	r.logger.Debugf("Updated todo in repository: %s", id)
	return r.GetTodo(ctx, id)
}

// DeleteTodo removes a todo.
func (r *Repository) DeleteTodo(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("could not delete todo: %w", err)
	}
	if err := checkAffected(result, id); err != nil {
		return err
	}

	r.logger.Debugf("Deleted todo from repository: %s", id)
	return nil
}

func checkAffected(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("todo %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTodo(s scanner) (storage.Todo, error) {
	var t storage.Todo
	var createdAt int64
	if err := s.Scan(&t.ID, &t.Text, &createdAt); err != nil {
		return storage.Todo{}, err
	}
	t.CreatedAt = time.Unix(createdAt, 0).UTC()
	return t, nil
}
