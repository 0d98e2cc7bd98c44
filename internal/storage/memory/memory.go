package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"todo/internal/log"
	"todo/internal/storage"
)

// RepositoryConfig is the configuration for the memory repository.
type RepositoryConfig struct {
	Logger log.Logger
	// TimeNow is used to stamp new todos. Defaults to time.Now.
	TimeNow func() time.Time
}

func (c *RepositoryConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Memory"})

	if c.TimeNow == nil {
		c.TimeNow = time.Now
	}
	return nil
}

// Repository is an in-memory implementation of storage.Repository.
type Repository struct {
	todos   []storage.Todo
	mu      sync.RWMutex
	timeNow func() time.Time
	logger  log.Logger
}

// NewRepository creates a new memory repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Repository{
		timeNow: cfg.TimeNow,
		logger:  cfg.Logger,
	}, nil
}

// ListTodos returns all todos in creation order.
func (r *Repository) ListTodos(ctx context.Context) ([]storage.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.todos), nil
}

// GetTodo retrieves a todo by ID.
func (r *Repository) GetTodo(ctx context.Context, id string) (*storage.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexLocked(id)
	if i < 0 {
		return nil, fmt.Errorf("todo %s: %w", id, storage.ErrNotFound)
	}

	t := r.todos[i]
	return &t, nil
}

// CreateTodo stores a new todo with a fresh ID.
func (r *Repository) CreateTodo(ctx context.Context, text string) (*storage.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := storage.Todo{
		ID:        ulid.Make().String(),
		Text:      text,
		CreatedAt: r.timeNow().UTC(),
	}
	r.todos = append(r.todos, t)
	r.logger.Debugf("Created todo in repository: %s", t.ID)

	return &t, nil
}

// UpdateTodo replaces the text of a todo.
func (r *Repository) UpdateTodo(ctx context.Context, id, text string) (*storage.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(id)
	if i < 0 {
		return nil, fmt.Errorf("todo %s: %w", id, storage.ErrNotFound)
	}

	r.todos[i].Text = text
	r.logger.Debugf("Updated todo in repository: %s", id)

	t := r.todos[i]
	return &t, nil
}

// DeleteTodo removes a todo.
func (r *Repository) DeleteTodo(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("todo %s: %w", id, storage.ErrNotFound)
	}

	r.todos = slices.Delete(r.todos, i, i+1)
	r.logger.Debugf("Deleted todo from repository: %s", id)

	return nil
}

func (r *Repository) indexLocked(id string) int {
	return slices.IndexFunc(r.todos, func(t storage.Todo) bool { return t.ID == id })
}
