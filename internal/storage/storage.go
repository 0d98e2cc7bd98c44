// Package storage holds the persistence contract of the development server.
package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a todo does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotValid is returned when a todo can not be stored as is.
	ErrNotValid = errors.New("not valid")
)

// Todo is a stored item of the collection.
type Todo struct {
	ID        string
	Text      string
	CreatedAt time.Time
}

// Repository is the interface for todo persistence. Listing returns todos in
// creation order.
type Repository interface {
	ListTodos(ctx context.Context) ([]Todo, error)
	GetTodo(ctx context.Context, id string) (*Todo, error)
	CreateTodo(ctx context.Context, text string) (*Todo, error)
	UpdateTodo(ctx context.Context, id, text string) (*Todo, error)
	DeleteTodo(ctx context.Context, id string) error
}
