package service

import "context"

// Service defines the remote task collection.
// Every remote call goes through this interface; the view model and the
// commands never import a backend directly.
//
// Each call is attempted exactly once. Implementations must not retry.
type Service interface {
	// ListTasks returns every task in the collection, in remote order.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask creates a task and returns it with its assigned ID.
	CreateTask(ctx context.Context, text string) (Task, error)

	// UpdateTask replaces the text of a task and returns the stored task.
	UpdateTask(ctx context.Context, id ID, text string) (Task, error)

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, id ID) error
}
