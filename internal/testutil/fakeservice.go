// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"todo/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
// Ids are assigned as increasing numbers, like a json-server collection.
type FakeService struct {
	mu     sync.RWMutex
	tasks  []service.Task
	nextID int64
	calls  map[string]int

	// Error injection for testing
	ListTasksErr  error
	CreateTaskErr error
	UpdateTaskErr error
	DeleteTaskErr error
}

// NewFakeService creates a new empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		calls: make(map[string]int),
	}
}

// AddTask seeds a task and returns it.
func (f *FakeService) AddTask(text string) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addLocked(text)
}

// Tasks returns a copy of the stored tasks.
func (f *FakeService) Tasks() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]service.Task, len(f.tasks))
	copy(result, f.tasks)
	return result
}

// Calls returns how many times a method was called.
func (f *FakeService) Calls(method string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.calls[method]
}

// TotalCalls returns how many remote calls were made.
func (f *FakeService) TotalCalls() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["ListTasks"]++

	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	result := make([]service.Task, len(f.tasks))
	copy(result, f.tasks)
	return result, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, text string) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["CreateTask"]++

	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	return f.addLocked(text), nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id service.ID, text string) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["UpdateTask"]++

	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks[i].Text = text
			return f.tasks[i], nil
		}
	}
	return service.Task{}, notFound("update", id)
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id service.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["DeleteTask"]++

	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return notFound("delete", id)
}

func (f *FakeService) addLocked(text string) service.Task {
	f.nextID++
	task := service.Task{ID: service.NumericID(f.nextID), Text: text}
	f.tasks = append(f.tasks, task)
	return task
}

func notFound(op string, id service.ID) error {
	return &service.TransportError{
		Op:         op,
		Method:     "FAKE",
		URL:        fmt.Sprintf("fake://todos/%s", id),
		StatusCode: 404,
	}
}
