// Package servicemock provides a testify mock of service.Service.
package servicemock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"todo/internal/service"
)

// MockService is a mock of service.Service. Any call without a matching
// expectation fails the test.
type MockService struct {
	mock.Mock
}

var _ service.Service = &MockService{}

// ListTasks implements service.Service.
func (m *MockService) ListTasks(ctx context.Context) ([]service.Task, error) {
	args := m.Called(ctx)
	tasks, _ := args.Get(0).([]service.Task)
	return tasks, args.Error(1)
}

// CreateTask implements service.Service.
func (m *MockService) CreateTask(ctx context.Context, text string) (service.Task, error) {
	args := m.Called(ctx, text)
	task, _ := args.Get(0).(service.Task)
	return task, args.Error(1)
}

// UpdateTask implements service.Service.
func (m *MockService) UpdateTask(ctx context.Context, id service.ID, text string) (service.Task, error) {
	args := m.Called(ctx, id, text)
	task, _ := args.Get(0).(service.Task)
	return task, args.Error(1)
}

// DeleteTask implements service.Service.
func (m *MockService) DeleteTask(ctx context.Context, id service.ID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
