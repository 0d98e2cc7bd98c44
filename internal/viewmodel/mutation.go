package viewmodel

import (
	"context"
	"sync"

	"todo/internal/service"
)

// MutationState is the lifecycle of a single remote mutation.
type MutationState string

const (
	MutationPending   MutationState = "pending"
	MutationSucceeded MutationState = "succeeded"
	MutationFailed    MutationState = "failed"
)

// Mutation is the future of one remote mutation.
//
// A mutation can't be cancelled: Wait returning early because of its context
// does not abort the remote call, which still settles and updates the view
// model.
type Mutation struct {
	op   string
	done chan struct{}

	mu    sync.Mutex
	state MutationState
	task  service.Task
	err   error
}

func newMutation(op string) *Mutation {
	return &Mutation{op: op, done: make(chan struct{}), state: MutationPending}
}

// Op returns the operation name (add, update, delete).
func (m *Mutation) Op() string { return m.op }

// Done is closed when the mutation settles.
func (m *Mutation) Done() <-chan struct{} { return m.done }

// State returns the current state.
func (m *Mutation) State() MutationState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Err returns the failure, if the mutation failed.
func (m *Mutation) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// Wait blocks until the mutation settles or ctx is done. It returns the task
// the remote side answered with (zero for deletes).
func (m *Mutation) Wait(ctx context.Context) (service.Task, error) {
	select {
	case <-m.done:
	case <-ctx.Done():
		return service.Task{}, ctx.Err()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.task, m.err
}

func (m *Mutation) settle(task service.Task, err error) {
	m.mu.Lock()
	m.task = task
	m.err = err
	if err != nil {
		m.state = MutationFailed
	} else {
		m.state = MutationSucceeded
	}
	m.mu.Unlock()
	close(m.done)
}
