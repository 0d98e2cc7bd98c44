package commands

import (
	"context"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/query"
	"todo/internal/service"
	"todo/internal/viewmodel"
)

// newViewModel builds the view model driven by the one-shot commands.
func newViewModel(ctx context.Context, cfg *config.Config, svc service.Service) (*viewmodel.ViewModel, error) {
	vm, err := viewmodel.New(viewmodel.Config{
		Service: svc,
		Context: ctx,
		Logger:  cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create view model: %w", err)
	}
	return vm, nil
}

// awaitTasks waits until the snapshot settles and returns its tasks.
func awaitTasks(ctx context.Context, vm *viewmodel.ViewModel) ([]service.Task, error) {
	s, err := vm.Cache().Await(ctx)
	if err != nil {
		return nil, err
	}
	if s.Status == query.StatusError {
		return nil, s.Err
	}
	return s.Tasks, nil
}

// finishMutation waits for a mutation and for the re-fetch it triggers.
// A failed re-fetch after a successful mutation is only reported.
func finishMutation(ctx context.Context, cfg *config.Config, vm *viewmodel.ViewModel, m *viewmodel.Mutation, out, errOut io.Writer) int {
	if _, err := m.Wait(ctx); err != nil {
		return backendError(errOut, err)
	}

	if _, err := awaitTasks(ctx, vm); err != nil {
		fmt.Fprintf(errOut, "warning: could not refresh tasks: %v\n", err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

func backendError(errOut io.Writer, err error) int {
	fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	return exitcode.BackendError
}
