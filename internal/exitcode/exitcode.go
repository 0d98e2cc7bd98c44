// Package exitcode defines the process exit codes of the todo CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates bad arguments, an empty task text or an unknown task reference.
	UserError = 1

	// AuthError indicates a configuration or credentials problem.
	AuthError = 2

	// BackendError indicates the remote collection call or the re-fetch failed.
	BackendError = 3
)
