// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"io"

	"github.com/alecthomas/kingpin/v2"

	"todo/internal/config"
	"todo/internal/service"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// NeedsService returns true if the command talks to the task collection.
	// Commands like help, version, serve, login, logout return false.
	NeedsService() bool

	// RegisterFlags registers command-specific flags and arguments on the
	// command clause. It is called once per parse and resets bound values.
	RegisterFlags(cmd *kingpin.CmdClause)

	// Run executes the command.
	// cfg is always provided (config dir, backend, logger).
	// svc is nil if NeedsService() returns false.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, svc service.Service, out, errOut io.Writer) int
}
