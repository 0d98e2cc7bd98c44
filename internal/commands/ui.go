package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
	"todo/internal/tui"
)

func init() {
	Register(&UICmd{})
}

// UICmd implements the ui command.
type UICmd struct {
	// In is the terminal input. Defaults to os.Stdin.
	In io.Reader
}

func (c *UICmd) Name() string       { return "ui" }
func (c *UICmd) Aliases() []string  { return []string{"tui"} }
func (c *UICmd) Synopsis() string   { return "Open the interactive task list" }
func (c *UICmd) NeedsService() bool { return true }

func (c *UICmd) RegisterFlags(cmd *kingpin.CmdClause) {}

func (c *UICmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, out, errOut io.Writer) int {
	in := c.In
	if in == nil {
		in = os.Stdin
	}

	vm, err := newViewModel(ctx, cfg, svc)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if err := tui.Run(ctx, vm, in, out); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if err := vm.LastError(); err != nil {
		return backendError(errOut, err)
	}
	return exitcode.Success
}
