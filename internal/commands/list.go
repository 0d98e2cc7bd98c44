package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/alecthomas/kingpin/v2"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/service"
)

func init() {
	Register(&ListCmd{})
	DefaultRegistry.SetDefault("list")
}

// ListCmd implements the list command.
// Handles both `todo` (no args) and `todo list`.
type ListCmd struct {
	format string
}

// SetFormat sets the output format (for testing).
func (c *ListCmd) SetFormat(format string) {
	c.format = format
}

func (c *ListCmd) Name() string       { return "list" }
func (c *ListCmd) Aliases() []string  { return []string{"ls"} }
func (c *ListCmd) Synopsis() string   { return "List tasks" }
func (c *ListCmd) NeedsService() bool { return true }

func (c *ListCmd) RegisterFlags(cmd *kingpin.CmdClause) {
	c.format = output.FormatText
	cmd.Flag("format", "Output format.").Short('o').Default(output.FormatText).EnumVar(&c.format, output.FormatText, output.FormatJSON)
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, out, errOut io.Writer) int {
	vm, err := newViewModel(ctx, cfg, svc)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	tasks, err := awaitTasks(ctx, vm)
	if err != nil {
		return backendError(errOut, err)
	}

	if len(tasks) == 0 && c.format != output.FormatJSON {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	if err := output.FormatTasks(out, c.format, tasks); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}
