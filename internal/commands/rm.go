package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/alecthomas/kingpin/v2"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	ref string
}

// SetRef sets the task reference (for testing).
func (c *RmCmd) SetRef(ref string) {
	c.ref = ref
}

func (c *RmCmd) Name() string       { return "rm" }
func (c *RmCmd) Aliases() []string  { return []string{"delete"} }
func (c *RmCmd) Synopsis() string   { return "Delete a task" }
func (c *RmCmd) NeedsService() bool { return true }

func (c *RmCmd) RegisterFlags(cmd *kingpin.CmdClause) {
	c.ref = ""
	cmd.Arg("ref", "Task position or id:<id>.").StringVar(&c.ref)
}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(c.ref)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	vm, err := newViewModel(ctx, cfg, svc)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	tasks, err := awaitTasks(ctx, vm)
	if err != nil {
		return backendError(errOut, err)
	}

	task, err := ref.Resolve(tasks)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	return finishMutation(ctx, cfg, vm, vm.RemoveTask(ctx, task.ID), out, errOut)
}
