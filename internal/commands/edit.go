package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kingpin/v2"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
type EditCmd struct {
	ref  string
	text []string
}

// SetArgs sets the reference and the text words (for testing).
func (c *EditCmd) SetArgs(ref string, words ...string) {
	c.ref = ref
	c.text = words
}

func (c *EditCmd) Name() string       { return "edit" }
func (c *EditCmd) Aliases() []string  { return []string{"update"} }
func (c *EditCmd) Synopsis() string   { return "Replace the text of a task" }
func (c *EditCmd) NeedsService() bool { return true }

func (c *EditCmd) RegisterFlags(cmd *kingpin.CmdClause) {
	c.ref, c.text = "", nil
	cmd.Arg("ref", "Task position or id:<id>.").StringVar(&c.ref)
	cmd.Arg("text", "New task text.").StringsVar(&c.text)
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(c.ref)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	text := strings.Join(c.text, " ")
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(errOut, "error: text required")
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

	vm.BeginEdit(task)
	vm.SetDraft(text)
	m, ok := vm.CommitEdit(ctx)
	if !ok {
		fmt.Fprintln(errOut, "error: text required")
		return exitcode.UserError
	}

	return finishMutation(ctx, cfg, vm, m, out, errOut)
}
