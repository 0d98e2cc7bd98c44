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
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	text []string
}

// SetText sets the text words (for testing).
func (c *AddCmd) SetText(words ...string) {
	c.text = words
}

func (c *AddCmd) Name() string       { return "add" }
func (c *AddCmd) Aliases() []string  { return []string{"create"} }
func (c *AddCmd) Synopsis() string   { return "Create a task" }
func (c *AddCmd) NeedsService() bool { return true }

func (c *AddCmd) RegisterFlags(cmd *kingpin.CmdClause) {
	c.text = nil
	cmd.Arg("text", "Task text.").StringsVar(&c.text)
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, out, errOut io.Writer) int {
	text := strings.Join(c.text, " ")

	vm, err := newViewModel(ctx, cfg, svc)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	m, ok := vm.BeginAdd(ctx, text)
	if !ok {
		fmt.Fprintln(errOut, "error: text required")
		return exitcode.UserError
	}

	return finishMutation(ctx, cfg, vm, m, out, errOut)
}
