// Package tui is the interactive presentation layer over the view model.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"todo/internal/output"
	"todo/internal/query"
	"todo/internal/viewmodel"
)

type mode int

const (
	modeList mode = iota
	modeInput
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cursorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	editingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

const (
	listHelp      = "a add  e edit  d delete  j/k move  q quit"
	inputHelp     = "enter save  esc cancel  ctrl+d delete selected"
	loadingText   = "Loading..."
	loadErrorText = "Error loading todos"
)

// cacheChangedMsg is sent whenever the query cache publishes a new snapshot.
type cacheChangedMsg struct{}

// mutationDoneMsg is sent when a mutation started from the UI settles.
type mutationDoneMsg struct {
	op  string
	err error
}

// Model is the bubbletea model of the task list.
type Model struct {
	ctx     context.Context
	vm      *viewmodel.ViewModel
	changes <-chan struct{}

	snapshot query.Snapshot
	cursor   int
	mode     mode
	input    textinput.Model
	status   string
}

// NewModel creates the model. changes is usually the channel returned by the
// cache Subscribe method.
func NewModel(ctx context.Context, vm *viewmodel.ViewModel, changes <-chan struct{}) Model {
	ti := textinput.New()
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = 512
	ti.Width = 50

	return Model{
		ctx:      ctx,
		vm:       vm,
		changes:  changes,
		snapshot: vm.CurrentSnapshot(),
		input:    ti,
		mode:     modeList,
	}
}

// Run runs the program until the user quits or ctx is done.
func Run(ctx context.Context, vm *viewmodel.ViewModel, in io.Reader, out io.Writer) error {
	changes, unsubscribe := vm.Cache().Subscribe()
	defer unsubscribe()

	p := tea.NewProgram(
		NewModel(ctx, vm, changes),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("could not run ui: %w", err)
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	return m.waitForChange()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.mode == modeInput {
			return m.updateInputMode(msg)
		}
		return m.updateListMode(msg)
	case tea.WindowSizeMsg:
		if msg.Width > 20 {
			m.input.Width = msg.Width - 10
		}
	case cacheChangedMsg:
		m.snapshot = m.vm.CurrentSnapshot()
		m.cursor = clampCursor(m.cursor, len(m.snapshot.Tasks))
		return m, m.waitForChange()
	case mutationDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("%s failed: %v", msg.op, msg.err)
			return m, nil
		}
		m.status = ""
		// The view model clears the draft only on success.
		if m.mode == modeInput && !m.vm.Session().IsEditing() {
			m.input.SetValue(m.vm.Session().Draft)
		}
	}
	return m, nil
}

func (m Model) updateListMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tasks := m.snapshot.Tasks

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "down", "j":
		m.cursor = clampCursor(m.cursor+1, len(tasks))
	case "up", "k":
		m.cursor = clampCursor(m.cursor-1, len(tasks))
	case "a", "i", "tab":
		m.vm.CancelEdit()
		m.input.SetValue("")
		return m.focusInput()
	case "e", "ctrl+e":
		if len(tasks) == 0 {
			return m, nil
		}
		m.vm.BeginEdit(tasks[m.cursor])
		m.input.SetValue(m.vm.Session().Draft)
		m.input.CursorEnd()
		return m.focusInput()
	case "d", "ctrl+d":
		if len(tasks) == 0 {
			return m, nil
		}
		mut := m.vm.RemoveTask(m.ctx, tasks[m.cursor].ID)
		return m, waitForMutation(m.ctx, mut)
	}
	return m, nil
}

func (m Model) updateInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.vm.CancelEdit()
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeList
		return m, nil
	case "enter":
		m.vm.SetDraft(m.input.Value())
		mut, ok := m.vm.Submit(m.ctx)
		if !ok {
			m.status = "Nothing to save"
			return m, nil
		}
		m.status = ""
		return m, waitForMutation(m.ctx, mut)
	case "ctrl+d":
		tasks := m.snapshot.Tasks
		if len(tasks) == 0 {
			return m, nil
		}
		mut := m.vm.RemoveTask(m.ctx, tasks[m.cursor].ID)
		return m, waitForMutation(m.ctx, mut)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.vm.SetDraft(m.input.Value())
	return m, cmd
}

func (m Model) focusInput() (tea.Model, tea.Cmd) {
	m.mode = modeInput
	m.status = ""
	return m, m.input.Focus()
}

func (m Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	changes := m.changes
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return cacheChangedMsg{}
	}
}

func waitForMutation(ctx context.Context, mut *viewmodel.Mutation) tea.Cmd {
	return func() tea.Msg {
		_, err := mut.Wait(ctx)
		return mutationDoneMsg{op: mut.Op(), err: err}
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Todos"))
	b.WriteString("\n\n")

	session := m.vm.Session()
	label := "Add: "
	if session.IsEditing() {
		label = editingStyle.Render("Update: ")
	}
	b.WriteString(label)
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch m.snapshot.Status {
	case query.StatusLoading:
		b.WriteString(dimStyle.Render(loadingText))
		b.WriteString("\n")
	case query.StatusError:
		b.WriteString(errorStyle.Render(loadErrorText))
		b.WriteString("\n")
	}

	if len(m.snapshot.Tasks) == 0 && m.snapshot.Status == query.StatusReady {
		b.WriteString(dimStyle.Render("no tasks"))
		b.WriteString("\n")
	}
	for i, task := range m.snapshot.Tasks {
		line := fmt.Sprintf("%4d  %s", i+1, output.NormalizeText(task.Text))
		if i == m.cursor && m.mode == modeList {
			b.WriteString(cursorStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if err := m.vm.LastError(); err != nil && m.status == "" {
		b.WriteString(errorStyle.Render(err.Error()))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(errorStyle.Render(m.status))
		b.WriteString("\n")
	}

	if m.mode == modeInput {
		b.WriteString(dimStyle.Render(inputHelp))
	} else {
		b.WriteString(dimStyle.Render(listHelp))
	}
	b.WriteString("\n")

	return b.String()
}

func clampCursor(cursor, n int) int {
	if n == 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}
