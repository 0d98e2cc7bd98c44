// Package output provides formatters for CLI output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"todo/internal/service"
)

// Formats accepted by the list command.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// FormatTask formats a task line of the list.
// Format: "{N:>4}  {TEXT}\n" (4-wide right-aligned position, two spaces, text)
func FormatTask(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %s\n", num, NormalizeText(task.Text))
}

// FormatTasks writes the tasks in the given format. Text output numbers the
// tasks from 1 in snapshot order.
func FormatTasks(w io.Writer, format string, tasks []service.Task) error {
	switch format {
	case FormatText, "":
		for i, task := range tasks {
			FormatTask(w, i+1, task)
		}
		return nil
	case FormatJSON:
		if tasks == nil {
			tasks = []service.Task{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tasks)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// NormalizeText normalizes a task text for single line display.
// - Empty or whitespace-only texts become "(untitled)"
// - Newlines are replaced with spaces
func NormalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.ReplaceAll(text, "\n", " ")

	if strings.TrimSpace(text) == "" {
		return "(untitled)"
	}
	return text
}
