package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"todo/internal/service"
)

// idRefPrefix marks a literal task id reference.
const idRefPrefix = "id:"

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Position int    // 1-based position in the snapshot, 0 when ID is set
	ID       string // literal id, empty when Position is set
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses a task reference.
//
// A reference is either a positive position in the listing ("2") or a
// literal id prefixed with "id:" ("id:01HX...", "id:7").
func ParseTaskRef(s string) (TaskRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TaskRef{}, ErrTaskRefRequired
	}

	if id, ok := strings.CutPrefix(s, idRefPrefix); ok {
		if id == "" {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", s)
		}
		return TaskRef{ID: id}, nil
	}

	if !isAllDigits(s) {
		return TaskRef{}, fmt.Errorf("invalid task reference: %s", s)
	}
	num, err := strconv.Atoi(s)
	if err != nil || num < 1 {
		return TaskRef{}, fmt.Errorf("task number out of range: %s", s)
	}
	return TaskRef{Position: num}, nil
}

// String returns the reference as typed by the user.
func (r TaskRef) String() string {
	if r.ID != "" {
		return idRefPrefix + r.ID
	}
	return strconv.Itoa(r.Position)
}

// Resolve finds the referenced task in a snapshot. Ids are compared in their
// path form so a numeric id matches "id:7".
func (r TaskRef) Resolve(tasks []service.Task) (service.Task, error) {
	if r.ID == "" {
		if r.Position < 1 || r.Position > len(tasks) {
			return service.Task{}, fmt.Errorf("task number out of range: %d", r.Position)
		}
		return tasks[r.Position-1], nil
	}

	for _, t := range tasks {
		if t.ID.String() == r.ID {
			return t, nil
		}
	}
	return service.Task{}, fmt.Errorf("task not found: %s", r)
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
