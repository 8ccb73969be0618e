package todo

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Priority is a task's urgency label.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

var (
	// ErrInvalidPriority is returned for priorities outside Low, Medium and High.
	ErrInvalidPriority = errors.New("invalid priority")
	// ErrEmptyDescription is returned for blank descriptions.
	ErrEmptyDescription = errors.New("description is empty")
	// ErrMultilineDescription is returned for descriptions containing a line
	// break. The CSV reader folds "\r\n" inside a field into "\n", so such
	// descriptions would not survive a reload unchanged.
	ErrMultilineDescription = errors.New("description must be a single line")
)

// Priorities returns the valid priorities from lowest to highest.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// Valid reports whether p is exactly one of the canonical priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

func (p Priority) String() string {
	return string(p)
}

// ParsePriority normalizes s to its capitalized form ("hIGH" -> "High") and
// checks that it names a valid priority.
func ParsePriority(s string) (Priority, error) {
	p := Priority(cases.Title(language.English).String(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w %q, must be one of: Low, Medium, High", ErrInvalidPriority, s)
	}
	return p, nil
}

// Task is a single entry in the task list.
type Task struct {
	Description string   `json:"description" yaml:"description"`
	Priority    Priority `json:"priority" yaml:"priority"`
}

// IsHigh reports whether the task is labeled High, ignoring case.
func (t Task) IsHigh() bool {
	return strings.EqualFold(strings.TrimSpace(string(t.Priority)), string(PriorityHigh))
}

// ValidateInput checks user-provided fields and returns the normalized task.
// The description is trimmed and must be a single line; the priority is
// capitalized.
func ValidateInput(description, priority string) (Task, error) {
	desc := strings.TrimSpace(description)
	if desc == "" {
		return Task{}, ErrEmptyDescription
	}
	if strings.ContainsAny(desc, "\r\n") {
		return Task{}, ErrMultilineDescription
	}
	p, err := ParsePriority(priority)
	if err != nil {
		return Task{}, err
	}
	return Task{Description: desc, Priority: p}, nil
}

// ParseError reports a malformed task file.
type ParseError struct {
	Path string // File path, if known
	Line int    // 1-based line number, 0 if unknown
	Err  error  // Underlying error
}

func (e *ParseError) Error() string {
	prefix := "parse task file"
	if e.Path != "" {
		prefix += " " + e.Path
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d: %s", prefix, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
