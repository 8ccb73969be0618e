package todo

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	columnDescription = "description"
	columnPriority    = "priority"
)

// Store is the ordered, persisted task list. It is not safe for concurrent use.
type Store struct {
	path  string
	tasks []Task
}

// NewStore returns an empty store backed by path. Nothing is read or written.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Open creates a store for path and loads it.
func Open(path string) (*Store, error) {
	s := NewStore(path)
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the task file path.
func (s *Store) Path() string {
	return s.path
}

// Load replaces the in-memory tasks with the file contents.
// A missing file yields an empty store.
func (s *Store) Load() error {
	exists, err := fileExists(s.path)
	if err != nil {
		return fmt.Errorf("stat task file: %w", err)
	}
	if !exists {
		s.tasks = nil
		return nil
	}

	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("open task file: %w", err)
	}
	defer f.Close()

	tasks, err := Decode(f)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) && pe.Path == "" {
			pe.Path = s.path
		}
		return err
	}
	s.tasks = tasks
	return nil
}

// Save writes every task to the file. The file is replaced atomically.
func (s *Store) Save() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create task dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp task file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := Encode(tmp, s.tasks); err != nil {
		tmp.Close()
		return fmt.Errorf("write task file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp task file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("chmod task file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace task file: %w", err)
	}
	return nil
}

// Add appends a task and saves. The task is not validated.
func (s *Store) Add(description string, priority Priority) error {
	return s.Append(Task{Description: description, Priority: priority})
}

// Append adds tasks in order and saves once. On a failed save the in-memory
// list is left as it was before the call.
func (s *Store) Append(tasks ...Task) error {
	if len(tasks) == 0 {
		return nil
	}
	prev := s.tasks
	next := make([]Task, 0, len(prev)+len(tasks))
	next = append(next, prev...)
	next = append(next, tasks...)
	s.tasks = next
	if err := s.Save(); err != nil {
		s.tasks = prev
		return err
	}
	return nil
}

// Remove deletes every task whose description equals description exactly,
// then saves. It returns the number of tasks removed; zero is not an error.
func (s *Store) Remove(description string) (int, error) {
	return s.RemoveFunc(func(t Task) bool {
		return t.Description == description
	})
}

// RemoveFunc deletes every task for which match returns true, then saves.
func (s *Store) RemoveFunc(match func(Task) bool) (int, error) {
	prev := s.tasks
	kept := make([]Task, 0, len(prev))
	for _, t := range prev {
		if !match(t) {
			kept = append(kept, t)
		}
	}
	removed := len(prev) - len(kept)
	s.tasks = kept
	if err := s.Save(); err != nil {
		s.tasks = prev
		return 0, err
	}
	return removed, nil
}

// List returns a copy of the tasks in insertion order.
func (s *Store) List() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Decode reads a task CSV document. Columns are located by header name, so
// extra columns are ignored and short rows yield empty fields.
func Decode(r io.Reader) ([]Task, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, &ParseError{Line: 1, Err: err}
	}

	descIdx, prioIdx := -1, -1
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		switch strings.ToLower(name) {
		case columnDescription:
			if descIdx < 0 {
				descIdx = i
			}
		case columnPriority:
			if prioIdx < 0 {
				prioIdx = i
			}
		}
	}
	if descIdx < 0 {
		return nil, &ParseError{Line: 1, Err: fmt.Errorf("missing %q column", columnDescription)}
	}
	if prioIdx < 0 {
		return nil, &ParseError{Line: 1, Err: fmt.Errorf("missing %q column", columnPriority)}
	}

	var tasks []Task
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				return nil, &ParseError{Line: csvErr.Line, Err: csvErr.Err}
			}
			return nil, &ParseError{Err: err}
		}
		tasks = append(tasks, Task{
			Description: field(record, descIdx),
			Priority:    Priority(field(record, prioIdx)),
		})
	}
	return tasks, nil
}

// Encode writes tasks as CSV with a description,priority header.
func Encode(w io.Writer, tasks []Task) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{columnDescription, columnPriority}); err != nil {
		return err
	}
	for _, t := range tasks {
		if err := cw.Write([]string{t.Description, string(t.Priority)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func field(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}

func fileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if info.IsDir() {
		return false, fmt.Errorf("%s is a directory", path)
	}
	return true, nil
}
