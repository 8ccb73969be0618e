// Package shell implements the interactive numbered menu.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nibzard/taskmate-go/internal/recommend"
	"github.com/nibzard/taskmate-go/internal/todo"
)

// Tasks is the set of operations the menu drives. *app.App satisfies it.
type Tasks interface {
	Add(ctx context.Context, description, priority string) (todo.Task, error)
	Remove(ctx context.Context, description string) (int, error)
	List() []todo.Task
	Recommend() recommend.Result
}

const menu = `
Task Management App
1. Add Task
2. Remove Task
3. List Tasks
4. Recommend Task
5. Exit
`

const (
	msgAdded         = "Task added successfully."
	msgInvalidInput  = "Invalid input. Please enter a valid description and priority."
	msgRemoved       = "Task removed successfully."
	msgNeedDesc      = "Please provide a valid task description."
	msgNoTasks       = "No tasks available."
	msgNoRecTasks    = "No tasks available for recommendations."
	msgNoHighTasks   = "No high-priority tasks available for recommendation."
	msgInvalidOption = "Invalid option. Please select a valid number (1-5)."
	msgGoodbye       = "Goodbye!"
)

// Shell reads menu choices from in and writes prompts and results to out.
type Shell struct {
	tasks Tasks
	in    *bufio.Reader
	out   io.Writer
}

// New returns a shell over tasks.
func New(tasks Tasks, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		tasks: tasks,
		in:    bufio.NewReader(in),
		out:   out,
	}
}

// Run loops until the user picks Exit, input ends, or ctx is cancelled.
// Exit and end of input return nil.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(s.out, menu)
		choice, err := s.prompt(ctx, "Select an option: ")
		if err != nil {
			return s.eof(err)
		}

		switch strings.TrimSpace(choice) {
		case "1":
			err = s.add(ctx)
		case "2":
			err = s.remove(ctx)
		case "3":
			s.list()
		case "4":
			s.recommend()
		case "5":
			fmt.Fprintln(s.out, msgGoodbye)
			return nil
		default:
			fmt.Fprintln(s.out, msgInvalidOption)
		}
		if err != nil {
			return s.eof(err)
		}
	}
}

func (s *Shell) add(ctx context.Context) error {
	desc, err := s.prompt(ctx, "Enter task description: ")
	if err != nil {
		return err
	}
	prio, err := s.prompt(ctx, "Enter task priority (Low/Medium/High): ")
	if err != nil {
		return err
	}

	if _, err := s.tasks.Add(ctx, desc, prio); err != nil {
		if errors.Is(err, todo.ErrEmptyDescription) ||
			errors.Is(err, todo.ErrMultilineDescription) ||
			errors.Is(err, todo.ErrInvalidPriority) {
			fmt.Fprintln(s.out, msgInvalidInput)
			return nil
		}
		return err
	}
	fmt.Fprintln(s.out, msgAdded)
	return nil
}

func (s *Shell) remove(ctx context.Context) error {
	desc, err := s.prompt(ctx, "Enter task description to remove: ")
	if err != nil {
		return err
	}
	if _, err := s.tasks.Remove(ctx, desc); err != nil {
		if errors.Is(err, todo.ErrEmptyDescription) {
			fmt.Fprintln(s.out, msgNeedDesc)
			return nil
		}
		return err
	}
	fmt.Fprintln(s.out, msgRemoved)
	return nil
}

func (s *Shell) list() {
	WriteList(s.out, s.tasks.List())
}

func (s *Shell) recommend() {
	WriteRecommendation(s.out, s.tasks.Recommend())
}

type readResult struct {
	line string
	err  error
}

// prompt writes label and reads one line without its line ending.
// A final line without a newline is returned before io.EOF. Cancelling ctx
// abandons the pending read.
func (s *Shell) prompt(ctx context.Context, label string) (string, error) {
	fmt.Fprint(s.out, label)
	ch := make(chan readResult, 1)
	go func() {
		line, err := s.in.ReadString('\n')
		ch <- readResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		if r.err != nil && !(errors.Is(r.err, io.EOF) && r.line != "") {
			return "", r.err
		}
		return strings.TrimRight(r.line, "\r\n"), nil
	}
}

// eof ends the session quietly when input is exhausted.
func (s *Shell) eof(err error) error {
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(s.out)
		fmt.Fprintln(s.out, msgGoodbye)
		return nil
	}
	return err
}

// WriteList prints the numbered task listing.
func WriteList(w io.Writer, tasks []todo.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, msgNoTasks)
		return
	}
	fmt.Fprintln(w, "\nCurrent Tasks:")
	for i, t := range tasks {
		fmt.Fprintf(w, "%d. %s - Priority: %s\n", i+1, t.Description, t.Priority)
	}
}

// WriteRecommendation prints a recommendation or the reason there is none.
func WriteRecommendation(w io.Writer, res recommend.Result) {
	switch res.Reason {
	case recommend.Found:
		fmt.Fprintf(w, "\nRecommended task: %s - Priority: High\n", res.Task.Description)
	case recommend.NoHighPriority:
		fmt.Fprintln(w, "\n"+msgNoHighTasks)
	default:
		fmt.Fprintln(w, "\n"+msgNoRecTasks)
	}
}
