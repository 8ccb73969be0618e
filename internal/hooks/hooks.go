// Package hooks invokes an external command after the task list changes.
package hooks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"

	"github.com/nibzard/taskmate-go/internal/todo"
	"github.com/nibzard/taskmate-go/internal/utils"
)

// Action names the change that triggered a hook.
type Action string

const (
	ActionAdd    Action = "add"
	ActionRemove Action = "remove"
)

// Event describes one change to the task list.
type Event struct {
	Action      Action
	Description string
	Priority    todo.Priority // empty for removals
	TaskFile    string
}

// Options configures a hook invocation.
type Options struct {
	Command string
	WorkDir string
	Stdout  io.Writer // defaults to os.Stdout
	Stderr  io.Writer // defaults to os.Stderr
}

// Result captures the outcome of a hook invocation.
type Result struct {
	Ran      bool
	Command  []string
	ExitCode int
}

// Invoke runs the hook command as: <command> <action> <description> <priority>.
// The task file path is exported as TASKMATE_TASK_FILE. An empty command is a
// no-op.
func Invoke(ctx context.Context, opts Options, ev Event) (Result, error) {
	if opts.Command == "" {
		return Result{}, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	args := []string{string(ev.Action), ev.Description, string(ev.Priority)}
	cmd := command(ctx, opts.Command, args)
	if opts.WorkDir != "" {
		cmd.Dir = opts.WorkDir
	}
	cmd.Env = append(os.Environ(), "TASKMATE_TASK_FILE="+ev.TaskFile)
	cmd.Stdout = opts.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = opts.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	err := cmd.Run()
	result := Result{
		Ran:      true,
		Command:  cmd.Args,
		ExitCode: exitCodeFromError(err),
	}
	if err != nil {
		return result, fmt.Errorf("hook command failed: %w", err)
	}
	return result, nil
}

// command builds the exec.Cmd. On Windows, scripts without an executable
// extension are run through cmd.exe.
func command(ctx context.Context, name string, args []string) *exec.Cmd {
	if runtime.GOOS == "windows" && !utils.IsWindowsExecutable(name) {
		return exec.CommandContext(ctx, "cmd", append([]string{"/C", name}, args...)...)
	}
	return exec.CommandContext(ctx, name, args...)
}

func exitCodeFromError(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
