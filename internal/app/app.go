// Package app ties the task store, priority classifier and recommender
// together behind one handle. Every front end (menu, TUI, subcommands) goes
// through an *App instead of sharing package state.
package app

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskmate-go/internal/classifier"
	"github.com/nibzard/taskmate-go/internal/config"
	"github.com/nibzard/taskmate-go/internal/hooks"
	"github.com/nibzard/taskmate-go/internal/logging"
	"github.com/nibzard/taskmate-go/internal/recommend"
	"github.com/nibzard/taskmate-go/internal/todo"
)

// Option configures an App.
type Option func(*App)

// WithLogger sets the diagnostics logger.
func WithLogger(logger *log.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithRecommender replaces the default recommender.
func WithRecommender(r *recommend.Recommender) Option {
	return func(a *App) {
		a.rec = r
	}
}

// WithHookOutput redirects hook stdout and stderr.
func WithHookOutput(w io.Writer) Option {
	return func(a *App) {
		a.hookOut = w
	}
}

// App owns the task list and the classifier trained from it.
// It is not safe for concurrent use.
type App struct {
	store   *todo.Store
	clf     *classifier.Classifier
	rec     *recommend.Recommender
	logger  *log.Logger
	hookOut io.Writer

	retrainOnChange bool
	hookCommand     string
}

// New loads the task file named by cfg and trains the classifier once.
// A missing task file is an empty list; a malformed one is an error.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	a := &App{
		clf:             classifier.New(),
		rec:             recommend.New(),
		retrainOnChange: cfg.RetrainOnChange,
		hookCommand:     cfg.HookCommand,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = logging.Discard()
	}

	store, err := todo.Open(cfg.TaskFile)
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	a.store = store
	a.logger.Debug("Loaded tasks", "path", store.Path(), "count", store.Len())

	a.Retrain()
	return a, nil
}

// Path returns the task file path.
func (a *App) Path() string {
	return a.store.Path()
}

// Retrain fits the classifier on the current tasks. Skips and failures are
// logged as warnings and leave the classifier disabled.
func (a *App) Retrain() classifier.Outcome {
	tasks := a.store.List()
	outcome, err := a.clf.Train(tasks)
	switch outcome {
	case classifier.OutcomeSkipped:
		a.logger.Warn("Not enough data to train the priority classifier", "tasks", len(tasks))
	case classifier.OutcomeFailed:
		a.logger.Warn("Priority classifier training failed", "err", err)
	case classifier.OutcomeTrained:
		a.logger.Debug("Priority classifier trained", "tasks", len(tasks))
	}
	return outcome
}

// ClassifierReady reports whether predictions are available.
func (a *App) ClassifierReady() bool {
	return a.clf.Ready()
}

// Add validates the input, appends the task and saves.
// The description is trimmed and the priority capitalized.
func (a *App) Add(ctx context.Context, description, priority string) (todo.Task, error) {
	task, err := todo.ValidateInput(description, priority)
	if err != nil {
		return todo.Task{}, err
	}
	if err := a.store.Add(task.Description, task.Priority); err != nil {
		return todo.Task{}, fmt.Errorf("adding task: %w", err)
	}
	a.logger.Debug("Task added", "description", task.Description, "priority", task.Priority)

	a.afterChange(ctx, hooks.Event{
		Action:      hooks.ActionAdd,
		Description: task.Description,
		Priority:    task.Priority,
	})
	return task, nil
}

// Remove deletes every task whose description equals the trimmed argument
// and saves. It returns how many tasks matched; zero is not an error.
func (a *App) Remove(ctx context.Context, description string) (int, error) {
	desc := strings.TrimSpace(description)
	if desc == "" {
		return 0, todo.ErrEmptyDescription
	}
	removed, err := a.store.Remove(desc)
	if err != nil {
		return 0, fmt.Errorf("removing task: %w", err)
	}
	a.logger.Debug("Tasks removed", "description", desc, "count", removed)

	a.afterChange(ctx, hooks.Event{
		Action:      hooks.ActionRemove,
		Description: desc,
	})
	return removed, nil
}

// List returns the tasks in insertion order.
func (a *App) List() []todo.Task {
	return a.store.List()
}

// Recommend picks a High priority task at random from the stored labels.
// The classifier is not consulted.
func (a *App) Recommend() recommend.Result {
	return a.rec.Recommend(a.store.List())
}

// Prediction is a classifier guess for a description.
type Prediction struct {
	Priority      todo.Priority
	Probabilities map[todo.Priority]float64
}

// Predict asks the classifier for the likely priority of description.
// It returns classifier.ErrNotTrained when training was skipped or failed.
func (a *App) Predict(description string) (Prediction, error) {
	p, err := a.clf.Predict(description)
	if err != nil {
		return Prediction{}, err
	}
	probs, err := a.clf.Probabilities(description)
	if err != nil {
		return Prediction{}, err
	}
	return Prediction{Priority: p, Probabilities: probs}, nil
}

// Import appends the tasks from a JSON task list and saves once.
func (a *App) Import(ctx context.Context, r io.Reader) (int, error) {
	tasks, result, err := todo.Import(r)
	if result != nil {
		for _, w := range result.Warnings {
			a.logger.Warn(w)
		}
	}
	if err != nil {
		return 0, err
	}
	if err := a.store.Append(tasks...); err != nil {
		return 0, fmt.Errorf("importing tasks: %w", err)
	}
	a.logger.Debug("Tasks imported", "count", len(tasks))

	for _, t := range tasks {
		a.runHook(ctx, hooks.Event{Action: hooks.ActionAdd, Description: t.Description, Priority: t.Priority})
	}
	if a.retrainOnChange {
		a.Retrain()
	}
	return len(tasks), nil
}

// Export writes the tasks to w.
func (a *App) Export(w io.Writer, format todo.Format) error {
	return todo.Export(w, a.store.List(), format)
}

// Reload rereads the task file. The classifier is retrained only when
// retrain_on_change is set.
func (a *App) Reload() error {
	if err := a.store.Load(); err != nil {
		return err
	}
	if a.retrainOnChange {
		a.Retrain()
	}
	return nil
}

func (a *App) afterChange(ctx context.Context, ev hooks.Event) {
	a.runHook(ctx, ev)
	if a.retrainOnChange {
		a.Retrain()
	}
}

func (a *App) runHook(ctx context.Context, ev hooks.Event) {
	if a.hookCommand == "" {
		return
	}
	ev.TaskFile = a.store.Path()
	opts := hooks.Options{
		Command: a.hookCommand,
		WorkDir: filepath.Dir(a.store.Path()),
		Stdout:  a.hookOut,
		Stderr:  a.hookOut,
	}
	result, err := hooks.Invoke(ctx, opts, ev)
	if err != nil {
		a.logger.Warn("Hook failed", "command", a.hookCommand, "exit_code", result.ExitCode, "err", err)
		return
	}
	a.logger.Debug("Hook ran", "command", result.Command)
}
