// Package recommend picks a task to work on next.
package recommend

import (
	"math/rand/v2"

	"github.com/nibzard/taskmate-go/internal/todo"
)

// Reason explains a recommendation result.
type Reason int

const (
	// Found means a task was selected.
	Found Reason = iota
	// NoTasks means the task list is empty.
	NoTasks
	// NoHighPriority means no task is labeled High.
	NoHighPriority
)

func (r Reason) String() string {
	switch r {
	case Found:
		return "found"
	case NoTasks:
		return "no tasks"
	case NoHighPriority:
		return "no high-priority tasks"
	default:
		return "unknown"
	}
}

// Result is the outcome of a recommendation.
type Result struct {
	Task       todo.Task
	Reason     Reason
	Candidates int // number of High tasks considered
}

// OK reports whether a task was recommended.
func (r Result) OK() bool {
	return r.Reason == Found
}

// Option configures a Recommender.
type Option func(*Recommender)

// WithRand sets the random source. Intended for tests.
func WithRand(r *rand.Rand) Option {
	return func(rec *Recommender) {
		rec.intN = r.IntN
	}
}

// Recommender selects a High priority task uniformly at random.
// It reads priorities as stored and never consults a classifier.
type Recommender struct {
	intN func(n int) int
}

// New returns a Recommender using the global random source.
func New(opts ...Option) *Recommender {
	r := &Recommender{intN: rand.IntN}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// HighPriority returns the tasks labeled High, ignoring case, in order.
func HighPriority(tasks []todo.Task) []todo.Task {
	var out []todo.Task
	for _, t := range tasks {
		if t.IsHigh() {
			out = append(out, t)
		}
	}
	return out
}

// Recommend draws one High priority task. An empty list or a list without
// High tasks is a normal result, not an error.
func (r *Recommender) Recommend(tasks []todo.Task) Result {
	if len(tasks) == 0 {
		return Result{Reason: NoTasks}
	}
	high := HighPriority(tasks)
	if len(high) == 0 {
		return Result{Reason: NoHighPriority}
	}
	return Result{
		Task:       high[r.intN(len(high))],
		Reason:     Found,
		Candidates: len(high),
	}
}
