package classifier

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nibzard/taskmate-go/internal/todo"
)

var (
	// ErrNotTrained is returned by Predict when no model is present.
	ErrNotTrained = errors.New("classifier is not trained")
	// ErrMissingLabel is returned when a training task has no priority.
	ErrMissingLabel = errors.New("task has no priority label")
	// ErrMissingDescription is returned when a training task has an empty
	// description while others do not.
	ErrMissingDescription = errors.New("task has no description")
)

// Outcome describes what Train did.
type Outcome int

const (
	OutcomeSkipped Outcome = iota
	OutcomeFailed
	OutcomeTrained
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	case OutcomeTrained:
		return "trained"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Classifier predicts a task priority from its description.
// The zero value is an untrained classifier.
type Classifier struct {
	vec       *Vectorizer
	nb        *NaiveBayes
	trainedOn int
}

// New returns an untrained classifier.
func New() *Classifier {
	return &Classifier{}
}

// HasTrainingData reports whether tasks contains at least one non-blank
// description.
func HasTrainingData(tasks []todo.Task) bool {
	for _, t := range tasks {
		if strings.TrimSpace(t.Description) != "" {
			return true
		}
	}
	return false
}

// Train fits a new model on tasks, replacing any previous one. It returns
// OutcomeSkipped with a nil error when there is nothing to learn from, and
// OutcomeFailed with the cause when fitting fails. In both cases the
// classifier is left untrained.
//
// An empty description is a missing value and fails the fit. A description
// of only whitespace is a document without tokens and is kept.
func (c *Classifier) Train(tasks []todo.Task) (Outcome, error) {
	c.reset()
	if !HasTrainingData(tasks) {
		return OutcomeSkipped, nil
	}

	docs := make([]string, len(tasks))
	labels := make([]string, len(tasks))
	for i, t := range tasks {
		if t.Description == "" {
			return OutcomeFailed, fmt.Errorf("task %d: %w", i+1, ErrMissingDescription)
		}
		label := strings.TrimSpace(string(t.Priority))
		if label == "" {
			return OutcomeFailed, fmt.Errorf("task %d (%q): %w", i+1, t.Description, ErrMissingLabel)
		}
		docs[i] = t.Description
		labels[i] = label
	}

	vec := &Vectorizer{}
	if err := vec.Fit(docs); err != nil {
		return OutcomeFailed, err
	}
	x := make([]Vector, len(docs))
	for i, doc := range docs {
		x[i] = vec.Transform(doc)
	}

	nb := &NaiveBayes{Alpha: DefaultAlpha}
	if err := nb.Fit(x, labels, vec.Len()); err != nil {
		return OutcomeFailed, err
	}

	c.vec = vec
	c.nb = nb
	c.trainedOn = len(tasks)
	return OutcomeTrained, nil
}

// Ready reports whether a model is present.
func (c *Classifier) Ready() bool {
	return c != nil && c.nb != nil && c.vec != nil
}

// TrainedOn returns the number of tasks the current model was fitted on.
func (c *Classifier) TrainedOn() int {
	if !c.Ready() {
		return 0
	}
	return c.trainedOn
}

// Predict returns the most likely priority for description.
func (c *Classifier) Predict(description string) (todo.Priority, error) {
	if !c.Ready() {
		return "", ErrNotTrained
	}
	return todo.Priority(c.nb.Predict(c.vec.Transform(description))), nil
}

// Probabilities returns the posterior probability of each known priority.
func (c *Classifier) Probabilities(description string) (map[todo.Priority]float64, error) {
	if !c.Ready() {
		return nil, ErrNotTrained
	}
	probs := c.nb.Probabilities(c.vec.Transform(description))
	out := make(map[todo.Priority]float64, len(probs))
	for label, p := range probs {
		out[todo.Priority(label)] = p
	}
	return out, nil
}

func (c *Classifier) reset() {
	c.vec = nil
	c.nb = nil
	c.trainedOn = 0
}
