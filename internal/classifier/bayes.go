package classifier

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// DefaultAlpha is the additive smoothing parameter.
const DefaultAlpha = 1.0

// NaiveBayes is a multinomial naive Bayes model over count vectors.
type NaiveBayes struct {
	Alpha float64

	classes       []string
	logPrior      []float64
	logLikelihood [][]float64 // [class][feature]
}

// Fit estimates class priors and smoothed per-class term probabilities.
func (nb *NaiveBayes) Fit(x []Vector, y []string, nFeatures int) error {
	if len(x) != len(y) {
		return fmt.Errorf("fit: %d samples but %d labels", len(x), len(y))
	}
	if len(x) == 0 {
		return errors.New("fit: no samples")
	}
	if nFeatures <= 0 {
		return errors.New("fit: no features")
	}
	alpha := nb.Alpha
	if alpha < 0 {
		return fmt.Errorf("fit: alpha must be non-negative, got %g", alpha)
	}

	classIdx := make(map[string]int)
	for _, label := range y {
		classIdx[label] = 0
	}
	classes := make([]string, 0, len(classIdx))
	for label := range classIdx {
		classes = append(classes, label)
	}
	sort.Strings(classes)
	for i, label := range classes {
		classIdx[label] = i
	}

	classCount := make([]float64, len(classes))
	featureCount := make([][]float64, len(classes))
	for i := range featureCount {
		featureCount[i] = make([]float64, nFeatures)
	}
	for i, vec := range x {
		c := classIdx[y[i]]
		classCount[c]++
		for f, n := range vec {
			if f < 0 || f >= nFeatures {
				return fmt.Errorf("fit: feature index %d out of range", f)
			}
			featureCount[c][f] += float64(n)
		}
	}

	total := float64(len(x))
	logPrior := make([]float64, len(classes))
	logLikelihood := make([][]float64, len(classes))
	for c := range classes {
		logPrior[c] = math.Log(classCount[c] / total)

		var sum float64
		for _, n := range featureCount[c] {
			sum += n + alpha
		}
		row := make([]float64, nFeatures)
		for f, n := range featureCount[c] {
			row[f] = math.Log((n + alpha) / sum)
		}
		logLikelihood[c] = row
	}

	nb.classes = classes
	nb.logPrior = logPrior
	nb.logLikelihood = logLikelihood
	return nil
}

// Classes returns the labels seen during Fit, sorted.
func (nb *NaiveBayes) Classes() []string {
	out := make([]string, len(nb.classes))
	copy(out, nb.classes)
	return out
}

// Predict returns the most likely label for x. Ties go to the label that
// sorts first.
func (nb *NaiveBayes) Predict(x Vector) string {
	scores := nb.jointLogLikelihood(x)
	best := 0
	for c := 1; c < len(scores); c++ {
		if scores[c] > scores[best] {
			best = c
		}
	}
	return nb.classes[best]
}

// Probabilities returns the posterior probability of every label for x.
func (nb *NaiveBayes) Probabilities(x Vector) map[string]float64 {
	scores := nb.jointLogLikelihood(x)
	maxScore := math.Inf(-1)
	for _, s := range scores {
		if s > maxScore {
			maxScore = s
		}
	}
	var sum float64
	exp := make([]float64, len(scores))
	for c, s := range scores {
		exp[c] = math.Exp(s - maxScore)
		sum += exp[c]
	}
	out := make(map[string]float64, len(scores))
	for c, label := range nb.classes {
		out[label] = exp[c] / sum
	}
	return out
}

func (nb *NaiveBayes) jointLogLikelihood(x Vector) []float64 {
	scores := make([]float64, len(nb.classes))
	for c := range nb.classes {
		s := nb.logPrior[c]
		for f, n := range x {
			s += float64(n) * nb.logLikelihood[c][f]
		}
		scores[c] = s
	}
	return scores
}
