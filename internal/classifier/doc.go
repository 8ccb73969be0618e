// Package classifier predicts task priority from description text.
//
// Descriptions are turned into word counts by a Vectorizer (lowercased,
// tokens of two or more letters, digits or underscores) and fed to a
// multinomial naive Bayes model with Laplace smoothing. A Classifier wraps
// both and is trained from a snapshot of the task list.
//
// Training is skipped, without error, when there are no tasks or every
// description is blank. Other fit failures return an error and leave the
// classifier untrained.
package classifier
