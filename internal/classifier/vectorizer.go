package classifier

import (
	"errors"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrEmptyVocabulary is returned when no document contains a usable token.
var ErrEmptyVocabulary = errors.New("empty vocabulary; perhaps the documents only contain stop words or single characters")

// minTokenLen is the shortest token kept, in runes.
const minTokenLen = 2

// Tokenize lowercases text and splits it into word tokens.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
	})
	tokens := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= minTokenLen {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// Vector is a sparse term-count vector keyed by vocabulary index.
type Vector map[int]int

// Vectorizer maps documents to bag-of-words count vectors.
type Vectorizer struct {
	index map[string]int
	terms []string
}

// Fit builds the vocabulary from docs. Terms are indexed in sorted order.
func (v *Vectorizer) Fit(docs []string) error {
	seen := make(map[string]struct{})
	for _, doc := range docs {
		for _, tok := range Tokenize(doc) {
			seen[tok] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return ErrEmptyVocabulary
	}

	terms := make([]string, 0, len(seen))
	for term := range seen {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	index := make(map[string]int, len(terms))
	for i, term := range terms {
		index[term] = i
	}
	v.terms = terms
	v.index = index
	return nil
}

// Transform counts the known terms in doc. Unknown terms are dropped.
func (v *Vectorizer) Transform(doc string) Vector {
	vec := make(Vector)
	for _, tok := range Tokenize(doc) {
		if i, ok := v.index[tok]; ok {
			vec[i]++
		}
	}
	return vec
}

// Vocabulary returns the fitted terms in index order.
func (v *Vectorizer) Vocabulary() []string {
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}

// Len returns the vocabulary size.
func (v *Vectorizer) Len() int {
	return len(v.terms)
}
