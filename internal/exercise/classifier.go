package exercise

import (
	"context"
	"unicode"
	"unicode/utf8"
)

//go:generate mockgen -source=classifier.go -destination=../mocks/exercise/mock_dictionary.go -package=mock_exercise Dictionary

// Dictionary tells whether a word exists. Implementations decide how to
// handle lookup failures; Contains has no error result.
type Dictionary interface {
	Contains(ctx context.Context, word string) bool
}

// Classifier decides which words may be turned into gaps.
type Classifier struct {
	dictionary Dictionary
}

func NewClassifier(dictionary Dictionary) *Classifier {
	return &Classifier{dictionary: dictionary}
}

// Eligible accepts words starting with a lower case letter outright. Title
// cased words are accepted only when the dictionary knows them.
func (c *Classifier) Eligible(ctx context.Context, word string) bool {
	first, _ := utf8.DecodeRuneInString(word)
	if unicode.IsLower(first) {
		return true
	}

	core, _, _ := PlainWord(word)
	if !IsTitle(core) {
		return false
	}
	return c.dictionary.Contains(ctx, core)
}
