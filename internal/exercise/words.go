package exercise

import (
	"fmt"
	"html"
	"html/template"
	"math/rand/v2"
	"strings"
	"unicode"
)

const (
	leadingPunctuation  = `'"(`
	trailingPunctuation = `.,?!":;')`
)

// PlainWord strips quotes and brackets from the front and sentence
// punctuation from the back of word. leading+core+trailing == word.
func PlainWord(word string) (core, leading, trailing string) {
	rest := strings.TrimLeft(word, leadingPunctuation)
	leading = word[:len(word)-len(rest)]
	core = strings.TrimRight(rest, trailingPunctuation)
	trailing = rest[len(core):]
	return core, leading, trailing
}

// IsTitle reports whether s is title cased: it has at least one cased
// letter, upper case letters only follow uncased characters and lower case
// letters only follow cased ones. "Hund" and "Baden-Württemberg" are title
// cased, "USA" and "McDonald" are not.
func IsTitle(s string) bool {
	cased := false
	prevCased := false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r) || unicode.IsTitle(r):
			if prevCased {
				return false
			}
			prevCased = true
			cased = true
		case unicode.IsLower(r):
			if !prevCased {
				return false
			}
			prevCased = true
			cased = true
		default:
			prevCased = false
		}
	}
	return cased
}

// Gap is a word whose second half has to be filled in.
type Gap struct {
	Leading  string
	Prefix   string
	Answer   string
	Trailing string
}

// NewGap hides roughly the second half of word's letters. The split point is
// len/2 or len/2+1, chosen at random and capped at the word length, so very
// short words may end up with an empty answer.
func NewGap(word string, rng *rand.Rand) Gap {
	core, leading, trailing := PlainWord(word)
	letters := []rune(core)

	split := len(letters)/2 + rng.IntN(2)
	if split > len(letters) {
		split = len(letters)
	}

	return Gap{
		Leading:  leading,
		Prefix:   string(letters[:split]),
		Answer:   string(letters[split:]),
		Trailing: trailing,
	}
}

// Word returns the original word.
func (g Gap) Word() string {
	return g.Leading + g.Prefix + g.Answer + g.Trailing
}

const gapInput = `
    <input type="text" class="fill_in" style="width: 60px;" name="%s">
`

// HTML renders the gap with an input field whose name holds the answer.
func (g Gap) HTML() template.HTML {
	return template.HTML(html.EscapeString(g.Leading) +
		html.EscapeString(g.Prefix) +
		fmt.Sprintf(gapInput, html.EscapeString(g.Answer)) +
		html.EscapeString(g.Trailing))
}
