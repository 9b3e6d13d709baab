package exercise

import (
	"context"
	"html"
	"html/template"
	"log/slog"
	"math/rand/v2"
	"strings"
	"unicode/utf8"
)

const (
	minWordLength      = 3
	maxGapsPerSentence = 2
	tokenSeparator     = " "
)

// Token is one space separated piece of a sentence, either kept as text or
// turned into a gap.
type Token struct {
	Text string
	Gap  *Gap
}

func (t Token) HTML() template.HTML {
	if t.Gap != nil {
		return t.Gap.HTML()
	}
	return template.HTML(html.EscapeString(t.Text))
}

type Sentence struct {
	Tokens []Token
	// Eligible is the number of tokens that could have become a gap.
	Eligible int
}

// Exercise is an article text with gaps.
type Exercise struct {
	Link      string
	Sentences []Sentence
}

// HTML joins all tokens with single spaces. Every token except the very
// first one of the text is preceded by a space, including empty tokens.
func (e *Exercise) HTML() template.HTML {
	var b strings.Builder
	for sn, sentence := range e.Sentences {
		for wn, token := range sentence.Tokens {
			if sn != 0 || wn != 0 {
				b.WriteString(tokenSeparator)
			}
			b.WriteString(string(token.HTML()))
		}
	}
	return template.HTML(b.String())
}

// Gaps returns all gaps in text order.
func (e *Exercise) Gaps() []Gap {
	var gaps []Gap
	for _, sentence := range e.Sentences {
		for _, token := range sentence.Tokens {
			if token.Gap != nil {
				gaps = append(gaps, *token.Gap)
			}
		}
	}
	return gaps
}

// Counts returns the number of tokens, eligible tokens and gaps.
func (e *Exercise) Counts() (tokens, eligible, gaps int) {
	for _, sentence := range e.Sentences {
		tokens += len(sentence.Tokens)
		eligible += sentence.Eligible
		for _, token := range sentence.Tokens {
			if token.Gap != nil {
				gaps++
			}
		}
	}
	return tokens, eligible, gaps
}

// Generator turns article text into an Exercise.
type Generator struct {
	classifier *Classifier
	rng        *rand.Rand
}

func NewGenerator(classifier *Classifier, rng *rand.Rand) *Generator {
	return &Generator{
		classifier: classifier,
		rng:        rng,
	}
}

// Generate gaps one or two randomly chosen eligible words in every sentence.
func (g *Generator) Generate(ctx context.Context, link, text string) *Exercise {
	sentences := SplitSentences(text)
	ex := &Exercise{
		Link:      link,
		Sentences: make([]Sentence, 0, len(sentences)),
	}

	for _, s := range sentences {
		ex.Sentences = append(ex.Sentences, g.gapSentence(ctx, s))
	}
	return ex
}

func (g *Generator) gapSentence(ctx context.Context, sentence string) Sentence {
	words := strings.Split(sentence, tokenSeparator)
	tokens := make([]Token, len(words))
	var candidates []int
	for i, word := range words {
		tokens[i] = Token{Text: word}
		if utf8.RuneCountInString(word) >= minWordLength && g.classifier.Eligible(ctx, word) {
			candidates = append(candidates, i)
		}
	}

	result := Sentence{Tokens: tokens, Eligible: len(candidates)}
	if len(candidates) == 0 {
		return result
	}

	count := 1 + g.rng.IntN(min(len(candidates), maxGapsPerSentence))
	for n := 0; n < count; n++ {
		pick := g.rng.IntN(len(candidates))
		index := candidates[pick]
		candidates = append(candidates[:pick], candidates[pick+1:]...)

		gap := NewGap(words[index], g.rng)
		tokens[index].Gap = &gap
		slog.Default().Debug("gap created", "word", words[index], "answer", gap.Answer)
	}
	return result
}
