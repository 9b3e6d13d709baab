package exercise

import (
	"strings"
)

const sentenceSeparator = ". "

// SplitSentences cuts text at ". " and after every '?' and '!'.
//
// Pieces cut at '?' or '!' lose the ". " that followed them. A final piece
// without '?' or '!' is dropped.
func SplitSentences(text string) []string {
	parts := strings.Split(strings.TrimSpace(text), sentenceSeparator)

	var sentences []string
	for i, part := range parts {
		if strings.ContainsAny(part, "?!") {
			start := 0
			for j := 0; j < len(part); j++ {
				if part[j] == '?' || part[j] == '!' {
					sentences = append(sentences, part[start:j+1])
					start = j + 1
				}
			}
			if len(part) > start {
				sentences = append(sentences, part[start:])
			}
			continue
		}

		if i < len(parts)-1 {
			sentences = append(sentences, part+sentenceSeparator)
		}
	}
	return sentences
}
