package exercise

import (
	"context"
	"math/rand/v2"
	"regexp"
	"strings"
	"testing"

	mock_exercise "github.com/deusflow/lueckentext/internal/mocks/exercise"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type staticDictionary bool

func (d staticDictionary) Contains(context.Context, string) bool {
	return bool(d)
}

var inputName = regexp.MustCompile(`<input[^>]*name="([^"]*)"`)

func newTestGenerator(dict Dictionary, seed uint64) *Generator {
	return NewGenerator(NewClassifier(dict), rand.New(rand.NewPCG(seed, seed)))
}

func TestGenerator_Generate_Example(t *testing.T) {
	ctrl := gomock.NewController(t)
	dict := mock_exercise.NewMockDictionary(ctrl)
	dict.EXPECT().Contains(gomock.Any(), gomock.Any()).Return(true).AnyTimes()

	text := "Die Katze schläft. Der Hund bellt laut!"
	link := "https://www.tagesschau.de/x"
	originalWords := strings.Fields(text)

	ex := newTestGenerator(dict, 42).Generate(context.Background(), link, text)

	assert.Equal(t, link, ex.Link)
	require.Len(t, ex.Sentences, 2)

	body := string(ex.HTML())
	matches := inputName.FindAllStringSubmatch(body, -1)
	require.NotEmpty(t, matches)
	for _, m := range matches {
		name := m[1]
		assert.NotEmpty(t, name)

		found := false
		for _, word := range originalWords {
			if strings.Contains(word, name) {
				found = true
			}
		}
		assert.True(t, found, "answer %q is not part of any word", name)
	}
}

func TestGenerator_Generate_GapsPerSentence(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		dict         staticDictionary
		wantEligible []int
	}{
		{
			name:         "single eligible word",
			text:         "Die Merkel sprach. Ende!",
			dict:         false,
			wantEligible: []int{1, 0},
		},
		{
			name:         "several eligible words",
			text:         "Die Katze schläft heute lange. Der Hund bellt laut!",
			dict:         true,
			wantEligible: []int{5, 4},
		},
		{
			name:         "two letter words are never eligible",
			text:         "Er ist da. Wo bin ich?",
			dict:         true,
			wantEligible: []int{2, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for seed := uint64(0); seed < 30; seed++ {
				ex := newTestGenerator(tt.dict, seed).Generate(context.Background(), "https://example.com", tt.text)
				require.Len(t, ex.Sentences, len(tt.wantEligible))

				for i, sentence := range ex.Sentences {
					assert.Equal(t, tt.wantEligible[i], sentence.Eligible)

					gaps := 0
					for _, token := range sentence.Tokens {
						if token.Gap != nil {
							gaps++
							assert.Greater(t, len([]rune(token.Text)), 2)
							assert.Equal(t, token.Text, token.Gap.Word())
						}
					}

					switch n := sentence.Eligible; {
					case n == 0:
						assert.Equal(t, 0, gaps)
					case n == 1:
						assert.Equal(t, 1, gaps)
					default:
						assert.Contains(t, []int{1, 2}, gaps)
					}
				}
			}
		})
	}
}

func TestGenerator_Generate_SingleCandidateIsGapped(t *testing.T) {
	ex := newTestGenerator(staticDictionary(false), 1).Generate(context.Background(), "", "Die Merkel sprach. Ende!")

	tokens := ex.Sentences[0].Tokens
	require.Len(t, tokens, 4)
	assert.Nil(t, tokens[0].Gap)
	assert.Nil(t, tokens[1].Gap)
	require.NotNil(t, tokens[2].Gap)
	assert.Equal(t, "sprach.", tokens[2].Gap.Word())
}

func TestGenerator_Generate_DictionaryOnlyForTitleCase(t *testing.T) {
	ctrl := gomock.NewController(t)
	dict := mock_exercise.NewMockDictionary(ctrl)
	dict.EXPECT().Contains(gomock.Any(), "Der").Return(false)
	dict.EXPECT().Contains(gomock.Any(), "Hund").Return(true)

	ex := newTestGenerator(dict, 3).Generate(context.Background(), "", "Der Hund bellt!")

	require.Len(t, ex.Sentences, 1)
	assert.Equal(t, 2, ex.Sentences[0].Eligible)
}

func TestExercise_HTML(t *testing.T) {
	ex := newTestGenerator(staticDictionary(false), 1).Generate(context.Background(), "", "ABC DEF. GHI <b>!")

	// the first sentence keeps its trailing space, so sentences meet with two spaces
	assert.Equal(t, "ABC DEF.  GHI &lt;b&gt;!", string(ex.HTML()))
}

func TestExercise_GapsAndCounts(t *testing.T) {
	ex := &Exercise{
		Sentences: []Sentence{
			{
				Tokens: []Token{
					{Text: "Die"},
					{Text: "Katze", Gap: &Gap{Prefix: "Kat", Answer: "ze"}},
					{Text: "schläft.", Gap: &Gap{Prefix: "schl", Answer: "äft", Trailing: "."}},
				},
				Eligible: 3,
			},
			{
				Tokens:   []Token{{Text: "Ja!"}},
				Eligible: 0,
			},
		},
	}

	gaps := ex.Gaps()
	require.Len(t, gaps, 2)
	assert.Equal(t, "ze", gaps[0].Answer)
	assert.Equal(t, "äft", gaps[1].Answer)

	tokens, eligible, gapCount := ex.Counts()
	assert.Equal(t, 4, tokens)
	assert.Equal(t, 3, eligible)
	assert.Equal(t, 2, gapCount)

	body := string(ex.HTML())
	assert.True(t, strings.HasPrefix(body, "Die Kat\n"))
	assert.Equal(t, 2, strings.Count(body, `class="fill_in"`))
}
