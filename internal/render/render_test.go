package render

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/deusflow/lueckentext/internal/exercise"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const link = "https://www.tagesschau.de/inland/artikel-100.html"

func newExercise() *exercise.Exercise {
	return &exercise.Exercise{
		Link: link,
		Sentences: []exercise.Sentence{
			{
				Tokens: []exercise.Token{
					{Text: "Die"},
					{Text: "Katze", Gap: &exercise.Gap{Prefix: "Kat", Answer: "ze"}},
					{Text: "schläft. "},
				},
				Eligible: 2,
			},
			{
				Tokens: []exercise.Token{
					{Text: "Der"},
					{Text: "Hund"},
					{Text: `"bellt"!`, Gap: &exercise.Gap{Leading: `"`, Prefix: "bel", Answer: "lt", Trailing: `"!`}},
				},
				Eligible: 1,
			},
		},
	}
}

func TestRenderer_Render(t *testing.T) {
	renderer, err := New("")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, renderer.Render(&buf, newExercise()))
	got := buf.String()

	assert.Equal(t, 2, strings.Count(got, link))
	assert.Contains(t, got, `<a href="`+link+`" target="_blank">`)
	assert.Contains(t, got, "<title>Deutschtest</title>")
	assert.Contains(t, got, "Artikelquelle:")
	assert.Contains(t, got, "Auswerten")
	assert.Contains(t, got, `"% richtig."`)
	assert.Contains(t, got, `"tomato"`)
	assert.Equal(t, 2, strings.Count(got, `class="fill_in"`))
	assert.Contains(t, got, "Die Kat\n    <input type=\"text\" class=\"fill_in\" style=\"width: 60px;\" name=\"ze\">\n schläft.")
	assert.Contains(t, got, `name="lt"`)
}

func TestRenderer_Render_EscapesLink(t *testing.T) {
	renderer, err := New("")
	require.NoError(t, err)

	ex := newExercise()
	ex.Link = `https://www.tagesschau.de/a?x=1&y="2"`

	var buf bytes.Buffer
	require.NoError(t, renderer.Render(&buf, ex))
	assert.NotContains(t, buf.String(), `y="2"`)
}

func TestNew_TemplateOverride(t *testing.T) {
	tests := []struct {
		name     string
		template string
		want     string
	}{
		{
			name:     "custom template",
			template: `<p>{{.Link}}</p>{{.Body}}`,
			want:     "<p>" + link + "</p>Die Kat",
		},
		{
			name:     "broken template falls back",
			template: `<p>{{.Link</p>`,
			want:     "<title>Deutschtest</title>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "exercise.html")
			require.NoError(t, os.WriteFile(path, []byte(tt.template), 0644))

			renderer, err := New(path)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, renderer.Render(&buf, newExercise()))
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestNew_MissingTemplateFallsBack(t *testing.T) {
	renderer, err := New(filepath.Join(t.TempDir(), "missing.html"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, renderer.Render(&buf, newExercise()))
	assert.Contains(t, buf.String(), "Auswerten")
}
