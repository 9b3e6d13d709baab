package render

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/deusflow/lueckentext/internal/exercise"
)

const embeddedTemplateName = "exercise.html.tmpl"

//go:embed templates/exercise.html.tmpl
var fallbackExerciseTemplate string

type page struct {
	Link string
	Body template.HTML
}

// Renderer writes an exercise as a self-contained HTML page that grades the
// gaps in the browser.
type Renderer struct {
	tmpl *template.Template
}

// New parses templatePath when it exists and falls back to the embedded
// template otherwise.
func New(templatePath string) (*Renderer, error) {
	tmpl, err := parseTemplateWithFallback(templatePath)
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl}, nil
}

func (r *Renderer) Render(w io.Writer, ex *exercise.Exercise) error {
	if err := r.tmpl.Execute(w, page{Link: ex.Link, Body: ex.HTML()}); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}

func parseTemplateWithFallback(templatePath string) (*template.Template, error) {
	if templatePath != "" {
		if _, err := os.Stat(templatePath); err == nil {
			tmpl, err := template.New(filepath.Base(templatePath)).ParseFiles(templatePath)
			if err == nil {
				return tmpl, nil
			}
			slog.Default().Warn("failed to parse a templatePath",
				slog.String("templatePath", templatePath),
				slog.Any("error", err),
			)
		} else {
			slog.Default().Warn("template not found, using the embedded one",
				slog.String("templatePath", templatePath),
				slog.Any("error", err),
			)
		}
	}

	tmpl, err := template.New(embeddedTemplateName).Parse(fallbackExerciseTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded template: %w", err)
	}
	return tmpl, nil
}
