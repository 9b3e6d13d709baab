package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/deusflow/lueckentext/internal/retry"
	"resty.dev/v3"
)

// ErrInvalidArticle matches every InvalidArticleError.
var ErrInvalidArticle = errors.New("article container not found")

// InvalidArticleError is returned when a page has none of the configured
// article containers.
type InvalidArticleError struct {
	URL string
}

func (e *InvalidArticleError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidArticle.Error(), e.URL)
}

func (e *InvalidArticleError) Is(target error) bool {
	return target == ErrInvalidArticle
}

// Article is the extracted body text of a news page
type Article struct {
	URL  string
	Text string
}

// Selector is a CSS selector pair: the article container and the paragraphs
// inside it.
type Selector struct {
	Container string
	Paragraph string
}

// DefaultSelectors cover the old and the current tagesschau.de article markup.
var DefaultSelectors = []Selector{
	{Container: "div.section.sectionZ.sectionArticle", Paragraph: "p.text.small"},
	{Container: "article", Paragraph: "p.textabsatz"},
}

type Extractor struct {
	client    *resty.Client
	selectors []Selector
	retry     retry.RetryConfig
}

func NewExtractor(client *resty.Client, selectors []Selector, retryConfig retry.RetryConfig) *Extractor {
	if client == nil {
		client = resty.New()
	}
	if len(selectors) == 0 {
		selectors = DefaultSelectors
	}
	return &Extractor{
		client:    client,
		selectors: selectors,
		retry:     retryConfig,
	}
}

// Extract downloads url and returns its article text.
func (e *Extractor) Extract(ctx context.Context, url string) (*Article, error) {
	var body string
	err := retry.WithRetry(ctx, e.retry, func() error {
		resp, err := e.client.R().SetContext(ctx).Get(url)
		if err != nil {
			return fmt.Errorf("error loading page: %w", err)
		}
		if resp.IsError() {
			err := fmt.Errorf("HTTP error: %d", resp.StatusCode())
			if resp.StatusCode() < 500 {
				return retry.Permanent(err)
			}
			return err
		}
		body = resp.String()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch article %s: %w", url, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error parsing HTML: %w", err)
	}

	text, ok := ExtractText(doc, e.selectors)
	if !ok {
		return nil, &InvalidArticleError{URL: url}
	}

	slog.Default().Debug("article extracted", "url", url, "chars", len([]rune(text)))
	return &Article{URL: url, Text: text}, nil
}

// ExtractText removes scripts and styles and collects the paragraphs of the
// first container found. false means no selector matched a container.
func ExtractText(doc *goquery.Document, selectors []Selector) (string, bool) {
	doc.Find("script, style").Remove()

	for _, selector := range selectors {
		container := doc.Find(selector.Container).First()
		if container.Length() == 0 {
			continue
		}

		var b strings.Builder
		container.Find(selector.Paragraph).Each(func(i int, s *goquery.Selection) {
			if text := cleanParagraph(s.Text()); text != "" {
				b.WriteString(" ")
				b.WriteString(text)
			}
		})
		return b.String(), true
	}
	return "", false
}

// cleanParagraph trims every line, breaks runs of double spaces apart and
// joins the remaining chunks with single spaces.
func cleanParagraph(text string) string {
	var chunks []string
	for _, line := range strings.Split(text, "\n") {
		for _, phrase := range strings.Split(strings.TrimSpace(line), "  ") {
			if phrase = strings.TrimSpace(phrase); phrase != "" {
				chunks = append(chunks, phrase)
			}
		}
	}
	return strings.ReplaceAll(strings.Join(chunks, " "), "|", "")
}
