package rss

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"strings"

	"github.com/mmcdole/gofeed"
	"gopkg.in/yaml.v3"
)

// ErrNoArticle means no feed entry links to an article of the expected domain.
var ErrNoArticle = errors.New("no article link found in feeds")

// FeedSource is a feed plus the domain its article links must belong to.
type FeedSource struct {
	URL    string `yaml:"url"`
	Domain string `yaml:"domain"`
}

// FeedsConfig is YAML config structure
// feeds:
//   - url: https://...
//     domain: example.com
type FeedsConfig struct {
	Feeds []FeedSource `yaml:"feeds"`
}

// LoadFeeds reads the feed list from a YAML file
func LoadFeeds(path string) ([]FeedSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg FeedsConfig
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	for i, feed := range cfg.Feeds {
		if feed.URL == "" || feed.Domain == "" {
			return nil, fmt.Errorf("feed #%d in %s needs url and domain", i+1, path)
		}
	}
	return cfg.Feeds, nil
}

type Reader struct {
	parser *gofeed.Parser
}

func NewReader(httpClient *http.Client, userAgent string) *Reader {
	parser := gofeed.NewParser()
	parser.Client = httpClient
	parser.UserAgent = userAgent
	return &Reader{parser: parser}
}

// FetchLinks downloads all feeds and returns the article links matching each
// feed's domain together with the number of entries seen. Broken feeds are
// skipped; an error is returned only when every feed failed.
func (r *Reader) FetchLinks(ctx context.Context, sources []FeedSource) ([]string, int, error) {
	var links []string
	entries := 0
	successCount := 0
	var lastErr error

	for _, source := range sources {
		feed, err := r.parser.ParseURLWithContext(source.URL, ctx)
		if err != nil {
			slog.Default().Warn("error parsing feed", "url", source.URL, "error", err)
			lastErr = err
			continue
		}
		successCount++
		entries += len(feed.Items)

		found := ArticleLinks(feed, source.Domain)
		links = append(links, found...)
		slog.Default().Info("loaded feed",
			"url", source.URL,
			"entries", len(feed.Items),
			"articles", len(found))
	}

	if successCount == 0 && lastErr != nil {
		return nil, entries, fmt.Errorf("fetch feeds: %w", lastErr)
	}
	return links, entries, nil
}

// ArticleLinks returns the first link of every entry that contains domain.
func ArticleLinks(feed *gofeed.Feed, domain string) []string {
	var links []string
	for _, item := range feed.Items {
		link := item.Link
		if link == "" && len(item.Links) > 0 {
			link = item.Links[0]
		}
		if link != "" && strings.Contains(link, domain) {
			links = append(links, link)
		}
	}
	return links
}

// PickRandomLink chooses one link uniformly; false when links is empty.
func PickRandomLink(links []string, rng *rand.Rand) (string, bool) {
	if len(links) == 0 {
		return "", false
	}
	return links[rng.IntN(len(links))], true
}
