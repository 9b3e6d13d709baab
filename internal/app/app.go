package app

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"math/rand/v2"
	"net/http"
	"slices"

	"github.com/deusflow/lueckentext/internal/config"
	"github.com/deusflow/lueckentext/internal/dictionary"
	"github.com/deusflow/lueckentext/internal/exercise"
	"github.com/deusflow/lueckentext/internal/logger"
	"github.com/deusflow/lueckentext/internal/metrics"
	"github.com/deusflow/lueckentext/internal/ratelimit"
	"github.com/deusflow/lueckentext/internal/render"
	"github.com/deusflow/lueckentext/internal/retry"
	"github.com/deusflow/lueckentext/internal/rss"
	"github.com/deusflow/lueckentext/internal/scraper"
	"github.com/deusflow/lueckentext/internal/storage"
	"resty.dev/v3"
)

// Options are per invocation settings that do not belong in the config file.
type Options struct {
	// Seed makes article choice and gaps reproducible when non-nil.
	Seed *uint64
}

// Result describes the written exercise.
type Result struct {
	Path  string
	Link  string
	Gaps  int
	Stats map[string]interface{}
}

// Run fetches a random article, turns it into an exercise and writes it to
// the output directory. Nothing is written when any step fails.
func Run(ctx context.Context, cfg *config.Config, opts Options) (*Result, error) {
	run := metrics.NewRun()
	rng := newRand(opts.Seed)

	sources, err := feedSources(cfg.Feeds)
	if err != nil {
		return nil, err
	}

	provider, err := dictionary.ResolveProvider(cfg.Dictionary.Provider, cfg.Dictionary.URLTemplate, cfg.Dictionary.NotFoundMarker)
	if err != nil {
		return nil, fmt.Errorf("dictionary.ResolveProvider() > %w", err)
	}

	renderer, err := render.New(cfg.Templates.Exercise)
	if err != nil {
		return nil, fmt.Errorf("render.New() > %w", err)
	}

	httpClient := resty.New().
		SetTimeout(cfg.HTTP.Timeout).
		SetHeader("User-Agent", cfg.HTTP.UserAgent)
	defer httpClient.Close()

	// Feed
	var link string
	err = run.Stage("feed", func() error {
		reader := rss.NewReader(&http.Client{Timeout: cfg.HTTP.Timeout}, cfg.HTTP.UserAgent)
		links, entries, err := reader.FetchLinks(ctx, sources)
		if err != nil {
			return err
		}
		run.AddFeedEntries(entries)
		run.AddCandidateLinks(len(links))

		var ok bool
		if link, ok = rss.PickRandomLink(links, rng); !ok {
			return rss.ErrNoArticle
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pick article: %w", err)
	}
	run.SetArticle(link)
	logger.Info("article selected", "url", link)

	// Article text
	var article *scraper.Article
	err = run.Stage("extract", func() error {
		extractor := scraper.NewExtractor(httpClient, selectors(cfg.Scraper.Selectors), retry.RetryConfig{
			MaxAttempts: cfg.HTTP.RetryAttempts,
			Delay:       cfg.HTTP.RetryDelay,
			Backoff:     true,
		})
		var err error
		article, err = extractor.Extract(ctx, link)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("extract article: %w", err)
	}
	logger.Debug("article extracted", "url", article.URL, "chars", len(article.Text))

	// Gaps
	dict := dictionary.NewClient(provider, httpClient, ratelimit.NewLookupBudget(cfg.Dictionary.MaxLookups))
	var ex *exercise.Exercise
	err = run.Stage("generate", func() error {
		generator := exercise.NewGenerator(exercise.NewClassifier(dict), rng)
		ex = generator.Generate(ctx, article.URL, article.Text)
		return ctx.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("generate exercise: %w", err)
	}
	tokens, eligible, gaps := ex.Counts()
	run.RecordExercise(len(ex.Sentences), tokens, eligible, gaps)
	if gaps == 0 {
		logger.Warn("article produced no gaps", "url", link, "tokens", tokens)
	}

	// Output
	var path string
	err = run.Stage("write", func() error {
		var page bytes.Buffer
		if err := renderer.Render(&page, ex); err != nil {
			return err
		}

		store := storage.NewExerciseStore(cfg.Output.Directory, cfg.Output.Prefix, cfg.Output.AnswerKey)
		var err error
		path, err = store.Save(page.Bytes(), ex)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("write exercise: %w", err)
	}

	stats := run.GetStats()
	for k, v := range dict.Stats() {
		stats["dictionary_"+k] = v
	}
	logger.Info("exercise generated", statsArgs(stats)...)

	return &Result{
		Path:  path,
		Link:  link,
		Gaps:  gaps,
		Stats: stats,
	}, nil
}

func feedSources(cfg config.FeedsConfig) ([]rss.FeedSource, error) {
	if cfg.File != "" {
		sources, err := rss.LoadFeeds(cfg.File)
		if err != nil {
			return nil, fmt.Errorf("rss.LoadFeeds() > %w", err)
		}
		if len(sources) == 0 {
			return nil, fmt.Errorf("no feeds listed in %s", cfg.File)
		}
		return sources, nil
	}
	return []rss.FeedSource{{URL: cfg.URL, Domain: cfg.Domain}}, nil
}

func selectors(cfg []config.SelectorConfig) []scraper.Selector {
	result := make([]scraper.Selector, 0, len(cfg))
	for _, s := range cfg {
		result = append(result, scraper.Selector{Container: s.Container, Paragraph: s.Paragraph})
	}
	return result
}

func newRand(seed *uint64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewPCG(*seed, *seed))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

func statsArgs(stats map[string]interface{}) []any {
	args := make([]any, 0, len(stats)*2)
	for _, k := range slices.Sorted(maps.Keys(stats)) {
		args = append(args, k, stats[k])
	}
	return args
}
