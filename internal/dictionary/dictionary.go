// Package dictionary answers whether a word exists by querying an online
// dictionary search page and looking for its "not found" phrase.
package dictionary

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"

	"github.com/deusflow/lueckentext/internal/cache"
	"github.com/deusflow/lueckentext/internal/ratelimit"
	"resty.dev/v3"
)

// Provider describes a dictionary search endpoint. URLTemplate contains a
// single %s for the escaped word; NotFoundMarker appears in the response
// body only when the word is unknown.
type Provider struct {
	Name           string
	URLTemplate    string
	NotFoundMarker string
}

const CustomProvider = "custom"

var providers = map[string]Provider{
	"dwds": {
		Name:           "dwds",
		URLTemplate:    "https://www.dwds.de/?q=%s",
		NotFoundMarker: "ist nicht in unseren gegenwartssprachlichen lexikalischen Quellen vorhanden",
	},
	"duden": {
		Name:           "duden",
		URLTemplate:    "https://www.duden.de/suchen/dudenonline/%s",
		NotFoundMarker: "liefert keine Ergebnisse",
	},
	"tfd": {
		Name:           "tfd",
		URLTemplate:    "https://de.thefreedictionary.com/%s",
		NotFoundMarker: "Das Wort konnte im Wörterbuch nicht gefunden werden",
	},
}

// ProviderNames lists the built-in providers plus "custom".
func ProviderNames() []string {
	names := make([]string, 0, len(providers)+1)
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return append(names, CustomProvider)
}

// ResolveProvider returns the built-in provider called name, or a custom one
// built from urlTemplate and notFoundMarker.
func ResolveProvider(name, urlTemplate, notFoundMarker string) (Provider, error) {
	if name == CustomProvider {
		if !strings.Contains(urlTemplate, "%s") {
			return Provider{}, fmt.Errorf("custom dictionary url template %q has no %%s placeholder", urlTemplate)
		}
		if notFoundMarker == "" {
			return Provider{}, fmt.Errorf("custom dictionary needs a not found marker")
		}
		return Provider{Name: CustomProvider, URLTemplate: urlTemplate, NotFoundMarker: notFoundMarker}, nil
	}

	p, ok := providers[name]
	if !ok {
		return Provider{}, fmt.Errorf("unknown dictionary provider %q, want one of %v", name, ProviderNames())
	}
	return p, nil
}

// Client looks words up and remembers every answer for its own lifetime.
// Lookup failures count as "not found" and are remembered too.
type Client struct {
	httpClient *resty.Client
	provider   Provider
	results    *cache.Memo[string, bool]
	budget     *ratelimit.LookupBudget
}

// NewClient creates a Client. A nil budget means unlimited lookups.
func NewClient(provider Provider, httpClient *resty.Client, budget *ratelimit.LookupBudget) *Client {
	if httpClient == nil {
		httpClient = resty.New()
	}
	if budget == nil {
		budget = ratelimit.NewLookupBudget(0)
	}
	return &Client{
		httpClient: httpClient,
		provider:   provider,
		results:    cache.New[string, bool](),
		budget:     budget,
	}
}

// Contains reports whether word is listed in the dictionary. Words over the
// lookup budget and lookups cut short by ctx are answered "not found"
// without being remembered.
func (c *Client) Contains(ctx context.Context, word string) bool {
	if word == "" {
		return false
	}

	cached := true
	found, err := c.results.GetOrCompute(word, func() (bool, error) {
		cached = false
		if err := c.budget.Use(); err != nil {
			return false, err
		}

		slog.Default().Debug("dictionary lookup", "provider", c.provider.Name, "word", word)
		found, err := c.lookup(ctx, word)
		if err != nil {
			c.budget.RecordFailure()
			if ctxErr := ctx.Err(); ctxErr != nil {
				return false, ctxErr
			}
			slog.Default().Debug("dictionary lookup failed, treating word as not found",
				"word", word,
				"error", err)
			return false, nil
		}
		return found, nil
	})
	if cached {
		c.budget.RecordCacheHit()
	}
	if err != nil {
		return false
	}
	return found
}

func (c *Client) lookup(ctx context.Context, word string) (bool, error) {
	lookupURL := strings.Replace(c.provider.URLTemplate, "%s", url.PathEscape(word), 1)

	res, err := c.httpClient.R().
		SetContext(ctx).
		Get(lookupURL)
	if err != nil {
		return false, fmt.Errorf("httpClient.Get %s > %w", lookupURL, err)
	}
	if res.IsError() {
		return false, fmt.Errorf("status code: %d, url: %s", res.StatusCode(), lookupURL)
	}

	return !strings.Contains(res.String(), c.provider.NotFoundMarker), nil
}

// Stats returns cache and request counters.
func (c *Client) Stats() map[string]interface{} {
	stats := c.budget.GetStats()
	stats["cached_words"] = c.results.Len()
	stats["cache_misses"] = c.results.GetStats()["misses"]
	return stats
}
