// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search runs the web search stage: it biases the user's question
// toward the PyAnsys domain, queries a web search provider, and normalizes
// the provider's result items into ordered search records.
package search

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/pyansys-rag/pkg/types"
)

// StageName identifies the search stage in errors and pipeline events.
const StageName = "search_web"

const (
	domainKeyword = "PyAnsys"
	parentKeyword = "ansys"
)

// Augment rewrites a question so the search provider favors PyAnsys
// material. Questions that already mention PyAnsys or Ansys, in any case,
// are returned unchanged. Blank input yields an empty string.
func Augment(query string) string {
	q := strings.TrimSpace(query)
	if q == "" {
		return q
	}
	// "pyansys" contains "ansys", so one check covers both keywords.
	if strings.Contains(strings.ToLower(q), parentKeyword) {
		return q
	}
	return domainKeyword + " " + q
}

// Item is one raw result as returned by a provider. Providers disagree on
// field names, so items are keyed loosely and normalized by Normalize.
type Item map[string]string

// Provider searches the web. Each backend (DuckDuckGo, SearXNG) implements
// this interface.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, maxResults int) ([]Item, error)
}

// NewProvider returns the provider selected by cfg.Provider.
func NewProvider(cfg types.SearchConfig) (Provider, error) {
	switch cfg.Provider {
	case types.ProviderDuckDuckGo, "":
		return NewDuckDuckGo(cfg), nil
	case types.ProviderSearXNG:
		if cfg.SearXNGURL == "" {
			return nil, fmt.Errorf("search provider searxng requires search.searxng_url")
		}
		return NewSearXNG(cfg), nil
	default:
		return nil, fmt.Errorf("unknown search provider %q (valid: duckduckgo, searxng)", cfg.Provider)
	}
}

// Normalize maps a provider item onto a SearchRecord: title falls back to
// heading, href to url, and body to snippet. Missing fields become "".
func Normalize(item Item) types.SearchRecord {
	return types.SearchRecord{
		Title:   firstNonEmpty(item["title"], item["heading"]),
		URL:     firstNonEmpty(item["href"], item["url"]),
		Snippet: firstNonEmpty(item["body"], item["snippet"]),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Stage is the web search pipeline stage.
type Stage struct {
	Provider Provider
	Logger   *zap.Logger
}

// Run searches for the state's query and returns a new state whose
// SearchResults hold the normalized hits in provider order. Provider
// failures and panics are returned as "search_web failed: <message>".
func (s *Stage) Run(ctx context.Context, state types.State) (next types.State, err error) {
	defer func() {
		if r := recover(); r != nil {
			next, err = state, fmt.Errorf("%s failed: %v", StageName, r)
		}
	}()

	log := s.Logger
	if log == nil {
		log = zap.NewNop()
	}

	query := Augment(state.Query)
	log.Debug("searching",
		zap.String("provider", s.Provider.Name()),
		zap.String("query", state.Query),
		zap.String("augmented", query),
		zap.Int("num_results", state.NumResults))

	items, err := s.Provider.Search(ctx, query, state.NumResults)
	if err != nil {
		return state, fmt.Errorf("%s failed: %w", StageName, err)
	}

	if n := max(state.NumResults, 0); len(items) > n {
		items = items[:n]
	}
	records := make([]types.SearchRecord, 0, len(items))
	for _, item := range items {
		records = append(records, Normalize(item))
	}
	log.Debug("search complete", zap.Int("results", len(records)))

	next = state
	next.SearchResults = records
	next.Error = ""
	return next, nil
}
