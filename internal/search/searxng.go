// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/pyansys-rag/internal/httputil"
	"github.com/pdiddy/pyansys-rag/pkg/types"
)

// SearXNG queries a self-hosted SearXNG instance through its JSON API.
// Items are keyed title/url/snippet.
type SearXNG struct {
	BaseURL    string
	Client     *http.Client
	MaxRetries int
}

// NewSearXNG creates a SearXNG provider. cfg.SearXNGURL must be the root
// URL of the instance (e.g. "http://localhost:8080").
func NewSearXNG(cfg types.SearchConfig) *SearXNG {
	return &SearXNG{
		BaseURL: strings.TrimRight(cfg.SearXNGURL, "/"),
		Client: httputil.NewClient(
			httputil.WithTimeout(cfg.Timeout),
			httputil.WithUserAgent(cfg.UserAgent),
		),
		MaxRetries: cfg.MaxRetries,
	}
}

// Name returns the provider identifier.
func (s *SearXNG) Name() string { return string(types.ProviderSearXNG) }

type searxngResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// Search runs the query against the SearXNG /search endpoint.
func (s *SearXNG) Search(ctx context.Context, query string, maxResults int) ([]Item, error) {
	if s.BaseURL == "" {
		return nil, fmt.Errorf("searxng url is not configured")
	}
	params := url.Values{
		"q":      {query},
		"format": {"json"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := httputil.DoWithRetry(ctx, s.Client, req, s.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("searxng request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("searxng returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var sr searxngResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decoding searxng response: %w", err)
	}

	items := make([]Item, 0, len(sr.Results))
	for _, r := range sr.Results {
		if len(items) >= maxResults {
			break
		}
		items = append(items, Item{
			"title":   r.Title,
			"url":     r.URL,
			"snippet": r.Content,
		})
	}
	return items, nil
}
