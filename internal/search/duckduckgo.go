// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/pyansys-rag/internal/httputil"
	"github.com/pdiddy/pyansys-rag/pkg/types"
)

// duckDuckGoEndpoint is the DuckDuckGo HTML search endpoint. Declared as a
// var so tests can substitute an httptest server.
var duckDuckGoEndpoint = "https://html.duckduckgo.com/html/"

// DuckDuckGo scrapes DuckDuckGo's HTML results page. It needs no API key.
// Items are keyed title/href/body.
type DuckDuckGo struct {
	Client     *http.Client
	MaxRetries int
}

// NewDuckDuckGo creates a DuckDuckGo provider from the search configuration.
func NewDuckDuckGo(cfg types.SearchConfig) *DuckDuckGo {
	return &DuckDuckGo{
		Client: httputil.NewClient(
			httputil.WithTimeout(cfg.Timeout),
			httputil.WithUserAgent(cfg.UserAgent),
		),
		MaxRetries: cfg.MaxRetries,
	}
}

// Name returns the provider identifier.
func (d *DuckDuckGo) Name() string { return string(types.ProviderDuckDuckGo) }

// Search posts the query to DuckDuckGo and parses up to maxResults hits.
func (d *DuckDuckGo) Search(ctx context.Context, query string, maxResults int) ([]Item, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is empty")
	}
	if maxResults <= 0 {
		return []Item{}, nil
	}

	form := url.Values{"q": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, duckDuckGoEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := httputil.DoWithRetry(ctx, d.Client, req, d.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo returned HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing duckduckgo response: %w", err)
	}
	return parseDuckDuckGo(doc, maxResults), nil
}

// parseDuckDuckGo walks the result blocks in page order, skipping ads.
func parseDuckDuckGo(doc *goquery.Document, maxResults int) []Item {
	items := []Item{}
	doc.Find("div.result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.HasClass("result--ad") {
			return true
		}
		link := s.Find("a.result__a").First()
		href, _ := link.Attr("href")
		item := Item{
			"title": collapse(link.Text()),
			"href":  unwrapRedirect(href),
			"body":  collapse(s.Find(".result__snippet").First().Text()),
		}
		if item["title"] == "" && item["href"] == "" {
			return true
		}
		items = append(items, item)
		return len(items) < maxResults
	})
	return items
}

// unwrapRedirect resolves DuckDuckGo's //duckduckgo.com/l/?uddg=<target>
// tracking links to the target URL.
func unwrapRedirect(href string) string {
	href = strings.TrimSpace(href)
	if !strings.Contains(href, "duckduckgo.com/l/") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
