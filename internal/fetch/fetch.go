// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch runs the source fetch stage. For the first few search
// records it downloads the page, extracts readable text, and falls back to
// the search snippet when extraction yields too little.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/pdiddy/pyansys-rag/internal/httputil"
	"github.com/pdiddy/pyansys-rag/pkg/types"
)

// StageName identifies the fetch stage in errors and pipeline events.
const StageName = "fetch_sources"

const (
	// MaxSources bounds how many search records are fetched per query.
	MaxSources = 2

	// MinContentChars is the trimmed length extracted text must reach
	// before it replaces the search snippet.
	MinContentChars = 200

	// maxBodyBytes caps how much of a page is read.
	maxBodyBytes = 5 << 20
)

// ErrNoSources is reported when the stage ends with zero sources.
var ErrNoSources = errors.New("No sources fetched.") //nolint:staticcheck // user-facing text

// Getter retrieves page text for a URL. The boolean is false when the page
// could not be retrieved for any reason.
type Getter interface {
	Get(ctx context.Context, url string) (string, bool)
}

// Extractor turns raw page text into readable content. The boolean is false
// when no content could be extracted.
type Extractor interface {
	Extract(page string) (string, bool)
}

// HTTPGetter fetches pages with a bounded timeout, a desktop browser
// User-Agent, and TLS verification optionally disabled.
type HTTPGetter struct {
	Client *http.Client
	Logger *zap.Logger
}

// NewHTTPGetter builds an HTTPGetter from the fetch configuration.
func NewHTTPGetter(cfg types.FetchConfig, logger *zap.Logger) *HTTPGetter {
	if cfg.Timeout <= 0 {
		cfg.Timeout = types.DefaultFetchTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = types.DefaultBrowserUA
	}
	return &HTTPGetter{
		Client: httputil.NewClient(
			httputil.WithTimeout(cfg.Timeout),
			httputil.WithUserAgent(cfg.UserAgent),
			httputil.WithInsecureSkipVerify(cfg.InsecureSkipVerify),
		),
		Logger: logger,
	}
}

// Get downloads url. Network failures and HTTP status >= 400 yield ("", false).
func (g *HTTPGetter) Get(ctx context.Context, url string) (string, bool) {
	log := g.Logger
	if log == nil {
		log = zap.NewNop()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Debug("invalid url", zap.String("url", url), zap.Error(err))
		return "", false
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,text/plain;q=0.8,*/*;q=0.7")

	resp, err := g.Client.Do(req)
	if err != nil {
		log.Debug("fetch failed", zap.String("url", url), zap.Error(err))
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		log.Debug("fetch rejected", zap.String("url", url), zap.Int("status", resp.StatusCode))
		return "", false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		log.Debug("reading body failed", zap.String("url", url), zap.Error(err))
		return "", false
	}
	return string(body), true
}

// Stage is the source fetch pipeline stage.
type Stage struct {
	Getter    Getter
	Extractor Extractor
	Logger    *zap.Logger
}

// Run resolves grounding content for up to MaxSources search records, in
// order, and returns a new state with FetchedSources set. It returns
// ErrNoSources when nothing was processed.
func (s *Stage) Run(ctx context.Context, state types.State) (next types.State, err error) {
	log := s.Logger
	if log == nil {
		log = zap.NewNop()
	}

	defer func() {
		if r := recover(); r != nil {
			next, err = state, fmt.Errorf("%s failed: %v", StageName, r)
		}
	}()

	records := state.SearchResults
	if len(records) > MaxSources {
		records = records[:MaxSources]
	}

	sources := make([]types.FetchedSource, 0, len(records))
	for _, rec := range records {
		src := s.resolve(ctx, rec)
		log.Debug("source resolved",
			zap.String("url", src.URL),
			zap.Bool("from_snippet", src.FromSnippet),
			zap.Int("chars", len(src.Content)))
		sources = append(sources, src)
	}

	if len(sources) == 0 {
		return state, ErrNoSources
	}

	next = state
	next.FetchedSources = sources
	next.Error = ""
	return next, nil
}

// resolve produces the fetched source for one record, preferring extracted
// page text and falling back to the snippet.
func (s *Stage) resolve(ctx context.Context, rec types.SearchRecord) types.FetchedSource {
	src := types.FetchedSource{
		Title:       rec.Title,
		URL:         rec.URL,
		Content:     rec.Snippet,
		FromSnippet: true,
	}
	if rec.URL == "" {
		return src
	}

	page, ok := s.Getter.Get(ctx, rec.URL)
	if !ok || page == "" {
		return src
	}

	text, ok := s.Extractor.Extract(page)
	text = strings.TrimSpace(text)
	if !ok || utf8.RuneCountInString(text) < MinContentChars {
		return src
	}

	src.Content = text
	src.FromSnippet = false
	return src
}
