// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the pyansys-rag pipeline:
// the state record threaded through every stage, the records each stage
// produces, and the per-stage configuration.
package types

// SearchRecord is one normalized web search hit. Any field may be empty.
type SearchRecord struct {
	Title   string `json:"title" yaml:"title"`
	URL     string `json:"url" yaml:"url"`
	Snippet string `json:"snippet" yaml:"snippet"`
}

// FetchedSource is the grounding text resolved for one search record.
// It is created once by the fetch stage and never modified afterwards.
type FetchedSource struct {
	Title string `json:"title" yaml:"title"`
	URL   string `json:"url" yaml:"url"`

	// Content is the text the answer is grounded in.
	Content string `json:"content" yaml:"content"`

	// FromSnippet is true when Content is the search snippet rather than
	// text extracted from the page.
	FromSnippet bool `json:"from_snippet" yaml:"from_snippet"`
}

// State is the record threaded through the pipeline. Stages never mutate
// the value they receive; they return a new State that supersedes it.
type State struct {
	// Query is the user's original question.
	Query string `json:"query" yaml:"query"`

	// NumResults is the requested search breadth.
	NumResults int `json:"num_results" yaml:"num_results"`

	SearchResults  []SearchRecord  `json:"search_results" yaml:"search_results"`
	FetchedSources []FetchedSource `json:"fetched_sources" yaml:"fetched_sources"`

	Answer string `json:"answer" yaml:"answer"`

	// Error is non-empty once a stage has failed. Its presence routes the
	// pipeline to the error handler.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewState returns the initial state for a query.
func NewState(query string, numResults int) State {
	if numResults < 0 {
		numResults = 0
	}
	return State{
		Query:          query,
		NumResults:     numResults,
		SearchResults:  []SearchRecord{},
		FetchedSources: []FetchedSource{},
	}
}

// Failed reports whether a stage has recorded an error.
func (s State) Failed() bool {
	return s.Error != ""
}
