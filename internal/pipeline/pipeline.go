// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline sequences the search, fetch, and generation stages as a
// small state machine. Any stage failure short-circuits to the error
// handler, which turns the failure into a fallback answer.
package pipeline

import (
	"context"
	"iter"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/pyansys-rag/pkg/types"
)

// Stage is one step of the pipeline. Run returns the state that supersedes
// the one it was given; on error the returned state is the input unchanged.
type Stage interface {
	Run(ctx context.Context, state types.State) (types.State, error)
}

// StageFunc adapts a function to the Stage interface.
type StageFunc func(ctx context.Context, state types.State) (types.State, error)

func (f StageFunc) Run(ctx context.Context, state types.State) (types.State, error) {
	return f(ctx, state)
}

// Event reports the output state of one executed node.
type Event struct {
	Node  Node
	State types.State
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for per-run diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// Pipeline runs queries through the stages. It holds no per-query state, so
// one Pipeline may serve any number of sequential queries.
type Pipeline struct {
	stages map[Node]Stage
	logger *zap.Logger
}

// New creates a pipeline from its three stages.
func New(search, fetch, generate Stage, opts ...Option) *Pipeline {
	p := &Pipeline{
		stages: map[Node]Stage{
			SearchWeb:      search,
			FetchSources:   fetch,
			GenerateAnswer: generate,
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Invoke runs query to completion and returns the final state.
func (p *Pipeline) Invoke(ctx context.Context, query string, numResults int) types.State {
	final := types.NewState(query, numResults)
	for ev := range p.Stream(ctx, query, numResults) {
		final = ev.State
	}
	return final
}

// Stream runs query and yields one Event per executed node, in order. Nodes
// skipped by error routing produce no event. Stopping the range loop early
// stops the pipeline before the next node.
func (p *Pipeline) Stream(ctx context.Context, query string, numResults int) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		log := p.logger.With(zap.String("run_id", uuid.NewString()))
		start := time.Now()

		state := types.NewState(query, numResults)
		node := SearchWeb
		for node != End {
			state = p.step(ctx, log, node, state)
			if !yield(Event{Node: node, State: state}) {
				log.Debug("run abandoned by caller", zap.Stringer("node", node))
				return
			}
			node = next(node, state)
		}
		log.Debug("run complete",
			zap.Bool("failed", state.Failed()),
			zap.Duration("elapsed", time.Since(start)))
	}
}

// step executes a single node and records any stage error on the state.
func (p *Pipeline) step(ctx context.Context, log *zap.Logger, node Node, state types.State) types.State {
	if node == HandleErrorNode {
		return HandleError(state)
	}

	start := time.Now()
	out, err := p.stages[node].Run(ctx, state)
	if err != nil {
		out = state
		out.Error = err.Error()
		log.Info("stage failed", zap.Stringer("node", node), zap.Error(err))
		return out
	}
	log.Debug("stage complete", zap.Stringer("node", node), zap.Duration("elapsed", time.Since(start)))
	return out
}
