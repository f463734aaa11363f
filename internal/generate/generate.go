// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate runs the answer generation stage: it grounds a prompt in
// the fetched sources, asks a chat model for a fix, and marks the reply.
package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/pyansys-rag/internal/llm"
	"github.com/pdiddy/pyansys-rag/pkg/types"
)

// StageName identifies the generation stage in errors and pipeline events.
const StageName = "generate_answer"

var errNoClient = errors.New("chat client factory returned no client")

// FixMarker closes every generated or fallback answer.
const FixMarker = "This is the fix."

// Stage is the answer generation pipeline stage. A fresh chat client is
// opened through Factory for every run and closed before Run returns.
type Stage struct {
	Factory llm.Factory
	Model   string
	Logger  *zap.Logger
}

// Run asks the model to answer the state's query from its fetched sources.
// A non-empty reply is trimmed and followed by FixMarker, so a reply of only
// whitespace becomes FixMarker alone. An empty reply is not an error and
// leaves Answer empty.
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
	model := s.Model
	if model == "" {
		model = types.DefaultModel
	}

	reply, err := s.chat(ctx, log, model, state)
	if err != nil {
		return state, fmt.Errorf("%s failed: %w", StageName, err)
	}

	answer := ""
	if reply == "" {
		log.Warn("model returned an empty reply", zap.String("model", model))
	} else {
		answer = strings.TrimSpace(strings.TrimSpace(reply) + "\n\n" + FixMarker)
	}

	next = state
	next.Answer = answer
	next.Error = ""
	return next, nil
}

// chat opens a client, sends the two-message prompt, and closes the client
// on every path. Close failures are logged and never replace err.
func (s *Stage) chat(ctx context.Context, log *zap.Logger, model string, state types.State) (reply string, err error) {
	user, err := renderUserPrompt(state.Query, state.FetchedSources)
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}

	client, err := s.Factory(ctx)
	if err != nil {
		return "", err
	}
	if client == nil {
		return "", errNoClient
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			log.Warn("closing chat client", zap.Error(cerr))
		}
	}()

	log.Debug("generating answer",
		zap.String("model", model),
		zap.Int("sources", len(state.FetchedSources)),
		zap.Int("prompt_chars", len(user)))

	return client.Chat(ctx, model, []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: user},
	})
}
