// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/pyansys-rag/pkg/types"
)

// systemPrompt scopes the model to PyAnsys troubleshooting and asks it to
// stay within the supplied sources.
const systemPrompt = "You are a PyAnsys troubleshooting assistant. " +
	"Only answer PyAnsys error troubleshooting and problem-solving questions. " +
	"If the question is general or unrelated, say you can only help with PyAnsys issues. " +
	"Use the provided sources to craft a concise, accurate solution. " +
	"If information is missing, say what is unknown and suggest safe next steps."

// userPromptTmpl carries the question, the numbered source blocks, and the
// answer cue.
var userPromptTmpl = template.Must(template.New("user").Parse(
	"Question: {{.Query}}\n\nSources:\n{{.Context}}\n\nAnswer:"))

// BuildContext renders each source as a numbered block and joins the blocks
// with a blank line between them.
func BuildContext(sources []types.FetchedSource) string {
	blocks := make([]string, 0, len(sources))
	for i, src := range sources {
		blocks = append(blocks, fmt.Sprintf("Source %d: %s\nURL: %s\nContent:\n%s\n",
			i+1,
			strings.TrimSpace(src.Title),
			strings.TrimSpace(src.URL),
			strings.TrimSpace(src.Content)))
	}
	return strings.Join(blocks, "\n")
}

// renderUserPrompt executes the user prompt template for query and sources.
func renderUserPrompt(query string, sources []types.FetchedSource) (string, error) {
	var buf bytes.Buffer
	err := userPromptTmpl.Execute(&buf, struct {
		Query   string
		Context string
	}{Query: query, Context: BuildContext(sources)})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
