package pipeline

import (
	"github.com/pdiddy/pyansys-rag/internal/generate"
	"github.com/pdiddy/pyansys-rag/pkg/types"
)

const unknownError = "Unknown error"

// HandleError replaces the answer with a fallback that embeds the state's
// error. Error itself is left as is. HandleError never fails.
func HandleError(state types.State) types.State {
	detail := state.Error
	if detail == "" {
		detail = unknownError
	}
	out := state
	out.Answer = "I ran into an issue while processing the request. " +
		"Please try again or provide a more specific PyAnsys question. " +
		"Details: " + detail + "\n\n" + generate.FixMarker
	return out
}
