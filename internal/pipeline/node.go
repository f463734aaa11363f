// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import "github.com/pdiddy/pyansys-rag/pkg/types"

// Node identifies a step of the pipeline state machine.
type Node int

const (
	SearchWeb Node = iota
	FetchSources
	GenerateAnswer
	HandleErrorNode
	End
)

var nodeNames = [...]string{
	SearchWeb:       "search_web",
	FetchSources:    "fetch_sources",
	GenerateAnswer:  "generate_answer",
	HandleErrorNode: "handle_error",
	End:             "end",
}

func (n Node) String() string {
	if n < 0 || int(n) >= len(nodeNames) {
		return "unknown"
	}
	return nodeNames[n]
}

// next is the transition function. A failed state leaving any stage goes to
// HandleErrorNode; the error handler and the last stage both lead to End.
func next(n Node, state types.State) Node {
	switch n {
	case SearchWeb, FetchSources, GenerateAnswer:
		if state.Failed() {
			return HandleErrorNode
		}
		return n + 1
	default:
		return End
	}
}
