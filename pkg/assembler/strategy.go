// Package assembler builds bounded text context for multi-meeting queries.
//
// Context assembly is polymorphic over a selection strategy so callers stay
// strategy-agnostic: full concatenation suits small corpora, while bounded
// and retrieval-based variants keep the context inside a generation
// service's input limit as the corpus grows.
package assembler

import (
	"fmt"
	"strings"

	"github.com/entrhq/scribe/pkg/types"
)

// Strategy defines the interface for context-selection strategies.
type Strategy interface {
	// Name returns the strategy's identifier for logging and configuration.
	Name() string

	// Assemble builds the context text for the given records. The question
	// is advisory: retrieval strategies rank records by it, others ignore
	// it. Zero records always yield an empty context; callers must
	// short-circuit a no-history response rather than querying with it.
	Assemble(records []*types.MeetingRecord, question string) string
}

// writeRecord renders the per-record header followed by the transcript.
func writeRecord(sb *strings.Builder, r *types.MeetingRecord) {
	fmt.Fprintf(sb, "--- Meeting: %s (%s) ---\n", r.Filename, r.CreatedAt.Format("2006-01-02 15:04:05"))
	sb.WriteString("Transcript: ")
	sb.WriteString(r.Transcript)
	sb.WriteString("\n\n")
}

// ForName returns the configured strategy by its config identifier.
// maxRecords caps record count for bounded_recent and is the k for
// retrieval_top_k; maxTokens is the token budget for bounded_recent.
func ForName(name string, maxRecords, maxTokens int) (Strategy, error) {
	switch name {
	case "full_concat":
		return NewFullConcat(), nil
	case "bounded_recent":
		return NewBoundedRecent(maxRecords, maxTokens), nil
	case "retrieval_top_k":
		return NewRetrievalTopK(maxRecords), nil
	default:
		return nil, fmt.Errorf("assembler: unknown strategy %q", name)
	}
}
