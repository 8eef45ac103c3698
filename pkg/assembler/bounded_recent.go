package assembler

import (
	"strings"

	"github.com/entrhq/scribe/pkg/llm/tokenizer"
	"github.com/entrhq/scribe/pkg/types"
)

// BoundedRecent keeps the most recent records up to a count cap and a token
// budget. Records are assumed to arrive most-recent first, matching the
// store's list order.
type BoundedRecent struct {
	maxRecords int
	maxTokens  int
	tok        *tokenizer.Tokenizer
}

// NewBoundedRecent creates a bounded strategy. Either cap may be zero to
// disable that dimension. If the token encoding is unavailable a
// character-based estimate is used instead.
func NewBoundedRecent(maxRecords, maxTokens int) *BoundedRecent {
	tok, err := tokenizer.New()
	if err != nil {
		tok = nil // nil tokenizer falls back to estimation
	}
	return &BoundedRecent{maxRecords: maxRecords, maxTokens: maxTokens, tok: tok}
}

// Name implements Strategy.
func (s *BoundedRecent) Name() string { return "bounded_recent" }

// Assemble implements Strategy. The question is ignored. At least one
// record is always included when any exist, even if it alone exceeds the
// token budget; an over-budget record is better than an empty context.
func (s *BoundedRecent) Assemble(records []*types.MeetingRecord, _ string) string {
	var sb strings.Builder
	used := 0
	for i, r := range records {
		if s.maxRecords > 0 && i >= s.maxRecords {
			break
		}
		var one strings.Builder
		writeRecord(&one, r)
		cost := s.tok.Count(one.String())
		if i > 0 && s.maxTokens > 0 && used+cost > s.maxTokens {
			break
		}
		sb.WriteString(one.String())
		used += cost
	}
	return sb.String()
}
