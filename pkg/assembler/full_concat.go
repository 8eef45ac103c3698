package assembler

import (
	"strings"

	"github.com/entrhq/scribe/pkg/types"
)

// FullConcat concatenates every record in the order supplied. Suitable for
// small corpora; its output is unbounded in size.
type FullConcat struct{}

// NewFullConcat creates the baseline concatenation strategy.
func NewFullConcat() *FullConcat {
	return &FullConcat{}
}

// Name implements Strategy.
func (s *FullConcat) Name() string { return "full_concat" }

// Assemble implements Strategy. The question is ignored.
func (s *FullConcat) Assemble(records []*types.MeetingRecord, _ string) string {
	var sb strings.Builder
	for _, r := range records {
		writeRecord(&sb, r)
	}
	return sb.String()
}
