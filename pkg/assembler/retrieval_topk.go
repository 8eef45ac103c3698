package assembler

import (
	"sort"
	"strings"
	"unicode"

	"github.com/entrhq/scribe/pkg/types"
)

// RetrievalTopK ranks records by lexical relevance to the question and
// concatenates the k best, preserving their supplied relative order so the
// context reads chronologically.
type RetrievalTopK struct {
	k int
}

// NewRetrievalTopK creates a retrieval strategy keeping the top k records.
func NewRetrievalTopK(k int) *RetrievalTopK {
	if k <= 0 {
		k = 5
	}
	return &RetrievalTopK{k: k}
}

// Name implements Strategy.
func (s *RetrievalTopK) Name() string { return "retrieval_top_k" }

// Assemble implements Strategy. With a blank question, ranking is
// meaningless and the first k records are used as supplied.
func (s *RetrievalTopK) Assemble(records []*types.MeetingRecord, question string) string {
	selected := records
	if len(records) > s.k {
		selected = s.selectTopK(records, question)
	}

	var sb strings.Builder
	for _, r := range selected {
		writeRecord(&sb, r)
	}
	return sb.String()
}

type scored struct {
	index int
	score float64
}

func (s *RetrievalTopK) selectTopK(records []*types.MeetingRecord, question string) []*types.MeetingRecord {
	terms := tokenize(question)
	if len(terms) == 0 {
		return records[:s.k]
	}

	ranked := make([]scored, len(records))
	for i, r := range records {
		ranked[i] = scored{index: i, score: overlapScore(terms, r)}
	}
	// Stable sort keeps earlier (more recent) records ahead on score ties.
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].score > ranked[b].score
	})

	top := ranked[:s.k]
	sort.Slice(top, func(a, b int) bool { return top[a].index < top[b].index })

	out := make([]*types.MeetingRecord, len(top))
	for i, sc := range top {
		out[i] = records[sc.index]
	}
	return out
}

// overlapScore counts distinct question terms present in the record,
// normalized by question length so long questions do not dominate.
func overlapScore(terms []string, r *types.MeetingRecord) float64 {
	haystack := strings.ToLower(r.Filename + " " + r.Transcript + " " + r.SummaryRaw)
	hits := 0
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			hits++
		}
	}
	return float64(hits) / float64(len(terms))
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	seen := make(map[string]bool, len(fields))
	var terms []string
	for _, f := range fields {
		// Short stop-ish words carry no retrieval signal.
		if len(f) < 3 || seen[f] {
			continue
		}
		seen[f] = true
		terms = append(terms, f)
	}
	return terms
}
