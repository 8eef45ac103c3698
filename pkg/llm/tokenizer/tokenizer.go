// Package tokenizer provides token counting for sizing LLM context.
package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// encodingName is the BPE encoding used for counting. cl100k_base matches
// the GPT-4 family closely enough for budgeting purposes.
const encodingName = "cl100k_base"

// Tokenizer counts tokens in text. A nil Tokenizer is valid and falls back
// to Estimate, so callers can degrade gracefully when the encoding cannot
// be initialized (e.g. no cached BPE data available).
type Tokenizer struct {
	encoding *tiktoken.Tiktoken
}

// New creates a tokenizer backed by the tiktoken encoding.
func New() (*Tokenizer, error) {
	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("tokenizer: load encoding %s: %w", encodingName, err)
	}
	return &Tokenizer{encoding: enc}, nil
}

// Count returns the number of tokens in text.
func (t *Tokenizer) Count(text string) int {
	if t == nil || t.encoding == nil {
		return Estimate(text)
	}
	return len(t.encoding.Encode(text, nil, nil))
}

// Estimate is the heuristic fallback: roughly four characters per token for
// English prose. It overcounts short texts slightly, which is the safe
// direction for budget checks.
func Estimate(text string) int {
	if len(text) == 0 {
		return 0
	}
	return len(text)/4 + 1
}
