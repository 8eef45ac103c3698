package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimate(t *testing.T) {
	assert.Equal(t, 0, Estimate(""))
	assert.Equal(t, 1, Estimate("hi"))
	assert.Equal(t, 26, Estimate(string(make([]byte, 100))))
}

func TestNilTokenizerFallsBack(t *testing.T) {
	var tok *Tokenizer
	text := "the quick brown fox jumps over the lazy dog"
	assert.Equal(t, Estimate(text), tok.Count(text))
}

func TestCountMonotonic(t *testing.T) {
	tok, err := New()
	if err != nil {
		t.Skipf("encoding unavailable: %v", err)
	}

	short := tok.Count("hello")
	long := tok.Count("hello hello hello hello hello hello")
	assert.Greater(t, long, short)
	assert.Equal(t, 0, tok.Count(""))
}
