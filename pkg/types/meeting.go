// Package types defines the shared data types for the scribe pipeline.
package types

import (
	"time"

	"github.com/entrhq/scribe/pkg/summary"
)

// MeetingRecord is a single stored meeting. Records are immutable once
// appended: the store exposes no update or delete operation.
type MeetingRecord struct {
	// ID is assigned by the store and is monotonically increasing.
	ID int64

	// Filename is the display identifier of the uploaded audio file.
	// It is not a uniqueness key; two records may share a filename.
	Filename string

	// Transcript is the full transcription text. Never empty for a
	// stored record.
	Transcript string

	// SummaryRaw is the verbatim generative-model output. It is preserved
	// even when structured parsing failed, so the raw text can always be
	// shown for human recovery.
	SummaryRaw string

	// Summary is the parsed structure. Nil if and only if the raw output
	// failed top-level validation.
	Summary *summary.Summary

	// CreatedAt is set by the store at append time.
	CreatedAt time.Time
}

// HasSummary reports whether structured parsing succeeded for this record.
func (r *MeetingRecord) HasSummary() bool {
	return r.Summary != nil
}
