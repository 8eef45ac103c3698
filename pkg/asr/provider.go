// Package asr provides the abstraction over the external speech-recognition
// capability that turns meeting audio into a transcript.
package asr

import (
	"context"
	"fmt"
)

// Quality selects the recognition model size. Larger levels are more
// accurate but significantly slower.
type Quality string

const (
	QualityTiny   Quality = "tiny"
	QualityBase   Quality = "base"
	QualitySmall  Quality = "small"
	QualityMedium Quality = "medium"
)

// ParseQuality validates a quality string.
func ParseQuality(s string) (Quality, error) {
	switch Quality(s) {
	case QualityTiny, QualityBase, QualitySmall, QualityMedium:
		return Quality(s), nil
	}
	return "", fmt.Errorf("asr: unknown quality level %q", s)
}

// Provider defines the interface for speech-recognition integrations.
type Provider interface {
	// Transcribe converts audio bytes into transcript text. The filename
	// is passed along so the service can infer the container format; it
	// plays no role in caching or identity. Failures are reported as
	// *TranscriptionError.
	Transcribe(ctx context.Context, audio []byte, filename string, quality Quality) (string, error)
}

// TranscriptionError reports a failed recognition call: corrupt or
// unsupported audio, or a transport failure. It is fatal for the current
// request only.
type TranscriptionError struct {
	Op  string
	Err error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("asr: %s: %v", e.Op, e.Err)
}

func (e *TranscriptionError) Unwrap() error { return e.Err }
