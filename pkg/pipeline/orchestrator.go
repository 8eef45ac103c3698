// Package pipeline orchestrates the meeting processing flow: audio upload,
// cached transcription, cached summarization, schema validation, and
// persistence, plus single- and multi-meeting question answering.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"github.com/google/uuid"

	"github.com/entrhq/scribe/pkg/asr"
	"github.com/entrhq/scribe/pkg/assembler"
	"github.com/entrhq/scribe/pkg/cache"
	"github.com/entrhq/scribe/pkg/llm"
	"github.com/entrhq/scribe/pkg/logging"
	"github.com/entrhq/scribe/pkg/store"
	"github.com/entrhq/scribe/pkg/summary"
	"github.com/entrhq/scribe/pkg/types"
)

// ErrEmptyQuestion is returned when a query is submitted without a question.
var ErrEmptyQuestion = errors.New("pipeline: question must not be empty")

// ErrEmptyAudio is returned when an upload carries no audio bytes.
var ErrEmptyAudio = errors.New("pipeline: audio must not be empty")

// NoHistoryAnswer is returned by QueryHistory when the store is empty; no
// generation call is made with an empty context.
const NoHistoryAnswer = "Your meeting history is empty. Summarize a meeting to enable this feature."

// acceptedAudio are the supported upload filename patterns. Anything else
// is rejected before transcription is attempted.
var acceptedAudio = []glob.Glob{
	glob.MustCompile("*.mp3"),
	glob.MustCompile("*.wav"),
	glob.MustCompile("*.m4a"),
}

// UploadRequest is a received meeting recording.
type UploadRequest struct {
	Filename string
	Audio    []byte
	Quality  asr.Quality
}

// Result is the outcome of a completed pipeline run. Stage is always
// StageSaved on success; Malformed reports whether structured parsing of
// the summary failed (the record is persisted either way).
type Result struct {
	Record          *types.MeetingRecord
	Stage           Stage
	Malformed       bool
	MalformedReason string
}

// Orchestrator drives the meeting pipeline. It is safe for concurrent use;
// each Process call runs one sequential pipeline, and a shared semaphore
// bounds in-flight external calls across requests.
type Orchestrator struct {
	asr      asr.Provider
	llm      llm.Provider
	cache    *cache.Cache
	store    *store.MeetingStore
	strategy assembler.Strategy

	callTimeout time.Duration
	sem         *semaphore
	log         *logging.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithCallTimeout bounds each external ASR/generation call. After the
// timeout the call fails with the context error rather than blocking
// indefinitely.
func WithCallTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.callTimeout = d
		}
	}
}

// WithMaxConcurrentCalls bounds in-flight external calls across requests.
func WithMaxConcurrentCalls(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.sem = newSemaphore(n)
		}
	}
}

// New creates an orchestrator over the given collaborators.
func New(asrProvider asr.Provider, llmProvider llm.Provider, c *cache.Cache, s *store.MeetingStore, strategy assembler.Strategy, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		asr:         asrProvider,
		llm:         llmProvider,
		cache:       c,
		store:       s,
		strategy:    strategy,
		callTimeout: 5 * time.Minute,
		sem:         newSemaphore(4),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.log, _ = logging.NewLogger("pipeline")
	return o
}

// Process runs the full Uploaded→Saved pipeline for one recording. A
// transcription or generation failure aborts this request only and writes
// nothing to the store. A malformed summary does not abort: the record is
// saved with its raw summary text and a nil structure.
func (o *Orchestrator) Process(ctx context.Context, req UploadRequest) (*Result, error) {
	requestID := uuid.New().String()[:8]

	if err := ValidateFilename(req.Filename); err != nil {
		return nil, err
	}
	if len(req.Audio) == 0 {
		return nil, ErrEmptyAudio
	}
	quality := req.Quality
	if quality == "" {
		quality = asr.QualityBase
	}

	o.log.Infof("[%s] %s: %s", requestID, StageTranscribing, req.Filename)
	audioFP := cache.Fingerprint(req.Audio)
	transcript, err := o.cache.GetOrCompute(ctx, cache.KindTranscription, audioFP, "quality="+string(quality),
		func(ctx context.Context) (string, error) {
			return o.externalCall(ctx, func(callCtx context.Context) (string, error) {
				return o.asr.Transcribe(callCtx, req.Audio, req.Filename, quality)
			})
		})
	if err != nil {
		o.log.Errorf("[%s] transcription failed: %v", requestID, err)
		return nil, err
	}

	o.log.Infof("[%s] %s: %d chars", requestID, StageTranscribed, len(transcript))

	o.log.Infof("[%s] %s", requestID, StageSummarizing)
	transcriptFP := cache.FingerprintText(transcript)
	rawSummary, err := o.cache.GetOrCompute(ctx, cache.KindSummarization, transcriptFP, "model="+o.llm.GetModel(),
		func(ctx context.Context) (string, error) {
			return o.externalCall(ctx, func(callCtx context.Context) (string, error) {
				msg, err := o.llm.Complete(callCtx, buildSummarizationMessages(transcript))
				if err != nil {
					return "", err
				}
				return msg.Content, nil
			})
		})
	if err != nil {
		o.log.Errorf("[%s] summarization failed: %v", requestID, err)
		return nil, err
	}

	parsed := summary.Parse(rawSummary)
	if parsed.Valid() {
		o.log.Infof("[%s] %s", requestID, StageSummarized)
	} else {
		o.log.Warnf("[%s] %s: %s", requestID, StageSummaryMalformed, parsed.Reason)
	}

	record, err := o.store.Append(ctx, req.Filename, transcript, rawSummary, parsed.Summary)
	if err != nil {
		o.log.Errorf("[%s] append failed: %v", requestID, err)
		return nil, err
	}
	o.log.Infof("[%s] %s: record %d", requestID, StageSaved, record.ID)

	return &Result{
		Record:          record,
		Stage:           StageSaved,
		Malformed:       !parsed.Valid(),
		MalformedReason: parsed.Reason,
	}, nil
}

// Query answers a question against the supplied context text.
func (o *Orchestrator) Query(ctx context.Context, question, contextText string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", ErrEmptyQuestion
	}
	return o.externalCall(ctx, func(callCtx context.Context) (string, error) {
		msg, err := o.llm.Complete(callCtx, buildQueryMessages(contextText, question))
		if err != nil {
			return "", err
		}
		return msg.Content, nil
	})
}

// QueryMeeting answers a question about a single meeting transcript.
func (o *Orchestrator) QueryMeeting(ctx context.Context, question string, record *types.MeetingRecord) (string, error) {
	if record == nil {
		return "", fmt.Errorf("pipeline: no meeting record to query")
	}
	return o.Query(ctx, question, record.Transcript)
}

// QueryHistory answers a question across the stored corpus, assembling the
// context with the configured strategy. An empty corpus short-circuits to
// NoHistoryAnswer without a generation call.
func (o *Orchestrator) QueryHistory(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", ErrEmptyQuestion
	}

	records, err := o.store.List(ctx)
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return NoHistoryAnswer, nil
	}

	contextText := o.strategy.Assemble(records, question)
	o.log.Debugf("assembled %d-record context with %s (%d chars)", len(records), o.strategy.Name(), len(contextText))
	return o.Query(ctx, question, contextText)
}

// History lists the stored corpus, most recent first.
func (o *Orchestrator) History(ctx context.Context) ([]*types.MeetingRecord, error) {
	return o.store.List(ctx)
}

// ValidateFilename rejects filenames whose extension is not an accepted
// audio format. Matching is case-insensitive.
func ValidateFilename(filename string) error {
	name := strings.ToLower(strings.TrimSpace(filename))
	if name == "" {
		return fmt.Errorf("pipeline: filename must not be empty")
	}
	for _, pattern := range acceptedAudio {
		if pattern.Match(name) {
			return nil
		}
	}
	return fmt.Errorf("pipeline: unsupported audio format %q (want mp3, wav, or m4a)", filename)
}

// externalCall runs fn under the concurrency bound and per-call timeout.
func (o *Orchestrator) externalCall(ctx context.Context, fn func(ctx context.Context) (string, error)) (string, error) {
	if err := o.sem.acquire(ctx); err != nil {
		return "", err
	}
	defer o.sem.release()

	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()
	return fn(callCtx)
}
