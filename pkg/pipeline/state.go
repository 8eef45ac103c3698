package pipeline

// Stage is a step in the per-meeting processing state machine:
//
//	Uploaded → Transcribing → Transcribed → Summarizing →
//	(Summarized | SummaryMalformed) → Saved
//
// Both summarization outcomes reach Saved: malformation disables structured
// rendering for that record but never blocks persistence.
type Stage string

const (
	StageUploaded         Stage = "uploaded"
	StageTranscribing     Stage = "transcribing"
	StageTranscribed      Stage = "transcribed"
	StageSummarizing      Stage = "summarizing"
	StageSummarized       Stage = "summarized"
	StageSummaryMalformed Stage = "summary_malformed"
	StageSaved            Stage = "saved"
)
