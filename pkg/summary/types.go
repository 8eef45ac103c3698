// Package summary converts generative-model output into the strict meeting
// summary schema. Parsing is strict at the top level and lenient within:
// a response that is not a valid JSON object (or carries wrongly-typed
// top-level fields) is Malformed, while missing sub-fields inside an
// otherwise well-formed response are defaulted rather than rejected. This
// asymmetry maximizes usable output from an unreliable generative source
// while still flagging wholesale format violations.
package summary

// Unspecified is the sentinel used for action-item fields the model left
// absent or empty. Stored structures never contain missing fields.
const Unspecified = "unspecified"

// ActionItem is a single extracted action item. All three fields are always
// populated, defaulting to Unspecified.
type ActionItem struct {
	Owner    string `json:"owner"`
	Task     string `json:"task"`
	Deadline string `json:"deadline"`
}

// Summary is the validated meeting summary structure. The JSON tags are the
// wire schema the generation capability is instructed to honor.
type Summary struct {
	Narrative   string       `json:"summary"`
	Decisions   []string     `json:"key_decisions"`
	ActionItems []ActionItem `json:"action_items"`
}
