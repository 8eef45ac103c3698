package summary

import (
	"encoding/json"
	"strings"
)

// ParseResult is the outcome of parsing model output. Exactly one of the two
// cases holds: Valid() with a populated Summary, or malformed with a Reason.
// Raw always carries the original text so downstream layers can display it
// for human recovery; a parsing failure is never data loss.
type ParseResult struct {
	Summary *Summary
	Reason  string
	Raw     string
}

// Valid reports whether the top-level parse succeeded.
func (r ParseResult) Valid() bool {
	return r.Summary != nil
}

// wire mirrors the expected top-level shape with raw fields so each can be
// validated independently of the others.
type wire struct {
	Narrative   json.RawMessage `json:"summary"`
	Decisions   json.RawMessage `json:"key_decisions"`
	ActionItems json.RawMessage `json:"action_items"`
}

type wireActionItem struct {
	Owner    string `json:"owner"`
	Task     string `json:"task"`
	Deadline string `json:"deadline"`
}

// Parse converts raw generative-model text into a ParseResult. It never
// panics; every failure path returns a malformed result carrying the
// original text.
func Parse(raw string) ParseResult {
	cleaned := Sanitize(raw)
	if cleaned == "" {
		return malformed("empty response", raw)
	}

	var w wire
	if err := json.Unmarshal([]byte(cleaned), &w); err != nil {
		return malformed("not valid structured text", raw)
	}
	// json.Unmarshal accepts a bare "null" without error.
	if cleaned == "null" {
		return malformed("not valid structured text", raw)
	}

	s := &Summary{
		Decisions:   []string{},
		ActionItems: []ActionItem{},
	}

	if len(w.Narrative) > 0 && !isNull(w.Narrative) {
		if err := json.Unmarshal(w.Narrative, &s.Narrative); err != nil {
			return malformed("summary is not a string", raw)
		}
	}

	if len(w.Decisions) > 0 && !isNull(w.Decisions) {
		var decisions []string
		if err := json.Unmarshal(w.Decisions, &decisions); err != nil {
			return malformed("key_decisions is not a list of strings", raw)
		}
		if decisions != nil {
			s.Decisions = decisions
		}
	}

	if len(w.ActionItems) > 0 && !isNull(w.ActionItems) {
		var items []wireActionItem
		if err := json.Unmarshal(w.ActionItems, &items); err != nil {
			return malformed("action_items is not a list of objects", raw)
		}
		for _, item := range items {
			s.ActionItems = append(s.ActionItems, ActionItem{
				Owner:    orUnspecified(item.Owner),
				Task:     orUnspecified(item.Task),
				Deadline: orUnspecified(item.Deadline),
			})
		}
	}

	return ParseResult{Summary: s, Raw: raw}
}

// Sanitize strips known wrapping artifacts the model adds around otherwise
// valid JSON: Markdown code fences and surrounding whitespace.
func Sanitize(raw string) string {
	s := strings.ReplaceAll(raw, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

func malformed(reason, raw string) ParseResult {
	return ParseResult{Reason: reason, Raw: raw}
}

func isNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}

// orUnspecified treats empty and whitespace-only values the same as absent
// ones: the stored structure guarantees renderable fields.
func orUnspecified(v string) string {
	if strings.TrimSpace(v) == "" {
		return Unspecified
	}
	return v
}
