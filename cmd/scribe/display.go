package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/entrhq/scribe/pkg/pipeline"
	"github.com/entrhq/scribe/pkg/summary"
	"github.com/entrhq/scribe/pkg/types"
)

const (
	noDecisionsMessage   = "No specific decisions were identified."
	noActionItemsMessage = "No specific action items were identified."
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("111"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("111")).
			Padding(0, 1)
)

// renderResult renders a freshly processed meeting. A malformed summary
// falls back to the raw generated text so nothing is hidden from the user.
func renderResult(result *pipeline.Result) string {
	var sb strings.Builder

	record := result.Record
	sb.WriteString(titleStyle.Render(fmt.Sprintf("Meeting: %s", record.Filename)))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(fmt.Sprintf("Saved as record %d at %s", record.ID, record.CreatedAt.Format("2006-01-02 15:04:05"))))
	sb.WriteString("\n\n")

	if result.Malformed {
		sb.WriteString(warnStyle.Render(fmt.Sprintf("The summary could not be structured (%s). Raw output:", result.MalformedReason)))
		sb.WriteString("\n\n")
		sb.WriteString(boxStyle.Render(record.SummaryRaw))
		sb.WriteString("\n")
		return sb.String()
	}

	sb.WriteString(renderSummary(record.Summary))
	return sb.String()
}

func renderSummary(s *summary.Summary) string {
	var sb strings.Builder

	sb.WriteString(sectionStyle.Render("Summary"))
	sb.WriteString("\n")
	sb.WriteString(s.Narrative)
	sb.WriteString("\n\n")

	sb.WriteString(sectionStyle.Render("Key Decisions"))
	sb.WriteString("\n")
	if len(s.Decisions) == 0 {
		sb.WriteString(dimStyle.Render(noDecisionsMessage))
		sb.WriteString("\n")
	} else {
		for _, d := range s.Decisions {
			sb.WriteString(fmt.Sprintf("  • %s\n", d))
		}
	}
	sb.WriteString("\n")

	sb.WriteString(sectionStyle.Render("Action Items"))
	sb.WriteString("\n")
	if len(s.ActionItems) == 0 {
		sb.WriteString(dimStyle.Render(noActionItemsMessage))
		sb.WriteString("\n")
	} else {
		for _, item := range s.ActionItems {
			sb.WriteString(fmt.Sprintf("  • %s — %s (due: %s)\n", item.Owner, item.Task, item.Deadline))
		}
	}

	return sb.String()
}

// renderHistory renders the stored corpus, most recent first.
func renderHistory(records []*types.MeetingRecord) string {
	if len(records) == 0 {
		return dimStyle.Render("No meetings stored yet. Process a recording with -audio to get started.")
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("Meeting History (%d)", len(records))))
	sb.WriteString("\n\n")

	for _, record := range records {
		sb.WriteString(sectionStyle.Render(record.Filename))
		sb.WriteString(dimStyle.Render(fmt.Sprintf("  %s", record.CreatedAt.Format("2006-01-02 15:04:05"))))
		sb.WriteString("\n")
		if record.HasSummary() {
			sb.WriteString(fmt.Sprintf("  %s\n", firstLine(record.Summary.Narrative)))
		} else {
			sb.WriteString(warnStyle.Render("  (summary could not be structured; raw text retained)"))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func renderAnswer(subject, question, answer string) string {
	var sb strings.Builder
	sb.WriteString(dimStyle.Render(fmt.Sprintf("Q (%s): %s", subject, question)))
	sb.WriteString("\n\n")
	sb.WriteString(boxStyle.Render(answer))
	return sb.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
