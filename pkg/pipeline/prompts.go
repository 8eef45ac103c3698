package pipeline

import (
	"fmt"

	"github.com/entrhq/scribe/pkg/llm"
)

// summarizationPrompt instructs the generation service to analyze a meeting
// transcript and answer with the exact summary wire schema.
const summarizationPrompt = `You are an expert meeting summarizer and analyst with advanced skills in understanding structured and unstructured spoken-language transcripts. Your role is to transform the following meeting transcript into a clear, insight-rich summary.

Analytical instructions:
- Read through the entire transcript before summarizing to grasp full context; identify speaker roles and topic shifts, and merge fragmented or interrupted speech into coherent ideas.
- Be concise, objective, and factual; paraphrase in a professional tone. Limit the main summary to 6-10 sentences but ensure completeness.
- Decisions: include only confirmed decisions, not suggestions. Start each with a strong action verb (e.g., Approved, Finalized, Agreed). Mark conditional decisions as "Pending confirmation".
- Action items: each must include an Owner, a Task, and a Deadline. If the transcript lacks an owner or deadline, infer logically from context and mark missing info as "(TBD)". Action items must start with a verb.
- Ignore conversational fillers and off-topic digressions. Merge discussions of the same topic that occur at different times into one cohesive point. If critical information is missing due to poor audio, mention "Information incomplete in transcript."

CRITICAL OUTPUT REQUIREMENT: your entire output MUST BE A SINGLE, VALID JSON OBJECT and nothing else. No Markdown headings, no introductory text, no closing remarks. The response must start with { and end with }. The JSON object must have this exact structure:
{
    "summary": "A concise but comprehensive paragraph overview of the entire meeting.",
    "key_decisions": ["Decision 1...", "Decision 2..."],
    "action_items": [{"owner": "Person or Team responsible", "task": "The specific action to be taken.", "deadline": "The deadline for the task, or (TBD)."}]
}

Now, analyze the following transcript and provide the JSON output:
`

// queryPrompt grounds an ad hoc question strictly in the supplied context.
const queryPrompt = `You are a helpful AI assistant. Based *only* on the text provided below, answer the user's question.

--- TEXT CONTEXT ---
%s
--- END OF CONTEXT ---

User's Question: %q`

func buildSummarizationMessages(transcript string) []*llm.Message {
	return []*llm.Message{
		llm.NewUserMessage(summarizationPrompt + transcript),
	}
}

func buildQueryMessages(contextText, question string) []*llm.Message {
	return []*llm.Message{
		llm.NewUserMessage(fmt.Sprintf(queryPrompt, contextText, question)),
	}
}
