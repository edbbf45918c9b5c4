package agent

import (
	"context"
	"fmt"

	"github.com/chronicle-ai/article-agent/store"
)

// analyzeNode extracts structured intent from the raw user prompt. A model
// failure or an unparsable response is terminal: a malformed extraction is a
// prompt-level problem, not a transient fault, so there is no retry.
func (a *Agent) analyzeNode(ctx context.Context, state GenerationState) (GenerationState, error) {
	a.logger.Info("job %s: analyzing prompt", state.JobID)

	a.updateJob(ctx, store.JobUpdate{
		JobID:       state.JobID,
		Status:      statusPtr(store.StatusAnalyzing),
		CurrentStep: strPtr("Analyzing the prompt to understand requirements"),
		Progress:    intPtr(10),
	})

	response, err := a.llm.Invoke(ctx, analysisPrompt(state.Prompt))
	if err != nil {
		return a.fail(ctx, state, fmt.Sprintf("Analysis failed: %v", err)), nil
	}

	var analysis Analysis
	if err := decodeModelJSON(response, &analysis); err != nil {
		return a.fail(ctx, state, fmt.Sprintf("Analysis failed: %v", err)), nil
	}
	if analysis.Topic == "" || analysis.Category == "" || len(analysis.Keywords) == 0 {
		return a.fail(ctx, state, "Analysis failed: response missing topic, category or keywords"), nil
	}

	a.logger.Debug("job %s: analysis complete, topic %q category %q", state.JobID, analysis.Topic, analysis.Category)

	state.Analysis = &analysis
	return state, nil
}

func analysisPrompt(userPrompt string) string {
	return fmt.Sprintf(`Analyze the following user prompt for an article generation request and extract the key information.

User Prompt: %q

Extract:
1. The main topic or subject
2. The appropriate category (politics, technology, business, sports, entertainment, science, health, world, lifestyle)
3. Important keywords to search for
4. The tone if mentioned (formal, casual, technical, creative)
5. The length preference if mentioned (short, medium, long)
6. Any additional context

Respond with a JSON object matching this structure:
{
  "topic": "string",
  "category": "string",
  "keywords": ["string"],
  "tone": "string",
  "length": "string",
  "additionalContext": "string"
}`, userPrompt)
}
