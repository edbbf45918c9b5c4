package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/chronicle-ai/article-agent/store"
)

// generateSearchesNode asks the model for 3-5 diverse search queries. On
// retries the instruction only carries the attempt count as a hint to
// diversify; the previous queries are not shown, the stage regenerates from
// scratch. The attempt counter increments unconditionally on every call.
func (a *Agent) generateSearchesNode(ctx context.Context, state GenerationState) (GenerationState, error) {
	a.logger.Info("job %s: generating search queries (attempt %d)", state.JobID, state.SearchAttempts+1)

	a.updateJob(ctx, store.JobUpdate{
		JobID:       state.JobID,
		Status:      statusPtr(store.StatusSearching),
		CurrentStep: strPtr("Generating search queries to find relevant information"),
		Progress:    intPtr(20),
	})

	response, err := a.llm.Invoke(ctx, searchQueriesPrompt(state.Analysis, state.SearchAttempts))
	if err != nil {
		return a.fail(ctx, state, fmt.Sprintf("Failed to generate search queries: %v", err)), nil
	}

	var parsed struct {
		Queries []string `json:"queries"`
	}
	if err := decodeModelJSON(response, &parsed); err != nil {
		return a.fail(ctx, state, fmt.Sprintf("Failed to generate search queries: %v", err)), nil
	}
	if len(parsed.Queries) == 0 {
		return a.fail(ctx, state, "Failed to generate search queries: response contained no queries"), nil
	}

	a.logger.Debug("job %s: generated %d queries", state.JobID, len(parsed.Queries))

	a.updateJob(ctx, store.JobUpdate{
		JobID:         state.JobID,
		SearchQueries: parsed.Queries,
	})

	state.SearchQueries = parsed.Queries
	state.SearchAttempts++
	return state, nil
}

func searchQueriesPrompt(analysis *Analysis, attempt int) string {
	prompt := fmt.Sprintf(`Generate 3-5 effective search queries to find recent news articles about: %q

Keywords to consider: %s
Category: %s

Create diverse queries that will help gather comprehensive information. Include:
1. The main topic/person name
2. Recent news or updates
3. Relevant context or related topics

Respond with a JSON object:
{
  "queries": ["query1", "query2", "query3"]
}`, analysis.Topic, strings.Join(analysis.Keywords, ", "), analysis.Category)

	if attempt > 0 {
		prompt += fmt.Sprintf("\n\nNote: Previous search attempt %d failed or returned insufficient results. Try different phrasing or broader/narrower terms.", attempt)
	}

	return prompt
}
