package agent

import (
	"context"
	"fmt"

	"github.com/chronicle-ai/article-agent/scraper"
	"github.com/chronicle-ai/article-agent/store"
)

// researchNode runs one scraper call per query, sequentially. A failed
// individual query is logged and skipped, never escalated; the batch
// continues. Results are accumulated across queries, then de-duplicated by
// URL. Below the threshold the stage either flags a retry (attempts left)
// or fails the job (retries exhausted). Partial results are kept in the
// state but replaced wholesale by the next research pass.
func (a *Agent) researchNode(ctx context.Context, state GenerationState) (GenerationState, error) {
	a.updateJob(ctx, store.JobUpdate{
		JobID:       state.JobID,
		Status:      statusPtr(store.StatusResearching),
		CurrentStep: strPtr("Searching for relevant articles and information"),
		Progress:    intPtr(40),
	})

	var all []scraper.Document
	for i, query := range state.SearchQueries {
		a.logger.Info("job %s: executing query %d/%d: %q", state.JobID, i+1, len(state.SearchQueries), query)

		results, err := a.source.Search(ctx, query, a.config.ResultsPerQuery)
		if err != nil {
			a.logger.Warn("job %s: query %q failed: %v", state.JobID, query, err)
			continue
		}
		if len(results) == 0 {
			a.logger.Debug("job %s: no results for query %q", state.JobID, query)
			continue
		}

		all = append(all, results...)
	}

	unique := dedupeByURL(all)
	a.logger.Info("job %s: research found %d unique documents", state.JobID, len(unique))

	if len(unique) >= a.config.MinResearchResults {
		a.updateJob(ctx, store.JobUpdate{
			JobID:        state.JobID,
			ResearchData: unique,
			CurrentStep:  strPtr(fmt.Sprintf("Found %d relevant articles", len(unique))),
			Progress:     intPtr(60),
		})

		state.ResearchResults = unique
		state.ResearchSucceeded = true
		state.ShouldRetryResearch = false
		return state, nil
	}

	if state.SearchAttempts < a.config.MaxSearchAttempts {
		a.logger.Info("job %s: insufficient results (%d), will retry with new queries", state.JobID, len(unique))

		a.updateJob(ctx, store.JobUpdate{
			JobID:       state.JobID,
			CurrentStep: strPtr(fmt.Sprintf("Found only %d articles. Retrying with different queries...", len(unique))),
			Progress:    intPtr(30),
		})

		state.ResearchResults = unique
		state.ResearchSucceeded = false
		state.ShouldRetryResearch = true
		return state, nil
	}

	msg := fmt.Sprintf("Could not find enough relevant articles after %d attempts. Found %d articles.",
		a.config.MaxSearchAttempts, len(unique))
	return a.fail(ctx, state, msg), nil
}

// dedupeByURL keeps the first occurrence of each URL, preserving order.
func dedupeByURL(docs []scraper.Document) []scraper.Document {
	seen := make(map[string]bool, len(docs))
	unique := make([]scraper.Document, 0, len(docs))
	for _, doc := range docs {
		if seen[doc.URL] {
			continue
		}
		seen[doc.URL] = true
		unique = append(unique, doc)
	}
	return unique
}
