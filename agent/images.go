package agent

import (
	"context"
	"net/url"

	"github.com/chronicle-ai/article-agent/store"
)

// selectImageNode picks a cover image and a gallery from the research
// documents and patches the already-persisted article. The article text is
// done by now, so image trouble never fails the job: every problem in this
// stage is swallowed and the job still completes. The asymmetry with the
// earlier stages is deliberate.
func (a *Agent) selectImageNode(ctx context.Context, state GenerationState) (GenerationState, error) {
	a.updateJob(ctx, store.JobUpdate{
		JobID:       state.JobID,
		Status:      statusPtr(store.StatusReviewing),
		CurrentStep: strPtr("Selecting images for the article"),
		Progress:    intPtr(95),
	})

	candidates := a.collectImageCandidates(state)

	if len(candidates) == 0 {
		a.logger.Info("job %s: no valid images found, completing without images", state.JobID)
		return a.complete(ctx, state, "Article completed (no images found)"), nil
	}

	coverImage := candidates[0]
	gallery := candidates
	if len(gallery) > a.config.MaxArticleImages {
		gallery = gallery[:a.config.MaxArticleImages]
	}

	if err := a.articles.UpdateArticleImages(ctx, state.ArticleID, coverImage, gallery); err != nil {
		a.logger.Warn("job %s: image update failed: %v", state.JobID, err)
		return a.complete(ctx, state, "Article completed (image selection had issues)"), nil
	}

	a.logger.Info("job %s: selected cover image and %d gallery images", state.JobID, len(gallery))

	state.Draft.CoverImage = coverImage
	state.Draft.ArticleImages = gallery
	return a.complete(ctx, state, "Article completed with images"), nil
}

// collectImageCandidates gathers every image reference across the research
// documents in discovery order (main image first, then secondary images per
// source), keeps only valid absolute http(s) URLs, and de-duplicates by
// exact URL.
func (a *Agent) collectImageCandidates(state GenerationState) []string {
	var all []string
	for _, doc := range state.ResearchResults {
		if doc.MainImage != "" {
			all = append(all, doc.MainImage)
		}
		all = append(all, doc.Images...)
	}

	seen := make(map[string]bool, len(all))
	var valid []string
	for _, img := range all {
		if seen[img] {
			continue
		}
		seen[img] = true

		if !isValidImageURL(img) {
			a.logger.Debug("job %s: dropping invalid image url %q", state.JobID, img)
			continue
		}
		valid = append(valid, img)
	}

	return valid
}

// complete marks the job COMPLETED and the state terminal.
func (a *Agent) complete(ctx context.Context, state GenerationState, step string) GenerationState {
	a.updateJob(ctx, store.JobUpdate{
		JobID:       state.JobID,
		Status:      statusPtr(store.StatusCompleted),
		CurrentStep: &step,
		Progress:    intPtr(100),
	})

	state.Completed = true
	return state
}

// isValidImageURL accepts only syntactically valid absolute http(s) URLs.
func isValidImageURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
