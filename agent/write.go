package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/chronicle-ai/article-agent/scraper"
	"github.com/chronicle-ai/article-agent/store"
)

// writeArticleNode turns the research into a finished article and persists
// it as a draft. Research already succeeded by the time this runs, so any
// failure here is a hard stop rather than a retry loop.
func (a *Agent) writeArticleNode(ctx context.Context, state GenerationState) (GenerationState, error) {
	a.logger.Info("job %s: writing article", state.JobID)

	a.updateJob(ctx, store.JobUpdate{
		JobID:       state.JobID,
		Status:      statusPtr(store.StatusWriting),
		CurrentStep: strPtr("Writing the article based on research"),
		Progress:    intPtr(70),
	})

	prompt := writeArticlePrompt(state.Analysis, state.ResearchResults, a.config.SourceExcerptChars)

	response, err := a.llm.Invoke(ctx, prompt)
	if err != nil {
		return a.fail(ctx, state, fmt.Sprintf("Failed to write article: %v", err)), nil
	}

	var parsed struct {
		Title   string   `json:"title"`
		Summary string   `json:"summary"`
		Content string   `json:"content"`
		Tags    []string `json:"tags"`
	}
	if err := decodeModelJSON(response, &parsed); err != nil {
		return a.fail(ctx, state, fmt.Sprintf("Failed to write article: %v", err)), nil
	}
	if parsed.Title == "" || parsed.Content == "" {
		return a.fail(ctx, state, "Failed to write article: response missing title or content"), nil
	}

	a.logger.Info("job %s: article written: %q", state.JobID, parsed.Title)

	article, err := a.articles.CreateArticle(ctx, store.CreateArticleParams{
		UserID:   state.UserID,
		Title:    parsed.Title,
		Summary:  parsed.Summary,
		Content:  parsed.Content,
		Category: state.Analysis.Category,
		Tags:     parsed.Tags,
	})
	if err != nil {
		return a.fail(ctx, state, fmt.Sprintf("Failed to write article: %v", err)), nil
	}

	a.logger.Info("job %s: article saved as %s", state.JobID, article.ID)

	a.updateJob(ctx, store.JobUpdate{
		JobID:       state.JobID,
		ArticleID:   &article.ID,
		CurrentStep: strPtr("Article written and saved"),
		Progress:    intPtr(90),
	})

	state.Draft = &ArticleDraft{
		Title:    parsed.Title,
		Summary:  parsed.Summary,
		Content:  parsed.Content,
		Category: state.Analysis.Category,
		Tags:     parsed.Tags,
	}
	state.ArticleID = article.ID
	return state, nil
}

// wordCountTarget maps the requested length to a word-count band. Medium is
// the default.
func wordCountTarget(length string) string {
	switch length {
	case "short":
		return "500-800 words"
	case "long":
		return "1500-2000 words"
	default:
		return "1000-1500 words"
	}
}

// buildResearchContext quotes an excerpt of each source with attribution.
func buildResearchContext(docs []scraper.Document, excerptChars int) string {
	blocks := make([]string, 0, len(docs))
	for i, doc := range docs {
		blocks = append(blocks, fmt.Sprintf(`
Source %d: %s
URL: %s
Published: %s
Content: %s
`, i+1, doc.Title, doc.URL, doc.PublishDate, truncateRunes(doc.Content, excerptChars)))
	}
	return strings.Join(blocks, "\n---\n")
}

func writeArticlePrompt(analysis *Analysis, docs []scraper.Document, excerptChars int) string {
	tone := analysis.Tone
	if tone == "" {
		tone = "professional"
	}
	wordCount := wordCountTarget(analysis.Length)

	var contextLine string
	if analysis.AdditionalContext != "" {
		contextLine = fmt.Sprintf("Additional Context: %s\n", analysis.AdditionalContext)
	}

	return fmt.Sprintf(`You are a professional journalist. Write a comprehensive, well-researched article based on the following information:

Topic: %s
Category: %s
Tone: %s
Target Length: %s
Keywords to include: %s
%s
Research Sources:
%s

Instructions:
1. Write an engaging, factual article based on the research provided
2. Use proper markdown formatting (headings, lists, emphasis)
3. Include all key information from the sources
4. Cite or reference the sources naturally in the text
5. Make it engaging and easy to read
6. Length should be approximately %s
7. Use the %s tone throughout

Respond with a JSON object:
{
  "title": "Article Title Here",
  "summary": "A 2-3 sentence summary",
  "content": "Full article content in markdown",
  "tags": ["tag1", "tag2", "tag3"]
}`,
		analysis.Topic,
		analysis.Category,
		tone,
		wordCount,
		strings.Join(analysis.Keywords, ", "),
		contextLine,
		buildResearchContext(docs, excerptChars),
		wordCount,
		tone,
	)
}
