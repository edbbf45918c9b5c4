package agent

import (
	"github.com/chronicle-ai/article-agent/scraper"
)

// Analysis is the structured intent extracted from the user prompt.
type Analysis struct {
	Topic             string   `json:"topic"`
	Category          string   `json:"category"`
	Keywords          []string `json:"keywords"`
	Tone              string   `json:"tone,omitempty"`
	Length            string   `json:"length,omitempty"`
	AdditionalContext string   `json:"additionalContext,omitempty"`
}

// ArticleDraft is the article produced by the writing stage, patched with
// image fields by the image-selection stage.
type ArticleDraft struct {
	Title         string   `json:"title"`
	Summary       string   `json:"summary"`
	Content       string   `json:"content"`
	Category      string   `json:"category"`
	Tags          []string `json:"tags"`
	CoverImage    string   `json:"coverImage,omitempty"`
	ArticleImages []string `json:"articleImages,omitempty"`
}

// GenerationState is threaded through the workflow for one job. Fields are
// append-only except the retry-control flags, which reset per retry cycle.
// The state lives only for the duration of one run; durable outcomes are the
// writes to the job and article stores.
type GenerationState struct {
	// Input, immutable after the run starts.
	Prompt string
	UserID string
	JobID  string

	// Produced once by the analyze stage.
	Analysis *Analysis

	// Overwritten on each generate_searches invocation; retries replace,
	// not append. SearchAttempts only ever increases and bounds retries.
	SearchQueries  []string
	SearchAttempts int

	// Overwritten wholesale by each research invocation, de-duplicated by
	// source URL.
	ResearchResults     []scraper.Document
	ResearchSucceeded   bool
	ShouldRetryResearch bool

	// Set by write_article; Draft's image fields patched by select_image.
	// ArticleID is set at most once and never cleared.
	Draft     *ArticleDraft
	ArticleID string

	// Error short-circuits remaining stages once set. Completed marks the
	// terminal state: exactly one of (Completed with empty Error) or
	// (Completed with Error) holds at workflow termination.
	Error     string
	Completed bool
}
