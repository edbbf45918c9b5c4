package agent

const (
	defaultMinResearchResults = 3
	defaultMaxSearchAttempts  = 3
	defaultResultsPerQuery    = 5
	defaultMaxArticleImages   = 6
	defaultSourceExcerptChars = 1000
)

// Config holds the workflow's tunable knobs. The zero value of any field is
// replaced with its default.
type Config struct {
	// MinResearchResults is the minimum number of unique research documents
	// required before the article is written.
	MinResearchResults int

	// MaxSearchAttempts bounds how many times search queries are generated
	// for one job, including the first pass.
	MaxSearchAttempts int

	// ResultsPerQuery caps how many documents one scraper call may return.
	ResultsPerQuery int

	// MaxArticleImages caps the article gallery, cover image included.
	MaxArticleImages int

	// SourceExcerptChars limits how much of each source's content is quoted
	// in the writing prompt.
	SourceExcerptChars int
}

// DefaultConfig returns the configuration the agent ships with.
func DefaultConfig() Config {
	return Config{
		MinResearchResults: defaultMinResearchResults,
		MaxSearchAttempts:  defaultMaxSearchAttempts,
		ResultsPerQuery:    defaultResultsPerQuery,
		MaxArticleImages:   defaultMaxArticleImages,
		SourceExcerptChars: defaultSourceExcerptChars,
	}
}

func (c Config) withDefaults() Config {
	if c.MinResearchResults <= 0 {
		c.MinResearchResults = defaultMinResearchResults
	}
	if c.MaxSearchAttempts <= 0 {
		c.MaxSearchAttempts = defaultMaxSearchAttempts
	}
	if c.ResultsPerQuery <= 0 {
		c.ResultsPerQuery = defaultResultsPerQuery
	}
	if c.MaxArticleImages <= 0 {
		c.MaxArticleImages = defaultMaxArticleImages
	}
	if c.SourceExcerptChars <= 0 {
		c.SourceExcerptChars = defaultSourceExcerptChars
	}
	return c
}
