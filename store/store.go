package store

import (
	"context"
	"errors"
	"time"
)

// JobStatus is the lifecycle status of one generation job. The agent moves a
// job strictly forward through these values, except that any stage may jump
// directly to StatusFailed.
type JobStatus string

const (
	StatusQueued      JobStatus = "QUEUED"
	StatusAnalyzing   JobStatus = "ANALYZING"
	StatusSearching   JobStatus = "SEARCHING"
	StatusResearching JobStatus = "RESEARCHING"
	StatusWriting     JobStatus = "WRITING"
	StatusReviewing   JobStatus = "REVIEWING"
	StatusCompleted   JobStatus = "COMPLETED"
	StatusFailed      JobStatus = "FAILED"
)

// ArticleStatusDraft is the status newly generated articles start with.
// Publication is handled outside the agent.
const ArticleStatusDraft = "DRAFT"

var (
	// ErrJobNotFound is returned when a job does not exist in the store.
	ErrJobNotFound = errors.New("job not found")

	// ErrArticleNotFound is returned when an article does not exist in the store.
	ErrArticleNotFound = errors.New("article not found")
)

// Job is the persisted status record of one generation job. The UI layer
// polls it to render progress while the agent runs.
type Job struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	Prompt        string     `json:"prompt"`
	Status        JobStatus  `json:"status"`
	CurrentStep   string     `json:"current_step"`
	Progress      int        `json:"progress"`
	SearchQueries []string   `json:"search_queries,omitempty"`
	ResearchData  any        `json:"research_data,omitempty"`
	ArticleID     string     `json:"article_id,omitempty"`
	ErrorMessage  string     `json:"error_message,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// JobUpdate is a partial update of a Job. Only non-nil fields change; the
// store never validates status ordering, transitions are caller-enforced.
type JobUpdate struct {
	JobID         string
	Status        *JobStatus
	CurrentStep   *string
	Progress      *int
	SearchQueries []string
	ResearchData  any
	ArticleID     *string
	ErrorMessage  *string
}

// Article is the persisted article row produced by the agent.
type Article struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Title         string    `json:"title"`
	Summary       string    `json:"summary"`
	Content       string    `json:"content"`
	Category      string    `json:"category"`
	Tags          []string  `json:"tags"`
	CoverImage    string    `json:"cover_image,omitempty"`
	ArticleImages []string  `json:"article_images,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateArticleParams are the fields the agent supplies when inserting a new
// article. The row is created with ArticleStatusDraft and no images; images
// are patched in later.
type CreateArticleParams struct {
	UserID        string
	Title         string
	Summary       string
	Content       string
	Category      string
	Tags          []string
	CoverImage    string
	ArticleImages []string
}

// ArticleStore persists generated articles.
type ArticleStore interface {
	// CreateArticle inserts a new draft article and returns the stored row,
	// including its assigned ID.
	CreateArticle(ctx context.Context, params CreateArticleParams) (*Article, error)

	// UpdateArticleImages patches only the image fields of an existing article.
	UpdateArticleImages(ctx context.Context, articleID, coverImage string, articleImages []string) error

	// GetArticle returns an article by ID, or ErrArticleNotFound.
	GetArticle(ctx context.Context, articleID string) (*Article, error)
}

// JobStore persists job-status records.
type JobStore interface {
	// CreateJob inserts a new queued job and returns the stored record.
	CreateJob(ctx context.Context, userID, prompt string) (*Job, error)

	// UpdateJob applies a partial update to a job. The first status change
	// stamps StartedAt; a transition to StatusCompleted stamps CompletedAt.
	UpdateJob(ctx context.Context, update JobUpdate) error

	// GetJob returns a job by ID, or ErrJobNotFound.
	GetJob(ctx context.Context, jobID string) (*Job, error)
}
