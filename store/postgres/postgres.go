package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chronicle-ai/article-agent/store"
)

// DBPool defines the interface for the database connection pool.
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// Store implements store.ArticleStore and store.JobStore using PostgreSQL.
type Store struct {
	pool          DBPool
	articlesTable string
	jobsTable     string
}

var (
	_ store.ArticleStore = (*Store)(nil)
	_ store.JobStore     = (*Store)(nil)
)

// Options configuration for the Postgres connection.
type Options struct {
	ConnString    string
	ArticlesTable string // Default "articles"
	JobsTable     string // Default "agent_jobs"
}

// New creates a new Postgres store with its own connection pool.
func New(ctx context.Context, opts Options) (*Store, error) {
	pool, err := pgxpool.New(ctx, opts.ConnString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	return NewWithPool(pool, opts.ArticlesTable, opts.JobsTable), nil
}

// NewWithPool creates a new Postgres store with an existing pool.
// Useful for testing with mocks.
func NewWithPool(pool DBPool, articlesTable, jobsTable string) *Store {
	if articlesTable == "" {
		articlesTable = "articles"
	}
	if jobsTable == "" {
		jobsTable = "agent_jobs"
	}
	return &Store{
		pool:          pool,
		articlesTable: articlesTable,
		jobsTable:     jobsTable,
	}
}

// InitSchema creates the necessary tables if they don't exist.
func (s *Store) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			summary TEXT NOT NULL,
			content TEXT NOT NULL,
			category TEXT NOT NULL,
			tags TEXT[] NOT NULL DEFAULT '{}',
			cover_image TEXT,
			article_images TEXT[] NOT NULL DEFAULT '{}',
			status TEXT NOT NULL DEFAULT 'DRAFT',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id TEXT NOT NULL,
			prompt TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'QUEUED',
			current_step TEXT NOT NULL DEFAULT '',
			progress INTEGER NOT NULL DEFAULT 0,
			search_queries JSONB,
			research_data JSONB,
			article_id UUID,
			error_message TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			started_at TIMESTAMPTZ,
			completed_at TIMESTAMPTZ
		);
		CREATE INDEX IF NOT EXISTS idx_%s_user_id ON %s (user_id);
	`, s.articlesTable, s.jobsTable, s.jobsTable, s.jobsTable)

	_, err := s.pool.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// CreateArticle inserts a new draft article and returns the stored row.
func (s *Store) CreateArticle(ctx context.Context, params store.CreateArticleParams) (*store.Article, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, title, summary, content, category, tags, cover_image, article_images, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, s.articlesTable)

	tags := params.Tags
	if tags == nil {
		tags = []string{}
	}
	images := params.ArticleImages
	if images == nil {
		images = []string{}
	}

	article := &store.Article{
		UserID:        params.UserID,
		Title:         params.Title,
		Summary:       params.Summary,
		Content:       params.Content,
		Category:      params.Category,
		Tags:          tags,
		CoverImage:    params.CoverImage,
		ArticleImages: images,
		Status:        store.ArticleStatusDraft,
	}

	err := s.pool.QueryRow(ctx, query,
		params.UserID,
		params.Title,
		params.Summary,
		params.Content,
		params.Category,
		tags,
		params.CoverImage,
		images,
		store.ArticleStatusDraft,
	).Scan(&article.ID, &article.CreatedAt, &article.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to create article: %w", err)
	}

	return article, nil
}

// UpdateArticleImages patches only the image fields of an article.
func (s *Store) UpdateArticleImages(ctx context.Context, articleID, coverImage string, articleImages []string) error {
	if articleImages == nil {
		articleImages = []string{}
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET cover_image = $1, article_images = $2, updated_at = now()
		WHERE id = $3
	`, s.articlesTable)

	tag, err := s.pool.Exec(ctx, query, coverImage, articleImages, articleID)
	if err != nil {
		return fmt.Errorf("failed to update article images: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrArticleNotFound
	}

	return nil
}

// GetArticle returns an article by ID.
func (s *Store) GetArticle(ctx context.Context, articleID string) (*store.Article, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, title, summary, content, category, tags,
		       COALESCE(cover_image, ''), article_images, status, created_at, updated_at
		FROM %s WHERE id = $1
	`, s.articlesTable)

	var article store.Article
	err := s.pool.QueryRow(ctx, query, articleID).Scan(
		&article.ID,
		&article.UserID,
		&article.Title,
		&article.Summary,
		&article.Content,
		&article.Category,
		&article.Tags,
		&article.CoverImage,
		&article.ArticleImages,
		&article.Status,
		&article.CreatedAt,
		&article.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, store.ErrArticleNotFound
		}
		return nil, fmt.Errorf("failed to get article: %w", err)
	}

	return &article, nil
}

// CreateJob inserts a new queued job and returns the stored record.
func (s *Store) CreateJob(ctx context.Context, userID, prompt string) (*store.Job, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, prompt, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, s.jobsTable)

	job := &store.Job{
		UserID: userID,
		Prompt: prompt,
		Status: store.StatusQueued,
	}

	err := s.pool.QueryRow(ctx, query, userID, prompt, store.StatusQueued).
		Scan(&job.ID, &job.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	return job, nil
}

// UpdateJob applies a partial update to a job. The UPDATE statement is built
// dynamically so only the supplied fields are touched.
func (s *Store) UpdateJob(ctx context.Context, update store.JobUpdate) error {
	builder := sq.Update(s.jobsTable).PlaceholderFormat(sq.Dollar)
	touched := false

	if update.Status != nil {
		builder = builder.
			Set("status", string(*update.Status)).
			Set("started_at", sq.Expr("COALESCE(started_at, now())"))
		if *update.Status == store.StatusCompleted {
			builder = builder.Set("completed_at", sq.Expr("now()"))
		}
		touched = true
	}
	if update.CurrentStep != nil {
		builder = builder.Set("current_step", *update.CurrentStep)
		touched = true
	}
	if update.Progress != nil {
		builder = builder.Set("progress", *update.Progress)
		touched = true
	}
	if update.SearchQueries != nil {
		data, err := json.Marshal(update.SearchQueries)
		if err != nil {
			return fmt.Errorf("failed to marshal search queries: %w", err)
		}
		builder = builder.Set("search_queries", data)
		touched = true
	}
	if update.ResearchData != nil {
		data, err := json.Marshal(update.ResearchData)
		if err != nil {
			return fmt.Errorf("failed to marshal research data: %w", err)
		}
		builder = builder.Set("research_data", data)
		touched = true
	}
	if update.ArticleID != nil {
		builder = builder.Set("article_id", *update.ArticleID)
		touched = true
	}
	if update.ErrorMessage != nil {
		builder = builder.Set("error_message", *update.ErrorMessage)
		touched = true
	}

	if !touched {
		return nil
	}

	query, args, err := builder.Where(sq.Eq{"id": update.JobID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrJobNotFound
	}

	return nil
}

// GetJob returns a job by ID.
func (s *Store) GetJob(ctx context.Context, jobID string) (*store.Job, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, prompt, status, current_step, progress,
		       search_queries, research_data, COALESCE(article_id::text, ''),
		       COALESCE(error_message, ''), created_at, started_at, completed_at
		FROM %s WHERE id = $1
	`, s.jobsTable)

	var job store.Job
	var queriesJSON, researchJSON []byte

	err := s.pool.QueryRow(ctx, query, jobID).Scan(
		&job.ID,
		&job.UserID,
		&job.Prompt,
		&job.Status,
		&job.CurrentStep,
		&job.Progress,
		&queriesJSON,
		&researchJSON,
		&job.ArticleID,
		&job.ErrorMessage,
		&job.CreatedAt,
		&job.StartedAt,
		&job.CompletedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, store.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	if len(queriesJSON) > 0 {
		if err := json.Unmarshal(queriesJSON, &job.SearchQueries); err != nil {
			return nil, fmt.Errorf("failed to unmarshal search queries: %w", err)
		}
	}
	if len(researchJSON) > 0 {
		var research any
		if err := json.Unmarshal(researchJSON, &research); err != nil {
			return nil, fmt.Errorf("failed to unmarshal research data: %w", err)
		}
		job.ResearchData = research
	}

	return &job, nil
}
