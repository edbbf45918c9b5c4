// Package memory provides in-process implementations of the store
// interfaces, backed by maps. Intended for tests and local runs.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chronicle-ai/article-agent/store"
)

// Store implements store.ArticleStore and store.JobStore in memory.
type Store struct {
	mu       sync.RWMutex
	jobs     map[string]*store.Job
	articles map[string]*store.Article
}

var (
	_ store.ArticleStore = (*Store)(nil)
	_ store.JobStore     = (*Store)(nil)
)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		jobs:     make(map[string]*store.Job),
		articles: make(map[string]*store.Article),
	}
}

// CreateJob inserts a new queued job.
func (s *Store) CreateJob(ctx context.Context, userID, prompt string) (*store.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job := &store.Job{
		ID:        uuid.NewString(),
		UserID:    userID,
		Prompt:    prompt,
		Status:    store.StatusQueued,
		CreatedAt: time.Now(),
	}
	s.jobs[job.ID] = job

	copied := *job
	return &copied, nil
}

// UpdateJob applies a partial update to a job.
func (s *Store) UpdateJob(ctx context.Context, update store.JobUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[update.JobID]
	if !ok {
		return store.ErrJobNotFound
	}

	if update.Status != nil {
		job.Status = *update.Status
		if job.StartedAt == nil {
			now := time.Now()
			job.StartedAt = &now
		}
		if *update.Status == store.StatusCompleted {
			now := time.Now()
			job.CompletedAt = &now
		}
	}
	if update.CurrentStep != nil {
		job.CurrentStep = *update.CurrentStep
	}
	if update.Progress != nil {
		job.Progress = *update.Progress
	}
	if update.SearchQueries != nil {
		job.SearchQueries = append([]string(nil), update.SearchQueries...)
	}
	if update.ResearchData != nil {
		job.ResearchData = update.ResearchData
	}
	if update.ArticleID != nil {
		job.ArticleID = *update.ArticleID
	}
	if update.ErrorMessage != nil {
		job.ErrorMessage = *update.ErrorMessage
	}

	return nil
}

// GetJob returns a copy of the job record.
func (s *Store) GetJob(ctx context.Context, jobID string) (*store.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return nil, store.ErrJobNotFound
	}

	copied := *job
	return &copied, nil
}

// CreateArticle inserts a new draft article.
func (s *Store) CreateArticle(ctx context.Context, params store.CreateArticleParams) (*store.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	article := &store.Article{
		ID:            uuid.NewString(),
		UserID:        params.UserID,
		Title:         params.Title,
		Summary:       params.Summary,
		Content:       params.Content,
		Category:      params.Category,
		Tags:          append([]string(nil), params.Tags...),
		CoverImage:    params.CoverImage,
		ArticleImages: append([]string(nil), params.ArticleImages...),
		Status:        store.ArticleStatusDraft,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.articles[article.ID] = article

	copied := *article
	return &copied, nil
}

// UpdateArticleImages patches only the image fields.
func (s *Store) UpdateArticleImages(ctx context.Context, articleID, coverImage string, articleImages []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	article, ok := s.articles[articleID]
	if !ok {
		return store.ErrArticleNotFound
	}

	article.CoverImage = coverImage
	article.ArticleImages = append([]string(nil), articleImages...)
	article.UpdatedAt = time.Now()

	return nil
}

// GetArticle returns a copy of the article row.
func (s *Store) GetArticle(ctx context.Context, articleID string) (*store.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	article, ok := s.articles[articleID]
	if !ok {
		return nil, store.ErrArticleNotFound
	}

	copied := *article
	return &copied, nil
}
