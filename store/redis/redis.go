package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/chronicle-ai/article-agent/store"
)

// JobStore implements store.JobStore using Redis. Job records are stored as
// JSON values so the UI layer can poll them cheaply; an optional TTL expires
// finished jobs.
//
// The agent is the single writer for a job's record, so the read-modify-write
// in UpdateJob needs no locking beyond Redis itself.
type JobStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ store.JobStore = (*JobStore)(nil)

// Options configuration for the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string        // Key prefix, default "agent:"
	TTL      time.Duration // Expiration for job records, default 0 (no expiration)
}

// NewJobStore creates a new Redis-backed job store.
func NewJobStore(opts Options) *JobStore {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "agent:"
	}

	return &JobStore{
		client: client,
		prefix: prefix,
		ttl:    opts.TTL,
	}
}

func (s *JobStore) jobKey(id string) string {
	return fmt.Sprintf("%sjob:%s", s.prefix, id)
}

// CreateJob inserts a new queued job.
func (s *JobStore) CreateJob(ctx context.Context, userID, prompt string) (*store.Job, error) {
	job := &store.Job{
		ID:        uuid.NewString(),
		UserID:    userID,
		Prompt:    prompt,
		Status:    store.StatusQueued,
		CreatedAt: time.Now(),
	}

	if err := s.save(ctx, job); err != nil {
		return nil, err
	}

	return job, nil
}

// UpdateJob applies a partial update to a job record.
func (s *JobStore) UpdateJob(ctx context.Context, update store.JobUpdate) error {
	job, err := s.GetJob(ctx, update.JobID)
	if err != nil {
		return err
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
		job.SearchQueries = update.SearchQueries
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

	return s.save(ctx, job)
}

// GetJob returns a job by ID.
func (s *JobStore) GetJob(ctx context.Context, jobID string) (*store.Job, error) {
	data, err := s.client.Get(ctx, s.jobKey(jobID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, store.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to load job from redis: %w", err)
	}

	var job store.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job: %w", err)
	}

	return &job, nil
}

// Close releases the underlying Redis client.
func (s *JobStore) Close() error {
	return s.client.Close()
}

func (s *JobStore) save(ctx context.Context, job *store.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	if err := s.client.Set(ctx, s.jobKey(job.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save job to redis: %w", err)
	}

	return nil
}
