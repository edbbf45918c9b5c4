package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"

	"github.com/chronicle-ai/article-agent/store"
)

func newTestStore(t *testing.T) (*JobStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	assert.NoError(t, err)
	t.Cleanup(mr.Close)

	s := NewJobStore(Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = s.Close() })

	return s, mr
}

func TestJobLifecycle(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	job, err := s.CreateJob(ctx, "user-1", "write about wind power")
	assert.NoError(t, err)
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, store.StatusQueued, job.Status)

	writing := store.StatusWriting
	step := "Writing the article"
	progress := 70
	err = s.UpdateJob(ctx, store.JobUpdate{
		JobID:       job.ID,
		Status:      &writing,
		CurrentStep: &step,
		Progress:    &progress,
	})
	assert.NoError(t, err)

	loaded, err := s.GetJob(ctx, job.ID)
	assert.NoError(t, err)
	assert.Equal(t, store.StatusWriting, loaded.Status)
	assert.Equal(t, 70, loaded.Progress)
	assert.NotNil(t, loaded.StartedAt)
	assert.Nil(t, loaded.CompletedAt)

	completed := store.StatusCompleted
	err = s.UpdateJob(ctx, store.JobUpdate{JobID: job.ID, Status: &completed})
	assert.NoError(t, err)

	loaded, err = s.GetJob(ctx, job.ID)
	assert.NoError(t, err)
	assert.NotNil(t, loaded.CompletedAt)
}

func TestPartialUpdatePreservesFields(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	job, err := s.CreateJob(ctx, "user-1", "prompt")
	assert.NoError(t, err)

	queries := []string{"q1", "q2", "q3"}
	err = s.UpdateJob(ctx, store.JobUpdate{JobID: job.ID, SearchQueries: queries})
	assert.NoError(t, err)

	loaded, err := s.GetJob(ctx, job.ID)
	assert.NoError(t, err)
	assert.Equal(t, queries, loaded.SearchQueries)
	assert.Equal(t, store.StatusQueued, loaded.Status)
	assert.Equal(t, "prompt", loaded.Prompt)
}

func TestGetUnknownJob(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.GetJob(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrJobNotFound)

	err = s.UpdateJob(context.Background(), store.JobUpdate{JobID: "missing"})
	assert.ErrorIs(t, err, store.ErrJobNotFound)
}

func TestTTLExpiresJobRecords(t *testing.T) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	defer mr.Close()

	s := NewJobStore(Options{Addr: mr.Addr(), TTL: time.Minute})
	defer func() { _ = s.Close() }()

	job, err := s.CreateJob(context.Background(), "user-1", "prompt")
	assert.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = s.GetJob(context.Background(), job.ID)
	assert.ErrorIs(t, err, store.ErrJobNotFound)
}
