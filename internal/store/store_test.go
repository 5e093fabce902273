package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/insar-sbas/internal/hyp3"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "tracking.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateAndGetBatch(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	batch := &Batch{
		Name:            "ridgecrest-2019",
		Project:         "ridgecrest",
		AOI:             "POLYGON((-118 35,-117 35,-117 36,-118 36,-118 35))",
		JobType:         hyp3.JobTypeInsarGamma,
		Reference:       "S1A_reference",
		MaxTemporalDays: 24,
	}
	require.NoError(t, s.CreateBatch(ctx, batch))
	require.NotEmpty(t, batch.ID)
	require.False(t, batch.CreatedAt.IsZero())

	got, err := s.GetBatch(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, batch.Name, got.Name)
	assert.Equal(t, batch.JobType, got.JobType)
	assert.Equal(t, 24, got.MaxTemporalDays)
	assert.WithinDuration(t, batch.CreatedAt, got.CreatedAt, time.Millisecond)
}

func TestGetBatchNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetBatch(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListBatchesNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	older := &Batch{Name: "older", JobType: hyp3.JobTypeInsarGamma, Reference: "r",
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), MaxTemporalDays: 24}
	newer := &Batch{Name: "newer", JobType: hyp3.JobTypeInsarGamma, Reference: "r",
		CreatedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), MaxTemporalDays: 24}
	require.NoError(t, s.CreateBatch(ctx, older))
	require.NoError(t, s.CreateBatch(ctx, newer))

	batches, err := s.ListBatches(ctx)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, "newer", batches[0].Name)
	assert.Equal(t, "older", batches[1].Name)
}

func TestJobLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	batch := &Batch{Name: "batch", JobType: hyp3.JobTypeInsarGamma, Reference: "sceneA", MaxTemporalDays: 24}
	require.NoError(t, s.CreateBatch(ctx, batch))

	jobs := []hyp3.Job{
		{JobID: "j1", Status: hyp3.StatusPending,
			Parameters: hyp3.JobParameters{Granules: []string{"sceneA", "sceneB"}}},
		{JobID: "j2", Status: hyp3.StatusPending,
			Parameters: hyp3.JobParameters{Granules: []string{"sceneA", "sceneC"}}},
	}
	require.NoError(t, s.InsertJobs(ctx, batch.ID, jobs))

	require.NoError(t, s.UpdateJobStatus(ctx, "j1", hyp3.StatusSucceeded))
	require.NoError(t, s.SetJobProduct(ctx, "j1", "/data/products/j1"))

	got, err := s.GetJob(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, hyp3.StatusSucceeded, got.Status)
	assert.Equal(t, "/data/products/j1", got.ProductPath)
	assert.Equal(t, "sceneA", got.Reference)
	assert.Equal(t, "sceneB", got.Secondary)

	records, err := s.JobsForBatch(ctx, batch.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "j1", records[0].JobID)

	counts, err := s.StatusCounts(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[hyp3.StatusSucceeded])
	assert.Equal(t, 1, counts[hyp3.StatusPending])
}

func TestInsertJobsRequiresBatch(t *testing.T) {
	s := openTestStore(t)
	err := s.InsertJobs(context.Background(), "missing-batch", []hyp3.Job{{JobID: "j1"}})
	require.Error(t, err)
}

func TestUpdateUnknownJob(t *testing.T) {
	s := openTestStore(t)
	err := s.UpdateJobStatus(context.Background(), "ghost", hyp3.StatusFailed)
	assert.ErrorIs(t, err, ErrNotFound)
}
