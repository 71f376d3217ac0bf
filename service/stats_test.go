package service

import (
	"context"
	"testing"

	"bitwise74/gallery-api/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"))
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(model.Stats{}, model.Link{}))

	return db
}

func TestFetch_CreatesTheSingletonRow(t *testing.T) {
	s := &StatsService{DB: newTestDB(t)}

	first, err := s.Fetch()
	require.NoError(t, err)

	second, err := s.Fetch()
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Zero(t, first.ObjectCount)
}

func TestRecordPresign_BumpsCountersAndTracksContributors(t *testing.T) {
	s := &StatsService{DB: newTestDB(t)}

	require.NoError(t, s.RecordPresign(100, "alice"))
	require.NoError(t, s.RecordPresign(250, "alice"))
	require.NoError(t, s.RecordPresign(50, "bob"))

	stats, err := s.Fetch()
	require.NoError(t, err)

	assert.EqualValues(t, 3, stats.ObjectCount)
	assert.EqualValues(t, 400, stats.BytesRequested)
	assert.Len(t, stats.Contributors, 2)
	assert.NotZero(t, stats.LastUpdated)
}

func TestResync_OverwritesInsteadOfMerging(t *testing.T) {
	store := &fakeStore{
		objects: []types.Object{
			{Key: aws.String("a.mp4"), Size: aws.Int64(10)},
			{Key: aws.String("b.mp4"), Size: aws.Int64(20)},
			{Key: aws.String("c.mp4"), Size: aws.Int64(30)},
		},
	}

	s := &StatsService{DB: newTestDB(t), Store: store}

	// Drift the incremental counters far away from the truth first
	for range 10 {
		require.NoError(t, s.RecordPresign(1<<20, "alice"))
	}

	stats, err := s.Resync(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 3, stats.ObjectCount)
	assert.EqualValues(t, 60, stats.BytesStored)
	assert.NotZero(t, stats.LastSyncedAt)

	// Contributors can't be recovered from a listing, they survive
	assert.Len(t, stats.Contributors, 1)
}

func TestResync_ListingFailurePropagates(t *testing.T) {
	store := &fakeStore{listErr: assert.AnError}
	s := &StatsService{DB: newTestDB(t), Store: store}

	_, err := s.Resync(context.Background())
	assert.Error(t, err)
}
