package service

import (
	"context"
	"time"

	"bitwise74/gallery-api/model"

	"gorm.io/gorm"
)

// Resync never needs to count past this. The display cap is far below it.
const maxResyncKeys = 1000

// StatsService maintains the local usage ledger
type StatsService struct {
	DB    *gorm.DB
	Store ObjectStore
}

// Fetch returns the ledger row, creating the empty singleton on first use
func (s *StatsService) Fetch() (*model.Stats, error) {
	var stats model.Stats

	err := s.DB.
		Where(model.Stats{ID: 1}).
		FirstOrCreate(&stats).
		Error
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

// RecordPresign bumps the incremental counters for one accepted request.
// Best effort only: counters may drift from the bucket until the next resync
// and are never treated as equal to a live listing.
func (s *StatsService) RecordPresign(size int64, contributor string) error {
	stats, err := s.Fetch()
	if err != nil {
		return err
	}

	stats.ObjectCount++
	stats.BytesRequested += size

	if contributor != "" && !stats.Contributors.Contains(contributor) {
		stats.Contributors = append(stats.Contributors, contributor)
	}

	stats.LastUpdated = time.Now().Unix()

	return s.DB.Save(stats).Error
}

// Resync recounts object count and stored bytes from the live listing and
// overwrites the incremental counters. Contributors survive since a bucket
// listing can't recover them.
func (s *StatsService) Resync(ctx context.Context) (*model.Stats, error) {
	objs, err := s.Store.List(ctx, maxResyncKeys)
	if err != nil {
		return nil, err
	}

	stats, err := s.Fetch()
	if err != nil {
		return nil, err
	}

	var stored int64
	for _, o := range objs {
		if o.Size != nil {
			stored += *o.Size
		}
	}

	now := time.Now().Unix()

	stats.ObjectCount = int64(len(objs))
	stats.BytesStored = stored
	stats.LastUpdated = now
	stats.LastSyncedAt = now

	if err := s.DB.Save(stats).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
