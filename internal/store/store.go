package store

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/joseph-ayodele/geophoto-tracker/internal/common"
	"github.com/joseph-ayodele/geophoto-tracker/internal/entity"
	"github.com/joseph-ayodele/geophoto-tracker/internal/repository"
)

// DuplicateTolerance is the per-axis degree delta under which two positions
// with the same timestamp are the same photo (about 11 m).
const DuplicateTolerance = 0.0001

// IsDuplicate reports whether candidate matches any existing record.
func IsDuplicate(existing []entity.CoordinateRecord, candidate entity.CoordinateRecord) bool {
	for _, r := range existing {
		if r.Timestamp == candidate.Timestamp &&
			math.Abs(r.Latitude-candidate.Latitude) < DuplicateTolerance &&
			math.Abs(r.Longitude-candidate.Longitude) < DuplicateTolerance {
			return true
		}
	}
	return false
}

// Store is the in-memory view of the record repository. One mutex covers
// the duplicate check plus append, so concurrent submissions of the same
// photo store it once.
type Store struct {
	mu      sync.Mutex
	repo    repository.RecordRepository
	records []entity.CoordinateRecord
	logger  *slog.Logger
}

// New loads every persisted record from repo.
func New(ctx context.Context, repo repository.RecordRepository, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	recs, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	logger.Info("record store loaded", "count", len(recs))
	return &Store{repo: repo, records: recs, logger: logger}, nil
}

// Accept persists rec unless it duplicates a stored record, in which case
// common.ErrDuplicate is returned. The stored record carries its new ID.
func (s *Store) Accept(ctx context.Context, rec entity.CoordinateRecord) (entity.CoordinateRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if IsDuplicate(s.records, rec) {
		s.logger.Info("duplicate record ignored", "timestamp", rec.Timestamp, "lat", rec.Latitude, "lon", rec.Longitude)
		return entity.CoordinateRecord{}, common.ErrDuplicate
	}
	stored, err := s.repo.Append(ctx, rec)
	if err != nil {
		s.logger.Error("failed to persist record", "timestamp", rec.Timestamp, "error", err)
		return entity.CoordinateRecord{}, err
	}
	s.records = append(s.records, stored)
	s.logger.Info("record stored", "id", stored.ID, "client", stored.ClientName(), "timestamp", stored.Timestamp)
	return stored, nil
}

// Snapshot returns a consistent copy of every stored record.
func (s *Store) Snapshot() []entity.CoordinateRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.CoordinateRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Close releases the underlying repository.
func (s *Store) Close() error {
	return s.repo.Close()
}
