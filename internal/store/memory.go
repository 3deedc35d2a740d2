package store

import (
	"context"
	"sync"
	"time"

	"github.com/noah-isme/presensi-go-api/internal/models"
)

// MemoryStore keeps records in process memory for the lifetime of the
// session. All state is lost when the store is discarded.
type MemoryStore struct {
	mu      sync.RWMutex
	records []models.AttendanceRecord
	ids     map[string]struct{}
	now     func() time.Time
}

// NewMemoryStore initialises an empty session-scoped store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		ids: make(map[string]struct{}),
		now: time.Now,
	}
}

// Append front-inserts the record, rejecting duplicate ids.
func (s *MemoryStore) Append(_ context.Context, record models.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.ids[record.ID]; exists {
		return ErrDuplicateRecord
	}

	s.ids[record.ID] = struct{}{}
	s.records = append([]models.AttendanceRecord{record}, s.records...)
	return nil
}

// List returns a newest-first copy of the user's records.
func (s *MemoryStore) List(_ context.Context, userID string) ([]models.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.AttendanceRecord, 0, len(s.records))
	for _, record := range s.records {
		if record.UserID == userID {
			result = append(result, record)
		}
	}
	return result, nil
}

// HasRecordToday reports whether any record's timestamp falls on the current
// local calendar date.
func (s *MemoryStore) HasRecordToday(_ context.Context, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	today := s.now().Local()
	for _, record := range s.records {
		if record.UserID != userID {
			continue
		}
		recorded := record.RecordedAt().Local()
		if sameDay(recorded, today) {
			return true, nil
		}
	}
	return false, nil
}

// CountByUser returns the number of records held for the user.
func (s *MemoryStore) CountByUser(_ context.Context, userID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, record := range s.records {
		if record.UserID == userID {
			count++
		}
	}
	return count, nil
}

// CountByType breaks the user's records down per activity type.
func (s *MemoryStore) CountByType(_ context.Context, userID string) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int64)
	for _, record := range s.records {
		if record.UserID == userID {
			counts[string(record.Type)]++
		}
	}
	return counts, nil
}

// Purge discards all records for the user.
func (s *MemoryStore) Purge(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	for _, record := range s.records {
		if record.UserID == userID {
			delete(s.ids, record.ID)
			continue
		}
		kept = append(kept, record)
	}
	s.records = kept
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
