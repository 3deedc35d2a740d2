package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/presensi-go-api/internal/models"
)

// GormStore is the durable AttendanceStore backend. It honours the same
// append-only contract as the in-memory store, so the two are swappable
// behind the interface.
type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormStore wraps the database handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, now: time.Now}
}

// Append inserts the record, rejecting duplicate ids.
func (s *GormStore) Append(ctx context.Context, record models.AttendanceRecord) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.AttendanceRecord{}).Where("id = ?", record.ID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrDuplicateRecord
		}
		return tx.Create(&record).Error
	})
}

// List returns the user's records newest-first.
func (s *GormStore) List(ctx context.Context, userID string) ([]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// HasRecordToday checks for a record on the current local calendar date.
func (s *GormStore) HasRecordToday(ctx context.Context, userID string) (bool, error) {
	now := s.now().Local()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.Add(24 * time.Hour)

	var count int64
	err := s.db.WithContext(ctx).Model(&models.AttendanceRecord{}).
		Where("user_id = ? AND timestamp >= ? AND timestamp < ?", userID, start.UnixMilli(), end.UnixMilli()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountByUser returns the number of records held for the user.
func (s *GormStore) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.AttendanceRecord{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// CountByType breaks the user's records down per activity type.
func (s *GormStore) CountByType(ctx context.Context, userID string) (map[string]int64, error) {
	type row struct {
		Type  string
		Total int64
	}

	var rows []row
	err := s.db.WithContext(ctx).Model(&models.AttendanceRecord{}).
		Select("type, COUNT(*) AS total").
		Where("user_id = ?", userID).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Type] = r.Total
	}
	return counts, nil
}

// Purge discards all records for the user.
func (s *GormStore) Purge(ctx context.Context, userID string) error {
	return s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.AttendanceRecord{}).Error
}
