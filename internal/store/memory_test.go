package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/presensi-go-api/internal/models"
)

func record(id, userID string, activity models.ActivityType, ts time.Time) models.AttendanceRecord {
	return models.AttendanceRecord{
		ID:        id,
		UserID:    userID,
		Type:      activity,
		Timestamp: ts.UnixMilli(),
		CreatedAt: ts,
	}
}

func TestMemoryStoreAppendIsNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, s.Append(ctx, record("a", "u1", models.TypeCheckIn, now.Add(-time.Hour))))
	require.NoError(t, s.Append(ctx, record("b", "u1", models.TypeCheckOut, now)))

	records, err := s.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "b", records[0].ID)
	require.Equal(t, "a", records[1].ID)
}

func TestMemoryStoreRejectsDuplicateIDs(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, record("a", "u1", models.TypeCheckIn, time.Now())))
	err := s.Append(ctx, record("a", "u1", models.TypeCheckOut, time.Now()))
	require.ErrorIs(t, err, ErrDuplicateRecord)

	// The failed append leaves the store unchanged.
	records, err := s.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, models.TypeCheckIn, records[0].Type)
}

func TestMemoryStoreHasRecordToday(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, s.Append(ctx, record("old", "u1", models.TypeCheckIn, now.Add(-24*time.Hour))))

	today, err := s.HasRecordToday(ctx, "u1")
	require.NoError(t, err)
	require.False(t, today)

	require.NoError(t, s.Append(ctx, record("new", "u1", models.TypeCheckIn, now)))

	today, err = s.HasRecordToday(ctx, "u1")
	require.NoError(t, err)
	require.True(t, today)
}

func TestMemoryStoreCountsAndPurge(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, s.Append(ctx, record("a", "u1", models.TypeCheckIn, now)))
	require.NoError(t, s.Append(ctx, record("b", "u1", models.TypeDailyReport, now)))
	require.NoError(t, s.Append(ctx, record("c", "u2", models.TypeCheckIn, now)))

	count, err := s.CountByUser(ctx, "u1")
	require.NoError(t, err)
	require.EqualValues(t, 2, count)

	byType, err := s.CountByType(ctx, "u1")
	require.NoError(t, err)
	require.EqualValues(t, 1, byType["CHECK_IN"])
	require.EqualValues(t, 1, byType["DAILY_REPORT"])

	require.NoError(t, s.Purge(ctx, "u1"))

	count, err = s.CountByUser(ctx, "u1")
	require.NoError(t, err)
	require.Zero(t, count)

	// Other users are untouched, and purged ids may be reused.
	count, err = s.CountByUser(ctx, "u2")
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
	require.NoError(t, s.Append(ctx, record("a", "u1", models.TypeCheckIn, now)))
}
