package store

import (
	"context"
	"errors"

	"github.com/noah-isme/presensi-go-api/internal/models"
)

// ErrDuplicateRecord signals an append with an id the store has already seen.
// The builder always generates fresh ids, so hitting this is an invariant
// violation rather than a normal path.
var ErrDuplicateRecord = errors.New("duplicate record id")

// AttendanceStore is the canonical record collection for active sessions.
// Records are append-only: there is no update or delete operation, only the
// session-discard purge. Implementations must keep the append atomic with the
// id-uniqueness check and the newest-first ordering.
type AttendanceStore interface {
	// Append inserts the record at the front of the sequence. The store is
	// left unchanged when it fails.
	Append(ctx context.Context, record models.AttendanceRecord) error
	// List returns a newest-first snapshot of the user's records.
	List(ctx context.Context, userID string) ([]models.AttendanceRecord, error)
	// HasRecordToday reports whether any of the user's records falls on the
	// current local calendar date. Recomputed on every call, never cached.
	HasRecordToday(ctx context.Context, userID string) (bool, error)
	// CountByUser returns the number of records held for the user.
	CountByUser(ctx context.Context, userID string) (int64, error)
	// CountByType breaks the user's records down per activity type.
	CountByType(ctx context.Context, userID string) (map[string]int64, error)
	// Purge discards all records for the user. Session lifecycle only; it is
	// not exposed as an API operation.
	Purge(ctx context.Context, userID string) error
}
