package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/presensi-go-api/internal/dto"
	"github.com/noah-isme/presensi-go-api/internal/models"
	"github.com/noah-isme/presensi-go-api/internal/store"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

type memoryAuditRepo struct {
	entries []models.AuditLog
}

func (m *memoryAuditRepo) Create(_ context.Context, entry *models.AuditLog) error {
	entry.ID = uint(len(m.entries) + 1)
	entry.CreatedAt = time.Now()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memoryAuditRepo) List(_ context.Context, _ store.AuditFilter) ([]models.AuditLog, error) {
	return append([]models.AuditLog(nil), m.entries...), nil
}

type stubDrafting struct {
	response dto.AIDraftResponse
	err      error
	calls    int
}

func (s *stubDrafting) DraftReport(_ context.Context, notes string) (dto.AIDraftResponse, error) {
	s.calls++
	if s.err != nil {
		return dto.AIDraftResponse{}, s.err
	}
	if s.response.Description == "" {
		return dto.AIDraftResponse{Description: "draft for: " + notes, Model: "stub"}, nil
	}
	return s.response, nil
}
