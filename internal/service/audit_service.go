package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/noah-isme/presensi-go-api/internal/models"
	"github.com/noah-isme/presensi-go-api/internal/store"
)

// AuditEntry captures the details required to persist an audit event.
type AuditEntry struct {
	ActorID  string
	Action   string
	EntityID *string
	Metadata map[string]interface{}
}

// AuditRecorder defines behaviour for recording audit events.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry) error
}

// AuditService exposes methods to query and persist the event trail.
type AuditService interface {
	AuditRecorder
	List(ctx context.Context, filter store.AuditFilter) ([]models.AuditLog, error)
}

type auditService struct {
	repo   store.AuditRepository
	logger zerolog.Logger
}

// NewAuditService constructs the audit service.
func NewAuditService(repo store.AuditRepository, logger zerolog.Logger) AuditService {
	return &auditService{
		repo:   repo,
		logger: logger.With().Str("component", "audit_service").Logger(),
	}
}

func (s *auditService) Record(ctx context.Context, entry AuditEntry) error {
	if strings.TrimSpace(entry.ActorID) == "" {
		return fmt.Errorf("actor id is required")
	}
	if strings.TrimSpace(entry.Action) == "" {
		return fmt.Errorf("action is required")
	}

	model := models.AuditLog{
		ActorID:  entry.ActorID,
		Action:   strings.ToLower(strings.TrimSpace(entry.Action)),
		EntityID: entry.EntityID,
		Metadata: sanitizeMetadata(entry.Metadata),
	}

	if err := s.repo.Create(ctx, &model); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist audit entry")
		return err
	}

	return nil
}

func (s *auditService) List(ctx context.Context, filter store.AuditFilter) ([]models.AuditLog, error) {
	return s.repo.List(ctx, filter)
}

func sanitizeMetadata(metadata map[string]interface{}) datatypes.JSONMap {
	if metadata == nil {
		return datatypes.JSONMap{}
	}

	sanitized := datatypes.JSONMap{}
	for key, value := range metadata {
		lower := strings.ToLower(key)
		if strings.Contains(lower, "email") || strings.Contains(lower, "token") || strings.Contains(lower, "credential") {
			sanitized[key] = "***"
			continue
		}
		sanitized[key] = value
	}
	return sanitized
}
