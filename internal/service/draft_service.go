package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/presensi-go-api/internal/dto"
	"github.com/noah-isme/presensi-go-api/pkg/ai"
)

// Drafting failures are non-fatal: the form stays usable and the user types
// the report manually.
var (
	ErrEmptyNotes       = errors.New("notes must not be empty")
	ErrDraftUnavailable = errors.New("drafting service unavailable")
)

// DraftService wraps the text-generation backend. The backend applies no
// validation of its own, so empty notes are rejected here before invocation.
type DraftService interface {
	DraftReport(ctx context.Context, notes string) (dto.AIDraftResponse, error)
}

type draftService struct {
	drafter ai.Drafter
	village string
	program string
	logger  zerolog.Logger
}

// NewDraftService constructs the report drafting service.
func NewDraftService(drafter ai.Drafter, village, program string, logger zerolog.Logger) DraftService {
	return &draftService{
		drafter: drafter,
		village: village,
		program: program,
		logger:  logger.With().Str("component", "draft_service").Logger(),
	}
}

func (s *draftService) DraftReport(ctx context.Context, notes string) (dto.AIDraftResponse, error) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return dto.AIDraftResponse{}, ErrEmptyNotes
	}

	result, err := s.drafter.Draft(ctx, ai.DraftInput{
		Notes:       notes,
		Village:     s.village,
		ProgramName: s.program,
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("report drafting failed")
		return dto.AIDraftResponse{}, fmt.Errorf("%w: %v", ErrDraftUnavailable, err)
	}

	return dto.AIDraftResponse{Description: result.Text, Model: result.Model}, nil
}
