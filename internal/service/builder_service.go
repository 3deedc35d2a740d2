package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/noah-isme/presensi-go-api/internal/dto"
	"github.com/noah-isme/presensi-go-api/internal/geo"
	"github.com/noah-isme/presensi-go-api/internal/models"
	"github.com/noah-isme/presensi-go-api/internal/store"
)

// Draft lifecycle states. Submitted and Cancelled are terminal: the draft is
// removed and a new one starts fresh in Selecting.
const (
	DraftStateSelecting = "SELECTING"
	DraftStateComposing = "COMPOSING"
)

const maxPhotoBytes = 5 << 20

var (
	// ErrNoDraft signals an operation against a user with no in-progress
	// draft. A late adapter callback after a cancel lands here and becomes a
	// no-op instead of mutating a discarded draft.
	ErrNoDraft = errors.New("no draft in progress")
	// ErrOperationPending enforces at-most-one-in-flight per operation per
	// draft.
	ErrOperationPending = errors.New("operation already pending")
	// ErrMissingDescription blocks submission of a daily report without a
	// description; the draft stays in Composing.
	ErrMissingDescription    = errors.New("description is required for daily reports")
	ErrInvalidActivityType   = errors.New("invalid activity type")
	ErrTypeNotSelected       = errors.New("activity type not selected")
	ErrDescriptionNotAllowed = errors.New("description only applies to daily reports")
	ErrInvalidPhoto          = errors.New("photo evidence must be an image")
	ErrUploadsDisabled       = errors.New("photo uploads are not configured")
)

// EvidenceUploader stores photo evidence and returns its URL.
type EvidenceUploader interface {
	UploadEvidence(ctx context.Context, userID string, reader io.Reader) (string, error)
}

// SummaryInvalidator drops cached aggregates after a record is appended.
type SummaryInvalidator interface {
	Invalidate(ctx context.Context, userID string) error
}

// BuilderService turns raw form input plus optional collaborator results
// into a validated AttendanceRecord, or fails before anything reaches the
// store. One draft per user at a time.
type BuilderService interface {
	Start(ctx context.Context, userID string) (dto.DraftResponse, error)
	Current(userID string) (dto.DraftResponse, error)
	SelectType(ctx context.Context, userID string, activityType models.ActivityType) (dto.DraftResponse, error)
	AttachLocation(ctx context.Context, userID string, lat, lng float64) (dto.DraftResponse, error)
	GenerateDraft(ctx context.Context, userID, notes string) (dto.DraftResponse, error)
	SetDescription(ctx context.Context, userID, description string) (dto.DraftResponse, error)
	AttachPhoto(ctx context.Context, userID string, photo io.Reader) (dto.DraftResponse, error)
	Submit(ctx context.Context, userID string) (models.AttendanceRecord, error)
	Cancel(ctx context.Context, userID string) error
}

type draft struct {
	state       string
	activity    models.ActivityType
	description string
	notes       string
	location    *models.Coordinates
	photoURL    string
	aiGenerated bool
	pending     bool
}

type builderService struct {
	records   store.AttendanceStore
	locations geo.Adapter
	drafting  DraftService
	uploader  EvidenceUploader
	summaries SummaryInvalidator
	audit     AuditRecorder
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	now       func() time.Time

	mu     sync.Mutex
	drafts map[string]*draft
}

// NewBuilderService constructs the record builder.
func NewBuilderService(records store.AttendanceStore, locations geo.Adapter, drafting DraftService, uploader EvidenceUploader, summaries SummaryInvalidator, audit AuditRecorder, logger zerolog.Logger) BuilderService {
	return &builderService{
		records:   records,
		locations: locations,
		drafting:  drafting,
		uploader:  uploader,
		summaries: summaries,
		audit:     audit,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "builder_service").Logger(),
		now:       time.Now,
		drafts:    make(map[string]*draft),
	}
}

// Start opens a fresh draft in Selecting, replacing any in-progress one.
func (s *builderService) Start(_ context.Context, userID string) (dto.DraftResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := &draft{state: DraftStateSelecting}
	s.drafts[userID] = d
	return s.response(d), nil
}

// Current returns the state of the user's in-progress draft.
func (s *builderService) Current(userID string) (dto.DraftResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[userID]
	if !ok {
		return dto.DraftResponse{}, ErrNoDraft
	}
	return s.response(d), nil
}

// SelectType moves the draft to Composing. Switching away from DAILY_REPORT
// discards the description, notes and AI flag so no inconsistent record can
// be assembled.
func (s *builderService) SelectType(_ context.Context, userID string, activityType models.ActivityType) (dto.DraftResponse, error) {
	if !activityType.Valid() {
		return dto.DraftResponse{}, ErrInvalidActivityType
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[userID]
	if !ok {
		return dto.DraftResponse{}, ErrNoDraft
	}

	if d.activity == models.TypeDailyReport && activityType != models.TypeDailyReport {
		d.description = ""
		d.notes = ""
		d.aiGenerated = false
	}

	d.activity = activityType
	d.state = DraftStateComposing
	return s.response(d), nil
}

// AttachLocation validates the coordinates and attaches them to the draft.
// Failure is non-fatal: the draft is left unchanged and submission is never
// blocked by a missing location.
func (s *builderService) AttachLocation(_ context.Context, userID string, lat, lng float64) (dto.DraftResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[userID]
	if !ok {
		return dto.DraftResponse{}, ErrNoDraft
	}
	if d.state != DraftStateComposing {
		return dto.DraftResponse{}, ErrTypeNotSelected
	}

	coords, err := s.locations.Resolve(lat, lng)
	if err != nil {
		return dto.DraftResponse{}, err
	}

	d.location = &coords
	return s.response(d), nil
}

// GenerateDraft runs the drafting assistant over the notes and fills the
// description. The trigger stays disabled while one request is in flight.
func (s *builderService) GenerateDraft(ctx context.Context, userID, notes string) (dto.DraftResponse, error) {
	s.mu.Lock()
	d, ok := s.drafts[userID]
	if !ok {
		s.mu.Unlock()
		return dto.DraftResponse{}, ErrNoDraft
	}
	if d.activity != models.TypeDailyReport {
		s.mu.Unlock()
		return dto.DraftResponse{}, ErrDescriptionNotAllowed
	}
	if d.pending {
		s.mu.Unlock()
		return dto.DraftResponse{}, ErrOperationPending
	}

	notes = strings.TrimSpace(s.sanitizer.Sanitize(notes))
	d.notes = notes
	d.pending = true
	s.mu.Unlock()

	result, err := s.drafting.DraftReport(ctx, notes)

	s.mu.Lock()
	defer s.mu.Unlock()

	// The draft may have been cancelled while the request was in flight; in
	// that case the callback must not mutate anything.
	current, ok := s.drafts[userID]
	if !ok || current != d {
		return dto.DraftResponse{}, ErrNoDraft
	}
	d.pending = false

	if err != nil {
		return dto.DraftResponse{}, err
	}

	d.description = result.Description
	d.aiGenerated = true
	return s.response(d), nil
}

// SetDescription replaces the description with hand-written text. A manual
// edit after an AI draft clears the AI flag: the text is no longer the
// service's output.
func (s *builderService) SetDescription(_ context.Context, userID, description string) (dto.DraftResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[userID]
	if !ok {
		return dto.DraftResponse{}, ErrNoDraft
	}
	if d.activity != models.TypeDailyReport {
		return dto.DraftResponse{}, ErrDescriptionNotAllowed
	}

	d.description = strings.TrimSpace(s.sanitizer.Sanitize(description))
	d.aiGenerated = false
	return s.response(d), nil
}

// AttachPhoto sniffs the payload and uploads image evidence.
func (s *builderService) AttachPhoto(ctx context.Context, userID string, photo io.Reader) (dto.DraftResponse, error) {
	if s.uploader == nil {
		return dto.DraftResponse{}, ErrUploadsDisabled
	}

	s.mu.Lock()
	d, ok := s.drafts[userID]
	if !ok {
		s.mu.Unlock()
		return dto.DraftResponse{}, ErrNoDraft
	}
	if d.state != DraftStateComposing {
		s.mu.Unlock()
		return dto.DraftResponse{}, ErrTypeNotSelected
	}
	if d.pending {
		s.mu.Unlock()
		return dto.DraftResponse{}, ErrOperationPending
	}

	data, err := io.ReadAll(io.LimitReader(photo, maxPhotoBytes+1))
	if err != nil || len(data) == 0 || len(data) > maxPhotoBytes {
		s.mu.Unlock()
		return dto.DraftResponse{}, ErrInvalidPhoto
	}
	if !strings.HasPrefix(mimetype.Detect(data).String(), "image/") {
		s.mu.Unlock()
		return dto.DraftResponse{}, ErrInvalidPhoto
	}

	d.pending = true
	s.mu.Unlock()

	url, uploadErr := s.uploader.UploadEvidence(ctx, userID, bytes.NewReader(data))

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.drafts[userID]
	if !ok || current != d {
		return dto.DraftResponse{}, ErrNoDraft
	}
	d.pending = false

	if uploadErr != nil {
		s.logger.Warn().Err(uploadErr).Str("user_id", userID).Msg("photo upload failed")
		return dto.DraftResponse{}, uploadErr
	}

	d.photoURL = url
	return s.response(d), nil
}

// Submit validates the draft, assembles the record and hands it to the
// store. On success the draft is terminal and removed.
func (s *builderService) Submit(ctx context.Context, userID string) (models.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[userID]
	if !ok {
		return models.AttendanceRecord{}, ErrNoDraft
	}
	if d.state != DraftStateComposing || !d.activity.Valid() {
		return models.AttendanceRecord{}, ErrTypeNotSelected
	}

	description := strings.TrimSpace(d.description)
	if d.activity.RequiresDescription() && description == "" {
		return models.AttendanceRecord{}, ErrMissingDescription
	}
	if !d.activity.RequiresDescription() {
		description = ""
	}

	record := models.AttendanceRecord{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        d.activity,
		Timestamp:   s.now().UnixMilli(),
		Description: description,
		Location:    d.location,
		PhotoURL:    d.photoURL,
		AIGenerated: d.aiGenerated && d.activity == models.TypeDailyReport && description != "",
	}

	if err := s.records.Append(ctx, record); err != nil {
		if errors.Is(err, store.ErrDuplicateRecord) {
			// Ids are freshly generated, so a collision means the invariant
			// is broken somewhere upstream.
			s.logger.Error().Str("record_id", record.ID).Msg("duplicate record id on append")
		}
		return models.AttendanceRecord{}, err
	}

	delete(s.drafts, userID)

	if s.summaries != nil {
		if err := s.summaries.Invalidate(ctx, userID); err != nil {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("summary invalidation failed")
		}
	}

	if s.audit != nil {
		entry := AuditEntry{
			ActorID:  userID,
			Action:   "attendance.submitted",
			EntityID: &record.ID,
			Metadata: map[string]interface{}{"type": string(record.Type), "ai_generated": record.AIGenerated},
		}
		if err := s.audit.Record(ctx, entry); err != nil {
			s.logger.Warn().Err(err).Msg("audit record failed")
		}
	}

	return record, nil
}

// Cancel discards the draft with no side effects.
func (s *builderService) Cancel(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.drafts[userID]; !ok {
		return ErrNoDraft
	}
	delete(s.drafts, userID)
	return nil
}

func (s *builderService) response(d *draft) dto.DraftResponse {
	resp := dto.DraftResponse{
		State:       d.state,
		Description: d.description,
		Notes:       d.notes,
		PhotoURL:    d.photoURL,
		AIGenerated: d.aiGenerated,
	}
	if d.activity.Valid() {
		resp.Type = d.activity
	}
	if d.location != nil {
		loc := *d.location
		resp.Location = &loc
	}
	return resp
}
