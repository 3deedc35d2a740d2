package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/presensi-go-api/internal/dto"
	"github.com/noah-isme/presensi-go-api/internal/geo"
	"github.com/noah-isme/presensi-go-api/internal/service"
	"github.com/noah-isme/presensi-go-api/internal/store"
	"github.com/noah-isme/presensi-go-api/internal/utils"
)

// AttendanceHandler manages the draft lifecycle and the history feed.
type AttendanceHandler struct {
	builder   service.BuilderService
	history   service.HistoryService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAttendanceHandler builds an attendance handler instance.
func NewAttendanceHandler(builder service.BuilderService, history service.HistoryService, validator *validator.Validate, logger zerolog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		builder:   builder,
		history:   history,
		validator: validator,
		logger:    logger.With().Str("component", "attendance_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group. The aiLimiter
// keeps draft generation to at most one burst per user.
func (h *AttendanceHandler) Register(router fiber.Router, aiLimiter fiber.Handler) {
	drafts := router.Group("/drafts")
	drafts.Post("", h.start)
	drafts.Get("", h.current)
	drafts.Patch("/type", h.selectType)
	drafts.Patch("/location", h.attachLocation)
	drafts.Patch("/description", h.setDescription)
	drafts.Post("/photo", h.attachPhoto)
	if aiLimiter != nil {
		drafts.Post("/ai-draft", aiLimiter, h.generateDraft)
	} else {
		drafts.Post("/ai-draft", h.generateDraft)
	}
	drafts.Post("/submit", h.submit)
	drafts.Delete("", h.cancel)

	router.Get("/records", h.listRecords)
	router.Get("/summary", h.summary)
}

func (h *AttendanceHandler) start(c *fiber.Ctx) error {
	draft, err := h.builder.Start(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "draft started", draft)
}

func (h *AttendanceHandler) current(c *fiber.Ctx) error {
	draft, err := h.builder.Current(userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "draft retrieved", draft)
}

func (h *AttendanceHandler) selectType(c *fiber.Ctx) error {
	var payload dto.SelectTypeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "type is required")
	}

	draft, err := h.builder.SelectType(c.Context(), userIDFromContext(c), payload.Type)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "activity type selected", draft)
}

func (h *AttendanceHandler) attachLocation(c *fiber.Ctx) error {
	var payload dto.AttachLocationRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "lat and lng are required")
	}

	draft, err := h.builder.AttachLocation(c.Context(), userIDFromContext(c), *payload.Lat, *payload.Lng)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "location attached", draft)
}

func (h *AttendanceHandler) setDescription(c *fiber.Ctx) error {
	var payload dto.SetDescriptionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "description is required")
	}

	draft, err := h.builder.SetDescription(c.Context(), userIDFromContext(c), payload.Description)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "description updated", draft)
}

func (h *AttendanceHandler) generateDraft(c *fiber.Ctx) error {
	var payload dto.AIDraftRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "notes are required")
	}

	draft, err := h.builder.GenerateDraft(c.Context(), userIDFromContext(c), payload.Notes)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "report drafted", draft)
}

func (h *AttendanceHandler) attachPhoto(c *fiber.Ctx) error {
	file, err := c.FormFile("photo")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "photo file is required")
	}

	reader, err := file.Open()
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "photo file is unreadable")
	}
	defer reader.Close()

	draft, err := h.builder.AttachPhoto(c.Context(), userIDFromContext(c), reader)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "photo attached", draft)
}

func (h *AttendanceHandler) submit(c *fiber.Ctx) error {
	record, err := h.builder.Submit(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "attendance recorded", record)
}

func (h *AttendanceHandler) cancel(c *fiber.Ctx) error {
	if err := h.builder.Cancel(c.Context(), userIDFromContext(c)); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "draft cancelled", nil)
}

func (h *AttendanceHandler) listRecords(c *fiber.Ctx) error {
	feed, err := h.history.List(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "records retrieved", feed)
}

func (h *AttendanceHandler) summary(c *fiber.Ctx) error {
	summary, err := h.history.Summary(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "summary retrieved", summary)
}

func (h *AttendanceHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNoDraft):
		return utils.SendError(c, fiber.StatusNotFound, "no draft in progress")
	case errors.Is(err, service.ErrOperationPending):
		return utils.SendError(c, fiber.StatusConflict, "operation already pending")
	case errors.Is(err, service.ErrInvalidActivityType),
		errors.Is(err, service.ErrTypeNotSelected),
		errors.Is(err, service.ErrDescriptionNotAllowed),
		errors.Is(err, service.ErrInvalidPhoto),
		errors.Is(err, service.ErrEmptyNotes):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrMissingDescription):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, "description is required for daily reports")
	case errors.Is(err, geo.ErrPermissionDenied), errors.Is(err, geo.ErrUnavailable):
		return utils.SendError(c, fiber.StatusBadRequest, "location could not be captured")
	case errors.Is(err, service.ErrDraftUnavailable):
		return utils.SendError(c, fiber.StatusBadGateway, "drafting service unavailable, write the report manually")
	case errors.Is(err, service.ErrUploadsDisabled):
		return utils.SendError(c, fiber.StatusNotImplemented, "photo uploads are not configured")
	case errors.Is(err, store.ErrDuplicateRecord):
		requestLogger(h.logger, c).Error().Err(err).Msg("record id invariant violated")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
