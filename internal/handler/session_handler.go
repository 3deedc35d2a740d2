package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/presensi-go-api/internal/dto"
	"github.com/noah-isme/presensi-go-api/internal/identity"
	"github.com/noah-isme/presensi-go-api/internal/service"
	"github.com/noah-isme/presensi-go-api/internal/utils"
)

// SessionHandler manages the sign-in/sign-out endpoints.
type SessionHandler struct {
	sessions  service.SessionService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewSessionHandler builds a session handler instance.
func NewSessionHandler(sessions service.SessionService, validator *validator.Validate, logger zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		sessions:  sessions,
		validator: validator,
		logger:    logger.With().Str("component", "session_handler").Logger(),
	}
}

// Register attaches the public routes to the provided router group.
func (h *SessionHandler) Register(router fiber.Router) {
	router.Post("/login", h.login)
}

// RegisterProtected attaches the routes that require an active session.
func (h *SessionHandler) RegisterProtected(router fiber.Router) {
	router.Post("/logout", h.logout)
	router.Get("/me", h.me)
}

func (h *SessionHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "credential is required")
	}

	session, err := h.sessions.Login(c.Context(), payload.Credential)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "signed in", session)
}

func (h *SessionHandler) logout(c *fiber.Ctx) error {
	if err := h.sessions.Logout(c.Context(), userIDFromContext(c)); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "signed out", nil)
}

func (h *SessionHandler) me(c *fiber.Ctx) error {
	user, ok := h.sessions.CurrentUser(userIDFromContext(c))
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "no active session")
	}

	return utils.SendSuccess(c, "session active", user)
}

func (h *SessionHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, identity.ErrMalformedToken):
		return utils.SendError(c, fiber.StatusUnauthorized, "malformed credential")
	case errors.Is(err, identity.ErrProviderUnavailable):
		return utils.SendError(c, fiber.StatusServiceUnavailable, "identity provider unavailable")
	case errors.Is(err, service.ErrNoSession):
		return utils.SendError(c, fiber.StatusUnauthorized, "no active session")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
