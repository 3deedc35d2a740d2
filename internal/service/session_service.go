package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/noah-isme/presensi-go-api/internal/dto"
	"github.com/noah-isme/presensi-go-api/internal/identity"
	"github.com/noah-isme/presensi-go-api/internal/models"
	"github.com/noah-isme/presensi-go-api/internal/store"
)

// ErrNoSession signals an operation against a user with no active session.
var ErrNoSession = errors.New("no active session")

// SessionService mediates sign-in and sign-out. It holds at most one active
// Identity per user id; a second login for the same user replaces the
// previous session.
type SessionService interface {
	Login(ctx context.Context, credential string) (dto.SessionResponse, error)
	Logout(ctx context.Context, userID string) error
	CurrentUser(userID string) (models.Identity, bool)
}

// SessionClaims is the payload of the session token issued on login.
type SessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type sessionService struct {
	adapter  identity.Adapter
	records  store.AttendanceStore
	audit    AuditRecorder
	secret   string
	tokenTTL time.Duration
	logger   zerolog.Logger
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[string]models.Identity
}

// NewSessionService constructs the session controller.
func NewSessionService(adapter identity.Adapter, records store.AttendanceStore, audit AuditRecorder, secret string, tokenTTL time.Duration, logger zerolog.Logger) SessionService {
	if tokenTTL <= 0 {
		tokenTTL = 12 * time.Hour
	}

	return &sessionService{
		adapter:  adapter,
		records:  records,
		audit:    audit,
		secret:   secret,
		tokenTTL: tokenTTL,
		logger:   logger.With().Str("component", "session_service").Logger(),
		now:      time.Now,
		sessions: make(map[string]models.Identity),
	}
}

// Login delegates to the identity adapter. On failure no session state is
// touched and the caller must retry.
func (s *sessionService) Login(ctx context.Context, credential string) (dto.SessionResponse, error) {
	user, err := s.adapter.SignIn(credential)
	if err != nil {
		return dto.SessionResponse{}, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return dto.SessionResponse{}, fmt.Errorf("issue session token: %w", err)
	}

	s.mu.Lock()
	s.sessions[user.ID] = user
	s.mu.Unlock()

	s.recordAudit(ctx, AuditEntry{
		ActorID:  user.ID,
		Action:   "session.login",
		Metadata: map[string]interface{}{"role": user.Role},
	})

	s.logger.Info().Str("user_id", user.ID).Msg("session established")

	return dto.SessionResponse{Token: token, User: user}, nil
}

// Logout clears the Identity and discards the user's session-scoped records.
func (s *sessionService) Logout(ctx context.Context, userID string) error {
	s.mu.Lock()
	_, ok := s.sessions[userID]
	delete(s.sessions, userID)
	s.mu.Unlock()

	if !ok {
		return ErrNoSession
	}

	if err := s.records.Purge(ctx, userID); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to discard session records")
		return err
	}

	s.recordAudit(ctx, AuditEntry{ActorID: userID, Action: "session.logout"})

	return nil
}

// CurrentUser returns the active Identity for the user, if any.
func (s *sessionService) CurrentUser(userID string) (models.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.sessions[userID]
	return user, ok
}

func (s *sessionService) issueToken(user models.Identity) (string, error) {
	now := s.now()
	claims := SessionClaims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
}

func (s *sessionService) recordAudit(ctx context.Context, entry AuditEntry) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Str("action", entry.Action).Msg("audit record failed")
	}
}
