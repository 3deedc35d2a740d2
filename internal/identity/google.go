package identity

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/noah-isme/presensi-go-api/internal/models"
)

// Sentinel errors surfaced by the adapter. A malformed credential is fatal to
// the sign-in attempt: no session is established and the caller must retry.
var (
	ErrMalformedToken      = errors.New("malformed identity token")
	ErrProviderUnavailable = errors.New("identity provider unavailable")
)

// Adapter turns an opaque sign-in credential into an Identity.
type Adapter interface {
	SignIn(credential string) (models.Identity, error)
}

// Config customises the Google adapter.
type Config struct {
	// ClientID is forwarded to the widget at initialisation; the backend
	// treats it as opaque configuration.
	ClientID string
	// AdminEmails lists accounts that sign in with the ADMIN role.
	AdminEmails []string
}

type googleAdapter struct {
	clientID string
	admins   map[string]struct{}
	logger   zerolog.Logger
}

// NewGoogleAdapter builds an adapter for Google Identity Services
// credentials.
func NewGoogleAdapter(cfg Config, logger zerolog.Logger) Adapter {
	admins := make(map[string]struct{}, len(cfg.AdminEmails))
	for _, email := range cfg.AdminEmails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			admins[email] = struct{}{}
		}
	}

	return &googleAdapter{
		clientID: cfg.ClientID,
		admins:   admins,
		logger:   logger.With().Str("component", "identity_adapter").Logger(),
	}
}

type credentialClaims struct {
	Sub     string `json:"sub"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

// SignIn decodes the middle segment of the dot-separated compact credential
// as base64url JSON and maps its claims onto an Identity.
func (a *googleAdapter) SignIn(credential string) (models.Identity, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return models.Identity{}, ErrMalformedToken
	}

	parts := strings.Split(credential, ".")
	if len(parts) != 3 {
		return models.Identity{}, ErrMalformedToken
	}

	payload, err := jwt.NewParser().DecodeSegment(parts[1])
	if err != nil {
		a.logger.Debug().Err(err).Msg("credential segment decode failed")
		return models.Identity{}, ErrMalformedToken
	}

	var claims credentialClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return models.Identity{}, ErrMalformedToken
	}

	if claims.Sub == "" || claims.Email == "" {
		return models.Identity{}, ErrMalformedToken
	}

	role := models.RoleStudent
	if _, ok := a.admins[strings.ToLower(claims.Email)]; ok {
		role = models.RoleAdmin
	}

	return models.Identity{
		ID:       claims.Sub,
		Name:     claims.Name,
		Email:    claims.Email,
		PhotoURL: claims.Picture,
		Role:     role,
	}, nil
}
