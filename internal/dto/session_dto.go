package dto

import "github.com/noah-isme/presensi-go-api/internal/models"

// LoginRequest carries the opaque credential returned by the sign-in widget.
type LoginRequest struct {
	Credential string `json:"credential" validate:"required"`
}

// SessionResponse is returned after a successful login.
type SessionResponse struct {
	Token string          `json:"token"`
	User  models.Identity `json:"user"`
}
