package dto

import "github.com/spec-kit/admin-console/internal/domain"

// LoginRequest payload.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginData is the success payload of a login.
type LoginData struct {
	Token string       `json:"token"`
	Staff domain.Staff `json:"staff"`
}
