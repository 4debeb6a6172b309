package handlers

import (
	"fintrack-backend/internal/models"
)

// Response is the envelope every successful call returns.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// AuthResponse carries the access token at the top level next to the
// signed-in user. The refresh token travels only in the cookie.
type AuthResponse struct {
	Success     bool         `json:"success"`
	Message     string       `json:"message"`
	AccessToken string       `json:"accessToken"`
	User        *models.User `json:"user,omitempty"`
	Data        *models.User `json:"data,omitempty"`
}
