package dto

import "time"

// LoginRequest exchanges a view access code for a token.
type LoginRequest struct {
	Role string `json:"role"`
	Code string `json:"code"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Role      string    `json:"role"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
