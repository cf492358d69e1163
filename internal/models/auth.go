package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds portal credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and the resolved profile.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
	User        Profile   `json:"user"`
}

// JWTClaims is the access token payload.
type JWTClaims struct {
	UserID     string  `json:"user_id"`
	StaffID    *string `json:"staff_id,omitempty"`
	Name       string  `json:"name"`
	Department string  `json:"department"`
	Role       Role    `json:"role"`
	jwt.RegisteredClaims
}

// ProfileFromClaims reconstructs the session profile carried by a token.
func ProfileFromClaims(c *JWTClaims) Profile {
	return Profile{
		ID:         c.UserID,
		StaffID:    c.StaffID,
		Name:       c.Name,
		Department: c.Department,
		Role:       c.Role,
	}
}
