package auth

import (
	"context"
	"time"
)

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed access token whose subject is username.
	GenerateToken(ctx context.Context, username string) (string, error)

	// ValidateToken verifies the signature, algorithm and expiry of tokenString
	// and returns its claims. It returns ErrExpiredToken or ErrInvalidToken on
	// failure and never panics.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the claims carried by an access token.
type Claims struct {
	Subject   string    `json:"sub"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
	ID        string    `json:"jti"`
}
