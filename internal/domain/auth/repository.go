package auth

import (
	"context"
	"time"
)

type RefreshTokenRepository interface {
	CreateRefreshToken(ctx context.Context, empID string, token string, expiresAt int64, session SessionTrackingRequest) error
	// IsRefreshTokenRevoked returns the token owner and whether the token is revoked or unknown.
	IsRefreshTokenRevoked(ctx context.Context, token string) (empID string, revoked bool, err error)
	RevokeRefreshToken(ctx context.Context, token string) error
}

// OTPEntry is a one-time password issued for a password reset.
type OTPEntry struct {
	Code      string    `json:"otp"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (e OTPEntry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

type OTPStore interface {
	Save(ctx context.Context, email string, entry OTPEntry) error
	// Get returns ErrOTPNotFound when nothing is stored for email.
	Get(ctx context.Context, email string) (OTPEntry, error)
	Delete(ctx context.Context, email string) error
}
