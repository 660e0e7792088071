package postgresql

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"time"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/auth"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type refreshTokenRepositoryImpl struct {
	db  *database.DB
	now func() time.Time
}

// NewRefreshTokenRepository expects the HR/admin database. Only token hashes are stored.
func NewRefreshTokenRepository(db *database.DB) auth.RefreshTokenRepository {
	return &refreshTokenRepositoryImpl{db: db, now: time.Now}
}

func hashToken(input string) string {
	hash := sha256.Sum256([]byte(input))
	return base64.StdEncoding.EncodeToString(hash[:])
}

func (r *refreshTokenRepositoryImpl) CreateRefreshToken(ctx context.Context, empID string, token string, expiresAt int64, session auth.SessionTrackingRequest) error {
	q := GetQuerier(ctx, r.db)
	_, err := q.Exec(ctx, `
		INSERT INTO refresh_tokens (emp_id, token_hash, expires_at, user_agent, ip_address)
		VALUES ($1, $2, $3, $4, $5)`,
		empID, hashToken(token), time.Unix(expiresAt, 0).UTC(), session.UserAgent, session.IPAddress)
	return err
}

func (r *refreshTokenRepositoryImpl) IsRefreshTokenRevoked(ctx context.Context, token string) (string, bool, error) {
	q := GetQuerier(ctx, r.db)

	var empID string
	var revokedAt *time.Time
	var expiresAt time.Time
	err := q.QueryRow(ctx, `
		SELECT emp_id, revoked_at, expires_at
		FROM refresh_tokens
		WHERE token_hash = $1
		ORDER BY expires_at DESC
		LIMIT 1`, hashToken(token),
	).Scan(&empID, &revokedAt, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", true, nil
	}
	if err != nil {
		return "", false, err
	}

	if revokedAt != nil || !expiresAt.After(r.now()) {
		return empID, true, nil
	}
	return empID, false, nil
}

func (r *refreshTokenRepositoryImpl) RevokeRefreshToken(ctx context.Context, token string) error {
	q := GetQuerier(ctx, r.db)
	_, err := q.Exec(ctx, `
		UPDATE refresh_tokens
		SET revoked_at = NOW()
		WHERE token_hash = $1 AND revoked_at IS NULL`, hashToken(token))
	return err
}
