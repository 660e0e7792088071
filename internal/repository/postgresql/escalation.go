package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/leave"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/database"
)

type escalationRepositoryImpl struct {
	db *database.DB
}

// NewEscalationRepository expects the timesheet database.
func NewEscalationRepository(db *database.DB) leave.EscalationRepository {
	return &escalationRepositoryImpl{db: db}
}

func (r *escalationRepositoryImpl) RecordNotice(ctx context.Context, requestID int64, level leave.Level, at time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `
		INSERT INTO leave_escalations (leave_request_id, level, notified_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (leave_request_id, level) DO NOTHING`, requestID, int16(level), at)
	if err != nil {
		return false, fmt.Errorf("record escalation notice: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
