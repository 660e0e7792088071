package punch

import (
	"context"
	"time"
)

type PunchRepository interface {
	ListByEmployee(ctx context.Context, empID string, limit int) ([]Record, error)
	// GetOpen returns the newest record with no punch-out or ErrPunchNotFound.
	GetOpen(ctx context.Context, empID string) (Record, error)
	Create(ctx context.Context, empID string, at time.Time) (Record, error)
	// CloseLatestOpen sets punch_out on the newest open record only.
	CloseLatestOpen(ctx context.Context, empID string, at time.Time) (Record, error)
	// LockEmployee serializes punch changes for one employee. Requires a transaction.
	LockEmployee(ctx context.Context, empID string) error
}
