package holiday

import (
	"context"
	"time"
)

type HolidayRepository interface {
	// ListOverlapping returns holidays whose range intersects [from, to], ordered by start date.
	ListOverlapping(ctx context.Context, from, to time.Time) ([]Holiday, error)
	GetByID(ctx context.Context, id int64) (Holiday, error)
	Create(ctx context.Context, h Holiday) (Holiday, error)
	Update(ctx context.Context, h Holiday) error
	Delete(ctx context.Context, id int64) error
}
