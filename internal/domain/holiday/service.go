package holiday

import (
	"context"
	"time"
)

type HolidayService interface {
	List(ctx context.Context, req ListHolidaysRequest) ([]HolidayResponse, error)
	Calendar(ctx context.Context, req ListHolidaysRequest) ([]CalendarDay, error)
	Create(ctx context.Context, req SaveHolidayRequest) (HolidayResponse, error)
	Update(ctx context.Context, req SaveHolidayRequest) (HolidayResponse, error)
	Delete(ctx context.Context, id int64) error

	// ApplicableHolidays returns the holidays between from and to that apply to empID.
	ApplicableHolidays(ctx context.Context, empID string, from, to time.Time) ([]Holiday, error)
}
