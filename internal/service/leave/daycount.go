package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/holiday"
	"github.com/dolluzcorp/dtime-backend-go/internal/domain/leave"
)

// HolidayLookup resolves the holidays that apply to an employee.
type HolidayLookup interface {
	ApplicableHolidays(ctx context.Context, empID string, from, to time.Time) ([]holiday.Holiday, error)
}

// RequestedDays counts the leave days of a request: every calendar day in
// [start, end] that is not a holiday, minus half a day for each non-Full
// endpoint. The result is never negative.
func RequestedDays(start, end time.Time, startBreakdown, endBreakdown leave.Breakdown, holidays holiday.DaySet) float64 {
	start, end = holiday.DateOf(start), holiday.DateOf(end)
	if end.Before(start) {
		return 0
	}

	var days float64
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if !holidays.Contains(d) {
			days++
		}
	}

	if isHalf(startBreakdown) {
		days -= 0.5
	}
	if isHalf(endBreakdown) {
		days -= 0.5
	}

	if days < 0 {
		return 0
	}
	return days
}

func isHalf(b leave.Breakdown) bool {
	return b != "" && b != leave.BreakdownFull
}

// CalendarDays is end - start + 1, ignoring breakdowns and holidays.
func CalendarDays(start, end time.Time) int {
	days := int(holiday.DateOf(end).Sub(holiday.DateOf(start)).Hours()/24) + 1
	if days < 0 {
		return 0
	}
	return days
}

type dayCounter struct {
	holidays HolidayLookup
}

// count returns the requested days of each request, keyed by request id. All
// requests must belong to empID.
func (c dayCounter) count(ctx context.Context, empID string, requests []leave.LeaveRequest) (map[int64]float64, error) {
	counts := make(map[int64]float64, len(requests))
	if len(requests) == 0 {
		return counts, nil
	}

	from, to := requests[0].StartDate, requests[0].EndDate
	for _, r := range requests[1:] {
		if r.StartDate.Before(from) {
			from = r.StartDate
		}
		if r.EndDate.After(to) {
			to = r.EndDate
		}
	}

	holidays, err := c.holidays.ApplicableHolidays(ctx, empID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load holidays: %w", err)
	}
	set := holiday.NewDaySet(holidays)

	for _, r := range requests {
		counts[r.ID] = RequestedDays(r.StartDate, r.EndDate, r.StartBreakdown, r.EndBreakdown, set)
	}
	return counts, nil
}

// one counts a single request that may not be stored yet.
func (c dayCounter) one(ctx context.Context, r leave.LeaveRequest) (float64, error) {
	counts, err := c.count(ctx, r.EmpID, []leave.LeaveRequest{r})
	if err != nil {
		return 0, err
	}
	return counts[r.ID], nil
}
