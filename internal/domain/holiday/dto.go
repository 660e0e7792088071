package holiday

import (
	"strings"
	"time"

	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/validator"
)

type ListHolidaysRequest struct {
	Month int
	Year  int
	// EmpID restricts the result to holidays that apply to the employee. Empty lists all.
	EmpID string
}

func (r *ListHolidaysRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Month < 1 || r.Month > 12 {
		errs.Add("month", "month must be between 1 and 12")
	}
	if r.Year < 1970 || r.Year > 9999 {
		errs.Add("year", "year must be a valid year")
	}
	return errs.Err()
}

// Range returns the first and last day of the requested month.
func (r ListHolidaysRequest) Range() (time.Time, time.Time) {
	from := time.Date(r.Year, time.Month(r.Month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, -1)
}

type SaveHolidayRequest struct {
	ID           int64    `json:"-"`
	Name         string   `json:"holiday_name" validate:"required,max=150"`
	StartDate    string   `json:"holiday_date" validate:"required"`
	EndDate      string   `json:"holiday_end"`
	HolidayFor   string   `json:"holiday_for"`
	HolidayValue string   `json:"holiday_value"`
	Values       []string `json:"-"`
	Actor        string   `json:"-"`

	start time.Time
	end   time.Time
	scope Scope
}

func (r *SaveHolidayRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	errs := validator.Struct(r)

	start, okStart := validator.IsValidDate(r.StartDate)
	if r.StartDate != "" && !okStart {
		errs.Add("holiday_date", "holiday_date must be in YYYY-MM-DD format")
	}
	end := start
	if !validator.IsEmpty(r.EndDate) {
		var okEnd bool
		end, okEnd = validator.IsValidDate(r.EndDate)
		if !okEnd {
			errs.Add("holiday_end", "holiday_end must be in YYYY-MM-DD format")
		} else if okStart && end.Before(start) {
			errs.Add("holiday_end", "holiday_end must be on or after holiday_date")
		}
	}

	scope, ok := ParseScope(r.HolidayFor)
	if !ok {
		errs.Add("holiday_for", ErrInvalidScope.Error())
	}
	r.Values = SplitValues(r.HolidayValue)
	if ok && scope != ScopeGeneral && len(r.Values) == 0 {
		errs.Add("holiday_value", "holiday_value is required for a scoped holiday")
	}
	if scope == ScopeGeneral {
		r.Values = nil
	}

	if err := errs.Err(); err != nil {
		return err
	}
	r.start, r.end, r.scope = start, end, scope
	return nil
}

// Holiday builds the entity. Call after Validate.
func (r *SaveHolidayRequest) Holiday() Holiday {
	return Holiday{
		ID:        r.ID,
		Name:      r.Name,
		StartDate: r.start,
		EndDate:   r.end,
		Scope:     r.scope,
		Values:    r.Values,
	}
}

type HolidayResponse struct {
	ID           int64      `json:"holiday_id"`
	Name         string     `json:"holiday_name"`
	StartDate    string     `json:"holiday_date"`
	EndDate      string     `json:"holiday_end"`
	HolidayFor   Scope      `json:"holiday_for"`
	HolidayValue string     `json:"holiday_value"`
	CreatedBy    *string    `json:"created_by,omitempty"`
	CreatedTime  time.Time  `json:"created_time"`
	EditedBy     *string    `json:"edited_by,omitempty"`
	EditedTime   *time.Time `json:"edited_time,omitempty"`
}

func NewHolidayResponse(h Holiday) HolidayResponse {
	return HolidayResponse{
		ID:           h.ID,
		Name:         h.Name,
		StartDate:    h.StartDate.Format(validator.DateLayout),
		EndDate:      h.end().Format(validator.DateLayout),
		HolidayFor:   h.Scope,
		HolidayValue: JoinValues(h.Values),
		CreatedBy:    h.CreatedBy,
		CreatedTime:  h.CreatedTime,
		EditedBy:     h.EditedBy,
		EditedTime:   h.EditedTime,
	}
}

// CalendarDay lists every holiday falling on one date.
type CalendarDay struct {
	Date     string            `json:"date"`
	Holidays []HolidayResponse `json:"holidays"`
}

// BuildCalendar groups holidays per date between from and to. Days without a holiday are omitted.
func BuildCalendar(holidays []Holiday, from, to time.Time) []CalendarDay {
	days := make([]CalendarDay, 0)
	for d := DateOf(from); !d.After(DateOf(to)); d = d.AddDate(0, 0, 1) {
		var matches []HolidayResponse
		for _, h := range holidays {
			if h.Covers(d) {
				matches = append(matches, NewHolidayResponse(h))
			}
		}
		if len(matches) > 0 {
			days = append(days, CalendarDay{Date: d.Format(validator.DateLayout), Holidays: matches})
		}
	}
	return days
}
