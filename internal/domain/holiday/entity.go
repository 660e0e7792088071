package holiday

import (
	"strings"
	"time"
)

// Scope says who a holiday is for.
type Scope string

const (
	ScopeGeneral     Scope = "general"
	ScopeDepartment  Scope = "department"
	ScopeJobPosition Scope = "job_position"
	ScopeLocation    Scope = "location"
	ScopeEmployee    Scope = "employee"
)

// ParseScope normalizes a stored or submitted scope tag. "job" is accepted for job_position
// and an empty tag means general.
func ParseScope(s string) (Scope, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "general", "all":
		return ScopeGeneral, true
	case "department":
		return ScopeDepartment, true
	case "job", "job_position":
		return ScopeJobPosition, true
	case "location":
		return ScopeLocation, true
	case "employee":
		return ScopeEmployee, true
	}
	return "", false
}

type Holiday struct {
	ID          int64
	Name        string
	StartDate   time.Time
	EndDate     time.Time
	Scope       Scope
	Values      []string
	CreatedBy   *string
	CreatedTime time.Time
	EditedBy    *string
	EditedTime  *time.Time
}

// Target is what a holiday scope is matched against.
type Target struct {
	EmpID          string
	DepartmentID   string
	DepartmentName string
	JobPosition    string
	Location       string
}

// AppliesTo reports whether h is a holiday for t: general holidays apply to
// everyone, scoped ones when t's attribute for the scope is in h.Values.
func (h Holiday) AppliesTo(t Target) bool {
	switch h.Scope {
	case ScopeGeneral:
		return true
	case ScopeDepartment:
		return h.hasValue(t.DepartmentID) || h.hasValue(t.DepartmentName)
	case ScopeJobPosition:
		return h.hasValue(t.JobPosition)
	case ScopeLocation:
		return h.hasValue(t.Location)
	case ScopeEmployee:
		return h.hasValue(t.EmpID)
	}
	return false
}

func (h Holiday) hasValue(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	for _, candidate := range h.Values {
		if strings.EqualFold(candidate, v) {
			return true
		}
	}
	return false
}

// Covers reports whether day falls inside the holiday's date range.
func (h Holiday) Covers(day time.Time) bool {
	d := DateOf(day)
	return !d.Before(DateOf(h.StartDate)) && !d.After(DateOf(h.end()))
}

func (h Holiday) end() time.Time {
	if h.EndDate.IsZero() || h.EndDate.Before(h.StartDate) {
		return h.StartDate
	}
	return h.EndDate
}

// SplitValues parses a comma-joined scope value.
func SplitValues(s string) []string {
	var values []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}

func JoinValues(values []string) string {
	return strings.Join(values, ",")
}

// DateOf truncates t to midnight UTC of its calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Filter keeps the holidays that apply to t.
func Filter(holidays []Holiday, t Target) []Holiday {
	out := make([]Holiday, 0, len(holidays))
	for _, h := range holidays {
		if h.AppliesTo(t) {
			out = append(out, h)
		}
	}
	return out
}

// DaySet is the set of calendar dates covered by a list of holidays.
type DaySet map[time.Time]struct{}

func NewDaySet(holidays []Holiday) DaySet {
	set := make(DaySet)
	for _, h := range holidays {
		for d := DateOf(h.StartDate); !d.After(DateOf(h.end())); d = d.AddDate(0, 0, 1) {
			set[d] = struct{}{}
		}
	}
	return set
}

func (s DaySet) Contains(day time.Time) bool {
	_, ok := s[DateOf(day)]
	return ok
}
