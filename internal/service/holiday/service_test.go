package holiday

import (
	"context"
	"testing"
	"time"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/employee"
	"github.com/dolluzcorp/dtime-backend-go/internal/domain/holiday"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHolidayRepo struct {
	holidays []holiday.Holiday
	created  holiday.Holiday
}

func (f *fakeHolidayRepo) ListOverlapping(_ context.Context, from, to time.Time) ([]holiday.Holiday, error) {
	var out []holiday.Holiday
	for _, h := range f.holidays {
		end := h.EndDate
		if end.IsZero() {
			end = h.StartDate
		}
		if !h.StartDate.After(to) && !end.Before(from) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeHolidayRepo) GetByID(_ context.Context, id int64) (holiday.Holiday, error) {
	for _, h := range f.holidays {
		if h.ID == id {
			return h, nil
		}
	}
	return holiday.Holiday{}, holiday.ErrHolidayNotFound
}

func (f *fakeHolidayRepo) Create(_ context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	h.ID = int64(len(f.holidays) + 1)
	f.created = h
	f.holidays = append(f.holidays, h)
	return h, nil
}

func (f *fakeHolidayRepo) Update(_ context.Context, h holiday.Holiday) error {
	for i := range f.holidays {
		if f.holidays[i].ID == h.ID {
			f.holidays[i] = h
			return nil
		}
	}
	return holiday.ErrHolidayNotFound
}

func (f *fakeHolidayRepo) Delete(_ context.Context, id int64) error {
	for i := range f.holidays {
		if f.holidays[i].ID == id {
			f.holidays = append(f.holidays[:i], f.holidays[i+1:]...)
			return nil
		}
	}
	return holiday.ErrHolidayNotFound
}

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	byID map[string]employee.Employee
}

func (f *fakeEmployeeRepo) GetByEmpID(_ context.Context, empID string) (employee.Employee, error) {
	e, ok := f.byID[empID]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func strPtr(s string) *string { return &s }

func date(month time.Month, day int) time.Time {
	return time.Date(2025, month, day, 0, 0, 0, 0, time.UTC)
}

func newTestService() (*HolidayServiceImpl, *fakeHolidayRepo) {
	deptID := int64(4)
	repo := &fakeHolidayRepo{holidays: []holiday.Holiday{
		{ID: 1, Name: "Pongal", StartDate: date(1, 14), EndDate: date(1, 15), Scope: holiday.ScopeGeneral},
		{ID: 2, Name: "Chennai Office Day", StartDate: date(1, 14), EndDate: date(1, 14), Scope: holiday.ScopeLocation, Values: []string{"Chennai", "Madurai"}},
		{ID: 3, Name: "Engineering Offsite", StartDate: date(1, 14), EndDate: date(1, 14), Scope: holiday.ScopeDepartment, Values: []string{"4"}},
		{ID: 4, Name: "Sales Day", StartDate: date(1, 20), EndDate: date(1, 20), Scope: holiday.ScopeDepartment, Values: []string{"9"}},
		{ID: 5, Name: "Personal Day", StartDate: date(1, 22), EndDate: date(1, 22), Scope: holiday.ScopeEmployee, Values: []string{"dolluzcorp-2025-00001"}},
		{ID: 6, Name: "Designer Day", StartDate: date(1, 27), EndDate: date(1, 27), Scope: holiday.ScopeJobPosition, Values: []string{"Designer"}},
	}}
	employees := &fakeEmployeeRepo{byID: map[string]employee.Employee{
		"dolluzcorp-2025-00001": {EmpID: "dolluzcorp-2025-00001", DepartmentID: &deptID, Location: strPtr("chennai"), JobPosition: strPtr("Developer")},
		"dolluzcorp-2025-00002": {EmpID: "dolluzcorp-2025-00002", Location: strPtr("Pune"), JobPosition: strPtr("Designer")},
	}}
	return NewHolidayService(repo, employees), repo
}

func TestHolidayService_ApplicableHolidays_MatchCounts(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	holidays, err := svc.ApplicableHolidays(ctx, "dolluzcorp-2025-00001", date(1, 1), date(1, 31))
	require.NoError(t, err)

	set := holiday.NewDaySet(holidays)
	perDay := func(day time.Time) int {
		n := 0
		for _, h := range holidays {
			if h.Covers(day) {
				n++
			}
		}
		return n
	}

	assert.Equal(t, 3, perDay(date(1, 14)), "general, location and department holidays on one day")
	assert.Equal(t, 1, perDay(date(1, 15)), "only the general holiday continues")
	assert.Equal(t, 0, perDay(date(1, 20)), "another department's holiday")
	assert.Equal(t, 1, perDay(date(1, 22)), "employee-scoped holiday")
	assert.Equal(t, 0, perDay(date(1, 27)), "job position does not match")
	assert.False(t, set.Contains(date(1, 16)))
}

func TestHolidayService_Calendar_ListsEveryHolidayPerDay(t *testing.T) {
	svc, _ := newTestService()

	days, err := svc.Calendar(context.Background(), holiday.ListHolidaysRequest{Month: 1, Year: 2025, EmpID: "dolluzcorp-2025-00002"})
	require.NoError(t, err)

	require.Len(t, days, 3)
	assert.Equal(t, "2025-01-14", days[0].Date)
	assert.Len(t, days[0].Holidays, 1)
	assert.Equal(t, "2025-01-15", days[1].Date)
	assert.Equal(t, "2025-01-27", days[2].Date)
	assert.Equal(t, "Designer Day", days[2].Holidays[0].Name)
}

func TestHolidayService_List_AllWithoutEmployee(t *testing.T) {
	svc, _ := newTestService()

	list, err := svc.List(context.Background(), holiday.ListHolidaysRequest{Month: 1, Year: 2025})
	require.NoError(t, err)
	assert.Len(t, list, 6)

	_, err = svc.List(context.Background(), holiday.ListHolidaysRequest{Month: 13, Year: 2025})
	assert.Error(t, err)
}

func TestHolidayService_ApplicableHolidays_UnknownEmployee(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.ApplicableHolidays(context.Background(), "nobody", date(1, 1), date(1, 31))
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestHolidayService_Create(t *testing.T) {
	svc, repo := newTestService()

	resp, err := svc.Create(context.Background(), holiday.SaveHolidayRequest{
		Name:         "Founders Day",
		StartDate:    "2025-02-03",
		HolidayFor:   "job",
		HolidayValue: "Developer, Designer",
		Actor:        "dolluzcorp-2025-00009",
	})
	require.NoError(t, err)

	assert.Equal(t, holiday.ScopeJobPosition, resp.HolidayFor)
	assert.Equal(t, "2025-02-03", resp.EndDate)
	assert.Equal(t, "Developer,Designer", resp.HolidayValue)
	require.NotNil(t, repo.created.CreatedBy)
	assert.Equal(t, "dolluzcorp-2025-00009", *repo.created.CreatedBy)
}

func TestHolidayService_Create_ScopedWithoutValue(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), holiday.SaveHolidayRequest{
		Name:       "Team Day",
		StartDate:  "2025-02-03",
		HolidayFor: "department",
	})
	assert.Error(t, err)
}
