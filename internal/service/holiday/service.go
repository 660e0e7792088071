package holiday

import (
	"context"
	"fmt"
	"time"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/employee"
	"github.com/dolluzcorp/dtime-backend-go/internal/domain/holiday"
)

type HolidayServiceImpl struct {
	holidays  holiday.HolidayRepository
	employees employee.EmployeeRepository
}

var _ holiday.HolidayService = (*HolidayServiceImpl)(nil)

func NewHolidayService(holidayRepository holiday.HolidayRepository, employeeRepository employee.EmployeeRepository) *HolidayServiceImpl {
	return &HolidayServiceImpl{
		holidays:  holidayRepository,
		employees: employeeRepository,
	}
}

// TargetOf returns the attributes a holiday scope is matched against for e.
func TargetOf(e employee.Employee) holiday.Target {
	return holiday.Target{
		EmpID:          e.EmpID,
		DepartmentID:   e.DepartmentKey(),
		DepartmentName: deref(e.DepartmentName),
		JobPosition:    deref(e.JobPosition),
		Location:       deref(e.Location),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (s *HolidayServiceImpl) monthHolidays(ctx context.Context, req holiday.ListHolidaysRequest) ([]holiday.Holiday, time.Time, time.Time, error) {
	if err := req.Validate(); err != nil {
		return nil, time.Time{}, time.Time{}, err
	}
	from, to := req.Range()

	if req.EmpID == "" {
		holidays, err := s.holidays.ListOverlapping(ctx, from, to)
		if err != nil {
			return nil, from, to, fmt.Errorf("failed to list holidays: %w", err)
		}
		return holidays, from, to, nil
	}

	holidays, err := s.ApplicableHolidays(ctx, req.EmpID, from, to)
	return holidays, from, to, err
}

// List implements holiday.HolidayService.
func (s *HolidayServiceImpl) List(ctx context.Context, req holiday.ListHolidaysRequest) ([]holiday.HolidayResponse, error) {
	holidays, _, _, err := s.monthHolidays(ctx, req)
	if err != nil {
		return nil, err
	}
	responses := make([]holiday.HolidayResponse, 0, len(holidays))
	for _, h := range holidays {
		responses = append(responses, holiday.NewHolidayResponse(h))
	}
	return responses, nil
}

// Calendar implements holiday.HolidayService.
func (s *HolidayServiceImpl) Calendar(ctx context.Context, req holiday.ListHolidaysRequest) ([]holiday.CalendarDay, error) {
	holidays, from, to, err := s.monthHolidays(ctx, req)
	if err != nil {
		return nil, err
	}
	return holiday.BuildCalendar(holidays, from, to), nil
}

// Create implements holiday.HolidayService.
func (s *HolidayServiceImpl) Create(ctx context.Context, req holiday.SaveHolidayRequest) (holiday.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return holiday.HolidayResponse{}, err
	}

	h := req.Holiday()
	h.CreatedBy = &req.Actor
	created, err := s.holidays.Create(ctx, h)
	if err != nil {
		return holiday.HolidayResponse{}, fmt.Errorf("failed to create holiday: %w", err)
	}
	return holiday.NewHolidayResponse(created), nil
}

// Update implements holiday.HolidayService.
func (s *HolidayServiceImpl) Update(ctx context.Context, req holiday.SaveHolidayRequest) (holiday.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return holiday.HolidayResponse{}, err
	}

	h := req.Holiday()
	h.EditedBy = &req.Actor
	if err := s.holidays.Update(ctx, h); err != nil {
		return holiday.HolidayResponse{}, err
	}

	updated, err := s.holidays.GetByID(ctx, h.ID)
	if err != nil {
		return holiday.HolidayResponse{}, err
	}
	return holiday.NewHolidayResponse(updated), nil
}

// Delete implements holiday.HolidayService.
func (s *HolidayServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.holidays.Delete(ctx, id)
}

// ApplicableHolidays implements holiday.HolidayService.
func (s *HolidayServiceImpl) ApplicableHolidays(ctx context.Context, empID string, from, to time.Time) ([]holiday.Holiday, error) {
	emp, err := s.employees.GetByEmpID(ctx, empID)
	if err != nil {
		return nil, err
	}

	holidays, err := s.holidays.ListOverlapping(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	return holiday.Filter(holidays, TargetOf(emp)), nil
}
