package holiday

import "errors"

var (
	ErrHolidayNotFound = errors.New("holiday not found")
	ErrInvalidScope    = errors.New("holiday_for must be one of general, department, job_position, location, employee")
)
