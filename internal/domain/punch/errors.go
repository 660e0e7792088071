package punch

import "errors"

var (
	ErrAlreadyPunchedIn = errors.New("employee is already punched in")
	ErrNotPunchedIn     = errors.New("no open punch-in found for employee")
	ErrPunchNotFound    = errors.New("punch record not found")
)
