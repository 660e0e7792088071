package employee

import "errors"

var (
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrEmailExists         = errors.New("email already registered")
	ErrInvalidAccessLevel  = errors.New("access level must be one of Admin, Sub Admin, Manager, User")
	ErrCannotDeleteSelf    = errors.New("cannot delete your own employee record")
	ErrDepartmentNotFound  = errors.New("department not found")
	ErrDepartmentExists    = errors.New("department already exists")
	ErrDepartmentInUse     = errors.New("department still has employees")
	ErrEmployeeNotAssigned = errors.New("employee has no department")
)
