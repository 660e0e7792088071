package employee

import "context"

type EmployeeRepository interface {
	// Insert stores e without an emp_id and returns the generated auto id.
	Insert(ctx context.Context, e Employee) (int64, error)
	AssignEmpID(ctx context.Context, autoID int64, empID string) error
	GetByEmpID(ctx context.Context, empID string) (Employee, error)
	GetByEmail(ctx context.Context, email string) (Employee, error)
	List(ctx context.Context) ([]Employee, error)
	Update(ctx context.Context, e Employee) error
	UpdatePassword(ctx context.Context, empID string, passwordHash string) error
	SoftDelete(ctx context.Context, empID string, deletedBy string) error
	SetActive(ctx context.Context, empID string, active bool, updatedBy string) error
}

type DepartmentRepository interface {
	List(ctx context.Context) ([]Department, error)
	GetByID(ctx context.Context, id int64) (Department, error)
	Create(ctx context.Context, d Department) (Department, error)
	Update(ctx context.Context, d Department) error
	Delete(ctx context.Context, id int64) error
}
