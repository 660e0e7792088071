package employee

import "context"

type EmployeeService interface {
	List(ctx context.Context) ([]EmployeeResponse, error)
	Get(ctx context.Context, empID string) (EmployeeResponse, error)
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	Update(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, empID string, actor string) error
	SetActive(ctx context.Context, req SetActiveRequest) error

	ListDepartments(ctx context.Context) ([]DepartmentResponse, error)
	CreateDepartment(ctx context.Context, req DepartmentRequest) (DepartmentResponse, error)
	UpdateDepartment(ctx context.Context, req DepartmentRequest) (DepartmentResponse, error)
	DeleteDepartment(ctx context.Context, id int64) error
}
