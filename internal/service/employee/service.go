package employee

import (
	"context"
	"fmt"
	"time"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/employee"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/database"
	"golang.org/x/crypto/bcrypt"
)

type EmployeeServiceImpl struct {
	db          database.Transactor
	employees   employee.EmployeeRepository
	departments employee.DepartmentRepository
	idPrefix    string
	now         func() time.Time
}

var _ employee.EmployeeService = (*EmployeeServiceImpl)(nil)

func NewEmployeeService(db database.Transactor, employeeRepo employee.EmployeeRepository, departmentRepo employee.DepartmentRepository, idPrefix string) *EmployeeServiceImpl {
	return &EmployeeServiceImpl{
		db:          db,
		employees:   employeeRepo,
		departments: departmentRepo,
		idPrefix:    idPrefix,
		now:         time.Now,
	}
}

// FormatEmpID builds the public employee id from the year of joining and the row's auto id,
// e.g. dolluzcorp-2025-00007.
func FormatEmpID(prefix string, year int, autoID int64) string {
	return fmt.Sprintf("%s-%d-%05d", prefix, year, autoID)
}

func (s *EmployeeServiceImpl) checkDepartment(ctx context.Context, id *int64) error {
	if id == nil {
		return nil
	}
	_, err := s.departments.GetByID(ctx, *id)
	return err
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context) ([]employee.EmployeeResponse, error) {
	employees, err := s.employees.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		responses = append(responses, employee.NewEmployeeResponse(e))
	}
	return responses, nil
}

// Get implements employee.EmployeeService. Deleted employees are reported as not found.
func (s *EmployeeServiceImpl) Get(ctx context.Context, empID string) (employee.EmployeeResponse, error) {
	e, err := s.employees.GetByEmpID(ctx, empID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if e.Deleted() {
		return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
	}
	return employee.NewEmployeeResponse(e), nil
}

// Create implements employee.EmployeeService. The row is inserted and given its emp_id
// in one transaction.
func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := s.checkDepartment(ctx, req.DepartmentID); err != nil {
		return employee.EmployeeResponse{}, err
	}

	var passwordHash *string
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return employee.EmployeeResponse{}, fmt.Errorf("failed to hash password: %w", err)
		}
		hashed := string(hash)
		passwordHash = &hashed
	}

	createdBy := req.CreatedBy
	newEmployee := employee.Employee{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		DOB:               req.ParsedDOB(),
		BloodGroup:        req.BloodGroup,
		Email:             req.Email,
		PasswordHash:      passwordHash,
		MobileNo:          req.MobileNo,
		AlternateMobileNo: req.AlternateMobileNo,
		DepartmentID:      req.DepartmentID,
		EmpType:           req.EmpType,
		CareerLevel:       req.CareerLevel,
		JobPosition:       req.JobPosition,
		Location:          req.Location,
		AccessLevel:       req.AccessLevel,
		IsActive:          true,
		CreatedBy:         &createdBy,
	}

	var empID string
	err := s.db.WithTransaction(ctx, func(ctx context.Context) error {
		autoID, err := s.employees.Insert(ctx, newEmployee)
		if err != nil {
			return err
		}
		empID = FormatEmpID(s.idPrefix, s.now().Year(), autoID)
		return s.employees.AssignEmpID(ctx, autoID, empID)
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return s.Get(ctx, empID)
}

// Update implements employee.EmployeeService. The password is not touched here.
func (s *EmployeeServiceImpl) Update(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	existing, err := s.employees.GetByEmpID(ctx, req.EmpID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if existing.Deleted() {
		return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
	}
	if err := s.checkDepartment(ctx, req.DepartmentID); err != nil {
		return employee.EmployeeResponse{}, err
	}

	existing.FirstName = req.FirstName
	existing.LastName = req.LastName
	existing.DOB = req.ParsedDOB()
	existing.BloodGroup = req.BloodGroup
	existing.Email = req.Email
	existing.MobileNo = req.MobileNo
	existing.AlternateMobileNo = req.AlternateMobileNo
	existing.DepartmentID = req.DepartmentID
	existing.EmpType = req.EmpType
	existing.CareerLevel = req.CareerLevel
	existing.JobPosition = req.JobPosition
	existing.Location = req.Location
	existing.AccessLevel = req.AccessLevel
	existing.UpdatedBy = &req.UpdatedBy

	if err := s.employees.Update(ctx, existing); err != nil {
		return employee.EmployeeResponse{}, err
	}
	return s.Get(ctx, req.EmpID)
}

// Delete implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Delete(ctx context.Context, empID string, actor string) error {
	if empID == actor {
		return employee.ErrCannotDeleteSelf
	}
	return s.employees.SoftDelete(ctx, empID, actor)
}

// SetActive implements employee.EmployeeService.
func (s *EmployeeServiceImpl) SetActive(ctx context.Context, req employee.SetActiveRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return s.employees.SetActive(ctx, req.EmpID, *req.IsActive, req.UpdatedBy)
}

// ListDepartments implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListDepartments(ctx context.Context) ([]employee.DepartmentResponse, error) {
	departments, err := s.departments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	responses := make([]employee.DepartmentResponse, 0, len(departments))
	for _, d := range departments {
		responses = append(responses, employee.NewDepartmentResponse(d))
	}
	return responses, nil
}

// CreateDepartment implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateDepartment(ctx context.Context, req employee.DepartmentRequest) (employee.DepartmentResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.DepartmentResponse{}, err
	}
	createdBy := req.CreatedBy
	d, err := s.departments.Create(ctx, employee.Department{Name: req.Name, CreatedBy: &createdBy})
	if err != nil {
		return employee.DepartmentResponse{}, err
	}
	return employee.NewDepartmentResponse(d), nil
}

// UpdateDepartment implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateDepartment(ctx context.Context, req employee.DepartmentRequest) (employee.DepartmentResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.DepartmentResponse{}, err
	}
	if err := s.departments.Update(ctx, employee.Department{ID: req.ID, Name: req.Name}); err != nil {
		return employee.DepartmentResponse{}, err
	}
	d, err := s.departments.GetByID(ctx, req.ID)
	if err != nil {
		return employee.DepartmentResponse{}, err
	}
	return employee.NewDepartmentResponse(d), nil
}

// DeleteDepartment implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeleteDepartment(ctx context.Context, id int64) error {
	return s.departments.Delete(ctx, id)
}
