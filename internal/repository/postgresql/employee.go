package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/employee"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const employeeColumns = `
	e.auto_id, COALESCE(e.emp_id, ''), e.emp_first_name, e.emp_last_name, e.dob, e.blood_group,
	e.emp_mail_id, e.account_pass, e.emp_mobile_no, e.emp_alternate_mobile_no,
	e.emp_department, d.department_name, e.emp_type, e.carrier_level, e.job_position, e.emp_location,
	e.emp_access_level, e.is_active, e.created_by, e.created_time, e.updated_by, e.updated_time,
	e.deleted_by, e.deleted_time, e.is_active_updated_by, e.is_active_updated_time`

type employeeRepositoryImpl struct {
	db *database.DB
}

// NewEmployeeRepository expects the HR/admin database.
func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.AutoID, &e.EmpID, &e.FirstName, &e.LastName, &e.DOB, &e.BloodGroup,
		&e.Email, &e.PasswordHash, &e.MobileNo, &e.AlternateMobileNo,
		&e.DepartmentID, &e.DepartmentName, &e.EmpType, &e.CareerLevel, &e.JobPosition, &e.Location,
		&e.AccessLevel, &e.IsActive, &e.CreatedBy, &e.CreatedTime, &e.UpdatedBy, &e.UpdatedTime,
		&e.DeletedBy, &e.DeletedTime, &e.IsActiveUpdatedBy, &e.IsActiveUpdatedTime,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, err
}

func (r *employeeRepositoryImpl) Insert(ctx context.Context, e employee.Employee) (int64, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO employee (
			emp_first_name, emp_last_name, dob, blood_group, emp_mail_id, account_pass,
			emp_mobile_no, emp_alternate_mobile_no, emp_department, emp_type, carrier_level,
			job_position, emp_location, emp_access_level, is_active, created_by, created_time
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, TRUE, $15, NOW())
		RETURNING auto_id
	`
	var autoID int64
	err := q.QueryRow(ctx, query,
		e.FirstName, e.LastName, e.DOB, e.BloodGroup, e.Email, e.PasswordHash,
		e.MobileNo, e.AlternateMobileNo, e.DepartmentID, e.EmpType, e.CareerLevel,
		e.JobPosition, e.Location, e.AccessLevel, e.CreatedBy,
	).Scan(&autoID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return 0, employee.ErrEmailExists
		}
		return 0, fmt.Errorf("insert employee: %w", err)
	}
	return autoID, nil
}

func (r *employeeRepositoryImpl) AssignEmpID(ctx context.Context, autoID int64, empID string) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `UPDATE employee SET emp_id = $2 WHERE auto_id = $1`, autoID, empID)
	if err != nil {
		return fmt.Errorf("assign emp_id: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

func (r *employeeRepositoryImpl) GetByEmpID(ctx context.Context, empID string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + employeeColumns + `
		FROM employee e
		LEFT JOIN department d ON d.department_id = e.emp_department
		WHERE e.emp_id = $1 AND e.deleted_time IS NULL`
	return scanEmployee(q.QueryRow(ctx, query, empID))
}

func (r *employeeRepositoryImpl) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + employeeColumns + `
		FROM employee e
		LEFT JOIN department d ON d.department_id = e.emp_department
		WHERE LOWER(e.emp_mail_id) = LOWER($1) AND e.deleted_time IS NULL`
	return scanEmployee(q.QueryRow(ctx, query, email))
}

func (r *employeeRepositoryImpl) List(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + employeeColumns + `
		FROM employee e
		LEFT JOIN department d ON d.department_id = e.emp_department
		WHERE e.deleted_time IS NULL
		ORDER BY e.created_time DESC, e.auto_id DESC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (r *employeeRepositoryImpl) Update(ctx context.Context, e employee.Employee) error {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE employee SET
			emp_first_name = $2, emp_last_name = $3, dob = $4, blood_group = $5, emp_mail_id = $6,
			emp_mobile_no = $7, emp_alternate_mobile_no = $8, emp_department = $9, emp_type = $10,
			carrier_level = $11, job_position = $12, emp_location = $13, emp_access_level = $14,
			updated_by = $15, updated_time = NOW()
		WHERE emp_id = $1 AND deleted_time IS NULL
	`
	tag, err := q.Exec(ctx, query,
		e.EmpID, e.FirstName, e.LastName, e.DOB, e.BloodGroup, e.Email,
		e.MobileNo, e.AlternateMobileNo, e.DepartmentID, e.EmpType,
		e.CareerLevel, e.JobPosition, e.Location, e.AccessLevel, e.UpdatedBy,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return employee.ErrEmailExists
		}
		return fmt.Errorf("update employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

func (r *employeeRepositoryImpl) UpdatePassword(ctx context.Context, empID string, passwordHash string) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `
		UPDATE employee SET account_pass = $2, updated_time = NOW()
		WHERE emp_id = $1 AND deleted_time IS NULL`, empID, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

func (r *employeeRepositoryImpl) SoftDelete(ctx context.Context, empID string, deletedBy string) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `
		UPDATE employee SET deleted_by = $2, deleted_time = NOW()
		WHERE emp_id = $1 AND deleted_time IS NULL`, empID, deletedBy)
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

func (r *employeeRepositoryImpl) SetActive(ctx context.Context, empID string, active bool, updatedBy string) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `
		UPDATE employee SET is_active = $2, is_active_updated_by = $3, is_active_updated_time = NOW()
		WHERE emp_id = $1 AND deleted_time IS NULL`, empID, active, updatedBy)
	if err != nil {
		return fmt.Errorf("set employee active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}
