package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/employee"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type departmentRepositoryImpl struct {
	db *database.DB
}

func NewDepartmentRepository(db *database.DB) employee.DepartmentRepository {
	return &departmentRepositoryImpl{db: db}
}

func (r *departmentRepositoryImpl) List(ctx context.Context) ([]employee.Department, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, `
		SELECT department_id, department_name, created_by, created_time
		FROM department
		ORDER BY department_name`)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()

	departments := make([]employee.Department, 0)
	for rows.Next() {
		var d employee.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.CreatedBy, &d.CreatedTime); err != nil {
			return nil, err
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}

func (r *departmentRepositoryImpl) GetByID(ctx context.Context, id int64) (employee.Department, error) {
	q := GetQuerier(ctx, r.db)
	var d employee.Department
	err := q.QueryRow(ctx, `
		SELECT department_id, department_name, created_by, created_time
		FROM department WHERE department_id = $1`, id,
	).Scan(&d.ID, &d.Name, &d.CreatedBy, &d.CreatedTime)
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.Department{}, employee.ErrDepartmentNotFound
	}
	return d, err
}

func (r *departmentRepositoryImpl) Create(ctx context.Context, d employee.Department) (employee.Department, error) {
	q := GetQuerier(ctx, r.db)
	err := q.QueryRow(ctx, `
		INSERT INTO department (department_name, created_by, created_time)
		VALUES ($1, $2, NOW())
		RETURNING department_id, created_time`, d.Name, d.CreatedBy,
	).Scan(&d.ID, &d.CreatedTime)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return employee.Department{}, employee.ErrDepartmentExists
		}
		return employee.Department{}, fmt.Errorf("create department: %w", err)
	}
	return d, nil
}

func (r *departmentRepositoryImpl) Update(ctx context.Context, d employee.Department) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `UPDATE department SET department_name = $2 WHERE department_id = $1`, d.ID, d.Name)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return employee.ErrDepartmentExists
		}
		return fmt.Errorf("update department: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrDepartmentNotFound
	}
	return nil
}

func (r *departmentRepositoryImpl) Delete(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `DELETE FROM department WHERE department_id = $1`, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return employee.ErrDepartmentInUse
		}
		return fmt.Errorf("delete department: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrDepartmentNotFound
	}
	return nil
}
