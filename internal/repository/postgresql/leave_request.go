package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/leave"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
	// adminSchema qualifies the HR/admin tables joined from the timesheet database.
	adminSchema string
}

// NewLeaveRequestRepository expects the timesheet database and the schema name of the HR/admin database.
func NewLeaveRequestRepository(db *database.DB, adminSchema string) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db, adminSchema: pgx.Identifier{adminSchema}.Sanitize()}
}

const leaveRequestColumns = `
	lr.leave_requests_id, lr.emp_id, lr.leave_type_id, COALESCE(lt.leave_type, ''),
	lr.start_date, lr.start_date_breakdown, lr.end_date, lr.end_date_breakdown,
	lr.leave_description, lr.attachment, lr.leave_status,
	lr.created_by, lr.created_time, lr.updated_by, lr.updated_time,
	lr.canceled_by, lr.canceled_time,
	lr.status_updated_by, lr.status_updated_time, lr.status_updated_reason`

func leaveRequestDest(r *leave.LeaveRequest) []any {
	return []any{
		&r.ID, &r.EmpID, &r.LeaveTypeID, &r.LeaveTypeName,
		&r.StartDate, &r.StartBreakdown, &r.EndDate, &r.EndBreakdown,
		&r.Description, &r.Attachment, &r.Status,
		&r.CreatedBy, &r.CreatedTime, &r.UpdatedBy, &r.UpdatedTime,
		&r.CanceledBy, &r.CanceledTime,
		&r.StatusUpdatedBy, &r.StatusUpdatedTime, &r.StatusUpdatedReason,
	}
}

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var r leave.LeaveRequest
	err := row.Scan(leaveRequestDest(&r)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return r, err
}

func collectLeaveRequests(rows pgx.Rows) ([]leave.LeaveRequest, error) {
	defer rows.Close()
	requests := make([]leave.LeaveRequest, 0)
	for rows.Next() {
		r, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

// departmentQuery selects requests joined with their employee and department.
func (l *leaveRequestRepositoryImpl) departmentQuery(where string) string {
	return fmt.Sprintf(`SELECT %s,
			TRIM(CONCAT(e.emp_first_name, ' ', e.emp_last_name)), e.emp_mail_id,
			e.emp_department, d.department_name
		FROM leave_requests lr
		LEFT JOIN leave_type lt ON lt.leave_type_id = lr.leave_type_id
		JOIN %[2]s.employee e ON e.emp_id = lr.emp_id
		LEFT JOIN %[2]s.department d ON d.department_id = e.emp_department
		WHERE %[3]s
		ORDER BY lr.created_time DESC, lr.leave_requests_id DESC`, leaveRequestColumns, l.adminSchema, where)
}

func collectDepartmentRequests(rows pgx.Rows) ([]leave.DepartmentRequest, error) {
	defer rows.Close()
	requests := make([]leave.DepartmentRequest, 0)
	for rows.Next() {
		var r leave.DepartmentRequest
		dest := append(leaveRequestDest(&r.LeaveRequest), &r.EmployeeName, &r.EmployeeEmail, &r.DepartmentID, &r.DepartmentName)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

func (l *leaveRequestRepositoryImpl) Create(ctx context.Context, r leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, l.db)
	var id int64
	err := q.QueryRow(ctx, `
		INSERT INTO leave_requests (
			emp_id, leave_type_id, start_date, start_date_breakdown, end_date, end_date_breakdown,
			leave_description, attachment, leave_status, created_by, created_time
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'Pending', $9, $10)
		RETURNING leave_requests_id`,
		r.EmpID, r.LeaveTypeID, r.StartDate, r.StartBreakdown, r.EndDate, r.EndBreakdown,
		r.Description, r.Attachment, r.CreatedBy, r.CreatedTime,
	).Scan(&id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return leave.LeaveRequest{}, leave.ErrLeaveTypeNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("insert leave request: %w", err)
	}
	return l.GetByID(ctx, id)
}

func (l *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id int64) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, l.db)
	return scanLeaveRequest(q.QueryRow(ctx, `SELECT `+leaveRequestColumns+`
		FROM leave_requests lr
		LEFT JOIN leave_type lt ON lt.leave_type_id = lr.leave_type_id
		WHERE lr.leave_requests_id = $1`, id))
}

func (l *leaveRequestRepositoryImpl) ListByEmployee(ctx context.Context, empID string) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, l.db)
	rows, err := q.Query(ctx, `SELECT `+leaveRequestColumns+`
		FROM leave_requests lr
		LEFT JOIN leave_type lt ON lt.leave_type_id = lr.leave_type_id
		WHERE lr.emp_id = $1
		ORDER BY lr.created_time DESC, lr.leave_requests_id DESC`, empID)
	if err != nil {
		return nil, fmt.Errorf("list leave requests: %w", err)
	}
	return collectLeaveRequests(rows)
}

func (l *leaveRequestRepositoryImpl) ListCounted(ctx context.Context, empID string) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, l.db)
	rows, err := q.Query(ctx, `SELECT `+leaveRequestColumns+`
		FROM leave_requests lr
		LEFT JOIN leave_type lt ON lt.leave_type_id = lr.leave_type_id
		WHERE lr.emp_id = $1 AND lr.leave_status <> 'Canceled'
		ORDER BY lr.start_date`, empID)
	if err != nil {
		return nil, fmt.Errorf("list counted leave requests: %w", err)
	}
	return collectLeaveRequests(rows)
}

func (l *leaveRequestRepositoryImpl) ListByDepartment(ctx context.Context, departmentID int64) ([]leave.DepartmentRequest, error) {
	q := GetQuerier(ctx, l.db)
	rows, err := q.Query(ctx, l.departmentQuery(`e.emp_department = $1 AND lr.leave_status <> 'Canceled'`), departmentID)
	if err != nil {
		return nil, fmt.Errorf("list department leave requests: %w", err)
	}
	return collectDepartmentRequests(rows)
}

func (l *leaveRequestRepositoryImpl) ListPending(ctx context.Context) ([]leave.DepartmentRequest, error) {
	q := GetQuerier(ctx, l.db)
	rows, err := q.Query(ctx, l.departmentQuery(`lr.leave_status = 'Pending'`))
	if err != nil {
		return nil, fmt.Errorf("list pending leave requests: %w", err)
	}
	return collectDepartmentRequests(rows)
}

func (l *leaveRequestRepositoryImpl) Update(ctx context.Context, r leave.LeaveRequest) error {
	q := GetQuerier(ctx, l.db)
	tag, err := q.Exec(ctx, `
		UPDATE leave_requests SET
			leave_type_id = $2, start_date = $3, start_date_breakdown = $4,
			end_date = $5, end_date_breakdown = $6, leave_description = $7, attachment = $8,
			leave_status = 'Pending', updated_by = $9, updated_time = $10,
			canceled_by = NULL, canceled_time = NULL,
			status_updated_by = NULL, status_updated_time = NULL, status_updated_reason = NULL
		WHERE leave_requests_id = $1`,
		r.ID, r.LeaveTypeID, r.StartDate, r.StartBreakdown,
		r.EndDate, r.EndBreakdown, r.Description, r.Attachment,
		r.UpdatedBy, r.UpdatedTime)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return leave.ErrLeaveTypeNotFound
		}
		return fmt.Errorf("update leave request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}

func (l *leaveRequestRepositoryImpl) Cancel(ctx context.Context, id int64, actor string, at time.Time) (bool, error) {
	q := GetQuerier(ctx, l.db)
	tag, err := q.Exec(ctx, `
		UPDATE leave_requests SET leave_status = 'Canceled', canceled_by = $2, canceled_time = $3
		WHERE leave_requests_id = $1 AND leave_status = 'Pending'`, id, actor, at)
	if err != nil {
		return false, fmt.Errorf("cancel leave request: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (l *leaveRequestRepositoryImpl) UpdateStatus(ctx context.Context, id int64, status leave.Status, actor string, reason *string, at time.Time) (bool, error) {
	q := GetQuerier(ctx, l.db)
	tag, err := q.Exec(ctx, `
		UPDATE leave_requests SET
			leave_status = $2, status_updated_by = $3, status_updated_reason = $4, status_updated_time = $5
		WHERE leave_requests_id = $1 AND leave_status = 'Pending'`, id, status, actor, reason, at)
	if err != nil {
		return false, fmt.Errorf("update leave status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (l *leaveRequestRepositoryImpl) Delete(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, l.db)
	tag, err := q.Exec(ctx, `DELETE FROM leave_requests WHERE leave_requests_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete leave request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}

func (l *leaveRequestRepositoryImpl) LockBalance(ctx context.Context, empID string, leaveTypeID int64) error {
	return advisoryLock(ctx, l.db, strings.Join([]string{"leave_balance", empID, fmt.Sprint(leaveTypeID)}, ":"))
}
