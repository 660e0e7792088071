package leave

import (
	"context"
	"time"
)

type LeaveTypeRepository interface {
	List(ctx context.Context) ([]LeaveType, error)
	GetByID(ctx context.Context, id int64) (LeaveType, error)
	Create(ctx context.Context, t LeaveType) (LeaveType, error)
	Update(ctx context.Context, t LeaveType) error
	SoftDelete(ctx context.Context, id int64, actor string) error
}

type LeaveRequestRepository interface {
	Create(ctx context.Context, r LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id int64) (LeaveRequest, error)
	ListByEmployee(ctx context.Context, empID string) ([]LeaveRequest, error)
	// ListCounted returns every non-canceled request of the employee.
	ListCounted(ctx context.Context, empID string) ([]LeaveRequest, error)
	// ListByDepartment returns the department's non-canceled requests, newest first.
	ListByDepartment(ctx context.Context, departmentID int64) ([]DepartmentRequest, error)
	ListPending(ctx context.Context) ([]DepartmentRequest, error)
	// Update replaces the mutable fields and resets the status to Pending.
	Update(ctx context.Context, r LeaveRequest) error
	// Cancel marks a Pending request Canceled and reports whether a row changed.
	Cancel(ctx context.Context, id int64, actor string, at time.Time) (bool, error)
	// UpdateStatus moves a Pending request to status and reports whether a row changed.
	UpdateStatus(ctx context.Context, id int64, status Status, actor string, reason *string, at time.Time) (bool, error)
	Delete(ctx context.Context, id int64) error
	// LockBalance serializes balance checks for one employee and leave type. Requires a transaction.
	LockBalance(ctx context.Context, empID string, leaveTypeID int64) error
}

type ApprovalRepository interface {
	List(ctx context.Context) ([]ApprovalChain, error)
	GetByDepartment(ctx context.Context, departmentID int64) (ApprovalChain, error)
	Upsert(ctx context.Context, chain ApprovalChain) error
	Delete(ctx context.Context, departmentID int64) error
}

type EscalationRepository interface {
	// RecordNotice stores that requestID was escalated to level. It reports false
	// when the notice had already been recorded.
	RecordNotice(ctx context.Context, requestID int64, level Level, at time.Time) (bool, error)
}
