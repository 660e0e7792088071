package leave

import (
	"time"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/employee"
)

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
	StatusCanceled Status = "Canceled"
)

// Breakdown says which part of a boundary day is taken.
type Breakdown string

const (
	BreakdownFull       Breakdown = "Full"
	BreakdownFirstHalf  Breakdown = "First half"
	BreakdownSecondHalf Breakdown = "Second half"
)

func (b Breakdown) Valid() bool {
	switch b {
	case BreakdownFull, BreakdownFirstHalf, BreakdownSecondHalf:
		return true
	}
	return false
}

// Level is an approver slot of a department's approval chain.
type Level int

const (
	Level1 Level = 1
	Level2 Level = 2
	Level3 Level = 3
)

type LeaveType struct {
	ID          int64
	Name        string
	MaxLeave    float64
	CreatedBy   *string
	CreatedTime time.Time
	DeletedBy   *string
	DeletedTime *time.Time
}

type LeaveRequest struct {
	ID                  int64
	EmpID               string
	LeaveTypeID         int64
	LeaveTypeName       string
	StartDate           time.Time
	StartBreakdown      Breakdown
	EndDate             time.Time
	EndBreakdown        Breakdown
	Description         *string
	Attachment          *string
	Status              Status
	CreatedBy           string
	CreatedTime         time.Time
	UpdatedBy           *string
	UpdatedTime         *time.Time
	CanceledBy          *string
	CanceledTime        *time.Time
	StatusUpdatedBy     *string
	StatusUpdatedTime   *time.Time
	StatusUpdatedReason *string
}

// DepartmentRequest is a leave request joined with its employee, as seen by approvers
// and by the escalation job.
type DepartmentRequest struct {
	LeaveRequest
	EmployeeName   string
	EmployeeEmail  string
	DepartmentID   *int64
	DepartmentName *string
}

// ApprovalChain lists up to three approvers of a department, in escalation order.
type ApprovalChain struct {
	DepartmentID   int64
	DepartmentName string
	Level1         *string
	Level2         *string
	Level3         *string
	UpdatedBy      *string
	UpdatedTime    *time.Time
}

// Approver returns the employee configured at level, if any.
func (c ApprovalChain) Approver(level Level) (string, bool) {
	var id *string
	switch level {
	case Level1:
		id = c.Level1
	case Level2:
		id = c.Level2
	case Level3:
		id = c.Level3
	}
	if id == nil || *id == "" {
		return "", false
	}
	return *id, true
}

// FirstApprover returns the lowest configured level.
func (c ApprovalChain) FirstApprover() (string, Level, bool) {
	for _, level := range []Level{Level1, Level2, Level3} {
		if id, ok := c.Approver(level); ok {
			return id, level, true
		}
	}
	return "", 0, false
}

// LevelOf returns the level empID holds in the chain.
func (c ApprovalChain) LevelOf(empID string) (Level, bool) {
	for _, level := range []Level{Level1, Level2, Level3} {
		if id, ok := c.Approver(level); ok && id == empID {
			return level, true
		}
	}
	return 0, false
}

// Actor is the authenticated employee performing an operation.
type Actor struct {
	EmpID string
	Role  employee.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == employee.RoleAdmin
}
