package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/employee"
	"github.com/dolluzcorp/dtime-backend-go/internal/domain/leave"
)

type EscalationOptions struct {
	// SystemActor stamps status_updated_by on auto-approved requests.
	SystemActor string
	Reason      string
	// DryRun computes the report without writing or sending anything.
	DryRun bool
}

type EscalatorImpl struct {
	requests    leave.LeaveRequestRepository
	approvals   leave.ApprovalRepository
	escalations leave.EscalationRepository
	employees   employee.EmployeeRepository
	notifier    *Notifier
	loc         *time.Location
	opts        EscalationOptions
}

var _ leave.Escalator = (*EscalatorImpl)(nil)

func NewEscalator(
	leaveRequestRepo leave.LeaveRequestRepository,
	approvalRepo leave.ApprovalRepository,
	escalationRepo leave.EscalationRepository,
	employeeRepo employee.EmployeeRepository,
	notifier *Notifier,
	loc *time.Location,
	opts EscalationOptions,
) *EscalatorImpl {
	if loc == nil {
		loc = time.UTC
	}
	return &EscalatorImpl{
		requests:    leaveRequestRepo,
		approvals:   approvalRepo,
		escalations: escalationRepo,
		employees:   employeeRepo,
		notifier:    notifier,
		loc:         loc,
		opts:        opts,
	}
}

type escalationRun struct {
	now    time.Time
	chains map[int64]*leave.ApprovalChain
	report leave.EscalationReport
}

// Run implements leave.Escalator. Rerunning on the same day is a no-op: notices are
// recorded once per request and level and auto-approval only touches pending rows.
func (e *EscalatorImpl) Run(ctx context.Context, now time.Time) (leave.EscalationReport, error) {
	pending, err := e.requests.ListPending(ctx)
	if err != nil {
		return leave.EscalationReport{}, fmt.Errorf("failed to list pending leave requests: %w", err)
	}

	run := &escalationRun{now: now, chains: make(map[int64]*leave.ApprovalChain)}
	run.report.Scanned = len(pending)

	for _, r := range pending {
		if err := ctx.Err(); err != nil {
			return run.report, err
		}
		if err := e.escalate(ctx, run, r); err != nil {
			run.report.Failed++
			slog.Error("Failed to escalate leave request", "leave_requests_id", r.ID, "emp_id", r.EmpID, "error", err)
		}
	}
	return run.report, nil
}

func (e *EscalatorImpl) escalate(ctx context.Context, run *escalationRun, r leave.DepartmentRequest) error {
	days := DaysPending(r.CreatedTime, run.now, e.loc)

	switch nextEscalation(days) {
	case stepNotifyLevel2:
		return e.notify(ctx, run, r, leave.Level2)
	case stepNotifyLevel3:
		return e.notify(ctx, run, r, leave.Level3)
	case stepAutoApprove:
		return e.autoApprove(ctx, run, r)
	}
	run.report.Skipped++
	return nil
}

func (e *EscalatorImpl) chain(ctx context.Context, run *escalationRun, departmentID *int64) (*leave.ApprovalChain, error) {
	if departmentID == nil {
		return nil, nil
	}
	if c, ok := run.chains[*departmentID]; ok {
		return c, nil
	}
	c, err := e.approvals.GetByDepartment(ctx, *departmentID)
	if err != nil {
		if errors.Is(err, leave.ErrApprovalChainNotFound) {
			run.chains[*departmentID] = nil
			return nil, nil
		}
		return nil, err
	}
	run.chains[*departmentID] = &c
	return &c, nil
}

func (e *EscalatorImpl) notify(ctx context.Context, run *escalationRun, r leave.DepartmentRequest, level leave.Level) error {
	chain, err := e.chain(ctx, run, r.DepartmentID)
	if err != nil {
		return err
	}
	var approverID string
	ok := false
	if chain != nil {
		approverID, ok = chain.Approver(level)
	}
	if !ok {
		slog.Warn("No approver to escalate to", "leave_requests_id", r.ID, "level", int(level))
		run.report.Skipped++
		return nil
	}

	approver, err := e.employees.GetByEmpID(ctx, approverID)
	if err != nil {
		return fmt.Errorf("load approver %s: %w", approverID, err)
	}

	if !e.opts.DryRun {
		recorded, err := e.escalations.RecordNotice(ctx, r.ID, level, run.now)
		if err != nil {
			return err
		}
		if !recorded {
			run.report.Skipped++
			return nil
		}
		if err := e.notifier.escalated(ctx, r, level, approver); err != nil {
			slog.Error("Failed to send escalation mail", "leave_requests_id", r.ID, "to", approver.Email, "error", err)
		}
	}

	if level == leave.Level2 {
		run.report.NotifiedL2++
	} else {
		run.report.NotifiedL3++
	}
	return nil
}

func (e *EscalatorImpl) autoApprove(ctx context.Context, run *escalationRun, r leave.DepartmentRequest) error {
	if e.opts.DryRun {
		run.report.AutoApproved++
		return nil
	}

	reason := e.opts.Reason
	changed, err := e.requests.UpdateStatus(ctx, r.ID, leave.StatusApproved, e.opts.SystemActor, &reason, run.now)
	if err != nil {
		return err
	}
	if !changed {
		run.report.Skipped++
		return nil
	}

	r.Status = leave.StatusApproved
	r.StatusUpdatedBy = &e.opts.SystemActor
	r.StatusUpdatedReason = &reason
	if err := e.notifier.autoApproved(ctx, r, e.opts.SystemActor); err != nil {
		slog.Error("Failed to send auto-approval mail", "leave_requests_id", r.ID, "to", r.EmployeeEmail, "error", err)
	}
	run.report.AutoApproved++
	return nil
}
