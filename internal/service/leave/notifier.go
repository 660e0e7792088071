package leave

import (
	"context"
	"log/slog"
	"time"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/employee"
	"github.com/dolluzcorp/dtime-backend-go/internal/domain/leave"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/email"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/events"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/validator"
)

const notifyTimeout = 30 * time.Second

// Notifier delivers the emails and events of the leave workflow. Failures are
// logged and never reach the caller.
type Notifier struct {
	mail      email.EmailService
	publisher events.Publisher
	employees employee.EmployeeRepository
	portalURL string
	// dispatch runs fn off the request path.
	dispatch func(fn func())
}

func NewNotifier(mail email.EmailService, publisher events.Publisher, employees employee.EmployeeRepository, portalURL string) *Notifier {
	if publisher == nil {
		publisher = events.NewNoopPublisher()
	}
	return &Notifier{
		mail:      mail,
		publisher: publisher,
		employees: employees,
		portalURL: portalURL,
		dispatch:  func(fn func()) { go fn() },
	}
}

func (n *Notifier) async(ctx context.Context, what string, fn func(ctx context.Context)) {
	ctx = context.WithoutCancel(ctx)
	n.dispatch(func() {
		ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
		defer cancel()
		defer func() {
			if p := recover(); p != nil {
				slog.Error("Leave notification panicked", "notification", what, "panic", p)
			}
		}()
		fn(ctx)
	})
}

func (n *Notifier) publish(ctx context.Context, r leave.LeaveRequest, eventType string, level leave.Level, actor string, recipients ...string) {
	err := n.publisher.Publish(ctx, events.LeaveEvent{
		Type:       eventType,
		RequestID:  r.ID,
		EmpID:      r.EmpID,
		Status:     string(r.Status),
		Level:      int(level),
		Actor:      actor,
		OccurredAt: time.Now(),
		Recipients: recipients,
	})
	if err != nil {
		slog.Error("Failed to publish leave event", "event", eventType, "leave_requests_id", r.ID, "error", err)
	}
}

func (n *Notifier) leaveMail(r leave.LeaveRequest, employeeName string, departmentName *string) email.LeaveMail {
	m := email.LeaveMail{
		RequestID:    r.ID,
		EmployeeName: employeeName,
		LeaveType:    r.LeaveTypeName,
		StartDate:    r.StartDate.Format(validator.DateLayout),
		EndDate:      r.EndDate.Format(validator.DateLayout),
		Status:       string(r.Status),
		PortalURL:    n.portalURL,
	}
	if departmentName != nil {
		m.DepartmentName = *departmentName
	}
	if r.Description != nil {
		m.Description = *r.Description
	}
	if r.StatusUpdatedReason != nil {
		m.Reason = *r.StatusUpdatedReason
	}
	return m
}

// RequestSubmitted mails the level 1 approver of the employee's department, or the
// admin mailbox when no approver is configured.
func (n *Notifier) RequestSubmitted(ctx context.Context, r leave.LeaveRequest, emp employee.Employee, chain *leave.ApprovalChain) {
	n.async(ctx, "request_submitted", func(ctx context.Context) {
		data := n.leaveMail(r, emp.FullName(), emp.DepartmentName)

		approverID, ok := "", false
		if chain != nil {
			approverID, ok = chain.Approver(leave.Level1)
		}
		if !ok {
			if err := n.mail.SendApprovalNotConfigured(data); err != nil {
				slog.Error("Failed to send approval-not-configured mail", "leave_requests_id", r.ID, "error", err)
			}
			n.publish(ctx, r, events.LeaveRequestCreated, 0, r.EmpID)
			return
		}

		approver, err := n.employees.GetByEmpID(ctx, approverID)
		if err != nil {
			slog.Error("Failed to load approver", "leave_requests_id", r.ID, "approver_id", approverID, "error", err)
		} else {
			data.RecipientName = approver.FullName()
			if err := n.mail.SendLeaveRequestSubmitted(approver.Email, data); err != nil {
				slog.Error("Failed to send leave request mail", "leave_requests_id", r.ID, "to", approver.Email, "error", err)
			}
		}
		n.publish(ctx, r, events.LeaveRequestCreated, leave.Level1, r.EmpID, approverID)
	})
}

// RequestUpdated tells the level 1 approver that an edited request is pending again.
func (n *Notifier) RequestUpdated(ctx context.Context, r leave.LeaveRequest, chain *leave.ApprovalChain) {
	n.async(ctx, "request_updated", func(ctx context.Context) {
		var recipients []string
		if chain != nil {
			if id, ok := chain.Approver(leave.Level1); ok {
				recipients = append(recipients, id)
			}
		}
		n.publish(ctx, r, events.LeaveRequestUpdated, leave.Level1, r.EmpID, recipients...)
	})
}

// StatusChanged mails the employee the approver's decision.
func (n *Notifier) StatusChanged(ctx context.Context, r leave.LeaveRequest, emp employee.Employee, actor string) {
	n.async(ctx, "status_changed", func(ctx context.Context) {
		data := n.leaveMail(r, emp.FullName(), emp.DepartmentName)
		data.RecipientName = emp.FullName()
		if err := n.mail.SendLeaveStatusUpdated(emp.Email, data); err != nil {
			slog.Error("Failed to send leave status mail", "leave_requests_id", r.ID, "to", emp.Email, "error", err)
		}
		n.publish(ctx, r, events.LeaveStatusChanged, 0, actor, r.EmpID)
	})
}

// RequestCanceled only publishes an event.
func (n *Notifier) RequestCanceled(ctx context.Context, r leave.LeaveRequest, actor string) {
	n.async(ctx, "request_canceled", func(ctx context.Context) {
		n.publish(ctx, r, events.LeaveStatusChanged, 0, actor, r.EmpID)
	})
}

// escalated runs inline in the escalation job.
func (n *Notifier) escalated(ctx context.Context, r leave.DepartmentRequest, level leave.Level, approver employee.Employee) error {
	data := n.leaveMail(r.LeaveRequest, r.EmployeeName, r.DepartmentName)
	data.RecipientName = approver.FullName()
	data.Stage = stageName(level)

	err := n.mail.SendLeaveEscalation(approver.Email, data)
	n.publish(ctx, r.LeaveRequest, events.LeaveEscalated, level, "", approver.EmpID)
	return err
}

func (n *Notifier) autoApproved(ctx context.Context, r leave.DepartmentRequest, actor string) error {
	data := n.leaveMail(r.LeaveRequest, r.EmployeeName, r.DepartmentName)
	data.RecipientName = r.EmployeeName

	err := n.mail.SendLeaveAutoApproved(r.EmployeeEmail, data)
	n.publish(ctx, r.LeaveRequest, events.LeaveAutoApproved, 0, actor, r.EmpID)
	return err
}

func stageName(level leave.Level) string {
	switch level {
	case leave.Level2:
		return "Level 2 escalation"
	case leave.Level3:
		return "Level 3 escalation"
	}
	return "Level 1"
}
