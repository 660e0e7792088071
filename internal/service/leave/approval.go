package leave

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/access"
	"github.com/dolluzcorp/dtime-backend-go/internal/domain/employee"
	"github.com/dolluzcorp/dtime-backend-go/internal/domain/leave"
)

type ApprovalServiceImpl struct {
	requests  leave.LeaveRequestRepository
	approvals leave.ApprovalRepository
	employees employee.EmployeeRepository
	checker   access.Checker
	counter   dayCounter
	notifier  *Notifier
	loc       *time.Location
	now       func() time.Time
}

var _ leave.ApprovalService = (*ApprovalServiceImpl)(nil)

func NewApprovalService(
	leaveRequestRepo leave.LeaveRequestRepository,
	approvalRepo leave.ApprovalRepository,
	employeeRepo employee.EmployeeRepository,
	checker access.Checker,
	holidays HolidayLookup,
	notifier *Notifier,
	loc *time.Location,
) *ApprovalServiceImpl {
	if loc == nil {
		loc = time.UTC
	}
	return &ApprovalServiceImpl{
		requests:  leaveRequestRepo,
		approvals: approvalRepo,
		employees: employeeRepo,
		checker:   checker,
		counter:   dayCounter{holidays: holidays},
		notifier:  notifier,
		loc:       loc,
		now:       time.Now,
	}
}

// Queue implements leave.ApprovalService. For every department where approverID
// holds a level, it lists the requests currently visible at that level.
func (s *ApprovalServiceImpl) Queue(ctx context.Context, approverID string) ([]leave.QueueItemResponse, error) {
	chains, err := s.approvals.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var visible []leave.DepartmentRequest
	levels := make(map[int64]leave.Level)
	for _, chain := range chains {
		level, ok := chain.LevelOf(approverID)
		if !ok {
			continue
		}
		requests, err := s.requests.ListByDepartment(ctx, chain.DepartmentID)
		if err != nil {
			return nil, err
		}
		for _, r := range requests {
			if at, ok := VisibleLevel(DaysPending(r.CreatedTime, now, s.loc)); ok && at == level {
				visible = append(visible, r)
				levels[r.ID] = level
			}
		}
	}

	byEmployee := make(map[string][]leave.LeaveRequest)
	for _, r := range visible {
		byEmployee[r.EmpID] = append(byEmployee[r.EmpID], r.LeaveRequest)
	}
	days := make(map[int64]float64, len(visible))
	for empID, requests := range byEmployee {
		counts, err := s.counter.count(ctx, empID, requests)
		if err != nil {
			return nil, err
		}
		for id, d := range counts {
			days[id] = d
		}
	}

	items := make([]leave.QueueItemResponse, 0, len(visible))
	for _, r := range visible {
		items = append(items, leave.QueueItemResponse{
			LeaveRequestResponse: leave.NewLeaveRequestResponse(r.LeaveRequest, days[r.ID]),
			EmployeeName:         r.EmployeeName,
			DepartmentName:       r.DepartmentName,
			DaysPending:          DaysPending(r.CreatedTime, now, s.loc),
			VisibleTo:            levels[r.ID],
		})
	}
	return items, nil
}

// canDecide reports whether actor is the approver the request is currently shown to,
// or holds the Leave Admin page.
func (s *ApprovalServiceImpl) canDecide(ctx context.Context, r leave.LeaveRequest, actor leave.Actor) (employee.Employee, error) {
	owner, err := s.employees.GetByEmpID(ctx, r.EmpID)
	if err != nil {
		return employee.Employee{}, err
	}
	if s.checker != nil && s.checker.Can(actor.Role, access.PageLeaveAdmin) {
		return owner, nil
	}
	if owner.DepartmentID == nil {
		return owner, leave.ErrNotCurrentApprover
	}

	chain, err := s.approvals.GetByDepartment(ctx, *owner.DepartmentID)
	if err != nil {
		if errors.Is(err, leave.ErrApprovalChainNotFound) {
			return owner, leave.ErrNotCurrentApprover
		}
		return owner, err
	}
	level, ok := VisibleLevel(DaysPending(r.CreatedTime, s.now(), s.loc))
	if !ok {
		return owner, leave.ErrNotCurrentApprover
	}
	if approverID, ok := chain.Approver(level); !ok || approverID != actor.EmpID {
		return owner, leave.ErrNotCurrentApprover
	}
	return owner, nil
}

// UpdateStatus implements leave.ApprovalService.
func (s *ApprovalServiceImpl) UpdateStatus(ctx context.Context, req leave.UpdateStatusRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	request, err := s.requests.GetByID(ctx, req.ID)
	if err != nil {
		return err
	}
	if request.Status != leave.StatusPending {
		return leave.ErrLeaveRequestAlreadyProcessed
	}
	owner, err := s.canDecide(ctx, request, req.Actor)
	if err != nil {
		return err
	}

	at := s.now()
	changed, err := s.requests.UpdateStatus(ctx, req.ID, req.Status, req.Actor.EmpID, req.Reason, at)
	if err != nil {
		return err
	}
	if !changed {
		return leave.ErrLeaveRequestAlreadyProcessed
	}

	request.Status = req.Status
	request.StatusUpdatedBy = &req.Actor.EmpID
	request.StatusUpdatedTime = &at
	request.StatusUpdatedReason = req.Reason
	s.notifier.StatusChanged(ctx, request, owner, req.Actor.EmpID)
	return nil
}

// ExportQueue implements leave.ApprovalService.
func (s *ApprovalServiceImpl) ExportQueue(ctx context.Context, approverID string, w io.Writer) error {
	items, err := s.Queue(ctx, approverID)
	if err != nil {
		return err
	}
	return writeQueueWorkbook(items, w)
}

// ListChains implements leave.ApprovalService.
func (s *ApprovalServiceImpl) ListChains(ctx context.Context) ([]leave.ApprovalChainResponse, error) {
	chains, err := s.approvals.List(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]leave.ApprovalChainResponse, 0, len(chains))
	for _, c := range chains {
		responses = append(responses, leave.NewApprovalChainResponse(c))
	}
	return responses, nil
}

// SetChain implements leave.ApprovalService. Every approver must be an existing employee.
func (s *ApprovalServiceImpl) SetChain(ctx context.Context, req leave.SetApprovalChainRequest) (leave.ApprovalChainResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.ApprovalChainResponse{}, err
	}

	for _, id := range []*string{req.Level1, req.Level2, req.Level3} {
		if id == nil {
			continue
		}
		if _, err := s.employees.GetByEmpID(ctx, *id); err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				return leave.ApprovalChainResponse{}, fmt.Errorf("approver %s: %w", *id, err)
			}
			return leave.ApprovalChainResponse{}, err
		}
	}

	if err := s.approvals.Upsert(ctx, req.Chain()); err != nil {
		return leave.ApprovalChainResponse{}, err
	}
	saved, err := s.approvals.GetByDepartment(ctx, req.DepartmentID)
	if err != nil {
		return leave.ApprovalChainResponse{}, err
	}
	return leave.NewApprovalChainResponse(saved), nil
}

// DeleteChain implements leave.ApprovalService.
func (s *ApprovalServiceImpl) DeleteChain(ctx context.Context, departmentID int64) error {
	return s.approvals.Delete(ctx, departmentID)
}
