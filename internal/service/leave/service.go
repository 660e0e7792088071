package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/employee"
	"github.com/dolluzcorp/dtime-backend-go/internal/domain/leave"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/database"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/validator"
	"github.com/dolluzcorp/dtime-backend-go/internal/service/file"
)

const adminApproverName = "Admin"

type LeaveServiceImpl struct {
	db        database.Transactor
	types     leave.LeaveTypeRepository
	requests  leave.LeaveRequestRepository
	approvals leave.ApprovalRepository
	employees employee.EmployeeRepository
	files     file.FileService
	counter   dayCounter
	notifier  *Notifier
	now       func() time.Time
}

var _ leave.LeaveService = (*LeaveServiceImpl)(nil)

func NewLeaveService(
	db database.Transactor,
	leaveTypeRepo leave.LeaveTypeRepository,
	leaveRequestRepo leave.LeaveRequestRepository,
	approvalRepo leave.ApprovalRepository,
	employeeRepo employee.EmployeeRepository,
	holidays HolidayLookup,
	fileService file.FileService,
	notifier *Notifier,
) *LeaveServiceImpl {
	return &LeaveServiceImpl{
		db:        db,
		types:     leaveTypeRepo,
		requests:  leaveRequestRepo,
		approvals: approvalRepo,
		employees: employeeRepo,
		files:     fileService,
		counter:   dayCounter{holidays: holidays},
		notifier:  notifier,
		now:       time.Now,
	}
}

// ListTypes implements leave.LeaveService.
func (s *LeaveServiceImpl) ListTypes(ctx context.Context) ([]leave.LeaveTypeResponse, error) {
	types, err := s.types.List(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]leave.LeaveTypeResponse, 0, len(types))
	for _, t := range types {
		responses = append(responses, leave.NewLeaveTypeResponse(t))
	}
	return responses, nil
}

// CreateType implements leave.LeaveService.
func (s *LeaveServiceImpl) CreateType(ctx context.Context, req leave.SaveLeaveTypeRequest) (leave.LeaveTypeResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveTypeResponse{}, err
	}
	created, err := s.types.Create(ctx, leave.LeaveType{Name: req.Name, MaxLeave: req.MaxLeave, CreatedBy: &req.Actor})
	if err != nil {
		return leave.LeaveTypeResponse{}, fmt.Errorf("failed to create leave type: %w", err)
	}
	return leave.NewLeaveTypeResponse(created), nil
}

// UpdateType implements leave.LeaveService.
func (s *LeaveServiceImpl) UpdateType(ctx context.Context, req leave.SaveLeaveTypeRequest) (leave.LeaveTypeResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveTypeResponse{}, err
	}
	existing, err := s.types.GetByID(ctx, req.ID)
	if err != nil {
		return leave.LeaveTypeResponse{}, err
	}
	existing.Name = req.Name
	existing.MaxLeave = req.MaxLeave
	if err := s.types.Update(ctx, existing); err != nil {
		return leave.LeaveTypeResponse{}, err
	}
	return leave.NewLeaveTypeResponse(existing), nil
}

// DeleteType implements leave.LeaveService.
func (s *LeaveServiceImpl) DeleteType(ctx context.Context, id int64, actor string) error {
	return s.types.SoftDelete(ctx, id, actor)
}

func (s *LeaveServiceImpl) toResponse(r leave.LeaveRequest, days float64) leave.LeaveRequestResponse {
	resp := leave.NewLeaveRequestResponse(r, days)
	if r.Attachment != nil && *r.Attachment != "" {
		url := s.files.FileURL(*r.Attachment)
		resp.AttachmentURL = &url
	}
	return resp
}

// MyRequests implements leave.LeaveService.
func (s *LeaveServiceImpl) MyRequests(ctx context.Context, empID string) ([]leave.LeaveRequestResponse, error) {
	requests, err := s.requests.ListByEmployee(ctx, empID)
	if err != nil {
		return nil, err
	}
	counts, err := s.counter.count(ctx, empID, requests)
	if err != nil {
		return nil, err
	}

	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, s.toResponse(r, counts[r.ID]))
	}
	return responses, nil
}

// usedDays sums the requested days of the employee's non-canceled requests of one
// type, leaving out excludeID.
func (s *LeaveServiceImpl) usedDays(ctx context.Context, empID string, leaveTypeID int64, excludeID int64) (float64, error) {
	requests, err := s.requests.ListCounted(ctx, empID)
	if err != nil {
		return 0, err
	}

	var counted []leave.LeaveRequest
	for _, r := range requests {
		if r.LeaveTypeID == leaveTypeID && r.ID != excludeID {
			counted = append(counted, r)
		}
	}
	counts, err := s.counter.count(ctx, empID, counted)
	if err != nil {
		return 0, err
	}

	var used float64
	for _, days := range counts {
		used += days
	}
	return used, nil
}

// checkBalance must run inside the transaction that writes r.
func (s *LeaveServiceImpl) checkBalance(ctx context.Context, r leave.LeaveRequest, lt leave.LeaveType) error {
	if err := s.requests.LockBalance(ctx, r.EmpID, r.LeaveTypeID); err != nil {
		return fmt.Errorf("failed to lock leave balance: %w", err)
	}

	requested, err := s.counter.one(ctx, r)
	if err != nil {
		return err
	}
	if requested <= 0 {
		return leave.ErrNoWorkingDays
	}

	used, err := s.usedDays(ctx, r.EmpID, r.LeaveTypeID, r.ID)
	if err != nil {
		return err
	}
	if requested > lt.MaxLeave-used {
		return leave.ErrInsufficientBalance
	}
	return nil
}

func (s *LeaveServiceImpl) chainFor(ctx context.Context, emp employee.Employee) *leave.ApprovalChain {
	if emp.DepartmentID == nil {
		return nil
	}
	chain, err := s.approvals.GetByDepartment(ctx, *emp.DepartmentID)
	if err != nil {
		if !errors.Is(err, leave.ErrApprovalChainNotFound) {
			slog.Error("Failed to load approval chain", "department_id", *emp.DepartmentID, "error", err)
		}
		return nil
	}
	return &chain
}

func (s *LeaveServiceImpl) uploadAttachment(ctx context.Context, empID string, in *leave.LeaveRequestInput) (*string, error) {
	if !in.HasFile() {
		return nil, nil
	}
	path, err := s.files.UploadLeaveAttachment(ctx, empID, in.File, in.FileHeader.Filename)
	if err != nil {
		return nil, err
	}
	return &path, nil
}

// discardFile removes a file that is no longer referenced. Failures are only logged.
func (s *LeaveServiceImpl) discardFile(ctx context.Context, path *string) {
	if path == nil || *path == "" {
		return
	}
	if err := s.files.DeleteFile(ctx, *path); err != nil {
		slog.Error("Failed to delete leave attachment", "path", *path, "error", err)
	}
}

// CreateRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) CreateRequest(ctx context.Context, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	emp, err := s.employees.GetByEmpID(ctx, req.EmpID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	leaveType, err := s.types.GetByID(ctx, req.LeaveTypeID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	attachment, err := s.uploadAttachment(ctx, req.EmpID, &req.LeaveRequestInput)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	request := leave.LeaveRequest{
		EmpID:          req.EmpID,
		LeaveTypeID:    leaveType.ID,
		LeaveTypeName:  leaveType.Name,
		StartDate:      req.Start(),
		StartBreakdown: req.StartBreakdown,
		EndDate:        req.End(),
		EndBreakdown:   req.EndBreakdown,
		Description:    req.Description,
		Attachment:     attachment,
		Status:         leave.StatusPending,
		CreatedBy:      req.EmpID,
		CreatedTime:    s.now(),
	}

	var created leave.LeaveRequest
	err = s.db.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkBalance(ctx, request, leaveType); err != nil {
			return err
		}
		created, err = s.requests.Create(ctx, request)
		if err != nil {
			return fmt.Errorf("failed to create leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		s.discardFile(ctx, attachment)
		return leave.LeaveRequestResponse{}, err
	}

	days, err := s.counter.one(ctx, created)
	if err != nil {
		slog.Warn("Failed to count requested days", "leave_requests_id", created.ID, "error", err)
	}
	s.notifier.RequestSubmitted(ctx, created, emp, s.chainFor(ctx, emp))

	return s.toResponse(created, days), nil
}

// UpdateRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) UpdateRequest(ctx context.Context, req leave.UpdateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	existing, err := s.requests.GetByID(ctx, req.ID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if existing.EmpID != req.EmpID {
		return leave.LeaveRequestResponse{}, leave.ErrNotRequestOwner
	}
	leaveType, err := s.types.GetByID(ctx, req.LeaveTypeID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	uploaded, err := s.uploadAttachment(ctx, req.EmpID, &req.LeaveRequestInput)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	updated := existing
	updated.LeaveTypeID = leaveType.ID
	updated.LeaveTypeName = leaveType.Name
	updated.StartDate = req.Start()
	updated.StartBreakdown = req.StartBreakdown
	updated.EndDate = req.End()
	updated.EndBreakdown = req.EndBreakdown
	updated.Description = req.Description
	updated.Status = leave.StatusPending
	updated.UpdatedBy = &req.EmpID
	now := s.now()
	updated.UpdatedTime = &now

	var obsolete *string
	switch {
	case uploaded != nil:
		updated.Attachment = uploaded
		obsolete = existing.Attachment
	case req.RemoveAttachment:
		updated.Attachment = nil
		obsolete = existing.Attachment
	}

	err = s.db.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkBalance(ctx, updated, leaveType); err != nil {
			return err
		}
		return s.requests.Update(ctx, updated)
	})
	if err != nil {
		s.discardFile(ctx, uploaded)
		return leave.LeaveRequestResponse{}, err
	}
	s.discardFile(ctx, obsolete)

	saved, err := s.requests.GetByID(ctx, updated.ID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	days, err := s.counter.one(ctx, saved)
	if err != nil {
		slog.Warn("Failed to count requested days", "leave_requests_id", saved.ID, "error", err)
	}

	if emp, err := s.employees.GetByEmpID(ctx, saved.EmpID); err == nil {
		s.notifier.RequestUpdated(ctx, saved, s.chainFor(ctx, emp))
	}
	return s.toResponse(saved, days), nil
}

// CancelRequest implements leave.LeaveService. Only the owner may cancel and only
// while the request is pending; the row is kept.
func (s *LeaveServiceImpl) CancelRequest(ctx context.Context, id int64, actor leave.Actor) error {
	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if request.EmpID != actor.EmpID {
		return leave.ErrNotRequestOwner
	}

	changed, err := s.requests.Cancel(ctx, id, actor.EmpID, s.now())
	if err != nil {
		return err
	}
	if !changed {
		return leave.ErrLeaveRequestAlreadyProcessed
	}

	request.Status = leave.StatusCanceled
	s.notifier.RequestCanceled(ctx, request, actor.EmpID)
	return nil
}

// DeleteRequest implements leave.LeaveService. The row goes first; a failure to
// remove the attachment afterwards is logged.
func (s *LeaveServiceImpl) DeleteRequest(ctx context.Context, id int64, actor leave.Actor) error {
	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if request.EmpID != actor.EmpID && !actor.IsAdmin() {
		return leave.ErrNotRequestOwner
	}

	if err := s.requests.Delete(ctx, id); err != nil {
		return err
	}
	s.discardFile(ctx, request.Attachment)
	return nil
}

// Balance implements leave.LeaveService.
func (s *LeaveServiceImpl) Balance(ctx context.Context, empID string) ([]leave.BalanceResponse, error) {
	types, err := s.types.List(ctx)
	if err != nil {
		return nil, err
	}
	requests, err := s.requests.ListCounted(ctx, empID)
	if err != nil {
		return nil, err
	}
	counts, err := s.counter.count(ctx, empID, requests)
	if err != nil {
		return nil, err
	}

	used := make(map[int64]float64, len(types))
	for _, r := range requests {
		used[r.LeaveTypeID] += counts[r.ID]
	}

	balances := make([]leave.BalanceResponse, 0, len(types))
	for _, t := range types {
		balances = append(balances, leave.BalanceResponse{
			LeaveTypeID:  t.ID,
			LeaveType:    t.Name,
			MaxLeave:     t.MaxLeave,
			UsedLeave:    used[t.ID],
			BalanceLeave: t.MaxLeave - used[t.ID],
		})
	}
	return balances, nil
}

// History implements leave.LeaveService.
func (s *LeaveServiceImpl) History(ctx context.Context, empID string) ([]leave.HistoryResponse, error) {
	requests, err := s.requests.ListByEmployee(ctx, empID)
	if err != nil {
		return nil, err
	}
	counts, err := s.counter.count(ctx, empID, requests)
	if err != nil {
		return nil, err
	}

	history := make([]leave.HistoryResponse, 0, len(requests))
	for _, r := range requests {
		history = append(history, leave.HistoryResponse{
			ID:                  r.ID,
			LeaveType:           r.LeaveTypeName,
			StartDate:           r.StartDate.Format(validator.DateLayout),
			EndDate:             r.EndDate.Format(validator.DateLayout),
			Status:              r.Status,
			RequestedDays:       counts[r.ID],
			CreatedTime:         r.CreatedTime,
			StatusUpdatedReason: r.StatusUpdatedReason,
		})
	}
	return history, nil
}

// Totals implements leave.LeaveService. Rows are ordered by start date, newest first.
func (s *LeaveServiceImpl) Totals(ctx context.Context, empID string) ([]leave.TotalResponse, error) {
	requests, err := s.requests.ListByEmployee(ctx, empID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].StartDate.After(requests[j].StartDate)
	})

	totals := make([]leave.TotalResponse, 0, len(requests))
	for _, r := range requests {
		totals = append(totals, leave.TotalResponse{
			ID:          r.ID,
			LeaveType:   r.LeaveTypeName,
			StartDate:   r.StartDate.Format(validator.DateLayout),
			EndDate:     r.EndDate.Format(validator.DateLayout),
			Status:      r.Status,
			RequestDays: CalendarDays(r.StartDate, r.EndDate),
		})
	}
	return totals, nil
}

// Approver implements leave.LeaveService. Without a configured chain the request
// goes to the admin.
func (s *LeaveServiceImpl) Approver(ctx context.Context, empID string) (leave.ApproverResponse, error) {
	emp, err := s.employees.GetByEmpID(ctx, empID)
	if err != nil {
		return leave.ApproverResponse{}, err
	}

	chain := s.chainFor(ctx, emp)
	if chain == nil {
		return leave.ApproverResponse{ApproverName: adminApproverName}, nil
	}
	approverID, level, ok := chain.FirstApprover()
	if !ok {
		return leave.ApproverResponse{ApproverName: adminApproverName}, nil
	}

	approver, err := s.employees.GetByEmpID(ctx, approverID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return leave.ApproverResponse{ApproverName: adminApproverName}, nil
		}
		return leave.ApproverResponse{}, err
	}
	return leave.ApproverResponse{ApproverID: &approverID, ApproverName: approver.FullName(), Level: int(level)}, nil
}
