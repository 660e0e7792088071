package leave

import (
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/validator"
)

const MaxAttachmentSize = 5 << 20

var allowedAttachmentExts = []string{".pdf", ".jpg", ".jpeg", ".png", ".doc", ".docx"}

type SaveLeaveTypeRequest struct {
	ID       int64   `json:"-"`
	Name     string  `json:"leave_type" validate:"required,max=100"`
	MaxLeave float64 `json:"max_leave" validate:"gte=0,lte=366"`
	Actor    string  `json:"-"`
}

func (r *SaveLeaveTypeRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	return validator.Struct(r).Err()
}

// LeaveRequestInput holds the fields an employee submits when creating or editing a request.
type LeaveRequestInput struct {
	LeaveTypeID    int64     `json:"leave_type_id" validate:"required"`
	StartDate      string    `json:"start_date" validate:"required"`
	StartBreakdown Breakdown `json:"start_date_breakdown"`
	EndDate        string    `json:"end_date" validate:"required"`
	EndBreakdown   Breakdown `json:"end_date_breakdown"`
	Description    *string   `json:"leave_description,omitempty" validate:"omitempty,max=1000"`

	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`

	start time.Time
	end   time.Time
}

func (r *LeaveRequestInput) validate(errs *validator.ValidationErrors) {
	if r.StartBreakdown == "" {
		r.StartBreakdown = BreakdownFull
	}
	if r.EndBreakdown == "" {
		r.EndBreakdown = BreakdownFull
	}
	if !r.StartBreakdown.Valid() {
		errs.Add("start_date_breakdown", "start_date_breakdown must be one of Full, First half, Second half")
	}
	if !r.EndBreakdown.Valid() {
		errs.Add("end_date_breakdown", "end_date_breakdown must be one of Full, First half, Second half")
	}

	start, okStart := validator.IsValidDate(r.StartDate)
	if r.StartDate != "" && !okStart {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}
	end, okEnd := validator.IsValidDate(r.EndDate)
	if r.EndDate != "" && !okEnd {
		errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
	}
	if okStart && okEnd && end.Before(start) {
		errs.Add("end_date", ErrInvalidDateRange.Error())
	}
	r.start, r.end = start, end

	if r.FileHeader != nil {
		ext := strings.ToLower(filepath.Ext(r.FileHeader.Filename))
		if !validator.IsInSlice(ext, allowedAttachmentExts) {
			errs.Add("attachment", ErrInvalidAttachment.Error())
		}
		if r.FileHeader.Size > MaxAttachmentSize {
			errs.Add("attachment", ErrAttachmentTooLarge.Error())
		}
	}
}

// Start and End are available after Validate.
func (r *LeaveRequestInput) Start() time.Time { return r.start }
func (r *LeaveRequestInput) End() time.Time   { return r.end }

func (r *LeaveRequestInput) HasFile() bool {
	return r.File != nil && r.FileHeader != nil
}

type CreateLeaveRequestRequest struct {
	EmpID string `json:"-"`
	LeaveRequestInput
}

func (r *CreateLeaveRequestRequest) Validate() error {
	errs := validator.Struct(r)
	if validator.IsEmpty(r.EmpID) {
		errs.Add("emp_id", "emp_id is required")
	}
	r.validate(&errs)
	return errs.Err()
}

type UpdateLeaveRequestRequest struct {
	ID               int64  `json:"-"`
	EmpID            string `json:"-"`
	RemoveAttachment bool   `json:"remove_attachment"`
	LeaveRequestInput
}

func (r *UpdateLeaveRequestRequest) Validate() error {
	errs := validator.Struct(r)
	if r.ID <= 0 {
		errs.Add("leave_requests_id", "leave_requests_id is required")
	}
	if validator.IsEmpty(r.EmpID) {
		errs.Add("emp_id", "emp_id is required")
	}
	r.validate(&errs)
	return errs.Err()
}

type UpdateStatusRequest struct {
	ID     int64   `json:"-"`
	Status Status  `json:"status" validate:"required,oneof=Approved Rejected"`
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=500"`
	Actor  Actor   `json:"-"`
}

func (r *UpdateStatusRequest) Validate() error {
	errs := validator.Struct(r)
	if r.ID <= 0 {
		errs.Add("leave_requests_id", "leave_requests_id is required")
	}
	if r.Status == StatusRejected && (r.Reason == nil || validator.IsEmpty(*r.Reason)) {
		errs.Add("reason", "reason is required when rejecting a request")
	}
	return errs.Err()
}

type SetApprovalChainRequest struct {
	DepartmentID int64   `json:"-"`
	Level1       *string `json:"level_1,omitempty"`
	Level2       *string `json:"level_2,omitempty"`
	Level3       *string `json:"level_3,omitempty"`
	Actor        string  `json:"-"`
}

func (r *SetApprovalChainRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.DepartmentID <= 0 {
		errs.Add("department_id", "department_id is required")
	}

	levels := []struct {
		field string
		id    **string
	}{
		{"level_1", &r.Level1},
		{"level_2", &r.Level2},
		{"level_3", &r.Level3},
	}
	seen := map[string]string{}
	for _, l := range levels {
		if *l.id == nil {
			continue
		}
		v := strings.TrimSpace(**l.id)
		if v == "" {
			*l.id = nil
			continue
		}
		**l.id = v
		if other, dup := seen[v]; dup {
			errs.Add(l.field, l.field+" duplicates "+other)
			continue
		}
		seen[v] = l.field
	}
	return errs.Err()
}

func (r *SetApprovalChainRequest) Chain() ApprovalChain {
	actor := r.Actor
	return ApprovalChain{
		DepartmentID: r.DepartmentID,
		Level1:       r.Level1,
		Level2:       r.Level2,
		Level3:       r.Level3,
		UpdatedBy:    &actor,
	}
}

type LeaveTypeResponse struct {
	ID       int64   `json:"leave_type_id"`
	Name     string  `json:"leave_type"`
	MaxLeave float64 `json:"max_leave"`
}

func NewLeaveTypeResponse(t LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{ID: t.ID, Name: t.Name, MaxLeave: t.MaxLeave}
}

type LeaveRequestResponse struct {
	ID                  int64      `json:"leave_requests_id"`
	EmpID               string     `json:"emp_id"`
	LeaveTypeID         int64      `json:"leave_type_id"`
	LeaveType           string     `json:"leave_type"`
	StartDate           string     `json:"start_date"`
	StartBreakdown      Breakdown  `json:"start_date_breakdown"`
	EndDate             string     `json:"end_date"`
	EndBreakdown        Breakdown  `json:"end_date_breakdown"`
	Description         *string    `json:"leave_description,omitempty"`
	Attachment          *string    `json:"attachment,omitempty"`
	AttachmentURL       *string    `json:"attachment_url,omitempty"`
	Status              Status     `json:"leave_status"`
	RequestedDays       float64    `json:"requested_days"`
	CreatedTime         time.Time  `json:"created_time"`
	UpdatedTime         *time.Time `json:"updated_time,omitempty"`
	CanceledBy          *string    `json:"canceled_by,omitempty"`
	CanceledTime        *time.Time `json:"canceled_time,omitempty"`
	StatusUpdatedBy     *string    `json:"status_updated_by,omitempty"`
	StatusUpdatedTime   *time.Time `json:"status_updated_time,omitempty"`
	StatusUpdatedReason *string    `json:"status_updated_reason,omitempty"`
}

func NewLeaveRequestResponse(r LeaveRequest, requestedDays float64) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:                  r.ID,
		EmpID:               r.EmpID,
		LeaveTypeID:         r.LeaveTypeID,
		LeaveType:           r.LeaveTypeName,
		StartDate:           r.StartDate.Format(validator.DateLayout),
		StartBreakdown:      r.StartBreakdown,
		EndDate:             r.EndDate.Format(validator.DateLayout),
		EndBreakdown:        r.EndBreakdown,
		Description:         r.Description,
		Attachment:          r.Attachment,
		Status:              r.Status,
		RequestedDays:       requestedDays,
		CreatedTime:         r.CreatedTime,
		UpdatedTime:         r.UpdatedTime,
		CanceledBy:          r.CanceledBy,
		CanceledTime:        r.CanceledTime,
		StatusUpdatedBy:     r.StatusUpdatedBy,
		StatusUpdatedTime:   r.StatusUpdatedTime,
		StatusUpdatedReason: r.StatusUpdatedReason,
	}
}

type BalanceResponse struct {
	LeaveTypeID  int64   `json:"leave_type_id"`
	LeaveType    string  `json:"leave_type"`
	MaxLeave     float64 `json:"max_leave"`
	UsedLeave    float64 `json:"used_leave"`
	BalanceLeave float64 `json:"balance_leave"`
}

type HistoryResponse struct {
	ID                  int64     `json:"leave_requests_id"`
	LeaveType           string    `json:"leave_type"`
	StartDate           string    `json:"start_date"`
	EndDate             string    `json:"end_date"`
	Status              Status    `json:"leave_status"`
	RequestedDays       float64   `json:"requested_days"`
	CreatedTime         time.Time `json:"created_time"`
	StatusUpdatedReason *string   `json:"status_updated_reason,omitempty"`
}

type TotalResponse struct {
	ID          int64  `json:"leave_requests_id"`
	LeaveType   string `json:"leave_type"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Status      Status `json:"leave_status"`
	RequestDays int    `json:"request_days"`
}

type ApproverResponse struct {
	ApproverID   *string `json:"approver_id,omitempty"`
	ApproverName string  `json:"approver_name"`
	Level        int     `json:"level,omitempty"`
}

type QueueItemResponse struct {
	LeaveRequestResponse
	EmployeeName   string  `json:"emp_name"`
	DepartmentName *string `json:"department_name,omitempty"`
	DaysPending    int     `json:"days_passed"`
	VisibleTo      Level   `json:"visible_level"`
}

type ApprovalChainResponse struct {
	DepartmentID   int64   `json:"department_id"`
	DepartmentName string  `json:"department_name"`
	Level1         *string `json:"level_1"`
	Level2         *string `json:"level_2"`
	Level3         *string `json:"level_3"`
}

func NewApprovalChainResponse(c ApprovalChain) ApprovalChainResponse {
	return ApprovalChainResponse{
		DepartmentID:   c.DepartmentID,
		DepartmentName: c.DepartmentName,
		Level1:         c.Level1,
		Level2:         c.Level2,
		Level3:         c.Level3,
	}
}
