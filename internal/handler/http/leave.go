package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/leave"
	"github.com/dolluzcorp/dtime-backend-go/internal/handler/http/response"
)

// multipartMemory bounds the in-memory part of a leave form. Larger attachments
// spill to temp files and are then rejected by size validation.
const multipartMemory = leave.MaxAttachmentSize + 1<<20

type LeaveHandler interface {
	ListTypes(w http.ResponseWriter, r *http.Request)
	CreateType(w http.ResponseWriter, r *http.Request)
	UpdateType(w http.ResponseWriter, r *http.Request)
	DeleteType(w http.ResponseWriter, r *http.Request)

	MyRequests(w http.ResponseWriter, r *http.Request)
	CreateRequest(w http.ResponseWriter, r *http.Request)
	UpdateRequest(w http.ResponseWriter, r *http.Request)
	CancelRequest(w http.ResponseWriter, r *http.Request)
	DeleteRequest(w http.ResponseWriter, r *http.Request)

	Balance(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	Totals(w http.ResponseWriter, r *http.Request)
	Approver(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{leaveService: leaveService}
}

// ListTypes implements LeaveHandler.
func (l *LeaveHandlerImpl) ListTypes(w http.ResponseWriter, r *http.Request) {
	types, err := l.leaveService.ListTypes(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, types)
}

// CreateType implements LeaveHandler.
func (l *LeaveHandlerImpl) CreateType(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req leave.SaveLeaveTypeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Actor = id.EmpID

	leaveType, err := l.leaveService.CreateType(r.Context(), req)
	if err != nil {
		slog.Error("CreateType service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Leave type created successfully", leaveType)
}

// UpdateType implements LeaveHandler.
func (l *LeaveHandlerImpl) UpdateType(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	typeID, ok := int64Param(w, r, "id")
	if !ok {
		return
	}

	var req leave.SaveLeaveTypeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = typeID
	req.Actor = id.EmpID

	leaveType, err := l.leaveService.UpdateType(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave type updated successfully", leaveType)
}

// DeleteType implements LeaveHandler.
func (l *LeaveHandlerImpl) DeleteType(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	typeID, ok := int64Param(w, r, "id")
	if !ok {
		return
	}

	if err := l.leaveService.DeleteType(r.Context(), typeID, id.EmpID); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave type deleted successfully", nil)
}

// MyRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) MyRequests(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	requests, err := l.leaveService.MyRequests(r.Context(), id.EmpID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, requests)
}

// parseLeaveForm decodes the multipart "data" JSON field into dst and returns the
// optional "attachment" file in input. The caller closes input.File when set.
func parseLeaveForm(w http.ResponseWriter, r *http.Request, dst any, input *leave.LeaveRequestInput) bool {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return false
	}

	dataJSON := r.FormValue("data")
	if dataJSON == "" {
		response.BadRequest(w, "Field 'data' is required", nil)
		return false
	}
	if err := json.Unmarshal([]byte(dataJSON), dst); err != nil {
		slog.Error("Failed to unmarshal JSON data", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}

	file, fileHeader, err := r.FormFile("attachment")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return false
	}
	input.File = file
	input.FileHeader = fileHeader
	return true
}

// CreateRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req leave.CreateLeaveRequestRequest
	if !parseLeaveForm(w, r, &req, &req.LeaveRequestInput) {
		return
	}
	if req.File != nil {
		defer req.File.Close()
	}
	// the owner always comes from the token
	req.EmpID = id.EmpID

	created, err := l.leaveService.CreateRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	slog.Info("Leave request submitted", "leave_requests_id", created.ID, "emp_id", id.EmpID)
	response.Created(w, "Leave request created successfully", created)
}

// UpdateRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) UpdateRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	requestID, ok := int64Param(w, r, "id")
	if !ok {
		return
	}

	var req leave.UpdateLeaveRequestRequest
	if !parseLeaveForm(w, r, &req, &req.LeaveRequestInput) {
		return
	}
	if req.File != nil {
		defer req.File.Close()
	}
	req.ID = requestID
	req.EmpID = id.EmpID

	updated, err := l.leaveService.UpdateRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave request updated successfully", updated)
}

// CancelRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) CancelRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	requestID, ok := int64Param(w, r, "id")
	if !ok {
		return
	}

	if err := l.leaveService.CancelRequest(r.Context(), requestID, leaveActor(id)); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave request canceled", nil)
}

// DeleteRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	requestID, ok := int64Param(w, r, "id")
	if !ok {
		return
	}

	if err := l.leaveService.DeleteRequest(r.Context(), requestID, leaveActor(id)); err != nil {
		response.HandleError(w, err)
		return
	}
	slog.Info("Leave request deleted", "leave_requests_id", requestID, "by", id.EmpID)
	response.SuccessWithMessage(w, "Leave request deleted successfully", nil)
}

// Balance implements LeaveHandler.
func (l *LeaveHandlerImpl) Balance(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	balances, err := l.leaveService.Balance(r.Context(), id.EmpID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, balances)
}

// History implements LeaveHandler.
func (l *LeaveHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	history, err := l.leaveService.History(r.Context(), id.EmpID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, history)
}

// Totals implements LeaveHandler.
func (l *LeaveHandlerImpl) Totals(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	totals, err := l.leaveService.Totals(r.Context(), id.EmpID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, totals)
}

// Approver implements LeaveHandler.
func (l *LeaveHandlerImpl) Approver(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	approver, err := l.leaveService.Approver(r.Context(), id.EmpID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, approver)
}
