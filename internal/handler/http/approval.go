package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/leave"
	"github.com/dolluzcorp/dtime-backend-go/internal/handler/http/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ApprovalHandler interface {
	Queue(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)

	ListChains(w http.ResponseWriter, r *http.Request)
	SetChain(w http.ResponseWriter, r *http.Request)
	DeleteChain(w http.ResponseWriter, r *http.Request)
}

type approvalHandlerImpl struct {
	approvalService leave.ApprovalService
	now             func() time.Time
}

func NewApprovalHandler(approvalService leave.ApprovalService) ApprovalHandler {
	return &approvalHandlerImpl{approvalService: approvalService, now: time.Now}
}

// Queue implements ApprovalHandler.
func (h *approvalHandlerImpl) Queue(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	items, err := h.approvalService.Queue(r.Context(), id.EmpID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, items)
}

// UpdateStatus implements ApprovalHandler.
func (h *approvalHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	requestID, ok := int64Param(w, r, "id")
	if !ok {
		return
	}

	var req leave.UpdateStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = requestID
	req.Actor = leaveActor(id)

	if err := h.approvalService.UpdateStatus(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}
	slog.Info("Leave request status updated", "leave_requests_id", requestID, "status", req.Status, "by", id.EmpID)
	response.SuccessWithMessage(w, fmt.Sprintf("Leave request %s", req.Status), nil)
}

// Export streams the caller's queue as an xlsx workbook. The workbook is built in
// memory first so a failure still produces a JSON error.
func (h *approvalHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.approvalService.ExportQueue(r.Context(), id.EmpID, &buf); err != nil {
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("leave_approvals_%s.xlsx", h.now().Format("20060102"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write approval export", "error", err)
	}
}

// ListChains implements ApprovalHandler.
func (h *approvalHandlerImpl) ListChains(w http.ResponseWriter, r *http.Request) {
	chains, err := h.approvalService.ListChains(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, chains)
}

// SetChain implements ApprovalHandler.
func (h *approvalHandlerImpl) SetChain(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	departmentID, ok := int64Param(w, r, "department_id")
	if !ok {
		return
	}

	var req leave.SetApprovalChainRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.DepartmentID = departmentID
	req.Actor = id.EmpID

	chain, err := h.approvalService.SetChain(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Approval chain saved", chain)
}

// DeleteChain implements ApprovalHandler.
func (h *approvalHandlerImpl) DeleteChain(w http.ResponseWriter, r *http.Request) {
	departmentID, ok := int64Param(w, r, "department_id")
	if !ok {
		return
	}

	if err := h.approvalService.DeleteChain(r.Context(), departmentID); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Approval chain deleted", nil)
}
