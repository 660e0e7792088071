package http

import (
	"net/http"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/access"
	"github.com/dolluzcorp/dtime-backend-go/internal/domain/punch"
	"github.com/dolluzcorp/dtime-backend-go/internal/handler/http/response"
)

type PunchHandler interface {
	History(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
	PunchIn(w http.ResponseWriter, r *http.Request)
	PunchOut(w http.ResponseWriter, r *http.Request)
}

type punchHandlerImpl struct {
	punchService punch.PunchService
	checker      access.Checker
}

func NewPunchHandler(punchService punch.PunchService, checker access.Checker) PunchHandler {
	return &punchHandlerImpl{punchService: punchService, checker: checker}
}

// History returns the caller's punches. Timesheet admins may pass emp_id to read
// another employee's history.
func (h *punchHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	req := punch.HistoryRequest{EmpID: id.EmpID}
	if other := r.URL.Query().Get("emp_id"); other != "" && other != id.EmpID {
		if !h.checker.Can(id.Role, access.PageTimesheetAdmin) {
			response.HandleError(w, access.ErrPageAccessDenied)
			return
		}
		req.EmpID = other
	}
	if req.Limit, ok = intQuery(w, r, "limit", 0); !ok {
		return
	}

	records, err := h.punchService.History(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, records)
}

// Status implements PunchHandler.
func (h *punchHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	status, err := h.punchService.Status(r.Context(), id.EmpID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, status)
}

// PunchIn implements PunchHandler.
func (h *punchHandlerImpl) PunchIn(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	record, err := h.punchService.PunchIn(r.Context(), id.EmpID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Punched in", record)
}

// PunchOut implements PunchHandler.
func (h *punchHandlerImpl) PunchOut(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	record, err := h.punchService.PunchOut(r.Context(), id.EmpID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Punched out", record)
}
