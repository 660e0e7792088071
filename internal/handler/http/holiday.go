package http

import (
	"net/http"
	"time"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/holiday"
	"github.com/dolluzcorp/dtime-backend-go/internal/handler/http/response"
)

type HolidayHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Calendar(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type holidayHandlerImpl struct {
	holidayService holiday.HolidayService
	loc            *time.Location
	now            func() time.Time
}

func NewHolidayHandler(holidayService holiday.HolidayService, loc *time.Location) HolidayHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &holidayHandlerImpl{holidayService: holidayService, loc: loc, now: time.Now}
}

// monthQuery reads month, year and emp_id, defaulting to the current month.
func (h *holidayHandlerImpl) monthQuery(w http.ResponseWriter, r *http.Request) (holiday.ListHolidaysRequest, bool) {
	today := h.now().In(h.loc)
	req := holiday.ListHolidaysRequest{EmpID: r.URL.Query().Get("emp_id")}

	var ok bool
	if req.Month, ok = intQuery(w, r, "month", int(today.Month())); !ok {
		return req, false
	}
	if req.Year, ok = intQuery(w, r, "year", today.Year()); !ok {
		return req, false
	}
	return req, true
}

// List implements HolidayHandler.
func (h *holidayHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	req, ok := h.monthQuery(w, r)
	if !ok {
		return
	}

	holidays, err := h.holidayService.List(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, holidays)
}

// Calendar implements HolidayHandler.
func (h *holidayHandlerImpl) Calendar(w http.ResponseWriter, r *http.Request) {
	req, ok := h.monthQuery(w, r)
	if !ok {
		return
	}

	days, err := h.holidayService.Calendar(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, days)
}

// Create implements HolidayHandler.
func (h *holidayHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req holiday.SaveHolidayRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Actor = id.EmpID

	created, err := h.holidayService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Holiday created successfully", created)
}

// Update implements HolidayHandler.
func (h *holidayHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	holidayID, ok := int64Param(w, r, "id")
	if !ok {
		return
	}

	var req holiday.SaveHolidayRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = holidayID
	req.Actor = id.EmpID

	updated, err := h.holidayService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Holiday updated successfully", updated)
}

// Delete implements HolidayHandler.
func (h *holidayHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	holidayID, ok := int64Param(w, r, "id")
	if !ok {
		return
	}

	if err := h.holidayService.Delete(r.Context(), holidayID); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Holiday deleted successfully", nil)
}
