package http

import (
	"log/slog"
	"net/http"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/access"
	"github.com/dolluzcorp/dtime-backend-go/internal/domain/employee"
	"github.com/dolluzcorp/dtime-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type EmployeeHandler interface {
	ListEmployees(w http.ResponseWriter, r *http.Request)
	GetEmployee(w http.ResponseWriter, r *http.Request)
	CreateEmployee(w http.ResponseWriter, r *http.Request)
	UpdateEmployee(w http.ResponseWriter, r *http.Request)
	DeleteEmployee(w http.ResponseWriter, r *http.Request)
	SetActive(w http.ResponseWriter, r *http.Request)

	ListDepartments(w http.ResponseWriter, r *http.Request)
	CreateDepartment(w http.ResponseWriter, r *http.Request)
	UpdateDepartment(w http.ResponseWriter, r *http.Request)
	DeleteDepartment(w http.ResponseWriter, r *http.Request)

	ListAccessLevels(w http.ResponseWriter, r *http.Request)
	UpdateAccessLevel(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
	accessService   access.AccessService
}

func NewEmployeeHandler(employeeService employee.EmployeeService, accessService access.AccessService) EmployeeHandler {
	return &employeeHandlerImpl{
		employeeService: employeeService,
		accessService:   accessService,
	}
}

// ListEmployees implements EmployeeHandler.
func (h *employeeHandlerImpl) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.employeeService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, employees)
}

// GetEmployee implements EmployeeHandler.
func (h *employeeHandlerImpl) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.employeeService.Get(r.Context(), chi.URLParam(r, "emp_id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, emp)
}

// CreateEmployee implements EmployeeHandler.
func (h *employeeHandlerImpl) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req employee.CreateEmployeeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.CreatedBy = id.EmpID

	created, err := h.employeeService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	slog.Info("Employee created", "emp_id", created.EmpID, "by", id.EmpID)
	response.Created(w, "Employee created successfully", created)
}

// UpdateEmployee implements EmployeeHandler.
func (h *employeeHandlerImpl) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req employee.UpdateEmployeeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.EmpID = chi.URLParam(r, "emp_id")
	req.UpdatedBy = id.EmpID

	updated, err := h.employeeService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Employee updated successfully", updated)
}

// DeleteEmployee implements EmployeeHandler.
func (h *employeeHandlerImpl) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	empID := chi.URLParam(r, "emp_id")
	if err := h.employeeService.Delete(r.Context(), empID, id.EmpID); err != nil {
		response.HandleError(w, err)
		return
	}
	slog.Info("Employee deleted", "emp_id", empID, "by", id.EmpID)
	response.SuccessWithMessage(w, "Employee deleted successfully", nil)
}

// SetActive implements EmployeeHandler.
func (h *employeeHandlerImpl) SetActive(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req employee.SetActiveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.EmpID = chi.URLParam(r, "emp_id")
	req.UpdatedBy = id.EmpID

	if err := h.employeeService.SetActive(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Employee status updated", nil)
}

// ListDepartments implements EmployeeHandler.
func (h *employeeHandlerImpl) ListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.employeeService.ListDepartments(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, departments)
}

// CreateDepartment implements EmployeeHandler.
func (h *employeeHandlerImpl) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req employee.DepartmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.CreatedBy = id.EmpID

	dept, err := h.employeeService.CreateDepartment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Department created successfully", dept)
}

// UpdateDepartment implements EmployeeHandler.
func (h *employeeHandlerImpl) UpdateDepartment(w http.ResponseWriter, r *http.Request) {
	deptID, ok := int64Param(w, r, "id")
	if !ok {
		return
	}

	var req employee.DepartmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = deptID

	dept, err := h.employeeService.UpdateDepartment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Department updated successfully", dept)
}

// DeleteDepartment implements EmployeeHandler.
func (h *employeeHandlerImpl) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	deptID, ok := int64Param(w, r, "id")
	if !ok {
		return
	}

	if err := h.employeeService.DeleteDepartment(r.Context(), deptID); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Department deleted successfully", nil)
}

// ListAccessLevels implements EmployeeHandler.
func (h *employeeHandlerImpl) ListAccessLevels(w http.ResponseWriter, r *http.Request) {
	levels, err := h.accessService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, levels)
}

// UpdateAccessLevel implements EmployeeHandler.
func (h *employeeHandlerImpl) UpdateAccessLevel(w http.ResponseWriter, r *http.Request) {
	levelID, ok := int64Param(w, r, "id")
	if !ok {
		return
	}

	var req access.UpdateAccessLevelRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = levelID
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	level, err := h.accessService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Access level updated successfully", level)
}
