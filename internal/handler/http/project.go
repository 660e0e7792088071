package http

import (
	"net/http"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/project"
	"github.com/dolluzcorp/dtime-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ProjectHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)

	ListTasks(w http.ResponseWriter, r *http.Request)
	CreateTask(w http.ResponseWriter, r *http.Request)
	UpdateTask(w http.ResponseWriter, r *http.Request)
	DeleteTask(w http.ResponseWriter, r *http.Request)
}

type projectHandlerImpl struct {
	projectService project.ProjectService
}

func NewProjectHandler(projectService project.ProjectService) ProjectHandler {
	return &projectHandlerImpl{projectService: projectService}
}

// List implements ProjectHandler.
func (h *projectHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, projects)
}

// Create implements ProjectHandler.
func (h *projectHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req project.SaveProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Actor = id.EmpID

	created, err := h.projectService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Project created successfully", created)
}

// Update implements ProjectHandler.
func (h *projectHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req project.SaveProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ProjectID = chi.URLParam(r, "project_id")
	req.Actor = id.EmpID

	updated, err := h.projectService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Project updated successfully", updated)
}

// Delete implements ProjectHandler.
func (h *projectHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	if err := h.projectService.Delete(r.Context(), chi.URLParam(r, "project_id"), id.EmpID); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Project deleted successfully", nil)
}

// ListTasks implements ProjectHandler.
func (h *projectHandlerImpl) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.projectService.ListTasks(r.Context(), chi.URLParam(r, "project_id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, tasks)
}

// CreateTask implements ProjectHandler.
func (h *projectHandlerImpl) CreateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req project.SaveTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ProjectID = chi.URLParam(r, "project_id")
	req.Actor = id.EmpID

	task, err := h.projectService.CreateTask(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Task created successfully", task)
}

// UpdateTask implements ProjectHandler.
func (h *projectHandlerImpl) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	taskID, ok := int64Param(w, r, "task_id")
	if !ok {
		return
	}

	var req project.SaveTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = taskID
	req.ProjectID = chi.URLParam(r, "project_id")
	req.Actor = id.EmpID

	task, err := h.projectService.UpdateTask(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Task updated successfully", task)
}

// DeleteTask implements ProjectHandler.
func (h *projectHandlerImpl) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	taskID, ok := int64Param(w, r, "task_id")
	if !ok {
		return
	}

	if err := h.projectService.DeleteTask(r.Context(), taskID, id.EmpID); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Task deleted successfully", nil)
}
