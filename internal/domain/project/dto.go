package project

import (
	"strings"
	"time"

	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/validator"
)

type SaveProjectRequest struct {
	ProjectID string `json:"-"`
	Name      string `json:"project_name" validate:"required,max=150"`
	Actor     string `json:"-"`
}

func (r *SaveProjectRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	return validator.Struct(r).Err()
}

type SaveTaskRequest struct {
	ID          int64  `json:"-"`
	ProjectID   string `json:"project_id" validate:"required"`
	Description string `json:"task_description" validate:"required,max=500"`
	Actor       string `json:"-"`
}

func (r *SaveTaskRequest) Validate() error {
	r.Description = strings.TrimSpace(r.Description)
	r.ProjectID = strings.TrimSpace(r.ProjectID)
	return validator.Struct(r).Err()
}

type ProjectResponse struct {
	AutoID      int64      `json:"auto_id"`
	ProjectID   string     `json:"project_id"`
	Name        string     `json:"project_name"`
	CreatedBy   string     `json:"created_by"`
	CreatedTime time.Time  `json:"created_time"`
	UpdatedBy   *string    `json:"updated_by,omitempty"`
	UpdatedTime *time.Time `json:"updated_time,omitempty"`
}

func NewProjectResponse(p Project) ProjectResponse {
	return ProjectResponse{
		AutoID:      p.AutoID,
		ProjectID:   p.ProjectID,
		Name:        p.Name,
		CreatedBy:   p.CreatedBy,
		CreatedTime: p.CreatedTime,
		UpdatedBy:   p.UpdatedBy,
		UpdatedTime: p.UpdatedTime,
	}
}

type TaskResponse struct {
	AutoID      int64      `json:"auto_id"`
	ProjectID   string     `json:"project_id"`
	Description string     `json:"task_description"`
	CreatedBy   string     `json:"created_by"`
	CreatedTime time.Time  `json:"created_time"`
	UpdatedBy   *string    `json:"updated_by,omitempty"`
	UpdatedTime *time.Time `json:"updated_time,omitempty"`
}

func NewTaskResponse(t Task) TaskResponse {
	return TaskResponse{
		AutoID:      t.AutoID,
		ProjectID:   t.ProjectID,
		Description: t.Description,
		CreatedBy:   t.CreatedBy,
		CreatedTime: t.CreatedTime,
		UpdatedBy:   t.UpdatedBy,
		UpdatedTime: t.UpdatedTime,
	}
}
