package project

import (
	"context"
	"fmt"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/project"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/database"
)

type ProjectServiceImpl struct {
	db       database.Transactor
	projects project.ProjectRepository
	tasks    project.TaskRepository
}

var _ project.ProjectService = (*ProjectServiceImpl)(nil)

func NewProjectService(db database.Transactor, projectRepo project.ProjectRepository, taskRepo project.TaskRepository) *ProjectServiceImpl {
	return &ProjectServiceImpl{db: db, projects: projectRepo, tasks: taskRepo}
}

func (s *ProjectServiceImpl) get(ctx context.Context, projectID string) (project.Project, error) {
	p, err := s.projects.GetByProjectID(ctx, projectID)
	if err != nil {
		return project.Project{}, err
	}
	if p.DeletedTime != nil {
		return project.Project{}, project.ErrProjectNotFound
	}
	return p, nil
}

// List implements project.ProjectService.
func (s *ProjectServiceImpl) List(ctx context.Context) ([]project.ProjectResponse, error) {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	responses := make([]project.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		responses = append(responses, project.NewProjectResponse(p))
	}
	return responses, nil
}

// Create implements project.ProjectService. The PRJ id is derived from the inserted
// auto id in the same transaction.
func (s *ProjectServiceImpl) Create(ctx context.Context, req project.SaveProjectRequest) (project.ProjectResponse, error) {
	if err := req.Validate(); err != nil {
		return project.ProjectResponse{}, err
	}

	var projectID string
	err := s.db.WithTransaction(ctx, func(ctx context.Context) error {
		autoID, err := s.projects.Insert(ctx, project.Project{Name: req.Name, CreatedBy: req.Actor})
		if err != nil {
			return err
		}
		projectID = project.FormatProjectID(autoID)
		return s.projects.AssignProjectID(ctx, autoID, projectID)
	})
	if err != nil {
		return project.ProjectResponse{}, err
	}

	created, err := s.get(ctx, projectID)
	if err != nil {
		return project.ProjectResponse{}, err
	}
	return project.NewProjectResponse(created), nil
}

// Update implements project.ProjectService. Only the name can change.
func (s *ProjectServiceImpl) Update(ctx context.Context, req project.SaveProjectRequest) (project.ProjectResponse, error) {
	if err := req.Validate(); err != nil {
		return project.ProjectResponse{}, err
	}
	if err := s.projects.Rename(ctx, req.ProjectID, req.Name, req.Actor); err != nil {
		return project.ProjectResponse{}, err
	}
	updated, err := s.get(ctx, req.ProjectID)
	if err != nil {
		return project.ProjectResponse{}, err
	}
	return project.NewProjectResponse(updated), nil
}

// Delete implements project.ProjectService.
func (s *ProjectServiceImpl) Delete(ctx context.Context, projectID, actor string) error {
	return s.projects.SoftDelete(ctx, projectID, actor)
}

// ListTasks implements project.ProjectService.
func (s *ProjectServiceImpl) ListTasks(ctx context.Context, projectID string) ([]project.TaskResponse, error) {
	if _, err := s.get(ctx, projectID); err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	responses := make([]project.TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		responses = append(responses, project.NewTaskResponse(t))
	}
	return responses, nil
}

// CreateTask implements project.ProjectService.
func (s *ProjectServiceImpl) CreateTask(ctx context.Context, req project.SaveTaskRequest) (project.TaskResponse, error) {
	if err := req.Validate(); err != nil {
		return project.TaskResponse{}, err
	}
	if _, err := s.get(ctx, req.ProjectID); err != nil {
		return project.TaskResponse{}, err
	}
	created, err := s.tasks.Create(ctx, project.Task{ProjectID: req.ProjectID, Description: req.Description, CreatedBy: req.Actor})
	if err != nil {
		return project.TaskResponse{}, err
	}
	return project.NewTaskResponse(created), nil
}

// UpdateTask implements project.ProjectService.
func (s *ProjectServiceImpl) UpdateTask(ctx context.Context, req project.SaveTaskRequest) (project.TaskResponse, error) {
	if err := req.Validate(); err != nil {
		return project.TaskResponse{}, err
	}
	existing, err := s.tasks.GetByID(ctx, req.ID)
	if err != nil {
		return project.TaskResponse{}, err
	}
	if existing.ProjectID != req.ProjectID {
		return project.TaskResponse{}, project.ErrTaskNotFound
	}
	if err := s.tasks.UpdateDescription(ctx, req.ID, req.Description, req.Actor); err != nil {
		return project.TaskResponse{}, err
	}
	updated, err := s.tasks.GetByID(ctx, req.ID)
	if err != nil {
		return project.TaskResponse{}, err
	}
	return project.NewTaskResponse(updated), nil
}

// DeleteTask implements project.ProjectService.
func (s *ProjectServiceImpl) DeleteTask(ctx context.Context, id int64, actor string) error {
	return s.tasks.SoftDelete(ctx, id, actor)
}
