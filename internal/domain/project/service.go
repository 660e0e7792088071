package project

import "context"

type ProjectService interface {
	List(ctx context.Context) ([]ProjectResponse, error)
	Create(ctx context.Context, req SaveProjectRequest) (ProjectResponse, error)
	Update(ctx context.Context, req SaveProjectRequest) (ProjectResponse, error)
	Delete(ctx context.Context, projectID, actor string) error

	ListTasks(ctx context.Context, projectID string) ([]TaskResponse, error)
	CreateTask(ctx context.Context, req SaveTaskRequest) (TaskResponse, error)
	UpdateTask(ctx context.Context, req SaveTaskRequest) (TaskResponse, error)
	DeleteTask(ctx context.Context, id int64, actor string) error
}
