package project

import "context"

type ProjectRepository interface {
	List(ctx context.Context) ([]Project, error)
	GetByProjectID(ctx context.Context, projectID string) (Project, error)
	// Insert stores p without a project_id and returns the generated auto id.
	Insert(ctx context.Context, p Project) (int64, error)
	AssignProjectID(ctx context.Context, autoID int64, projectID string) error
	Rename(ctx context.Context, projectID, name, actor string) error
	SoftDelete(ctx context.Context, projectID, actor string) error
}

type TaskRepository interface {
	ListByProject(ctx context.Context, projectID string) ([]Task, error)
	GetByID(ctx context.Context, id int64) (Task, error)
	Create(ctx context.Context, t Task) (Task, error)
	UpdateDescription(ctx context.Context, id int64, description, actor string) error
	SoftDelete(ctx context.Context, id int64, actor string) error
}
