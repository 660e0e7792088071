package project

import (
	"context"
	"testing"
	"time"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct{ calls int }

func (f *fakeTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeProjects struct {
	rows []project.Project
}

func (f *fakeProjects) List(context.Context) ([]project.Project, error) {
	var out []project.Project
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].DeletedTime == nil {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

func (f *fakeProjects) index(projectID string) int {
	for i, p := range f.rows {
		if p.ProjectID == projectID {
			return i
		}
	}
	return -1
}

func (f *fakeProjects) GetByProjectID(_ context.Context, projectID string) (project.Project, error) {
	i := f.index(projectID)
	if i < 0 {
		return project.Project{}, project.ErrProjectNotFound
	}
	return f.rows[i], nil
}

func (f *fakeProjects) Insert(_ context.Context, p project.Project) (int64, error) {
	for _, existing := range f.rows {
		if existing.Name == p.Name && existing.DeletedTime == nil {
			return 0, project.ErrProjectExists
		}
	}
	p.AutoID = int64(len(f.rows) + 1)
	p.CreatedTime = time.Now()
	f.rows = append(f.rows, p)
	return p.AutoID, nil
}

func (f *fakeProjects) AssignProjectID(_ context.Context, autoID int64, projectID string) error {
	f.rows[autoID-1].ProjectID = projectID
	return nil
}

func (f *fakeProjects) Rename(_ context.Context, projectID, name, actor string) error {
	i := f.index(projectID)
	if i < 0 || f.rows[i].DeletedTime != nil {
		return project.ErrProjectNotFound
	}
	f.rows[i].Name, f.rows[i].UpdatedBy = name, &actor
	return nil
}

func (f *fakeProjects) SoftDelete(_ context.Context, projectID, actor string) error {
	i := f.index(projectID)
	if i < 0 || f.rows[i].DeletedTime != nil {
		return project.ErrProjectNotFound
	}
	now := time.Now()
	f.rows[i].DeletedBy, f.rows[i].DeletedTime = &actor, &now
	return nil
}

type fakeTasks struct {
	rows []project.Task
}

func (f *fakeTasks) ListByProject(_ context.Context, projectID string) ([]project.Task, error) {
	var out []project.Task
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].ProjectID == projectID && f.rows[i].DeletedTime == nil {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

func (f *fakeTasks) GetByID(_ context.Context, id int64) (project.Task, error) {
	if id < 1 || int(id) > len(f.rows) || f.rows[id-1].DeletedTime != nil {
		return project.Task{}, project.ErrTaskNotFound
	}
	return f.rows[id-1], nil
}

func (f *fakeTasks) Create(_ context.Context, t project.Task) (project.Task, error) {
	t.AutoID = int64(len(f.rows) + 1)
	f.rows = append(f.rows, t)
	return t, nil
}

func (f *fakeTasks) UpdateDescription(ctx context.Context, id int64, description, actor string) error {
	if _, err := f.GetByID(ctx, id); err != nil {
		return err
	}
	f.rows[id-1].Description, f.rows[id-1].UpdatedBy = description, &actor
	return nil
}

func (f *fakeTasks) SoftDelete(ctx context.Context, id int64, actor string) error {
	if _, err := f.GetByID(ctx, id); err != nil {
		return err
	}
	now := time.Now()
	f.rows[id-1].DeletedBy, f.rows[id-1].DeletedTime = &actor, &now
	return nil
}

const actor = "dolluzcorp-2025-00001"

func TestProjectService_Projects(t *testing.T) {
	tx := &fakeTx{}
	svc := NewProjectService(tx, &fakeProjects{}, &fakeTasks{})
	ctx := context.Background()

	first, err := svc.Create(ctx, project.SaveProjectRequest{Name: " Payroll revamp ", Actor: actor})
	require.NoError(t, err)
	assert.Equal(t, "PRJ-0001", first.ProjectID)
	assert.Equal(t, "Payroll revamp", first.Name)
	assert.Equal(t, 1, tx.calls)

	second, err := svc.Create(ctx, project.SaveProjectRequest{Name: "Mobile app", Actor: actor})
	require.NoError(t, err)
	assert.Equal(t, "PRJ-0002", second.ProjectID)

	_, err = svc.Create(ctx, project.SaveProjectRequest{Name: "Mobile app", Actor: actor})
	assert.ErrorIs(t, err, project.ErrProjectExists)

	_, err = svc.Create(ctx, project.SaveProjectRequest{Name: "  ", Actor: actor})
	assert.Error(t, err)

	renamed, err := svc.Update(ctx, project.SaveProjectRequest{ProjectID: "PRJ-0001", Name: "Payroll v2", Actor: actor})
	require.NoError(t, err)
	assert.Equal(t, "Payroll v2", renamed.Name)

	require.NoError(t, svc.Delete(ctx, "PRJ-0002", actor))
	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "PRJ-0001", list[0].ProjectID)

	_, err = svc.Update(ctx, project.SaveProjectRequest{ProjectID: "PRJ-0002", Name: "Back", Actor: actor})
	assert.ErrorIs(t, err, project.ErrProjectNotFound)
}

func TestProjectService_Tasks(t *testing.T) {
	svc := NewProjectService(&fakeTx{}, &fakeProjects{}, &fakeTasks{})
	ctx := context.Background()

	p, err := svc.Create(ctx, project.SaveProjectRequest{Name: "Payroll", Actor: actor})
	require.NoError(t, err)

	_, err = svc.CreateTask(ctx, project.SaveTaskRequest{ProjectID: "PRJ-0404", Description: "Design", Actor: actor})
	assert.ErrorIs(t, err, project.ErrProjectNotFound)

	design, err := svc.CreateTask(ctx, project.SaveTaskRequest{ProjectID: p.ProjectID, Description: "Design", Actor: actor})
	require.NoError(t, err)
	_, err = svc.CreateTask(ctx, project.SaveTaskRequest{ProjectID: p.ProjectID, Description: "Build", Actor: actor})
	require.NoError(t, err)

	updated, err := svc.UpdateTask(ctx, project.SaveTaskRequest{ID: design.AutoID, ProjectID: p.ProjectID, Description: "Design review", Actor: actor})
	require.NoError(t, err)
	assert.Equal(t, "Design review", updated.Description)

	_, err = svc.UpdateTask(ctx, project.SaveTaskRequest{ID: design.AutoID, ProjectID: "PRJ-0404", Description: "x", Actor: actor})
	assert.ErrorIs(t, err, project.ErrTaskNotFound)

	require.NoError(t, svc.DeleteTask(ctx, design.AutoID, actor))
	tasks, err := svc.ListTasks(ctx, p.ProjectID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Build", tasks[0].Description)
}
