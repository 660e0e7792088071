package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/project"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type taskRepositoryImpl struct {
	db *database.DB
}

// NewTaskRepository expects the timesheet database.
func NewTaskRepository(db *database.DB) project.TaskRepository {
	return &taskRepositoryImpl{db: db}
}

const taskColumns = `auto_id, project_id, task_description, created_by, created_time,
	updated_by, updated_time, deleted_by, deleted_time`

func scanTask(row pgx.Row) (project.Task, error) {
	var t project.Task
	err := row.Scan(&t.AutoID, &t.ProjectID, &t.Description, &t.CreatedBy, &t.CreatedTime,
		&t.UpdatedBy, &t.UpdatedTime, &t.DeletedBy, &t.DeletedTime)
	if errors.Is(err, pgx.ErrNoRows) {
		return project.Task{}, project.ErrTaskNotFound
	}
	return t, err
}

func (r *taskRepositoryImpl) ListByProject(ctx context.Context, projectID string) ([]project.Task, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, `SELECT `+taskColumns+`
		FROM task_details
		WHERE project_id = $1 AND deleted_by IS NULL
		ORDER BY created_time DESC, auto_id DESC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]project.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *taskRepositoryImpl) GetByID(ctx context.Context, id int64) (project.Task, error) {
	q := GetQuerier(ctx, r.db)
	return scanTask(q.QueryRow(ctx, `SELECT `+taskColumns+`
		FROM task_details WHERE auto_id = $1 AND deleted_by IS NULL`, id))
}

func (r *taskRepositoryImpl) Create(ctx context.Context, t project.Task) (project.Task, error) {
	q := GetQuerier(ctx, r.db)
	created, err := scanTask(q.QueryRow(ctx, `
		INSERT INTO task_details (project_id, task_description, created_by, created_time)
		VALUES ($1, $2, $3, NOW())
		RETURNING `+taskColumns, t.ProjectID, t.Description, t.CreatedBy))
	if err != nil && database.IsForeignKeyViolation(err) {
		return project.Task{}, project.ErrProjectNotFound
	}
	return created, err
}

func (r *taskRepositoryImpl) UpdateDescription(ctx context.Context, id int64, description, actor string) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `
		UPDATE task_details SET task_description = $2, updated_by = $3, updated_time = NOW()
		WHERE auto_id = $1 AND deleted_by IS NULL`, id, description, actor)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return project.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepositoryImpl) SoftDelete(ctx context.Context, id int64, actor string) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `
		UPDATE task_details SET deleted_by = $2, deleted_time = NOW()
		WHERE auto_id = $1 AND deleted_by IS NULL`, id, actor)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return project.ErrTaskNotFound
	}
	return nil
}
