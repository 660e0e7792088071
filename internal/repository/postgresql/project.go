package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/project"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type projectRepositoryImpl struct {
	db *database.DB
}

// NewProjectRepository expects the timesheet database.
func NewProjectRepository(db *database.DB) project.ProjectRepository {
	return &projectRepositoryImpl{db: db}
}

const projectColumns = `auto_id, COALESCE(project_id, ''), project_name, created_by, created_time,
	updated_by, updated_time, deleted_by, deleted_time`

func scanProject(row pgx.Row) (project.Project, error) {
	var p project.Project
	err := row.Scan(&p.AutoID, &p.ProjectID, &p.Name, &p.CreatedBy, &p.CreatedTime,
		&p.UpdatedBy, &p.UpdatedTime, &p.DeletedBy, &p.DeletedTime)
	if errors.Is(err, pgx.ErrNoRows) {
		return project.Project{}, project.ErrProjectNotFound
	}
	return p, err
}

func (r *projectRepositoryImpl) List(ctx context.Context) ([]project.Project, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, `SELECT `+projectColumns+`
		FROM project_details
		WHERE deleted_by IS NULL
		ORDER BY created_time DESC, auto_id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := make([]project.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *projectRepositoryImpl) GetByProjectID(ctx context.Context, projectID string) (project.Project, error) {
	q := GetQuerier(ctx, r.db)
	return scanProject(q.QueryRow(ctx, `SELECT `+projectColumns+`
		FROM project_details WHERE project_id = $1 AND deleted_by IS NULL`, projectID))
}

func (r *projectRepositoryImpl) Insert(ctx context.Context, p project.Project) (int64, error) {
	q := GetQuerier(ctx, r.db)
	var autoID int64
	err := q.QueryRow(ctx, `
		INSERT INTO project_details (project_name, created_by, created_time)
		VALUES ($1, $2, NOW())
		RETURNING auto_id`, p.Name, p.CreatedBy).Scan(&autoID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return 0, project.ErrProjectExists
		}
		return 0, fmt.Errorf("insert project: %w", err)
	}
	return autoID, nil
}

func (r *projectRepositoryImpl) AssignProjectID(ctx context.Context, autoID int64, projectID string) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `UPDATE project_details SET project_id = $2 WHERE auto_id = $1`, autoID, projectID)
	if err != nil {
		return fmt.Errorf("assign project_id: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return project.ErrProjectNotFound
	}
	return nil
}

func (r *projectRepositoryImpl) Rename(ctx context.Context, projectID, name, actor string) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `
		UPDATE project_details SET project_name = $2, updated_by = $3, updated_time = NOW()
		WHERE project_id = $1 AND deleted_by IS NULL`, projectID, name, actor)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return project.ErrProjectExists
		}
		return fmt.Errorf("rename project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return project.ErrProjectNotFound
	}
	return nil
}

func (r *projectRepositoryImpl) SoftDelete(ctx context.Context, projectID, actor string) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `
		UPDATE project_details SET deleted_by = $2, deleted_time = NOW()
		WHERE project_id = $1 AND deleted_by IS NULL`, projectID, actor)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return project.ErrProjectNotFound
	}
	return nil
}
