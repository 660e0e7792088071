package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/access"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type accessLevelRepositoryImpl struct {
	db *database.DB
}

func NewAccessLevelRepository(db *database.DB) access.AccessLevelRepository {
	return &accessLevelRepositoryImpl{db: db}
}

const accessLevelColumns = `access_level_id, page_name, category, admin_access, subadmin_access, manager_access, user_access`

func scanAccessLevel(row pgx.Row) (access.AccessLevel, error) {
	var a access.AccessLevel
	err := row.Scan(&a.ID, &a.PageName, &a.Category, &a.AdminAccess, &a.SubAdminAccess, &a.ManagerAccess, &a.UserAccess)
	if errors.Is(err, pgx.ErrNoRows) {
		return access.AccessLevel{}, access.ErrAccessLevelNotFound
	}
	return a, err
}

func (r *accessLevelRepositoryImpl) List(ctx context.Context) ([]access.AccessLevel, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, `SELECT `+accessLevelColumns+` FROM access_levels ORDER BY access_level_id`)
	if err != nil {
		return nil, fmt.Errorf("list access levels: %w", err)
	}
	defer rows.Close()

	levels := make([]access.AccessLevel, 0)
	for rows.Next() {
		a, err := scanAccessLevel(rows)
		if err != nil {
			return nil, err
		}
		levels = append(levels, a)
	}
	return levels, rows.Err()
}

func (r *accessLevelRepositoryImpl) GetByID(ctx context.Context, id int64) (access.AccessLevel, error) {
	q := GetQuerier(ctx, r.db)
	return scanAccessLevel(q.QueryRow(ctx, `SELECT `+accessLevelColumns+` FROM access_levels WHERE access_level_id = $1`, id))
}

func (r *accessLevelRepositoryImpl) Update(ctx context.Context, a access.AccessLevel) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `
		UPDATE access_levels
		SET admin_access = $2, subadmin_access = $3, manager_access = $4, user_access = $5
		WHERE access_level_id = $1`,
		a.ID, a.AdminAccess, a.SubAdminAccess, a.ManagerAccess, a.UserAccess)
	if err != nil {
		return fmt.Errorf("update access level: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return access.ErrAccessLevelNotFound
	}
	return nil
}
