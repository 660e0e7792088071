package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/leave"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveTypeRepositoryImpl struct {
	db *database.DB
}

// NewLeaveTypeRepository expects the timesheet database.
func NewLeaveTypeRepository(db *database.DB) leave.LeaveTypeRepository {
	return &leaveTypeRepositoryImpl{db: db}
}

const leaveTypeColumns = `leave_type_id, leave_type, max_leave::float8, created_by, created_time, deleted_by, deleted_time`

func scanLeaveType(row pgx.Row) (leave.LeaveType, error) {
	var lt leave.LeaveType
	err := row.Scan(&lt.ID, &lt.Name, &lt.MaxLeave, &lt.CreatedBy, &lt.CreatedTime, &lt.DeletedBy, &lt.DeletedTime)
	if errors.Is(err, pgx.ErrNoRows) {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	return lt, err
}

func (l *leaveTypeRepositoryImpl) List(ctx context.Context) ([]leave.LeaveType, error) {
	q := GetQuerier(ctx, l.db)
	rows, err := q.Query(ctx, `SELECT `+leaveTypeColumns+`
		FROM leave_type
		WHERE deleted_time IS NULL
		ORDER BY leave_type_id`)
	if err != nil {
		return nil, fmt.Errorf("list leave types: %w", err)
	}
	defer rows.Close()

	types := make([]leave.LeaveType, 0)
	for rows.Next() {
		lt, err := scanLeaveType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, lt)
	}
	return types, rows.Err()
}

func (l *leaveTypeRepositoryImpl) GetByID(ctx context.Context, id int64) (leave.LeaveType, error) {
	q := GetQuerier(ctx, l.db)
	return scanLeaveType(q.QueryRow(ctx, `SELECT `+leaveTypeColumns+`
		FROM leave_type WHERE leave_type_id = $1 AND deleted_time IS NULL`, id))
}

func (l *leaveTypeRepositoryImpl) Create(ctx context.Context, lt leave.LeaveType) (leave.LeaveType, error) {
	q := GetQuerier(ctx, l.db)
	return scanLeaveType(q.QueryRow(ctx, `
		INSERT INTO leave_type (leave_type, max_leave, created_by, created_time)
		VALUES ($1, $2, $3, NOW())
		RETURNING `+leaveTypeColumns, lt.Name, lt.MaxLeave, lt.CreatedBy))
}

func (l *leaveTypeRepositoryImpl) Update(ctx context.Context, lt leave.LeaveType) error {
	q := GetQuerier(ctx, l.db)
	tag, err := q.Exec(ctx, `
		UPDATE leave_type SET leave_type = $2, max_leave = $3
		WHERE leave_type_id = $1 AND deleted_time IS NULL`, lt.ID, lt.Name, lt.MaxLeave)
	if err != nil {
		return fmt.Errorf("update leave type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveTypeNotFound
	}
	return nil
}

func (l *leaveTypeRepositoryImpl) SoftDelete(ctx context.Context, id int64, actor string) error {
	q := GetQuerier(ctx, l.db)
	tag, err := q.Exec(ctx, `
		UPDATE leave_type SET deleted_by = $2, deleted_time = NOW()
		WHERE leave_type_id = $1 AND deleted_time IS NULL`, id, actor)
	if err != nil {
		return fmt.Errorf("delete leave type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveTypeNotFound
	}
	return nil
}
