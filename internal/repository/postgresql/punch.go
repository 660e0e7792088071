package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/punch"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type punchRepositoryImpl struct {
	db *database.DB
}

// NewPunchRepository expects the timesheet database.
func NewPunchRepository(db *database.DB) punch.PunchRepository {
	return &punchRepositoryImpl{db: db}
}

func scanPunch(row pgx.Row) (punch.Record, error) {
	var p punch.Record
	err := row.Scan(&p.ID, &p.EmpID, &p.PunchIn, &p.PunchOut)
	if errors.Is(err, pgx.ErrNoRows) {
		return punch.Record{}, punch.ErrPunchNotFound
	}
	return p, err
}

func (r *punchRepositoryImpl) ListByEmployee(ctx context.Context, empID string, limit int) ([]punch.Record, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, `
		SELECT auto_id, emp_id, punch_in, punch_out
		FROM punch_history
		WHERE emp_id = $1
		ORDER BY punch_in DESC, auto_id DESC
		LIMIT $2`, empID, limit)
	if err != nil {
		return nil, fmt.Errorf("list punches: %w", err)
	}
	defer rows.Close()

	records := make([]punch.Record, 0)
	for rows.Next() {
		p, err := scanPunch(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, p)
	}
	return records, rows.Err()
}

func (r *punchRepositoryImpl) GetOpen(ctx context.Context, empID string) (punch.Record, error) {
	q := GetQuerier(ctx, r.db)
	return scanPunch(q.QueryRow(ctx, `
		SELECT auto_id, emp_id, punch_in, punch_out
		FROM punch_history
		WHERE emp_id = $1 AND punch_out IS NULL
		ORDER BY punch_in DESC, auto_id DESC
		LIMIT 1`, empID))
}

func (r *punchRepositoryImpl) Create(ctx context.Context, empID string, at time.Time) (punch.Record, error) {
	q := GetQuerier(ctx, r.db)
	rec, err := scanPunch(q.QueryRow(ctx, `
		INSERT INTO punch_history (emp_id, punch_in)
		VALUES ($1, $2)
		RETURNING auto_id, emp_id, punch_in, punch_out`, empID, at))
	if err != nil && database.IsUniqueViolation(err) {
		return punch.Record{}, punch.ErrAlreadyPunchedIn
	}
	return rec, err
}

func (r *punchRepositoryImpl) CloseLatestOpen(ctx context.Context, empID string, at time.Time) (punch.Record, error) {
	q := GetQuerier(ctx, r.db)
	rec, err := scanPunch(q.QueryRow(ctx, `
		UPDATE punch_history SET punch_out = $2
		WHERE auto_id = (
			SELECT auto_id FROM punch_history
			WHERE emp_id = $1 AND punch_out IS NULL
			ORDER BY punch_in DESC, auto_id DESC
			LIMIT 1
		)
		RETURNING auto_id, emp_id, punch_in, punch_out`, empID, at))
	if errors.Is(err, punch.ErrPunchNotFound) {
		return punch.Record{}, punch.ErrNotPunchedIn
	}
	return rec, err
}

func (r *punchRepositoryImpl) LockEmployee(ctx context.Context, empID string) error {
	return advisoryLock(ctx, r.db, "punch:"+empID)
}
