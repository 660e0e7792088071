package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/holiday"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type holidayRepositoryImpl struct {
	db *database.DB
}

// NewHolidayRepository expects the timesheet database.
func NewHolidayRepository(db *database.DB) holiday.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}

const holidayColumns = `holiday_id, holiday_name, holiday_date, holiday_end, holiday_for, holiday_value,
	created_by, created_time, edited_by, edited_time`

func scanHoliday(row pgx.Row) (holiday.Holiday, error) {
	var h holiday.Holiday
	var scope, value string
	err := row.Scan(&h.ID, &h.Name, &h.StartDate, &h.EndDate, &scope, &value,
		&h.CreatedBy, &h.CreatedTime, &h.EditedBy, &h.EditedTime)
	if errors.Is(err, pgx.ErrNoRows) {
		return holiday.Holiday{}, holiday.ErrHolidayNotFound
	}
	if err != nil {
		return holiday.Holiday{}, err
	}

	parsed, ok := holiday.ParseScope(scope)
	if !ok {
		return holiday.Holiday{}, fmt.Errorf("holiday %d: %w: %q", h.ID, holiday.ErrInvalidScope, scope)
	}
	h.Scope = parsed
	if parsed != holiday.ScopeGeneral {
		h.Values = holiday.SplitValues(value)
	}
	return h, nil
}

func (r *holidayRepositoryImpl) ListOverlapping(ctx context.Context, from, to time.Time) ([]holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, `SELECT `+holidayColumns+`
		FROM holidays
		WHERE holiday_date <= $2 AND holiday_end >= $1
		ORDER BY holiday_date, holiday_id`, from, to)
	if err != nil {
		return nil, fmt.Errorf("list holidays: %w", err)
	}
	defer rows.Close()

	holidays := make([]holiday.Holiday, 0)
	for rows.Next() {
		h, err := scanHoliday(rows)
		if err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

func (r *holidayRepositoryImpl) GetByID(ctx context.Context, id int64) (holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)
	return scanHoliday(q.QueryRow(ctx, `SELECT `+holidayColumns+` FROM holidays WHERE holiday_id = $1`, id))
}

func (r *holidayRepositoryImpl) Create(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)
	return scanHoliday(q.QueryRow(ctx, `
		INSERT INTO holidays (holiday_name, holiday_date, holiday_end, holiday_for, holiday_value, created_by, created_time)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING `+holidayColumns,
		h.Name, h.StartDate, h.EndDate, string(h.Scope), holiday.JoinValues(h.Values), h.CreatedBy))
}

func (r *holidayRepositoryImpl) Update(ctx context.Context, h holiday.Holiday) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `
		UPDATE holidays SET
			holiday_name = $2, holiday_date = $3, holiday_end = $4, holiday_for = $5, holiday_value = $6,
			edited_by = $7, edited_time = NOW()
		WHERE holiday_id = $1`,
		h.ID, h.Name, h.StartDate, h.EndDate, string(h.Scope), holiday.JoinValues(h.Values), h.EditedBy)
	if err != nil {
		return fmt.Errorf("update holiday: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return holiday.ErrHolidayNotFound
	}
	return nil
}

func (r *holidayRepositoryImpl) Delete(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `DELETE FROM holidays WHERE holiday_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete holiday: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return holiday.ErrHolidayNotFound
	}
	return nil
}
