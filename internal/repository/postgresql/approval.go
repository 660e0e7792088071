package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/leave"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type approvalRepositoryImpl struct {
	db          *database.DB
	adminSchema string
}

// NewApprovalRepository expects the timesheet database and the schema name of the HR/admin database.
func NewApprovalRepository(db *database.DB, adminSchema string) leave.ApprovalRepository {
	return &approvalRepositoryImpl{db: db, adminSchema: pgx.Identifier{adminSchema}.Sanitize()}
}

func (r *approvalRepositoryImpl) selectQuery(where string) string {
	return fmt.Sprintf(`
		SELECT la.department_id, COALESCE(d.department_name, ''), la.level_1, la.level_2, la.level_3,
			la.updated_by, la.updated_time
		FROM leave_approval la
		LEFT JOIN %s.department d ON d.department_id = la.department_id
		%s
		ORDER BY d.department_name, la.department_id`, r.adminSchema, where)
}

func scanApprovalChain(row pgx.Row) (leave.ApprovalChain, error) {
	var c leave.ApprovalChain
	err := row.Scan(&c.DepartmentID, &c.DepartmentName, &c.Level1, &c.Level2, &c.Level3, &c.UpdatedBy, &c.UpdatedTime)
	if errors.Is(err, pgx.ErrNoRows) {
		return leave.ApprovalChain{}, leave.ErrApprovalChainNotFound
	}
	return c, err
}

func (r *approvalRepositoryImpl) List(ctx context.Context) ([]leave.ApprovalChain, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, r.selectQuery(""))
	if err != nil {
		return nil, fmt.Errorf("list approval chains: %w", err)
	}
	defer rows.Close()

	chains := make([]leave.ApprovalChain, 0)
	for rows.Next() {
		c, err := scanApprovalChain(rows)
		if err != nil {
			return nil, err
		}
		chains = append(chains, c)
	}
	return chains, rows.Err()
}

func (r *approvalRepositoryImpl) GetByDepartment(ctx context.Context, departmentID int64) (leave.ApprovalChain, error) {
	q := GetQuerier(ctx, r.db)
	return scanApprovalChain(q.QueryRow(ctx, r.selectQuery("WHERE la.department_id = $1"), departmentID))
}

func (r *approvalRepositoryImpl) Upsert(ctx context.Context, c leave.ApprovalChain) error {
	q := GetQuerier(ctx, r.db)
	_, err := q.Exec(ctx, `
		INSERT INTO leave_approval (department_id, level_1, level_2, level_3, updated_by, updated_time)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (department_id) DO UPDATE SET
			level_1 = EXCLUDED.level_1, level_2 = EXCLUDED.level_2, level_3 = EXCLUDED.level_3,
			updated_by = EXCLUDED.updated_by, updated_time = EXCLUDED.updated_time`,
		c.DepartmentID, c.Level1, c.Level2, c.Level3, c.UpdatedBy)
	if err != nil {
		return fmt.Errorf("save approval chain: %w", err)
	}
	return nil
}

func (r *approvalRepositoryImpl) Delete(ctx context.Context, departmentID int64) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `DELETE FROM leave_approval WHERE department_id = $1`, departmentID)
	if err != nil {
		return fmt.Errorf("delete approval chain: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrApprovalChainNotFound
	}
	return nil
}
