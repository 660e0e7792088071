package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/database"
)

const (
	testAdminSchema     = "dadmin"
	testTimesheetSchema = "dtime"
)

// TestDatabaseSetup holds one pool per logical database against the test server.
type TestDatabaseSetup struct {
	Admin     *database.DB
	Timesheet *database.DB
	manager   *database.Manager
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies the schema. It returns
// (nil, nil) when the variable is unset so callers can skip.
func NewTestDatabase(ctx context.Context) (*TestDatabaseSetup, error) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		return nil, nil
	}

	m, err := database.NewManager(ctx,
		database.Source{Name: database.AdminDB, DSN: dsn, PoolOptions: database.PoolOptions{Schema: testAdminSchema, MaxConns: 4, MinConns: 1}},
		database.Source{Name: database.TimesheetDB, DSN: dsn, PoolOptions: database.PoolOptions{Schema: testTimesheetSchema, MaxConns: 4, MinConns: 1}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}
	setup := &TestDatabaseSetup{
		Admin:     m.MustGet(database.AdminDB),
		Timesheet: m.MustGet(database.TimesheetDB),
		manager:   m,
	}

	if err := setup.migrate(ctx); err != nil {
		m.Close()
		return nil, err
	}
	return setup, nil
}

func (t *TestDatabaseSetup) migrate(ctx context.Context) error {
	_, file, _, _ := runtime.Caller(0)
	path := filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "migrations", "001_init.sql")
	schema, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	if _, err := t.Admin.Exec(ctx, string(schema)); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// TruncateAllTables clears the data tables. The seeded access matrix is kept.
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tables := []string{
		"dtime.leave_escalations",
		"dtime.leave_requests",
		"dtime.leave_approval",
		"dtime.leave_type",
		"dtime.punch_history",
		"dtime.holidays",
		"dtime.task_details",
		"dtime.project_details",
		"dadmin.refresh_tokens",
		"dadmin.employee",
		"dadmin.department",
	}

	tx, err := t.Admin.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, table := range tables {
		if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}
	return tx.Commit(ctx)
}

func (t *TestDatabaseSetup) Close() {
	t.manager.Close()
}
