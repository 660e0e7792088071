package database

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_GetByName(t *testing.T) {
	m := NewManagerFromDBs(&DB{Name: AdminDB}, &DB{Name: TimesheetDB})

	db, err := m.Get(AdminDB)
	require.NoError(t, err)
	assert.Equal(t, AdminDB, db.Name)

	_, err = m.Get("payroll")
	assert.ErrorIs(t, err, ErrUnknownDatabase)

	assert.Equal(t, []string{AdminDB, TimesheetDB}, m.Names())
	assert.Panics(t, func() { m.MustGet("payroll") })
}

func TestManager_CloseEmptiesRegistry(t *testing.T) {
	m := NewManagerFromDBs(&DB{Name: AdminDB})
	m.Close()

	_, err := m.Get(AdminDB)
	assert.ErrorIs(t, err, ErrUnknownDatabase)
}

type fakeTx struct{ pgx.Tx }

func TestTxFromContext_ScopedByDatabase(t *testing.T) {
	tx := fakeTx{}
	ctx := ContextWithTx(context.Background(), TimesheetDB, tx)

	got, ok := TxFromContext(ctx, TimesheetDB)
	require.True(t, ok)
	assert.Equal(t, tx, got)

	_, ok = TxFromContext(ctx, AdminDB)
	assert.False(t, ok)
}
