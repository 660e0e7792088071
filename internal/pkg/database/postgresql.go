package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is one logical database: a pool whose search_path points at its schema.
type DB struct {
	*pgxpool.Pool
	Name string
}

type PoolOptions struct {
	Schema   string
	MaxConns int32
	MinConns int32
}

func NewPostgreSQLDB(ctx context.Context, name, dsn string, opts PoolOptions) (*DB, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	// Connection pool settings
	config.MaxConns = 25
	config.MinConns = 5
	if opts.MaxConns > 0 {
		config.MaxConns = opts.MaxConns
	}
	if opts.MinConns > 0 {
		config.MinConns = opts.MinConns
	}
	if opts.Schema != "" {
		config.ConnConfig.RuntimeParams["search_path"] = opts.Schema
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping %s: %w", name, err)
	}

	return &DB{Pool: pool, Name: name}, nil
}

func (db *DB) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return db.Pool.Begin(ctx)
}

type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, arguments ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// Transactor runs fn inside a transaction. The context passed to fn carries the
// transaction so repositories of the same logical database join it.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{ name string }

// ContextWithTx stores tx in ctx for the logical database name.
func ContextWithTx(ctx context.Context, name string, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey{name: name}, tx)
}

// TxFromContext returns the transaction bound to the logical database name, if any.
func TxFromContext(ctx context.Context, name string) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey{name: name}).(pgx.Tx)
	return tx, ok
}

// IsUniqueViolation reports whether err is a PostgreSQL unique_violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// IsForeignKeyViolation reports whether err is a PostgreSQL foreign_key_violation.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
