package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the query surface shared by *pgxpool.Pool and pgx.Tx, so the same
// repositories can run pooled or inside a transaction.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories bundles the per-transaction repository set.
type Repositories struct {
	Customers CustomerRepository
	Tickets   TicketRepository
}

// Store is the unit-of-work boundary: fn runs inside a single transaction
// that is committed when fn returns nil and rolled back otherwise.
type Store interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error
}

type pgStore struct {
	pool *pgxpool.Pool
}

// NewStore builds a Store over the given pool.
func NewStore(pool *pgxpool.Pool) Store {
	return &pgStore{pool: pool}
}

func (s *pgStore) WithinTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error {
	if s.pool == nil {
		return fmt.Errorf("postgres pool not configured")
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	repos := Repositories{
		Customers: NewCustomerRepository(tx),
		Tickets:   NewTicketRepository(tx),
	}

	if err := fn(ctx, repos); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}
