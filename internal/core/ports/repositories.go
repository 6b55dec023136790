package ports

import (
	"context"

	"bank-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// AccountRepository keeps the durable copy of account state.
// Methods accepting pgx.Tx are used inside transaction blocks.
type AccountRepository interface {
	Upsert(ctx context.Context, tx pgx.Tx, account domain.AccountSnapshot) error
	// List returns every stored account without its transaction log.
	List(ctx context.Context) ([]domain.AccountSnapshot, error)
}

// TransactionRepository keeps the append-only copy of every account log.
type TransactionRepository interface {
	Append(ctx context.Context, tx pgx.Tx, transaction domain.Transaction) error
	// ListByAccount returns the account's records in insertion order.
	ListByAccount(ctx context.Context, accountID string) ([]domain.Transaction, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
