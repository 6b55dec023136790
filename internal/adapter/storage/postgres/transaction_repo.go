package postgres

import (
	"context"
	"fmt"

	"bank-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// TransactionRepo implements ports.TransactionRepository.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Append inserts one log record within a database transaction.
func (r *TransactionRepo) Append(ctx context.Context, tx pgx.Tx, t domain.Transaction) error {
	query := `INSERT INTO transactions (id, account_id, sequence, kind, amount, resulting_balance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := tx.Exec(ctx, query,
		t.ID, t.AccountID, t.Sequence, string(t.Kind),
		t.Amount, t.ResultingBalance, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// ListByAccount returns an account's records ordered by sequence.
func (r *TransactionRepo) ListByAccount(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	query := `SELECT id, account_id, sequence, kind, amount, resulting_balance, created_at
		FROM transactions WHERE account_id = $1 ORDER BY sequence`

	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		var (
			t    domain.Transaction
			kind string
		)
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Sequence, &kind, &t.Amount, &t.ResultingBalance, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		t.Kind = domain.TransactionKind(kind)
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return txns, nil
}
