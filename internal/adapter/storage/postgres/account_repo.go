package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"bank-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

const accountColumns = `id, kind, owner, balance, active, interest_rate, minimum_balance,
	overdraft_limit, overdraft_used, overdraft_repayment, monthly_fee, business_type, employees`

// AccountRepo implements ports.AccountRepository.
type AccountRepo struct {
	pool Pool
}

// NewAccountRepo creates a new AccountRepo.
func NewAccountRepo(pool Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

// Upsert inserts the account or overwrites its mutable state within a transaction.
// The transaction log is not written here; see TransactionRepo.Append.
func (r *AccountRepo) Upsert(ctx context.Context, tx pgx.Tx, a domain.AccountSnapshot) error {
	employees, err := encodeEmployees(a.Employees)
	if err != nil {
		return err
	}

	query := `INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			balance = EXCLUDED.balance,
			active = EXCLUDED.active,
			overdraft_used = EXCLUDED.overdraft_used,
			employees = EXCLUDED.employees,
			updated_at = NOW()`

	_, err = tx.Exec(ctx, query,
		a.ID, string(a.Kind), a.Owner, a.Balance, a.Active,
		a.InterestRate, a.MinimumBalance,
		a.OverdraftLimit, a.OverdraftUsed, string(a.OverdraftRepayment),
		a.MonthlyFee, a.BusinessType, employees,
	)
	if err != nil {
		return fmt.Errorf("upsert account %s: %w", a.ID, err)
	}
	return nil
}

// List returns every stored account ordered by ID, without transactions.
func (r *AccountRepo) List(ctx context.Context) ([]domain.AccountSnapshot, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.AccountSnapshot
	for rows.Next() {
		var (
			a         domain.AccountSnapshot
			kind      string
			repayment string
			employees []byte
		)
		err := rows.Scan(
			&a.ID, &kind, &a.Owner, &a.Balance, &a.Active,
			&a.InterestRate, &a.MinimumBalance,
			&a.OverdraftLimit, &a.OverdraftUsed, &repayment,
			&a.MonthlyFee, &a.BusinessType, &employees,
		)
		if err != nil {
			return nil, fmt.Errorf("scan account row: %w", err)
		}
		a.Kind = domain.AccountKind(kind)
		a.OverdraftRepayment = domain.OverdraftRepayment(repayment)
		if a.Employees, err = decodeEmployees(employees); err != nil {
			return nil, fmt.Errorf("account %s: %w", a.ID, err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate account rows: %w", err)
	}
	return accounts, nil
}

func encodeEmployees(employees []domain.Employee) ([]byte, error) {
	if employees == nil {
		employees = []domain.Employee{}
	}
	b, err := json.Marshal(employees)
	if err != nil {
		return nil, fmt.Errorf("encode employees: %w", err)
	}
	return b, nil
}

func decodeEmployees(b []byte) ([]domain.Employee, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var employees []domain.Employee
	if err := json.Unmarshal(b, &employees); err != nil {
		return nil, fmt.Errorf("decode employees: %w", err)
	}
	if len(employees) == 0 {
		return nil, nil
	}
	return employees, nil
}
