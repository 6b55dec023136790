package ports

import (
	"context"
	"time"

	"bank-ledger/internal/core/domain"

	"github.com/shopspring/decimal"
)

// TokenService handles operator JWT operations.
type TokenService interface {
	Generate(subject string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	ID        string // jti, logged with audited requests
	Subject   string
	ExpiresAt time.Time
}

// IdempotencyCache stores the outcome of idempotent requests.
type IdempotencyCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // Returns cached response JSON or nil
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Claim reserves key for one in-flight request; false means it is taken.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// --- Service Ports (Business Logic) ---

// LedgerService exposes account and ledger operations to the transports.
type LedgerService interface {
	OpenAccount(ctx context.Context, req OpenAccountRequest) (*domain.AccountSnapshot, error)
	GetAccount(ctx context.Context, accountID string) (*domain.AccountSnapshot, error)
	ListAccounts(ctx context.Context) ([]domain.AccountSnapshot, error)
	Summary(ctx context.Context) (domain.LedgerSummary, error)

	Deposit(ctx context.Context, req MovementRequest) (*MovementResult, error)
	Withdraw(ctx context.Context, req MovementRequest) (*MovementResult, error)
	AddInterest(ctx context.Context, req OperationRequest) (*MovementResult, error)
	ChargeMonthlyFee(ctx context.Context, req OperationRequest) (*MovementResult, error)

	Activate(ctx context.Context, accountID string) (*domain.AccountSnapshot, error)
	Deactivate(ctx context.Context, accountID string) (*domain.AccountSnapshot, error)
	ListTransactions(ctx context.Context, accountID string) ([]domain.Transaction, error)

	AddEmployee(ctx context.Context, accountID string, employee domain.Employee) ([]domain.Employee, error)
	RemoveEmployee(ctx context.Context, accountID, employeeID string) (*domain.Employee, error)
	ListEmployees(ctx context.Context, accountID string) ([]domain.Employee, error)

	// Restore rebuilds the in-memory ledger from the durable copy.
	// It returns the number of accounts loaded.
	Restore(ctx context.Context) (int, error)
}

// OpenAccountRequest holds validated input for opening an account.
// Nil parameters fall back to the ledger's configured defaults.
type OpenAccountRequest struct {
	Kind           string
	Owner          string
	OpeningBalance decimal.Decimal
	InterestRate   *decimal.Decimal
	MinimumBalance *decimal.Decimal
	OverdraftLimit *decimal.Decimal
	MonthlyFee     *decimal.Decimal
	BusinessType   string
}

// MovementRequest holds input for a deposit or withdrawal.
type MovementRequest struct {
	AccountID      string
	Amount         decimal.Decimal
	IdempotencyKey string // Optional
}

// OperationRequest holds input for interest accrual or fee charging.
type OperationRequest struct {
	AccountID      string
	IdempotencyKey string // Optional
}

// MovementResult is the outcome of a balance-changing operation.
// Recorded is false when nothing moved (zero interest, zero fee).
type MovementResult struct {
	AccountID   string             `json:"account_id"`
	Transaction domain.Transaction `json:"transaction"`
	Amount      decimal.Decimal    `json:"amount"`
	Balance     decimal.Decimal    `json:"balance"`
	Recorded    bool               `json:"recorded"`
}
