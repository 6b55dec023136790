package dto

import (
	"errors"
	"fmt"
	"time"

	"bank-ledger/internal/core/domain"
	"bank-ledger/internal/core/ports"

	"github.com/shopspring/decimal"
)

// ErrMalformedMoney reports a money field that is not a number, or is a
// number too precise or too large for the ledger.
var ErrMalformedMoney = errors.New("amount is not a valid money value")

// Money is a decimal accepted as a JSON number ("12.50" or 12.50).
type Money struct {
	decimal.Decimal
}

// UnmarshalJSON parses the amount, tagging failures with ErrMalformedMoney.
func (m *Money) UnmarshalJSON(b []byte) error {
	if err := m.Decimal.UnmarshalJSON(b); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedMoney, b)
	}
	if err := domain.CheckAmount(m.Decimal); err != nil {
		m.Decimal = decimal.Zero
		return fmt.Errorf("%w: %w", ErrMalformedMoney, err)
	}
	return nil
}

// Ptr returns the decimal behind an optional field, nil when the field was omitted.
func (m *Money) Ptr() *decimal.Decimal {
	if m == nil {
		return nil
	}
	d := m.Decimal
	return &d
}

// OpenAccountRequest is the request body for opening an account.
// Optional parameters fall back to the ledger's configured defaults.
type OpenAccountRequest struct {
	Kind           string `json:"kind" binding:"required,account_kind"`
	Owner          string `json:"owner" binding:"required,max=100"`
	OpeningBalance *Money `json:"opening_balance"`
	InterestRate   *Money `json:"interest_rate,omitempty"`
	MinimumBalance *Money `json:"minimum_balance,omitempty"`
	OverdraftLimit *Money `json:"overdraft_limit,omitempty"`
	MonthlyFee     *Money `json:"monthly_fee,omitempty"`
	BusinessType   string `json:"business_type,omitempty" binding:"omitempty,max=50"`
}

// ToPort converts the body to the service request. A missing opening balance opens at zero.
func (r OpenAccountRequest) ToPort() ports.OpenAccountRequest {
	opening := decimal.Zero
	if r.OpeningBalance != nil {
		opening = r.OpeningBalance.Decimal
	}
	return ports.OpenAccountRequest{
		Kind:           r.Kind,
		Owner:          r.Owner,
		OpeningBalance: opening,
		InterestRate:   r.InterestRate.Ptr(),
		MinimumBalance: r.MinimumBalance.Ptr(),
		OverdraftLimit: r.OverdraftLimit.Ptr(),
		MonthlyFee:     r.MonthlyFee.Ptr(),
		BusinessType:   r.BusinessType,
	}
}

// MovementRequest is the request body for deposits and withdrawals.
type MovementRequest struct {
	Amount *Money `json:"amount" binding:"required"`
}

// AddEmployeeRequest is the request body for adding an employee to a roster.
type AddEmployeeRequest struct {
	ID   string `json:"id" binding:"required,max=64,safe_id"`
	Name string `json:"name" binding:"required,max=100"`
}

// AccountResponse is the API view of an account. Kind-specific fields are
// omitted for kinds they do not apply to.
type AccountResponse struct {
	ID                 string             `json:"id"`
	Kind               domain.AccountKind `json:"kind"`
	Owner              string             `json:"owner"`
	Balance            decimal.Decimal    `json:"balance"`
	Active             bool               `json:"active"`
	TransactionCount   int                `json:"transaction_count"`
	InterestRate       *decimal.Decimal   `json:"interest_rate,omitempty"`
	MinimumBalance     *decimal.Decimal   `json:"minimum_balance,omitempty"`
	OverdraftLimit     *decimal.Decimal   `json:"overdraft_limit,omitempty"`
	OverdraftUsed      *decimal.Decimal   `json:"overdraft_used,omitempty"`
	OverdraftRepayment string             `json:"overdraft_repayment,omitempty"`
	MonthlyFee         *decimal.Decimal   `json:"monthly_fee,omitempty"`
	BusinessType       string             `json:"business_type,omitempty"`
	Employees          []EmployeeResponse `json:"employees,omitempty"`
}

// NewAccountResponse builds the API view of a snapshot.
func NewAccountResponse(s domain.AccountSnapshot) AccountResponse {
	resp := AccountResponse{
		ID:               s.ID,
		Kind:             s.Kind,
		Owner:            s.Owner,
		Balance:          s.Balance,
		Active:           s.Active,
		TransactionCount: len(s.Transactions),
	}
	switch s.Kind {
	case domain.AccountKindSavings:
		resp.InterestRate = &s.InterestRate
		resp.MinimumBalance = &s.MinimumBalance
	case domain.AccountKindChecking:
		resp.OverdraftLimit = &s.OverdraftLimit
		resp.OverdraftUsed = &s.OverdraftUsed
		resp.OverdraftRepayment = string(s.OverdraftRepayment)
	case domain.AccountKindBusiness:
		resp.MonthlyFee = &s.MonthlyFee
		resp.BusinessType = s.BusinessType
		resp.Employees = NewEmployeeResponses(s.Employees)
	}
	return resp
}

// TransactionResponse is the API view of a transaction record.
type TransactionResponse struct {
	ID               string          `json:"id,omitempty"`
	Sequence         int64           `json:"sequence,omitempty"`
	Kind             string          `json:"kind"`
	Amount           decimal.Decimal `json:"amount"`
	ResultingBalance decimal.Decimal `json:"resulting_balance"`
	CreatedAt        string          `json:"created_at,omitempty"`
}

// NewTransactionResponse builds the API view of a record. Unrecorded
// outcomes carry no id, sequence or timestamp.
func NewTransactionResponse(tx domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		Kind:             string(tx.Kind),
		Amount:           tx.Amount,
		ResultingBalance: tx.ResultingBalance,
	}
	if tx.Recorded() {
		resp.ID = tx.ID.String()
		resp.Sequence = tx.Sequence
		resp.CreatedAt = tx.CreatedAt.Format(time.RFC3339)
	}
	return resp
}

// NewTransactionResponses converts a log in order.
func NewTransactionResponses(txs []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, NewTransactionResponse(tx))
	}
	return out
}

// MovementResponse is the response body for balance-changing operations.
type MovementResponse struct {
	AccountID   string              `json:"account_id"`
	Amount      decimal.Decimal     `json:"amount"`
	Balance     decimal.Decimal     `json:"balance"`
	Recorded    bool                `json:"recorded"`
	Transaction TransactionResponse `json:"transaction"`
}

// NewMovementResponse builds the response for a movement result.
func NewMovementResponse(r *ports.MovementResult) MovementResponse {
	return MovementResponse{
		AccountID:   r.AccountID,
		Amount:      r.Amount,
		Balance:     r.Balance,
		Recorded:    r.Recorded,
		Transaction: NewTransactionResponse(r.Transaction),
	}
}

// EmployeeResponse is the API view of a roster entry.
type EmployeeResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewEmployeeResponses converts a roster in order.
func NewEmployeeResponses(employees []domain.Employee) []EmployeeResponse {
	out := make([]EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		out = append(out, EmployeeResponse{ID: e.ID, Name: e.Name})
	}
	return out
}

// SummaryResponse is the response for the ledger summary.
type SummaryResponse struct {
	Name           string          `json:"name"`
	Accounts       int             `json:"accounts"`
	ActiveAccounts int             `json:"active_accounts"`
	TotalBalance   decimal.Decimal `json:"total_balance"`
}
