package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionKind represents the kind of balance movement.
type TransactionKind string

const (
	TransactionKindDeposit             TransactionKind = "DEPOSIT"
	TransactionKindWithdrawal          TransactionKind = "WITHDRAWAL"
	TransactionKindInterestAccrual     TransactionKind = "INTEREST_ACCRUAL"
	TransactionKindFee                 TransactionKind = "FEE"
	TransactionKindOverdraftWithdrawal TransactionKind = "OVERDRAFT_WITHDRAWAL"
)

// IsDebit returns true if the kind takes money out of the account.
func (k TransactionKind) IsDebit() bool {
	return k == TransactionKindWithdrawal ||
		k == TransactionKindFee ||
		k == TransactionKindOverdraftWithdrawal
}

// Transaction is one immutable audit entry of an account's log.
type Transaction struct {
	ID               uuid.UUID       `json:"id"`
	AccountID        string          `json:"account_id"`
	Sequence         int64           `json:"sequence"` // 1-based, increasing within the account, 0 when unrecorded
	Kind             TransactionKind `json:"kind"`
	Amount           decimal.Decimal `json:"amount"`            // Always positive, sign implied by Kind
	ResultingBalance decimal.Decimal `json:"resulting_balance"` // Balance right after this entry
	CreatedAt        time.Time       `json:"created_at"`
}

// Recorded returns false for the zero-amount outcomes (no interest, no fee)
// that were reported to the caller but never appended to the log.
func (t Transaction) Recorded() bool {
	return t.ID != uuid.Nil
}
