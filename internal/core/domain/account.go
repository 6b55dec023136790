package domain

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountKind identifies the balance policy an account follows.
type AccountKind string

const (
	AccountKindBasic    AccountKind = "BASIC"
	AccountKindSavings  AccountKind = "SAVINGS"
	AccountKindChecking AccountKind = "CHECKING"
	AccountKindBusiness AccountKind = "BUSINESS"
)

// ParseAccountKind maps user input to one of the kinds a Ledger can open.
// BASIC is not among them: plain accounts are only built directly.
func ParseAccountKind(s string) (AccountKind, error) {
	switch AccountKind(strings.ToUpper(strings.TrimSpace(s))) {
	case AccountKindSavings:
		return AccountKindSavings, nil
	case AccountKindChecking:
		return AccountKindChecking, nil
	case AccountKindBusiness:
		return AccountKindBusiness, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAccountKind, s)
}

// Account is the behavior shared by every account kind.
// Mutations return the appended log entry; its ResultingBalance is the new balance.
type Account interface {
	ID() string
	Owner() string
	Kind() AccountKind
	Balance() decimal.Decimal
	IsActive() bool
	Activate()
	Deactivate()
	Deposit(amount decimal.Decimal) (Transaction, error)
	Withdraw(amount decimal.Decimal) (Transaction, error)
	Transactions() []Transaction
	Info() string
	Snapshot() AccountSnapshot
}

// AccountSnapshot is a detached copy of an account's full state.
// Fields that do not apply to the account's kind are left zero.
type AccountSnapshot struct {
	ID                 string             `json:"id"`
	Kind               AccountKind        `json:"kind"`
	Owner              string             `json:"owner"`
	Balance            decimal.Decimal    `json:"balance"`
	Active             bool               `json:"active"`
	Transactions       []Transaction      `json:"transactions"`
	InterestRate       decimal.Decimal    `json:"interest_rate"`
	MinimumBalance     decimal.Decimal    `json:"minimum_balance"`
	OverdraftLimit     decimal.Decimal    `json:"overdraft_limit"`
	OverdraftUsed      decimal.Decimal    `json:"overdraft_used"`
	OverdraftRepayment OverdraftRepayment `json:"overdraft_repayment,omitempty"`
	MonthlyFee         decimal.Decimal    `json:"monthly_fee"`
	BusinessType       string             `json:"business_type,omitempty"`
	Employees          []Employee         `json:"employees,omitempty"`
}

// core holds the state every account kind shares. All mutable fields are
// guarded by mu; id, owner and kind never change after construction.
type core struct {
	mu           sync.Mutex
	id           string
	owner        string
	kind         AccountKind
	balance      decimal.Decimal
	active       bool
	transactions []Transaction
}

func newCore(kind AccountKind, id, owner string, opening decimal.Decimal) (*core, error) {
	if err := CheckAmount(opening); err != nil {
		return nil, err
	}
	if opening.IsNegative() {
		return nil, fmt.Errorf("%w: opening balance %s", ErrInvalidAmount, opening)
	}
	return &core{
		id:      id,
		owner:   owner,
		kind:    kind,
		balance: opening,
		active:  true,
	}, nil
}

func (c *core) ID() string        { return c.id }
func (c *core) Owner() string     { return c.owner }
func (c *core) Kind() AccountKind { return c.kind }

// Balance returns the current balance.
func (c *core) Balance() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.balance
}

// IsActive reports whether balance-changing operations are accepted.
func (c *core) IsActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Activate re-opens the account for mutations. Idempotent, never logged.
func (c *core) Activate() {
	c.mu.Lock()
	c.active = true
	c.mu.Unlock()
}

// Deactivate freezes the balance. Reads keep working. Idempotent, never logged.
func (c *core) Deactivate() {
	c.mu.Lock()
	c.active = false
	c.mu.Unlock()
}

// Transactions returns a copy of the log in insertion order.
func (c *core) Transactions() []Transaction {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Transaction, len(c.transactions))
	copy(out, c.transactions)
	return out
}

// Deposit adds amount to the balance.
func (c *core) Deposit(amount decimal.Decimal) (Transaction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkMovementLocked(amount); err != nil {
		return Transaction{}, err
	}
	c.balance = c.balance.Add(amount)
	return c.recordLocked(TransactionKindDeposit, amount), nil
}

// Withdraw takes amount out of the balance; the balance never goes negative.
func (c *core) Withdraw(amount decimal.Decimal) (Transaction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkMovementLocked(amount); err != nil {
		return Transaction{}, err
	}
	return c.withdrawLocked(amount)
}

func (c *core) withdrawLocked(amount decimal.Decimal) (Transaction, error) {
	if amount.GreaterThan(c.balance) {
		return Transaction{}, fmt.Errorf("%w: balance %s, requested %s", ErrInsufficientFunds, c.balance, amount)
	}
	c.balance = c.balance.Sub(amount)
	return c.recordLocked(TransactionKindWithdrawal, amount), nil
}

// checkMovementLocked applies the checks every movement goes through,
// in order: active gate, then amount validity.
func (c *core) checkMovementLocked(amount decimal.Decimal) error {
	if !c.active {
		return ErrAccountInactive
	}
	if err := CheckAmount(amount); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, amount)
	}
	return nil
}

// recordLocked appends an entry for a movement already applied to the balance.
// Numbering continues from the last entry, so a restored log with gaps
// never reuses a sequence.
func (c *core) recordLocked(kind TransactionKind, amount decimal.Decimal) Transaction {
	var next int64 = 1
	if n := len(c.transactions); n > 0 {
		next = c.transactions[n-1].Sequence + 1
	}
	tx := Transaction{
		ID:               uuid.New(),
		AccountID:        c.id,
		Sequence:         next,
		Kind:             kind,
		Amount:           amount,
		ResultingBalance: c.balance,
		CreatedAt:        time.Now().UTC(),
	}
	c.transactions = append(c.transactions, tx)
	return tx
}

// unrecordedLocked describes a zero movement that is reported but not logged.
func (c *core) unrecordedLocked(kind TransactionKind) Transaction {
	return Transaction{
		AccountID:        c.id,
		Kind:             kind,
		Amount:           decimal.Zero,
		ResultingBalance: c.balance,
	}
}

func (c *core) infoLocked() string {
	return fmt.Sprintf("Account: %s, Holder: %s, Balance: $%s, Active: %t",
		c.id, c.owner, c.balance.StringFixed(2), c.active)
}

func (c *core) snapshotLocked() AccountSnapshot {
	txs := make([]Transaction, len(c.transactions))
	copy(txs, c.transactions)
	return AccountSnapshot{
		ID:           c.id,
		Kind:         c.kind,
		Owner:        c.owner,
		Balance:      c.balance,
		Active:       c.active,
		Transactions: txs,
	}
}

func (c *core) restoreLocked(s AccountSnapshot) {
	c.balance = s.Balance
	c.active = s.Active
	c.transactions = make([]Transaction, len(s.Transactions))
	copy(c.transactions, s.Transactions)
}

// CheckLog reports the first inconsistency in a snapshot's log: sequences
// that are not 1, 2, 3... or a final entry whose resulting balance is not
// the snapshot's balance. Both show that writes to the database were lost.
func (s AccountSnapshot) CheckLog() error {
	for i, tx := range s.Transactions {
		if want := int64(i) + 1; tx.Sequence != want {
			return fmt.Errorf("%w: entry %d has sequence %d", ErrInconsistentLog, want, tx.Sequence)
		}
	}
	if n := len(s.Transactions); n > 0 && !s.Transactions[n-1].ResultingBalance.Equal(s.Balance) {
		return fmt.Errorf("%w: last entry leaves %s, balance is %s",
			ErrInconsistentLog, s.Transactions[n-1].ResultingBalance, s.Balance)
	}
	return nil
}

// BasicAccount is a plain account: no interest, no overdraft, no fees.
type BasicAccount struct {
	*core
}

// NewBasicAccount opens a plain account with a non-negative opening balance.
func NewBasicAccount(id, owner string, opening decimal.Decimal) (*BasicAccount, error) {
	c, err := newCore(AccountKindBasic, id, owner, opening)
	if err != nil {
		return nil, err
	}
	return &BasicAccount{core: c}, nil
}

// Info returns a human-readable summary.
func (a *BasicAccount) Info() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.infoLocked()
}

// Snapshot returns a detached copy of the account state.
func (a *BasicAccount) Snapshot() AccountSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

// RestoreAccount rebuilds an account of any kind from a snapshot.
func RestoreAccount(s AccountSnapshot) (Account, error) {
	switch s.Kind {
	case AccountKindBasic:
		a, err := NewBasicAccount(s.ID, s.Owner, decimal.Zero)
		if err != nil {
			return nil, err
		}
		a.restoreLocked(s)
		return a, nil
	case AccountKindSavings:
		a, err := NewSavingsAccount(s.ID, s.Owner, decimal.Zero, s.InterestRate, s.MinimumBalance)
		if err != nil {
			return nil, err
		}
		a.restoreLocked(s)
		return a, nil
	case AccountKindChecking:
		a, err := NewCheckingAccount(s.ID, s.Owner, decimal.Zero, s.OverdraftLimit, s.OverdraftRepayment)
		if err != nil {
			return nil, err
		}
		a.restoreLocked(s)
		a.overdraftUsed = s.OverdraftUsed
		return a, nil
	case AccountKindBusiness:
		a, err := NewBusinessAccount(s.ID, s.Owner, decimal.Zero, s.BusinessType, s.MonthlyFee)
		if err != nil {
			return nil, err
		}
		a.restoreLocked(s)
		a.employees = make([]Employee, len(s.Employees))
		copy(a.employees, s.Employees)
		return a, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAccountKind, s.Kind)
}
