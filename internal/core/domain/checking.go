package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// OverdraftRepayment decides what a deposit does with outstanding overdraft.
type OverdraftRepayment string

const (
	// OverdraftRepaymentNone leaves overdraft used untouched; deposits only raise the balance.
	OverdraftRepaymentNone OverdraftRepayment = "none"
	// OverdraftRepaymentDepositFirst pays overdraft down first, the remainder raises the balance.
	OverdraftRepaymentDepositFirst OverdraftRepayment = "deposit_first"
)

// ParseOverdraftRepayment maps a config value to a policy. Empty means none.
func ParseOverdraftRepayment(s string) (OverdraftRepayment, error) {
	switch OverdraftRepayment(strings.ToLower(strings.TrimSpace(s))) {
	case "", OverdraftRepaymentNone:
		return OverdraftRepaymentNone, nil
	case OverdraftRepaymentDepositFirst:
		return OverdraftRepaymentDepositFirst, nil
	}
	return "", fmt.Errorf("%w: overdraft repayment %q", ErrInvalidParameter, s)
}

// CheckingAccount may draw past a zero balance up to its overdraft limit.
// Overdraft drawn is tracked in overdraftUsed; the balance itself stays at zero.
type CheckingAccount struct {
	*core
	overdraftLimit decimal.Decimal
	overdraftUsed  decimal.Decimal
	repayment      OverdraftRepayment
}

// NewCheckingAccount opens a checking account.
func NewCheckingAccount(id, owner string, opening, overdraftLimit decimal.Decimal, repayment OverdraftRepayment) (*CheckingAccount, error) {
	if err := checkParam("overdraft limit", overdraftLimit); err != nil {
		return nil, err
	}
	repayment, err := ParseOverdraftRepayment(string(repayment))
	if err != nil {
		return nil, err
	}
	c, err := newCore(AccountKindChecking, id, owner, opening)
	if err != nil {
		return nil, err
	}
	return &CheckingAccount{core: c, overdraftLimit: overdraftLimit, repayment: repayment}, nil
}

// OverdraftLimit returns the maximum overdraft.
func (a *CheckingAccount) OverdraftLimit() decimal.Decimal { return a.overdraftLimit }

// OverdraftUsed returns the overdraft currently drawn.
func (a *CheckingAccount) OverdraftUsed() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.overdraftUsed
}

// Deposit raises the balance. Under OverdraftRepaymentDepositFirst the
// overdraft is repaid before the balance grows.
func (a *CheckingAccount) Deposit(amount decimal.Decimal) (Transaction, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.checkMovementLocked(amount); err != nil {
		return Transaction{}, err
	}
	credit := amount
	if a.repayment == OverdraftRepaymentDepositFirst && a.overdraftUsed.IsPositive() {
		repaid := decimal.Min(credit, a.overdraftUsed)
		a.overdraftUsed = a.overdraftUsed.Sub(repaid)
		credit = credit.Sub(repaid)
	}
	a.balance = a.balance.Add(credit)
	return a.recordLocked(TransactionKindDeposit, amount), nil
}

// Withdraw pays from the balance first and the overdraft for the shortfall.
func (a *CheckingAccount) Withdraw(amount decimal.Decimal) (Transaction, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.checkMovementLocked(amount); err != nil {
		return Transaction{}, err
	}
	if amount.LessThanOrEqual(a.balance) {
		return a.withdrawLocked(amount)
	}

	shortfall := amount.Sub(a.balance)
	available := a.overdraftLimit.Sub(a.overdraftUsed)
	if shortfall.GreaterThan(available) {
		return Transaction{}, fmt.Errorf("%w: shortfall %s, overdraft available %s",
			ErrOverdraftLimitExceeded, shortfall, available)
	}
	a.overdraftUsed = a.overdraftUsed.Add(shortfall)
	a.balance = decimal.Zero
	return a.recordLocked(TransactionKindOverdraftWithdrawal, amount), nil
}

// Info returns a human-readable summary including overdraft state.
func (a *CheckingAccount) Info() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return fmt.Sprintf("%s, Overdraft Limit: $%s, Overdraft Used: $%s",
		a.infoLocked(), a.overdraftLimit.StringFixed(2), a.overdraftUsed.StringFixed(2))
}

// Snapshot returns a detached copy of the account state.
func (a *CheckingAccount) Snapshot() AccountSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := a.snapshotLocked()
	s.OverdraftLimit = a.overdraftLimit
	s.OverdraftUsed = a.overdraftUsed
	s.OverdraftRepayment = a.repayment
	return s
}
