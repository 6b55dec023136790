package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SavingsAccount earns interest and keeps a minimum balance.
type SavingsAccount struct {
	*core
	interestRate   decimal.Decimal // Fraction per accrual period, 0.02 = 2%
	minimumBalance decimal.Decimal
}

// NewSavingsAccount opens a savings account.
func NewSavingsAccount(id, owner string, opening, interestRate, minimumBalance decimal.Decimal) (*SavingsAccount, error) {
	if err := checkParam("interest rate", interestRate); err != nil {
		return nil, err
	}
	if err := checkParam("minimum balance", minimumBalance); err != nil {
		return nil, err
	}
	c, err := newCore(AccountKindSavings, id, owner, opening)
	if err != nil {
		return nil, err
	}
	return &SavingsAccount{core: c, interestRate: interestRate, minimumBalance: minimumBalance}, nil
}

// InterestRate returns the per-period rate as a fraction.
func (a *SavingsAccount) InterestRate() decimal.Decimal { return a.interestRate }

// MinimumBalance returns the withdrawal floor.
func (a *SavingsAccount) MinimumBalance() decimal.Decimal { return a.minimumBalance }

// Withdraw refuses any withdrawal that would leave less than the minimum
// balance, even when the funds are there.
func (a *SavingsAccount) Withdraw(amount decimal.Decimal) (Transaction, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.checkMovementLocked(amount); err != nil {
		return Transaction{}, err
	}
	if a.balance.Sub(amount).LessThan(a.minimumBalance) {
		return Transaction{}, fmt.Errorf("%w: minimum %s, balance %s, requested %s",
			ErrBelowMinimumBalance, a.minimumBalance, a.balance, amount)
	}
	return a.withdrawLocked(amount)
}

// AddInterest credits balance*rate, rounded to cents, when the balance is at
// or above the minimum. The returned entry's Amount is the interest accrued.
// Zero interest is reported without touching the log.
func (a *SavingsAccount) AddInterest() (Transaction, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.active {
		return Transaction{}, ErrAccountInactive
	}
	if a.balance.LessThan(a.minimumBalance) {
		return Transaction{}, fmt.Errorf("%w: minimum %s, balance %s",
			ErrBelowMinimumBalance, a.minimumBalance, a.balance)
	}
	interest := a.balance.Mul(a.interestRate).Round(2)
	if !interest.IsPositive() {
		return a.unrecordedLocked(TransactionKindInterestAccrual), nil
	}
	a.balance = a.balance.Add(interest)
	return a.recordLocked(TransactionKindInterestAccrual, interest), nil
}

// Info returns a human-readable summary including the interest rate.
func (a *SavingsAccount) Info() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return fmt.Sprintf("%s, Interest Rate: %s%%, Minimum Balance: $%s",
		a.infoLocked(), a.interestRate.Shift(2).String(), a.minimumBalance.StringFixed(2))
}

// Snapshot returns a detached copy of the account state.
func (a *SavingsAccount) Snapshot() AccountSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := a.snapshotLocked()
	s.InterestRate = a.interestRate
	s.MinimumBalance = a.minimumBalance
	return s
}
