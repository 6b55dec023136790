package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultBusinessType is used when a business account is opened without one.
const DefaultBusinessType = "LLC"

// Employee is a member of a business account's roster.
type Employee struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BusinessAccount carries an employee roster and a fixed monthly fee.
// Fees may take the balance below zero.
type BusinessAccount struct {
	*core
	businessType string
	monthlyFee   decimal.Decimal
	employees    []Employee
}

// NewBusinessAccount opens a business account.
func NewBusinessAccount(id, owner string, opening decimal.Decimal, businessType string, monthlyFee decimal.Decimal) (*BusinessAccount, error) {
	if err := checkParam("monthly fee", monthlyFee); err != nil {
		return nil, err
	}
	if strings.TrimSpace(businessType) == "" {
		businessType = DefaultBusinessType
	}
	c, err := newCore(AccountKindBusiness, id, owner, opening)
	if err != nil {
		return nil, err
	}
	return &BusinessAccount{core: c, businessType: businessType, monthlyFee: monthlyFee}, nil
}

// BusinessType returns the legal form, e.g. LLC.
func (a *BusinessAccount) BusinessType() string { return a.businessType }

// MonthlyFee returns the fee charged by ChargeMonthlyFee.
func (a *BusinessAccount) MonthlyFee() decimal.Decimal { return a.monthlyFee }

// AddEmployee puts an employee on the roster. IDs are unique; a second
// employee with the same ID is rejected rather than overwriting the first.
func (a *BusinessAccount) AddEmployee(name, id string) error {
	name, id = strings.TrimSpace(name), strings.TrimSpace(id)
	if name == "" || id == "" {
		return ErrInvalidEmployee
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.indexLocked(id) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateEmployee, id)
	}
	a.employees = append(a.employees, Employee{ID: id, Name: name})
	return nil
}

// RemoveEmployee takes an employee off the roster and returns it.
func (a *BusinessAccount) RemoveEmployee(id string) (Employee, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	i := a.indexLocked(strings.TrimSpace(id))
	if i < 0 {
		return Employee{}, fmt.Errorf("%w: %s", ErrEmployeeNotFound, id)
	}
	removed := a.employees[i]
	a.employees = append(a.employees[:i:i], a.employees[i+1:]...)
	return removed, nil
}

// Employees returns a copy of the roster in the order employees were added.
func (a *BusinessAccount) Employees() []Employee {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Employee, len(a.employees))
	copy(out, a.employees)
	return out
}

func (a *BusinessAccount) indexLocked(id string) int {
	for i, e := range a.employees {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// ChargeMonthlyFee deducts the fee. The balance is allowed to go negative.
// A zero fee is reported without touching the log.
func (a *BusinessAccount) ChargeMonthlyFee() (Transaction, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.active {
		return Transaction{}, ErrAccountInactive
	}
	if !a.monthlyFee.IsPositive() {
		return a.unrecordedLocked(TransactionKindFee), nil
	}
	a.balance = a.balance.Sub(a.monthlyFee)
	return a.recordLocked(TransactionKindFee, a.monthlyFee), nil
}

// Info returns a human-readable summary including business details.
func (a *BusinessAccount) Info() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return fmt.Sprintf("%s, Business Type: %s, Employees: %d, Monthly Fee: $%s",
		a.infoLocked(), a.businessType, len(a.employees), a.monthlyFee.StringFixed(2))
}

// Snapshot returns a detached copy of the account state.
func (a *BusinessAccount) Snapshot() AccountSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := a.snapshotLocked()
	s.BusinessType = a.businessType
	s.MonthlyFee = a.monthlyFee
	s.Employees = make([]Employee, len(a.employees))
	copy(s.Employees, a.employees)
	return s
}
