package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

// DefaultFirstAccountNumber is the first identifier a new Ledger hands out.
const DefaultFirstAccountNumber int64 = 1000

// Defaults are the per-kind parameters used when a create request leaves them out.
type Defaults struct {
	InterestRate       decimal.Decimal
	MinimumBalance     decimal.Decimal
	OverdraftLimit     decimal.Decimal
	OverdraftRepayment OverdraftRepayment
	MonthlyFee         decimal.Decimal
	BusinessType       string
}

// DefaultParams returns the stock defaults: 2% interest over a 100 floor,
// 500 overdraft, 25 monthly business fee.
func DefaultParams() Defaults {
	return Defaults{
		InterestRate:       decimal.RequireFromString("0.02"),
		MinimumBalance:     decimal.NewFromInt(100),
		OverdraftLimit:     decimal.NewFromInt(500),
		OverdraftRepayment: OverdraftRepaymentNone,
		MonthlyFee:         decimal.NewFromInt(25),
		BusinessType:       DefaultBusinessType,
	}
}

// AccountParams override Defaults for a single account. Nil means "use default".
type AccountParams struct {
	InterestRate   *decimal.Decimal
	MinimumBalance *decimal.Decimal
	OverdraftLimit *decimal.Decimal
	MonthlyFee     *decimal.Decimal
	BusinessType   string
}

// LedgerSummary aggregates the ledger's accounts.
type LedgerSummary struct {
	Name           string          `json:"name"`
	Accounts       int             `json:"accounts"`
	ActiveAccounts int             `json:"active_accounts"`
	TotalBalance   decimal.Decimal `json:"total_balance"`
}

// Ledger is the registry that assigns account identifiers and owns accounts.
type Ledger struct {
	name        string
	firstNumber int64
	defaults    Defaults

	mu         sync.RWMutex
	nextNumber int64
	accounts   map[string]Account
}

// NewLedger creates an empty ledger numbering accounts from firstNumber.
func NewLedger(name string, firstNumber int64, defaults Defaults) *Ledger {
	return &Ledger{
		name:        name,
		firstNumber: firstNumber,
		defaults:    defaults,
		nextNumber:  firstNumber,
		accounts:    make(map[string]Account),
	}
}

// Name returns the ledger's display name.
func (l *Ledger) Name() string { return l.name }

// CreateAccount opens an account of the given kind and returns its identifier.
// On failure no account is registered and no identifier is consumed.
func (l *Ledger) CreateAccount(kind, owner string, opening decimal.Decimal, params AccountParams) (string, error) {
	k, err := ParseAccountKind(kind)
	if err != nil {
		return "", err
	}
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return "", fmt.Errorf("%w: owner is required", ErrInvalidParameter)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	id := strconv.FormatInt(l.nextNumber, 10)
	acct, err := l.build(k, id, owner, opening, params)
	if err != nil {
		return "", err
	}
	l.accounts[id] = acct
	l.nextNumber++
	return id, nil
}

func (l *Ledger) build(kind AccountKind, id, owner string, opening decimal.Decimal, p AccountParams) (Account, error) {
	d := l.defaults
	switch kind {
	case AccountKindSavings:
		return NewSavingsAccount(id, owner, opening, orDefault(p.InterestRate, d.InterestRate), orDefault(p.MinimumBalance, d.MinimumBalance))
	case AccountKindChecking:
		return NewCheckingAccount(id, owner, opening, orDefault(p.OverdraftLimit, d.OverdraftLimit), d.OverdraftRepayment)
	case AccountKindBusiness:
		businessType := p.BusinessType
		if businessType == "" {
			businessType = d.BusinessType
		}
		return NewBusinessAccount(id, owner, opening, businessType, orDefault(p.MonthlyFee, d.MonthlyFee))
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAccountKind, kind)
}

func orDefault(v *decimal.Decimal, def decimal.Decimal) decimal.Decimal {
	if v == nil {
		return def
	}
	return *v
}

// GetAccount looks an account up by identifier.
func (l *Ledger) GetAccount(id string) (Account, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	acct, ok := l.accounts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, id)
	}
	return acct, nil
}

// Accounts returns every account ordered by identifier.
func (l *Ledger) Accounts() []Account {
	l.mu.RLock()
	out := make([]Account, 0, len(l.accounts))
	for _, a := range l.accounts {
		out = append(out, a)
	}
	l.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return lessID(out[i].ID(), out[j].ID()) })
	return out
}

// lessID orders numeric identifiers numerically and everything else lexically.
func lessID(a, b string) bool {
	na, errA := strconv.ParseInt(a, 10, 64)
	nb, errB := strconv.ParseInt(b, 10, 64)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}

// Summary returns account counts and the sum of all balances.
func (l *Ledger) Summary() LedgerSummary {
	accts := l.Accounts()
	s := LedgerSummary{Name: l.name, Accounts: len(accts), TotalBalance: decimal.Zero}
	for _, a := range accts {
		if a.IsActive() {
			s.ActiveAccounts++
		}
		s.TotalBalance = s.TotalBalance.Add(a.Balance())
	}
	return s
}

// Restore replaces the ledger's contents with accounts rebuilt from
// snapshots. Numbering resumes after the highest numeric identifier.
// Nothing is replaced if any snapshot is invalid.
func (l *Ledger) Restore(snapshots []AccountSnapshot) error {
	accounts := make(map[string]Account, len(snapshots))
	next := l.firstNumber
	for _, s := range snapshots {
		acct, err := RestoreAccount(s)
		if err != nil {
			return fmt.Errorf("restore account %s: %w", s.ID, err)
		}
		accounts[s.ID] = acct
		if n, err := strconv.ParseInt(s.ID, 10, 64); err == nil && n >= next {
			next = n + 1
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.accounts = accounts
	l.nextNumber = next
	return nil
}
