package domain

import "errors"

// Domain errors. Every one of them is a rejected operation: the account or
// ledger that returned it has not been modified.
var (
	ErrInvalidAmount          = errors.New("amount must be a positive number")
	ErrAccountInactive        = errors.New("account is inactive")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrBelowMinimumBalance    = errors.New("balance would fall below the minimum balance")
	ErrOverdraftLimitExceeded = errors.New("overdraft limit exceeded")
	ErrAccountNotFound        = errors.New("account not found")
	ErrUnknownAccountKind     = errors.New("unknown account kind")
	ErrDuplicateEmployee      = errors.New("employee already on roster")
	ErrEmployeeNotFound       = errors.New("employee not found")
	ErrInvalidEmployee        = errors.New("employee id and name are required")
	ErrInvalidParameter       = errors.New("invalid account parameter")
	ErrOperationNotSupported  = errors.New("operation not supported for this account kind")
)

// ErrInconsistentLog reports a restored account whose stored history is incomplete.
var ErrInconsistentLog = errors.New("transaction log does not match account")
