package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped cause, not exposed to clients
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps a cause with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Ledger Business Logic (LED) ----
// Each constructor takes the domain error it reports so errors.Is keeps working.

func ErrInvalidAmount(err error) *AppError {
	return Wrap("LED_001", "Invalid amount", http.StatusBadRequest, err)
}

func ErrAccountInactive(err error) *AppError {
	return Wrap("LED_002", "Account is inactive", http.StatusConflict, err)
}

func ErrInsufficientFunds(err error) *AppError {
	return Wrap("LED_003", "Insufficient funds", http.StatusPaymentRequired, err)
}

func ErrBelowMinimumBalance(err error) *AppError {
	return Wrap("LED_004", "Balance would fall below the minimum balance", http.StatusUnprocessableEntity, err)
}

func ErrOverdraftLimitExceeded(err error) *AppError {
	return Wrap("LED_005", "Overdraft limit exceeded", http.StatusUnprocessableEntity, err)
}

func ErrNotFound(entity string, err error) *AppError {
	return Wrap("LED_006", fmt.Sprintf("%s not found", entity), http.StatusNotFound, err)
}

func ErrUnknownAccountKind(err error) *AppError {
	return Wrap("LED_007", "Unknown account kind", http.StatusBadRequest, err)
}

func ErrDuplicateEmployee(err error) *AppError {
	return Wrap("LED_008", "Employee already on roster", http.StatusConflict, err)
}

func ErrInvalidParameter(err error) *AppError {
	return Wrap("LED_009", "Invalid account parameter", http.StatusBadRequest, err)
}

func ErrOperationNotSupported(err error) *AppError {
	return Wrap("LED_010", "Operation not supported for this account kind", http.StatusBadRequest, err)
}

func ErrRequestInProgress() *AppError {
	return New("LED_011", "A request with this idempotency key is already in progress", http.StatusConflict)
}

func ErrIdempotencyKeyReused() *AppError {
	return New("LED_012", "Idempotency key was already used with a different request", http.StatusUnprocessableEntity)
}

// ---- Request (REQ) ----

func ErrPayloadTooLarge() *AppError {
	return New("REQ_001", "Request body too large", http.StatusRequestEntityTooLarge)
}

// ---- Authentication (AUTH) ----

func ErrInvalidToken() *AppError {
	return New("AUTH_001", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a LED_001-style validation error for malformed input.
func Validation(message string) *AppError {
	return New("LED_001", message, http.StatusBadRequest)
}
