package handler

import (
	"context"

	"bank-ledger/internal/adapter/http/dto"
	"bank-ledger/internal/core/domain"
	"bank-ledger/internal/core/ports"
	"bank-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// AccountHandler handles account endpoints.
type AccountHandler struct {
	ledgerSvc ports.LedgerService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(ledgerSvc ports.LedgerService) *AccountHandler {
	return &AccountHandler{ledgerSvc: ledgerSvc}
}

// Open handles POST /api/v1/accounts.
func (h *AccountHandler) Open(c *gin.Context) {
	var req dto.OpenAccountRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	snap, err := h.ledgerSvc.OpenAccount(c.Request.Context(), req.ToPort())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewAccountResponse(*snap))
}

// List handles GET /api/v1/accounts.
func (h *AccountHandler) List(c *gin.Context) {
	snaps, err := h.ledgerSvc.ListAccounts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	out := make([]dto.AccountResponse, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, dto.NewAccountResponse(s))
	}
	response.List(c, out)
}

// Get handles GET /api/v1/accounts/:id.
func (h *AccountHandler) Get(c *gin.Context) {
	h.respondSnapshot(c, h.ledgerSvc.GetAccount)
}

// Activate handles POST /api/v1/accounts/:id/activate.
func (h *AccountHandler) Activate(c *gin.Context) {
	h.respondSnapshot(c, h.ledgerSvc.Activate)
}

// Deactivate handles POST /api/v1/accounts/:id/deactivate.
func (h *AccountHandler) Deactivate(c *gin.Context) {
	h.respondSnapshot(c, h.ledgerSvc.Deactivate)
}

func (h *AccountHandler) respondSnapshot(c *gin.Context, fn func(ctx context.Context, accountID string) (*domain.AccountSnapshot, error)) {
	snap, err := fn(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewAccountResponse(*snap))
}

// Deposit handles POST /api/v1/accounts/:id/deposit.
func (h *AccountHandler) Deposit(c *gin.Context) {
	h.movement(c, h.ledgerSvc.Deposit)
}

// Withdraw handles POST /api/v1/accounts/:id/withdraw.
func (h *AccountHandler) Withdraw(c *gin.Context) {
	h.movement(c, h.ledgerSvc.Withdraw)
}

func (h *AccountHandler) movement(c *gin.Context, fn func(context.Context, ports.MovementRequest) (*ports.MovementResult, error)) {
	key, appErr := idempotencyKey(c)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	var req dto.MovementRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	result, err := fn(c.Request.Context(), ports.MovementRequest{
		AccountID:      c.Param("id"),
		Amount:         req.Amount.Decimal,
		IdempotencyKey: key,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewMovementResponse(result))
}

// AddInterest handles POST /api/v1/accounts/:id/interest.
func (h *AccountHandler) AddInterest(c *gin.Context) {
	h.operation(c, h.ledgerSvc.AddInterest)
}

// ChargeFee handles POST /api/v1/accounts/:id/fee.
func (h *AccountHandler) ChargeFee(c *gin.Context) {
	h.operation(c, h.ledgerSvc.ChargeMonthlyFee)
}

func (h *AccountHandler) operation(c *gin.Context, fn func(context.Context, ports.OperationRequest) (*ports.MovementResult, error)) {
	key, appErr := idempotencyKey(c)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}

	result, err := fn(c.Request.Context(), ports.OperationRequest{
		AccountID:      c.Param("id"),
		IdempotencyKey: key,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewMovementResponse(result))
}

// ListTransactions handles GET /api/v1/accounts/:id/transactions.
func (h *AccountHandler) ListTransactions(c *gin.Context) {
	txs, err := h.ledgerSvc.ListTransactions(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, dto.NewTransactionResponses(txs))
}

// ListEmployees handles GET /api/v1/accounts/:id/employees.
func (h *AccountHandler) ListEmployees(c *gin.Context) {
	employees, err := h.ledgerSvc.ListEmployees(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, dto.NewEmployeeResponses(employees))
}

// AddEmployee handles POST /api/v1/accounts/:id/employees.
func (h *AccountHandler) AddEmployee(c *gin.Context) {
	var req dto.AddEmployeeRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	employees, err := h.ledgerSvc.AddEmployee(c.Request.Context(), c.Param("id"), domain.Employee{ID: req.ID, Name: req.Name})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewEmployeeResponses(employees))
}

// RemoveEmployee handles DELETE /api/v1/accounts/:id/employees/:employee_id.
func (h *AccountHandler) RemoveEmployee(c *gin.Context) {
	removed, err := h.ledgerSvc.RemoveEmployee(c.Request.Context(), c.Param("id"), c.Param("employee_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.EmployeeResponse{ID: removed.ID, Name: removed.Name})
}
