package handler

import (
	"bank-ledger/internal/adapter/http/dto"
	"bank-ledger/internal/core/ports"
	"bank-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// LedgerHandler handles ledger-wide endpoints.
type LedgerHandler struct {
	ledgerSvc ports.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerSvc ports.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerSvc: ledgerSvc}
}

// Summary handles GET /api/v1/ledger/summary.
func (h *LedgerHandler) Summary(c *gin.Context) {
	s, err := h.ledgerSvc.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.SummaryResponse{
		Name:           s.Name,
		Accounts:       s.Accounts,
		ActiveAccounts: s.ActiveAccounts,
		TotalBalance:   s.TotalBalance,
	})
}
