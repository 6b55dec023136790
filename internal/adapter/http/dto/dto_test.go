package dto

import (
	"encoding/json"
	"testing"
	"time"

	"bank-ledger/internal/core/domain"
	"bank-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney_UnmarshalJSON(t *testing.T) {
	var req MovementRequest
	require.NoError(t, json.Unmarshal([]byte(`{"amount": 12.50}`), &req))
	assert.True(t, req.Amount.Equal(decimal.RequireFromString("12.5")))

	require.NoError(t, json.Unmarshal([]byte(`{"amount": "0.10"}`), &req))
	assert.True(t, req.Amount.Equal(decimal.RequireFromString("0.1")))

	err := json.Unmarshal([]byte(`{"amount": "ten"}`), &req)
	assert.ErrorIs(t, err, ErrMalformedMoney)

	req = MovementRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{}`), &req))
	assert.Nil(t, req.Amount)
}

func TestMoney_UnmarshalJSON_Bounds(t *testing.T) {
	tests := []struct {
		name string
		body string
		ok   bool
	}{
		{"eight places", `{"amount":"0.00000001"}`, true},
		{"just below cap", `{"amount":"999999999999999.99"}`, true},
		{"nine places", `{"amount":"0.000000001"}`, false},
		{"tiny exponent", `{"amount":"1e-30000000"}`, false},
		{"huge exponent", `{"amount":"1e30000000"}`, false},
		{"at cap", `{"amount":1000000000000000}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req MovementRequest
			err := json.Unmarshal([]byte(tt.body), &req)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrMalformedMoney)
			assert.ErrorIs(t, err, domain.ErrInvalidAmount)
		})
	}
}

func TestOpenAccountRequest_ToPort(t *testing.T) {
	var req OpenAccountRequest
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"savings","owner":"Alice","interest_rate":"0.05"}`), &req))

	p := req.ToPort()
	assert.Equal(t, "savings", p.Kind)
	assert.True(t, p.OpeningBalance.IsZero(), "missing opening balance opens at zero")
	require.NotNil(t, p.InterestRate)
	assert.True(t, p.InterestRate.Equal(decimal.RequireFromString("0.05")))
	assert.Nil(t, p.MinimumBalance)
	assert.Nil(t, p.OverdraftLimit)
	assert.Nil(t, p.MonthlyFee)
}

func TestNewAccountResponse_KindSpecificFields(t *testing.T) {
	savings := NewAccountResponse(domain.AccountSnapshot{
		ID:             "1000",
		Kind:           domain.AccountKindSavings,
		InterestRate:   decimal.RequireFromString("0.02"),
		MinimumBalance: decimal.NewFromInt(100),
		Transactions:   make([]domain.Transaction, 3),
	})
	assert.Equal(t, 3, savings.TransactionCount)
	require.NotNil(t, savings.InterestRate)
	assert.Nil(t, savings.OverdraftLimit)
	assert.Nil(t, savings.MonthlyFee)

	business := NewAccountResponse(domain.AccountSnapshot{
		ID:           "1001",
		Kind:         domain.AccountKindBusiness,
		BusinessType: "LLC",
		Employees:    []domain.Employee{{ID: "e-1", Name: "Bob"}},
	})
	assert.Nil(t, business.InterestRate)
	require.NotNil(t, business.MonthlyFee)
	assert.Equal(t, []EmployeeResponse{{ID: "e-1", Name: "Bob"}}, business.Employees)
}

func TestNewMovementResponse_Unrecorded(t *testing.T) {
	resp := NewMovementResponse(&ports.MovementResult{
		AccountID: "1000",
		Transaction: domain.Transaction{
			AccountID:        "1000",
			Kind:             domain.TransactionKindInterestAccrual,
			ResultingBalance: decimal.NewFromInt(500),
		},
		Balance: decimal.NewFromInt(500),
	})
	assert.False(t, resp.Recorded)
	assert.Empty(t, resp.Transaction.ID)
	assert.Empty(t, resp.Transaction.CreatedAt)
	assert.Zero(t, resp.Transaction.Sequence)
}

func TestNewTransactionResponse_Recorded(t *testing.T) {
	id := uuid.New()
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	resp := NewTransactionResponse(domain.Transaction{
		ID:               id,
		Sequence:         7,
		Kind:             domain.TransactionKindDeposit,
		Amount:           decimal.NewFromInt(50),
		ResultingBalance: decimal.NewFromInt(150),
		CreatedAt:        at,
	})
	assert.Equal(t, id.String(), resp.ID)
	assert.Equal(t, int64(7), resp.Sequence)
	assert.Equal(t, "DEPOSIT", resp.Kind)
	assert.Equal(t, "2026-01-02T03:04:05Z", resp.CreatedAt)
}
