package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBusiness(t *testing.T, opening, fee string) *BusinessAccount {
	t.Helper()
	a, err := NewBusinessAccount("B1", "Charlie Corp", d(opening), "", d(fee))
	require.NoError(t, err)
	return a
}

func TestBusinessAccount_Roster(t *testing.T) {
	a := newBusiness(t, "5000", "25")
	assert.Equal(t, DefaultBusinessType, a.BusinessType())

	require.NoError(t, a.AddEmployee("David", "E001"))
	require.NoError(t, a.AddEmployee("Eve", "E002"))

	err := a.AddEmployee("Impostor", "E001")
	assert.ErrorIs(t, err, ErrDuplicateEmployee)

	assert.ErrorIs(t, a.AddEmployee("", "E003"), ErrInvalidEmployee)
	assert.ErrorIs(t, a.AddEmployee("Frank", " "), ErrInvalidEmployee)

	assert.Equal(t, []Employee{{ID: "E001", Name: "David"}, {ID: "E002", Name: "Eve"}}, a.Employees())

	removed, err := a.RemoveEmployee("E001")
	require.NoError(t, err)
	assert.Equal(t, "David", removed.Name)

	_, err = a.RemoveEmployee("E001")
	assert.ErrorIs(t, err, ErrEmployeeNotFound)

	assert.Equal(t, []Employee{{ID: "E002", Name: "Eve"}}, a.Employees())
	assert.Empty(t, a.Transactions())
}

func TestBusinessAccount_EmployeesDefensiveCopy(t *testing.T) {
	a := newBusiness(t, "0", "25")
	require.NoError(t, a.AddEmployee("David", "E001"))

	emps := a.Employees()
	emps[0].Name = "Mallory"

	assert.Equal(t, "David", a.Employees()[0].Name)
}

func TestBusinessAccount_ChargeMonthlyFee(t *testing.T) {
	a := newBusiness(t, "30", "25")

	tx, err := a.ChargeMonthlyFee()
	require.NoError(t, err)
	assert.Equal(t, TransactionKindFee, tx.Kind)
	assert.True(t, tx.Amount.Equal(d("25")))
	assert.True(t, a.Balance().Equal(d("5")))

	// Fees may take the balance below zero.
	tx, err = a.ChargeMonthlyFee()
	require.NoError(t, err)
	assert.True(t, tx.ResultingBalance.Equal(d("-20")))
	assert.Len(t, a.Transactions(), 2)

	a.Deactivate()
	_, err = a.ChargeMonthlyFee()
	assert.ErrorIs(t, err, ErrAccountInactive)
	assert.True(t, a.Balance().Equal(d("-20")))
	assert.Len(t, a.Transactions(), 2)
}

func TestBusinessAccount_ZeroFeeRecordsNothing(t *testing.T) {
	a := newBusiness(t, "30", "0")
	tx, err := a.ChargeMonthlyFee()
	require.NoError(t, err)
	assert.False(t, tx.Recorded())
	assert.Empty(t, a.Transactions())
}

func TestBusinessAccount_PlainWithdrawStillGuarded(t *testing.T) {
	a := newBusiness(t, "10", "25")
	_, err := a.Withdraw(d("11"))
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestNewBusinessAccount_NegativeFee(t *testing.T) {
	_, err := NewBusinessAccount("B1", "Corp", d("0"), "LLC", d("-25"))
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestBusinessAccount_InfoAndSnapshot(t *testing.T) {
	a, err := NewBusinessAccount("B1", "Corp", d("100"), "S-Corp", d("25"))
	require.NoError(t, err)
	require.NoError(t, a.AddEmployee("David", "E001"))

	assert.Contains(t, a.Info(), "Business Type: S-Corp, Employees: 1")

	s := a.Snapshot()
	assert.Equal(t, "S-Corp", s.BusinessType)
	assert.True(t, s.MonthlyFee.Equal(d("25")))
	require.Len(t, s.Employees, 1)

	s.Employees[0].Name = "Changed"
	assert.Equal(t, "David", a.Employees()[0].Name)
}
