package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAccountType_IsDebt(t *testing.T) {
	assert.True(t, AccountTypeCreditCard.IsDebt())
	assert.True(t, AccountTypeLoan.IsDebt())
	assert.True(t, AccountTypeMortgage.IsDebt())
	assert.False(t, AccountTypeChecking.IsDebt())
	assert.False(t, AccountTypeInvestment.IsDebt())
}

func TestAccount_Validate(t *testing.T) {
	tests := []struct {
		name    string
		account Account
		wantErr bool
		errMsg  string
	}{
		{"Liquid checking account should pass", Account{ID: uuid.New(), Name: "Main", Type: AccountTypeChecking, IsLiquid: true}, false, ""},
		{"Empty name should fail", Account{ID: uuid.New(), Type: AccountTypeChecking}, true, "name cannot be empty"},
		{"Liquid credit card should fail", Account{ID: uuid.New(), Name: "Visa", Type: AccountTypeCreditCard, IsLiquid: true}, true, "cannot be liquid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.account.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAccount_LiquidView(t *testing.T) {
	acc := Account{ID: uuid.New(), Name: "Main", Type: AccountTypeChecking, IsLiquid: true}
	view := acc.LiquidView(AccountBalances{AccountID: acc.ID, Ledger: decimal.NewFromInt(900), Available: decimal.NewFromInt(850)})

	assert.Equal(t, acc.ID, view.ID)
	assert.True(t, view.Balance.Equal(decimal.NewFromInt(850)))
	assert.True(t, view.IsLiquid)
}

func TestBudgetEnvelope_EffectiveTarget(t *testing.T) {
	e := BudgetEnvelope{Category: "Groceries", TargetAmount: decimal.NewFromInt(400), CarryoverAmount: decimal.NewFromInt(-25)}
	assert.True(t, e.EffectiveTarget().Equal(decimal.NewFromInt(375)))
	assert.NoError(t, e.Validate())
}
