package domain

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountType represents the type of account in the system
type AccountType string

const (
	AccountTypeChecking   AccountType = "checking"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeCash       AccountType = "cash"
	AccountTypeInvestment AccountType = "investment"
	AccountTypeCreditCard AccountType = "credit_card"
	AccountTypeLoan       AccountType = "loan"
	AccountTypeMortgage   AccountType = "mortgage"
)

// IsDebt reports whether the account represents money owed
func (t AccountType) IsDebt() bool {
	switch t {
	case AccountTypeCreditCard, AccountTypeLoan, AccountTypeMortgage:
		return true
	}
	return false
}

// Account represents an account entity in the domain layer
type Account struct {
	ID       uuid.UUID
	Name     string
	Type     AccountType
	IsLiquid bool // only liquid accounts feed the liquidity pool
}

// Validate ensures the account adheres to domain rules
func (a *Account) Validate() error {
	if a.Name == "" {
		return errors.New("account name cannot be empty")
	}

	if a.Type.IsDebt() && a.IsLiquid {
		return errors.New("debt account cannot be liquid")
	}

	return nil
}

// AccountBalances is the balance snapshot of an account.
// Pending is signed: negative values are outflows not yet posted.
type AccountBalances struct {
	AccountID uuid.UUID
	Ledger    decimal.Decimal
	Available decimal.Decimal
	Pending   decimal.Decimal
}

// LiquidAccount is the projection view of an account: its balance and whether
// it contributes to the liquidity pool.
type LiquidAccount struct {
	ID       uuid.UUID
	Name     string
	Balance  decimal.Decimal
	IsLiquid bool
}

// LiquidView builds the projection view of an account from its balances.
func (a Account) LiquidView(b AccountBalances) LiquidAccount {
	return LiquidAccount{
		ID:       a.ID,
		Name:     a.Name,
		Balance:  b.Available,
		IsLiquid: a.IsLiquid,
	}
}
