package domain

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthflow-planner/internal/date"
)

// BudgetEnvelope is a category-scoped monthly spending target
type BudgetEnvelope struct {
	ID              uuid.UUID
	Category        string
	TargetAmount    decimal.Decimal
	CarryoverAmount decimal.Decimal // signed: unspent (+) or overspent (-) amount rolled in
	RolloverEnabled bool
}

// EffectiveTarget is the target plus whatever was carried over from the previous period
func (e BudgetEnvelope) EffectiveTarget() decimal.Decimal {
	return e.TargetAmount.Add(e.CarryoverAmount)
}

// Validate ensures the envelope adheres to domain rules
func (e *BudgetEnvelope) Validate() error {
	if e.Category == "" {
		return errors.New("budget envelope category cannot be empty")
	}

	if e.TargetAmount.IsNegative() {
		return errors.New("budget envelope target cannot be negative")
	}

	return nil
}

// SpendEntry is one actual expense booked against a category
type SpendEntry struct {
	ID       uuid.UUID
	Category string
	Amount   decimal.Decimal
	Date     date.Date
}
