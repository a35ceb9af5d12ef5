package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IncomeStream is an expected recurring inflow used by cash-flow forecasts
type IncomeStream struct {
	ID         uuid.UUID
	Name       string
	Amount     decimal.Decimal
	Recurrence RecurrenceRule
}
