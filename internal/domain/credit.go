package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// DefaultStatementDay is used when a card's statement day is missing or out of range
	DefaultStatementDay = 1
	// DefaultDueDay is used when a card's due day is missing or out of range
	DefaultDueDay = 21
)

// CreditAccountState is the billing snapshot of a credit account
type CreditAccountState struct {
	AccountID           uuid.UUID
	CreditLimit         decimal.Decimal
	CurrentBalance      decimal.Decimal
	StatementBalance    decimal.Decimal
	PendingCharges      *decimal.Decimal // nil when unknown, derived from current - statement
	MinimumPayment      decimal.Decimal
	APRPercent          decimal.Decimal // e.g. 24 for 24% APR
	StatementDay        int
	DueDay              int
	PlannedMonthlySpend decimal.Decimal
}

// Normalize returns a copy where every money and percentage field is non-negative
// and the cycle days fall back to safe defaults when outside [1,31].
// A nil PendingCharges stays nil; the cycle simulator derives it.
func (s CreditAccountState) Normalize() CreditAccountState {
	n := s
	n.CreditLimit = NonNegative(s.CreditLimit)
	n.CurrentBalance = NonNegative(s.CurrentBalance)
	n.StatementBalance = NonNegative(s.StatementBalance)
	n.MinimumPayment = NonNegative(s.MinimumPayment)
	n.APRPercent = NonNegative(s.APRPercent)
	n.PlannedMonthlySpend = NonNegative(s.PlannedMonthlySpend)
	if s.PendingCharges != nil {
		pending := NonNegative(*s.PendingCharges)
		n.PendingCharges = &pending
	}
	if n.StatementDay < 1 || n.StatementDay > 31 {
		n.StatementDay = DefaultStatementDay
	}
	if n.DueDay < 1 || n.DueDay > 31 {
		n.DueDay = DefaultDueDay
	}
	return n
}
