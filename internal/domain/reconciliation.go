package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReconciliationRecord matches the expected amount of one cycle of an account or
// bill against what actually happened.
type ReconciliationRecord struct {
	ID             uuid.UUID
	EntityID       uuid.UUID // account or obligation
	CycleKey       string    // "2024-07"
	ExpectedAmount decimal.Decimal
	ActualAmount   *decimal.Decimal // nil until the statement is in
	UnmatchedDelta decimal.Decimal
	Reconciled     bool
	UpdatedAt      time.Time
}

// Validate ensures the record adheres to domain rules
func (r *ReconciliationRecord) Validate() error {
	if r.EntityID == uuid.Nil {
		return errors.New("reconciliation record must reference an account or bill")
	}

	if _, err := time.Parse("2006-01", r.CycleKey); err != nil {
		return errors.New("reconciliation cycle key must look like 2024-07")
	}

	return nil
}
