package domain

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ObligationKind represents what kind of payment an obligation is
type ObligationKind string

const (
	ObligationKindBill         ObligationKind = "bill"
	ObligationKindLoan         ObligationKind = "loan"
	ObligationKindCard         ObligationKind = "card"
	ObligationKindSubscription ObligationKind = "subscription"
)

// Obligation is a recurring (or one-time) outflow: a bill, loan installment or card payment.
// Created and deleted by the user through storage; read-only to the engine.
type Obligation struct {
	ID              uuid.UUID
	Name            string
	Kind            ObligationKind
	Amount          decimal.Decimal
	Recurrence      RecurrenceRule
	Autopay         bool
	LinkedAccountID *uuid.UUID // account the payment is drawn from, nil if unlinked
	Notes           string
}

// Validate ensures the obligation adheres to domain rules
func (o *Obligation) Validate() error {
	if o.Name == "" {
		return errors.New("obligation name cannot be empty")
	}

	if o.Amount.IsNegative() {
		return errors.New("obligation amount cannot be negative")
	}

	if o.Autopay && o.LinkedAccountID == nil {
		return errors.New("autopay obligation must have a linked account")
	}

	return o.Recurrence.Validate()
}
