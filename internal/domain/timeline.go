package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthflow-planner/internal/date"
)

// Severity is the risk level attached to projected events and scores
type Severity string

const (
	SeverityGood     Severity = "good"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// TimelineEvent is one projected occurrence of an obligation walked against the
// liquidity pool. Produced fresh on every projection run, never persisted.
type TimelineEvent struct {
	ObligationID  uuid.UUID
	Name          string
	Kind          ObligationKind
	Autopay       bool
	DueDate       date.Date
	Amount        decimal.Decimal
	DaysAway      int
	BeforeBalance decimal.Decimal
	AfterBalance  decimal.Decimal
	Severity      Severity
}
