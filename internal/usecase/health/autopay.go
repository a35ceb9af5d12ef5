package health

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthflow-planner/internal/date"
	"github.com/simaogato/wealthflow-planner/internal/domain"
	"github.com/simaogato/wealthflow-planner/internal/usecase/cadence"
)

// DefaultAutopayHorizonDays is how far ahead autopay obligations are checked
const DefaultAutopayHorizonDays = 45

// AutopayLevel is the risk of an autopay draft bouncing
type AutopayLevel string

const (
	AutopayGood     AutopayLevel = "good"
	AutopayWarning  AutopayLevel = "warning"
	AutopayCritical AutopayLevel = "critical"
	AutopayUnlinked AutopayLevel = "unlinked"
)

// AutopayRisk is the projected state of the linked account when an autopay draft hits
type AutopayRisk struct {
	ObligationID       uuid.UUID
	Name               string
	AccountID          *uuid.UUID
	DueDate            date.Date
	DaysAway           int
	Amount             decimal.Decimal
	ProjectedBeforeDue decimal.Decimal
	ProjectedAfterDue  decimal.Decimal
	Level              AutopayLevel
}

// AssessAutopay checks every autopay obligation due within horizonDays against the
// account it is drawn from.
//
// Logic:
//   - Only the next occurrence of each autopay obligation is considered
//   - Obligations are grouped by linked account and walked in due-date order;
//     each draft sees the account balance minus the drafts due before it on the
//     same account (not the global liquidity pool)
//   - critical if the projected balance < amount, warning if < amount*1.25, good otherwise
//   - unlinked when there is no linked account or its balance is unknown
func AssessAutopay(obligations []domain.Obligation, balances map[uuid.UUID]decimal.Decimal, today date.Date, horizonDays int) []AutopayRisk {
	if horizonDays <= 0 {
		horizonDays = DefaultAutopayHorizonDays
	}

	risks := make([]AutopayRisk, 0)
	for _, o := range obligations {
		if !o.Autopay {
			continue
		}
		due, ok := cadence.NextOccurrence(o.Recurrence, today)
		if !ok {
			continue
		}
		daysAway := today.DaysUntil(due)
		if daysAway > horizonDays {
			continue
		}
		risks = append(risks, AutopayRisk{
			ObligationID: o.ID,
			Name:         o.Name,
			AccountID:    o.LinkedAccountID,
			DueDate:      due,
			DaysAway:     daysAway,
			Amount:       domain.RoundMoney(domain.NonNegative(o.Amount)),
		})
	}

	sort.SliceStable(risks, func(i, j int) bool {
		a, b := risks[i], risks[j]
		if c := a.DueDate.Compare(b.DueDate); c != 0 {
			return c < 0
		}
		if !a.Amount.Equal(b.Amount) {
			return a.Amount.GreaterThan(b.Amount)
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ObligationID.String() < b.ObligationID.String()
	})

	running := make(map[uuid.UUID]decimal.Decimal)
	for i := range risks {
		r := &risks[i]
		if r.AccountID == nil {
			r.Level = AutopayUnlinked
			continue
		}
		balance, ok := running[*r.AccountID]
		if !ok {
			balance, ok = balances[*r.AccountID]
			if !ok {
				r.Level = AutopayUnlinked
				continue
			}
		}
		r.ProjectedBeforeDue = balance
		r.ProjectedAfterDue = balance.Sub(r.Amount)
		r.Level = autopayLevel(balance, r.Amount)
		running[*r.AccountID] = r.ProjectedAfterDue
	}

	return risks
}

func autopayLevel(before, amount decimal.Decimal) AutopayLevel {
	switch {
	case before.LessThan(amount):
		return AutopayCritical
	case before.LessThan(amount.Mul(AutopayCushion)):
		return AutopayWarning
	default:
		return AutopayGood
	}
}

// AutopayCushion is the multiple of a draft the account must hold for the draft to rate good
var AutopayCushion = decimal.RequireFromString("1.25")
