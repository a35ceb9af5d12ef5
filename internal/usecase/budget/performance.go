package budget

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthflow-planner/internal/date"
	"github.com/simaogato/wealthflow-planner/internal/domain"
)

// Status is the standing of an envelope against its target for the month
type Status string

const (
	StatusOnTrack Status = "on_track"
	StatusWarning Status = "warning"
	StatusOver    Status = "over"
)

// warningBuffer is the share of the effective target below which the
// remaining variance is flagged
var warningBuffer = decimal.RequireFromString("0.1")

// EnvelopePerformance is the month-to-date standing of one envelope
type EnvelopePerformance struct {
	EnvelopeID        uuid.UUID
	Category          string
	Target            decimal.Decimal
	Carryover         decimal.Decimal
	EffectiveTarget   decimal.Decimal
	Spent             decimal.Decimal
	Variance          decimal.Decimal // effective target - spent
	Status            Status
	ProjectedMonthEnd decimal.Decimal // spend extrapolated linearly to the end of the month
	NextCarryover     decimal.Decimal // rolled into next month; zero unless rollover is enabled
}

// PerformanceReport is the budget performance of a whole month
type PerformanceReport struct {
	Month          string // cycle key, YYYY-MM
	Envelopes      []EnvelopePerformance
	TotalTarget    decimal.Decimal // sum of effective targets
	TotalSpent     decimal.Decimal
	TotalVariance  decimal.Decimal
	Unbudgeted     decimal.Decimal // spend in categories without an envelope
	OverBudgetCats []string
}

// Performance measures every envelope against the spend of the month containing today.
//
// Logic:
//  1. Sum the spend entries of today's month by category; other months are ignored
//  2. variance = effective target - spent
//  3. over if variance < 0, warning if variance < effective target * 10%, on_track otherwise
//  4. projected month end = spent / day of month * days in month
//
// Envelopes are returned ordered by category.
func Performance(envelopes []domain.BudgetEnvelope, spend []domain.SpendEntry, today date.Date) PerformanceReport {
	month := today.CycleKey()

	spentBy := make(map[string]decimal.Decimal)
	for _, s := range spend {
		if s.Date.CycleKey() != month {
			continue
		}
		spentBy[s.Category] = spentBy[s.Category].Add(s.Amount)
	}

	report := PerformanceReport{
		Month:          month,
		Envelopes:      make([]EnvelopePerformance, 0, len(envelopes)),
		TotalTarget:    decimal.Zero,
		TotalSpent:     decimal.Zero,
		TotalVariance:  decimal.Zero,
		Unbudgeted:     decimal.Zero,
		OverBudgetCats: make([]string, 0),
	}

	budgeted := make(map[string]bool, len(envelopes))
	for _, e := range envelopes {
		budgeted[e.Category] = true
		p := envelopePerformance(e, domain.RoundMoney(spentBy[e.Category]), today)

		report.Envelopes = append(report.Envelopes, p)
		report.TotalTarget = report.TotalTarget.Add(p.EffectiveTarget)
		report.TotalSpent = report.TotalSpent.Add(p.Spent)
		report.TotalVariance = report.TotalVariance.Add(p.Variance)
		if p.Status == StatusOver {
			report.OverBudgetCats = append(report.OverBudgetCats, p.Category)
		}
	}

	for category, amount := range spentBy {
		if !budgeted[category] {
			report.Unbudgeted = report.Unbudgeted.Add(amount)
		}
	}
	report.Unbudgeted = domain.RoundMoney(report.Unbudgeted)

	sort.SliceStable(report.Envelopes, func(i, j int) bool {
		return report.Envelopes[i].Category < report.Envelopes[j].Category
	})
	sort.Strings(report.OverBudgetCats)

	return report
}

func envelopePerformance(e domain.BudgetEnvelope, spent decimal.Decimal, today date.Date) EnvelopePerformance {
	effective := domain.RoundMoney(e.EffectiveTarget())
	variance := effective.Sub(spent)

	p := EnvelopePerformance{
		EnvelopeID:        e.ID,
		Category:          e.Category,
		Target:            domain.RoundMoney(e.TargetAmount),
		Carryover:         domain.RoundMoney(e.CarryoverAmount),
		EffectiveTarget:   effective,
		Spent:             spent,
		Variance:          variance,
		Status:            statusFor(variance, effective),
		ProjectedMonthEnd: ProjectMonthEnd(spent, today),
		NextCarryover:     decimal.Zero,
	}
	if e.RolloverEnabled {
		p.NextCarryover = variance
	}
	return p
}

func statusFor(variance, effectiveTarget decimal.Decimal) Status {
	switch {
	case variance.IsNegative():
		return StatusOver
	case variance.LessThan(effectiveTarget.Mul(warningBuffer)):
		return StatusWarning
	default:
		return StatusOnTrack
	}
}

// ProjectMonthEnd extrapolates month-to-date spend at its daily rate to the
// length of today's month.
func ProjectMonthEnd(spent decimal.Decimal, today date.Date) decimal.Decimal {
	day := today.Day()
	if day <= 0 {
		return spent
	}
	length := date.DaysIn(today.Year(), today.Month())
	return domain.RoundMoney(spent.Div(decimal.NewFromInt(int64(day))).Mul(decimal.NewFromInt(int64(length))))
}
