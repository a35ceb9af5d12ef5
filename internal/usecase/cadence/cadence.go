package cadence

import (
	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthflow-planner/internal/date"
	"github.com/simaogato/wealthflow-planner/internal/domain"
)

// stride describes how far apart two occurrences of a rule are.
// Exactly one of days or months is set.
type stride struct {
	days   int
	months int
}

// strideOf resolves the stride of a repeating rule.
// Returns false for one-time, unknown or malformed rules.
func strideOf(rule domain.RecurrenceRule) (stride, bool) {
	switch rule.Cadence {
	case domain.CadenceWeekly:
		return stride{days: 7}, true
	case domain.CadenceBiweekly:
		return stride{days: 14}, true
	case domain.CadenceMonthly:
		return stride{months: 1}, true
	case domain.CadenceQuarterly:
		return stride{months: 3}, true
	case domain.CadenceYearly:
		return stride{months: 12}, true
	case domain.CadenceCustom:
		n := rule.CustomInterval
		if n <= 0 {
			return stride{}, false
		}
		switch rule.CustomUnit {
		case domain.UnitDays:
			return stride{days: n}, true
		case domain.UnitWeeks:
			return stride{days: n * 7}, true
		case domain.UnitMonths:
			return stride{months: n}, true
		case domain.UnitYears:
			return stride{months: n * 12}, true
		}
	}
	return stride{}, false
}

// Schedulable reports whether the rule can produce occurrences at all.
// Callers exclude obligations with unschedulable rules from time-based views.
func Schedulable(rule domain.RecurrenceRule) bool {
	if rule.AnchorDate.IsZero() {
		return false
	}
	if rule.Cadence == domain.CadenceOneTime {
		return true
	}
	_, ok := strideOf(rule)
	return ok
}

// NextOccurrence returns the earliest occurrence of rule on or after ref.
//
// Logic:
//   - The sequence starts at the anchor date; nothing is scheduled before it
//   - Weekly/Biweekly and day/week custom rules step a fixed number of days from the anchor
//   - Month based rules step whole months and land on the rule's day-of-month,
//     clamped to each target month (Jan 31 -> Feb 29 -> Mar 31)
//   - OneTime returns the anchor while it is not in the past
//
// Returns false when the rule cannot be scheduled or has no occurrence left.
func NextOccurrence(rule domain.RecurrenceRule, ref date.Date) (date.Date, bool) {
	if rule.AnchorDate.IsZero() {
		return date.Date{}, false
	}
	anchor := rule.AnchorDate

	if rule.Cadence == domain.CadenceOneTime {
		if anchor.Before(ref) {
			return date.Date{}, false
		}
		return anchor, true
	}

	s, ok := strideOf(rule)
	if !ok {
		return date.Date{}, false
	}

	if s.days > 0 {
		if !ref.After(anchor) {
			return anchor, true
		}
		diff := anchor.DaysUntil(ref)
		k := (diff + s.days - 1) / s.days
		return anchor.Add(k * s.days), true
	}

	seq := newMonthSequence(rule, s.months)
	k := seq.first
	if d := ref.MonthIndex() - seq.base; d > 0 && d/s.months > k {
		k = d / s.months
	}
	for seq.at(k).Before(ref) {
		k++
	}
	return seq.at(k), true
}

// PreviousOccurrence returns the latest occurrence of rule strictly before ref.
// Returns false when the rule cannot be scheduled or nothing occurred before ref.
func PreviousOccurrence(rule domain.RecurrenceRule, ref date.Date) (date.Date, bool) {
	if rule.AnchorDate.IsZero() {
		return date.Date{}, false
	}
	anchor := rule.AnchorDate

	if rule.Cadence == domain.CadenceOneTime {
		if anchor.Before(ref) {
			return anchor, true
		}
		return date.Date{}, false
	}

	s, ok := strideOf(rule)
	if !ok {
		return date.Date{}, false
	}

	if s.days > 0 {
		if !ref.After(anchor) {
			return date.Date{}, false
		}
		diff := anchor.DaysUntil(ref)
		k := (diff - 1) / s.days
		return anchor.Add(k * s.days), true
	}

	seq := newMonthSequence(rule, s.months)
	k := seq.first
	if d := ref.MonthIndex() - seq.base; d > 0 {
		k = d/s.months + 1
	}
	for k >= seq.first && !seq.at(k).Before(ref) {
		k--
	}
	if k < seq.first {
		return date.Date{}, false
	}
	return seq.at(k), true
}

// Occurrences lists the occurrences of rule within [from, to], at most limit of them.
// Listing stops if the schedule fails to move forward.
func Occurrences(rule domain.RecurrenceRule, from, to date.Date, limit int) []date.Date {
	out := make([]date.Date, 0)
	next, ok := NextOccurrence(rule, from)
	for ok && !next.Before(from) && !next.After(to) && len(out) < limit {
		out = append(out, next)
		prev := next
		next, ok = NextOccurrence(rule, prev.Add(1))
		if ok && !next.After(prev) {
			break
		}
	}
	return out
}

// monthSequence indexes the occurrences of a month based rule:
// occurrence k falls in month base + k*step.
type monthSequence struct {
	base  int
	step  int
	dom   int
	first int // 0, or 1 when the anchor month's slot falls before the anchor
}

func newMonthSequence(rule domain.RecurrenceRule, step int) monthSequence {
	seq := monthSequence{
		base: rule.AnchorDate.MonthIndex(),
		step: step,
		dom:  rule.EffectiveDayOfMonth(),
	}
	if seq.at(0).Before(rule.AnchorDate) {
		seq.first = 1
	}
	return seq
}

func (s monthSequence) at(k int) date.Date {
	return date.FromMonthIndex(s.base+k*s.step, s.dom)
}

var (
	weeksPerYear  = decimal.NewFromInt(52)
	daysPerYear   = decimal.NewFromInt(365)
	monthsPerYear = decimal.NewFromInt(12)
)

// MonthlyEquivalent normalizes amount to what the rule costs per month.
//
// Weekly counts 52/12 occurrences a month, biweekly 26/12, quarterly 1/3 and
// yearly 1/12. Custom day rules use 365 days a year. One-time and
// unschedulable rules return false and a zero amount.
func MonthlyEquivalent(rule domain.RecurrenceRule, amount decimal.Decimal) (decimal.Decimal, bool) {
	if !Schedulable(rule) || rule.Cadence == domain.CadenceOneTime {
		return decimal.Zero, false
	}

	var perMonth decimal.Decimal
	switch {
	case rule.Cadence == domain.CadenceWeekly:
		perMonth = amount.Mul(weeksPerYear).Div(monthsPerYear)
	case rule.Cadence == domain.CadenceBiweekly:
		perMonth = amount.Mul(weeksPerYear).Div(monthsPerYear.Mul(decimal.NewFromInt(2)))
	case rule.Cadence == domain.CadenceCustom && rule.CustomUnit == domain.UnitDays:
		perMonth = amount.Mul(daysPerYear).Div(monthsPerYear.Mul(decimal.NewFromInt(int64(rule.CustomInterval))))
	case rule.Cadence == domain.CadenceCustom && rule.CustomUnit == domain.UnitWeeks:
		perMonth = amount.Mul(weeksPerYear).Div(monthsPerYear.Mul(decimal.NewFromInt(int64(rule.CustomInterval))))
	default:
		s, _ := strideOf(rule)
		perMonth = amount.Div(decimal.NewFromInt(int64(s.months)))
	}

	return domain.RoundMoney(perMonth), true
}
