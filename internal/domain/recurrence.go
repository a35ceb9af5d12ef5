package domain

import (
	"errors"

	"github.com/simaogato/wealthflow-planner/internal/date"
)

// Cadence represents the recurrence pattern of an obligation or income stream
type Cadence string

const (
	CadenceWeekly    Cadence = "weekly"
	CadenceBiweekly  Cadence = "biweekly"
	CadenceMonthly   Cadence = "monthly"
	CadenceQuarterly Cadence = "quarterly"
	CadenceYearly    Cadence = "yearly"
	CadenceCustom    Cadence = "custom"
	CadenceOneTime   Cadence = "one_time"
)

// CustomUnit is the unit a custom cadence interval is counted in
type CustomUnit string

const (
	UnitDays   CustomUnit = "days"
	UnitWeeks  CustomUnit = "weeks"
	UnitMonths CustomUnit = "months"
	UnitYears  CustomUnit = "years"
)

// RecurrenceRule describes when an obligation recurs.
// DayOfMonth is only read by month-based cadences and is clamped to the length
// of every target month.
type RecurrenceRule struct {
	Cadence        Cadence
	AnchorDate     date.Date
	DayOfMonth     int        // 1..31, 0 means "use the anchor's day"
	CustomInterval int        // Custom only, must be > 0
	CustomUnit     CustomUnit // Custom only
}

// EffectiveDayOfMonth returns the day-of-month month-based cadences land on.
func (r RecurrenceRule) EffectiveDayOfMonth() int {
	if r.DayOfMonth >= 1 && r.DayOfMonth <= 31 {
		return r.DayOfMonth
	}
	if r.AnchorDate.IsZero() {
		return 1
	}
	return r.AnchorDate.Day()
}

// Validate ensures the rule adheres to domain rules.
// Used when records are written; the projection engine never rejects a rule,
// it treats an invalid one as "cannot schedule".
func (r RecurrenceRule) Validate() error {
	if r.AnchorDate.IsZero() {
		return errors.New("recurrence rule must have an anchor date")
	}

	switch r.Cadence {
	case CadenceWeekly, CadenceBiweekly, CadenceMonthly, CadenceQuarterly, CadenceYearly, CadenceOneTime:
	case CadenceCustom:
		if r.CustomInterval <= 0 {
			return errors.New("custom cadence requires a positive interval")
		}
		if !r.CustomUnit.Valid() {
			return errors.New("custom cadence requires a unit of days, weeks, months, or years")
		}
	default:
		return errors.New("unknown cadence " + string(r.Cadence))
	}

	if r.DayOfMonth < 0 || r.DayOfMonth > 31 {
		return errors.New("day of month must be between 1 and 31")
	}

	return nil
}

// Valid reports whether u is a known unit.
func (u CustomUnit) Valid() bool {
	switch u {
	case UnitDays, UnitWeeks, UnitMonths, UnitYears:
		return true
	}
	return false
}
