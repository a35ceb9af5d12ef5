package health

import (
	"github.com/simaogato/wealthflow-planner/internal/date"
	"github.com/simaogato/wealthflow-planner/internal/domain"
	"github.com/simaogato/wealthflow-planner/internal/usecase/cadence"
)

// DueSoonDays is how close a due date must be to count as due soon
const DueSoonDays = 7

// BillDue is where a bill stands relative to its schedule
type BillDue string

const (
	BillUpcoming    BillDue = "upcoming"
	BillDueSoon     BillDue = "due_soon"
	BillDueToday    BillDue = "due_today"
	BillOverdue     BillDue = "overdue"
	BillUnscheduled BillDue = "unscheduled"
)

// BillStatus is the schedule position of an obligation
type BillStatus struct {
	Status   BillDue
	NextDue  date.Date // zero when there is no next occurrence
	LastDue  date.Date // zero when nothing fell due yet
	DaysAway int       // days until NextDue
}

// BillDueStatus places an obligation on its schedule.
//
// There is no paid flag on obligations, so "overdue" is inferred from the cadence
// rolling over: the previous due date fell in the current month and the
// reconciliation for that cycle is missing or not reconciled. The record passed
// in must be the one of the current cycle (see ReconciliationIndex.ForCycle).
func BillDueStatus(rule domain.RecurrenceRule, today date.Date, currentCycle *domain.ReconciliationRecord) BillStatus {
	if !cadence.Schedulable(rule) {
		return BillStatus{Status: BillUnscheduled}
	}

	var st BillStatus
	next, hasNext := cadence.NextOccurrence(rule, today)
	if hasNext {
		st.NextDue = next
		st.DaysAway = today.DaysUntil(next)
	}
	last, hasLast := cadence.PreviousOccurrence(rule, today)
	if hasLast {
		st.LastDue = last
	}

	settled := currentCycle != nil && currentCycle.Reconciled
	switch {
	case hasLast && last.CycleKey() == today.CycleKey() && !settled:
		st.Status = BillOverdue
	case hasNext && st.DaysAway == 0:
		st.Status = BillDueToday
	case hasNext && st.DaysAway <= DueSoonDays:
		st.Status = BillDueSoon
	case hasNext:
		st.Status = BillUpcoming
	default:
		// one-time bill in the past, outside the current month
		st.Status = BillUnscheduled
	}
	return st
}
