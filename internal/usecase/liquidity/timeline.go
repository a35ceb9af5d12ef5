package liquidity

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthflow-planner/internal/date"
	"github.com/simaogato/wealthflow-planner/internal/domain"
	"github.com/simaogato/wealthflow-planner/internal/usecase/cadence"
)

const (
	// MaxOccurrencesPerObligation bounds the work spent on a single recurrence rule
	MaxOccurrencesPerObligation = 24

	// MinLookaheadDays is the shortest horizon the running balance is simulated over,
	// whatever window the caller displays
	MinLookaheadDays = 90
)

var (
	warningAmountFactor   = decimal.RequireFromString("1.25")
	warningBaselineFactor = decimal.RequireFromString("0.25")
)

// Input is the snapshot a timeline is projected from
type Input struct {
	Today         date.Date
	Obligations   []domain.Obligation
	Accounts      []domain.LiquidAccount
	WindowDays    int // events further than this are not returned
	LookaheadDays int // horizon of the simulation, raised to at least WindowDays and MinLookaheadDays
}

// Timeline is the result of a projection run
type Timeline struct {
	StartingPool    decimal.Decimal
	MonthlyBaseline decimal.Decimal
	Events          []domain.TimelineEvent // within the window, in simulation order
	Simulated       int                    // events walked over the full lookahead
	EndingBalance   decimal.Decimal        // pool after every simulated event
	LowestBalance   decimal.Decimal        // lowest running balance over the full lookahead
	FirstShortfall  *domain.TimelineEvent  // first critical event over the full lookahead
	Unscheduled     []uuid.UUID            // obligations whose rule cannot be scheduled
}

// ProjectTimeline walks every upcoming obligation against one shared liquidity pool.
//
// Logic:
//  1. Starting pool = sum of the balances of liquid accounts
//  2. Enumerate up to 24 occurrences per obligation from today, within the lookahead
//  3. Sort by due date, autopay before manual, amount descending, name ascending
//  4. Walk the list once: after = before - amount, then classify
//     critical (after < 0), warning (after < max(amount*1.25, baseline*0.25)), good otherwise
//  5. Return the events inside the display window; the walk itself always covers the
//     full lookahead so a short window never hides earlier depletion
func ProjectTimeline(in Input) Timeline {
	pool := StartingPool(in.Accounts)

	lookahead := in.LookaheadDays
	if lookahead < in.WindowDays {
		lookahead = in.WindowDays
	}
	if lookahead < MinLookaheadDays {
		lookahead = MinLookaheadDays
	}

	baseline := decimal.Zero
	unscheduled := make([]uuid.UUID, 0)
	events := make([]domain.TimelineEvent, 0)

	for _, o := range in.Obligations {
		if !cadence.Schedulable(o.Recurrence) {
			unscheduled = append(unscheduled, o.ID)
			continue
		}

		amount := domain.RoundMoney(domain.NonNegative(o.Amount))
		if monthly, ok := cadence.MonthlyEquivalent(o.Recurrence, amount); ok {
			baseline = baseline.Add(monthly)
		}

		for _, due := range cadence.Occurrences(o.Recurrence, in.Today, in.Today.Add(lookahead), MaxOccurrencesPerObligation) {
			events = append(events, domain.TimelineEvent{
				ObligationID: o.ID,
				Name:         o.Name,
				Kind:         o.Kind,
				Autopay:      o.Autopay,
				DueDate:      due,
				Amount:       amount,
				DaysAway:     in.Today.DaysUntil(due),
			})
		}
	}

	SortEvents(events)

	warningFloor := domain.RoundMoney(baseline.Mul(warningBaselineFactor))
	running := pool
	lowest := pool
	var shortfall *domain.TimelineEvent
	visible := make([]domain.TimelineEvent, 0, len(events))

	for i := range events {
		ev := &events[i]
		ev.BeforeBalance = running
		ev.AfterBalance = running.Sub(ev.Amount)
		ev.Severity = classify(ev.AfterBalance, ev.Amount, warningFloor)
		running = ev.AfterBalance

		if running.LessThan(lowest) {
			lowest = running
		}
		if shortfall == nil && ev.Severity == domain.SeverityCritical {
			first := *ev
			shortfall = &first
		}
		if ev.DaysAway <= in.WindowDays {
			visible = append(visible, *ev)
		}
	}

	return Timeline{
		StartingPool:    pool,
		MonthlyBaseline: baseline,
		Events:          visible,
		Simulated:       len(events),
		EndingBalance:   running,
		LowestBalance:   lowest,
		FirstShortfall:  shortfall,
		Unscheduled:     unscheduled,
	}
}

// StartingPool sums the balances of the liquid accounts
func StartingPool(accounts []domain.LiquidAccount) decimal.Decimal {
	pool := decimal.Zero
	for _, a := range accounts {
		if a.IsLiquid {
			pool = pool.Add(a.Balance)
		}
	}
	return pool
}

// SortEvents orders events the way they are assumed to hit the balance.
// On the same day automatic deductions go first, which is the worst case for risk.
func SortEvents(events []domain.TimelineEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if c := a.DueDate.Compare(b.DueDate); c != 0 {
			return c < 0
		}
		if a.Autopay != b.Autopay {
			return a.Autopay
		}
		if !a.Amount.Equal(b.Amount) {
			return a.Amount.GreaterThan(b.Amount)
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ObligationID.String() < b.ObligationID.String()
	})
}

func classify(after, amount, warningFloor decimal.Decimal) domain.Severity {
	if after.IsNegative() {
		return domain.SeverityCritical
	}
	threshold := decimal.Max(amount.Mul(warningAmountFactor), warningFloor)
	if after.LessThan(threshold) {
		return domain.SeverityWarning
	}
	return domain.SeverityGood
}
