package cycle

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthflow-planner/internal/date"
	"github.com/simaogato/wealthflow-planner/internal/domain"
)

// Projection is the simulated state of a credit account at the end of its current cycle
type Projection struct {
	AccountID           uuid.UUID
	PendingCharges      decimal.Decimal
	InterestAmount      decimal.Decimal
	NewStatementBalance decimal.Decimal
	MinimumDue          decimal.Decimal
	DueAdjustedCurrent  decimal.Decimal
	DueApplied          bool // today is on or past the due day
	DisplayedBalance    decimal.Decimal
	AvailableCredit     decimal.Decimal
	Utilization         decimal.Decimal // ratio, 0 when the card has no limit

	// Where the next statement lands if the planned monthly spend happens
	ProjectedNextStatement decimal.Decimal
	ProjectedUtilization   decimal.Decimal
}

var monthlyRateDivisor = decimal.NewFromInt(1200) // APR percent -> monthly periodic rate

// ProjectCycle simulates the current billing cycle of a credit account.
// today is the current day of the month.
//
// Logic:
//  1. Normalize inputs to non-negative; derive pending charges as max(current - statement, 0) when unknown
//  2. Interest = statement * APR/100/12, simple accrual
//  3. New statement balance = statement + interest
//  4. Minimum due = min(new statement, minimum payment)
//  5. Due-adjusted current = max(new statement - minimum due, 0) + pending
//  6. Once today reaches the due day, the displayed balance is the due-adjusted one
//
// Every money value is rounded to cents at the step it is produced.
func ProjectCycle(state domain.CreditAccountState, today int) Projection {
	s := state.Normalize()

	pending := domain.NonNegative(s.CurrentBalance.Sub(s.StatementBalance))
	if s.PendingCharges != nil {
		pending = *s.PendingCharges
	}
	pending = domain.RoundMoney(pending)

	interest := domain.RoundMoney(s.StatementBalance.Mul(s.APRPercent).Div(monthlyRateDivisor))
	newStatement := domain.RoundMoney(s.StatementBalance.Add(interest))
	minimumDue := domain.RoundMoney(decimal.Min(newStatement, s.MinimumPayment))
	dueAdjusted := domain.RoundMoney(domain.NonNegative(newStatement.Sub(minimumDue)).Add(pending))

	dueApplied := today >= s.DueDay

	displayed := s.CurrentBalance
	if dueApplied {
		displayed = dueAdjusted
	}

	nextStatement := domain.RoundMoney(displayed.Add(s.PlannedMonthlySpend))

	return Projection{
		AccountID:              s.AccountID,
		PendingCharges:         pending,
		InterestAmount:         interest,
		NewStatementBalance:    newStatement,
		MinimumDue:             minimumDue,
		DueAdjustedCurrent:     dueAdjusted,
		DueApplied:             dueApplied,
		DisplayedBalance:       displayed,
		AvailableCredit:        domain.RoundMoney(s.CreditLimit.Sub(displayed)),
		Utilization:            utilization(displayed, s.CreditLimit),
		ProjectedNextStatement: nextStatement,
		ProjectedUtilization:   utilization(nextStatement, s.CreditLimit),
	}
}

// utilization returns balance/limit, or 0 when the limit is not positive
func utilization(balance, limit decimal.Decimal) decimal.Decimal {
	if !limit.IsPositive() {
		return decimal.Zero
	}
	return balance.Div(limit)
}

// Dates holds the upcoming statement and due dates of a card
type Dates struct {
	NextStatement date.Date
	NextDue       date.Date
}

// CycleDates returns the next statement date and next due date on or after today.
// The configured days are clamped to the length of the month they fall in.
func CycleDates(state domain.CreditAccountState, today date.Date) Dates {
	s := state.Normalize()
	return Dates{
		NextStatement: nextDayOfMonth(today, s.StatementDay),
		NextDue:       nextDayOfMonth(today, s.DueDay),
	}
}

func nextDayOfMonth(today date.Date, day int) date.Date {
	candidate := today.AddMonthsClamped(0, day)
	if candidate.Before(today) {
		candidate = today.AddMonthsClamped(1, day)
	}
	return candidate
}
