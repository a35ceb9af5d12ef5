package budget

import (
	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthflow-planner/internal/date"
	"github.com/simaogato/wealthflow-planner/internal/domain"
	"github.com/simaogato/wealthflow-planner/internal/usecase/cadence"
)

// DefaultForecastWindows are the horizons, in days, a forecast covers when none are given
var DefaultForecastWindows = []int{30, 90, 365}

// Tier is the risk tier of a forecast window
type Tier string

const (
	TierHealthy  Tier = "healthy"
	TierWarning  Tier = "warning"
	TierCritical Tier = "critical"
)

// ForecastInput is the snapshot a cash forecast is computed from
type ForecastInput struct {
	Today       date.Date
	Liquidity   decimal.Decimal // current liquidity pool
	Incomes     []domain.IncomeStream
	Obligations []domain.Obligation
	Windows     []int // days; DefaultForecastWindows when empty
}

// ForecastWindow is the projected cash position at the end of one horizon
type ForecastWindow struct {
	Days           int
	Income         decimal.Decimal
	Commitments    decimal.Decimal
	ProjectedCash  decimal.Decimal
	CoverageMonths decimal.Decimal
	Tier           Tier
}

// Forecast is a cash forecast over several horizons
type Forecast struct {
	MonthlyIncome      decimal.Decimal
	MonthlyCommitments decimal.Decimal
	Windows            []ForecastWindow
}

// ForecastCash projects the liquidity pool over each window.
//
// Logic:
//  1. Income and commitments of a window are the sums of the occurrences
//     falling in [today, today + days]
//  2. projectedCash = liquidity + income - commitments
//  3. coverageMonths = projectedCash / max(monthly commitments, 1)
//  4. critical if projectedCash < 0, warning if coverage < 1 month, healthy otherwise
//
// Rules that cannot be scheduled contribute nothing. Negative amounts are clamped to zero.
func ForecastCash(in ForecastInput) Forecast {
	windows := in.Windows
	if len(windows) == 0 {
		windows = DefaultForecastWindows
	}

	monthlyIncome := decimal.Zero
	for _, s := range in.Incomes {
		if m, ok := cadence.MonthlyEquivalent(s.Recurrence, domain.NonNegative(s.Amount)); ok {
			monthlyIncome = monthlyIncome.Add(m)
		}
	}
	monthlyCommitments := decimal.Zero
	for _, o := range in.Obligations {
		if m, ok := cadence.MonthlyEquivalent(o.Recurrence, domain.NonNegative(o.Amount)); ok {
			monthlyCommitments = monthlyCommitments.Add(m)
		}
	}

	divisor := decimal.Max(monthlyCommitments, decimal.NewFromInt(1))
	liquidity := domain.RoundMoney(in.Liquidity)

	out := Forecast{
		MonthlyIncome:      monthlyIncome,
		MonthlyCommitments: monthlyCommitments,
		Windows:            make([]ForecastWindow, 0, len(windows)),
	}
	for _, days := range windows {
		if days < 0 {
			days = 0
		}
		to := in.Today.Add(days)

		income := decimal.Zero
		for _, s := range in.Incomes {
			income = income.Add(sumOccurrences(s.Recurrence, s.Amount, in.Today, to, days))
		}
		commitments := decimal.Zero
		for _, o := range in.Obligations {
			commitments = commitments.Add(sumOccurrences(o.Recurrence, o.Amount, in.Today, to, days))
		}

		cash := liquidity.Add(income).Sub(commitments)
		coverage := cash.DivRound(divisor, domain.MoneyPlaces)

		out.Windows = append(out.Windows, ForecastWindow{
			Days:           days,
			Income:         income,
			Commitments:    commitments,
			ProjectedCash:  cash,
			CoverageMonths: coverage,
			Tier:           tierFor(cash, coverage),
		})
	}
	return out
}

func sumOccurrences(rule domain.RecurrenceRule, amount decimal.Decimal, from, to date.Date, days int) decimal.Decimal {
	// a rule recurs at most daily, so days+1 bounds the occurrence count
	n := len(cadence.Occurrences(rule, from, to, days+1))
	return domain.RoundMoney(domain.NonNegative(amount)).Mul(decimal.NewFromInt(int64(n)))
}

func tierFor(cash, coverage decimal.Decimal) Tier {
	switch {
	case cash.IsNegative():
		return TierCritical
	case coverage.LessThan(decimal.NewFromInt(1)):
		return TierWarning
	default:
		return TierHealthy
	}
}
