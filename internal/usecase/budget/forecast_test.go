package budget

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/wealthflow-planner/internal/date"
	"github.com/simaogato/wealthflow-planner/internal/domain"
)

func monthly(day int, anchor string) domain.RecurrenceRule {
	return domain.RecurrenceRule{Cadence: domain.CadenceMonthly, AnchorDate: date.MustParse(anchor), DayOfMonth: day}
}

func TestForecastCash(t *testing.T) {
	today := date.MustParse("2024-06-10")
	in := ForecastInput{
		Today:     today,
		Liquidity: dec("1000"),
		Incomes: []domain.IncomeStream{
			{ID: uuid.New(), Name: "Salary", Amount: dec("3000"), Recurrence: monthly(25, "2024-01-25")},
		},
		Obligations: []domain.Obligation{
			{ID: uuid.New(), Name: "Rent", Amount: dec("2500"), Recurrence: monthly(1, "2024-01-01")},
			{ID: uuid.New(), Name: "Phone", Amount: dec("50"), Recurrence: monthly(15, "2024-01-15")},
		},
	}

	f := ForecastCash(in)

	assert.Equal(t, "3000", f.MonthlyIncome.String())
	assert.Equal(t, "2550", f.MonthlyCommitments.String())
	require.Len(t, f.Windows, 3)

	// 30 days (to 07-10): salary 06-25, rent 07-01, phone 06-15
	w30 := f.Windows[0]
	assert.Equal(t, 30, w30.Days)
	assert.Equal(t, "3000", w30.Income.String())
	assert.Equal(t, "2550", w30.Commitments.String())
	assert.Equal(t, "1450", w30.ProjectedCash.String())
	assert.Equal(t, "0.57", w30.CoverageMonths.String())
	assert.Equal(t, TierWarning, w30.Tier)

	// 90 days (to 09-08): 3 salaries, 3 rents, 3 phones
	w90 := f.Windows[1]
	assert.Equal(t, "9000", w90.Income.String())
	assert.Equal(t, "7650", w90.Commitments.String())
	assert.Equal(t, "2350", w90.ProjectedCash.String())
	assert.Equal(t, TierWarning, w90.Tier)

	// a year: 12 of each
	w365 := f.Windows[2]
	assert.Equal(t, "6400", w365.ProjectedCash.String())
	assert.Equal(t, "2.51", w365.CoverageMonths.String())
	assert.Equal(t, TierHealthy, w365.Tier)
}

func TestForecastCash_CriticalWhenCashRunsOut(t *testing.T) {
	in := ForecastInput{
		Today:     date.MustParse("2024-06-10"),
		Liquidity: dec("100"),
		Obligations: []domain.Obligation{
			{ID: uuid.New(), Name: "Loan", Amount: dec("400"), Recurrence: monthly(20, "2024-01-20")},
		},
		Windows: []int{30},
	}

	f := ForecastCash(in)

	require.Len(t, f.Windows, 1)
	assert.Equal(t, "-300", f.Windows[0].ProjectedCash.String())
	assert.Equal(t, TierCritical, f.Windows[0].Tier)
}

func TestForecastCash_NoCommitmentsUsesUnitDivisor(t *testing.T) {
	f := ForecastCash(ForecastInput{Today: date.MustParse("2024-06-10"), Liquidity: dec("250"), Windows: []int{30}})

	require.Len(t, f.Windows, 1)
	assert.True(t, f.MonthlyCommitments.IsZero())
	assert.Equal(t, "250", f.Windows[0].CoverageMonths.String())
	assert.Equal(t, TierHealthy, f.Windows[0].Tier)
}

func TestForecastCash_IgnoresUnschedulableAndNegative(t *testing.T) {
	in := ForecastInput{
		Today:     date.MustParse("2024-06-10"),
		Liquidity: decimal.NewFromInt(500),
		Obligations: []domain.Obligation{
			{ID: uuid.New(), Name: "Broken", Amount: dec("100"), Recurrence: domain.RecurrenceRule{Cadence: domain.CadenceCustom}},
			{ID: uuid.New(), Name: "Credit", Amount: dec("-100"), Recurrence: monthly(12, "2024-01-12")},
		},
		Windows: []int{30},
	}

	f := ForecastCash(in)

	assert.True(t, f.Windows[0].Commitments.IsZero())
	assert.Equal(t, "500", f.Windows[0].ProjectedCash.String())
}
