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

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func spend(category, amount, on string) domain.SpendEntry {
	return domain.SpendEntry{ID: uuid.New(), Category: category, Amount: dec(amount), Date: date.MustParse(on)}
}

func TestPerformance_Statuses(t *testing.T) {
	today := date.MustParse("2024-06-15")
	envelopes := []domain.BudgetEnvelope{
		{ID: uuid.New(), Category: "groceries", TargetAmount: dec("400")},
		{ID: uuid.New(), Category: "dining", TargetAmount: dec("150"), CarryoverAmount: dec("-20")},
		{ID: uuid.New(), Category: "fuel", TargetAmount: dec("200"), CarryoverAmount: dec("50"), RolloverEnabled: true},
	}
	entries := []domain.SpendEntry{
		spend("groceries", "120.50", "2024-06-02"),
		spend("groceries", "80", "2024-06-14"),
		spend("dining", "95", "2024-06-05"),
		spend("dining", "40", "2024-06-12"),
		spend("fuel", "230", "2024-06-10"),
		spend("fuel", "999", "2024-05-30"), // previous month
		spend("hobbies", "60", "2024-06-01"),
	}

	report := Performance(envelopes, entries, today)

	assert.Equal(t, "2024-06", report.Month)
	require.Len(t, report.Envelopes, 3)

	dining := report.Envelopes[0]
	assert.Equal(t, "dining", dining.Category)
	assert.Equal(t, "130", dining.EffectiveTarget.String())
	assert.Equal(t, "135", dining.Spent.String())
	assert.Equal(t, "-5", dining.Variance.String())
	assert.Equal(t, StatusOver, dining.Status)
	assert.True(t, dining.NextCarryover.IsZero(), "rollover disabled")

	fuel := report.Envelopes[1]
	assert.Equal(t, "20", fuel.Variance.String())
	assert.Equal(t, StatusWarning, fuel.Status, "20 left of 250 is under the 10% buffer")
	assert.Equal(t, "20", fuel.NextCarryover.String())
	assert.Equal(t, "460", fuel.ProjectedMonthEnd.String())

	groceries := report.Envelopes[2]
	assert.Equal(t, "200.5", groceries.Spent.String())
	assert.Equal(t, StatusOnTrack, groceries.Status)
	assert.Equal(t, "401", groceries.ProjectedMonthEnd.String())

	assert.Equal(t, "780", report.TotalTarget.String())
	assert.Equal(t, "565.5", report.TotalSpent.String())
	assert.Equal(t, "214.5", report.TotalVariance.String())
	assert.Equal(t, "60", report.Unbudgeted.String())
	assert.Equal(t, []string{"dining"}, report.OverBudgetCats)
}

func TestPerformance_ExactlyAtBufferIsOnTrack(t *testing.T) {
	envelopes := []domain.BudgetEnvelope{{ID: uuid.New(), Category: "utilities", TargetAmount: dec("100")}}
	entries := []domain.SpendEntry{spend("utilities", "90", "2024-06-03")}

	report := Performance(envelopes, entries, date.MustParse("2024-06-03"))

	require.Len(t, report.Envelopes, 1)
	assert.Equal(t, StatusOnTrack, report.Envelopes[0].Status)
}

func TestPerformance_NoSpend(t *testing.T) {
	envelopes := []domain.BudgetEnvelope{{ID: uuid.New(), Category: "gifts", TargetAmount: dec("50")}}

	report := Performance(envelopes, nil, date.MustParse("2024-06-03"))

	require.Len(t, report.Envelopes, 1)
	assert.True(t, report.Envelopes[0].Spent.IsZero())
	assert.True(t, report.Envelopes[0].ProjectedMonthEnd.IsZero())
	assert.Equal(t, StatusOnTrack, report.Envelopes[0].Status)
	assert.Empty(t, report.OverBudgetCats)
}

func TestProjectMonthEnd(t *testing.T) {
	assert.Equal(t, "300", ProjectMonthEnd(dec("100"), date.MustParse("2024-06-10")).String())
	assert.Equal(t, "1033.33", ProjectMonthEnd(dec("100"), date.MustParse("2024-07-03")).String())
	assert.Equal(t, "100", ProjectMonthEnd(dec("100"), date.MustParse("2024-02-29")).String())
}
