package liquidity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/wealthflow-planner/internal/date"
	"github.com/simaogato/wealthflow-planner/internal/domain"
)

var today = date.MustParse("2024-06-10")

func monthlyOn(day int) domain.RecurrenceRule {
	return domain.RecurrenceRule{Cadence: domain.CadenceMonthly, AnchorDate: date.MustParse("2024-01-01").AddMonthsClamped(0, day), DayOfMonth: day}
}

func obligation(name string, amount int64, rule domain.RecurrenceRule, autopay bool) domain.Obligation {
	return domain.Obligation{
		ID:         uuid.New(),
		Name:       name,
		Kind:       domain.ObligationKindBill,
		Amount:     decimal.NewFromInt(amount),
		Recurrence: rule,
		Autopay:    autopay,
	}
}

func liquid(balance int64) domain.LiquidAccount {
	return domain.LiquidAccount{ID: uuid.New(), Name: "Checking", Balance: decimal.NewFromInt(balance), IsLiquid: true}
}

func TestProjectTimeline_StartingPoolOnlyCountsLiquidAccounts(t *testing.T) {
	accounts := []domain.LiquidAccount{
		liquid(1000),
		liquid(500),
		{ID: uuid.New(), Name: "Brokerage", Balance: decimal.NewFromInt(20000), IsLiquid: false},
	}

	tl := ProjectTimeline(Input{Today: today, Accounts: accounts, WindowDays: 30})

	assert.True(t, tl.StartingPool.Equal(decimal.NewFromInt(1500)))
	assert.Empty(t, tl.Events)
	assert.True(t, tl.EndingBalance.Equal(decimal.NewFromInt(1500)))
}

func TestProjectTimeline_SameDayTieBreak(t *testing.T) {
	manualBig := obligation("Zeta manual", 500, monthlyOn(15), false)
	autoSmall := obligation("Utilities", 50, monthlyOn(15), true)
	autoBig := obligation("Rent", 900, monthlyOn(15), true)
	autoSameAmountB := obligation("Beta", 50, monthlyOn(15), true)
	earlier := obligation("Phone", 10, monthlyOn(12), false)

	tl := ProjectTimeline(Input{
		Today:       today,
		Obligations: []domain.Obligation{manualBig, autoSmall, autoBig, autoSameAmountB, earlier},
		Accounts:    []domain.LiquidAccount{liquid(10000)},
		WindowDays:  7,
	})

	require.Len(t, tl.Events, 5)
	names := make([]string, 0, len(tl.Events))
	for _, ev := range tl.Events {
		names = append(names, ev.Name)
	}
	assert.Equal(t, []string{"Phone", "Rent", "Beta", "Utilities", "Zeta manual"}, names)
}

func TestProjectTimeline_Severity(t *testing.T) {
	// Pool 1000. Rent 700 on the 12th leaves 300: 300 < 700*1.25 -> warning.
	// Phone 400 on the 14th leaves -100 -> critical.
	rent := obligation("Rent", 700, monthlyOn(12), true)
	phone := obligation("Phone", 400, monthlyOn(14), false)

	tl := ProjectTimeline(Input{
		Today:       today,
		Obligations: []domain.Obligation{rent, phone},
		Accounts:    []domain.LiquidAccount{liquid(1000)},
		WindowDays:  10,
	})

	require.Len(t, tl.Events, 2)
	assert.Equal(t, domain.SeverityWarning, tl.Events[0].Severity)
	assert.Equal(t, "300", tl.Events[0].AfterBalance.String())
	assert.Equal(t, domain.SeverityCritical, tl.Events[1].Severity)
	assert.Equal(t, "-100", tl.Events[1].AfterBalance.String())
	require.NotNil(t, tl.FirstShortfall)
	assert.Equal(t, phone.ID, tl.FirstShortfall.ObligationID)
}

func TestProjectTimeline_GoodWhenComfortable(t *testing.T) {
	gym := obligation("Gym", 30, monthlyOn(20), false)

	tl := ProjectTimeline(Input{
		Today:       today,
		Obligations: []domain.Obligation{gym},
		Accounts:    []domain.LiquidAccount{liquid(5000)},
		WindowDays:  30,
	})

	require.Len(t, tl.Events, 1)
	assert.Equal(t, domain.SeverityGood, tl.Events[0].Severity)
	assert.Equal(t, 10, tl.Events[0].DaysAway)
	assert.Nil(t, tl.FirstShortfall)
}

func TestProjectTimeline_BaselineDrivesWarning(t *testing.T) {
	// Baseline = 2000 (rent) + 40 (tiny) = 2040, floor = 510.
	// Tiny 40 leaves 460: 460 >= 40*1.25 but < 510 -> warning.
	rent := obligation("Rent", 2000, monthlyOn(1), true)
	tiny := obligation("Tiny", 40, monthlyOn(11), false)

	tl := ProjectTimeline(Input{
		Today:       today,
		Obligations: []domain.Obligation{rent, tiny},
		Accounts:    []domain.LiquidAccount{liquid(500)},
		WindowDays:  5,
	})

	assert.Equal(t, "2040", tl.MonthlyBaseline.String())
	require.Len(t, tl.Events, 1)
	assert.Equal(t, domain.SeverityWarning, tl.Events[0].Severity)
}

func TestProjectTimeline_Conservation(t *testing.T) {
	obligations := []domain.Obligation{
		obligation("Rent", 1200, monthlyOn(1), true),
		obligation("Groceries", 120, domain.RecurrenceRule{Cadence: domain.CadenceWeekly, AnchorDate: date.MustParse("2024-06-03")}, false),
		obligation("Insurance", 300, domain.RecurrenceRule{Cadence: domain.CadenceQuarterly, AnchorDate: date.MustParse("2024-04-20"), DayOfMonth: 20}, true),
	}

	tl := ProjectTimeline(Input{
		Today:         today,
		Obligations:   obligations,
		Accounts:      []domain.LiquidAccount{liquid(4000), liquid(250)},
		WindowDays:    365,
		LookaheadDays: 365,
	})

	sum := decimal.Zero
	for _, ev := range tl.Events {
		sum = sum.Add(ev.Amount)
	}
	require.Equal(t, tl.Simulated, len(tl.Events))
	assert.True(t, tl.EndingBalance.Equal(tl.StartingPool.Sub(sum)))
	last := tl.Events[len(tl.Events)-1]
	assert.True(t, last.AfterBalance.Equal(tl.EndingBalance))

	for i := 1; i < len(tl.Events); i++ {
		assert.True(t, tl.Events[i].BeforeBalance.Equal(tl.Events[i-1].AfterBalance))
	}
}

func TestProjectTimeline_ShortWindowKeepsFullSimulation(t *testing.T) {
	rent := obligation("Rent", 900, monthlyOn(12), true)

	short := ProjectTimeline(Input{
		Today:       today,
		Obligations: []domain.Obligation{rent},
		Accounts:    []domain.LiquidAccount{liquid(1000)},
		WindowDays:  3,
	})
	long := ProjectTimeline(Input{
		Today:       today,
		Obligations: []domain.Obligation{rent},
		Accounts:    []domain.LiquidAccount{liquid(1000)},
		WindowDays:  90,
	})

	require.Len(t, short.Events, 1)
	assert.Equal(t, long.Events[0], short.Events[0])
	assert.Equal(t, long.Simulated, short.Simulated)
	assert.True(t, short.LowestBalance.Equal(long.LowestBalance))
	assert.True(t, short.LowestBalance.IsNegative(), "later rent payments drain the pool beyond the window")
}

func TestProjectTimeline_SkipsPastAndUnschedulable(t *testing.T) {
	past := obligation("Old one-off", 100, domain.RecurrenceRule{Cadence: domain.CadenceOneTime, AnchorDate: date.MustParse("2024-06-01")}, false)
	broken := obligation("Broken", 100, domain.RecurrenceRule{Cadence: domain.CadenceCustom, AnchorDate: date.MustParse("2024-06-01")}, false)
	dueToday := obligation("Today", 10, domain.RecurrenceRule{Cadence: domain.CadenceOneTime, AnchorDate: today}, false)

	tl := ProjectTimeline(Input{
		Today:       today,
		Obligations: []domain.Obligation{past, broken, dueToday},
		Accounts:    []domain.LiquidAccount{liquid(100)},
		WindowDays:  30,
	})

	require.Len(t, tl.Events, 1)
	assert.Equal(t, "Today", tl.Events[0].Name)
	assert.Equal(t, 0, tl.Events[0].DaysAway)
	assert.Equal(t, []uuid.UUID{broken.ID}, tl.Unscheduled)
}

func TestProjectTimeline_AncientAnchorStaysInTheFuture(t *testing.T) {
	ref := date.MustParse("2024-07-01")
	gym := obligation("Gym", 10, domain.RecurrenceRule{Cadence: domain.CadenceWeekly, AnchorDate: date.MustParse("1700-01-04")}, false)

	tl := ProjectTimeline(Input{
		Today:       ref,
		Obligations: []domain.Obligation{gym},
		Accounts:    []domain.LiquidAccount{liquid(1000)},
		WindowDays:  30,
	})

	require.NotEmpty(t, tl.Events)
	assert.Equal(t, "2024-07-01", tl.Events[0].DueDate.String())
	seen := make(map[date.Date]bool)
	for _, ev := range tl.Events {
		assert.GreaterOrEqual(t, ev.DaysAway, 0)
		assert.False(t, seen[ev.DueDate], "duplicate event on %s", ev.DueDate)
		seen[ev.DueDate] = true
	}
	assert.Len(t, tl.Events, 5)
}

func TestProjectTimeline_IterationCap(t *testing.T) {
	daily := obligation("Parking", 5, domain.RecurrenceRule{Cadence: domain.CadenceCustom, AnchorDate: today, CustomInterval: 1, CustomUnit: domain.UnitDays}, false)

	tl := ProjectTimeline(Input{
		Today:       today,
		Obligations: []domain.Obligation{daily},
		Accounts:    []domain.LiquidAccount{liquid(1000)},
		WindowDays:  60,
	})

	assert.Equal(t, MaxOccurrencesPerObligation, tl.Simulated)
	assert.Len(t, tl.Events, MaxOccurrencesPerObligation)
}

func TestProjectTimeline_NegativeAmountClamped(t *testing.T) {
	refund := obligation("Refund", -50, monthlyOn(11), false)

	tl := ProjectTimeline(Input{
		Today:       today,
		Obligations: []domain.Obligation{refund},
		Accounts:    []domain.LiquidAccount{liquid(100)},
		WindowDays:  5,
	})

	require.Len(t, tl.Events, 1)
	assert.True(t, tl.Events[0].Amount.IsZero())
	assert.True(t, tl.EndingBalance.Equal(decimal.NewFromInt(100)))
}
