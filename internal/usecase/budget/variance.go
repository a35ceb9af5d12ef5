package budget

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthflow-planner/internal/domain"
)

// Stats describes how much a series of monthly amounts moves around its mean
type Stats struct {
	Samples  int
	Mean     decimal.Decimal
	StdDev   decimal.Decimal // population standard deviation
	Relative decimal.Decimal // StdDev / Mean * 100
	Defined  bool            // false below 2 samples
	// RelativeDefined is false when the relative variance cannot be computed (zero mean)
	RelativeDefined bool
}

// Variance computes the population standard deviation of samples, absolute
// and relative to the mean. Fewer than 2 samples leave the result undefined.
func Variance(samples []decimal.Decimal) Stats {
	st := Stats{Samples: len(samples), Mean: decimal.Zero, StdDev: decimal.Zero, Relative: decimal.Zero}
	if len(samples) == 0 {
		return st
	}

	n := decimal.NewFromInt(int64(len(samples)))
	sum := decimal.Zero
	for _, s := range samples {
		sum = sum.Add(s)
	}
	mean := sum.Div(n)
	st.Mean = domain.RoundMoney(mean)

	if len(samples) < 2 {
		return st
	}

	squares := decimal.Zero
	for _, s := range samples {
		d := s.Sub(mean)
		squares = squares.Add(d.Mul(d))
	}
	sigma := math.Sqrt(squares.Div(n).InexactFloat64())
	st.StdDev = domain.RoundMoney(decimal.NewFromFloat(sigma))
	st.Defined = true

	if !mean.IsZero() {
		st.Relative = decimal.NewFromFloat(sigma).Div(mean.Abs()).Mul(decimal.NewFromInt(100)).Round(2)
		st.RelativeDefined = true
	}
	return st
}

// MonthTotal is the summed spend of one month
type MonthTotal struct {
	Month string // YYYY-MM
	Total decimal.Decimal
}

// MonthlyTotals folds spend entries into per-month totals, oldest month first.
// A non-empty category restricts the fold to that category.
func MonthlyTotals(entries []domain.SpendEntry, category string) []MonthTotal {
	byMonth := make(map[string]decimal.Decimal)
	for _, e := range entries {
		if category != "" && e.Category != category {
			continue
		}
		key := e.Date.CycleKey()
		byMonth[key] = byMonth[key].Add(e.Amount)
	}

	out := make([]MonthTotal, 0, len(byMonth))
	for month, total := range byMonth {
		out = append(out, MonthTotal{Month: month, Total: domain.RoundMoney(total)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// Totals returns the amounts of a month series, in order
func Totals(months []MonthTotal) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(months))
	for _, m := range months {
		out = append(out, m.Total)
	}
	return out
}
