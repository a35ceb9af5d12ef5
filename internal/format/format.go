// Package format renders engine values for people: money with its currency
// symbol, ratios as percentages, and "n/a" where a value is undefined.
package format

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthflow-planner/internal/usecase/budget"
)

// DefaultCurrency is used when no currency code is configured
const DefaultCurrency = money.USD

// NotAvailable is shown for undefined values
const NotAvailable = "n/a"

var hundred = decimal.NewFromInt(100)

// Money formats amount in the currency's own notation, e.g. "$1,234.56" or "-$20.00".
// Unknown currency codes fall back to "1234.56 XYZ".
func Money(amount decimal.Decimal, currency string) string {
	if currency == "" {
		currency = DefaultCurrency
	}
	cur := money.GetCurrency(currency)
	if cur == nil {
		return amount.StringFixed(2) + " " + currency
	}

	minor := amount.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(minor.IntPart())
}

// Percent formats a ratio as a percentage with one decimal, 0.2273 -> "22.7%"
func Percent(ratio decimal.Decimal) string {
	return ratio.Mul(hundred).StringFixed(1) + "%"
}

// PercentValue formats a value that is already a percentage, 33.33 -> "33.3%"
func PercentValue(pct decimal.Decimal) string {
	return pct.StringFixed(1) + "%"
}

// Variance formats variance statistics as "σ (relative)", e.g. "$50.00 (33.3%)".
// Fewer than 2 samples render as "n/a".
func Variance(st budget.Stats, currency string) string {
	if !st.Defined {
		return NotAvailable
	}
	relative := NotAvailable
	if st.RelativeDefined {
		relative = PercentValue(st.Relative)
	}
	return Money(st.StdDev, currency) + " (" + relative + ")"
}

// Coverage formats a number of months of coverage, "2.5 mo"
func Coverage(months decimal.Decimal) string {
	return months.StringFixed(1) + " mo"
}
