package domain

import "github.com/shopspring/decimal"

// MoneyPlaces is the number of decimal places money is rounded to.
const MoneyPlaces = 2

// RoundMoney rounds an amount to cents, half-up (half away from zero for negatives).
// Every derived money value goes through this at the step it is produced.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// NonNegative clamps a negative amount to zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
