package domain

import "github.com/shopspring/decimal"

// MoneyPlaces is the scale every stored amount is kept at.
const MoneyPlaces = 2

// RoundMoney rounds half away from zero to MoneyPlaces, the same rounding
// Postgres applies to NUMERIC(p, 2) columns.
func RoundMoney(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(MoneyPlaces)
}

// ValidPrice reports whether amount is positive and needs no rounding to be
// stored.
func ValidPrice(amount decimal.Decimal) bool {
	return amount.IsPositive() && amount.Equal(RoundMoney(amount))
}
