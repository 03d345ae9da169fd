package utils

import "github.com/shopspring/decimal"

// LineTotal multiplies a unit price by a quantity, rounded to cents.
func LineTotal(price float64, quantity int64) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(quantity)).Round(2)
}

func RoundAmount(amount decimal.Decimal) float64 {
	return amount.Round(2).InexactFloat64()
}

// MinorUnits converts an amount to the smallest currency unit (cents).
func MinorUnits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// RoundPrice rounds a unit price to cents so line items always sum to the charged amount.
func RoundPrice(price float64) float64 {
	return decimal.NewFromFloat(price).Round(2).InexactFloat64()
}
