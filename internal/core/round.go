package core

import "github.com/shopspring/decimal"

// Round2 rounds a value to two decimals for display. The engine carries
// unrounded float64 internally; callers round individual fields only when
// rendering rows, which keeps the internal balance exact across periods.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
