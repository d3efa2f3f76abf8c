package tp_sl

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// NextShortStop applies trailing stop-loss to a short premium leg.
//
// A short option leg profits as the premium decays, so its stop sits ABOVE
// the premium at stopLossPct percent of it. As the premium falls the stop
// trails down with it; it never moves back up.
//
// Returns the new stop and whether it moved.
func NextShortStop(currentSL, premium decimal.Decimal, stopLossPct int) (decimal.Decimal, bool) {
	if stopLossPct <= 0 || premium.LessThanOrEqual(decimal.Zero) {
		return currentSL, false
	}

	candidate := premium.Mul(decimal.NewFromInt(int64(stopLossPct))).Div(hundred).Round(2)

	if currentSL.LessThanOrEqual(decimal.Zero) {
		return candidate, true
	}
	if candidate.LessThan(currentSL) {
		return candidate, true
	}
	return currentSL, false
}

// Triggered reports whether a short leg's stop has been hit: the premium has
// risen to or past the stop level.
func Triggered(premium, stopLoss decimal.Decimal) bool {
	if stopLoss.LessThanOrEqual(decimal.Zero) {
		return false
	}
	return premium.GreaterThanOrEqual(stopLoss)
}
