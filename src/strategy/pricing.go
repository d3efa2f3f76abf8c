package strategy

import (
	"math/rand"

	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"
)

const impliedVolatility = 0.15

var (
	strikeStep = decimal.NewFromInt(100)
	minPremium = decimal.NewFromInt(50)
)

// ATMStrike rounds the index price to the nearest strike.
func ATMStrike(price decimal.Decimal) decimal.Decimal {
	return price.Div(strikeStep).Round(0).Mul(strikeStep)
}

// EstimatePremium estimates an option premium from the distance between spot
// and strike, with a random component standing in for market noise.
func EstimatePremium(rng *rand.Rand, strikeDistance decimal.Decimal) decimal.Decimal {
	noise := decimal.NewFromFloat(rng.Float64() * 200)
	premium := noise.Add(strikeDistance.Abs().Mul(decimal.NewFromFloat(impliedVolatility)))
	if premium.LessThan(minPremium) {
		return minPremium
	}
	return premium.Round(2)
}

// StopLossPremium computes the premium level at which a short leg exits.
// The percent is clamped into the configured range and logged when adjusted.
func StopLossPremium(premium decimal.Decimal, percent int) decimal.Decimal {
	originalPercent := percent

	if percent < minStopLossPct {
		percent = minStopLossPct
		logger.WithFields(map[string]interface{}{
			"original_pct": originalPercent,
			"adjusted_pct": percent,
		}).Warn("Stop loss percent below minimum, clamped")
	}
	if percent > maxStopLossPct {
		percent = maxStopLossPct
		logger.WithFields(map[string]interface{}{
			"original_pct": originalPercent,
			"adjusted_pct": percent,
		}).Warn("Stop loss percent above maximum, clamped")
	}

	return premium.Mul(decimal.NewFromInt(int64(percent))).Div(decimal.NewFromInt(100))
}
