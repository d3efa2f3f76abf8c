package strategy

import (
	"fmt"
	"regexp"

	"algotrader/src/model"
)

const (
	minTriggerPoints = 50
	maxTriggerPoints = 1000

	minMaxLoss = 1000
	maxMaxLoss = 100000

	minStopLossPct = 100
	maxStopLossPct = 500
)

var executionDays = map[string]bool{
	"Monday":    true,
	"Tuesday":   true,
	"Wednesday": true,
	"Thursday":  true,
	"Friday":    true,
}

var executionTimePattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

// Validate checks a straddle configuration before it is saved or started.
func Validate(s model.StraddleStrategy) error {
	if s.TriggerPoints < minTriggerPoints || s.TriggerPoints > maxTriggerPoints {
		return &model.ValidationError{
			Field:  "trigger_points",
			Reason: fmt.Sprintf("must be between %d and %d", minTriggerPoints, maxTriggerPoints),
		}
	}
	if s.MaxLossPerTrade < minMaxLoss || s.MaxLossPerTrade > maxMaxLoss {
		return &model.ValidationError{
			Field:  "max_loss_per_trade",
			Reason: fmt.Sprintf("must be between %d and %d", minMaxLoss, maxMaxLoss),
		}
	}
	if !executionDays[s.ExecutionDay] {
		return &model.ValidationError{
			Field:  "execution_day",
			Reason: "must be a weekday name",
		}
	}
	if !executionTimePattern.MatchString(s.ExecutionTime) {
		return &model.ValidationError{
			Field:  "execution_time",
			Reason: "must be HH:MM",
		}
	}
	if s.StopLossPercentage < minStopLossPct || s.StopLossPercentage > maxStopLossPct {
		return &model.ValidationError{
			Field:  "stop_loss_percentage",
			Reason: fmt.Sprintf("must be between %d and %d", minStopLossPct, maxStopLossPct),
		}
	}
	return nil
}
