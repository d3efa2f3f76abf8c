package strategy

import (
	"testing"

	"github.com/shopspring/decimal"

	"algotrader/src/model"
)

func TestValidate(t *testing.T) {
	base := model.StraddleStrategy{
		TriggerPoints:      300,
		MaxLossPerTrade:    10000,
		ExecutionDay:       "Wednesday",
		ExecutionTime:      "09:30",
		StopLossPercentage: 200,
	}

	tests := []struct {
		name      string
		mutate    func(*model.StraddleStrategy)
		wantField string
	}{
		{name: "valid", mutate: func(*model.StraddleStrategy) {}},
		{
			name:      "trigger points too low",
			mutate:    func(s *model.StraddleStrategy) { s.TriggerPoints = 25 },
			wantField: "trigger_points",
		},
		{
			name:      "trigger points too high",
			mutate:    func(s *model.StraddleStrategy) { s.TriggerPoints = 1500 },
			wantField: "trigger_points",
		},
		{
			name:      "max loss too low",
			mutate:    func(s *model.StraddleStrategy) { s.MaxLossPerTrade = 500 },
			wantField: "max_loss_per_trade",
		},
		{
			name:      "weekend execution day",
			mutate:    func(s *model.StraddleStrategy) { s.ExecutionDay = "Saturday" },
			wantField: "execution_day",
		},
		{
			name:      "bad execution time",
			mutate:    func(s *model.StraddleStrategy) { s.ExecutionTime = "25:99" },
			wantField: "execution_time",
		},
		{
			name:      "stop loss percent out of range",
			mutate:    func(s *model.StraddleStrategy) { s.StopLossPercentage = 50 },
			wantField: "stop_loss_percentage",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)

			err := Validate(cfg)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("expected valid config, got %v", err)
				}
				return
			}

			valErr, ok := err.(*model.ValidationError)
			if !ok {
				t.Fatalf("expected ValidationError, got %T (%v)", err, err)
			}
			if valErr.Field != tt.wantField {
				t.Fatalf("expected field %s, got %s", tt.wantField, valErr.Field)
			}
		})
	}
}

func TestATMStrike(t *testing.T) {
	tests := []struct {
		price float64
		want  int64
	}{
		{65432.10, 65400},
		{65450.00, 65500},
		{65000.00, 65000},
		{64949.99, 64900},
	}

	for _, tt := range tests {
		got := ATMStrike(decimal.NewFromFloat(tt.price))
		if !got.Equal(decimal.NewFromInt(tt.want)) {
			t.Fatalf("ATMStrike(%.2f) = %s, want %d", tt.price, got, tt.want)
		}
	}
}

func TestStopLossPremiumClampsPercent(t *testing.T) {
	premium := decimal.NewFromInt(100)

	if got := StopLossPremium(premium, 200); !got.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected 200, got %s", got)
	}
	if got := StopLossPremium(premium, 50); !got.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("percent below range should clamp to %d, got %s", minStopLossPct, got)
	}
	if got := StopLossPremium(premium, 900); !got.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("percent above range should clamp to %d, got %s", maxStopLossPct, got)
	}
}
