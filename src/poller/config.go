package poller

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	PricePeriod      time.Duration `envconfig:"PRICE_POLL_PERIOD" default:"30s"`
	SimulationPeriod time.Duration `envconfig:"POSITION_SIM_PERIOD" default:"3s"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
