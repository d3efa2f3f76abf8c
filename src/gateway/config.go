package gateway

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	BaseURL        string `envconfig:"GATEWAY_BASE_URL" default:"http://localhost:8000"`
	ReferencePrice int64  `envconfig:"GATEWAY_REFERENCE_PRICE" default:"65000"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
