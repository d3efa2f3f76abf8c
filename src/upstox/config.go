package upstox

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	ClientID    string `envconfig:"UPSTOX_CLIENT_ID"`
	RedirectURI string `envconfig:"UPSTOX_REDIRECT_URI"`
	BaseURL     string `envconfig:"UPSTOX_BASE_URL" default:"https://api.upstox.com"`
	ProxyURL    string `envconfig:"GATEWAY_BASE_URL" default:"http://localhost:8000"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
