package connectors

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	DhanBaseURL string `envconfig:"DHAN_API_URL" default:"https://api-sandbox.dhan.co"`
	DhanToken   string `envconfig:"DHAN_SANDBOX_TOKEN" default:""`

	UpstoxTokenURL  string `envconfig:"UPSTOX_TOKEN_URL" default:"https://api.upstox.com/oauth/token"`
	UpstoxAPISecret string `envconfig:"UPSTOX_API_SECRET" default:""`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
