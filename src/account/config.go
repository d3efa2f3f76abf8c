package account

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	BaseURL string `envconfig:"SUPABASE_URL" default:"http://localhost:54321"`
	AnonKey string `envconfig:"SUPABASE_ANON_KEY"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
