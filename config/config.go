package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Debug                    bool   `envconfig:"debug"`
	Port                     int    `envconfig:"port" default:"8080"`
	Env                      string `envconfig:"env"`
	DatabasePath             string `envconfig:"database_path" default:"book_exchange.db"`
	SessionSecret            string `envconfig:"session_secret" required:"true"`
	SessionTTLHours          int    `envconfig:"session_ttl_hours" default:"72"`
	AccessControlAllowOrigin string `envconfig:"access_control_allow_origin"`
}

func Load() (*Config, error) {
	env := os.Getenv("GIN_MODE")
	if env != "release" {
		if err := godotenv.Load("./.env"); err != nil {
			log.Printf("couldn't load env vars: %v", err)
		}
	}

	c := &Config{}
	err := envconfig.Process("bookswap", c)
	if err != nil {
		return nil, err
	}
	return c, nil
}
