package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the server settings read from the environment.
type Config struct {
	RESTPort   int    `env:"GEO_ACCESSOR_REST_PORT" envDefault:"8080"`
	FlightPort int    `env:"GEO_ACCESSOR_FLIGHT_PORT" envDefault:"50051"`
	Notices    bool   `env:"GEO_ACCESSOR_NOTICES" envDefault:"true"`
	SpillRows  int64  `env:"GEO_ACCESSOR_SPILL_ROWS" envDefault:"1000000"`
	DataDir    string `env:"GEO_ACCESSOR_DATA_DIR"`
}

// Load reads the optional .env files, then parses the environment.
func Load(files ...string) (Config, error) {
	var cfg Config

	if err := godotenv.Load(files...); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	if cfg.SpillRows <= 0 {
		return cfg, fmt.Errorf("GEO_ACCESSOR_SPILL_ROWS must be positive, got %d", cfg.SpillRows)
	}

	return cfg, nil
}
