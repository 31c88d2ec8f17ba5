package sim

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config is the runner's environment configuration. Values come from
// TOCTOC_* environment variables; scenario files override PageSize per
// scenario.
type Config struct {
	// PageSize is the default feed page size served by the backend stub.
	PageSize int `envconfig:"PAGE_SIZE" default:"3"`

	// PoolCapacity overrides the player pool capacity. 0 keeps the
	// screen's default.
	PoolCapacity int `envconfig:"POOL_CAPACITY" default:"0"`
}

// ConfigFromEnv reads the runner config from the environment.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("toctoc", &cfg); err != nil {
		return Config{}, fmt.Errorf("sim: read config: %w", err)
	}
	return cfg, nil
}
