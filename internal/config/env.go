package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Settings holds process-level settings read from the environment.
// Command-line flags override them.
type Settings struct {
	DBPath   string `env:"ROBOTSIM_DB" envDefault:"~/.robotsim/runs.db"`
	LogLevel string `env:"ROBOTSIM_LOG_LEVEL" envDefault:"info"`
	Scenario string `env:"ROBOTSIM_SCENARIO"`
}

// LoadSettings parses Settings from the environment.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	return s, nil
}
