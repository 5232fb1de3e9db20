package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Source describes where a scenario was loaded from.
type Source string

// Scenario sources, in search order.
const (
	SourceCustom   Source = "custom"
	SourceUser     Source = "user"
	SourceLocal    Source = "local"
	SourceEmbedded Source = "embedded"
	SourceBuiltin  Source = "builtin"
)

// LocalScenarioPath is the scenario file looked up in the working directory.
const LocalScenarioPath = "configs/scenario.yaml"

// LoadScenario loads a scenario and returns it with its raw YAML.
// Search order: customPath -> ~/.robotsim/scenarios/default.yaml ->
// ./configs/scenario.yaml -> embedded default -> DefaultScenario().
//
// An explicit customPath must exist and parse. The other locations are
// skipped when missing or invalid.
func LoadScenario(customPath string) (Scenario, []byte, Source, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Scenario{}, nil, SourceCustom, fmt.Errorf("failed to read scenario %s: %w", customPath, err)
		}
		sc, err := ParseScenario(data)
		if err != nil {
			return Scenario{}, nil, SourceCustom, fmt.Errorf("failed to parse scenario %s: %w", customPath, err)
		}
		return sc, data, SourceCustom, nil
	}

	// Try user config directory
	if userPath := userScenarioPath(); userPath != "" {
		if data, err := os.ReadFile(userPath); err == nil {
			if sc, err := ParseScenario(data); err == nil {
				return sc, data, SourceUser, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(LocalScenarioPath); err == nil {
		if sc, err := ParseScenario(data); err == nil {
			return sc, data, SourceLocal, nil
		}
	}

	// Use embedded default YAML
	if sc, err := ParseScenario(defaultScenarioYAML); err == nil {
		return sc, DefaultScenarioYAML(), SourceEmbedded, nil
	}

	// Fallback to hardcoded if embed fails
	sc := DefaultScenario()
	data, err := MarshalScenario(sc)
	if err != nil {
		return Scenario{}, nil, SourceBuiltin, err
	}
	return sc, data, SourceBuiltin, nil
}

// ParseScenario decodes and validates a scenario document. Unknown keys
// are rejected so that typos surface instead of silently using defaults.
func ParseScenario(data []byte) (Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return Scenario{}, fmt.Errorf("config: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return Scenario{}, err
	}
	return sc, nil
}

// MarshalScenario encodes a scenario as YAML.
func MarshalScenario(sc Scenario) ([]byte, error) {
	data, err := yaml.Marshal(sc)
	if err != nil {
		return nil, fmt.Errorf("config: cannot encode scenario: %w", err)
	}
	return data, nil
}

// userScenarioPath returns the path to the user scenario, or empty if home is unavailable.
func userScenarioPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".robotsim", "scenarios", "default.yaml")
}
