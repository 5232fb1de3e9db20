// Package config provides YAML-based scenario loading and environment
// settings for the simulator.
package config

import (
	"errors"
	"fmt"
	"math"
)

// DefaultOutput is the file the final state is saved to when a scenario
// does not name one.
const DefaultOutput = "simulation_final_state.json"

// Scenario describes a simulation to build and run.
type Scenario struct {
	Name        string       `yaml:"name"`
	DT          float64      `yaml:"dt"`
	Steps       int          `yaml:"steps"`
	Output      string       `yaml:"output,omitempty"`
	View        ViewConfig   `yaml:"view,omitempty"`
	Robots      []EntitySpec `yaml:"robots"`
	Environment []EntitySpec `yaml:"environment,omitempty"`
}

// EntitySpec names a registered robot or element kind and its parameters.
type EntitySpec struct {
	Kind   string             `yaml:"kind"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

// ViewConfig controls the interactive viewer. A zero-sized world window
// means "fit the scene on the first frame".
type ViewConfig struct {
	TickRate int     `yaml:"tick_rate,omitempty"`
	MinX     float64 `yaml:"min_x,omitempty"`
	MinY     float64 `yaml:"min_y,omitempty"`
	MaxX     float64 `yaml:"max_x,omitempty"`
	MaxY     float64 `yaml:"max_y,omitempty"`
}

// HasWindow reports whether a world window was configured.
func (v ViewConfig) HasWindow() bool {
	return v.MaxX > v.MinX && v.MaxY > v.MinY
}

// Validate checks the scenario for values no simulation can use.
// Kind names are checked when the scenario is built.
func (s Scenario) Validate() error {
	var errs []error

	if !(s.DT > 0) || math.IsInf(s.DT, 0) {
		errs = append(errs, fmt.Errorf("dt must be positive and finite, got %v", s.DT))
	}
	if s.Steps < 0 {
		errs = append(errs, fmt.Errorf("steps must not be negative, got %d", s.Steps))
	}
	if s.View.TickRate < 0 {
		errs = append(errs, fmt.Errorf("view.tick_rate must not be negative, got %d", s.View.TickRate))
	}
	for i, r := range s.Robots {
		if r.Kind == "" {
			errs = append(errs, fmt.Errorf("robots[%d]: kind is required", i))
		}
	}
	for i, e := range s.Environment {
		if e.Kind == "" {
			errs = append(errs, fmt.Errorf("environment[%d]: kind is required", i))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid scenario %q: %w", s.Name, errors.Join(errs...))
	}
	return nil
}

// OutputPath returns the configured output file or DefaultOutput.
func (s Scenario) OutputPath() string {
	if s.Output == "" {
		return DefaultOutput
	}
	return s.Output
}
