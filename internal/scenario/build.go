// Package scenario turns a loaded scenario description into a ready engine
// by instantiating robots and elements through the kind registry.
package scenario

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/robotsim/internal/config"
	"github.com/vovakirdan/robotsim/internal/engine"
	"github.com/vovakirdan/robotsim/internal/environment"
	"github.com/vovakirdan/robotsim/internal/registry"
)

// Build creates an engine at time zero holding the scenario's environment
// elements and robots in file order. The scenario's kinds must have been
// registered, typically by importing the robot and elements packages.
func Build(sc config.Scenario) (*engine.Engine, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	if err := checkKinds(sc); err != nil {
		return nil, err
	}

	env := environment.New()
	for i, spec := range sc.Environment {
		el, err := registry.CreateElement(spec.Kind, registry.Params(spec.Params))
		if err != nil {
			return nil, fmt.Errorf("scenario: environment[%d]: %w", i, err)
		}
		env.AddElement(el)
	}

	e := engine.New(engine.WithEnvironment(env))
	for i, spec := range sc.Robots {
		r, err := registry.CreateRobot(spec.Kind, registry.Params(spec.Params))
		if err != nil {
			return nil, fmt.Errorf("scenario: robots[%d]: %w", i, err)
		}
		e.AddRobot(r)
	}
	return e, nil
}

// checkKinds reports every unregistered kind in sc at once.
func checkKinds(sc config.Scenario) error {
	var errs []error
	for i, spec := range sc.Robots {
		if !registry.RobotExists(spec.Kind) {
			errs = append(errs, fmt.Errorf("robots[%d]: unknown robot kind %q", i, spec.Kind))
		}
	}
	for i, spec := range sc.Environment {
		if !registry.ElementExists(spec.Kind) {
			errs = append(errs, fmt.Errorf("environment[%d]: unknown element kind %q", i, spec.Kind))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("scenario %q: %w", sc.Name, errors.Join(errs...))
	}
	return nil
}

// Run advances e by steps steps of dt, calling after (if not nil) once
// each step has committed. It stops at the first step error.
func Run(e *engine.Engine, steps int, dt float64, after func(step int)) error {
	for i := 1; i <= steps; i++ {
		if err := e.Step(dt); err != nil {
			return fmt.Errorf("scenario: step %d: %w", i, err)
		}
		if after != nil {
			after(i)
		}
	}
	return nil
}
