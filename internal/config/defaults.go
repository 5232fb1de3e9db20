package config

import (
	_ "embed"
)

//go:embed defaults/scenario.yaml
var defaultScenarioYAML []byte

// DefaultScenario returns the built-in scenario: three point robots, one of
// them cruising diagonally, simulated for ten seconds at 100 ms steps.
func DefaultScenario() Scenario {
	return Scenario{
		Name:   "demo",
		DT:     0.1,
		Steps:  100,
		Output: DefaultOutput,
		View:   ViewConfig{TickRate: 10},
		Robots: []EntitySpec{
			{Kind: "point", Params: map[string]float64{"x": 0, "y": 0}},
			{Kind: "point", Params: map[string]float64{"x": 1, "y": 1}},
			{Kind: "point", Params: map[string]float64{"x": 2, "y": 2, "vx": 0.5, "vy": 0.5}},
		},
		Environment: []EntitySpec{
			{Kind: "merge", Params: map[string]float64{"x": 5, "y": 5, "radius": 0.75}},
			{Kind: "box", Params: map[string]float64{"x": 6, "y": 6, "w": 1, "h": 1}},
			{Kind: "gate", Params: map[string]float64{"x": -2, "y": -1, "w": 1, "h": 0.5, "dy": 4, "speed": 0.5}},
		},
	}
}

// DefaultScenarioYAML returns the embedded default scenario file.
func DefaultScenarioYAML() []byte {
	return append([]byte(nil), defaultScenarioYAML...)
}
