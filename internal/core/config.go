package core

import "time"

// RuntimeConfig contains the settings of an interactive viewer session.
type RuntimeConfig struct {
	ScreenW  int     // Screen width in characters
	ScreenH  int     // Screen height in characters
	TickRate int     // Viewer ticks per second
	DT       float64 // Simulated seconds advanced per tick
	MaxSteps int     // Stop stepping after this many steps, 0 for unlimited
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 10,
		DT:       0.1,
	}
}

// TickInterval returns the wall-clock time between two viewer ticks.
func (c RuntimeConfig) TickInterval() time.Duration {
	if c.TickRate <= 0 {
		return time.Second
	}
	return time.Second / time.Duration(c.TickRate)
}
