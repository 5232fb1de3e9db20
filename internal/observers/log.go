// Package observers provides engine observers for logging, metrics and
// frame recording.
package observers

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/robotsim/internal/engine"
	"github.com/vovakirdan/robotsim/internal/snapshot"
)

// LogObserver writes engine notifications to a structured logger:
// steps at debug level, merge arrivals at info and collisions at warn.
type LogObserver struct {
	logger *log.Logger
}

var _ engine.Observer = (*LogObserver)(nil)

// NewLogObserver creates a log observer writing to logger.
func NewLogObserver(logger *log.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnStep(state *snapshot.SystemState) {
	o.logger.Debug("step", "time", state.Time(), "robots", state.RobotCount())
}

func (o *LogObserver) OnCollision(ev engine.CollisionEvent) {
	o.logger.Warn("collision",
		"time", ev.Time,
		"robot", ev.RobotIndex,
		"element", ev.ElementIndex,
		"type", ev.Element.TypeID,
	)
}

func (o *LogObserver) OnMergePoint(ev engine.MergeEvent) {
	o.logger.Info("merge point reached",
		"time", ev.Time,
		"robot", ev.RobotIndex,
		"element", ev.ElementIndex,
	)
}
