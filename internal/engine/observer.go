package engine

import (
	"slices"

	"github.com/vovakirdan/robotsim/internal/snapshot"
)

// Observer receives notifications from an engine. Callbacks run
// synchronously inside Step, in registration order, after the step's state
// has been committed. Each observer receives its own copy of every state.
//
// Observers are compared by identity, so implementations should be pointers.
type Observer interface {
	OnStep(state *snapshot.SystemState)
	OnCollision(ev CollisionEvent)
	OnMergePoint(ev MergeEvent)
}

// CollisionEvent reports a robot whose position is occupied by an element.
// Time is the simulation time at the end of the step that detected it.
type CollisionEvent struct {
	Time         float64
	RobotIndex   int
	Robot        snapshot.RobotState
	ElementIndex int
	Element      snapshot.ElementState
}

// MergeEvent reports a robot inside a merge zone.
type MergeEvent struct {
	Time         float64
	RobotIndex   int
	Robot        snapshot.RobotState
	ElementIndex int
	Element      snapshot.ElementState
}

// BaseObserver implements Observer with no-ops. Embed it to handle only
// some notifications.
type BaseObserver struct{}

func (BaseObserver) OnStep(*snapshot.SystemState) {}
func (BaseObserver) OnCollision(CollisionEvent)   {}
func (BaseObserver) OnMergePoint(MergeEvent)      {}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	Step      func(state *snapshot.SystemState)
	Collision func(ev CollisionEvent)
	Merge     func(ev MergeEvent)
}

func (f *ObserverFuncs) OnStep(state *snapshot.SystemState) {
	if f.Step != nil {
		f.Step(state)
	}
}

func (f *ObserverFuncs) OnCollision(ev CollisionEvent) {
	if f.Collision != nil {
		f.Collision(ev)
	}
}

func (f *ObserverFuncs) OnMergePoint(ev MergeEvent) {
	if f.Merge != nil {
		f.Merge(ev)
	}
}

// Registration is the handle returned by RegisterObserver. Releasing it
// stops notifications to that registration.
type Registration struct {
	engine   *Engine
	observer Observer
	active   bool
}

// Release unregisters the observer. It is safe to call more than once and
// from inside an observer callback.
func (r *Registration) Release() {
	if r == nil || !r.active {
		return
	}
	r.active = false
	r.engine.drop(r)
}

// Active reports whether the registration still receives notifications.
func (r *Registration) Active() bool {
	return r != nil && r.active
}

// RegisterObserver adds o to the end of the notification list and returns
// its registration. The same observer may be registered more than once; it
// is then notified once per registration.
func (e *Engine) RegisterObserver(o Observer) *Registration {
	reg := &Registration{engine: e, observer: o, active: true}
	e.observers = append(e.observers, reg)
	return reg
}

// UnregisterObserver removes the earliest active registration of o.
func (e *Engine) UnregisterObserver(o Observer) error {
	for _, reg := range e.observers {
		if reg.observer == o {
			reg.Release()
			return nil
		}
	}
	return ErrObserverNotRegistered
}

// ObserverCount returns the number of active registrations.
func (e *Engine) ObserverCount() int {
	return len(e.observers)
}

func (e *Engine) drop(reg *Registration) {
	for i, r := range e.observers {
		if r == reg {
			e.observers = slices.Delete(e.observers, i, i+1)
			return
		}
	}
}

type pendingEvent struct {
	collision *CollisionEvent
	merge     *MergeEvent
}

// notify delivers queued events, then the step state, to every registration
// that is active at the moment of its callback.
func (e *Engine) notify(events []pendingEvent, state *snapshot.SystemState) {
	regs := append([]*Registration(nil), e.observers...)

	for _, ev := range events {
		for _, reg := range regs {
			if !reg.active {
				continue
			}
			switch {
			case ev.collision != nil:
				c := *ev.collision
				c.Robot = c.Robot.Clone()
				reg.observer.OnCollision(c)
			case ev.merge != nil:
				m := *ev.merge
				m.Robot = m.Robot.Clone()
				reg.observer.OnMergePoint(m)
			}
		}
	}

	for _, reg := range regs {
		if reg.active {
			reg.observer.OnStep(state.Clone())
		}
	}
}
