// Package sensor implements measurement sensors and threshold triggers:
// a sensor samples a value from the level each tick and runs it through
// zero or more triggers, each firing rising/falling-edge and level
// callbacks as the value crosses a configured band.
package sensor

import (
	"math"

	"github.com/horazont/maniaclab/labsim"
	"github.com/horazont/maniaclab/level"
)

// Func is called on an edge or level-triggered event.
type Func func()

// Trigger fires its callbacks as a sampled value enters or leaves the
// band [LowThreshold, HighThreshold] (inverted, if set, flips which side
// counts as "firing"). A threshold left at NaN never excludes a value on
// that side, mirroring the band-with-optional-open-ends semantics of the
// original's NaN-initialized thresholds.
type Trigger struct {
	Inverted      bool
	LowThreshold  level.SimFloat
	HighThreshold level.SimFloat

	RisingEdge  Func
	FallingEdge Func
	Firing      Func

	firing bool
}

// NewTrigger returns a Trigger with both thresholds unset (NaN), firing
// unconditionally until thresholds are configured.
func NewTrigger() *Trigger {
	return &Trigger{
		LowThreshold:  level.SimFloat(math.NaN()),
		HighThreshold: level.SimFloat(math.NaN()),
	}
}

// IsFiring reports whether the trigger is currently in its firing state.
func (t *Trigger) IsFiring() bool { return t.firing }

// Update samples value against the trigger's band and runs whichever
// callbacks apply.
func (t *Trigger) Update(value level.SimFloat) {
	rawNowFiring := !(t.LowThreshold > value) && !(t.HighThreshold < value)
	nowFiring := rawNowFiring
	if t.Inverted {
		nowFiring = !rawNowFiring
	}

	if nowFiring && !t.firing {
		if t.RisingEdge != nil {
			t.RisingEdge()
		}
	} else if !nowFiring && t.firing {
		if t.FallingEdge != nil {
			t.FallingEdge()
		}
	}
	if nowFiring && t.Firing != nil {
		t.Firing()
	}

	t.firing = nowFiring
}

// MeasureFunc reads one quantity out of a physics cell, e.g. heat energy
// or air pressure.
type MeasureFunc func(labsim.LabCell) level.SimFloat

// Sensor samples a value from the level every tick and drives its
// registered triggers from the result.
type Sensor struct {
	triggers []*Trigger
	measure  func() (level.SimFloat, bool)
}

// NewObjectSensor builds a sensor that averages fn over obj's occupied
// footprint cells each tick.
func NewObjectSensor(lvl *level.Level, obj *level.GameObject, fn MeasureFunc) *Sensor {
	return &Sensor{
		measure: func() (level.SimFloat, bool) {
			return lvl.MeasureObjectAvg(obj, fn)
		},
	}
}

// NewTrigger allocates a new Trigger owned by this sensor and returns it
// for the caller to configure (thresholds, callbacks).
func (s *Sensor) NewTrigger() *Trigger {
	t := NewTrigger()
	s.triggers = append(s.triggers, t)
	return t
}

// RemoveTrigger unregisters a trigger previously returned by NewTrigger.
func (s *Sensor) RemoveTrigger(t *Trigger) {
	for i, existing := range s.triggers {
		if existing == t {
			s.triggers = append(s.triggers[:i], s.triggers[i+1:]...)
			return
		}
	}
}

// Update samples the sensor's measurement and runs every registered
// trigger against it. When the measurement returns ok=false (no footprint
// cell lies inside the physics grid) the triggers are left untouched.
// Removal of the sensed object is not detected: its former footprint is
// still sampled.
func (s *Sensor) Update() {
	value, ok := s.measure()
	if !ok {
		return
	}
	for _, t := range s.triggers {
		t.Update(value)
	}
}
