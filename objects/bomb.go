package objects

import (
	"github.com/horazont/maniaclab/labsim"
	"github.com/horazont/maniaclab/level"
)

const (
	heatCapacityMetal level.SimFloat = 10.0
	// bombTemperatureThreshold is the heat energy, divided by the bomb's
	// own heat capacity, above which it detonates on its own.
	bombTemperatureThreshold level.SimFloat = 390
)

var bombInfo = level.ObjectInfo{
	Blocking:        true,
	Destructible:    true,
	GravityAffected: true,
	Movable:         true,
	Round:           true,
	RollRadius:      0.5,
	Stamp:           stampFromMask(bombMask),
}

type bombBehavior struct {
	level.DefaultBehavior
}

// NewBomb builds a round, falling bomb that detonates when touched by an
// explosion, hit by a falling object, another object landing on it, or
// when its own temperature crosses bombTemperatureThreshold.
func NewBomb(lvl *level.Level) *level.GameObject {
	obj := &level.GameObject{
		Info:         bombInfo,
		Level:        lvl,
		HeatCapacity: heatCapacityMetal,
	}
	obj.Behavior = bombBehavior{}
	return obj
}

func explodeBomb(obj *level.GameObject) {
	obj.Level.AddLargeExplosion(obj.Cell.X, obj.Cell.Y, 1, 1)
	obj.DestructSelf()
}

func (bombBehavior) Headache(obj *level.GameObject, from *level.GameObject) {
	explodeBomb(obj)
}

func (bombBehavior) ExplosionTouch(obj *level.GameObject) {
	explodeBomb(obj)
}

func (bombBehavior) Impact(obj *level.GameObject, on *level.GameObject) bool {
	explodeBomb(obj)
	return false
}

// Tick checks the bomb's own temperature before the rest of Update runs,
// detonating (and halting further processing) if it has gotten too hot —
// mirrors the base implementation checking its fuse before movement.
func (bombBehavior) Tick(obj *level.GameObject) bool {
	avg, ok := obj.Level.MeasureObjectAvg(obj, func(c labsim.LabCell) level.SimFloat {
		return c.HeatEnergy / obj.HeatCapacity
	})
	if ok && avg > bombTemperatureThreshold {
		explodeBomb(obj)
		return false
	}
	return true
}
