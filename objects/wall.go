package objects

import (
	"github.com/horazont/maniaclab/labsim"
	"github.com/horazont/maniaclab/level"
)

const heatCapacityStone level.SimFloat = 5.0

var heaterStamp = stampFromMask(heaterPlusMask)

var squareWallInfo = level.ObjectInfo{
	Blocking: true,
	Sticky:   true,
	Stamp:    stampFromMask(squareMask),
}

var roundWallInfo = level.ObjectInfo{
	Blocking:   true,
	Sticky:     true,
	Round:      true,
	RollRadius: 0.5,
	Stamp:      stampFromMask(roundMask),
}

// wallBehavior is a blocking, immovable wall that optionally runs as a
// thermostat: each tick it nudges the heat energy in a plus-shaped area
// around it toward a target temperature, clamped to a maximum rate.
type wallBehavior struct {
	level.DefaultBehavior

	heaterEnabled      bool
	targetTemperature  level.SimFloat
	energyRate         level.SimFloat
}

// NewSquareWall builds a non-round, fully blocking wall with no heater.
func NewSquareWall(lvl *level.Level) *level.GameObject {
	return newWall(lvl, squareWallInfo)
}

// NewRoundWall builds a round wall that can be rolled over by round
// objects stacked on top of it.
func NewRoundWall(lvl *level.Level) *level.GameObject {
	return newWall(lvl, roundWallInfo)
}

func newWall(lvl *level.Level, info level.ObjectInfo) *level.GameObject {
	obj := &level.GameObject{
		Info:         info,
		Level:        lvl,
		HeatCapacity: heatCapacityStone,
	}
	obj.Behavior = &wallBehavior{targetTemperature: 1, energyRate: 1}
	return obj
}

// SetHeaterEnabled turns the wall's thermostat effect on or off.
func SetHeaterEnabled(obj *level.GameObject, enabled bool) {
	obj.Behavior.(*wallBehavior).heaterEnabled = enabled
}

// SetHeaterTargetTemperature sets the temperature the thermostat drives
// its surrounding cells toward.
func SetHeaterTargetTemperature(obj *level.GameObject, target level.SimFloat) {
	obj.Behavior.(*wallBehavior).targetTemperature = target
}

// SetHeaterEnergyRate caps how much heat energy the thermostat may add or
// remove from its surroundings in a single tick.
func SetHeaterEnergyRate(obj *level.GameObject, rate level.SimFloat) {
	obj.Behavior.(*wallBehavior).energyRate = rate
}

func (b *wallBehavior) Idle(obj *level.GameObject) bool {
	if !b.heaterEnabled {
		return true
	}

	avgHeatEnergy, ok := obj.Level.MeasureStampAvg(obj.Phy.X, obj.Phy.Y, heaterStamp, func(c labsim.LabCell) level.SimFloat {
		return c.HeatEnergy
	})
	if !ok {
		return true
	}

	targetAvg := b.targetTemperature * obj.HeatCapacity
	change := clamp(targetAvg-avgHeatEnergy, -b.energyRate, b.energyRate)
	newHeatEnergy := avgHeatEnergy + change
	newTemperature := newHeatEnergy / obj.HeatCapacity

	obj.Level.Physics().ApplyTemperatureStamp(obj.Phy.X, obj.Phy.Y, heaterStamp, newTemperature)
	return true
}

func clamp(v, lo, hi level.SimFloat) level.SimFloat {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
