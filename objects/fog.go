package objects

import "github.com/horazont/maniaclab/level"

var fogObjectInfo = level.ObjectInfo{
	Blocking: true,
	Stamp:    stampFromMask(fogMask),
}

var fogEffectStamp = stampFromMask(fogEffectMask)
var fogTemperatureStamp = stampFromMask(fogTemperatureMask)

// fogBehavior emits fog at a fixed intensity and drives the surrounding
// area toward a fixed temperature every tick.
type fogBehavior struct {
	level.DefaultBehavior

	intensity   level.SimFloat
	temperature level.SimFloat
}

// NewFogEmitter builds a fog-emitting, temperature-regulating object.
func NewFogEmitter(lvl *level.Level, intensity, temperature level.SimFloat) *level.GameObject {
	obj := &level.GameObject{
		Info:         fogObjectInfo,
		Level:        lvl,
		HeatCapacity: 2,
	}
	obj.Behavior = &fogBehavior{intensity: intensity, temperature: temperature}
	return obj
}

func (b *fogBehavior) Idle(obj *level.GameObject) bool {
	physics := obj.Level.Physics()
	physics.ApplyFogEffectStamp(obj.Phy.X, obj.Phy.Y, fogEffectStamp, b.intensity)
	physics.ApplyTemperatureStamp(obj.Phy.X, obj.Phy.Y, fogTemperatureStamp, b.temperature)
	return true
}
