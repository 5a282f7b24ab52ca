package objects

import (
	"math"
	"math/rand/v2"

	"github.com/horazont/maniaclab/labsim"
	"github.com/horazont/maniaclab/level"
)

var horizFanInfo = level.ObjectInfo{
	Blocking: true,
	Stamp:    stampFromMask(horizFanMask),
}

var vertFanInfo = level.ObjectInfo{
	Blocking: true,
	Stamp:    stampFromMask(vertFanMask),
}

var horizFanEffectStamp = stampFromMask(horizFanEffectMask)
var vertFanEffectStamp = stampFromMask(vertFanEffectMask)

// fanBehavior pushes air in one direction each tick, optionally jittering
// the push angle by a bounded random turbulence deviation.
type fanBehavior struct {
	level.DefaultBehavior

	effectStamp         *labsim.Stamp
	intensity            level.SimFloat
	turbulenceEnabled    bool
	turbulenceMagnitude  float64
	angleOffset          float64
	rng                  *rand.Rand
}

// NewHorizFan builds a fan that pushes air left-to-right along its row,
// blowing at the given intensity with an optional turbulence magnitude
// (each tick the push angle deviates by a random amount of up to
// ±turbulence·π/4 radians; 0 disables turbulence).
func NewHorizFan(lvl *level.Level, intensity level.SimFloat, turbulence float64) *level.GameObject {
	return newFan(lvl, horizFanInfo, horizFanEffectStamp, intensity, turbulence, 0)
}

// NewVertFan builds a fan that pushes air top-to-bottom along its column.
func NewVertFan(lvl *level.Level, intensity level.SimFloat, turbulence float64) *level.GameObject {
	return newFan(lvl, vertFanInfo, vertFanEffectStamp, intensity, turbulence, math.Pi/2)
}

func newFan(lvl *level.Level, info level.ObjectInfo, effectStamp *labsim.Stamp, intensity level.SimFloat, turbulence, angleOffset float64) *level.GameObject {
	obj := &level.GameObject{
		Info:         info,
		Level:        lvl,
		HeatCapacity: 2,
	}
	obj.Behavior = &fanBehavior{
		effectStamp:         effectStamp,
		intensity:           intensity,
		turbulenceEnabled:   turbulence > 1e-6,
		turbulenceMagnitude: turbulence,
		angleOffset:         angleOffset,
		rng:                 rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	return obj
}

func (b *fanBehavior) Idle(obj *level.GameObject) bool {
	deviation := b.angleOffset
	if b.turbulenceEnabled {
		deviation += (b.rng.Float64()*2 - 1) * b.turbulenceMagnitude * math.Pi / 4
	}

	flow := [2]level.SimFloat{
		b.intensity * level.SimFloat(math.Cos(deviation)),
		b.intensity * level.SimFloat(math.Sin(deviation)),
	}
	obj.Level.Physics().ApplyFlowStamp(obj.Phy.X, obj.Phy.Y, b.effectStamp, flow, 0.2)
	return true
}
