package level

import (
	"math"

	"github.com/horazont/maniaclab/labsim"
)

const (
	explosionPressure      SimFloat = 1.5
	explosionTemperature   SimFloat = 1000
	explosionFlowIntensity SimFloat = 10
)

var explosionObjectInfo = ObjectInfo{
	Blocking:     true,
	Destructible: false,
	Stamp:        labsim.NewStamp(labsim.NewCellStamp()),
}

var explosionPressureSpawnStamp = labsim.NewStamp(labsim.NewCellStampFromMask([]bool{
	false, true, true, true, false,
	true, true, true, true, true,
	true, true, true, true, true,
	true, true, true, true, true,
	false, true, true, true, false,
}))

type explosionFlowDir struct {
	stamp *labsim.Stamp
	dx, dy SimFloat
}

var explosionFlowStamps = []explosionFlowDir{
	{labsim.NewStamp(labsim.NewCellStampFromMask([]bool{
		false, true, true, true, false,
		false, false, false, false, false,
		false, false, false, false, false,
		false, false, false, false, false,
		false, false, false, false, false,
	})), 0, -1},
	{labsim.NewStamp(labsim.NewCellStampFromMask([]bool{
		false, false, false, false, false,
		true, false, false, false, false,
		true, false, false, false, false,
		true, false, false, false, false,
		false, false, false, false, false,
	})), -1, 0},
	{labsim.NewStamp(labsim.NewCellStampFromMask([]bool{
		false, false, false, false, false,
		false, false, false, false, true,
		false, false, false, false, true,
		false, false, false, false, true,
		false, false, false, false, false,
	})), 1, 0},
	{labsim.NewStamp(labsim.NewCellStampFromMask([]bool{
		false, false, false, false, false,
		false, false, false, false, false,
		false, false, false, false, false,
		false, false, false, false, false,
		false, true, true, true, false,
	})), 0, 1},
}

// explosionBehavior drives a transient explosion block: a one-shot pressure
// and temperature spike on spawn, a decaying outward flow push each tick,
// self-destruction once its lifetime expires.
type explosionBehavior struct {
	DefaultBehavior
	dieAt TickCounter
	ctr   TickCounter
}

func newExplosionObject(lvl *Level) *GameObject {
	obj := &GameObject{
		Info:         explosionObjectInfo,
		Level:        lvl,
		HeatCapacity: 1,
	}
	obj.Behavior = &explosionBehavior{dieAt: lvl.ticks + TickCounter(lvl.explosionCfg.BlockLifetimeTicks)}
	return obj
}

func (b *explosionBehavior) Tick(obj *GameObject) bool {
	physics := obj.Level.Physics()
	lifetime := TickCounter(obj.Level.explosionCfg.BlockLifetimeTicks)

	if b.ctr == 0 {
		physics.ApplyPressureStamp(obj.Phy.X, obj.Phy.Y, explosionPressureSpawnStamp, explosionPressure)
		physics.ApplyTemperatureStamp(obj.Phy.X, obj.Phy.Y, explosionPressureSpawnStamp, explosionTemperature)
	}

	relTime := float64(b.ctr) / float64(lifetime)
	cosFactor := SimFloat(math.Cos(relTime * math.Pi / 2))
	for _, dir := range explosionFlowStamps {
		flow := [2]SimFloat{dir.dx * cosFactor * explosionFlowIntensity, dir.dy * cosFactor * explosionFlowIntensity}
		physics.ApplyFlowStamp(obj.Phy.X, obj.Phy.Y, dir.stamp, flow, 1)
	}

	b.ctr++
	if obj.Ticks >= b.dieAt {
		obj.DestructSelf()
		return false
	}
	return true
}
