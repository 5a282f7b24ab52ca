package objects

import "github.com/horazont/maniaclab/level"

var rockInfo = level.ObjectInfo{
	Blocking:        true,
	Destructible:    true,
	GravityAffected: true,
	Movable:         true,
	Round:           true,
	RollRadius:      0.5,
	Stamp:           stampFromMask(roundMask),
}

// NewRock builds a round, falling, pushable rock with the baseline
// GameObject behavior unchanged: gravity and impact/headache chaining
// alone are enough to make it fall and roll off other round objects.
func NewRock(lvl *level.Level) *level.GameObject {
	return &level.GameObject{
		Info:         rockInfo,
		Level:        lvl,
		Behavior:     level.DefaultBehavior{},
		HeatCapacity: 1,
	}
}
