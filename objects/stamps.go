// Package objects implements the concrete game object kinds placed into a
// level: walls, rocks, bombs, fans, fog emitters and the player, each
// built on level.DefaultBehavior and overriding only the hooks that
// differ from the baseline.
package objects

import "github.com/horazont/maniaclab/labsim"

func stampFromMask(mask []bool) *labsim.Stamp {
	return labsim.NewStamp(labsim.NewCellStampFromMask(mask))
}

var squareMask = []bool{
	true, true, true, true, true,
	true, true, true, true, true,
	true, true, true, true, true,
	true, true, true, true, true,
	true, true, true, true, true,
}

var roundMask = []bool{
	false, true, true, true, false,
	true, true, true, true, true,
	true, true, true, true, true,
	true, true, true, true, true,
	false, true, true, true, false,
}

var heaterPlusMask = []bool{
	false, false, false, false, false,
	false, false, true, false, false,
	false, true, true, true, false,
	false, false, true, false, false,
	false, false, false, false, false,
}

var bombMask = roundMask

var fogMask = []bool{
	false, false, false, false, false,
	false, false, true, false, false,
	false, true, true, true, false,
	false, false, true, false, false,
	false, false, false, false, false,
}

var fogEffectMask = []bool{
	false, false, true, false, false,
	false, true, false, true, false,
	true, false, false, false, true,
	false, true, false, true, false,
	false, false, true, false, false,
}

var fogTemperatureMask = []bool{
	false, false, true, false, false,
	false, true, true, true, false,
	true, true, true, true, true,
	false, true, true, true, false,
	false, false, true, false, false,
}

var horizFanMask = []bool{
	false, true, true, true, false,
	false, false, false, false, false,
	false, false, false, false, false,
	false, false, false, false, false,
	false, true, true, true, false,
}

var vertFanMask = []bool{
	false, false, false, false, false,
	true, false, false, false, true,
	true, false, false, false, true,
	true, false, false, false, true,
	false, false, false, false, false,
}

var horizFanEffectMask = []bool{
	false, false, false, false, false,
	false, false, true, false, false,
	false, false, true, false, false,
	false, false, true, false, false,
	false, false, false, false, false,
}

var vertFanEffectMask = []bool{
	false, false, false, false, false,
	false, false, false, false, false,
	false, true, true, true, false,
	false, false, false, false, false,
	false, false, false, false, false,
}
