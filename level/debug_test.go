package level

import (
	"testing"

	"github.com/horazont/maniaclab/labsim"
)

// blockingObjectInfo occupies the single centre physics cell of its
// footprint, enough to exercise a DebugCell readback against a real
// blocked cell without pulling in the full 5x5 stamp machinery.
var blockingObjectInfo = ObjectInfo{
	Stamp: func() *labsim.Stamp {
		mask := make([]bool, labsim.StampLen)
		mask[12] = true
		return labsim.NewStamp(labsim.NewCellStampFromMask(mask))
	}(),
}

func TestDebugCellCenterMatchesPlacedObjectTemperature(t *testing.T) {
	lvl := newTestLevel(t, 5, 5)
	obj := &GameObject{
		Info:         blockingObjectInfo,
		Level:        lvl,
		Behavior:     DefaultBehavior{},
		HeatCapacity: 1,
	}
	lvl.PlaceObject(obj, 2, 2, 3.0)

	probe := lvl.DebugCell(2.4, 2.4)

	center := probe.Samples[0]
	if !center.InRange {
		t.Fatal("expected the center sample to be in range")
	}
	if center.Temperature != 3 {
		t.Errorf("expected the placed temperature 3 at a freshly placed cell, got %v", center.Temperature)
	}
}

func TestDebugCellReportsOutOfRangeNeighbours(t *testing.T) {
	lvl := newTestLevel(t, 5, 5)

	probe := lvl.DebugCell(0, 0)

	up := probe.Samples[1]
	if up.InRange {
		t.Error("expected the neighbour above the top-left cell to be out of range")
	}
}
