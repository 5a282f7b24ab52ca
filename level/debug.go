package level

// CellProbeSample is the physics-grid readback for one cell: its raw
// pressure/heat/fog/flow state plus the derived temperature and whether it
// is blocked (and by what, if anything).
type CellProbeSample struct {
	Offset      CoordPair
	InRange     bool
	Blocked     bool
	AirPressure SimFloat
	HeatEnergy  SimFloat
	Temperature SimFloat
	FogDensity  SimFloat
	Flow        [2]SimFloat
}

// CellProbe is a cross-shaped readback centred on one physics cell: the
// cell itself plus its four orthogonal neighbours, in the order centre,
// up, left, right, down.
type CellProbe struct {
	CenterX, CenterY CoordInt
	Samples          [5]CellProbeSample
}

var probeOffsets = [5]CoordPair{
	{X: 0, Y: 0},
	{X: 0, Y: -1},
	{X: -1, Y: 0},
	{X: 1, Y: 0},
	{X: 0, Y: 1},
}

// DebugCell samples the physics grid at game-grid position (x, y) and its
// four orthogonal neighbours. Coordinates outside the physics grid are
// reported with InRange false and otherwise zeroed.
func (l *Level) DebugCell(x, y SimFloat) CellProbe {
	l.physics.WaitForFrame()

	phy := l.physicsCoords(x, y)
	probe := CellProbe{CenterX: phy.X, CenterY: phy.Y}

	for i, off := range probeOffsets {
		cx, cy := phy.X+off.X, phy.Y+off.Y
		sample := CellProbeSample{Offset: off}

		cell, ok := l.physics.SafeFrontCellAt(cx, cy)
		if !ok {
			probe.Samples[i] = sample
			continue
		}
		meta, _ := l.physics.SafeMetaAt(cx, cy)

		sample.InRange = true
		sample.Blocked = meta.Blocked
		sample.AirPressure = cell.AirPressure
		sample.HeatEnergy = cell.HeatEnergy
		sample.FogDensity = cell.FogDensity
		sample.Flow = cell.Flow
		if tc := l.physics.HeatCapacityAt(cx, cy); tc != 0 {
			sample.Temperature = cell.HeatEnergy / tc
		}
		probe.Samples[i] = sample
	}

	return probe
}
