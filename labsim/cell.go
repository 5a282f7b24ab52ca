package labsim

// LabCell is one physics-grid cell: pressure, heat and fog state plus the
// flow vector along the two axes, all in SimFloat.
type LabCell struct {
	AirPressure SimFloat
	HeatEnergy  SimFloat
	FogDensity  SimFloat
	Flow        [2]SimFloat
}

// LabCellMeta is the occupancy side-channel for a physics cell: whether an
// object's footprint covers it, and which object. Invariant: Blocked ==
// (Obj != nil).
type LabCellMeta struct {
	Blocked bool
	Obj     PhysicsObject
}

func initCell(c *LabCell, airPressure, temperature, fogDensity, airTempCoeff SimFloat) {
	c.AirPressure = airPressure
	c.HeatEnergy = temperature * (airTempCoeff * airPressure)
	c.Flow = [2]SimFloat{0, 0}
	c.FogDensity = fogDensity
}
