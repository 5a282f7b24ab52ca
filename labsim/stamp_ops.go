package labsim

import "math"

// cellInfo snapshots one footprint cell's physics/meta state during a
// move, keyed by its offset from the placement origin.
type cellInfo struct {
	Offs CoordPair
	Phys LabCell
	Meta LabCellMeta
}

// ClearCells zeroes every footprint cell of stamp placed at (dx,dy) in
// both buffers and unblocks it. Only legal between frames.
func (s *LabSim) ClearCells(dx, dy CoordInt, stamp *Stamp) {
	s.assertNotRunning("ClearCells")
	for _, p := range stamp.Occupied() {
		x, y := p.X+dx, p.Y+dy
		if !s.inBounds(x, y) {
			continue
		}
		idx := s.index(x, y)
		initCell(&s.front[idx], 0, 0, 0, SimFloat(s.cfg.AirTempCoeff))
		initCell(&s.back[idx], 0, 0, 0, SimFloat(s.cfg.AirTempCoeff))
		s.meta[idx].Blocked = false
		s.meta[idx].Obj = nil
	}
}

// PlaceObject writes obj's stamp into both buffers at (dx,dy) with heat
// energy derived from initialTemperature and obj's heat capacity, marks
// the footprint blocked, and redistributes the displaced air/heat/fog of
// whatever was previously there onto the surrounding border cells. Only
// legal between frames; panics if any footprint cell is already blocked.
func (s *LabSim) PlaceObject(dx, dy CoordInt, obj PhysicsObject, stamp *Stamp, initialTemperature SimFloat) {
	s.assertNotRunning("PlaceObject")

	occupied := stamp.Occupied()
	heatEnergy := initialTemperature * obj.TempCoefficient()

	cells := make([]cellInfo, len(occupied))
	for i, p := range occupied {
		cells[i].Offs = p
		cells[i].Phys.HeatEnergy = heatEnergy
		cells[i].Phys.Flow[0] = SimFloat(p.X) - SimFloat(Subdivisions)/2
		cells[i].Phys.Flow[1] = SimFloat(p.Y) - SimFloat(Subdivisions)/2
		cells[i].Meta.Blocked = true
		cells[i].Meta.Obj = obj
	}

	s.placeStamp(dx, dy, cells, nil)
}

// MoveStamp snapshots stamp's footprint at (oldx,oldy), clears it, then
// places the snapshot at (newx,newy), redistributing displaced matter
// with an optional velocity bias. Only legal between frames.
func (s *LabSim) MoveStamp(oldx, oldy, newx, newy CoordInt, stamp *Stamp, vel *CoordPair) {
	s.assertNotRunning("MoveStamp")

	occupied := stamp.Occupied()
	cells := make([]cellInfo, 0, len(occupied))
	for _, p := range occupied {
		x, y := p.X+oldx, p.Y+oldy
		if !s.inBounds(x, y) {
			continue
		}
		idx := s.index(x, y)
		cells = append(cells, cellInfo{Offs: p, Phys: s.front[idx], Meta: s.meta[idx]})
		initCell(&s.front[idx], 0, 0, 0, SimFloat(s.cfg.AirTempCoeff))
		initCell(&s.back[idx], 0, 0, 0, SimFloat(s.cfg.AirTempCoeff))
		s.meta[idx].Blocked = false
		s.meta[idx].Obj = nil
	}

	s.placeStamp(newx, newy, cells, vel)
}

// placeStamp writes the given footprint cells at the given origin and
// distributes whatever air/heat/fog they displaced onto the BFS-adjacent
// border cells, weighted uniformly or, if vel is given, by the cosine of
// each border direction against the velocity's unit vector.
func (s *LabSim) placeStamp(atx, aty CoordInt, cells []cellInfo, vel *CoordPair) {
	type borderCell struct {
		cell   *LabCell
		weight float64
	}
	seen := make(map[CoordPair]int) // offset -> index into border, or -1 for "not usable"
	var border []borderCell

	var velX, velY float64
	if vel != nil {
		norm := math.Hypot(float64(vel.X), float64(vel.Y))
		if norm > 0 {
			velX, velY = float64(vel.X)/norm, float64(vel.Y)/norm
		}
	}

	var airToDistribute, heatToDistribute, fogToDistribute float64

	neighOffs := [4]CoordPair{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

	for _, c := range cells {
		x, y := c.Offs.X+atx, c.Offs.Y+aty
		if !s.inBounds(x, y) {
			continue
		}
		idx := s.index(x, y)
		curMeta := s.meta[idx]
		if curMeta.Blocked {
			panic("labsim: placeStamp target cell already blocked")
		}

		airToDistribute += float64(s.front[idx].AirPressure)
		heatToDistribute += float64(s.front[idx].HeatEnergy)
		fogToDistribute += float64(s.front[idx].FogDensity)

		s.back[idx] = c.Phys
		s.front[idx] = c.Phys // placed cells must see their real values immediately
		s.meta[idx] = c.Meta

		for _, d := range neighOffs {
			np := CoordPair{c.Offs.X + d.X, c.Offs.Y + d.Y}
			if idx, already := seen[np]; already {
				if idx >= 0 && vel != nil {
					weight := math.Max(float64(d.X)*velX+float64(d.Y)*velY, 0)
					if border[idx].weight < weight {
						border[idx].weight = weight
					}
				}
				continue
			}

			nx, ny := x+d.X, y+d.Y
			if !s.inBounds(nx, ny) {
				seen[np] = -1
				continue
			}
			nidx := s.index(nx, ny)
			if s.meta[nidx].Blocked {
				seen[np] = -1
				continue
			}

			weight := 1.0
			if vel != nil {
				weight = math.Max(float64(d.X)*velX+float64(d.Y)*velY, 0)
			}
			seen[np] = len(border)
			border = append(border, borderCell{cell: &s.back[nidx], weight: weight})
		}

		// the cell we just placed may itself have been a border candidate
		// for an earlier footprint cell; drop it.
		if idx, ok := seen[c.Offs]; ok && idx >= 0 {
			border[idx].cell = nil
		}
		seen[c.Offs] = -1
	}

	if airToDistribute == 0 && fogToDistribute == 0 {
		return
	}

	var totalWeight float64
	var liveCount int
	for _, b := range border {
		if b.cell == nil {
			continue
		}
		liveCount++
		totalWeight += b.weight
	}
	if liveCount == 0 {
		s.logger.Debug("labsim: placeStamp: no border cells to redistribute into")
		return
	}
	weightToUse := totalWeight
	if weightToUse <= 0 {
		weightToUse = float64(liveCount)
	}

	airPerWeight := airToDistribute / weightToUse
	heatPerWeight := heatToDistribute / weightToUse
	fogPerWeight := fogToDistribute / weightToUse

	for _, b := range border {
		if b.cell == nil {
			continue
		}
		w := b.weight
		if totalWeight <= 0 {
			w = 1
		}
		b.cell.AirPressure += SimFloat(airPerWeight * w)
		b.cell.HeatEnergy += SimFloat(heatPerWeight * w)
		b.cell.FogDensity += SimFloat(fogPerWeight * w)
	}
}

// ApplyTemperatureStamp sets the heat energy of every in-range footprint
// cell, blocked or not, to temperature times its heat capacity.
func (s *LabSim) ApplyTemperatureStamp(x, y CoordInt, stamp *Stamp, temperature SimFloat) {
	for _, p := range stamp.Occupied() {
		cx, cy := x+p.X, y+p.Y
		cell, ok := s.SafeWritableCellAt(cx, cy)
		if !ok {
			continue
		}
		meta := s.MetaAt(cx, cy)
		cell.HeatEnergy = temperature * s.tempCoefficient(meta, *cell)
	}
}

// ApplyFogEffectStamp adds intensity to the fog density of every unblocked
// footprint cell, clamped to [0,1].
func (s *LabSim) ApplyFogEffectStamp(x, y CoordInt, stamp *Stamp, intensity SimFloat) {
	for _, p := range stamp.Occupied() {
		cx, cy := x+p.X, y+p.Y
		cell, ok := s.SafeWritableCellAt(cx, cy)
		if !ok {
			continue
		}
		if s.MetaAt(cx, cy).Blocked {
			continue
		}
		cell.FogDensity = clampF(cell.FogDensity+intensity, 0, 1)
	}
}

// ApplyPressureStamp sets the air pressure of every unblocked footprint
// cell directly.
func (s *LabSim) ApplyPressureStamp(x, y CoordInt, stamp *Stamp, pressure SimFloat) {
	for _, p := range stamp.Occupied() {
		cx, cy := x+p.X, y+p.Y
		cell, ok := s.SafeWritableCellAt(cx, cy)
		if !ok {
			continue
		}
		if s.MetaAt(cx, cy).Blocked {
			continue
		}
		cell.AirPressure = pressure
	}
}

// ApplyFlowStamp lerps the flow vector of every unblocked footprint cell
// toward flow by blend.
func (s *LabSim) ApplyFlowStamp(x, y CoordInt, stamp *Stamp, flow [2]SimFloat, blend SimFloat) {
	invBlend := 1 - blend
	for _, p := range stamp.Occupied() {
		cx, cy := x+p.X, y+p.Y
		cell, ok := s.SafeWritableCellAt(cx, cy)
		if !ok {
			continue
		}
		if s.MetaAt(cx, cy).Blocked {
			continue
		}
		cell.Flow[0] = flow[0]*blend + cell.Flow[0]*invBlend
		cell.Flow[1] = flow[1]*blend + cell.Flow[1]*invBlend
	}
}

// ResetUnblockedCells re-initialises every unblocked cell in the back
// buffer to the given defaults; blocked cells are untouched.
func (s *LabSim) ResetUnblockedCells(pressure, temperature, fogDensity SimFloat) {
	s.assertNotRunning("ResetUnblockedCells")
	heatEnergy := temperature * SimFloat(s.cfg.AirTempCoeff) * pressure
	for i := range s.back {
		if s.meta[i].Blocked {
			continue
		}
		s.back[i].Flow = [2]SimFloat{0, 0}
		s.back[i].FogDensity = fogDensity
		s.back[i].HeatEnergy = heatEnergy
		s.back[i].AirPressure = pressure
	}
}
