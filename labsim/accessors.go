package labsim

// FrontCellAt returns the read-buffer state of a cell. Callers in range
// may call this at any time; behavior for out-of-range coordinates is
// undefined — use SafeFrontCellAt for untrusted coordinates.
func (s *LabSim) FrontCellAt(x, y CoordInt) LabCell {
	return s.front[s.index(x, y)]
}

// SafeFrontCellAt is FrontCellAt guarded against out-of-range coordinates.
func (s *LabSim) SafeFrontCellAt(x, y CoordInt) (LabCell, bool) {
	if !s.inBounds(x, y) {
		return LabCell{}, false
	}
	return s.front[s.index(x, y)], true
}

// MetaAt returns the occupancy metadata of a cell.
func (s *LabSim) MetaAt(x, y CoordInt) LabCellMeta {
	return s.meta[s.index(x, y)]
}

// SafeMetaAt is MetaAt guarded against out-of-range coordinates.
func (s *LabSim) SafeMetaAt(x, y CoordInt) (LabCellMeta, bool) {
	if !s.inBounds(x, y) {
		return LabCellMeta{}, false
	}
	return s.meta[s.index(x, y)], true
}

// WritableCellAt returns a pointer into the write (back) buffer. Legal
// only between frames (running == false); panics otherwise.
func (s *LabSim) WritableCellAt(x, y CoordInt) *LabCell {
	s.assertNotRunning("WritableCellAt")
	return &s.back[s.index(x, y)]
}

// SafeWritableCellAt is WritableCellAt guarded against out-of-range
// coordinates.
func (s *LabSim) SafeWritableCellAt(x, y CoordInt) (*LabCell, bool) {
	s.assertNotRunning("SafeWritableCellAt")
	if !s.inBounds(x, y) {
		return nil, false
	}
	return &s.back[s.index(x, y)], true
}

func (s *LabSim) writableFrontCellAt(x, y CoordInt) *LabCell {
	return &s.front[s.index(x, y)]
}

// SetBlocked flips a cell's blocked flag directly, without touching its
// object reference. Only legal between frames.
func (s *LabSim) SetBlocked(x, y CoordInt, blocked bool) {
	s.assertNotRunning("SetBlocked")
	s.meta[s.index(x, y)].Blocked = blocked
}
