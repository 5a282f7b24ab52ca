package labsim

// CellType classifies how a CellStamp entry affects the cell it covers.
type CellType int

const (
	CellClear CellType = iota
	CellBlock
	CellSource
	CellSink
	CellFlow
)

// SinkTarget names the quantity a CellSink entry drains.
type SinkTarget int

const (
	SinkAir SinkTarget = iota
	SinkFog
)

// CellStampEntry is one of the 25 cells making up a CellStamp.
type CellStampEntry struct {
	Type       CellType
	SinkWhat   SinkTarget
	Amplitude  SimFloat
	FlowNorth  SimFloat
	FlowWest   SimFloat
}

// CellStamp is the raw, editable 5x5 description of an object's footprint
// and per-cell effects. A Stamp is derived from a CellStamp's blocking bits.
type CellStamp struct {
	Cells [StampLen]CellStampEntry
}

// NewCellStamp returns a CellStamp with every cell CellClear.
func NewCellStamp() CellStamp {
	return CellStamp{}
}

// NewCellStampFromMask builds a CellStamp whose blocking bits are exactly
// the true entries of mask, in row-major order. Panics if len(mask) >
// StampLen; a shorter mask leaves the remaining cells clear.
func NewCellStampFromMask(mask []bool) CellStamp {
	if len(mask) > StampLen {
		panic("labsim: too many entries for CellStamp")
	}
	var cs CellStamp
	for i, v := range mask {
		if v {
			cs.Cells[i].Type = CellBlock
		}
	}
	return cs
}

// Stamp is the immutable, precomputed footprint derived from a CellStamp's
// blocking mask: the mask itself plus row-major occupied coordinates and
// the 4-adjacent border coordinates in [-1..Subdivisions]^2.
type Stamp struct {
	mask     [StampLen]bool
	occupied []CoordPair
	border   []CoordPair
}

// NewStamp derives a Stamp from a CellStamp's blocking bits.
func NewStamp(cs CellStamp) *Stamp {
	s := &Stamp{}
	for i, c := range cs.Cells {
		s.mask[i] = c.Type == CellBlock
	}
	s.generateOccupied()
	s.findBorder()
	return s
}

func (s *Stamp) at(x, y CoordInt) bool {
	if x < 0 || x >= Subdivisions || y < 0 || y >= Subdivisions {
		return false
	}
	return s.mask[y*Subdivisions+x]
}

func (s *Stamp) generateOccupied() {
	s.occupied = s.occupied[:0]
	for y := CoordInt(0); y < Subdivisions; y++ {
		for x := CoordInt(0); x < Subdivisions; x++ {
			if s.mask[y*Subdivisions+x] {
				s.occupied = append(s.occupied, CoordPair{x, y})
			}
		}
	}
}

func (s *Stamp) findBorder() {
	s.border = s.border[:0]
	for y := -CoordInt(1); y <= Subdivisions; y++ {
		for x := -CoordInt(1); x <= Subdivisions; x++ {
			if s.at(x, y) {
				continue
			}
			isBorder := s.at(x, y-1) || s.at(x, y+1) || s.at(x-1, y) || s.at(x+1, y)
			if isBorder {
				s.border = append(s.border, CoordPair{x, y})
			}
		}
	}
}

// Occupied returns the row-major coordinates of every blocking cell.
func (s *Stamp) Occupied() []CoordPair { return s.occupied }

// Border returns the coordinates 4-adjacent to an occupied cell that are
// themselves not occupied.
func (s *Stamp) Border() []CoordPair { return s.border }

// Popcount returns the number of occupied cells.
func (s *Stamp) Popcount() int { return len(s.occupied) }

// NonEmpty reports whether the stamp occupies at least one cell.
func (s *Stamp) NonEmpty() bool { return len(s.occupied) > 0 }
