// Package labsim implements the coupled fluid/heat/fog cellular automaton
// that backs the physics grid of a ManiacLab level: a double-buffered cell
// array advanced by a pool of parked worker goroutines, plus the stamp
// operations objects use to place, move and read back their footprint.
package labsim

// SimFloat is the storage type for all accumulated physics quantities.
type SimFloat = float32

// CoordInt indexes cells in either the game or the physics grid.
type CoordInt = int32

// TickCounter is a monotone count of simulation ticks.
type TickCounter = uint64

// Subdivisions is the number of physics cells per game cell along one axis.
const Subdivisions CoordInt = 5

// StampLen is the number of cells in a Stamp's 5x5 footprint.
const StampLen = int(Subdivisions * Subdivisions)

// halfOffset centres a stamp's footprint on its origin cell.
const halfOffset CoordInt = 2

// RowsPerBlock is the unit of parallel work dispatch: a contiguous run of
// physics-grid rows handed to one worker in one fetch-add step.
const RowsPerBlock = 10

// CoordPair is an integer offset or absolute grid coordinate.
type CoordPair struct {
	X, Y CoordInt
}

// PhysicsObject is the subset of a GameObject's behavior the fluid
// automaton and particle system need when a cell is blocked: its
// contribution to heat capacity, and how it reacts to being touched by
// fire. The level package's GameObject satisfies this interface; labsim
// never imports level, avoiding a cycle.
type PhysicsObject interface {
	TempCoefficient() SimFloat
	IgnitionTouch()
}
