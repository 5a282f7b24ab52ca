package level

// tryCollect removes whatever occupies or reserves cell if it is
// collectable, reporting whether the cell is now clear to move an object
// into (either it already was, or collection cleared it). A cell
// simultaneously occupied and reserved (mid-movement into it) is never
// collectable.
func (l *Level) tryCollect(cell *LevelCell) bool {
	if cell.Here != nil && cell.ReservedBy != nil {
		return false
	}

	obj := cell.Here
	if obj == nil {
		obj = cell.ReservedBy
	}
	if obj == nil {
		return true
	}

	if obj.Info.Collectable {
		l.CleanupCell(cell)
		return true
	}

	return false
}

// MoveOrCollect is the player's movement primitive: it first tries to
// collect whatever occupies the destination cell, then moves the caller
// onto it if now clear, or — failing that — pushes a single movable
// neighbour one further cell out of the way and follows it. Returns
// false if none of these are possible.
func (l *Level) MoveOrCollect(obj *GameObject, dir MoveDirection) bool {
	if obj.Movement != nil {
		return false
	}

	offs := MoveDirectionToVector(dir)
	nx, ny := obj.Cell.X+offs.X, obj.Cell.Y+offs.Y
	if nx < 0 || nx >= l.width || ny < 0 || ny >= l.height {
		return false
	}

	myCell := l.cellAt(obj.Cell.X, obj.Cell.Y)
	neighbour := l.cellAt(nx, ny)

	if !l.tryCollect(neighbour) && neighbour.ReservedBy != nil {
		return false
	}

	if neighbour.Here == nil && neighbour.ReservedBy == nil {
		obj.startStraight(myCell, neighbour, offs.X, offs.Y)
		return true
	}

	pushed := neighbour.Here
	if pushed == nil || pushed.Movement != nil || !pushed.Info.Movable {
		return false
	}

	nnx, nny := nx+offs.X, ny+offs.Y
	if nnx < 0 || nnx >= l.width || nny < 0 || nny >= l.height {
		return false
	}
	beyond := l.cellAt(nnx, nny)
	if beyond.Here != nil || beyond.ReservedBy != nil {
		return false
	}

	pushed.startStraight(neighbour, beyond, offs.X, offs.Y)
	obj.startStraight(myCell, neighbour, offs.X, offs.Y)
	return true
}
