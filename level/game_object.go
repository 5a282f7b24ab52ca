package level

// GameObjectBehavior is the set of hooks a concrete object kind may
// override. Embed DefaultBehavior to inherit the baseline semantics and
// redefine only the methods that differ — wall/rock/bomb/player/fan/
// fog-emitter in the objects package all follow this pattern.
type GameObjectBehavior interface {
	// AfterMovement is called once a movement finishes, with movedDown
	// set when the object fell into its destination. Returning false
	// stops further after-movement handling (e.g. because the object
	// destroyed itself).
	AfterMovement(obj *GameObject, movedDown bool) bool
	// BeforeMovement is called just before a movement is installed.
	BeforeMovement(obj *GameObject)
	// ExplosionTouch notifies the object it is inside an explosion area.
	ExplosionTouch(obj *GameObject)
	// Headache notifies the object that another object landed on it.
	Headache(obj *GameObject, from *GameObject)
	// Idle runs once per tick when no movement is active. Returns false
	// if the object destroyed itself.
	Idle(obj *GameObject) bool
	// IgnitionTouch notifies the object it was hit by igniting particles.
	IgnitionTouch(obj *GameObject)
	// Impact notifies the object it landed on another object (or nil at
	// the level boundary). Returning false suppresses the subsequent
	// Headache call.
	Impact(obj *GameObject, on *GameObject) bool
	// ProjectileImpact notifies the object it was hit by an explosive
	// projectile; returns true if the object destructs itself.
	ProjectileImpact(obj *GameObject) bool
	// Tick runs once per tick unconditionally, regardless of whether a
	// movement is in progress — the hook for objects that need live
	// per-tick effects on top of the base update (timed self-destruction,
	// periodic emission, sensor polling). Returning false stops the rest
	// of Update from running, e.g. because the object destructed itself.
	Tick(obj *GameObject) bool
}

// GameObject is a resident of the object world: position, orientation,
// current movement (if any), and the behavior hooks of its concrete kind.
type GameObject struct {
	Info     ObjectInfo
	Level    *Level
	Behavior GameObjectBehavior

	Cell CoordPair
	X, Y SimFloat
	Phi  SimFloat
	Flip bool

	Movement Movement
	Phy      CoordPair

	HeatCapacity SimFloat
	Ticks        TickCounter

	FrameState FrameState
}

// TempCoefficient satisfies labsim.PhysicsObject: the heat capacity a
// blocked physics cell owned by this object contributes.
func (o *GameObject) TempCoefficient() SimFloat { return o.HeatCapacity }

// Update advances the object by one tick. Idempotent within a tick: a
// second call in the same tick (e.g. triggered by a neighbour's movement
// needing this object updated first) is a no-op.
func (o *GameObject) Update() {
	if o.Ticks == o.Level.Ticks() {
		return
	}
	o.Ticks = o.Level.Ticks()

	if !o.Behavior.Tick(o) {
		return
	}

	if o.Movement != nil {
		if !o.Movement.Update() {
			return
		}
	}

	newPhy := o.Level.physicsCoords(o.X, o.Y)
	if newPhy != o.Phy {
		if o.Info.Stamp.NonEmpty() {
			vel := CoordPair{X: newPhy.X - o.Phy.X, Y: newPhy.Y - o.Phy.Y}
			o.Level.Physics().MoveStamp(o.Phy.X, o.Phy.Y, newPhy.X, newPhy.Y, o.Info.Stamp, &vel)
		}
		o.Phy = newPhy
	}

	if o.Movement == nil {
		o.Behavior.Idle(o)
	}

	o.FrameState.Reset()
}

// handleGravity installs a fall or roll movement if the object is
// gravity-affected and the cell(s) below permit it. Returns false if the
// object destroyed itself (never the case in the default implementation).
func handleGravity(o *GameObject) bool {
	if o.Cell.Y == o.Level.Height()-1 {
		return true
	}

	myCell := o.Level.cellAt(o.Cell.X, o.Cell.Y)
	below := o.Level.cellAt(o.Cell.X, o.Cell.Y+1)
	if below.Here == nil && below.ReservedBy == nil {
		o.startStraight(myCell, below, 0, 1)
		return true
	}

	if o.Info.Round && below.Here != nil && below.Here.Info.Round {
		var left, leftBelow, right, rightBelow *LevelCell
		if o.Cell.X > 0 {
			left, leftBelow = o.Level.fallChannel(o.Cell.X-1, o.Cell.Y)
		}
		if o.Cell.X < o.Level.Width()-1 {
			right, rightBelow = o.Level.fallChannel(o.Cell.X+1, o.Cell.Y)
		}

		if left != nil && right != nil {
			if o.Level.rng.Float64() >= 0.5 {
				left = nil
			} else {
				right = nil
			}
		}

		var selected, selectedBelow *LevelCell
		var xoffset CoordInt
		if left != nil {
			selected, selectedBelow, xoffset = left, leftBelow, -1
		} else {
			selected, selectedBelow, xoffset = right, rightBelow, 1
		}

		if selected != nil {
			o.startRoll(myCell, selected, selectedBelow, xoffset, 1)
		}
	}

	return true
}

// move attempts to start a Straight movement toward dir. If chainMove is
// set and the destination is occupied by another movable object, that
// object is pushed out of the way first.
func (o *GameObject) move(dir MoveDirection, chainMove bool) bool {
	if !o.Info.Movable || o.Movement != nil {
		return false
	}

	offs := MoveDirectionToVector(dir)
	neighX := o.Cell.X + offs.X
	neighY := o.Cell.Y + offs.Y

	if (offs.X != 0 || offs.Y != 0) &&
		neighX >= 0 && neighX < o.Level.Width() &&
		neighY >= 0 && neighY < o.Level.Height() {
		neighbour := o.Level.cellAt(neighX, neighY)
		if neighbour.ReservedBy == nil &&
			(neighbour.Here == nil || (chainMove && neighbour.Here.move(dir, false))) {
			o.startStraight(o.Level.cellAt(o.Cell.X, o.Cell.Y), neighbour, offs.X, offs.Y)
			return true
		}
	}

	return false
}

// Move is the external-input surface a collaborator (the UI) uses to push
// a movable object, e.g. the player.
func (o *GameObject) Move(dir MoveDirection, chainMove bool) bool {
	return o.move(dir, chainMove)
}

// ProjectileImpact notifies the object it was hit by an explosive
// projectile, delegating to its behavior hook.
func (o *GameObject) ProjectileImpact() bool {
	return o.Behavior.ProjectileImpact(o)
}

// IgnitionTouch satisfies labsim.PhysicsObject: a fire particle landing in
// this object's blocked cell notifies it through the behavior hook.
func (o *GameObject) IgnitionTouch() {
	o.Behavior.IgnitionTouch(o)
}

// DestructSelf removes the object from the level by cleaning up the cell
// it currently occupies. Concrete behaviors call this from Impact,
// Headache, ExplosionTouch or Tick to self-destruct (e.g. a bomb
// detonating, an explosion block expiring).
func (o *GameObject) DestructSelf() {
	o.Level.CleanupCell(o.Level.cellAt(o.Cell.X, o.Cell.Y))
}

// DefaultBehavior implements the baseline GameObject semantics. Concrete
// object kinds embed it and override only the methods that differ.
type DefaultBehavior struct{}

func (DefaultBehavior) BeforeMovement(obj *GameObject) {}

func (DefaultBehavior) ExplosionTouch(obj *GameObject) {
	obj.FrameState.Explode = true
	if obj.Info.Destructible {
		obj.Level.CleanupCell(obj.Level.cellAt(obj.Cell.X, obj.Cell.Y))
	}
}

func (DefaultBehavior) Headache(obj *GameObject, from *GameObject) {}

func (DefaultBehavior) Idle(obj *GameObject) bool {
	if obj.Movement != nil {
		return true
	}
	if obj.Info.GravityAffected && obj.Cell.Y < obj.Level.Height() {
		return handleGravity(obj)
	}
	return true
}

func (DefaultBehavior) IgnitionTouch(obj *GameObject) {
	obj.FrameState.Ignite = true
}

func (DefaultBehavior) Impact(obj *GameObject, on *GameObject) bool { return true }

func (DefaultBehavior) ProjectileImpact(obj *GameObject) bool { return false }

func (DefaultBehavior) Tick(obj *GameObject) bool { return true }

// AfterMovement runs the falling-impact chain: if the movement fell
// (movedDown) and the object is gravity-affected, it calls Impact on
// whatever is in the cell below (or nil at the level boundary), then
// Headache on that object.
func (DefaultBehavior) AfterMovement(obj *GameObject, movedDown bool) bool {
	if !movedDown || !obj.Info.GravityAffected {
		return true
	}

	if obj.Cell.Y < obj.Level.Height()-1 {
		belowCell := obj.Level.cellAt(obj.Cell.X, obj.Cell.Y+1)
		below := belowCell.Here
		if below == nil {
			return true
		}
		if !obj.Behavior.Impact(obj, below) {
			return false
		}
		below = belowCell.Here
		if below != nil {
			below.Behavior.Headache(below, obj)
		}
	} else {
		if !obj.Behavior.Impact(obj, nil) {
			return false
		}
	}

	return true
}
