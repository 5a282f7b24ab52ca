package level

import "testing"

func TestStraightMovesObjectOverDuration(t *testing.T) {
	lvl := newTestLevel(t, 5, 5)
	obj := newTestObject(lvl)
	lvl.PlaceObject(obj, 2, 2, 1.0)

	from := lvl.cellAt(2, 2)
	to := lvl.cellAt(3, 2)
	obj.startStraight(from, to, 1, 0)

	if from.ReservedBy != obj {
		t.Fatal("expected source cell to be reserved by the moving object")
	}
	if to.Here != obj {
		t.Fatal("expected destination cell to claim Here immediately on move start")
	}
	if obj.Cell != (CoordPair{X: 3, Y: 2}) {
		t.Fatalf("expected obj.Cell to update immediately to (3,2), got %v", obj.Cell)
	}

	for i := TickCounter(0); i < lvl.DurationTicks; i++ {
		obj.Movement.Update()
	}

	if obj.Movement != nil {
		t.Error("expected movement to clear itself once duration elapses")
	}
	if from.ReservedBy != nil {
		t.Error("expected source reservation to clear once movement finalizes")
	}
	if obj.X != 3 || obj.Y != 2 {
		t.Errorf("expected obj to land exactly at (3,2), got (%v,%v)", obj.X, obj.Y)
	}
}

func TestStraightPanicsOnDiagonalMove(t *testing.T) {
	lvl := newTestLevel(t, 5, 5)
	obj := newTestObject(lvl)
	lvl.PlaceObject(obj, 2, 2, 1.0)

	defer func() {
		if recover() == nil {
			t.Error("expected panic moving diagonally")
		}
	}()
	newStraight(obj, lvl.cellAt(2, 2), lvl.cellAt(3, 3), 1, 1)
}

func TestStraightPanicsIntoOccupiedCell(t *testing.T) {
	lvl := newTestLevel(t, 5, 5)
	mover := newTestObject(lvl)
	blocker := newTestObject(lvl)
	lvl.PlaceObject(mover, 2, 2, 1.0)
	lvl.PlaceObject(blocker, 3, 2, 1.0)

	defer func() {
		if recover() == nil {
			t.Error("expected panic moving into an occupied cell")
		}
	}()
	newStraight(mover, lvl.cellAt(2, 2), lvl.cellAt(3, 2), 1, 0)
}

func TestStraightSkipJumpsToFinalPosition(t *testing.T) {
	lvl := newTestLevel(t, 5, 5)
	obj := newTestObject(lvl)
	lvl.PlaceObject(obj, 2, 2, 1.0)

	from := lvl.cellAt(2, 2)
	to := lvl.cellAt(2, 3)
	obj.startStraight(from, to, 0, 1)
	obj.Movement.Skip()

	if obj.X != 2 || obj.Y != 3 {
		t.Errorf("expected Skip to land object at (2,3), got (%v,%v)", obj.X, obj.Y)
	}
	if obj.Movement != nil {
		t.Error("expected Skip to clear the movement")
	}
	if from.ReservedBy != nil {
		t.Error("expected Skip to release the source reservation")
	}
}

func TestRollReservesFromAndViaUntilFinalize(t *testing.T) {
	lvl := newTestLevel(t, 5, 5)
	obj := newTestObject(lvl)
	lvl.PlaceObject(obj, 2, 2, 1.0)

	from := lvl.cellAt(2, 2)
	via := lvl.cellAt(3, 2)
	to := lvl.cellAt(3, 3)
	obj.startRoll(from, via, to, 1, 1)

	if from.ReservedBy != obj || via.ReservedBy != obj {
		t.Fatal("expected both source and via cells reserved during a roll")
	}
	if to.Here != obj {
		t.Fatal("expected destination to claim Here immediately")
	}

	for obj.Movement != nil {
		obj.Movement.Update()
	}

	if from.ReservedBy != nil || via.ReservedBy != nil {
		t.Error("expected both reservations cleared once the roll finalizes")
	}
	if obj.X != 3 || obj.Y != 3 {
		t.Errorf("expected obj to land at (3,3), got (%v,%v)", obj.X, obj.Y)
	}
}

func TestRollPanicsOnNonDiagonalOffset(t *testing.T) {
	lvl := newTestLevel(t, 5, 5)
	obj := newTestObject(lvl)
	lvl.PlaceObject(obj, 2, 2, 1.0)

	defer func() {
		if recover() == nil {
			t.Error("expected panic starting a roll with offsetY != 1")
		}
	}()
	newRoll(obj, lvl.cellAt(2, 2), lvl.cellAt(3, 2), lvl.cellAt(3, 3), 1, 0)
}

func TestAfterMovementRunsImpactAndHeadacheChain(t *testing.T) {
	lvl := newTestLevel(t, 5, 5)

	faller := newTestObject(lvl)
	faller.Info.GravityAffected = true
	landed := newTestObject(lvl)

	var impacted, headached bool
	faller.Behavior = &impactBehavior{DefaultBehavior: DefaultBehavior{}, onImpact: func() { impacted = true }}
	landed.Behavior = &headacheBehavior{DefaultBehavior: DefaultBehavior{}, onHeadache: func() { headached = true }}

	lvl.PlaceObject(faller, 2, 1, 1.0)
	lvl.PlaceObject(landed, 2, 3, 1.0)

	from := lvl.cellAt(2, 1)
	to := lvl.cellAt(2, 2)
	faller.startStraight(from, to, 0, 1)
	for faller.Movement != nil {
		faller.Movement.Update()
	}

	if !impacted {
		t.Error("expected Impact to fire on the object below after a downward move")
	}
	if !headached {
		t.Error("expected Headache to fire on the impacted object")
	}
}

type impactBehavior struct {
	DefaultBehavior
	onImpact func()
}

func (b *impactBehavior) Impact(obj *GameObject, on *GameObject) bool {
	b.onImpact()
	return true
}

type headacheBehavior struct {
	DefaultBehavior
	onHeadache func()
}

func (b *headacheBehavior) Headache(obj *GameObject, from *GameObject) {
	b.onHeadache()
}
