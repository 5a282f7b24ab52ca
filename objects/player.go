package objects

import (
	"math"

	"github.com/horazont/maniaclab/level"
)

// ActionRequest is the single pending input the player controller carries
// into the next tick.
type ActionRequest int

const (
	ActionNone ActionRequest = iota
	ActionMoveUp
	ActionMoveDown
	ActionMoveLeft
	ActionMoveRight
)

var playerInfo = level.ObjectInfo{
	Blocking: true,
	Movable:  true,
	Stamp:    stampFromMask(roundMask),
}

// playerBehavior drives the player-controlled object: a single queued
// action request is consumed each idle tick, attempting a move-or-collect
// in that direction and updating facing (Flip/Phi) to match.
type playerBehavior struct {
	level.DefaultBehavior

	request ActionRequest
}

// NewPlayer builds the player-controlled object.
func NewPlayer(lvl *level.Level) *level.GameObject {
	obj := &level.GameObject{
		Info:         playerInfo,
		Level:        lvl,
		HeatCapacity: 1,
	}
	obj.Behavior = &playerBehavior{}
	return obj
}

// RequestAction queues the action the player will attempt on its next
// idle tick, replacing any request not yet consumed.
func RequestAction(obj *level.GameObject, action ActionRequest) {
	obj.Behavior.(*playerBehavior).request = action
}

func (b *playerBehavior) Idle(obj *level.GameObject) bool {
	action := b.request
	b.request = ActionNone

	switch action {
	case ActionNone:
		return true
	case ActionMoveUp:
		if obj.Level.MoveOrCollect(obj, level.MoveUp) {
			orientVertical(obj, true)
		}
	case ActionMoveDown:
		if obj.Level.MoveOrCollect(obj, level.MoveDown) {
			orientVertical(obj, false)
		}
	case ActionMoveLeft:
		if obj.Level.MoveOrCollect(obj, level.MoveLeft) {
			obj.Flip = false
			obj.Phi = 0
		}
	case ActionMoveRight:
		if obj.Level.MoveOrCollect(obj, level.MoveRight) {
			obj.Flip = true
			obj.Phi = 0
		}
	}

	return true
}

// orientVertical sets Flip/Phi for an up (movingUp=true) or down move,
// continuing the left/right-facing impression the player had before the
// vertical move by reading its current orientation.
func orientVertical(obj *level.GameObject, movingUp bool) {
	const epsilon = 1e-2
	wasStraight := obj.Phi >= -epsilon && obj.Phi <= epsilon
	halfPi := level.SimFloat(math.Pi / 2)

	if movingUp {
		wasUp := (obj.Flip && obj.Phi < 0) || (!obj.Flip && obj.Phi > 0)
		orientRight := (obj.Flip && wasStraight) || (wasUp && obj.Flip) || (!wasUp && !obj.Flip)
		if orientRight {
			obj.Flip = true
			obj.Phi = -halfPi
		} else {
			obj.Flip = false
			obj.Phi = halfPi
		}
		return
	}

	wasDown := (obj.Flip && obj.Phi > 0) || (!obj.Flip && obj.Phi < 0)
	orientRight := (wasStraight && obj.Flip) || (wasDown && obj.Flip) || (!wasDown && !obj.Flip)
	if orientRight {
		obj.Flip = true
		obj.Phi = halfPi
	} else {
		obj.Flip = false
		obj.Phi = -halfPi
	}
}
