package objects

import (
	"testing"

	"github.com/horazont/maniaclab/config"
	"github.com/horazont/maniaclab/level"
)

func testConfig() *config.Config {
	return &config.Config{
		Physics: config.PhysicsConfig{
			InitialAirPressure: 1.0,
			InitialTemperature: 1.0,
			AirDiffusion:       0.5,
			AirFlow:            0.5,
			Convection:         0.1,
			HeatDiffusion:      0.05,
			FogDiffusion:       0.3,
			FlowDamping:        1.0,
			AirTempCoeff:       1.0,
			TimeSliceSeconds:   0.004,
		},
		Explosion: config.ExplosionConfig{
			TriggerTimeoutTicks: 10,
			BlockLifetimeTicks:  20,
			ParticleCount:       6,
		},
		Particles: config.ParticlesConfig{
			ChunkSize:           64,
			FireTemperatureRise: 0.05,
		},
	}
}

func newTestLevel(t *testing.T, w, h level.CoordInt) *level.Level {
	t.Helper()
	return level.New(w, h, testConfig(), nil)
}

func TestRockFallsWhenUnsupported(t *testing.T) {
	lvl := newTestLevel(t, 5, 5)
	rock := NewRock(lvl)
	lvl.PlaceObject(rock, 2, 2, 1.0)

	lvl.Update()

	if rock.Movement == nil {
		t.Fatal("expected an unsupported rock to start falling on its first update")
	}
}

func TestBombExplodesWhenHeadached(t *testing.T) {
	lvl := newTestLevel(t, 5, 5)
	bomb := NewBomb(lvl)
	lvl.PlaceObject(bomb, 2, 2, 1.0)

	bomb.Behavior.Headache(bomb, nil)

	if bomb.Level.Physics() == nil {
		t.Fatal("sanity")
	}
	if got := lvl.PendingTimerCount(); got != 9 {
		t.Errorf("expected a 3x3 explosion (9 timers) to be scheduled, got %d", got)
	}
}

func TestBombExplodesOnOverheat(t *testing.T) {
	lvl := newTestLevel(t, 5, 5)
	bomb := NewBomb(lvl)
	lvl.PlaceObject(bomb, 2, 2, bombTemperatureThreshold*2)

	continueUpdate := bomb.Behavior.Tick(bomb)
	if continueUpdate {
		t.Error("expected overheated bomb's Tick to halt further update processing")
	}
}

func TestWallHeaterDrivesTemperatureTowardTarget(t *testing.T) {
	lvl := newTestLevel(t, 5, 5)
	wall := NewSquareWall(lvl)
	SetHeaterEnabled(wall, true)
	SetHeaterTargetTemperature(wall, 2.0)
	SetHeaterEnergyRate(wall, 100)

	lvl.PlaceObject(wall, 2, 2, 1.0)

	wall.Behavior.Idle(wall)

	got := lvl.Physics().WritableCellAt(12, 12).HeatEnergy / heatCapacityStone
	if diff := got - 2.0; diff > 1e-4 || diff < -1e-4 {
		t.Errorf("expected the heater to reach the target temperature 2.0 within its rate, got %v", got)
	}
}

func TestPlayerMovesOnRequestedAction(t *testing.T) {
	lvl := newTestLevel(t, 5, 5)
	player := NewPlayer(lvl)
	lvl.PlaceObject(player, 2, 2, 1.0)

	RequestAction(player, ActionMoveRight)
	player.Behavior.Idle(player)

	if player.Movement == nil {
		t.Fatal("expected a requested move to start a movement")
	}
	if !player.Flip {
		t.Error("expected facing right after a right move")
	}
}

func TestPlayerCollectsOnMoveIntoCollectable(t *testing.T) {
	lvl := newTestLevel(t, 5, 5)
	player := NewPlayer(lvl)
	lvl.PlaceObject(player, 2, 2, 1.0)

	item := &level.GameObject{
		Info: level.ObjectInfo{
			Collectable: true,
			Stamp:       stampFromMask(heaterPlusMask),
		},
		Level:        lvl,
		Behavior:     level.DefaultBehavior{},
		HeatCapacity: 1,
	}
	lvl.PlaceObject(item, 3, 2, 1.0)

	RequestAction(player, ActionMoveRight)
	if !player.Behavior.Idle(player) {
		t.Fatal("Idle should always return true here")
	}

	if player.Movement == nil {
		t.Error("expected player to move into the now-cleared collectable cell")
	}
}
