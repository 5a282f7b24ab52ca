package sensor

import (
	"testing"

	"github.com/horazont/maniaclab/config"
	"github.com/horazont/maniaclab/labsim"
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
		},
		Particles: config.ParticlesConfig{ChunkSize: 16},
	}
}

func TestTriggerFiresRisingAndFallingEdges(t *testing.T) {
	trig := NewTrigger()
	trig.LowThreshold = 5
	trig.HighThreshold = 10

	var rose, fell, fired int
	trig.RisingEdge = func() { rose++ }
	trig.FallingEdge = func() { fell++ }
	trig.Firing = func() { fired++ }

	trig.Update(0)
	if rose != 0 || trig.IsFiring() {
		t.Fatal("expected no rising edge below the band")
	}

	trig.Update(7)
	if rose != 1 || !trig.IsFiring() {
		t.Fatal("expected a rising edge entering the band")
	}

	trig.Update(8)
	if fired != 2 {
		t.Errorf("expected Firing to run on every in-band update, got %d", fired)
	}

	trig.Update(20)
	if fell != 1 || trig.IsFiring() {
		t.Fatal("expected a falling edge leaving the band")
	}
}

func TestTriggerInvertedFlipsBand(t *testing.T) {
	trig := NewTrigger()
	trig.LowThreshold = 5
	trig.HighThreshold = 10
	trig.Inverted = true

	trig.Update(7)
	if trig.IsFiring() {
		t.Error("expected inverted trigger to not fire inside the band")
	}
	trig.Update(20)
	if !trig.IsFiring() {
		t.Error("expected inverted trigger to fire outside the band")
	}
}

func TestObjectSensorDrivesRegisteredTriggers(t *testing.T) {
	lvl := level.New(5, 5, testConfig(), nil)
	obj := &level.GameObject{
		Info:         level.ObjectInfo{Stamp: stampFromMaskForTest()},
		Level:        lvl,
		Behavior:     level.DefaultBehavior{},
		HeatCapacity: 1,
	}
	lvl.PlaceObject(obj, 2, 2, 5.0)

	s := NewObjectSensor(lvl, obj, func(c labsim.LabCell) level.SimFloat {
		return c.HeatEnergy / obj.HeatCapacity
	})
	trig := s.NewTrigger()
	trig.LowThreshold = 1
	trig.HighThreshold = 100

	s.Update()
	if !trig.IsFiring() {
		t.Fatal("expected trigger to fire once the object's temperature is in band")
	}

	s.RemoveTrigger(trig)
	if len(s.triggers) != 0 {
		t.Error("expected RemoveTrigger to drop the trigger")
	}
}

func stampFromMaskForTest() *labsim.Stamp {
	mask := make([]bool, labsim.StampLen)
	mask[12] = true // centre cell
	return labsim.NewStamp(labsim.NewCellStampFromMask(mask))
}
