package particles

import (
	"math/rand/v2"
	"testing"

	"github.com/horazont/maniaclab/config"
	"github.com/horazont/maniaclab/labsim"
)

func testConfig() config.ParticlesConfig {
	return config.ParticlesConfig{
		ChunkSize:           32,
		FireTemperatureRise: 0.05,
	}
}

func testPhysicsConfig() config.PhysicsConfig {
	return config.PhysicsConfig{
		InitialAirPressure: 1.0,
		InitialTemperature: 1.0,
		AirDiffusion:       0.5,
		AirFlow:            0.5,
		Convection:         0.1,
		HeatDiffusion:      0.05,
		FogDiffusion:       0.3,
		FlowDamping:        1.0,
		AirTempCoeff:       1.0,
	}
}

// fakeHost implements Host over a standalone LabSim grid sized in plain
// physics-grid cells (no Subdivisions multiplier), for particle tests that
// don't need a full Level.
type fakeHost struct {
	physics *labsim.LabSim
	w, h    labsim.CoordInt
}

func (f *fakeHost) Physics() *labsim.LabSim { return f.physics }
func (f *fakeHost) PhysicsCoords(x, y float32) labsim.CoordPair {
	return labsim.CoordPair{X: labsim.CoordInt(x), Y: labsim.CoordInt(y)}
}
func (f *fakeHost) SubWidth() labsim.CoordInt  { return f.w }
func (f *fakeHost) SubHeight() labsim.CoordInt { return f.h }

func newFakeHost(t *testing.T, w, h labsim.CoordInt) *fakeHost {
	t.Helper()
	sim := labsim.New(w, h, testPhysicsConfig(), nil)
	t.Cleanup(sim.Close)
	return &fakeHost{physics: sim, w: w, h: h}
}

func testRNG() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestSpawnGeneratorActivatesParticles(t *testing.T) {
	s := New(testConfig(), testRNG())

	s.SpawnGenerator(5, func(i int, p *Particle) {
		p.Kind = Fire
		p.Lifetime = 10
		p.X, p.Y = float32(i), float32(i)
	})

	if s.ActiveCount() != 5 {
		t.Fatalf("expected 5 active particles, got %d", s.ActiveCount())
	}
}

func TestSpawnGeneratorDiscardsNonPositiveLifetime(t *testing.T) {
	s := New(testConfig(), testRNG())

	s.SpawnGenerator(3, func(i int, p *Particle) {
		if i == 1 {
			p.Lifetime = 0
		} else {
			p.Lifetime = 10
		}
	})

	if s.ActiveCount() != 2 {
		t.Fatalf("expected discard of the zero-lifetime particle, got %d active", s.ActiveCount())
	}
}

func TestUpdateRetiresExpiredParticles(t *testing.T) {
	s := New(testConfig(), testRNG())
	host := newFakeHost(t, 20, 20)

	s.SpawnGenerator(1, func(i int, p *Particle) {
		p.Kind = FireSecondary
		p.Lifetime = 0.01
		p.X, p.Y = 10, 10
	})

	s.Update(0.1, host)

	if s.ActiveCount() != 0 {
		t.Errorf("expected particle to expire after exceeding its lifetime, got %d active", s.ActiveCount())
	}
}

func TestUpdateInjectsHeatFromFireParticles(t *testing.T) {
	s := New(testConfig(), testRNG())
	host := newFakeHost(t, 20, 20)

	s.SpawnGenerator(1, func(i int, p *Particle) {
		p.Kind = Fire
		p.Lifetime = 100
		p.X, p.Y = 10, 10
	})

	// Heat is injected into the writable (back) buffer.
	before := *host.physics.WritableCellAt(10, 10)

	s.Update(0.01, host)

	after := *host.physics.WritableCellAt(10, 10)
	if after.HeatEnergy <= before.HeatEnergy {
		t.Errorf("expected fire particle to raise cell heat energy: before=%v after=%v", before.HeatEnergy, after.HeatEnergy)
	}
}

func TestUpdateKeepsParticlesOutsideTheGrid(t *testing.T) {
	s := New(testConfig(), testRNG())
	host := newFakeHost(t, 20, 20)

	s.SpawnGenerator(1, func(i int, p *Particle) {
		p.Kind = FireSecondary
		p.Lifetime = 100
		p.X, p.Y = -5, -5
	})

	s.Update(0.01, host)

	if s.ActiveCount() != 1 {
		t.Fatalf("expected out-of-grid particle to remain tracked (only skipped for physics feedback), got %d", s.ActiveCount())
	}
}
