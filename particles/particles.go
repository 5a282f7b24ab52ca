// Package particles implements the fire and fire-secondary visual particle
// system: a fixed-capacity pool with free-list recycling, advected against
// the fluid automaton's flow field and feeding heat back into it.
package particles

import (
	"math"
	"math/rand/v2"

	"github.com/horazont/maniaclab/config"
	"github.com/horazont/maniaclab/labsim"
)

// Kind distinguishes the two particle behaviors.
type Kind int

const (
	Fire Kind = iota
	FireSecondary
)

// Host is the subset of *level.Level a particle system needs: physics
// access and coordinate conversion. Defined here (rather than imported
// from level) so particles never imports level, avoiding a cycle.
type Host interface {
	Physics() *labsim.LabSim
	PhysicsCoords(x, y float32) labsim.CoordPair
	SubWidth() labsim.CoordInt
	SubHeight() labsim.CoordInt
}

// Generator fills in a freshly allocated particle's fields. i is the index
// within the batch passed to SpawnGenerator.
type Generator func(i int, p *Particle)

// Particle is one fire or fire-secondary visual/physical particle.
type Particle struct {
	Age, Lifetime  float32
	X, Y           float32
	VX, VY         float32
	AX, AY         float32
	Phi, VPhi, APhi float32
	Ctr            uint32
	Kind           Kind
}

func updateCoord(dt float32, v, vv, av *float32) {
	*v += *vv*dt + *av*dt/2
	*vv += *av * dt
}

// System is a fixed-capacity particle pool, structured as parallel slices
// with a free list of recycled indices and a compact list of active ones.
type System struct {
	cfg config.ParticlesConfig
	rng *rand.Rand

	particles []Particle
	active    []bool
	freeList  []int
	activeList []int
}

// New creates a particle system with capacity cfg.ChunkSize. Unlike the
// teacher's growable chunk allocator, the pool here is sized once up front
// since the config already bounds the working set.
func New(cfg config.ParticlesConfig, rng *rand.Rand) *System {
	n := cfg.ChunkSize
	if n <= 0 {
		n = 1024
	}
	s := &System{
		cfg:       cfg,
		rng:       rng,
		particles: make([]Particle, n),
		active:    make([]bool, n),
		freeList:  make([]int, n),
		activeList: make([]int, 0, n),
	}
	for i := range s.freeList {
		s.freeList[i] = n - 1 - i
	}
	return s
}

// ActiveCount returns the number of live particles.
func (s *System) ActiveCount() int { return len(s.activeList) }

func (s *System) allocate() (int, bool) {
	if len(s.freeList) == 0 {
		return 0, false
	}
	idx := s.freeList[len(s.freeList)-1]
	s.freeList = s.freeList[:len(s.freeList)-1]
	return idx, true
}

func (s *System) spawn() (int, *Particle) {
	idx, ok := s.allocate()
	if !ok {
		return -1, nil
	}
	s.particles[idx] = Particle{}
	s.active[idx] = true
	return idx, &s.particles[idx]
}

// SpawnGenerator allocates up to n particles, filling each with gen. A
// particle left with Lifetime <= 0 by gen is immediately recycled rather
// than activated — mirrors the teacher's spawn_generator discard path.
func (s *System) SpawnGenerator(n int, gen Generator) {
	for i := 0; i < n; i++ {
		idx, p := s.spawn()
		if p == nil {
			return
		}
		gen(i, p)
		if p.Lifetime > 0 {
			s.activeList = append(s.activeList, idx)
		} else {
			s.active[idx] = false
			s.freeList = append(s.freeList, idx)
		}
	}
}

const (
	firePrimaryFlowInfluence    = float32(0.1)
	fireSecondaryFlowInfluence  = float32(0.5)
)

// Update advances every active particle by deltaT seconds: kinematic
// integration, fire particles spawning fire-secondary trail particles,
// flow-field feedback, heat injection, ignition notification, and
// reflective collision against blocked cells.
func (s *System) Update(deltaT float32, host Host) {
	physics := host.Physics()
	subW, subH := host.SubWidth(), host.SubHeight()

	writeIdx := 0
	n := len(s.activeList)
	for _, idx := range s.activeList {
		p := &s.particles[idx]
		p.Age += deltaT
		if p.Age > p.Lifetime {
			s.active[idx] = false
			s.freeList = append(s.freeList, idx)
			continue
		}
		s.activeList[writeIdx] = idx
		writeIdx++

		updateCoord(deltaT, &p.X, &p.VX, &p.AX)
		updateCoord(deltaT, &p.Y, &p.VY, &p.AY)
		updateCoord(deltaT, &p.Phi, &p.VPhi, &p.APhi)

		if p.Kind == Fire {
			s.spawnFireTrail(p)
		}

		phy := host.PhysicsCoords(p.X, p.Y)
		if phy.X < 0 || phy.Y < 0 || phy.X >= subW || phy.Y >= subH {
			continue
		}

		cell := physics.WritableCellAt(phy.X, phy.Y)
		meta := physics.MetaAt(phy.X, phy.Y)

		switch p.Kind {
		case Fire:
			if !meta.Blocked {
				p.VX = p.VX*(1-firePrimaryFlowInfluence) - cell.Flow[0]*firePrimaryFlowInfluence
				p.VY = p.VY*(1-firePrimaryFlowInfluence) - cell.Flow[1]*firePrimaryFlowInfluence
			}
			cell.HeatEnergy += float32(s.cfg.FireTemperatureRise) * physics.HeatCapacityAt(phy.X, phy.Y)
			if meta.Blocked && meta.Obj != nil {
				meta.Obj.IgnitionTouch()
			}
		case FireSecondary:
			if !meta.Blocked {
				p.VX = p.VX*(1-fireSecondaryFlowInfluence) - cell.Flow[0]*fireSecondaryFlowInfluence
				p.VY = p.VY*(1-fireSecondaryFlowInfluence) - cell.Flow[1]*fireSecondaryFlowInfluence
			}
		}

		if meta.Blocked {
			s.handleCollision(physics, phy, p)
		}
	}
	// Keep the trail particles spawnFireTrail appended during the loop.
	children := s.activeList[n:]
	s.activeList = append(s.activeList[:writeIdx], children...)
}

// spawnFireTrail emits fire-secondary particles behind a fire particle at a
// fixed rate, tracked by a per-particle counter so partial ticks accumulate.
func (s *System) spawnFireTrail(p *Particle) {
	oldCtr := p.Ctr
	newCtr := uint32(p.Age * 25)
	p.Ctr = newCtr

	for i := oldCtr; i < newCtr; i++ {
		idx, sub := s.spawn()
		if sub == nil {
			return
		}
		sub.Kind = FireSecondary
		sub.Lifetime = 4 + s.rng.Float32()*2 - 1
		sub.X = p.X - s.rng.Float32()*p.VX*0.01
		sub.Y = p.Y - s.rng.Float32()*p.VY*0.01
		sub.VX = p.VX * 0.1
		sub.VY = p.VY * 0.1
		sub.AY = -0.2
		sub.Phi = s.rng.Float32() * 2 * math.Pi
		sub.VPhi = p.VPhi
		s.activeList = append(s.activeList, idx)
	}
}

// handleCollision walks the particle's incoming ray backward through the
// physics grid until it exits the blocking object, then reflects its
// velocity off the object's surface with a randomized spread.
func (s *System) handleCollision(physics *labsim.LabSim, phy labsim.CoordPair, p *Particle) {
	stepX, stepY := -p.VX, -p.VY
	mag := float32(math.Hypot(float64(stepX), float64(stepY)))
	if mag > 0 {
		stepX /= mag
		stepY /= mag
	}

	posX := float64(p.X) * float64(labsim.Subdivisions)
	posY := float64(p.Y) * float64(labsim.Subdivisions)

	var (
		blocked bool
		found   bool
	)
	_ = phy
	for step := 0; step < 10; step++ {
		posX += float64(stepX)
		posY += float64(stepY)
		cx := labsim.CoordInt(math.Round(posX))
		cy := labsim.CoordInt(math.Round(posY))

		_, ok := physics.SafeFrontCellAt(cx, cy)
		if !ok {
			break
		}
		meta, _ := physics.SafeMetaAt(cx, cy)
		found = true
		blocked = meta.Blocked
		if blocked {
			continue
		}
		break
	}

	p.X = float32(posX) / float32(labsim.Subdivisions)
	p.Y = float32(posY) / float32(labsim.Subdivisions)

	if !found {
		return
	}

	vmag := float32(math.Hypot(float64(p.VX), float64(p.VY)))
	dot := p.VX*stepX + p.VY*stepY
	newVX := p.VX - 2*dot*stepX
	newVY := p.VY - 2*dot*stepY

	p.VX = newVX*0.4 + (s.rng.Float32()*2-1)*vmag*0.3
	p.VY = newVY*0.4 + (s.rng.Float32()*2-1)*vmag*0.3
}
