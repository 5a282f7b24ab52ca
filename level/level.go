package level

import (
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/horazont/maniaclab/config"
	"github.com/horazont/maniaclab/labsim"
	"github.com/horazont/maniaclab/particles"
)

// LevelCell is one cell of the game grid: the object that occupies it, if
// any, and a non-owning back-reference to whichever object has reserved it
// mid-movement. Invariant: at most one of {Here, ReservedBy-as-mover} may
// claim this cell at a time — reservation and occupancy are mutually
// exclusive states for the same object.
type LevelCell struct {
	Here       *GameObject
	ReservedBy *GameObject
}

// PlayerDeathFunc is invoked once when the tracked player object is
// cleaned up.
type PlayerDeathFunc func(lvl *Level, died *GameObject)

// ObjectSpawnFunc is invoked whenever an object is placed into the level.
type ObjectSpawnFunc func(lvl *Level, obj *GameObject)

// TimeSlice is the default per-tick duration in seconds. A Level uses the
// configured physics time slice, not this constant.
const TimeSlice = 0.004

// Level is the object world: a grid of cells, the fluid/heat/fog automaton
// backing it, the particle system, and the tick-ordered timer queue that
// schedules delayed effects like explosion propagation.
type Level struct {
	width, height CoordInt
	cells         []LevelCell

	physics     *labsim.LabSim
	particleSys *particles.System

	player        *GameObject
	onPlayerDeath []PlayerDeathFunc
	onObjectSpawn []ObjectSpawnFunc

	ticks  TickCounter
	timers timerQueue

	rng *rand.Rand

	explosionCfg config.ExplosionConfig
	particlesCfg config.ParticlesConfig

	timeSlice float64

	// DurationTicks/HalfDurationTicks parameterize Straight and Roll
	// movement durations, derived once from the configured time slice.
	DurationTicks     TickCounter
	HalfDurationTicks TickCounter

	logger *slog.Logger
}

// New constructs a Level of the given game-grid dimensions, backed by a
// physics grid width*Subdivisions by height*Subdivisions cells wide.
func New(width, height CoordInt, cfg *config.Config, logger *slog.Logger) *Level {
	if logger == nil {
		logger = slog.Default()
	}

	subW := width * labsim.Subdivisions
	subH := height * labsim.Subdivisions

	l := &Level{
		width:        width,
		height:       height,
		cells:        make([]LevelCell, int(width)*int(height)),
		physics:      labsim.New(subW, subH, cfg.Physics, logger.With("component", "labsim")),
		rng:          rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		explosionCfg: cfg.Explosion,
		particlesCfg: cfg.Particles,
		timeSlice:    cfg.Physics.TimeSliceSeconds,
		logger:       logger.With("component", "level"),
	}
	l.particleSys = particles.New(cfg.Particles, l.rng)

	durationTicks := TickCounter(math.Round(1.0 / l.timeSlice))
	if durationTicks == 0 {
		durationTicks = 1
	}
	l.DurationTicks = durationTicks
	l.HalfDurationTicks = durationTicks / 2
	if l.HalfDurationTicks == 0 {
		l.HalfDurationTicks = 1
	}

	return l
}

// Width returns the game-grid width in cells.
func (l *Level) Width() CoordInt { return l.width }

// Height returns the game-grid height in cells.
func (l *Level) Height() CoordInt { return l.height }

// Ticks returns the current tick counter.
func (l *Level) Ticks() TickCounter { return l.ticks }

// Physics returns the fluid/heat/fog automaton backing this level.
func (l *Level) Physics() *labsim.LabSim { return l.physics }

// ActiveParticleCount returns the number of live particles in the level's
// particle system. Used by telemetry to report per-tick particle load.
func (l *Level) ActiveParticleCount() int { return l.particleSys.ActiveCount() }

// PendingTimerCount returns the number of timers still waiting to fire.
// Used by telemetry to report per-tick timer queue depth.
func (l *Level) PendingTimerCount() int { return len(l.timers) }

// PhysicsCoords satisfies particles.Host: converts game-grid floating
// position to physics-grid integer coordinates.
func (l *Level) PhysicsCoords(x, y SimFloat) CoordPair {
	return CoordPair{
		X: CoordInt(math.Round(float64(x) * float64(labsim.Subdivisions))),
		Y: CoordInt(math.Round(float64(y) * float64(labsim.Subdivisions))),
	}
}

func (l *Level) physicsCoords(x, y SimFloat) CoordPair { return l.PhysicsCoords(x, y) }

// SubWidth satisfies particles.Host.
func (l *Level) SubWidth() CoordInt { return l.width * labsim.Subdivisions }

// SubHeight satisfies particles.Host.
func (l *Level) SubHeight() CoordInt { return l.height * labsim.Subdivisions }

func (l *Level) cellAt(x, y CoordInt) *LevelCell {
	return &l.cells[int(x)+int(y)*int(l.width)]
}

// fallChannel reports whether the cell at (x, y) and the cell directly
// below it are both free (unoccupied, unreserved), the precondition for a
// round object to roll sideways-and-down through them. Returns (nil, nil)
// if either cell is unavailable.
func (l *Level) fallChannel(x, y CoordInt) (aside, asideBelow *LevelCell) {
	aside = l.cellAt(x, y)
	if aside.Here != nil || aside.ReservedBy != nil {
		return nil, nil
	}
	if y+1 >= l.height {
		return nil, nil
	}
	asideBelow = l.cellAt(x, y+1)
	if asideBelow.Here != nil || asideBelow.ReservedBy != nil {
		return nil, nil
	}
	return aside, asideBelow
}

// CleanupCell removes whatever object occupies cell from the level,
// clearing its physics footprint and firing OnPlayerDeath if it was the
// tracked player.
func (l *Level) CleanupCell(cell *LevelCell) {
	obj := cell.Here
	if obj == nil {
		return
	}

	if obj == l.player {
		for _, fn := range l.onPlayerDeath {
			fn(l, obj)
		}
		l.player = nil
	}

	l.physics.ClearCells(obj.Phy.X, obj.Phy.Y, obj.Info.Stamp)
	cell.Here = nil
}

// PlaceObject installs obj at game-grid cell (x, y). If the destination is
// reserved by an in-progress movement, that movement is skipped first so
// the cell is free. Fires OnObjectSpawn.
func (l *Level) PlaceObject(obj *GameObject, x, y CoordInt, initialTemperature SimFloat) {
	l.physics.WaitForFrame()

	dest := l.cellAt(x, y)
	if dest.ReservedBy != nil {
		reserver := dest.ReservedBy
		reserver.Movement.Skip()
		newPhy := l.physicsCoords(reserver.X, reserver.Y)
		reserver.Phy = newPhy
	}
	l.CleanupCell(dest)

	obj.X, obj.Y = SimFloat(x), SimFloat(y)
	obj.Cell = CoordPair{X: x, Y: y}
	obj.Phy = l.physicsCoords(obj.X, obj.Y)
	l.physics.PlaceObject(obj.Phy.X, obj.Phy.Y, obj, obj.Info.Stamp, initialTemperature)

	dest.Here = obj
	for _, fn := range l.onObjectSpawn {
		fn(l, obj)
	}
}

// PlacePlayer installs obj as the tracked player, if no player is currently
// alive. A no-op if a player already exists.
func (l *Level) PlacePlayer(obj *GameObject, x, y CoordInt) {
	if l.player != nil {
		return
	}
	l.player = obj
	l.PlaceObject(obj, x, y, 1.0)
}

// OnPlayerDeath registers fn to run when the tracked player is cleaned up.
func (l *Level) OnPlayerDeath(fn PlayerDeathFunc) {
	l.onPlayerDeath = append(l.onPlayerDeath, fn)
}

// OnObjectSpawn registers fn to run whenever an object is placed.
func (l *Level) OnObjectSpawn(fn ObjectSpawnFunc) {
	l.onObjectSpawn = append(l.onObjectSpawn, fn)
}

// Update advances the level by one tick: runs due timers, updates every
// resident object bottom-to-top (so falling objects see already-updated
// neighbours below them), advances particles, then kicks off the next
// physics frame.
func (l *Level) Update() {
	l.ticks++

	l.physics.WaitForFrame()
	l.runDueTimers()

	for y := l.height - 1; y >= 0; y-- {
		for x := CoordInt(0); x < l.width; x++ {
			obj := l.cellAt(x, y).Here
			if obj == nil {
				continue
			}
			obj.Update()
		}
	}

	l.particleSys.Update(SimFloat(l.timeSlice), l)

	l.physics.StartFrame()
}

// AddExplosion schedules an explosion at game-grid cell (x, y): after the
// configured trigger delay, any occupant is touched and, if the cell is
// still empty, an explosion object is spawned there. A burst of fire
// particles is emitted immediately. Does nothing (no timer, no particles)
// when the cell currently holds an indestructible object.
func (l *Level) AddExplosion(x, y CoordInt) {
	cell := l.cellAt(x, y)
	if cell.Here != nil && !cell.Here.Info.Destructible {
		return
	}

	l.scheduleTimer(l.ticks+TickCounter(l.explosionCfg.TriggerTimeoutTicks), x, y, explosionTimerFunc(x, y))
	l.spawnExplosionParticles(x, y)
}

// explosionTimerFunc builds the timer callback fired once a scheduled
// explosion's trigger delay elapses: touch whatever occupies the cell,
// then spawn an explosion block if it is (now) empty.
func explosionTimerFunc(x, y CoordInt) TimerFunc {
	return func(lvl *Level, cell *LevelCell) {
		if cell == nil {
			return
		}
		if cell.Here != nil {
			cell.Here.ExplosionTouch()
		}
		if cell.Here == nil {
			lvl.PlaceObject(newExplosionObject(lvl), x, y, 1.0)
		}
	}
}

// ExplosionTouch notifies the object it is inside an explosion area,
// delegating to its behavior hook.
func (o *GameObject) ExplosionTouch() {
	o.Behavior.ExplosionTouch(o)
}

func (l *Level) spawnExplosionParticles(x, y CoordInt) {
	lifetime := float32(l.explosionCfg.BlockLifetimeTicks+l.explosionCfg.TriggerTimeoutTicks) * float32(l.timeSlice)
	l.particleSys.SpawnGenerator(l.explosionCfg.ParticleCount, func(i int, p *particles.Particle) {
		offsX := (l.rng.Float32()*2 - 1) * 0.2
		offsY := (l.rng.Float32()*2 - 1) * 0.2
		p.Kind = particles.Fire
		p.X = float32(x) + 0.5 + offsX
		p.Y = float32(y) + 0.5 + offsY
		p.VX = offsX / 2
		p.VY = offsY / 2
		p.Phi = l.rng.Float32() * 2 * math.Pi
		p.VPhi = (l.rng.Float32()*2 - 1) * (2 * math.Pi / 10)
		p.Lifetime = lifetime
	})
}

// AddLargeExplosion schedules AddExplosion for every cell in the
// rectangle centered on (x0, y0) with the given radii, clamped to the
// level bounds.
func (l *Level) AddLargeExplosion(x0, y0, xradius, yradius CoordInt) {
	minx, miny, maxx, maxy := l.explosionBounds(x0, y0, xradius, yradius)
	for y := miny; y <= maxy; y++ {
		for x := minx; x <= maxx; x++ {
			l.AddExplosion(x, y)
		}
	}
}

var particleSpawnMap = [8]CoordPair{
	{1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}, {0, 1},
}

// AddLargeParticleExplosion schedules the same timer-driven block explosion
// as AddLargeExplosion, but spawns a denser, velocity-biased particle burst
// radiating out from the center instead of a per-cell one.
func (l *Level) AddLargeParticleExplosion(x0, y0, xradius, yradius CoordInt) {
	minx, miny, maxx, maxy := l.explosionBounds(x0, y0, xradius, yradius)
	lifetime := float32(l.explosionCfg.BlockLifetimeTicks+l.explosionCfg.TriggerTimeoutTicks) / 100

	for x := minx; x <= maxx; x++ {
		dx := float32(x-x0) / float32(xradius+1)
		for y := miny; y <= maxy; y++ {
			dy := float32(y-y0) / float32(yradius+1)

			l.particleSys.SpawnGenerator(8, func(i int, p *particles.Particle) {
				m := particleSpawnMap[i%8]
				offsX := dx/2 + float32(m.X)/4
				offsY := dy/2 + float32(m.Y)/4
				p.Kind = particles.Fire
				p.X = float32(x0) + 0.5 + offsX
				p.Y = float32(y0) + 0.5 + offsY
				p.VX = dx*float32(xradius+1) + offsX
				p.VY = dy*float32(yradius+1) + offsY
				p.Phi = l.rng.Float32() * 2 * math.Pi
				p.VPhi = (l.rng.Float32()*2 - 1) * (2 * math.Pi / 10)
				p.Lifetime = lifetime
			})

			cell := l.cellAt(x, y)
			if cell.Here != nil && !cell.Here.Info.Destructible {
				continue
			}
			l.scheduleTimer(l.ticks+TickCounter(l.explosionCfg.TriggerTimeoutTicks), x, y, explosionTimerFunc(x, y))
		}
	}
}

func (l *Level) explosionBounds(x0, y0, xradius, yradius CoordInt) (minx, miny, maxx, maxy CoordInt) {
	minx = x0 - xradius
	if minx < 0 {
		minx = 0
	}
	miny = y0 - yradius
	if miny < 0 {
		miny = 0
	}
	maxx = x0 + xradius
	if maxx > l.width-1 {
		maxx = l.width - 1
	}
	maxy = y0 + yradius
	if maxy > l.height-1 {
		maxy = l.height - 1
	}
	return
}

// MeasureObjectAvg averages sensor over obj's occupied footprint cells.
func (l *Level) MeasureObjectAvg(obj *GameObject, sensor func(labsim.LabCell) SimFloat) (SimFloat, bool) {
	return l.physics.MeasureStampAvg(obj.Phy.X, obj.Phy.Y, obj.Info.Stamp.Occupied(), sensor, false)
}

// MeasureStampAvg averages sensor over stamp's occupied footprint cells
// placed at physics-grid origin (x, y).
func (l *Level) MeasureStampAvg(x, y CoordInt, stamp *labsim.Stamp, sensor func(labsim.LabCell) SimFloat) (SimFloat, bool) {
	return l.physics.MeasureStampAvg(x, y, stamp.Occupied(), sensor, false)
}

// MeasureBorderAvg averages sensor over the border cells surrounding the
// object occupying game-grid cell (x, y). Returns (0, false) if the cell
// is empty.
func (l *Level) MeasureBorderAvg(x, y SimFloat, sensor func(labsim.LabCell) SimFloat, excludeBlocked bool) (SimFloat, bool) {
	dest := l.cellAt(CoordInt(x), CoordInt(y))
	if dest.Here == nil {
		return 0, false
	}
	phy := l.physicsCoords(x, y)
	return l.physics.MeasureStampAvg(phy.X, phy.Y, dest.Here.Info.Stamp.Border(), sensor, excludeBlocked)
}

// MeasureObjectGradient returns the gradient of sensor across obj's border
// cells, pointing from low to high values.
func (l *Level) MeasureObjectGradient(obj *GameObject, sensor func(labsim.LabCell) SimFloat, excludeBlocked bool) ([2]SimFloat, bool) {
	return l.physics.MeasureStampGradient(obj.Phy.X, obj.Phy.Y, obj.Info.Stamp.Border(), sensor, excludeBlocked)
}
