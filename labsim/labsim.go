package labsim

import (
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/horazont/maniaclab/config"
)

// neighbour indices, matching the Top/Right/Bottom/Left ordering the
// physics core is grounded on.
const (
	neighTop = iota
	neighRight
	neighBottom
	neighLeft
)

// LabSim is the double-buffered fluid/heat/fog automaton: a front buffer
// (read-only during a running frame), a back buffer (write-only during a
// running frame) and a metadata buffer, advanced by a coordinator goroutine
// dispatching a pool of parked worker goroutines over fixed row blocks.
type LabSim struct {
	width, height CoordInt
	blockCount    int
	workerCount   int

	front, back []LabCell
	meta        []LabCellMeta

	nullCell LabCell
	nullMeta LabCellMeta

	cfg    config.PhysicsConfig
	logger *slog.Logger

	running bool // owner-thread-only flag; never touched by workers

	controlMu   sync.Mutex
	controlCond *sync.Cond
	run         bool
	terminated  bool

	doneMu   sync.Mutex
	doneCond *sync.Cond
	done     bool

	workerTaskMu    sync.Mutex
	workerTaskCond  *sync.Cond
	workerToStart   int
	workerTerminate bool

	workerDoneMu   sync.Mutex
	workerDoneCond *sync.Cond
	workerStopped  int

	blockCtr atomic.Uint64
}

// New constructs a LabSim over a width x height physics grid and starts its
// coordinator and worker goroutines. width and height are physics-grid
// dimensions (game dimensions times config.Grid.Subdivisions).
func New(width, height CoordInt, cfg config.PhysicsConfig, logger *slog.Logger) *LabSim {
	if logger == nil {
		logger = slog.Default()
	}

	n := int(width) * int(height)
	blockCount := (int(height) + RowsPerBlock - 1) / RowsPerBlock
	workerCount := runtime.GOMAXPROCS(0)

	s := &LabSim{
		width:       width,
		height:      height,
		blockCount:  blockCount,
		workerCount: workerCount,
		front:       make([]LabCell, n),
		back:        make([]LabCell, n),
		meta:        make([]LabCellMeta, n),
		cfg:         cfg,
		logger:      logger,
	}
	s.controlCond = sync.NewCond(&s.controlMu)
	s.doneCond = sync.NewCond(&s.doneMu)
	s.workerTaskCond = sync.NewCond(&s.workerTaskMu)
	s.workerDoneCond = sync.NewCond(&s.workerDoneMu)
	s.workerStopped = workerCount

	initCell(&s.nullCell, cfg.InitialAirPressure, cfg.InitialTemperature, cfg.InitialFogDensity, SimFloat(cfg.AirTempCoeff))
	for i := range s.front {
		initCell(&s.front[i], cfg.InitialAirPressure, cfg.InitialTemperature, cfg.InitialFogDensity, SimFloat(cfg.AirTempCoeff))
		initCell(&s.back[i], cfg.InitialAirPressure, cfg.InitialTemperature, cfg.InitialFogDensity, SimFloat(cfg.AirTempCoeff))
	}

	logger.Debug("labsim: starting", "cells", n, "blocks", blockCount, "workers", workerCount)

	go s.coordinatorLoop()
	for i := 0; i < workerCount; i++ {
		go s.workerLoop()
	}

	return s
}

// Width and Height report the physics-grid dimensions.
func (s *LabSim) Width() CoordInt  { return s.width }
func (s *LabSim) Height() CoordInt { return s.height }

func (s *LabSim) index(x, y CoordInt) int { return int(x) + int(s.width)*int(y) }

func (s *LabSim) inBounds(x, y CoordInt) bool {
	return x >= 0 && x < s.width && y >= 0 && y < s.height
}

func (s *LabSim) assertNotRunning(op string) {
	if s.running {
		panic("labsim: " + op + " called while simulation is running")
	}
}

// StartFrame swaps the front and back buffers, marks the simulation running
// and wakes the coordinator to dispatch one frame of worker computation.
// Must only be called while the previous frame is not running.
func (s *LabSim) StartFrame() {
	s.assertNotRunning("StartFrame")
	s.front, s.back = s.back, s.front
	s.running = true

	s.controlMu.Lock()
	if s.run {
		s.controlMu.Unlock()
		panic("labsim: StartFrame called twice without WaitForFrame")
	}
	s.run = true
	s.controlMu.Unlock()
	s.controlCond.Broadcast()
}

// WaitForFrame blocks until the in-flight frame started by StartFrame has
// completed. A no-op if no frame is running.
func (s *LabSim) WaitForFrame() {
	if !s.running {
		return
	}
	s.doneMu.Lock()
	for !s.done {
		s.doneCond.Wait()
	}
	s.done = false
	s.doneMu.Unlock()
	s.running = false
}

// Close terminates the coordinator and worker goroutines. The LabSim must
// not be used afterwards.
func (s *LabSim) Close() {
	s.controlMu.Lock()
	s.terminated = true
	s.controlMu.Unlock()
	s.controlCond.Broadcast()
}

func (s *LabSim) coordinatorLoop() {
	for {
		s.controlMu.Lock()
		for !s.run && !s.terminated {
			s.controlCond.Wait()
		}
		if s.terminated {
			s.controlMu.Unlock()
			s.doneMu.Lock()
			s.done = true
			s.doneMu.Unlock()
			s.doneCond.Broadcast()
			break
		}
		s.run = false
		s.controlMu.Unlock()

		s.coordinatorRunWorkers()

		s.doneMu.Lock()
		s.done = true
		s.doneMu.Unlock()
		s.doneCond.Broadcast()
	}

	s.workerTaskMu.Lock()
	s.workerTerminate = true
	s.workerTaskMu.Unlock()
	s.workerTaskCond.Broadcast()
}

func (s *LabSim) coordinatorRunWorkers() {
	s.workerDoneMu.Lock()
	s.workerStopped = 0
	s.workerDoneMu.Unlock()

	s.workerTaskMu.Lock()
	s.workerToStart = s.workerCount
	s.blockCtr.Store(0)
	s.workerTaskMu.Unlock()
	s.workerTaskCond.Broadcast()

	s.workerDoneMu.Lock()
	for s.workerStopped < s.workerCount {
		s.workerDoneCond.Wait()
	}
	s.workerDoneMu.Unlock()
}

func (s *LabSim) workerLoop() {
	s.workerTaskMu.Lock()
	for {
		for s.workerToStart == 0 && !s.workerTerminate {
			s.workerTaskCond.Wait()
		}
		if s.workerTerminate {
			s.workerTaskMu.Unlock()
			return
		}
		s.workerToStart--
		s.workerTaskMu.Unlock()

		for {
			block := s.blockCtr.Add(1) - 1
			if int(block) >= s.blockCount {
				break
			}
			y0 := CoordInt(int(block) * RowsPerBlock)
			y1 := y0 + RowsPerBlock
			if y1 > s.height {
				y1 = s.height
			}
			s.updateActiveBlock(y0, y1)
		}

		s.workerDoneMu.Lock()
		s.workerStopped++
		s.workerDoneMu.Unlock()
		s.workerDoneCond.Broadcast()

		s.workerTaskMu.Lock()
	}
}

func (s *LabSim) updateActiveBlock(y0, y1 CoordInt) {
	for y := y0; y < y1; y++ {
		for x := CoordInt(0); x < s.width; x++ {
			s.updateCell(x, y)
		}
	}
}

func (s *LabSim) frontAt(x, y CoordInt) *LabCell {
	if !s.inBounds(x, y) {
		return &s.nullCell
	}
	return &s.front[s.index(x, y)]
}

func (s *LabSim) metaAtUnchecked(x, y CoordInt) *LabCellMeta {
	if !s.inBounds(x, y) {
		return &s.nullMeta
	}
	return &s.meta[s.index(x, y)]
}

func (s *LabSim) updateCell(x, y CoordInt) {
	back := &s.back[s.index(x, y)]
	front := s.front[s.index(x, y)]
	meta := s.meta[s.index(x, y)]

	back.AirPressure = front.AirPressure
	back.HeatEnergy = front.HeatEnergy
	back.FogDensity = front.FogDensity
	back.Flow = front.Flow

	left := s.frontAt(x-1, y)
	right := s.frontAt(x+1, y)
	leftMeta := s.metaAtUnchecked(x-1, y)
	rightMeta := s.metaAtUnchecked(x+1, y)
	s.fullFlow(0, back, front, meta, *left, *leftMeta, *right, *rightMeta)

	top := s.frontAt(x, y-1)
	bottom := s.frontAt(x, y+1)
	topMeta := s.metaAtUnchecked(x, y-1)
	bottomMeta := s.metaAtUnchecked(x, y+1)
	s.fullFlow(1, back, front, meta, *top, *topMeta, *bottom, *bottomMeta)
}

// fullFlow advances one axis (dir=0 horizontal, dir=1 vertical) of a
// cell's flow, heat and (optionally) fog exchange with its negative- and
// positive-side neighbours, then updates the axis flow component as a
// momentum-weighted blend of the two directional flows.
func (s *LabSim) fullFlow(dir int, back *LabCell, front LabCell, meta LabCellMeta, negFront LabCell, negMeta LabCellMeta, posFront LabCell, posMeta LabCellMeta) {
	var incomingFlow, incomingWeight SimFloat

	negApplicable := s.airFlow(dir, -1, back, front, meta, negFront, negMeta, negFront)
	if negApplicable < 0 {
		incomingFlow += negFront.Flow[dir] * -negApplicable
		incomingWeight -= negApplicable
	}
	s.temperatureFlow(dir, -1, back, front, meta, negFront, negMeta)
	if s.cfg.FogDiffusionEnabled {
		s.fogFlow(back, front, meta, negFront, negMeta)
	}

	posApplicable := s.airFlow(dir, 1, back, front, meta, posFront, posMeta, front)
	if posApplicable < 0 {
		incomingFlow += posFront.Flow[dir] * -posApplicable
		incomingWeight -= posApplicable
	}
	mixingFactor := SimFloat(0)
	if back.AirPressure > 1e-17 {
		mixingFactor = incomingWeight / back.AirPressure
	}
	carried := SimFloat(0)
	if back.AirPressure > 1e-17 {
		carried = incomingFlow / back.AirPressure
	}
	back.Flow[dir] = ((1-mixingFactor)*posApplicable + carried) * SimFloat(s.cfg.FlowDamping)

	s.temperatureFlow(dir, 1, back, front, meta, posFront, posMeta)
	if s.cfg.FogDiffusionEnabled {
		s.fogFlow(back, front, meta, posFront, posMeta)
	}
}

func clampF(v, lo, hi SimFloat) SimFloat {
	if v > hi {
		return hi
	}
	if v < lo {
		return lo
	}
	return v
}

// airFlow computes and applies the pressure/heat/fog flux between a cell
// and one of its neighbours along one axis and direction, returning the
// applicable (clamped) flow for the caller's momentum bookkeeping.
func (s *LabSim) airFlow(dir int, sign SimFloat, back *LabCell, front LabCell, meta LabCellMeta, neighFront LabCell, neighMeta LabCellMeta, flowSource LabCell) SimFloat {
	if meta.Blocked || neighMeta.Blocked {
		return 0
	}

	dpressure := front.AirPressure - neighFront.AirPressure
	var dtemp SimFloat
	if dir == 1 && neighFront.AirPressure > 1e-17 && front.AirPressure > 1e-17 {
		dtemp = front.HeatEnergy/front.AirPressure - neighFront.HeatEnergy/neighFront.AirPressure
	}
	tempFlow := SimFloat(0)
	if dtemp < 0 {
		tempFlow = sign * dtemp * SimFloat(s.cfg.Convection)
	}
	pressFlow := dpressure * SimFloat(s.cfg.AirDiffusion)
	flow := sign*flowSource.Flow[dir]*SimFloat(s.cfg.AirFlow) + (pressFlow+tempFlow)*(1-SimFloat(s.cfg.AirFlow))

	applicable := clampF(flow, -neighFront.AirPressure/4, front.AirPressure/4)

	back.AirPressure -= applicable
	if applicable == 0 {
		return 0
	}

	var energyFlow, fogFlow SimFloat
	if applicable > 0 {
		energyFlow = front.HeatEnergy / front.AirPressure * applicable
		fogFlow = front.FogDensity / front.AirPressure * applicable
	} else {
		energyFlow = neighFront.HeatEnergy / neighFront.AirPressure * applicable
		fogFlow = neighFront.FogDensity / neighFront.AirPressure * applicable
	}
	back.HeatEnergy -= energyFlow
	back.FogDensity -= fogFlow

	return applicable
}

func (s *LabSim) tempCoefficient(meta LabCellMeta, front LabCell) SimFloat {
	if meta.Blocked {
		return meta.Obj.TempCoefficient()
	}
	return front.AirPressure * SimFloat(s.cfg.AirTempCoeff)
}

// HeatCapacityAt returns the heat capacity a cell's current occupant (air
// or blocking object) contributes, the same coefficient used internally by
// temperatureFlow. Exposed for collaborators outside labsim (the particle
// system) that inject heat directly into a cell.
func (s *LabSim) HeatCapacityAt(x, y CoordInt) SimFloat {
	return s.tempCoefficient(s.MetaAt(x, y), s.FrontCellAt(x, y))
}

// temperatureFlow diffuses heat between a cell and one neighbour, clamping
// the post-transfer state to the equilibrium partition if the raw transfer
// would invert the temperature ordering.
func (s *LabSim) temperatureFlow(dir int, sign SimFloat, back *LabCell, front LabCell, meta LabCellMeta, neighFront LabCell, neighMeta LabCellMeta) {
	_ = dir
	_ = sign
	tc := s.tempCoefficient(meta, front)
	neighTc := s.tempCoefficient(neighMeta, neighFront)
	if tc < 1e-17 || neighTc < 1e-17 {
		return
	}

	temp := front.HeatEnergy / tc
	neighTemp := neighFront.HeatEnergy / neighTc
	dtemp := neighTemp - temp

	var raw SimFloat
	if dtemp > 0 {
		raw = neighTc * dtemp
	} else {
		raw = tc * dtemp
	}

	flow := clampF(raw*SimFloat(s.cfg.HeatDiffusion), -front.HeatEnergy/4, neighFront.HeatEnergy/4)
	back.HeatEnergy += flow

	invertedUp := flow > 0 && neighTemp < temp
	invertedDown := flow <= 0 && temp < neighTemp
	if invertedUp || invertedDown {
		total := float64(neighFront.HeatEnergy) + float64(front.HeatEnergy)
		avgTemp := total / (float64(tc) + float64(neighTc))
		back.HeatEnergy = SimFloat(avgTemp) * tc
	}
}

// fogFlow diffuses fog density between a cell and one neighbour, mirroring
// temperatureFlow's shape but keyed on fog density over pressure.
func (s *LabSim) fogFlow(back *LabCell, front LabCell, meta LabCellMeta, neighFront LabCell, neighMeta LabCellMeta) {
	if meta.Blocked || neighMeta.Blocked {
		return
	}

	tc := front.AirPressure
	neighTc := neighFront.AirPressure
	if tc < 1e-17 || neighTc < 1e-17 {
		return
	}

	temp := front.FogDensity / tc
	neighTemp := neighFront.FogDensity / neighTc
	dtemp := neighTemp - temp

	var raw SimFloat
	if dtemp > 0 {
		raw = neighTc * dtemp
	} else {
		raw = tc * dtemp
	}

	flow := clampF(raw*SimFloat(s.cfg.FogDiffusion), -front.FogDensity/4, neighFront.FogDensity/4)
	back.FogDensity += flow

	invertedUp := flow > 0 && neighTemp < temp
	invertedDown := flow <= 0 && temp < neighTemp
	if invertedUp || invertedDown {
		total := float64(neighFront.FogDensity) + float64(front.FogDensity)
		avgTemp := total / (float64(tc) + float64(neighTc))
		back.FogDensity = SimFloat(avgTemp) * tc
	}
}
