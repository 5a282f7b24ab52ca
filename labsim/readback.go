package labsim

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/floats"
)

// MeasureStampAvg averages fn over the footprint coordinates centred at
// (atx,aty), skipping out-of-range cells and, if excludeBlocked is set,
// blocked cells. Returns (NaN, false) when the sample set is empty.
func (s *LabSim) MeasureStampAvg(atx, aty CoordInt, coords []CoordPair, fn func(LabCell) SimFloat, excludeBlocked bool) (SimFloat, bool) {
	samples := make([]float64, 0, len(coords))
	for _, p := range coords {
		x, y := p.X+atx, p.Y+aty
		cell, ok := s.SafeFrontCellAt(x, y)
		if !ok {
			continue
		}
		if excludeBlocked {
			if meta, ok := s.SafeMetaAt(x, y); ok && meta.Blocked {
				continue
			}
		}
		samples = append(samples, float64(fn(cell)))
	}
	if len(samples) == 0 {
		return SimFloat(math.NaN()), false
	}
	return SimFloat(floats.Sum(samples) / float64(len(samples))), true
}

// MeasureStampGradient returns the average of fn(cell) times the unit
// vector from the footprint centre to each sampled coordinate, yielding a
// direction vector. Returns ({NaN, NaN}, false) when the sample set is empty.
func (s *LabSim) MeasureStampGradient(atx, aty CoordInt, coords []CoordPair, fn func(LabCell) SimFloat, excludeBlocked bool) ([2]SimFloat, bool) {
	centre := SimFloat(Subdivisions) / 2
	var accumX, accumY []float64
	for _, p := range coords {
		if p.X == 0 && p.Y == 0 {
			continue
		}
		x, y := p.X+atx, p.Y+aty
		cell, ok := s.SafeFrontCellAt(x, y)
		if !ok {
			continue
		}
		if excludeBlocked {
			if meta, ok := s.SafeMetaAt(x, y); ok && meta.Blocked {
				continue
			}
		}
		dx := float64(SimFloat(p.X) - centre)
		dy := float64(SimFloat(p.Y) - centre)
		norm := math.Hypot(dx, dy)
		if norm > 0 {
			dx /= norm
			dy /= norm
		}
		v := float64(fn(cell))
		accumX = append(accumX, v*dx)
		accumY = append(accumY, v*dy)
	}
	if len(accumX) == 0 {
		return [2]SimFloat{SimFloat(math.NaN()), SimFloat(math.NaN())}, false
	}
	n := float64(len(accumX))
	return [2]SimFloat{
		SimFloat(floats.Sum(accumX) / n),
		SimFloat(floats.Sum(accumY) / n),
	}, true
}

// DumpASCII writes a textual readback of the front buffer: pressure
// normalised into [0,9] against [min,max], with blocked cells shown as '#'.
// A pure substitute for the original's to_gl_texture GL upload.
func (s *LabSim) DumpASCII(w io.Writer, min, max SimFloat) error {
	for y := CoordInt(0); y < s.height; y++ {
		for x := CoordInt(0); x < s.width; x++ {
			idx := s.index(x, y)
			if s.meta[idx].Blocked {
				if _, err := io.WriteString(w, "#"); err != nil {
					return err
				}
				continue
			}
			v := clampF((s.front[idx].AirPressure-min)/(max-min), 0, 1)
			digit := int(v * 9)
			if _, err := fmt.Fprintf(w, "%d", digit); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// DumpFlow writes the raw flow vector of every cell, one "x,y" pair per
// cell, rows separated by newlines.
func (s *LabSim) DumpFlow(w io.Writer) error {
	for y := CoordInt(0); y < s.height; y++ {
		for x := CoordInt(0); x < s.width; x++ {
			idx := s.index(x, y)
			if x > 0 {
				if _, err := io.WriteString(w, " "); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w, "%.3f,%.3f", s.front[idx].Flow[0], s.front[idx].Flow[1]); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// ReadbackRGBA packs the front buffer into a caller-provided RGBA byte
// buffer, one 4-byte pixel per cell. Unblocked cells are grey: the value is
// normalised pressure in the left half of the columns and fog density in
// the right half; with threadRegions set, the green channel instead encodes
// the cell's worker row block. Blocked cells are blue. dst must have length
// Width()*Height()*4.
// Replaces the original's to_gl_texture GL upload with a pure readback, as
// spec.md §6 allows for a systems-language reimplementation.
func (s *LabSim) ReadbackRGBA(dst []byte, min, max SimFloat, threadRegions bool) {
	n := int(s.width) * int(s.height)
	if len(dst) < n*4 {
		panic("labsim: ReadbackRGBA: dst too small")
	}
	half := s.width / 2
	for i := 0; i < n; i++ {
		meta := s.meta[i]
		off := i * 4
		if meta.Blocked {
			dst[off] = 0
			dst[off+1] = 0
			dst[off+2] = 0xFF
			dst[off+3] = 0xFF
			continue
		}
		cell := s.front[i]
		right := CoordInt(i%int(s.width)) >= half
		pressColor := byte(clampF((cell.AirPressure-min)/(max-min), 0, 1) * 255)
		fogColor := byte(clampF(cell.FogDensity, 0, 1) * 255)
		b := pressColor
		if right {
			b = fogColor
		}
		r := b
		dst[off] = r
		if threadRegions {
			rowBlock := (i / int(s.width)) / RowsPerBlock
			dst[off+1] = byte(float64(rowBlock) / float64(s.blockCount) * 255)
		} else {
			dst[off+1] = b
		}
		dst[off+2] = b
		dst[off+3] = 0xFF
	}
}

// GridTotals is a whole-grid readback summary: the sum of every unblocked
// cell's pressure/heat/fog, and how many cells are currently blocked.
// Used by telemetry to report per-tick grid-wide quantities without
// sampling through a stamp.
type GridTotals struct {
	Pressure     float64
	HeatEnergy   float64
	FogDensity   float64
	BlockedCells int
	TotalCells   int
}

// Totals sums every front-buffer cell's physics quantities. Safe to call
// at any time (reads the front buffer only).
func (s *LabSim) Totals() GridTotals {
	var t GridTotals
	t.TotalCells = int(s.width) * int(s.height)
	for i := range s.front {
		if s.meta[i].Blocked {
			t.BlockedCells++
			continue
		}
		cell := s.front[i]
		t.Pressure += float64(cell.AirPressure)
		t.HeatEnergy += float64(cell.HeatEnergy)
		t.FogDensity += float64(cell.FogDensity)
	}
	return t
}
