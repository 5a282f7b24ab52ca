// Command labinspect is a headless diagnostic driver for the simulation
// engine: it runs a level for a fixed number of ticks, optionally logging
// per-tick and windowed telemetry to CSV, and can dump an ASCII readback
// of the physics grid or probe a single cell's neighbourhood afterwards.
//
// Usage: go run ./cmd/labinspect -ticks 500 -probe 10,10 -dump
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/horazont/maniaclab/config"
	"github.com/horazont/maniaclab/level"
	"github.com/horazont/maniaclab/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use embedded defaults)")
	width := flag.Int("width", 0, "Game-grid width in cells (0 = use config)")
	height := flag.Int("height", 0, "Game-grid height in cells (0 = use config)")
	ticks := flag.Int("ticks", 100, "Number of ticks to simulate")
	outputDir := flag.String("output", "", "Directory for run.csv/windows.csv telemetry (empty = use config, which may also be empty to disable)")
	windowTicks := flag.Int("window", 0, "Ticks per telemetry aggregation window (0 = use config)")
	dump := flag.Bool("dump", false, "Print an ASCII pressure readback of the final grid state")
	probe := flag.String("probe", "", "Print a cross-shaped cell probe at \"x,y\" (game-grid coordinates) after the run")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("loading config: %v", err)
	}
	cfg := config.Cfg()

	gridW, gridH := cfg.Grid.Width, cfg.Grid.Height
	if *width > 0 {
		gridW = *width
	}
	if *height > 0 {
		gridH = *height
	}
	if gridW <= 0 || gridH <= 0 {
		log.Fatalf("invalid grid dimensions %dx%d", gridW, gridH)
	}

	if *outputDir == "" {
		*outputDir = cfg.Telemetry.OutputDir
	}
	if *windowTicks <= 0 {
		*windowTicks = cfg.Telemetry.WindowTicks
	}
	if *windowTicks <= 0 {
		*windowTicks = 60
	}

	logger := slog.Default()
	lvl := level.New(level.CoordInt(gridW), level.CoordInt(gridH), cfg, logger)

	om, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		log.Fatalf("opening telemetry output: %v", err)
	}
	defer om.Close()
	if err := om.WriteConfig(cfg); err != nil {
		log.Fatalf("writing config snapshot: %v", err)
	}

	collector := telemetry.NewCollector(*windowTicks)
	timeSlice := cfg.Physics.TimeSliceSeconds

	for i := 0; i < *ticks; i++ {
		lvl.Update()

		fs := telemetry.SampleFrame(lvl, float64(lvl.Ticks())*timeSlice)
		if err := om.WriteFrame(fs); err != nil {
			log.Fatalf("writing frame telemetry: %v", err)
		}
		if ws, ok := collector.Observe(fs); ok {
			if err := om.WriteWindow(ws); err != nil {
				log.Fatalf("writing window telemetry: %v", err)
			}
		}
	}
	if ws, ok := collector.Flush(); ok {
		if err := om.WriteWindow(ws); err != nil {
			log.Fatalf("writing final window telemetry: %v", err)
		}
	}

	if *dump {
		totals := lvl.Physics().Totals()
		if err := lvl.Physics().DumpASCII(os.Stdout, 0, 2); err != nil {
			log.Fatalf("dumping grid: %v", err)
		}
		fmt.Printf("blocked=%d/%d pressure_total=%.3f heat_total=%.3f fog_total=%.3f\n",
			totals.BlockedCells, totals.TotalCells, totals.Pressure, totals.HeatEnergy, totals.FogDensity)
	}

	if *probe != "" {
		x, y, err := parseProbeCoords(*probe)
		if err != nil {
			log.Fatalf("parsing -probe: %v", err)
		}
		printProbe(lvl.DebugCell(x, y))
	}
}

func parseProbeCoords(s string) (level.SimFloat, level.SimFloat, error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected \"x,y\", got %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 32)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing x: %w", err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 32)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing y: %w", err)
	}
	return level.SimFloat(x), level.SimFloat(y), nil
}

var probeLabels = [5]string{"center", "up", "left", "right", "down"}

func printProbe(probe level.CellProbe) {
	fmt.Printf("DEBUG: center at x = %d; y = %d\n", probe.CenterX, probe.CenterY)
	for i, sample := range probe.Samples {
		fmt.Printf("offs: %d, %d (%s)\n", sample.Offset.X, sample.Offset.Y, probeLabels[i])
		if !sample.InRange {
			fmt.Println("  out of range")
			continue
		}
		if sample.Blocked {
			fmt.Println("  blocked")
		}
		fmt.Printf("  p     = %.4f\n", sample.AirPressure)
		fmt.Printf("  U     = %.4f\n", sample.HeatEnergy)
		fmt.Printf("  T     = %.4f\n", sample.Temperature)
		fmt.Printf("  fog   = %.4f\n", sample.FogDensity)
		fmt.Printf("  flow  = %.4f, %.4f\n", sample.Flow[0], sample.Flow[1])
	}
}
