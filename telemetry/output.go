package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/horazont/maniaclab/config"
)

// OutputManager handles a run's structured output: a per-tick run.csv and
// a per-window windows.csv, plus a snapshot of the run's configuration.
type OutputManager struct {
	dir string

	runFile     *os.File
	windowsFile *os.File

	runHeaderWritten     bool
	windowsHeaderWritten bool
}

// NewOutputManager creates dir (if needed) and opens its run.csv and
// windows.csv. Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	runFile, err := os.Create(filepath.Join(dir, "run.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating run.csv: %w", err)
	}
	om.runFile = runFile

	windowsFile, err := os.Create(filepath.Join(dir, "windows.csv"))
	if err != nil {
		om.runFile.Close()
		return nil, fmt.Errorf("creating windows.csv: %w", err)
	}
	om.windowsFile = windowsFile

	return om, nil
}

// WriteConfig saves the run's configuration as YAML alongside the CSVs.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteFrame appends a FrameStats row to run.csv.
func (om *OutputManager) WriteFrame(fs FrameStats) error {
	if om == nil {
		return nil
	}
	records := []FrameStats{fs}
	if !om.runHeaderWritten {
		if err := gocsv.Marshal(records, om.runFile); err != nil {
			return fmt.Errorf("writing run.csv: %w", err)
		}
		om.runHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.runFile); err != nil {
		return fmt.Errorf("writing run.csv: %w", err)
	}
	return nil
}

// WriteWindow appends a WindowStats row to windows.csv.
func (om *OutputManager) WriteWindow(ws WindowStats) error {
	if om == nil {
		return nil
	}
	records := []WindowStats{ws}
	if !om.windowsHeaderWritten {
		if err := gocsv.Marshal(records, om.windowsFile); err != nil {
			return fmt.Errorf("writing windows.csv: %w", err)
		}
		om.windowsHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.windowsFile); err != nil {
		return fmt.Errorf("writing windows.csv: %w", err)
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes the run's output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	if om.runFile != nil {
		if err := om.runFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if om.windowsFile != nil {
		if err := om.windowsFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
