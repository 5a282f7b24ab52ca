package telemetry

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOutputManagerWritesHeaderOnceThenAppends(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	defer om.Close()

	if err := om.WriteFrame(FrameStats{Tick: 1, Pressure: 1}); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	if err := om.WriteFrame(FrameStats{Tick: 2, Pressure: 2}); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	if err := om.WriteWindow(WindowStats{WindowEndTick: 2, Frames: 2}); err != nil {
		t.Fatalf("WriteWindow: %v", err)
	}
	om.Close()

	data, err := os.ReadFile(filepath.Join(dir, "run.csv"))
	if err != nil {
		t.Fatalf("reading run.csv: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected run.csv to be non-empty")
	}

	if _, err := os.Stat(filepath.Join(dir, "windows.csv")); err != nil {
		t.Errorf("expected windows.csv to exist: %v", err)
	}
}

func TestOutputManagerDisabledWhenDirEmpty(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	if om != nil {
		t.Fatal("expected a nil OutputManager when dir is empty")
	}
	if err := om.WriteFrame(FrameStats{}); err != nil {
		t.Errorf("WriteFrame on nil manager should no-op, got %v", err)
	}
}
