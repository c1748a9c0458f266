package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/outbreak/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}
	// Nil receiver is a no-op
	if err := om.WriteGeneration(GenerationStats{}); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestOutputManagerWrites(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	var series Series
	for g := 0; g < 3; g++ {
		stats := GenerationStats{Generation: g, Winner: "humans", MeanSense: float64(g)}
		series.Append(stats)
		if err := om.WriteGeneration(stats); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.WriteTrends(&series); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(config.Defaults()); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "generations.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Errorf("generations.csv has %d lines, want header plus 3 rows", len(lines))
	}
	if !strings.HasPrefix(lines[0], "generation,winner") {
		t.Errorf("unexpected header %q", lines[0])
	}

	trends, err := os.ReadFile(filepath.Join(dir, "trends.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(trends), TraitSense) {
		t.Errorf("trends.csv missing sense row:\n%s", trends)
	}

	if _, err := config.Load(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("written config does not load: %v", err)
	}
}
