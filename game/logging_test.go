package game

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/pthm-cable/outbreak/telemetry"
)

func TestProgressLoggerLivingCount(t *testing.T) {
	tests := []struct {
		name   string
		res    GenerationResult
		winner string
		living int
	}{
		{"humans win", GenerationResult{Winner: WinnerHumans, HumansLeft: 12, ZombiesLeft: 40}, "humans", 12},
		{"zombies win", GenerationResult{Winner: WinnerZombies, HumansLeft: 0, ZombiesLeft: 212}, "zombies", 212},
		{"no winner", GenerationResult{Winner: WinnerNone, HumansLeft: 5, ZombiesLeft: 9}, "none", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			prev := slog.Default()
			slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
			defer slog.SetDefault(prev)

			p := &ProgressLogger{Total: 10}
			p.OnGeneration(tt.res, telemetry.GenerationStats{})

			var line struct {
				Msg    string `json:"msg"`
				Winner string `json:"winner"`
				Living int    `json:"living"`
			}
			if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
				t.Fatalf("decoding log line %q: %v", buf.String(), err)
			}
			if line.Msg != "generation_complete" || line.Winner != tt.winner || line.Living != tt.living {
				t.Errorf("logged %+v, want winner %s living %d", line, tt.winner, tt.living)
			}
		})
	}
}
