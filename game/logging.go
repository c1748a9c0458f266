package game

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/pthm-cable/outbreak/telemetry"
)

// ProgressLogger logs one line per completed generation.
type ProgressLogger struct {
	Total int
	// Bar adds a text progress bar to each line.
	Bar bool
}

// OnTick is a no-op; progress is reported per generation.
func (p *ProgressLogger) OnTick(Frame) {}

// OnGeneration logs generation_complete.
func (p *ProgressLogger) OnGeneration(res GenerationResult, _ telemetry.GenerationStats) {
	attrs := []any{
		"generation", res.Index + 1,
		"total", p.Total,
		"winner", res.Winner.String(),
		"living", livingCount(res),
		"outcome", res.Outcome.String(),
	}
	if p.Bar {
		attrs = append(attrs, "progress", ProgressBar(res.Index+1, p.Total))
	}
	slog.Info("generation_complete", attrs...)
}

// livingCount is the number of the winning side still alive. Generations
// without a winner report the remaining humans.
func livingCount(res GenerationResult) int {
	if res.Winner == WinnerZombies {
		return res.ZombiesLeft
	}
	return res.HumansLeft
}

// ProgressBar renders done/total as a 100-column bar with a percentage.
func ProgressBar(done, total int) string {
	percent := 0.0
	if total > 0 {
		percent = float64(done) / float64(total) * 100
	}
	filled := int(percent)
	if filled > 100 {
		filled = 100
	}
	if filled < 0 {
		filled = 0
	}
	return fmt.Sprintf("|%s%s| %.2f%%", strings.Repeat("█", filled), strings.Repeat("-", 100-filled), percent)
}

// logPerfStats logs the rolling generation timing.
func (g *Game) logPerfStats() {
	stats := g.perf.Stats()
	stats.LogStats()
	if err := g.output.WritePerf(stats, g.generation); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}
