package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/outbreak/config"
	"github.com/pthm-cable/outbreak/evolution"
)

// GenerationStats holds aggregated statistics for one completed generation.
type GenerationStats struct {
	Generation int    `csv:"generation"`
	Winner     string `csv:"winner"`
	Outcome    string `csv:"outcome"`
	Ticks      int    `csv:"ticks"`

	// Populations at generation end
	HumansLeft  int `csv:"humans_left"`
	ZombiesLeft int `csv:"zombies_left"`

	// Events during the generation
	Eaten      int     `csv:"eaten"`
	ShotsFired int     `csv:"shots_fired"`
	ShotsHit   int     `csv:"shots_hit"`
	HitRate    float64 `csv:"hit_rate"`

	// Trait means over death records
	Deaths        int     `csv:"deaths"`
	MeanSense     float64 `csv:"mean_sense"`
	MeanPrecision float64 `csv:"mean_precision"`
	MeanSpeed     float64 `csv:"mean_speed"`
	MeanSurvival  float64 `csv:"mean_survival"`
	SurvivalP50   float64 `csv:"survival_p50"`
	SurvivalP90   float64 `csv:"survival_p90"`

	// Selection outcome, filled in once the next population is built
	Retained int `csv:"retained"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeGenerationStats averages the traits of a generation's death records.
// With fitness weighting each record counts in proportion to its survival;
// a generation whose records all have zero survival falls back to plain means.
func ComputeGenerationStats(generation int, deaths []evolution.DeathRecord, weighting string) GenerationStats {
	s := GenerationStats{Generation: generation, Deaths: len(deaths)}
	if len(deaths) == 0 {
		return s
	}

	sense := make([]float64, len(deaths))
	precision := make([]float64, len(deaths))
	speed := make([]float64, len(deaths))
	survival := make([]float64, len(deaths))
	var totalSurvival float64
	for i, d := range deaths {
		sense[i] = d.Sense
		precision[i] = d.Precision
		speed[i] = d.Speed
		survival[i] = d.Survival
		totalSurvival += d.Survival
	}

	var weights []float64
	if weighting == config.WeightingFitness && totalSurvival > 0 {
		weights = survival
	}

	s.MeanSense = stat.Mean(sense, weights)
	s.MeanPrecision = stat.Mean(precision, weights)
	s.MeanSpeed = stat.Mean(speed, weights)
	s.MeanSurvival = stat.Mean(survival, nil)

	sorted := make([]float64, len(survival))
	copy(sorted, survival)
	sort.Float64s(sorted)
	s.SurvivalP50 = Percentile(sorted, 0.50)
	s.SurvivalP90 = Percentile(sorted, 0.90)

	return s
}

// SetCombat fills the event counters and derives the hit rate.
func (s *GenerationStats) SetCombat(eaten, shotsFired, shotsHit int) {
	s.Eaten = eaten
	s.ShotsFired = shotsFired
	s.ShotsHit = shotsHit
	s.HitRate = 0
	if shotsFired > 0 {
		s.HitRate = float64(shotsHit) / float64(shotsFired)
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s GenerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", s.Generation),
		slog.String("winner", s.Winner),
		slog.String("outcome", s.Outcome),
		slog.Int("ticks", s.Ticks),
		slog.Int("humans_left", s.HumansLeft),
		slog.Int("zombies_left", s.ZombiesLeft),
		slog.Int("eaten", s.Eaten),
		slog.Int("shots_fired", s.ShotsFired),
		slog.Int("shots_hit", s.ShotsHit),
		slog.Float64("hit_rate", s.HitRate),
		slog.Int("deaths", s.Deaths),
		slog.Float64("mean_sense", s.MeanSense),
		slog.Float64("mean_precision", s.MeanPrecision),
		slog.Float64("mean_speed", s.MeanSpeed),
		slog.Float64("mean_survival", s.MeanSurvival),
		slog.Float64("survival_p50", s.SurvivalP50),
		slog.Float64("survival_p90", s.SurvivalP90),
		slog.Int("retained", s.Retained),
	)
}

// LogStats logs the generation stats using slog.
func (s GenerationStats) LogStats() {
	slog.Info("stats",
		"generation", s.Generation,
		"winner", s.Winner,
		"outcome", s.Outcome,
		"ticks", s.Ticks,
		"humans_left", s.HumansLeft,
		"zombies_left", s.ZombiesLeft,
		"eaten", s.Eaten,
		"shots_hit", s.ShotsHit,
		"hit_rate", s.HitRate,
		"mean_sense", s.MeanSense,
		"mean_precision", s.MeanPrecision,
		"mean_speed", s.MeanSpeed,
		"mean_survival", s.MeanSurvival,
		"retained", s.Retained,
	)
}
