package telemetry

import (
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// Trait names used in trend rows.
const (
	TraitSense     = "sense"
	TraitPrecision = "precision"
	TraitSpeed     = "speed"
	TraitSurvival  = "survival"
)

// Trend is a least-squares line of one trait mean against generation index.
type Trend struct {
	Trait       string  `csv:"trait"`
	Intercept   float64 `csv:"intercept"`
	Slope       float64 `csv:"slope"`
	First       float64 `csv:"first"`
	Last        float64 `csv:"last"`
	Generations int     `csv:"generations"`
}

// At evaluates the trend line at generation x.
func (t Trend) At(x float64) float64 {
	return t.Intercept + t.Slope*x
}

// LogValue implements slog.LogValuer for structured logging.
func (t Trend) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("trait", t.Trait),
		slog.Float64("intercept", t.Intercept),
		slog.Float64("slope", t.Slope),
		slog.Int("generations", t.Generations),
	)
}

// Series accumulates per-generation statistics over a run.
// Aborted generations are never appended.
type Series struct {
	rows []GenerationStats
}

// Append adds one generation's stats.
func (s *Series) Append(stats GenerationStats) {
	s.rows = append(s.rows, stats)
}

// Len returns the number of recorded generations.
func (s *Series) Len() int {
	return len(s.rows)
}

// Rows returns a copy of the recorded generations in order.
func (s *Series) Rows() []GenerationStats {
	out := make([]GenerationStats, len(s.rows))
	copy(out, s.rows)
	return out
}

// Last returns the most recent generation, if any.
func (s *Series) Last() (GenerationStats, bool) {
	if len(s.rows) == 0 {
		return GenerationStats{}, false
	}
	return s.rows[len(s.rows)-1], true
}

// HumanWinRate returns the fraction of recorded generations won by humans.
func (s *Series) HumanWinRate(humanWinner string) float64 {
	if len(s.rows) == 0 {
		return 0
	}
	wins := 0
	for _, r := range s.rows {
		if r.Winner == humanWinner {
			wins++
		}
	}
	return float64(wins) / float64(len(s.rows))
}

// Trends fits a line through each trait mean against the generation index.
// With fewer than two generations the slope is zero and the intercept is the
// single observed value.
func (s *Series) Trends() []Trend {
	traits := []struct {
		name string
		get  func(GenerationStats) float64
	}{
		{TraitSense, func(g GenerationStats) float64 { return g.MeanSense }},
		{TraitPrecision, func(g GenerationStats) float64 { return g.MeanPrecision }},
		{TraitSpeed, func(g GenerationStats) float64 { return g.MeanSpeed }},
		{TraitSurvival, func(g GenerationStats) float64 { return g.MeanSurvival }},
	}

	n := len(s.rows)
	x := make([]float64, n)
	for i, r := range s.rows {
		x[i] = float64(r.Generation)
	}

	trends := make([]Trend, 0, len(traits))
	for _, tr := range traits {
		t := Trend{Trait: tr.name, Generations: n}
		if n == 0 {
			trends = append(trends, t)
			continue
		}

		y := make([]float64, n)
		for i, r := range s.rows {
			y[i] = tr.get(r)
		}
		t.First = y[0]
		t.Last = y[n-1]

		if n < 2 {
			t.Intercept = y[0]
		} else {
			t.Intercept, t.Slope = stat.LinearRegression(x, y, nil, false)
		}
		trends = append(trends, t)
	}
	return trends
}
