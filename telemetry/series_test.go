package telemetry

import (
	"math"
	"testing"
)

func TestSeriesTrends(t *testing.T) {
	var s Series
	for g := 0; g < 5; g++ {
		s.Append(GenerationStats{
			Generation:    g,
			MeanSense:     10 + 2*float64(g),
			MeanPrecision: 0.5,
			MeanSpeed:     8 - float64(g),
			MeanSurvival:  100,
		})
	}

	want := map[string][2]float64{
		TraitSense:     {10, 2},
		TraitPrecision: {0.5, 0},
		TraitSpeed:     {8, -1},
		TraitSurvival:  {100, 0},
	}

	trends := s.Trends()
	if len(trends) != len(want) {
		t.Fatalf("got %d trends, want %d", len(trends), len(want))
	}
	for _, tr := range trends {
		w := want[tr.Trait]
		if math.Abs(tr.Intercept-w[0]) > 1e-9 || math.Abs(tr.Slope-w[1]) > 1e-9 {
			t.Errorf("%s: intercept %v slope %v, want %v %v", tr.Trait, tr.Intercept, tr.Slope, w[0], w[1])
		}
		if tr.Generations != 5 {
			t.Errorf("%s: generations %d, want 5", tr.Trait, tr.Generations)
		}
	}
	if got := trends[0].At(4); math.Abs(got-18) > 1e-9 {
		t.Errorf("sense trend at 4 = %v, want 18", got)
	}
}

func TestSeriesTrendsShort(t *testing.T) {
	var s Series
	for _, tr := range s.Trends() {
		if tr.Slope != 0 || tr.Intercept != 0 {
			t.Errorf("empty series trend %+v should be zero", tr)
		}
	}

	s.Append(GenerationStats{Generation: 0, MeanSense: 7})
	tr := s.Trends()[0]
	if tr.Intercept != 7 || tr.Slope != 0 {
		t.Errorf("single generation trend = %+v, want intercept 7 slope 0", tr)
	}
}

func TestSeriesRowsAndWinRate(t *testing.T) {
	var s Series
	s.Append(GenerationStats{Generation: 0, Winner: "humans"})
	s.Append(GenerationStats{Generation: 1, Winner: "zombies"})
	s.Append(GenerationStats{Generation: 2, Winner: "humans"})
	s.Append(GenerationStats{Generation: 3, Winner: "humans"})

	rows := s.Rows()
	rows[0].Winner = "changed"
	if s.Rows()[0].Winner != "humans" {
		t.Error("Rows should return a copy")
	}
	if got := s.HumanWinRate("humans"); got != 0.75 {
		t.Errorf("HumanWinRate = %v, want 0.75", got)
	}
	if last, ok := s.Last(); !ok || last.Generation != 3 {
		t.Errorf("Last = %+v, %v", last, ok)
	}
}
