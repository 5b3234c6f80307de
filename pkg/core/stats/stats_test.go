package stats

import (
	"math"
	"testing"

	"datapredictor/pkg/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestFromSeriesBasics(t *testing.T) {
	s := FromSeries([]float64{10, 20, 30, 40})

	if s.Count != 4 {
		t.Errorf("Count = %d, want 4", s.Count)
	}
	if !almostEqual(s.Mean, 25) {
		t.Errorf("Mean = %f, want 25", s.Mean)
	}
	if !almostEqual(s.Min, 10) || !almostEqual(s.Max, 40) {
		t.Errorf("Min/Max = %f/%f, want 10/40", s.Min, s.Max)
	}
	if s.Min > s.Mean || s.Mean > s.Max {
		t.Errorf("expected min <= mean <= max, got %f <= %f <= %f", s.Min, s.Mean, s.Max)
	}
	// Perfectly linear: slope must be the step size.
	if !almostEqual(s.TrendSlope, 10) {
		t.Errorf("TrendSlope = %f, want 10", s.TrendSlope)
	}
	// Last value 40 sits 15 above the mean of 25: (40-25)/25*100 = 60.
	if !almostEqual(s.GrowthPct, 60) {
		t.Errorf("GrowthPct = %f, want 60", s.GrowthPct)
	}
}

func TestFromSeriesEmpty(t *testing.T) {
	s := FromSeries(nil)
	if s.Count != 0 || s.Mean != 0 || s.CV != 0 || s.TrendSlope != 0 {
		t.Errorf("empty series should yield zero record, got %+v", s)
	}
}

func TestFromSeriesZeroMean(t *testing.T) {
	// Mean is exactly 0: the divisor falls back to 1, so cv == std.
	s := FromSeries([]float64{-5, 5})
	if s.Mean != 0 {
		t.Fatalf("Mean = %f, want 0", s.Mean)
	}
	if !almostEqual(s.CV, s.Std) {
		t.Errorf("CV = %f, want std %f when mean is 0", s.CV, s.Std)
	}
	// GrowthPct keeps the same divisor: (5-0)/1*100 = 500.
	if !almostEqual(s.GrowthPct, 500) {
		t.Errorf("GrowthPct = %f, want 500", s.GrowthPct)
	}
}

func TestSlopeDegenerate(t *testing.T) {
	if got := Slope(nil); got != 0 {
		t.Errorf("Slope(nil) = %f, want 0", got)
	}
	if got := Slope([]float64{42}); got != 0 {
		t.Errorf("Slope(single) = %f, want 0", got)
	}
	if got := Slope([]float64{7, 7, 7, 7}); !almostEqual(got, 0) {
		t.Errorf("Slope(constant) = %f, want 0", got)
	}
}

func TestTrendLineSinglePoint(t *testing.T) {
	a, b := TrendLine([]float64{42})
	if !almostEqual(a, 42) || b != 0 {
		t.Errorf("TrendLine(single) = (%f, %f), want (42, 0)", a, b)
	}
}

func TestSummarizeLocaleValues(t *testing.T) {
	rows := []models.Row{
		{"ricavi": "1.200,50"},
		{"ricavi": "€ 1.300,00"},
		{"ricavi": "n/d"}, // dropped
		{"ricavi": 1100.0},
	}
	s := Summarize(rows, "ricavi")
	if s.Count != 3 {
		t.Fatalf("Count = %d, want 3 (non-numeric dropped)", s.Count)
	}
	if !almostEqual(s.Min, 1100) || !almostEqual(s.Max, 1300) {
		t.Errorf("Min/Max = %f/%f, want 1100/1300", s.Min, s.Max)
	}
}
