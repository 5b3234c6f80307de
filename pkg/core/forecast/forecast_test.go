package forecast

import (
	"math"
	"testing"

	"datapredictor/pkg/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func linearRows(n int) []models.Row {
	rows := make([]models.Row, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, models.Row{"vendite": float64(100 + 10*i)})
	}
	return rows
}

func TestComputeLinearSeries(t *testing.T) {
	// y = 100, 110, ..., 190 over 10 points: slope 10, intercept 90.
	res := Compute(linearRows(10), Options{Target: "vendite", Horizon: 3})

	if len(res.Points) != 3 {
		t.Fatalf("got %d points, want 3", len(res.Points))
	}

	// MA(5) over the last window (150..190) = 170, held flat.
	for _, p := range res.Points {
		if !almostEqual(p.YHatMA, 170) {
			t.Errorf("point %d: YHatMA = %f, want flat 170", p.Index, p.YHatMA)
		}
	}

	// Trend extrapolates: index 11 -> 90 + 10*11 = 200.
	if !almostEqual(res.Points[0].YHatTrend, 200) {
		t.Errorf("YHatTrend[0] = %f, want 200", res.Points[0].YHatTrend)
	}
	if !almostEqual(res.Points[2].YHatTrend, 220) {
		t.Errorf("YHatTrend[2] = %f, want 220", res.Points[2].YHatTrend)
	}
	if res.Points[0].Index != 11 {
		t.Errorf("Index = %d, want 11", res.Points[0].Index)
	}
	// No date column: labels fall back to the index.
	if res.Points[0].Date != "11" {
		t.Errorf("Date = %q, want \"11\"", res.Points[0].Date)
	}
}

func TestComputeDates(t *testing.T) {
	rows := []models.Row{
		{"data": "2024-01-01", "vendite": 100.0},
		{"data": "2024-01-02", "vendite": 110.0},
		{"data": "2024-01-03", "vendite": 120.0},
	}
	res := Compute(rows, Options{Target: "vendite", DateCol: "data", Horizon: 2})
	if res.Points[0].Date != "2024-01-04" {
		t.Errorf("Date[0] = %q, want 2024-01-04", res.Points[0].Date)
	}
	if res.Points[1].Date != "2024-01-05" {
		t.Errorf("Date[1] = %q, want 2024-01-05", res.Points[1].Date)
	}
}

func TestComputeTrailingBadDate(t *testing.T) {
	// The last row has a malformed date; projection anchors on the last
	// parseable one.
	rows := []models.Row{
		{"data": "2024-03-10", "vendite": 100.0},
		{"data": "???", "vendite": 110.0},
	}
	res := Compute(rows, Options{Target: "vendite", DateCol: "data", Horizon: 1})
	if res.Points[0].Date != "2024-03-11" {
		t.Errorf("Date = %q, want 2024-03-11", res.Points[0].Date)
	}
}

func TestComputeEmpty(t *testing.T) {
	res := Compute(nil, Options{Target: "vendite"})
	if res.Points == nil || len(res.Points) != 0 {
		t.Errorf("empty input should give empty non-nil points, got %v", res.Points)
	}
}

func TestMovingAverageClampedWindow(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 3)
	want := []float64{2, 3, 4, 6}
	for i := range want {
		if !almostEqual(got[i], want[i]) {
			t.Errorf("ma[%d] = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestDirection(t *testing.T) {
	if Direction(0.5) != "crescente" {
		t.Error("positive slope should be crescente")
	}
	if Direction(-0.5) != "decrescente" {
		t.Error("negative slope should be decrescente")
	}
	if Direction(0) != "piatta" {
		t.Error("zero slope should be piatta")
	}
}

func TestVolatilityLabel(t *testing.T) {
	cases := []struct {
		cv   float64
		want string
	}{
		{0.05, "bassa"},
		{0.10, "media"},
		{0.24, "media"},
		{0.25, "alta"},
		{1.5, "alta"},
	}
	for _, c := range cases {
		if got := VolatilityLabel(c.cv); got != c.want {
			t.Errorf("VolatilityLabel(%f) = %q, want %q", c.cv, got, c.want)
		}
	}
}
