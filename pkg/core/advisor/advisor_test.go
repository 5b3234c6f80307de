package advisor

import (
	"strings"
	"testing"

	"datapredictor/pkg/models"
)

func rowsFrom(vals ...float64) []models.Row {
	rows := make([]models.Row, 0, len(vals))
	for _, v := range vals {
		rows = append(rows, models.Row{"vendite": v})
	}
	return rows
}

func TestAdviseGrowingStable(t *testing.T) {
	// Gentle steady growth on a high base: low CV, positive slope,
	// last value > 3% above the mean.
	rows := rowsFrom(1000, 1010, 1020, 1030, 1040, 1050, 1060, 1070, 1080, 1090)
	adv := Advise(rows, "vendite", "")

	if adv.TrendLabel != "crescente" {
		t.Errorf("TrendLabel = %q, want crescente", adv.TrendLabel)
	}
	if adv.Health != HealthExcellent || adv.Risk != 20 {
		t.Errorf("Health/Risk = %s/%d, want excellent/20", adv.Health, adv.Risk)
	}
	if adv.VolatilityLabel != "bassa" {
		t.Errorf("VolatilityLabel = %q, want bassa", adv.VolatilityLabel)
	}
	if len(adv.HorizonActions.Short) == 0 || len(adv.HorizonActions.Medium) == 0 || len(adv.HorizonActions.Long) == 0 {
		t.Error("every horizon bucket should have at least one action")
	}
	// Low-volatility growth gets the scale-up suggestion.
	found := false
	for _, a := range adv.HorizonActions.Short {
		if strings.Contains(a, "scalabilità") {
			found = true
		}
	}
	if !found {
		t.Error("expected the scalability action for low-CV growth")
	}
}

func TestAdviseDecliningVolatile(t *testing.T) {
	rows := rowsFrom(200, 150, 180, 100, 120, 60)
	adv := Advise(rows, "vendite", "")

	if adv.TrendLabel != "decrescente" {
		t.Errorf("TrendLabel = %q, want decrescente", adv.TrendLabel)
	}
	if adv.Health != HealthCritical || adv.Risk != 75 {
		t.Errorf("Health/Risk = %s/%d, want critical/75", adv.Health, adv.Risk)
	}
	// High CV adds the demand-stabilization actions to each bucket.
	foundStabilize := false
	for _, a := range adv.HorizonActions.Short {
		if strings.Contains(a, "Stabilizza la domanda") {
			foundStabilize = true
		}
	}
	if !foundStabilize {
		t.Error("expected the stabilization action when cv >= 0.25")
	}
}

func TestAdviseRisingDailySeries(t *testing.T) {
	// Ten monotonically increasing daily values, no date column.
	rows := rowsFrom(100, 110, 120, 130, 140, 150, 160, 170, 180, 190)
	adv := Advise(rows, "vendite", "")

	if adv.TrendLabel != "crescente" {
		t.Errorf("TrendLabel = %q, want crescente", adv.TrendLabel)
	}
	if adv.Risk >= 40 {
		t.Errorf("Risk = %d, want < 40 for steady growth", adv.Risk)
	}
	hasDigit := false
	for _, a := range adv.HorizonActions.Short {
		if strings.ContainsAny(a, "0123456789") {
			hasDigit = true
		}
	}
	if !hasDigit {
		t.Error("at least one short-term action should carry a number")
	}
}

func TestAdviseFlat(t *testing.T) {
	rows := rowsFrom(50, 50, 50, 50, 50, 50, 50, 50, 50, 50)
	adv := Advise(rows, "vendite", "")

	if adv.TrendLabel != "piatto" {
		t.Errorf("TrendLabel = %q, want piatto", adv.TrendLabel)
	}
	if adv.CV != 0 {
		t.Errorf("CV = %f, want 0 for a constant series", adv.CV)
	}
	if adv.Slope != 0 {
		t.Errorf("Slope = %f, want 0 for a constant series", adv.Slope)
	}
	if adv.VolatilityLabel != "bassa" {
		t.Errorf("VolatilityLabel = %q, want bassa", adv.VolatilityLabel)
	}
	if adv.Health != HealthWatch || adv.Risk != 55 {
		t.Errorf("Health/Risk = %s/%d, want watch/55", adv.Health, adv.Risk)
	}
}

func TestAdviseNearZeroSlopeIsFlat(t *testing.T) {
	// A slope inside the dead zone must not count as a trend.
	if got := classifyTrend(0.00005); got != "piatto" {
		t.Errorf("classifyTrend(0.00005) = %q, want piatto", got)
	}
	if got := classifyTrend(-0.00005); got != "piatto" {
		t.Errorf("classifyTrend(-0.00005) = %q, want piatto", got)
	}
	if got := classifyTrend(0.001); got != "crescente" {
		t.Errorf("classifyTrend(0.001) = %q, want crescente", got)
	}
}

func TestAdviseEmptyInput(t *testing.T) {
	for _, rows := range [][]models.Row{nil, {}, {{"altro": 1.0}}} {
		adv := Advise(rows, "vendite", "")
		if adv.Health != HealthWatch || adv.Risk != 50 {
			t.Errorf("degenerate input should yield watch/50, got %s/%d", adv.Health, adv.Risk)
		}
	}
	// Missing target behaves the same.
	adv := Advise(rowsFrom(1, 2, 3), "", "")
	if adv.Health != HealthWatch || adv.Risk != 50 {
		t.Errorf("missing target should yield watch/50, got %s/%d", adv.Health, adv.Risk)
	}
}

func TestCanonical(t *testing.T) {
	adv := Advise(rowsFrom(100, 110, 120), "vendite", "")
	c := adv.Canonical()

	if c.Tone == nil || *c.Tone != adv.Health {
		t.Errorf("Tone should carry health %q", adv.Health)
	}
	if c.Risk == nil || *c.Risk != float64(adv.Risk) {
		t.Errorf("Risk should carry %d", adv.Risk)
	}
	if c.Risks == nil {
		t.Error("Risks must be non-nil for the merger")
	}
	if c.Narrative != "" {
		t.Error("Canonical leaves the narrative slot empty")
	}
}

func TestClassifyTable(t *testing.T) {
	cases := []struct {
		trend      string
		cv, growth float64
		health     string
		risk       int
	}{
		{"crescente", 0.10, 5, HealthExcellent, 20},
		{"crescente", 0.20, 5, HealthGood, 35},
		{"crescente", 0.10, 2, HealthGood, 35},
		{"piatto", 0.20, 0, HealthWatch, 55},
		{"piatto", 0.30, 0, HealthWatch, 60},
		{"decrescente", 0.25, -5, HealthCritical, 75},
		{"decrescente", 0.10, -5, HealthWatch, 60},
	}
	for _, c := range cases {
		h, r := classify(c.trend, c.cv, c.growth)
		if h != c.health || r != c.risk {
			t.Errorf("classify(%s, %.2f, %.1f) = %s/%d, want %s/%d",
				c.trend, c.cv, c.growth, h, r, c.health, c.risk)
		}
	}
}
