// Package advisor implements the deterministic rule-based advisor. It maps
// statistics and forecast into a health/risk score and horizon-bucketed
// actions without any network dependency, so it stays available as the
// degraded-mode substitute when the agent pipeline cannot run, and it forms
// the base half of the unified advisory merge.
package advisor

import (
	"fmt"

	"datapredictor/pkg/core/forecast"
	"datapredictor/pkg/core/stats"
	"datapredictor/pkg/models"
)

// Health classifications, best to worst.
const (
	HealthExcellent = "excellent"
	HealthGood      = "good"
	HealthWatch     = "watch"
	HealthCritical  = "critical"
)

// Slope values inside ±trendDeadZone are classified as flat.
const trendDeadZone = 0.0001

// Advisory is the rule-based advisor's native output. Canonical() converts
// it to the shared models.Advisory shape for merging.
type Advisory struct {
	Summary         string                `json:"summary"`
	TrendLabel      string                `json:"trendLabel"`
	Slope           float64               `json:"slope"`
	GrowthPct       float64               `json:"growthPct"`
	VolatilityLabel string                `json:"volatility"`
	CV              float64               `json:"cv"`
	Health          string                `json:"health"`
	Risk            int                   `json:"risk"`
	HorizonActions  models.HorizonActions `json:"horizonActions"`
	ForecastInsight string                `json:"forecastInsight"`
	ForecastSample  []forecast.Point      `json:"forecastSample"`
}

// Advise interprets rows deterministically. It never fails: degenerate input
// yields a conservative watch/50 advisory.
func Advise(rows []models.Row, target, dateCol string) Advisory {
	if len(rows) == 0 || target == "" {
		return defaultAdvisory()
	}

	s := stats.Summarize(rows, target)
	if s.Count == 0 {
		return defaultAdvisory()
	}
	fc := forecast.Compute(rows, forecast.Options{Target: target, DateCol: dateCol})

	trendLabel := classifyTrend(s.TrendSlope)
	health, risk := classify(trendLabel, s.CV, s.GrowthPct)
	actions := suggestActions(trendLabel, s.CV, s.GrowthPct)

	sample := fc.Points
	if len(sample) > 6 {
		sample = sample[:6]
	}

	return Advisory{
		Summary:         buildSummary(trendLabel, s, health, risk),
		TrendLabel:      trendLabel,
		Slope:           s.TrendSlope,
		GrowthPct:       s.GrowthPct,
		VolatilityLabel: forecast.VolatilityLabel(s.CV),
		CV:              s.CV,
		Health:          health,
		Risk:            risk,
		HorizonActions:  actions,
		ForecastInsight: fc.Insight,
		ForecastSample:  sample,
	}
}

// Canonical converts the rule-based advisory to the shared Advisory shape.
// Health doubles as tone; the narrative slot stays empty for the merger.
func (a Advisory) Canonical() models.Advisory {
	return models.Advisory{
		Summary:        a.Summary,
		Tone:           models.StrPtr(a.Health),
		Risk:           models.FloatPtr(float64(a.Risk)),
		HorizonActions: a.HorizonActions,
		Risks:          []string{},
	}
}

func defaultAdvisory() Advisory {
	return Advisory{
		Summary:         "Dati insufficienti per un'analisi affidabile.",
		TrendLabel:      "sconosciuto",
		VolatilityLabel: "sconosciuta",
		Health:          HealthWatch,
		Risk:            50,
		HorizonActions:  models.HorizonActions{Short: []string{}, Medium: []string{}, Long: []string{}},
	}
}

func classifyTrend(slope float64) string {
	switch {
	case slope > trendDeadZone:
		return "crescente"
	case slope < -trendDeadZone:
		return "decrescente"
	default:
		return "piatto"
	}
}

// classify derives health and risk (0-100) from the fixed decision table
// over trend label, coefficient of variation and deviation-from-mean.
func classify(trendLabel string, cv, growthPct float64) (string, int) {
	switch {
	case trendLabel == "crescente" && cv < 0.15 && growthPct > 3:
		return HealthExcellent, 20
	case trendLabel == "crescente" && cv <= 0.30:
		return HealthGood, 35
	case trendLabel == "piatto" && cv <= 0.25:
		return HealthWatch, 55
	case trendLabel == "decrescente" && cv > 0.20:
		return HealthCritical, 75
	default:
		return HealthWatch, 60
	}
}

func suggestActions(trendLabel string, cv, growthPct float64) models.HorizonActions {
	var short, medium, long []string

	switch trendLabel {
	case "crescente":
		short = append(short,
			"Aumenta leggermente la spesa sul canale top performer (A/B test 10-20%).",
			"Proteggi margine: rivedi sconti e promo con soglia minima.")
		medium = append(medium,
			"Amplia la capacità (stock/servizio) per evitare colli di bottiglia.",
			"Espandi 1 nuovo canale con ROI atteso > 1.5x rispetto attuale.")
		long = append(long,
			"Diversifica l'offerta: nuova linea o prodotto complementare.")
	case "piatto":
		short = append(short,
			"Micro-ottimizzazioni CRO (landing, checkout) per +2-5% conversione.",
			"Ribilancia il budget verso campagne con CPA più basso.")
		medium = append(medium,
			"Sperimenta una promo \"back-in-motion\" per stimolare domanda.",
			"Analizza segmenti poco penetrati e crea offerte mirate.")
		long = append(long,
			"Ricerca di mercato per differenziazione di prodotto e pricing.")
	default: // decrescente
		short = append(short,
			"Stop o pausa delle campagne con ROI < 1.0; ridistribuisci budget.",
			"Sonda cause: churn, prezzo, qualità lead, saturazione canale.")
		medium = append(medium,
			"Piano di recupero: bundle, upsell, retention program.",
			"Riposizionamento messaggi: enfatizza value proposition.")
		long = append(long,
			"Ripensamento go-to-market: nuovi canali e partnership strategiche.",
			"Roadmap prodotto: feature \"must-have\" secondo feedback clienti.")
	}

	if cv >= 0.25 {
		short = append(short, "Stabilizza la domanda: calendario promo meno a picchi e più continuo.")
		medium = append(medium, "Riduci variabilità: forecast rolling e riordini più frequenti.")
		long = append(long, "Automazioni data-driven per inventory e pianificazione (MRP leggero).")
	} else if cv < 0.10 && trendLabel == "crescente" {
		short = append(short, "Spingi sulla scalabilità: incremento graduale del 10-15% del budget best performer.")
	}

	if growthPct > 8 && trendLabel == "crescente" {
		medium = append(medium, "Fissa un target di crescita trimestrale e KPI settimanali di progresso.")
	} else if growthPct < -3 {
		short = append(short, "Allerta: stabilisci una review weekly per diagnosticare cause (prezzi, concorrenza, prodotto).")
	}

	return models.HorizonActions{Short: short, Medium: medium, Long: long}
}

// buildSummary composes the four-sentence summary: trend, volatility,
// deviation-from-mean, overall health with risk score.
func buildSummary(trendLabel string, s stats.Statistics, health string, risk int) string {
	return fmt.Sprintf("Trend %s (pendenza ~ %.4f). Volatilità %s (CV=%.3f). Scostamento ultimo vs media: %.2f%%. Stato complessivo: %s — rischio %d/100.",
		trendLabel, s.TrendSlope, forecast.VolatilityLabel(s.CV), s.CV, s.GrowthPct, health, risk)
}
