// Package forecast produces fixed-horizon projections from an observed
// series using a trailing moving average and an OLS linear trend.
package forecast

import (
	"fmt"
	"strconv"
	"time"

	"datapredictor/pkg/core/stats"
	"datapredictor/pkg/models"
)

const (
	DefaultHorizon = 12
	DefaultWindow  = 5
)

// Options configures a forecast run.
type Options struct {
	Target  string
	DateCol string
	Horizon int
	Window  int
}

// Point is one projected step beyond the observed series.
//
// The moving-average component is held constant at the last observed moving
// average across the whole horizon, while the trend component is extrapolated
// linearly. The asymmetry is intentional: the flat MA is the conservative
// baseline, the trend line the directional one.
type Point struct {
	Index     int     `json:"index"`
	Date      string  `json:"date"`
	YHatMA    float64 `json:"y_hat_ma"`
	YHatTrend float64 `json:"y_hat_trend"`
}

// Result bundles the projected points with a one-line natural-language
// reading of trend direction and volatility.
type Result struct {
	Points  []Point `json:"points"`
	Insight string  `json:"insight"`
}

// Compute projects opts.Horizon steps past the series extracted from rows.
// An empty series yields an empty result, never an error.
func Compute(rows []models.Row, opts Options) Result {
	if opts.Horizon <= 0 {
		opts.Horizon = DefaultHorizon
	}
	if opts.Window <= 0 {
		opts.Window = DefaultWindow
	}

	y := models.Series(rows, opts.Target)
	if len(y) == 0 {
		return Result{Points: []Point{}}
	}

	ma := MovingAverage(y, opts.Window)
	lastMA := ma[len(ma)-1]
	a, b := stats.TrendLine(y)

	lastDate, hasDate := lastObservedDate(rows, opts.DateCol)

	n := len(y)
	points := make([]Point, 0, opts.Horizon)
	for i := 1; i <= opts.Horizon; i++ {
		idx := n + i
		date := strconv.Itoa(idx)
		if hasDate {
			date = lastDate.AddDate(0, 0, i).Format("2006-01-02")
		}
		points = append(points, Point{
			Index:     idx,
			Date:      date,
			YHatMA:    lastMA,
			YHatTrend: a + b*float64(idx),
		})
	}

	return Result{Points: points, Insight: buildInsight(y, b)}
}

// MovingAverage returns the trailing moving average of window k, clamped to
// the available history: the first points average over fewer than k values.
func MovingAverage(vals []float64, k int) []float64 {
	if k <= 1 {
		out := make([]float64, len(vals))
		copy(out, vals)
		return out
	}
	out := make([]float64, len(vals))
	sum := 0.0
	for i, v := range vals {
		sum += v
		if i >= k {
			sum -= vals[i-k]
		}
		width := i + 1
		if width > k {
			width = k
		}
		out[i] = sum / float64(width)
	}
	return out
}

// Direction labels the sign of an OLS slope: crescente, decrescente, piatta.
func Direction(slope float64) string {
	switch {
	case slope > 0:
		return "crescente"
	case slope < 0:
		return "decrescente"
	default:
		return "piatta"
	}
}

// VolatilityLabel buckets a coefficient of variation into
// bassa (<0.10), media (<0.25) or alta.
func VolatilityLabel(cv float64) string {
	switch {
	case cv < 0.10:
		return "bassa"
	case cv < 0.25:
		return "media"
	default:
		return "alta"
	}
}

func buildInsight(y []float64, slope float64) string {
	s := stats.FromSeries(y)
	return fmt.Sprintf("Trend %s (pendenza ~ %.4f). Volatilità %s (CV=%.3f).",
		Direction(slope), slope, VolatilityLabel(s.CV), s.CV)
}

func lastObservedDate(rows []models.Row, dateCol string) (time.Time, bool) {
	if dateCol == "" {
		return time.Time{}, false
	}
	// Walk backwards so trailing malformed dates do not disable projection.
	for i := len(rows) - 1; i >= 0; i-- {
		if d, parsed := models.ParseDate(rows[i].String(dateCol)); parsed {
			return d, true
		}
	}
	return time.Time{}, false
}
