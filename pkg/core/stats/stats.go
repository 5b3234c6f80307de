// Package stats computes descriptive statistics over one numeric column of an
// uploaded dataset. It is the first step of the advisory pipeline and must
// never fail: malformed values are dropped at the boundary and an empty
// series yields a zero-valued record.
package stats

import (
	"math"

	"datapredictor/pkg/models"
)

// Statistics summarizes a numeric series.
//
// GrowthPct measures how far the most recent observation sits from the
// historical mean ((last-mean)/mean*100), not period-over-period growth.
// The name is preserved from the original product; do not reinterpret it.
type Statistics struct {
	Count      int     `json:"count"`
	Mean       float64 `json:"mean"`
	Std        float64 `json:"std"`
	CV         float64 `json:"cv"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	TrendSlope float64 `json:"trendSlope"`
	GrowthPct  float64 `json:"growthPct"`
}

// Summarize computes Statistics for the target column of rows.
// Values that cannot be coerced to a finite number are excluded entirely.
func Summarize(rows []models.Row, target string) Statistics {
	return FromSeries(models.Series(rows, target))
}

// FromSeries computes Statistics over an already-extracted series.
func FromSeries(vals []float64) Statistics {
	if len(vals) == 0 {
		return Statistics{}
	}

	n := len(vals)
	min, max := vals[0], vals[0]
	sum := 0.0
	for _, v := range vals {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}
	mean := sum / float64(n)

	varSum := 0.0
	for _, v := range vals {
		d := v - mean
		varSum += d * d
	}
	std := math.Sqrt(varSum / float64(n))

	// Divisor falls back to 1 when the mean is exactly 0. This avoids a
	// division by zero at the cost of reporting std as cv; the quirk is
	// load-bearing for downstream thresholds and is kept as-is.
	div := mean
	if div == 0 {
		div = 1
	}
	cv := std / div
	growthPct := (vals[n-1] - mean) / div * 100

	return Statistics{
		Count:      n,
		Mean:       mean,
		Std:        std,
		CV:         cv,
		Min:        min,
		Max:        max,
		TrendSlope: Slope(vals),
		GrowthPct:  growthPct,
	}
}

// Slope returns the ordinary-least-squares slope of vals against the
// sequential index 1..n. Returns 0 for fewer than two points or a zero
// denominator (all indexes equal cannot happen, but constant x guards stay).
func Slope(vals []float64) float64 {
	_, b := TrendLine(vals)
	return b
}

// TrendLine fits y = a + b*x over vals with x = 1..n. With fewer than two
// points the slope is 0 and the intercept degrades to the series mean.
func TrendLine(vals []float64) (a, b float64) {
	n := len(vals)
	if n == 0 {
		return 0, 0
	}
	meanX := float64(n+1) / 2
	sumY := 0.0
	for _, v := range vals {
		sumY += v
	}
	meanY := sumY / float64(n)
	if n < 2 {
		return meanY, 0
	}

	num, den := 0.0, 0.0
	for i, v := range vals {
		dx := float64(i+1) - meanX
		num += dx * (v - meanY)
		den += dx * dx
	}
	if den == 0 {
		return meanY, 0
	}
	b = num / den
	a = meanY - b*meanX
	return a, b
}
