// Package models holds the shared data types exchanged between the ingest,
// statistics, forecasting and advisory components.
package models

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Row is one record from an uploaded tabular source. Keys are column names;
// values are whatever the parser produced (string, float64, bool, nil).
// Row order across a dataset follows insertion order from the source file and
// is significant for time-series interpretation.
type Row map[string]interface{}

// Number coerces the value of col to a float64. It accepts native numbers and
// strings with either comma or dot decimal separators ("1.234,56", "1234.56"),
// stripping currency symbols and spaces. Non-finite results are rejected.
func (r Row) Number(col string) (float64, bool) {
	v, ok := r[col]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case int:
		return float64(n), true
	case string:
		return parseLocaleNumber(n)
	}
	return 0, false
}

// String returns the value of col rendered as a string, or "" when absent.
func (r Row) String(col string) string {
	v, ok := r[col]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	}
	return ""
}

// Series extracts the numeric values of col across rows, in row order.
// Unparseable or missing values are dropped, never zero-filled.
func Series(rows []Row, col string) []float64 {
	out := make([]float64, 0, len(rows))
	for _, r := range rows {
		if v, ok := r.Number(col); ok {
			out = append(out, v)
		}
	}
	return out
}

func parseLocaleNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "€", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, false
	}
	if strings.Contains(s, ",") {
		// Italian style: dots are thousands separators, comma is decimal.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
	"02-01-2006",
	"01/02/2006",
	"2006/01/02",
}

// ParseDate parses the date formats seen in uploaded business data
// (ISO first, then the common European and US orderings).
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
