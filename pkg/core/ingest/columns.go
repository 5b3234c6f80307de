package ingest

import (
	"math"
	"sort"
	"strings"

	"datapredictor/pkg/models"
)

// Column name fragments that suggest a date column, checked before value
// sampling.
var dateHints = []string{"date", "data", "giorno", "day", "week", "mese", "month", "period", "time"}

const sampleVoteShare = 0.7

// InferSchema classifies each column as "date", "number" or "string" by
// majority vote over a sample of up to 20 values.
func InferSchema(rows []models.Row) map[string]string {
	schema := map[string]string{}
	if len(rows) == 0 {
		return schema
	}
	for _, col := range columnNames(rows[0]) {
		sample := sampleValues(rows, col, 20)
		if len(sample) == 0 {
			schema[col] = "string"
			continue
		}
		dates, numbers := 0, 0
		for _, row := range sample {
			if _, ok := models.ParseDate(row.String(col)); ok {
				dates++
			}
			if _, ok := row.Number(col); ok {
				numbers++
			}
		}
		threshold := sampleVoteShare * float64(len(sample))
		switch {
		case float64(dates) >= threshold:
			schema[col] = "date"
		case float64(numbers) >= threshold:
			schema[col] = "number"
		default:
			schema[col] = "string"
		}
	}
	return schema
}

// InferColumns picks the date column (by name hints first, then value vote)
// and the analysis target (the numeric column with the highest
// variance-weighted coverage score). Either result may be empty.
func InferColumns(rows []models.Row) (dateCol, target string) {
	if len(rows) == 0 {
		return "", ""
	}
	cols := columnNames(rows[0])

	for _, col := range cols {
		lower := strings.ToLower(col)
		for _, hint := range dateHints {
			if strings.Contains(lower, hint) {
				dateCol = col
				break
			}
		}
		if dateCol != "" {
			break
		}
	}
	if dateCol == "" {
		for _, col := range cols {
			sample := sampleValues(rows, col, 30)
			if len(sample) == 0 {
				continue
			}
			dates := 0
			for _, row := range sample {
				if _, ok := models.ParseDate(row.String(col)); ok {
					dates++
				}
			}
			if float64(dates) >= sampleVoteShare*float64(len(sample)) {
				dateCol = col
				break
			}
		}
	}

	minCount := len(rows) * 3 / 10
	if minCount > 10 {
		minCount = 10
	}
	bestScore := 0.0
	for _, col := range cols {
		if col == dateCol {
			continue
		}
		vals := models.Series(rows, col)
		if len(vals) < minCount || len(vals) == 0 {
			continue
		}
		mean := 0.0
		for _, v := range vals {
			mean += v
		}
		mean /= float64(len(vals))
		varSum := 0.0
		for _, v := range vals {
			d := v - mean
			varSum += d * d
		}
		std := math.Sqrt(varSum / float64(len(vals)))
		// Prefer higher variance but penalize sparse columns.
		score := std * float64(len(vals)) / float64(len(rows))
		if target == "" || score > bestScore {
			bestScore = score
			target = col
		}
	}

	return dateCol, target
}

// columnNames returns the row's keys sorted for deterministic iteration.
func columnNames(row models.Row) []string {
	cols := make([]string, 0, len(row))
	for c := range row {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

func sampleValues(rows []models.Row, col string, n int) []models.Row {
	out := make([]models.Row, 0, n)
	for _, row := range rows {
		if len(out) == n {
			break
		}
		v, ok := row[col]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			continue
		}
		out = append(out, row)
	}
	return out
}
