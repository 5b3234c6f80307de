package analyze

import (
	"encoding/json"
	"fmt"
	"net/http"

	"datapredictor/pkg/core/advisor"
	"datapredictor/pkg/core/forecast"
	"datapredictor/pkg/core/ingest"
	"datapredictor/pkg/core/stats"
	"datapredictor/pkg/models"
)

// AnalyzeRequest accepts both the current field names and the legacy aliases
// older clients still send (data/metric/column/date/time).
type AnalyzeRequest struct {
	Rows    []models.Row `json:"rows"`
	Data    []models.Row `json:"data"`
	Target  string       `json:"target"`
	Metric  string       `json:"metric"`
	Column  string       `json:"column"`
	DateCol string       `json:"dateCol"`
	Date    string       `json:"date"`
	Time    string       `json:"time"`
	Horizon int          `json:"horizon"`
}

func (r *AnalyzeRequest) normalize() ([]models.Row, string, string) {
	rows := r.Rows
	if len(rows) == 0 {
		rows = r.Data
	}
	target := first(r.Target, r.Metric, r.Column)
	dateCol := first(r.DateCol, r.Date, r.Time)
	return rows, target, dateCol
}

func first(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// HandleAnalyze runs the deterministic analysis only (no LLM pipeline). Kept
// for clients of the pre-agent API.
func HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	// CORS
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rows, target, dateCol := req.normalize()
	if len(rows) == 0 {
		http.Error(w, "data is required", http.StatusBadRequest)
		return
	}
	if target == "" || dateCol == "" {
		inferredDate, inferredTarget := ingest.InferColumns(rows)
		if target == "" {
			target = inferredTarget
		}
		if dateCol == "" {
			dateCol = inferredDate
		}
	}
	if target == "" {
		http.Error(w, "metric column is required", http.StatusBadRequest)
		return
	}

	fmt.Printf("[ANALYZE] Compat request: target=%s dateCol=%s rows=%d\n", target, dateCol, len(rows))

	adv := advisor.Advise(rows, target, dateCol)
	s := stats.Summarize(rows, target)
	fc := forecast.Compute(rows, forecast.Options{Target: target, DateCol: dateCol, Horizon: req.Horizon})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"ok":         true,
		"advisor":    adv,
		"statistics": s,
		"forecast":   fc,
		"meta": map[string]interface{}{
			"source":  "compat-analyze",
			"target":  target,
			"dateCol": dateCol,
			"rows":    len(rows),
		},
	})
}
