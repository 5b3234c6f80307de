package advice

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"datapredictor/pkg/core/advisor"
	"datapredictor/pkg/core/agent"
	"datapredictor/pkg/core/forecast"
	"datapredictor/pkg/core/ingest"
	"datapredictor/pkg/core/normalize"
	"datapredictor/pkg/core/pipeline"
	"datapredictor/pkg/core/stats"
	"datapredictor/pkg/core/store"
	"datapredictor/pkg/core/utils"
	"datapredictor/pkg/models"
)

var agentManager *agent.Manager
var advisoryRepo store.AdvisoryRepository

// InitHandler wires the shared agent manager and (optionally) a repository
// for persisted runs. repo may be nil when no database is configured.
func InitHandler(mgr *agent.Manager, repo store.AdvisoryRepository) {
	agentManager = mgr
	advisoryRepo = repo
}

type AdviceRequest struct {
	Rows    []models.Row `json:"rows"`
	Target  string       `json:"target"`
	DateCol string       `json:"dateCol"`
	Domain  string       `json:"domain"`
	Horizon int          `json:"horizon"`
	Save    bool         `json:"save"`
}

type AdviceResponse struct {
	OK         bool                   `json:"ok"`
	Advisory   models.Advisory        `json:"advisory"`
	Advisor    advisor.Advisory       `json:"advisor"`
	Statistics stats.Statistics       `json:"statistics"`
	Forecast   forecast.Result        `json:"forecast"`
	ID         string                 `json:"id,omitempty"`
	Meta       map[string]interface{} `json:"meta"`
}

// HandleAdvice runs the full advisory flow: rule-based baseline, agent
// pipeline, merge, optional persistence.
func HandleAdvice(w http.ResponseWriter, r *http.Request) {
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

	var req AdviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Rows) == 0 {
		http.Error(w, "rows is required and must be non-empty", http.StatusBadRequest)
		return
	}
	if req.Target == "" || req.DateCol == "" {
		dateCol, target := ingest.InferColumns(req.Rows)
		if req.Target == "" {
			req.Target = target
		}
		if req.DateCol == "" {
			req.DateCol = dateCol
		}
	}
	if req.Target == "" {
		http.Error(w, "target is required (no numeric column could be inferred)", http.StatusBadRequest)
		return
	}

	fmt.Printf("[ADVICE] Request: target=%s dateCol=%s domain=%s rows=%d\n",
		req.Target, req.DateCol, req.Domain, len(req.Rows))

	baseline := advisor.Advise(req.Rows, req.Target, req.DateCol)

	pc := pipeline.NewContext(req.Rows, req.Target, req.DateCol, req.Domain)
	pc.BaseRisk = baseline.Risk

	ctx, cancel := context.WithTimeout(r.Context(), 180*time.Second)
	defer cancel()

	orch := pipeline.New(agentManager)
	orch.Run(ctx, pc)

	merged := normalize.Merge(baseline.Canonical(), pc.Advisory())

	fcOpts := forecast.Options{Target: req.Target, DateCol: req.DateCol, Horizon: req.Horizon}
	fc := forecast.Compute(req.Rows, fcOpts)

	resp := AdviceResponse{
		OK:         true,
		Advisory:   merged,
		Advisor:    baseline,
		Statistics: pc.KPI,
		Forecast:   fc,
		Meta: map[string]interface{}{
			"target":       req.Target,
			"dateCol":      req.DateCol,
			"domain":       pc.Domain,
			"provider":     agentManager.ActiveProvider(),
			"acceptable":   merged.Acceptable,
			"retryApplied": merged.RetryApplied,
		},
	}

	if req.Save && advisoryRepo != nil && store.Ready() {
		rec := &store.AdvisoryRecord{
			Target:   req.Target,
			DateCol:  req.DateCol,
			Domain:   pc.Domain,
			Advisory: merged,
		}
		if err := advisoryRepo.Save(ctx, rec); err != nil {
			fmt.Printf("[WARNING] Failed to persist advisory: %v\n", err)
		} else {
			resp.ID = rec.ID.String()
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleReport serves a stored advisory's narrative rendered as HTML.
// GET /api/advice/report?id=<uuid>
func HandleReport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if advisoryRepo == nil || !store.Ready() {
		http.Error(w, "storage not configured", http.StatusServiceUnavailable)
		return
	}

	id, err := uuid.Parse(strings.TrimSpace(r.URL.Query().Get("id")))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	rec, err := advisoryRepo.Load(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	html, err := utils.RenderHTML(rec.Advisory.Narrative)
	if err != nil {
		http.Error(w, fmt.Sprintf("render failed: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>Report %s</title></head><body>%s</body></html>", rec.Target, html)
}

// HandleHistory lists recent stored runs. GET /api/advice/history?limit=N
func HandleHistory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if advisoryRepo == nil || !store.Ready() {
		http.Error(w, "storage not configured", http.StatusServiceUnavailable)
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		fmt.Sscanf(raw, "%d", &limit)
	}

	recs, err := advisoryRepo.List(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"ok": true, "items": recs})
}
