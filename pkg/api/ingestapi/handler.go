package ingestapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"datapredictor/pkg/core/ingest"
	"datapredictor/pkg/models"
)

type SheetsRequest struct {
	URL string `json:"url"`
}

type IngestResponse struct {
	OK      bool              `json:"ok"`
	Rows    []models.Row      `json:"rows"`
	Columns []string          `json:"columns"`
	Schema  map[string]string `json:"schema"`
	Target  string            `json:"target"`
	DateCol string            `json:"dateCol"`
}

// HandleSheets fetches a public Google Sheet (or any public CSV URL) and
// returns parsed rows plus inferred column roles.
func HandleSheets(w http.ResponseWriter, r *http.Request) {
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

	var req SheetsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		http.Error(w, "url is required", http.StatusBadRequest)
		return
	}

	fmt.Printf("[INGEST] Fetching sheet: %s\n", req.URL)
	rows, cols, err := ingest.FetchPublicCSV(r.Context(), req.URL)
	if err != nil {
		http.Error(w, fmt.Sprintf("Fetch failed: %v", err), http.StatusBadGateway)
		return
	}

	respond(w, rows, cols)
}

// HandleCSV parses a CSV body uploaded directly (Content-Type text/csv or
// multipart form field "file").
func HandleCSV(w http.ResponseWriter, r *http.Request) {
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

	body := r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file field is required", http.StatusBadRequest)
			return
		}
		defer file.Close()
		body = file
	}

	rows, cols, err := ingest.ParseCSV(body)
	if err != nil {
		http.Error(w, fmt.Sprintf("Parse failed: %v", err), http.StatusBadRequest)
		return
	}

	respond(w, rows, cols)
}

func respond(w http.ResponseWriter, rows []models.Row, cols []string) {
	dateCol, target := ingest.InferColumns(rows)
	resp := IngestResponse{
		OK:      true,
		Rows:    rows,
		Columns: cols,
		Schema:  ingest.InferSchema(rows),
		Target:  target,
		DateCol: dateCol,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
