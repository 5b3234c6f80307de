package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"datapredictor/pkg/api/advice"
	"datapredictor/pkg/api/analyze"
	"datapredictor/pkg/api/config"
	"datapredictor/pkg/api/ingestapi"
	"datapredictor/pkg/core/agent"
	"datapredictor/pkg/core/prompt"
	"datapredictor/pkg/core/store"
)

var agentMgr *agent.Manager

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize Prompt Library
	// Determine resources path (relative to executable or working directory)
	resourcesPath := "resources"
	if _, err := os.Stat(resourcesPath); os.IsNotExist(err) {
		// Try from executable directory
		exePath, _ := os.Executable()
		resourcesPath = filepath.Join(filepath.Dir(exePath), "resources")
	}
	if err := prompt.LoadFromDirectory(resourcesPath); err != nil {
		fmt.Printf("[WARNING] Failed to load prompt library: %v\n", err)
		fmt.Println("  Falling back to built-in prompts")
	} else {
		fmt.Printf("[PROMPT] Loaded %d prompts from %s\n", prompt.Get().Count(), resourcesPath)
	}

	// Initialize manager from config
	configData, _ := os.ReadFile("config/models.yaml")
	var agentCfg agent.Config
	yaml.Unmarshal(configData, &agentCfg)
	agentMgr = agent.NewManager(agentCfg)

	// Storage is optional: the advisory flow degrades to stateless mode
	// when DATABASE_URL is absent or unreachable.
	var repo store.AdvisoryRepository
	if err := store.InitDB(context.Background()); err != nil {
		fmt.Printf("[WARNING] Database unavailable, persistence disabled: %v\n", err)
	} else {
		repo = store.NewAdvisoryRepo()
		fmt.Println("[STORE] Database connected.")
	}

	// Config endpoints
	configHandler := config.NewHandler(agentMgr)
	http.HandleFunc("/api/config", configHandler.HandleConfig)
	http.HandleFunc("/api/config/switch", configHandler.HandleSwitch)

	// Advisory endpoints
	advice.InitHandler(agentMgr, repo)
	http.HandleFunc("/api/advice", advice.HandleAdvice)
	http.HandleFunc("/api/advice/report", advice.HandleReport)
	http.HandleFunc("/api/advice/history", advice.HandleHistory)

	// Legacy deterministic analysis
	http.HandleFunc("/api/analyze", analyze.HandleAnalyze)

	// Ingest endpoints
	http.HandleFunc("/api/ingest/sheets", ingestapi.HandleSheets)
	http.HandleFunc("/api/ingest/csv", ingestapi.HandleCSV)

	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"ok":true,"provider":%q,"db":%t}`, agentMgr.ActiveProvider(), store.Ready())
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Printf("API server starting on :%s...\n", port)
	fmt.Println("  - GET  /api/config")
	fmt.Println("  - POST /api/config/switch")
	fmt.Println("  - POST /api/advice  (full agent pipeline)")
	fmt.Println("  - GET  /api/advice/report?id=...")
	fmt.Println("  - GET  /api/advice/history")
	fmt.Println("  - POST /api/analyze  (deterministic only)")
	fmt.Println("  - POST /api/ingest/sheets")
	fmt.Println("  - POST /api/ingest/csv")

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
