package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"datapredictor/pkg/core/advisor"
	"datapredictor/pkg/core/agent"
	"datapredictor/pkg/core/forecast"
	"datapredictor/pkg/core/ingest"
	"datapredictor/pkg/core/normalize"
	"datapredictor/pkg/core/pipeline"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, assuming environment variables are set.")
	}

	csvPath := flag.String("csv", "", "path to the CSV file to analyze")
	target := flag.String("target", "", "metric column (inferred when empty)")
	dateCol := flag.String("date", "", "date column (inferred when empty)")
	domain := flag.String("domain", "business", "analysis domain: marketing, sales, finance or business")
	rulesOnly := flag.Bool("rules-only", false, "skip the LLM pipeline, rule-based advisor only")
	flag.Parse()

	if *csvPath == "" {
		log.Fatal("Error: -csv is required.")
	}

	fmt.Println("🚀 DataPredictor Advisory Pipeline Starting...")

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Fatalf("Critical: cannot open %s: %v", *csvPath, err)
	}
	rows, cols, err := ingest.ParseCSV(f)
	f.Close()
	if err != nil {
		log.Fatalf("CSV parse failed: %v", err)
	}
	fmt.Printf("📂 Loaded %d rows, %d columns from %s\n", len(rows), len(cols), *csvPath)

	if *target == "" || *dateCol == "" {
		inferredDate, inferredTarget := ingest.InferColumns(rows)
		if *target == "" {
			*target = inferredTarget
		}
		if *dateCol == "" {
			*dateCol = inferredDate
		}
		fmt.Printf("🔎 Inferred columns: target=%s date=%s\n", *target, *dateCol)
	}
	if *target == "" {
		log.Fatal("Error: no numeric target column found; pass -target explicitly.")
	}

	baseline := advisor.Advise(rows, *target, *dateCol)
	fc := forecast.Compute(rows, forecast.Options{Target: *target, DateCol: *dateCol})

	final := baseline.Canonical()
	if !*rulesOnly {
		configData, _ := os.ReadFile("config/models.yaml")
		var agentCfg agent.Config
		yaml.Unmarshal(configData, &agentCfg)
		mgr := agent.NewManager(agentCfg)

		pc := pipeline.NewContext(rows, *target, *dateCol, *domain)
		pc.BaseRisk = baseline.Risk
		pipeline.New(mgr).Run(context.Background(), pc)
		final = normalize.Merge(baseline.Canonical(), pc.Advisory())
	}

	fmt.Println("\n################################################################################")
	fmt.Println("                     DATAPREDICTOR - ADVISORY REPORT")
	fmt.Printf("                     Target: %s (%s)\n", *target, *domain)
	fmt.Println("################################################################################")

	fmt.Println("\n[1] RULE-BASED ASSESSMENT")
	fmt.Printf("Trend:      %s (pendenza %.4f)\n", baseline.TrendLabel, baseline.Slope)
	fmt.Printf("Volatility: %s (CV %.3f)\n", baseline.VolatilityLabel, baseline.CV)
	fmt.Printf("Health:     %s | Risk: %d/100\n", baseline.Health, baseline.Risk)
	fmt.Println(baseline.Summary)

	fmt.Println("\n[2] FORECAST")
	fmt.Println(fc.Insight)
	for i, p := range fc.Points {
		if i == 6 {
			fmt.Printf("  ... %d more points\n", len(fc.Points)-6)
			break
		}
		fmt.Printf("  %-12s MA: %10.2f  Trend: %10.2f\n", p.Date, p.YHatMA, p.YHatTrend)
	}

	fmt.Println("\n[3] UNIFIED ADVISORY (JSON)")
	out, err := json.MarshalIndent(final, "", "  ")
	if err != nil {
		log.Fatalf("marshal failed: %v", err)
	}
	fmt.Println(string(out))

	if !final.Acceptable && !*rulesOnly {
		fmt.Println("\n⚠️  Quality gate not satisfied:")
		for _, wrn := range final.Warnings {
			fmt.Printf("  - [%s] %s\n", wrn.Code, wrn.Msg)
		}
	}

	fmt.Println("\n[Done] Analysis Complete.")
}
