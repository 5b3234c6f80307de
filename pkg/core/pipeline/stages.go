package pipeline

import (
	"context"
	"fmt"
	"strings"

	"datapredictor/pkg/core/forecast"
	"datapredictor/pkg/core/llm"
	"datapredictor/pkg/core/normalize"
	"datapredictor/pkg/core/prompt"
	"datapredictor/pkg/core/utils"
)

// Stage names, in execution order. They double as log step identifiers and
// as the agent-manager lookup keys for per-stage provider overrides.
const (
	StageDataQuality    = "dataQuality"
	StageActionPlanning = "actionPlanning"
	StageRiskAssessment = "riskAssessment"
	StageNarrative      = "narrativeWriting"
)

type stageFn func(ctx context.Context, p llm.Provider, opts map[string]interface{}, pc *Context) error

type stage struct {
	name string
	fn   stageFn
}

func stageSequence() []stage {
	return []stage{
		{StageDataQuality, runDataQuality},
		{StageActionPlanning, runActionPlanning},
		{StageRiskAssessment, runRiskAssessment},
		{StageNarrative, runNarrative},
	}
}

// runDataQuality asks for one short remark on sample size and variance.
// On failure Quality stays unset and the pipeline continues.
func runDataQuality(ctx context.Context, p llm.Provider, opts map[string]interface{}, pc *Context) error {
	system, user, err := renderStagePrompt(prompt.DataQualityID, map[string]interface{}{
		"Target": pc.Target,
		"Count":  pc.KPI.Count,
		"Mean":   fmt.Sprintf("%.2f", pc.KPI.Mean),
		"Min":    fmt.Sprintf("%.2f", pc.KPI.Min),
		"Max":    fmt.Sprintf("%.2f", pc.KPI.Max),
		"Std":    fmt.Sprintf("%.2f", pc.KPI.Std),
		"CV":     fmt.Sprintf("%.3f", pc.KPI.CV),
	})
	if err != nil {
		return err
	}

	text, err := p.GenerateResponse(ctx, user, system, withDefaults(opts, 0.3, 150))
	if err != nil {
		return err
	}
	pc.Quality = strings.TrimSpace(text)
	return nil
}

// runActionPlanning asks for 4+4+4 horizon-bucketed actions, each carrying
// at least one numeric token, and parses the three labeled sections.
func runActionPlanning(ctx context.Context, p llm.Provider, opts map[string]interface{}, pc *Context) error {
	system, user, err := renderStagePrompt(prompt.ActionPlanningID, map[string]interface{}{
		"DomainBrief": prompt.DomainBrief(pc.Domain),
		"Target":      pc.Target,
		"TrendLabel":  forecast.Direction(pc.KPI.TrendSlope),
		"GrowthPct":   fmt.Sprintf("%.2f", pc.KPI.GrowthPct),
		"Volatility":  forecast.VolatilityLabel(pc.KPI.CV),
		"CV":          fmt.Sprintf("%.3f", pc.KPI.CV),
		"RetryHint":   pc.RetryHint,
	})
	if err != nil {
		return err
	}

	text, err := p.GenerateResponse(ctx, user, system, withDefaults(opts, 0.7, 1500))
	if err != nil {
		return err
	}

	pc.Actions.Short = parseActionLines(sectionText(text, "BREVE", "MEDIO", "LUNGO"), 4)
	pc.Actions.Medium = parseActionLines(sectionText(text, "MEDIO", "LUNGO"), 4)
	pc.Actions.Long = parseActionLines(sectionText(text, "LUNGO"), 4)

	// Models answer in JSON often enough despite the format instructions.
	// Those responses carry no section keywords, so recover the buckets
	// through the untyped advisory boundary.
	if pc.Actions.Total() == 0 {
		adv := normalize.Normalize(utils.CleanMarkdown(text))
		pc.Actions.Short = capLines(adv.HorizonActions.Short, 4)
		pc.Actions.Medium = capLines(adv.HorizonActions.Medium, 4)
		pc.Actions.Long = capLines(adv.HorizonActions.Long, 4)
	}
	return nil
}

// runRiskAssessment asks for exactly 3 risks tagged with probability band
// and impact, keeping lines of at least 30 characters containing a digit.
func runRiskAssessment(ctx context.Context, p llm.Provider, opts map[string]interface{}, pc *Context) error {
	system, user, err := renderStagePrompt(prompt.RiskAssessmentID, map[string]interface{}{
		"Target":     pc.Target,
		"Volatility": forecast.VolatilityLabel(pc.KPI.CV),
		"CV":         fmt.Sprintf("%.3f", pc.KPI.CV),
		"Risk":       pc.BaseRisk,
		"RetryHint":  pc.RetryHint,
	})
	if err != nil {
		return err
	}

	text, err := p.GenerateResponse(ctx, user, system, withDefaults(opts, 0.5, 400))
	if err != nil {
		return err
	}

	// A JSON answer would survive the line filter as one long blob, so
	// route it through the untyped boundary before line parsing.
	if cleaned := strings.TrimSpace(utils.CleanMarkdown(text)); strings.HasPrefix(cleaned, "{") {
		if adv := normalize.Normalize(cleaned); len(adv.Risks) > 0 {
			pc.Risks = capLines(adv.Risks, 3)
			return nil
		}
	}

	risks := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = stripBullet(strings.TrimSpace(line))
		if len(line) >= 30 && containsDigit(line) {
			risks = append(risks, line)
		}
		if len(risks) == 3 {
			break
		}
	}
	pc.Risks = risks
	return nil
}

// runNarrative asks for the long-form report built from the accumulated
// context. No structural parsing beyond fence trimming.
func runNarrative(ctx context.Context, p llm.Provider, opts map[string]interface{}, pc *Context) error {
	quality := pc.Quality
	if quality == "" {
		quality = "Buona"
	}
	minLines := pc.NarrativeMinLines
	if minLines <= 0 {
		minLines = 40
	}

	system, user, err := renderStagePrompt(prompt.NarrativeID, map[string]interface{}{
		"Domain":     pc.Domain,
		"Target":     pc.Target,
		"TrendLabel": forecast.Direction(pc.KPI.TrendSlope),
		"GrowthPct":  fmt.Sprintf("%.2f", pc.KPI.GrowthPct),
		"Volatility": forecast.VolatilityLabel(pc.KPI.CV),
		"Quality":    quality,
		"Actions":    numberedList(pc.Actions.All()),
		"Risks":      numberedList(pc.Risks),
		"MinLines":   minLines,
		"RetryHint":  pc.RetryHint,
	})
	if err != nil {
		return err
	}

	text, err := p.GenerateResponse(ctx, user, system, withDefaults(opts, 0.7, 3000))
	if err != nil {
		return err
	}
	pc.Narrative = utils.CleanMarkdown(text)
	return nil
}

func renderStagePrompt(id string, vars map[string]interface{}) (string, string, error) {
	t, err := prompt.Get().Lookup(id)
	if err != nil {
		return "", "", err
	}
	return t.Render(vars)
}

// withDefaults copies opts and fills temperature and max_tokens when the
// stage config did not set them.
func withDefaults(opts map[string]interface{}, temperature float64, maxTokens int) map[string]interface{} {
	out := make(map[string]interface{}, len(opts)+2)
	for k, v := range opts {
		out[k] = v
	}
	if _, ok := out["temperature"]; !ok {
		out["temperature"] = temperature
	}
	if _, ok := out["max_tokens"]; !ok {
		out["max_tokens"] = maxTokens
	}
	return out
}

// sectionText slices the response between a section keyword and the first
// of the terminator keywords, case-insensitively.
func sectionText(text, keyword string, terminators ...string) string {
	upper := strings.ToUpper(text)
	i := strings.Index(upper, keyword)
	if i < 0 {
		return ""
	}
	rest := text[i+len(keyword):]
	restUpper := upper[i+len(keyword):]
	end := len(rest)
	for _, t := range terminators {
		if j := strings.Index(restUpper, t); j >= 0 && j < end {
			end = j
		}
	}
	return rest[:end]
}

// parseActionLines extracts up to max bullet lines, dropping anything too
// short to be an action or lacking a numeric token.
func parseActionLines(section string, max int) []string {
	out := []string{}
	for _, line := range strings.Split(section, "\n") {
		line = stripBullet(strings.TrimSpace(line))
		if len(line) > 20 && containsDigit(line) {
			out = append(out, line)
		}
		if len(out) == max {
			break
		}
	}
	return out
}

// capLines bounds a recovered bucket to the same size the sectioned path
// enforces.
func capLines(lines []string, max int) []string {
	if len(lines) > max {
		return lines[:max]
	}
	return lines
}

// stripBullet removes leading bullet decoration from one line. Digits are
// deliberately not stripped: actions legitimately start with numbers.
func stripBullet(line string) string {
	return strings.TrimLeft(line, "-•* \t")
}

func containsDigit(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}

func numberedList(items []string) string {
	if len(items) == 0 {
		return "(nessuna)"
	}
	var b strings.Builder
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item)
	}
	return strings.TrimRight(b.String(), "\n")
}
