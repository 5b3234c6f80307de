// Package pipeline runs the LLM-backed advisory stages as a fixed sequential
// state machine: dataQuality -> actionPlanning -> riskAssessment ->
// narrativeWriting, followed by a quality evaluation and at most one guided
// retry. Stages fail independently; a failed stage is logged and the next
// stage runs with whatever partial context exists.
package pipeline

import (
	"fmt"

	"datapredictor/pkg/core/stats"
	"datapredictor/pkg/models"
)

// Context is the mutable accumulator threaded through the pipeline stages.
// One Context is created per request, mutated in place by each stage and
// discarded after the response is normalized. Nothing here is shared across
// requests.
type Context struct {
	Rows    []models.Row
	Target  string
	DateCol string
	Domain  string

	// KPI is computed once at construction and read by every stage.
	KPI stats.Statistics

	// BaseRisk seeds the risk-assessment prompt; callers set it from the
	// rule-based advisor. Defaults to 50.
	BaseRisk int

	// NarrativeMinLines is the line target given to the narrative stage.
	// The evaluator's acceptance threshold stays at 35 regardless.
	NarrativeMinLines int

	// Stage outputs.
	Quality   string
	Actions   models.HorizonActions
	Risks     []string
	Narrative string

	// Evaluation state.
	Warnings     []models.Warning
	Acceptable   bool
	RetryHint    string
	RetryApplied bool

	// Logs records one entry per stage attempt, retries included.
	Logs []models.StageLog
}

// NewContext builds a fresh per-request Context and computes the statistics
// every stage reads.
func NewContext(rows []models.Row, target, dateCol, domain string) *Context {
	if domain == "" {
		domain = "business"
	}
	return &Context{
		Rows:              rows,
		Target:            target,
		DateCol:           dateCol,
		Domain:            domain,
		KPI:               stats.Summarize(rows, target),
		BaseRisk:          50,
		NarrativeMinLines: 40,
	}
}

// Advisory converts the accumulated stage outputs into the canonical shape.
// Tone and risk stay null here: the merger fills them from the rule-based
// advisory when the stages did not produce their own.
func (c *Context) Advisory() models.Advisory {
	quality := c.Quality
	if quality == "" {
		quality = "Completata"
	}
	actions := c.Actions
	if actions.Short == nil {
		actions.Short = []string{}
	}
	if actions.Medium == nil {
		actions.Medium = []string{}
	}
	if actions.Long == nil {
		actions.Long = []string{}
	}
	risks := c.Risks
	if risks == nil {
		risks = []string{}
	}
	return models.Advisory{
		Summary:        fmt.Sprintf("Analisi %s su %s: %s", c.Domain, c.Target, quality),
		HorizonActions: actions,
		Risks:          risks,
		Narrative:      c.Narrative,
		Warnings:       c.Warnings,
		Acceptable:     c.Acceptable,
		RetryApplied:   c.RetryApplied,
		Logs:           c.Logs,
	}
}
