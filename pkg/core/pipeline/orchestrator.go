package pipeline

import (
	"context"
	"time"

	"datapredictor/pkg/core/agent"
	"datapredictor/pkg/models"
)

// Orchestrator drives the stage sequence, the quality gate and the single
// guided retry. Providers are resolved per stage through the agent manager,
// injected at construction rather than held in package state.
type Orchestrator struct {
	manager *agent.Manager
}

func New(manager *agent.Manager) *Orchestrator {
	return &Orchestrator{manager: manager}
}

// Run executes the pipeline against pc and returns it with stage outputs,
// evaluation state and logs filled in. A stage failure never halts the run;
// only a missing credential short-circuits the whole pipeline.
//
// At most one retry pass happens per request, bounding worst-case latency to
// roughly twice a single pass. The possibly-still-unacceptable result is
// always returned to the caller.
func (o *Orchestrator) Run(ctx context.Context, pc *Context) *Context {
	if !o.configured() {
		pc.Acceptable = false
		pc.Warnings = []models.Warning{{
			Code: models.WarnNoAPIKey,
			Msg:  "Nessuna credenziale LLM configurata: imposta OPENAI_API_KEY (o equivalente).",
		}}
		pc.Logs = append(pc.Logs, models.StageLog{Step: "init", OK: false, Error: "missing API key"})
		return pc
	}

	o.runPass(ctx, pc)
	acceptable, warnings := Evaluate(pc)

	if !acceptable {
		pc.RetryHint = BuildRetryHint(warnings)
		pc.RetryApplied = true
		o.runPass(ctx, pc)
		acceptable, warnings = Evaluate(pc)
	}

	pc.Acceptable = acceptable
	pc.Warnings = warnings
	return pc
}

func (o *Orchestrator) runPass(ctx context.Context, pc *Context) {
	for _, s := range stageSequence() {
		start := time.Now()
		err := s.fn(ctx, o.manager.Provider(s.name), o.manager.Options(s.name), pc)
		entry := models.StageLog{Step: s.name, OK: err == nil, Ms: time.Since(start).Milliseconds()}
		if err != nil {
			entry.Error = err.Error()
		}
		pc.Logs = append(pc.Logs, entry)
	}
}

// configured reports whether at least one stage has a provider with a
// usable credential. Individually unconfigured stages fail per-stage and
// are recorded in the logs like any other stage error.
func (o *Orchestrator) configured() bool {
	for _, s := range stageSequence() {
		if p := o.manager.Provider(s.name); p != nil && p.Configured() {
			return true
		}
	}
	return false
}
