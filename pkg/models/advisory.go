package models

// HorizonActions groups recommended actions by time horizon:
// short (1-3 months), medium (3-6 months), long (6+ months).
type HorizonActions struct {
	Short  []string `json:"short"`
	Medium []string `json:"medium"`
	Long   []string `json:"long"`
}

// Total returns the number of actions across all three horizons.
func (h HorizonActions) Total() int {
	return len(h.Short) + len(h.Medium) + len(h.Long)
}

// All returns the actions of every horizon concatenated, short first.
func (h HorizonActions) All() []string {
	out := make([]string, 0, h.Total())
	out = append(out, h.Short...)
	out = append(out, h.Medium...)
	out = append(out, h.Long...)
	return out
}

// Warning codes emitted by the pipeline evaluator.
const (
	WarnFewActions     = "FEW_ACTIONS"
	WarnNoNumbers      = "NO_NUMBERS"
	WarnNarrativeShort = "NARRATIVE_SHORT"
	WarnNoAPIKey       = "NO_API_KEY"
)

// Warning is a quality-gate violation surfaced to the caller.
type Warning struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

// StageLog records one attempt of one pipeline stage. Retried attempts get
// their own entries; the slice is append-only and ordered.
type StageLog struct {
	Step  string `json:"step"`
	OK    bool   `json:"ok"`
	Ms    int64  `json:"ms"`
	Error string `json:"error,omitempty"`
}

// Advisory is the canonical advisory shape consumed by the UI and export
// layers. Both producers (rule-based advisor and agent pipeline) are
// normalized to this shape before merging.
type Advisory struct {
	Summary        string         `json:"summary"`
	Tone           *string        `json:"tone"`
	Risk           *float64       `json:"risk"`
	HorizonActions HorizonActions `json:"horizonActions"`
	Risks          []string       `json:"risks"`
	Narrative      string         `json:"narrative"`
	Warnings       []Warning      `json:"warnings"`
	Acceptable     bool           `json:"acceptable"`
	RetryApplied   bool           `json:"retryApplied"`
	Logs           []StageLog     `json:"logs"`
}

// StrPtr and FloatPtr are small helpers for the nullable Advisory fields.
func StrPtr(s string) *string     { return &s }
func FloatPtr(f float64) *float64 { return &f }
