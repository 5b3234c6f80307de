package prompt

// Stage prompt IDs.
const (
	DataQualityID    = "pipeline.data_quality"
	ActionPlanningID = "pipeline.action_planning"
	RiskAssessmentID = "pipeline.risk_assessment"
	NarrativeID      = "pipeline.narrative"
)

// domainBriefs gives each business domain its KPI vocabulary, injected into
// the planning prompt so actions speak the domain's language.
var domainBriefs = map[string]string{
	"marketing": "Marketing: ROAS, CPA, CPL, CR%, retention; mix paid/organic e creatività.",
	"sales":     "Sales: pipeline, win-rate, CAC payback, pricing, cicli, upsell/cross-sell.",
	"finance":   "Finance: ricavi, costi, margini, cassa, LTV/CAC, MRR/ARR, budget.",
	"business":  "Business: efficienza, crescita sostenibile, processi, staffing.",
}

// DomainBrief returns the KPI brief for a domain, defaulting to business.
func DomainBrief(domain string) string {
	if b, ok := domainBriefs[domain]; ok {
		return b
	}
	return domainBriefs["business"]
}

func builtinTemplates() []*Template {
	return []*Template{
		{
			ID:          DataQualityID,
			Description: "One-line data quality remark from the computed statistics.",
			System:      "Sei un Data Quality Analyst. Rispondi con una sola frase, senza preamboli.",
			User: `Analizza questi dati:

Target: {{.Target}}
Righe: {{.Count}}
Media: {{.Mean}}
Range: {{.Min}} - {{.Max}}
Std Dev: {{.Std}}
CV: {{.CV}}

Fornisci UNA singola raccomandazione pratica sulla qualità dei dati (max 100 caratteri).
Esempi: "Dati solidi, campione sufficiente" / "Pochi dati, aumentare campione 3x" / "Alta varianza, segmentare per cluster"`,
		},
		{
			ID:          ActionPlanningID,
			Description: "Twelve horizon-bucketed strategic actions with mandatory numbers.",
			System:      "Sei un consulente strategico senior. Rispondi solo nel formato richiesto.",
			User: `{{.DomainBrief}}

Metrica: {{.Target}}
Trend: {{.TrendLabel}} (scostamento ultimo vs media: {{.GrowthPct}}%)
Volatilità: {{.Volatility}} (CV: {{.CV}})

Genera esattamente 12 azioni strategiche CONCRETE con NUMERI SPECIFICI:
- 4 azioni BREVE termine (1-3 mesi) - quick wins con KPI target
- 4 azioni MEDIO termine (3-6 mesi) - ottimizzazioni strutturali
- 4 azioni LUNGO termine (6+ mesi) - trasformazione strategica

FORMATO RICHIESTO:
BREVE:
- azione con numeri/percentuali...
MEDIO:
- azione con numeri/percentuali...
LUNGO:
- azione con numeri/percentuali...

OBBLIGATORIO: ogni azione DEVE contenere numeri, percentuali o KPI specifici.
{{- if .RetryHint}}

*** CORREZIONI OBBLIGATORIE ***
{{.RetryHint}}
{{- end}}`,
		},
		{
			ID:          RiskAssessmentID,
			Description: "Three critical risks with probability band and quantified impact.",
			System:      "Sei un Risk Management Analyst. Rispondi solo con l'elenco richiesto.",
			User: `Metrica: {{.Target}}
Volatilità: {{.Volatility}} (CV: {{.CV}})
Rischio base: {{.Risk}}/100

Identifica esattamente 3 RISCHI CRITICI con PROBABILITÀ e IMPATTO:

FORMATO RICHIESTO:
- [ALTO 70%] Stagionalità Q4: -25-40% vendite, mitigazione: diversifica canali retail+B2B
- [MEDIO 45%] Competizione aggravata: rischio perdita 15-20% market share, azione: differenziazione prodotto
- [BASSO 20%] Dipendenza fornitore: rischio disruption supply, strategia: dual sourcing +2 vendor

Ogni rischio DEVE avere: probabilità %, impatto quantificato, azione di mitigazione specifica.
{{- if .RetryHint}}

*** CORREZIONI OBBLIGATORIE ***
{{.RetryHint}}
{{- end}}`,
		},
		{
			ID:          NarrativeID,
			Description: "Long-form executive report built from the accumulated context.",
			System:      "Sei un Business Consultant esperto. Rispondi con testo piano, senza markdown e senza introduzioni.",
			User: `Scrivi un REPORT ESECUTIVO DETTAGLIATO di MINIMO {{.MinLines}} RIGHE per il dominio {{.Domain}}.

CONTESTO ANALISI:
- Metrica: {{.Target}}
- Trend: {{.TrendLabel}} (scostamento ultimo vs media: {{.GrowthPct}}%)
- Volatilità: {{.Volatility}}
- Qualità dati: {{.Quality}}

AZIONI STRATEGICHE IDENTIFICATE:
{{.Actions}}

RISCHI PRINCIPALI:
{{.Risks}}

STRUTTURA RICHIESTA:
1. EXECUTIVE SUMMARY (3-4 paragrafi): situazione attuale con numeri chiave, diagnosi, raccomandazione prioritaria.
2. ANALISI APPROFONDITA: breakdown del trend e cause, confronto vs benchmark, opportunità immediate, leve a medio-lungo termine.
3. ROADMAP IMPLEMENTAZIONE: quick wins (primi 30 giorni) con KPI target, milestone trimestrali, risk mitigation plan.
4. NEXT STEPS OPERATIVI: azioni immediate, governance, monitoring plan.

REQUISITI:
- MINIMO {{.MinLines}} righe di testo.
- Ogni paragrafo deve contenere numeri specifici (%, EUR, target KPI).
- Tono professionale ma accessibile.
{{- if .RetryHint}}

*** CORREZIONI OBBLIGATORIE ***
{{.RetryHint}}
{{- end}}`,
		},
	}
}
