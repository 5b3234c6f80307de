package pipeline

import (
	"fmt"
	"regexp"
	"strings"

	"datapredictor/pkg/models"
)

// Acceptance thresholds for the quality gate.
const (
	minTotalActions   = 9
	numericShare      = 0.7
	minNarrativeLines = 35
)

// numericTokenRe matches a percentage or a number of at least two digits.
var numericTokenRe = regexp.MustCompile(`\d+\s*%|\d{2,}`)

// Evaluate checks the accumulated stage outputs against the quality
// predicates. All must pass for the result to be acceptable.
func Evaluate(pc *Context) (bool, []models.Warning) {
	warnings := []models.Warning{}

	total := pc.Actions.Total()
	if total < minTotalActions {
		warnings = append(warnings, models.Warning{
			Code: models.WarnFewActions,
			Msg:  fmt.Sprintf("Solo %d azioni trovate, target minimo 12", total),
		})
	}

	withNumbers := 0
	for _, a := range pc.Actions.All() {
		if numericTokenRe.MatchString(a) {
			withNumbers++
		}
	}
	if float64(withNumbers) < numericShare*float64(total) {
		warnings = append(warnings, models.Warning{
			Code: models.WarnNoNumbers,
			Msg:  fmt.Sprintf("Solo %d/%d azioni hanno numeri specifici", withNumbers, total),
		})
	}

	lines := 0
	for _, l := range strings.Split(pc.Narrative, "\n") {
		if strings.TrimSpace(l) != "" {
			lines++
		}
	}
	if lines < minNarrativeLines {
		warnings = append(warnings, models.Warning{
			Code: models.WarnNarrativeShort,
			Msg:  fmt.Sprintf("Report troppo breve: %d righe (minimo %d)", lines, minNarrativeLines),
		})
	}

	return len(warnings) == 0, warnings
}

// retryHints maps each warning code to its corrective sentence. The retry is
// guided: only the violated predicates produce instructions.
var retryHints = map[string]string{
	models.WarnFewActions:     "Genera ALMENO 12 azioni totali: 4 a breve, 4 a medio e 4 a lungo termine.",
	models.WarnNoNumbers:      "Inserisci numeri, percentuali o KPI specifici in OGNI azione.",
	models.WarnNarrativeShort: "Estendi il report oltre 35 righe, aggiungi esempi numerici e milestone temporalizzate.",
}

// BuildRetryHint renders the corrective instruction injected into the stage
// prompts on the single retry pass, one bullet per violated predicate.
func BuildRetryHint(warnings []models.Warning) string {
	var b strings.Builder
	for _, w := range warnings {
		if hint, ok := retryHints[w.Code]; ok {
			fmt.Fprintf(&b, "- %s\n", hint)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
