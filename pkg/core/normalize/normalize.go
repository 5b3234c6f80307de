// Package normalize is the boundary between untyped, externally generated
// advisory payloads (LLM output, legacy clients) and the canonical
// models.Advisory shape. Every function here is total: no input shape may
// cause a panic or an error, only a best-effort degradation.
package normalize

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"datapredictor/pkg/core/utils"
	"datapredictor/pkg/models"
)

// Normalize converts an arbitrarily-shaped payload into the canonical
// Advisory. Strings go through best-effort JSON extraction first; anything
// that fails extraction becomes the summary of an otherwise empty advisory.
func Normalize(v interface{}) models.Advisory {
	var m map[string]interface{}
	switch payload := v.(type) {
	case nil:
		m = map[string]interface{}{}
	case map[string]interface{}:
		m = payload
	case string:
		obj, ok := utils.ExtractObject(payload)
		if !ok {
			return emptyAdvisory(strings.TrimSpace(payload))
		}
		m = obj
	default:
		// Unknown container: round-trip through JSON and retry as a map.
		raw, err := json.Marshal(payload)
		if err != nil {
			return emptyAdvisory("")
		}
		if err := json.Unmarshal(raw, &m); err != nil || m == nil {
			return emptyAdvisory("")
		}
	}

	out := models.Advisory{
		Summary:   firstString(m, "summary", "synopsis"),
		Narrative: firstString(m, "narrative", "report"),
		HorizonActions: models.HorizonActions{
			Short:  bucket(m, "short", "shortTerm", "breve"),
			Medium: bucket(m, "medium", "midTerm", "mediumTerm", "medio"),
			Long:   bucket(m, "long", "longTerm", "lungo"),
		},
		Risks: ToArray(firstValue(m, "risks", "watchouts")),
	}
	if tone := firstString(m, "tone", "health"); tone != "" {
		out.Tone = models.StrPtr(tone)
	}
	out.Risk = coerceRisk(m["risk"])
	return out
}

// Merge combines the rule-based advisory (base) with the agent-pipeline
// advisory (ai). The agent's summary, tone, risk and narrative win when
// present; horizon buckets are concatenated base-first and de-duplicated by
// trimmed exact match. Pipeline observability fields come from ai.
func Merge(base, ai models.Advisory) models.Advisory {
	out := models.Advisory{
		Summary:      ai.Summary,
		Tone:         ai.Tone,
		Risk:         ai.Risk,
		Narrative:    ai.Narrative,
		Warnings:     ai.Warnings,
		Acceptable:   ai.Acceptable,
		RetryApplied: ai.RetryApplied,
		Logs:         ai.Logs,
	}
	if out.Summary == "" {
		out.Summary = base.Summary
	}
	if out.Tone == nil {
		out.Tone = base.Tone
	}
	if out.Risk == nil {
		out.Risk = base.Risk
	}
	if out.Narrative == "" {
		out.Narrative = base.Narrative
	}
	out.HorizonActions = models.HorizonActions{
		Short:  uniq(append(append([]string{}, base.HorizonActions.Short...), ai.HorizonActions.Short...)),
		Medium: uniq(append(append([]string{}, base.HorizonActions.Medium...), ai.HorizonActions.Medium...)),
		Long:   uniq(append(append([]string{}, base.HorizonActions.Long...), ai.HorizonActions.Long...)),
	}
	out.Risks = uniq(append(append([]string{}, base.Risks...), ai.Risks...))
	return out
}

// ToArray is a total conversion from any payload shape to a string slice:
// arrays pass through (elements stringified), strings split on newlines with
// leading bullet or number markers stripped, objects flatten to their values
// in key order, nil becomes empty, any other scalar becomes a single
// element. ToArray is idempotent: applying it to its own output is a no-op.
func ToArray(v interface{}) []string {
	switch val := v.(type) {
	case nil:
		return []string{}
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	case []interface{}:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if item == nil {
				continue
			}
			out = append(out, stringify(item))
		}
		return out
	case string:
		return splitLines(val)
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := []string{}
		for _, k := range keys {
			switch inner := val[k].(type) {
			case nil:
				continue
			case []interface{}:
				for _, item := range inner {
					if item != nil {
						out = append(out, stringify(item))
					}
				}
			case []string:
				out = append(out, inner...)
			default:
				out = append(out, stringify(inner))
			}
		}
		return out
	default:
		return []string{stringify(v)}
	}
}

var bulletPrefixes = []string{"-", "•", "*"}

func splitLines(s string) []string {
	out := []string{}
	for _, line := range strings.FieldsFunc(s, func(r rune) bool { return r == '\n' || r == '\r' }) {
		line = stripMarker(strings.TrimSpace(line))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// stripMarker removes one leading bullet ("-", "•", "*") or number marker
// ("1.", "12)") plus following whitespace.
func stripMarker(line string) string {
	for _, p := range bulletPrefixes {
		if strings.HasPrefix(line, p) {
			return strings.TrimSpace(strings.TrimPrefix(line, p))
		}
	}
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && i < len(line) && (line[i] == '.' || line[i] == ')') {
		return strings.TrimSpace(line[i+1:])
	}
	return line
}

func stringify(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}

func uniq(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := []string{}
	for _, item := range items {
		k := strings.TrimSpace(item)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

// bucket resolves one horizon bucket tolerating the key aliases seen in the
// wild: nested under horizonActions or actions, or flattened at top level.
func bucket(m map[string]interface{}, canonical string, aliases ...string) []string {
	keys := append([]string{canonical}, aliases...)
	for _, container := range []string{"horizonActions", "actions"} {
		if inner, ok := m[container].(map[string]interface{}); ok {
			for _, k := range keys {
				if v, ok := inner[k]; ok && v != nil {
					return ToArray(v)
				}
			}
		}
	}
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return ToArray(v)
		}
	}
	return []string{}
}

// coerceRisk accepts a numeric risk, a numeric string, or the qualitative
// labels the LLM sometimes returns (basso/medio/alto and their English
// counterparts), mapped onto the 0-100 scale. Anything else stays null.
func coerceRisk(v interface{}) *float64 {
	switch val := v.(type) {
	case float64:
		return models.FloatPtr(val)
	case string:
		s := strings.ToLower(strings.TrimSpace(val))
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return models.FloatPtr(f)
		}
		switch s {
		case "basso", "low":
			return models.FloatPtr(25)
		case "medio", "medium", "moderate":
			return models.FloatPtr(50)
		case "alto", "high":
			return models.FloatPtr(75)
		}
	}
	return nil
}

func firstString(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func firstValue(m map[string]interface{}, keys ...string) interface{} {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func emptyAdvisory(summary string) models.Advisory {
	return models.Advisory{
		Summary:        summary,
		HorizonActions: models.HorizonActions{Short: []string{}, Medium: []string{}, Long: []string{}},
		Risks:          []string{},
	}
}
