package normalize

import (
	"reflect"
	"testing"

	"datapredictor/pkg/models"
)

func TestToArrayShapes(t *testing.T) {
	cases := []struct {
		name string
		in   interface{}
		want []string
	}{
		{
			name: "nil",
			in:   nil,
			want: []string{},
		},
		{
			name: "array of strings",
			in:   []interface{}{"uno", "due"},
			want: []string{"uno", "due"},
		},
		{
			name: "array with nils and numbers",
			in:   []interface{}{"uno", nil, 3.5, true},
			want: []string{"uno", "3.5", "true"},
		},
		{
			name: "bulleted string",
			in:   "- prima azione\n• seconda azione\n* terza azione",
			want: []string{"prima azione", "seconda azione", "terza azione"},
		},
		{
			name: "numbered string",
			in:   "1. prima\n2) seconda\n\n3. terza",
			want: []string{"prima", "seconda", "terza"},
		},
		{
			name: "object flattens by key order",
			in:   map[string]interface{}{"b": "secondo", "a": "primo"},
			want: []string{"primo", "secondo"},
		},
		{
			name: "object with nested list",
			in:   map[string]interface{}{"items": []interface{}{"x", "y"}},
			want: []string{"x", "y"},
		},
		{
			name: "scalar number",
			in:   42.0,
			want: []string{"42"},
		},
		{
			name: "scalar bool",
			in:   false,
			want: []string{"false"},
		},
	}

	for _, c := range cases {
		got := ToArray(c.in)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("%s: ToArray(%v) = %v, want %v", c.name, c.in, got, c.want)
		}
	}
}

func TestToArrayIdempotent(t *testing.T) {
	inputs := []interface{}{
		nil,
		"- una azione\n- altra azione",
		[]interface{}{"10% uplift sul canale", "2. già numerata"},
		map[string]interface{}{"k": "valore"},
		3.14,
	}
	for _, in := range inputs {
		once := ToArray(in)
		asIface := make([]interface{}, len(once))
		for i, s := range once {
			asIface[i] = s
		}
		twice := ToArray(asIface)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("ToArray not idempotent for %v: %v vs %v", in, once, twice)
		}
	}
}

func TestToArrayDoesNotStripDigitsFromArrayElements(t *testing.T) {
	// Elements arriving already as an array must pass through untouched,
	// even when they start with a digit.
	got := ToArray([]interface{}{"10-20% di incremento budget"})
	if len(got) != 1 || got[0] != "10-20% di incremento budget" {
		t.Errorf("array element was mangled: %v", got)
	}
}

func TestNormalizeAliases(t *testing.T) {
	payload := map[string]interface{}{
		"synopsis": "Sintesi del periodo",
		"health":   "good",
		"risk":     "alto",
		"report":   "## Narrativa",
		"actions": map[string]interface{}{
			"breve": []interface{}{"azione breve"},
			"medio": "- azione media",
			"lungo": []interface{}{"azione lunga"},
		},
		"watchouts": []interface{}{"rischio uno"},
	}

	adv := Normalize(payload)
	if adv.Summary != "Sintesi del periodo" {
		t.Errorf("Summary = %q", adv.Summary)
	}
	if adv.Tone == nil || *adv.Tone != "good" {
		t.Error("health alias should fill Tone")
	}
	if adv.Risk == nil || *adv.Risk != 75 {
		t.Errorf("risk 'alto' should coerce to 75, got %v", adv.Risk)
	}
	if adv.Narrative != "## Narrativa" {
		t.Errorf("Narrative = %q", adv.Narrative)
	}
	if !reflect.DeepEqual(adv.HorizonActions.Short, []string{"azione breve"}) {
		t.Errorf("Short = %v", adv.HorizonActions.Short)
	}
	if !reflect.DeepEqual(adv.HorizonActions.Medium, []string{"azione media"}) {
		t.Errorf("Medium = %v", adv.HorizonActions.Medium)
	}
	if !reflect.DeepEqual(adv.Risks, []string{"rischio uno"}) {
		t.Errorf("Risks = %v", adv.Risks)
	}
}

func TestNormalizeMalformedJSONString(t *testing.T) {
	// json-repair recovers common LLM malformations.
	adv := Normalize(`{summary: "Trend positivo", short: ["una azione"],}`)
	if adv.Summary != "Trend positivo" {
		t.Errorf("Summary = %q, want repaired value", adv.Summary)
	}
	if !reflect.DeepEqual(adv.HorizonActions.Short, []string{"una azione"}) {
		t.Errorf("Short = %v", adv.HorizonActions.Short)
	}
}

func TestNormalizeUnextractableString(t *testing.T) {
	adv := Normalize("nessun oggetto qui")
	if adv.Summary != "nessun oggetto qui" {
		t.Errorf("Summary = %q, want raw text", adv.Summary)
	}
	if adv.HorizonActions.Short == nil || adv.Risks == nil {
		t.Error("empty advisory must have non-nil slices")
	}
}

func TestCoerceRisk(t *testing.T) {
	cases := []struct {
		in   interface{}
		want *float64
	}{
		{55.0, models.FloatPtr(55)},
		{"42", models.FloatPtr(42)},
		{"basso", models.FloatPtr(25)},
		{"Medium", models.FloatPtr(50)},
		{"ALTO", models.FloatPtr(75)},
		{"sconosciuto", nil},
		{nil, nil},
		{true, nil},
	}
	for _, c := range cases {
		got := coerceRisk(c.in)
		if (got == nil) != (c.want == nil) {
			t.Errorf("coerceRisk(%v) nil-ness mismatch", c.in)
			continue
		}
		if got != nil && *got != *c.want {
			t.Errorf("coerceRisk(%v) = %f, want %f", c.in, *got, *c.want)
		}
	}
}

func TestMerge(t *testing.T) {
	base := models.Advisory{
		Summary: "sintesi regole",
		Tone:    models.StrPtr("good"),
		Risk:    models.FloatPtr(35),
		HorizonActions: models.HorizonActions{
			Short: []string{"azione comune", "azione solo regole"},
		},
		Risks: []string{"rischio base"},
	}
	ai := models.Advisory{
		Summary:   "sintesi agente",
		Narrative: "# Report",
		HorizonActions: models.HorizonActions{
			Short: []string{"  azione comune  ", "azione solo agente"},
		},
		Risks:        []string{"rischio agente"},
		Acceptable:   true,
		RetryApplied: true,
	}

	out := Merge(base, ai)

	if out.Summary != "sintesi agente" {
		t.Errorf("agent summary should win, got %q", out.Summary)
	}
	// ai has no tone/risk: base fills the holes.
	if out.Tone == nil || *out.Tone != "good" {
		t.Error("base tone should fill missing agent tone")
	}
	if out.Risk == nil || *out.Risk != 35 {
		t.Error("base risk should fill missing agent risk")
	}
	// Base-first order with trimmed dedupe.
	want := []string{"azione comune", "azione solo regole", "azione solo agente"}
	if !reflect.DeepEqual(out.HorizonActions.Short, want) {
		t.Errorf("Short = %v, want %v", out.HorizonActions.Short, want)
	}
	if !reflect.DeepEqual(out.Risks, []string{"rischio base", "rischio agente"}) {
		t.Errorf("Risks = %v", out.Risks)
	}
	if !out.Acceptable || !out.RetryApplied {
		t.Error("pipeline observability fields come from the agent side")
	}
	if out.Narrative != "# Report" {
		t.Errorf("Narrative = %q", out.Narrative)
	}
}

func TestMergeIdempotentOnActions(t *testing.T) {
	base := models.Advisory{HorizonActions: models.HorizonActions{Short: []string{"a", "b"}}}
	once := Merge(base, models.Advisory{})
	twice := Merge(once, models.Advisory{})
	if !reflect.DeepEqual(once.HorizonActions, twice.HorizonActions) {
		t.Errorf("merging with empty advisory should be stable: %v vs %v",
			once.HorizonActions, twice.HorizonActions)
	}
}
