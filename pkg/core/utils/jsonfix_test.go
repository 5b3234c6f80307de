package utils

import (
	"strings"
	"testing"
)

func TestExtractObjectStrict(t *testing.T) {
	obj, ok := ExtractObject(`{"summary": "ok", "risk": 42}`)
	if !ok {
		t.Fatal("valid JSON should extract")
	}
	if obj["summary"] != "ok" {
		t.Errorf("summary = %v", obj["summary"])
	}
	if obj["risk"] != 42.0 {
		t.Errorf("risk = %v", obj["risk"])
	}
}

func TestExtractObjectRepaired(t *testing.T) {
	cases := []string{
		`{summary: "chiavi senza virgolette"}`,
		`{"summary": "virgola finale",}`,
		`{"summary": "oggetto non chiuso"`,
		`{'summary': 'apici singoli'}`,
	}
	for _, c := range cases {
		obj, ok := ExtractObject(c)
		if !ok {
			t.Errorf("should repair %q", c)
			continue
		}
		if _, has := obj["summary"]; !has {
			t.Errorf("repaired object from %q lost the summary key: %v", c, obj)
		}
	}
}

func TestExtractObjectEmbeddedInProse(t *testing.T) {
	text := "Ecco il risultato dell'analisi:\n\n```json\n{\"summary\": \"trend positivo\"}\n```\n\nFammi sapere."
	obj, ok := ExtractObject(text)
	if !ok {
		t.Fatal("object embedded in prose should extract")
	}
	if obj["summary"] != "trend positivo" {
		t.Errorf("summary = %v", obj["summary"])
	}
}

func TestExtractObjectGarbage(t *testing.T) {
	for _, c := range []string{"", "solo testo libero", "[1, 2, 3]"} {
		if _, ok := ExtractObject(c); ok {
			t.Errorf("%q should not extract to an object", c)
		}
	}
}

func TestCleanMarkdownFences(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"```markdown\n# Titolo\ncontenuto\n```", "# Titolo\ncontenuto"},
		{"```\nplain\n```", "plain"},
		{"# Senza fence", "# Senza fence"},
	}
	for _, c := range cases {
		if got := CleanMarkdown(c.in); got != c.want {
			t.Errorf("CleanMarkdown(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestRenderHTML(t *testing.T) {
	html, err := RenderHTML("# Report\n\nParagrafo con **numeri**: 12%.")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if html == "" {
		t.Fatal("empty output")
	}
	for _, frag := range []string{"<h1", "Report", "<strong>numeri</strong>"} {
		if !strings.Contains(html, frag) {
			t.Errorf("output missing %q: %s", frag, html)
		}
	}
}
