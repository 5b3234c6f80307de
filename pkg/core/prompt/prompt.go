// Package prompt is the prompt library for the agent pipeline. Stage prompts
// are defined as built-in templates and can be overridden from JSON files at
// runtime, so wording changes do not require a rebuild.
package prompt

import (
	"bytes"
	"fmt"
	"text/template"
)

// Template is one reusable prompt with a system part and a Go text/template
// user part.
type Template struct {
	ID          string `json:"id"`
	Description string `json:"description,omitempty"`
	System      string `json:"system_prompt"`
	User        string `json:"user_prompt_template"`
}

// Render executes the user template against vars and returns the final
// system and user prompts.
func (t *Template) Render(vars map[string]interface{}) (system string, user string, err error) {
	tmpl, err := template.New(t.ID).Parse(t.User)
	if err != nil {
		return "", "", fmt.Errorf("prompt %s: parse: %w", t.ID, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", "", fmt.Errorf("prompt %s: execute: %w", t.ID, err)
	}
	return t.System, buf.String(), nil
}
