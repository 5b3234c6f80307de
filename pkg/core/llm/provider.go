// Package llm abstracts the text-completion backends used by the agent
// pipeline. Transport details and credential management live here; callers
// see a single blocking call per prompt.
package llm

import "context"

// Provider is the interface for all LLM providers.
type Provider interface {
	// GenerateResponse sends one prompt pair and returns the raw completion
	// text. Options may override model, api_key, temperature or max_tokens.
	GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
	// Configured reports whether a credential is available without making a
	// network call. The pipeline short-circuits when this is false.
	Configured() bool
	// Name identifies the provider ("openai", "deepseek", "gemini").
	Name() string
}

func stringOption(options map[string]interface{}, key, fallback string) string {
	if val, ok := options[key].(string); ok && val != "" {
		return val
	}
	return fallback
}

func floatOption(options map[string]interface{}, key string, fallback float64) float64 {
	if val, ok := options[key].(float64); ok {
		return val
	}
	return fallback
}

func intOption(options map[string]interface{}, key string, fallback int) int {
	switch val := options[key].(type) {
	case int:
		return val
	case float64:
		return int(val)
	}
	return fallback
}
