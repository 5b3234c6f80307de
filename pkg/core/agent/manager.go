// Package agent maps pipeline stages to LLM providers based on the
// config/models.yaml configuration, so each stage can run on a different
// backend without code changes.
package agent

import (
	"fmt"

	"datapredictor/pkg/core/llm"
)

type Config struct {
	ActiveProvider string                 `yaml:"active_provider"`
	Agents         map[string]AgentConfig `yaml:"agents"`
}

type AgentConfig struct {
	Provider    string `yaml:"provider" json:"provider,omitempty"` // optional per-stage override
	Model       string `yaml:"model" json:"model,omitempty"`       // optional model override
	Description string `yaml:"description" json:"description,omitempty"`
}

// Manager resolves a provider for each pipeline stage.
type Manager struct {
	config    Config
	providers map[string]llm.Provider
}

func NewManager(config Config) *Manager {
	return &Manager{
		config: config,
		providers: map[string]llm.Provider{
			"openai":   &llm.OpenAIProvider{},
			"deepseek": &llm.DeepSeekProvider{},
			"gemini":   &llm.GeminiProvider{},
		},
	}
}

// Provider returns the provider configured for the given stage, falling back
// to the global active provider and finally to OpenAI.
func (m *Manager) Provider(stage string) llm.Provider {
	if agentConfig, ok := m.config.Agents[stage]; ok && agentConfig.Provider != "" {
		if p, ok := m.providers[agentConfig.Provider]; ok {
			return p
		}
	}
	if p, ok := m.providers[m.config.ActiveProvider]; ok {
		return p
	}
	return m.providers["openai"]
}

// Options returns per-stage call options (model override) from the config.
func (m *Manager) Options(stage string) map[string]interface{} {
	opts := map[string]interface{}{}
	if agentConfig, ok := m.config.Agents[stage]; ok && agentConfig.Model != "" {
		opts["model"] = agentConfig.Model
	}
	return opts
}

// Register replaces or adds a provider. Tests use it to inject mocks.
func (m *Manager) Register(name string, p llm.Provider) {
	m.providers[name] = p
}

// SetGlobalProvider switches the active provider at runtime.
func (m *Manager) SetGlobalProvider(name string) error {
	if _, ok := m.providers[name]; !ok {
		return fmt.Errorf("provider %s not found", name)
	}
	m.config.ActiveProvider = name
	return nil
}

func (m *Manager) ActiveProvider() string {
	return m.config.ActiveProvider
}

// StageConfig returns the per-stage overrides as provider/model pairs for
// the config endpoint.
func (m *Manager) StageConfig() map[string]AgentConfig {
	out := make(map[string]AgentConfig, len(m.config.Agents))
	for k, v := range m.config.Agents {
		out[k] = v
	}
	return out
}
