// Package llm provides centralized LLM configuration and client abstractions
// for the scout and composer call sites.
package llm

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for simple tasks: line-oriented extraction, name selection
	TierLite ModelTier = "lite"
	// TierStandard is for moderate reasoning: candidate disambiguation
	TierStandard ModelTier = "standard"
	// TierAdvanced is for complex generation: cover letter composition
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.0-flash",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := &Config{
		Provider: c.Provider,
		Models:   make(map[ModelTier]string),
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return newConfig
}

// FallbackTiers returns the tier order used when a model is rate-limited or
// unavailable: the requested tier first, then progressively cheaper ones.
func FallbackTiers(requested ModelTier) []ModelTier {
	switch requested {
	case TierAdvanced:
		return []ModelTier{TierAdvanced, TierStandard, TierLite}
	case TierStandard:
		return []ModelTier{TierStandard, TierLite}
	default:
		return []ModelTier{TierLite}
	}
}
