// Package llm provides the optional model client used to repair extraction damage in resume text.
package llm

// ModelTier represents the capability level of a model
type ModelTier string

const (
	// TierLite is for mechanical text repair
	TierLite ModelTier = "lite"
	// TierStandard is for text that needs more careful restructuring
	TierStandard ModelTier = "standard"
)

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider
const ProviderGemini Provider = "gemini"

// Config holds the model configuration for the cleanup stage
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
}

// DefaultConfig returns the default Gemini configuration
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
		},
	}
}

// GetModel returns the model name for a given tier, falling back to
// the standard tier and then the lite tier. Returns "" when nothing is configured.
func (c *Config) GetModel(tier ModelTier) string {
	for _, t := range []ModelTier{tier, TierStandard, TierLite} {
		if model, ok := c.Models[t]; ok {
			return model
		}
	}
	return ""
}

// WithModel returns a copy of the Config with model set for tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := &Config{
		Provider: c.Provider,
		Models:   make(map[ModelTier]string, len(c.Models)+1),
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return newConfig
}
