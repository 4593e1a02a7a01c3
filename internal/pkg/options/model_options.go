package options

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// Supported model provider kinds. The set is closed: the provider factory
// fails on anything else.
const (
	ProviderClaude = "claude"
	ProviderOpenAI = "openai"
)

// ModelOptions selects the agent backend and carries its credentials.
type ModelOptions struct {
	Provider string `json:"provider" mapstructure:"provider"`
	Model    string `json:"model"    mapstructure:"model"`

	AnthropicAPIKey string `json:"anthropic-api-key" mapstructure:"anthropic-api-key"`
	OpenAIAPIKey    string `json:"openai-api-key"    mapstructure:"openai-api-key"`
}

func NewModelOptions() *ModelOptions {
	return &ModelOptions{
		Provider: ProviderClaude,
	}
}

// Validate checks the provider kind and the credential for the selected
// provider only. An unset key for the other provider is not an error.
func (o *ModelOptions) Validate() []error {
	var errs []error
	switch strings.ToLower(o.Provider) {
	case ProviderClaude:
		if o.AnthropicAPIKey == "" {
			errs = append(errs, fmt.Errorf("ANTHROPIC_API_KEY is required when using the claude provider"))
		}
	case ProviderOpenAI:
		if o.OpenAIAPIKey == "" {
			errs = append(errs, fmt.Errorf("OPENAI_API_KEY is required when using the openai provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown MODEL_PROVIDER %q, supported providers: %s, %s",
			o.Provider, ProviderClaude, ProviderOpenAI))
	}
	return errs
}

// APIKey returns the credential for the selected provider.
func (o *ModelOptions) APIKey() string {
	switch strings.ToLower(o.Provider) {
	case ProviderOpenAI:
		return o.OpenAIAPIKey
	default:
		return o.AnthropicAPIKey
	}
}

func (o *ModelOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Provider, "provider", o.Provider, "Model provider: 'claude' or 'openai'.")
	fs.StringVar(&o.Model, "model", o.Model, "Model identifier (provider default when empty).")
}
