// Package provider maps a configured provider name onto a concrete agent
// backend.
package provider

import (
	"fmt"
	"strings"

	"github.com/Zhuoli/leverage-agent/internal/agent/provider/claude"
	"github.com/Zhuoli/leverage-agent/internal/agent/provider/openai"
	"github.com/Zhuoli/leverage-agent/internal/agent/provider/spi"
	"github.com/Zhuoli/leverage-agent/internal/pkg/options"
)

// New builds the backend named by kind. Unknown names fail before any
// credential check or resource acquisition; matching is case-insensitive.
func New(kind string, cfg spi.SessionConfig) (spi.Provider, error) {
	switch strings.ToLower(kind) {
	case options.ProviderClaude:
		return claude.New(cfg)
	case options.ProviderOpenAI:
		return openai.New(cfg)
	default:
		return nil, fmt.Errorf("unknown provider %q, supported providers: %s, %s",
			kind, options.ProviderClaude, options.ProviderOpenAI)
	}
}
