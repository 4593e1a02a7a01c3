// Package openai backs the agent with OpenAI models through the Eino chat
// model adapter. Each turn attaches a fresh tool server session and releases
// it before returning, whatever the outcome of the turn.
package openai

import (
	"context"
	"fmt"

	"github.com/bytedance/gg/gptr"
	einoOpenAI "github.com/cloudwego/eino-ext/components/model/openai"
	einoModel "github.com/cloudwego/eino/components/model"

	"github.com/Zhuoli/leverage-agent/internal/agent/provider/helper"
	"github.com/Zhuoli/leverage-agent/internal/agent/provider/spi"
	"github.com/Zhuoli/leverage-agent/pkg/logger"
)

const Name = "openai"

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4"

const defaultMaxTokens = 4096

var _ spi.Provider = (*Provider)(nil)

type Provider struct {
	cfg       spi.SessionConfig
	chatModel einoModel.ToolCallingChatModel

	turn func(ctx context.Context, message string) (string, error)
}

// New builds the provider, failing fast on missing credentials before any
// subprocess or network resource is touched.
func New(cfg spi.SessionConfig) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	chatModel, err := einoOpenAI.NewChatModel(context.Background(), &einoOpenAI.ChatModelConfig{
		APIKey:    cfg.APIKey,
		Model:     cfg.Model,
		MaxTokens: gptr.Of(defaultMaxTokens),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build openai chat model: %w", err)
	}

	p := &Provider{
		cfg:       cfg,
		chatModel: chatModel,
	}
	p.turn = p.runTurn

	logger.Debug("[Agent] openai provider ready, model=%s", cfg.Model)
	return p, nil
}

func (p *Provider) Name() string { return Name }

// Chat runs one turn. Failures are folded into the returned text so the
// conversation surface never faults.
func (p *Provider) Chat(ctx context.Context, message string) string {
	reply, err := p.turn(ctx, message)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	return reply
}

// runTurn scopes the tool server session to this turn: the subprocess is
// launched on entry and reaped on every exit path.
func (p *Provider) runTurn(ctx context.Context, message string) (string, error) {
	session, err := helper.Attach(ctx, p.cfg.ServerCommand, p.cfg.ServerArgs...)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			logger.Warn("[Agent] openai provider: session close: %v", cerr)
		}
	}()

	return helper.RunTurn(ctx, p.chatModel, session.Tools(), p.cfg.SystemPrompt, message)
}

// Close is a no-op: sessions never outlive a turn.
func (p *Provider) Close() error { return nil }
