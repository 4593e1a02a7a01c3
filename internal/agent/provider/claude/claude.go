// Package claude backs the agent with Anthropic models through the Eino
// chat model adapter. The tool server session is attached lazily on the
// first turn and then held for the lifetime of the provider.
package claude

import (
	"context"
	"fmt"
	"sync"

	einoClaude "github.com/cloudwego/eino-ext/components/model/claude"
	einoModel "github.com/cloudwego/eino/components/model"

	"github.com/Zhuoli/leverage-agent/internal/agent/provider/helper"
	"github.com/Zhuoli/leverage-agent/internal/agent/provider/spi"
	"github.com/Zhuoli/leverage-agent/pkg/logger"
)

const Name = "claude"

// DefaultModel is used when no model is configured.
const DefaultModel = "claude-3-5-sonnet-20241022"

const defaultMaxTokens = 4096

var _ spi.Provider = (*Provider)(nil)

type Provider struct {
	cfg       spi.SessionConfig
	chatModel einoModel.ToolCallingChatModel

	mu      sync.Mutex
	session *helper.ToolSession

	turn func(ctx context.Context, message string) (string, error)
}

// New builds the provider, failing fast on missing credentials before any
// subprocess or network resource is touched.
func New(cfg spi.SessionConfig) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is required for the claude provider")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	chatModel, err := einoClaude.NewChatModel(context.Background(), &einoClaude.Config{
		APIKey:    cfg.APIKey,
		Model:     cfg.Model,
		MaxTokens: defaultMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build claude chat model: %w", err)
	}

	p := &Provider{
		cfg:       cfg,
		chatModel: chatModel,
	}
	p.turn = p.runTurn

	logger.Debug("[Agent] claude provider ready, model=%s", cfg.Model)
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

func (p *Provider) runTurn(ctx context.Context, message string) (string, error) {
	session, err := p.ensureSession(ctx)
	if err != nil {
		return "", err
	}
	return helper.RunTurn(ctx, p.chatModel, session.Tools(), p.cfg.SystemPrompt, message)
}

// ensureSession attaches the tool server on first use and keeps the session
// for subsequent turns.
func (p *Provider) ensureSession(ctx context.Context) (*helper.ToolSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.session != nil {
		return p.session, nil
	}

	session, err := helper.Attach(ctx, p.cfg.ServerCommand, p.cfg.ServerArgs...)
	if err != nil {
		return nil, err
	}
	p.session = session
	return session, nil
}

// Close releases the persistent tool server session, if one was attached.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.session == nil {
		return nil
	}
	err := p.session.Close()
	p.session = nil
	return err
}
