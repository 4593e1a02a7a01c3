package claude

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Zhuoli/leverage-agent/internal/agent/provider/spi"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	p, err := New(spi.SessionConfig{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New(spi.SessionConfig{}); err == nil {
		t.Fatal("expected error for missing API key")
	} else if !strings.Contains(err.Error(), "ANTHROPIC_API_KEY") {
		t.Errorf("error = %q, want ANTHROPIC_API_KEY mention", err)
	}
}

func TestNewAppliesDefaultModel(t *testing.T) {
	p := newTestProvider(t)
	if p.cfg.Model != DefaultModel {
		t.Errorf("model = %q, want %q", p.cfg.Model, DefaultModel)
	}

	p2, err := New(spi.SessionConfig{APIKey: "test-key", Model: "claude-3-opus-20240229"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p2.cfg.Model != "claude-3-opus-20240229" {
		t.Errorf("model = %q, want explicit model preserved", p2.cfg.Model)
	}
}

func TestChatFoldsErrorsIntoText(t *testing.T) {
	p := newTestProvider(t)
	p.turn = func(ctx context.Context, message string) (string, error) {
		return "", errors.New("connection refused")
	}

	got := p.Chat(context.Background(), "hello")
	if got != "Error: connection refused" {
		t.Errorf("Chat = %q, want folded error text", got)
	}
}

func TestChatPassesReplyThrough(t *testing.T) {
	p := newTestProvider(t)
	var seen string
	p.turn = func(ctx context.Context, message string) (string, error) {
		seen = message
		return "Found 2 issue(s).", nil
	}

	got := p.Chat(context.Background(), "what are my sprint tasks?")
	if got != "Found 2 issue(s)." {
		t.Errorf("Chat = %q, want reply passed through", got)
	}
	if seen != "what are my sprint tasks?" {
		t.Errorf("turn received %q, want original message", seen)
	}
}

func TestCloseWithoutSessionIsNoop(t *testing.T) {
	p := newTestProvider(t)
	if err := p.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestName(t *testing.T) {
	if got := newTestProvider(t).Name(); got != "claude" {
		t.Errorf("Name = %q", got)
	}
}
