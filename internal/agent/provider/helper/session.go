// Package helper holds the plumbing shared by the agent backends: stdio
// tool-server sessions and the single-turn ReAct loop.
package helper

import (
	"context"
	"fmt"

	mcpTool "github.com/cloudwego/eino-ext/components/tool/mcp"
	"github.com/cloudwego/eino/components/tool"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Zhuoli/leverage-agent/pkg/logger"
)

const (
	clientName    = "leverage-agent"
	clientVersion = "0.1.0"
)

// ToolSession is one live connection to the stdio tool server: the launched
// subprocess plus the tools discovered over it. Callers own the session and
// must Close it to reap the subprocess.
type ToolSession struct {
	id    string
	cli   client.MCPClient
	tools []tool.BaseTool
}

// Attach launches the tool server subprocess, runs the protocol handshake
// and discovers its tools. The subprocess inherits the parent environment,
// which carries the Atlassian credentials.
func Attach(ctx context.Context, command string, args ...string) (*ToolSession, error) {
	if command == "" {
		return nil, fmt.Errorf("tool server command is not configured")
	}

	id := uuid.NewString()
	cli, err := client.NewStdioMCPClient(command, nil, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to launch tool server %q: %w", command, err)
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    clientName,
		Version: clientVersion,
	}

	if _, err := cli.Initialize(ctx, initReq); err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("failed to initialize tool server session: %w", err)
	}

	tools, err := mcpTool.GetTools(ctx, &mcpTool.Config{Cli: cli})
	if err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("failed to discover tools: %w", err)
	}

	logger.Debug("[Agent] session %s: attached to tool server %q, %d tools discovered", id, command, len(tools))

	return &ToolSession{id: id, cli: cli, tools: tools}, nil
}

// Tools returns the tools discovered during the handshake.
func (s *ToolSession) Tools() []tool.BaseTool {
	result := make([]tool.BaseTool, len(s.tools))
	copy(result, s.tools)
	return result
}

// Close shuts down the tool server subprocess. Safe to call more than once.
func (s *ToolSession) Close() error {
	if s.cli == nil {
		return nil
	}
	err := s.cli.Close()
	s.cli = nil
	s.tools = nil
	if err != nil {
		logger.Warn("[Agent] session %s: close failed: %v", s.id, err)
	}
	return err
}
