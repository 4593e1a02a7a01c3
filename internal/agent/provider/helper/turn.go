package helper

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/flow/agent/react"
	"github.com/cloudwego/eino/schema"
)

// maxTurnSteps bounds the model → tool_call → result loop within a single
// conversational turn.
const maxTurnSteps = 20

// RunTurn executes one complete conversational turn: build a ReAct agent
// over the given model and tools, feed it the system prompt plus the user
// message, and return the final assistant text.
func RunTurn(ctx context.Context, chatModel model.ToolCallingChatModel, tools []tool.BaseTool, systemPrompt, message string) (string, error) {
	reactAgent, err := react.NewAgent(ctx, &react.AgentConfig{
		ToolCallingModel: chatModel,
		ToolsConfig: compose.ToolsNodeConfig{
			Tools: tools,
		},
		MaxStep: maxTurnSteps,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create agent: %w", err)
	}

	reply, err := reactAgent.Generate(ctx, []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(message),
	})
	if err != nil {
		return "", err
	}

	return reply.Content, nil
}
