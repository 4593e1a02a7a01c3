// Package atlassianmcp implements the stdio tool server: a closed catalog of
// Jira and Confluence tools served over the Model Context Protocol. Wire
// framing is delegated to mcp-go's stdio transport; this package owns the
// catalog, the schemas and the handlers.
package atlassianmcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// ErrToolNotFound is returned by Resolve for names outside the catalog.
var ErrToolNotFound = errors.New("tool not found")

// ToolHandler executes one tool call. Handlers validate their own arguments
// and report failures as error results; a non-nil error return is reserved
// for transport-level faults and never used by this package's handlers.
type ToolHandler func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)

// Catalog is the closed, ordered set of tools the server offers. It is
// populated once at startup and read-only afterwards, so no locking is
// needed: the dispatch loop serializes all access.
type Catalog struct {
	tools    []mcp.Tool
	handlers map[string]ToolHandler
}

func NewCatalog() *Catalog {
	return &Catalog{
		handlers: make(map[string]ToolHandler),
	}
}

// MustRegister adds a tool to the catalog. Duplicate names are a programming
// error and panic at startup, before the server accepts any request.
func (c *Catalog) MustRegister(tool mcp.Tool, handler ToolHandler) {
	if _, ok := c.handlers[tool.Name]; ok {
		panic(fmt.Sprintf("tool %q is already registered", tool.Name))
	}
	c.tools = append(c.tools, tool)
	c.handlers[tool.Name] = handler
}

// Tools returns the catalog in registration order.
func (c *Catalog) Tools() []mcp.Tool {
	result := make([]mcp.Tool, len(c.tools))
	copy(result, c.tools)
	return result
}

// Resolve looks up a handler by exact, case-sensitive name.
func (c *Catalog) Resolve(name string) (ToolHandler, error) {
	handler, ok := c.handlers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrToolNotFound, name)
	}
	return handler, nil
}

// Len returns the number of registered tools.
func (c *Catalog) Len() int {
	return len(c.tools)
}

// Call dispatches one tool invocation. An unknown name fails here, before
// any handler runs, as an error result rather than a transport fault.
func (c *Catalog) Call(ctx context.Context, name string, arguments map[string]interface{}) *mcp.CallToolResult {
	handler, err := c.Resolve(name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error: unknown tool %q", name))
	}

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = arguments

	result, err := handler(ctx, req)
	if err != nil {
		// Handlers are written to report failures as error results; this
		// arm keeps a misbehaving handler from tearing down the transport.
		return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err))
	}
	return result
}
