// Package agent is the conversational layer over the Atlassian tool server.
// It assembles a backend from configuration, folds skills into the system
// prompt, and exposes chat plus a few common workflows.
package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/Zhuoli/leverage-agent/internal/agent/provider"
	"github.com/Zhuoli/leverage-agent/internal/agent/provider/spi"
	"github.com/Zhuoli/leverage-agent/internal/agent/skills"
	"github.com/Zhuoli/leverage-agent/internal/pkg/options"
	"github.com/Zhuoli/leverage-agent/pkg/logger"
)

type Agent struct {
	provider spi.Provider

	in  io.Reader
	out io.Writer
}

// New assembles an agent from configuration: skills are loaded, the system
// prompt is built, and the configured backend is constructed. Construction
// fails on unknown providers and missing credentials.
func New(cfg *options.Config) (*Agent, error) {
	loaded, err := skills.Load(cfg.Agent.SkillsDir)
	if err != nil {
		return nil, err
	}
	if len(loaded) > 0 {
		logger.Debug("[Agent] loaded %d skill(s) from %s", len(loaded), cfg.Agent.SkillsDir)
	}

	p, err := provider.New(cfg.Models.Provider, spi.SessionConfig{
		Model:         cfg.Models.Model,
		APIKey:        cfg.Models.APIKey(),
		ServerCommand: cfg.Agent.ServerCommand,
		ServerArgs:    cfg.Agent.ServerArgs,
		SystemPrompt:  SystemPrompt(loaded),
	})
	if err != nil {
		return nil, err
	}

	logger.Info("[Agent] initialized, provider=%s model=%s", p.Name(), cfg.Models.Model)
	return newAgent(p), nil
}

func newAgent(p spi.Provider) *Agent {
	return &Agent{
		provider: p,
		in:       os.Stdin,
		out:      os.Stdout,
	}
}

// Provider reports the name of the active backend.
func (a *Agent) Provider() string { return a.provider.Name() }

// SetIO redirects the interactive session's terminal handles.
func (a *Agent) SetIO(in io.Reader, out io.Writer) {
	a.in = in
	a.out = out
}

// Chat runs one conversational turn. The reply is always printable text;
// failures come back as "Error: ..." messages.
func (a *Agent) Chat(ctx context.Context, message string) string {
	return a.provider.Chat(ctx, message)
}

// Close releases the backend and any tool server session it holds.
func (a *Agent) Close() error {
	return a.provider.Close()
}

// Common workflows, phrased as chat turns.

func (a *Agent) SprintTasks(ctx context.Context) string {
	return a.Chat(ctx, "Show me my current sprint tasks")
}

func (a *Agent) SearchDocs(ctx context.Context, query string) string {
	return a.Chat(ctx, "Search Confluence for: "+query)
}

func (a *Agent) AnalyzeWorkload(ctx context.Context) string {
	return a.Chat(ctx, "Analyze my current workload and suggest priorities")
}

func (a *Agent) HighPriorityTasks(ctx context.Context) string {
	return a.Chat(ctx, "Show me my high priority tasks")
}

func (a *Agent) SearchIssues(ctx context.Context, jql string) string {
	return a.Chat(ctx, "Search Jira with this JQL: "+jql)
}

const divider = "------------------------------------------------------------"

// Interactive runs the line-oriented chat loop until the user quits, the
// input stream ends, or the context is canceled.
func (a *Agent) Interactive(ctx context.Context) error {
	banner := color.New(color.FgCyan, color.Bold)
	banner.Fprintln(a.out, "ATLASSIAN AI ASSISTANT")
	fmt.Fprintln(a.out, "Provider:", a.Provider())
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "Commands:")
	fmt.Fprintln(a.out, "  - Type your question or request")
	fmt.Fprintln(a.out, "  - 'quit' or 'exit' to end session")
	fmt.Fprintln(a.out, "  - 'help' for examples")
	fmt.Fprintln(a.out)

	// The reader gets its own goroutine so a blocked Scan cannot hold up
	// cancellation.
	scanner := bufio.NewScanner(a.in)
	lines := make(chan string)
	go func() {
		defer close(lines)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		if ctx.Err() != nil {
			fmt.Fprintln(a.out, "\nGoodbye!")
			return ctx.Err()
		}
		fmt.Fprint(a.out, "> ")

		var input string
		select {
		case <-ctx.Done():
			fmt.Fprintln(a.out, "\nGoodbye!")
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(a.out, "\nGoodbye!")
				return scanner.Err()
			}
			input = strings.TrimSpace(line)
		}

		switch strings.ToLower(input) {
		case "":
			continue
		case "quit", "exit", "q":
			fmt.Fprintln(a.out, "Goodbye!")
			return nil
		case "help":
			fmt.Fprintln(a.out, helpText)
			continue
		}

		fmt.Fprintln(a.out, "Thinking...")
		reply := a.Chat(ctx, input)

		fmt.Fprintln(a.out, divider)
		fmt.Fprintln(a.out, reply)
		fmt.Fprintln(a.out, divider)
	}
}

const helpText = `
Available Commands & Examples:

JIRA QUERIES:
  - "Show me my sprint tasks"
  - "What are my high priority bugs?"
  - "Search for tickets about authentication"
  - "What tickets are blocked?"

JIRA ACTIONS:
  - "Create a task for implementing user API"
  - "Add a comment to PROJ-123 about progress"
  - "Update PROJ-456 with new status"

CONFLUENCE QUERIES:
  - "Search for API documentation"
  - "Find pages about deployment process"
  - "Show me recent updates in our team space"

CONFLUENCE ACTIONS:
  - "Create a page documenting the new feature"
  - "Update the API guide with new endpoints"

ANALYSIS:
  - "Analyze my sprint workload"
  - "What should I prioritize this week?"

Type 'quit' or 'exit' to end the session.`
