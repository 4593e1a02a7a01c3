// Package cmd builds the leverage command tree.
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Zhuoli/leverage-agent/internal/agent"
	"github.com/Zhuoli/leverage-agent/internal/pkg/options"
	"github.com/Zhuoli/leverage-agent/pkg/logger"
)

// IOStreams bundles the command's terminal handles so tests can supply
// buffers.
type IOStreams struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

// NewDefaultLeverageCommand creates the `leverage` command with default
// arguments.
func NewDefaultLeverageCommand() *cobra.Command {
	return NewLeverageCommand(IOStreams{In: os.Stdin, Out: os.Stdout, ErrOut: os.Stderr})
}

func NewLeverageCommand(streams IOStreams) *cobra.Command {
	o := newRootOptions(streams)

	cmds := &cobra.Command{
		Use:   "leverage",
		Short: "AI assistant for your Jira and Confluence instances",
		Long: heredoc.Doc(`
			leverage is an AI assistant wired to your Jira and Confluence
			instances through a stdio tool server.

			It can answer questions about your sprint, search and update
			tickets, and work with Confluence documentation, either through
			a conversational session or direct subcommands.

			Configuration comes from the environment (or a .env file):
			JIRA_URL, JIRA_USERNAME, JIRA_API_TOKEN, CONFLUENCE_URL,
			CONFLUENCE_USERNAME, CONFLUENCE_API_TOKEN, CONFLUENCE_SPACE_KEY,
			MODEL_PROVIDER, MODEL_NAME, ANTHROPIC_API_KEY, OPENAI_API_KEY.`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetVerbose(o.verbose)
		},
		Run: runHelp,
	}

	flags := cmds.PersistentFlags()
	o.modelFlags.AddFlags(flags)
	o.agentFlags.AddFlags(flags)
	flags.BoolVar(&o.sdk, "sdk", false, "Route jira/confluence reads through the assistant instead of direct REST calls.")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "Enable debug logging.")

	cmds.AddCommand(
		newChatCommand(o),
		newJiraCommand(o),
		newConfluenceCommand(o),
	)

	return cmds
}

func runHelp(cmd *cobra.Command, args []string) {
	_ = cmd.Help()
}

// rootOptions carries the persistent flags and the lazily loaded
// configuration shared by every subcommand.
type rootOptions struct {
	IOStreams

	sdk     bool
	verbose bool

	// Flag-bound option structs, layered over the environment at load time.
	modelFlags *options.ModelOptions
	agentFlags *options.AgentOptions

	cfg *options.Config
}

func newRootOptions(streams IOStreams) *rootOptions {
	return &rootOptions{
		IOStreams:  streams,
		modelFlags: &options.ModelOptions{},
		agentFlags: options.NewAgentOptions(),
	}
}

// Config loads the environment configuration once and applies flag
// overrides on top.
func (o *rootOptions) Config() *options.Config {
	if o.cfg == nil {
		cfg := options.LoadFromEnv()
		if o.modelFlags.Provider != "" {
			cfg.Models.Provider = o.modelFlags.Provider
		}
		if o.modelFlags.Model != "" {
			cfg.Models.Model = o.modelFlags.Model
		}
		if o.agentFlags.ServerCommand != "" {
			cfg.Agent.ServerCommand = o.agentFlags.ServerCommand
		}
		if o.agentFlags.SkillsDir != "" {
			cfg.Agent.SkillsDir = o.agentFlags.SkillsDir
		}
		o.cfg = cfg
	}
	return o.cfg
}

// newAgent validates the full configuration and assembles the agent.
func (o *rootOptions) newAgent() (*agent.Agent, error) {
	cfg := o.Config()
	if err := aggregate(cfg.Validate()); err != nil {
		return nil, err
	}
	return agent.New(cfg)
}

func aggregate(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}
