package atlassianmcp

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Zhuoli/leverage-agent/internal/atlassian"
	"github.com/Zhuoli/leverage-agent/internal/pkg/options"
	"github.com/Zhuoli/leverage-agent/pkg/logger"
)

// NewApp builds the atlassian-mcp root command. Stdout is reserved for
// protocol frames, so all diagnostics go to stderr or the log file.
func NewApp(name string) *cobra.Command {
	var (
		logFile string
		verbose bool
	)
	overrides := options.NewAtlassianOptions()

	cmd := &cobra.Command{
		Use:   name,
		Short: "Serve Jira and Confluence tools over stdio",
		Long: heredoc.Doc(`
			Expose a fixed set of Jira and Confluence tools over the stdio
			transport. The process is meant to be launched as a subprocess
			by an agent, not run by hand.

			Configuration comes from the environment (or a .env file):
			JIRA_URL, JIRA_USERNAME, JIRA_API_TOKEN, CONFLUENCE_URL,
			CONFLUENCE_USERNAME, CONFLUENCE_API_TOKEN, CONFLUENCE_SPACE_KEY.`),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.SetVerbose(verbose)
			if logFile != "" {
				if err := logger.InitLog(logFile); err != nil {
					return err
				}
				defer logger.FlushLog()
			}
			cfg := options.LoadFromEnv()
			cfg.Atlassian.Override(overrides)
			cfg.Atlassian.Complete()
			return Run(cfg)
		},
	}

	overrides.AddFlags(cmd.Flags())
	cmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr.")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging.")

	return cmd
}

// Run validates the Atlassian settings, wires the REST clients into a
// server and blocks on the stdio transport.
func Run(cfg *options.Config) error {
	if errs := cfg.Atlassian.Validate(); len(errs) > 0 {
		for _, err := range errs {
			logger.Error("[MCP] %v", err)
		}
		return errs[0]
	}

	jira := atlassian.NewJiraClient(cfg.Atlassian, nil)
	confluence := atlassian.NewConfluenceClient(cfg.Atlassian, nil)

	return NewServer(jira, confluence).Serve()
}
