package cmd

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/Zhuoli/leverage-agent/internal/atlassian"
)

type confluenceOptions struct {
	root *rootOptions

	spaceKey   string
	maxResults int
}

func newConfluenceCommand(root *rootOptions) *cobra.Command {
	o := &confluenceOptions{root: root}

	cmd := &cobra.Command{
		Use:   "confluence",
		Short: "Work with Confluence pages",
		Example: heredoc.Doc(`
			# Search pages in the default space
			leverage confluence search "API documentation"

			# Read a page by title
			leverage confluence read --title "Getting Started Guide"

			# Show recently updated pages
			leverage confluence recent`),
		Run: runHelp,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&o.spaceKey, "space", "", "Space key; overrides CONFLUENCE_SPACE_KEY.")
	flags.IntVar(&o.maxResults, "max-results", 10, "Maximum number of pages to list.")

	cmd.AddCommand(
		newConfluenceSearchCommand(o),
		newConfluenceReadCommand(o),
		newConfluenceRecentCommand(o),
	)

	return cmd
}

func (o *confluenceOptions) client() (*atlassian.ConfluenceClient, error) {
	cfg := o.root.Config()
	if err := aggregate(cfg.Atlassian.Validate()); err != nil {
		return nil, err
	}
	return atlassian.NewConfluenceClient(cfg.Atlassian, nil), nil
}

func (o *confluenceOptions) renderPages(client *atlassian.ConfluenceClient, raw []atlassian.RawPage) {
	table := uitable.New()
	table.MaxColWidth = 60
	table.AddRow("ID", "SPACE", "UPDATED", "TITLE")
	for _, r := range raw {
		page := client.FormatPage(r)
		table.AddRow(page.ID, page.Space, page.LastModified, page.Title)
	}
	fmt.Fprintln(o.root.Out, table)
}

func newConfluenceSearchCommand(o *confluenceOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search pages by text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.root.sdk {
				a, err := o.root.newAgent()
				if err != nil {
					return err
				}
				defer a.Close()
				fmt.Fprintln(o.root.Out, a.SearchDocs(cmd.Context(), args[0]))
				return nil
			}
			client, err := o.client()
			if err != nil {
				return err
			}
			raw, err := client.SearchPages(cmd.Context(), args[0], o.spaceKey, o.maxResults)
			if err != nil {
				return err
			}
			if len(raw) == 0 {
				fmt.Fprintln(o.root.Out, "No pages found matching the query.")
				return nil
			}
			o.renderPages(client, raw)
			return nil
		},
	}
}

func newConfluenceReadCommand(o *confluenceOptions) *cobra.Command {
	var pageID, title string

	cmd := &cobra.Command{
		Use:   "read",
		Short: "Print a page's content",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := o.client()
			if err != nil {
				return err
			}
			content, err := client.PageContent(cmd.Context(), pageID, title, o.spaceKey)
			if err != nil {
				return err
			}
			fmt.Fprintln(o.root.Out, content)
			return nil
		},
	}

	cmd.Flags().StringVar(&pageID, "id", "", "Page ID to read.")
	cmd.Flags().StringVar(&title, "title", "", "Page title to read.")

	return cmd
}

func newConfluenceRecentCommand(o *confluenceOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "List recently updated pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.root.sdk {
				a, err := o.root.newAgent()
				if err != nil {
					return err
				}
				defer a.Close()
				fmt.Fprintln(o.root.Out, a.Chat(cmd.Context(), "Show me recently updated Confluence pages in our space"))
				return nil
			}
			client, err := o.client()
			if err != nil {
				return err
			}
			raw, err := client.RecentPages(cmd.Context(), o.spaceKey, o.maxResults)
			if err != nil {
				return err
			}
			if len(raw) == 0 {
				fmt.Fprintln(o.root.Out, "No recent pages found.")
				return nil
			}
			o.renderPages(client, raw)
			return nil
		},
	}
}
