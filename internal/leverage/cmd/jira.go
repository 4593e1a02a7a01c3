package cmd

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/Zhuoli/leverage-agent/internal/atlassian"
)

var jiraExample = heredoc.Doc(`
	# List my open sprint tasks
	leverage jira

	# Include future sprints and widen the result window
	leverage jira --all-issues --max-results 50

	# Run a raw JQL query
	leverage jira --jql 'project = PROJ AND status = "In Progress"'

	# Ask the assistant about your tickets
	leverage jira --question "Which of my tickets are blocked?"`)

type jiraOptions struct {
	root *rootOptions

	allIssues  bool
	maxResults int
	jql        string
	question   string
}

func newJiraCommand(root *rootOptions) *cobra.Command {
	o := &jiraOptions{root: root}

	cmd := &cobra.Command{
		Use:   "jira",
		Short: "Work with your Jira tickets",
		Long: heredoc.Doc(`
			List your sprint tasks, run raw JQL queries, or ask the
			assistant about your tickets.

			Without flags the command lists issues assigned to you in open
			sprints, ordered by priority.`),
		Example: jiraExample,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd)
		},
	}

	cmd.Flags().BoolVar(&o.allIssues, "all-issues", false, "Include future sprints as well as open ones.")
	cmd.Flags().IntVar(&o.maxResults, "max-results", 20, "Maximum number of issues to list.")
	cmd.Flags().StringVar(&o.jql, "jql", "", "Raw JQL query to run instead of the sprint listing.")
	cmd.Flags().StringVarP(&o.question, "question", "q", "", "Route a free-form question through the assistant.")

	return cmd
}

func (o *jiraOptions) run(cmd *cobra.Command) error {
	if o.question != "" || o.root.sdk {
		a, err := o.root.newAgent()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		switch {
		case o.question != "":
			fmt.Fprintln(o.root.Out, a.Chat(ctx, o.question))
		case o.jql != "":
			fmt.Fprintln(o.root.Out, a.SearchIssues(ctx, o.jql))
		default:
			fmt.Fprintln(o.root.Out, a.SprintTasks(ctx))
		}
		return nil
	}

	cfg := o.root.Config()
	if err := aggregate(cfg.Atlassian.Validate()); err != nil {
		return err
	}
	client := atlassian.NewJiraClient(cfg.Atlassian, nil)

	var (
		raw []atlassian.RawIssue
		err error
	)
	if o.jql != "" {
		raw, err = client.SearchIssues(cmd.Context(), o.jql, o.maxResults)
	} else {
		raw, err = client.SprintIssues(cmd.Context(), o.allIssues, o.maxResults)
	}
	if err != nil {
		return err
	}

	if len(raw) == 0 {
		fmt.Fprintln(o.root.Out, "No issues found.")
		return nil
	}

	table := uitable.New()
	table.MaxColWidth = 60
	table.AddRow("KEY", "STATUS", "PRIORITY", "SPRINT", "SUMMARY")
	for _, r := range raw {
		issue := client.FormatIssue(r)
		table.AddRow(issue.Key, issue.Status, issue.Priority, issue.Sprint, issue.Summary)
	}
	fmt.Fprintln(o.root.Out, table)

	return nil
}
