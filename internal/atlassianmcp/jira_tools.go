package atlassianmcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Zhuoli/leverage-agent/internal/atlassian"
)

// JiraService is the slice of the Jira client the tool handlers need.
type JiraService interface {
	SearchIssues(ctx context.Context, jql string, maxResults int) ([]atlassian.RawIssue, error)
	SprintIssues(ctx context.Context, includeFuture bool, maxResults int) ([]atlassian.RawIssue, error)
	CreateIssue(ctx context.Context, projectKey, summary, description, issueType string) (string, error)
	UpdateIssue(ctx context.Context, issueKey string, fields map[string]interface{}) (atlassian.RawIssue, error)
	AddComment(ctx context.Context, issueKey, comment string) error
	FormatIssue(raw atlassian.RawIssue) atlassian.Issue
	BaseURL() string
}

// registerJiraTools adds the five Jira tools to the catalog.
func registerJiraTools(c *Catalog, jira JiraService) {
	c.MustRegister(mcp.NewTool("search_jira_tickets",
		mcp.WithDescription("Search for Jira tickets using JQL (Jira Query Language). Example: 'assignee=currentUser() AND status!=Done'"),
		mcp.WithString("jql", mcp.Required(), mcp.Description("JQL query string")),
		mcp.WithNumber("max_results", mcp.DefaultNumber(50), mcp.Description("Maximum number of results (default: 50)")),
	), searchJiraTickets(jira))

	c.MustRegister(mcp.NewTool("create_jira_ticket",
		mcp.WithDescription("Create a new Jira ticket in a project"),
		mcp.WithString("project_key", mcp.Required(), mcp.Description("Project key (e.g., 'PROJ')")),
		mcp.WithString("summary", mcp.Required(), mcp.Description("Issue summary/title")),
		mcp.WithString("description", mcp.Required(), mcp.Description("Issue description")),
		mcp.WithString("issue_type", mcp.DefaultString("Task"), mcp.Description("Issue type (Task, Bug, Story, etc.)")),
	), createJiraTicket(jira))

	c.MustRegister(mcp.NewTool("update_jira_ticket",
		mcp.WithDescription("Update an existing Jira ticket"),
		mcp.WithString("issue_key", mcp.Required(), mcp.Description("Issue key (e.g., 'PROJ-123')")),
		mcp.WithString("summary", mcp.Description("New summary")),
		mcp.WithString("description", mcp.Description("New description")),
	), updateJiraTicket(jira))

	c.MustRegister(mcp.NewTool("add_jira_comment",
		mcp.WithDescription("Add a comment to a Jira ticket"),
		mcp.WithString("issue_key", mcp.Required(), mcp.Description("Issue key (e.g., 'PROJ-123')")),
		mcp.WithString("comment", mcp.Required(), mcp.Description("Comment text")),
	), addJiraComment(jira))

	c.MustRegister(mcp.NewTool("get_my_sprint_tasks",
		mcp.WithDescription("Get Jira tasks assigned to me in active sprints"),
		mcp.WithBoolean("include_future_sprints", mcp.DefaultBool(false), mcp.Description("Include future sprints (default: false)")),
		mcp.WithNumber("max_results", mcp.DefaultNumber(50), mcp.Description("Maximum number of results (default: 50)")),
	), getMySprintTasks(jira))
}

func searchJiraTickets(jira JiraService) ToolHandler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jql := req.GetString("jql", "")
		if jql == "" {
			return mcp.NewToolResultError("Error: 'jql' parameter is required"), nil
		}
		maxResults := req.GetInt("max_results", 50)

		issues, err := jira.SearchIssues(ctx, jql, maxResults)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error searching Jira tickets: %v", err)), nil
		}
		if len(issues) == 0 {
			return mcp.NewToolResultText("No issues found matching the query."), nil
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Found %d issue(s):\n\n", len(issues))
		for i, raw := range issues {
			issue := jira.FormatIssue(raw)
			fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, issue.Key, issue.Summary)
			fmt.Fprintf(&b, "   Status: %s | Priority: %s\n", issue.Status, issue.Priority)
			fmt.Fprintf(&b, "   Type: %s | Assignee: %s\n", issue.IssueType, issue.Assignee)
			if issue.Sprint != "" {
				fmt.Fprintf(&b, "   Sprint: %s\n", issue.Sprint)
			}
			fmt.Fprintf(&b, "   URL: %s\n\n", issue.URL)
		}
		return mcp.NewToolResultText(b.String()), nil
	}
}

func createJiraTicket(jira JiraService) ToolHandler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectKey := req.GetString("project_key", "")
		summary := req.GetString("summary", "")
		description := req.GetString("description", "")
		if projectKey == "" || summary == "" || description == "" {
			return mcp.NewToolResultError("Error: 'project_key', 'summary', and 'description' are required"), nil
		}
		issueType := req.GetString("issue_type", "Task")

		key, err := jira.CreateIssue(ctx, projectKey, summary, description, issueType)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error creating Jira ticket: %v", err)), nil
		}

		var b strings.Builder
		fmt.Fprintf(&b, "✓ Created Jira ticket: %s\n", key)
		fmt.Fprintf(&b, "Summary: %s\n", summary)
		fmt.Fprintf(&b, "Type: %s\n", issueType)
		fmt.Fprintf(&b, "URL: %s/browse/%s\n", jira.BaseURL(), key)
		return mcp.NewToolResultText(b.String()), nil
	}
}

func updateJiraTicket(jira JiraService) ToolHandler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		issueKey := req.GetString("issue_key", "")
		if issueKey == "" {
			return mcp.NewToolResultError("Error: 'issue_key' is required"), nil
		}

		// Only fields present in the request are updated.
		args := req.GetArguments()
		fields := make(map[string]interface{})
		if summary, ok := args["summary"]; ok {
			fields["summary"] = summary
		}
		if description, ok := args["description"]; ok {
			fields["description"] = description
		}
		if len(fields) == 0 {
			return mcp.NewToolResultError("Error: At least one field to update must be provided"), nil
		}

		updated, err := jira.UpdateIssue(ctx, issueKey, fields)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error updating Jira ticket: %v", err)), nil
		}
		issue := jira.FormatIssue(updated)

		var b strings.Builder
		fmt.Fprintf(&b, "✓ Updated Jira ticket: %s\n", issueKey)
		fmt.Fprintf(&b, "Summary: %s\n", issue.Summary)
		fmt.Fprintf(&b, "Status: %s\n", issue.Status)
		fmt.Fprintf(&b, "URL: %s\n", issue.URL)
		return mcp.NewToolResultText(b.String()), nil
	}
}

func addJiraComment(jira JiraService) ToolHandler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		issueKey := req.GetString("issue_key", "")
		comment := req.GetString("comment", "")
		if issueKey == "" || comment == "" {
			return mcp.NewToolResultError("Error: 'issue_key' and 'comment' are required"), nil
		}

		if err := jira.AddComment(ctx, issueKey, comment); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error adding comment to Jira ticket: %v", err)), nil
		}

		var b strings.Builder
		fmt.Fprintf(&b, "✓ Added comment to Jira ticket: %s\n", issueKey)
		fmt.Fprintf(&b, "Comment: %s\n", comment)
		return mcp.NewToolResultText(b.String()), nil
	}
}

func getMySprintTasks(jira JiraService) ToolHandler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		includeFuture := req.GetBool("include_future_sprints", false)
		maxResults := req.GetInt("max_results", 50)

		issues, err := jira.SprintIssues(ctx, includeFuture, maxResults)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error getting sprint tasks: %v", err)), nil
		}
		if len(issues) == 0 {
			return mcp.NewToolResultText("No sprint tasks found."), nil
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Found %d sprint task(s):\n\n", len(issues))
		for i, raw := range issues {
			issue := jira.FormatIssue(raw)
			fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, issue.Key, issue.Summary)
			fmt.Fprintf(&b, "   Status: %s | Priority: %s\n", issue.Status, issue.Priority)
			if issue.Sprint != "" {
				fmt.Fprintf(&b, "   Sprint: %s\n", issue.Sprint)
			}
			if issue.StoryPoints > 0 {
				fmt.Fprintf(&b, "   Story Points: %g\n", issue.StoryPoints)
			}
			fmt.Fprintf(&b, "   URL: %s\n\n", issue.URL)
		}
		return mcp.NewToolResultText(b.String()), nil
	}
}
