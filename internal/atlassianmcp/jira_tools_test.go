package atlassianmcp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Zhuoli/leverage-agent/internal/atlassian"
)

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("nil result")
	}
	if len(result.Content) != 1 {
		t.Fatalf("expected a single content block, got %d", len(result.Content))
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return text.Text
}

func TestSearchJiraTicketsMissingJQL(t *testing.T) {
	srv, jira, _ := newTestServer()

	for _, args := range []map[string]interface{}{{}, {"jql": ""}, {"max_results": 10}} {
		result := srv.Catalog().Call(context.Background(), "search_jira_tickets", args)
		if !result.IsError {
			t.Errorf("expected error result for args %v", args)
		}
		if text := resultText(t, result); !strings.Contains(text, "'jql' parameter is required") {
			t.Errorf("unexpected message: %q", text)
		}
	}
	if jira.searchCalls != 0 {
		t.Errorf("expected no remote calls, got %d", jira.searchCalls)
	}
}

func TestSearchJiraTicketsRemoteError(t *testing.T) {
	srv, jira, _ := newTestServer()
	jira.err = errors.New("connection refused")

	result := srv.Catalog().Call(context.Background(), "search_jira_tickets",
		map[string]interface{}{"jql": "project = PROJ"})
	if !result.IsError {
		t.Fatal("expected error result")
	}
	text := resultText(t, result)
	if !strings.HasPrefix(text, "Error searching Jira tickets:") {
		t.Errorf("unexpected message: %q", text)
	}
	if !strings.Contains(text, "connection refused") {
		t.Errorf("expected cause in message, got %q", text)
	}
}

func TestSearchJiraTicketsNoMatches(t *testing.T) {
	srv, _, _ := newTestServer()

	result := srv.Catalog().Call(context.Background(), "search_jira_tickets",
		map[string]interface{}{"jql": "project = EMPTY"})
	if result.IsError {
		t.Fatal("empty result set is not an error")
	}
	if text := resultText(t, result); text != "No issues found matching the query." {
		t.Errorf("unexpected message: %q", text)
	}
}

func TestCreateJiraTicket(t *testing.T) {
	srv, jira, _ := newTestServer()
	jira.createKey = "PROJ-101"

	result := srv.Catalog().Call(context.Background(), "create_jira_ticket", map[string]interface{}{
		"project_key": "PROJ",
		"summary":     "Fix login bug",
		"description": "Users cannot log in",
	})
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}
	text := resultText(t, result)
	if !strings.Contains(text, "✓ Created Jira ticket: PROJ-101") {
		t.Errorf("expected created-key line, got:\n%s", text)
	}
	if !strings.Contains(text, "https://jira.example.com/browse/PROJ-101") {
		t.Errorf("expected assembled URL, got:\n%s", text)
	}
	if !strings.Contains(text, "Type: Task") {
		t.Errorf("expected default issue type, got:\n%s", text)
	}
	if jira.createCalls != 1 {
		t.Errorf("expected exactly one create call, got %d", jira.createCalls)
	}
}

func TestCreateJiraTicketMissingFields(t *testing.T) {
	srv, jira, _ := newTestServer()

	result := srv.Catalog().Call(context.Background(), "create_jira_ticket", map[string]interface{}{
		"project_key": "PROJ",
		"summary":     "Fix login bug",
	})
	if !result.IsError {
		t.Fatal("expected error result")
	}
	if jira.createCalls != 0 {
		t.Error("create was called despite missing fields")
	}
}

func TestUpdateJiraTicket(t *testing.T) {
	srv, jira, _ := newTestServer()

	result := srv.Catalog().Call(context.Background(), "update_jira_ticket", map[string]interface{}{
		"issue_key": "PROJ-7",
		"summary":   "New summary",
	})
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}
	if text := resultText(t, result); !strings.Contains(text, "✓ Updated Jira ticket: PROJ-7") {
		t.Errorf("unexpected message:\n%s", text)
	}
	if jira.updateCalls != 1 {
		t.Errorf("expected one update call, got %d", jira.updateCalls)
	}
}

func TestUpdateJiraTicketNoFields(t *testing.T) {
	srv, jira, _ := newTestServer()

	result := srv.Catalog().Call(context.Background(), "update_jira_ticket",
		map[string]interface{}{"issue_key": "PROJ-7"})
	if !result.IsError {
		t.Fatal("expected error result")
	}
	if text := resultText(t, result); !strings.Contains(text, "At least one field") {
		t.Errorf("unexpected message: %q", text)
	}
	if jira.updateCalls != 0 {
		t.Error("update was called with nothing to update")
	}
}

func TestAddJiraComment(t *testing.T) {
	srv, jira, _ := newTestServer()

	result := srv.Catalog().Call(context.Background(), "add_jira_comment", map[string]interface{}{
		"issue_key": "PROJ-7",
		"comment":   "Deployed to staging",
	})
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}
	text := resultText(t, result)
	if !strings.Contains(text, "✓ Added comment to Jira ticket: PROJ-7") {
		t.Errorf("unexpected message:\n%s", text)
	}
	if !strings.Contains(text, "Deployed to staging") {
		t.Errorf("expected comment echoed, got:\n%s", text)
	}
	if jira.commentCalls != 1 {
		t.Errorf("expected one comment call, got %d", jira.commentCalls)
	}
}

func TestGetMySprintTasksEmpty(t *testing.T) {
	srv, jira, _ := newTestServer()

	result := srv.Catalog().Call(context.Background(), "get_my_sprint_tasks", map[string]interface{}{})
	if result.IsError {
		t.Fatal("empty sprint is not an error")
	}
	if text := resultText(t, result); text != "No sprint tasks found." {
		t.Errorf("unexpected message: %q", text)
	}
	if jira.sprintCalls != 1 {
		t.Errorf("expected one sprint call, got %d", jira.sprintCalls)
	}
}

func TestGetMySprintTasks(t *testing.T) {
	srv, jira, _ := newTestServer()
	jira.issues = []atlassian.RawIssue{
		{Key: "PROJ-11", Fields: map[string]interface{}{"summary": "Implement API"}},
	}

	result := srv.Catalog().Call(context.Background(), "get_my_sprint_tasks",
		map[string]interface{}{"include_future_sprints": true})
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}
	text := resultText(t, result)
	if !strings.Contains(text, "Found 1 sprint task(s)") {
		t.Errorf("expected count header, got:\n%s", text)
	}
	if !strings.Contains(text, "[PROJ-11] Implement API") {
		t.Errorf("expected task line, got:\n%s", text)
	}
}
