package atlassianmcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/Zhuoli/leverage-agent/internal/atlassian"
)

// stubJira records calls and returns canned data.
type stubJira struct {
	searchCalls  int
	sprintCalls  int
	createCalls  int
	updateCalls  int
	commentCalls int

	issues    []atlassian.RawIssue
	createKey string
	err       error
}

func (s *stubJira) SearchIssues(ctx context.Context, jql string, maxResults int) ([]atlassian.RawIssue, error) {
	s.searchCalls++
	return s.issues, s.err
}

func (s *stubJira) SprintIssues(ctx context.Context, includeFuture bool, maxResults int) ([]atlassian.RawIssue, error) {
	s.sprintCalls++
	return s.issues, s.err
}

func (s *stubJira) CreateIssue(ctx context.Context, projectKey, summary, description, issueType string) (string, error) {
	s.createCalls++
	return s.createKey, s.err
}

func (s *stubJira) UpdateIssue(ctx context.Context, issueKey string, fields map[string]interface{}) (atlassian.RawIssue, error) {
	s.updateCalls++
	if s.err != nil {
		return atlassian.RawIssue{}, s.err
	}
	return atlassian.RawIssue{Key: issueKey, Fields: map[string]interface{}{"summary": fields["summary"]}}, nil
}

func (s *stubJira) AddComment(ctx context.Context, issueKey, comment string) error {
	s.commentCalls++
	return s.err
}

func (s *stubJira) FormatIssue(raw atlassian.RawIssue) atlassian.Issue {
	summary, _ := raw.Fields["summary"].(string)
	return atlassian.Issue{
		Key:     raw.Key,
		Summary: summary,
		URL:     s.BaseURL() + "/browse/" + raw.Key,
	}
}

func (s *stubJira) BaseURL() string { return "https://jira.example.com" }

// stubConfluence records calls and returns canned data.
type stubConfluence struct {
	searchCalls int
	recentCalls int
	createCalls int
	updateCalls int

	pages   []atlassian.RawPage
	content string
	err     error
}

func (s *stubConfluence) SearchPages(ctx context.Context, query, spaceKey string, maxResults int) ([]atlassian.RawPage, error) {
	s.searchCalls++
	return s.pages, s.err
}

func (s *stubConfluence) RecentPages(ctx context.Context, spaceKey string, maxResults int) ([]atlassian.RawPage, error) {
	s.recentCalls++
	return s.pages, s.err
}

func (s *stubConfluence) CreatePage(ctx context.Context, title, body, spaceKey, parentID string) (atlassian.RawPage, error) {
	s.createCalls++
	if s.err != nil {
		return nil, s.err
	}
	return atlassian.RawPage{"id": "12345", "title": title}, nil
}

func (s *stubConfluence) UpdatePage(ctx context.Context, pageID, title, body string) (atlassian.RawPage, error) {
	s.updateCalls++
	if s.err != nil {
		return nil, s.err
	}
	return atlassian.RawPage{"id": pageID, "title": title, "version": map[string]interface{}{"number": float64(2)}}, nil
}

func (s *stubConfluence) PageContent(ctx context.Context, pageID, title, spaceKey string) (string, error) {
	return s.content, s.err
}

func (s *stubConfluence) FormatPage(raw atlassian.RawPage) atlassian.Page {
	id, _ := raw["id"].(string)
	title, _ := raw["title"].(string)
	return atlassian.Page{
		ID:    id,
		Title: title,
		Space: "TEAM",
		URL:   "https://wiki.example.com/pages/viewpage.action?pageId=" + id,
	}
}

func newTestServer() (*Server, *stubJira, *stubConfluence) {
	jira := &stubJira{}
	confluence := &stubConfluence{}
	return NewServer(jira, confluence), jira, confluence
}

var expectedToolNames = []string{
	"search_jira_tickets",
	"create_jira_ticket",
	"update_jira_ticket",
	"add_jira_comment",
	"get_my_sprint_tasks",
	"search_confluence_pages",
	"create_confluence_page",
	"update_confluence_page",
	"get_confluence_page_content",
	"get_recent_confluence_pages",
}

func TestCatalogContents(t *testing.T) {
	srv, _, _ := newTestServer()
	catalog := srv.Catalog()

	tools := catalog.Tools()
	if len(tools) != len(expectedToolNames) {
		t.Fatalf("expected %d tools, got %d", len(expectedToolNames), len(tools))
	}

	seen := make(map[string]bool)
	for i, tool := range tools {
		if tool.Name != expectedToolNames[i] {
			t.Errorf("tool %d: expected %q, got %q", i, expectedToolNames[i], tool.Name)
		}
		if seen[tool.Name] {
			t.Errorf("duplicate tool name %q", tool.Name)
		}
		seen[tool.Name] = true
		if tool.Description == "" {
			t.Errorf("tool %q has no description", tool.Name)
		}
	}
}

func TestCatalogListingIsStable(t *testing.T) {
	srv, _, _ := newTestServer()
	catalog := srv.Catalog()

	first := catalog.Tools()
	second := catalog.Tools()
	if len(first) != len(second) {
		t.Fatalf("listing size changed between calls: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Name != second[i].Name {
			t.Errorf("listing order changed at %d: %q vs %q", i, first[i].Name, second[i].Name)
		}
	}
}

func TestCatalogResolve(t *testing.T) {
	srv, _, _ := newTestServer()
	catalog := srv.Catalog()

	if _, err := catalog.Resolve("search_jira_tickets"); err != nil {
		t.Errorf("expected search_jira_tickets to resolve, got %v", err)
	}

	// Lookup is exact and case-sensitive.
	for _, name := range []string{"Search_Jira_Tickets", "search_jira_ticket", ""} {
		if _, err := catalog.Resolve(name); !errors.Is(err, ErrToolNotFound) {
			t.Errorf("Resolve(%q): expected ErrToolNotFound, got %v", name, err)
		}
	}
}

func TestCallUnknownTool(t *testing.T) {
	srv, jira, confluence := newTestServer()
	catalog := srv.Catalog()

	for _, args := range []map[string]interface{}{nil, {}, {"jql": "project = X"}} {
		result := catalog.Call(context.Background(), "no_such_tool", args)
		if !result.IsError {
			t.Errorf("expected error result for unknown tool with args %v", args)
		}
		text := resultText(t, result)
		if !strings.HasPrefix(text, "Error:") {
			t.Errorf("expected Error prefix, got %q", text)
		}
	}
	if jira.searchCalls+jira.sprintCalls+jira.createCalls+jira.updateCalls+jira.commentCalls != 0 {
		t.Error("unknown tool call reached a Jira handler")
	}
	if confluence.searchCalls+confluence.recentCalls+confluence.createCalls+confluence.updateCalls != 0 {
		t.Error("unknown tool call reached a Confluence handler")
	}
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()

	catalog := NewCatalog()
	jira := &stubJira{}
	registerJiraTools(catalog, jira)
	registerJiraTools(catalog, jira)
}

func TestCallToolResultOrdering(t *testing.T) {
	srv, jira, _ := newTestServer()
	jira.issues = []atlassian.RawIssue{
		{Key: "PROJ-1", Fields: map[string]interface{}{"summary": "First"}},
		{Key: "PROJ-2", Fields: map[string]interface{}{"summary": "Second"}},
	}

	result := srv.Catalog().Call(context.Background(), "search_jira_tickets",
		map[string]interface{}{"jql": "project = PROJ"})
	text := resultText(t, result)

	first := strings.Index(text, "PROJ-1")
	second := strings.Index(text, "PROJ-2")
	if first < 0 || second < 0 || second < first {
		t.Errorf("expected issues listed in order, got:\n%s", text)
	}
	if !strings.Contains(text, fmt.Sprintf("Found %d issue(s)", 2)) {
		t.Errorf("expected count header, got:\n%s", text)
	}
}
