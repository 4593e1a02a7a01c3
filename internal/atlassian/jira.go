// Package atlassian holds the REST clients for Jira and Confluence. Both are
// plain HTTP wrappers: state-free with respect to their callers, one instance
// reused for the life of the process.
package atlassian

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/Zhuoli/leverage-agent/internal/pkg/options"
	"github.com/Zhuoli/leverage-agent/pkg/utils/json"
)

const defaultHTTPTimeout = 60 * time.Second

// RawIssue is a Jira issue as returned by the REST API. Fields stays loosely
// typed because custom fields (sprint, story points) vary per instance.
type RawIssue struct {
	Key    string                 `json:"key"`
	Fields map[string]interface{} `json:"fields"`
}

// Issue is the flattened view the tool handlers render.
type Issue struct {
	Key         string
	Summary     string
	Status      string
	Priority    string
	Assignee    string
	IssueType   string
	Created     string
	Updated     string
	Description string
	Labels      []string
	Sprint      string
	StoryPoints float64
	URL         string
}

// JiraClient talks to the Jira REST API v2 with basic auth.
type JiraClient struct {
	baseURL    string
	username   string
	token      string
	userEmail  string
	httpClient *http.Client
}

// NewJiraClient creates a client from the resolved Atlassian options.
// httpClient may be nil, in which case a default with a 60s timeout is used.
func NewJiraClient(opts *options.AtlassianOptions, httpClient *http.Client) *JiraClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &JiraClient{
		baseURL:    opts.JiraURL,
		username:   opts.JiraUsername,
		token:      opts.JiraAPIToken,
		userEmail:  opts.UserEmail,
		httpClient: httpClient,
	}
}

// BaseURL returns the configured Jira base URL.
func (c *JiraClient) BaseURL() string {
	return c.baseURL
}

// SearchIssues runs a JQL query and returns the matching issues.
func (c *JiraClient) SearchIssues(ctx context.Context, jql string, maxResults int) ([]RawIssue, error) {
	q := url.Values{}
	q.Set("jql", jql)
	q.Set("maxResults", strconv.Itoa(maxResults))

	var resp struct {
		Issues []RawIssue `json:"issues"`
	}
	if err := c.do(ctx, http.MethodGet, "/rest/api/2/search", q, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to search Jira tickets: %w", err)
	}
	return resp.Issues, nil
}

// MyIssues returns issues assigned to the configured user, optionally
// narrowed by additional JQL, newest and most urgent first.
func (c *JiraClient) MyIssues(ctx context.Context, maxResults int, additionalJQL string) ([]RawIssue, error) {
	jql := fmt.Sprintf("assignee = %q", c.userEmail)
	if additionalJQL != "" {
		jql += " AND " + additionalJQL
	}
	jql += " ORDER BY priority DESC, updated DESC"
	return c.SearchIssues(ctx, jql, maxResults)
}

// SprintIssues returns the user's issues in open sprints, optionally
// including future sprints.
func (c *JiraClient) SprintIssues(ctx context.Context, includeFuture bool, maxResults int) ([]RawIssue, error) {
	sprintFilter := "sprint in openSprints()"
	if includeFuture {
		sprintFilter = "sprint in openSprints() OR sprint in futureSprints()"
	}
	return c.MyIssues(ctx, maxResults, sprintFilter)
}

// CreateIssue creates a ticket and returns its generated key.
func (c *JiraClient) CreateIssue(ctx context.Context, projectKey, summary, description, issueType string) (string, error) {
	body := map[string]interface{}{
		"fields": map[string]interface{}{
			"project":     map[string]string{"key": projectKey},
			"summary":     summary,
			"description": description,
			"issuetype":   map[string]string{"name": issueType},
		},
	}

	var resp struct {
		Key string `json:"key"`
	}
	if err := c.do(ctx, http.MethodPost, "/rest/api/2/issue", nil, body, &resp); err != nil {
		return "", fmt.Errorf("failed to create Jira ticket: %w", err)
	}
	return resp.Key, nil
}

// UpdateIssue updates the given fields and returns the refreshed issue.
func (c *JiraClient) UpdateIssue(ctx context.Context, issueKey string, fields map[string]interface{}) (RawIssue, error) {
	body := map[string]interface{}{"fields": fields}
	if err := c.do(ctx, http.MethodPut, "/rest/api/2/issue/"+url.PathEscape(issueKey), nil, body, nil); err != nil {
		return RawIssue{}, fmt.Errorf("failed to update Jira ticket: %w", err)
	}

	var issue RawIssue
	if err := c.do(ctx, http.MethodGet, "/rest/api/2/issue/"+url.PathEscape(issueKey), nil, nil, &issue); err != nil {
		return RawIssue{}, fmt.Errorf("failed to fetch updated Jira ticket: %w", err)
	}
	return issue, nil
}

// AddComment posts a comment on a ticket.
func (c *JiraClient) AddComment(ctx context.Context, issueKey, comment string) error {
	body := map[string]string{"body": comment}
	if err := c.do(ctx, http.MethodPost, "/rest/api/2/issue/"+url.PathEscape(issueKey)+"/comment", nil, body, nil); err != nil {
		return fmt.Errorf("failed to add comment to Jira ticket: %w", err)
	}
	return nil
}

// FormatIssue flattens a raw issue into the render-ready view.
func (c *JiraClient) FormatIssue(raw RawIssue) Issue {
	fields := raw.Fields
	issue := Issue{
		Key:         raw.Key,
		Summary:     stringField(fields, "summary"),
		Status:      nestedName(fields, "status"),
		Priority:    nestedName(fields, "priority"),
		Assignee:    "Unassigned",
		IssueType:   nestedName(fields, "issuetype"),
		Created:     stringField(fields, "created"),
		Updated:     stringField(fields, "updated"),
		Description: stringField(fields, "description"),
		Sprint:      extractSprintName(fields),
		URL:         fmt.Sprintf("%s/browse/%s", c.baseURL, raw.Key),
	}
	if issue.Priority == "" {
		issue.Priority = "None"
	}
	if issue.Description == "" {
		issue.Description = "No description"
	}
	if assignee, ok := fields["assignee"].(map[string]interface{}); ok {
		if name, ok := assignee["displayName"].(string); ok && name != "" {
			issue.Assignee = name
		}
	}
	if labels, ok := fields["labels"].([]interface{}); ok {
		for _, l := range labels {
			if s, ok := l.(string); ok {
				issue.Labels = append(issue.Labels, s)
			}
		}
	}
	if points, ok := fields["customfield_10016"].(float64); ok {
		issue.StoryPoints = points
	}
	return issue
}

// sprintNamePattern matches the name attribute inside Jira's string-encoded
// sprint representation ("com.atlassian.greenhopper...[id=1,name=Sprint 5,...]").
var sprintNamePattern = regexp.MustCompile(`name=([^,\]]+)`)

// extractSprintName reads the conventional sprint custom field. Jira returns
// either a list of sprint objects or a list of encoded strings; the latest
// (last) entry wins in both cases.
func extractSprintName(fields map[string]interface{}) string {
	sprints, ok := fields["customfield_10020"].([]interface{})
	if !ok || len(sprints) == 0 {
		return ""
	}
	switch last := sprints[len(sprints)-1].(type) {
	case map[string]interface{}:
		if name, ok := last["name"].(string); ok {
			return name
		}
	case string:
		if m := sprintNamePattern.FindStringSubmatch(last); m != nil {
			return m[1]
		}
	}
	return ""
}

func stringField(fields map[string]interface{}, key string) string {
	s, _ := fields[key].(string)
	return s
}

func nestedName(fields map[string]interface{}, key string) string {
	obj, ok := fields[key].(map[string]interface{})
	if !ok {
		return ""
	}
	name, _ := obj["name"].(string)
	return name
}

func (c *JiraClient) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	return doJSON(ctx, c.httpClient, c.baseURL+path, method, query, body, out, c.username, c.token)
}

// doJSON is the shared request helper for both Atlassian clients.
func doJSON(ctx context.Context, httpClient *http.Client, rawURL, method string, query url.Values, body, out interface{}, username, token string) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	if len(query) > 0 {
		rawURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(username, token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(respBody))
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
