package atlassian

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Zhuoli/leverage-agent/internal/pkg/options"
)

// RawPage is a Confluence content object. Search results wrap the page in a
// "content" envelope; direct API reads return the fields at the top level.
type RawPage map[string]interface{}

// Page is the flattened view the tool handlers render.
type Page struct {
	ID           string
	Title        string
	Space        string
	Version      int
	LastModified string
	URL          string
}

// ConfluenceClient talks to the Confluence REST API with basic auth.
type ConfluenceClient struct {
	baseURL    string
	username   string
	token      string
	spaceKey   string
	httpClient *http.Client
}

// NewConfluenceClient creates a client from the resolved Atlassian options.
// httpClient may be nil, in which case a default with a 60s timeout is used.
func NewConfluenceClient(opts *options.AtlassianOptions, httpClient *http.Client) *ConfluenceClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &ConfluenceClient{
		baseURL:    opts.ConfluenceURL,
		username:   opts.ConfluenceUsername,
		token:      opts.ConfluenceAPIToken,
		spaceKey:   opts.ConfluenceSpaceKey,
		httpClient: httpClient,
	}
}

// SearchPages runs a CQL text search. spaceKey narrows the search; empty
// falls back to the configured default space (which may itself be empty,
// searching all spaces).
func (c *ConfluenceClient) SearchPages(ctx context.Context, query, spaceKey string, maxResults int) ([]RawPage, error) {
	space := c.resolveSpace(spaceKey)
	cql := fmt.Sprintf("type=page AND text~%q", query)
	if space != "" {
		cql += fmt.Sprintf(" AND space=%q", space)
	}

	results, err := c.cql(ctx, cql, maxResults)
	if err != nil {
		return nil, fmt.Errorf("failed to search Confluence pages: %w", err)
	}
	return results, nil
}

// RecentPages returns the most recently modified pages in a space.
func (c *ConfluenceClient) RecentPages(ctx context.Context, spaceKey string, maxResults int) ([]RawPage, error) {
	space := c.resolveSpace(spaceKey)
	cql := "type=page ORDER BY lastmodified DESC"
	if space != "" {
		cql = fmt.Sprintf("type=page AND space=%q ORDER BY lastmodified DESC", space)
	}

	results, err := c.cql(ctx, cql, maxResults)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent pages: %w", err)
	}
	return results, nil
}

// PageByID fetches a page with its body, version and space expanded.
func (c *ConfluenceClient) PageByID(ctx context.Context, pageID string) (RawPage, error) {
	q := url.Values{}
	q.Set("expand", "body.storage,version,space")

	var page RawPage
	if err := c.do(ctx, http.MethodGet, "/rest/api/content/"+url.PathEscape(pageID), q, nil, &page); err != nil {
		return nil, fmt.Errorf("failed to get page: %w", err)
	}
	return page, nil
}

// PageByTitle finds a page by exact title within a space. Returns nil when
// no page matches.
func (c *ConfluenceClient) PageByTitle(ctx context.Context, title, spaceKey string) (RawPage, error) {
	q := url.Values{}
	q.Set("title", title)
	if space := c.resolveSpace(spaceKey); space != "" {
		q.Set("spaceKey", space)
	}
	q.Set("expand", "body.storage,version,space")

	var resp struct {
		Results []RawPage `json:"results"`
	}
	if err := c.do(ctx, http.MethodGet, "/rest/api/content", q, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to find page %q: %w", title, err)
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}
	return resp.Results[0], nil
}

// CreatePage creates a page in storage (HTML) format. parentID optionally
// places it under an existing page.
func (c *ConfluenceClient) CreatePage(ctx context.Context, title, body, spaceKey, parentID string) (RawPage, error) {
	space := c.resolveSpace(spaceKey)
	payload := map[string]interface{}{
		"type":  "page",
		"title": title,
		"space": map[string]string{"key": space},
		"body": map[string]interface{}{
			"storage": map[string]string{
				"value":          body,
				"representation": "storage",
			},
		},
	}
	if parentID != "" {
		payload["ancestors"] = []map[string]string{{"id": parentID}}
	}

	var page RawPage
	if err := c.do(ctx, http.MethodPost, "/rest/api/content", nil, payload, &page); err != nil {
		return nil, fmt.Errorf("failed to create Confluence page: %w", err)
	}
	return page, nil
}

// UpdatePage updates a page's title and/or body, bumping the version number.
// The current title is kept when no new one is given.
func (c *ConfluenceClient) UpdatePage(ctx context.Context, pageID, title, body string) (RawPage, error) {
	current, err := c.PageByID(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("failed to update Confluence page: %w", err)
	}

	currentVersion := pageVersion(current)
	if title == "" {
		title, _ = current["title"].(string)
	}

	payload := map[string]interface{}{
		"id":      pageID,
		"type":    "page",
		"title":   title,
		"version": map[string]int{"number": currentVersion + 1},
	}
	if body != "" {
		payload["body"] = map[string]interface{}{
			"storage": map[string]string{
				"value":          body,
				"representation": "storage",
			},
		}
	}

	var page RawPage
	if err := c.do(ctx, http.MethodPut, "/rest/api/content/"+url.PathEscape(pageID), nil, payload, &page); err != nil {
		return nil, fmt.Errorf("failed to update Confluence page: %w", err)
	}
	return page, nil
}

// PageContent returns a page's storage-format body, located by ID or by
// title (with an optional space). One of pageID/title must be given.
func (c *ConfluenceClient) PageContent(ctx context.Context, pageID, title, spaceKey string) (string, error) {
	var page RawPage
	var err error
	switch {
	case pageID != "":
		page, err = c.PageByID(ctx, pageID)
	case title != "":
		page, err = c.PageByTitle(ctx, title, spaceKey)
		if err == nil && page == nil {
			return "", fmt.Errorf("page %q not found", title)
		}
	default:
		return "", fmt.Errorf("either page_id or title must be provided")
	}
	if err != nil {
		return "", err
	}

	if body, ok := page["body"].(map[string]interface{}); ok {
		if storage, ok := body["storage"].(map[string]interface{}); ok {
			if value, ok := storage["value"].(string); ok {
				return value, nil
			}
		}
	}
	return "", nil
}

// FormatPage flattens a raw page into the render-ready view, handling both
// the search-result envelope and direct API shapes.
func (c *ConfluenceClient) FormatPage(raw RawPage) Page {
	target := map[string]interface{}(raw)
	if content, ok := raw["content"].(map[string]interface{}); ok {
		target = content
	}

	page := Page{
		Space:   "Unknown",
		Version: pageVersion(raw),
	}
	page.ID, _ = target["id"].(string)
	page.Title, _ = target["title"].(string)
	if space, ok := target["space"].(map[string]interface{}); ok {
		if key, ok := space["key"].(string); ok {
			page.Space = key
		}
	}
	if version, ok := raw["version"].(map[string]interface{}); ok {
		if when, ok := version["when"].(string); ok {
			page.LastModified = when
		}
	}
	if page.LastModified == "" {
		if history, ok := raw["history"].(map[string]interface{}); ok {
			if updated, ok := history["lastUpdated"].(map[string]interface{}); ok {
				page.LastModified, _ = updated["when"].(string)
			}
		}
	}
	page.URL = fmt.Sprintf("%s/pages/viewpage.action?pageId=%s", c.baseURL, page.ID)
	return page
}

func (c *ConfluenceClient) cql(ctx context.Context, cql string, maxResults int) ([]RawPage, error) {
	q := url.Values{}
	q.Set("cql", cql)
	q.Set("limit", strconv.Itoa(maxResults))

	var resp struct {
		Results []RawPage `json:"results"`
	}
	if err := c.do(ctx, http.MethodGet, "/rest/api/content/search", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (c *ConfluenceClient) resolveSpace(spaceKey string) string {
	if spaceKey != "" {
		return spaceKey
	}
	return c.spaceKey
}

func pageVersion(page RawPage) int {
	version, ok := page["version"].(map[string]interface{})
	if !ok {
		return 1
	}
	if number, ok := version["number"].(float64); ok {
		return int(number)
	}
	return 1
}

func (c *ConfluenceClient) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	return doJSON(ctx, c.httpClient, c.baseURL+path, method, query, body, out, c.username, c.token)
}
