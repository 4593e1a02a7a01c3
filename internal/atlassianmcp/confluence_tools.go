package atlassianmcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Zhuoli/leverage-agent/internal/atlassian"
)

// ConfluenceService is the slice of the Confluence client the tool handlers
// need.
type ConfluenceService interface {
	SearchPages(ctx context.Context, query, spaceKey string, maxResults int) ([]atlassian.RawPage, error)
	RecentPages(ctx context.Context, spaceKey string, maxResults int) ([]atlassian.RawPage, error)
	CreatePage(ctx context.Context, title, body, spaceKey, parentID string) (atlassian.RawPage, error)
	UpdatePage(ctx context.Context, pageID, title, body string) (atlassian.RawPage, error)
	PageContent(ctx context.Context, pageID, title, spaceKey string) (string, error)
	FormatPage(raw atlassian.RawPage) atlassian.Page
}

// registerConfluenceTools adds the five Confluence tools to the catalog.
func registerConfluenceTools(c *Catalog, confluence ConfluenceService) {
	c.MustRegister(mcp.NewTool("search_confluence_pages",
		mcp.WithDescription("Search for Confluence pages by text query"),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query")),
		mcp.WithString("space_key", mcp.Description("Space key to search in (uses configured default when omitted)")),
		mcp.WithNumber("max_results", mcp.DefaultNumber(20), mcp.Description("Maximum number of results (default: 20)")),
	), searchConfluencePages(confluence))

	c.MustRegister(mcp.NewTool("create_confluence_page",
		mcp.WithDescription("Create a new Confluence page"),
		mcp.WithString("title", mcp.Required(), mcp.Description("Page title")),
		mcp.WithString("body", mcp.Required(), mcp.Description("Page content in storage format (HTML)")),
		mcp.WithString("space_key", mcp.Description("Space key (uses configured default when omitted)")),
		mcp.WithString("parent_id", mcp.Description("Parent page ID")),
	), createConfluencePage(confluence))

	c.MustRegister(mcp.NewTool("update_confluence_page",
		mcp.WithDescription("Update an existing Confluence page"),
		mcp.WithString("page_id", mcp.Required(), mcp.Description("Page ID")),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("body", mcp.Description("New content in storage format (HTML)")),
	), updateConfluencePage(confluence))

	c.MustRegister(mcp.NewTool("get_confluence_page_content",
		mcp.WithDescription("Get the content of a Confluence page by ID or title"),
		mcp.WithString("page_id", mcp.Description("Page ID")),
		mcp.WithString("title", mcp.Description("Page title (alternative to page_id)")),
		mcp.WithString("space_key", mcp.Description("Space key (used with title)")),
	), getConfluencePageContent(confluence))

	c.MustRegister(mcp.NewTool("get_recent_confluence_pages",
		mcp.WithDescription("Get recently updated Confluence pages in a space"),
		mcp.WithString("space_key", mcp.Description("Space key (uses configured default when omitted)")),
		mcp.WithNumber("max_results", mcp.DefaultNumber(10), mcp.Description("Maximum number of results (default: 10)")),
	), getRecentConfluencePages(confluence))
}

func searchConfluencePages(confluence ConfluenceService) ToolHandler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")
		if query == "" {
			return mcp.NewToolResultError("Error: 'query' parameter is required"), nil
		}
		spaceKey := req.GetString("space_key", "")
		maxResults := req.GetInt("max_results", 20)

		pages, err := confluence.SearchPages(ctx, query, spaceKey, maxResults)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error searching Confluence pages: %v", err)), nil
		}
		if len(pages) == 0 {
			return mcp.NewToolResultText("No pages found matching the query."), nil
		}

		return mcp.NewToolResultText(renderPageList(confluence, pages,
			fmt.Sprintf("Found %d page(s):\n\n", len(pages)))), nil
	}
}

func createConfluencePage(confluence ConfluenceService) ToolHandler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		title := req.GetString("title", "")
		body := req.GetString("body", "")
		if title == "" || body == "" {
			return mcp.NewToolResultError("Error: 'title' and 'body' are required"), nil
		}
		spaceKey := req.GetString("space_key", "")
		parentID := req.GetString("parent_id", "")

		raw, err := confluence.CreatePage(ctx, title, body, spaceKey, parentID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error creating Confluence page: %v", err)), nil
		}
		page := confluence.FormatPage(raw)

		var b strings.Builder
		fmt.Fprintf(&b, "✓ Created Confluence page: %s\n", page.Title)
		fmt.Fprintf(&b, "ID: %s\n", page.ID)
		fmt.Fprintf(&b, "Space: %s\n", page.Space)
		fmt.Fprintf(&b, "URL: %s\n", page.URL)
		return mcp.NewToolResultText(b.String()), nil
	}
}

func updateConfluencePage(confluence ConfluenceService) ToolHandler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		pageID := req.GetString("page_id", "")
		if pageID == "" {
			return mcp.NewToolResultError("Error: 'page_id' is required"), nil
		}
		title := req.GetString("title", "")
		body := req.GetString("body", "")
		if title == "" && body == "" {
			return mcp.NewToolResultError("Error: At least one of 'title' or 'body' must be provided"), nil
		}

		raw, err := confluence.UpdatePage(ctx, pageID, title, body)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error updating Confluence page: %v", err)), nil
		}
		page := confluence.FormatPage(raw)

		var b strings.Builder
		fmt.Fprintf(&b, "✓ Updated Confluence page: %s\n", page.Title)
		fmt.Fprintf(&b, "Version: %d\n", page.Version)
		fmt.Fprintf(&b, "URL: %s\n", page.URL)
		return mcp.NewToolResultText(b.String()), nil
	}
}

func getConfluencePageContent(confluence ConfluenceService) ToolHandler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		pageID := req.GetString("page_id", "")
		title := req.GetString("title", "")
		if pageID == "" && title == "" {
			return mcp.NewToolResultError("Error: Either 'page_id' or 'title' must be provided"), nil
		}
		spaceKey := req.GetString("space_key", "")

		content, err := confluence.PageContent(ctx, pageID, title, spaceKey)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error getting page content: %v", err)), nil
		}
		if content == "" {
			return mcp.NewToolResultText("The page has no content."), nil
		}
		return mcp.NewToolResultText(content), nil
	}
}

func getRecentConfluencePages(confluence ConfluenceService) ToolHandler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		spaceKey := req.GetString("space_key", "")
		maxResults := req.GetInt("max_results", 10)

		pages, err := confluence.RecentPages(ctx, spaceKey, maxResults)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error getting recent pages: %v", err)), nil
		}
		if len(pages) == 0 {
			return mcp.NewToolResultText("No recent pages found."), nil
		}

		return mcp.NewToolResultText(renderPageList(confluence, pages,
			fmt.Sprintf("Found %d recently updated page(s):\n\n", len(pages)))), nil
	}
}

func renderPageList(confluence ConfluenceService, pages []atlassian.RawPage, header string) string {
	var b strings.Builder
	b.WriteString(header)
	for i, raw := range pages {
		page := confluence.FormatPage(raw)
		fmt.Fprintf(&b, "%d. %s\n", i+1, page.Title)
		fmt.Fprintf(&b, "   ID: %s | Space: %s | Version: %d\n", page.ID, page.Space, page.Version)
		if page.LastModified != "" {
			fmt.Fprintf(&b, "   Last Modified: %s\n", page.LastModified)
		}
		fmt.Fprintf(&b, "   URL: %s\n\n", page.URL)
	}
	return b.String()
}
