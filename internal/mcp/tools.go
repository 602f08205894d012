package mcp

import "github.com/mark3labs/mcp-go/mcp"

// listEventsTool defines the list_events MCP tool.
var listEventsTool = mcp.NewTool("list_events",
	mcp.WithDescription("List the events in the site's content document with their article identifiers and links."),
)

// getArticleTool defines the get_article MCP tool.
var getArticleTool = mcp.NewTool("get_article",
	mcp.WithDescription("Get the full article for one event, looked up by its article identifier (the event link's file name without .html)."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Article identifier, e.g. moot-court-competition"),
	),
	mcp.WithString("format",
		mcp.Description("Output format (default text)"),
		mcp.Enum("text", "json"),
	),
)

// backupContentTool defines the backup_content MCP tool.
var backupContentTool = mcp.NewTool("backup_content",
	mcp.WithDescription("Copy the current content document into the backup directory under a timestamped name."),
)

// checkLinksTool defines the check_links MCP tool.
var checkLinksTool = mcp.NewTool("check_links",
	mcp.WithDescription("Report which event links the link repair would fix, without writing anything."),
)

// getHistoryTool defines the get_history MCP tool.
var getHistoryTool = mcp.NewTool("get_history",
	mcp.WithDescription("List recent maintenance operations (backups, updates, link fixes, retitles), newest first."),
	mcp.WithString("action",
		mcp.Description("Only return entries for this action"),
		mcp.Enum("backup", "update", "backup_and_update", "link_fix", "retitle"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of entries to return (default 20)"),
	),
)
