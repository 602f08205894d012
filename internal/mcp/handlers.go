package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/sitekit/internal/audit"
	"github.com/ziadkadry99/sitekit/internal/content"
	"github.com/ziadkadry99/sitekit/internal/linkfix"
	"github.com/ziadkadry99/sitekit/internal/render"
)

func (s *Server) load() (*content.Document, error) {
	return content.Load(s.store.Path)
}

// handleListEvents returns one line per event.
func (s *Server) handleListEvents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, err := s.load()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load content: %v", err)), nil
	}

	events := doc.Events()
	if len(events) == 0 {
		return mcp.NewToolResultText("The content document has no events."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d event(s):\n\n", len(events))
	for i, ev := range events {
		id := ev.ID()
		if id == "" {
			id = "(no link)"
		}
		article := "no article"
		if ev.Article != nil {
			article = "article: " + ev.Article.FullTitle
		}
		fmt.Fprintf(&b, "%d. %s\n   id: %s\n   link: %s\n   %s\n", i+1, ev.Title, id, ev.Link, article)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// handleGetArticle resolves an identifier the same way the article viewer does.
func (s *Server) handleGetArticle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}

	ev, err := render.Lookup(s.load, id)
	switch {
	case errors.Is(err, render.ErrArticleNotFound):
		return mcp.NewToolResultError(fmt.Sprintf("No event has the identifier %q. Use list_events to see valid identifiers.", id)), nil
	case errors.Is(err, render.ErrNoArticleContent):
		return mcp.NewToolResultError(fmt.Sprintf("Event %q has no article.", id)), nil
	case err != nil:
		return mcp.NewToolResultError(err.Error()), nil
	}

	if request.GetString("format", "text") == "json" {
		data, err := json.MarshalIndent(ev.Article, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encoding article: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
	return mcp.NewToolResultText(formatArticle(ev.Article)), nil
}

func formatArticle(a *content.Article) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", a.FullTitle)
	if sub := a.Subtitle(); sub != "" {
		fmt.Fprintf(&b, "%s\n", sub)
	}
	for _, sec := range a.Content {
		fmt.Fprintf(&b, "\n## %s\n\n%s\n", sec.Section, sec.Text)
	}
	if len(a.Tags) > 0 {
		fmt.Fprintf(&b, "\nTags: %s\n", strings.Join(a.Tags, ", "))
	}
	if a.Contact != "" {
		fmt.Fprintf(&b, "Contact: %s\n", a.Contact)
	}
	return b.String()
}

// handleBackupContent writes a timestamped backup and records it.
func (s *Server) handleBackupContent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := s.store.Backup()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("backup failed: %v", err)), nil
	}
	text := "Backup created: " + path
	err = s.history.Log(ctx, audit.Entry{
		Actor:      audit.ActorMCP,
		Action:     audit.ActionBackup,
		Target:     s.store.Path,
		Summary:    "Backed up content document",
		BackupPath: path,
	})
	if err != nil {
		log.Printf("recording history: %v", err)
		text += fmt.Sprintf("\nWarning: the backup was not recorded in history: %v", err)
	}
	return mcp.NewToolResultText(text), nil
}

// handleCheckLinks runs the link repair in memory and reports the outcome.
func (s *Server) handleCheckLinks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := s.store.Read()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	_, report, err := linkfix.Repair(data, s.links)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	for _, c := range report.Changes {
		switch c.Outcome {
		case linkfix.Fixed:
			fmt.Fprintf(&b, "would fix %q: %q -> %s\n", c.Title, c.OldLink, c.NewLink)
		case linkfix.Mismatch:
			fmt.Fprintf(&b, "differs %q: %s (expected %s)\n", c.Title, c.OldLink, c.NewLink)
		case linkfix.Unknown:
			fmt.Fprintf(&b, "no mapping for %q\n", c.Title)
		}
	}
	fmt.Fprintf(&b, "%d link(s) would be fixed.", report.Fixed())
	return mcp.NewToolResultText(b.String()), nil
}

// handleGetHistory lists recent operations.
func (s *Server) handleGetHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", 20)
	if limit <= 0 {
		limit = 20
	}
	entries, err := s.history.Query(ctx, audit.QueryFilter{
		Action: audit.Action(request.GetString("action", "")),
		Limit:  limit,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("querying history: %v", err)), nil
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText("No history recorded yet."), nil
	}

	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s  %-17s %-6s %s", e.Timestamp.Format("2006-01-02 15:04:05"), e.Action, e.Actor, e.Summary)
		if e.Target != "" {
			fmt.Fprintf(&b, " (%s)", e.Target)
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}
