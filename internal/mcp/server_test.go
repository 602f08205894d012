package mcp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/sitekit/internal/audit"
	"github.com/ziadkadry99/sitekit/internal/contentfile"
	"github.com/ziadkadry99/sitekit/internal/db"
	"github.com/ziadkadry99/sitekit/internal/linkfix"
)

func setupServer(t *testing.T) (*Server, *contentfile.Store) {
	t.Helper()
	data, err := os.ReadFile("../../testdata/site/config/content.json")
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "config", "content.json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	store := contentfile.New(path, filepath.Join(dir, "content-backup"))
	store.Now = func() time.Time { return time.Date(2024, 3, 12, 9, 30, 0, 0, time.UTC) }
	return NewServer(store, linkfix.DefaultLinks, audit.NewStore(database)), store
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Content) == 0 {
		t.Fatal("empty result")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T", result.Content[0])
	}
	return tc.Text, result.IsError
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		tool     mcp.Tool
		wantName string
	}{
		{listEventsTool, "list_events"},
		{getArticleTool, "get_article"},
		{backupContentTool, "backup_content"},
		{checkLinksTool, "check_links"},
		{getHistoryTool, "get_history"},
	}

	for _, tt := range tests {
		t.Run(tt.wantName, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	srv, store := setupServer(t)
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.store != store {
		t.Error("store not set correctly")
	}
}

func TestHandleListEvents(t *testing.T) {
	srv, _ := setupServer(t)

	text, isErr := call(t, srv.handleListEvents, nil)
	if isErr {
		t.Fatalf("tool error: %s", text)
	}
	for _, want := range []string{"4 event(s)", "id: legal-writing-workshop", "article: Legal Writing Workshop: Drafting with Clarity", "id: (no link)"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestHandleListEventsMissingFile(t *testing.T) {
	srv, store := setupServer(t)
	os.Remove(store.Path)

	if text, isErr := call(t, srv.handleListEvents, nil); !isErr {
		t.Errorf("expected tool error, got %q", text)
	}
}

func TestHandleGetArticle(t *testing.T) {
	srv, _ := setupServer(t)

	t.Run("text", func(t *testing.T) {
		text, isErr := call(t, srv.handleGetArticle, map[string]any{"id": "legal-writing-workshop"})
		if isErr {
			t.Fatalf("tool error: %s", text)
		}
		if !strings.HasPrefix(text, "# Legal Writing Workshop: Drafting with Clarity\n12 March • Lecture Theatre B • 2 hours\n") {
			t.Errorf("unexpected header:\n%s", text)
		}
		if !strings.Contains(text, "## Overview") || !strings.Contains(text, "Tags: Skills, Writing") {
			t.Errorf("missing sections or tags:\n%s", text)
		}
	})

	t.Run("json", func(t *testing.T) {
		text, isErr := call(t, srv.handleGetArticle, map[string]any{"id": "legal-writing-workshop", "format": "json"})
		if isErr {
			t.Fatalf("tool error: %s", text)
		}
		if !strings.Contains(text, `"fullTitle": "Legal Writing Workshop: Drafting with Clarity"`) {
			t.Errorf("unexpected json:\n%s", text)
		}
	})

	errCases := map[string]map[string]any{
		"missing id": {},
		"unknown id": {"id": "nope"},
		"no article": {"id": "networking-events"},
		"empty id":   {"id": ""},
	}
	for name, args := range errCases {
		t.Run(name, func(t *testing.T) {
			if text, isErr := call(t, srv.handleGetArticle, args); !isErr {
				t.Errorf("expected tool error, got %q", text)
			}
		})
	}
}

func TestHandleBackupContent(t *testing.T) {
	srv, store := setupServer(t)

	text, isErr := call(t, srv.handleBackupContent, nil)
	if isErr {
		t.Fatalf("tool error: %s", text)
	}
	want := filepath.Join(store.BackupDir, "content-backup-2024-03-12T09-30-00.json")
	if !strings.Contains(text, want) {
		t.Errorf("text = %q, want path %q", text, want)
	}
	orig, _ := os.ReadFile(store.Path)
	backup, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("backup not written: %v", err)
	}
	if string(orig) != string(backup) {
		t.Error("backup is not a verbatim copy")
	}

	entries, err := srv.history.Query(context.Background(), audit.QueryFilter{Actor: audit.ActorMCP})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].BackupPath != want {
		t.Errorf("history = %+v", entries)
	}
}

func TestHandleBackupContentReportsHistoryFailure(t *testing.T) {
	_, store := setupServer(t)
	closed, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	closed.Close()
	srv := NewServer(store, linkfix.DefaultLinks, audit.NewStore(closed))

	text, isErr := call(t, srv.handleBackupContent, nil)
	if isErr {
		t.Fatalf("backup itself succeeded, got tool error: %s", text)
	}
	if !strings.Contains(text, "Backup created:") {
		t.Errorf("text = %q", text)
	}
	if !strings.Contains(text, "not recorded in history") {
		t.Errorf("history failure not reported: %q", text)
	}
}

func TestHandleCheckLinks(t *testing.T) {
	srv, store := setupServer(t)
	before, _ := os.ReadFile(store.Path)

	text, isErr := call(t, srv.handleCheckLinks, nil)
	if isErr {
		t.Fatalf("tool error: %s", text)
	}
	if !strings.Contains(text, "2 link(s) would be fixed.") {
		t.Errorf("unexpected report:\n%s", text)
	}
	if !strings.Contains(text, `would fix "Moot Court Competition": "#" -> articles/moot-court-competition.html`) {
		t.Errorf("missing moot court line:\n%s", text)
	}

	after, _ := os.ReadFile(store.Path)
	if string(before) != string(after) {
		t.Error("check_links must not modify the document")
	}
}

func TestHandleGetHistory(t *testing.T) {
	srv, _ := setupServer(t)

	if text, _ := call(t, srv.handleGetHistory, nil); text != "No history recorded yet." {
		t.Errorf("empty history text = %q", text)
	}

	call(t, srv.handleBackupContent, nil)
	text, isErr := call(t, srv.handleGetHistory, map[string]any{"action": "backup", "limit": float64(5)})
	if isErr {
		t.Fatalf("tool error: %s", text)
	}
	if !strings.Contains(text, "backup") || !strings.Contains(text, "mcp") {
		t.Errorf("unexpected history:\n%s", text)
	}
}
