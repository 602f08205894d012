package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/sitekit/internal/audit"
	"github.com/ziadkadry99/sitekit/internal/db"
	"github.com/ziadkadry99/sitekit/internal/render"
)

const exampleSite = "../../testdata/site"

func testConfig(siteDir string) Config {
	return Config{
		SiteDir:         siteDir,
		ContentFile:     filepath.Join(siteDir, "config", "content.json"),
		IndexTemplate:   filepath.Join(siteDir, "index.html"),
		ArticleTemplate: filepath.Join(siteDir, "articles", "article-template.html"),
		ViewerPath:      "articles/article-template.html",
	}
}

func newServer(t *testing.T, cfg Config, history *audit.Store) *Server {
	t.Helper()
	srv, err := New(cfg, render.NewHomeRenderer(cfg.ViewerPath), render.NewArticleRenderer(), history)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return srv
}

func get(t *testing.T, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	srv := newServer(t, testConfig(exampleSite), nil)

	w := get(t, srv, "/healthz")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	cfg := testConfig(exampleSite)
	cfg.AllowAll = true
	srv := newServer(t, cfg, nil)

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestHomePage(t *testing.T) {
	srv := newServer(t, testConfig(exampleSite), nil)

	for _, target := range []string{"/", "/index.html"} {
		w := get(t, srv, target)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status %d", target, w.Code)
		}
		body := w.Body.String()
		if !strings.Contains(body, "Advocacy, community and careers") {
			t.Errorf("%s: banner subtitle not rendered", target)
		}
		if !strings.Contains(body, "articles/article-template.html?article=legal-writing-workshop") {
			t.Errorf("%s: event link not rewritten", target)
		}
		if strings.Contains(body, "/livereload") {
			t.Errorf("%s: reload script injected with live reload off", target)
		}
	}
}

func TestHomePageMissingContentKeepsStaticPage(t *testing.T) {
	cfg := testConfig(exampleSite)
	cfg.ContentFile = filepath.Join(t.TempDir(), "missing.json")
	srv := newServer(t, cfg, nil)

	w := get(t, srv, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Static Banner") {
		t.Error("expected static template content")
	}
}

func TestArticlePage(t *testing.T) {
	cfg := testConfig(exampleSite)
	srv := newServer(t, cfg, nil)

	tests := []struct {
		name   string
		target string
		status int
		want   string
	}{
		{"found", "/articles/article-template.html?article=legal-writing-workshop", http.StatusOK, "Legal Writing Workshop: Drafting with Clarity"},
		{"no id", "/articles/article-template.html", http.StatusNotFound, "Article Not Found"},
		{"unknown id", "/articles/article-template.html?article=nope", http.StatusNotFound, "Article Not Found"},
		{"no article content", "/articles/article-template.html?article=networking-events", http.StatusNotFound, "Article Not Found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, srv, tt.target)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			if !strings.Contains(w.Body.String(), tt.want) {
				t.Errorf("body missing %q", tt.want)
			}
		})
	}
}

func TestArticlePageLoadFailureIs500(t *testing.T) {
	cfg := testConfig(exampleSite)
	cfg.ContentFile = filepath.Join(t.TempDir(), "missing.json")
	srv := newServer(t, cfg, nil)

	w := get(t, srv, "/articles/article-template.html?article=legal-writing-workshop")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Article Not Found") {
		t.Error("expected the error view")
	}
}

func TestContentJSON(t *testing.T) {
	srv := newServer(t, testConfig(exampleSite), nil)

	w := get(t, srv, "/config/content.json")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	want, _ := os.ReadFile(filepath.Join(exampleSite, "config", "content.json"))
	if w.Body.String() != string(want) {
		t.Error("content.json should be served verbatim")
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestContentJSONFollowsConfiguredPath(t *testing.T) {
	// Serving the parent directory moves the document to /site/config/content.json.
	cfg := testConfig(exampleSite)
	cfg.SiteDir = filepath.Dir(exampleSite)
	srv := newServer(t, cfg, nil)

	want, _ := os.ReadFile(cfg.ContentFile)
	w := get(t, srv, "/site/config/content.json")
	if w.Code != http.StatusOK || w.Body.String() != string(want) {
		t.Errorf("GET /site/config/content.json = %d", w.Code)
	}
	if w := get(t, srv, "/config/content.json"); w.Code != http.StatusNotFound {
		t.Errorf("GET /config/content.json = %d, want 404", w.Code)
	}
}

func TestContentRoute(t *testing.T) {
	site := filepath.Join("srv", "site")
	tests := []struct {
		file string
		want string
		ok   bool
	}{
		{filepath.Join(site, "config", "content.json"), "/config/content.json", true},
		{filepath.Join(site, "content.json"), "/content.json", true},
		{filepath.Join("srv", "content.json"), "", false},
		{site, "", false},
	}
	for _, tt := range tests {
		got, ok := ContentRoute(site, tt.file)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ContentRoute(%q) = %q, %v; want %q, %v", tt.file, got, ok, tt.want, tt.ok)
		}
	}
}

func TestStaticFiles(t *testing.T) {
	srv := newServer(t, testConfig(exampleSite), nil)

	w := get(t, srv, "/assets/css/main.css")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), ".tag") {
		t.Errorf("static asset: status %d", w.Code)
	}
	if w := get(t, srv, "/nope.html"); w.Code != http.StatusNotFound {
		t.Errorf("missing file: status %d", w.Code)
	}
}

func TestHistoryRoutes(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer database.Close()
	store := audit.NewStore(database)
	if err := store.Log(context.Background(), audit.Entry{Action: audit.ActionBackup}); err != nil {
		t.Fatal(err)
	}

	srv := newServer(t, testConfig(exampleSite), store)
	w := get(t, srv, "/api/history")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	var entries []audit.Entry
	if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("entries = %d, want 1", len(entries))
	}

	// Without a store the API is not mounted.
	srv = newServer(t, testConfig(exampleSite), nil)
	if w := get(t, srv, "/api/history"); w.Code != http.StatusNotFound {
		t.Errorf("status without history = %d, want 404", w.Code)
	}
}

func TestNewRejectsBrokenTemplate(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(exampleSite)
	cfg.IndexTemplate = filepath.Join(dir, "index.html")
	if err := os.WriteFile(cfg.IndexTemplate, []byte("<html><body><p>bare</p></body></html>"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := New(cfg, render.NewHomeRenderer(""), render.NewArticleRenderer(), nil)
	if err == nil {
		t.Fatal("expected a template error")
	}
}

func TestLiveReload(t *testing.T) {
	cfg := testConfig(exampleSite)
	cfg.LiveReload = true
	srv := newServer(t, cfg, nil)

	if body := get(t, srv, "/").Body.String(); !strings.Contains(body, "/livereload") {
		t.Error("reload script not injected")
	}

	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/livereload"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for srv.Hub().Clients() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	srv.Hub().Broadcast("content.json")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(msg) != "content.json" {
		t.Errorf("message = %q", msg)
	}
}

func TestWatchBroadcastsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	hub := NewHub()
	stop := hub.Watch(path, filepath.Join(t.TempDir(), "missing", "file.json"))
	defer stop()

	ts := httptest.NewServer(hub)
	defer ts.Close()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	if err := os.WriteFile(path, []byte(`{"site":{}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := conn.ReadMessage(); err != nil {
		t.Fatalf("expected reload message: %v", err)
	}
}
