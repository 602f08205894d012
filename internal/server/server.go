// Package server is the local preview server. Pages are rendered per request
// from a fresh read of the templates and the content document, so edits made
// by the maintenance commands show up on refresh.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ziadkadry99/sitekit/internal/audit"
	"github.com/ziadkadry99/sitekit/internal/render"
	"github.com/ziadkadry99/sitekit/internal/site"
)

// Config holds server configuration.
type Config struct {
	Port int
	// SiteDir is served for every path without a dedicated route.
	SiteDir     string
	ContentFile string
	// IndexTemplate and ArticleTemplate are file paths.
	IndexTemplate   string
	ArticleTemplate string
	// ViewerPath is the URL path of the article viewer, relative to the root.
	ViewerPath string
	AllowAll   bool // allow all CORS origins (dev mode)
	LiveReload bool
}

// Server renders the site on demand.
type Server struct {
	cfg        Config
	home       *render.HomeRenderer
	article    *render.ArticleRenderer
	history    *audit.Store
	reload     *Hub
	router     chi.Router
	httpServer *http.Server
}

// New checks the templates and builds the router. history may be nil, in
// which case the history API is not mounted.
func New(cfg Config, home *render.HomeRenderer, article *render.ArticleRenderer, history *audit.Store) (*Server, error) {
	s := &Server{
		cfg:     cfg,
		home:    home,
		article: article,
		history: history,
	}
	tmpl, err := s.templates()
	if err != nil {
		return nil, err
	}
	for _, w := range tmpl.Warnings {
		log.Printf("template warning: optional target missing: %s", w)
	}
	if cfg.LiveReload {
		s.reload = NewHub()
	}

	s.router = s.buildRouter()
	return s, nil
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/", s.handleHome)
	r.Get("/index.html", s.handleHome)
	r.Get("/"+strings.TrimPrefix(path.Clean("/"+s.cfg.ViewerPath), "/"), s.handleArticle)
	if route, ok := ContentRoute(s.cfg.SiteDir, s.cfg.ContentFile); ok {
		r.Get(route, s.handleContent)
	} else {
		log.Printf("content document %s is outside %s; not served", s.cfg.ContentFile, s.cfg.SiteDir)
	}

	if s.history != nil {
		audit.RegisterRoutes(r, s.history)
	}
	if s.reload != nil {
		r.Get("/livereload", s.reload.ServeHTTP)
	}

	r.NotFound(http.FileServer(http.Dir(s.cfg.SiteDir)).ServeHTTP)
	return r
}

// ContentRoute returns the URL path the content document is served at: its
// location relative to siteDir. It reports false when the document lies
// outside siteDir.
func ContentRoute(siteDir, contentFile string) (string, bool) {
	siteAbs, err := filepath.Abs(siteDir)
	if err != nil {
		return "", false
	}
	fileAbs, err := filepath.Abs(contentFile)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(siteAbs, fileAbs)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return "/" + filepath.ToSlash(rel), true
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Hub returns the live reload hub, or nil when live reload is off.
func (s *Server) Hub() *Hub { return s.reload }

func (s *Server) templates() (*site.Templates, error) {
	return site.LoadTemplates(s.cfg.IndexTemplate, s.cfg.ArticleTemplate, s.home, s.article)
}

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("sitekit preview listening on %s", addr)
	if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server and closes live reload clients.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.reload != nil {
		s.reload.Close()
	}
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
