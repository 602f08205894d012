package server

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"os"

	"golang.org/x/net/html"

	"github.com/ziadkadry99/sitekit/internal/content"
	"github.com/ziadkadry99/sitekit/internal/dom"
	"github.com/ziadkadry99/sitekit/internal/render"
)

// reloadScript reconnects the page to /livereload and reloads on any message.
const reloadScript = `(function(){var p=location.protocol==="https:"?"wss://":"ws://";` +
	`var ws=new WebSocket(p+location.host+"/livereload");ws.onmessage=function(){location.reload();};})();`

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	tmpl, err := s.templates()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	doc, err := content.Load(s.cfg.ContentFile)
	if err != nil {
		// The template's static content stays visible.
		log.Printf("content unavailable: %v", err)
	}
	s.home.Render(tmpl.Index, doc)
	s.writePage(w, http.StatusOK, tmpl.Index)
}

func (s *Server) handleArticle(w http.ResponseWriter, r *http.Request) {
	tmpl, err := s.templates()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	load := func() (*content.Document, error) { return content.Load(s.cfg.ContentFile) }
	id := r.URL.Query().Get("article")
	status := http.StatusOK
	if err := s.article.Render(tmpl.Article, load, id); err != nil {
		status = articleStatus(err)
		log.Printf("article %q: %v", id, err)
	}
	s.writePage(w, status, tmpl.Article)
}

// articleStatus maps an article render failure to a response code. The body
// is the same error view either way.
func articleStatus(err error) int {
	switch {
	case errors.Is(err, render.ErrNoArticleID),
		errors.Is(err, render.ErrArticleNotFound),
		errors.Is(err, render.ErrNoArticleContent):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	data, err := os.ReadFile(s.cfg.ContentFile)
	if errors.Is(err, os.ErrNotExist) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(data)
}

func (s *Server) writePage(w http.ResponseWriter, status int, page *html.Node) {
	if s.reload != nil {
		injectReloadScript(page)
	}
	var buf bytes.Buffer
	if err := dom.Render(&buf, page); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func injectReloadScript(page *html.Node) {
	body := dom.MustCompile("body").Query(page)
	if body == nil {
		return
	}
	script := dom.Element("script")
	script.AppendChild(dom.TextNode(reloadScript))
	body.AppendChild(script)
}
