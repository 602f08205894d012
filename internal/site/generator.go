// Package site builds a deployable copy of the site: assets are copied, the
// home page is rendered from the content document and every event article is
// pre-rendered at its event link.
package site

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/natefinch/atomic"
	"golang.org/x/net/html"

	"github.com/ziadkadry99/sitekit/internal/content"
	"github.com/ziadkadry99/sitekit/internal/dom"
	"github.com/ziadkadry99/sitekit/internal/render"
)

// SearchIndexFile is written to the output root.
const SearchIndexFile = "search-index.json"

// SiteGenerator renders the site templates into OutputDir.
type SiteGenerator struct {
	SiteDir   string
	OutputDir string
	// IndexTemplate and ArticleTemplate are relative to SiteDir.
	IndexTemplate   string
	ArticleTemplate string
	// ContentFile is the content document path.
	ContentFile string
	// Exclude holds doublestar patterns, relative to SiteDir, that are not copied.
	Exclude []string

	// ViewerLinks keeps event cards pointing at the article viewer. The
	// viewer is copied unrendered, so those links only work behind a server
	// that renders it per request. By default cards link to the
	// pre-rendered article pages.
	ViewerLinks bool

	Home    *render.HomeRenderer
	Article *render.ArticleRenderer
	Logf    func(format string, args ...any)
}

// Report summarizes a build.
type Report struct {
	Copied   int
	Pages    []string
	Warnings []string
	// ContentErr is set when the content document could not be loaded; the
	// home page then keeps its static content and no articles are rendered.
	ContentErr error
	Home       render.HomeResult
}

// Templates holds the parsed and checked site templates.
type Templates struct {
	Index    *html.Node
	Article  *html.Node
	Warnings []string
}

// LoadTemplates parses both templates and checks them against the binding
// tables. A missing required target is returned as a *render.TemplateError.
func LoadTemplates(indexPath, articlePath string, home *render.HomeRenderer, article *render.ArticleRenderer) (*Templates, error) {
	index, err := dom.ParseFile(indexPath)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", indexPath, err)
	}
	art, err := dom.ParseFile(articlePath)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", articlePath, err)
	}

	t := &Templates{Index: index, Article: art}
	warn, err := home.Check(filepath.Base(indexPath), index)
	if err != nil {
		return nil, err
	}
	t.Warnings = append(t.Warnings, warn...)
	warn, err = article.Check(filepath.Base(articlePath), art)
	if err != nil {
		return nil, err
	}
	t.Warnings = append(t.Warnings, warn...)
	return t, nil
}

// Generate builds the full site.
func (g *SiteGenerator) Generate() (*Report, error) {
	tmpl, err := LoadTemplates(
		filepath.Join(g.SiteDir, g.IndexTemplate),
		filepath.Join(g.SiteDir, g.ArticleTemplate),
		g.Home, g.Article,
	)
	if err != nil {
		return nil, err
	}
	rep := &Report{Warnings: tmpl.Warnings}

	home := *g.Home
	if g.ViewerLinks {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf(
			"event cards link to %s, which is copied unrendered; articles only load when it is served by sitekit serve", home.Viewer))
	} else if home.LinkFor == nil {
		home.LinkFor = render.StaticLink
	}

	if err := os.MkdirAll(g.OutputDir, 0o755); err != nil {
		return nil, err
	}
	if rep.Copied, err = g.copyAssets(); err != nil {
		return nil, fmt.Errorf("copying assets: %w", err)
	}

	doc, err := content.Load(g.ContentFile)
	if err != nil {
		rep.ContentErr = err
		g.logf("content unavailable, keeping static pages: %v", err)
	}

	rep.Home = home.Render(tmpl.Index, doc)
	if err := writePage(filepath.Join(g.OutputDir, g.IndexTemplate), tmpl.Index); err != nil {
		return nil, err
	}
	rep.Pages = append(rep.Pages, filepath.ToSlash(g.IndexTemplate))

	if doc == nil {
		return rep, nil
	}

	link := home.LinkFor
	if link == nil {
		link = func(ev *content.Event) string { return content.ArticleURL(home.Viewer, ev.ID()) }
	}
	if err := WriteSearchIndex(BuildSearchIndex(doc, link), filepath.Join(g.OutputDir, SearchIndexFile)); err != nil {
		return nil, fmt.Errorf("writing search index: %w", err)
	}

	for i := range doc.Events() {
		ev := &doc.Sections.Events.Items[i]
		rel, ok := articlePath(ev)
		if !ok {
			continue
		}
		page := dom.Clone(tmpl.Article)
		if err := g.Article.RenderArticle(page, ev.Article); err != nil {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("%s: %v", ev.ID(), err))
			continue
		}
		if err := writePage(filepath.Join(g.OutputDir, filepath.FromSlash(rel)), page); err != nil {
			return nil, err
		}
		rep.Pages = append(rep.Pages, rel)
		g.logf("rendered %s", rel)
	}
	return rep, nil
}

// articlePath returns where an event's article is pre-rendered: its own link,
// when that is a local .html path.
func articlePath(ev *content.Event) (string, bool) {
	if ev.Article == nil || content.IsPlaceholderLink(ev.Link) {
		return "", false
	}
	link := ev.Link
	if i := strings.IndexAny(link, "?#"); i >= 0 {
		link = link[:i]
	}
	if strings.Contains(link, "://") || !strings.HasSuffix(link, ".html") {
		return "", false
	}
	link = strings.TrimPrefix(filepath.ToSlash(filepath.Clean(link)), "/")
	if link == ".." || strings.HasPrefix(link, "../") {
		return "", false
	}
	return link, true
}

// copyAssets mirrors SiteDir into OutputDir, skipping hidden entries, the
// output directory itself and excluded patterns.
func (g *SiteGenerator) copyAssets() (int, error) {
	outAbs, _ := filepath.Abs(g.OutputDir)
	copied := 0
	err := filepath.WalkDir(g.SiteDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(g.SiteDir, path)
		if err != nil || rel == "." {
			return err
		}
		rel = filepath.ToSlash(rel)
		if abs, _ := filepath.Abs(path); abs == outAbs {
			return filepath.SkipDir
		}
		if strings.HasPrefix(d.Name(), ".") || g.excluded(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if err := copyFile(path, filepath.Join(g.OutputDir, filepath.FromSlash(rel))); err != nil {
			return err
		}
		copied++
		return nil
	})
	return copied, err
}

func (g *SiteGenerator) excluded(rel string) bool {
	for _, pattern := range g.Exclude {
		pattern = filepath.ToSlash(pattern)
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(strings.TrimSuffix(pattern, "/**"), rel); ok {
			return true
		}
	}
	return false
}

func copyFile(src, dst string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return atomic.WriteFile(dst, f)
}

func writePage(path string, page *html.Node) error {
	var buf bytes.Buffer
	if err := dom.Render(&buf, page); err != nil {
		return fmt.Errorf("rendering %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func (g *SiteGenerator) logf(format string, args ...any) {
	if g.Logf != nil {
		g.Logf(format, args...)
	}
}

// IsTemplateError reports whether err is a template binding failure.
func IsTemplateError(err error) bool {
	var te *render.TemplateError
	return errors.As(err, &te)
}
