package cmd

import (
	"fmt"
	"os"

	"github.com/ziadkadry99/sitekit/internal/audit"
	"github.com/ziadkadry99/sitekit/internal/config"
	"github.com/ziadkadry99/sitekit/internal/contentfile"
	"github.com/ziadkadry99/sitekit/internal/db"
	"github.com/ziadkadry99/sitekit/internal/render"
	"github.com/ziadkadry99/sitekit/internal/site"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `sitekit init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// contentStore returns the content document store described by cfg.
func contentStore(cfg *config.Config) *contentfile.Store {
	return contentfile.New(cfg.Resolve(cfg.ContentFile), cfg.Resolve(cfg.BackupDir))
}

// openHistory opens the history database. Failure is reported as a warning
// and yields a nil store, which discards entries.
func openHistory(cfg *config.Config) (*audit.Store, func()) {
	if cfg.HistoryDB == "" {
		return nil, func() {}
	}
	database, err := db.Open(cfg.HistoryDB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: history disabled: %v\n", err)
		return nil, func() {}
	}
	return audit.NewStore(database), func() { database.Close() }
}

// newRenderers builds the home and article renderers from cfg.
func newRenderers(cfg *config.Config) (*render.HomeRenderer, *render.ArticleRenderer) {
	home := render.NewHomeRenderer(cfg.Render.ArticleViewer)
	home.Logf = vlogf

	article := render.NewArticleRenderer()
	article.TitleSuffix = cfg.Render.TitleSuffix
	if cfg.Render.EventsLink != "" {
		article.EventsLink = cfg.Render.EventsLink
	}
	if cfg.Render.Markdown {
		article.Markdown = render.NewMarkdown()
	}
	return home, article
}

// templateHint adds a pointer to the template settings when err is a
// missing binding target.
func templateHint(err error) error {
	if !site.IsTemplateError(err) {
		return err
	}
	return fmt.Errorf("%w\nRestore the element in the template, or point render.index_template / render.article_template at the right file", err)
}
