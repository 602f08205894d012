package config

// DefaultSuffix is appended to every article page title.
const DefaultSuffix = " - Surrey Students' Law Society"

// DefaultLinks are the canonical article links for the standing events.
var DefaultLinks = []LinkEntry{
	{Title: "Legal Writing Workshop", Link: "articles/legal-writing-workshop.html"},
	{Title: "Networking Events", Link: "articles/networking-events.html"},
	{Title: "Moot Court Competition", Link: "articles/moot-court-competition.html"},
	{Title: "Social Events", Link: "articles/social-events.html"},
}

// DefaultRetitleExcludes keep the viewer template out of batch retitles.
var DefaultRetitleExcludes = []string{
	"article-template.html",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	links := make([]LinkEntry, len(DefaultLinks))
	copy(links, DefaultLinks)
	return &Config{
		ContentFile: "config/content.json",
		BackupDir:   "content-backup",
		SiteDir:     ".",
		OutputDir:   "public",
		HistoryDB:   ".sitekit/history.db",
		Render: RenderConfig{
			IndexTemplate:   "index.html",
			ArticleTemplate: "articles/article-template.html",
			ArticleViewer:   "articles/article-template.html",
			TitleSuffix:     DefaultSuffix,
			EventsLink:      "../index.html#four",
		},
		Links: links,
		Retitle: RetitleConfig{
			Include: []string{"articles/**/*.html"},
			Exclude: append([]string(nil), DefaultRetitleExcludes...),
			Suffix:  DefaultSuffix,
		},
		Serve: ServeConfig{
			Port:       8080,
			LiveReload: true,
		},
	}
}
