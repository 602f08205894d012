package config

// Config is the top-level sitekit configuration, corresponding to .sitekit.yml.
type Config struct {
	ContentFile string        `yaml:"content_file" koanf:"content_file"`
	BackupDir   string        `yaml:"backup_dir" koanf:"backup_dir"`
	SiteDir     string        `yaml:"site_dir" koanf:"site_dir"`
	OutputDir   string        `yaml:"output_dir" koanf:"output_dir"`
	HistoryDB   string        `yaml:"history_db" koanf:"history_db"`
	Render      RenderConfig  `yaml:"render" koanf:"render"`
	Links       []LinkEntry   `yaml:"links" koanf:"links"`
	Retitle     RetitleConfig `yaml:"retitle" koanf:"retitle"`
	Serve       ServeConfig   `yaml:"serve" koanf:"serve"`
}

// RenderConfig controls the home and article renderers.
type RenderConfig struct {
	IndexTemplate   string `yaml:"index_template" koanf:"index_template"`
	ArticleTemplate string `yaml:"article_template" koanf:"article_template"`
	// ArticleViewer is the link target written into event cards.
	ArticleViewer string `yaml:"article_viewer" koanf:"article_viewer"`
	TitleSuffix   string `yaml:"title_suffix" koanf:"title_suffix"`
	EventsLink    string `yaml:"events_link" koanf:"events_link"`
	Markdown      bool   `yaml:"markdown" koanf:"markdown"`
}

// LinkEntry maps an event title to its canonical article link.
type LinkEntry struct {
	Title string `yaml:"title" koanf:"title"`
	Link  string `yaml:"link" koanf:"link"`
}

// RetitleConfig holds settings for batch title patching.
type RetitleConfig struct {
	Include  []string `yaml:"include" koanf:"include"`
	Exclude  []string `yaml:"exclude" koanf:"exclude"`
	Suffix   string   `yaml:"suffix" koanf:"suffix"`
	FromSlug bool     `yaml:"from_slug" koanf:"from_slug"`
}

// ServeConfig holds preview server settings.
type ServeConfig struct {
	Port       int  `yaml:"port" koanf:"port"`
	LiveReload bool `yaml:"live_reload" koanf:"live_reload"`
}

// LinkTable returns the configured links as a title to link map.
func (c *Config) LinkTable() map[string]string {
	m := make(map[string]string, len(c.Links))
	for _, l := range c.Links {
		m[l.Title] = l.Link
	}
	return m
}
