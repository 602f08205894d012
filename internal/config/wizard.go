package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// siteMarkers are files whose presence suggests a directory holds the site.
var siteMarkers = []string{
	"index.html",
	filepath.Join("config", "content.json"),
	filepath.Join("articles", "article-template.html"),
}

// detectSiteDir returns the first candidate directory that holds any site
// marker, or "." when none does.
func detectSiteDir(candidates ...string) string {
	for _, dir := range candidates {
		for _, m := range siteMarkers {
			if _, err := os.Stat(filepath.Join(dir, m)); err == nil {
				return dir
			}
		}
	}
	return "."
}

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to sitekit! Let's configure your site.")
	fmt.Println()

	cfg := DefaultConfig()

	siteDir := detectSiteDir(".", "site", "www", "public_html")
	if siteDir != "." {
		fmt.Printf("Detected site in %s\n\n", siteDir)
	}

	prompts := []struct {
		label string
		dst   *string
		def   string
	}{
		{"Site directory", &cfg.SiteDir, siteDir},
		{"Content file (relative to site)", &cfg.ContentFile, cfg.ContentFile},
		{"Backup directory (relative to site)", &cfg.BackupDir, cfg.BackupDir},
		{"Output directory for sitekit build", &cfg.OutputDir, cfg.OutputDir},
		{"Page title suffix", &cfg.Render.TitleSuffix, cfg.Render.TitleSuffix},
	}
	for _, p := range prompts {
		prompt := promptui.Prompt{Label: p.label, Default: p.def}
		v, err := prompt.Run()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", strings.ToLower(p.label), err)
		}
		*p.dst = v
	}
	cfg.Retitle.Suffix = cfg.Render.TitleSuffix

	includePrompt := promptui.Prompt{
		Label:   "Article pages for retitle --all (comma-separated globs)",
		Default: strings.Join(cfg.Retitle.Include, ","),
	}
	includeStr, err := includePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("include patterns: %w", err)
	}
	if include := splitAndTrim(includeStr); len(include) > 0 {
		cfg.Retitle.Include = include
	}

	portPrompt := promptui.Prompt{
		Label:   "Preview server port",
		Default: strconv.Itoa(cfg.Serve.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Serve.Port, _ = strconv.Atoi(portStr)

	modePrompt := promptui.Select{
		Label: "Article section text",
		Items: []string{
			"plain    - line breaks only",
			"markdown - GitHub-flavoured Markdown",
		},
	}
	modeIdx, _, err := modePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("text mode: %w", err)
	}
	cfg.Render.Markdown = modeIdx == 1

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(cfg.Resolve(cfg.ContentFile)); err != nil {
		fmt.Printf("\nNote: %s does not exist yet. Create it with sitekit content update.\n", cfg.Resolve(cfg.ContentFile))
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
