package retitle

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ziadkadry99/sitekit/internal/content"
	"github.com/ziadkadry99/sitekit/internal/progress"
)

// DefaultInclude selects the article pages under a site directory.
var DefaultInclude = []string{"articles/**/*.html"}

// Job is one file to patch.
type Job struct {
	// Path is relative to the site directory, with forward slashes.
	Path  string
	Title string
	// Source says where Title came from: "article", "event" or "slug".
	Source string
}

// PlanOptions controls Plan.
type PlanOptions struct {
	Include []string
	Exclude []string
	// FromSlug titles pages with no matching event from their filename.
	FromSlug bool
}

// Plan matches the HTML files under siteDir against the events in doc.
// A page whose derived identifier names an event gets the event's article
// title, or the event title when it has no article. Unmatched pages are
// returned separately unless FromSlug is set.
func Plan(siteDir string, doc *content.Document, opts PlanOptions) (jobs []Job, unmatched []string, err error) {
	include := opts.Include
	if len(include) == 0 {
		include = DefaultInclude
	}

	fsys := os.DirFS(siteDir)
	seen := make(map[string]bool)
	var paths []string
	for _, pattern := range include {
		matches, err := doublestar.Glob(fsys, filepath.ToSlash(pattern), doublestar.WithFilesOnly())
		if err != nil {
			return nil, nil, fmt.Errorf("matching %q: %w", pattern, err)
		}
		for _, m := range matches {
			if seen[m] || matchesAny(m, opts.Exclude) {
				continue
			}
			seen[m] = true
			paths = append(paths, m)
		}
	}
	sort.Strings(paths)

	for _, p := range paths {
		slug := content.Slug(p)
		ev, ok := doc.FindEvent(slug)
		switch {
		case ok && ev.Article != nil && ev.Article.FullTitle != "":
			jobs = append(jobs, Job{Path: p, Title: ev.Article.FullTitle, Source: "article"})
		case ok && ev.Title != "":
			jobs = append(jobs, Job{Path: p, Title: ev.Title, Source: "event"})
		case opts.FromSlug:
			jobs = append(jobs, Job{Path: p, Title: TitleFromSlug(slug), Source: "slug"})
		default:
			unmatched = append(unmatched, p)
		}
	}
	return jobs, unmatched, nil
}

// TitleFromSlug turns "moot-court_competition" into "Moot Court Competition".
func TitleFromSlug(slug string) string {
	words := strings.NewReplacer("-", " ", "_", " ").Replace(slug)
	return cases.Title(language.English).String(strings.Join(strings.Fields(words), " "))
}

// Outcome is the result of one job.
type Outcome struct {
	Job    Job
	Result Result
	Err    error
}

// Apply runs jobs against siteDir, reporting progress to rep.
func Apply(siteDir string, jobs []Job, suffix string, rep progress.Reporter) []Outcome {
	out := make([]Outcome, 0, len(jobs))
	rep.Start(len(jobs))
	for i, j := range jobs {
		res, err := File(filepath.Join(siteDir, filepath.FromSlash(j.Path)), j.Title, suffix)
		out = append(out, Outcome{Job: j, Result: res, Err: err})
		rep.Update(i+1, j.Path)
	}
	rep.Finish()
	return out
}

// matchesAny reports whether relPath, or its base name, matches one of the
// glob patterns.
func matchesAny(relPath string, patterns []string) bool {
	normalized := filepath.ToSlash(relPath)
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if matched, err := doublestar.PathMatch(pattern, normalized); err == nil && matched {
			return true
		}
		if matched, err := doublestar.PathMatch(pattern, filepath.Base(normalized)); err == nil && matched {
			return true
		}
	}
	return false
}
