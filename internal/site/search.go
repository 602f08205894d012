package site

import (
	"encoding/json"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/ziadkadry99/sitekit/internal/content"
)

// maxSearchContent bounds the body text stored per entry.
const maxSearchContent = 2000

// SearchEntry represents a single searchable event page.
type SearchEntry struct {
	Path    string   `json:"path"`
	Title   string   `json:"title"`
	Summary string   `json:"summary"`
	Tags    []string `json:"tags,omitempty"`
	Content string   `json:"content"`
}

// BuildSearchIndex lists every event with a real link. link maps an event to
// the URL the entry should open.
func BuildSearchIndex(doc *content.Document, link func(ev *content.Event) string) []SearchEntry {
	entries := []SearchEntry{}
	if doc == nil {
		return entries
	}
	for i := range doc.Sections.Events.Items {
		ev := &doc.Sections.Events.Items[i]
		if content.IsPlaceholderLink(ev.Link) {
			continue
		}
		entry := SearchEntry{
			Path:    link(ev),
			Title:   ev.Title,
			Summary: ev.Description,
		}
		if a := ev.Article; a != nil {
			if a.FullTitle != "" {
				entry.Title = a.FullTitle
			}
			entry.Tags = a.Tags
			var parts []string
			for _, s := range a.Content {
				parts = append(parts, s.Section, strings.ReplaceAll(s.Text, "\n", " "))
			}
			entry.Content = truncate(strings.Join(parts, " "), maxSearchContent)
		}
		entries = append(entries, entry)
	}
	return entries
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !isRuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }

// WriteSearchIndex writes the search index as JSON to the given path.
func WriteSearchIndex(entries []SearchEntry, outputPath string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return atomic.WriteFile(outputPath, strings.NewReader(string(data)))
}
