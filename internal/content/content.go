package content

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// PlaceholderLink is the link value authors use before an article exists.
const PlaceholderLink = "#"

// Parse decodes a content document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing content document: %w", err)
	}
	return &doc, nil
}

// Load reads and decodes the content document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading content document %s: %w", path, err)
	}
	return Parse(data)
}

// Slug derives an article identifier from a link: the last path segment with
// a trailing ".html" removed. "articles/moot-court.html" becomes "moot-court".
func Slug(link string) string {
	if link == "" {
		return ""
	}
	seg := link[strings.LastIndex(link, "/")+1:]
	return strings.TrimSuffix(seg, ".html")
}

// IsPlaceholderLink reports whether link is empty or the "#" placeholder.
func IsPlaceholderLink(link string) bool {
	return link == "" || link == PlaceholderLink
}

// ArticleURL builds the article viewer URL for the given identifier.
func ArticleURL(viewer, id string) string {
	return viewer + "?article=" + url.QueryEscape(id)
}

// ID returns the event's derived identifier.
func (e *Event) ID() string {
	return Slug(e.Link)
}

// Events returns the event list.
func (d *Document) Events() []Event {
	return d.Sections.Events.Items
}

// FindEvent returns the first event whose derived identifier equals id.
// Events without a link never match.
func (d *Document) FindEvent(id string) (*Event, bool) {
	if id == "" {
		return nil, false
	}
	items := d.Sections.Events.Items
	for i := range items {
		if items[i].Link == "" {
			continue
		}
		if items[i].ID() == id {
			return &items[i], true
		}
	}
	return nil, false
}

// Subtitle joins the article's date, location and duration, skipping the
// ones that are empty.
func (a *Article) Subtitle() string {
	var parts []string
	for _, s := range []string{a.Date, a.Location, a.Duration} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " • ")
}
