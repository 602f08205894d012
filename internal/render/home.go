// Package render populates the site's HTML templates from the content
// document: the home page through an explicit binding table, and the article
// viewer for one event's nested article.
package render

import (
	"golang.org/x/net/html"

	"github.com/ziadkadry99/sitekit/internal/content"
	"github.com/ziadkadry99/sitekit/internal/dom"
)

// DefaultViewer is the article viewer page that event cards link to.
const DefaultViewer = "articles/article-template.html"

// HomeRenderer fills the home page template.
type HomeRenderer struct {
	// Viewer is the article viewer path used for event "details" links.
	Viewer   string
	Bindings []Binding
	// LinkFor, when set, replaces the viewer URL for an event's card link.
	LinkFor func(ev *content.Event) string
	// Logf, when set, receives per-event progress.
	Logf func(format string, args ...any)
}

// NewHomeRenderer returns a HomeRenderer using HomeBindings.
func NewHomeRenderer(viewer string) *HomeRenderer {
	if viewer == "" {
		viewer = DefaultViewer
	}
	return &HomeRenderer{Viewer: viewer, Bindings: HomeBindings}
}

// HomeResult summarizes one render.
type HomeResult struct {
	// Slots is the number of event cards in the template.
	Slots int
	// Populated is the number of cards that received event data.
	Populated int
	// Dropped is the number of events with no card to go into.
	Dropped int
}

// Check verifies that the template contains every required binding target.
func (r *HomeRenderer) Check(name string, page *html.Node) ([]string, error) {
	return CheckBindings(name, page, r.Bindings)
}

// Render writes doc into page in place. A nil doc leaves page untouched so
// the template's static content stays visible.
func (r *HomeRenderer) Render(page *html.Node, doc *content.Document) HomeResult {
	if doc == nil {
		return HomeResult{}
	}
	apply(page, doc, r.Bindings)
	return r.renderEvents(page, doc.Events())
}

// renderEvents copies each event into the card at the same index. Extra
// events are dropped; cards without an event are left alone.
func (r *HomeRenderer) renderEvents(page *html.Node, events []content.Event) HomeResult {
	slots := eventSlotSelector.QueryAll(page)
	res := HomeResult{Slots: len(slots)}
	for i := range events {
		ev := &events[i]
		if i >= len(slots) {
			res.Dropped++
			r.logf("no card for event %d (%s)", i, ev.Title)
			continue
		}
		card := slots[i]
		if n := eventTitleSelector.Query(card); n != nil && ev.Title != "" {
			dom.SetText(n, ev.Title)
		}
		if n := eventDescSelector.Query(card); n != nil && ev.Description != "" {
			dom.SetText(n, ev.Description)
		}
		if n := eventImageSelector.Query(card); n != nil && ev.Image != nil {
			dom.SetAttr(n, "src", ev.Image.Src)
			dom.SetAttr(n, "alt", ev.Image.Alt)
		}
		if n := eventLinkSelector.Query(card); n != nil && !content.IsPlaceholderLink(ev.Link) {
			u := r.linkFor(ev)
			dom.SetAttr(n, "href", u)
			r.logf("event %d (%s) links to %s", i, ev.Title, u)
		}
		res.Populated++
	}
	return res
}

func (r *HomeRenderer) linkFor(ev *content.Event) string {
	if r.LinkFor != nil {
		return r.LinkFor(ev)
	}
	return content.ArticleURL(r.Viewer, ev.ID())
}

// StaticLink points an event card straight at the event's own page.
func StaticLink(ev *content.Event) string { return ev.Link }

func (r *HomeRenderer) logf(format string, args ...any) {
	if r.Logf != nil {
		r.Logf(format, args...)
	}
}
