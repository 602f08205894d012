// Package linkfix replaces placeholder event links in the content document
// with the known article paths for a fixed set of event titles.
package linkfix

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/ziadkadry99/sitekit/internal/content"
	"github.com/ziadkadry99/sitekit/internal/contentfile"
)

// ErrNoEvents is returned when the document has no events list.
var ErrNoEvents = errors.New("events section not found in content document")

const eventsPath = "sections.events.items"

// DefaultLinks maps known event titles to their article paths.
var DefaultLinks = map[string]string{
	"Legal Writing Workshop": "articles/legal-writing-workshop.html",
	"Networking Events":      "articles/networking-events.html",
	"Moot Court Competition": "articles/moot-court-competition.html",
	"Social Events":          "articles/social-events.html",
}

// Outcome classifies what happened to one event.
type Outcome string

const (
	// Fixed: a placeholder link was replaced.
	Fixed Outcome = "fixed"
	// Mismatch: the link is set but differs from the table. Left for review.
	Mismatch Outcome = "mismatch"
	// Unknown: the event has no title or its title is not in the table.
	Unknown Outcome = "unknown"
	// Correct: the link already matches the table.
	Correct Outcome = "correct"
)

// Change records the outcome for one event.
type Change struct {
	Index   int
	Title   string
	OldLink string
	NewLink string
	Outcome Outcome
}

// Report lists the outcome for every event, in document order.
type Report struct {
	Changes []Change
}

// Count returns the number of events with outcome o.
func (r Report) Count(o Outcome) int {
	n := 0
	for _, c := range r.Changes {
		if c.Outcome == o {
			n++
		}
	}
	return n
}

// Fixed returns the number of links that were replaced.
func (r Report) Fixed() int { return r.Count(Fixed) }

// Repair applies links to the events in data and returns the updated
// document with two-space indentation. Fields other than the replaced links
// are left as they were, key order included.
func Repair(data []byte, links map[string]string) ([]byte, Report, error) {
	var report Report
	if !gjson.ValidBytes(data) {
		return nil, report, fmt.Errorf("parsing content document: invalid JSON")
	}
	items := gjson.GetBytes(data, eventsPath)
	if !items.IsArray() {
		return nil, report, ErrNoEvents
	}

	out := data
	for i, item := range items.Array() {
		title := item.Get("title")
		link := item.Get("link")
		c := Change{Index: i, Title: title.String(), OldLink: link.String()}

		want, known := "", false
		if title.Type == gjson.String {
			want, known = links[title.String()]
		}
		switch {
		case !known:
			c.Outcome = Unknown
		case link.Type == gjson.Null || content.IsPlaceholderLink(link.String()):
			var err error
			out, err = sjson.SetBytes(out, fmt.Sprintf("%s.%d.link", eventsPath, i), want)
			if err != nil {
				return nil, report, fmt.Errorf("setting link for %q: %w", c.Title, err)
			}
			c.NewLink = want
			c.Outcome = Fixed
		case link.String() != want:
			c.NewLink = want
			c.Outcome = Mismatch
		default:
			c.Outcome = Correct
		}
		report.Changes = append(report.Changes, c)
	}

	formatted, err := contentfile.Indent(out)
	if err != nil {
		return nil, report, err
	}
	return formatted, report, nil
}

// Result is the outcome of Run.
type Result struct {
	Backup string
	Report Report
}

// Run loads the document from store, backs it up, repairs its links and
// writes it back.
func Run(store *contentfile.Store, links map[string]string) (Result, error) {
	var res Result
	data, err := store.Read()
	if err != nil {
		return res, err
	}
	pretty, err := contentfile.Indent(data)
	if err != nil {
		return res, fmt.Errorf("parsing content document: %w", err)
	}

	res.Backup, err = store.WriteBackup(contentfile.PreFixPrefix, pretty)
	if err != nil {
		return res, err
	}

	out, report, err := Repair(data, links)
	res.Report = report
	if err != nil {
		return res, err
	}
	if err := store.Update(out); err != nil {
		return res, err
	}
	return res, nil
}
