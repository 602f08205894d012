package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/ziadkadry99/sitekit/internal/content"
	"github.com/ziadkadry99/sitekit/internal/dom"
)

func articleDoc() *content.Document {
	return sampleDoc(
		content.Event{Title: "Networking", Link: "articles/networking-events.html"},
		content.Event{
			Title: "Moot Court",
			Link:  "articles/moot-court-competition.html",
			Article: &content.Article{
				FullTitle: "Moot Court Competition 2025",
				Date:      "3 April",
				Duration:  "All day",
				Tags:      []string{"Advocacy", "Competition"},
				Contact:   "moots@example.org",
				Content: []content.ContentSection{
					{Section: "Overview", Text: "Teams of two.\nJudged by practitioners."},
					{Section: "Prizes", Text: "Trophy <and> glory"},
				},
			},
		},
	)
}

func staticLoader(doc *content.Document, err error) (Loader, *int) {
	calls := 0
	return func() (*content.Document, error) {
		calls++
		return doc, err
	}, &calls
}

func TestArticleRenderSuccess(t *testing.T) {
	page := loadTemplate(t, "article-template.html")
	load, _ := staticLoader(articleDoc(), nil)

	if err := NewArticleRenderer().Render(page, load, "moot-court-competition"); err != nil {
		t.Fatalf("Render: %v", err)
	}

	if got := textOf(t, page, "title"); got != "Moot Court Competition 2025 - Surrey Students' Law Society" {
		t.Errorf("title = %q", got)
	}
	if got := textOf(t, page, "#article-title"); got != "Moot Court Competition 2025" {
		t.Errorf("article-title = %q", got)
	}
	if got := textOf(t, page, "#article-subtitle"); got != "3 April • All day" {
		t.Errorf("subtitle = %q", got)
	}
	if got := textOf(t, page, "#article-date"); got != "3 April" {
		t.Errorf("date = %q", got)
	}
	// No location in the article: the template value stays.
	if got := textOf(t, page, "#article-location"); got != "TBC" {
		t.Errorf("location = %q, want TBC", got)
	}
	if got := attrOf(t, page, "#article-contact", "href"); got != "mailto:moots@example.org" {
		t.Errorf("contact href = %q", got)
	}

	tags := dom.MustCompile("#article-tags span.tag").QueryAll(page)
	if len(tags) != 2 || dom.Text(tags[0]) != "Advocacy" {
		t.Errorf("tags = %d", len(tags))
	}

	sections := dom.MustCompile("#article-body .article-section").QueryAll(page)
	if len(sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(sections))
	}
	if got := textOf(t, sections[1], "h3.section-title"); got != "Prizes" {
		t.Errorf("section 1 title = %q", got)
	}

	out, err := dom.RenderString(page)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `<div class="section-content">Teams of two.<br/>Judged by practitioners.</div>`) {
		t.Error("newlines should become <br>")
	}
	if !strings.Contains(out, "Trophy &lt;and&gt; glory") {
		t.Error("section text should be escaped")
	}
	if strings.Contains(out, "Loading article content") {
		t.Error("body placeholder should be cleared")
	}
}

func TestArticleRenderErrors(t *testing.T) {
	loadErr := errors.New("connection refused")
	tests := []struct {
		name   string
		id     string
		doc    *content.Document
		err    error
		want   error
		loaded bool
	}{
		{"no id", "", articleDoc(), nil, ErrNoArticleID, false},
		{"no match", "nope", articleDoc(), nil, ErrArticleNotFound, true},
		{"no article", "networking-events", articleDoc(), nil, ErrNoArticleContent, true},
		{"load failure", "moot-court-competition", nil, loadErr, loadErr, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := loadTemplate(t, "article-template.html")
			load, calls := staticLoader(tt.doc, tt.err)

			err := NewArticleRenderer().Render(page, load, tt.id)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if (*calls > 0) != tt.loaded {
				t.Errorf("loader calls = %d, loaded = %v", *calls, tt.loaded)
			}

			if got := textOf(t, page, "title"); got != "Article Not Found - Surrey Students' Law Society" {
				t.Errorf("title = %q", got)
			}
			if got := textOf(t, page, "#article-title"); got != "Article Not Found" {
				t.Errorf("article-title = %q", got)
			}
			if got := textOf(t, page, "#article-subtitle"); got != "The requested article could not be loaded." {
				t.Errorf("subtitle = %q", got)
			}
			// Success-view fields stay as the template had them.
			if got := textOf(t, page, "#article-date"); got != "TBC" {
				t.Errorf("date = %q, want TBC", got)
			}
			if got := attrOf(t, page, "#article-contact", "href"); got != "#" {
				t.Errorf("contact href = %q, want #", got)
			}
			if n := dom.MustCompile("#article-tags span").Query(page); n != nil {
				t.Error("tags should not be written")
			}
			back := dom.MustCompile("#article-body .error-message a").Query(page)
			if back == nil || dom.Attr(back, "href") != "../index.html#four" {
				t.Errorf("error view should link back to the events listing")
			}
		})
	}
}

func TestArticleRenderMarkdown(t *testing.T) {
	page := loadTemplate(t, "article-template.html")
	doc := articleDoc()
	doc.Sections.Events.Items[1].Article.Content = []content.ContentSection{
		{Section: "Rules", Text: "**Two** speakers\nper team"},
	}
	load, _ := staticLoader(doc, nil)

	r := NewArticleRenderer()
	r.Markdown = NewMarkdown()
	if err := r.Render(page, load, "moot-court-competition"); err != nil {
		t.Fatalf("Render: %v", err)
	}
	body := dom.MustCompile("#article-body .section-content").Query(page)
	out, err := dom.RenderString(body)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "<strong>Two</strong>") {
		t.Errorf("markdown not rendered: %s", out)
	}
	if !strings.Contains(out, "<br/>") {
		t.Errorf("hard wrap not rendered: %s", out)
	}
}

func TestArticleCheck(t *testing.T) {
	page := loadTemplate(t, "article-template.html")
	r := NewArticleRenderer()
	if _, err := r.Check("article-template.html", page); err != nil {
		t.Fatalf("Check: %v", err)
	}

	body := dom.ByID(page, "article-body")
	body.Parent.RemoveChild(body)
	if _, err := r.Check("article-template.html", page); err == nil {
		t.Error("expected error when #article-body is missing")
	}
}
