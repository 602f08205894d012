package render

import (
	"errors"
	"fmt"

	"golang.org/x/net/html"

	"github.com/ziadkadry99/sitekit/internal/content"
	"github.com/ziadkadry99/sitekit/internal/dom"
)

// Article lookup failures. All of them produce the same error view; callers
// can tell them apart with errors.Is.
var (
	ErrNoArticleID      = errors.New("no article id specified")
	ErrArticleNotFound  = errors.New("article not found")
	ErrNoArticleContent = errors.New("article content not found")
)

// DefaultTitleSuffix is appended to every article page title.
const DefaultTitleSuffix = " - Surrey Students' Law Society"

// DefaultEventsLink is where the error view points readers back to.
const DefaultEventsLink = "../index.html#four"

// Element IDs in the article viewer template.
const (
	idTitle    = "article-title"
	idSubtitle = "article-subtitle"
	idDate     = "article-date"
	idLocation = "article-location"
	idDuration = "article-duration"
	idBody     = "article-body"
	idTags     = "article-tags"
	idContact  = "article-contact"
)

// ArticleBindings is the binding table for the article viewer template.
// Only title, subtitle and body are required; the rest are written when
// present.
var ArticleBindings = []Binding{
	{Field: "article.fullTitle", Selector: dom.MustCompile("#" + idTitle)},
	{Field: "article subtitle", Selector: dom.MustCompile("#" + idSubtitle)},
	{Field: "article.content", Selector: dom.MustCompile("#" + idBody)},
	{Field: "article.date", Selector: dom.MustCompile("#" + idDate), Optional: true},
	{Field: "article.location", Selector: dom.MustCompile("#" + idLocation), Optional: true},
	{Field: "article.duration", Selector: dom.MustCompile("#" + idDuration), Optional: true},
	{Field: "article.tags", Selector: dom.MustCompile("#" + idTags), Optional: true},
	{Field: "article.contact", Selector: dom.MustCompile("#" + idContact), Optional: true},
}

// Loader fetches the content document. It is called at most once per render.
type Loader func() (*content.Document, error)

// ArticleRenderer fills the article viewer template.
type ArticleRenderer struct {
	TitleSuffix string
	EventsLink  string
	// Markdown, when set, renders section text as Markdown.
	Markdown *Markdown
}

// NewArticleRenderer returns an ArticleRenderer with default wording.
func NewArticleRenderer() *ArticleRenderer {
	return &ArticleRenderer{
		TitleSuffix: DefaultTitleSuffix,
		EventsLink:  DefaultEventsLink,
	}
}

// Check verifies that the template contains every required element.
func (r *ArticleRenderer) Check(name string, page *html.Node) ([]string, error) {
	return CheckBindings(name, page, ArticleBindings)
}

// Lookup resolves id to an event carrying an article.
func Lookup(load Loader, id string) (*content.Event, error) {
	if id == "" {
		return nil, ErrNoArticleID
	}
	doc, err := load()
	if err != nil {
		return nil, fmt.Errorf("loading content: %w", err)
	}
	ev, ok := doc.FindEvent(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrArticleNotFound, id)
	}
	if ev.Article == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoArticleContent, id)
	}
	return ev, nil
}

// Render looks up id and writes the article into page. On any failure the
// error view is written instead and the cause is returned.
func (r *ArticleRenderer) Render(page *html.Node, load Loader, id string) error {
	ev, err := Lookup(load, id)
	if err == nil {
		err = r.renderArticle(page, ev.Article)
	}
	if err != nil {
		r.renderError(page)
		return err
	}
	return nil
}

// RenderArticle writes a known article into page.
func (r *ArticleRenderer) RenderArticle(page *html.Node, a *content.Article) error {
	if err := r.renderArticle(page, a); err != nil {
		r.renderError(page)
		return err
	}
	return nil
}

func (r *ArticleRenderer) renderArticle(page *html.Node, a *content.Article) error {
	// Build the body first so a Markdown failure leaves the page untouched.
	sections, err := r.sections(a.Content)
	if err != nil {
		return err
	}

	if t := dom.Title(page); t != nil {
		dom.SetText(t, a.FullTitle+r.TitleSuffix)
	}
	setTextByID(page, idTitle, a.FullTitle)
	setTextByID(page, idSubtitle, a.Subtitle())
	if a.Date != "" {
		setTextByID(page, idDate, a.Date)
	}
	if a.Location != "" {
		setTextByID(page, idLocation, a.Location)
	}
	if a.Duration != "" {
		setTextByID(page, idDuration, a.Duration)
	}

	if body := dom.ByID(page, idBody); body != nil {
		dom.RemoveChildren(body)
		for _, s := range sections {
			body.AppendChild(s)
		}
	}

	if len(a.Tags) > 0 {
		if tags := dom.ByID(page, idTags); tags != nil {
			dom.RemoveChildren(tags)
			for _, tag := range a.Tags {
				span := dom.Element("span", "class", "tag")
				span.AppendChild(dom.TextNode(tag))
				tags.AppendChild(span)
			}
		}
	}

	if a.Contact != "" {
		if c := dom.ByID(page, idContact); c != nil {
			dom.SetAttr(c, "href", "mailto:"+a.Contact)
			dom.SetText(c, a.Contact)
		}
	}
	return nil
}

// sections builds one div.article-section per content section, in order.
func (r *ArticleRenderer) sections(list []content.ContentSection) ([]*html.Node, error) {
	out := make([]*html.Node, 0, len(list))
	for i, s := range list {
		div := dom.Element("div", "class", "article-section")

		h := dom.Element("h3", "class", "section-title")
		h.AppendChild(dom.TextNode(s.Section))

		body := dom.Element("div", "class", "section-content")
		if r.Markdown != nil {
			src, err := r.Markdown.Convert(s.Text)
			if err != nil {
				return nil, fmt.Errorf("section %d: %w", i, err)
			}
			nodes, err := dom.ParseFragment(src)
			if err != nil {
				return nil, fmt.Errorf("section %d: %w", i, err)
			}
			for _, n := range nodes {
				body.AppendChild(n)
			}
		} else {
			dom.AppendText(body, s.Text)
		}

		div.AppendChild(h)
		div.AppendChild(body)
		out = append(out, div)
	}
	return out, nil
}

const errorBlock = `<div class="error-message">
<p>Sorry, the article you're looking for could not be found or loaded.</p>
<p>This might be due to:</p>
<ul>
<li>The article URL is incorrect</li>
<li>The article content is not available</li>
<li>A temporary server issue</li>
</ul>
<p>Please try:</p>
<ul>
<li>Going back to the <a href="%s">Events page</a></li>
<li>Checking the URL for typos</li>
<li>Refreshing the page</li>
</ul>
</div>`

// renderError writes the static "not found" view.
func (r *ArticleRenderer) renderError(page *html.Node) {
	if t := dom.Title(page); t != nil {
		dom.SetText(t, "Article Not Found"+r.TitleSuffix)
	}
	setTextByID(page, idTitle, "Article Not Found")
	setTextByID(page, idSubtitle, "The requested article could not be loaded.")

	body := dom.ByID(page, idBody)
	if body == nil {
		return
	}
	dom.RemoveChildren(body)
	nodes, err := dom.ParseFragment(fmt.Sprintf(errorBlock, html.EscapeString(r.EventsLink)))
	if err != nil {
		body.AppendChild(dom.TextNode("The requested article could not be loaded."))
		return
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}
}

func setTextByID(page *html.Node, id, text string) {
	if n := dom.ByID(page, id); n != nil {
		dom.SetText(n, text)
	}
}
