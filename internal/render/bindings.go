package render

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/ziadkadry99/sitekit/internal/content"
	"github.com/ziadkadry99/sitekit/internal/dom"
)

// Binding maps one field of the content document onto one element of the
// home page template.
type Binding struct {
	// Field names the document path, for diagnostics.
	Field    string
	Selector *dom.Selector
	// Attr is the attribute to set. Empty means the element's text.
	Attr string
	// Optional bindings are not required to exist in the template.
	Optional bool
	// Value extracts the field. An empty result leaves the element as is.
	Value func(d *content.Document) string
	// Lines, when set, replaces Value: the element gets the lines joined
	// by <br> elements.
	Lines func(d *content.Document) []string
}

// TemplateError lists binding targets that the template does not contain.
type TemplateError struct {
	Template string
	Missing  []string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template %s is missing %d binding target(s): %s",
		e.Template, len(e.Missing), strings.Join(e.Missing, "; "))
}

func text(sel, field string, v func(d *content.Document) string) Binding {
	return Binding{Field: field, Selector: dom.MustCompile(sel), Value: v}
}

func attr(sel, a, field string, v func(d *content.Document) string) Binding {
	return Binding{Field: field, Selector: dom.MustCompile(sel), Attr: a, Value: v}
}

func optional(b Binding) Binding {
	b.Optional = true
	return b
}

func sectionBindings(id, name string, get func(d *content.Document) *content.Section) []Binding {
	img := func(f func(*content.Image) string) func(d *content.Document) string {
		return func(d *content.Document) string {
			if s := get(d); s.Image != nil {
				return f(s.Image)
			}
			return ""
		}
	}
	return []Binding{
		text("#"+id+" h2.major", "sections."+name+".title", func(d *content.Document) string { return get(d).Title }),
		text("#"+id+" .content p", "sections."+name+".content", func(d *content.Document) string { return get(d).Content }),
		optional(attr("#"+id+" .image img", "src", "sections."+name+".image.src", img(func(i *content.Image) string { return i.Src }))),
		optional(attr("#"+id+" .image img", "alt", "sections."+name+".image.alt", img(func(i *content.Image) string { return i.Alt }))),
	}
}

// HomeBindings is the binding table for the home page template.
var HomeBindings = buildHomeBindings()

func buildHomeBindings() []Binding {
	b := []Binding{
		text("title", "site.title", func(d *content.Document) string { return d.Site.Title }),
		text("#header h1 a", "header.title", func(d *content.Document) string { return d.Header.Title }),
		text("#banner h2", "banner.title", func(d *content.Document) string { return d.Banner.Title }),
		text("#banner p", "banner.subtitle", func(d *content.Document) string { return d.Banner.Subtitle }),
		attr("#banner .logo img", "src", "banner.logo.src", func(d *content.Document) string { return d.Banner.Logo.Src }),
		attr("#banner .logo img", "alt", "banner.logo.alt", func(d *content.Document) string { return d.Banner.Logo.Alt }),
	}
	b = append(b, sectionBindings("one", "about", func(d *content.Document) *content.Section { return &d.Sections.About })...)
	b = append(b, sectionBindings("two", "offerings", func(d *content.Document) *content.Section { return &d.Sections.Offerings })...)
	b = append(b, sectionBindings("three", "community", func(d *content.Document) *content.Section { return &d.Sections.Community })...)
	b = append(b,
		text("#four h2.major", "sections.events.title", func(d *content.Document) string { return d.Sections.Events.Title }),
		text("#four > .inner > p", "sections.events.description", func(d *content.Document) string { return d.Sections.Events.Description }),
		optional(text("#four .actions .button", "sections.events.buttonText", func(d *content.Document) string { return d.Sections.Events.ButtonText })),

		text("#footer h2.major", "contact.title", func(d *content.Document) string { return d.Contact.Title }),
		text("#footer > .inner > p", "contact.description", func(d *content.Document) string { return d.Contact.Description }),
		optional(text(`#footer label[for="name"]`, "contact.form.name", func(d *content.Document) string { return d.Contact.Form.Name })),
		optional(text(`#footer label[for="email"]`, "contact.form.email", func(d *content.Document) string { return d.Contact.Form.Email })),
		optional(text(`#footer label[for="message"]`, "contact.form.message", func(d *content.Document) string { return d.Contact.Form.Message })),
		optional(attr(`#footer input[type="submit"]`, "value", "contact.form.submit", func(d *content.Document) string { return d.Contact.Form.Submit })),
		Binding{
			Field:    "contact.info.address",
			Selector: dom.MustCompile("#footer .contact li.icon.solid.fa-home"),
			Optional: true,
			Lines: func(d *content.Document) []string {
				a := d.Contact.Info.Address
				return []string{a.Organization, a.Institution, a.Location}
			},
		},
		optional(attr("#footer .contact li.icon.solid.fa-envelope a", "href", "contact.info.email", func(d *content.Document) string {
			if d.Contact.Info.Email == "" {
				return ""
			}
			return "mailto:" + d.Contact.Info.Email
		})),
		optional(text("#footer .contact li.icon.solid.fa-envelope a", "contact.info.email", func(d *content.Document) string { return d.Contact.Info.Email })),
		optional(text("#footer .contact li.icon.brands.fa-twitter a", "contact.info.social.twitter", func(d *content.Document) string { return d.Contact.Info.Social.Twitter })),
		optional(text("#footer .contact li.icon.brands.fa-facebook-f a", "contact.info.social.facebook", func(d *content.Document) string { return d.Contact.Info.Social.Facebook })),
		optional(text("#footer .contact li.icon.brands.fa-instagram a", "contact.info.social.instagram", func(d *content.Document) string { return d.Contact.Info.Social.Instagram })),
		optional(text("#footer .contact li.icon.brands.fa-linkedin a", "contact.info.social.linkedin", func(d *content.Document) string { return d.Contact.Info.Social.LinkedIn })),

		text("#footer .copyright li:first-child", "footer.copyright", func(d *content.Document) string { return d.Footer.Copyright }),
	)
	return b
}

// Event card selectors. Slots are matched positionally against the events
// list; the others are scoped to one slot.
var (
	eventSlotSelector  = dom.MustCompile("#four .features article")
	eventTitleSelector = dom.MustCompile("h3.major")
	eventDescSelector  = dom.MustCompile("p")
	eventImageSelector = dom.MustCompile(".image img")
	eventLinkSelector  = dom.MustCompile(".special")
)

// CheckBindings verifies that every required binding resolves in page.
// Missing optional bindings are returned as warnings.
func CheckBindings(name string, page *html.Node, bindings []Binding) (warnings []string, err error) {
	var missing []string
	seen := make(map[string]bool)
	for _, b := range bindings {
		if seen[b.Selector.String()] {
			continue
		}
		seen[b.Selector.String()] = true
		if b.Selector.Query(page) != nil {
			continue
		}
		desc := fmt.Sprintf("%s (%s)", b.Field, b.Selector)
		if b.Optional {
			warnings = append(warnings, desc)
		} else {
			missing = append(missing, desc)
		}
	}
	if len(missing) > 0 {
		return warnings, &TemplateError{Template: name, Missing: missing}
	}
	return warnings, nil
}

// apply writes every binding's value into page.
func apply(page *html.Node, doc *content.Document, bindings []Binding) {
	for _, b := range bindings {
		n := b.Selector.Query(page)
		if n == nil {
			continue
		}
		if b.Lines != nil {
			lines := b.Lines(doc)
			if strings.Join(lines, "") == "" {
				continue
			}
			dom.RemoveChildren(n)
			for i, l := range lines {
				if i > 0 {
					n.AppendChild(dom.Element("br"))
				}
				n.AppendChild(dom.TextNode(l))
			}
			continue
		}
		v := b.Value(doc)
		if v == "" {
			continue
		}
		if b.Attr != "" {
			dom.SetAttr(n, b.Attr, v)
		} else {
			dom.SetText(n, v)
		}
	}
}
