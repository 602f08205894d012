package dom

import (
	"fmt"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Selector is a compiled CSS selector. Groups ("a, b") are rejected: every
// binding names exactly one target.
type Selector struct {
	src string
	sel cascadia.Sel
}

// Compile parses a selector.
func Compile(src string) (*Selector, error) {
	sel, err := cascadia.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("selector %q: %w", src, err)
	}
	return &Selector{src: src, sel: sel}, nil
}

// MustCompile is like Compile but panics on error. It is meant for
// package-level selector tables.
func MustCompile(src string) *Selector {
	s, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return s
}

// String returns the source text of the selector.
func (s *Selector) String() string { return s.src }

// QueryAll returns every element below root matching s, in document order.
// root itself is never returned.
func (s *Selector) QueryAll(root *html.Node) []*html.Node {
	return cascadia.QueryAll(root, s.sel)
}

// Query returns the first element below root matching s, or nil.
func (s *Selector) Query(root *html.Node) *html.Node {
	return cascadia.Query(root, s.sel)
}

// Matches reports whether the element n matches s.
func (s *Selector) Matches(n *html.Node) bool {
	return s.sel.Match(n)
}
