// Package retitle rewrites the banner heading and <title> of static HTML
// article pages.
package retitle

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/natefinch/atomic"
)

// ErrNotFound is returned when the target file does not exist.
var ErrNotFound = errors.New("file not found")

// DefaultSuffix is appended to the new title inside <title>.
const DefaultSuffix = " - Surrey Students' Law Society"

var (
	logoHeading = regexp.MustCompile(`<div class="logo">[\s\S]*?<h2[^>]*>.*?</h2>`)
	anyHeading  = regexp.MustCompile(`<h2[^>]*>.*?</h2>`)
	pageTitle   = regexp.MustCompile(`<title>.*?</title>`)
)

// Result describes what Patch changed.
type Result struct {
	// Heading is true if an <h2> was replaced.
	Heading bool
	// Fallback is true if no logo block was found and the first <h2> in the
	// page was used instead.
	Fallback bool
	// Title is true if a <title> was replaced.
	Title bool
}

// Patch replaces the banner heading and page title in src. The heading
// inside the logo block is preferred; without one the first <h2> is used.
// newTitle is inserted as is.
func Patch(src, newTitle, suffix string) (string, Result) {
	var res Result
	heading := "<h2>" + newTitle + "</h2>"

	out := src
	if loc := logoHeading.FindStringIndex(out); loc != nil {
		block := out[loc[0]:loc[1]]
		block, _ = replaceFirst(anyHeading, block, heading)
		out = out[:loc[0]] + block + out[loc[1]:]
		res.Heading = true
	} else {
		out, res.Heading = replaceFirst(anyHeading, out, heading)
		res.Fallback = true
	}

	out, res.Title = replaceFirst(pageTitle, out, "<title>"+newTitle+suffix+"</title>")
	return out, res
}

// replaceFirst replaces the first match of re in s with the literal repl.
func replaceFirst(re *regexp.Regexp, s, repl string) (string, bool) {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s, false
	}
	return s[:loc[0]] + repl + s[loc[1]:], true
}

// File patches the HTML file at path in place.
func File(path, newTitle, suffix string) (Result, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return Result{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("reading %s: %w", path, err)
	}
	out, res := Patch(string(data), newTitle, suffix)
	if err := atomic.WriteFile(path, bytes.NewReader([]byte(out))); err != nil {
		return res, fmt.Errorf("writing %s: %w", path, err)
	}
	return res, nil
}
