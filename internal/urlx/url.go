// Package urlx provides the URL value type used to key and match page
// definitions. Paths may contain {placeholder} segments; a placeholder
// matches exactly one path segment of a concrete URL.
package urlx

import (
	"net/url"
	"regexp"
	"strings"
)

// Root marks an empty path so it can appear as a directory name on disk.
const Root = "@"

var placeholderRe = regexp.MustCompile(`\{[^}/]*\}`)

// URL is an immutable https URL, normalized without a trailing slash.
type URL struct {
	value string
}

// New builds a URL from a domain and a stored page path (Root for "/").
func New(domain, path string) URL {
	if path == "" || path == Root {
		return URL{value: "https://" + domain}
	}
	path = strings.TrimRight("/"+strings.Trim(path, "/"), "/")
	return URL{value: "https://" + domain + path}
}

// Parse wraps a raw URL string as reported by the browser.
func Parse(raw string) URL {
	return URL{value: strings.TrimRight(raw, "/")}
}

func (u URL) String() string {
	return u.value
}

func (u URL) Domain() string {
	parsed, err := url.Parse(u.value)
	if err != nil {
		return ""
	}
	return parsed.Host
}

// Path returns the URL path with surrounding slashes stripped, or Root
// when the path is empty.
func (u URL) Path() string {
	parsed, err := url.Parse(u.value)
	if err != nil {
		return Root
	}
	path := strings.Trim(parsed.Path, "/")
	if path == "" {
		return Root
	}
	return path
}

// Fragment returns the URL fragment with slashes flattened to
// underscores, suitable as a page variant name.
func (u URL) Fragment() string {
	parsed, err := url.Parse(u.value)
	if err != nil {
		return ""
	}
	return strings.Trim(strings.ReplaceAll(parsed.Fragment, "/", "_"), "_")
}

// Matches reports whether other falls under this URL, treating
// {placeholder} parts of the receiver's path as single-segment
// wildcards. Exact paths must be equal.
func (u URL) Matches(other URL) bool {
	if u.Domain() != other.Domain() {
		return false
	}
	pattern, actual := u.Path(), other.Path()
	if pattern == actual {
		return true
	}
	if !strings.Contains(pattern, "{") {
		return false
	}
	return pathPattern(pattern).MatchString(actual)
}

func pathPattern(pattern string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString(`^`)
	rest := pattern
	for {
		loc := placeholderRe.FindStringIndex(rest)
		if loc == nil {
			b.WriteString(regexp.QuoteMeta(rest))
			break
		}
		b.WriteString(regexp.QuoteMeta(rest[:loc[0]]))
		b.WriteString(`[^/]+`)
		rest = rest[loc[1]:]
	}
	b.WriteString(`$`)
	return regexp.MustCompile(b.String())
}
