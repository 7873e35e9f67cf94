package mdhtml

import (
	"strings"

	"golang.org/x/net/html"
)

// Sanitizer cleans a raw HTML fragment found in sanitize mode. Without one,
// fragments are escaped.
type Sanitizer interface {
	Sanitize(fragment string) string
}

// SanitizerFunc adapts a function to Sanitizer.
type SanitizerFunc func(fragment string) string

func (f SanitizerFunc) Sanitize(fragment string) string {
	return f(fragment)
}

// AllowlistSanitizer keeps allowlisted tags with allowlisted attributes and
// escapes every other tag. Comments and doctypes are dropped.
type AllowlistSanitizer struct {
	tags map[string]map[string]bool
}

// NewAllowlistSanitizer returns a sanitizer allowing common phrasing
// elements.
func NewAllowlistSanitizer() *AllowlistSanitizer {
	s := &AllowlistSanitizer{tags: map[string]map[string]bool{}}
	for _, tag := range []string{"b", "i", "u", "em", "strong", "small", "s", "code", "kbd", "samp", "var", "sub", "sup", "mark", "del", "ins", "q", "cite", "span", "br", "wbr"} {
		s.Allow(tag)
	}
	s.Allow("a", "href", "title")
	s.Allow("img", "src", "alt", "title", "width", "height")
	s.Allow("abbr", "title")
	return s
}

// Allow adds tag, with the given attributes, to the allowlist.
func (s *AllowlistSanitizer) Allow(tag string, attrs ...string) *AllowlistSanitizer {
	tag = strings.ToLower(tag)
	set := s.tags[tag]
	if set == nil {
		set = map[string]bool{}
		s.tags[tag] = set
	}
	for _, a := range attrs {
		set[strings.ToLower(a)] = true
	}
	return s
}

func (s *AllowlistSanitizer) Sanitize(fragment string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.WriteString(html.EscapeString(string(z.Text())))
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			attrs, ok := s.tags[tok.Data]
			if !ok {
				b.WriteString(html.EscapeString(tok.String()))
				continue
			}
			kept := tok.Attr[:0]
			for _, a := range tok.Attr {
				if !attrs[a.Key] {
					continue
				}
				if (a.Key == "href" || a.Key == "src") && scriptProtocol(a.Val) {
					continue
				}
				kept = append(kept, a)
			}
			tok.Attr = kept
			b.WriteString(tok.String())
		}
	}
}
