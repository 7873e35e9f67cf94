package mdhtml

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
)

// InlineLexer renders span-level markup through a Renderer. One instance
// serves every span of a document; it resolves references against the
// document's link table.
type InlineLexer struct {
	opts     Options
	links    LinkTable
	rules    inlineGrammar
	renderer Renderer
	emoji    map[string]struct{}
}

// NewInlineLexer returns an inline lexer over links for the grammar selected
// by opts.
func NewInlineLexer(links LinkTable, opts Options) *InlineLexer {
	if links == nil {
		links = LinkTable{}
	}
	opts = opts.normalized()
	il := &InlineLexer{
		opts:     opts,
		links:    links,
		rules:    inlineProfile(opts),
		renderer: opts.Renderer,
	}
	if il.renderer == nil {
		il.renderer = NewHTMLRenderer(opts)
	}
	if opts.Emoji {
		il.emoji = make(map[string]struct{}, len(opts.EmojiList))
		for _, name := range opts.EmojiList {
			il.emoji[name] = struct{}{}
		}
	}
	return il
}

// inlineOrder is the priority in which inline rules are tried. The reflink
// entry also tries the nolink rule.
var inlineOrder = [...]inlineRule{
	inlineEscape,
	inlineAutolink,
	inlineURL,
	inlineTag,
	inlineLink,
	inlineReflink,
	inlineStrong,
	inlineEm,
	inlineCode,
	inlineIcon,
	inlineEmoji,
	inlineBr,
	inlineDel,
	inlineText,
}

// Output renders src.
func (il *InlineLexer) Output(src string) (string, error) {
	return il.output(src, false, 0)
}

// output renders src. inLink is set while rendering the text of a link and
// after a raw <a> tag, and keeps links from nesting.
func (il *InlineLexer) output(text string, inLink bool, depth int) (string, error) {
	if depth > il.opts.MaxNesting {
		return "", fmt.Errorf("inline depth %d: %w", depth, ErrNestingTooDeep)
	}
	var out strings.Builder
	src := []rune(text)
	var slow [numInlineRules]bool
	for len(src) > 0 {
		var m *regexp2.Match
		var rule inlineRule
		for _, candidate := range inlineOrder {
			if (candidate == inlineURL && inLink) || slow[candidate] {
				continue
			}
			found, timedOut := il.match(candidate, src)
			if timedOut {
				slow[candidate] = true
				il.opts.Logger.Warn("inline rule timed out", "rule", candidate.String(), "offset", len(text)-len(string(src)))
				continue
			}
			if found != nil {
				m, rule = found, candidate
				break
			}
		}
		if m == nil {
			err := newStallError(StageInline, text, src)
			il.opts.Logger.Warn("inline tokenizer stalled", "offset", err.Offset, "byte", string(err.Byte))
			return "", err
		}

		consumed := m.Length
		s, err := il.emit(rule, m, &inLink, &consumed, depth)
		if err != nil {
			return "", err
		}
		out.WriteString(s)
		src = src[consumed:]
	}
	return out.String(), nil
}

func (il *InlineLexer) match(rule inlineRule, src []rune) (*regexp2.Match, bool) {
	m, timedOut := find(il.rules[rule], src)
	if !timedOut && m == nil && rule == inlineReflink {
		m, timedOut = find(il.rules[inlineNolink], src)
	}
	return m, timedOut
}

// emit renders one rule match. It may shorten *consumed to re-queue the
// tail of the match, and toggles *inLink on raw anchor tags.
func (il *InlineLexer) emit(rule inlineRule, m *regexp2.Match, inLink *bool, consumed *int, depth int) (string, error) {
	r := il.renderer
	switch rule {
	case inlineEscape:
		return r.Text(Escape(group(m, 1), false)), nil

	case inlineAutolink:
		var text, href string
		if group(m, 2) == "@" {
			addr := group(m, 1)
			if len(addr) > 6 && addr[6] == ':' {
				addr = addr[7:]
			}
			text = il.mangle(addr)
			href = il.mangle("mailto:") + text
		} else {
			text = Escape(group(m, 1), false)
			href = text
		}
		return r.Link(href, "", text), nil

	case inlineURL:
		text := Escape(group(m, 1), false)
		return r.Link(text, "", text), nil

	case inlineTag:
		raw := m.String()
		if !*inLink && matches(openAnchorRe, raw) {
			*inLink = true
		} else if *inLink && matches(closeAnchorRe, raw) {
			*inLink = false
		}
		if !il.opts.Sanitize {
			return raw, nil
		}
		if il.opts.Sanitizer != nil {
			return il.opts.Sanitizer.Sanitize(raw), nil
		}
		return Escape(raw, false), nil

	case inlineLink:
		return il.outputLink(m, Link{Href: group(m, 2), Title: group(m, 3)}, depth)

	case inlineReflink:
		label := group(m, 2)
		if label == "" {
			label = group(m, 1)
		}
		link, ok := il.links.Lookup(label)
		if !ok || link.Href == "" {
			// Emit the opening character and match the rest again.
			*consumed = 1
			return r.Text(Escape(string(m.Runes()[:1]), false)), nil
		}
		return il.outputLink(m, link, depth)

	case inlineStrong:
		inner, err := il.output(alternative(m), *inLink, depth+1)
		if err != nil {
			return "", err
		}
		return r.Strong(inner), nil

	case inlineEm:
		inner, err := il.output(alternative(m), *inLink, depth+1)
		if err != nil {
			return "", err
		}
		return r.Em(inner), nil

	case inlineCode:
		return r.Codespan(Escape(group(m, 2), true)), nil

	case inlineIcon:
		return r.Icon(group(m, 1)), nil

	case inlineEmoji:
		name := group(m, 1)
		if _, ok := il.emoji[name]; !ok {
			*consumed = 1
			return r.Text(":"), nil
		}
		return r.Emoji(name), nil

	case inlineBr:
		return r.Br(), nil

	case inlineDel:
		inner, err := il.output(group(m, 1), *inLink, depth+1)
		if err != nil {
			return "", err
		}
		return r.Del(inner), nil

	case inlineText:
		text := m.String()
		if il.opts.Smartypants {
			text = smartypants(text)
		}
		return r.Text(Escape(text, false)), nil
	}
	return "", fmt.Errorf("inline %s: unhandled rule", rule)
}

// outputLink renders a resolved link or, when the match starts with '!', an
// image. Link text is rendered with links disabled.
func (il *InlineLexer) outputLink(m *regexp2.Match, link Link, depth int) (string, error) {
	href := Escape(link.Href, false)
	title := Escape(link.Title, false)
	if !strings.HasPrefix(m.String(), "!") {
		text, err := il.output(group(m, 1), true, depth+1)
		if err != nil {
			return "", err
		}
		return il.renderer.Link(href, title, text), nil
	}
	return il.renderer.Image(href, title, Escape(group(m, 1), false)), nil
}

func (il *InlineLexer) mangle(s string) string {
	if !il.opts.Mangle {
		return Escape(s, false)
	}
	return mangle(s)
}

// alternative returns the capture of whichever alternative of a two-form
// rule (underscore or asterisk) matched.
func alternative(m *regexp2.Match) string {
	if g := m.GroupByNumber(2); g != nil && len(g.Captures) > 0 {
		return g.String()
	}
	return group(m, 1)
}
