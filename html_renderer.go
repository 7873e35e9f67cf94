package mdhtml

import (
	"fmt"
	"strings"
)

// HTMLRenderer is the default Renderer. It emits HTML without whitespace
// between elements.
type HTMLRenderer struct {
	opts Options
}

// NewHTMLRenderer returns an HTML renderer configured by opts.
func NewHTMLRenderer(opts Options) *HTMLRenderer {
	opts.Renderer = nil
	return &HTMLRenderer{opts: opts}
}

func (r *HTMLRenderer) br() string {
	if r.opts.XHTML {
		return "<br/>"
	}
	return "<br>"
}

func (r *HTMLRenderer) Code(code, lang string, escaped bool) string {
	if h := r.opts.Highlighter; h != nil {
		if out, ok := h.Highlight(code, lang); ok && out != code {
			code = out
			escaped = true
		}
	}
	if !escaped {
		code = Escape(code, true)
	}
	code = strings.ReplaceAll(code, "\n", r.br())
	if lang == "" {
		return "<pre><code>" + code + "</code></pre>"
	}
	class := r.opts.LangPrefix + Escape(lang, true)
	return `<pre class="` + class + `"><code class="` + class + `">` + code + "</code></pre>"
}

func (r *HTMLRenderer) Blockquote(quote string) string {
	return "<blockquote>" + quote + "</blockquote>"
}

func (r *HTMLRenderer) HTML(html string) string {
	return html
}

func (r *HTMLRenderer) Heading(text string, level int, raw string) string {
	return fmt.Sprintf(`<h%d id="%s%s">%s</h%d>`, level, Escape(r.opts.HeaderPrefix, false), slugify(raw), strings.TrimSpace(text), level)
}

func (r *HTMLRenderer) Hr() string {
	if r.opts.XHTML {
		return "<hr />"
	}
	return "<hr>"
}

func (r *HTMLRenderer) List(body string, ordered bool) string {
	tag := "ul"
	if ordered {
		tag = "ol"
	}
	return "<" + tag + ">" + body + "</" + tag + ">"
}

func (r *HTMLRenderer) ListItem(text string) string {
	return "<li>" + text + "</li>"
}

func (r *HTMLRenderer) Paragraph(text string) string {
	return "<p>" + strings.TrimSpace(text) + "</p>"
}

func (r *HTMLRenderer) Table(header, body string) string {
	return "<table><thead>" + header + "</thead><tbody>" + body + "</tbody></table>"
}

func (r *HTMLRenderer) TableRow(content string) string {
	return "<tr>" + content + "</tr>"
}

func (r *HTMLRenderer) TableCell(content string, flags TableCellFlags) string {
	tag := "td"
	if flags.Header {
		tag = "th"
	}
	open := "<" + tag + ">"
	if flags.Align != AlignNone {
		open = "<" + tag + ` style="text-align:` + flags.Align.String() + `">`
	}
	return open + strings.TrimSpace(content) + "</" + tag + ">"
}

func (r *HTMLRenderer) Strong(text string) string {
	return "<strong>" + text + "</strong>"
}

func (r *HTMLRenderer) Em(text string) string {
	return "<em>" + text + "</em>"
}

func (r *HTMLRenderer) Codespan(text string) string {
	return "<code>" + text + "</code>"
}

func (r *HTMLRenderer) Br() string {
	return r.br()
}

func (r *HTMLRenderer) Del(text string) string {
	return "<del>" + text + "</del>"
}

// Link renders an anchor. In sanitize mode links whose decoded protocol is
// javascript: or vbscript: render as nothing.
func (r *HTMLRenderer) Link(href, title, text string) string {
	if r.opts.Sanitize && scriptProtocol(href) {
		if r.opts.Logger != nil {
			r.opts.Logger.Debug("link dropped", "href", href)
		}
		return ""
	}
	var b strings.Builder
	b.WriteString("<a")
	if r.opts.LinkTarget != "" {
		b.WriteString(` target="` + Escape(r.opts.LinkTarget, false) + `"`)
	}
	b.WriteString(` href="` + href + `"`)
	if title != "" {
		b.WriteString(` title="` + title + `"`)
	}
	b.WriteString(">" + text + "</a>")
	return b.String()
}

func (r *HTMLRenderer) Image(href, title, text string) string {
	out := `<img src="` + href + `" alt="` + text + `"`
	if title != "" {
		out += ` title="` + title + `"`
	}
	return out + r.voidEnd()
}

func (r *HTMLRenderer) Text(text string) string {
	return text
}

func (r *HTMLRenderer) Icon(class string) string {
	return `<i class="` + Escape(strings.TrimSpace(class), false) + `"> </i>`
}

func (r *HTMLRenderer) Emoji(name string) string {
	name = Escape(strings.ToLower(name), false)
	return `<img class="` + Escape(r.opts.EmojiClass, false) + `" src="` + Escape(r.opts.EmojiDirectory, false) + name +
		`" alt="` + name + `"` + r.voidEnd()
}

func (r *HTMLRenderer) voidEnd() string {
	if r.opts.XHTML {
		return "/>"
	}
	return ">"
}

// scriptProtocol reports whether href resolves to a javascript: or
// vbscript: URL once references and percent-escapes are decoded. Malformed
// escapes are left in place.
func scriptProtocol(href string) bool {
	decoded := percentDecode(Unescape(href))
	prot := strings.ToLower(replaceAll(protocolJunkRe, decoded, ""))
	return strings.HasPrefix(prot, "javascript:") || strings.HasPrefix(prot, "vbscript:")
}
