package mdhtml

import (
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/padding"
	"golang.org/x/net/html"

	"pkt.systems/mdhtml/internal/palette"
)

// Layout markers. Block methods return fragments delimited by these bytes;
// Finish resolves them once the nesting of every block is known.
const (
	markOpen    = '\x0e' // container start, followed by its kind
	markClose   = '\x0f' // container end
	markWrap    = '\x02' // flowing text start
	markWrapEnd = '\x03'
	markPre     = '\x10' // preformatted text start, followed by its kind
	markPreEnd  = '\x11'
	markRow     = '\x1c' // table row
	markCell    = '\x1d' // table cell, followed by its flags
)

const (
	kindQuote     = 'q'
	kindBullets   = 'u'
	kindOrdered   = 'o'
	kindItem      = 'i'
	kindRule      = 'h'
	kindHeading   = 'g'
	kindFlow      = 'w'
	kindCode      = 'c'
	kindTable     = 't'
	cellHeaderBit = 0x10
)

var markerStripper = strings.NewReplacer(
	string(rune(markOpen)), "",
	string(rune(markClose)), "",
	string(rune(markWrap)), "",
	string(rune(markWrapEnd)), "",
	string(rune(markPre)), "",
	string(rune(markPreEnd)), "",
	string(rune(markRow)), "",
	string(rune(markCell)), "",
)

// TerminalRenderer renders Markdown as ANSI-styled text for a terminal of
// the given width. It implements Finisher; output is only complete after
// Finish.
type TerminalRenderer struct {
	width     int
	styles    Styles
	osc8      bool
	codeStyle *chroma.Style
}

// NewTerminalRenderer returns a renderer wrapping text at width columns. A
// width below one disables wrapping. When osc8 is set, links are emitted as
// OSC 8 hyperlinks instead of a trailing URL.
func NewTerminalRenderer(width int, theme Theme, osc8 bool) *TerminalRenderer {
	if theme == nil {
		theme = DefaultTheme()
	}
	return &TerminalRenderer{width: width, styles: theme.Styles(), osc8: osc8}
}

// HighlightCode colors fenced code with the named Chroma style. An empty
// name turns highlighting off.
func (r *TerminalRenderer) HighlightCode(styleName string) {
	if styleName == "" {
		r.codeStyle = nil
		return
	}
	r.codeStyle = styles.Get(styleName)
}

func styled(s Style, text string) string {
	if s.Prefix == "" || text == "" {
		return text
	}
	return s.Prefix + strings.ReplaceAll(text, palette.Reset, palette.Reset+s.Prefix) + palette.Reset
}

func plain(text string) string {
	return markerStripper.Replace(html.UnescapeString(text))
}

func container(kind byte, body string) string {
	return string(rune(markOpen)) + string(kind) + body + string(rune(markClose))
}

func flow(text string) string {
	return string(rune(markWrap)) + text + string(rune(markWrapEnd))
}

func pre(kind byte, text string) string {
	return string(rune(markPre)) + string(kind) + text + string(rune(markPreEnd))
}

func (r *TerminalRenderer) Code(code, lang string, escaped bool) string {
	if escaped {
		code = html.UnescapeString(code)
	}
	code = markerStripper.Replace(code)
	if out, ok := r.highlight(code, lang); ok {
		return pre(kindCode, indent.String(out, 4))
	}
	lines := strings.Split(code, "\n")
	for i, line := range lines {
		lines[i] = styled(r.styles.CodeBlock, line)
	}
	return pre(kindCode, indent.String(strings.Join(lines, "\n"), 4))
}

func (r *TerminalRenderer) highlight(code, lang string) (string, bool) {
	if r.codeStyle == nil || strings.TrimSpace(lang) == "" {
		return "", false
	}
	lexer := lexers.Get(lang)
	if lexer == nil {
		return "", false
	}
	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return "", false
	}
	var b strings.Builder
	if err := formatters.Get("terminal256").Format(&b, r.codeStyle, iterator); err != nil {
		return "", false
	}
	return strings.TrimRight(b.String(), "\n"), true
}

func (r *TerminalRenderer) Blockquote(quote string) string {
	return container(kindQuote, quote)
}

func (r *TerminalRenderer) HTML(text string) string {
	return pre(kindCode, markerStripper.Replace(strings.TrimRight(text, "\n")))
}

func (r *TerminalRenderer) Heading(text string, level int, raw string) string {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return pre(kindHeading, string(rune('0'+level))+strings.TrimSpace(text))
}

func (r *TerminalRenderer) Hr() string {
	return container(kindRule, "")
}

func (r *TerminalRenderer) List(body string, ordered bool) string {
	if ordered {
		return container(kindOrdered, body)
	}
	return container(kindBullets, body)
}

func (r *TerminalRenderer) ListItem(text string) string {
	return container(kindItem, text)
}

func (r *TerminalRenderer) Paragraph(text string) string {
	return flow(styled(r.styles.Text, strings.TrimSpace(text)))
}

func (r *TerminalRenderer) Table(header, body string) string {
	rows := append(splitRows(header), splitRows(body)...)
	if len(rows) == 0 {
		return ""
	}
	var widths []int
	for _, row := range rows {
		for i, c := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], ansi.PrintableRuneWidth(c.text))
		}
	}
	sep := styled(r.styles.ThematicBreak, " │ ")
	var lines []string
	for n, row := range rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = alignCell(c, widths[i])
			if c.header {
				cells[i] = styled(r.styles.TableHeader, cells[i])
			}
		}
		lines = append(lines, strings.Join(cells, sep))
		if n == 0 && len(row) > 0 && row[0].header {
			rules := make([]string, len(widths))
			for i, w := range widths {
				rules[i] = strings.Repeat("─", w)
			}
			lines = append(lines, styled(r.styles.ThematicBreak, strings.Join(rules, "─┼─")))
		}
	}
	return pre(kindTable, strings.Join(lines, "\n"))
}

func (r *TerminalRenderer) TableRow(content string) string {
	return string(rune(markRow)) + content
}

func (r *TerminalRenderer) TableCell(content string, flags TableCellFlags) string {
	f := byte(flags.Align)
	if flags.Header {
		f |= cellHeaderBit
	}
	return string(rune(markCell)) + string(rune('0'+f)) + strings.TrimSpace(content)
}

type tableCell struct {
	text   string
	header bool
	align  Align
}

func splitRows(s string) [][]tableCell {
	var rows [][]tableCell
	for _, row := range strings.Split(s, string(rune(markRow))) {
		if row == "" {
			continue
		}
		var cells []tableCell
		for _, cell := range strings.Split(row, string(rune(markCell))) {
			if cell == "" {
				continue
			}
			f := cell[0] - '0'
			cells = append(cells, tableCell{
				text:   cell[1:],
				header: f&cellHeaderBit != 0,
				align:  Align(f &^ cellHeaderBit),
			})
		}
		rows = append(rows, cells)
	}
	return rows
}

func alignCell(c tableCell, width int) string {
	gap := width - ansi.PrintableRuneWidth(c.text)
	switch c.align {
	case AlignRight:
		return strings.Repeat(" ", gap) + c.text
	case AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + c.text + strings.Repeat(" ", gap-left)
	}
	return padding.String(c.text, uint(width))
}

// Strong uses the combined style when text is exactly one emphasis span.
func (r *TerminalRenderer) Strong(text string) string {
	em := r.styles.Emphasis.Prefix
	if em != "" && r.styles.EmphasisStrong.Prefix != "" &&
		strings.HasPrefix(text, em) && strings.HasSuffix(text, palette.Reset) {
		inner := strings.TrimSuffix(strings.TrimPrefix(text, em), palette.Reset)
		if !strings.Contains(inner, palette.Reset) {
			return styled(r.styles.EmphasisStrong, inner)
		}
	}
	return styled(r.styles.Strong, text)
}

func (r *TerminalRenderer) Em(text string) string {
	return styled(r.styles.Emphasis, text)
}

func (r *TerminalRenderer) Codespan(text string) string {
	return styled(r.styles.CodeInline, plain(text))
}

func (r *TerminalRenderer) Br() string {
	return "\n"
}

func (r *TerminalRenderer) Del(text string) string {
	return styled(r.styles.Strike, text)
}

func (r *TerminalRenderer) Link(href, title, text string) string {
	href = plain(href)
	text = html.UnescapeString(text)
	if r.osc8 && href != "" {
		return osc8Link(href, styled(r.styles.LinkText, text))
	}
	if ansi.PrintableRuneWidth(text) == 0 || text == href {
		return styled(r.styles.LinkURL, fitURL(href, r.width))
	}
	if href == "" {
		return styled(r.styles.LinkText, text)
	}
	return styled(r.styles.LinkText, text) + " " + styled(r.styles.LinkURL, "("+fitURL(href, r.width-2)+")")
}

func (r *TerminalRenderer) Image(href, title, text string) string {
	alt := plain(text)
	if alt == "" {
		alt = "image"
	}
	return r.Link(href, title, "["+alt+"]")
}

func (r *TerminalRenderer) Text(text string) string {
	return strings.ReplaceAll(plain(text), "\n", " ")
}

func (r *TerminalRenderer) Icon(class string) string {
	return ""
}

func (r *TerminalRenderer) Emoji(name string) string {
	return ":" + strings.ToLower(name) + ":"
}

// block is one node of the layout tree Finish builds from marked output.
// Implicit flow blocks hold text that was not wrapped in a paragraph.
type block struct {
	kind     byte
	text     string
	implicit bool
	children []*block
}

// Finish lays out the marked output at the renderer's width.
func (r *TerminalRenderer) Finish(out string) string {
	blocks, _ := parseBlocks(out, 0)
	lines := r.layout(blocks, r.width, true)
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// parseBlocks reads blocks from s starting at i up to the end of the
// enclosing container.
func parseBlocks(s string, i int) ([]*block, int) {
	var blocks []*block
	var loose strings.Builder
	flush := func() {
		if text := strings.TrimSpace(loose.String()); text != "" {
			blocks = append(blocks, &block{kind: kindFlow, text: text, implicit: true})
		}
		loose.Reset()
	}
	for i < len(s) {
		c := s[i]
		if c != markOpen && c != markClose && c != markWrap && c != markPre {
			loose.WriteByte(c)
			i++
			continue
		}
		flush()
		if c == markClose {
			return blocks, i + 1
		}
		if c == markWrap {
			text, next := delimited(s, i+1, markWrapEnd)
			blocks = append(blocks, &block{kind: kindFlow, text: text})
			i = next
			continue
		}
		if i+1 >= len(s) {
			return blocks, len(s)
		}
		b := &block{kind: s[i+1]}
		if c == markOpen {
			b.children, i = parseBlocks(s, i+2)
		} else {
			b.text, i = delimited(s, i+2, markPreEnd)
		}
		blocks = append(blocks, b)
	}
	flush()
	return blocks, i
}

// delimited returns the text of s from start up to end, and the offset
// after end.
func delimited(s string, start int, end byte) (string, int) {
	n := strings.IndexByte(s[start:], end)
	if n < 0 {
		return s[start:], len(s)
	}
	return s[start : start+n], start + n + 1
}

// layout renders blocks into lines at most width columns wide. Siblings are
// separated by a blank line when gap is set.
func (r *TerminalRenderer) layout(blocks []*block, width int, gap bool) []string {
	var lines []string
	for n, b := range blocks {
		if n > 0 && gap {
			lines = append(lines, "")
		}
		lines = append(lines, r.layoutBlock(b, width)...)
	}
	return lines
}

func (r *TerminalRenderer) layoutBlock(b *block, width int) []string {
	switch b.kind {
	case kindFlow:
		return wrapLines(b.text, width, !r.osc8)

	case kindCode:
		return strings.Split(b.text, "\n")

	case kindTable:
		lines := strings.Split(b.text, "\n")
		if width > 0 {
			for i, line := range lines {
				lines[i] = truncateWithEllipsis(line, width)
			}
		}
		return lines

	case kindHeading:
		return r.layoutHeading(b.text, width)

	case kindRule:
		n := width
		if n <= 0 {
			n = 3
		}
		return []string{styled(r.styles.ThematicBreak, strings.Repeat("─", n))}

	case kindQuote:
		inner := r.layout(b.children, shrink(width, 2), true)
		for i, line := range inner {
			if line == "" {
				inner[i] = styled(r.styles.Quote, "│")
				continue
			}
			inner[i] = styled(r.styles.Quote, "│") + " " + styled(r.styles.Quote, line)
		}
		return inner

	case kindBullets, kindOrdered:
		return r.layoutList(b, width)
	}
	return r.layout(b.children, width, true)
}

// layoutHeading wraps heading text under its level marker. Continuation
// lines hang below the first word.
func (r *TerminalRenderer) layoutHeading(text string, width int) []string {
	level := int(text[0] - '0')
	lead := strings.Repeat("#", level) + " "
	lines := wrapLines(text[1:], shrink(width, len(lead)), false)
	for i, line := range lines {
		if i == 1 {
			lead = strings.Repeat(" ", len(lead))
		}
		lines[i] = styled(r.styles.Heading[level-1], lead+line)
	}
	return lines
}

func (r *TerminalRenderer) layoutList(b *block, width int) []string {
	markerWidth := 2
	if b.kind == kindOrdered {
		markerWidth = len(strconv.Itoa(len(b.children))) + 2
	}
	pad := strings.Repeat(" ", markerWidth)
	var lines []string
	n := 0
	for _, item := range b.children {
		if item.kind != kindItem {
			lines = append(lines, r.layoutBlock(item, width)...)
			continue
		}
		n++
		marker := "•"
		if b.kind == kindOrdered {
			marker = strconv.Itoa(n) + "."
		}
		marker = padding.String(marker, uint(markerWidth))
		inner := r.layout(item.children, shrink(width, markerWidth), loose(item.children))
		if len(inner) == 0 {
			inner = []string{""}
		}
		for i, line := range inner {
			switch {
			case i == 0:
				inner[i] = styled(r.styles.ListMarker, marker) + line
			case line != "":
				inner[i] = pad + line
			}
		}
		lines = append(lines, inner...)
	}
	return lines
}

// loose reports whether an item holds paragraphs rather than bare text.
func loose(children []*block) bool {
	for _, c := range children {
		if c.kind == kindFlow && !c.implicit {
			return true
		}
	}
	return false
}

func shrink(width, by int) int {
	if width <= 0 {
		return width
	}
	return max(width-by, 1)
}
