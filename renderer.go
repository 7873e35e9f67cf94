package mdhtml

// Renderer turns parsed markup into output. Block methods receive content
// that has already been rendered; text arguments arrive HTML-escaped.
// Implementations other than HTMLRenderer retarget the output format.
type Renderer interface {
	Code(code, lang string, escaped bool) string
	Blockquote(quote string) string
	HTML(html string) string
	Heading(text string, level int, raw string) string
	Hr() string
	List(body string, ordered bool) string
	ListItem(text string) string
	Paragraph(text string) string
	Table(header, body string) string
	TableRow(content string) string
	TableCell(content string, flags TableCellFlags) string

	Strong(text string) string
	Em(text string) string
	Codespan(text string) string
	Br() string
	Del(text string) string
	Link(href, title, text string) string
	Image(href, title, text string) string
	Text(text string) string
	Icon(class string) string
	Emoji(name string) string
}

// TableCellFlags describes the position of a table cell.
type TableCellFlags struct {
	Header bool
	Align  Align
}

// Finisher is implemented by renderers that post-process the complete
// output of a document.
type Finisher interface {
	Finish(out string) string
}
