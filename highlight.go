package mdhtml

import (
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Highlighter highlights fenced code. It reports false when it has nothing
// to offer for lang; the code is then escaped and emitted plainly.
type Highlighter interface {
	Highlight(code, lang string) (string, bool)
}

// HighlighterFunc adapts a function to Highlighter.
type HighlighterFunc func(code, lang string) (string, bool)

func (f HighlighterFunc) Highlight(code, lang string) (string, bool) {
	return f(code, lang)
}

// ChromaHighlighter highlights code with Chroma, emitting class-annotated
// spans. Pair it with WriteCSS for the matching stylesheet.
type ChromaHighlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// NewChromaHighlighter returns a highlighter for the named Chroma style,
// falling back to the default style for unknown names.
func NewChromaHighlighter(styleName string) *ChromaHighlighter {
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}
	return &ChromaHighlighter{
		style: style,
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.PreventSurroundingPre(true),
		),
	}
}

func (h *ChromaHighlighter) Highlight(code, lang string) (string, bool) {
	if h == nil || strings.TrimSpace(lang) == "" {
		return "", false
	}
	lexer := lexers.Get(lang)
	if lexer == nil {
		return "", false
	}
	lexer = chroma.Coalesce(lexer)
	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", false
	}
	var b strings.Builder
	if err := h.formatter.Format(&b, h.style, iterator); err != nil {
		return "", false
	}
	return b.String(), true
}

// WriteCSS writes the stylesheet for the highlighter's classes.
func (h *ChromaHighlighter) WriteCSS(w io.Writer) error {
	return h.formatter.WriteCSS(w, h.style)
}
