package mdhtml

import (
	"fmt"
	"io"
	"time"
)

// Markdown converts Markdown source with a fixed configuration. It is safe
// for concurrent use when its Renderer, Highlighter and Sanitizer are.
type Markdown struct {
	opts   Options
	lexer  *Lexer
	parser *Parser
}

// New returns a converter configured by opts applied over DefaultOptions.
func New(opts ...Option) *Markdown {
	o := resolveOptions(opts)
	return &Markdown{
		opts:   o,
		lexer:  NewLexer(o),
		parser: NewParser(o),
	}
}

// Options returns the resolved configuration.
func (md *Markdown) Options() Options {
	return md.opts
}

// Convert renders src.
func (md *Markdown) Convert(src string) (string, error) {
	start := time.Now()
	var fm frontMatter
	if md.opts.StripFrontMatter {
		var body []byte
		fm, body = splitFrontMatter([]byte(src))
		src = string(body)
	}
	doc, err := md.lexer.Lex(src)
	if err != nil {
		return "", fmt.Errorf("convert: %w", err)
	}
	out, err := md.parser.Parse(doc)
	if err != nil {
		return "", fmt.Errorf("convert: %w", err)
	}
	if f, ok := md.opts.Renderer.(Finisher); ok {
		out = f.Finish(out)
	}
	if md.opts.FullDocument {
		title, err := fm.title()
		if err != nil {
			md.opts.Logger.Debug("front matter title unreadable", "err", err)
		}
		out = md.wrapDocument(out, title)
	}
	md.opts.Logger.Debug("converted markdown",
		"tokens", len(doc.Tokens),
		"links", len(doc.Links),
		"bytes", len(out),
		"elapsed", time.Since(start),
	)
	return out, nil
}

func (md *Markdown) wrapDocument(body, title string) string {
	head := ""
	if title != "" {
		head = "<title>" + Escape(title, true) + "</title>"
	}
	if md.opts.Stylesheet != "" {
		head += `<link rel="stylesheet" href="` + Escape(md.opts.Stylesheet, false) + `"` + " />"
	}
	return "<html><head>" + head + "</head><body>" + body + "</body></html>"
}

// Convert renders src with a converter built from opts.
func Convert(src string, opts ...Option) (string, error) {
	return New(opts...).Convert(src)
}

// RenderRequest configures Render.
type RenderRequest struct {
	Reader  io.Reader
	Writer  io.Writer
	Options []Option
}

// Render reads all of req.Reader, converts it and writes the result to
// req.Writer. Input that is not UTF-8 text is rejected.
func Render(req RenderRequest) error {
	if req.Reader == nil {
		return fmt.Errorf("render: Reader is nil")
	}
	if req.Writer == nil {
		return fmt.Errorf("render: Writer is nil")
	}
	src, err := io.ReadAll(req.Reader)
	if err != nil {
		return fmt.Errorf("render: read: %w", err)
	}
	if err := ValidateInput(src); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	out, err := Convert(string(src), req.Options...)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if _, err := io.WriteString(req.Writer, out); err != nil {
		return fmt.Errorf("render: write: %w", err)
	}
	return nil
}
