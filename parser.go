package mdhtml

import (
	"fmt"
	"strings"
)

// Parser walks a Document's tokens in order and assembles renderer output.
type Parser struct {
	opts     Options
	renderer Renderer
}

// NewParser returns a parser rendering through opts.Renderer, or through an
// HTMLRenderer when none is set.
func NewParser(opts Options) *Parser {
	opts = opts.normalized()
	r := opts.Renderer
	if r == nil {
		r = NewHTMLRenderer(opts)
		opts.Renderer = r
	}
	return &Parser{opts: opts, renderer: r}
}

// Parse renders doc.
func (p *Parser) Parse(doc *Document) (string, error) {
	run := &parseRun{
		Parser: p,
		inline: NewInlineLexer(doc.Links, p.opts),
		tokens: doc.Tokens,
	}
	var out strings.Builder
	for run.next() {
		s, err := run.tok()
		if err != nil {
			return "", err
		}
		out.WriteString(s)
	}
	return out.String(), nil
}

// parseRun is the cursor state of one Parse call.
type parseRun struct {
	*Parser
	inline *InlineLexer
	tokens []Token
	pos    int
	cur    Token
}

func (p *parseRun) next() bool {
	if p.pos >= len(p.tokens) {
		return false
	}
	p.cur = p.tokens[p.pos]
	p.pos++
	return true
}

func (p *parseRun) peek() (Token, bool) {
	if p.pos >= len(p.tokens) {
		return Token{}, false
	}
	return p.tokens[p.pos], true
}

// parseText renders the current text token joined with the text tokens
// that directly follow it.
func (p *parseRun) parseText() (string, error) {
	body := p.cur.Text
	for {
		t, ok := p.peek()
		if !ok || t.Kind != TokenText {
			break
		}
		p.next()
		body += "\n" + t.Text
	}
	return p.inline.Output(body)
}

// children renders tokens up to the end token matching the current
// container. Text tokens are rendered inline without a paragraph when tight
// is set.
func (p *parseRun) children(tight bool) (string, error) {
	end, _ := p.cur.Kind.closer()
	var body strings.Builder
	for p.next() && p.cur.Kind != end {
		var s string
		var err error
		if tight && p.cur.Kind == TokenText {
			s, err = p.parseText()
		} else {
			s, err = p.tok()
		}
		if err != nil {
			return "", err
		}
		body.WriteString(s)
	}
	return body.String(), nil
}

// tok renders the current token and any tokens it contains.
func (p *parseRun) tok() (string, error) {
	r := p.renderer
	t := p.cur
	switch t.Kind {
	case TokenSpace, TokenDef:
		return "", nil

	case TokenHr:
		return r.Hr(), nil

	case TokenHeading:
		text, err := p.inline.Output(t.Text)
		if err != nil {
			return "", err
		}
		return r.Heading(text, t.Depth, t.Text), nil

	case TokenCode:
		return r.Code(t.Text, t.Lang, t.Escaped), nil

	case TokenTable:
		return p.table(t)

	case TokenBlockquoteStart:
		body, err := p.children(false)
		if err != nil {
			return "", err
		}
		return r.Blockquote(body), nil

	case TokenListStart:
		body, err := p.children(false)
		if err != nil {
			return "", err
		}
		return r.List(body, t.Ordered), nil

	case TokenListItemStart:
		body, err := p.children(true)
		if err != nil {
			return "", err
		}
		return r.ListItem(body), nil

	case TokenLooseItemStart:
		body, err := p.children(false)
		if err != nil {
			return "", err
		}
		return r.ListItem(body), nil

	case TokenHTML:
		if t.Pre || p.opts.Pedantic {
			return r.HTML(t.Text), nil
		}
		html, err := p.inline.Output(t.Text)
		if err != nil {
			return "", err
		}
		return r.HTML(html), nil

	case TokenParagraph:
		text, err := p.inline.Output(t.Text)
		if err != nil {
			return "", err
		}
		return r.Paragraph(text), nil

	case TokenText:
		text, err := p.parseText()
		if err != nil {
			return "", err
		}
		return r.Paragraph(text), nil
	}
	return "", fmt.Errorf("parse: unexpected %s token", t.Kind)
}

func (p *parseRun) table(t Token) (string, error) {
	r := p.renderer
	var cells strings.Builder
	for i, h := range t.Header {
		content, err := p.inline.Output(h)
		if err != nil {
			return "", err
		}
		cells.WriteString(r.TableCell(content, TableCellFlags{Header: true, Align: alignAt(t.Align, i)}))
	}
	header := r.TableRow(cells.String())

	var body strings.Builder
	for _, row := range t.Cells {
		cells.Reset()
		for j, c := range row {
			content, err := p.inline.Output(c)
			if err != nil {
				return "", err
			}
			cells.WriteString(r.TableCell(content, TableCellFlags{Align: alignAt(t.Align, j)}))
		}
		body.WriteString(r.TableRow(cells.String()))
	}
	return r.Table(header, body.String()), nil
}

func alignAt(align []Align, i int) Align {
	if i < len(align) {
		return align[i]
	}
	return AlignNone
}
