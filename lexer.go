package mdhtml

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
)

// Document is the block token stream of one source text together with the
// link references defined at its top level.
type Document struct {
	Tokens []Token
	Links  LinkTable
}

// Lexer splits source text into block tokens. It holds only immutable
// configuration and may be shared between goroutines.
type Lexer struct {
	opts  Options
	rules blockGrammar
}

// NewLexer returns a block lexer for the grammar selected by opts.
func NewLexer(opts Options) *Lexer {
	opts = opts.normalized()
	return &Lexer{opts: opts, rules: blockProfile(opts)}
}

// Lex tokenizes src with the given options.
func Lex(src string, opts Options) (*Document, error) {
	return NewLexer(opts).Lex(src)
}

var sourceReplacer = strings.NewReplacer(
	"\r\n", "\n",
	"\r", "\n",
	"\t", "    ",
	"\u00a0", "",
	"\u2424", "\n",
)

// Lex normalizes src and tokenizes it.
func (l *Lexer) Lex(src string) (*Document, error) {
	run := &lexRun{Lexer: l, links: LinkTable{}}
	tokens, err := run.tokenize(sourceReplacer.Replace(src), true, false, 0)
	if err != nil {
		return nil, err
	}
	return &Document{Tokens: tokens, Links: run.links}, nil
}

// blockOrder is the priority in which block rules are tried.
var blockOrder = [...]blockRule{
	blockNewline,
	blockCode,
	blockFences,
	blockHeading,
	blockNptable,
	blockLheading,
	blockHr,
	blockBlockquote,
	blockList,
	blockHTML,
	blockDef,
	blockTable,
	blockParagraph,
	blockText,
}

// lexRun is the state of one Lex call.
type lexRun struct {
	*Lexer
	links LinkTable
}

func allowed(r blockRule, top, bq bool) bool {
	switch r {
	case blockNptable, blockTable, blockParagraph:
		return top
	case blockDef:
		return top && !bq
	}
	return true
}

// tokenize consumes text and returns its tokens. Nested blocks recurse with
// top cleared (list items) or bq set (blockquotes).
func (r *lexRun) tokenize(text string, top, bq bool, depth int) ([]Token, error) {
	if depth > r.opts.MaxNesting {
		return nil, fmt.Errorf("block depth %d: %w", depth, ErrNestingTooDeep)
	}
	text = replaceAll(spaceLineRe, text, "")
	src := []rune(text)
	var tokens []Token
	var slow [numBlockRules]bool
	for len(src) > 0 {
		var m *regexp2.Match
		var rule blockRule
		for _, candidate := range blockOrder {
			if !allowed(candidate, top, bq) || slow[candidate] {
				continue
			}
			found, timedOut := find(r.rules[candidate], src)
			if timedOut {
				// Skipped for the rest of this span.
				slow[candidate] = true
				r.opts.Logger.Warn("block rule timed out", "rule", candidate.String(), "offset", len(text)-len(string(src)))
				continue
			}
			if found != nil {
				m, rule = found, candidate
				break
			}
		}
		if m == nil {
			err := newStallError(StageBlock, text, src)
			r.opts.Logger.Warn("block tokenizer stalled", "offset", err.Offset, "byte", string(err.Byte))
			return nil, err
		}
		src = src[m.Length:]
		toks, pushback, err := r.emit(rule, m, top, bq, depth)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, toks...)
		if pushback != "" {
			src = append([]rune(pushback), src...)
		}
	}
	return tokens, nil
}

// emit turns one rule match into tokens. A non-empty pushback is returned to
// the front of the input.
func (r *lexRun) emit(rule blockRule, m *regexp2.Match, top, bq bool, depth int) ([]Token, string, error) {
	switch rule {
	case blockNewline:
		if m.Length > 1 {
			return []Token{{Kind: TokenSpace}}, "", nil
		}
		return nil, "", nil

	case blockCode:
		code := replaceAll(codeIndentRe, m.String(), "")
		if !r.opts.Pedantic {
			code = strings.TrimRight(code, "\n")
		}
		return []Token{{Kind: TokenCode, Text: code}}, "", nil

	case blockFences:
		return []Token{{Kind: TokenCode, Lang: group(m, 2), Text: group(m, 3)}}, "", nil

	case blockHeading:
		return []Token{{Kind: TokenHeading, Depth: len(group(m, 1)), Text: group(m, 2)}}, "", nil

	case blockNptable, blockTable:
		return []Token{newTable(group(m, 1), group(m, 2), group(m, 3))}, "", nil

	case blockLheading:
		level := 2
		if group(m, 2) == "=" {
			level = 1
		}
		return []Token{{Kind: TokenHeading, Depth: level, Text: group(m, 1)}}, "", nil

	case blockHr:
		return []Token{{Kind: TokenHr}}, "", nil

	case blockBlockquote:
		body := replaceAll(quoteMarkerRe, m.String(), "")
		children, err := r.tokenize(body, top, true, depth+1)
		if err != nil {
			return nil, "", err
		}
		tokens := make([]Token, 0, len(children)+2)
		tokens = append(tokens, Token{Kind: TokenBlockquoteStart})
		tokens = append(tokens, children...)
		tokens = append(tokens, Token{Kind: TokenBlockquoteEnd})
		return tokens, "", nil

	case blockList:
		return r.list(m, bq, depth)

	case blockHTML:
		if r.opts.Sanitize {
			return []Token{{Kind: TokenParagraph, Text: m.String()}}, "", nil
		}
		tag := strings.ToLower(group(m, 1))
		return []Token{{
			Kind: TokenHTML,
			Pre:  tag == "pre" || tag == "script" || tag == "style",
			Text: m.String(),
		}}, "", nil

	case blockDef:
		label, link := group(m, 1), Link{Href: group(m, 2), Title: group(m, 3)}
		if !r.links.define(label, link) {
			r.opts.Logger.Debug("duplicate link definition ignored", "label", label)
		}
		return []Token{{Kind: TokenDef, Text: label, Href: link.Href, Title: link.Title}}, "", nil

	case blockParagraph:
		return []Token{{Kind: TokenParagraph, Text: strings.TrimSuffix(group(m, 1), "\n")}}, "", nil

	case blockText:
		return []Token{{Kind: TokenText, Text: m.String()}}, "", nil
	}
	return nil, "", fmt.Errorf("block %s: unhandled rule", rule)
}

// list splits a matched list into items. An item is loose when it contains
// a blank line before its end or follows an item that ended with one. With
// smart lists, a change of bullet style ends the list and the remaining
// items are pushed back onto the input.
func (r *lexRun) list(m *regexp2.Match, bq bool, depth int) ([]Token, string, error) {
	bull := group(m, 2)
	items := findAll(itemRe, m.String())
	tokens := []Token{{Kind: TokenListStart, Ordered: len(bull) > 1}}
	var pushback string
	next := false
	n := len(items)
	for i := 0; i < n; i++ {
		item := items[i]
		space := len(item)
		item = replaceAll(itemMarkerRe, item, "")
		if strings.Contains(item, "\n ") {
			space -= len(item)
			if r.opts.Pedantic {
				space = 4
			}
			item = outdent(item, space)
		}

		if r.opts.SmartLists && i != n-1 {
			b := ""
			if bm, err := bulletRe.FindStringMatch(items[i+1]); err == nil && bm != nil {
				b = bm.String()
			}
			if bull != b && !(len(bull) > 1 && len(b) > 1) {
				pushback = strings.Join(items[i+1:], "\n")
				n = i + 1
			}
		}

		loose := next || matches(looseRe, item)
		if i != n-1 {
			next = strings.HasSuffix(item, "\n")
			if !loose {
				loose = next
			}
		}

		kind := TokenListItemStart
		if loose {
			kind = TokenLooseItemStart
		}
		children, err := r.tokenize(item, false, bq, depth+1)
		if err != nil {
			return nil, "", err
		}
		tokens = append(tokens, Token{Kind: kind})
		tokens = append(tokens, children...)
		tokens = append(tokens, Token{Kind: TokenListItemEnd})
	}
	tokens = append(tokens, Token{Kind: TokenListEnd})
	return tokens, pushback, nil
}

// outdent removes up to n leading spaces from every line of s.
func outdent(s string, n int) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		j := 0
		for j < n && j < len(line) && line[j] == ' ' {
			j++
		}
		lines[i] = line[j:]
	}
	return strings.Join(lines, "\n")
}

// newTable builds a table token from the header, delimiter and body rows of
// a matched table. Rows are padded or truncated to the header width.
func newTable(header, delim, body string) Token {
	tok := Token{Kind: TokenTable, Header: splitRow(header)}
	width := len(tok.Header)

	cells := splitRow(delim)
	tok.Align = make([]Align, width)
	for i := 0; i < width && i < len(cells); i++ {
		tok.Align[i] = parseAlign(cells[i])
	}

	body = strings.TrimSuffix(body, "\n")
	if body == "" {
		return tok
	}
	for _, line := range strings.Split(body, "\n") {
		row := splitRow(line)
		fitted := make([]string, width)
		copy(fitted, row)
		tok.Cells = append(tok.Cells, fitted)
	}
	return tok
}

// splitRow trims one leading and one trailing pipe from a row and splits
// the rest into space-trimmed cells.
func splitRow(row string) []string {
	row = strings.Trim(row, " ")
	row = strings.TrimPrefix(row, "|")
	row = strings.TrimSuffix(row, "|")
	parts := strings.Split(row, "|")
	for i, p := range parts {
		parts[i] = strings.Trim(p, " ")
	}
	return parts
}

// parseAlign maps a delimiter cell to its alignment: ":---" left, "---:"
// right, ":---:" center, anything else none.
func parseAlign(cell string) Align {
	cell = strings.Trim(cell, " ")
	left := strings.HasPrefix(cell, ":")
	right := strings.HasSuffix(cell, ":") && len(cell) > 1
	dashes := strings.TrimSuffix(strings.TrimPrefix(cell, ":"), ":")
	if dashes == "" || strings.Trim(dashes, "-") != "" {
		return AlignNone
	}
	switch {
	case left && right:
		return AlignCenter
	case right:
		return AlignRight
	case left:
		return AlignLeft
	}
	return AlignNone
}
