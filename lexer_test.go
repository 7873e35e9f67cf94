package mdhtml

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexDefault(t *testing.T, src string, opts ...Option) *Document {
	t.Helper()
	doc, err := Lex(src, resolveOptions(opts))
	require.NoError(t, err)
	return doc
}

func kinds(tokens []Token) []TokenKind {
	out := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

// requireBalanced checks that every container start has a matching end in
// the right order.
func requireBalanced(t *testing.T, tokens []Token) {
	t.Helper()
	var open []TokenKind
	for i, tok := range tokens {
		if end, ok := tok.Kind.closer(); ok {
			open = append(open, end)
			continue
		}
		switch tok.Kind {
		case TokenBlockquoteEnd, TokenListEnd, TokenListItemEnd:
			require.NotEmpty(t, open, "unexpected %s at %d", tok.Kind, i)
			require.Equal(t, open[len(open)-1], tok.Kind, "mismatched end at %d", i)
			open = open[:len(open)-1]
		}
	}
	require.Empty(t, open, "unclosed containers")
}

func TestBlockProfiles(t *testing.T) {
	normal := blockProfile(Options{})
	assert.Same(t, never, normal[blockFences])
	assert.Same(t, never, normal[blockTable])
	assert.Same(t, never, normal[blockNptable])

	gfm := blockProfile(Options{GFM: true})
	assert.NotSame(t, never, gfm[blockFences])
	assert.Same(t, never, gfm[blockTable])

	tables := blockProfile(Options{GFM: true, Tables: true})
	assert.NotSame(t, never, tables[blockTable])
	assert.NotSame(t, never, tables[blockNptable])
}

func TestInlineProfiles(t *testing.T) {
	assert.Same(t, never, inlineProfile(Options{})[inlineURL])
	assert.Same(t, never, inlineProfile(Options{})[inlineDel])
	assert.Same(t, never, inlineProfile(Options{GFM: true})[inlineEmoji])
	assert.NotSame(t, never, inlineProfile(Options{GFM: true, Emoji: true})[inlineEmoji])
	assert.Same(t, breaksInline[inlineBr], inlineProfile(Options{GFM: true, Breaks: true})[inlineBr])
	assert.Same(t, pedanticInline[inlineEm], inlineProfile(Options{Pedantic: true})[inlineEm])
	// GFM takes precedence over pedantic.
	assert.Same(t, gfmInline[inlineEm], inlineProfile(Options{GFM: true, Pedantic: true})[inlineEm])
}

func TestLexHeadingsAndParagraph(t *testing.T) {
	doc := lexDefault(t, "# Hi\n\nbody\n\nTitle\n=====\n\nSub\n---\n")
	require.Equal(t, []TokenKind{TokenHeading, TokenParagraph, TokenHeading, TokenHeading}, kinds(doc.Tokens))
	assert.Equal(t, 1, doc.Tokens[0].Depth)
	assert.Equal(t, "Hi", doc.Tokens[0].Text)
	assert.Equal(t, "body", doc.Tokens[1].Text)
	assert.Equal(t, Token{Kind: TokenHeading, Depth: 1, Text: "Title"}, doc.Tokens[2])
	assert.Equal(t, Token{Kind: TokenHeading, Depth: 2, Text: "Sub"}, doc.Tokens[3])
}

func TestLexNormalizesSource(t *testing.T) {
	doc := lexDefault(t, "a\r\nb\tc")
	require.Len(t, doc.Tokens, 1)
	assert.Equal(t, "a\nb    c", doc.Tokens[0].Text)
}

func TestLexIndentedCode(t *testing.T) {
	doc := lexDefault(t, "    code\n    more\n\ntext\n")
	require.Equal(t, []TokenKind{TokenCode, TokenParagraph}, kinds(doc.Tokens))
	assert.Equal(t, "code\nmore", doc.Tokens[0].Text)
	assert.Equal(t, "text", doc.Tokens[1].Text)
}

func TestLexFences(t *testing.T) {
	doc := lexDefault(t, "```go\nfmt.Println()\n```\n")
	require.Len(t, doc.Tokens, 1)
	assert.Equal(t, Token{Kind: TokenCode, Lang: "go", Text: "fmt.Println()"}, doc.Tokens[0])

	doc = lexDefault(t, "```go\nx\n```\n", WithGFM(false))
	assert.NotEqual(t, TokenCode, doc.Tokens[0].Kind)
}

func TestLexNestedList(t *testing.T) {
	doc := lexDefault(t, "- a\n  - b\n- c\n")
	requireBalanced(t, doc.Tokens)
	assert.Equal(t, []TokenKind{
		TokenListStart,
		TokenListItemStart, TokenText,
		TokenListStart, TokenListItemStart, TokenText, TokenListItemEnd, TokenListEnd,
		TokenListItemEnd,
		TokenListItemStart, TokenText, TokenListItemEnd,
		TokenListEnd,
	}, kinds(doc.Tokens))
	assert.Equal(t, "a", doc.Tokens[2].Text)
	assert.Equal(t, "b", doc.Tokens[5].Text)
	assert.Equal(t, "c", doc.Tokens[10].Text)
}

func TestLexLooseList(t *testing.T) {
	doc := lexDefault(t, "- a\n\n- b\n")
	requireBalanced(t, doc.Tokens)
	assert.Equal(t, TokenLooseItemStart, doc.Tokens[1].Kind)
	var loose int
	for _, tok := range doc.Tokens {
		if tok.Kind == TokenLooseItemStart {
			loose++
		}
	}
	assert.Equal(t, 2, loose)
}

func TestLexOrderedList(t *testing.T) {
	doc := lexDefault(t, "1. one\n2. two\n")
	requireBalanced(t, doc.Tokens)
	require.Equal(t, TokenListStart, doc.Tokens[0].Kind)
	assert.True(t, doc.Tokens[0].Ordered)
}

func TestLexSmartListsSplitOnBulletChange(t *testing.T) {
	doc := lexDefault(t, "- a\n+ b\n")
	requireBalanced(t, doc.Tokens)
	var lists int
	for _, tok := range doc.Tokens {
		if tok.Kind == TokenListStart {
			lists++
		}
	}
	assert.Equal(t, 2, lists)

	doc = lexDefault(t, "- a\n+ b\n", WithSmartLists(false))
	lists = 0
	for _, tok := range doc.Tokens {
		if tok.Kind == TokenListStart {
			lists++
		}
	}
	assert.Equal(t, 1, lists)
}

func TestLexBlockquote(t *testing.T) {
	doc := lexDefault(t, "> quoted\n> text\n")
	requireBalanced(t, doc.Tokens)
	require.Equal(t, []TokenKind{TokenBlockquoteStart, TokenParagraph, TokenBlockquoteEnd}, kinds(doc.Tokens))
	assert.Equal(t, "quoted\ntext", doc.Tokens[1].Text)
}

func TestLexPipeTable(t *testing.T) {
	doc := lexDefault(t, "| a | b |\n|:--|--:|\n| 1 |\n| 1 | 2 | 3 |\n")
	require.Len(t, doc.Tokens, 1)
	tok := doc.Tokens[0]
	assert.Equal(t, TokenTable, tok.Kind)
	assert.Equal(t, []string{"a", "b"}, tok.Header)
	assert.Equal(t, []Align{AlignLeft, AlignRight}, tok.Align)
	assert.Equal(t, [][]string{{"1", ""}, {"1", "2"}}, tok.Cells)
}

func TestLexNoPipeTable(t *testing.T) {
	doc := lexDefault(t, "a | b\n--|:-:\n1 | 2\n")
	require.Len(t, doc.Tokens, 1)
	tok := doc.Tokens[0]
	assert.Equal(t, TokenTable, tok.Kind)
	assert.Equal(t, []Align{AlignNone, AlignCenter}, tok.Align)
	assert.Equal(t, [][]string{{"1", "2"}}, tok.Cells)
}

func TestParseAlign(t *testing.T) {
	tests := map[string]Align{
		"---":   AlignNone,
		":--":   AlignLeft,
		"--:":   AlignRight,
		":-:":   AlignCenter,
		":":     AlignNone,
		"x-":    AlignNone,
		" :-: ": AlignCenter,
	}
	for cell, want := range tests {
		assert.Equal(t, want, parseAlign(cell), "cell %q", cell)
	}
}

func TestLexDefinitions(t *testing.T) {
	doc := lexDefault(t, "[Foo]: http://a.example\n[foo]: http://b.example \"B\"\n\n> [bar]: http://c.example\n")
	assert.Equal(t, LinkTable{"foo": {Href: "http://a.example"}}, doc.Links)

	var defs int
	for _, tok := range doc.Tokens {
		if tok.Kind == TokenDef {
			defs++
		}
	}
	assert.Equal(t, 2, defs)
	requireBalanced(t, doc.Tokens)
}

func TestLinkTableLookupNormalizesLabels(t *testing.T) {
	links := LinkTable{}
	require.True(t, links.define("Go  Home", Link{Href: "/go"}))
	require.False(t, links.define("go home", Link{Href: "/other"}))

	l, ok := links.Lookup(" GO\nhome ")
	require.True(t, ok)
	assert.Equal(t, "/go", l.Href)
}

func TestLexHTMLBlock(t *testing.T) {
	doc := lexDefault(t, "<div>\nhi\n</div>\n")
	require.Len(t, doc.Tokens, 1)
	assert.Equal(t, TokenHTML, doc.Tokens[0].Kind)
	assert.False(t, doc.Tokens[0].Pre)

	doc = lexDefault(t, "<pre>\nx\n</pre>\n")
	require.Len(t, doc.Tokens, 1)
	assert.True(t, doc.Tokens[0].Pre)

	doc = lexDefault(t, "<div>\nhi\n</div>\n", WithSanitize(true))
	require.Len(t, doc.Tokens, 1)
	assert.Equal(t, TokenParagraph, doc.Tokens[0].Kind)
}

func TestLexNestingLimit(t *testing.T) {
	_, err := Lex(">>>>>> deep\n", resolveOptions([]Option{WithMaxNesting(3)}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNestingTooDeep))

	_, err = Lex(">>> fine\n", resolveOptions([]Option{WithMaxNesting(3)}))
	assert.NoError(t, err)
}

func TestLexZeroOptions(t *testing.T) {
	doc, err := Lex("> quote\n", Options{})
	require.NoError(t, err)
	requireBalanced(t, doc.Tokens)
}

func TestLexStall(t *testing.T) {
	l := NewLexer(DefaultOptions())
	for i := range l.rules {
		l.rules[i] = never
	}
	l.rules[blockNewline] = rule(`\n+`)

	_, err := l.Lex("\n\nabc")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoRuleMatched))

	var stall *StallError
	require.True(t, errors.As(err, &stall))
	assert.Equal(t, StageBlock, stall.Stage)
	assert.Equal(t, 2, stall.Offset)
	assert.Equal(t, byte('a'), stall.Byte)
}

func TestLexerIsReusable(t *testing.T) {
	l := NewLexer(resolveOptions(nil))
	first, err := l.Lex("[a]: /x\n\ntext\n")
	require.NoError(t, err)
	second, err := l.Lex("[a]: /y\n\ntext\n")
	require.NoError(t, err)
	assert.Equal(t, "/x", first.Links["a"].Href)
	assert.Equal(t, "/y", second.Links["a"].Href)
}
