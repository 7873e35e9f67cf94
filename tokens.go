package mdhtml

// Token is one block-level unit produced by the lexer. Only the fields that
// belong to its Kind are populated.
type Token struct {
	Kind TokenKind
	Text string

	// Depth is the heading level (1-6).
	Depth int
	// Lang is the fenced code language hint.
	Lang string
	// Escaped reports code text that is already HTML-safe.
	Escaped bool
	// Ordered is set on TokenListStart for numbered lists.
	Ordered bool
	// Pre marks an HTML block that must pass through untouched.
	Pre bool

	Header []string
	Align  []Align
	Cells  [][]string

	// Href and Title are set on TokenDef; Text holds the label.
	Href  string
	Title string
}

// TokenKind identifies the variant of a Token.
type TokenKind uint8

const (
	TokenSpace TokenKind = iota
	TokenHr
	TokenHeading
	TokenCode
	TokenTable
	TokenBlockquoteStart
	TokenBlockquoteEnd
	TokenListStart
	TokenListEnd
	TokenListItemStart
	TokenLooseItemStart
	TokenListItemEnd
	TokenHTML
	TokenParagraph
	TokenText
	TokenDef
)

var tokenKindNames = [...]string{
	TokenSpace:           "space",
	TokenHr:              "hr",
	TokenHeading:         "heading",
	TokenCode:            "code",
	TokenTable:           "table",
	TokenBlockquoteStart: "blockquote_start",
	TokenBlockquoteEnd:   "blockquote_end",
	TokenListStart:       "list_start",
	TokenListEnd:         "list_end",
	TokenListItemStart:   "list_item_start",
	TokenLooseItemStart:  "loose_item_start",
	TokenListItemEnd:     "list_item_end",
	TokenHTML:            "html",
	TokenParagraph:       "paragraph",
	TokenText:            "text",
	TokenDef:             "def",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return "unknown"
}

// closer returns the kind that ends a container opened by k.
func (k TokenKind) closer() (TokenKind, bool) {
	switch k {
	case TokenBlockquoteStart:
		return TokenBlockquoteEnd, true
	case TokenListStart:
		return TokenListEnd, true
	case TokenListItemStart, TokenLooseItemStart:
		return TokenListItemEnd, true
	}
	return 0, false
}

// Align is a table column alignment.
type Align uint8

const (
	AlignNone Align = iota
	AlignLeft
	AlignCenter
	AlignRight
)

func (a Align) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	}
	return ""
}
