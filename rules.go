package mdhtml

import (
	"strconv"
	"time"

	"github.com/dlclark/regexp2"
)

// ruleTimeout bounds a single rule match. A match that runs out of time
// counts as no match.
const ruleTimeout = 100 * time.Millisecond

type blockRule uint8

const (
	blockNewline blockRule = iota
	blockCode
	blockFences
	blockHeading
	blockNptable
	blockLheading
	blockHr
	blockBlockquote
	blockList
	blockHTML
	blockDef
	blockTable
	blockParagraph
	blockText
	numBlockRules
)

var blockRuleNames = [numBlockRules]string{
	"newline", "code", "fences", "heading", "nptable", "lheading", "hr",
	"blockquote", "list", "html", "def", "table", "paragraph", "text",
}

func (r blockRule) String() string { return blockRuleNames[r] }

type inlineRule uint8

const (
	inlineEscape inlineRule = iota
	inlineAutolink
	inlineURL
	inlineTag
	inlineLink
	inlineReflink
	inlineNolink
	inlineStrong
	inlineEm
	inlineCode
	inlineIcon
	inlineEmoji
	inlineBr
	inlineDel
	inlineText
	numInlineRules
)

var inlineRuleNames = [numInlineRules]string{
	"escape", "autolink", "url", "tag", "link", "reflink", "nolink", "strong",
	"em", "code", "icon", "emoji", "br", "del", "text",
}

func (r inlineRule) String() string { return inlineRuleNames[r] }

// blockGrammar and inlineGrammar map every rule to a compiled matcher. A
// disabled rule holds never, so lookups cannot miss.
type (
	blockGrammar  [numBlockRules]*regexp2.Regexp
	inlineGrammar [numInlineRules]*regexp2.Regexp
)

// Rule sources. They are written without the leading anchor so they can be
// embedded in one another; rule() anchors them at the start of input.
const (
	neverSrc = `[^\s\S]`

	bulletSrc   = `(?:[*+-]|\d+\.)`
	hrSrc       = `( *[-*_]){3,} *(?:\n+|$)`
	headingSrc  = ` *(#{1,6}) *([^\n]+?) *#* *(?:\n+|$)`
	lheadingSrc = `([^\n]+)\n *(=|-){2,} *(?:\n+|$)`
	defSrc      = ` *\[([^\]]+)\]: *<?([^\s>]+)>?(?: +["(]([^\n]+)[")])? *(?:\n+|$)`
	codeSrc     = `( {4}[^\n]+\n*)+`
	textSrc     = `[^\n]+`

	blockquoteSrc = `( *>[^\n]+(\n(?!` + defSrc + `)[^\n]+)*\n*)+`

	listSrc = `( *)(` + bulletSrc + `) [\s\S]+?(?:` +
		`\n+(?=\1?(?:[-*_] *){3,}(?:\n+|$))` +
		`|\n+(?=` + defSrc + `)` +
		`|\n{2,}(?! )(?!\1` + bulletSrc + ` )\n*` +
		`|\s*$)`

	inlineTagNames = `(?:a|em|strong|small|s|cite|q|dfn|abbr|data|time|code|var|samp|kbd|sub|sup|i|b|u|mark|ruby|rt|rp|bdi|bdo|span|br|wbr|ins|del|img)\b`
	blockTagSrc    = `(?!` + inlineTagNames + `)\w+(?!:/|[^\w\s@]*@)\b`

	htmlSrc = ` *(?:` +
		`<!--[\s\S]*?--> *(?:\n|\s*$)` +
		`|<(` + blockTagSrc + `)[\s\S]+?</\1> *(?:\n{2,}|\s*$)` +
		`|<` + blockTagSrc + `(?:"[^"]*"|'[^']*'|[^'">])*?> *(?:\n{2,}|\s*$))`

	fencesSrc    = " *(`{3,}|~{3,})[ \\.]*(\\S+)? *\\n([\\s\\S]*?)\\s*\\1 *(?:\\n+|$)"
	gfmHeadSrc   = ` *(#{1,6}) +([^\n]+?) *#* *(?:\n+|$)`
	nptableSrc   = ` *(\S.*\|.*)\n *([-:]+ *\|[-| :]*)\n((?:.*\|.*(?:\n|$))*)\n*`
	pipeTableSrc = ` *\|(.+)\n *\|( *[-:]+[-| :]*)\n((?: *\|.*(?:\n|$))*)\n*`

	// Paragraph terminators. The GFM variants use named groups so their
	// backreferences survive being embedded in the paragraph rule.
	paraStopSrc = hrSrc + `|` + headingSrc + `|` + lheadingSrc + `|` + blockquoteSrc +
		`|<` + blockTagSrc + `|` + defSrc
	gfmParaFenceSrc = " *(?<pfence>`{3,}|~{3,})[ \\.]*(\\S+)? *\\n([\\s\\S]*?)\\s*\\k<pfence> *(?:\\n+|$)"
	gfmParaListSrc  = `(?<plist> *)` + bulletSrc + ` [\s\S]+?(?:` +
		`\n+(?=\k<plist>?(?:[-*_] *){3,}(?:\n+|$))` +
		`|\n+(?=` + defSrc + `)` +
		`|\n{2,}(?! )(?!\k<plist>` + bulletSrc + ` )\n*` +
		`|\s*$)`

	paragraphSrc    = `((?:[^\n]+\n?(?!` + paraStopSrc + `))+)\n*`
	gfmParagraphSrc = `((?:[^\n]+\n?(?!` + gfmParaFenceSrc + `|` + gfmParaListSrc + `|` + paraStopSrc + `))+)\n*`
)

const (
	escapeSrc    = "\\\\([\\\\`*{}\\[\\]()#+\\-.!_>])"
	gfmEscapeSrc = "\\\\([\\\\`*{}\\[\\]()#+\\-.!_>~|])"
	autolinkSrc  = `<([^ >]+(@|:/)[^ >]+)>`
	urlSrc       = `(https?://[^\s<]+[^<.,:;"')\]\s])`
	tagSrc       = `<!--[\s\S]*?-->|</?\w+(?:"[^"]*"|'[^']*'|[^'">])*?>`

	insideSrc  = `(?:\[[^\]]*\]|[^\[\]]|\](?=[^\[]*\]))*`
	hrefSrc    = `\s*<?([\s\S]*?)>?(?:\s+['"]([\s\S]*?)['"])?\s*`
	linkSrc    = `!?\[(` + insideSrc + `)\]\(` + hrefSrc + `\)`
	reflinkSrc = `!?\[(` + insideSrc + `)\]\s*\[([^\]]*)\]`
	nolinkSrc  = `!?\[((?:\[[^\]]*\]|[^\[\]])*)\]`

	strongSrc         = `__([\s\S]+?)__(?!_)|\*\*([\s\S]+?)\*\*(?!\*)`
	emSrc             = `\b_((?:[^_]|__)+?)_\b|\*((?:\*\*|[\s\S])+?)\*(?!\*)`
	pedanticStrongSrc = `__(?=\S)([\s\S]*?\S)__(?!_)|\*\*(?=\S)([\s\S]*?\S)\*\*(?!\*)`
	pedanticEmSrc     = `_(?=\S)([\s\S]*?\S)_(?!_)|\*(?=\S)([\s\S]*?\S)\*(?!\*)`

	codeSpanSrc = "(`+)\\s*([\\s\\S]*?[^`])\\s*\\1(?!`)"
	iconSrc     = `::([^:\n]+?)::`
	emojiSrc    = `:([\w+\-]+):`
	brSrc       = ` {2,}\n(?!\s*$)`
	breaksBrSrc = ` *\n(?!\s*$)`
	delSrc      = `~~(?=\S)([\s\S]*?\S)~~`

	inlineTextSrc = "[\\s\\S]+?(?=[\\\\<!\\[_*`:]| {2,}\\n|$)"
	gfmTextSrc    = "[\\s\\S]+?(?=[\\\\<!\\[_*`~:]|https?://| {2,}\\n|$)"
	breaksTextSrc = "[\\s\\S]+?(?=[\\\\<!\\[_*`~:]|https?://| *\\n|$)"
)

// rule compiles src anchored at the start of input.
func rule(src string) *regexp2.Regexp {
	re := regexp2.MustCompile(`^(?:`+src+`)`, regexp2.None)
	re.MatchTimeout = ruleTimeout
	return re
}

// pattern compiles an unanchored helper expression.
func pattern(src string, opts regexp2.RegexOptions) *regexp2.Regexp {
	return regexp2.MustCompile(src, opts)
}

var never = rule(neverSrc)

var (
	normalBlock blockGrammar
	gfmBlock    blockGrammar
	tablesBlock blockGrammar

	normalInline   inlineGrammar
	gfmInline      inlineGrammar
	breaksInline   inlineGrammar
	pedanticInline inlineGrammar
)

func init() {
	normalBlock = blockGrammar{
		blockNewline:    rule(`\n+`),
		blockCode:       rule(codeSrc),
		blockFences:     never,
		blockHeading:    rule(headingSrc),
		blockNptable:    never,
		blockLheading:   rule(lheadingSrc),
		blockHr:         rule(hrSrc),
		blockBlockquote: rule(blockquoteSrc),
		blockList:       rule(listSrc),
		blockHTML:       rule(htmlSrc),
		blockDef:        rule(defSrc),
		blockTable:      never,
		blockParagraph:  rule(paragraphSrc),
		blockText:       rule(textSrc),
	}

	gfmBlock = normalBlock
	gfmBlock[blockFences] = rule(fencesSrc)
	gfmBlock[blockHeading] = rule(gfmHeadSrc)
	gfmBlock[blockParagraph] = rule(gfmParagraphSrc)

	tablesBlock = gfmBlock
	tablesBlock[blockNptable] = rule(nptableSrc)
	tablesBlock[blockTable] = rule(pipeTableSrc)

	normalInline = inlineGrammar{
		inlineEscape:   rule(escapeSrc),
		inlineAutolink: rule(autolinkSrc),
		inlineURL:      never,
		inlineTag:      rule(tagSrc),
		inlineLink:     rule(linkSrc),
		inlineReflink:  rule(reflinkSrc),
		inlineNolink:   rule(nolinkSrc),
		inlineStrong:   rule(strongSrc),
		inlineEm:       rule(emSrc),
		inlineCode:     rule(codeSpanSrc),
		inlineIcon:     rule(iconSrc),
		inlineEmoji:    rule(emojiSrc),
		inlineBr:       rule(brSrc),
		inlineDel:      never,
		inlineText:     rule(inlineTextSrc),
	}

	gfmInline = normalInline
	gfmInline[inlineEscape] = rule(gfmEscapeSrc)
	gfmInline[inlineURL] = rule(urlSrc)
	gfmInline[inlineDel] = rule(delSrc)
	gfmInline[inlineText] = rule(gfmTextSrc)

	breaksInline = gfmInline
	breaksInline[inlineBr] = rule(breaksBrSrc)
	breaksInline[inlineText] = rule(breaksTextSrc)

	pedanticInline = normalInline
	pedanticInline[inlineStrong] = rule(pedanticStrongSrc)
	pedanticInline[inlineEm] = rule(pedanticEmSrc)
}

// blockProfile returns the block grammar selected by o: Normal, GFM, or
// GFM with tables.
func blockProfile(o Options) blockGrammar {
	if !o.GFM {
		return normalBlock
	}
	if o.Tables {
		return tablesBlock
	}
	return gfmBlock
}

// inlineProfile returns the inline grammar selected by o: Normal, GFM,
// GFM with breaks, or Pedantic. Emoji shorthand is disabled unless o.Emoji.
func inlineProfile(o Options) inlineGrammar {
	g := normalInline
	switch {
	case o.GFM && o.Breaks:
		g = breaksInline
	case o.GFM:
		g = gfmInline
	case o.Pedantic:
		g = pedanticInline
	}
	if !o.Emoji {
		g[inlineEmoji] = never
	}
	return g
}

// Helpers shared by the lexers and the renderer.
var (
	itemRe         = pattern(`^( *)(`+bulletSrc+`) [^\n]*(?:\n(?!\1`+bulletSrc+` )[^\n]*)*`, regexp2.Multiline)
	bulletRe       = pattern(bulletSrc, regexp2.None)
	itemMarkerRe   = pattern(`^ *(?:[*+-]|\d+\.) +`, regexp2.None)
	looseRe        = pattern(`\n\n(?!\s*$)`, regexp2.None)
	spaceLineRe    = pattern(`^ +$`, regexp2.Multiline)
	quoteMarkerRe  = pattern(`^ *> ?`, regexp2.Multiline)
	codeIndentRe   = pattern(`^ {4}`, regexp2.Multiline)
	openAnchorRe   = pattern(`^<a `, regexp2.IgnoreCase)
	closeAnchorRe  = pattern(`^</a>`, regexp2.IgnoreCase)
	entityRe       = pattern(`&(?!#?\w+;)`, regexp2.None)
	namedRefRe     = pattern(`&([#\w]+);`, regexp2.None)
	protocolJunkRe = pattern(`[^\w:]`, regexp2.None)
)

// find runs re against src and reports a nil match when it does not match
// or matches nothing. timedOut is set when the match exceeded ruleTimeout;
// the match is then nil as well.
func find(re *regexp2.Regexp, src []rune) (m *regexp2.Match, timedOut bool) {
	m, err := re.FindRunesMatch(src)
	if err != nil {
		return nil, true
	}
	if m == nil || m.Length == 0 {
		return nil, false
	}
	return m, false
}

// percentRe matches one well-formed percent escape.
var percentRe = pattern(`%[0-9A-Fa-f]{2}`, regexp2.None)

// percentDecode decodes the well-formed percent escapes in s and leaves
// stray '%' characters as they are.
func percentDecode(s string) string {
	out, err := percentRe.ReplaceFunc(s, func(m regexp2.Match) string {
		b, _ := strconv.ParseUint(m.String()[1:], 16, 8)
		return string([]byte{byte(b)})
	}, -1, -1)
	if err != nil {
		return s
	}
	return out
}

// group returns capture n of m, or "" when it did not participate.
func group(m *regexp2.Match, n int) string {
	g := m.GroupByNumber(n)
	if g == nil || len(g.Captures) == 0 {
		return ""
	}
	return g.String()
}

// replaceAll substitutes every match of re in s. Helper expressions carry no
// match timeout, so Replace cannot fail.
func replaceAll(re *regexp2.Regexp, s, repl string) string {
	out, err := re.Replace(s, repl, -1, -1)
	if err != nil {
		return s
	}
	return out
}

func matches(re *regexp2.Regexp, s string) bool {
	ok, err := re.MatchString(s)
	return err == nil && ok
}

// findAll returns the text of every non-overlapping match of re in s.
func findAll(re *regexp2.Regexp, s string) []string {
	var out []string
	m, err := re.FindStringMatch(s)
	for err == nil && m != nil {
		out = append(out, m.String())
		m, err = re.FindNextMatch(m)
	}
	return out
}
