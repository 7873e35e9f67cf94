package mdhtml

import (
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
)

var quoteReplacer = strings.NewReplacer(
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// Escape makes s safe for HTML text and attribute values. Unless encode is
// set, ampersands that already start a character reference are kept, so
// escaping twice yields the same string.
func Escape(s string, encode bool) string {
	if encode {
		s = strings.ReplaceAll(s, "&", "&amp;")
	} else {
		s = replaceAll(entityRe, s, "&amp;")
	}
	return quoteReplacer.Replace(s)
}

// Unescape decodes numeric character references and &colon;. Other named
// references are dropped.
func Unescape(s string) string {
	out, err := namedRefRe.ReplaceFunc(s, func(m regexp2.Match) string {
		n := strings.ToLower(group(&m, 1))
		if n == "colon" {
			return ":"
		}
		if !strings.HasPrefix(n, "#") {
			return ""
		}
		var code int64
		var err error
		if strings.HasPrefix(n, "#x") {
			code, err = strconv.ParseInt(n[2:], 16, 32)
		} else {
			code, err = strconv.ParseInt(n[1:], 10, 32)
		}
		if err != nil {
			return ""
		}
		return string(rune(code))
	}, -1, -1)
	if err != nil {
		return s
	}
	return out
}

// mangle writes every character of s as a decimal or hexadecimal character
// reference, chosen at random per character.
func mangle(s string) string {
	var b strings.Builder
	for _, r := range s {
		b.WriteString("&#")
		if rand.IntN(2) == 0 {
			b.WriteString("x")
			b.WriteString(strconv.FormatInt(int64(r), 16))
		} else {
			b.WriteString(strconv.Itoa(int(r)))
		}
		b.WriteString(";")
	}
	return b.String()
}

type substitution struct {
	re   *regexp2.Regexp
	repl string
}

var smartypantsSubs = []substitution{
	{pattern(`---`, regexp2.None), "—"},
	{pattern(`--`, regexp2.None), "–"},
	{pattern(`(^|[-—/(\[{"\s])'`, regexp2.None), "${1}‘"},
	{pattern(`'`, regexp2.None), "’"},
	{pattern(`(^|[-—/(\[{‘\s])"`, regexp2.None), "${1}“"},
	{pattern(`"`, regexp2.None), "”"},
	{pattern(`\.{3}`, regexp2.None), "…"},
}

// smartypants applies typographic dashes, curly quotes and ellipses. Quotes
// open at the start of text or after whitespace and opening punctuation.
func smartypants(s string) string {
	for _, sub := range smartypantsSubs {
		s = replaceAll(sub.re, s, sub.repl)
	}
	return s
}

var slugSubs = []substitution{
	{pattern(iconSrc, regexp2.None), ""},
	{pattern(emojiSrc, regexp2.None), ""},
	{pattern(strongSrc, regexp2.None), "${1}${2}"},
	{pattern(emSrc, regexp2.None), "${1}${2}"},
	{pattern(delSrc, regexp2.None), "${1}"},
	{pattern(`<([a-z][a-z0-9]*)\b[^>]*>.*?</\1>`, regexp2.IgnoreCase), ""},
	{pattern(`<[^>]*>`, regexp2.None), ""},
}

var nonWordRe = pattern(`[^\w ]+`, regexp2.None)

// slugify derives a heading id from raw heading text: markup and tags are
// stripped, the rest is lower-cased, non-word characters are dropped and
// spaces become underscores.
func slugify(raw string) string {
	s := raw
	for _, sub := range slugSubs {
		s = replaceAll(sub.re, s, sub.repl)
	}
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimSpace(replaceAll(nonWordRe, s, ""))
	return strings.ReplaceAll(s, " ", "_")
}
