package mdhtml

import (
	"strings"
	"testing"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pkt.systems/mdhtml/internal/palette"
)

func plainTerminal(width int, osc8 bool) *TerminalRenderer {
	return NewTerminalRenderer(width, NewTheme("plain", Styles{}), osc8)
}

func TestTerminalRendererPlain(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		width int
		opts  []Option
		want  string
	}{
		{name: "empty", src: "", want: ""},
		{name: "blocks", src: "# Title\n\nSome **bold** text.\n\n- a\n- b\n", want: "# Title\n\nSome bold text.\n\n• a\n• b\n"},
		{name: "ordered", src: "1. x\n2. y\n", want: "1. x\n2. y\n"},
		{name: "nested list", src: "- a\n  - b\n- c\n", want: "• a\n  • b\n• c\n"},
		{name: "blockquote", src: "> quoted\n", want: "│ quoted\n"},
		{name: "code", src: "```\nx\n```", want: "    x\n"},
		{name: "rule", src: "a\n\n---\n\nb", width: 5, want: "a\n\n─────\n\nb\n"},
		{name: "line break", src: "a  \nb", want: "a\nb\n"},
		{name: "link", src: "[go](https://go.dev)", want: "go (https://go.dev)\n"},
		{name: "autolink", src: "<https://go.dev>", want: "https://go.dev\n"},
		{name: "image", src: "![logo](/l.png)", want: "[logo] (/l.png)\n"},
		{name: "entities", src: "a & b < c", want: "a & b < c\n"},
		{name: "emoji", src: ":smile:", opts: []Option{WithEmoji("e", "/e/", "smile")}, want: ":smile:\n"},
		{
			name: "table",
			src:  "| a | b |\n|---|--:|\n| 1 | 22 |\n",
			want: "a │  b\n──┼───\n1 │ 22\n",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			opts := append([]Option{WithRenderer(plainTerminal(tc.width, false))}, tc.opts...)
			assert.Equal(t, tc.want, convert(t, tc.src, opts...))
		})
	}
}

func TestTerminalRendererOSC8(t *testing.T) {
	out := convert(t, "[go](https://go.dev)", WithRenderer(plainTerminal(0, true)))
	assert.Equal(t, osc8Link("https://go.dev", "go")+"\n", out)
}

func TestTerminalRendererWraps(t *testing.T) {
	out := convert(t, "aaa bbb ccc ddd eee fff ggg hhh iii jjj", WithRenderer(plainTerminal(20, false)))
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Greater(t, len(lines), 1)
	for _, line := range lines {
		assert.LessOrEqual(t, ansi.PrintableRuneWidth(line), 20, line)
	}
}

func TestTerminalRendererStyles(t *testing.T) {
	theme, ok := ThemeForProfile("dracula", termenv.TrueColor)
	require.True(t, ok)
	out := convert(t, "**b** and `c`", WithRenderer(NewTerminalRenderer(0, theme, false)))
	assert.Contains(t, out, palette.Bold)
	assert.Contains(t, out, palette.Reset)
	assert.Contains(t, out, "38;2;")
}

func TestTerminalRendererEmphasisStrong(t *testing.T) {
	theme, ok := ThemeForProfile("dracula", termenv.TrueColor)
	require.True(t, ok)
	r := NewTerminalRenderer(0, theme, false)
	s := theme.Styles()

	assert.Equal(t, s.EmphasisStrong.Prefix+"x"+palette.Reset, r.Strong(r.Em("x")))
	assert.Equal(t, s.Strong.Prefix+"plain"+palette.Reset, r.Strong("plain"))

	two := r.Em("a") + " " + r.Em("b")
	assert.True(t, strings.HasPrefix(r.Strong(two), s.Strong.Prefix))
}

func TestTerminalRendererHighlightsCode(t *testing.T) {
	r := plainTerminal(0, false)
	r.HighlightCode("monokai")
	out := convert(t, "```go\nfunc main() {}\n```", WithRenderer(r))
	assert.Contains(t, out, "\x1b[")
	assert.True(t, strings.HasPrefix(stripANSI(out), "    "))
	assert.Contains(t, stripANSI(out), "func main() {}")

	r.HighlightCode("")
	out = convert(t, "```go\nfunc main() {}\n```", WithRenderer(r))
	assert.Equal(t, "    func main() {}\n", out)
}

func TestWrapLinesCarriesStyles(t *testing.T) {
	lines := wrapLines(palette.Bold+"aaa bbb ccc"+palette.Reset, 4, false)
	assert.Equal(t, []string{
		palette.Bold + "aaa" + palette.Reset,
		palette.Bold + "bbb" + palette.Reset,
		palette.Bold + "ccc" + palette.Reset,
	}, lines)
}

func TestCarryStylesReopensLinks(t *testing.T) {
	open := osc8Start + "https://x.io" + termenv.ST
	lines := []string{open + "aaa", "bbb" + osc8End}
	carryStyles(lines)
	assert.Equal(t, open+"aaa"+osc8End, lines[0])
	assert.Equal(t, open+"bbb"+osc8End, lines[1])
}

func TestFitURL(t *testing.T) {
	assert.Equal(t, "https://go.dev", fitURL("https://go.dev", 0))
	assert.Equal(t, "go.dev", fitURL("https://go.dev", 8))
	assert.Equal(t, "http…", fitURL("https://go.dev", 5))
}
