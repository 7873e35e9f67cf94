package mdhtml

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChromaHighlighter(t *testing.T) {
	h := NewChromaHighlighter("monokai")

	out, ok := h.Highlight("x := 1\n", "go")
	require.True(t, ok)
	assert.Contains(t, out, `<span class="`)
	assert.NotContains(t, out, "<pre")

	_, ok = h.Highlight("x", "no-such-language")
	assert.False(t, ok)
	_, ok = h.Highlight("x", " ")
	assert.False(t, ok)

	var nilHighlighter *ChromaHighlighter
	_, ok = nilHighlighter.Highlight("x", "go")
	assert.False(t, ok)
}

func TestChromaHighlighterUnknownStyle(t *testing.T) {
	h := NewChromaHighlighter("no-such-style")
	_, ok := h.Highlight("package main", "go")
	assert.True(t, ok)
}

func TestChromaHighlighterCSS(t *testing.T) {
	var css strings.Builder
	require.NoError(t, NewChromaHighlighter("github").WriteCSS(&css))
	assert.Contains(t, css.String(), ".chroma")
}

func TestChromaHighlighterInConversion(t *testing.T) {
	out := convert(t, "```go\nfunc main() {}\n```", WithHighlighter(NewChromaHighlighter("github")))
	assert.True(t, strings.HasPrefix(out, `<pre class="language-go"><code class="language-go"><span`))
	assert.NotContains(t, out, "\n")
}
