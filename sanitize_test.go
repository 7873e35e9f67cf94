package mdhtml

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowlistSanitizer(t *testing.T) {
	s := NewAllowlistSanitizer()
	tests := []struct {
		in   string
		want string
	}{
		{in: `<b onclick="x">hi</b>`, want: "<b>hi</b>"},
		{in: "<script>bad()</script>", want: "&lt;script&gt;bad()&lt;/script&gt;"},
		{in: `<a href="javascript:x" title="t">l</a>`, want: `<a title="t">l</a>`},
		{in: `<a href="https://go.dev">go</a>`, want: `<a href="https://go.dev">go</a>`},
		{in: `<img src="javascript:x" alt="a">`, want: `<img alt="a">`},
		{in: "<!-- note -->ok", want: "ok"},
		{in: "1 < 2", want: "1 &lt; 2"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, s.Sanitize(tc.in))
		})
	}
}

func TestAllowlistSanitizerAllow(t *testing.T) {
	s := NewAllowlistSanitizer().Allow("DIV", "Class")
	assert.Equal(t, `<div class="x">t</div>`, s.Sanitize(`<div class="x" id="y">t</div>`))
}

func TestSanitizerInConversion(t *testing.T) {
	out := convert(t, `Hi <b>x</b> <i onclick="y">z</i>`, WithSanitizer(NewAllowlistSanitizer()))
	assert.Equal(t, "<p>Hi <b>x</b> <i>z</i></p>", out)

	wrap := SanitizerFunc(func(fragment string) string { return "[" + fragment + "]" })
	out = convert(t, "a <br> b", WithSanitizer(wrap))
	assert.Equal(t, "<p>a [<br>] b</p>", out)
}
