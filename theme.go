package mdhtml

import (
	"maps"
	"slices"
	"strings"

	"github.com/muesli/termenv"

	"pkt.systems/mdhtml/internal/palette"
)

// Style is an ANSI sequence opened before styled text. The renderer closes
// it with a reset.
type Style struct {
	Prefix string
}

// Styles maps each construct TerminalRenderer draws to a Style. The zero
// value renders without escape sequences.
type Styles struct {
	Text           Style
	Heading        [6]Style
	Emphasis       Style
	Strong         Style
	EmphasisStrong Style
	CodeInline     Style
	CodeBlock      Style
	Quote          Style
	ListMarker     Style
	LinkText       Style
	LinkURL        Style
	ThematicBreak  Style
	TableHeader    Style
	Strike         Style
}

// Theme is a named set of Styles.
type Theme interface {
	Name() string
	Styles() Styles
}

type namedStyles struct {
	name   string
	styles Styles
}

func (n namedStyles) Name() string   { return n.name }
func (n namedStyles) Styles() Styles { return n.styles }

// NewTheme wraps styles under name.
func NewTheme(name string, styles Styles) Theme {
	return namedStyles{name: name, styles: styles}
}

// plainTheme is listed alongside the palettes but never colored.
const plainTheme = "plain"

var themePalettes = map[string]palette.Colors{
	"default":        palette.Default,
	"dracula":        palette.Dracula,
	"nord":           palette.Nord,
	"gruvbox":        palette.Gruvbox,
	"solarized-dark": palette.SolarizedDark,
	"github-light":   palette.GithubLight,
}

func seq(attrs ...string) Style {
	return Style{Prefix: strings.Join(attrs, "")}
}

func paletteStyles(p palette.Palette) Styles {
	s := Styles{
		Text:           seq(p.Text),
		Emphasis:       seq(palette.Italic, p.Emphasis),
		Strong:         seq(palette.Bold, p.Strong),
		EmphasisStrong: seq(palette.Bold, palette.Italic, p.EmphasisStrong),
		CodeInline:     seq(p.CodeInline),
		CodeBlock:      seq(p.CodeBlock),
		Quote:          seq(p.Quote),
		ListMarker:     seq(p.ListMarker),
		LinkText:       seq(palette.Underline, p.LinkText),
		LinkURL:        seq(p.LinkURL),
		ThematicBreak:  seq(p.ThematicBreak),
		TableHeader:    seq(palette.Bold, p.TableHeader),
		Strike:         seq(palette.Strike, p.Strike),
	}
	// The two top levels are bold on top of their color.
	for i, color := range []string{p.H1, p.H2, p.H3, p.H4, p.H5, p.H6} {
		if i < 2 {
			s.Heading[i] = seq(palette.Bold, color)
			continue
		}
		s.Heading[i] = seq(color)
	}
	return s
}

// AvailableThemes returns the built-in theme names in sorted order.
func AvailableThemes() []string {
	names := append(slices.Collect(maps.Keys(themePalettes)), plainTheme)
	slices.Sort(names)
	return names
}

// ThemeByName looks up a built-in theme in 24-bit color.
func ThemeByName(name string) (Theme, bool) {
	return ThemeForProfile(name, termenv.TrueColor)
}

// ThemeForProfile looks up a built-in theme and reduces its colors to what
// profile can display. Names are matched case-insensitively and an empty
// name selects "default". Under termenv.Ascii every theme is plain.
func ThemeForProfile(name string, profile termenv.Profile) (Theme, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = "default"
	}
	colors, ok := themePalettes[key]
	switch {
	case key == plainTheme:
		return NewTheme(key, Styles{}), true
	case !ok:
		return nil, false
	case profile == termenv.Ascii:
		return NewTheme(key, Styles{}), true
	}
	return NewTheme(key, paletteStyles(colors.Resolve(profile))), true
}

// DefaultTheme returns "default" in 24-bit color.
func DefaultTheme() Theme {
	t, _ := ThemeByName("default")
	return t
}
