// Package palette holds the color tables behind the built-in terminal
// themes.
package palette

import "github.com/muesli/termenv"

// SGR attribute sequences.
const (
	Reset     = termenv.CSI + termenv.ResetSeq + "m"
	Bold      = termenv.CSI + termenv.BoldSeq + "m"
	Italic    = termenv.CSI + termenv.ItalicSeq + "m"
	Underline = termenv.CSI + termenv.UnderlineSeq + "m"
	Strike    = termenv.CSI + termenv.CrossOutSeq + "m"
)

// Colors is a palette in #rrggbb notation. Empty entries leave the
// terminal's default color in place.
type Colors struct {
	Text           string
	H1             string
	H2             string
	H3             string
	H4             string
	H5             string
	H6             string
	Emphasis       string
	Strong         string
	EmphasisStrong string
	CodeInline     string
	CodeBlock      string
	Quote          string
	ListMarker     string
	LinkText       string
	LinkURL        string
	ThematicBreak  string
	TableHeader    string
	Strike         string
}

// Palette is a Colors table resolved to foreground escape sequences.
type Palette Colors

// Resolve converts c to escape sequences for profile. Colors the profile
// cannot show are approximated, and the Ascii profile yields no sequences.
func (c Colors) Resolve(profile termenv.Profile) Palette {
	fg := func(hex string) string {
		if hex == "" {
			return ""
		}
		seq := profile.Color(hex)
		if seq == nil || seq.Sequence(false) == "" {
			return ""
		}
		return termenv.CSI + seq.Sequence(false) + "m"
	}
	return Palette{
		Text:           fg(c.Text),
		H1:             fg(c.H1),
		H2:             fg(c.H2),
		H3:             fg(c.H3),
		H4:             fg(c.H4),
		H5:             fg(c.H5),
		H6:             fg(c.H6),
		Emphasis:       fg(c.Emphasis),
		Strong:         fg(c.Strong),
		EmphasisStrong: fg(c.EmphasisStrong),
		CodeInline:     fg(c.CodeInline),
		CodeBlock:      fg(c.CodeBlock),
		Quote:          fg(c.Quote),
		ListMarker:     fg(c.ListMarker),
		LinkText:       fg(c.LinkText),
		LinkURL:        fg(c.LinkURL),
		ThematicBreak:  fg(c.ThematicBreak),
		TableHeader:    fg(c.TableHeader),
		Strike:         fg(c.Strike),
	}
}

var (
	Default = Colors{
		H1:            "#5fafff",
		H2:            "#5fd7ff",
		H3:            "#87d7af",
		H4:            "#afd787",
		H5:            "#d7d787",
		H6:            "#d7af87",
		CodeInline:    "#ff8787",
		CodeBlock:     "#bcbcbc",
		Quote:         "#8a8a8a",
		ListMarker:    "#5fafff",
		LinkText:      "#87afff",
		LinkURL:       "#6c6c6c",
		ThematicBreak: "#585858",
		TableHeader:   "#5fd7ff",
		Strike:        "#8a8a8a",
	}

	Dracula = Colors{
		Text:           "#f8f8f2",
		H1:             "#ff79c6",
		H2:             "#bd93f9",
		H3:             "#8be9fd",
		H4:             "#50fa7b",
		H5:             "#f1fa8c",
		H6:             "#ffb86c",
		Emphasis:       "#f1fa8c",
		Strong:         "#ffb86c",
		EmphasisStrong: "#ff79c6",
		CodeInline:     "#50fa7b",
		CodeBlock:      "#f8f8f2",
		Quote:          "#6272a4",
		ListMarker:     "#bd93f9",
		LinkText:       "#8be9fd",
		LinkURL:        "#6272a4",
		ThematicBreak:  "#44475a",
		TableHeader:    "#bd93f9",
		Strike:         "#6272a4",
	}

	Nord = Colors{
		Text:           "#d8dee9",
		H1:             "#88c0d0",
		H2:             "#81a1c1",
		H3:             "#5e81ac",
		H4:             "#8fbcbb",
		H5:             "#a3be8c",
		H6:             "#b48ead",
		Emphasis:       "#ebcb8b",
		Strong:         "#eceff4",
		EmphasisStrong: "#d08770",
		CodeInline:     "#a3be8c",
		CodeBlock:      "#e5e9f0",
		Quote:          "#616e88",
		ListMarker:     "#88c0d0",
		LinkText:       "#8fbcbb",
		LinkURL:        "#4c566a",
		ThematicBreak:  "#4c566a",
		TableHeader:    "#88c0d0",
		Strike:         "#616e88",
	}

	Gruvbox = Colors{
		Text:           "#ebdbb2",
		H1:             "#fb4934",
		H2:             "#fabd2f",
		H3:             "#b8bb26",
		H4:             "#8ec07c",
		H5:             "#83a598",
		H6:             "#d3869b",
		Emphasis:       "#fabd2f",
		Strong:         "#fe8019",
		EmphasisStrong: "#fb4934",
		CodeInline:     "#b8bb26",
		CodeBlock:      "#d5c4a1",
		Quote:          "#928374",
		ListMarker:     "#fe8019",
		LinkText:       "#83a598",
		LinkURL:        "#7c6f64",
		ThematicBreak:  "#504945",
		TableHeader:    "#fabd2f",
		Strike:         "#928374",
	}

	SolarizedDark = Colors{
		Text:           "#93a1a1",
		H1:             "#268bd2",
		H2:             "#2aa198",
		H3:             "#859900",
		H4:             "#b58900",
		H5:             "#cb4b16",
		H6:             "#6c71c4",
		Emphasis:       "#b58900",
		Strong:         "#cb4b16",
		EmphasisStrong: "#dc322f",
		CodeInline:     "#2aa198",
		CodeBlock:      "#93a1a1",
		Quote:          "#586e75",
		ListMarker:     "#268bd2",
		LinkText:       "#268bd2",
		LinkURL:        "#586e75",
		ThematicBreak:  "#073642",
		TableHeader:    "#2aa198",
		Strike:         "#586e75",
	}

	GithubLight = Colors{
		Text:           "#24292f",
		H1:             "#0550ae",
		H2:             "#0969da",
		H3:             "#116329",
		H4:             "#953800",
		H5:             "#8250df",
		H6:             "#57606a",
		Emphasis:       "#24292f",
		Strong:         "#24292f",
		EmphasisStrong: "#cf222e",
		CodeInline:     "#cf222e",
		CodeBlock:      "#24292f",
		Quote:          "#57606a",
		ListMarker:     "#0969da",
		LinkText:       "#0969da",
		LinkURL:        "#6e7781",
		ThematicBreak:  "#d0d7de",
		TableHeader:    "#0550ae",
		Strike:         "#6e7781",
	}
)
