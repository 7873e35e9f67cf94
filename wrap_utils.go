package mdhtml

import (
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"pkt.systems/mdhtml/internal/palette"
)

func truncateWithEllipsis(text string, limit int) string {
	if ansi.PrintableRuneWidth(text) <= limit {
		return text
	}
	if limit <= 0 {
		return ""
	}
	if limit == 1 {
		return "…"
	}
	return truncate.StringWithTail(text, uint(limit), "…")
}

func fitURL(url string, limit int) string {
	if limit <= 0 || ansi.PrintableRuneWidth(url) <= limit {
		return url
	}
	if idx := strings.Index(url, "://"); idx != -1 {
		trimmed := url[idx+3:]
		if ansi.PrintableRuneWidth(trimmed) <= limit {
			return trimmed
		}
	}
	return truncateWithEllipsis(url, limit)
}

// wrapLines word-wraps text to width and returns its lines, each of them
// carrying the styles still open from the lines before. Words longer than
// width are broken unless hard is false. A width below one disables
// wrapping.
func wrapLines(text string, width int, hard bool) []string {
	if width > 0 {
		text = wordwrap.String(text, width)
		if hard {
			text = wrap.String(text, width)
		}
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	carryStyles(lines)
	return lines
}

// carryStyles closes the SGR attributes and OSC 8 link open at the end of
// each line and reopens them on the next, so lines can be prefixed
// independently.
func carryStyles(lines []string) {
	var active, link string
	for i, line := range lines {
		reopen := link + active
		active, link = scanStyles(line, active, link)
		line = reopen + line
		if active != "" {
			line += palette.Reset
		}
		if link != "" {
			line += osc8End
		}
		lines[i] = line
	}
}

// scanStyles returns the SGR sequences and OSC 8 link left open after s.
func scanStyles(s, active, link string) (string, string) {
	for i := 0; i < len(s); i++ {
		if s[i] != '\x1b' || i+1 >= len(s) {
			continue
		}
		switch s[i+1] {
		case '[':
			end := strings.IndexByte(s[i:], 'm')
			if end < 0 {
				return active, link
			}
			seq := s[i : i+end+1]
			if seq == palette.Reset {
				active = ""
			} else {
				active += seq
			}
			i += end
		case ']':
			end := strings.Index(s[i:], "\x1b\\")
			if end < 0 {
				return active, link
			}
			seq := s[i : i+end+2]
			if strings.HasPrefix(seq, osc8Start) {
				if seq == osc8End {
					link = ""
				} else {
					link = seq
				}
			}
			i += end + 1
		}
	}
	return active, link
}
