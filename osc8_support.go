package mdhtml

import (
	"os"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
)

const (
	osc8Start = termenv.OSC + "8;;"
	osc8End   = termenv.OSC + "8;;" + termenv.ST
)

// osc8Programs lists TERM_PROGRAM values of terminals known to render OSC 8
// hyperlinks.
var osc8Programs = map[string]bool{
	"iTerm.app": true,
	"WezTerm":   true,
	"vscode":    true,
	"ghostty":   true,
}

// DetectOSC8Support reports whether the terminal described by the
// environment likely renders OSC 8 hyperlinks. OSC8=0 turns detection off.
func DetectOSC8Support() bool {
	return detectOSC8(os.Getenv)
}

func detectOSC8(getenv func(string) string) bool {
	switch {
	case getenv("OSC8") == "0":
		return false
	case getenv("DOMTERM") != "", getenv("WT_SESSION") != "":
		return true
	case osc8Programs[getenv("TERM_PROGRAM")]:
		return true
	case strings.Contains(strings.ToLower(getenv("TERM")), "kitty"):
		return true
	}
	// VTE based terminals gained support in 0.50.
	n, err := strconv.Atoi(getenv("VTE_VERSION"))
	return err == nil && n >= 5000
}

// osc8Link wraps text in a hyperlink to href.
func osc8Link(href, text string) string {
	return osc8Start + href + termenv.ST + text + osc8End
}
