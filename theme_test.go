package mdhtml

import (
	"strings"
	"testing"

	"github.com/muesli/termenv"
)

func TestThemeByNameBuiltins(t *testing.T) {
	expected := []string{
		"default",
		"dracula",
		"nord",
		"gruvbox",
		"solarized-dark",
		"github-light",
		"plain",
	}
	for _, name := range expected {
		if _, ok := ThemeByName(name); !ok {
			t.Fatalf("expected theme %q to be available", name)
		}
	}

	available := AvailableThemes()
	present := make(map[string]struct{}, len(available))
	for _, name := range available {
		present[name] = struct{}{}
	}
	for _, name := range expected {
		if _, ok := present[name]; !ok {
			t.Fatalf("expected theme %q in available list", name)
		}
	}
}

func TestThemeByNameNormalizes(t *testing.T) {
	th, ok := ThemeByName("  Dracula ")
	if !ok || th.Name() != "dracula" {
		t.Fatalf("expected dracula, got %v %v", th, ok)
	}
	if _, ok := ThemeByName("no-such-theme"); ok {
		t.Fatal("expected unknown theme to be rejected")
	}
	if th, _ := ThemeByName(""); th.Name() != "default" {
		t.Fatalf("expected default theme for empty name, got %q", th.Name())
	}
}

func TestThemeForProfile(t *testing.T) {
	th, ok := ThemeForProfile("nord", termenv.ANSI256)
	if !ok {
		t.Fatal("expected nord theme")
	}
	h1 := th.Styles().Heading[0].Prefix
	if !strings.Contains(h1, "38;5;") {
		t.Fatalf("expected 256-color heading sequence, got %q", h1)
	}

	th, ok = ThemeForProfile("nord", termenv.Ascii)
	if !ok {
		t.Fatal("expected nord theme for ascii profile")
	}
	if th.Styles() != (Styles{}) {
		t.Fatalf("expected no styles for ascii profile, got %+v", th.Styles())
	}
}
