package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pkt.systems/mdhtml"
)

func TestReadSources(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.md")
	second := filepath.Join(dir, "b.md")
	if err := os.WriteFile(first, []byte("one "), 0o644); err != nil {
		t.Fatalf("write first: %v", err)
	}
	if err := os.WriteFile(second, []byte("two "), 0o644); err != nil {
		t.Fatalf("write second: %v", err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("three"))
	}))
	defer srv.Close()

	got, err := readSources(context.Background(), []string{first, "file://" + second, srv.URL})
	if err != nil {
		t.Fatalf("readSources: %v", err)
	}
	if string(got) != "one two three" {
		t.Fatalf("unexpected content: %q", string(got))
	}
}

func TestReadSourcesErrors(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	for _, args := range [][]string{
		{" "},
		{filepath.Join(t.TempDir(), "missing.md")},
		{srv.URL},
	} {
		if _, err := readSources(context.Background(), args); err == nil {
			t.Fatalf("readSources(%q): expected error", args)
		}
	}
}

func TestRunWritesOutputFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.md")
	if err := os.WriteFile(in, []byte("# Hi\n"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	out := filepath.Join(dir, "nested", "out.html")
	cfg := config{format: "html", outPath: out}
	if err := run(context.Background(), cfg, []string{in}); err != nil {
		t.Fatalf("run: %v", err)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(got) != `<h1 id="hi">Hi</h1>` {
		t.Fatalf("unexpected output: %q", string(got))
	}

	err = run(context.Background(), config{format: "pdf", outPath: out}, []string{in})
	var usage usageError
	if !errors.As(err, &usage) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandPath("~/notes.md"); got != filepath.Join(home, "notes.md") {
		t.Fatalf("expandPath: got %q", got)
	}
	if got := expandPath("rel/notes.md"); got != "rel/notes.md" {
		t.Fatalf("expandPath relative: got %q", got)
	}
}

func TestParseOSC8Mode(t *testing.T) {
	cases := map[string]bool{
		"on":  true,
		"off": false,
		"1":   true,
		"0":   false,
	}
	for input, want := range cases {
		got, err := parseOSC8Mode(input)
		if err != nil {
			t.Fatalf("parseOSC8Mode(%q): %v", input, err)
		}
		if got != want {
			t.Fatalf("parseOSC8Mode(%q)=%v want %v", input, got, want)
		}
	}
	if _, err := parseOSC8Mode("nope"); err == nil {
		t.Fatalf("expected error for invalid osc8 value")
	}
}

func TestBuildOptionsBoringANSI(t *testing.T) {
	cfg := config{format: "ansi", themeName: "dracula", width: 40, osc8: "off", boring: true}
	opts, err := buildOptions(cfg, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("buildOptions: %v", err)
	}
	out, err := mdhtml.Convert("# Hi\n\nSome *text*.\n", opts...)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if strings.Contains(out, "\x1b") {
		t.Fatalf("expected no escape sequences, got %q", out)
	}
	if out != "# Hi\n\nSome text.\n" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestBuildOptionsRejectsBadInput(t *testing.T) {
	if _, err := buildOptions(config{format: "pdf"}, io.Discard); err == nil {
		t.Fatalf("expected error for unknown format")
	}
	if _, err := buildOptions(config{format: "ansi", themeName: "nope", osc8: "off"}, io.Discard); err == nil {
		t.Fatalf("expected error for unknown theme")
	}
	if _, err := buildOptions(config{format: "ansi", themeName: "plain", osc8: "sometimes"}, io.Discard); err == nil {
		t.Fatalf("expected error for invalid osc8 mode")
	}
}

func TestBuildOptionsHTMLWritesHighlightCSS(t *testing.T) {
	path := filepath.Join(t.TempDir(), "css", "code.css")
	cfg := config{format: "html", gfm: true, highlight: "monokai", highlightCSS: path, langPrefix: "language-"}
	opts, err := buildOptions(cfg, io.Discard)
	if err != nil {
		t.Fatalf("buildOptions: %v", err)
	}
	css, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read css: %v", err)
	}
	if !strings.Contains(string(css), ".chroma") {
		t.Fatalf("expected chroma stylesheet, got %q", string(css))
	}
	out, err := mdhtml.Convert("```go\nx := 1\n```\n", opts...)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !strings.Contains(out, `<pre class="language-go">`) || !strings.Contains(out, "<span") {
		t.Fatalf("expected highlighted code block, got %q", out)
	}
}

func TestIsHTTPURL(t *testing.T) {
	for raw, want := range map[string]bool{
		"https://example.com/README.md": true,
		"HTTP://example.com":            true,
		"file:///tmp/a.md":              false,
		"notes.md":                      false,
	} {
		if got := isHTTPURL(raw); got != want {
			t.Fatalf("isHTTPURL(%q)=%v want %v", raw, got, want)
		}
	}
}
