package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
	"github.com/spf13/pflag"
	"golang.org/x/term"
	"pkt.systems/mdhtml"
	"pkt.systems/version"
)

const (
	defaultThemeName = "default"
	defaultWidth     = 80
)

func init() {
	version.SetDefaultModule("pkt.systems/mdhtml")
}

type config struct {
	gfm            bool
	tables         bool
	breaks         bool
	pedantic       bool
	sanitize       bool
	mangle         bool
	smartLists     bool
	smartypants    bool
	xhtml          bool
	langPrefix     string
	headerPrefix   string
	linkTarget     string
	emoji          bool
	emojiClass     string
	emojiDir       string
	emojiList      []string
	fullDocument   bool
	stylesheet     string
	keepFrontMatch bool
	highlight      string
	highlightCSS   string
	format         string
	themeName      string
	width          int
	osc8           string
	boring         bool
	outPath        string
	verbose        bool
}

func main() {
	var (
		cfg         config
		listThemes  bool
		showVersion bool
	)
	defaults := mdhtml.DefaultOptions()
	flags := pflag.NewFlagSet("mdhtml", pflag.ExitOnError)
	flags.BoolVar(&cfg.gfm, "gfm", defaults.GFM, "GitHub-flavored grammar (fences, strikethrough, bare URLs)")
	flags.BoolVar(&cfg.tables, "tables", defaults.Tables, "GFM tables (requires --gfm)")
	flags.BoolVar(&cfg.breaks, "breaks", defaults.Breaks, "Single newlines become line breaks (requires --gfm)")
	flags.BoolVar(&cfg.pedantic, "pedantic", defaults.Pedantic, "Strict emphasis grammar and raw HTML passthrough")
	flags.BoolVar(&cfg.sanitize, "sanitize", defaults.Sanitize, "Escape raw HTML and drop script links")
	flags.BoolVar(&cfg.mangle, "mangle", defaults.Mangle, "Obfuscate e-mail autolinks")
	flags.BoolVar(&cfg.smartLists, "smart-lists", defaults.SmartLists, "End lists when the bullet style changes")
	flags.BoolVar(&cfg.smartypants, "smartypants", defaults.Smartypants, "Typographic quotes, dashes and ellipses")
	flags.BoolVar(&cfg.xhtml, "xhtml", defaults.XHTML, "Self-close void elements")
	flags.StringVar(&cfg.langPrefix, "lang-prefix", defaults.LangPrefix, "Class prefix for fenced code languages")
	flags.StringVar(&cfg.headerPrefix, "header-prefix", defaults.HeaderPrefix, "Prefix for heading ids")
	flags.StringVar(&cfg.linkTarget, "link-target", defaults.LinkTarget, "target attribute for links (empty omits it)")
	flags.BoolVar(&cfg.emoji, "emoji", defaults.Emoji, "Render :name: emoji shorthand")
	flags.StringVar(&cfg.emojiClass, "emoji-class", defaults.EmojiClass, "Class for emoji images")
	flags.StringVar(&cfg.emojiDir, "emoji-dir", defaults.EmojiDirectory, "URL prefix for emoji images")
	flags.StringSliceVar(&cfg.emojiList, "emoji-list", nil, "Emoji names to render (comma separated)")
	flags.BoolVar(&cfg.fullDocument, "full-document", defaults.FullDocument, "Wrap output in an html document")
	flags.StringVar(&cfg.stylesheet, "stylesheet", defaults.Stylesheet, "Stylesheet linked from --full-document output")
	flags.BoolVar(&cfg.keepFrontMatch, "keep-front-matter", !defaults.StripFrontMatter, "Do not strip leading front matter")
	flags.StringVar(&cfg.highlight, "highlight", "", "Chroma style for fenced code (empty disables)")
	flags.StringVar(&cfg.highlightCSS, "highlight-css", "", "Write the --highlight stylesheet to this file")
	flags.StringVarP(&cfg.format, "format", "f", "html", "Output format: html|ansi")
	flags.StringVarP(&cfg.themeName, "theme", "t", defaultThemeName, "Theme name for --format ansi")
	flags.IntVarP(&cfg.width, "width", "w", 0, "Output width for --format ansi (0 uses terminal width if available)")
	flags.StringVarP(&cfg.osc8, "osc8", "8", "auto", "OSC8 hyperlinks for --format ansi: auto|on|off")
	flags.BoolVarP(&cfg.boring, "boring", "b", false, "Generate non-ANSI output for --format ansi")
	flags.BoolVar(&listThemes, "list-themes", false, "List available themes")
	flags.StringVarP(&cfg.outPath, "output", "o", "", "Output file instead of stdout")
	flags.BoolVarP(&cfg.verbose, "verbose", "v", false, "Log pipeline details to stderr")
	flags.BoolVar(&showVersion, "version", false, "Print version and exit")

	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, version.Module(), version.Current())
		fmt.Fprintf(os.Stderr, "Usage: mdhtml [flags] [inputs...]\n")
		fmt.Fprintln(os.Stderr, "\nIf no input is provided, Markdown is read from stdin.")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	switch {
	case showVersion:
		fmt.Fprintln(os.Stdout, version.Module(), version.Current())
		return
	case listThemes:
		for _, name := range mdhtml.AvailableThemes() {
			fmt.Fprintln(os.Stdout, name)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, flags.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "mdhtml: %v\n", err)
		var usage usageError
		if errors.As(err, &usage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// usageError marks errors caused by flag values.
type usageError struct{ err error }

func (u usageError) Error() string { return u.err.Error() }
func (u usageError) Unwrap() error { return u.err }

// run converts the Markdown named by args, or stdin without args, and
// writes the result to cfg.outPath or stdout.
func run(ctx context.Context, cfg config, args []string) error {
	out, err := createOutput(cfg.outPath)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	defer func() {
		if out != os.Stdout {
			_ = out.Close()
		}
	}()

	opts, err := buildOptions(cfg, out)
	if err != nil {
		return usageError{err}
	}

	if len(args) == 1 && isHTTPURL(args[0]) {
		return mdhtml.HTTPRender(ctx, mdhtml.HTTPRenderRequest{
			URL:     strings.TrimSpace(args[0]),
			Writer:  out,
			Options: opts,
		})
	}

	var in io.Reader = os.Stdin
	if len(args) > 0 {
		src, err := readSources(ctx, args)
		if err != nil {
			return err
		}
		in = bytes.NewReader(src)
	}
	return mdhtml.Render(mdhtml.RenderRequest{Reader: in, Writer: out, Options: opts})
}

// buildOptions maps parsed flags onto converter options. w is the final
// output and decides the color profile for --format ansi.
func buildOptions(cfg config, w io.Writer) ([]mdhtml.Option, error) {
	opts := []mdhtml.Option{
		mdhtml.WithGFM(cfg.gfm),
		mdhtml.WithTables(cfg.tables),
		mdhtml.WithBreaks(cfg.breaks),
		mdhtml.WithPedantic(cfg.pedantic),
		mdhtml.WithSanitize(cfg.sanitize),
		mdhtml.WithMangle(cfg.mangle),
		mdhtml.WithSmartLists(cfg.smartLists),
		mdhtml.WithSmartypants(cfg.smartypants),
		mdhtml.WithXHTML(cfg.xhtml),
		mdhtml.WithLangPrefix(cfg.langPrefix),
		mdhtml.WithHeaderPrefix(cfg.headerPrefix),
		mdhtml.WithLinkTarget(cfg.linkTarget),
		mdhtml.WithFrontMatter(!cfg.keepFrontMatch),
	}
	if cfg.emoji {
		opts = append(opts, mdhtml.WithEmoji(cfg.emojiClass, cfg.emojiDir, cfg.emojiList...))
	}
	if cfg.fullDocument {
		opts = append(opts, mdhtml.WithFullDocument(cfg.stylesheet))
	}
	if cfg.verbose {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		opts = append(opts, mdhtml.WithLogger(logger))
	}

	switch strings.ToLower(strings.TrimSpace(cfg.format)) {
	case "", "html":
		if cfg.highlight == "" {
			return opts, nil
		}
		h := mdhtml.NewChromaHighlighter(cfg.highlight)
		if cfg.highlightCSS != "" {
			if err := writeStylesheet(h, cfg.highlightCSS); err != nil {
				return nil, fmt.Errorf("write highlight css: %w", err)
			}
		}
		return append(opts, mdhtml.WithHighlighter(h)), nil
	case "ansi":
		r, err := terminalRenderer(cfg, w)
		if err != nil {
			return nil, err
		}
		return append(opts, mdhtml.WithRenderer(r)), nil
	default:
		return nil, fmt.Errorf("invalid --format %q: expected html|ansi", cfg.format)
	}
}

func terminalRenderer(cfg config, w io.Writer) (*mdhtml.TerminalRenderer, error) {
	profile := termenv.Ascii
	if f, ok := w.(*os.File); ok && !cfg.boring && term.IsTerminal(int(f.Fd())) {
		profile = termenv.NewOutput(f).EnvColorProfile()
	}
	theme, ok := mdhtml.ThemeForProfile(cfg.themeName, profile)
	if !ok {
		return nil, fmt.Errorf("unknown theme %q (see --list-themes)", cfg.themeName)
	}
	hyperlinks, err := parseOSC8Mode(cfg.osc8)
	if err != nil {
		return nil, fmt.Errorf("invalid --osc8 %q: %w", cfg.osc8, err)
	}
	width := cfg.width
	if width <= 0 {
		width = detectWidth(defaultWidth)
	}
	r := mdhtml.NewTerminalRenderer(width, theme, hyperlinks && !cfg.boring)
	if profile != termenv.Ascii {
		r.HighlightCode(cfg.highlight)
	}
	return r, nil
}

func writeStylesheet(h *mdhtml.ChromaHighlighter, path string) error {
	f, err := createOutput(path)
	if err != nil {
		return err
	}
	if err := h.WriteCSS(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// detectWidth prefers the size of the terminal on stdout, then $COLUMNS.
func detectWidth(fallback int) int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	if w, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && w > 0 {
		return w
	}
	return fallback
}

func parseOSC8Mode(mode string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return mdhtml.DetectOSC8Support(), nil
	case "on", "true", "1", "yes":
		return true, nil
	case "off", "false", "0", "no":
		return false, nil
	}
	return false, errors.New("expected auto|on|off")
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return true
	}
	return false
}

// readSources concatenates the contents of args in order. Each argument is
// a path, a file:// URL or an http(s) URL.
func readSources(ctx context.Context, args []string) ([]byte, error) {
	var buf bytes.Buffer
	for _, arg := range args {
		rc, err := openSource(ctx, arg)
		if err != nil {
			return nil, err
		}
		_, err = buf.ReadFrom(rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", arg, err)
		}
	}
	return buf.Bytes(), nil
}

func openSource(ctx context.Context, arg string) (io.ReadCloser, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return nil, errors.New("empty input argument")
	}
	u, err := url.Parse(arg)
	if err != nil || u.Scheme == "" {
		return os.Open(expandPath(arg))
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return fetch(ctx, arg)
	case "file":
		p := u.Path
		if p == "" {
			p = u.Host
		}
		return os.Open(expandPath(p))
	}
	return os.Open(expandPath(arg))
}

func fetch(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode/100 != 2 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("get %s: %s", rawURL, resp.Status)
	}
	return resp.Body, nil
}

// createOutput returns stdout for an empty path. Otherwise it creates the
// file along with any missing parent directories.
func createOutput(path string) (*os.File, error) {
	if strings.TrimSpace(path) == "" {
		return os.Stdout, nil
	}
	path = expandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.Create(path)
}

// expandPath resolves a leading "~" to the home directory.
func expandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
