package mdhtml

import (
	"io"
	"log/slog"
)

// Options is the resolved configuration for one converter. It is built once
// by New and copied into every pipeline stage; no stage modifies it.
type Options struct {
	GFM         bool
	Tables      bool
	Breaks      bool
	Pedantic    bool
	Sanitize    bool
	Mangle      bool
	SmartLists  bool
	Smartypants bool
	XHTML       bool

	LangPrefix   string
	HeaderPrefix string
	LinkTarget   string

	Emoji          bool
	EmojiClass     string
	EmojiDirectory string
	EmojiList      []string

	FullDocument bool
	Stylesheet   string

	StripFrontMatter bool
	MaxNesting       int

	Renderer    Renderer
	Highlighter Highlighter
	Sanitizer   Sanitizer
	Logger      *slog.Logger
}

// DefaultOptions returns the default configuration: GitHub-flavored grammar
// with tables and line breaks, smart lists and typographic quotes on.
func DefaultOptions() Options {
	return Options{
		GFM:              true,
		Tables:           true,
		Breaks:           true,
		Mangle:           true,
		SmartLists:       true,
		Smartypants:      true,
		LangPrefix:       "language-",
		LinkTarget:       "_blank",
		StripFrontMatter: true,
		MaxNesting:       64,
	}
}

// Option configures a converter.
type Option func(*Options)

func resolveOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	o.EmojiList = append([]string(nil), o.EmojiList...)
	o = o.normalized()
	if o.Renderer == nil {
		o.Renderer = NewHTMLRenderer(o)
	}
	return o
}

// normalized fills the fields every stage relies on.
func (o Options) normalized() Options {
	if o.MaxNesting <= 0 {
		o.MaxNesting = DefaultOptions().MaxNesting
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// WithGFM toggles the GitHub-flavored grammar (fences, strikethrough, bare URLs).
func WithGFM(enabled bool) Option {
	return func(o *Options) {
		o.GFM = enabled
	}
}

// WithTables toggles GFM tables. It has no effect when GFM is off.
func WithTables(enabled bool) Option {
	return func(o *Options) {
		o.Tables = enabled
	}
}

// WithBreaks turns single newlines into line breaks. It has no effect when GFM is off.
func WithBreaks(enabled bool) Option {
	return func(o *Options) {
		o.Breaks = enabled
	}
}

// WithPedantic selects the strict emphasis grammar and raw HTML passthrough.
func WithPedantic(enabled bool) Option {
	return func(o *Options) {
		o.Pedantic = enabled
	}
}

// WithSanitize escapes raw HTML and drops script-protocol links.
func WithSanitize(enabled bool) Option {
	return func(o *Options) {
		o.Sanitize = enabled
	}
}

// WithSanitizer sets the callback used for raw HTML tags in sanitize mode.
// It also enables sanitize mode.
func WithSanitizer(s Sanitizer) Option {
	return func(o *Options) {
		o.Sanitize = true
		o.Sanitizer = s
	}
}

// WithMangle toggles character-reference obfuscation of email autolinks.
func WithMangle(enabled bool) Option {
	return func(o *Options) {
		o.Mangle = enabled
	}
}

// WithSmartLists ends a list when the bullet style changes.
func WithSmartLists(enabled bool) Option {
	return func(o *Options) {
		o.SmartLists = enabled
	}
}

// WithSmartypants toggles typographic dashes, quotes and ellipses.
func WithSmartypants(enabled bool) Option {
	return func(o *Options) {
		o.Smartypants = enabled
	}
}

// WithXHTML emits self-closing void tags.
func WithXHTML(enabled bool) Option {
	return func(o *Options) {
		o.XHTML = enabled
	}
}

// WithLangPrefix sets the CSS class prefix for fenced code languages.
func WithLangPrefix(prefix string) Option {
	return func(o *Options) {
		o.LangPrefix = prefix
	}
}

// WithHeaderPrefix sets the prefix prepended to generated heading ids.
func WithHeaderPrefix(prefix string) Option {
	return func(o *Options) {
		o.HeaderPrefix = prefix
	}
}

// WithLinkTarget sets the target attribute of rendered links. Empty omits it.
func WithLinkTarget(target string) Option {
	return func(o *Options) {
		o.LinkTarget = target
	}
}

// WithEmoji enables :name: shorthand for the listed names. Images are
// rendered from dir with the given CSS class.
func WithEmoji(class, dir string, names ...string) Option {
	return func(o *Options) {
		o.Emoji = true
		o.EmojiClass = class
		o.EmojiDirectory = dir
		o.EmojiList = append(o.EmojiList, names...)
	}
}

// WithFullDocument wraps output in an HTML document shell linking stylesheet.
func WithFullDocument(stylesheet string) Option {
	return func(o *Options) {
		o.FullDocument = true
		o.Stylesheet = stylesheet
	}
}

// WithFrontMatter controls whether a leading YAML (---), TOML (+++) or JSON
// (;;;) front matter block is removed before lexing. It is on by default;
// with it off such a block is read as ordinary Markdown.
func WithFrontMatter(strip bool) Option {
	return func(o *Options) {
		o.StripFrontMatter = strip
	}
}

// WithMaxNesting bounds recursion into nested blocks and spans.
func WithMaxNesting(depth int) Option {
	return func(o *Options) {
		o.MaxNesting = depth
	}
}

// WithRenderer replaces the HTML renderer.
func WithRenderer(r Renderer) Option {
	return func(o *Options) {
		o.Renderer = r
	}
}

// WithHighlighter sets the syntax highlighter for fenced code.
func WithHighlighter(h Highlighter) Option {
	return func(o *Options) {
		o.Highlighter = h
	}
}

// WithLogger sets the logger for debug records.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}
