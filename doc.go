// Package mdhtml converts Markdown to HTML.
//
// Conversion runs in two passes over a regular-expression grammar. The block
// lexer splits the source into a flat token stream with explicit start and
// end tokens for containers, collecting link reference definitions on the
// way. The parser then walks the stream and renders each block through a
// Renderer, running span-level markup through the inline lexer.
//
// Core properties:
//   - Grammar profiles: Normal, GitHub-flavored (with tables and line
//     breaks) and Pedantic
//   - Pluggable output through the Renderer interface; HTML by default,
//     ANSI terminal text with TerminalRenderer
//   - Sanitize mode for untrusted input
//   - Bounded nesting and explicit errors instead of hangs on input no rule
//     can consume
//
// Example:
//
//	out, err := mdhtml.Convert("# Hello\n\nMarkdown in, *HTML* out.\n")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(out)
//
// A Markdown value built with New holds a fixed configuration and may be
// shared between goroutines.
package mdhtml
