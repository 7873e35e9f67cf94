package mdhtml

import "strings"

// Link is the destination of a link reference definition.
type Link struct {
	Href  string
	Title string
}

// LinkTable maps normalized reference labels to their definitions. It is
// filled by the block lexer and only read during inline rendering.
type LinkTable map[string]Link

// NormalizeLabel folds a reference label for lookup: whitespace runs collapse
// to a single space, surrounding space is dropped, and case is ignored.
func NormalizeLabel(label string) string {
	return strings.ToLower(strings.Join(strings.Fields(label), " "))
}

// Lookup resolves a label as written in the document.
func (t LinkTable) Lookup(label string) (Link, bool) {
	l, ok := t[NormalizeLabel(label)]
	return l, ok
}

// define records a definition unless the label is already taken; the first
// definition of a label wins.
func (t LinkTable) define(label string, l Link) bool {
	key := NormalizeLabel(label)
	if _, ok := t[key]; ok {
		return false
	}
	t[key] = l
	return true
}
