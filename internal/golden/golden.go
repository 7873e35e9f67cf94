// Package golden names the fixture conventions shared by the golden tests
// and cmd/gen-golden.
package golden

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"pkt.systems/mdhtml"
)

// Fixtures lists the Markdown fixtures directly under dir in sorted order.
// A directory without fixtures is an error.
func Fixtures(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no markdown fixtures in %s", dir)
	}
	sort.Strings(paths)
	return paths, nil
}

// Path returns the expected-output path for a Markdown fixture.
func Path(mdPath string) string {
	return strings.TrimSuffix(mdPath, ".md") + ".html"
}

// Options returns the converter options for a fixture. Mangling is off so
// output is deterministic; a "nogfm-" or "pedantic-" file name prefix picks
// the classic or pedantic grammar.
func Options(mdPath string) []mdhtml.Option {
	opts := []mdhtml.Option{mdhtml.WithMangle(false)}
	name := filepath.Base(mdPath)
	switch {
	case strings.HasPrefix(name, "nogfm-"):
		opts = append(opts, mdhtml.WithGFM(false))
	case strings.HasPrefix(name, "pedantic-"):
		opts = append(opts, mdhtml.WithGFM(false), mdhtml.WithPedantic(true))
	}
	return opts
}

// Render converts the fixture at mdPath with its options.
func Render(mdPath string) (string, error) {
	src, err := os.ReadFile(mdPath)
	if err != nil {
		return "", err
	}
	return mdhtml.Convert(string(src), Options(mdPath)...)
}

// Want reads the expected output for mdPath without its trailing newline.
func Want(mdPath string) (string, error) {
	b, err := os.ReadFile(Path(mdPath))
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(b), "\n"), nil
}
