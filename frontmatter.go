package mdhtml

import (
	"bytes"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	yamlDelim = []byte("---")
	tomlDelim = []byte("+++")
	jsonDelim = []byte(";;;")
)

var frontMatterDelimiters = [][]byte{yamlDelim, tomlDelim, jsonDelim}

// frontMatter is a metadata block found at the start of a document.
type frontMatter struct {
	delim []byte
	raw   []byte
}

// title returns the title field of YAML or JSON front matter. TOML blocks
// and blocks without a title yield "".
func (fm frontMatter) title() (string, error) {
	if fm.raw == nil || bytes.Equal(fm.delim, tomlDelim) {
		return "", nil
	}
	var meta struct {
		Title string `yaml:"title"`
	}
	if err := yaml.Unmarshal(fm.raw, &meta); err != nil {
		return "", err
	}
	return strings.TrimSpace(meta.Title), nil
}

// splitFrontMatter separates a YAML (---), TOML (+++) or JSON (;;;) front
// matter block at the start of src from the document body. The block is
// kept in the body when the line after the opening delimiter does not look
// like metadata or when it is never closed.
func splitFrontMatter(src []byte) (frontMatter, []byte) {
	openLine, pos, ok := nextLine(src, 0)
	if !ok {
		return frontMatter{}, src
	}
	delim := frontMatterDelimiter(openLine)
	if delim == nil {
		return frontMatter{}, src
	}
	first, _, ok := nextLine(src, pos)
	if !ok || !frontMatterMetadataLikely(first) {
		return frontMatter{}, src
	}
	start := pos
	for pos < len(src) {
		line, next, _ := nextLine(src, pos)
		if bytes.Equal(bytes.TrimSpace(line), delim) {
			return frontMatter{delim: delim, raw: src[start:pos]}, src[next:]
		}
		pos = next
	}
	return frontMatter{}, src
}

// nextLine returns the line starting at start without its terminator, and
// the offset of the line after it.
func nextLine(src []byte, start int) ([]byte, int, bool) {
	if start >= len(src) {
		return nil, len(src), false
	}
	i := bytes.IndexByte(src[start:], '\n')
	if i < 0 {
		return trimCR(src[start:]), len(src), true
	}
	return trimCR(src[start : start+i]), start + i + 1, true
}

func frontMatterDelimiter(line []byte) []byte {
	trimmed := bytes.TrimSpace(trimBOM(line))
	for _, d := range frontMatterDelimiters {
		if bytes.Equal(trimmed, d) {
			return d
		}
	}
	return nil
}

func frontMatterMetadataLikely(line []byte) bool {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return false
	}
	if bytes.HasPrefix(trimmed, []byte("{")) || bytes.HasPrefix(trimmed, []byte("[")) {
		return true
	}
	return bytes.ContainsAny(trimmed, ":=")
}

func trimCR(b []byte) []byte {
	return bytes.TrimSuffix(b, []byte("\r"))
}

func trimBOM(b []byte) []byte {
	return bytes.TrimPrefix(b, []byte("\xef\xbb\xbf"))
}
