package mdhtml

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrInvalidUTF8 reports source that is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("invalid utf-8 input")
	// ErrBinaryInput reports source that looks like binary data rather
	// than text.
	ErrBinaryInput = errors.New("binary input detected")
)

// Source with at least minBinarySample bytes is treated as binary once
// maxControlPct percent of its runes are control characters.
const (
	minBinarySample = 64
	maxControlPct   = 2
)

// ValidateInput rejects source that is not UTF-8 text. Errors name the byte
// offset of the first offending rune and wrap ErrInvalidUTF8 or
// ErrBinaryInput.
func ValidateInput(src []byte) error {
	var runes, control int
	for i := 0; i < len(src); {
		r, size := utf8.DecodeRune(src[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			return fmt.Errorf("offset %d: %w", i, ErrInvalidUTF8)
		case r == 0:
			return fmt.Errorf("offset %d: %w", i, ErrBinaryInput)
		case isControl(r):
			control++
		}
		runes++
		i += size
	}
	if len(src) >= minBinarySample && control*100 >= runes*maxControlPct {
		return fmt.Errorf("%d of %d runes are control characters: %w", control, runes, ErrBinaryInput)
	}
	return nil
}

// isControl reports C0 controls other than whitespace, and DEL.
func isControl(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r':
		return false
	}
	return r < 0x20 || r == 0x7f
}
