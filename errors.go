package mdhtml

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRuleMatched reports a tokenizer that could not consume any of the
	// remaining input. It is always wrapped in a *StallError.
	ErrNoRuleMatched = errors.New("no rule matched")
	// ErrNestingTooDeep reports input nested deeper than Options.MaxNesting.
	ErrNestingTooDeep = errors.New("nesting too deep")
)

// Stage names the tokenizer that raised a StallError.
type Stage string

const (
	StageBlock  Stage = "block"
	StageInline Stage = "inline"
)

// StallError is returned when no grammar rule matches non-empty input.
type StallError struct {
	Stage Stage
	// Offset is the byte offset into the text being tokenized.
	Offset int
	// Byte is the leading byte of the unconsumed input.
	Byte byte
}

func (e *StallError) Error() string {
	return fmt.Sprintf("%s tokenizer: no rule matched at offset %d (byte %q)", e.Stage, e.Offset, e.Byte)
}

func (e *StallError) Unwrap() error {
	return ErrNoRuleMatched
}

func newStallError(stage Stage, text string, rest []rune) *StallError {
	remaining := string(rest)
	err := &StallError{Stage: stage, Offset: len(text) - len(remaining)}
	if remaining != "" {
		err.Byte = remaining[0]
	}
	return err
}
