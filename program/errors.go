package program

import (
	"errors"
	"fmt"

	"github.com/sarchlab/wspace/instr"
)

// Front-end error kinds. Match them with errors.Is.
var (
	ErrLex            = errors.New("lex error")
	ErrDuplicateLabel = errors.New("duplicate label")
	ErrUndefinedLabel = errors.New("undefined label")
)

// LexError reports malformed whitespace. Offset is the byte offset of the
// instruction word that could not be decoded.
type LexError struct {
	Offset int
	Msg    string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at byte %d: %s", e.Offset, e.Msg)
}

func (e *LexError) Unwrap() error {
	return ErrLex
}

// LabelError reports a label that is defined twice or referenced but never
// defined. Index is the instruction holding the second definition or the
// dangling reference.
type LabelError struct {
	Kind  error
	Label string
	Index int
}

func (e *LabelError) Error() string {
	switch e.Kind {
	case ErrDuplicateLabel:
		return fmt.Sprintf("duplicate label %s at instruction %d",
			instr.FormatLabel(e.Label), e.Index)
	default:
		return fmt.Sprintf("undefined label %s referenced by instruction %d",
			instr.FormatLabel(e.Label), e.Index)
	}
}

func (e *LabelError) Unwrap() error {
	return e.Kind
}
