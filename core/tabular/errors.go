package tabular

import (
	"errors"
	"fmt"
)

var (
	// ErrFileNotFound is returned when the source file does not exist.
	ErrFileNotFound = errors.New("source file not found")
	// ErrParse is returned when the source cannot be parsed as delimited text.
	ErrParse = errors.New("source parse failed")
	// ErrUnsupportedEncoding is returned for unknown character encodings.
	ErrUnsupportedEncoding = errors.New("unsupported encoding")
)

// ParseError describes a malformed source file.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }
