package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/noisegraph/internal/ir"
)

// ParseError is a compile failure with its source position.
//
// Pos is the 0-based byte offset; Line and Col are 1-based. Cause is set
// when the kernel rejected a node the expression asked for.
type ParseError struct {
	Pos    int
	Line   int
	Col    int
	Reason string
	Cause  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Col, e.Reason)
}

// Unwrap exposes the error as an *ir.Error with code PARSE_ERROR, so
// ir.IsParseError recognizes it.
func (e *ParseError) Unwrap() error {
	return &ir.Error{Code: ir.ErrCodeParse, Message: e.Reason, Err: e.Cause}
}

func newParseError(src string, pos int, format string, args ...any) *ParseError {
	line, col := lineCol(src, pos)
	return &ParseError{
		Pos:    pos,
		Line:   line,
		Col:    col,
		Reason: fmt.Sprintf(format, args...),
	}
}

// lineCol converts a byte offset to a 1-based line and column. Columns
// count runes.
func lineCol(src string, pos int) (int, int) {
	if pos > len(src) {
		pos = len(src)
	}
	if pos < 0 {
		pos = 0
	}
	before := src[:pos]
	line := 1 + strings.Count(before, "\n")
	if nl := strings.LastIndexByte(before, '\n'); nl >= 0 {
		before = before[nl+1:]
	}
	return line, len([]rune(before)) + 1
}

// WrapErrorWithSource renders a *ParseError as a caret-annotated snippet of
// src. Other errors are returned unchanged. The result still unwraps to
// the original error.
//
//	PARSE ERROR at 1:9: unknown function "sine"
//
//	   1 | 1 + 2 * sine(x)
//	     |         ^
func WrapErrorWithSource(err error, src string) error {
	var pe *ParseError
	if !errors.As(err, &pe) {
		return err
	}
	return &sourceError{text: snippet(src, pe.Line, pe.Col, pe.Reason), err: err}
}

type sourceError struct {
	text string
	err  error
}

func (e *sourceError) Error() string { return e.text }
func (e *sourceError) Unwrap() error { return e.err }

func snippet(src string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	if col < 1 {
		col = 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "PARSE ERROR at %d:%d: %s\n\n", line, col, msg)
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
