package scene

import (
	"fmt"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Error codes for scene loading.
const (
	ErrCodeRead    = "E004" // File could not be read
	ErrCodeSyntax  = "E006" // YAML or CUE did not parse
	ErrCodeSchema  = "E201" // CUE value violates the scene schema
	ErrCodeInvalid = "E202" // Scene failed semantic validation
	ErrCodeFormat  = "E203" // Unsupported file extension
)

// LoadError is a scene loading failure.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// fromCUE converts a CUE error into a LoadError. The message is the first
// sub-error's; the position is the first valid one found across all
// sub-errors.
func fromCUE(code string, err error) *LoadError {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: code, Message: err.Error()}
	}
	le := &LoadError{Code: code, Message: errs[0].Error()}
	for _, e := range errs {
		if pos := errorPos(e); pos.IsValid() {
			le.Pos = pos
			break
		}
	}
	return le
}

func errorPos(e errors.Error) token.Pos {
	for _, p := range errors.Positions(e) {
		if p.IsValid() {
			return p
		}
	}
	if p := e.Position(); p.IsValid() {
		return p
	}
	for _, p := range e.InputPositions() {
		if p.IsValid() {
			return p
		}
	}
	return token.NoPos
}

// sourcePos finds the position of the field an error's path names in src,
// the scene as written. Disjunction failures may report no position of
// their own, but the offending field always has one. Definition labels such as
// #Scene are skipped, and the path is shortened until a field exists.
func sourcePos(src cue.Value, err error) token.Pos {
	for _, e := range errors.Errors(err) {
		var sels []cue.Selector
		for _, label := range e.Path() {
			if strings.HasPrefix(label, "#") {
				continue
			}
			if n, convErr := strconv.Atoi(label); convErr == nil {
				sels = append(sels, cue.Index(n))
			} else {
				sels = append(sels, cue.Str(label))
			}
		}
		for ; len(sels) > 0; sels = sels[:len(sels)-1] {
			if v := src.LookupPath(cue.MakePath(sels...)); v.Exists() {
				if pos := v.Pos(); pos.IsValid() {
					return pos
				}
			}
		}
	}
	return token.NoPos
}
