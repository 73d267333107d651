package reggie

import (
	"fmt"

	"github.com/kolkov/reggie/builder"
)

// ParseError represents a syntax error in the pattern text.
type ParseError struct {
	Line    int    // 1-based line number
	Column  int    // 1-based column number
	Message string // Error description
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Column, e.Message)
}

// BuildError represents a parse tree the AST builder rejected.
type BuildError struct {
	Kind    builder.ErrorKind // Failure class
	Line    int               // 1-based line number
	Column  int               // 1-based column number
	Input   string            // Offending source text, empty at end of input
	Message string            // Error description

	err error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build error at %d:%d: %s", e.Line, e.Column, e.Message)
}

// Unwrap returns the underlying *builder.Error.
func (e *BuildError) Unwrap() error {
	return e.err
}

// CheckError represents a semantic error: a bad group reference, a
// non-fixed-width lookbehind or incompatible flags.
type CheckError struct {
	Line    int    // 1-based line number
	Column  int    // 1-based column number
	Message string // Error description
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("check error at %d:%d: %s", e.Line, e.Column, e.Message)
}
