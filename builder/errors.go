package builder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kolkov/reggie/ast"
	"github.com/kolkov/reggie/charset"
	"github.com/kolkov/reggie/token"
)

// ErrorKind classifies a build failure.
type ErrorKind uint8

const (
	UnexpectedInput      ErrorKind = iota // pair of a kind the context does not accept
	UnexpectedEndOfInput                  // required child missing
	InvalidFlag                           // flag code outside "aiLmsux"
	InvalidLiteral                        // unknown assertion or undecodable escape
	InvalidRanges                         // set range with low > high
	InvalidCharClass                      // class escape outside \d \D \s \S \w \W
	NegativePatternFlags                  // whole-pattern flags with a "-" part
	ConflictingFlags                      // flag both turned on and off
	InvalidGroup                          // group head that violates group invariants
	InvalidQuantifier                     // malformed repetition count
)

var kindNames = [...]string{
	UnexpectedInput:      "unexpected input",
	UnexpectedEndOfInput: "unexpected end of input",
	InvalidFlag:          "invalid flag",
	InvalidLiteral:       "invalid literal",
	InvalidRanges:        "invalid ranges",
	InvalidCharClass:     "invalid character class",
	NegativePatternFlags: "negative pattern flags",
	ConflictingFlags:     "conflicting flags",
	InvalidGroup:         "invalid group",
	InvalidQuantifier:    "invalid quantifier",
}

func (k ErrorKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", k)
}

// Error is a build failure. Input holds the offending source text and is
// empty for UnexpectedEndOfInput. Ranges lists every bad pair of an
// InvalidRanges failure.
type Error struct {
	Kind   ErrorKind
	Pos    token.Position
	Input  string
	Ranges []charset.Span[rune]
	Err    error
}

func (e *Error) Error() string {
	var sb strings.Builder
	if e.Pos.IsValid() {
		sb.WriteString(e.Pos.String())
		sb.WriteString(": ")
	}
	sb.WriteString(e.Kind.String())
	if e.Input != "" {
		fmt.Fprintf(&sb, " %q", e.Input)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(detail(e.Err))
	}
	return sb.String()
}

// detail returns the part of err not already said by the kind and input.
func detail(err error) string {
	var qe *ast.QuantifierError
	if errors.As(err, &qe) {
		return qe.Message
	}
	return err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}
