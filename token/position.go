// Package token defines source positions shared by the pattern parser,
// the parse tree and the AST.
package token

import (
	"fmt"
	"unicode/utf8"
)

// Position represents a position in a pattern source.
type Position struct {
	// Filename is the name of the pattern source (optional).
	Filename string
	// Line number (1-indexed).
	Line int
	// Column is the rune offset on the line (1-indexed).
	Column int
	// Offset is the byte offset from the start of source (0-indexed).
	Offset int
}

// Start returns the position of the first character of a source.
func Start(filename string) Position {
	return Position{Filename: filename, Line: 1, Column: 1}
}

// String returns a string representation of the position.
// Format: "filename:line:column" or "line:column" if filename is empty.
func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid returns true if the position is valid (line > 0).
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Before returns true if p is before other in the source.
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}

// After returns true if p is after other in the source.
func (p Position) After(other Position) bool {
	if p.Line != other.Line {
		return p.Line > other.Line
	}
	return p.Column > other.Column
}

// Advance returns the position immediately after text, assuming text
// starts at p. An invalid position stays invalid.
func (p Position) Advance(text string) Position {
	if !p.IsValid() {
		return p
	}
	p.Offset += len(text)
	for len(text) > 0 {
		r, size := utf8.DecodeRuneInString(text)
		text = text[size:]
		if r == '\n' {
			p.Line++
			p.Column = 1
			continue
		}
		p.Column++
	}
	return p
}

// Span represents a range in a pattern source from Start to End.
type Span struct {
	Start Position
	End   Position
}

// String returns a string representation of the span.
func (s Span) String() string {
	if s.Start.Line == s.End.Line {
		return fmt.Sprintf("%s-%d", s.Start.String(), s.End.Column)
	}
	return fmt.Sprintf("%s-%s", s.Start.String(), s.End.String())
}

// Contains returns true if the span contains the given position.
func (s Span) Contains(p Position) bool {
	return !p.Before(s.Start) && !p.After(s.End)
}

// NoPos is a zero Position used when position is unknown.
var NoPos = Position{}
