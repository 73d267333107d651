package charset

import (
	"fmt"
	"strings"
	"unicode"
)

// Set is a set of runes over [0, unicode.MaxRune].
type Set = DisjointRange[rune]

// SetError is the RangeError reported by rune sets.
type SetError = RangeError[rune]

// NewSet returns an empty rune set.
func NewSet() *Set {
	return New[rune](0, unicode.MaxRune)
}

// Of returns a rune set holding exactly the given runes.
func Of(runes ...rune) *Set {
	s := NewSet()
	for _, r := range runes {
		if r >= 0 && r <= unicode.MaxRune {
			s.insert(Span[rune]{Lo: r, Hi: r})
		}
	}
	return s
}

// Between returns the rune set [lo, hi].
func Between(lo, hi rune) (*Set, error) {
	s := NewSet()
	if err := s.AddRange(lo, hi); err != nil {
		return nil, err
	}
	return s, nil
}

// Any returns the set matched by "." without the dotall flag: every rune
// except newline.
func Any() *Set {
	return Of('\n').Complement()
}

// ClassKind enumerates the predefined character classes.
type ClassKind uint8

const (
	Digit      ClassKind = iota // \d
	Whitespace                  // \s
	Word                        // \w
)

// Class is a predefined class, optionally negated (\D, \S, \W).
type Class struct {
	Kind    ClassKind
	Negated bool
}

// ClassError reports an escape that is not a predefined class.
type ClassError struct {
	Name string
}

func (e *ClassError) Error() string {
	return fmt.Sprintf("invalid character class %q", e.Name)
}

// ParseClass parses a class name, with or without its leading backslash:
// one of d, D, s, S, w, W.
func ParseClass(name string) (Class, error) {
	switch strings.TrimPrefix(name, `\`) {
	case "d":
		return Class{Kind: Digit}, nil
	case "D":
		return Class{Kind: Digit, Negated: true}, nil
	case "s":
		return Class{Kind: Whitespace}, nil
	case "S":
		return Class{Kind: Whitespace, Negated: true}, nil
	case "w":
		return Class{Kind: Word}, nil
	case "W":
		return Class{Kind: Word, Negated: true}, nil
	}
	return Class{}, &ClassError{Name: name}
}

// ToRange desugars the class into concrete spans.
func (c Class) ToRange() *Set {
	s := NewSet()
	switch c.Kind {
	case Digit:
		s.insert(Span[rune]{Lo: '0', Hi: '9'})
	case Whitespace:
		s.insert(Span[rune]{Lo: '\t', Hi: '\r'})
		s.insert(Span[rune]{Lo: ' ', Hi: ' '})
	case Word:
		s.insert(Span[rune]{Lo: 'a', Hi: 'z'})
		s.insert(Span[rune]{Lo: 'A', Hi: 'Z'})
		s.insert(Span[rune]{Lo: '0', Hi: '9'})
	}
	if c.Negated {
		return s.Complement()
	}
	return s
}

// String returns the escape spelling of the class, e.g. `\d` or `\W`.
func (c Class) String() string {
	var b byte
	switch c.Kind {
	case Digit:
		b = 'd'
	case Whitespace:
		b = 's'
	case Word:
		b = 'w'
	default:
		return `\?`
	}
	if c.Negated {
		b -= 'a' - 'A'
	}
	return `\` + string(b)
}
