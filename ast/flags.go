package ast

import (
	"fmt"
	"strings"
)

// Flag is one inline flag. Constants are declared in rendering order.
type Flag uint8

const (
	FlagASCII      Flag = iota // a
	FlagIgnoreCase             // i
	FlagLocale                 // L
	FlagMultiline              // m
	FlagDotAll                 // s
	FlagUnicode                // u
	FlagVerbose                // x

	flagCount
)

const flagCodes = "aiLmsux"

// Code returns the single-character code of the flag.
func (f Flag) Code() byte {
	if f < flagCount {
		return flagCodes[f]
	}
	return '?'
}

// String returns the flag's name.
func (f Flag) String() string {
	switch f {
	case FlagASCII:
		return "ascii"
	case FlagIgnoreCase:
		return "ignorecase"
	case FlagLocale:
		return "locale"
	case FlagMultiline:
		return "multiline"
	case FlagDotAll:
		return "dotall"
	case FlagUnicode:
		return "unicode"
	case FlagVerbose:
		return "verbose"
	default:
		return "invalid"
	}
}

// LookupFlag returns the flag for a code character.
func LookupFlag(c rune) (Flag, bool) {
	i := strings.IndexRune(flagCodes, c)
	if i < 0 {
		return 0, false
	}
	return Flag(i), true
}

// FlagError reports a character that is not a flag code.
type FlagError struct {
	Char rune
}

func (e *FlagError) Error() string {
	return fmt.Sprintf("unknown flag %q", e.Char)
}

// FlagConflictError reports flags that are both turned on and off.
type FlagConflictError struct {
	Flags FlagSet
}

func (e *FlagConflictError) Error() string {
	return fmt.Sprintf("flags %q turned on and off", e.Flags.Codes())
}

// NegativeFlagsError reports a pattern-level flag declaration with a
// negative part.
type NegativeFlagsError struct {
	Flags FlagSet
}

func (e *NegativeFlagsError) Error() string {
	return fmt.Sprintf("pattern flags cannot be turned off: -%s", e.Flags.Codes())
}

// FlagSet is a set of flags. Iteration and rendering follow flag order.
type FlagSet uint8

// NewFlagSet returns the set of the given flags.
func NewFlagSet(flags ...Flag) FlagSet {
	var s FlagSet
	for _, f := range flags {
		s = s.With(f)
	}
	return s
}

// ParseFlagSet parses a run of flag codes. Duplicates are allowed.
func ParseFlagSet(codes string) (FlagSet, error) {
	var s FlagSet
	for _, c := range codes {
		f, ok := LookupFlag(c)
		if !ok {
			return 0, &FlagError{Char: c}
		}
		s = s.With(f)
	}
	return s, nil
}

func (s FlagSet) Has(f Flag) bool             { return s&(1<<f) != 0 }
func (s FlagSet) With(f Flag) FlagSet         { return s | 1<<f }
func (s FlagSet) Without(f Flag) FlagSet      { return s &^ (1 << f) }
func (s FlagSet) Union(o FlagSet) FlagSet     { return s | o }
func (s FlagSet) Intersect(o FlagSet) FlagSet { return s & o }
func (s FlagSet) IsEmpty() bool               { return s == 0 }

// Flags returns the members in flag order.
func (s FlagSet) Flags() []Flag {
	var out []Flag
	for f := Flag(0); f < flagCount; f++ {
		if s.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

// Codes returns the member codes in flag order, e.g. "im".
func (s FlagSet) Codes() string {
	var sb strings.Builder
	for _, f := range s.Flags() {
		sb.WriteByte(f.Code())
	}
	return sb.String()
}

// String returns "?codes", the head of an inline flag group.
func (s FlagSet) String() string {
	return "?" + s.Codes()
}

// Combine returns s unless it is empty, in which case it returns other.
// The nearest declared scope wins; bits are never merged.
func (s FlagSet) Combine(other FlagSet) FlagSet {
	if !s.IsEmpty() {
		return s
	}
	return other
}

// GroupFlags is a group-scoped flag override. On and Off are disjoint.
type GroupFlags struct {
	On  FlagSet
	Off FlagSet
}

// NewGroupFlags validates that no flag is both turned on and off.
func NewGroupFlags(on, off FlagSet) (GroupFlags, error) {
	if both := on.Intersect(off); !both.IsEmpty() {
		return GroupFlags{}, &FlagConflictError{Flags: both}
	}
	return GroupFlags{On: on, Off: off}, nil
}

// ParseGroupFlags parses "on" or "on-off", e.g. "i-m".
func ParseGroupFlags(text string) (GroupFlags, error) {
	onText, offText, _ := strings.Cut(text, "-")
	on, err := ParseFlagSet(onText)
	if err != nil {
		return GroupFlags{}, err
	}
	off, err := ParseFlagSet(offText)
	if err != nil {
		return GroupFlags{}, err
	}
	return NewGroupFlags(on, off)
}

// ParsePatternFlags parses a whole-pattern flag declaration. A negative
// part is rejected with *NegativeFlagsError.
func ParsePatternFlags(text string) (FlagSet, error) {
	g, err := ParseGroupFlags(text)
	if err != nil {
		return 0, err
	}
	if !g.Off.IsEmpty() || strings.Contains(text, "-") {
		return 0, &NegativeFlagsError{Flags: g.Off}
	}
	return g.On, nil
}

// IsEmpty reports whether the override sets nothing.
func (g GroupFlags) IsEmpty() bool {
	return g.On.IsEmpty() && g.Off.IsEmpty()
}

// Codes returns "on" or "on-off" without the leading "?".
func (g GroupFlags) Codes() string {
	if g.Off.IsEmpty() {
		return g.On.Codes()
	}
	return g.On.Codes() + "-" + g.Off.Codes()
}

// String returns "?on" or "?on-off".
func (g GroupFlags) String() string {
	return "?" + g.Codes()
}

// Combine returns g unless it is empty, in which case it returns other.
func (g GroupFlags) Combine(other GroupFlags) GroupFlags {
	if !g.IsEmpty() {
		return g
	}
	return other
}

// Apply returns the flags in effect inside a scope that starts with s.
func (g GroupFlags) Apply(s FlagSet) FlagSet {
	return s.Union(g.On) &^ g.Off
}
