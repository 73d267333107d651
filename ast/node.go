// Package ast defines the abstract syntax tree for regular-expression
// patterns in the Python dialect.
//
// The AST is designed for:
//   - Exact round-trip back to pattern text (String)
//   - Structural analysis (MinMatchLen, IsFinite, GroupsCount)
//   - Source location tracking for error reporting
//   - Generic visitor pattern (Go 1.18+ generics)
//
// Node hierarchy:
//
//	Node (interface)
//	├── Pattern - root, whole-pattern flags + sub-patterns
//	├── SubPattern (interface)
//	│   ├── Alternatives, Sequence - composition
//	│   ├── Quantified - Quantifiable + optional Quantifier
//	│   ├── ZeroWidth, Comment - assertions and comments
//	│   └── GroupNode (interface)
//	│       ├── Group - capturing, named, non-capturing, atomic, lookaround
//	│       ├── NamedBackref, NumberedBackref - references
//	│       └── Ternary - conditional
//	└── Element (interface, Quantifiable)
//	    ├── Literal
//	    └── CharSet
//
// Trees are built once, by the builder package or the constructors in this
// package, and are not mutated afterwards. Concurrent readers need no
// synchronisation.
package ast

import (
	"github.com/kolkov/reggie/charset"
	"github.com/kolkov/reggie/token"
)

// Node is the interface implemented by all AST nodes.
type Node interface {
	// Pos returns the position of the first character belonging to this node.
	Pos() token.Position

	// End returns the position of the first character immediately after this node.
	End() token.Position
}

// SubPattern is any node that can appear in a pattern's sequence.
type SubPattern interface {
	Node
	subPatternNode() // marker method to prevent external implementations
}

// Quantifiable is the payload of a Quantified node.
type Quantifiable interface {
	Node
	quantifiableNode()
}

// Element is a single-position matcher: a literal run or a character set.
type Element interface {
	Quantifiable
	elementNode()
}

// GroupNode is any parenthesised construct.
type GroupNode interface {
	SubPattern
	Quantifiable
	groupNode()
}

// Base provides source positions for all nodes.
// Nodes created programmatically carry token.NoPos.
type Base struct {
	StartPos token.Position // Position of first character
	EndPos   token.Position // Position after last character
}

func (b *Base) Pos() token.Position { return b.StartPos }
func (b *Base) End() token.Position { return b.EndPos }

// Span returns the source range of the node.
func (b *Base) Span() token.Span {
	return token.Span{Start: b.StartPos, End: b.EndPos}
}

// ----------------------------------------------------------------------------
// Root

// Pattern is the root node: whole-pattern flags and the top-level sequence.
type Pattern struct {
	Base
	Flags       FlagSet
	SubPatterns []SubPattern
}

// ----------------------------------------------------------------------------
// Sub-patterns

// Alternatives is an ordered choice of at least two branches.
type Alternatives struct {
	Base
	Alternatives []SubPattern
}

// Sequence is an ordered run of sub-patterns. It is used where a single
// slot (an alternation branch, a conditional branch) holds zero or
// several items.
type Sequence struct {
	Base
	Items []SubPattern
}

// Quantified is an element or group with an optional repetition.
// A nil Quantifier means "exactly once".
type Quantified struct {
	Base
	Item       Quantifiable
	Quantifier *Quantifier
}

// Assertion is the kind of a zero-width assertion.
type Assertion uint8

const (
	InputStart      Assertion = iota // \A
	InputEnd                         // \Z
	WordBoundary                     // \b
	NotWordBoundary                  // \B
	LineStart                        // ^
	LineEnd                          // $
)

// String returns the canonical spelling of the assertion.
func (a Assertion) String() string {
	switch a {
	case InputStart:
		return `\A`
	case InputEnd:
		return `\Z`
	case WordBoundary:
		return `\b`
	case NotWordBoundary:
		return `\B`
	case LineStart:
		return "^"
	case LineEnd:
		return "$"
	default:
		return "<invalid>"
	}
}

// ZeroWidth is an assertion that consumes no input.
type ZeroWidth struct {
	Base
	Kind Assertion
}

// Comment is an inline comment, (?#...). Text excludes the delimiters.
type Comment struct {
	Base
	Text string
}

func (*Alternatives) subPatternNode() {}
func (*Sequence) subPatternNode()     {}
func (*Quantified) subPatternNode()   {}
func (*ZeroWidth) subPatternNode()    {}
func (*Comment) subPatternNode()      {}

// ----------------------------------------------------------------------------
// Elements

// Literal is a fixed run of characters. Value holds decoded runes.
type Literal struct {
	Base
	Value string
}

// CharSet is a character class.
//
// Set always holds the effective membership. Negated records that the
// class was written as [^...], and Shorthand holds the spelling of a
// predefined class or "." written outside brackets; both only affect
// rendering.
type CharSet struct {
	Base
	Set       *charset.Set
	Negated   bool
	Shorthand string
}

func (*Literal) quantifiableNode() {}
func (*Literal) elementNode()      {}
func (*CharSet) quantifiableNode() {}
func (*CharSet) elementNode()      {}

// ----------------------------------------------------------------------------
// Groups

// GroupExt is the extension marker of a general group.
type GroupExt uint8

const (
	ExtNone          GroupExt = iota // (...) or (?P<name>...)
	ExtNonCapturing                  // (?:...)
	ExtAtomic                        // (?>...)
	ExtPosLookahead                  // (?=...)
	ExtNegLookahead                  // (?!...)
	ExtPosLookbehind                 // (?<=...)
	ExtNegLookbehind                 // (?<!...)
)

// String returns the group head written after "(" for the extension.
func (e GroupExt) String() string {
	switch e {
	case ExtNone:
		return ""
	case ExtNonCapturing:
		return "?:"
	case ExtAtomic:
		return "?>"
	case ExtPosLookahead:
		return "?="
	case ExtNegLookahead:
		return "?!"
	case ExtPosLookbehind:
		return "?<="
	case ExtNegLookbehind:
		return "?<!"
	default:
		return "?<invalid>"
	}
}

// IsLookaround returns true for the four lookaround extensions.
func (e GroupExt) IsLookaround() bool {
	return e >= ExtPosLookahead && e <= ExtNegLookbehind
}

// IsLookbehind returns true for (?<=...) and (?<!...).
func (e GroupExt) IsLookbehind() bool {
	return e == ExtPosLookbehind || e == ExtNegLookbehind
}

// Group is the general group. A group is capturing when Ext is ExtNone;
// Name is set only for named capturing groups and Flags only for
// non-capturing groups. Use NewGroup to enforce those invariants.
type Group struct {
	Base
	Ext        GroupExt
	Flags      GroupFlags
	Name       string
	Components []SubPattern
}

// IsCapturing reports whether the group is assigned a group number.
func (g *Group) IsCapturing() bool {
	return g.Ext == ExtNone
}

// NamedBackref matches the text of an earlier named group, (?P=name).
type NamedBackref struct {
	Base
	Name string
}

// NumberedBackref matches the text of an earlier numbered group, \N.
type NumberedBackref struct {
	Base
	Index int
}

// Ternary is a conditional group, (?(id)yes|no). No is nil when the
// "no" branch is absent.
type Ternary struct {
	Base
	ID  GroupID
	Yes SubPattern
	No  SubPattern
}

func (*Group) subPatternNode()             {}
func (*Group) quantifiableNode()           {}
func (*Group) groupNode()                  {}
func (*NamedBackref) subPatternNode()      {}
func (*NamedBackref) quantifiableNode()    {}
func (*NamedBackref) groupNode()           {}
func (*NumberedBackref) subPatternNode()   {}
func (*NumberedBackref) quantifiableNode() {}
func (*NumberedBackref) groupNode()        {}
func (*Ternary) subPatternNode()           {}
func (*Ternary) quantifiableNode()         {}
func (*Ternary) groupNode()                {}

// Compile-time interface checks.
var (
	_ Node         = (*Pattern)(nil)
	_ SubPattern   = (*Alternatives)(nil)
	_ SubPattern   = (*Sequence)(nil)
	_ SubPattern   = (*Quantified)(nil)
	_ SubPattern   = (*ZeroWidth)(nil)
	_ SubPattern   = (*Comment)(nil)
	_ Element      = (*Literal)(nil)
	_ Element      = (*CharSet)(nil)
	_ GroupNode    = (*Group)(nil)
	_ GroupNode    = (*NamedBackref)(nil)
	_ GroupNode    = (*NumberedBackref)(nil)
	_ GroupNode    = (*Ternary)(nil)
	_ Quantifiable = GroupNode(nil)
)
