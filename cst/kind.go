// Package cst defines the concrete parse tree consumed by the AST builder.
//
// A parse tree is a tree of pairs. Every pair carries a syntactic kind,
// the exact source text it spans, its starting position and its ordered
// children. Any grammar that produces pairs of the kinds below can feed the
// builder; the bundled grammar lives in internal/parser.
package cst

// Kind is the syntactic kind of a pair.
type Kind uint8

const (
	// Special kinds
	Invalid Kind = iota // <invalid>

	// Pattern structure
	Pattern           // pattern
	WholePatternFlags // whole_pattern_flags
	Flags             // flags
	SubPattern        // sub_pattern
	Sequence          // sequence
	Alternatives      // alternatives

	// Groups
	Group           // group
	GroupExt        // group_ext
	NonCapturing    // noncapturing
	Atomic          // atomic
	PosLookahead    // pos_lookahead
	NegLookahead    // neg_lookahead
	PosLookbehind   // pos_lookbehind
	NegLookbehind   // neg_lookbehind
	NamedBackref    // named_backref
	Named           // named
	Ternary         // ternary
	GroupName       // group_name
	NumberedGroupID // numbered_group_id
	NamedGroupID    // named_group_id
	Backref         // backref
	CommentGroup    // comment_group
	CommentText     // comment_text

	// Elements
	Literals         // literals
	LiteralChar      // literal_char
	CharSet          // char_set
	CharRange        // char_range
	SetLiteral       // set_literal
	Hyphen           // hyphen
	EscapedHyphen    // escaped_hyphen
	Caret            // caret
	SetNegation      // set_negation
	CharClass        // char_class
	AnyChar          // any_char
	ZeroWidthLiteral // zero_width_literal

	// Quantifiers
	Quantifier // quantifier
	NExact     // n_exact
	NBetween   // n_between
	NAtLeast   // n_at_least
	NAtMost    // n_at_most
	Lazy       // lazy
	Possessive // possessive

	// Punctuation
	LParen       // l_parens
	RParen       // r_parens
	LSquare      // l_sq
	RSquare      // r_sq
	LBrace       // l_brace
	RBrace       // r_brace
	Pipe         // pipe
	QuestionMark // question_mark
	Asterisk     // asterisk
	Plus         // plus
	Hash         // hash

	kindEnd
)

var kindNames = [...]string{
	Invalid:           "<invalid>",
	Pattern:           "pattern",
	WholePatternFlags: "whole_pattern_flags",
	Flags:             "flags",
	SubPattern:        "sub_pattern",
	Sequence:          "sequence",
	Alternatives:      "alternatives",
	Group:             "group",
	GroupExt:          "group_ext",
	NonCapturing:      "noncapturing",
	Atomic:            "atomic",
	PosLookahead:      "pos_lookahead",
	NegLookahead:      "neg_lookahead",
	PosLookbehind:     "pos_lookbehind",
	NegLookbehind:     "neg_lookbehind",
	NamedBackref:      "named_backref",
	Named:             "named",
	Ternary:           "ternary",
	GroupName:         "group_name",
	NumberedGroupID:   "numbered_group_id",
	NamedGroupID:      "named_group_id",
	Backref:           "backref",
	CommentGroup:      "comment_group",
	CommentText:       "comment_text",
	Literals:          "literals",
	LiteralChar:       "literal_char",
	CharSet:           "char_set",
	CharRange:         "char_range",
	SetLiteral:        "set_literal",
	Hyphen:            "hyphen",
	EscapedHyphen:     "escaped_hyphen",
	Caret:             "caret",
	SetNegation:       "set_negation",
	CharClass:         "char_class",
	AnyChar:           "any_char",
	ZeroWidthLiteral:  "zero_width_literal",
	Quantifier:        "quantifier",
	NExact:            "n_exact",
	NBetween:          "n_between",
	NAtLeast:          "n_at_least",
	NAtMost:           "n_at_most",
	Lazy:              "lazy",
	Possessive:        "possessive",
	LParen:            "l_parens",
	RParen:            "r_parens",
	LSquare:           "l_sq",
	RSquare:           "r_sq",
	LBrace:            "l_brace",
	RBrace:            "r_brace",
	Pipe:              "pipe",
	QuestionMark:      "question_mark",
	Asterisk:          "asterisk",
	Plus:              "plus",
	Hash:              "hash",
}

var kindsByName map[string]Kind

func init() {
	kindsByName = make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		kindsByName[name] = Kind(k)
	}
}

// String returns the grammar rule name of the kind.
func (k Kind) String() string {
	if k < kindEnd {
		return kindNames[k]
	}
	return "<invalid>"
}

// IsValid reports whether k is one of the known kinds.
func (k Kind) IsValid() bool {
	return k > Invalid && k < kindEnd
}

// IsPunctuation returns true if the kind is a raw delimiter.
func (k Kind) IsPunctuation() bool {
	return k >= LParen && k < kindEnd
}

// IsGroupExt returns true if the kind names a group head extension.
func (k Kind) IsGroupExt() bool {
	return k >= NonCapturing && k <= Ternary
}

// LookupKind returns the kind for a grammar rule name, or Invalid if the
// name is unknown.
func LookupKind(name string) Kind {
	if k, ok := kindsByName[name]; ok {
		return k
	}
	return Invalid
}
