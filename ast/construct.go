package ast

import (
	"golang.org/x/xerrors"

	"github.com/kolkov/reggie/charset"
)

// Construction errors.
var (
	ErrNamedExtension   = xerrors.New("group cannot be both an extension group and named")
	ErrGroupFlags       = xerrors.New("inline flags are only allowed on non-capturing groups")
	ErrTooFewAlternates = xerrors.New("alternatives need at least two branches")
	ErrEmptyTernary     = xerrors.New("conditional group needs a yes branch")
)

// NewPattern returns a pattern with no flags.
func NewPattern(subs ...SubPattern) *Pattern {
	return &Pattern{SubPatterns: subs}
}

// NewGroup validates the group invariants: an extension group has no
// name, and only a non-capturing group carries flags.
func NewGroup(ext GroupExt, name string, flags GroupFlags, components ...SubPattern) (*Group, error) {
	if ext != ExtNone && name != "" {
		return nil, xerrors.Errorf("group %q with %q: %w", name, ext, ErrNamedExtension)
	}
	if !flags.IsEmpty() && ext != ExtNonCapturing {
		return nil, ErrGroupFlags
	}
	if _, err := NewGroupFlags(flags.On, flags.Off); err != nil {
		return nil, err
	}
	return &Group{Ext: ext, Name: name, Flags: flags, Components: components}, nil
}

// NewTernary returns (?(id)yes|no). Pass a nil no for (?(id)yes).
func NewTernary(id GroupID, yes, no SubPattern) (*Ternary, error) {
	if isNil(yes) {
		return nil, ErrEmptyTernary
	}
	if isNil(no) {
		no = nil
	}
	return &Ternary{ID: id, Yes: yes, No: no}, nil
}

// NewLiteral returns a literal run.
func NewLiteral(value string) *Literal {
	return &Literal{Value: value}
}

// NewCharSet returns a bracketed class with the given members. When
// negated, the effective set is the complement of members.
func NewCharSet(members *charset.Set, negated bool) *CharSet {
	set := members.Clone()
	if negated {
		set = set.Complement()
	}
	return &CharSet{Set: set, Negated: negated}
}

// NewCharClass returns a predefined class written as its escape, e.g. \d.
func NewCharClass(c charset.Class) *CharSet {
	return &CharSet{Set: c.ToRange(), Shorthand: c.String()}
}

// NewAnyChar returns ".".
func NewAnyChar() *CharSet {
	return &CharSet{Set: charset.Any(), Shorthand: "."}
}

// NewAlternatives returns an alternation of at least two branches.
func NewAlternatives(alts ...SubPattern) (*Alternatives, error) {
	if len(alts) < 2 {
		return nil, ErrTooFewAlternates
	}
	return &Alternatives{Alternatives: alts}, nil
}

// Quantify attaches q to item. A nil q means exactly once.
func Quantify(item Quantifiable, q *Quantifier) *Quantified {
	return &Quantified{Item: item, Quantifier: q}
}

// Once wraps item without a quantifier.
func Once(item Quantifiable) *Quantified {
	return &Quantified{Item: item}
}

// AsSubPattern collapses the pattern body into one sub-pattern.
func (p *Pattern) AsSubPattern() SubPattern {
	if len(p.SubPatterns) == 1 {
		return p.SubPatterns[0]
	}
	return &Sequence{Items: p.SubPatterns}
}

// AlternateWith returns p|other. The result keeps p's flags.
func (p *Pattern) AlternateWith(other *Pattern) *Pattern {
	var alts []SubPattern
	for _, q := range []*Pattern{p, other} {
		if len(q.SubPatterns) == 1 {
			if a, ok := q.SubPatterns[0].(*Alternatives); ok {
				alts = append(alts, a.Alternatives...)
				continue
			}
		}
		alts = append(alts, q.AsSubPattern())
	}
	return &Pattern{Flags: p.Flags, SubPatterns: []SubPattern{&Alternatives{Alternatives: alts}}}
}

// FollowWith returns p followed by other. The result keeps p's flags.
func (p *Pattern) FollowWith(other *Pattern) *Pattern {
	subs := make([]SubPattern, 0, len(p.SubPatterns)+len(other.SubPatterns))
	subs = append(subs, p.SubPatterns...)
	subs = append(subs, other.SubPatterns...)
	return &Pattern{Flags: p.Flags, SubPatterns: subs}
}

// WithFlags returns a copy of p with the whole-pattern flags replaced.
// Pattern flags cannot be turned off, so a non-empty Off set fails.
func (p *Pattern) WithFlags(flags GroupFlags) (*Pattern, error) {
	if !flags.Off.IsEmpty() {
		return nil, &NegativeFlagsError{Flags: flags.Off}
	}
	cp := *p
	cp.Flags = flags.On
	return &cp, nil
}

// WithFlag returns a copy of p with f set.
func (p *Pattern) WithFlag(f Flag) *Pattern {
	cp := *p
	cp.Flags = cp.Flags.With(f)
	return &cp
}

// WithoutFlag returns a copy of p with f cleared.
func (p *Pattern) WithoutFlag(f Flag) *Pattern {
	cp := *p
	cp.Flags = cp.Flags.Without(f)
	return &cp
}
