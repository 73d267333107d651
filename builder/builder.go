// Package builder turns a concrete parse tree (package cst) into an AST.
//
// The builder accepts any cst.Pair implementation, so trees produced by
// other grammars can be used as long as they follow the kind set declared
// in package cst. Every failure is reported as *Error and aborts the
// build; there is no partial result.
package builder

import (
	"errors"
	"strconv"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/kolkov/reggie/ast"
	"github.com/kolkov/reggie/charset"
	"github.com/kolkov/reggie/cst"
)

// DefaultMaxDepth caps group nesting when WithMaxDepth is not used.
const DefaultMaxDepth = 500

// Option configures a build.
type Option func(*builder)

// WithLogger sets the debug logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(b *builder) {
		if log != nil {
			b.log = log
		}
	}
}

// WithMaxDepth caps group nesting, as the bundled parser counts it. Values below one are ignored.
func WithMaxDepth(n int) Option {
	return func(b *builder) {
		if n > 0 {
			b.maxDepth = n
		}
	}
}

type builder struct {
	log      *zap.Logger
	maxDepth int
}

// Build converts a parse tree rooted at a cst.Pattern pair.
func Build(root cst.Pair, opts ...Option) (*ast.Pattern, error) {
	b := &builder{log: zap.NewNop(), maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(b)
	}
	if root == nil {
		return nil, &Error{Kind: UnexpectedEndOfInput}
	}

	p, err := b.pattern(root)
	if err != nil {
		b.log.Debug("build failed", zap.String("pattern", root.Text()), zap.Error(err))
		return nil, err
	}
	b.log.Debug("built pattern",
		zap.String("pattern", root.Text()),
		zap.Int("subpatterns", len(p.SubPatterns)),
		zap.Stringer("flags", p.Flags),
	)
	return p, nil
}

// -----------------------------------------------------------------------------
// Child cursor
// -----------------------------------------------------------------------------

// cursor walks the children of one pair.
type cursor struct {
	parent cst.Pair
	items  []cst.Pair
	i      int
}

func newCursor(p cst.Pair) *cursor {
	return &cursor{parent: p, items: p.Children()}
}

// peek returns the next child, or nil at the end.
func (c *cursor) peek() cst.Pair {
	if c.i < len(c.items) {
		return c.items[c.i]
	}
	return nil
}

// peekIs reports whether the next child has the given kind.
func (c *cursor) peekIs(kind cst.Kind) bool {
	next := c.peek()
	return next != nil && next.Kind() == kind
}

func (c *cursor) next() (cst.Pair, error) {
	next := c.peek()
	if next == nil {
		return nil, endOfInput(c.parent)
	}
	c.i++
	return next, nil
}

// expect consumes the next child and checks its kind.
func (c *cursor) expect(kind cst.Kind) (cst.Pair, error) {
	next, err := c.next()
	if err != nil {
		return nil, err
	}
	if next.Kind() != kind {
		return nil, unexpected(next)
	}
	return next, nil
}

// done fails when children remain.
func (c *cursor) done() error {
	if next := c.peek(); next != nil {
		return unexpected(next)
	}
	return nil
}

func unexpected(p cst.Pair) *Error {
	return &Error{Kind: UnexpectedInput, Pos: p.Pos(), Input: p.Text()}
}

func endOfInput(parent cst.Pair) *Error {
	return &Error{Kind: UnexpectedEndOfInput, Pos: cst.End(parent)}
}

func invalid(kind ErrorKind, p cst.Pair, err error) *Error {
	return &Error{Kind: kind, Pos: p.Pos(), Input: p.Text(), Err: err}
}

func errTooDeep(max int) error {
	return xerrors.Errorf("pattern nested too deeply (max %d)", max)
}

func base(p cst.Pair) ast.Base {
	return ast.Base{StartPos: p.Pos(), EndPos: cst.End(p)}
}

// -----------------------------------------------------------------------------
// Pattern and flags
// -----------------------------------------------------------------------------

func (b *builder) pattern(root cst.Pair) (*ast.Pattern, error) {
	if root.Kind() != cst.Pattern {
		return nil, unexpected(root)
	}
	c := newCursor(root)
	p := &ast.Pattern{Base: base(root)}
	for c.peekIs(cst.WholePatternFlags) {
		pair, _ := c.next()
		flags, err := b.wholePatternFlags(pair)
		if err != nil {
			return nil, err
		}
		p.Flags = p.Flags.Union(flags)
	}
	subs, err := b.subPatterns(c, 0)
	if err != nil {
		return nil, err
	}
	if err := c.done(); err != nil {
		return nil, err
	}
	p.SubPatterns = subs
	return p, nil
}

// wholePatternFlags builds "(?flags)".
func (b *builder) wholePatternFlags(pair cst.Pair) (ast.FlagSet, error) {
	c := newCursor(pair)
	if _, err := c.expect(cst.LParen); err != nil {
		return 0, err
	}
	if _, err := c.expect(cst.QuestionMark); err != nil {
		return 0, err
	}
	flagsPair, err := c.expect(cst.Flags)
	if err != nil {
		return 0, err
	}
	if _, err := c.expect(cst.RParen); err != nil {
		return 0, err
	}
	flags, err := ast.ParsePatternFlags(flagsPair.Text())
	if err != nil {
		return 0, flagError(flagsPair, err)
	}
	return flags, nil
}

func flagError(pair cst.Pair, err error) *Error {
	var (
		neg      *ast.NegativeFlagsError
		conflict *ast.FlagConflictError
	)
	switch {
	case errors.As(err, &neg):
		return invalid(NegativePatternFlags, pair, err)
	case errors.As(err, &conflict):
		return invalid(ConflictingFlags, pair, err)
	default:
		return invalid(InvalidFlag, pair, err)
	}
}

// -----------------------------------------------------------------------------
// Sub-patterns
// -----------------------------------------------------------------------------

// subPatterns builds every remaining child of c as a sub-pattern.
func (b *builder) subPatterns(c *cursor, depth int) ([]ast.SubPattern, error) {
	var subs []ast.SubPattern
	for next := c.peek(); next != nil && next.Kind() != cst.RParen; next = c.peek() {
		c.i++
		sub, err := b.subPattern(next, depth)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

func (b *builder) subPattern(pair cst.Pair, depth int) (ast.SubPattern, error) {
	if pair.Kind() != cst.SubPattern {
		return nil, unexpected(pair)
	}
	c := newCursor(pair)
	item, err := c.next()
	if err != nil {
		return nil, err
	}

	var sub ast.SubPattern
	switch item.Kind() {
	case cst.Alternatives:
		sub, err = b.alternatives(item, depth)
	case cst.Sequence:
		sub, err = b.sequence(item, depth)
	case cst.ZeroWidthLiteral:
		sub, err = zeroWidth(item)
	case cst.CommentGroup:
		sub, err = comment(item)
	default:
		sub, err = b.quantified(c, item, depth)
	}
	if err != nil {
		return nil, err
	}
	if err := c.done(); err != nil {
		return nil, err
	}
	return sub, nil
}

func (b *builder) sequence(pair cst.Pair, depth int) (*ast.Sequence, error) {
	items, err := b.subPatterns(newCursor(pair), depth)
	if err != nil {
		return nil, err
	}
	return &ast.Sequence{Base: base(pair), Items: items}, nil
}

// alternatives builds "branch | branch ...". At least one pipe is
// required.
func (b *builder) alternatives(pair cst.Pair, depth int) (*ast.Alternatives, error) {
	c := newCursor(pair)
	first, err := c.next()
	if err != nil {
		return nil, err
	}
	branch, err := b.subPattern(first, depth)
	if err != nil {
		return nil, err
	}
	alts := []ast.SubPattern{branch}
	for c.peek() != nil {
		if _, err := c.expect(cst.Pipe); err != nil {
			return nil, err
		}
		next, err := c.next()
		if err != nil {
			return nil, err
		}
		if branch, err = b.subPattern(next, depth); err != nil {
			return nil, err
		}
		alts = append(alts, branch)
	}
	if len(alts) < 2 {
		return nil, endOfInput(pair)
	}
	return &ast.Alternatives{Base: base(pair), Alternatives: alts}, nil
}

// quantified builds an element or group, then an optional quantifier.
// A group without a quantifier stands on its own.
func (b *builder) quantified(c *cursor, item cst.Pair, depth int) (ast.SubPattern, error) {
	payload, err := b.quantifiable(item, depth)
	if err != nil {
		return nil, err
	}
	if !c.peekIs(cst.Quantifier) {
		if g, ok := payload.(ast.GroupNode); ok {
			return g, nil
		}
		return &ast.Quantified{Base: base(item), Item: payload}, nil
	}

	qPair, _ := c.next()
	q, err := quantifier(qPair)
	if err != nil {
		return nil, err
	}
	return &ast.Quantified{
		Base:       ast.Base{StartPos: item.Pos(), EndPos: cst.End(qPair)},
		Item:       payload,
		Quantifier: q,
	}, nil
}

func (b *builder) quantifiable(pair cst.Pair, depth int) (ast.Quantifiable, error) {
	switch pair.Kind() {
	case cst.Literals:
		return literals(pair)
	case cst.CharSet:
		return charSet(pair)
	case cst.CharClass:
		return charClass(pair)
	case cst.AnyChar:
		set := ast.NewAnyChar()
		set.Base = base(pair)
		return set, nil
	case cst.Backref:
		return backref(pair)
	case cst.Group:
		return b.group(pair, depth+1)
	default:
		return nil, unexpected(pair)
	}
}

// -----------------------------------------------------------------------------
// Elements
// -----------------------------------------------------------------------------

func literals(pair cst.Pair) (*ast.Literal, error) {
	chars := pair.Children()
	if len(chars) == 0 {
		return nil, endOfInput(pair)
	}
	value := make([]rune, 0, len(chars))
	for _, ch := range chars {
		if ch.Kind() != cst.LiteralChar {
			return nil, unexpected(ch)
		}
		r, err := decodeChar(ch.Text(), false)
		if err != nil {
			return nil, invalid(InvalidLiteral, ch, err)
		}
		value = append(value, r)
	}
	return &ast.Literal{Base: base(pair), Value: string(value)}, nil
}

func charClass(pair cst.Pair) (*ast.CharSet, error) {
	class, err := charset.ParseClass(pair.Text())
	if err != nil {
		return nil, invalid(InvalidCharClass, pair, err)
	}
	set := ast.NewCharClass(class)
	set.Base = base(pair)
	return set, nil
}

// charSet builds "[...]". Ranges are validated together so one error
// lists every reversed pair.
func charSet(pair cst.Pair) (*ast.CharSet, error) {
	c := newCursor(pair)
	if _, err := c.expect(cst.LSquare); err != nil {
		return nil, err
	}
	negated := false
	if c.peekIs(cst.SetNegation) {
		c.i++
		negated = true
	}

	var (
		spans   []charset.Span[rune]
		classes []*charset.Set
	)
	for !c.peekIs(cst.RSquare) {
		member, err := c.next()
		if err != nil {
			return nil, err
		}
		switch member.Kind() {
		case cst.SetLiteral, cst.Caret, cst.Hyphen, cst.EscapedHyphen:
			r, err := setChar(member)
			if err != nil {
				return nil, err
			}
			spans = append(spans, charset.Span[rune]{Lo: r, Hi: r})
		case cst.CharRange:
			span, err := charRange(member)
			if err != nil {
				return nil, err
			}
			spans = append(spans, span)
		case cst.CharClass:
			class, err := charClass(member)
			if err != nil {
				return nil, err
			}
			classes = append(classes, class.Set)
		default:
			return nil, unexpected(member)
		}
	}
	c.i++ // "]"
	if err := c.done(); err != nil {
		return nil, err
	}

	members, err := charset.FromBounds(0, unicode.MaxRune, spans)
	if err != nil {
		var rangeErr *charset.SetError
		if errors.As(err, &rangeErr) {
			return nil, &Error{Kind: InvalidRanges, Pos: pair.Pos(), Input: pair.Text(), Ranges: rangeErr.Pairs, Err: err}
		}
		return nil, invalid(InvalidRanges, pair, err)
	}
	for _, class := range classes {
		members.AddDisjointRange(class)
	}

	set := ast.NewCharSet(members, negated)
	set.Base = base(pair)
	return set, nil
}

func setChar(pair cst.Pair) (rune, error) {
	switch pair.Kind() {
	case cst.Hyphen, cst.EscapedHyphen:
		return '-', nil
	case cst.Caret:
		return '^', nil
	}
	r, err := decodeChar(pair.Text(), true)
	if err != nil {
		return 0, invalid(InvalidLiteral, pair, err)
	}
	return r, nil
}

// charRange builds "lo-hi". Reversed bounds are left for FromBounds.
func charRange(pair cst.Pair) (charset.Span[rune], error) {
	c := newCursor(pair)
	loPair, err := c.next()
	if err != nil {
		return charset.Span[rune]{}, err
	}
	if _, err := c.expect(cst.Hyphen); err != nil {
		return charset.Span[rune]{}, err
	}
	hiPair, err := c.next()
	if err != nil {
		return charset.Span[rune]{}, err
	}
	if err := c.done(); err != nil {
		return charset.Span[rune]{}, err
	}

	lo, err := rangeBound(loPair)
	if err != nil {
		return charset.Span[rune]{}, err
	}
	hi, err := rangeBound(hiPair)
	if err != nil {
		return charset.Span[rune]{}, err
	}
	return charset.Span[rune]{Lo: lo, Hi: hi}, nil
}

func rangeBound(pair cst.Pair) (rune, error) {
	switch pair.Kind() {
	case cst.SetLiteral, cst.Caret, cst.Hyphen, cst.EscapedHyphen:
		return setChar(pair)
	default:
		return 0, unexpected(pair)
	}
}

func backref(pair cst.Pair) (*ast.NumberedBackref, error) {
	text := pair.Text()
	if len(text) < 2 || text[0] != '\\' {
		return nil, unexpected(pair)
	}
	n, err := strconv.Atoi(text[1:])
	if err != nil || n < 1 {
		return nil, invalid(InvalidLiteral, pair, err)
	}
	return &ast.NumberedBackref{Base: base(pair), Index: n}, nil
}

var assertions = map[string]ast.Assertion{
	`\A`: ast.InputStart,
	`\a`: ast.InputStart,
	`\Z`: ast.InputEnd,
	`\z`: ast.InputEnd,
	`\b`: ast.WordBoundary,
	`\B`: ast.NotWordBoundary,
	"^":  ast.LineStart,
	"$":  ast.LineEnd,
}

func zeroWidth(pair cst.Pair) (*ast.ZeroWidth, error) {
	kind, ok := assertions[pair.Text()]
	if !ok {
		return nil, invalid(InvalidLiteral, pair, nil)
	}
	return &ast.ZeroWidth{Base: base(pair), Kind: kind}, nil
}

func comment(pair cst.Pair) (*ast.Comment, error) {
	c := newCursor(pair)
	for _, kind := range []cst.Kind{cst.LParen, cst.QuestionMark, cst.Hash} {
		if _, err := c.expect(kind); err != nil {
			return nil, err
		}
	}
	var text string
	if c.peekIs(cst.CommentText) {
		pair, _ := c.next()
		text = pair.Text()
	}
	if _, err := c.expect(cst.RParen); err != nil {
		return nil, err
	}
	return &ast.Comment{Base: base(pair), Text: text}, nil
}

// -----------------------------------------------------------------------------
// Quantifiers
// -----------------------------------------------------------------------------

func quantifier(pair cst.Pair) (*ast.Quantifier, error) {
	c := newCursor(pair)
	head, err := c.next()
	if err != nil {
		return nil, err
	}

	var (
		kind   ast.QuantKind
		bounds cst.Pair
	)
	switch head.Kind() {
	case cst.QuestionMark:
		kind = ast.ZeroOrOne
	case cst.Asterisk:
		kind = ast.ZeroOrMore
	case cst.Plus:
		kind = ast.OneOrMore
	case cst.LBrace:
		if bounds, err = c.next(); err != nil {
			return nil, err
		}
		switch bounds.Kind() {
		case cst.NExact, cst.NBetween, cst.NAtLeast, cst.NAtMost:
		default:
			return nil, unexpected(bounds)
		}
		if _, err := c.expect(cst.RBrace); err != nil {
			return nil, err
		}
	default:
		return nil, unexpected(head)
	}

	greed := ast.Greedy
	if next := c.peek(); next != nil {
		switch next.Kind() {
		case cst.Lazy:
			greed = ast.NonGreedy
		case cst.Possessive:
			greed = ast.Possessive
		default:
			return nil, unexpected(next)
		}
		c.i++
	}
	if err := c.done(); err != nil {
		return nil, err
	}

	if bounds == nil {
		return &ast.Quantifier{Kind: kind, Greed: greed}, nil
	}
	q, err := ast.ParseBounds(bounds.Text(), greed)
	if err != nil {
		return nil, invalid(InvalidQuantifier, pair, err)
	}
	return q, nil
}

// -----------------------------------------------------------------------------
// Groups
// -----------------------------------------------------------------------------

var groupExts = map[cst.Kind]ast.GroupExt{
	cst.NonCapturing:  ast.ExtNonCapturing,
	cst.Atomic:        ast.ExtAtomic,
	cst.PosLookahead:  ast.ExtPosLookahead,
	cst.NegLookahead:  ast.ExtNegLookahead,
	cst.PosLookbehind: ast.ExtPosLookbehind,
	cst.NegLookbehind: ast.ExtNegLookbehind,
}

// group builds every parenthesised construct except comments. depth
// counts enclosing groups including this one.
func (b *builder) group(pair cst.Pair, depth int) (ast.GroupNode, error) {
	if depth > b.maxDepth {
		return nil, invalid(UnexpectedInput, pair, errTooDeep(b.maxDepth))
	}
	c := newCursor(pair)
	if _, err := c.expect(cst.LParen); err != nil {
		return nil, err
	}
	if c.peek() == nil {
		return nil, endOfInput(pair)
	}

	g := &ast.Group{Base: base(pair)}
	if c.peekIs(cst.GroupExt) {
		extPair, _ := c.next()
		head, err := groupHead(extPair)
		if err != nil {
			return nil, err
		}
		switch head.Kind() {
		case cst.NamedBackref:
			return namedBackref(pair, c, head)
		case cst.Ternary:
			return b.ternary(pair, c, head, depth)
		case cst.Named:
			name, err := newCursor(head).expect(cst.GroupName)
			if err != nil {
				return nil, err
			}
			g.Name = name.Text()
		case cst.NonCapturing:
			g.Ext = ast.ExtNonCapturing
			if flags := head.Children(); len(flags) > 0 {
				if flags[0].Kind() != cst.Flags {
					return nil, unexpected(flags[0])
				}
				gf, err := ast.ParseGroupFlags(flags[0].Text())
				if err != nil {
					return nil, flagError(flags[0], err)
				}
				g.Flags = gf
			}
		default:
			ext, ok := groupExts[head.Kind()]
			if !ok {
				return nil, unexpected(head)
			}
			g.Ext = ext
		}
	}

	components, err := b.subPatterns(c, depth)
	if err != nil {
		return nil, err
	}
	if _, err := c.expect(cst.RParen); err != nil {
		return nil, err
	}
	if err := c.done(); err != nil {
		return nil, err
	}

	built, err := ast.NewGroup(g.Ext, g.Name, g.Flags, components...)
	if err != nil {
		return nil, invalid(InvalidGroup, pair, err)
	}
	built.Base = g.Base
	return built, nil
}

// groupHead returns the kind pair of a group_ext: "?" followed by one of
// the extension kinds.
func groupHead(ext cst.Pair) (cst.Pair, error) {
	c := newCursor(ext)
	if _, err := c.expect(cst.QuestionMark); err != nil {
		return nil, err
	}
	head, err := c.next()
	if err != nil {
		return nil, err
	}
	if !head.Kind().IsGroupExt() {
		return nil, unexpected(head)
	}
	if err := c.done(); err != nil {
		return nil, err
	}
	return head, nil
}

func namedBackref(pair cst.Pair, c *cursor, head cst.Pair) (*ast.NamedBackref, error) {
	name, err := newCursor(head).expect(cst.GroupName)
	if err != nil {
		return nil, err
	}
	if _, err := c.expect(cst.RParen); err != nil {
		return nil, err
	}
	if err := c.done(); err != nil {
		return nil, err
	}
	return &ast.NamedBackref{Base: base(pair), Name: name.Text()}, nil
}

// ternary builds "(?(id)yes|no)". The no branch is optional.
func (b *builder) ternary(pair cst.Pair, c *cursor, head cst.Pair, depth int) (*ast.Ternary, error) {
	idPair, err := newCursor(head).next()
	if err != nil {
		return nil, err
	}
	if idPair.Kind() != cst.NumberedGroupID && idPair.Kind() != cst.NamedGroupID {
		return nil, unexpected(idPair)
	}

	yesPair, err := c.next()
	if err != nil {
		return nil, err
	}
	yes, err := b.subPattern(yesPair, depth)
	if err != nil {
		return nil, err
	}

	var no ast.SubPattern
	if c.peekIs(cst.Pipe) {
		c.i++
		noPair, err := c.next()
		if err != nil {
			return nil, err
		}
		if no, err = b.subPattern(noPair, depth); err != nil {
			return nil, err
		}
	}
	if _, err := c.expect(cst.RParen); err != nil {
		return nil, err
	}
	if err := c.done(); err != nil {
		return nil, err
	}

	t, err := ast.NewTernary(ast.ParseGroupID(idPair.Text()), yes, no)
	if err != nil {
		return nil, invalid(InvalidGroup, pair, err)
	}
	t.Base = base(pair)
	return t, nil
}
