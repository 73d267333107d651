package parser

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kolkov/reggie/ast"
	"github.com/kolkov/reggie/cst"
	"github.com/kolkov/reggie/internal/lexer"
	"github.com/kolkov/reggie/token"
)

// DefaultMaxDepth is the group nesting limit used when Config.MaxDepth
// is not set.
const DefaultMaxDepth = 500

// Config controls parsing.
type Config struct {
	// Filename is recorded in every position (optional).
	Filename string
	// MaxDepth caps group nesting. Zero means DefaultMaxDepth.
	MaxDepth int
}

// Parser holds the parser state for one pattern.
type Parser struct {
	lexer   *lexer.Lexer // Lexer instance
	src     string       // Pattern source
	tok     lexer.Token  // Current token
	prevTok lexer.Token  // Previous token (its end closes a pair's text)
	errors  ErrorList    // Accumulated errors

	depth    int // current group nesting
	maxDepth int
}

// bailout unwinds the parser after the first error.
type bailout struct{}

// Parse parses a pattern into a parse tree rooted at a cst.Pattern pair.
func Parse(src string) (cst.Pair, error) {
	return ParseWithConfig(src, Config{})
}

// ParseWithConfig parses a pattern with explicit settings.
func ParseWithConfig(src string, cfg Config) (root cst.Pair, err error) {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	p := &Parser{
		lexer:    lexer.New(cfg.Filename, src),
		src:      src,
		maxDepth: cfg.MaxDepth,
	}
	p.next() // Initialize first token

	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			root, err = nil, p.errors.Err()
		}
	}()

	pattern := p.parsePattern()

	if err := p.errors.Err(); err != nil {
		return nil, err
	}
	return pattern, nil
}

// -----------------------------------------------------------------------------
// Token handling
// -----------------------------------------------------------------------------

// next advances to the next token.
func (p *Parser) next() {
	p.prevTok = p.tok
	p.tok = p.lexer.Scan()
}

// tokenDesc returns a description of the current token for error messages.
func (p *Parser) tokenDesc() string {
	switch p.tok.Type {
	case lexer.EOF:
		return "end of pattern"
	case lexer.ILLEGAL:
		// ILLEGAL token's Value contains the actual error message
		return p.tok.Value
	default:
		return strconv.Quote(p.tok.Value)
	}
}

// error records a parse error and abandons the parse.
func (p *Parser) error(err *ParseError) {
	p.errors = append(p.errors, err)
	panic(bailout{})
}

// errorf records a formatted parse error at pos.
func (p *Parser) errorf(pos token.Position, format string, args ...any) {
	p.error(errorf(pos, format, args...))
}

// textFrom returns the source from start up to the end of the last
// consumed token.
func (p *Parser) textFrom(start token.Position) string {
	end := p.prevTok.End().Offset
	if end < start.Offset {
		return ""
	}
	return p.src[start.Offset:end]
}

func (p *Parser) enter(pos token.Position) {
	p.depth++
	if p.depth > p.maxDepth {
		p.errorf(pos, errTooDeep, p.maxDepth)
	}
}

func (p *Parser) leave() {
	p.depth--
}

func (p *Parser) isQuantifier() bool {
	return p.tok.Type == lexer.QUANT || p.tok.Type == lexer.BRACE
}

// -----------------------------------------------------------------------------
// Pattern structure
// -----------------------------------------------------------------------------

func (p *Parser) parsePattern() *cst.Node {
	root := cst.New(cst.Pattern, p.src, p.tok.Pos)
	for p.tok.Type == lexer.FLAGS_OPEN && strings.HasSuffix(p.tok.Value, ")") {
		root.Append(p.parseWholePatternFlags())
	}
	root.Append(p.parseAlternation()...)

	switch p.tok.Type {
	case lexer.EOF:
	case lexer.RPAREN:
		p.errorf(p.tok.Pos, errUnbalancedParen)
	default:
		p.error(expectedError(p.tok.Pos, "end of pattern", p.tokenDesc()))
	}
	return root
}

// parseWholePatternFlags parses a leading "(?flags)".
func (p *Parser) parseWholePatternFlags() *cst.Node {
	tok := p.tok
	p.next()
	codes := tok.Value[2 : len(tok.Value)-1]
	if strings.Trim(codes, "-") == "" {
		p.errorf(tok.Pos, errMissingFlag)
	}
	qPos := tok.Pos.Advance("(")
	flagsPos := qPos.Advance("?")
	return cst.New(cst.WholePatternFlags, tok.Value, tok.Pos,
		cst.New(cst.LParen, "(", tok.Pos),
		cst.New(cst.QuestionMark, "?", qPos),
		cst.New(cst.Flags, codes, flagsPos),
		cst.New(cst.RParen, ")", flagsPos.Advance(codes)),
	)
}

// parseAlternation parses "|"-separated branches up to ")" or the end of
// the pattern. A lone branch is returned as its items; otherwise the
// result is a single sub-pattern holding an alternatives pair.
func (p *Parser) parseAlternation() []cst.Pair {
	start := p.tok.Pos
	first := p.parseSequence()
	if p.tok.Type != lexer.PIPE {
		return first
	}

	alt := cst.New(cst.Alternatives, "", start, p.branch(first, start))
	for p.tok.Type == lexer.PIPE {
		alt.Append(cst.New(cst.Pipe, "|", p.tok.Pos))
		p.next()
		branchStart := p.tok.Pos
		alt.Append(p.branch(p.parseSequence(), branchStart))
	}
	alt.Src = p.textFrom(start)
	return []cst.Pair{p.subPattern(alt)}
}

// branch turns the items of one alternative into a single sub-pattern.
func (p *Parser) branch(items []cst.Pair, start token.Position) cst.Pair {
	if len(items) == 1 {
		return items[0]
	}
	seq := cst.New(cst.Sequence, p.textFrom(start), start, items...)
	return p.subPattern(seq)
}

func (p *Parser) subPattern(item *cst.Node) *cst.Node {
	return cst.New(cst.SubPattern, item.Src, item.At, item)
}

// parseSequence parses items up to "|", ")" or the end of the pattern.
// Adjacent unquantified characters form one literal run; a quantifier
// applies to the last character only.
func (p *Parser) parseSequence() []cst.Pair {
	var items []cst.Pair
	var run *cst.Node
	flush := func() {
		if run != nil {
			items = append(items, p.subPattern(run))
			run = nil
		}
	}

	for {
		switch p.tok.Type {
		case lexer.PIPE, lexer.RPAREN, lexer.EOF:
			flush()
			return items
		}

		atom := p.parseAtom()
		if p.isQuantifier() {
			if atom.K == cst.ZeroWidthLiteral || atom.K == cst.CommentGroup {
				p.errorf(p.tok.Pos, errNothingToRepeat)
			}
			flush()
			if atom.K == cst.LiteralChar {
				atom = cst.New(cst.Literals, atom.Src, atom.At, atom)
			}
			q := p.parseQuantifier()
			sp := p.subPattern(atom)
			sp.Append(q)
			sp.Src += q.Src
			items = append(items, sp)
			continue
		}

		if atom.K == cst.LiteralChar {
			if run == nil {
				run = cst.New(cst.Literals, "", atom.At)
			}
			run.Append(atom)
			run.Src += atom.Src
			continue
		}
		flush()
		items = append(items, p.subPattern(atom))
	}
}

func (p *Parser) parseAtom() *cst.Node {
	tok := p.tok
	switch tok.Type {
	case lexer.CHAR:
		p.next()
		return cst.New(cst.LiteralChar, tok.Value, tok.Pos)
	case lexer.ESCAPE:
		p.next()
		return p.escape(tok)
	case lexer.DOT:
		p.next()
		return cst.New(cst.AnyChar, tok.Value, tok.Pos)
	case lexer.CARET, lexer.DOLLAR:
		p.next()
		return cst.New(cst.ZeroWidthLiteral, tok.Value, tok.Pos)
	case lexer.SET_OPEN:
		return p.parseSet()
	case lexer.COMMENT_OPEN:
		return p.parseComment()
	case lexer.FLAGS_OPEN:
		if strings.HasSuffix(tok.Value, ")") {
			p.errorf(tok.Pos, errGlobalFlags)
		}
		return p.parseGroup()
	case lexer.LPAREN, lexer.EXT_OPEN, lexer.LOOKBEHIND_OPEN,
		lexer.NAMED_OPEN, lexer.BACKREF_OPEN, lexer.COND_OPEN:
		return p.parseGroup()
	case lexer.QUANT, lexer.BRACE:
		p.errorf(tok.Pos, errNothingToRepeat)
	case lexer.ILLEGAL:
		p.errorf(tok.Pos, "%s", tok.Value)
	}
	p.error(expectedError(tok.Pos, "pattern item", p.tokenDesc()))
	return nil
}

// -----------------------------------------------------------------------------
// Escapes
// -----------------------------------------------------------------------------

// escape classifies an escape outside a character set.
func (p *Parser) escape(tok lexer.Token) *cst.Node {
	v := tok.Value
	if len(v) == 2 {
		switch v[1] {
		case 'd', 'D', 's', 'S', 'w', 'W':
			return cst.New(cst.CharClass, v, tok.Pos)
		case 'A', 'a', 'Z', 'z', 'b', 'B':
			return cst.New(cst.ZeroWidthLiteral, v, tok.Pos)
		}
	}
	if v[1] >= '1' && v[1] <= '9' && len(v) <= 3 {
		return cst.New(cst.Backref, v, tok.Pos)
	}
	p.checkLiteralEscape(tok, false)
	return cst.New(cst.LiteralChar, v, tok.Pos)
}

// setEscape classifies an escape inside a character set.
func (p *Parser) setEscape(tok lexer.Token) *cst.Node {
	v := tok.Value
	if len(v) == 2 {
		switch v[1] {
		case 'd', 'D', 's', 'S', 'w', 'W':
			return cst.New(cst.CharClass, v, tok.Pos)
		case '-':
			return cst.New(cst.EscapedHyphen, v, tok.Pos)
		}
	}
	if v[1] >= '1' && v[1] <= '9' {
		if strings.ContainsAny(v[1:], "89") {
			p.errorf(tok.Pos, errBadEscape, v)
		}
		return cst.New(cst.SetLiteral, v, tok.Pos)
	}
	p.checkLiteralEscape(tok, true)
	return cst.New(cst.SetLiteral, v, tok.Pos)
}

var escapeWidths = map[byte]int{'x': 4, 'u': 6, 'U': 10}

// checkLiteralEscape rejects escapes of ASCII letters that have no meaning
// and truncated numeric escapes.
func (p *Parser) checkLiteralEscape(tok lexer.Token, inSet bool) {
	v := tok.Value
	c := v[1]
	switch c {
	case 'x', 'u', 'U':
		if len(v) != escapeWidths[c] {
			p.errorf(tok.Pos, errIncompleteEscape, v)
		}
		return
	case 'n', 't', 'r', 'f', 'v', '0':
		return
	case '1', '2', '3', '4', '5', '6', '7':
		if len(v) == 4 {
			return
		}
	case 'b':
		if inSet {
			return
		}
	}
	if c < utf8.RuneSelf && (unicode.IsLetter(rune(c)) || unicode.IsDigit(rune(c))) {
		p.errorf(tok.Pos, errBadEscape, v)
	}
}

// -----------------------------------------------------------------------------
// Quantifiers
// -----------------------------------------------------------------------------

var quantKinds = map[string]cst.Kind{
	"?": cst.QuestionMark,
	"*": cst.Asterisk,
	"+": cst.Plus,
}

func (p *Parser) parseQuantifier() *cst.Node {
	base := p.tok
	p.next()

	q := cst.New(cst.Quantifier, base.Value, base.Pos)
	switch base.Type {
	case lexer.QUANT:
		q.Append(cst.New(quantKinds[base.Value], base.Value, base.Pos))
	case lexer.BRACE:
		inner := base.Value[1 : len(base.Value)-1]
		innerPos := base.Pos.Advance("{")
		q.Append(
			cst.New(cst.LBrace, "{", base.Pos),
			cst.New(boundsKind(inner), inner, innerPos),
			cst.New(cst.RBrace, "}", innerPos.Advance(inner)),
		)
	}

	if p.tok.Type == lexer.QUANT && p.tok.Value != "*" {
		kind := cst.Lazy
		if p.tok.Value == "+" {
			kind = cst.Possessive
		}
		q.Append(cst.New(kind, p.tok.Value, p.tok.Pos))
		q.Src += p.tok.Value
		p.next()
	}
	if p.isQuantifier() {
		p.errorf(p.tok.Pos, errMultipleRepeat)
	}
	return q
}

func boundsKind(inner string) cst.Kind {
	lo, hi, isRange := strings.Cut(inner, ",")
	switch {
	case !isRange:
		return cst.NExact
	case lo != "" && hi == "":
		return cst.NAtLeast
	case lo == "" && hi != "":
		return cst.NAtMost
	default:
		return cst.NBetween
	}
}

// -----------------------------------------------------------------------------
// Character sets
// -----------------------------------------------------------------------------

func (p *Parser) parseSet() *cst.Node {
	open := p.tok
	p.next()

	set := cst.New(cst.CharSet, "", open.Pos, cst.New(cst.LSquare, "[", open.Pos))
	pos := open.Pos.Advance("[")
	rest := open.Value[1:]
	if strings.HasPrefix(rest, "^") {
		set.Append(cst.New(cst.SetNegation, "^", pos))
		pos = pos.Advance("^")
		rest = rest[1:]
	}

	var items []*cst.Node
	if rest == "]" {
		// A "]" right after the opening bracket is a member.
		items = append(items, cst.New(cst.SetLiteral, "]", pos))
	}
	for p.tok.Type != lexer.SET_CLOSE {
		tok := p.tok
		switch tok.Type {
		case lexer.CHAR:
			kind := cst.SetLiteral
			if tok.Value == "^" {
				kind = cst.Caret
			}
			items = append(items, cst.New(kind, tok.Value, tok.Pos))
		case lexer.SET_HYPHEN:
			items = append(items, cst.New(cst.Hyphen, tok.Value, tok.Pos))
		case lexer.ESCAPE:
			items = append(items, p.setEscape(tok))
		case lexer.ILLEGAL:
			p.errorf(tok.Pos, "%s", tok.Value)
		default:
			p.errorf(open.Pos, errUnterminatedSet)
		}
		p.next()
	}

	set.Append(p.setRanges(items)...)
	set.Append(cst.New(cst.RSquare, "]", p.tok.Pos))
	p.next()
	set.Src = p.textFrom(open.Pos)
	return set
}

// setRanges folds "lo - hi" triples into char_range pairs. A hyphen that
// cannot form a range stays a literal member.
func (p *Parser) setRanges(items []*cst.Node) []cst.Pair {
	var out []cst.Pair
	for i := 0; i < len(items); i++ {
		lo := items[i]
		if i+2 < len(items) && items[i+1].K == cst.Hyphen {
			hyphen, hi := items[i+1], items[i+2]
			text := lo.Src + hyphen.Src + hi.Src
			if lo.K == cst.CharClass || hi.K == cst.CharClass {
				p.errorf(lo.At, errBadRange, text)
			}
			out = append(out, cst.New(cst.CharRange, text, lo.At,
				cst.New(cst.SetLiteral, lo.Src, lo.At),
				hyphen,
				cst.New(cst.SetLiteral, hi.Src, hi.At),
			))
			i += 2
			continue
		}
		out = append(out, lo)
	}
	return out
}

// -----------------------------------------------------------------------------
// Groups
// -----------------------------------------------------------------------------

func (p *Parser) parseComment() *cst.Node {
	open := p.tok
	p.next()

	c := cst.New(cst.CommentGroup, "", open.Pos,
		cst.New(cst.LParen, "(", open.Pos),
		cst.New(cst.QuestionMark, "?", open.Pos.Advance("(")),
		cst.New(cst.Hash, "#", open.Pos.Advance("(?")),
	)
	if p.tok.Type == lexer.COMMENT_TEXT {
		c.Append(cst.New(cst.CommentText, p.tok.Value, p.tok.Pos))
		p.next()
	}
	if p.tok.Type != lexer.RPAREN {
		p.errorf(open.Pos, errUnterminatedCmt)
	}
	c.Append(cst.New(cst.RParen, ")", p.tok.Pos))
	p.next()
	c.Src = p.textFrom(open.Pos)
	return c
}

func (p *Parser) parseGroup() *cst.Node {
	open := p.tok
	p.enter(open.Pos)
	defer p.leave()
	p.next()

	g := cst.New(cst.Group, "", open.Pos, cst.New(cst.LParen, "(", open.Pos))
	if open.Type == lexer.LPAREN {
		if p.tok.Type == lexer.QUANT && p.tok.Value == "?" {
			// "(?" followed by something no group head accepts.
			ahead := p.lexer.Peek(0).Value
			r, _ := utf8.DecodeRuneInString(ahead)
			if ahead == "" {
				p.errorf(p.tok.Pos, "unexpected end of pattern")
			}
			p.errorf(p.tok.Pos, errUnknownExtension, string(r))
		}
		g.Append(p.parseAlternation()...)
		return p.closeGroup(g, open)
	}

	ext := p.parseGroupExt(open)
	g.Append(ext)
	switch ext.Inner[1].Kind() {
	case cst.NamedBackref:
	case cst.Ternary:
		p.parseTernaryBody(g)
	default:
		g.Append(p.parseAlternation()...)
	}
	return p.closeGroup(g, open)
}

func (p *Parser) closeGroup(g *cst.Node, open lexer.Token) *cst.Node {
	if p.tok.Type != lexer.RPAREN {
		p.errorf(open.Pos, errMissingParen)
	}
	g.Append(cst.New(cst.RParen, ")", p.tok.Pos))
	p.next()
	g.Src = p.textFrom(open.Pos)
	return g
}

var extKinds = map[string]cst.Kind{
	":":  cst.NonCapturing,
	">":  cst.Atomic,
	"=":  cst.PosLookahead,
	"!":  cst.NegLookahead,
	"<=": cst.PosLookbehind,
	"<!": cst.NegLookbehind,
}

// parseGroupExt builds the group_ext pair for every group head that
// starts with "(?".
func (p *Parser) parseGroupExt(open lexer.Token) *cst.Node {
	qPos := open.Pos.Advance("(")
	headPos := qPos.Advance("?")
	head := open.Value[2:]

	var kind *cst.Node
	switch open.Type {
	case lexer.EXT_OPEN, lexer.LOOKBEHIND_OPEN:
		kind = cst.New(extKinds[head], head, headPos)

	case lexer.FLAGS_OPEN:
		codes := strings.TrimSuffix(head, ":")
		if strings.Trim(codes, "-") == "" {
			p.errorf(headPos, errMissingFlag)
		}
		kind = cst.New(cst.NonCapturing, head, headPos, cst.New(cst.Flags, codes, headPos))

	case lexer.NAMED_OPEN:
		name := p.expectName(false)
		if p.tok.Type != lexer.NAME_CLOSE {
			p.errorf(p.tok.Pos, "missing >, unterminated name")
		}
		p.next()
		kind = cst.New(cst.Named, head+name.Value+">", headPos,
			cst.New(cst.GroupName, name.Value, name.Pos))

	case lexer.BACKREF_OPEN:
		name := p.expectName(false)
		kind = cst.New(cst.NamedBackref, head+name.Value, headPos,
			cst.New(cst.GroupName, name.Value, name.Pos))

	case lexer.COND_OPEN:
		name := p.expectName(true)
		if p.tok.Type != lexer.COND_CLOSE {
			p.errorf(p.tok.Pos, errMissingParen)
		}
		p.next()
		idKind := cst.NamedGroupID
		if !ast.ParseGroupID(name.Value).IsNamed() {
			idKind = cst.NumberedGroupID
		}
		kind = cst.New(cst.Ternary, head+name.Value+")", headPos,
			cst.New(idKind, name.Value, name.Pos))
	}

	return cst.New(cst.GroupExt, "?"+kind.Src, qPos,
		cst.New(cst.QuestionMark, "?", qPos),
		kind,
	)
}

// expectName consumes a group name. Conditionals also accept a group
// number.
func (p *Parser) expectName(allowNumber bool) lexer.Token {
	tok := p.tok
	if tok.Type != lexer.NAME {
		p.errorf(tok.Pos, errMissingGroupName)
	}
	if !(allowNumber && isNumber(tok.Value)) && !isIdentifier(tok.Value) {
		p.errorf(tok.Pos, errBadGroupName, tok.Value)
	}
	p.next()
	return tok
}

func (p *Parser) parseTernaryBody(g *cst.Node) {
	start := p.tok.Pos
	g.Append(p.branch(p.parseSequence(), start))
	if p.tok.Type != lexer.PIPE {
		return
	}
	g.Append(cst.New(cst.Pipe, "|", p.tok.Pos))
	p.next()
	start = p.tok.Pos
	g.Append(p.branch(p.parseSequence(), start))
	if p.tok.Type == lexer.PIPE {
		p.errorf(p.tok.Pos, errTooManyBranches)
	}
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}
