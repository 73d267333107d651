// Package engine runs built patterns on real matching engines.
//
// A pattern is translated into the source dialect of one backend:
//   - RE2: github.com/coregx/coregex, linear time, no lookaround,
//     backreferences, atomic groups, conditionals or case folding
//   - Backtrack: github.com/dlclark/regexp2, full feature set with a
//     match timeout
//
// Character sets are always written out as explicit ranges, so class
// semantics follow the AST and not the backend's own tables.
package engine

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/kolkov/reggie/ast"
	"github.com/kolkov/reggie/charset"
	"github.com/kolkov/reggie/token"
)

// Dialect selects a matching backend.
type Dialect uint8

const (
	Auto      Dialect = iota // RE2 when the pattern allows it, else Backtrack
	RE2                      // coregex
	Backtrack                // regexp2
)

var dialectNames = [...]string{
	Auto:      "auto",
	RE2:       "re2",
	Backtrack: "backtrack",
}

func (d Dialect) String() string {
	if int(d) < len(dialectNames) {
		return dialectNames[d]
	}
	return "Dialect(" + strconv.Itoa(int(d)) + ")"
}

// ParseDialect parses "auto", "re2" or "backtrack".
func ParseDialect(name string) (Dialect, error) {
	for d, n := range dialectNames {
		if strings.EqualFold(name, n) {
			return Dialect(d), nil
		}
	}
	return 0, fmt.Errorf("unknown dialect %q", name)
}

// UnsupportedError reports a construct the dialect cannot express.
type UnsupportedError struct {
	Construct string
	Pos       token.Position
	Dialect   Dialect
}

func (e *UnsupportedError) Error() string {
	msg := fmt.Sprintf("%s is not supported by the %s dialect", e.Construct, e.Dialect)
	if e.Pos.IsValid() {
		return e.Pos.String() + ": " + msg
	}
	return msg
}

// Translate renders p in the source syntax of dialect d. Auto is
// translated as RE2.
func Translate(p *ast.Pattern, d Dialect) (string, error) {
	if d == Auto {
		d = RE2
	}
	t := &translator{dialect: d}
	t.pattern(p)
	if t.err != nil {
		return "", t.err
	}
	return t.sb.String(), nil
}

// translator writes one pattern. The first error sticks and stops output.
type translator struct {
	sb      strings.Builder
	dialect Dialect
	err     error
}

func (t *translator) write(s string) {
	if t.err == nil {
		t.sb.WriteString(s)
	}
}

func (t *translator) unsupported(construct string, n ast.Node) {
	if t.err == nil {
		t.err = &UnsupportedError{Construct: construct, Pos: n.Pos(), Dialect: t.dialect}
	}
}

// flags returns the codes the dialect keeps. RE2 rejects the rest;
// Backtrack drops them. Turning case folding on is rejected for RE2
// since coregex matches case-sensitively regardless; turning it off is
// kept.
func (t *translator) flags(n ast.Node, set ast.FlagSet, on bool) string {
	var keep strings.Builder
	for _, f := range set.Flags() {
		switch f {
		case ast.FlagIgnoreCase:
			if t.dialect == RE2 && on {
				t.unsupported("ignorecase flag", n)
			} else {
				keep.WriteByte(f.Code())
			}
		case ast.FlagMultiline, ast.FlagDotAll:
			keep.WriteByte(f.Code())
		case ast.FlagVerbose:
			if t.dialect == RE2 {
				t.unsupported("verbose flag", n)
			} else {
				keep.WriteByte(f.Code())
			}
		default:
			if t.dialect == RE2 {
				t.unsupported(f.String()+" flag", n)
			}
		}
	}
	return keep.String()
}

func (t *translator) pattern(p *ast.Pattern) {
	if codes := t.flags(p, p.Flags, true); codes != "" {
		t.write("(?" + codes + ")")
	}
	t.list(p.SubPatterns)
}

func (t *translator) list(list []ast.SubPattern) {
	for _, s := range list {
		if _, ok := s.(*ast.Alternatives); ok && len(list) > 1 {
			t.write("(?:")
			t.node(s)
			t.write(")")
			continue
		}
		t.node(s)
	}
}

func (t *translator) node(node ast.Node) {
	switch n := node.(type) {
	case *ast.Alternatives:
		for i, alt := range n.Alternatives {
			if i > 0 {
				t.write("|")
			}
			t.node(alt)
		}
	case *ast.Sequence:
		t.list(n.Items)
	case *ast.Quantified:
		t.quantified(n)
	case *ast.ZeroWidth:
		t.zeroWidth(n)
	case *ast.Comment:
		// no semantics
	case *ast.Literal:
		t.write(t.literal(n.Value))
	case *ast.CharSet:
		t.write(t.charSet(n))
	case *ast.Group:
		t.group(n)
	case *ast.NamedBackref:
		if t.dialect == RE2 {
			t.unsupported("backreference", n)
			return
		}
		t.write(`\k<` + n.Name + ">")
	case *ast.NumberedBackref:
		if t.dialect == RE2 {
			t.unsupported("backreference", n)
			return
		}
		t.write(`\k<` + strconv.Itoa(n.Index) + ">")
	case *ast.Ternary:
		t.ternary(n)
	}
}

func (t *translator) quantified(n *ast.Quantified) {
	q := n.Quantifier
	if q == nil {
		t.node(n.Item)
		return
	}
	possessive := q.Greed == ast.Possessive
	if possessive {
		if t.dialect == RE2 {
			t.unsupported("possessive quantifier", n)
			return
		}
		t.write("(?>")
	}

	if lit, ok := n.Item.(*ast.Literal); ok && len([]rune(lit.Value)) != 1 {
		t.write("(?:")
		t.node(n.Item)
		t.write(")")
	} else {
		t.node(n.Item)
	}
	t.write(t.repeat(q))

	if possessive {
		t.write(")")
	}
}

// repeat renders a quantifier without a possessive suffix. An absent
// lower bound is written as 0.
func (t *translator) repeat(q *ast.Quantifier) string {
	var s string
	switch q.Kind {
	case ast.ZeroOrOne:
		s = "?"
	case ast.ZeroOrMore:
		s = "*"
	case ast.OneOrMore:
		s = "+"
	case ast.Exact:
		s = "{" + strconv.Itoa(q.Min) + "}"
	case ast.Range:
		lo, hi := max(q.Min, 0), ""
		if q.Max != ast.NoBound {
			hi = strconv.Itoa(q.Max)
		}
		s = "{" + strconv.Itoa(lo) + "," + hi + "}"
	}
	if q.Greed == ast.NonGreedy {
		s += "?"
	}
	return s
}

func (t *translator) zeroWidth(n *ast.ZeroWidth) {
	switch n.Kind {
	case ast.InputEnd:
		t.write(`\z`)
	default:
		t.write(n.Kind.String())
	}
}

func (t *translator) group(g *ast.Group) {
	switch g.Ext {
	case ast.ExtNone:
		switch {
		case g.Name == "":
			t.write("(")
		case t.dialect == RE2:
			t.write("(?P<" + g.Name + ">")
		default:
			t.write("(?<" + g.Name + ">")
		}
	case ast.ExtNonCapturing:
		on := t.flags(g, g.Flags.On, true)
		off := t.flags(g, g.Flags.Off, false)
		if off != "" {
			on += "-" + off
		}
		t.write("(?" + on + ":")
	default:
		if t.dialect == RE2 {
			t.unsupported(extNames[g.Ext], g)
			return
		}
		t.write("(" + g.Ext.String())
	}
	t.list(g.Components)
	t.write(")")
}

var extNames = map[ast.GroupExt]string{
	ast.ExtAtomic:        "atomic group",
	ast.ExtPosLookahead:  "lookahead",
	ast.ExtNegLookahead:  "negative lookahead",
	ast.ExtPosLookbehind: "lookbehind",
	ast.ExtNegLookbehind: "negative lookbehind",
}

func (t *translator) ternary(n *ast.Ternary) {
	if t.dialect == RE2 {
		t.unsupported("conditional group", n)
		return
	}
	t.write("(?(" + n.ID.String() + ")")
	t.node(n.Yes)
	if n.No != nil {
		t.write("|")
		t.node(n.No)
	}
	t.write(")")
}

// ----------------------------------------------------------------------------
// Characters

const (
	literalSpecials = `\.+*?()|[]{}^$#`
	setSpecials     = `\]-^[`
)

func (t *translator) literal(s string) string {
	var sb strings.Builder
	for _, r := range s {
		t.writeRune(&sb, r, literalSpecials)
	}
	return sb.String()
}

func (t *translator) writeRune(sb *strings.Builder, r rune, specials string) {
	switch {
	case strings.ContainsRune(specials, r):
		sb.WriteByte('\\')
		sb.WriteRune(r)
	case r == ' ' && t.dialect == Backtrack:
		// verbose mode would drop a bare space
		sb.WriteString(`\x20`)
	case unicode.IsPrint(r):
		sb.WriteRune(r)
	case r < 0x100:
		fmt.Fprintf(sb, `\x%02X`, r)
	case t.dialect == RE2:
		fmt.Fprintf(sb, `\x{%X}`, r)
	case r <= 0xFFFF:
		fmt.Fprintf(sb, `\u%04X`, r)
	default:
		sb.WriteRune(r)
	}
}

// charSet writes a bracket expression from the effective membership,
// choosing the shorter of the set and its negated complement.
func (t *translator) charSet(n *ast.CharSet) string {
	if n.Shorthand == "." {
		return "."
	}
	set := n.Set
	comp := set.Complement()
	switch {
	case set.IsEmpty():
		if t.dialect == RE2 {
			return `[^\x00-\x{10FFFF}]`
		}
		return "(?!)"
	case comp.IsEmpty():
		if t.dialect == RE2 {
			return `[\x00-\x{10FFFF}]`
		}
		return `[\s\S]`
	case comp.Len() < set.Len():
		return "[^" + t.spans(comp) + "]"
	default:
		return "[" + t.spans(set) + "]"
	}
}

func (t *translator) spans(set *charset.Set) string {
	var sb strings.Builder
	for s := range set.All() {
		t.writeRune(&sb, s.Lo, setSpecials)
		if s.Hi != s.Lo {
			sb.WriteByte('-')
			t.writeRune(&sb, s.Hi, setSpecials)
		}
	}
	return sb.String()
}
