package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/kolkov/reggie/charset"
)

// Printer renders AST nodes back to pattern text.
// Rendering is the inverse of the builder for every tree it produces.
type Printer struct {
	w   io.Writer
	err error
}

// NewPrinter creates a new Printer that writes to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Print writes the pattern text of node to the writer.
func (p *Printer) Print(node Node) error {
	p.printNode(node)
	return p.err
}

// String returns the pattern text of node.
func String(node Node) string {
	var sb strings.Builder
	NewPrinter(&sb).Print(node)
	return sb.String()
}

func (p *Printer) write(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *Printer) printNode(node Node) {
	if isNil(node) {
		return
	}

	switch n := node.(type) {
	case *Pattern:
		if !n.Flags.IsEmpty() {
			p.write("(" + n.Flags.String() + ")")
		}
		p.printList(n.SubPatterns)
	case *Alternatives:
		for i, a := range n.Alternatives {
			if i > 0 {
				p.write("|")
			}
			p.printBranch(a)
		}
	case *Sequence:
		p.printList(n.Items)
	case *Quantified:
		p.printQuantified(n)
	case *ZeroWidth:
		p.write(n.Kind.String())
	case *Comment:
		p.write("(?#" + n.Text + ")")
	case *Literal:
		p.write(escapeLiteral(n.Value))
	case *CharSet:
		p.write(charSetString(n))
	case *Group:
		p.write("(" + groupHead(n))
		p.printList(n.Components)
		p.write(")")
	case *NamedBackref:
		p.write("(?P=" + n.Name + ")")
	case *NumberedBackref:
		p.write(`\` + strconv.Itoa(n.Index))
	case *Ternary:
		p.write("(?(" + n.ID.String() + ")")
		p.printBranch(n.Yes)
		if n.No != nil {
			p.write("|")
			p.printBranch(n.No)
		}
		p.write(")")
	default:
		p.write(fmt.Sprintf("<%T>", node))
	}
}

// printList renders a run of sub-patterns. An alternation that shares the
// run with other items is bracketed so it keeps its extent, and a numbered
// backreference followed by a digit is bracketed so the digit is not read
// as part of the group number.
func (p *Printer) printList(list []SubPattern) {
	for i, s := range list {
		switch n := s.(type) {
		case *Alternatives:
			if len(list) > 1 {
				p.write("(?:")
				p.printNode(n)
				p.write(")")
				continue
			}
		case *NumberedBackref:
			if i+1 < len(list) && startsWithDigit(list[i+1]) {
				p.write("(?:")
				p.printNode(n)
				p.write(")")
				continue
			}
		}
		p.printNode(s)
	}
}

// printBranch renders one branch of an alternation or conditional.
func (p *Printer) printBranch(s SubPattern) {
	if a, ok := s.(*Alternatives); ok {
		p.write("(?:")
		p.printNode(a)
		p.write(")")
		return
	}
	p.printNode(s)
}

func (p *Printer) printQuantified(n *Quantified) {
	wrap := false
	if n.Quantifier != nil {
		if lit, ok := n.Item.(*Literal); ok && len([]rune(lit.Value)) != 1 {
			wrap = true
		}
	}
	if wrap {
		p.write("(?:")
	}
	p.printNode(n.Item)
	if wrap {
		p.write(")")
	}
	if n.Quantifier != nil {
		p.write(n.Quantifier.String())
	}
}

func groupHead(g *Group) string {
	switch g.Ext {
	case ExtNone:
		if g.Name != "" {
			return "?P<" + g.Name + ">"
		}
		return ""
	case ExtNonCapturing:
		if g.Flags.IsEmpty() {
			return "?:"
		}
		return g.Flags.String() + ":"
	default:
		return g.Ext.String()
	}
}

func startsWithDigit(s SubPattern) bool {
	switch n := s.(type) {
	case *Quantified:
		if lit, ok := n.Item.(*Literal); ok && lit.Value != "" {
			return lit.Value[0] >= '0' && lit.Value[0] <= '9'
		}
	case *Sequence:
		return len(n.Items) > 0 && startsWithDigit(n.Items[0])
	}
	return false
}

// ----------------------------------------------------------------------------
// Escaping

const (
	literalSpecials = `.^$*+?()[]{}|\`
	setSpecials     = `\]-^[`
)

func escapeLiteral(s string) string {
	var sb strings.Builder
	for _, r := range s {
		writeRune(&sb, r, literalSpecials)
	}
	return sb.String()
}

func writeRune(sb *strings.Builder, r rune, specials string) {
	switch {
	case r < unicode.MaxASCII && strings.ContainsRune(specials, r):
		sb.WriteByte('\\')
		sb.WriteRune(r)
	case r == '\n':
		sb.WriteString(`\n`)
	case r == '\t':
		sb.WriteString(`\t`)
	case r == '\r':
		sb.WriteString(`\r`)
	case r == '\f':
		sb.WriteString(`\f`)
	case r == '\v':
		sb.WriteString(`\v`)
	case unicode.IsPrint(r):
		sb.WriteRune(r)
	case r < 0x100:
		fmt.Fprintf(sb, `\x%02x`, r)
	case r < 0x10000:
		fmt.Fprintf(sb, `\u%04x`, r)
	default:
		fmt.Fprintf(sb, `\U%08x`, r)
	}
}

func charSetString(n *CharSet) string {
	if n.Shorthand != "" {
		return n.Shorthand
	}
	set, negated := n.Set, n.Negated
	if set == nil {
		set = charset.NewSet()
	}
	if negated {
		set = set.Complement()
	}
	// Neither "[]" nor "[^]" is valid pattern text.
	if set.IsEmpty() {
		set, negated = set.Complement(), !negated
	}

	var sb strings.Builder
	sb.WriteByte('[')
	if negated {
		sb.WriteByte('^')
	}
	for s := range set.All() {
		writeRune(&sb, s.Lo, setSpecials)
		if s.Hi == s.Lo {
			continue
		}
		if s.Hi > s.Lo+1 {
			sb.WriteByte('-')
		}
		writeRune(&sb, s.Hi, setSpecials)
	}
	sb.WriteByte(']')
	return sb.String()
}
