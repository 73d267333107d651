package cst

import (
	"fmt"
	"io"
	"strings"

	"github.com/kolkov/reggie/token"
)

// Pair is one node of a parse tree.
type Pair interface {
	// Kind returns the syntactic kind of the pair.
	Kind() Kind
	// Text returns the exact source text spanned by the pair.
	Text() string
	// Pos returns the position of the first character of the pair.
	Pos() token.Position
	// Children returns the ordered inner pairs.
	Children() []Pair
}

// End returns the position immediately after the pair.
func End(p Pair) token.Position {
	return p.Pos().Advance(p.Text())
}

// Node is the Pair implementation produced by the bundled grammar.
// It is also convenient for building parse trees by hand.
type Node struct {
	K     Kind
	Src   string
	At    token.Position
	Inner []Pair
}

// New creates a Node.
func New(kind Kind, text string, pos token.Position, children ...Pair) *Node {
	return &Node{K: kind, Src: text, At: pos, Inner: children}
}

func (n *Node) Kind() Kind          { return n.K }
func (n *Node) Text() string        { return n.Src }
func (n *Node) Pos() token.Position { return n.At }
func (n *Node) Children() []Pair    { return n.Inner }

// Append adds children to the node.
func (n *Node) Append(children ...Pair) {
	n.Inner = append(n.Inner, children...)
}

// Fprint writes an indented dump of the tree rooted at p.
func Fprint(w io.Writer, p Pair) error {
	var sb strings.Builder
	dump(&sb, p, 0)
	_, err := io.WriteString(w, sb.String())
	return err
}

// Sprint returns an indented dump of the tree rooted at p.
func Sprint(p Pair) string {
	var sb strings.Builder
	dump(&sb, p, 0)
	return sb.String()
}

func dump(sb *strings.Builder, p Pair, depth int) {
	for i := 0; i < depth; i++ {
		sb.WriteString("  ")
	}
	if p == nil {
		sb.WriteString("<nil>\n")
		return
	}
	fmt.Fprintf(sb, "%s %q @%s\n", p.Kind(), p.Text(), p.Pos())
	for _, c := range p.Children() {
		dump(sb, c, depth+1)
	}
}
