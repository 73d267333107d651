package ast

import (
	"fmt"
	"io"
	"strconv"
)

// Fdump writes an indented, human-readable tree of node for debugging.
func Fdump(w io.Writer, node Node) error {
	d := &dumper{w: w}
	d.dump(node)
	return d.err
}

type dumper struct {
	w      io.Writer
	indent int
	err    error
}

func (d *dumper) printf(format string, args ...any) {
	if d.err != nil {
		return
	}
	for i := 0; i < d.indent; i++ {
		if _, d.err = io.WriteString(d.w, "  "); d.err != nil {
			return
		}
	}
	_, d.err = fmt.Fprintf(d.w, format+"\n", args...)
}

func (d *dumper) dump(node Node) {
	if isNil(node) {
		d.printf("<nil>")
		return
	}

	switch n := node.(type) {
	case *Pattern:
		d.printf("Pattern flags=%q", n.Flags.Codes())
	case *Alternatives:
		d.printf("Alternatives (%d)", len(n.Alternatives))
	case *Sequence:
		d.printf("Sequence (%d)", len(n.Items))
	case *Quantified:
		if n.Quantifier == nil {
			d.printf("Quantified")
		} else {
			d.printf("Quantified %s", n.Quantifier)
		}
	case *ZeroWidth:
		d.printf("ZeroWidth %s", n.Kind)
	case *Comment:
		d.printf("Comment %q", n.Text)
	case *Literal:
		d.printf("Literal %q", n.Value)
	case *CharSet:
		d.printf("CharSet %s %s", charSetString(n), n.Set)
	case *Group:
		label := "capturing"
		switch {
		case n.Name != "":
			label = "named " + strconv.Quote(n.Name)
		case n.Ext != ExtNone:
			label = "(" + n.Ext.String()
		}
		if !n.Flags.IsEmpty() {
			label += " flags=" + n.Flags.Codes()
		}
		d.printf("Group %s", label)
	case *NamedBackref:
		d.printf("NamedBackref %q", n.Name)
	case *NumberedBackref:
		d.printf("NumberedBackref %d", n.Index)
	case *Ternary:
		d.printf("Ternary id=%s", n.ID)
	default:
		d.printf("<%T>", node)
		return
	}

	d.indent++
	if q, ok := node.(*Quantified); ok {
		d.dump(q.Item)
	} else {
		for _, c := range Children(node) {
			d.dump(c)
		}
	}
	d.indent--
}
