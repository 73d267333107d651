package ast

// Visitor defines the generic visitor pattern for AST traversal.
// Type parameter T is the return type of visit methods.
//
// Example usage for measuring:
//
//	type widths struct{}
//	func (widths) VisitLiteral(n *Literal) int { return utf8.RuneCountInString(n.Value) }
//	func (widths) VisitCharSet(n *CharSet) int { return 1 }
//	// ... other methods
type Visitor[T any] interface {
	VisitPattern(*Pattern) T

	// Sub-patterns
	VisitAlternatives(*Alternatives) T
	VisitSequence(*Sequence) T
	VisitQuantified(*Quantified) T
	VisitZeroWidth(*ZeroWidth) T
	VisitComment(*Comment) T

	// Elements
	VisitLiteral(*Literal) T
	VisitCharSet(*CharSet) T

	// Groups
	VisitGroup(*Group) T
	VisitNamedBackref(*NamedBackref) T
	VisitNumberedBackref(*NumberedBackref) T
	VisitTernary(*Ternary) T
}

// Accept dispatches node to the matching method of v.
// A nil node or an unknown node type yields the zero value of T.
func Accept[T any](node Node, v Visitor[T]) T {
	switch n := node.(type) {
	case *Pattern:
		return v.VisitPattern(n)
	case *Alternatives:
		return v.VisitAlternatives(n)
	case *Sequence:
		return v.VisitSequence(n)
	case *Quantified:
		return v.VisitQuantified(n)
	case *ZeroWidth:
		return v.VisitZeroWidth(n)
	case *Comment:
		return v.VisitComment(n)
	case *Literal:
		return v.VisitLiteral(n)
	case *CharSet:
		return v.VisitCharSet(n)
	case *Group:
		return v.VisitGroup(n)
	case *NamedBackref:
		return v.VisitNamedBackref(n)
	case *NumberedBackref:
		return v.VisitNumberedBackref(n)
	case *Ternary:
		return v.VisitTernary(n)
	}
	var zero T
	return zero
}

// Walk traverses an AST in depth-first order.
// For each node, it calls fn(node). If fn returns false,
// the children of that node are not visited.
//
// Example: count capturing groups
//
//	count := 0
//	ast.Walk(pattern, func(n ast.Node) bool {
//	    if g, ok := n.(*ast.Group); ok && g.IsCapturing() {
//	        count++
//	    }
//	    return true
//	})
func Walk(node Node, fn func(Node) bool) {
	if isNil(node) || !fn(node) {
		return
	}

	switch n := node.(type) {
	case *Pattern:
		walkList(n.SubPatterns, fn)
	case *Alternatives:
		walkList(n.Alternatives, fn)
	case *Sequence:
		walkList(n.Items, fn)
	case *Quantified:
		Walk(n.Item, fn)
	case *Group:
		walkList(n.Components, fn)
	case *Ternary:
		Walk(n.Yes, fn)
		if n.No != nil {
			Walk(n.No, fn)
		}

	case *ZeroWidth, *Comment, *Literal, *CharSet, *NamedBackref, *NumberedBackref:
		// no children
	}
}

func walkList(list []SubPattern, fn func(Node) bool) {
	for _, s := range list {
		Walk(s, fn)
	}
}

// isNil catches both a nil interface and a typed nil pointer stored in
// one, e.g. a Ternary's absent No branch passed as SubPattern.
func isNil(node Node) bool {
	if node == nil {
		return true
	}
	switch n := node.(type) {
	case *Pattern:
		return n == nil
	case *Alternatives:
		return n == nil
	case *Sequence:
		return n == nil
	case *Quantified:
		return n == nil
	case *Group:
		return n == nil
	case *Ternary:
		return n == nil
	}
	return false
}

// Inspect traverses an AST and calls fn for each node.
// It is a convenience wrapper around Walk that always continues.
func Inspect(node Node, fn func(Node)) {
	Walk(node, func(n Node) bool {
		fn(n)
		return true
	})
}

// Children returns the direct sub-patterns of node, in order.
func Children(node Node) []SubPattern {
	switch n := node.(type) {
	case *Pattern:
		return n.SubPatterns
	case *Alternatives:
		return n.Alternatives
	case *Sequence:
		return n.Items
	case *Group:
		return n.Components
	case *Ternary:
		if n.No == nil {
			return []SubPattern{n.Yes}
		}
		return []SubPattern{n.Yes, n.No}
	case *Quantified:
		if s, ok := n.Item.(SubPattern); ok {
			return []SubPattern{s}
		}
	}
	return nil
}
