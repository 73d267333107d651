package ast

import "unicode/utf8"

// MinMatchLen returns the minimum number of characters node consumes on
// any successful match.
func MinMatchLen(node Node) int {
	return Accept[int](node, minLen{})
}

// IsFinite reports whether the longest possible match of node is bounded.
func IsFinite(node Node) bool {
	return Accept[bool](node, finite{})
}

// MaxMatchLen returns the maximum number of characters node can consume,
// or false when that is unbounded. Backreferences count as unbounded.
func MaxMatchLen(node Node) (int, bool) {
	r := Accept[maxResult](node, maxLen{})
	return r.n, r.ok
}

// GroupsCount returns the number of capturing groups in node.
func GroupsCount(node Node) int {
	count := 0
	Inspect(node, func(n Node) {
		if g, ok := n.(*Group); ok && g.IsCapturing() {
			count++
		}
	})
	return count
}

// EffectiveFlags folds the group's own flags with the flags of the groups
// below it, in document order, keeping the first non-empty override.
func (g *Group) EffectiveFlags() GroupFlags {
	flags := g.Flags
	for _, c := range g.Components {
		Inspect(c, func(n Node) {
			if inner, ok := n.(*Group); ok {
				flags = flags.Combine(inner.Flags)
			}
		})
	}
	return flags
}

// ----------------------------------------------------------------------------
// Minimum length

type minLen struct{}

func (v minLen) sum(list []SubPattern) int {
	total := 0
	for _, s := range list {
		total += Accept[int](s, v)
	}
	return total
}

func (v minLen) VisitPattern(n *Pattern) int   { return v.sum(n.SubPatterns) }
func (v minLen) VisitSequence(n *Sequence) int { return v.sum(n.Items) }

func (v minLen) VisitAlternatives(n *Alternatives) int {
	best := -1
	for _, a := range n.Alternatives {
		if l := Accept[int](a, v); best < 0 || l < best {
			best = l
		}
	}
	return max(best, 0)
}

func (v minLen) VisitQuantified(n *Quantified) int {
	l := Accept[int](n.Item, v)
	if n.Quantifier == nil {
		return l
	}
	return l * n.Quantifier.MinLenMultiplier()
}

func (minLen) VisitZeroWidth(*ZeroWidth) int { return 0 }
func (minLen) VisitComment(*Comment) int     { return 0 }
func (minLen) VisitLiteral(n *Literal) int   { return utf8.RuneCountInString(n.Value) }
func (minLen) VisitCharSet(*CharSet) int     { return 1 }

func (v minLen) VisitGroup(n *Group) int {
	if n.Ext.IsLookaround() {
		return 0
	}
	return v.sum(n.Components)
}

func (minLen) VisitNamedBackref(*NamedBackref) int       { return 0 }
func (minLen) VisitNumberedBackref(*NumberedBackref) int { return 0 }

func (v minLen) VisitTernary(n *Ternary) int {
	if n.No == nil {
		return 0
	}
	return min(Accept[int](n.Yes, v), Accept[int](n.No, v))
}

// ----------------------------------------------------------------------------
// Finiteness

type finite struct{}

func (v finite) all(list []SubPattern) bool {
	for _, s := range list {
		if !Accept[bool](s, v) {
			return false
		}
	}
	return true
}

func (v finite) VisitPattern(n *Pattern) bool           { return v.all(n.SubPatterns) }
func (v finite) VisitAlternatives(n *Alternatives) bool { return v.all(n.Alternatives) }
func (v finite) VisitSequence(n *Sequence) bool         { return v.all(n.Items) }

func (v finite) VisitQuantified(n *Quantified) bool {
	q := n.Quantifier
	if q != nil {
		if m, ok := q.MaxLenMultiplier(); ok && m == 0 {
			return true
		}
		if !q.IsFinite() {
			return false
		}
	}
	return Accept[bool](n.Item, v)
}

func (finite) VisitZeroWidth(*ZeroWidth) bool { return true }
func (finite) VisitComment(*Comment) bool     { return true }
func (finite) VisitLiteral(*Literal) bool     { return true }
func (finite) VisitCharSet(*CharSet) bool     { return true }

func (v finite) VisitGroup(n *Group) bool {
	if n.Ext.IsLookaround() {
		return true
	}
	return v.all(n.Components)
}

func (finite) VisitNamedBackref(*NamedBackref) bool       { return true }
func (finite) VisitNumberedBackref(*NumberedBackref) bool { return true }

func (v finite) VisitTernary(n *Ternary) bool {
	if !Accept[bool](n.Yes, v) {
		return false
	}
	return n.No == nil || Accept[bool](n.No, v)
}

// ----------------------------------------------------------------------------
// Maximum length

type maxResult struct {
	n  int
	ok bool
}

var unbounded = maxResult{}

type maxLen struct{}

func (v maxLen) sum(list []SubPattern) maxResult {
	total := maxResult{ok: true}
	for _, s := range list {
		r := Accept[maxResult](s, v)
		if !r.ok {
			return unbounded
		}
		total.n += r.n
	}
	return total
}

func (v maxLen) VisitPattern(n *Pattern) maxResult   { return v.sum(n.SubPatterns) }
func (v maxLen) VisitSequence(n *Sequence) maxResult { return v.sum(n.Items) }

func (v maxLen) VisitAlternatives(n *Alternatives) maxResult {
	best := maxResult{ok: true}
	for _, a := range n.Alternatives {
		r := Accept[maxResult](a, v)
		if !r.ok {
			return unbounded
		}
		best.n = max(best.n, r.n)
	}
	return best
}

func (v maxLen) VisitQuantified(n *Quantified) maxResult {
	r := Accept[maxResult](n.Item, v)
	q := n.Quantifier
	if q == nil {
		return r
	}
	m, ok := q.MaxLenMultiplier()
	if ok && m == 0 {
		return maxResult{ok: true}
	}
	if !ok || !r.ok {
		return unbounded
	}
	return maxResult{n: r.n * m, ok: true}
}

func (maxLen) VisitZeroWidth(*ZeroWidth) maxResult { return maxResult{ok: true} }
func (maxLen) VisitComment(*Comment) maxResult     { return maxResult{ok: true} }

func (maxLen) VisitLiteral(n *Literal) maxResult {
	return maxResult{n: utf8.RuneCountInString(n.Value), ok: true}
}

func (maxLen) VisitCharSet(*CharSet) maxResult { return maxResult{n: 1, ok: true} }

func (v maxLen) VisitGroup(n *Group) maxResult {
	if n.Ext.IsLookaround() {
		return maxResult{ok: true}
	}
	return v.sum(n.Components)
}

func (maxLen) VisitNamedBackref(*NamedBackref) maxResult       { return unbounded }
func (maxLen) VisitNumberedBackref(*NumberedBackref) maxResult { return unbounded }

func (v maxLen) VisitTernary(n *Ternary) maxResult {
	yes := Accept[maxResult](n.Yes, v)
	no := maxResult{ok: true}
	if n.No != nil {
		no = Accept[maxResult](n.No, v)
	}
	if !yes.ok || !no.ok {
		return unbounded
	}
	return maxResult{n: max(yes.n, no.n), ok: true}
}
