package semantic

import (
	"github.com/kolkov/reggie/ast"
)

// GroupIndex maps group numbers and names to capturing groups. It holds
// pointers into the pattern and must not outlive it.
type GroupIndex struct {
	// Pattern is the indexed tree; it answers Nth(0).
	Pattern *ast.Pattern

	// Indexed lists capturing groups in pre-order; group n is Indexed[n-1].
	Indexed []*ast.Group

	// Named maps each group name to the first group declaring it.
	Named map[string]*ast.Group

	numbers map[*ast.Group]int
}

// Index numbers the capturing groups of p in pre-order, left to right,
// descending into every group kind and both branches of conditionals.
func Index(p *ast.Pattern) *GroupIndex {
	idx := &GroupIndex{
		Pattern: p,
		Named:   make(map[string]*ast.Group),
		numbers: make(map[*ast.Group]int),
	}
	ast.Inspect(p, func(n ast.Node) {
		g, ok := n.(*ast.Group)
		if !ok || !g.IsCapturing() {
			return
		}
		idx.Indexed = append(idx.Indexed, g)
		idx.numbers[g] = len(idx.Indexed)
		if g.Name != "" {
			if _, dup := idx.Named[g.Name]; !dup {
				idx.Named[g.Name] = g
			}
		}
	})
	return idx
}

// Count returns the number of capturing groups.
func (idx *GroupIndex) Count() int {
	return len(idx.Indexed)
}

// Nth returns group n. Group 0 is the whole pattern.
func (idx *GroupIndex) Nth(n int) (ast.Node, bool) {
	switch {
	case n == 0:
		return idx.Pattern, true
	case n > 0 && n <= len(idx.Indexed):
		return idx.Indexed[n-1], true
	}
	return nil, false
}

// Lookup returns the group declared with name.
func (idx *GroupIndex) Lookup(name string) (*ast.Group, bool) {
	g, ok := idx.Named[name]
	return g, ok
}

// Resolve returns the capturing group id refers to. Group 0 is not a
// group and never resolves.
func (idx *GroupIndex) Resolve(id ast.GroupID) (*ast.Group, bool) {
	if id.IsNamed() {
		return idx.Lookup(id.Name)
	}
	if id.Index < 1 || id.Index > len(idx.Indexed) {
		return nil, false
	}
	return idx.Indexed[id.Index-1], true
}

// Number returns the group number of g.
func (idx *GroupIndex) Number(g *ast.Group) (int, bool) {
	n, ok := idx.numbers[g]
	return n, ok
}

// SubexpNames returns the name of every group, indexed by group number.
// Entry 0 and unnamed groups are empty.
func (idx *GroupIndex) SubexpNames() []string {
	names := make([]string, len(idx.Indexed)+1)
	for i, g := range idx.Indexed {
		names[i+1] = g.Name
	}
	return names
}
