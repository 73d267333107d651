package semantic

import (
	"github.com/kolkov/reggie/ast"
	"github.com/kolkov/reggie/token"
)

// Checker validates references and flags in document order.
type Checker struct {
	index    *GroupIndex
	errors   ErrorList
	warnings WarningList

	// Context tracking
	opened int                 // capturing groups opened so far
	open   map[*ast.Group]bool // groups whose body is being checked
}

// Check validates p against its group index. Every problem is collected;
// the returned error is an ErrorList.
func Check(p *ast.Pattern, idx *GroupIndex) (WarningList, error) {
	c := &Checker{
		index: idx,
		open:  make(map[*ast.Group]bool),
	}
	c.checkPattern(p)
	return c.warnings, c.errors.Err()
}

// Validate indexes and checks p in one step.
func Validate(p *ast.Pattern) (*GroupIndex, WarningList, error) {
	idx := Index(p)
	warnings, err := Check(p, idx)
	return idx, warnings, err
}

func (c *Checker) checkPattern(p *ast.Pattern) {
	c.checkFlags(p.Pos(), p.Flags)
	c.checkNames()
	c.checkList(p.SubPatterns, p.Flags)
}

// checkNames reports every group that reuses an earlier name.
func (c *Checker) checkNames() {
	for i, g := range c.index.Indexed {
		if g.Name == "" {
			continue
		}
		first := c.index.Named[g.Name]
		if first != g {
			was, _ := c.index.Number(first)
			c.errors.Add(g.Pos(), errDuplicateName, g.Name, i+1, was)
		}
	}
}

// checkFlags warns about flags that are legal in the tree but that
// engines either reject together or ignore on text patterns.
func (c *Checker) checkFlags(pos token.Position, flags ast.FlagSet) {
	if flags.Has(ast.FlagASCII) && flags.Has(ast.FlagUnicode) {
		c.warnings.Add(pos, warnASCIIUnicode)
	}
	if flags.Has(ast.FlagLocale) {
		c.warnings.Add(pos, warnLocaleStr)
	}
}

func (c *Checker) checkList(list []ast.SubPattern, scope ast.FlagSet) {
	for _, s := range list {
		c.check(s, scope)
	}
}

func (c *Checker) check(node ast.Node, scope ast.FlagSet) {
	switch n := node.(type) {
	case *ast.Alternatives:
		c.checkList(n.Alternatives, scope)
	case *ast.Sequence:
		c.checkList(n.Items, scope)
	case *ast.Quantified:
		c.check(n.Item, scope)
	case *ast.Group:
		c.checkGroup(n, scope)
	case *ast.NumberedBackref:
		c.checkNumberedRef(n)
	case *ast.NamedBackref:
		c.checkNamedRef(n)
	case *ast.Ternary:
		c.checkTernary(n, scope)
	}
}

func (c *Checker) checkGroup(g *ast.Group, scope ast.FlagSet) {
	if g.IsCapturing() {
		c.opened++
		c.open[g] = true
		defer delete(c.open, g)
	}

	inner := scope
	if !g.Flags.IsEmpty() {
		c.checkFlags(g.Pos(), g.Flags.On)
		inner = g.Flags.Apply(scope)
		if inner == scope {
			c.warnings.Add(g.Pos(), warnRedundantFlags, g.Flags.Codes())
		}
	}
	if g.Ext.IsLookbehind() {
		body := &ast.Sequence{Items: g.Components}
		maxLen, bounded := ast.MaxMatchLen(body)
		if !bounded || maxLen != ast.MinMatchLen(body) {
			c.errors.Add(g.Pos(), errLookbehindWidth)
		}
	}
	c.checkList(g.Components, inner)
}

// checkNumberedRef accepts only groups that are already closed.
func (c *Checker) checkNumberedRef(n *ast.NumberedBackref) {
	if n.Index > c.opened {
		c.errors.Add(n.Pos(), errInvalidReference, n.Index)
		return
	}
	if g, ok := c.index.Resolve(ast.Numbered(n.Index)); ok && c.open[g] {
		c.errors.Add(n.Pos(), errOpenGroup)
	}
}

func (c *Checker) checkNamedRef(n *ast.NamedBackref) {
	g, ok := c.index.Lookup(n.Name)
	if ok {
		num, _ := c.index.Number(g)
		ok = num <= c.opened
	}
	switch {
	case !ok:
		c.errors.Add(n.Pos(), errUnknownName, n.Name)
	case c.open[g]:
		c.errors.Add(n.Pos(), errOpenGroup)
	}
}

// checkTernary accepts any existing group, including later ones.
func (c *Checker) checkTernary(t *ast.Ternary, scope ast.FlagSet) {
	switch {
	case t.ID.IsNamed():
		if _, ok := c.index.Lookup(t.ID.Name); !ok {
			c.errors.Add(t.Pos(), errUnknownName, t.ID.Name)
		}
	case t.ID.Index == 0:
		c.errors.Add(t.Pos(), errBadGroupNumber)
	default:
		if _, ok := c.index.Resolve(t.ID); !ok {
			c.errors.Add(t.Pos(), errInvalidReference, t.ID.Index)
		}
	}
	c.check(t.Yes, scope)
	if t.No != nil {
		c.check(t.No, scope)
	}
}
