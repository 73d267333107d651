package reggie

import (
	"sync"

	"github.com/kolkov/reggie/ast"
	"github.com/kolkov/reggie/engine"
	"github.com/kolkov/reggie/semantic"
)

// Pattern is a parsed and checked pattern. It is safe for concurrent
// use; the matcher is compiled on first use.
type Pattern struct {
	tree     *ast.Pattern
	index    *semantic.GroupIndex
	source   string // Original source for debugging
	warnings []string
	config   Config

	once     sync.Once
	matcher  engine.Matcher
	matchErr error
}

// AST returns the syntax tree. It must not be modified.
func (p *Pattern) AST() *ast.Pattern {
	return p.tree
}

// Source returns the original pattern text.
func (p *Pattern) Source() string {
	return p.source
}

// String renders the tree back to pattern text.
func (p *Pattern) String() string {
	return ast.String(p.tree)
}

// Warnings returns non-fatal findings, such as inline flags that change
// nothing.
func (p *Pattern) Warnings() []string {
	return p.warnings
}

// MinMatchLen returns the fewest characters any match consumes.
func (p *Pattern) MinMatchLen() int {
	return ast.MinMatchLen(p.tree)
}

// MaxMatchLen returns the most characters a match can consume, or false
// when that is unbounded.
func (p *Pattern) MaxMatchLen() (int, bool) {
	return ast.MaxMatchLen(p.tree)
}

// IsFinite reports whether match length is bounded.
func (p *Pattern) IsFinite() bool {
	return ast.IsFinite(p.tree)
}

// GroupsCount returns the number of capturing groups.
func (p *Pattern) GroupsCount() int {
	return p.index.Count()
}

// Group returns capturing group n; group 0 is the whole pattern.
func (p *Pattern) Group(n int) (ast.Node, bool) {
	return p.index.Nth(n)
}

// GroupByName returns the group declared as (?P<name>...).
func (p *Pattern) GroupByName(name string) (*ast.Group, bool) {
	return p.index.Lookup(name)
}

// SubexpNames returns group names indexed by group number.
func (p *Pattern) SubexpNames() []string {
	return p.index.SubexpNames()
}

// Matcher returns the compiled matcher for the configured dialect.
func (p *Pattern) Matcher() (engine.Matcher, error) {
	p.once.Do(func() {
		p.matcher, p.matchErr = engine.Compile(p.tree, engine.Options{
			Dialect:      p.config.Dialect,
			MatchTimeout: p.config.MatchTimeout,
			Logger:       p.config.Logger,
		})
	})
	return p.matcher, p.matchErr
}

// MatchString reports whether s contains a match.
func (p *Pattern) MatchString(s string) (bool, error) {
	m, err := p.Matcher()
	if err != nil {
		return false, err
	}
	return m.MatchString(s)
}

// FindStringSubmatch returns the leftmost match and its groups, or nil.
func (p *Pattern) FindStringSubmatch(s string) ([]string, error) {
	m, err := p.Matcher()
	if err != nil {
		return nil, err
	}
	return m.FindStringSubmatch(s)
}
