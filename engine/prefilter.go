package engine

import (
	"slices"
	"strings"

	"github.com/kolkov/reggie/ast"
)

// LiteralInfo holds literal text every match must contain. It lets a
// matcher reject input with plain string searches before running the
// backend.
type LiteralInfo struct {
	Prefix   string   // input starts with it (\A or ^ outside multiline mode)
	Suffix   string   // input ends with it (\Z)
	Required []string // input contains each of them
}

// CanReject reports whether s certainly has no match. It never allocates.
func (li *LiteralInfo) CanReject(s string) bool {
	if li.Prefix != "" && !strings.HasPrefix(s, li.Prefix) {
		return true
	}
	if li.Suffix != "" && !strings.HasSuffix(s, li.Suffix) {
		return true
	}
	for _, req := range li.Required {
		if !strings.Contains(s, req) {
			return true
		}
	}
	return false
}

// ExtractLiterals collects the literals of the top-level sequence of p.
// It returns nil when there are none or when case folding or verbose mode
// make literal text unreliable. A top-level alternation yields nil since
// each branch is optional on its own.
func ExtractLiterals(p *ast.Pattern) *LiteralInfo {
	if p.Flags.Has(ast.FlagIgnoreCase) || p.Flags.Has(ast.FlagVerbose) {
		return nil
	}
	items := topLevel(p.SubPatterns)
	if len(items) == 0 {
		return nil
	}

	info := &LiteralInfo{}
	if len(items) >= 2 && anchorsStart(items[0], p.Flags) {
		if lit, ok := onceLiteral(items[1]); ok {
			info.Prefix = lit
			items = items[2:]
		}
	}
	if n := len(items); n >= 2 && isAssertion(items[n-1], ast.InputEnd) {
		if lit, ok := onceLiteral(items[n-2]); ok {
			info.Suffix = lit
			items = items[:n-2]
		}
	}
	for _, item := range items {
		if lit, ok := requiredLiteral(item); ok && !slices.Contains(info.Required, lit) {
			info.Required = append(info.Required, lit)
		}
	}

	if info.Prefix == "" && info.Suffix == "" && len(info.Required) == 0 {
		return nil
	}
	return info
}

// topLevel flattens sequences. An alternation anywhere in the list
// contributes nothing, but a lone alternation leaves no items at all.
func topLevel(list []ast.SubPattern) []ast.SubPattern {
	var out []ast.SubPattern
	for _, s := range list {
		switch n := s.(type) {
		case *ast.Sequence:
			out = append(out, topLevel(n.Items)...)
		case *ast.Alternatives:
			if len(list) == 1 {
				return nil
			}
			out = append(out, n)
		case *ast.Comment:
		default:
			out = append(out, s)
		}
	}
	return out
}

func anchorsStart(s ast.SubPattern, flags ast.FlagSet) bool {
	return isAssertion(s, ast.InputStart) ||
		(isAssertion(s, ast.LineStart) && !flags.Has(ast.FlagMultiline))
}

func isAssertion(s ast.SubPattern, kind ast.Assertion) bool {
	zw, ok := s.(*ast.ZeroWidth)
	return ok && zw.Kind == kind
}

// onceLiteral matches an unquantified literal.
func onceLiteral(s ast.SubPattern) (string, bool) {
	q, ok := s.(*ast.Quantified)
	if !ok || q.Quantifier != nil {
		return "", false
	}
	lit, ok := q.Item.(*ast.Literal)
	if !ok {
		return "", false
	}
	return lit.Value, true
}

// requiredLiteral matches a literal repeated at least once.
func requiredLiteral(s ast.SubPattern) (string, bool) {
	q, ok := s.(*ast.Quantified)
	if !ok {
		return "", false
	}
	lit, ok := q.Item.(*ast.Literal)
	if !ok || (q.Quantifier != nil && q.Quantifier.MinLenMultiplier() < 1) {
		return "", false
	}
	return lit.Value, true
}

// prefiltered rejects input that lacks a required literal before
// consulting the wrapped matcher.
type prefiltered struct {
	Matcher
	literals *LiteralInfo
}

func (m *prefiltered) MatchString(s string) (bool, error) {
	if m.literals.CanReject(s) {
		return false, nil
	}
	return m.Matcher.MatchString(s)
}

func (m *prefiltered) FindStringSubmatch(s string) ([]string, error) {
	if m.literals.CanReject(s) {
		return nil, nil
	}
	return m.Matcher.FindStringSubmatch(s)
}
