package semantic_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolkov/reggie/ast"
	"github.com/kolkov/reggie/builder"
	"github.com/kolkov/reggie/internal/parser"
	"github.com/kolkov/reggie/semantic"
)

func build(t *testing.T, src string) *ast.Pattern {
	t.Helper()
	tree, err := parser.Parse(src)
	require.NoError(t, err, "parse %q", src)
	p, err := builder.Build(tree)
	require.NoError(t, err, "build %q", src)
	return p
}

func TestIndex(t *testing.T) {
	p := build(t, `(a)(?:b)(?P<x>c)`)
	idx := semantic.Index(p)

	assert.Equal(t, 2, idx.Count())
	assert.Equal(t, []string{"", "", "x"}, idx.SubexpNames())

	whole, ok := idx.Nth(0)
	require.True(t, ok)
	assert.Same(t, p, whole)

	first, ok := idx.Nth(1)
	require.True(t, ok)
	assert.Equal(t, "(a)", ast.String(first))

	_, ok = idx.Nth(3)
	assert.False(t, ok)
	_, ok = idx.Nth(-1)
	assert.False(t, ok)

	x, ok := idx.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, "(?P<x>c)", ast.String(x))
	n, ok := idx.Number(x)
	require.True(t, ok)
	assert.Equal(t, 2, n)

	byName, ok := idx.Resolve(ast.Named("x"))
	require.True(t, ok)
	assert.Same(t, x, byName)
	byNumber, ok := idx.Resolve(ast.Numbered(2))
	require.True(t, ok)
	assert.Same(t, x, byNumber)
	_, ok = idx.Resolve(ast.Numbered(0))
	assert.False(t, ok)
}

// TestIndexOrder tests pre-order numbering through every group kind.
func TestIndexOrder(t *testing.T) {
	tests := []struct {
		src   string
		order []string
	}{
		{`((a)(b))`, []string{"((a)(b))", "(a)", "(b)"}},
		{`(?=(a))(?<!(b))`, []string{"(a)", "(b)"}},
		{`(?:(a)|(b))+`, []string{"(a)", "(b)"}},
		{`(x)(?(1)(y)|(z))`, []string{"(x)", "(y)", "(z)"}},
		{`(?>(a))(?i:(b))`, []string{"(a)", "(b)"}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			idx := semantic.Index(build(t, tt.src))
			var got []string
			for _, g := range idx.Indexed {
				got = append(got, ast.String(g))
			}
			assert.Equal(t, tt.order, got)
			assert.Equal(t, ast.GroupsCount(idx.Pattern), idx.Count())
		})
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`\2(a)(b)`, "invalid group reference 2"},
		{`(a)\2`, "invalid group reference 2"},
		{`(a\1)`, "cannot refer to an open group"},
		{`(?P<x>a(?P=x))`, "cannot refer to an open group"},
		{`(?P<x>a)(?P<x>b)`, `redefinition of group name "x" as group 2; was group 1`},
		{`(?P=x)`, `unknown group name "x"`},
		{`(?P=x)(?P<x>a)`, `unknown group name "x"`},
		{`(?(x)a)`, `unknown group name "x"`},
		{`(?(2)a)(b)`, "invalid group reference 2"},
		{`(?(0)a)`, "bad group number"},
		{`(?<=a+)`, "look-behind requires fixed-width pattern"},
		{`(?<!ab|c)`, "look-behind requires fixed-width pattern"},
		{`(?<=(a)\1)`, "look-behind requires fixed-width pattern"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, _, err := semantic.Validate(build(t, tt.src))
			require.Error(t, err)
			var list semantic.ErrorList
			require.ErrorAs(t, err, &list)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCheckValid(t *testing.T) {
	for _, src := range []string{
		``,
		`(a)\1`,
		`(a)(b)\2\1`,
		`(?P<x>a)(?P=x)`,
		`(?(1)a|b)(c)`,
		`(?P<x>a)(?(x)b)`,
		`(?<=ab)c`,
		`(?<!a|b)c`,
		`(?<=a{3})`,
		`(?<=[a-z]\d)`,
		`(?a)x(?u:y)`,
		`(?i)(?-i:a)`,
	} {
		t.Run(src, func(t *testing.T) {
			_, _, err := semantic.Validate(build(t, src))
			assert.NoError(t, err)
		})
	}
}

func TestCheckCollectsEveryError(t *testing.T) {
	_, _, err := semantic.Validate(build(t, `\3(?P=y)(?<=a*)`))
	var list semantic.ErrorList
	require.ErrorAs(t, err, &list)
	require.Len(t, list, 3)
	assert.Equal(t, 3, strings.Count(err.Error(), "\n")+1)

	// Errors come in document order with positions.
	assert.Equal(t, 1, list[0].Pos.Column)
	assert.Equal(t, 3, list[1].Pos.Column)
	assert.Equal(t, 9, list[2].Pos.Column)
}

func TestCheckWarnings(t *testing.T) {
	tests := []struct {
		src      string
		warnings []string
	}{
		{`(?i)(?i:a)`, []string{`1:5: warning: inline flags "i" do not change the flags in effect`}},
		{`(?-i:a)`, []string{`1:1: warning: inline flags "-i" do not change the flags in effect`}},
		{`(?i:a)`, nil},
		{`(?i)(?-i:a)`, nil},
		{`(?m:(?m:a))`, []string{`1:5: warning: inline flags "m" do not change the flags in effect`}},
		{`(?au:x)`, []string{"1:1: warning: ASCII and UNICODE flags are incompatible"}},
		{`(?au)x`, []string{"1:1: warning: ASCII and UNICODE flags are incompatible"}},
		{`(?L)x`, []string{"1:1: warning: LOCALE flag has no effect on a str pattern"}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, warnings, err := semantic.Validate(build(t, tt.src))
			require.NoError(t, err)
			var got []string
			for _, w := range warnings {
				got = append(got, w.String())
			}
			assert.Equal(t, tt.warnings, got)
		})
	}
}

func TestErrorWithoutPosition(t *testing.T) {
	e := &semantic.Error{Message: "bad group number"}
	assert.Equal(t, "bad group number", e.Error())
	assert.Equal(t, "no errors", semantic.ErrorList{}.Error())
	assert.NoError(t, semantic.ErrorList{}.Err())
}
