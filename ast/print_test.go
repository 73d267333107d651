package ast_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/kolkov/reggie/ast"
	"github.com/kolkov/reggie/builder"
	"github.com/kolkov/reggie/charset"
	"github.com/kolkov/reggie/internal/parser"
)

func build(t testing.TB, src string) *ast.Pattern {
	t.Helper()
	tree, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	p, err := builder.Build(tree)
	if err != nil {
		t.Fatalf("build %q: %v", src, err)
	}
	return p
}

func TestStringRoundTrip(t *testing.T) {
	tests := []string{
		``,
		`abc`,
		`a|bb`,
		`a||b`,
		`a|`,
		`(a|bb*)`,
		`(?:a|b)c`,
		`x(?:a|b)`,
		`[a-z]+`,
		`[^a-z]`,
		`[ab]`,
		`[a-c]`,
		`[\]a]`,
		`[\-a]`,
		`[\^a]`,
		`[^\x00-\U0010ffff]`,
		`.`,
		`.*?`,
		`\d\D\s\S\w\W`,
		`\d{4}`,
		`a{2,5}?`,
		`a{3,}`,
		`a{,5}`,
		`a{2}+`,
		`a++`,
		`a*+`,
		`a??`,
		`(?i)[a-z]+`,
		`(?im)x`,
		`(?:a)`,
		`(?i:foo)`,
		`(?i-m:foo)`,
		`(?-i:foo)`,
		`(?>a+)b`,
		`(?=a)`,
		`(?!a)`,
		`(?<=ab)c`,
		`(?<!ab)c`,
		`(?P<name>x)(?P=name)`,
		`(a)\1`,
		`(a)(?:\1)0`,
		`(a)(?(1)b|c)`,
		`(?P<x>a)(?(x)b)`,
		`(?#a comment)x`,
		`(?#)`,
		`\A\b\B^$\Z`,
		`\.\^\$\*\+\?\(\)\[\]\{\}\|\\`,
		`a\nb\tc`,
		`\x01`,
		`((a)(b(c)))`,
		`()`,
		`(?P<year>\d{4})-(?P<month>\d{2})`,
		`héllo wörld`,
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			p := build(t, src)
			if got := ast.String(p); got != src {
				t.Errorf("String() = %q, want %q", got, src)
			}
		})
	}
}

// TestStringCanonical covers inputs that print in a normalized spelling.
// The normalized text must itself round-trip.
func TestStringCanonical(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`\x41`, `A`},
		{`\u00e9`, `é`},
		{`\0`, `\x00`},
		{`\101`, `A`},
		{`\1012`, `A2`},
		{`\a`, `\A`},
		{`\z`, `\Z`},
		{`[\d_]`, `[0-9_]`},
		{`[a-cb]`, `[a-c]`},
		{`[ba]`, `[ab]`},
		{`[a-bc-d]`, `[a-d]`},
		{`[\n]`, `[\n]`},
		{`[\b]`, `[\x08]`},
		{`[\101]`, `[A]`},
		{`[]a]`, `[\]a]`},
		{`[a-]`, `[\-a]`},
		{`[a^]`, `[\^a]`},
		{`[^\d]`, `[^0-9]`},
		{`(?i)(?m)a`, `(?im)a`},
		{`(?mi)a`, `(?im)a`},
		{`(?P<n>a)(?P=n)`, `(?P<n>a)(?P=n)`},
		{`\#`, `#`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ast.String(build(t, tt.input))
			if got != tt.want {
				t.Fatalf("String() = %q, want %q", got, tt.want)
			}
			if again := ast.String(build(t, got)); again != got {
				t.Errorf("canonical text is not stable: %q -> %q", got, again)
			}
		})
	}
}

func TestStringConstructed(t *testing.T) {
	plus := &ast.Quantifier{Kind: ast.OneOrMore}
	mustAlt := func(alts ...ast.SubPattern) *ast.Alternatives {
		a, err := ast.NewAlternatives(alts...)
		if err != nil {
			t.Fatal(err)
		}
		return a
	}
	lit := func(s string) *ast.Quantified { return ast.Once(ast.NewLiteral(s)) }
	digits, _ := charset.Between('0', '9')

	tests := []struct {
		name string
		node ast.Node
		want string
	}{
		{"quantified run", ast.Quantify(ast.NewLiteral("ab"), plus), `(?:ab)+`},
		{"quantified char", ast.Quantify(ast.NewLiteral("a"), plus), `a+`},
		{"backref before digit", ast.NewPattern(&ast.NumberedBackref{Index: 1}, lit("0")), `(?:\1)0`},
		{"backref before letter", ast.NewPattern(&ast.NumberedBackref{Index: 1}, lit("x")), `\1x`},
		{"alternation in sequence", ast.NewPattern(mustAlt(lit("a"), lit("b")), lit("c")), `(?:a|b)c`},
		{"nested alternation", mustAlt(lit("a"), mustAlt(lit("b"), lit("c"))), `a|(?:b|c)`},
		{"empty set", ast.NewCharSet(charset.NewSet(), false), `[^\x00-\U0010ffff]`},
		{"full set", ast.NewCharSet(charset.NewSet(), true), `[\x00-\U0010ffff]`},
		{"negated set", ast.NewCharSet(digits, true), `[^0-9]`},
		{"class", ast.NewCharClass(charset.Class{Kind: charset.Word, Negated: true}), `\W`},
		{"any", ast.NewAnyChar(), `.`},
		{"control", ast.NewLiteral("\x7f\u200b\U000e0001"), `\x7f\u200b\U000e0001`},
		{"named backref", &ast.NamedBackref{Name: "x"}, `(?P=x)`},
		{"ternary without no", &ast.Ternary{ID: ast.Named("x"), Yes: lit("a")}, `(?(x)a)`},
		{"ternary with alternation", &ast.Ternary{ID: ast.Numbered(2), Yes: mustAlt(lit("a"), lit("b")), No: lit("c")}, `(?(2)(?:a|b)|c)`},
		{"pattern flags", ast.NewPattern(lit("a")).WithFlag(ast.FlagIgnoreCase).WithFlag(ast.FlagVerbose), `(?ix)a`},
		{"nil", nil, ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ast.String(tt.node); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGroupHeads(t *testing.T) {
	lit := ast.Once(ast.NewLiteral("x"))
	tests := []struct {
		ext   ast.GroupExt
		name  string
		flags ast.GroupFlags
		want  string
	}{
		{ast.ExtNone, "", ast.GroupFlags{}, `(x)`},
		{ast.ExtNone, "g", ast.GroupFlags{}, `(?P<g>x)`},
		{ast.ExtNonCapturing, "", ast.GroupFlags{}, `(?:x)`},
		{ast.ExtNonCapturing, "", ast.GroupFlags{On: ast.NewFlagSet(ast.FlagDotAll)}, `(?s:x)`},
		{ast.ExtNonCapturing, "", ast.GroupFlags{Off: ast.NewFlagSet(ast.FlagMultiline)}, `(?-m:x)`},
		{ast.ExtAtomic, "", ast.GroupFlags{}, `(?>x)`},
		{ast.ExtPosLookahead, "", ast.GroupFlags{}, `(?=x)`},
		{ast.ExtNegLookahead, "", ast.GroupFlags{}, `(?!x)`},
		{ast.ExtPosLookbehind, "", ast.GroupFlags{}, `(?<=x)`},
		{ast.ExtNegLookbehind, "", ast.GroupFlags{}, `(?<!x)`},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			g, err := ast.NewGroup(tt.ext, tt.name, tt.flags, lit)
			if err != nil {
				t.Fatal(err)
			}
			if got := ast.String(g); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestPrinterStickyError(t *testing.T) {
	err := ast.NewPrinter(failingWriter{}).Print(build(t, `(a)(b)`))
	if err == nil || err.Error() != "disk full" {
		t.Errorf("Print error = %v, want disk full", err)
	}

	var buf bytes.Buffer
	if err := ast.NewPrinter(&buf).Print(build(t, `a|b`)); err != nil {
		t.Fatal(err)
	}
	if buf.String() != `a|b` {
		t.Errorf("printed %q", buf.String())
	}
}

func TestFdump(t *testing.T) {
	var buf bytes.Buffer
	if err := ast.Fdump(&buf, build(t, `(?P<x>a+)|[b]`)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"Pattern",
		"  Alternatives (2)",
		`    Group named "x"`,
		"      Quantified +",
		`        Literal "a"`,
		"CharSet [b]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dump is missing %q:\n%s", want, out)
		}
	}
}
