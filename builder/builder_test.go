package builder_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kolkov/reggie/ast"
	"github.com/kolkov/reggie/builder"
	"github.com/kolkov/reggie/charset"
	"github.com/kolkov/reggie/cst"
	"github.com/kolkov/reggie/internal/parser"
	"github.com/kolkov/reggie/token"
)

var treeOpts = cmp.Options{
	cmpopts.IgnoreTypes(ast.Base{}),
	cmpopts.EquateEmpty(),
}

func build(src string, opts ...builder.Option) (*ast.Pattern, error) {
	tree, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	return builder.Build(tree, opts...)
}

func lit(s string) *ast.Quantified {
	return &ast.Quantified{Item: &ast.Literal{Value: s}}
}

func quant(t *testing.T, item ast.Quantifiable, text string) *ast.Quantified {
	t.Helper()
	q, err := ast.ParseQuantifier(text)
	if err != nil {
		t.Fatal(err)
	}
	return &ast.Quantified{Item: item, Quantifier: q}
}

func runes(t *testing.T, pairs ...rune) *charset.Set {
	t.Helper()
	s := charset.NewSet()
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := s.AddRange(pairs[i], pairs[i+1]); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func TestBuildTree(t *testing.T) {
	digit := charset.Class{Kind: charset.Digit}.ToRange()
	tests := []struct {
		src  string
		want *ast.Pattern
	}{
		{``, &ast.Pattern{}},
		{`abc`, &ast.Pattern{SubPatterns: []ast.SubPattern{lit("abc")}}},
		{`a|bc*`, &ast.Pattern{SubPatterns: []ast.SubPattern{
			&ast.Alternatives{Alternatives: []ast.SubPattern{
				lit("a"),
				&ast.Sequence{Items: []ast.SubPattern{
					lit("b"),
					quant(t, &ast.Literal{Value: "c"}, "*"),
				}},
			}},
		}}},
		{`a|`, &ast.Pattern{SubPatterns: []ast.SubPattern{
			&ast.Alternatives{Alternatives: []ast.SubPattern{lit("a"), &ast.Sequence{}}},
		}}},
		{`(?P<x>[a-c]+)(?:\d)`, &ast.Pattern{SubPatterns: []ast.SubPattern{
			&ast.Group{Name: "x", Components: []ast.SubPattern{
				quant(t, &ast.CharSet{Set: runes(t, 'a', 'c')}, "+"),
			}},
			&ast.Group{Ext: ast.ExtNonCapturing, Components: []ast.SubPattern{
				&ast.Quantified{Item: &ast.CharSet{Set: digit, Shorthand: `\d`}},
			}},
		}}},
		{`(?i)^\Aab\1(?#c)`, &ast.Pattern{
			Flags: ast.NewFlagSet(ast.FlagIgnoreCase),
			SubPatterns: []ast.SubPattern{
				&ast.ZeroWidth{Kind: ast.LineStart},
				&ast.ZeroWidth{Kind: ast.InputStart},
				lit("ab"),
				&ast.NumberedBackref{Index: 1},
				&ast.Comment{Text: "c"},
			},
		}},
		{`(a)(?(1)b|c)`, &ast.Pattern{SubPatterns: []ast.SubPattern{
			&ast.Group{Components: []ast.SubPattern{lit("a")}},
			&ast.Ternary{ID: ast.Numbered(1), Yes: lit("b"), No: lit("c")},
		}}},
		{`(?(x)bd)`, &ast.Pattern{SubPatterns: []ast.SubPattern{
			&ast.Ternary{ID: ast.Named("x"), Yes: lit("bd")},
		}}},
		{`(?P=x)+`, &ast.Pattern{SubPatterns: []ast.SubPattern{
			quant(t, &ast.NamedBackref{Name: "x"}, "+"),
		}}},
		{`(?s-m:.)`, &ast.Pattern{SubPatterns: []ast.SubPattern{
			&ast.Group{
				Ext:        ast.ExtNonCapturing,
				Flags:      ast.GroupFlags{On: ast.NewFlagSet(ast.FlagDotAll), Off: ast.NewFlagSet(ast.FlagMultiline)},
				Components: []ast.SubPattern{&ast.Quantified{Item: &ast.CharSet{Set: charset.Any(), Shorthand: "."}}},
			},
		}}},
		{`[^\s-]`, &ast.Pattern{SubPatterns: []ast.SubPattern{
			&ast.Quantified{Item: &ast.CharSet{
				Set:     runes(t, '\t', '\r', ' ', ' ', '-', '-').Complement(),
				Negated: true,
			}},
		}}},
		{`x{2,}?(?<=y)`, &ast.Pattern{SubPatterns: []ast.SubPattern{
			quant(t, &ast.Literal{Value: "x"}, "{2,}?"),
			&ast.Group{Ext: ast.ExtPosLookbehind, Components: []ast.SubPattern{lit("y")}},
		}}},
		{`\x41\né`, &ast.Pattern{SubPatterns: []ast.SubPattern{lit("A\né")}}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := build(tt.src)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got, treeOpts); diff != "" {
				t.Errorf("tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildPositions(t *testing.T) {
	p, err := build("ab(c)")
	if err != nil {
		t.Fatal(err)
	}
	g := p.SubPatterns[1]
	if got, want := g.Pos(), (token.Position{Line: 1, Column: 3, Offset: 2}); got != want {
		t.Errorf("group Pos = %+v, want %+v", got, want)
	}
	if got, want := g.End(), (token.Position{Line: 1, Column: 6, Offset: 5}); got != want {
		t.Errorf("group End = %+v, want %+v", got, want)
	}
	if got := p.End().Offset; got != 5 {
		t.Errorf("pattern End offset = %d, want 5", got)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		src   string
		kind  builder.ErrorKind
		input string
	}{
		{`(?-i)a`, builder.NegativePatternFlags, "-i"},
		{`(?i-)a`, builder.NegativePatternFlags, "i-"},
		{`(?q)a`, builder.InvalidFlag, "q"},
		{`(?i-i:a)`, builder.ConflictingFlags, "i-i"},
		{`(?q:a)`, builder.InvalidFlag, "q"},
		{`a{5,2}`, builder.InvalidQuantifier, "{5,2}"},
		{`a{,}`, builder.InvalidQuantifier, "{,}"},
		{`\777`, builder.InvalidLiteral, `\777`},
		{`[\777]`, builder.InvalidLiteral, `\777`},
		{`\ud800`, builder.InvalidLiteral, `\ud800`},
		{`[\udc00-\udfff]`, builder.InvalidLiteral, `\udc00`},
		{`[z-a]`, builder.InvalidRanges, "[z-a]"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := build(tt.src)
			var bErr *builder.Error
			if !errors.As(err, &bErr) {
				t.Fatalf("expected *builder.Error, got %v", err)
			}
			if bErr.Kind != tt.kind {
				t.Errorf("Kind = %s, want %s", bErr.Kind, tt.kind)
			}
			if bErr.Input != tt.input {
				t.Errorf("Input = %q, want %q", bErr.Input, tt.input)
			}
			if !bErr.Pos.IsValid() {
				t.Errorf("error has no position")
			}
		})
	}
}

func TestQuantifierErrorMessage(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`a{,}`, `1:2: invalid quantifier "{,}": both bounds absent`},
		{`a{5,2}`, `1:2: invalid quantifier "{5,2}": min repeat greater than max repeat`},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := build(tt.src)
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != tt.want {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.want)
			}
		})
	}
}

func TestInvalidRangesListsEveryPair(t *testing.T) {
	_, err := build(`[a-bz-ac-b]`)
	var bErr *builder.Error
	if !errors.As(err, &bErr) || bErr.Kind != builder.InvalidRanges {
		t.Fatalf("expected InvalidRanges, got %v", err)
	}
	want := []charset.Span[rune]{{Lo: 'z', Hi: 'a'}, {Lo: 'c', Hi: 'b'}}
	if diff := cmp.Diff(want, bErr.Ranges); diff != "" {
		t.Errorf("Ranges mismatch (-want +got):\n%s", diff)
	}
	var setErr *charset.SetError
	if !errors.As(err, &setErr) {
		t.Errorf("error does not wrap *charset.SetError")
	}
	if !strings.HasPrefix(err.Error(), `1:1: invalid ranges "[a-bz-ac-b]"`) {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestFlagErrorsWrapCause(t *testing.T) {
	_, err := build(`(?-s)x`)
	var neg *ast.NegativeFlagsError
	if !errors.As(err, &neg) {
		t.Errorf("expected wrapped *ast.NegativeFlagsError, got %v", err)
	}
	_, err = build(`(?sm-s:x)`)
	var conflict *ast.FlagConflictError
	if !errors.As(err, &conflict) || conflict.Flags.Codes() != "s" {
		t.Errorf("expected wrapped *ast.FlagConflictError for s, got %v", err)
	}
}

// Hand-built trees reach the structural checks the bundled grammar never
// violates.
func TestBuildMalformedTrees(t *testing.T) {
	pos := token.Start("")
	node := func(kind cst.Kind, text string, children ...cst.Pair) *cst.Node {
		return cst.New(kind, text, pos, children...)
	}
	sub := func(item cst.Pair) *cst.Node {
		return node(cst.SubPattern, item.Text(), item)
	}
	tests := []struct {
		name string
		root cst.Pair
		kind builder.ErrorKind
	}{
		{"nil root", nil, builder.UnexpectedEndOfInput},
		{"wrong root", node(cst.Group, "()"), builder.UnexpectedInput},
		{"stray pipe", node(cst.Pattern, "|", node(cst.Pipe, "|")), builder.UnexpectedInput},
		{"empty sub-pattern", node(cst.Pattern, "", node(cst.SubPattern, "")), builder.UnexpectedEndOfInput},
		{"bad class", node(cst.Pattern, `\q`, sub(node(cst.CharClass, `\q`))), builder.InvalidCharClass},
		{"bad assertion", node(cst.Pattern, `\Q`, sub(node(cst.ZeroWidthLiteral, `\Q`))), builder.InvalidLiteral},
		{"one branch", node(cst.Pattern, "a", sub(node(cst.Alternatives, "a",
			sub(node(cst.Literals, "a", node(cst.LiteralChar, "a")))))), builder.UnexpectedEndOfInput},
		{"unclosed group", node(cst.Pattern, "(", sub(node(cst.Group, "(", node(cst.LParen, "(")))), builder.UnexpectedEndOfInput},
		{"empty literals", node(cst.Pattern, "", sub(node(cst.Literals, ""))), builder.UnexpectedEndOfInput},
		{"bad quantifier head", node(cst.Pattern, "a|", node(cst.SubPattern, "a|",
			node(cst.Literals, "a", node(cst.LiteralChar, "a")),
			node(cst.Quantifier, "|", node(cst.Pipe, "|")))), builder.UnexpectedInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := builder.Build(tt.root)
			var bErr *builder.Error
			if !errors.As(err, &bErr) {
				t.Fatalf("expected *builder.Error, got %v", err)
			}
			if bErr.Kind != tt.kind {
				t.Errorf("Kind = %s, want %s (%v)", bErr.Kind, tt.kind, err)
			}
		})
	}
}

func TestMaxDepth(t *testing.T) {
	if _, err := build(`((a))`, builder.WithMaxDepth(3)); err != nil {
		t.Fatalf("shallow pattern failed: %v", err)
	}
	_, err := build(`((((a))))`, builder.WithMaxDepth(3))
	var bErr *builder.Error
	if !errors.As(err, &bErr) || bErr.Kind != builder.UnexpectedInput {
		t.Fatalf("expected UnexpectedInput, got %v", err)
	}
	if !strings.Contains(err.Error(), "nested too deeply (max 3)") {
		t.Errorf("Error() = %q", err.Error())
	}
}

// TestMaxDepthCountsGroups tests that only groups count toward the depth
// limit, so alternations and conditional branches add nothing.
func TestMaxDepthCountsGroups(t *testing.T) {
	tests := []struct {
		src   string
		depth int
		ok    bool
	}{
		{`((a))`, 2, true},
		{`((a))`, 1, false},
		{`a|b|c|d`, 1, true},
		{`(a|(b|(c|d)))`, 3, true},
		{`(a|(b|(c|d)))`, 2, false},
		{`(a)(?(1)(b)|(c))`, 2, true},
		{`(a)(?(1)(b)|(c))`, 1, false},
		{`(?#deep)x`, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := build(tt.src, builder.WithMaxDepth(tt.depth))
			if tt.ok && err != nil {
				t.Fatalf("WithMaxDepth(%d) error = %v", tt.depth, err)
			}
			if !tt.ok && err == nil {
				t.Fatalf("WithMaxDepth(%d) should fail", tt.depth)
			}
		})
	}

	_, err := build(`((((a))))`, builder.WithMaxDepth(3))
	var bErr *builder.Error
	if !errors.As(err, &bErr) || bErr.Pos.Column != 4 {
		t.Errorf("error = %v, want one at column 4", err)
	}
}

func TestBuildLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	if _, err := build(`(a)b`, builder.WithLogger(log)); err != nil {
		t.Fatal(err)
	}
	if _, err := build(`[z-a]`, builder.WithLogger(log)); err == nil {
		t.Fatal("expected an error")
	}

	entries := logs.AllUntimed()
	if len(entries) != 2 {
		t.Fatalf("got %d log entries, want 2", len(entries))
	}
	if entries[0].Message != "built pattern" || entries[0].ContextMap()["subpatterns"] != int64(2) {
		t.Errorf("unexpected success entry: %+v", entries[0])
	}
	if entries[1].Message != "build failed" || entries[1].ContextMap()["pattern"] != "[z-a]" {
		t.Errorf("unexpected failure entry: %+v", entries[1])
	}
}
