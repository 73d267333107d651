package reggie_test

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/kolkov/reggie"
	"github.com/kolkov/reggie/builder"
	"github.com/kolkov/reggie/engine"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		min     int
		finite  bool
		groups  int
	}{
		{"literal", `abc`, 3, true, 0},
		{"dates", `(?P<year>\d{4})-(?P<month>\d{2})`, 7, true, 2},
		{"alternation", `a|bc`, 1, true, 0},
		{"star", `ab*`, 1, false, 0},
		{"nested groups", `((a)(b))?`, 0, true, 3},
		{"empty", ``, 0, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := reggie.Parse(tt.pattern, nil)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if got := p.MinMatchLen(); got != tt.min {
				t.Errorf("MinMatchLen() = %d, want %d", got, tt.min)
			}
			if got := p.IsFinite(); got != tt.finite {
				t.Errorf("IsFinite() = %t, want %t", got, tt.finite)
			}
			if got := p.GroupsCount(); got != tt.groups {
				t.Errorf("GroupsCount() = %d, want %d", got, tt.groups)
			}
			if p.String() != tt.pattern {
				t.Errorf("String() = %q, want %q", p.String(), tt.pattern)
			}
			if p.Source() != tt.pattern {
				t.Errorf("Source() = %q, want %q", p.Source(), tt.pattern)
			}
		})
	}
}

func TestPatternGroups(t *testing.T) {
	p := reggie.MustParse(`(?P<year>\d{4})-(?P<month>\d{2})`)

	whole, ok := p.Group(0)
	if !ok || whole != p.AST() {
		t.Errorf("Group(0) should be the whole pattern")
	}
	if _, ok := p.Group(3); ok {
		t.Errorf("Group(3) should not exist")
	}
	month, ok := p.GroupByName("month")
	if !ok {
		t.Fatal("GroupByName(month) not found")
	}
	if month.Pos().Column != 17 {
		t.Errorf("month group at %s, want column 17", month.Pos())
	}
	names := p.SubexpNames()
	if strings.Join(names, ",") != ",year,month" {
		t.Errorf("SubexpNames() = %q", names)
	}
	if n, ok := p.MaxMatchLen(); !ok || n != 7 {
		t.Errorf("MaxMatchLen() = %d, %t", n, ok)
	}
}

func TestParseError(t *testing.T) {
	_, err := reggie.Parse(`ab)`, nil)
	if err == nil {
		t.Fatal("expected error for unbalanced pattern")
	}

	pe, ok := err.(*reggie.ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if pe.Line != 1 || pe.Column != 3 {
		t.Errorf("error at %d:%d, want 1:3", pe.Line, pe.Column)
	}
	if got := err.Error(); got != "parse error at 1:3: unbalanced parenthesis" {
		t.Errorf("Error() = %q", got)
	}
}

func TestBuildError(t *testing.T) {
	_, err := reggie.Parse(`x[z-a]`, nil)
	var be *reggie.BuildError
	if !errors.As(err, &be) {
		t.Fatalf("expected *BuildError, got %T", err)
	}
	if be.Kind != builder.InvalidRanges || be.Column != 2 || be.Input != "[z-a]" {
		t.Errorf("BuildError = %+v", be)
	}
	if !strings.HasPrefix(be.Message, `invalid ranges "[z-a]"`) {
		t.Errorf("Message = %q", be.Message)
	}
	if !strings.HasPrefix(err.Error(), "build error at 1:2: invalid ranges") {
		t.Errorf("Error() = %q", err)
	}

	var inner *builder.Error
	if !errors.As(err, &inner) || inner.Kind != builder.InvalidRanges {
		t.Errorf("BuildError should wrap *builder.Error")
	}
}

func TestCheckError(t *testing.T) {
	_, err := reggie.Parse(`(a)\2`, nil)
	var ce *reggie.CheckError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *CheckError, got %T", err)
	}
	if got := err.Error(); got != "check error at 1:4: invalid group reference 2" {
		t.Errorf("Error() = %q", got)
	}
}

func TestConfigMaxDepth(t *testing.T) {
	_, err := reggie.Parse(`((a))`, &reggie.Config{MaxDepth: 1})
	var pe *reggie.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Message != "pattern nested too deeply (max 1)" {
		t.Errorf("Message = %q", pe.Message)
	}
	if _, err := reggie.Parse(`((a))`, &reggie.Config{MaxDepth: 2}); err != nil {
		t.Errorf("Parse() with depth 2 error = %v", err)
	}
}

func TestWarnings(t *testing.T) {
	p := reggie.MustParse(`(?i)(?i:a)`)
	w := p.Warnings()
	if len(w) != 1 || !strings.Contains(w[0], `inline flags "i" do not change the flags in effect`) {
		t.Errorf("Warnings() = %q", w)
	}
	if len(reggie.MustParse(`(?i:a)`).Warnings()) != 0 {
		t.Errorf("scoped flags that change something should not warn")
	}
}

// TestLegalFlagWarnings tests that every flag is accepted, with flags
// engines ignore or reject together reported only as warnings.
func TestLegalFlagWarnings(t *testing.T) {
	tests := []struct {
		pattern string
		warning string
	}{
		{`(?L)abc`, "LOCALE flag has no effect on a str pattern"},
		{`(?au)abc`, "ASCII and UNICODE flags are incompatible"},
		{`x(?au:y)`, "ASCII and UNICODE flags are incompatible"},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			p, err := reggie.Parse(tt.pattern, nil)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if got := p.String(); got != tt.pattern {
				t.Errorf("String() = %q, want %q", got, tt.pattern)
			}
			w := p.Warnings()
			if len(w) != 1 || !strings.Contains(w[0], tt.warning) {
				t.Errorf("Warnings() = %q, want one containing %q", w, tt.warning)
			}
		})
	}

	p := reggie.MustCompile(`(?L)abc`)
	ok, err := p.MatchString("xabcx")
	if err != nil || !ok {
		t.Errorf("MatchString() = %t, %v", ok, err)
	}
}

func TestMustParse(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustParse() should panic on invalid pattern")
		}
	}()

	_ = reggie.MustParse(`(a`)
}

func TestCompile(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		want    bool
		dialect engine.Dialect
	}{
		{`\d{4}`, "in 2024", true, engine.RE2},
		{`(?i)hello`, "HeLLo", true, engine.Backtrack},
		{`(?i)hello`, "HELP", false, engine.Backtrack},
		{`^a$`, "ab", false, engine.RE2},
		{`(?<=\$)\d+`, "costs $42", true, engine.Backtrack},
		{`(\w)\1`, "abba", true, engine.Backtrack},
		{`(\w)\1`, "abab", false, engine.Backtrack},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			p, err := reggie.Compile(tt.pattern, nil)
			if err != nil {
				t.Fatalf("Compile() error = %v", err)
			}
			got, err := p.MatchString(tt.input)
			if err != nil {
				t.Fatalf("MatchString() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("MatchString(%q) = %t, want %t", tt.input, got, tt.want)
			}
			m, _ := p.Matcher()
			if m.Dialect() != tt.dialect {
				t.Errorf("dialect = %s, want %s", m.Dialect(), tt.dialect)
			}
		})
	}
}

func TestCompileDialect(t *testing.T) {
	_, err := reggie.Compile(`(?=a)`, &reggie.Config{Dialect: engine.RE2})
	var unsupported *engine.UnsupportedError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected *engine.UnsupportedError, got %v", err)
	}

	p := reggie.MustParse(`(?=a)`)
	if _, err := p.FindStringSubmatch("a"); err != nil {
		t.Errorf("Auto dialect should fall back: %v", err)
	}
}

func TestFindStringSubmatch(t *testing.T) {
	p := reggie.MustCompile(`(?P<year>\d{4})-(?P<month>\d{2})`)
	got, err := p.FindStringSubmatch("released 2024-06-01")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(got, "|") != "2024-06|2024|06" {
		t.Errorf("FindStringSubmatch() = %q", got)
	}
	got, err = p.FindStringSubmatch("no date")
	if err != nil || got != nil {
		t.Errorf("FindStringSubmatch(no date) = %q, %v", got, err)
	}
}

func TestPatternConcurrent(t *testing.T) {
	p := reggie.MustParse(`(a+)(b*)`)
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, err := p.MatchString("xaab"); err != nil || !ok {
				t.Errorf("MatchString() = %t, %v", ok, err)
			}
		}()
	}
	wg.Wait()
}

// Benchmark tests
func BenchmarkParse(b *testing.B) {
	for b.Loop() {
		_, _ = reggie.Parse(`(?P<year>\d{4})-(?P<month>\d{2})`, nil)
	}
}

func BenchmarkMatch(b *testing.B) {
	p := reggie.MustCompile(`(?P<year>\d{4})-(?P<month>\d{2})`)
	for b.Loop() {
		_, _ = p.MatchString("released 2024-06-01")
	}
}

// Example functions for documentation
func ExampleParse() {
	p, _ := reggie.Parse(`(?P<year>\d{4})-(?P<month>\d{2})`, nil)
	fmt.Println(p)
	fmt.Println(p.GroupsCount(), p.MinMatchLen(), p.IsFinite())
	// Output:
	// (?P<year>\d{4})-(?P<month>\d{2})
	// 2 7 true
}

func ExampleCompile() {
	p, _ := reggie.Compile(`(?<=\$)\d+`, nil)
	ok, _ := p.MatchString("costs $42")
	fmt.Println(ok)
	// Output: true
}
