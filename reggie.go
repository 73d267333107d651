package reggie

import (
	"errors"

	"github.com/kolkov/reggie/builder"
	"github.com/kolkov/reggie/internal/parser"
	"github.com/kolkov/reggie/semantic"
	"github.com/kolkov/reggie/token"
)

// Version is the reggie version string.
const Version = "0.1.0"

// Parse parses, builds and checks a pattern.
// If config is nil, default configuration is used.
//
// Example:
//
//	p, err := reggie.Parse(`(?i)[a-z]+`, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(p) // (?i)[a-z]+
func Parse(pattern string, config *Config) (*Pattern, error) {
	cfg := Config{}
	if config != nil {
		cfg = *config
	}
	cfg.applyDefaults()

	// Parse
	tree, err := parser.ParseWithConfig(pattern, parser.Config{
		Filename: cfg.Filename,
		MaxDepth: cfg.MaxDepth,
	})
	if err != nil {
		// Convert parser error to public type
		var el parser.ErrorList
		if errors.As(err, &el) && len(el) > 0 {
			return nil, &ParseError{
				Line:    el[0].Pos.Line,
				Column:  el[0].Pos.Column,
				Message: el[0].Message,
			}
		}
		return nil, &ParseError{Message: err.Error()}
	}

	// Build
	built, err := builder.Build(tree,
		builder.WithLogger(cfg.Logger),
		builder.WithMaxDepth(cfg.MaxDepth),
	)
	if err != nil {
		var be *builder.Error
		if errors.As(err, &be) {
			unplaced := *be
			unplaced.Pos = token.NoPos
			return nil, &BuildError{
				Kind:    be.Kind,
				Line:    be.Pos.Line,
				Column:  be.Pos.Column,
				Input:   be.Input,
				Message: unplaced.Error(),
				err:     be,
			}
		}
		return nil, &BuildError{Message: err.Error(), err: err}
	}

	// Index groups and check references
	index, warnings, err := semantic.Validate(built)
	if err != nil {
		var el semantic.ErrorList
		if errors.As(err, &el) && len(el) > 0 {
			return nil, &CheckError{
				Line:    el[0].Pos.Line,
				Column:  el[0].Pos.Column,
				Message: el[0].Message,
			}
		}
		return nil, &CheckError{Message: err.Error()}
	}

	p := &Pattern{
		tree:   built,
		index:  index,
		source: pattern,
		config: cfg,
	}
	for _, w := range warnings {
		p.warnings = append(p.warnings, w.String())
	}
	return p, nil
}

// MustParse is like Parse but panics if the pattern is invalid.
// It simplifies initialization of global pattern variables.
func MustParse(pattern string) *Pattern {
	p, err := Parse(pattern, nil)
	if err != nil {
		panic(err)
	}
	return p
}

// Compile parses a pattern and compiles it for matching.
//
// Example:
//
//	p, err := reggie.Compile(`(?<=\$)\d+`, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ok, _ := p.MatchString("costs $42") // true, on the backtracking engine
func Compile(pattern string, config *Config) (*Pattern, error) {
	p, err := Parse(pattern, config)
	if err != nil {
		return nil, err
	}
	if _, err := p.Matcher(); err != nil {
		return nil, err
	}
	return p, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(pattern string) *Pattern {
	p, err := Compile(pattern, nil)
	if err != nil {
		panic(err)
	}
	return p
}
