package engine

import (
	"errors"
	"time"

	"github.com/coregx/coregex"
	"github.com/dlclark/regexp2"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/kolkov/reggie/ast"
	"github.com/kolkov/reggie/semantic"
)

// DefaultMatchTimeout bounds a single backtracking match.
const DefaultMatchTimeout = 2 * time.Second

// Options controls compilation.
type Options struct {
	// Dialect selects the backend. Auto prefers RE2.
	Dialect Dialect

	// MatchTimeout bounds one Backtrack match. Zero means
	// DefaultMatchTimeout.
	MatchTimeout time.Duration

	// Logger receives debug output. Nil disables logging.
	Logger *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.MatchTimeout <= 0 {
		o.MatchTimeout = DefaultMatchTimeout
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Matcher is a compiled pattern.
type Matcher interface {
	// MatchString reports whether s contains a match. Only Backtrack
	// matchers fail, on timeout.
	MatchString(s string) (bool, error)

	// FindStringSubmatch returns the leftmost match and its groups, or
	// nil. Groups that did not take part are empty.
	FindStringSubmatch(s string) ([]string, error)

	// SubexpNames returns group names indexed by group number.
	SubexpNames() []string

	// Dialect returns the backend in use.
	Dialect() Dialect

	// String returns the translated source handed to the backend.
	String() string
}

// Compile translates and compiles p. With Auto, a pattern RE2 cannot
// express falls back to Backtrack.
func Compile(p *ast.Pattern, opts Options) (Matcher, error) {
	opts = opts.withDefaults()
	names := semantic.Index(p).SubexpNames()

	d := opts.Dialect
	if d == Auto {
		d = RE2
	}
	src, err := Translate(p, d)
	var unsupported *UnsupportedError
	if errors.As(err, &unsupported) && opts.Dialect == Auto {
		opts.Logger.Debug("falling back to backtracking engine",
			zap.String("construct", unsupported.Construct),
			zap.Stringer("pos", unsupported.Pos),
		)
		d = Backtrack
		src, err = Translate(p, d)
	}
	if err != nil {
		return nil, err
	}

	opts.Logger.Debug("compiling pattern",
		zap.Stringer("dialect", d),
		zap.String("source", src),
	)
	var m Matcher
	switch d {
	case RE2:
		re, err := coregex.Compile(src)
		if err != nil {
			return nil, xerrors.Errorf("compile %q: %w", src, err)
		}
		m = &re2Matcher{re: re, names: names}
	default:
		re, err := regexp2.Compile(src, regexp2.RE2)
		if err != nil {
			return nil, xerrors.Errorf("compile %q: %w", src, err)
		}
		re.MatchTimeout = opts.MatchTimeout
		m = &backtrackMatcher{re: re, src: src, names: names}
	}

	if lits := ExtractLiterals(p); lits != nil {
		opts.Logger.Debug("using literal prefilter",
			zap.String("prefix", lits.Prefix),
			zap.String("suffix", lits.Suffix),
			zap.Strings("required", lits.Required),
		)
		m = &prefiltered{Matcher: m, literals: lits}
	}
	return m, nil
}

// re2Matcher runs on coregex.
type re2Matcher struct {
	re    *coregex.Regex
	names []string
}

func (m *re2Matcher) MatchString(s string) (bool, error) {
	return m.re.MatchString(s), nil
}

func (m *re2Matcher) FindStringSubmatch(s string) ([]string, error) {
	return m.re.FindStringSubmatch(s), nil
}

func (m *re2Matcher) SubexpNames() []string { return m.names }
func (m *re2Matcher) Dialect() Dialect      { return RE2 }
func (m *re2Matcher) String() string        { return m.re.String() }

// backtrackMatcher runs on regexp2.
type backtrackMatcher struct {
	re    *regexp2.Regexp
	src   string
	names []string
}

func (m *backtrackMatcher) MatchString(s string) (bool, error) {
	ok, err := m.re.MatchString(s)
	if err != nil {
		return false, xerrors.Errorf("match %q: %w", m.src, err)
	}
	return ok, nil
}

func (m *backtrackMatcher) FindStringSubmatch(s string) ([]string, error) {
	match, err := m.re.FindStringMatch(s)
	if err != nil {
		return nil, xerrors.Errorf("match %q: %w", m.src, err)
	}
	if match == nil {
		return nil, nil
	}
	groups := match.Groups()
	out := make([]string, len(groups))
	for i, g := range groups {
		if len(g.Captures) > 0 {
			out[i] = g.String()
		}
	}
	return out, nil
}

func (m *backtrackMatcher) SubexpNames() []string { return m.names }
func (m *backtrackMatcher) Dialect() Dialect      { return Backtrack }
func (m *backtrackMatcher) String() string        { return m.src }
