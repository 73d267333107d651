package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// QuantKind is the repetition shape of a quantifier.
type QuantKind uint8

const (
	ZeroOrOne  QuantKind = iota // ?
	ZeroOrMore                  // *
	OneOrMore                   // +
	Exact                       // {n}
	Range                       // {min,max}, {min,}, {,max}
)

// Greed is how eagerly a quantifier consumes input.
type Greed uint8

const (
	Greedy     Greed = iota // no suffix
	NonGreedy               // ? suffix
	Possessive              // + suffix
)

// Suffix returns the spelling of the greediness suffix.
func (g Greed) Suffix() string {
	switch g {
	case NonGreedy:
		return "?"
	case Possessive:
		return "+"
	default:
		return ""
	}
}

// NoBound marks an absent brace bound.
const NoBound = -1

// Quantifier is a repetition count plus a greediness mode.
//
// For Exact, Min == Max == n. For Range, either bound may be NoBound but
// not both. Other kinds ignore Min and Max.
type Quantifier struct {
	Kind  QuantKind
	Min   int
	Max   int
	Greed Greed
}

// QuantifierError reports a malformed quantifier.
type QuantifierError struct {
	Text    string
	Message string
}

func (e *QuantifierError) Error() string {
	return fmt.Sprintf("invalid quantifier %q: %s", e.Text, e.Message)
}

// NewRange returns {min,max}. Pass NoBound to omit a bound.
func NewRange(min, max int, greed Greed) (*Quantifier, error) {
	q := &Quantifier{Kind: Range, Min: min, Max: max, Greed: greed}
	if err := q.validate(); err != nil {
		return nil, err
	}
	return q, nil
}

// NewExact returns {n}.
func NewExact(n int, greed Greed) (*Quantifier, error) {
	q := &Quantifier{Kind: Exact, Min: n, Max: n, Greed: greed}
	if err := q.validate(); err != nil {
		return nil, err
	}
	return q, nil
}

func (q *Quantifier) validate() error {
	switch q.Kind {
	case Exact:
		if q.Min < 0 {
			return &QuantifierError{Text: q.String(), Message: "negative count"}
		}
	case Range:
		if q.Min == NoBound && q.Max == NoBound {
			return &QuantifierError{Text: "{,}", Message: "both bounds absent"}
		}
		if q.Min < NoBound || q.Max < NoBound {
			return &QuantifierError{Text: q.String(), Message: "negative count"}
		}
		if q.Min != NoBound && q.Max != NoBound && q.Min > q.Max {
			return &QuantifierError{Text: q.String(), Message: "min repeat greater than max repeat"}
		}
	}
	return nil
}

// ParseBounds parses the inside of a brace quantifier: "n", "m,n",
// "m," or ",n".
func ParseBounds(text string, greed Greed) (*Quantifier, error) {
	lo, hi, isRange := strings.Cut(text, ",")
	if !isRange {
		n, err := strconv.Atoi(lo)
		if err != nil || n < 0 {
			return nil, &QuantifierError{Text: "{" + text + "}", Message: "bad count"}
		}
		return NewExact(n, greed)
	}
	min, max := NoBound, NoBound
	var err error
	if lo != "" {
		if min, err = strconv.Atoi(lo); err != nil || min < 0 {
			return nil, &QuantifierError{Text: "{" + text + "}", Message: "bad lower bound"}
		}
	}
	if hi != "" {
		if max, err = strconv.Atoi(hi); err != nil || max < 0 {
			return nil, &QuantifierError{Text: "{" + text + "}", Message: "bad upper bound"}
		}
	}
	return NewRange(min, max, greed)
}

// ParseQuantifier parses a full quantifier token, including an optional
// greediness suffix, e.g. "*", "{2,}?" or "++".
func ParseQuantifier(text string) (*Quantifier, error) {
	if text == "" {
		return nil, &QuantifierError{Text: text, Message: "empty"}
	}
	base, greed := text, Greedy
	if len(text) > 1 {
		switch text[len(text)-1] {
		case '?':
			base, greed = text[:len(text)-1], NonGreedy
		case '+':
			base, greed = text[:len(text)-1], Possessive
		}
	}
	switch base {
	case "?":
		return &Quantifier{Kind: ZeroOrOne, Greed: greed}, nil
	case "*":
		return &Quantifier{Kind: ZeroOrMore, Greed: greed}, nil
	case "+":
		return &Quantifier{Kind: OneOrMore, Greed: greed}, nil
	}
	if len(base) >= 2 && base[0] == '{' && base[len(base)-1] == '}' {
		return ParseBounds(base[1:len(base)-1], greed)
	}
	return nil, &QuantifierError{Text: text, Message: "unknown shape"}
}

// IsFinite reports whether the repetition count is bounded.
func (q *Quantifier) IsFinite() bool {
	switch q.Kind {
	case ZeroOrMore, OneOrMore:
		return false
	case Range:
		return q.Max != NoBound
	default:
		return true
	}
}

// IsGreedy reports whether the quantifier prefers more repetitions.
// Possessive quantifiers are greedy.
func (q *Quantifier) IsGreedy() bool {
	return q.Greed != NonGreedy
}

// MinLenMultiplier returns the guaranteed minimum repetition count.
func (q *Quantifier) MinLenMultiplier() int {
	switch q.Kind {
	case OneOrMore:
		return 1
	case Exact:
		return q.Min
	case Range:
		if q.Min == NoBound {
			return 0
		}
		return q.Min
	default:
		return 0
	}
}

// MaxLenMultiplier returns the maximum repetition count, or false when
// it is unbounded.
func (q *Quantifier) MaxLenMultiplier() (int, bool) {
	switch q.Kind {
	case ZeroOrOne:
		return 1, true
	case Exact:
		return q.Max, true
	case Range:
		return q.Max, q.Max != NoBound
	default:
		return 0, false
	}
}

// String renders the quantifier exactly as it is parsed.
func (q *Quantifier) String() string {
	var base string
	switch q.Kind {
	case ZeroOrOne:
		base = "?"
	case ZeroOrMore:
		base = "*"
	case OneOrMore:
		base = "+"
	case Exact:
		base = "{" + strconv.Itoa(q.Min) + "}"
	case Range:
		var sb strings.Builder
		sb.WriteByte('{')
		if q.Min != NoBound {
			sb.WriteString(strconv.Itoa(q.Min))
		}
		sb.WriteByte(',')
		if q.Max != NoBound {
			sb.WriteString(strconv.Itoa(q.Max))
		}
		sb.WriteByte('}')
		base = sb.String()
	}
	return base + q.Greed.Suffix()
}
