// Package charset implements the disjoint interval algebra behind
// character classes.
//
// A DisjointRange keeps a set of values as the minimal sorted list of
// inclusive spans that neither overlap nor touch. Union and complement
// (over the range's domain) preserve that shape, so two sets are equal
// exactly when their span lists are equal.
package charset

import (
	"fmt"
	"iter"
	"slices"
	"sort"
	"strings"

	"golang.org/x/exp/constraints"
)

// Span is an inclusive range [Lo, Hi].
type Span[T constraints.Integer] struct {
	Lo, Hi T
}

// String returns "lo-hi", or "lo" for a single value.
func (s Span[T]) String() string {
	if s.Lo == s.Hi {
		return fmt.Sprint(s.Lo)
	}
	return fmt.Sprintf("%v-%v", s.Lo, s.Hi)
}

// RangeError reports spans whose low bound is above their high bound, or
// that fall outside the domain.
type RangeError[T constraints.Integer] struct {
	Pairs []Span[T]
}

func (e *RangeError[T]) Error() string {
	parts := make([]string, len(e.Pairs))
	for i, p := range e.Pairs {
		parts[i] = fmt.Sprintf("(%v, %v)", p.Lo, p.Hi)
	}
	return "invalid ranges: " + strings.Join(parts, ", ")
}

// DisjointRange is a set of integers over the domain [min, max].
// The zero value is not usable; create one with New.
type DisjointRange[T constraints.Integer] struct {
	min, max T
	spans    []Span[T]
}

// New returns an empty set over the domain [min, max].
func New[T constraints.Integer](min, max T) *DisjointRange[T] {
	return &DisjointRange[T]{min: min, max: max}
}

// FromBounds builds a set from explicit (lo, hi) pairs. Every pair with
// lo > hi, or outside the domain, is reported in one *RangeError.
func FromBounds[T constraints.Integer](min, max T, pairs []Span[T]) (*DisjointRange[T], error) {
	d := New(min, max)
	var bad []Span[T]
	for _, p := range pairs {
		if !d.valid(p) {
			bad = append(bad, p)
			continue
		}
		d.insert(p)
	}
	if len(bad) > 0 {
		return nil, &RangeError[T]{Pairs: bad}
	}
	return d, nil
}

// Domain returns the bounds of the set's universe.
func (d *DisjointRange[T]) Domain() (min, max T) {
	return d.min, d.max
}

func (d *DisjointRange[T]) valid(s Span[T]) bool {
	return s.Lo <= s.Hi && s.Lo >= d.min && s.Hi <= d.max
}

// Add inserts a single value.
func (d *DisjointRange[T]) Add(v T) error {
	return d.AddRange(v, v)
}

// AddRange merges [lo, hi] into the set, coalescing with every span it
// overlaps or touches.
func (d *DisjointRange[T]) AddRange(lo, hi T) error {
	s := Span[T]{Lo: lo, Hi: hi}
	if !d.valid(s) {
		return &RangeError[T]{Pairs: []Span[T]{s}}
	}
	d.insert(s)
	return nil
}

// AddDisjointRange unions other into d.
func (d *DisjointRange[T]) AddDisjointRange(other *DisjointRange[T]) {
	if other == nil {
		return
	}
	for _, s := range other.spans {
		lo, hi := max(s.Lo, d.min), min(s.Hi, d.max)
		if lo <= hi {
			d.insert(Span[T]{Lo: lo, Hi: hi})
		}
	}
}

func (d *DisjointRange[T]) insert(s Span[T]) {
	// First span ending at or after s.Lo-1.
	i := sort.Search(len(d.spans), func(i int) bool {
		hi := d.spans[i].Hi
		return hi >= s.Lo || hi+1 == s.Lo
	})
	j := i
	for j < len(d.spans) && (d.spans[j].Lo <= s.Hi || d.spans[j].Lo-1 == s.Hi) {
		j++
	}
	if i < j {
		s.Lo = min(s.Lo, d.spans[i].Lo)
		s.Hi = max(s.Hi, d.spans[j-1].Hi)
	}
	d.spans = slices.Replace(d.spans, i, j, s)
}

// Complement returns every value of the domain not in d.
func (d *DisjointRange[T]) Complement() *DisjointRange[T] {
	out := New(d.min, d.max)
	next := d.min
	for _, s := range d.spans {
		if s.Lo > next {
			out.spans = append(out.spans, Span[T]{Lo: next, Hi: s.Lo - 1})
		}
		if s.Hi == d.max {
			return out
		}
		next = s.Hi + 1
	}
	out.spans = append(out.spans, Span[T]{Lo: next, Hi: d.max})
	return out
}

// Contains reports whether v is in the set.
func (d *DisjointRange[T]) Contains(v T) bool {
	i := sort.Search(len(d.spans), func(i int) bool { return d.spans[i].Hi >= v })
	return i < len(d.spans) && d.spans[i].Lo <= v
}

// Ranges returns a copy of the spans in ascending order.
func (d *DisjointRange[T]) Ranges() []Span[T] {
	return slices.Clone(d.spans)
}

// All iterates over the spans in ascending order.
func (d *DisjointRange[T]) All() iter.Seq[Span[T]] {
	return func(yield func(Span[T]) bool) {
		for _, s := range d.spans {
			if !yield(s) {
				return
			}
		}
	}
}

// Len returns the number of spans.
func (d *DisjointRange[T]) Len() int {
	return len(d.spans)
}

// IsEmpty reports whether the set has no values.
func (d *DisjointRange[T]) IsEmpty() bool {
	return len(d.spans) == 0
}

// Clone returns an independent copy of d.
func (d *DisjointRange[T]) Clone() *DisjointRange[T] {
	return &DisjointRange[T]{min: d.min, max: d.max, spans: slices.Clone(d.spans)}
}

// Equal reports whether both sets hold the same values over the same domain.
func (d *DisjointRange[T]) Equal(other *DisjointRange[T]) bool {
	if d == nil || other == nil {
		return d == other
	}
	return d.min == other.min && d.max == other.max && slices.Equal(d.spans, other.spans)
}

// String returns the spans as a bracketed list, for debugging.
func (d *DisjointRange[T]) String() string {
	parts := make([]string, len(d.spans))
	for i, s := range d.spans {
		parts[i] = s.String()
	}
	return "{" + strings.Join(parts, " ") + "}"
}
