// Package composition generates triples of percentages that each respect
// their own range and together sum to exactly 100.
package composition

import (
	"github.com/chrissnell/paleoprofile/pkg/catalog"
	"github.com/chrissnell/paleoprofile/pkg/trend"
)

const (
	// MaxAttempts bounds the constrained search before falling back.
	MaxAttempts = 100

	total         = 100.0
	fallbackShare = 33.33
)

// Member is one component of a triple.
type Member struct {
	Param catalog.Parameter
	Range catalog.Range
}

// Members pairs every parameter of t with its range. It returns false when
// any member is missing from r; such a triple is not modelled.
func Members(t catalog.Triple, r catalog.Ranges) ([3]Member, bool) {
	var out [3]Member
	ranges, ok := r.Triple(t)
	if !ok {
		return out, false
	}
	for i, p := range t {
		out[i] = Member{Param: p, Range: ranges[i]}
	}
	return out, true
}

// Result is a composed triple. Fallback is set when no attempt satisfied
// every bound and the values were forced; they still sum to 100 but may
// fall outside their ranges.
type Result struct {
	Values   [3]float64
	Attempts int
	Fallback bool
}

// Sum returns the total of the three values.
func (r Result) Sum() float64 {
	return r.Values[0] + r.Values[1] + r.Values[2]
}

// Compose draws the three members through gen until the rescaled
// percentages satisfy every bound. A raw draw summing to zero yields
// (0, 0, 0).
func Compose(gen *trend.Generator, members [3]Member, pos trend.Position) Result {
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		var raw [3]float64
		var sum float64
		for i, m := range members {
			raw[i] = gen.Value(trend.Input{
				Position: pos,
				Key:      string(m.Param),
				Min:      m.Range.Min,
				Max:      m.Range.Max,
				Kind:     m.Range.Trend,
			})
			sum += raw[i]
		}

		if sum == 0 {
			return Result{Attempts: attempt}
		}

		values := closure(raw[0]/sum*total, raw[1]/sum*total)
		if within(values, members) {
			return Result{Values: values, Attempts: attempt}
		}
	}

	return Result{Values: fallback(members), Attempts: MaxAttempts, Fallback: true}
}

// fallback starts the first two members at an even share clamped to their
// ranges, then moves half of the third member's violation onto each of
// them before re-deriving the third as the complement.
func fallback(m [3]Member) [3]float64 {
	a, b, c := m[0].Range, m[1].Range, m[2].Range

	v1 := trend.Round(clamp(fallbackShare, a))
	v2 := trend.Round(clamp(fallbackShare, b))
	v3 := trend.Round(total - v1 - v2)

	switch {
	case v3 < c.Min:
		shift := (c.Min - v3) / 2
		v1 = clamp(v1-shift, a)
		v2 = clamp(v2-shift, b)
	case v3 > c.Max:
		shift := (v3 - c.Max) / 2
		v1 = clamp(v1+shift, a)
		v2 = clamp(v2+shift, b)
	}

	return closure(v1, v2)
}

// closure rounds the first two shares and makes the third their exact
// complement.
func closure(p1, p2 float64) [3]float64 {
	p1 = trend.Round(p1)
	p2 = trend.Round(p2)
	return [3]float64{p1, p2, trend.Round(total - p1 - p2)}
}

func within(v [3]float64, m [3]Member) bool {
	for i := range v {
		if v[i] < m[i].Range.Min || v[i] > m[i].Range.Max {
			return false
		}
	}
	return true
}

func clamp(v float64, r catalog.Range) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}
