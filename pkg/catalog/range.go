package catalog

import (
	"errors"
	"fmt"
	"sort"

	"github.com/chrissnell/paleoprofile/pkg/trend"
)

// ErrInvalidRange is returned for a range with min above max or an unknown
// trend.
var ErrInvalidRange = errors.New("invalid range")

// Range bounds one parameter within one zone.
type Range struct {
	Min   float64    `json:"min"`
	Max   float64    `json:"max"`
	Trend trend.Kind `json:"trend"`
}

// Validate checks the min <= max invariant and the trend code.
func (r Range) Validate() error {
	if r.Min > r.Max {
		return fmt.Errorf("%w: min %.2f above max %.2f", ErrInvalidRange, r.Min, r.Max)
	}
	if !r.Trend.Valid() {
		return fmt.Errorf("%w: unknown trend %q", ErrInvalidRange, r.Trend)
	}
	return nil
}

// Ranges maps parameters to their range. A missing parameter is not
// modelled and generates as zero.
type Ranges map[Parameter]Range

// Validate checks every entry.
func (r Ranges) Validate() error {
	for _, p := range r.sortedKeys() {
		if !p.Valid() {
			return fmt.Errorf("%w: unknown parameter %q", ErrInvalidRange, p)
		}
		if err := r[p].Validate(); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// Clone returns a copy that can be modified freely.
func (r Ranges) Clone() Ranges {
	out := make(Ranges, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Triple returns the three ranges of t, or false if any member is missing.
func (r Ranges) Triple(t Triple) ([3]Range, bool) {
	var out [3]Range
	for i, p := range t {
		rng, ok := r[p]
		if !ok {
			return out, false
		}
		out[i] = rng
	}
	return out, true
}

func (r Ranges) sortedKeys() []Parameter {
	keys := make([]Parameter, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
