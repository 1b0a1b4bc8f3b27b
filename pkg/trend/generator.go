package trend

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Position locates one evaluation inside a profile: the depth, the
// reference maximum depth, and the interval of the owning zone.
type Position struct {
	Depth     float64
	MaxDepth  float64
	Zone      int
	ZoneStart float64
	ZoneEnd   float64
}

// Input is everything a trend needs to produce one value.
type Input struct {
	Position
	Key  string
	Min  float64
	Max  float64
	Kind Kind
}

// Generator produces trend values for one profile run. It is not safe for
// concurrent use; every run gets its own Generator.
type Generator struct {
	state *State
	rnd   draw
}

// NewGenerator returns a Generator with fresh state drawing from src.
func NewGenerator(src rand.Source) *Generator {
	return &Generator{
		state: NewState(),
		rnd:   draw{src: src},
	}
}

// State exposes the generator memory, mostly for tests and diagnostics.
func (g *Generator) State() *State {
	return g.state
}

// Value returns the value for in, rounded to two decimals. Unknown trends
// yield zero.
func (g *Generator) Value(in Input) float64 {
	fn, ok := shapes[in.Kind]
	if !ok {
		return 0
	}
	return Round(fn(g.state, g.rnd, in))
}

// Round rounds v to two decimal places.
func Round(v float64) float64 {
	return math.Round(v*100) / 100
}

type draw struct {
	src rand.Source
}

// uniform draws from [a, b] regardless of argument order.
func (d draw) uniform(a, b float64) float64 {
	if a > b {
		a, b = b, a
	}
	if a == b {
		return a
	}
	return distuv.Uniform{Min: a, Max: b, Src: d.src}.Rand()
}

// chance returns true with probability p.
func (d draw) chance(p float64) bool {
	return distuv.Bernoulli{P: p, Src: d.src}.Rand() == 1
}
