package profile

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/chrissnell/paleoprofile/pkg/catalog"
	"github.com/chrissnell/paleoprofile/pkg/zones"
)

const (
	DefaultStep      = 2.0
	DefaultZoneCount = 5

	// Bounds of a randomly drawn zone share, in percent.
	minZoneShare = 10
	maxZoneShare = 60

	depthEpsilon = 1e-9

	// maxDepthCount caps Depths when no tighter limit is configured.
	maxDepthCount = 1 << 24
)

// Depths returns 0, step, 2*step, ... up to and including maxDepth.
func Depths(maxDepth, step float64) ([]float64, error) {
	if step <= 0 || math.IsNaN(step) {
		return nil, fmt.Errorf("step must be positive, got %v", step)
	}
	if maxDepth < 0 || math.IsNaN(maxDepth) || math.IsInf(maxDepth, 0) {
		return nil, fmt.Errorf("max depth must be a non-negative number, got %v", maxDepth)
	}

	count := math.Floor(maxDepth/step+depthEpsilon) + 1
	if count > maxDepthCount {
		return nil, fmt.Errorf("max depth %v at step %v gives more than %d depths", maxDepth, step, maxDepthCount)
	}
	out := make([]float64, int(count))
	for i := range out {
		out[i] = float64(i) * step
	}
	return out, nil
}

// RandomDepth picks a whole maximum depth in [min, max].
func RandomDepth(min, max int, src rand.Source) (int, error) {
	if min < 0 || max < min {
		return 0, fmt.Errorf("invalid depth range [%d, %d]", min, max)
	}
	if max-min == math.MaxInt {
		return 0, fmt.Errorf("depth range [%d, %d] is too wide", min, max)
	}
	return min + rand.New(src).IntN(max-min+1), nil
}

// Plan describes a profile loosely: anything left unset is filled in,
// randomly where needed, by Request.
type Plan struct {
	// Depths wins over MaxDepth and Step when set.
	Depths   []float64
	MaxDepth float64
	Step     float64
	// DepthRange, when its upper bound is positive, draws MaxDepth at
	// random from [DepthRange[0], DepthRange[1]].
	DepthRange [2]int

	// ZonePercentages wins over ZoneCount when set.
	ZonePercentages []float64
	ZoneCount       int

	Geology catalog.Geology
	Seed    *uint64

	// MaxPoints, when positive, rejects a generated depth sequence longer
	// than this before it is allocated.
	MaxPoints int
}

// Request resolves the plan into a concrete Request. The seed is settled
// first and drives every random choice, so one seed reproduces the whole
// profile including its depths and zoning. Unusable plan fields yield a
// ValidationError.
func (p Plan) Request() (Request, error) {
	seed, err := resolveSeed(p.Seed)
	if err != nil {
		return Request{}, err
	}
	src := rand.NewPCG(seed, ^seed)

	depths := p.Depths
	if len(depths) == 0 {
		maxDepth := p.MaxDepth
		if p.DepthRange[1] > 0 {
			d, err := RandomDepth(p.DepthRange[0], p.DepthRange[1], src)
			if err != nil {
				return Request{}, invalid("depth_range", "%v", err)
			}
			maxDepth = float64(d)
		}
		step := stepOrDefault(p.Step)
		if p.MaxPoints > 0 && step > 0 && maxDepth/step+1 > float64(p.MaxPoints) {
			return Request{}, invalid("max_depth", "depth %v at step %v exceeds the limit of %d depths", maxDepth, step, p.MaxPoints)
		}
		if depths, err = Depths(maxDepth, step); err != nil {
			return Request{}, invalid("max_depth", "%v", err)
		}
	}

	percentages := p.ZonePercentages
	if len(percentages) == 0 {
		n := p.ZoneCount
		if n == 0 {
			n = DefaultZoneCount
		}
		lo, hi := shareBounds(n)
		if percentages, err = zones.RandomPercentages(n, lo, hi, src); err != nil {
			return Request{}, invalid("zones", "%v", err)
		}
	}

	return Request{
		Depths:          depths,
		ZonePercentages: percentages,
		Geology:         p.Geology,
		Seed:            &seed,
	}, nil
}

func stepOrDefault(step float64) float64 {
	if step == 0 {
		return DefaultStep
	}
	return step
}

// shareBounds widens the default 10-60% share window when n zones could
// not otherwise fill exactly 100%.
func shareBounds(n int) (int, int) {
	lo, hi := minZoneShare, maxZoneShare
	if n > 0 && n*lo > 100 {
		lo = 100 / n
	}
	if n > 0 && n*hi < 100 {
		hi = 100
	}
	return lo, hi
}
