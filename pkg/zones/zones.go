// Package zones splits an ordered depth sequence into contiguous zones.
package zones

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// None marks a depth that no zone contains.
const None = 0

// Zone is one contiguous depth interval. Zone 1 owns [Start, End]; every
// later zone owns (Start, End], so a boundary depth belongs to the zone
// whose End equals it.
type Zone struct {
	Index int     `json:"zone"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Contains reports whether depth falls inside the zone.
func (z Zone) Contains(depth float64) bool {
	if z.Index == 1 {
		return z.Start <= depth && depth <= z.End
	}
	return z.Start < depth && depth <= z.End
}

// Zones is an ordered partition, zone 1 first.
type Zones []Zone

// Partition assigns zone boundaries from percentage shares of the depth
// count. percentages must sum to 100; callers validate that beforehand.
func Partition(depths []float64, percentages []float64) Zones {
	if len(depths) == 0 || len(percentages) == 0 {
		return nil
	}

	n := len(depths)
	out := make(Zones, 0, len(percentages))
	start := math.Min(0, depths[0])
	cumulative := 0.0

	for i, pct := range percentages {
		cumulative += pct
		idx := int(math.Floor(float64(n) * cumulative / 100))
		if idx > n-1 {
			idx = n - 1
		}
		if idx < 0 {
			idx = 0
		}
		end := depths[idx]
		if i == len(percentages)-1 {
			end = depths[n-1]
		}
		out = append(out, Zone{Index: i + 1, Start: start, End: end})
		start = end
	}

	return out
}

// Locate returns the index of the zone containing depth, or None.
func (z Zones) Locate(depth float64) int {
	for _, zone := range z {
		if zone.Contains(depth) {
			return zone.Index
		}
	}
	return None
}

// Bounds returns the zone with the given index.
func (z Zones) Bounds(index int) (Zone, bool) {
	if index < 1 || index > len(z) {
		return Zone{}, false
	}
	return z[index-1], true
}

// RandomPercentages draws n whole-number shares, each within [lo, hi],
// that sum to 100.
func RandomPercentages(n, lo, hi int, src rand.Source) ([]float64, error) {
	if n < 1 {
		return nil, fmt.Errorf("zone count must be positive, got %d", n)
	}
	if lo < 1 || hi < lo {
		return nil, fmt.Errorf("invalid zone share bounds [%d, %d]", lo, hi)
	}
	if n*lo > 100 || n*hi < 100 {
		return nil, fmt.Errorf("%d zones cannot each take %d-%d%% and sum to 100", n, lo, hi)
	}

	shares := make([]int, n)
	weights := make([]float64, n)
	for i := range shares {
		shares[i] = lo
		weights[i] = float64(hi - lo)
	}

	remaining := 100 - n*lo
	if remaining > 0 {
		// Hand out the remainder one point at a time, weighting each zone
		// by how much room it has left.
		picker := distuv.NewCategorical(weights, src)
		for ; remaining > 0; remaining-- {
			i := int(picker.Rand())
			shares[i]++
			picker.Reweight(i, float64(hi-shares[i]))
		}
	}

	out := make([]float64, n)
	for i, s := range shares {
		out[i] = float64(s)
	}
	return out, nil
}
