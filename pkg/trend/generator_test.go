package trend

import (
	"math"
	"math/rand/v2"
	"testing"
)

func newTestGenerator(seed uint64) *Generator {
	return NewGenerator(rand.NewPCG(seed, seed*7919+1))
}

func depthsTo(max, step float64) []float64 {
	var out []float64
	for d := 0.0; d <= max; d += step {
		out = append(out, d)
	}
	return out
}

func series(g *Generator, key string, kind Kind, min, max float64, depths []float64, zone int, zoneStart, zoneEnd float64) []float64 {
	out := make([]float64, len(depths))
	for i, d := range depths {
		out[i] = g.Value(Input{
			Position: Position{
				Depth:     d,
				MaxDepth:  depths[len(depths)-1],
				Zone:      zone,
				ZoneStart: zoneStart,
				ZoneEnd:   zoneEnd,
			},
			Key:  key,
			Min:  min,
			Max:  max,
			Kind: kind,
		})
	}
	return out
}

func TestSporadicZeroFraction(t *testing.T) {
	g := newTestGenerator(1)
	const samples = 5000
	zeros := 0
	for i := 0; i < samples; i++ {
		v := g.Value(Input{Key: "CH", Min: 5, Max: 50, Kind: Sporadic, Position: Position{Depth: float64(i), MaxDepth: samples}})
		if v == 0 {
			zeros++
			continue
		}
		if v < 5 || v > 50 {
			t.Fatalf("sample %d: %.2f outside [5, 50]", i, v)
		}
	}

	frac := float64(zeros) / samples
	if math.Abs(frac-0.7) > 0.05 {
		t.Errorf("zero fraction = %.3f, expected 0.70 ± 0.05", frac)
	}
}

func TestRisingDrift(t *testing.T) {
	for seed := uint64(1); seed <= 50; seed++ {
		g := newTestGenerator(seed)
		vals := series(g, "MS", Rising, 10, 100, depthsTo(100, 2), 1, 0, 100)

		if vals[0] < 13 || vals[0] > 70 {
			t.Fatalf("seed %d: first value %.2f outside [13, 70]", seed, vals[0])
		}
		for i, v := range vals {
			if v > 70 {
				t.Fatalf("seed %d: value %d = %.2f above max*0.7", seed, i, v)
			}
			if i > 0 && v < vals[i-1] {
				t.Fatalf("seed %d: value %d = %.2f fell below previous %.2f", seed, i, v, vals[i-1])
			}
		}
	}
}

func TestFallingDrift(t *testing.T) {
	for seed := uint64(1); seed <= 50; seed++ {
		g := newTestGenerator(seed)
		vals := series(g, "Ca", Falling, 10, 100, depthsTo(100, 2), 1, 0, 100)

		if vals[0] < 13 || vals[0] > 70 {
			t.Fatalf("seed %d: first value %.2f outside [13, 70]", seed, vals[0])
		}
		for i, v := range vals {
			if v < 13 {
				t.Fatalf("seed %d: value %d = %.2f below min*1.3", seed, i, v)
			}
			if i > 0 && v > vals[i-1] {
				t.Fatalf("seed %d: value %d = %.2f rose above previous %.2f", seed, i, v, vals[i-1])
			}
		}
	}
}

func TestMeanTrajectory(t *testing.T) {
	const runs = 200
	depths := depthsTo(60, 2)

	tests := []struct {
		name       string
		kind       Kind
		increasing bool
	}{
		{"rising", Rising, true},
		{"falling", Falling, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			means := make([]float64, len(depths))
			for r := 0; r < runs; r++ {
				g := newTestGenerator(uint64(1000 + r))
				for i, v := range series(g, "AP", tt.kind, 100, 2000, depths, 1, 0, 60) {
					means[i] += v / runs
				}
			}
			for i := 1; i < len(means); i++ {
				if tt.increasing && means[i] < means[i-1]-1e-9 {
					t.Errorf("mean at %d (%.2f) below mean at %d (%.2f)", i, means[i], i-1, means[i-1])
				}
				if !tt.increasing && means[i] > means[i-1]+1e-9 {
					t.Errorf("mean at %d (%.2f) above mean at %d (%.2f)", i, means[i], i-1, means[i-1])
				}
			}
		})
	}
}

func TestLowFluctuationStep(t *testing.T) {
	g := newTestGenerator(3)
	vals := series(g, "Mg", LowFluctuation, 20, 120, depthsTo(200, 2), 1, 0, 200)

	// 40% of the range, plus rounding slack on both ends.
	maxStep := 40.0 + 0.02
	center := 70.0
	if math.Abs(vals[0]-center) > maxStep {
		t.Errorf("first value %.2f more than %.2f from the range midpoint", vals[0], maxStep)
	}
	for i := 1; i < len(vals); i++ {
		if math.Abs(vals[i]-vals[i-1]) > maxStep {
			t.Errorf("step %d: |%.2f - %.2f| exceeds %.2f", i, vals[i], vals[i-1], maxStep)
		}
	}
}

func TestStatelessTrendsStayInBand(t *testing.T) {
	tests := []struct {
		name   string
		kind   Kind
		lo, hi float64
	}{
		// midpoint 60, range 100, 80% scatter either side
		{"high fluctuation", HighFluctuation, -20, 140},
		{"random", Random, 10, 110},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGenerator(4)
			for i, v := range series(g, "Na", tt.kind, 10, 110, depthsTo(1000, 2), 1, 0, 1000) {
				if v < tt.lo || v > tt.hi {
					t.Fatalf("value %d = %.2f outside [%.0f, %.0f]", i, v, tt.lo, tt.hi)
				}
			}
			if n := g.State().Len(); n != 0 {
				t.Errorf("stateless trend left %d state entries", n)
			}
		})
	}
}

func TestZoneArcShape(t *testing.T) {
	const (
		min  = 10.0
		max  = 20.0
		runs = 200
	)
	depths := depthsTo(50, 2)

	tests := []struct {
		name     string
		kind     Kind
		endpoint float64
		extreme  func(vals []float64) float64
		near     float64
	}{
		{
			name:     "rise then fall",
			kind:     RiseFall,
			endpoint: min,
			extreme:  maxOf,
			near:     max,
		},
		{
			name:     "fall then rise",
			kind:     FallRise,
			endpoint: max,
			extreme:  minOf,
			near:     min,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for r := 0; r < runs; r++ {
				g := newTestGenerator(uint64(r + 1))
				vals := series(g, "AP", tt.kind, min, max, depths, 1, 0, 50)

				if vals[0] != tt.endpoint {
					t.Fatalf("run %d: zone start value = %.2f, expected %.2f", r, vals[0], tt.endpoint)
				}
				if last := vals[len(vals)-1]; last != tt.endpoint {
					t.Fatalf("run %d: zone end value = %.2f, expected %.2f", r, last, tt.endpoint)
				}
				if got := tt.extreme(vals); math.Abs(got-tt.near) > 0.15*(max-min) {
					t.Fatalf("run %d: extreme %.2f not near %.2f", r, got, tt.near)
				}
			}
		})
	}
}

func TestZoneArcReusesMidpoint(t *testing.T) {
	g := newTestGenerator(11)
	vals := series(g, "NAP", RiseFall, 0, 1000, depthsTo(100, 2), 2, 0, 100)

	peak := 0
	for i, v := range vals {
		if v > vals[peak] {
			peak = i
		}
	}
	for i := 1; i <= peak; i++ {
		if vals[i] < vals[i-1] {
			t.Fatalf("value %d = %.2f drops before the peak at %d", i, vals[i], peak)
		}
	}
	for i := peak + 1; i < len(vals); i++ {
		if vals[i] > vals[i-1] {
			t.Fatalf("value %d = %.2f rises after the peak at %d", i, vals[i], peak)
		}
	}
}

func TestZoneArcMidpointPerZone(t *testing.T) {
	g := newTestGenerator(12)
	series(g, "WL", RiseFall, 0, 10, []float64{0, 10, 20}, 1, 0, 20)
	series(g, "WL", RiseFall, 0, 10, []float64{22, 30, 40}, 2, 20, 40)

	if n := g.State().Len(); n != 2 {
		t.Errorf("expected one midpoint per zone (2 entries), got %d", n)
	}
}

func TestStagnantShapes(t *testing.T) {
	depths := depthsTo(100, 2)

	tests := []struct {
		name string
		kind Kind
		up   bool
	}{
		{"stagnant then falling", StagnantFalling, false},
		{"stagnant then rising", StagnantRising, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for seed := uint64(1); seed <= 100; seed++ {
				g := newTestGenerator(seed)
				vals := series(g, "CR", tt.kind, 10, 100, depths, 1, 0, 100)

				// The midpoint is at least 40% of the profile, so depths up to
				// 40 are always stagnant: a band of 5% of the range either
				// side of one centre.
				lo, hi := math.Inf(1), math.Inf(-1)
				for i, d := range depths {
					if d > 40 {
						break
					}
					lo = math.Min(lo, vals[i])
					hi = math.Max(hi, vals[i])
				}
				if hi-lo > 9.0+0.02 {
					t.Fatalf("seed %d: stagnant section spread %.2f exceeds 9", seed, hi-lo)
				}

				// Past 60% of the profile the carried value moves one way.
				var prev float64
				started := false
				for i, d := range depths {
					if d <= 60 {
						continue
					}
					v := vals[i]
					if v < 10 || v > 100 {
						t.Fatalf("seed %d: value %.2f at depth %.0f outside range", seed, v, d)
					}
					if started {
						if tt.up && v < prev {
							t.Fatalf("seed %d: %.2f < %.2f at depth %.0f", seed, v, prev, d)
						}
						if !tt.up && v > prev {
							t.Fatalf("seed %d: %.2f > %.2f at depth %.0f", seed, v, prev, d)
						}
					}
					prev, started = v, true
				}
			}
		})
	}
}

func TestStateKeyedPerParameter(t *testing.T) {
	g := newTestGenerator(21)
	depths := depthsTo(100, 2)

	// Push MS close to its ceiling of 700.
	series(g, "MS", Rising, 100, 1000, depths, 1, 0, 100)

	// CH has a much smaller range; it must start from its own seed value
	// rather than from MS's last value.
	first := g.Value(Input{Key: "CH", Min: 0, Max: 10, Kind: Rising, Position: Position{Depth: 0, MaxDepth: 100}})
	if first > 7 {
		t.Errorf("CH first value %.2f exceeds its own ceiling of 7; state leaked from MS", first)
	}
	if n := g.State().Len(); n != 2 {
		t.Errorf("expected 2 state entries, got %d", n)
	}
}

func TestStateReset(t *testing.T) {
	g := newTestGenerator(13)
	depths := depthsTo(20, 2)
	series(g, "MS", Rising, 100, 1000, depths, 1, 0, 20)
	series(g, "CH", Falling, 0, 10, depths, 1, 0, 20)
	if n := g.State().Len(); n != 2 {
		t.Fatalf("expected 2 state entries, got %d", n)
	}

	g.State().Reset()
	if n := g.State().Len(); n != 0 {
		t.Fatalf("Reset left %d entries", n)
	}

	series(g, "MS", Rising, 100, 1000, depths[:1], 1, 0, 20)
	if n := g.State().Len(); n != 1 {
		t.Errorf("expected 1 state entry after reuse, got %d", n)
	}
}

func TestFreshGeneratorsAreIndependent(t *testing.T) {
	depths := depthsTo(40, 2)
	a := series(newTestGenerator(99), "K", Rising, 10, 100, depths, 1, 0, 40)
	b := series(newTestGenerator(99), "K", Rising, 10, 100, depths, 1, 0, 40)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("value %d differs between identically seeded runs: %.2f vs %.2f", i, a[i], b[i])
		}
	}
}

func TestUnknownKindYieldsZero(t *testing.T) {
	g := newTestGenerator(5)
	if v := g.Value(Input{Key: "OM", Min: 10, Max: 20, Kind: Kind("XX")}); v != 0 {
		t.Errorf("unknown trend returned %.2f, expected 0", v)
	}
}

func TestValuesRoundedToCents(t *testing.T) {
	g := newTestGenerator(6)
	for i, v := range series(g, "Ca", Random, 0, 1, depthsTo(200, 2), 1, 0, 200) {
		if math.Abs(v*100-math.Round(v*100)) > 1e-9 {
			t.Fatalf("value %d = %v has more than two decimals", i, v)
		}
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"UP", Rising, false},
		{"dn", Falling, false},
		{" rm ", Random, false},
		{"XX", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %q, expected %q", tt.in, got, tt.want)
		}
	}

	if len(Kinds) != 10 {
		t.Errorf("expected 10 trends, got %d", len(Kinds))
	}
}

func maxOf(vals []float64) float64 {
	m := math.Inf(-1)
	for _, v := range vals {
		m = math.Max(m, v)
	}
	return m
}

func minOf(vals []float64) float64 {
	m := math.Inf(1)
	for _, v := range vals {
		m = math.Min(m, v)
	}
	return m
}
