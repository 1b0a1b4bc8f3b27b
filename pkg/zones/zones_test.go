package zones

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func evenDepths(max, step float64) []float64 {
	var out []float64
	for d := 0.0; d <= max; d += step {
		out = append(out, d)
	}
	return out
}

func TestPartition(t *testing.T) {
	tests := []struct {
		name        string
		depths      []float64
		percentages []float64
		expected    Zones
	}{
		{
			name:        "two even zones over 51 depths",
			depths:      evenDepths(100, 2),
			percentages: []float64{50, 50},
			expected: Zones{
				{Index: 1, Start: 0, End: 50},
				{Index: 2, Start: 50, End: 100},
			},
		},
		{
			name:        "single zone",
			depths:      evenDepths(20, 2),
			percentages: []float64{100},
			expected:    Zones{{Index: 1, Start: 0, End: 20}},
		},
		{
			name:        "uneven shares",
			depths:      evenDepths(18, 2), // 10 depths
			percentages: []float64{20, 30, 50},
			expected: Zones{
				{Index: 1, Start: 0, End: 4},
				{Index: 2, Start: 4, End: 10},
				{Index: 3, Start: 10, End: 18},
			},
		},
		{
			name:        "thirds with float drift still end on last depth",
			depths:      evenDepths(58, 2), // 30 depths
			percentages: []float64{33.3, 33.3, 33.3},
			expected: Zones{
				{Index: 1, Start: 0, End: 18},
				{Index: 2, Start: 18, End: 38},
				{Index: 3, Start: 38, End: 58},
			},
		},
		{
			name:        "sequence not starting at zero",
			depths:      []float64{10, 12, 14, 16},
			percentages: []float64{50, 50},
			expected: Zones{
				{Index: 1, Start: 0, End: 14},
				{Index: 2, Start: 14, End: 16},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Partition(tt.depths, tt.percentages)
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("Partition mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPartitionEmptyInput(t *testing.T) {
	if z := Partition(nil, []float64{100}); z != nil {
		t.Errorf("expected nil zones for empty depths, got %v", z)
	}
	if z := Partition([]float64{0, 2}, nil); z != nil {
		t.Errorf("expected nil zones for empty percentages, got %v", z)
	}
}

func TestLocateConcreteScenario(t *testing.T) {
	depths := evenDepths(100, 2)
	z := Partition(depths, []float64{50, 50})

	for i, d := range depths {
		want := 1
		if i > 25 {
			want = 2
		}
		if got := z.Locate(d); got != want {
			t.Errorf("depth %.0f (index %d): zone %d, expected %d", d, i, got, want)
		}
	}
}

func TestLocateBoundaryRule(t *testing.T) {
	z := Zones{
		{Index: 1, Start: 0, End: 10},
		{Index: 2, Start: 10, End: 20},
		{Index: 3, Start: 20, End: 30},
	}

	tests := []struct {
		depth float64
		want  int
	}{
		{0, 1},
		{10, 1},
		{10.5, 2},
		{20, 2},
		{30, 3},
		{30.5, None},
		{-1, None},
	}

	for _, tt := range tests {
		if got := z.Locate(tt.depth); got != tt.want {
			t.Errorf("Locate(%.1f) = %d, expected %d", tt.depth, got, tt.want)
		}
	}
}

func TestLocateGap(t *testing.T) {
	z := Zones{
		{Index: 1, Start: 0, End: 10},
		{Index: 2, Start: 14, End: 20},
	}
	if got := z.Locate(12); got != None {
		t.Errorf("depth in a gap assigned to zone %d", got)
	}
}

func TestPartitionCoversEveryDepthOnce(t *testing.T) {
	src := rand.NewPCG(7, 11)
	rng := rand.New(src)

	for trial := 0; trial < 200; trial++ {
		depths := evenDepths(float64(2*(5+rng.IntN(300))), 2)
		n := 1 + rng.IntN(6)
		pcts, err := RandomPercentages(n, 10, 60, src)
		if err != nil {
			pcts = []float64{100}
		}
		z := Partition(depths, pcts)

		if len(z) != len(pcts) {
			t.Fatalf("trial %d: %d zones for %d percentages", trial, len(z), len(pcts))
		}
		if z[len(z)-1].End != depths[len(depths)-1] {
			t.Fatalf("trial %d: last zone ends at %.0f, expected %.0f", trial, z[len(z)-1].End, depths[len(depths)-1])
		}
		for i := 1; i < len(z); i++ {
			if z[i].Start != z[i-1].End {
				t.Fatalf("trial %d: zone %d starts at %.0f but zone %d ends at %.0f", trial, i+1, z[i].Start, i, z[i-1].End)
			}
		}
		for _, d := range depths {
			owners := 0
			for _, zone := range z {
				if zone.Contains(d) {
					owners++
				}
			}
			if owners != 1 {
				t.Fatalf("trial %d: depth %.0f owned by %d zones", trial, d, owners)
			}
		}
	}
}

func TestBounds(t *testing.T) {
	z := Partition(evenDepths(100, 2), []float64{50, 50})

	zone, ok := z.Bounds(2)
	if !ok || zone.Start != 50 || zone.End != 100 {
		t.Errorf("Bounds(2) = %+v, %v", zone, ok)
	}
	if _, ok := z.Bounds(0); ok {
		t.Error("Bounds(0) should not resolve")
	}
	if _, ok := z.Bounds(3); ok {
		t.Error("Bounds(3) should not resolve")
	}
}

func TestRandomPercentages(t *testing.T) {
	src := rand.NewPCG(1, 2)

	for trial := 0; trial < 500; trial++ {
		pcts, err := RandomPercentages(5, 10, 60, src)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		sum := 0.0
		for _, p := range pcts {
			if p < 10 || p > 60 {
				t.Fatalf("share %.0f outside [10, 60]", p)
			}
			sum += p
		}
		if sum != 100 {
			t.Fatalf("shares sum to %.0f", sum)
		}
	}
}

func TestRandomPercentagesErrors(t *testing.T) {
	src := rand.NewPCG(1, 2)

	tests := []struct {
		name      string
		n, lo, hi int
	}{
		{"no zones", 0, 10, 60},
		{"too many zones", 11, 10, 60},
		{"too few zones", 1, 10, 60},
		{"inverted bounds", 5, 30, 10},
		{"zero lower bound", 5, 0, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := RandomPercentages(tt.n, tt.lo, tt.hi, src); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestRandomPercentagesExactFit(t *testing.T) {
	pcts, err := RandomPercentages(4, 25, 25, rand.NewPCG(3, 4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]float64{25, 25, 25, 25}, pcts); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
