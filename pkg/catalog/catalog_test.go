package catalog

import (
	"errors"
	"sync"
	"testing"

	"github.com/chrissnell/paleoprofile/pkg/trend"
)

func TestFlatDefaults(t *testing.T) {
	c := New(nil)
	for zone := 1; zone <= 5; zone++ {
		r := c.RangesFor(Query{Zone: zone, ZoneCount: 5})
		if len(r) != len(Parameters) {
			t.Fatalf("zone %d: %d ranges, expected %d", zone, len(r), len(Parameters))
		}
		if got := r[OrganicMatter]; got != rng(0, 100, trend.Random) {
			t.Errorf("zone %d OM = %+v", zone, got)
		}
		if got := r[Calcium]; got != rng(0, 2000, trend.Random) {
			t.Errorf("zone %d Ca = %+v", zone, got)
		}
	}
}

func TestGeologyDefaults(t *testing.T) {
	c := New(nil)
	geo := Geology{Base: Rock, Env: Peatland}

	deep := c.RangesFor(Query{Zone: 5, ZoneCount: 5, Geology: geo})
	if got := deep[InorganicMatter]; got != baseDefaults[Rock][InorganicMatter] {
		t.Errorf("deepest zone IM = %+v, expected the rock base table", got)
	}
	if _, ok := deep[ArborealPollen]; ok {
		t.Error("rock base should not model pollen")
	}

	shallow := c.RangesFor(Query{Zone: 2, ZoneCount: 5, Geology: geo})
	if got := shallow[OrganicMatter]; got != envDefaults[Peatland][OrganicMatter] {
		t.Errorf("shallow zone OM = %+v, expected the peatland table", got)
	}
}

func TestPartialGeologyYieldsEmptyRanges(t *testing.T) {
	c := New(nil)

	if r := c.RangesFor(Query{Zone: 3, ZoneCount: 3, Geology: Geology{Env: Lake}}); len(r) != 0 {
		t.Errorf("deepest zone without a base type returned %d ranges", len(r))
	}
	if r := c.RangesFor(Query{Zone: 1, ZoneCount: 3, Geology: Geology{Base: Paleosol}}); len(r) != 0 {
		t.Errorf("shallow zone without an environment returned %d ranges", len(r))
	}
}

func TestDefaultTablesAreValid(t *testing.T) {
	tables := map[string]Ranges{"flat": flatDefaults}
	for b, r := range baseDefaults {
		tables[string(b)] = r
	}
	for e, r := range envDefaults {
		tables[string(e)] = r
	}

	for name, r := range tables {
		if err := r.Validate(); err != nil {
			t.Errorf("%s: %v", name, err)
		}
		for _, tr := range Triples {
			members, ok := r.Triple(tr)
			if !ok {
				continue
			}
			lo, hi := 0.0, 0.0
			for _, m := range members {
				lo += m.Min
				hi += m.Max
			}
			if lo > 100 || hi < 100 {
				t.Errorf("%s %v: bounds [%.0f, %.0f] cannot sum to 100", name, tr, lo, hi)
			}
		}
	}
}

func TestOverridePrecedence(t *testing.T) {
	c := New(nil)
	custom := Ranges{MagneticSusceptibility: rng(10, 20, trend.Random)}

	if _, err := c.Overrides().Set(Key{Zone: 2, Env: Lake, Base: Rock}, custom); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got := c.RangesFor(Query{Zone: 2, ZoneCount: 4, Geology: Geology{Base: Rock, Env: Lake}})
	if len(got) != 1 || got[MagneticSusceptibility] != custom[MagneticSusceptibility] {
		t.Errorf("override not applied: %+v", got)
	}

	// Other contexts for the same zone keep their defaults.
	other := c.RangesFor(Query{Zone: 2, ZoneCount: 4, Geology: Geology{Base: Rock, Env: Wetland}})
	if len(other) != len(envDefaults[Wetland]) {
		t.Errorf("override leaked into another context: %d ranges", len(other))
	}
	flat := c.RangesFor(Query{Zone: 2, ZoneCount: 4})
	if len(flat) != len(flatDefaults) {
		t.Errorf("override leaked into the flat context: %d ranges", len(flat))
	}
}

func TestOverrideStoreValidation(t *testing.T) {
	s := NewOverrideStore()

	tests := []struct {
		name   string
		key    Key
		ranges Ranges
	}{
		{"min above max", Key{Zone: 1}, Ranges{Clay: rng(60, 10, trend.Random)}},
		{"unknown trend", Key{Zone: 1}, Ranges{Clay: rng(0, 10, trend.Kind("ZZ"))}},
		{"unknown parameter", Key{Zone: 1}, Ranges{Parameter("Fe"): rng(0, 10, trend.Random)}},
		{"zone zero", Key{Zone: 0}, Ranges{Clay: rng(0, 10, trend.Random)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Set(tt.key, tt.ranges)
			if !errors.Is(err, ErrInvalidRange) {
				t.Errorf("expected ErrInvalidRange, got %v", err)
			}
		})
	}

	if v := s.Version(); v != 0 {
		t.Errorf("failed sets bumped the version to %d", v)
	}
}

func TestOverrideStoreLifecycle(t *testing.T) {
	s := NewOverrideStore()
	k := Key{Zone: 1}
	r := Ranges{Sand: rng(1, 2, trend.Sporadic)}

	v1, err := s.Set(k, r)
	if err != nil || v1 != 1 {
		t.Fatalf("Set = %d, %v", v1, err)
	}

	// Mutating the caller's map must not reach the store.
	r[Sand] = rng(50, 60, trend.Random)
	got, ok := s.Get(k)
	if !ok || got[Sand] != rng(1, 2, trend.Sporadic) {
		t.Errorf("Get = %+v, %v", got, ok)
	}

	if _, err := s.Set(Key{Zone: 2, Env: Wetland}, r); err != nil {
		t.Fatalf("Set: %v", err)
	}
	list := s.List()
	if len(list) != 2 || list[0].Key.Zone != 1 || list[1].Key.Zone != 2 {
		t.Errorf("List = %+v", list)
	}

	if !s.Delete(k) {
		t.Error("Delete reported nothing removed")
	}
	if s.Delete(k) {
		t.Error("second Delete reported a removal")
	}
	if v := s.Version(); v != 3 {
		t.Errorf("version = %d, expected 3", v)
	}
}

func TestViewIsolation(t *testing.T) {
	c := New(nil)
	k := Key{Zone: 1}
	if _, err := c.Overrides().Set(k, Ranges{Silt: rng(0, 1, trend.Random)}); err != nil {
		t.Fatal(err)
	}

	view := c.View()
	if _, err := c.Overrides().Set(k, Ranges{Silt: rng(5, 6, trend.Random)}); err != nil {
		t.Fatal(err)
	}

	if got := view.RangesFor(Query{Zone: 1, ZoneCount: 2})[Silt]; got.Max != 1 {
		t.Errorf("view saw a later override: %+v", got)
	}
	if view.Version() != 1 {
		t.Errorf("view version = %d, expected 1", view.Version())
	}

	// Callers may modify what they get back.
	got := view.RangesFor(Query{Zone: 1, ZoneCount: 2})
	got[Silt] = rng(90, 99, trend.Random)
	if again := view.RangesFor(Query{Zone: 1, ZoneCount: 2})[Silt]; again.Max != 1 {
		t.Errorf("modifying a result changed the view: %+v", again)
	}
}

func TestConcurrentOverrides(t *testing.T) {
	c := New(nil)
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(zone int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, _ = c.Overrides().Set(Key{Zone: zone}, Ranges{Clay: rng(0, float64(j), trend.Random)})
			}
		}(i + 1)
		go func(zone int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = c.RangesFor(Query{Zone: zone, ZoneCount: 8})
			}
		}(i + 1)
	}
	wg.Wait()

	if v := c.Overrides().Version(); v != 800 {
		t.Errorf("version = %d, expected 800", v)
	}
}

func TestParseGeology(t *testing.T) {
	g, err := ParseGeology("lake sediment", "PEATLAND")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Base != LakeSediment || g.Env != Peatland {
		t.Errorf("ParseGeology = %+v", g)
	}

	if g, err := ParseGeology("", ""); err != nil || !g.IsZero() {
		t.Errorf("empty geology = %+v, %v", g, err)
	}
	if _, err := ParseGeology("Granite", ""); err == nil {
		t.Error("expected an error for an unknown base type")
	}
	if _, err := ParseGeology("", "Desert"); err == nil {
		t.Error("expected an error for an unknown environment")
	}
}

func TestParameterInfo(t *testing.T) {
	if info := MagneticSusceptibility.Info(); info.DisplayMax != 1000 {
		t.Errorf("MS display max = %.0f", info.DisplayMax)
	}
	if _, err := ParseParameter("NAP"); err != nil {
		t.Errorf("ParseParameter(NAP): %v", err)
	}
	if _, err := ParseParameter("Fe"); err == nil {
		t.Error("expected an error for an unknown parameter")
	}
	if len(Independent)+3*len(Triples) != len(Parameters) {
		t.Error("independent parameters and triples do not cover the catalog")
	}
}
