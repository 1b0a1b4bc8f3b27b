package catalog

import (
	"fmt"
	"sort"
	"sync"
)

// Key identifies one override. Unused geology fields are the wildcard "".
type Key struct {
	Zone int      `json:"zone"`
	Base BaseType `json:"base_type,omitempty"`
	Env  EnvType  `json:"env_type,omitempty"`
}

func (k Key) String() string {
	return fmt.Sprintf("zone=%d base=%q env=%q", k.Zone, k.Base, k.Env)
}

// Query asks for the ranges of one zone. ZoneCount identifies the deepest
// zone, which takes its defaults from the base type.
type Query struct {
	Zone      int
	ZoneCount int
	Geology   Geology
}

// Key returns the override key for q.
func (q Query) Key() Key {
	return Key{Zone: q.Zone, Base: q.Geology.Base, Env: q.Geology.Env}
}

// Deepest reports whether q is for the last zone of the profile.
func (q Query) Deepest() bool {
	return q.ZoneCount > 0 && q.Zone == q.ZoneCount
}

// Override is one stored set of custom ranges.
type Override struct {
	Key    Key    `json:"key"`
	Ranges Ranges `json:"ranges"`
}

// OverrideStore holds custom ranges for the lifetime of the process. It is
// safe for concurrent use; every mutation bumps the version.
type OverrideStore struct {
	mu      sync.RWMutex
	entries map[Key]Ranges
	version uint64
}

// NewOverrideStore returns an empty store.
func NewOverrideStore() *OverrideStore {
	return &OverrideStore{entries: make(map[Key]Ranges)}
}

// Set replaces the ranges stored under k and returns the new version.
func (s *OverrideStore) Set(k Key, r Ranges) (uint64, error) {
	if k.Zone < 1 {
		return 0, fmt.Errorf("%w: zone must be positive, got %d", ErrInvalidRange, k.Zone)
	}
	if err := r.Validate(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[k] = r.Clone()
	s.version++
	return s.version, nil
}

// Get returns a copy of the ranges stored under k.
func (s *OverrideStore) Get(k Key) (Ranges, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.entries[k]
	if !ok {
		return nil, false
	}
	return r.Clone(), true
}

// Delete removes the override under k, reporting whether one existed.
func (s *OverrideStore) Delete(k Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[k]; !ok {
		return false
	}
	delete(s.entries, k)
	s.version++
	return true
}

// List returns every override ordered by zone, base and environment.
func (s *OverrideStore) List() []Override {
	s.mu.RLock()
	out := make([]Override, 0, len(s.entries))
	for k, r := range s.entries {
		out = append(out, Override{Key: k, Ranges: r.Clone()})
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Key, out[j].Key
		if a.Zone != b.Zone {
			return a.Zone < b.Zone
		}
		if a.Base != b.Base {
			return a.Base < b.Base
		}
		return a.Env < b.Env
	})
	return out
}

// Version returns the current mutation counter.
func (s *OverrideStore) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *OverrideStore) snapshot() (map[Key]Ranges, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[Key]Ranges, len(s.entries))
	for k, r := range s.entries {
		out[k] = r
	}
	return out, s.version
}

// Catalog resolves ranges from overrides first, then built-in defaults.
type Catalog struct {
	overrides *OverrideStore
}

// New returns a Catalog backed by store. A nil store gets an empty one.
func New(store *OverrideStore) *Catalog {
	if store == nil {
		store = NewOverrideStore()
	}
	return &Catalog{overrides: store}
}

// Overrides returns the backing store.
func (c *Catalog) Overrides() *OverrideStore {
	return c.overrides
}

// RangesFor resolves q against the current overrides.
func (c *Catalog) RangesFor(q Query) Ranges {
	return c.View().RangesFor(q)
}

// View captures the overrides as they are now, so a generation run sees
// one consistent catalog even while overrides change.
func (c *Catalog) View() *View {
	entries, version := c.overrides.snapshot()
	return &View{overrides: entries, version: version}
}

// View is an immutable snapshot of a Catalog.
type View struct {
	overrides map[Key]Ranges
	version   uint64
}

// Version returns the override version the view was taken at.
func (v *View) Version() uint64 {
	return v.version
}

// RangesFor returns the exact-match override for q if there is one,
// otherwise the built-in defaults. The result may be modified freely.
func (v *View) RangesFor(q Query) Ranges {
	if r, ok := v.overrides[q.Key()]; ok {
		return r.Clone()
	}
	return Defaults(q)
}
