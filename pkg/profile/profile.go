// Package profile assembles synthetic paleo profiles: one row per depth,
// every parameter generated from the ranges of the owning zone.
package profile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/chrissnell/paleoprofile/pkg/catalog"
	"github.com/chrissnell/paleoprofile/pkg/zones"
)

// Request describes one profile to generate.
type Request struct {
	Depths          []float64
	ZonePercentages []float64
	Geology         catalog.Geology
	// Seed makes a run reproducible. A nil seed is drawn at random and
	// recorded in the Profile.
	Seed *uint64
}

// Row is the record for one depth. Zone is zones.None for a depth no zone
// contains.
type Row struct {
	Depth  float64
	Zone   int
	Values map[catalog.Parameter]float64
}

// Value returns the value of p, zero when absent.
func (r Row) Value(p catalog.Parameter) float64 {
	return r.Values[p]
}

// Assigned reports whether the depth belongs to a zone.
func (r Row) Assigned() bool {
	return r.Zone != zones.None
}

// Header returns the column names of a row, in output order.
func Header() []string {
	out := make([]string, 0, 2+len(catalog.Parameters))
	out = append(out, "Depth", "Zone")
	for _, p := range catalog.Parameters {
		out = append(out, string(p))
	}
	return out
}

// MarshalJSON writes the row as one flat object in column order. An
// unassigned zone is null.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"Depth":`)
	buf.Write(strconv.AppendFloat(nil, r.Depth, 'f', -1, 64))
	buf.WriteString(`,"Zone":`)
	if r.Assigned() {
		buf.WriteString(strconv.Itoa(r.Zone))
	} else {
		buf.WriteString("null")
	}
	for _, p := range catalog.Parameters {
		buf.WriteString(`,"`)
		buf.WriteString(string(p))
		buf.WriteString(`":`)
		buf.Write(strconv.AppendFloat(nil, r.Values[p], 'f', -1, 64))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the flat form written by MarshalJSON.
func (r *Row) UnmarshalJSON(data []byte) error {
	var raw map[string]*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	depth, ok := raw["Depth"]
	if !ok || depth == nil {
		return fmt.Errorf("row is missing Depth")
	}
	r.Depth = *depth
	r.Zone = zones.None
	if z := raw["Zone"]; z != nil {
		r.Zone = int(*z)
	}

	r.Values = make(map[catalog.Parameter]float64, len(catalog.Parameters))
	for _, p := range catalog.Parameters {
		if v := raw[string(p)]; v != nil {
			r.Values[p] = *v
		}
	}
	return nil
}

// EncodeMsgpack writes the row as a flat map, matching the JSON form.
func (r Row) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeMapLen(2 + len(catalog.Parameters)); err != nil {
		return err
	}
	if err := enc.EncodeString("Depth"); err != nil {
		return err
	}
	if err := enc.EncodeFloat64(r.Depth); err != nil {
		return err
	}
	if err := enc.EncodeString("Zone"); err != nil {
		return err
	}
	if r.Assigned() {
		if err := enc.EncodeInt(int64(r.Zone)); err != nil {
			return err
		}
	} else if err := enc.EncodeNil(); err != nil {
		return err
	}
	for _, p := range catalog.Parameters {
		if err := enc.EncodeString(string(p)); err != nil {
			return err
		}
		if err := enc.EncodeFloat64(r.Values[p]); err != nil {
			return err
		}
	}
	return nil
}

// Diagnostics counts degraded results inside one profile.
type Diagnostics struct {
	// Fallbacks is the number of triples forced to sum to 100 after the
	// constrained search gave up.
	Fallbacks int `json:"composition_fallbacks"`
	// Unassigned is the number of depths outside every zone.
	Unassigned int `json:"unassigned_depths"`
}

// Profile is the output of one generation run.
type Profile struct {
	RunID          uuid.UUID       `json:"run_id"`
	Seed           uint64          `json:"seed"`
	Geology        catalog.Geology `json:"geology"`
	CatalogVersion uint64          `json:"catalog_version"`
	Zones          zones.Zones     `json:"zones"`
	Rows           []Row           `json:"rows"`
	Diagnostics    Diagnostics     `json:"diagnostics"`
}

// MaxDepth returns the deepest depth of the profile.
func (p *Profile) MaxDepth() float64 {
	if len(p.Rows) == 0 {
		return 0
	}
	return p.Rows[len(p.Rows)-1].Depth
}

// Column returns the values of one parameter in depth order.
func (p *Profile) Column(param catalog.Parameter) []float64 {
	out := make([]float64, len(p.Rows))
	for i, r := range p.Rows {
		out[i] = r.Values[param]
	}
	return out
}
