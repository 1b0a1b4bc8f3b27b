package restserver

import (
	"io"

	"github.com/chrissnell/paleoprofile/internal/export"
	"github.com/chrissnell/paleoprofile/internal/log"
	"github.com/chrissnell/paleoprofile/pkg/catalog"
	"github.com/chrissnell/paleoprofile/pkg/config"
	"github.com/chrissnell/paleoprofile/pkg/profile"
	"github.com/chrissnell/paleoprofile/pkg/trend"
)

// Response headers identifying a generated profile
const (
	runIDHeader = "X-Run-ID"
	seedHeader  = "X-Profile-Seed"
)

// ProfileRequest is the body of POST /profiles. Depths wins over
// max_depth, step and depth_range; zone_percentages wins over zones.
type ProfileRequest struct {
	Depths          []float64 `json:"depths,omitempty"`
	MaxDepth        float64   `json:"max_depth,omitempty"`
	Step            float64   `json:"step,omitempty"`
	DepthRange      *[2]int   `json:"depth_range,omitempty"`
	ZonePercentages []float64 `json:"zone_percentages,omitempty"`
	Zones           int       `json:"zones,omitempty"`
	BaseType        string    `json:"base_type,omitempty"`
	EnvType         string    `json:"env_type,omitempty"`
	Seed            *uint64   `json:"seed,omitempty"`
	Summary         bool      `json:"summary,omitempty"`
}

// plan turns the body into a profile plan, filling the service defaults.
func (r ProfileRequest) plan(gen config.GenerationData) (profile.Plan, error) {
	geo, err := catalog.ParseGeology(r.BaseType, r.EnvType)
	if err != nil {
		return profile.Plan{}, &profile.ValidationError{Field: "geology", Reason: err.Error()}
	}
	if len(r.Depths) == 0 && r.MaxDepth <= 0 && r.DepthRange == nil {
		return profile.Plan{}, &profile.ValidationError{Field: "depths", Reason: "one of depths, max_depth or depth_range is required"}
	}

	p := profile.Plan{
		Depths:          r.Depths,
		MaxDepth:        r.MaxDepth,
		Step:            r.Step,
		ZonePercentages: r.ZonePercentages,
		ZoneCount:       r.Zones,
		Geology:         geo,
		Seed:            r.Seed,
		MaxPoints:       gen.MaxDepthPoints,
	}
	if r.DepthRange != nil {
		p.DepthRange = *r.DepthRange
	}
	if p.Step == 0 {
		p.Step = gen.DefaultStep
	}
	if p.ZoneCount == 0 {
		p.ZoneCount = gen.DefaultZones
	}
	return p, nil
}

// BatchRequest is the body of POST /profiles/batch.
type BatchRequest struct {
	Requests []ProfileRequest `json:"requests"`
}

// ProfileResponse wraps a generated profile and, on request, its column
// statistics.
type ProfileResponse struct {
	Profile *profile.Profile                    `json:"profile"`
	Summary map[catalog.Parameter]profile.Stats `json:"summary,omitempty"`
}

func newProfileResponse(p *profile.Profile, summary bool) ProfileResponse {
	resp := ProfileResponse{Profile: p}
	if summary {
		resp.Summary = profile.Summarize(p)
	}
	return resp
}

// WriteCSV writes the profile rows as a table.
func (r ProfileResponse) WriteCSV(w io.Writer) error {
	return export.WriteCSV(w, r.Profile)
}

// BatchResponse holds the profiles of a batch in request order.
type BatchResponse struct {
	Profiles []ProfileResponse `json:"profiles"`
}

// TrendInfo names one trend code.
type TrendInfo struct {
	Code        trend.Kind `json:"code"`
	Description string     `json:"description"`
}

// ParametersResponse describes everything a range editor can offer.
type ParametersResponse struct {
	Parameters []catalog.Info     `json:"parameters"`
	Triples    []catalog.Triple   `json:"triples"`
	Trends     []TrendInfo        `json:"trends"`
	BaseTypes  []catalog.BaseType `json:"base_types"`
	EnvTypes   []catalog.EnvType  `json:"env_types"`
}

// RangesResponse is the effective range table for one zone.
type RangesResponse struct {
	Zone           int             `json:"zone"`
	ZoneCount      int             `json:"zones"`
	Geology        catalog.Geology `json:"geology"`
	CatalogVersion uint64          `json:"catalog_version"`
	Ranges         catalog.Ranges  `json:"ranges"`
}

// OverridesResponse lists the stored overrides.
type OverridesResponse struct {
	CatalogVersion uint64             `json:"catalog_version"`
	Overrides      []catalog.Override `json:"overrides"`
}

// OverrideResult reports a mutation of the override store.
type OverrideResult struct {
	Key            catalog.Key `json:"key"`
	CatalogVersion uint64      `json:"catalog_version"`
}

// HTTPLogsResponse returns recent requests, oldest first.
type HTTPLogsResponse struct {
	Entries []log.LogEntry `json:"entries"`
}
