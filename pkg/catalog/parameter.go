// Package catalog resolves the (min, max, trend) range of every profile
// parameter for a zone and geological context.
package catalog

import "fmt"

// Parameter is one measurable quantity in a profile.
type Parameter string

const (
	OrganicMatter          Parameter = "OM"
	Carbonate              Parameter = "CC"
	InorganicMatter        Parameter = "IM"
	Clay                   Parameter = "Clay"
	Silt                   Parameter = "Silt"
	Sand                   Parameter = "Sand"
	MagneticSusceptibility Parameter = "MS"
	Charcoal               Parameter = "CH"
	ArborealPollen         Parameter = "AP"
	NonArborealPollen      Parameter = "NAP"
	WarmLovingMolluscs     Parameter = "WL"
	ColdResistantMolluscs  Parameter = "CR"
	Calcium                Parameter = "Ca"
	Magnesium              Parameter = "Mg"
	Sodium                 Parameter = "Na"
	Potassium              Parameter = "K"
)

// Parameters lists every parameter in output column order.
var Parameters = []Parameter{
	OrganicMatter, Carbonate, InorganicMatter,
	Clay, Silt, Sand,
	MagneticSusceptibility, Charcoal,
	ArborealPollen, NonArborealPollen,
	WarmLovingMolluscs, ColdResistantMolluscs,
	Calcium, Magnesium, Sodium, Potassium,
}

// Independent lists the parameters generated one at a time, outside any
// compositional triple.
var Independent = []Parameter{
	MagneticSusceptibility, Charcoal,
	ArborealPollen, NonArborealPollen,
	WarmLovingMolluscs, ColdResistantMolluscs,
	Calcium, Magnesium, Sodium, Potassium,
}

// Triple is a set of three percentages that must sum to 100.
type Triple [3]Parameter

var (
	// LossOnIgnition splits a sample into organic, carbonate and inorganic
	// fractions.
	LossOnIgnition = Triple{OrganicMatter, Carbonate, InorganicMatter}
	// GrainSize splits the mineral fraction into clay, silt and sand.
	GrainSize = Triple{Clay, Silt, Sand}

	Triples = []Triple{LossOnIgnition, GrainSize}
)

// Info describes a parameter for presentation. The display range is what
// a range editor offers; generation never reads it.
type Info struct {
	Key        Parameter `json:"key"`
	Label      string    `json:"label"`
	DisplayMin float64   `json:"display_min"`
	DisplayMax float64   `json:"display_max"`
}

var infos = map[Parameter]Info{
	OrganicMatter:          {OrganicMatter, "Organic Matter Content", 0, 100},
	Carbonate:              {Carbonate, "Carbonate Content", 0, 100},
	InorganicMatter:        {InorganicMatter, "Inorganic Matter Content", 0, 100},
	Clay:                   {Clay, "Clay", 0, 100},
	Silt:                   {Silt, "Silt", 0, 100},
	Sand:                   {Sand, "Sand", 0, 100},
	MagneticSusceptibility: {MagneticSusceptibility, "Magnetic Susceptibility", 0, 1000},
	Charcoal:               {Charcoal, "Charcoal", 0, 3000},
	ArborealPollen:         {ArborealPollen, "Arboreal Pollen", 0, 3000},
	NonArborealPollen:      {NonArborealPollen, "Non-arboreal Pollen", 0, 3000},
	WarmLovingMolluscs:     {WarmLovingMolluscs, "Warm-loving mollusc species", 0, 3000},
	ColdResistantMolluscs:  {ColdResistantMolluscs, "Cold-resistant mollusc species", 0, 3000},
	Calcium:                {Calcium, "Ca", 0, 4000},
	Magnesium:              {Magnesium, "Mg", 0, 4000},
	Sodium:                 {Sodium, "Na", 0, 4000},
	Potassium:              {Potassium, "K", 0, 4000},
}

// Info returns presentation metadata for p.
func (p Parameter) Info() Info {
	if info, ok := infos[p]; ok {
		return info
	}
	return Info{Key: p, Label: string(p), DisplayMin: 0, DisplayMax: 100}
}

// Valid reports whether p is a known parameter.
func (p Parameter) Valid() bool {
	_, ok := infos[p]
	return ok
}

// ParseParameter returns the parameter with the given key.
func ParseParameter(s string) (Parameter, error) {
	p := Parameter(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown parameter %q", s)
	}
	return p, nil
}
