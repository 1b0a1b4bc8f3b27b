package catalog

import "github.com/chrissnell/paleoprofile/pkg/trend"

func rng(min, max float64, k trend.Kind) Range {
	return Range{Min: min, Max: max, Trend: k}
}

// flatDefaults apply to every zone when no geological context is given.
var flatDefaults = Ranges{
	OrganicMatter:          rng(0, 100, trend.Random),
	InorganicMatter:        rng(0, 100, trend.Random),
	Carbonate:              rng(0, 100, trend.Random),
	Clay:                   rng(0, 100, trend.Random),
	Silt:                   rng(0, 100, trend.Random),
	Sand:                   rng(0, 100, trend.Random),
	MagneticSusceptibility: rng(0, 2000, trend.Random),
	Charcoal:               rng(0, 2000, trend.Random),
	ArborealPollen:         rng(0, 2000, trend.Random),
	NonArborealPollen:      rng(0, 2000, trend.Random),
	WarmLovingMolluscs:     rng(0, 2000, trend.Random),
	ColdResistantMolluscs:  rng(0, 2000, trend.Random),
	Calcium:                rng(0, 2000, trend.Random),
	Magnesium:              rng(0, 2000, trend.Random),
	Sodium:                 rng(0, 2000, trend.Random),
	Potassium:              rng(0, 2000, trend.Random),
}

// baseDefaults describe the deepest zone. Bedrock and sand bases carry no
// biological record.
var baseDefaults = map[BaseType]Ranges{
	Rock: {
		OrganicMatter:          rng(0, 5, trend.Random),
		Carbonate:              rng(0, 30, trend.Random),
		InorganicMatter:        rng(65, 100, trend.LowFluctuation),
		Clay:                   rng(0, 20, trend.Random),
		Silt:                   rng(5, 35, trend.Random),
		Sand:                   rng(45, 95, trend.LowFluctuation),
		MagneticSusceptibility: rng(100, 1000, trend.HighFluctuation),
		Calcium:                rng(100, 1500, trend.Random),
		Magnesium:              rng(50, 900, trend.Random),
		Sodium:                 rng(10, 300, trend.Random),
		Potassium:              rng(20, 400, trend.Random),
	},
	SandBase: {
		OrganicMatter:          rng(0, 8, trend.Random),
		Carbonate:              rng(0, 20, trend.Sporadic),
		InorganicMatter:        rng(72, 100, trend.LowFluctuation),
		Clay:                   rng(0, 15, trend.Random),
		Silt:                   rng(5, 30, trend.Random),
		Sand:                   rng(55, 95, trend.Rising),
		MagneticSusceptibility: rng(20, 400, trend.Random),
		ArborealPollen:         rng(0, 200, trend.Sporadic),
		NonArborealPollen:      rng(0, 300, trend.Sporadic),
		Calcium:                rng(50, 600, trend.Random),
		Magnesium:              rng(20, 300, trend.Random),
		Sodium:                 rng(5, 150, trend.Random),
		Potassium:              rng(10, 200, trend.Random),
	},
	Paleosol: {
		OrganicMatter:          rng(3, 20, trend.Falling),
		Carbonate:              rng(0, 25, trend.Random),
		InorganicMatter:        rng(55, 97, trend.LowFluctuation),
		Clay:                   rng(25, 60, trend.LowFluctuation),
		Silt:                   rng(25, 60, trend.Random),
		Sand:                   rng(5, 35, trend.Random),
		MagneticSusceptibility: rng(50, 700, trend.Rising),
		Charcoal:               rng(0, 600, trend.Sporadic),
		ArborealPollen:         rng(50, 900, trend.Random),
		NonArborealPollen:      rng(200, 1500, trend.Random),
		WarmLovingMolluscs:     rng(0, 150, trend.Sporadic),
		ColdResistantMolluscs:  rng(0, 150, trend.Sporadic),
		Calcium:                rng(200, 2000, trend.LowFluctuation),
		Magnesium:              rng(50, 700, trend.Random),
		Sodium:                 rng(10, 250, trend.Random),
		Potassium:              rng(20, 500, trend.Random),
	},
	LakeSediment: {
		OrganicMatter:          rng(2, 25, trend.LowFluctuation),
		Carbonate:              rng(15, 65, trend.Random),
		InorganicMatter:        rng(20, 80, trend.LowFluctuation),
		Clay:                   rng(25, 65, trend.Random),
		Silt:                   rng(25, 65, trend.LowFluctuation),
		Sand:                   rng(0, 20, trend.Sporadic),
		MagneticSusceptibility: rng(10, 300, trend.Falling),
		Charcoal:               rng(0, 200, trend.Sporadic),
		ArborealPollen:         rng(100, 1000, trend.Random),
		NonArborealPollen:      rng(100, 800, trend.Random),
		WarmLovingMolluscs:     rng(0, 300, trend.Random),
		ColdResistantMolluscs:  rng(0, 300, trend.Random),
		Calcium:                rng(500, 3000, trend.LowFluctuation),
		Magnesium:              rng(100, 800, trend.Random),
		Sodium:                 rng(20, 300, trend.Random),
		Potassium:              rng(10, 250, trend.Random),
	},
}

// envDefaults describe every zone above the deepest one.
var envDefaults = map[EnvType]Ranges{
	Lake: {
		OrganicMatter:          rng(5, 35, trend.LowFluctuation),
		Carbonate:              rng(10, 55, trend.Random),
		InorganicMatter:        rng(20, 70, trend.LowFluctuation),
		Clay:                   rng(20, 60, trend.LowFluctuation),
		Silt:                   rng(30, 70, trend.Random),
		Sand:                   rng(0, 20, trend.Sporadic),
		MagneticSusceptibility: rng(5, 150, trend.Falling),
		Charcoal:               rng(0, 300, trend.Sporadic),
		ArborealPollen:         rng(200, 1500, trend.RiseFall),
		NonArborealPollen:      rng(100, 900, trend.FallRise),
		WarmLovingMolluscs:     rng(0, 400, trend.StagnantRising),
		ColdResistantMolluscs:  rng(0, 300, trend.StagnantFalling),
		Calcium:                rng(300, 2500, trend.LowFluctuation),
		Magnesium:              rng(50, 600, trend.Random),
		Sodium:                 rng(10, 200, trend.HighFluctuation),
		Potassium:              rng(5, 150, trend.Random),
	},
	Peatland: {
		OrganicMatter:          rng(50, 95, trend.Rising),
		Carbonate:              rng(0, 10, trend.Sporadic),
		InorganicMatter:        rng(5, 45, trend.Falling),
		Clay:                   rng(5, 35, trend.Random),
		Silt:                   rng(20, 60, trend.LowFluctuation),
		Sand:                   rng(5, 40, trend.Random),
		MagneticSusceptibility: rng(1, 40, trend.LowFluctuation),
		Charcoal:               rng(50, 1500, trend.HighFluctuation),
		ArborealPollen:         rng(500, 2500, trend.StagnantRising),
		NonArborealPollen:      rng(200, 1500, trend.Random),
		WarmLovingMolluscs:     rng(0, 100, trend.Sporadic),
		ColdResistantMolluscs:  rng(0, 80, trend.Sporadic),
		Calcium:                rng(50, 800, trend.Falling),
		Magnesium:              rng(20, 300, trend.LowFluctuation),
		Sodium:                 rng(5, 100, trend.Random),
		Potassium:              rng(5, 80, trend.LowFluctuation),
	},
	Wetland: {
		OrganicMatter:          rng(20, 70, trend.HighFluctuation),
		Carbonate:              rng(2, 30, trend.Random),
		InorganicMatter:        rng(15, 70, trend.LowFluctuation),
		Clay:                   rng(15, 50, trend.RiseFall),
		Silt:                   rng(25, 65, trend.Random),
		Sand:                   rng(5, 40, trend.FallRise),
		MagneticSusceptibility: rng(5, 100, trend.Random),
		Charcoal:               rng(20, 800, trend.Sporadic),
		ArborealPollen:         rng(300, 1800, trend.LowFluctuation),
		NonArborealPollen:      rng(300, 2000, trend.Rising),
		WarmLovingMolluscs:     rng(0, 250, trend.RiseFall),
		ColdResistantMolluscs:  rng(0, 250, trend.FallRise),
		Calcium:                rng(150, 1800, trend.Random),
		Magnesium:              rng(30, 450, trend.HighFluctuation),
		Sodium:                 rng(10, 300, trend.LowFluctuation),
		Potassium:              rng(10, 200, trend.Random),
	},
}

// Defaults returns the built-in ranges for q, ignoring overrides.
func Defaults(q Query) Ranges {
	if q.Geology.IsZero() {
		return flatDefaults.Clone()
	}
	if q.Deepest() {
		if r, ok := baseDefaults[q.Geology.Base]; ok {
			return r.Clone()
		}
		return Ranges{}
	}
	if r, ok := envDefaults[q.Geology.Env]; ok {
		return r.Clone()
	}
	return Ranges{}
}
