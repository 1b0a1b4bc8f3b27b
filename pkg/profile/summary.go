package profile

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/chrissnell/paleoprofile/pkg/catalog"
	"github.com/chrissnell/paleoprofile/pkg/trend"
)

// Stats summarizes one parameter column.
type Stats struct {
	Mean         float64 `json:"mean"`
	StdDev       float64 `json:"stddev"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	ZeroFraction float64 `json:"zero_fraction"`
}

// Summarize returns per-parameter statistics over every row.
func Summarize(p *Profile) map[catalog.Parameter]Stats {
	out := make(map[catalog.Parameter]Stats, len(catalog.Parameters))
	if p == nil || len(p.Rows) == 0 {
		return out
	}

	for _, param := range catalog.Parameters {
		col := p.Column(param)

		zeros := 0
		for _, v := range col {
			if v == 0 {
				zeros++
			}
		}

		mean, std := stat.MeanStdDev(col, nil)
		if len(col) < 2 || math.IsNaN(std) {
			std = 0
		}

		out[param] = Stats{
			Mean:         trend.Round(mean),
			StdDev:       trend.Round(std),
			Min:          floats.Min(col),
			Max:          floats.Max(col),
			ZeroFraction: trend.Round(float64(zeros) / float64(len(col))),
		}
	}
	return out
}
