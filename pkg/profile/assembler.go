package profile

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chrissnell/paleoprofile/pkg/catalog"
	"github.com/chrissnell/paleoprofile/pkg/composition"
	"github.com/chrissnell/paleoprofile/pkg/trend"
	"github.com/chrissnell/paleoprofile/pkg/zones"
)

const (
	DefaultMaxDepthPoints   = 5000
	DefaultBatchConcurrency = 4

	// streamMix derives the second PCG word from the seed.
	streamMix = 0x9e3779b97f4a7c15
)

// Options tunes an Assembler. Zero fields take their defaults.
type Options struct {
	MaxDepthPoints   int
	BatchConcurrency int
}

func (o Options) withDefaults() Options {
	if o.MaxDepthPoints <= 0 {
		o.MaxDepthPoints = DefaultMaxDepthPoints
	}
	if o.BatchConcurrency <= 0 {
		o.BatchConcurrency = DefaultBatchConcurrency
	}
	return o
}

// Assembler turns requests into profiles. It is safe for concurrent use;
// every run gets its own generator state and catalog view.
type Assembler struct {
	catalog *catalog.Catalog
	opts    Options
	logger  *zap.SugaredLogger
}

// NewAssembler returns an Assembler reading ranges from cat. A nil logger
// discards diagnostics.
func NewAssembler(cat *catalog.Catalog, opts Options, logger *zap.SugaredLogger) *Assembler {
	if cat == nil {
		cat = catalog.New(nil)
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Assembler{
		catalog: cat,
		opts:    opts.withDefaults(),
		logger:  logger,
	}
}

// Options returns the effective options.
func (a *Assembler) Options() Options {
	return a.opts
}

// Generate validates req and builds its profile.
func (a *Assembler) Generate(req Request) (*Profile, error) {
	if err := a.validate(req); err != nil {
		return nil, err
	}

	seed, err := resolveSeed(req.Seed)
	if err != nil {
		return nil, err
	}

	zs := zones.Partition(req.Depths, req.ZonePercentages)
	return a.assemble(req.Depths, zs, req.Geology, seed), nil
}

// GenerateBatch builds every request concurrently. Results keep the order
// of reqs; the first failure cancels the remaining work.
func (a *Assembler) GenerateBatch(ctx context.Context, reqs []Request) ([]*Profile, error) {
	if len(reqs) == 0 {
		return nil, nil
	}

	results := make([]*Profile, len(reqs))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.BatchConcurrency)

	for i, req := range reqs {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			p, err := a.Generate(req)
			if err != nil {
				return fmt.Errorf("request %d: %w", i, err)
			}
			results[i] = p
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// assemble runs the generation pass over already validated input.
func (a *Assembler) assemble(depths []float64, zs zones.Zones, geo catalog.Geology, seed uint64) *Profile {
	view := a.catalog.View()
	gen := trend.NewGenerator(rand.NewPCG(seed, seed^streamMix))

	p := &Profile{
		RunID:          uuid.New(),
		Seed:           seed,
		Geology:        geo,
		CatalogVersion: view.Version(),
		Zones:          zs,
		Rows:           make([]Row, 0, len(depths)),
	}
	maxDepth := depths[len(depths)-1]
	rangesByZone := make(map[int]catalog.Ranges, len(zs))

	for _, d := range depths {
		row := Row{
			Depth:  d,
			Zone:   zs.Locate(d),
			Values: make(map[catalog.Parameter]float64, len(catalog.Parameters)),
		}

		if !row.Assigned() {
			p.Diagnostics.Unassigned++
			a.logger.Warnw("depth outside every zone", "run_id", p.RunID, "depth", d)
			p.Rows = append(p.Rows, row)
			continue
		}

		zone, _ := zs.Bounds(row.Zone)
		ranges, ok := rangesByZone[zone.Index]
		if !ok {
			ranges = view.RangesFor(catalog.Query{Zone: zone.Index, ZoneCount: len(zs), Geology: geo})
			rangesByZone[zone.Index] = ranges
		}

		pos := trend.Position{
			Depth:     d,
			MaxDepth:  maxDepth,
			Zone:      zone.Index,
			ZoneStart: zone.Start,
			ZoneEnd:   zone.End,
		}

		for _, t := range catalog.Triples {
			members, ok := composition.Members(t, ranges)
			if !ok {
				for _, param := range t {
					row.Values[param] = 0
				}
				continue
			}
			res := composition.Compose(gen, members, pos)
			if res.Fallback {
				p.Diagnostics.Fallbacks++
				a.logger.Warnw("composition constraints not met, using forced values",
					"run_id", p.RunID, "depth", d, "zone", zone.Index,
					"triple", fmt.Sprintf("%s/%s/%s", t[0], t[1], t[2]), "values", res.Values)
			}
			for i, param := range t {
				row.Values[param] = res.Values[i]
			}
		}

		for _, param := range catalog.Independent {
			rg, ok := ranges[param]
			if !ok {
				row.Values[param] = 0
				continue
			}
			row.Values[param] = gen.Value(trend.Input{
				Position: pos,
				Key:      string(param),
				Min:      rg.Min,
				Max:      rg.Max,
				Kind:     rg.Trend,
			})
		}

		p.Rows = append(p.Rows, row)
	}

	a.logger.Debugw("profile generated", "run_id", p.RunID, "seed", seed, "rows", len(p.Rows),
		"zones", len(zs), "fallbacks", p.Diagnostics.Fallbacks, "unassigned", p.Diagnostics.Unassigned)
	return p
}
