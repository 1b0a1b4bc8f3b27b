package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/chrissnell/paleoprofile/internal/app"
	"github.com/chrissnell/paleoprofile/internal/export"
	"github.com/chrissnell/paleoprofile/internal/log"
	"github.com/chrissnell/paleoprofile/pkg/catalog"
	"github.com/chrissnell/paleoprofile/pkg/profile"
)

// --- generate ---

type generateOptions struct {
	depths      string
	maxDepth    float64
	depthRange  string
	step        float64
	percentages string
	zones       int
	base        string
	env         string
	seed        uint64
	format      string
	out         string
	summary     bool
}

func newGenerateCmd() *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one profile and write it as CSV or JSON",
		Long: `Generate one profile and write it as CSV or JSON.

Depths come from --depths, or from 0 to --max-depth in --step increments.
--depth-range draws the maximum depth at random instead. Zone shares come
from --percentages, or are drawn at random for --zones zones.

Examples:
  paleoprofile generate --max-depth 100 --step 2 --zones 4
  paleoprofile generate --depths 0,5,10,15 --percentages 50,50 --seed 42
  paleoprofile generate --depth-range 50,200 --base Rock --env Lake --format json --out profile.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			format, err := export.ParseFormat(opts.format)
			if err != nil {
				return err
			}

			plan, err := opts.plan(cmd)
			if err != nil {
				return err
			}
			if plan.Step == 0 {
				plan.Step = cfg.Generation.DefaultStep
			}
			if plan.ZoneCount == 0 {
				plan.ZoneCount = cfg.Generation.DefaultZones
			}
			plan.MaxPoints = cfg.Generation.MaxDepthPoints

			req, err := plan.Request()
			if err != nil {
				return err
			}

			_, assembler, err := app.NewEngine(cfg, log.Named("generate"))
			if err != nil {
				return err
			}
			p, err := assembler.Generate(req)
			if err != nil {
				return err
			}

			if opts.out == "" {
				err = export.Write(cmd.OutOrStdout(), format, p)
			} else {
				err = export.WriteFile(opts.out, format, p)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "run %s: seed %d, %d depths in %d zones, %d composition fallbacks, %d unassigned depths\n",
				p.RunID, p.Seed, len(p.Rows), len(p.Zones), p.Diagnostics.Fallbacks, p.Diagnostics.Unassigned)

			if opts.summary {
				return writeSummary(cmd.ErrOrStderr(), profile.Summarize(p))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.depths, "depths", "", "comma-separated ascending depths")
	f.Float64Var(&opts.maxDepth, "max-depth", 0, "deepest depth of a regular depth sequence")
	f.StringVar(&opts.depthRange, "depth-range", "", "draw the maximum depth from MIN,MAX")
	f.Float64Var(&opts.step, "step", 0, "spacing of a regular depth sequence (default from configuration)")
	f.StringVar(&opts.percentages, "percentages", "", "comma-separated zone shares summing to 100")
	f.IntVar(&opts.zones, "zones", 0, "number of randomly sized zones (default from configuration)")
	f.StringVar(&opts.base, "base", "", "base type: Rock, Sand, Paleosol or \"Lake sediment\"")
	f.StringVar(&opts.env, "env", "", "environment type: Lake, Peatland or Wetland")
	f.Uint64Var(&opts.seed, "seed", 0, "seed for a reproducible profile (random when unset)")
	f.StringVar(&opts.format, "format", "csv", "output format: csv or json")
	f.StringVarP(&opts.out, "out", "o", "", "output file (stdout when empty)")
	f.BoolVar(&opts.summary, "summary", false, "print per-parameter statistics to stderr")
	return cmd
}

func (o generateOptions) plan(cmd *cobra.Command) (profile.Plan, error) {
	geo, err := catalog.ParseGeology(o.base, o.env)
	if err != nil {
		return profile.Plan{}, err
	}

	p := profile.Plan{
		MaxDepth:  o.maxDepth,
		Step:      o.step,
		ZoneCount: o.zones,
		Geology:   geo,
	}

	if p.Depths, err = parseFloats(o.depths); err != nil {
		return profile.Plan{}, fmt.Errorf("--depths: %w", err)
	}
	if p.ZonePercentages, err = parseFloats(o.percentages); err != nil {
		return profile.Plan{}, fmt.Errorf("--percentages: %w", err)
	}
	if o.depthRange != "" {
		if p.DepthRange, err = parseRange(o.depthRange); err != nil {
			return profile.Plan{}, fmt.Errorf("--depth-range: %w", err)
		}
	}
	if len(p.Depths) == 0 && p.MaxDepth <= 0 && o.depthRange == "" {
		return profile.Plan{}, fmt.Errorf("one of --depths, --max-depth or --depth-range is required")
	}

	if cmd.Flags().Changed("seed") {
		seed := o.seed
		p.Seed = &seed
	}
	return p, nil
}

func writeSummary(w io.Writer, stats map[catalog.Parameter]profile.Stats) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Parameter\tMean\tStdDev\tMin\tMax\tZero %\t")
	for _, p := range catalog.Parameters {
		s := stats[p]
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.1f\t\n", p, s.Mean, s.StdDev, s.Min, s.Max, s.ZeroFraction*100)
	}
	return tw.Flush()
}

// --- catalog ---

func newCatalogCmd() *cobra.Command {
	var (
		zone, zones int
		base, env   string
	)

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the ranges a zone generates from",
		Long: `Print the ranges a zone generates from, including configured presets.

Examples:
  paleoprofile catalog
  paleoprofile catalog --zone 4 --zones 4 --base Paleosol --env Wetland`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if zone < 1 {
				return fmt.Errorf("--zone must be positive, got %d", zone)
			}
			if zones == 0 {
				zones = max(zone, cfg.Generation.DefaultZones)
			}
			if zones < zone {
				return fmt.Errorf("--zones %d is smaller than --zone %d", zones, zone)
			}
			geo, err := catalog.ParseGeology(base, env)
			if err != nil {
				return err
			}

			cat, _, err := app.NewEngine(cfg, log.Named("catalog"))
			if err != nil {
				return err
			}
			ranges := cat.RangesFor(catalog.Query{Zone: zone, ZoneCount: zones, Geology: geo})

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "PARAMETER\tLABEL\tMIN\tMAX\tTREND")
			for _, p := range catalog.Parameters {
				r, ok := ranges[p]
				if !ok {
					fmt.Fprintf(tw, "%s\t%s\t-\t-\tnot modelled\n", p, p.Info().Label)
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%.2f\t%.2f\t%s (%s)\n", p, p.Info().Label, r.Min, r.Max, r.Trend, r.Trend.Description())
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&zone, "zone", 1, "zone number, 1 is the shallowest")
	cmd.Flags().IntVar(&zones, "zones", 0, "total zone count; the last zone follows the base type")
	cmd.Flags().StringVar(&base, "base", "", "base type")
	cmd.Flags().StringVar(&env, "env", "", "environment type")
	return cmd
}

// --- serve ---

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			defer log.Sync()

			return app.New(cfg, log.GetSugaredLogger()).Run(cmd.Context())
		},
	}
}

// --- version ---

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version and exit",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "paleoprofile %s\n", version)
		},
	}
}

func parseFloats(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func parseRange(s string) ([2]int, error) {
	lo, hi, ok := strings.Cut(s, ",")
	if !ok {
		return [2]int{}, fmt.Errorf("want MIN,MAX, got %q", s)
	}
	low, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return [2]int{}, err
	}
	high, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return [2]int{}, err
	}
	return [2]int{low, high}, nil
}
