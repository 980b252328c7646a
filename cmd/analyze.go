package main

import (
	"context"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/route-profitability/internal/export"
	"github.com/sells-group/route-profitability/internal/metrics"
	"github.com/sells-group/route-profitability/internal/model"
	"github.com/sells-group/route-profitability/internal/pipeline"
	"github.com/sells-group/route-profitability/internal/store"
	"github.com/sells-group/route-profitability/internal/viz"
)

type analyzeOptions struct {
	seed          int64
	routes        int
	outputDir     string
	formats       []string
	noViz         bool
	noExport      bool
	noStore       bool
	useSampleData bool
}

var analyzeOpts analyzeOptions

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run a full route profitability analysis",
	Long:  "Generates a seeded synthetic network, computes profitability, insights and recommendations, renders charts and exports results.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		opts := analyzeOpts
		if !cmd.Flags().Changed("seed") {
			opts.seed = cfg.Generator.Seed
		}
		if !cmd.Flags().Changed("routes") {
			opts.routes = cfg.Generator.RouteCount
		}
		return runAnalyze(cmd.Context(), cmd.OutOrStdout(), opts)
	},
}

func init() {
	f := analyzeCmd.Flags()
	f.Int64Var(&analyzeOpts.seed, "seed", 42, "random seed for the synthetic network (default from config)")
	f.IntVar(&analyzeOpts.routes, "routes", 50, "number of routes to generate (default from config)")
	f.StringVar(&analyzeOpts.outputDir, "output-dir", "", "output directory for results (default from config)")
	f.StringSliceVar(&analyzeOpts.formats, "formats", nil, "export formats: csv, xlsx, json (default from config)")
	f.BoolVar(&analyzeOpts.noViz, "no-viz", false, "skip chart generation")
	f.BoolVar(&analyzeOpts.noExport, "no-export", false, "skip file export")
	f.BoolVar(&analyzeOpts.noStore, "no-store", false, "do not record the run in the history store")
	f.BoolVar(&analyzeOpts.useSampleData, "use-sample-data", false, "use generated sample data")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(ctx context.Context, out io.Writer, opts analyzeOptions) error {
	if !opts.useSampleData {
		zap.L().Warn("real data loading not implemented, using sample data")
	}

	cfg.Generator.RouteCount = opts.routes
	if opts.outputDir != "" {
		cfg.Export.OutputDir = opts.outputDir
	}
	if len(opts.formats) > 0 {
		cfg.Export.Formats = opts.formats
	}
	if err := cfg.Validate("analyze"); err != nil {
		return err
	}

	var st store.Store
	if !opts.noStore {
		s, err := initStore(ctx)
		if err != nil {
			return err
		}
		if s != nil {
			defer s.Close() //nolint:errcheck
			st = s
		}
	}

	p := pipeline.New(cfg, st, metrics.New(),
		export.NewWriter(cfg.Export.OutputDir, cfg.Export.Formats),
		viz.Render,
	)

	res, err := p.Run(ctx, model.RunParams{
		Seed:       opts.seed,
		RouteCount: opts.routes,
		OutputDir:  cfg.Export.OutputDir,
		Visualize:  cfg.Export.Charts && !opts.noViz,
		Export:     !opts.noExport,
	})
	if err != nil {
		return eris.Wrap(err, "analyze")
	}

	return pipeline.FormatSummary(out, res)
}
