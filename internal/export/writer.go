// Package export writes analysis results to CSV, XLSX and JSON files.
package export

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/route-profitability/internal/model"
)

// Bundle is everything one analysis run can export. Writers only read it.
type Bundle struct {
	Dataset         *model.Dataset
	Table           *model.ProfitabilityTable
	Insights        *model.InsightReport
	Recommendations *model.RecommendationSet
}

// Writer writes bundles into OutputDir in the configured formats.
type Writer struct {
	OutputDir string
	Formats   []string
}

// NewWriter creates a Writer. Empty formats means all formats.
func NewWriter(outputDir string, formats []string) *Writer {
	if len(formats) == 0 {
		formats = []string{"csv", "xlsx", "json"}
	}
	return &Writer{OutputDir: outputDir, Formats: formats}
}

// DefaultPrefix returns the timestamped file prefix for a run started at t.
func DefaultPrefix(t time.Time) string {
	return "airline_analysis_" + t.Format("20060102_150405")
}

type job struct {
	path  string
	write func(path string) error
}

// Write exports the bundle and returns the written file paths in a stable
// order. Files are written concurrently.
func (w *Writer) Write(ctx context.Context, prefix string, b Bundle) ([]string, error) {
	if !b.Dataset.Ready() {
		return nil, eris.Wrap(model.ErrNotInitialized, "export: no dataset")
	}
	if err := os.MkdirAll(w.OutputDir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "export: create output dir %s", w.OutputDir)
	}

	jobs := w.jobs(prefix, b)

	g, gctx := errgroup.WithContext(ctx)
	for _, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return eris.Wrap(err, "export: cancelled")
			}
			return j.write(j.path)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	paths := make([]string, len(jobs))
	for i, j := range jobs {
		paths[i] = j.path
	}

	zap.L().Info("export: files written",
		zap.String("output_dir", w.OutputDir),
		zap.String("prefix", prefix),
		zap.Int("files", len(paths)),
	)
	return paths, nil
}

func (w *Writer) jobs(prefix string, b Bundle) []job {
	path := func(suffix string) string {
		return filepath.Join(w.OutputDir, prefix+suffix)
	}

	var jobs []job
	if w.enabled("csv") {
		for _, t := range []struct {
			suffix string
			table  Table
		}{
			{"_routes.csv", RoutesTable(b.Dataset.Routes)},
			{"_passenger_data.csv", PassengersTable(b.Dataset.Passengers)},
			{"_cost_data.csv", CostsTable(b.Dataset.Costs)},
			{"_fuel_data.csv", FuelTable(b.Dataset.Fuel)},
		} {
			jobs = append(jobs, job{path(t.suffix), tableWriter(t.table)})
		}
		if b.Table != nil {
			jobs = append(jobs, job{path("_profitability.csv"), tableWriter(ProfitabilityTable(b.Table))})
		}
	}

	if w.enabled("xlsx") {
		tables := []Table{
			RoutesTable(b.Dataset.Routes),
			PassengersTable(b.Dataset.Passengers),
			CostsTable(b.Dataset.Costs),
			FuelTable(b.Dataset.Fuel),
		}
		if b.Table != nil {
			tables = append(tables, ProfitabilityTable(b.Table))
		}
		if b.Recommendations != nil {
			tables = append(tables, RecommendationsTable(b.Recommendations))
		}
		jobs = append(jobs, job{path(".xlsx"), func(p string) error { return WriteXLSX(p, tables...) }})
	}

	if w.enabled("json") {
		if b.Insights != nil {
			jobs = append(jobs, job{path("_insights.json"), jsonWriter(b.Insights)})
		}
		if b.Recommendations != nil {
			jobs = append(jobs, job{path("_recommendations.json"), jsonWriter(b.Recommendations)})
		}
	}
	return jobs
}

func (w *Writer) enabled(format string) bool {
	for _, f := range w.Formats {
		if strings.EqualFold(f, format) {
			return true
		}
	}
	return false
}

func tableWriter(t Table) func(string) error {
	return func(p string) error { return WriteCSV(p, t) }
}

func jsonWriter(v any) func(string) error {
	return func(p string) error { return WriteJSON(p, v) }
}
