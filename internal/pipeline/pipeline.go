// Package pipeline runs one end-to-end route profitability analysis and
// records it in the run history.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/route-profitability/internal/analyzer"
	"github.com/sells-group/route-profitability/internal/config"
	"github.com/sells-group/route-profitability/internal/export"
	"github.com/sells-group/route-profitability/internal/generator"
	"github.com/sells-group/route-profitability/internal/metrics"
	"github.com/sells-group/route-profitability/internal/model"
	"github.com/sells-group/route-profitability/internal/network"
	"github.com/sells-group/route-profitability/internal/recommend"
	"github.com/sells-group/route-profitability/internal/resilience"
	"github.com/sells-group/route-profitability/internal/store"
)

// Phase names, in execution order.
const (
	PhaseGenerate        = "generate"
	PhaseProfitability   = "profitability"
	PhaseInsights        = "insights"
	PhaseVisualize       = "visualize"
	PhaseRecommendations = "recommendations"
	PhaseExport          = "export"
	PhasePersist         = "persist"
)

// Exporter writes analysis results to files.
type Exporter interface {
	Write(ctx context.Context, prefix string, b export.Bundle) ([]string, error)
}

// RenderFunc renders charts into dir and returns the written paths.
type RenderFunc func(dir, prefix string, table *model.ProfitabilityTable, insights *model.InsightReport) ([]string, error)

// Result is everything one run produced.
type Result struct {
	RunID           string
	Params          model.RunParams
	Dataset         *model.Dataset
	Table           *model.ProfitabilityTable
	Insights        *model.InsightReport
	Recommendations *model.RecommendationSet
	Summary         *model.RunSummary
	Files           []string
	Phases          []model.PhaseResult
}

// Pipeline orchestrates generation, analysis, export and persistence.
// Store, metrics, exporter and renderer are optional.
type Pipeline struct {
	cfg      *config.Config
	store    store.Store
	metrics  *metrics.Registry
	exporter Exporter
	render   RenderFunc
	retry    resilience.RetryConfig
	now      func() time.Time
}

// New creates a new Pipeline.
func New(cfg *config.Config, st store.Store, m *metrics.Registry, exp Exporter, render RenderFunc) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		store:    st,
		metrics:  m,
		exporter: exp,
		render:   render,
		retry:    resilience.DefaultRetryConfig(),
		now:      time.Now,
	}
}

// Run executes one analysis. Zero RouteCount, OutputDir and Prefix take
// their values from the configuration. On failure the run is marked failed
// and the error returned.
func (p *Pipeline) Run(ctx context.Context, params model.RunParams) (*Result, error) {
	params = p.withDefaults(params)
	log := zap.L().With(zap.Int64("seed", params.Seed), zap.Int("route_count", params.RouteCount))
	log.Info("pipeline: starting analysis")

	run, err := p.createRun(ctx, params)
	if err != nil {
		return nil, err
	}
	log = log.With(zap.String("run_id", run.ID))

	result := &Result{RunID: run.ID, Params: params}

	// Status and phase writes outlive ctx so a cancelled run still ends failed.
	bookCtx := context.WithoutCancel(ctx)

	setStatus := func(status model.RunStatus) {
		if p.store == nil {
			return
		}
		if statusErr := p.store.UpdateRunStatus(bookCtx, run.ID, status); statusErr != nil {
			log.Warn("pipeline: failed to update status", zap.Error(statusErr))
		}
	}

	startPhase := func(name string) *model.RunPhase {
		if p.store == nil {
			return nil
		}
		phase, phaseErr := p.store.CreatePhase(bookCtx, run.ID, name)
		if phaseErr != nil {
			log.Warn("pipeline: failed to create phase", zap.String("phase", name), zap.Error(phaseErr))
			return nil
		}
		return phase
	}

	finishPhase := func(phase *model.RunPhase, pr *model.PhaseResult) {
		if phase != nil {
			if doneErr := p.store.CompletePhase(bookCtx, phase.ID, pr); doneErr != nil {
				log.Warn("pipeline: failed to complete phase", zap.String("phase", pr.Name), zap.Error(doneErr))
			}
		}
		result.Phases = append(result.Phases, *pr)
	}

	trackPhase := func(name string, fn func() (map[string]any, error)) error {
		if err := ctx.Err(); err != nil {
			return eris.Wrapf(err, "pipeline: %s cancelled", name)
		}

		phase := startPhase(name)
		start := p.now()
		meta, fnErr := fn()
		elapsed := p.now().Sub(start)

		pr := &model.PhaseResult{Name: name, Duration: elapsed.Milliseconds(), Metadata: meta}
		if fnErr != nil {
			pr.Status = model.PhaseStatusFailed
			pr.Error = fnErr.Error()
			log.Error("pipeline: phase failed",
				zap.String("phase", name),
				zap.Int64("duration_ms", pr.Duration),
				zap.Error(fnErr),
			)
		} else {
			pr.Status = model.PhaseStatusComplete
			log.Info("pipeline: phase complete",
				zap.String("phase", name),
				zap.Int64("duration_ms", pr.Duration),
			)
		}
		if p.metrics != nil {
			p.metrics.ObservePhase(name, elapsed)
		}
		finishPhase(phase, pr)
		return fnErr
	}

	skipPhase := func(name string) {
		log.Debug("pipeline: phase skipped", zap.String("phase", name))
		finishPhase(startPhase(name), &model.PhaseResult{Name: name, Status: model.PhaseStatusSkipped})
	}

	fail := func(err error) (*Result, error) {
		if p.store != nil {
			if failErr := p.store.FailRun(bookCtx, run.ID, err.Error()); failErr != nil {
				log.Warn("pipeline: failed to mark run failed", zap.Error(failErr))
			}
		}
		if p.metrics != nil {
			p.metrics.RecordRun(model.RunStatusFailed, nil)
		}
		return nil, err
	}

	var an *analyzer.Analyzer

	// ===== Generate =====
	setStatus(model.RunStatusGenerating)
	err = trackPhase(PhaseGenerate, func() (map[string]any, error) {
		gen, genErr := p.generator(params)
		if genErr != nil {
			return nil, genErr
		}
		an = analyzer.New(gen, recommend.FromConfig(p.cfg.Recommend), p.cfg.Analysis.TopN)
		ds, genErr := an.GenerateSampleData(params.Seed)
		if genErr != nil {
			return nil, genErr
		}
		result.Dataset = ds
		return map[string]any{
			"routes":            len(ds.Routes),
			"passenger_records": len(ds.Passengers),
			"cost_records":      len(ds.Costs),
		}, nil
	})
	if err != nil {
		return fail(eris.Wrap(err, "pipeline: generate"))
	}

	// ===== Profitability =====
	setStatus(model.RunStatusAnalyzing)
	err = trackPhase(PhaseProfitability, func() (map[string]any, error) {
		table, calcErr := an.CalculateProfitability()
		if calcErr != nil {
			return nil, calcErr
		}
		result.Table = table
		return map[string]any{"records": len(table.Records), "skipped": table.Skipped}, nil
	})
	if err != nil {
		return fail(eris.Wrap(err, "pipeline: profitability"))
	}

	// ===== Insights =====
	err = trackPhase(PhaseInsights, func() (map[string]any, error) {
		insights, insErr := an.GenerateInsights()
		if insErr != nil {
			return nil, insErr
		}
		result.Insights = insights
		return map[string]any{
			"profitable_routes": insights.SummaryStats.ProfitableRoutes,
			"route_types":       len(insights.RouteTypePerformance),
		}, nil
	})
	if err != nil {
		return fail(eris.Wrap(err, "pipeline: insights"))
	}

	// ===== Visualize =====
	if params.Visualize && p.render != nil {
		err = trackPhase(PhaseVisualize, func() (map[string]any, error) {
			files, vizErr := p.render(params.OutputDir, params.Prefix, result.Table, result.Insights)
			if vizErr != nil {
				return nil, vizErr
			}
			result.Files = append(result.Files, files...)
			return map[string]any{"charts": len(files)}, nil
		})
		if err != nil {
			return fail(eris.Wrap(err, "pipeline: visualize"))
		}
	} else {
		skipPhase(PhaseVisualize)
	}

	// ===== Recommendations =====
	err = trackPhase(PhaseRecommendations, func() (map[string]any, error) {
		recs, recErr := an.GenerateRecommendations()
		if recErr != nil {
			return nil, recErr
		}
		result.Recommendations = recs
		return map[string]any{
			"expand":      len(recs.ExpandRoutes.Routes),
			"optimize":    len(recs.OptimizeRoutes.Routes),
			"discontinue": len(recs.ConsiderDiscontinuing.Routes),
		}, nil
	})
	if err != nil {
		return fail(eris.Wrap(err, "pipeline: recommendations"))
	}

	// ===== Export =====
	if params.Export && p.exporter != nil {
		setStatus(model.RunStatusExporting)
		err = trackPhase(PhaseExport, func() (map[string]any, error) {
			files, expErr := p.exporter.Write(ctx, params.Prefix, export.Bundle{
				Dataset:         result.Dataset,
				Table:           result.Table,
				Insights:        result.Insights,
				Recommendations: result.Recommendations,
			})
			if expErr != nil {
				return nil, expErr
			}
			result.Files = append(result.Files, files...)
			return map[string]any{"files": len(files)}, nil
		})
		if err != nil {
			return fail(eris.Wrap(err, "pipeline: export"))
		}
	} else {
		skipPhase(PhaseExport)
	}

	// ===== Persist =====
	if p.store != nil {
		err = trackPhase(PhasePersist, func() (map[string]any, error) {
			n, saveErr := resilience.DoVal(ctx, p.retry, "save route results", func(ctx context.Context) (int64, error) {
				return p.store.SaveRouteResults(ctx, run.ID, result.Table.Records)
			})
			if saveErr != nil {
				return nil, saveErr
			}
			return map[string]any{"rows": n}, nil
		})
		if err != nil {
			return fail(eris.Wrap(err, "pipeline: persist"))
		}
	} else {
		skipPhase(PhasePersist)
	}

	// Finalize.
	result.Summary = Summarize(result)
	if p.store != nil {
		err := resilience.Do(ctx, p.retry, "update run result", func(ctx context.Context) error {
			return p.store.UpdateRunResult(ctx, run.ID, result.Summary)
		})
		if err != nil {
			return fail(eris.Wrap(err, "pipeline: save run result"))
		}
	}
	if p.metrics != nil {
		p.metrics.RecordRun(model.RunStatusComplete, result.Summary)
	}

	log.Info("pipeline: analysis complete",
		zap.Int("routes", result.Summary.Stats.TotalRoutes),
		zap.Int("profitable", result.Summary.Stats.ProfitableRoutes),
		zap.Float64("annual_profit", result.Summary.Stats.TotalAnnualProfit),
		zap.Int("files", len(result.Files)),
	)
	return result, nil
}

func (p *Pipeline) withDefaults(params model.RunParams) model.RunParams {
	if params.RouteCount <= 0 {
		params.RouteCount = p.cfg.Generator.RouteCount
	}
	if params.OutputDir == "" {
		params.OutputDir = p.cfg.Export.OutputDir
	}
	if params.Prefix == "" {
		params.Prefix = export.DefaultPrefix(p.now())
	}
	return params
}

// createRun records the run in the store, or builds a detached run when
// there is no store.
func (p *Pipeline) createRun(ctx context.Context, params model.RunParams) (*model.Run, error) {
	if p.store == nil {
		now := p.now().UTC()
		return &model.Run{
			ID:        uuid.New().String(),
			Params:    params,
			Status:    model.RunStatusQueued,
			CreatedAt: now,
			UpdatedAt: now,
		}, nil
	}
	run, err := p.store.CreateRun(ctx, params)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: create run")
	}
	return run, nil
}

func (p *Pipeline) generator(params model.RunParams) (*generator.Generator, error) {
	var catalog []model.Airport
	if path := p.cfg.Generator.CatalogPath; path != "" {
		c, err := network.LoadCatalog(path)
		if err != nil {
			return nil, err
		}
		catalog = c
	}
	gcfg := p.cfg.Generator
	gcfg.RouteCount = params.RouteCount
	return generator.New(gcfg, catalog, generator.WithClock(p.now)), nil
}

// Summarize builds the stored summary of a finished run.
func Summarize(r *Result) *model.RunSummary {
	s := &model.RunSummary{
		Files:  r.Files,
		Phases: r.Phases,
	}
	if r.Table != nil {
		s.SkippedRecords = r.Table.Skipped
	}
	if r.Insights != nil {
		s.Stats = r.Insights.SummaryStats
		for _, rs := range r.Insights.MostProfitableRoutes {
			s.TopRoutes = append(s.TopRoutes, rs.RouteID)
		}
	}
	if r.Recommendations != nil {
		s.ExpandCount = len(r.Recommendations.ExpandRoutes.Routes)
		s.OptimizeCount = len(r.Recommendations.OptimizeRoutes.Routes)
		s.DiscontinueCount = len(r.Recommendations.ConsiderDiscontinuing.Routes)
	}
	return s
}
