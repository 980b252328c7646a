package pipeline

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/route-profitability/internal/config"
	"github.com/sells-group/route-profitability/internal/export"
	"github.com/sells-group/route-profitability/internal/metrics"
	"github.com/sells-group/route-profitability/internal/model"
	"github.com/sells-group/route-profitability/internal/resilience"
	"github.com/sells-group/route-profitability/internal/store"
	"github.com/sells-group/route-profitability/internal/viz"
)

func testConfig(outputDir string) *config.Config {
	cfg := &config.Config{}
	cfg.Generator.Seed = 42
	cfg.Generator.RouteCount = 12
	cfg.Generator.FuelBasePrice = 2.8
	cfg.Generator.FuelTrend = 0.08
	cfg.Analysis.TopN = 5
	cfg.Recommend.ExpandMinMargin = 15
	cfg.Recommend.ExpandMinROI = 20
	cfg.Export.OutputDir = outputDir
	cfg.Export.Formats = config.ExportFormats
	return cfg
}

func fixedClock() time.Time {
	return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
}

func phaseNames(phases []model.PhaseResult) []string {
	names := make([]string, len(phases))
	for i, p := range phases {
		names[i] = p.Name
	}
	return names
}

var allPhases = []string{
	PhaseGenerate, PhaseProfitability, PhaseInsights, PhaseVisualize,
	PhaseRecommendations, PhaseExport, PhasePersist,
}

func TestRunWithoutCollaborators(t *testing.T) {
	p := New(testConfig(t.TempDir()), nil, nil, nil, nil)
	p.now = fixedClock

	res, err := p.Run(context.Background(), model.RunParams{Seed: 7, Visualize: true, Export: true})
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 12, res.Params.RouteCount)
	assert.Equal(t, "airline_analysis_20250301_120000", res.Params.Prefix)
	assert.Len(t, res.Dataset.Routes, 12)
	assert.Len(t, res.Table.Records, 12)
	assert.Empty(t, res.Files)

	assert.Equal(t, allPhases, phaseNames(res.Phases))
	for _, ph := range res.Phases {
		switch ph.Name {
		case PhaseVisualize, PhaseExport, PhasePersist:
			assert.Equal(t, model.PhaseStatusSkipped, ph.Status, ph.Name)
		default:
			assert.Equal(t, model.PhaseStatusComplete, ph.Status, ph.Name)
		}
	}

	require.NotNil(t, res.Summary)
	assert.Equal(t, 12, res.Summary.Stats.TotalRoutes)
	assert.Equal(t, 12, res.Summary.ExpandCount+res.Summary.OptimizeCount+res.Summary.DiscontinueCount)
	assert.Len(t, res.Summary.TopRoutes, 5)
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(filepath.Join(dir, "out"))

	st, err := store.NewSQLite(filepath.Join(dir, "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))

	reg := metrics.New()
	p := New(cfg, st, reg, export.NewWriter(cfg.Export.OutputDir, nil), viz.Render)
	p.now = fixedClock

	res, err := p.Run(context.Background(), model.RunParams{Seed: 42, Visualize: true, Export: true})
	require.NoError(t, err)

	// 3 charts, 5 csv, 1 workbook, 2 json.
	assert.Len(t, res.Files, 11)
	for _, f := range res.Files {
		assert.FileExists(t, f)
	}

	run, err := st.GetRun(context.Background(), res.RunID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, run.Status)
	require.NotNil(t, run.Result)
	assert.Equal(t, res.Summary.Stats.TotalRoutes, run.Result.Stats.TotalRoutes)
	assert.Equal(t, res.Summary.TopRoutes, run.Result.TopRoutes)
	assert.Equal(t, int64(42), run.Params.Seed)

	phases, err := st.ListPhases(context.Background(), res.RunID)
	require.NoError(t, err)
	require.Len(t, phases, len(allPhases))
	for i, ph := range phases {
		assert.Equal(t, allPhases[i], ph.Name)
		assert.Equal(t, model.PhaseStatusComplete, ph.Status)
	}

	routes, err := st.ListRouteResults(context.Background(), res.RunID)
	require.NoError(t, err)
	assert.Len(t, routes, len(res.Table.Records))

	assert.Equal(t, 1.0, testutil.ToFloat64(reg.RunsTotal.WithLabelValues("complete")))
	assert.Equal(t, float64(res.Summary.Stats.TotalRoutes), testutil.ToFloat64(reg.RoutesAnalyzed))
}

func TestRunDeterministic(t *testing.T) {
	cfg := testConfig(t.TempDir())
	a := New(cfg, nil, nil, nil, nil)
	b := New(cfg, nil, nil, nil, nil)
	a.now, b.now = fixedClock, fixedClock

	ra, err := a.Run(context.Background(), model.RunParams{Seed: 99})
	require.NoError(t, err)
	rb, err := b.Run(context.Background(), model.RunParams{Seed: 99})
	require.NoError(t, err)

	assert.Equal(t, ra.Table, rb.Table)
	assert.Equal(t, ra.Recommendations, rb.Recommendations)
	assert.NotEqual(t, ra.RunID, rb.RunID)
}

func TestRunCreateRunFails(t *testing.T) {
	st := &mockStore{}
	st.On("CreateRun", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))
	reg := metrics.New()

	_, err := New(testConfig(t.TempDir()), st, reg, nil, nil).Run(context.Background(), model.RunParams{Seed: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create run")
	assert.Equal(t, 0.0, testutil.ToFloat64(reg.RunsTotal.WithLabelValues("failed")))
	st.AssertExpectations(t)
}

func TestRunGenerateFailsMarksRunFailed(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Generator.CatalogPath = filepath.Join(t.TempDir(), "missing.yaml")

	st := &mockStore{}
	st.On("CreateRun", mock.Anything, mock.Anything).Return(&model.Run{ID: "run-1"}, nil)
	st.On("UpdateRunStatus", mock.Anything, "run-1", model.RunStatusGenerating).Return(nil)
	st.On("CreatePhase", mock.Anything, "run-1", PhaseGenerate).Return(&model.RunPhase{ID: "ph-1"}, nil)
	st.On("CompletePhase", mock.Anything, "ph-1", mock.MatchedBy(func(pr *model.PhaseResult) bool {
		return pr.Status == model.PhaseStatusFailed && pr.Error != ""
	})).Return(nil)
	st.On("FailRun", mock.Anything, "run-1", mock.MatchedBy(func(msg string) bool {
		return msg != ""
	})).Return(nil)
	reg := metrics.New()

	_, err := New(cfg, st, reg, nil, nil).Run(context.Background(), model.RunParams{Seed: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pipeline: generate")
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.RunsTotal.WithLabelValues("failed")))
	st.AssertExpectations(t)
	st.AssertNotCalled(t, "SaveRouteResults", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunExportFails(t *testing.T) {
	exp := &mockExporter{}
	exp.On("Write", mock.Anything, "prefix", mock.Anything).Return(nil, errors.New("disk full"))

	_, err := New(testConfig(t.TempDir()), nil, nil, exp, nil).
		Run(context.Background(), model.RunParams{Seed: 1, Export: true, Prefix: "prefix"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pipeline: export")
	assert.Contains(t, err.Error(), "disk full")
	exp.AssertExpectations(t)
}

func TestRunPersistFails(t *testing.T) {
	st := &mockStore{}
	st.On("CreateRun", mock.Anything, mock.Anything).Return(&model.Run{ID: "run-2"}, nil)
	st.On("UpdateRunStatus", mock.Anything, "run-2", mock.Anything).Return(nil)
	st.On("CreatePhase", mock.Anything, "run-2", mock.Anything).Return(&model.RunPhase{ID: "ph"}, nil)
	st.On("CompletePhase", mock.Anything, "ph", mock.Anything).Return(nil)
	st.On("SaveRouteResults", mock.Anything, "run-2", mock.Anything).Return(int64(0), errors.New("constraint"))
	st.On("FailRun", mock.Anything, "run-2", mock.Anything).Return(nil)

	_, err := New(testConfig(t.TempDir()), st, nil, nil, nil).Run(context.Background(), model.RunParams{Seed: 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pipeline: persist")
	st.AssertCalled(t, "FailRun", mock.Anything, "run-2", mock.Anything)
	st.AssertNotCalled(t, "UpdateRunResult", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(testConfig(t.TempDir()), nil, nil, nil, nil).Run(ctx, model.RunParams{Seed: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

// cancellingExporter cancels the run context mid-export, as a disconnecting
// HTTP client would.
type cancellingExporter struct {
	cancel context.CancelFunc
}

func (e cancellingExporter) Write(ctx context.Context, _ string, _ export.Bundle) ([]string, error) {
	e.cancel()
	return nil, ctx.Err()
}

func TestRunCancelledMidRunMarksFailed(t *testing.T) {
	dir := t.TempDir()
	st, err := store.NewSQLite(filepath.Join(dir, "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := New(testConfig(dir), st, nil, cancellingExporter{cancel: cancel}, nil)
	p.now = fixedClock

	_, err = p.Run(ctx, model.RunParams{Seed: 5, Export: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	runs, err := st.ListRuns(context.Background(), store.RunFilter{})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, model.RunStatusFailed, runs[0].Status)
	assert.NotEmpty(t, runs[0].Error)

	phases, err := st.ListPhases(context.Background(), runs[0].ID)
	require.NoError(t, err)
	require.NotEmpty(t, phases)
	last := phases[len(phases)-1]
	assert.Equal(t, PhaseExport, last.Name)
	assert.Equal(t, model.PhaseStatusFailed, last.Status)
}

func TestRunRenderError(t *testing.T) {
	render := func(string, string, *model.ProfitabilityTable, *model.InsightReport) ([]string, error) {
		return nil, errors.New("no fonts")
	}
	res, err := New(testConfig(t.TempDir()), nil, nil, nil, render).
		Run(context.Background(), model.RunParams{Seed: 1, Visualize: true})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Contains(t, err.Error(), "pipeline: visualize")
}

func TestFormatSummary(t *testing.T) {
	p := New(testConfig("outputs"), nil, nil, nil, nil)
	res, err := p.Run(context.Background(), model.RunParams{Seed: 42})
	require.NoError(t, err)

	// Pretend an export happened so the output line is printed.
	res.Files = []string{"outputs/x.csv"}

	var buf bytes.Buffer
	require.NoError(t, FormatSummary(&buf, res))
	out := buf.String()

	assert.Contains(t, out, "ANALYSIS SUMMARY")
	assert.Contains(t, out, "Routes Analyzed: 12")
	assert.Contains(t, out, "TOP 3 PROFITABLE ROUTES:")
	assert.Contains(t, out, "   1. "+res.Insights.MostProfitableRoutes[0].RouteID+": $")
	assert.Contains(t, out, "Results saved to: outputs/")
	assert.NotContains(t, out, "   4. ")
	// Passenger totals run into the hundreds of thousands.
	assert.Regexp(t, `Total Passengers: \d{1,3}(,\d{3})+\n`, out)
}

func TestFormatSummaryIncomplete(t *testing.T) {
	assert.Error(t, FormatSummary(&bytes.Buffer{}, nil))
	assert.Error(t, FormatSummary(&bytes.Buffer{}, &Result{}))
}

func TestSummarize(t *testing.T) {
	r := &Result{
		Table: &model.ProfitabilityTable{Skipped: 2},
		Insights: &model.InsightReport{
			MostProfitableRoutes: []model.RouteSummary{{RouteID: "A-B"}, {RouteID: "B-C"}},
			SummaryStats:         model.SummaryStats{TotalRoutes: 3, ProfitableRoutes: 2},
		},
		Recommendations: &model.RecommendationSet{
			ExpandRoutes:          model.Bucket{Routes: []string{"A-B"}},
			OptimizeRoutes:        model.Bucket{Routes: []string{"B-C"}},
			ConsiderDiscontinuing: model.Bucket{Routes: []string{"C-A"}},
		},
		Files: []string{"a.csv"},
	}

	s := Summarize(r)
	assert.Equal(t, 2, s.SkippedRecords)
	assert.Equal(t, []string{"A-B", "B-C"}, s.TopRoutes)
	assert.Equal(t, 3, s.Stats.TotalRoutes)
	assert.Equal(t, 1, s.ExpandCount)
	assert.Equal(t, 1, s.OptimizeCount)
	assert.Equal(t, 1, s.DiscontinueCount)
	assert.Equal(t, []string{"a.csv"}, s.Files)
}

func TestRunPersistRetriesTransient(t *testing.T) {
	st := &mockStore{}
	st.On("CreateRun", mock.Anything, mock.Anything).Return(&model.Run{ID: "run-3"}, nil)
	st.On("UpdateRunStatus", mock.Anything, "run-3", mock.Anything).Return(nil)
	st.On("CreatePhase", mock.Anything, "run-3", mock.Anything).Return(&model.RunPhase{ID: "ph"}, nil)
	st.On("CompletePhase", mock.Anything, "ph", mock.Anything).Return(nil)
	st.On("SaveRouteResults", mock.Anything, "run-3", mock.Anything).
		Return(int64(0), errors.New("database is locked (5) (SQLITE_BUSY)")).Once()
	st.On("SaveRouteResults", mock.Anything, "run-3", mock.Anything).Return(int64(12), nil).Once()
	st.On("UpdateRunResult", mock.Anything, "run-3", mock.Anything).Return(nil)

	p := New(testConfig(t.TempDir()), st, nil, nil, nil)
	p.retry = resilience.RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond}

	res, err := p.Run(context.Background(), model.RunParams{Seed: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(12), res.Phases[len(res.Phases)-1].Metadata["rows"])
	st.AssertNumberOfCalls(t, "SaveRouteResults", 2)
	st.AssertNotCalled(t, "FailRun", mock.Anything, mock.Anything, mock.Anything)
}
