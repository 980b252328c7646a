package analyzer

import (
	"errors"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/route-profitability/internal/config"
	"github.com/sells-group/route-profitability/internal/generator"
	"github.com/sells-group/route-profitability/internal/model"
	"github.com/sells-group/route-profitability/internal/recommend"
)

func newAnalyzer() *Analyzer {
	gen := generator.New(config.GeneratorConfig{RouteCount: 50, FuelBasePrice: 2.8, FuelTrend: 0.08}, nil)
	return New(gen, recommend.DefaultThresholds(), 10)
}

func TestNotInitialized(t *testing.T) {
	a := newAnalyzer()

	_, err := a.Dataset()
	assert.True(t, errors.Is(err, model.ErrNotInitialized))

	_, err = a.CalculateProfitability()
	assert.True(t, errors.Is(err, model.ErrNotInitialized))
	assert.True(t, errors.Is(err, model.ErrMissingInput))

	_, err = a.GenerateInsights()
	assert.True(t, errors.Is(err, model.ErrNotInitialized))

	_, err = a.GenerateRecommendations()
	assert.True(t, errors.Is(err, model.ErrNotInitialized))
}

func TestZeroClockDatasetIsUsable(t *testing.T) {
	gen := generator.New(
		config.GeneratorConfig{RouteCount: 10, FuelBasePrice: 2.8, FuelTrend: 0.08}, nil,
		generator.WithClock(func() time.Time { return time.Time{} }),
	)
	a := New(gen, recommend.DefaultThresholds(), 5)

	ds, err := a.GenerateSampleData(3)
	require.NoError(t, err)
	assert.True(t, ds.GeneratedAt.IsZero())

	table, err := a.CalculateProfitability()
	require.NoError(t, err)
	assert.Len(t, table.Records, len(ds.Routes))
}

func TestFullFlow(t *testing.T) {
	a := newAnalyzer()

	ds, err := a.GenerateSampleData(42)
	require.NoError(t, err)
	require.Len(t, ds.Routes, 50)

	table, err := a.CalculateProfitability()
	require.NoError(t, err)
	require.NotEmpty(t, table.Records)

	report, err := a.GenerateInsights()
	require.NoError(t, err)
	assert.LessOrEqual(t, report.SummaryStats.ProfitableRoutes, report.SummaryStats.TotalRoutes)
	assert.Equal(t, len(table.Records), report.SummaryStats.TotalRoutes)
	assert.Len(t, report.MostProfitableRoutes, 10)

	set, err := a.GenerateRecommendations()
	require.NoError(t, err)
	total := len(set.ExpandRoutes.Routes) + len(set.OptimizeRoutes.Routes) + len(set.ConsiderDiscontinuing.Routes)
	assert.Equal(t, len(table.Records), total)
}

func TestInsightsRunProfitabilityImplicitly(t *testing.T) {
	a := newAnalyzer()
	_, err := a.GenerateSampleData(1)
	require.NoError(t, err)

	_, err = a.GenerateInsights()
	require.NoError(t, err)

	table, err := a.CalculateProfitability()
	require.NoError(t, err)
	assert.Same(t, a.table, table)
}

func TestRegenerateDiscardsResults(t *testing.T) {
	a := newAnalyzer()
	_, err := a.GenerateSampleData(1)
	require.NoError(t, err)
	first, err := a.CalculateProfitability()
	require.NoError(t, err)

	_, err = a.GenerateSampleData(2)
	require.NoError(t, err)
	second, err := a.CalculateProfitability()
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.NotEqual(t, first.RouteIDs(), second.RouteIDs())
}

type failingGenerator struct{}

func (failingGenerator) Generate(int64) (*model.Dataset, error) {
	return nil, eris.New("boom")
}

func TestGenerateError(t *testing.T) {
	a := New(failingGenerator{}, recommend.DefaultThresholds(), 10)
	_, err := a.GenerateSampleData(1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	_, err = a.CalculateProfitability()
	assert.True(t, errors.Is(err, model.ErrNotInitialized))
}
