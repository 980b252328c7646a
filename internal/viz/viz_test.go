package viz

import (
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/route-profitability/internal/model"
)

func testInputs() (*model.ProfitabilityTable, *model.InsightReport) {
	table := &model.ProfitabilityTable{Records: []model.ProfitabilityRecord{
		{RouteID: "ATL-ORD", Profit: 4.2e7, ProfitMargin: 28, LoadFactor: 0.84},
		{RouteID: "ORD-BNA", Profit: 1.1e6, ProfitMargin: 6, LoadFactor: 0.77},
		{RouteID: "BNA-AUS", Profit: -3.0e5, ProfitMargin: -4, LoadFactor: 0.61},
	}}
	insights := &model.InsightReport{
		MostProfitableRoutes: []model.RouteSummary{
			{RouteID: "ATL-ORD", Profit: 4.2e7},
			{RouteID: "ORD-BNA", Profit: 1.1e6},
		},
		RouteTypePerformance: []model.GroupPerformance{
			{Group: "Major-Major", AvgProfitMargin: 28},
			{Group: "Major-Minor", AvgProfitMargin: 6},
			{Group: "Minor-Minor", AvgProfitMargin: -4},
		},
	}
	return table, insights
}

func TestRender(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")
	table, insights := testInputs()

	paths, err := Render(dir, "run", table, insights)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "run_top_routes_profit.png"),
		filepath.Join(dir, "run_route_type_margin.png"),
		filepath.Join(dir, "run_load_factor_vs_margin.png"),
	}, paths)

	for _, p := range paths {
		f, err := os.Open(p)
		require.NoError(t, err)
		_, err = png.DecodeConfig(f)
		f.Close()
		assert.NoError(t, err, p)
	}
}

func TestRenderEmptyTable(t *testing.T) {
	paths, err := Render(t.TempDir(), "empty", &model.ProfitabilityTable{}, &model.InsightReport{})
	require.NoError(t, err)
	assert.Len(t, paths, 3)
}

func TestRenderNotInitialized(t *testing.T) {
	_, err := Render(t.TempDir(), "x", nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrNotInitialized))
}

func TestLoadFactorChartSplitsSeries(t *testing.T) {
	table, _ := testInputs()
	p, err := loadFactorChart(table.Records)
	require.NoError(t, err)
	assert.InDelta(t, -4.0, p.Y.Min, 1e-9)
	assert.InDelta(t, 28.0, p.Y.Max, 1e-9)
	assert.InDelta(t, 61.0, p.X.Min, 1e-9)
	assert.InDelta(t, 84.0, p.X.Max, 1e-9)
}
