// Package viz renders PNG charts of route profitability.
package viz

import (
	"image/color"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/sells-group/route-profitability/internal/model"
)

var (
	profitColor = color.RGBA{R: 46, G: 134, B: 171, A: 255}
	lossColor   = color.RGBA{R: 199, G: 62, B: 29, A: 255}
	marginColor = color.RGBA{R: 241, G: 143, B: 1, A: 255}
)

// Render writes the profitability charts into dir and returns their paths:
// top routes by profit, average margin per route type, and load factor
// against profit margin.
func Render(dir, prefix string, table *model.ProfitabilityTable, insights *model.InsightReport) ([]string, error) {
	if table == nil || insights == nil {
		return nil, eris.Wrap(model.ErrNotInitialized, "viz: nothing to render")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "viz: create output dir %s", dir)
	}

	charts := []struct {
		suffix string
		build  func() (*plot.Plot, error)
	}{
		{"_top_routes_profit.png", func() (*plot.Plot, error) { return topRoutesChart(insights.MostProfitableRoutes) }},
		{"_route_type_margin.png", func() (*plot.Plot, error) { return routeTypeChart(insights.RouteTypePerformance) }},
		{"_load_factor_vs_margin.png", func() (*plot.Plot, error) { return loadFactorChart(table.Records) }},
	}

	paths := make([]string, 0, len(charts))
	for _, c := range charts {
		p, err := c.build()
		if err != nil {
			return nil, err
		}
		path := filepath.Join(dir, prefix+c.suffix)
		if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
			return nil, eris.Wrapf(err, "viz: save %s", path)
		}
		paths = append(paths, path)
	}

	zap.L().Info("viz: charts rendered", zap.String("output_dir", dir), zap.Int("charts", len(paths)))
	return paths, nil
}

func newPlot(title, x, y string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = x
	p.Y.Label.Text = y
	p.Add(plotter.NewGrid())
	return p
}

func topRoutesChart(routes []model.RouteSummary) (*plot.Plot, error) {
	p := newPlot("Most Profitable Routes", "Route", "Annual profit ($M)")

	values := make(plotter.Values, len(routes))
	names := make([]string, len(routes))
	for i, r := range routes {
		values[i] = r.Profit / 1e6
		names[i] = r.RouteID
	}
	if len(values) == 0 {
		return p, nil
	}

	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return nil, eris.Wrap(err, "viz: top routes bar chart")
	}
	bars.Color = profitColor
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = 0.6
	p.X.Tick.Label.XAlign = draw.XRight
	return p, nil
}

func routeTypeChart(groups []model.GroupPerformance) (*plot.Plot, error) {
	p := newPlot("Average Profit Margin by Route Type", "Route type", "Avg profit margin (%)")

	values := make(plotter.Values, len(groups))
	names := make([]string, len(groups))
	for i, g := range groups {
		values[i] = g.AvgProfitMargin
		names[i] = g.Group
	}
	if len(values) == 0 {
		return p, nil
	}

	bars, err := plotter.NewBarChart(values, vg.Points(28))
	if err != nil {
		return nil, eris.Wrap(err, "viz: route type bar chart")
	}
	bars.Color = marginColor
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = 0.6
	p.X.Tick.Label.XAlign = draw.XRight
	return p, nil
}

func loadFactorChart(records []model.ProfitabilityRecord) (*plot.Plot, error) {
	p := newPlot("Load Factor vs Profit Margin", "Load factor (%)", "Profit margin (%)")

	var gains, losses plotter.XYs
	for _, r := range records {
		pt := plotter.XY{X: r.LoadFactor * 100, Y: r.ProfitMargin}
		if r.Profit > 0 {
			gains = append(gains, pt)
		} else {
			losses = append(losses, pt)
		}
	}

	for _, s := range []struct {
		pts   plotter.XYs
		color color.Color
		name  string
	}{
		{gains, profitColor, "Profitable"},
		{losses, lossColor, "Unprofitable"},
	} {
		if len(s.pts) == 0 {
			continue
		}
		sc, err := plotter.NewScatter(s.pts)
		if err != nil {
			return nil, eris.Wrap(err, "viz: load factor scatter")
		}
		sc.GlyphStyle.Color = s.color
		sc.GlyphStyle.Radius = vg.Points(4)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(sc)
		p.Legend.Add(s.name, sc)
	}
	p.Legend.Top = true
	return p, nil
}
