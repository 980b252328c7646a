// Package generator synthesizes the airline network dataset.
package generator

import (
	"math/rand"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/route-profitability/internal/config"
	"github.com/sells-group/route-profitability/internal/cost"
	"github.com/sells-group/route-profitability/internal/demand"
	"github.com/sells-group/route-profitability/internal/model"
	"github.com/sells-group/route-profitability/internal/network"
)

// Generator produces datasets from an airport catalog.
type Generator struct {
	cfg     config.GeneratorConfig
	catalog []model.Airport
	calc    *cost.Calculator
	now     func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithRates overrides the default operating cost rates.
func WithRates(r cost.Rates) Option {
	return func(g *Generator) { g.calc = cost.NewCalculator(r) }
}

// WithClock overrides the generation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// New creates a Generator. A nil catalog uses the built-in airports.
func New(cfg config.GeneratorConfig, catalog []model.Airport, opts ...Option) *Generator {
	if catalog == nil {
		catalog = network.DefaultCatalog()
	}
	g := &Generator{
		cfg:     cfg,
		catalog: catalog,
		calc:    cost.NewCalculator(cost.DefaultRates()),
		now:     time.Now,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Generate builds a fresh dataset. The same seed always yields the same
// tables.
func (g *Generator) Generate(seed int64) (*model.Dataset, error) {
	if err := network.ValidateCatalog(g.catalog); err != nil {
		return nil, eris.Wrap(err, "generator: invalid catalog")
	}
	if g.cfg.RouteCount <= 0 {
		return nil, eris.Errorf("generator: route count must be > 0, got %d", g.cfg.RouteCount)
	}
	if g.cfg.FuelBasePrice <= 0 {
		return nil, eris.Errorf("generator: fuel base price must be > 0, got %v", g.cfg.FuelBasePrice)
	}

	rng := rand.New(rand.NewSource(seed))

	routes := network.GenerateRoutes(rng, g.catalog, g.cfg.RouteCount)
	if len(routes) == 0 {
		return nil, eris.New("generator: catalog produced no routes")
	}

	fuel := cost.FuelIndex(rng, g.cfg.FuelBasePrice, g.cfg.FuelTrend)
	passengers := demand.Generate(rng, routes)
	costs := g.costs(rng, routes, cost.MeanPrice(fuel))

	airports := make([]model.Airport, len(g.catalog))
	copy(airports, g.catalog)

	ds := &model.Dataset{
		Seed:        seed,
		GeneratedAt: g.now().UTC(),
		Airports:    airports,
		Routes:      routes,
		Passengers:  passengers,
		Costs:       costs,
		Fuel:        fuel,
	}

	zap.L().Info("generator: dataset generated",
		zap.Int64("seed", seed),
		zap.Int("routes", len(routes)),
		zap.Int("passenger_records", len(passengers)),
		zap.Int("cost_records", len(costs)),
	)

	return ds, nil
}

func (g *Generator) costs(rng *rand.Rand, routes []model.Route, fuelPrice float64) []model.CostRecord {
	tiers := make(map[string]model.HubTier, len(g.catalog))
	for _, a := range g.catalog {
		tiers[a.Code] = a.HubStatus
	}

	records := make([]model.CostRecord, 0, len(routes))
	for _, r := range routes {
		records = append(records, g.calc.Breakdown(rng, r, tiers[r.Origin], tiers[r.Destination], fuelPrice))
	}
	return records
}
