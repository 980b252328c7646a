// Package profit joins routes, demand and cost into annual route economics.
package profit

import (
	"math"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/route-profitability/internal/model"
)

const monthsPerYear = 12

type routeTotals struct {
	revenue    float64
	passengers int
	lfSum      float64
	months     int
}

// Calculate computes annual profitability for every route that has both
// passenger and cost data. Rows referencing unknown routes are counted in
// Skipped and otherwise ignored. Records follow the route table order.
func Calculate(ds *model.Dataset) (*model.ProfitabilityTable, error) {
	if !ds.Ready() {
		return nil, eris.Wrap(model.ErrMissingInput, "profit: dataset not generated")
	}

	idx := ds.RouteIndex()
	table := &model.ProfitabilityTable{Records: make([]model.ProfitabilityRecord, 0, len(ds.Routes))}

	totals := make(map[string]*routeTotals, len(ds.Routes))
	for _, p := range ds.Passengers {
		if _, ok := idx[p.RouteID]; !ok {
			table.Skipped++
			zap.L().Warn("profit: passenger record for unknown route", zap.String("route_id", p.RouteID), zap.Int("month", p.Month))
			continue
		}
		t, ok := totals[p.RouteID]
		if !ok {
			t = &routeTotals{}
			totals[p.RouteID] = t
		}
		t.revenue += p.Revenue
		t.passengers += p.Passengers
		t.lfSum += p.LoadFactor
		t.months++
	}

	costs := make(map[string]model.CostRecord, len(ds.Costs))
	for _, c := range ds.Costs {
		if _, ok := idx[c.RouteID]; !ok {
			table.Skipped++
			zap.L().Warn("profit: cost record for unknown route", zap.String("route_id", c.RouteID))
			continue
		}
		costs[c.RouteID] = c
	}

	for _, r := range ds.Routes {
		t, hasDemand := totals[r.RouteID]
		c, hasCost := costs[r.RouteID]
		if !hasDemand || !hasCost {
			zap.L().Debug("profit: route missing data, excluded",
				zap.String("route_id", r.RouteID),
				zap.Bool("has_demand", hasDemand),
				zap.Bool("has_cost", hasCost),
			)
			continue
		}
		table.Records = append(table.Records, record(r, t, c))
	}

	return table, nil
}

func record(r model.Route, t *routeTotals, c model.CostRecord) model.ProfitabilityRecord {
	revenue := roundCents(t.revenue)
	annualCost := roundCents(c.MonthlyCost * monthsPerYear)
	profit := roundCents(revenue - annualCost)

	asm := float64(r.AircraftType.Capacity()) * r.DistanceMiles * float64(r.DailyFlights) * 365

	return model.ProfitabilityRecord{
		RouteID:       r.RouteID,
		Origin:        r.Origin,
		Destination:   r.Destination,
		RouteType:     r.RouteType,
		AircraftType:  r.AircraftType,
		DistanceMiles: r.DistanceMiles,
		DailyFlights:  r.DailyFlights,
		Revenue:       revenue,
		Passengers:    t.passengers,
		LoadFactor:    t.lfSum / float64(t.months),
		Cost:          annualCost,
		Profit:        profit,
		ProfitMargin:  Ratio(profit, revenue) * 100,
		ROI:           Ratio(profit, annualCost) * 100,
		ASM:           asm,
		RASM:          Ratio(revenue, asm) * 100,
		CASM:          Ratio(annualCost, asm) * 100,
	}
}

// Ratio returns num/den, or 0 when den is 0.
func Ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
