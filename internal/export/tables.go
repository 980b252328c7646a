package export

import (
	"strconv"

	"github.com/sells-group/route-profitability/internal/model"
)

// Table is a named grid of cells shared by the CSV and XLSX writers. Cells
// hold string, int or float64 values.
type Table struct {
	Name   string
	Header []string
	Rows   [][]any
}

// RoutesTable lays out the route network.
func RoutesTable(routes []model.Route) Table {
	t := Table{
		Name:   "Routes",
		Header: []string{"route_id", "origin", "destination", "distance_miles", "flight_time_hours", "daily_flights", "aircraft_type", "route_type"},
	}
	for _, r := range routes {
		t.Rows = append(t.Rows, []any{
			r.RouteID, r.Origin, r.Destination, r.DistanceMiles, r.FlightTimeHours,
			r.DailyFlights, string(r.AircraftType), r.RouteType,
		})
	}
	return t
}

// PassengersTable lays out monthly demand.
func PassengersTable(recs []model.PassengerRecord) Table {
	t := Table{
		Name:   "Passengers",
		Header: []string{"route_id", "month", "passengers", "load_factor", "avg_ticket_price", "revenue"},
	}
	for _, p := range recs {
		t.Rows = append(t.Rows, []any{p.RouteID, p.Month, p.Passengers, p.LoadFactor, p.AvgTicketPrice, p.Revenue})
	}
	return t
}

// CostsTable lays out the per-flight cost breakdown.
func CostsTable(recs []model.CostRecord) Table {
	t := Table{
		Name: "Costs",
		Header: []string{
			"route_id", "fuel_cost_per_flight", "crew_cost_per_flight", "maintenance_cost_per_flight",
			"airport_fees_per_flight", "total_cost_per_flight", "monthly_cost",
		},
	}
	for _, c := range recs {
		t.Rows = append(t.Rows, []any{
			c.RouteID, c.FuelCostPerFlight, c.CrewCostPerFlight, c.MaintenanceCostPerFlight,
			c.AirportFeesPerFlight, c.TotalCostPerFlight, c.MonthlyCost,
		})
	}
	return t
}

// FuelTable lays out the fuel price series.
func FuelTable(recs []model.FuelRecord) Table {
	t := Table{
		Name:   "Fuel",
		Header: []string{"month", "price_per_gallon", "price_index"},
	}
	for _, f := range recs {
		t.Rows = append(t.Rows, []any{f.Month, f.PricePerGallon, f.PriceIndex})
	}
	return t
}

// ProfitabilityTable lays out the per-route profitability results.
func ProfitabilityTable(table *model.ProfitabilityTable) Table {
	t := Table{
		Name: "Profitability",
		Header: []string{
			"route_id", "origin", "destination", "route_type", "aircraft_type", "distance_miles",
			"daily_flights", "revenue", "passengers", "load_factor", "cost", "profit",
			"profit_margin", "roi", "asm", "rasm", "casm",
		},
	}
	if table == nil {
		return t
	}
	for _, r := range table.Records {
		t.Rows = append(t.Rows, []any{
			r.RouteID, r.Origin, r.Destination, r.RouteType, string(r.AircraftType), r.DistanceMiles,
			r.DailyFlights, r.Revenue, r.Passengers, r.LoadFactor, r.Cost, r.Profit,
			r.ProfitMargin, r.ROI, r.ASM, r.RASM, r.CASM,
		})
	}
	return t
}

// RecommendationsTable flattens the recommendation buckets, one row per route.
func RecommendationsTable(set *model.RecommendationSet) Table {
	t := Table{
		Name:   "Recommendations",
		Header: []string{"action", "rank", "route_id", "rationale"},
	}
	if set == nil {
		return t
	}
	for _, a := range []model.Action{model.ActionExpand, model.ActionOptimize, model.ActionDiscontinue} {
		b := set.Bucket(a)
		for i, id := range b.Routes {
			t.Rows = append(t.Rows, []any{string(a), i + 1, id, b.Rationale})
		}
	}
	return t
}

// formatCell renders a cell for text output.
func formatCell(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return ""
	}
}
