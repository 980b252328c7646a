package model

import "time"

// PassengerRecord is one month of demand on a route.
type PassengerRecord struct {
	RouteID        string  `json:"route_id"`
	Month          int     `json:"month"`
	Passengers     int     `json:"passengers"`
	LoadFactor     float64 `json:"load_factor"`
	AvgTicketPrice float64 `json:"avg_ticket_price"`
	Revenue        float64 `json:"revenue"`
}

// CostRecord is the per-flight operating cost breakdown of a route.
// TotalCostPerFlight is always the sum of the four components.
type CostRecord struct {
	RouteID                  string  `json:"route_id"`
	FuelCostPerFlight        float64 `json:"fuel_cost_per_flight"`
	CrewCostPerFlight        float64 `json:"crew_cost_per_flight"`
	MaintenanceCostPerFlight float64 `json:"maintenance_cost_per_flight"`
	AirportFeesPerFlight     float64 `json:"airport_fees_per_flight"`
	TotalCostPerFlight       float64 `json:"total_cost_per_flight"`
	MonthlyCost              float64 `json:"monthly_cost"`
}

// FuelRecord is one month of the jet fuel price series.
type FuelRecord struct {
	Month          int     `json:"month"`
	PricePerGallon float64 `json:"price_per_gallon"`
	PriceIndex     float64 `json:"price_index"`
}

// Dataset is the immutable output of one generation pass. Downstream
// computations only read it.
type Dataset struct {
	Seed        int64             `json:"seed"`
	GeneratedAt time.Time         `json:"generated_at"`
	Airports    []Airport         `json:"airports"`
	Routes      []Route           `json:"routes"`
	Passengers  []PassengerRecord `json:"passenger_data"`
	Costs       []CostRecord      `json:"cost_data"`
	Fuel        []FuelRecord      `json:"fuel_data"`
}

// Ready reports whether the dataset holds the tables a generation pass
// produces. GeneratedAt is informational and does not affect readiness.
func (d *Dataset) Ready() bool {
	return d != nil && d.Routes != nil && d.Passengers != nil && d.Costs != nil
}

// RouteIndex maps route_id to its position in Routes.
func (d *Dataset) RouteIndex() map[string]int {
	idx := make(map[string]int, len(d.Routes))
	for i, r := range d.Routes {
		idx[r.RouteID] = i
	}
	return idx
}

// AirportByCode returns the catalog entry for code.
func (d *Dataset) AirportByCode(code string) (Airport, bool) {
	for _, a := range d.Airports {
		if a.Code == code {
			return a, true
		}
	}
	return Airport{}, false
}
