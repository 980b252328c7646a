package model

// ProfitabilityRecord is the derived annual economics of one route.
type ProfitabilityRecord struct {
	RouteID       string       `json:"route_id"`
	Origin        string       `json:"origin"`
	Destination   string       `json:"destination"`
	RouteType     string       `json:"route_type"`
	AircraftType  AircraftType `json:"aircraft_type"`
	DistanceMiles float64      `json:"distance_miles"`
	DailyFlights  int          `json:"daily_flights"`
	Revenue       float64      `json:"revenue"`
	Passengers    int          `json:"passengers"`
	LoadFactor    float64      `json:"load_factor"`
	Cost          float64      `json:"cost"`
	Profit        float64      `json:"profit"`
	ProfitMargin  float64      `json:"profit_margin"` // percent of revenue
	ROI           float64      `json:"roi"`           // percent of cost
	ASM           float64      `json:"asm"`           // available seat miles per year
	RASM          float64      `json:"rasm"`          // revenue per ASM, cents
	CASM          float64      `json:"casm"`          // cost per ASM, cents
}

// ProfitabilityTable is the joined profitability output, one record per
// route with complete passenger and cost data.
type ProfitabilityTable struct {
	Records []ProfitabilityRecord `json:"records"`
	// Skipped counts passenger/cost rows whose route_id is not in Routes.
	Skipped int `json:"skipped"`
}

// RouteIDs returns the route ids of the table in order.
func (t *ProfitabilityTable) RouteIDs() []string {
	ids := make([]string, len(t.Records))
	for i, r := range t.Records {
		ids[i] = r.RouteID
	}
	return ids
}

// RouteSummary is a compact view of a route used in ranked lists.
type RouteSummary struct {
	RouteID      string  `json:"route_id"`
	RouteType    string  `json:"route_type"`
	Revenue      float64 `json:"revenue"`
	Profit       float64 `json:"profit"`
	ProfitMargin float64 `json:"profit_margin"`
	ROI          float64 `json:"roi"`
	LoadFactor   float64 `json:"load_factor"`
}

// GroupPerformance aggregates profitability over a group of routes.
type GroupPerformance struct {
	Group           string  `json:"group"`
	RouteCount      int     `json:"route_count"`
	TotalProfit     float64 `json:"total_profit"`
	AvgProfit       float64 `json:"avg_profit"`
	AvgProfitMargin float64 `json:"avg_profit_margin"`
	AvgROI          float64 `json:"avg_roi"`
	AvgLoadFactor   float64 `json:"avg_load_factor"`
	TotalPassengers int     `json:"total_passengers"`
}

// SummaryStats are network-wide totals. ProfitableRoutes never exceeds
// TotalRoutes.
type SummaryStats struct {
	TotalRoutes         int     `json:"total_routes"`
	ProfitableRoutes    int     `json:"profitable_routes"`
	AverageProfitMargin float64 `json:"average_profit_margin"`
	TotalAnnualProfit   float64 `json:"total_annual_profit"`
	TotalAnnualRevenue  float64 `json:"total_annual_revenue"`
	AverageLoadFactor   float64 `json:"average_load_factor"`
	TotalPassengers     int     `json:"total_passengers"`
}

// InsightReport is the ranked and aggregated view of a profitability table.
type InsightReport struct {
	MostProfitableRoutes  []RouteSummary     `json:"most_profitable_routes"`
	LeastProfitableRoutes []RouteSummary     `json:"least_profitable_routes"`
	HighestROIRoutes      []RouteSummary     `json:"highest_roi_routes"`
	RouteTypePerformance  []GroupPerformance `json:"route_type_performance"`
	AircraftPerformance   []GroupPerformance `json:"aircraft_performance"`
	SummaryStats          SummaryStats       `json:"summary_stats"`
}

// Action is a recommendation bucket.
type Action string

const (
	ActionExpand      Action = "expand_routes"
	ActionOptimize    Action = "optimize_routes"
	ActionDiscontinue Action = "consider_discontinuing"
)

// Bucket holds the routes assigned to one action and why.
type Bucket struct {
	Routes    []string `json:"routes"`
	Rationale string   `json:"rationale"`
}

// RecommendationSet partitions the route network into three actions.
type RecommendationSet struct {
	ExpandRoutes          Bucket `json:"expand_routes"`
	OptimizeRoutes        Bucket `json:"optimize_routes"`
	ConsiderDiscontinuing Bucket `json:"consider_discontinuing"`
}

// Bucket returns the bucket for an action.
func (s *RecommendationSet) Bucket(a Action) *Bucket {
	switch a {
	case ActionExpand:
		return &s.ExpandRoutes
	case ActionOptimize:
		return &s.OptimizeRoutes
	case ActionDiscontinue:
		return &s.ConsiderDiscontinuing
	}
	return nil
}
