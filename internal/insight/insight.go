// Package insight ranks and aggregates a profitability table.
package insight

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/route-profitability/internal/model"
)

// DefaultTopN is the default length of the ranked route lists.
const DefaultTopN = 10

// Generate builds the insight report for a profitability table. Ranked
// lists hold at most topN routes; ties are broken by route id.
func Generate(table *model.ProfitabilityTable, topN int) (*model.InsightReport, error) {
	if table == nil {
		return nil, eris.Wrap(model.ErrNotInitialized, "insight: profitability not calculated")
	}
	if topN <= 0 {
		topN = DefaultTopN
	}

	recs := table.Records

	return &model.InsightReport{
		MostProfitableRoutes:  Rank(recs, topN, byProfitDesc),
		LeastProfitableRoutes: Rank(recs, topN, byProfitAsc),
		HighestROIRoutes:      Rank(recs, topN, byROIDesc),
		RouteTypePerformance:  GroupBy(recs, byRouteType),
		AircraftPerformance:   GroupBy(recs, byAircraft),
		SummaryStats:          Summarize(recs),
	}, nil
}

func byProfitDesc(a, b model.ProfitabilityRecord) bool { return a.Profit > b.Profit }
func byProfitAsc(a, b model.ProfitabilityRecord) bool { return a.Profit < b.Profit }
func byROIDesc(a, b model.ProfitabilityRecord) bool { return a.ROI > b.ROI }

func byRouteType(r model.ProfitabilityRecord) string { return r.RouteType }
func byAircraft(r model.ProfitabilityRecord) string { return string(r.AircraftType) }

// Rank returns up to n route summaries ordered by less, then by route id.
// The input slice is not modified.
func Rank(recs []model.ProfitabilityRecord, n int, less func(a, b model.ProfitabilityRecord) bool) []model.RouteSummary {
	sorted := make([]model.ProfitabilityRecord, len(recs))
	copy(sorted, recs)
	sort.Slice(sorted, func(i, j int) bool {
		if less(sorted[i], sorted[j]) {
			return true
		}
		if less(sorted[j], sorted[i]) {
			return false
		}
		return sorted[i].RouteID < sorted[j].RouteID
	})

	if n > len(sorted) {
		n = len(sorted)
	}
	out := make([]model.RouteSummary, n)
	for i := range out {
		out[i] = summarize(sorted[i])
	}
	return out
}

func summarize(r model.ProfitabilityRecord) model.RouteSummary {
	return model.RouteSummary{
		RouteID:      r.RouteID,
		RouteType:    r.RouteType,
		Revenue:      r.Revenue,
		Profit:       r.Profit,
		ProfitMargin: r.ProfitMargin,
		ROI:          r.ROI,
		LoadFactor:   r.LoadFactor,
	}
}

// GroupBy aggregates records by key, ordered by total profit descending.
func GroupBy(recs []model.ProfitabilityRecord, key func(model.ProfitabilityRecord) string) []model.GroupPerformance {
	groups := make(map[string]*model.GroupPerformance)
	var order []string
	for _, r := range recs {
		k := key(r)
		g, ok := groups[k]
		if !ok {
			g = &model.GroupPerformance{Group: k}
			groups[k] = g
			order = append(order, k)
		}
		g.RouteCount++
		g.TotalProfit += r.Profit
		g.AvgProfitMargin += r.ProfitMargin
		g.AvgROI += r.ROI
		g.AvgLoadFactor += r.LoadFactor
		g.TotalPassengers += r.Passengers
	}

	out := make([]model.GroupPerformance, 0, len(order))
	for _, k := range order {
		g := groups[k]
		n := float64(g.RouteCount)
		g.AvgProfit = g.TotalProfit / n
		g.AvgProfitMargin /= n
		g.AvgROI /= n
		g.AvgLoadFactor /= n
		out = append(out, *g)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalProfit != out[j].TotalProfit {
			return out[i].TotalProfit > out[j].TotalProfit
		}
		return out[i].Group < out[j].Group
	})
	return out
}

// Summarize computes network-wide totals.
func Summarize(recs []model.ProfitabilityRecord) model.SummaryStats {
	var s model.SummaryStats
	s.TotalRoutes = len(recs)
	if s.TotalRoutes == 0 {
		return s
	}

	var marginSum, lfSum float64
	for _, r := range recs {
		if r.Profit > 0 {
			s.ProfitableRoutes++
		}
		marginSum += r.ProfitMargin
		lfSum += r.LoadFactor
		s.TotalAnnualProfit += r.Profit
		s.TotalAnnualRevenue += r.Revenue
		s.TotalPassengers += r.Passengers
	}
	s.AverageProfitMargin = marginSum / float64(s.TotalRoutes)
	s.AverageLoadFactor = lfSum / float64(s.TotalRoutes)
	return s
}
