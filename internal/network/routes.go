package network

import (
	"math"
	"math/rand"
	"sort"

	"github.com/skypies/geo"
	"go.uber.org/zap"

	"github.com/sells-group/route-profitability/internal/model"
)

const (
	kmToMiles     = 0.621371
	cruiseMPH     = 500.0
	taxiHours     = 0.5
	minRouteMiles = 1.0
)

// DistanceMiles returns the great-circle distance between two airports in
// whole miles.
func DistanceMiles(a, b model.Airport) float64 {
	from := geo.Latlong{Lat: a.Lat, Long: a.Lon}
	to := geo.Latlong{Lat: b.Lat, Long: b.Lon}
	return math.Round(from.DistKM(to) * kmToMiles)
}

// FlightTimeHours returns block time for a distance: cruise time plus a
// fixed taxi allowance, rounded to 2dp.
func FlightTimeHours(miles float64) float64 {
	return math.Round((miles/cruiseMPH+taxiHours)*100) / 100
}

// AssignAircraft picks the capacity class for a route length.
func AssignAircraft(miles float64) model.AircraftType {
	switch {
	case miles < 500:
		return model.AircraftCRJ900
	case miles < 1500:
		return model.AircraftA320
	case miles < 2500:
		return model.AircraftB737900
	default:
		return model.AircraftB7879
	}
}

// DailyFlights draws a daily frequency for a route class. Hub-to-hub routes
// get the most frequencies.
func DailyFlights(rng *rand.Rand, routeClass string) int {
	lo, hi := 1, 3
	switch {
	case routeClass == "Major-Major":
		lo, hi = 4, 8
	case HasTier(routeClass, model.HubMajor):
		lo, hi = 2, 5
	case routeClass == "Medium-Medium":
		lo, hi = 2, 4
	}
	return lo + rng.Intn(hi-lo+1)
}

// GenerateRoutes samples up to count directed routes from the catalog. The
// result is sorted by route id and contains no duplicates.
func GenerateRoutes(rng *rand.Rand, airports []model.Airport, count int) []model.Route {
	type pair struct{ o, d int }

	pairs := make([]pair, 0, len(airports)*(len(airports)-1))
	for i := range airports {
		for j := range airports {
			if i != j {
				pairs = append(pairs, pair{i, j})
			}
		}
	}
	rng.Shuffle(len(pairs), func(i, j int) { pairs[i], pairs[j] = pairs[j], pairs[i] })

	routes := make([]model.Route, 0, min(count, len(pairs)))
	for _, p := range pairs {
		if len(routes) >= count {
			break
		}
		origin, dest := airports[p.o], airports[p.d]
		miles := DistanceMiles(origin, dest)
		if miles < minRouteMiles {
			zap.L().Debug("network: skipping degenerate route",
				zap.String("origin", origin.Code),
				zap.String("destination", dest.Code),
			)
			continue
		}

		class := ClassifyRoute(origin, dest)
		routes = append(routes, model.Route{
			RouteID:         model.RouteID(origin.Code, dest.Code),
			Origin:          origin.Code,
			Destination:     dest.Code,
			DistanceMiles:   miles,
			FlightTimeHours: FlightTimeHours(miles),
			DailyFlights:    DailyFlights(rng, class),
			AircraftType:    AssignAircraft(miles),
			RouteType:       class,
		})
	}

	sort.Slice(routes, func(i, j int) bool { return routes[i].RouteID < routes[j].RouteID })
	return routes
}
