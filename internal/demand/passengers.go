package demand

import (
	"math"
	"math/rand"
	"time"

	"github.com/sells-group/route-profitability/internal/model"
)

const (
	// planningYear fixes month lengths so generation stays deterministic.
	planningYear = 2023

	minLoadFactor = 0.10
	maxLoadFactor = 1.00
	loadNoise     = 0.05

	baseFare    = 40.0
	farePerMile = 0.08
	fareNoise   = 0.03
	minFare     = 25.0
)

// DaysInMonth returns the number of days in month of the planning year.
func DaysInMonth(month int) int {
	return time.Date(planningYear, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthlyRecord draws one month of demand for a route.
func MonthlyRecord(rng *rand.Rand, r model.Route, month int) model.PassengerRecord {
	profile := ProfileFor(r.RouteType)
	seasonal := SeasonalFactor(month, r.RouteType)

	seats := r.AircraftType.Capacity() * r.DailyFlights * DaysInMonth(month)
	lf := profile.BaseLoadFactor * seasonal * jitter(rng, loadNoise)
	lf = math.Max(minLoadFactor, math.Min(maxLoadFactor, lf))
	passengers := int(math.Round(float64(seats) * lf))

	fare := (baseFare + farePerMile*r.DistanceMiles) * profile.FareMultiplier
	fare *= 1 + 0.5*(seasonal-1)
	fare *= jitter(rng, fareNoise)
	fare = math.Max(minFare, roundCents(fare))

	return model.PassengerRecord{
		RouteID:        r.RouteID,
		Month:          month,
		Passengers:     passengers,
		LoadFactor:     math.Round(lf*10000) / 10000,
		AvgTicketPrice: fare,
		Revenue:        roundCents(float64(passengers) * fare),
	}
}

// Generate produces twelve monthly records for every route, in route order.
func Generate(rng *rand.Rand, routes []model.Route) []model.PassengerRecord {
	records := make([]model.PassengerRecord, 0, len(routes)*12)
	for _, r := range routes {
		for m := 1; m <= 12; m++ {
			records = append(records, MonthlyRecord(rng, r, m))
		}
	}
	return records
}

// jitter returns a multiplier uniformly drawn from [1-spread, 1+spread).
func jitter(rng *rand.Rand, spread float64) float64 {
	return 1 + spread*(2*rng.Float64()-1)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
