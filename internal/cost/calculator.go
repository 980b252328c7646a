// Package cost computes per-flight operating costs and the fuel price series.
package cost

import (
	"math"
	"math/rand"

	"github.com/sells-group/route-profitability/internal/model"
)

const (
	// MonthDays is the flat month length used for monthly cost.
	MonthDays = 30

	componentNoise = 0.05
	minComponent   = 1.0

	crewEfficiencyStep  = 0.015
	maintEfficiencyStep = 0.01
	maxExtraFlights     = 6
)

// Rates holds the operating cost assumptions.
type Rates struct {
	Aircraft map[model.AircraftType]AircraftRate `yaml:"aircraft" mapstructure:"aircraft"`
	// TierFeeMultiplier scales the airport fee by hub tier; a flight pays the
	// mean of its origin and destination multipliers.
	TierFeeMultiplier map[model.HubTier]float64 `yaml:"tier_fee_multiplier" mapstructure:"tier_fee_multiplier"`
}

// AircraftRate holds per-aircraft cost drivers.
type AircraftRate struct {
	FuelBurnPerMile         float64 `yaml:"fuel_burn_per_mile" mapstructure:"fuel_burn_per_mile"` // gallons
	CrewPerBlockHour        float64 `yaml:"crew_per_block_hour" mapstructure:"crew_per_block_hour"`
	MaintenancePerBlockHour float64 `yaml:"maintenance_per_block_hour" mapstructure:"maintenance_per_block_hour"`
	AirportFee              float64 `yaml:"airport_fee" mapstructure:"airport_fee"` // per departure
}

// Calculator computes operating costs for routes.
type Calculator struct {
	rates Rates
}

// NewCalculator creates a Calculator with the given rates.
func NewCalculator(rates Rates) *Calculator {
	return &Calculator{rates: rates}
}

// Fuel computes the fuel cost of one flight at the given price per gallon.
func (c *Calculator) Fuel(r model.Route, pricePerGallon float64) float64 {
	return r.DistanceMiles * c.rates.Aircraft[r.AircraftType].FuelBurnPerMile * pricePerGallon
}

// Crew computes the crew cost of one flight. Higher frequencies schedule
// crews more efficiently.
func (c *Calculator) Crew(r model.Route) float64 {
	rate := c.rates.Aircraft[r.AircraftType].CrewPerBlockHour
	return r.FlightTimeHours * rate * efficiency(r.DailyFlights, crewEfficiencyStep)
}

// Maintenance computes the maintenance cost of one flight. Higher
// utilisation lowers the per-hour cost.
func (c *Calculator) Maintenance(r model.Route) float64 {
	rate := c.rates.Aircraft[r.AircraftType].MaintenancePerBlockHour
	return r.FlightTimeHours * rate * efficiency(r.DailyFlights, maintEfficiencyStep)
}

// AirportFees computes landing and terminal fees for one flight.
func (c *Calculator) AirportFees(r model.Route, origin, dest model.HubTier) float64 {
	mul := (c.tierMultiplier(origin) + c.tierMultiplier(dest)) / 2
	return c.rates.Aircraft[r.AircraftType].AirportFee * mul
}

// Breakdown draws the per-flight cost record of a route. Each component gets
// independent noise; the total is always the sum of the rounded components.
func (c *Calculator) Breakdown(rng *rand.Rand, r model.Route, origin, dest model.HubTier, fuelPrice float64) model.CostRecord {
	fuel := noisy(rng, c.Fuel(r, fuelPrice))
	crew := noisy(rng, c.Crew(r))
	maint := noisy(rng, c.Maintenance(r))
	fees := noisy(rng, c.AirportFees(r, origin, dest))

	total := roundCents(fuel + crew + maint + fees)
	return model.CostRecord{
		RouteID:                  r.RouteID,
		FuelCostPerFlight:        fuel,
		CrewCostPerFlight:        crew,
		MaintenanceCostPerFlight: maint,
		AirportFeesPerFlight:     fees,
		TotalCostPerFlight:       total,
		MonthlyCost:              MonthlyCost(total, r.DailyFlights),
	}
}

// MonthlyCost returns the cost of flying a route for one month.
func MonthlyCost(perFlight float64, dailyFlights int) float64 {
	return roundCents(perFlight * float64(dailyFlights) * MonthDays)
}

func (c *Calculator) tierMultiplier(t model.HubTier) float64 {
	if m, ok := c.rates.TierFeeMultiplier[t]; ok {
		return m
	}
	return 1.0
}

// efficiency returns 1 - step per daily flight beyond the first, capped.
func efficiency(dailyFlights int, step float64) float64 {
	extra := max(0, min(dailyFlights-1, maxExtraFlights))
	return 1 - step*float64(extra)
}

func noisy(rng *rand.Rand, v float64) float64 {
	v *= 1 + componentNoise*(2*rng.Float64()-1)
	return math.Max(minComponent, roundCents(v))
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// DefaultRates returns the default operating cost assumptions.
func DefaultRates() Rates {
	return Rates{
		Aircraft: map[model.AircraftType]AircraftRate{
			model.AircraftCRJ900: {
				FuelBurnPerMile: 0.9, CrewPerBlockHour: 700,
				MaintenancePerBlockHour: 500, AirportFee: 900,
			},
			model.AircraftA320: {
				FuelBurnPerMile: 1.5, CrewPerBlockHour: 1100,
				MaintenancePerBlockHour: 900, AirportFee: 1800,
			},
			model.AircraftB737900: {
				FuelBurnPerMile: 1.7, CrewPerBlockHour: 1200,
				MaintenancePerBlockHour: 1000, AirportFee: 2100,
			},
			model.AircraftB7879: {
				FuelBurnPerMile: 3.0, CrewPerBlockHour: 2200,
				MaintenancePerBlockHour: 1800, AirportFee: 4000,
			},
		},
		TierFeeMultiplier: map[model.HubTier]float64{
			model.HubMajor:  1.3,
			model.HubMedium: 1.0,
			model.HubMinor:  0.8,
		},
	}
}
