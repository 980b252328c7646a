package cost

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/route-profitability/internal/model"
)

func testRates() Rates {
	return Rates{
		Aircraft: map[model.AircraftType]AircraftRate{
			model.AircraftA320: {
				FuelBurnPerMile: 1.5, CrewPerBlockHour: 1000,
				MaintenancePerBlockHour: 800, AirportFee: 2000,
			},
		},
		TierFeeMultiplier: map[model.HubTier]float64{
			model.HubMajor: 1.5,
			model.HubMinor: 0.5,
		},
	}
}

func testRoute(dailyFlights int) model.Route {
	return model.Route{
		RouteID:         "AAA-BBB",
		DistanceMiles:   1000,
		FlightTimeHours: 2.5,
		DailyFlights:    dailyFlights,
		AircraftType:    model.AircraftA320,
	}
}

func TestFuel(t *testing.T) {
	calc := NewCalculator(testRates())
	// 1000 mi * 1.5 gal/mi * $3.00
	assert.InDelta(t, 4500.0, calc.Fuel(testRoute(1), 3.0), 1e-9)
}

func TestCrewAndMaintenanceEfficiency(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(testRates())

	tests := []struct {
		name         string
		dailyFlights int
		wantCrew     float64
		wantMaint    float64
	}{
		{name: "single flight", dailyFlights: 1, wantCrew: 2500, wantMaint: 2000},
		{name: "three flights", dailyFlights: 3, wantCrew: 2500 * 0.97, wantMaint: 2000 * 0.98},
		{name: "capped at six extra", dailyFlights: 7, wantCrew: 2500 * 0.91, wantMaint: 2000 * 0.94},
		{name: "beyond cap", dailyFlights: 12, wantCrew: 2500 * 0.91, wantMaint: 2000 * 0.94},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := testRoute(tt.dailyFlights)
			assert.InDelta(t, tt.wantCrew, calc.Crew(r), 1e-6)
			assert.InDelta(t, tt.wantMaint, calc.Maintenance(r), 1e-6)
		})
	}
}

func TestAirportFees(t *testing.T) {
	calc := NewCalculator(testRates())
	r := testRoute(1)

	assert.InDelta(t, 3000.0, calc.AirportFees(r, model.HubMajor, model.HubMajor), 1e-9)
	assert.InDelta(t, 2000.0, calc.AirportFees(r, model.HubMajor, model.HubMinor), 1e-9)
	// Missing tier multiplier falls back to 1.0.
	assert.InDelta(t, 1500.0, calc.AirportFees(r, model.HubMedium, model.HubMinor), 1e-9)
}

func TestUnknownAircraftFloored(t *testing.T) {
	calc := NewCalculator(testRates())
	r := testRoute(1)
	r.AircraftType = "Concorde"

	rec := calc.Breakdown(rand.New(rand.NewSource(1)), r, model.HubMajor, model.HubMajor, 3.0)
	assert.Equal(t, minComponent, rec.FuelCostPerFlight)
	assert.Equal(t, minComponent, rec.CrewCostPerFlight)
	assert.Equal(t, minComponent, rec.MaintenanceCostPerFlight)
	assert.Equal(t, minComponent, rec.AirportFeesPerFlight)
}

func TestBreakdown(t *testing.T) {
	calc := NewCalculator(DefaultRates())
	rng := rand.New(rand.NewSource(42))

	for _, ac := range model.AllAircraftTypes() {
		r := testRoute(4)
		r.AircraftType = ac

		rec := calc.Breakdown(rng, r, model.HubMajor, model.HubMedium, 2.8)
		assert.Equal(t, r.RouteID, rec.RouteID)
		assert.Greater(t, rec.FuelCostPerFlight, 0.0)
		assert.Greater(t, rec.CrewCostPerFlight, 0.0)
		assert.Greater(t, rec.MaintenanceCostPerFlight, 0.0)
		assert.Greater(t, rec.AirportFeesPerFlight, 0.0)

		sum := rec.FuelCostPerFlight + rec.CrewCostPerFlight + rec.MaintenanceCostPerFlight + rec.AirportFeesPerFlight
		assert.InDelta(t, sum, rec.TotalCostPerFlight, 0.005, string(ac))
		assert.InDelta(t, rec.TotalCostPerFlight*4*30, rec.MonthlyCost, 0.01, string(ac))

		// Noise stays within 5% of the deterministic component.
		assert.InDelta(t, calc.Fuel(r, 2.8), rec.FuelCostPerFlight, calc.Fuel(r, 2.8)*0.05+0.01)
	}
}

func TestMonthlyCost(t *testing.T) {
	assert.InDelta(t, 1_200_000.0, MonthlyCost(10_000, 4), 1e-9)
	assert.Zero(t, MonthlyCost(10_000, 0))
}

func TestDefaultRates(t *testing.T) {
	rates := DefaultRates()
	for _, ac := range model.AllAircraftTypes() {
		rate, ok := rates.Aircraft[ac]
		require.True(t, ok, "missing rates for %s", ac)
		assert.Greater(t, rate.FuelBurnPerMile, 0.0)
		assert.Greater(t, rate.CrewPerBlockHour, 0.0)
		assert.Greater(t, rate.MaintenancePerBlockHour, 0.0)
		assert.Greater(t, rate.AirportFee, 0.0)
	}
	assert.Greater(t, rates.TierFeeMultiplier[model.HubMajor], rates.TierFeeMultiplier[model.HubMinor])
}
