package cost

import (
	"math"
	"math/rand"

	"github.com/sells-group/route-profitability/internal/model"
)

const fuelNoise = 0.04

// FuelIndex generates twelve months of jet fuel prices drifting linearly by
// trend from January to December around base, with monthly noise.
func FuelIndex(rng *rand.Rand, base, trend float64) []model.FuelRecord {
	records := make([]model.FuelRecord, 12)
	for m := 1; m <= 12; m++ {
		drift := 1 + trend*float64(m-1)/11
		price := base * drift * (1 + fuelNoise*(2*rng.Float64()-1))
		price = math.Round(price*1000) / 1000
		records[m-1] = model.FuelRecord{
			Month:          m,
			PricePerGallon: price,
			PriceIndex:     math.Round(price/base*10000) / 10000,
		}
	}
	return records
}

// MeanPrice returns the average price per gallon of the series, or 0 when
// the series is empty.
func MeanPrice(records []model.FuelRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	var sum float64
	for _, r := range records {
		sum += r.PricePerGallon
	}
	return sum / float64(len(records))
}
