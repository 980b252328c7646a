// Package demand models monthly passenger demand and fares per route.
package demand

// baseSeasonality is the network-wide monthly demand curve, January first.
var baseSeasonality = [12]float64{0.85, 0.80, 0.95, 1.00, 1.05, 1.15, 1.25, 1.20, 0.95, 1.00, 0.95, 1.10}

// Profile describes how a route class behaves.
type Profile struct {
	// Amplitude scales the seasonal swing; 1 follows the base curve.
	Amplitude float64
	// BaseLoadFactor is the load factor in a neutral month.
	BaseLoadFactor float64
	// FareMultiplier scales the distance-based fare.
	FareMultiplier float64
}

var defaultProfile = Profile{Amplitude: 1.0, BaseLoadFactor: 0.72, FareMultiplier: 1.0}

// Leisure-heavy classes touching minor airports swing hardest; hub-to-hub
// business traffic is the flattest.
var profiles = map[string]Profile{
	"Major-Major":   {Amplitude: 0.6, BaseLoadFactor: 0.84, FareMultiplier: 1.00},
	"Major-Medium":  {Amplitude: 0.8, BaseLoadFactor: 0.80, FareMultiplier: 1.05},
	"Medium-Major":  {Amplitude: 0.8, BaseLoadFactor: 0.80, FareMultiplier: 1.05},
	"Major-Minor":   {Amplitude: 1.1, BaseLoadFactor: 0.76, FareMultiplier: 1.15},
	"Minor-Major":   {Amplitude: 1.1, BaseLoadFactor: 0.76, FareMultiplier: 1.15},
	"Medium-Medium": {Amplitude: 0.9, BaseLoadFactor: 0.74, FareMultiplier: 1.00},
	"Medium-Minor":  {Amplitude: 1.2, BaseLoadFactor: 0.70, FareMultiplier: 1.05},
	"Minor-Medium":  {Amplitude: 1.2, BaseLoadFactor: 0.70, FareMultiplier: 1.05},
	"Minor-Minor":   {Amplitude: 1.4, BaseLoadFactor: 0.62, FareMultiplier: 0.95},
}

// ProfileFor returns the demand profile of a route class. Unknown classes
// get a neutral profile.
func ProfileFor(routeClass string) Profile {
	if p, ok := profiles[routeClass]; ok {
		return p
	}
	return defaultProfile
}

// SeasonalFactor returns the demand multiplier for month (1-12) on a route
// class. The result is always positive; months outside 1-12 are neutral.
func SeasonalFactor(month int, routeClass string) float64 {
	if month < 1 || month > 12 {
		return 1.0
	}
	amp := ProfileFor(routeClass).Amplitude
	return 1 + amp*(baseSeasonality[month-1]-1)
}
