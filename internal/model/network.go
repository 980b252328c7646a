package model

import "fmt"

// HubTier ranks an airport's traffic importance.
type HubTier string

const (
	HubMajor  HubTier = "Major"
	HubMedium HubTier = "Medium"
	HubMinor  HubTier = "Minor"
)

// Valid reports whether t is a known hub tier.
func (t HubTier) Valid() bool {
	switch t {
	case HubMajor, HubMedium, HubMinor:
		return true
	}
	return false
}

// Airport is a catalog entry used to build the route network.
type Airport struct {
	Code      string  `json:"code" yaml:"code"`
	Name      string  `json:"name" yaml:"name"`
	City      string  `json:"city" yaml:"city"`
	HubStatus HubTier `json:"hub_status" yaml:"hub_status"`
	Lat       float64 `json:"lat" yaml:"lat"`
	Lon       float64 `json:"lon" yaml:"lon"`
}

// AircraftType is a capacity class assigned to a route.
type AircraftType string

const (
	AircraftCRJ900  AircraftType = "CRJ900"
	AircraftA320    AircraftType = "A320"
	AircraftB737900 AircraftType = "B737-900"
	AircraftB7879   AircraftType = "B787-9"
)

var aircraftSeats = map[AircraftType]int{
	AircraftCRJ900:  76,
	AircraftA320:    150,
	AircraftB737900: 180,
	AircraftB7879:   250,
}

// AllAircraftTypes returns every aircraft type from smallest to largest.
func AllAircraftTypes() []AircraftType {
	return []AircraftType{AircraftCRJ900, AircraftA320, AircraftB737900, AircraftB7879}
}

// Capacity returns the seat count for the aircraft type, or 0 if unknown.
func (a AircraftType) Capacity() int {
	return aircraftSeats[a]
}

// Route is a directed origin-destination pair flown on a fixed schedule.
type Route struct {
	RouteID         string       `json:"route_id"`
	Origin          string       `json:"origin"`
	Destination     string       `json:"destination"`
	DistanceMiles   float64      `json:"distance_miles"`
	FlightTimeHours float64      `json:"flight_time_hours"`
	DailyFlights    int          `json:"daily_flights"`
	AircraftType    AircraftType `json:"aircraft_type"`
	RouteType       string       `json:"route_type"`
}

// RouteID formats the identifier of the route from origin to dest.
func RouteID(origin, dest string) string {
	return fmt.Sprintf("%s-%s", origin, dest)
}
