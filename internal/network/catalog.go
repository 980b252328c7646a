// Package network builds the airport catalog and the directed route network.
package network

import (
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/route-profitability/internal/model"
)

// defaultCatalog is the built-in US airport catalog.
var defaultCatalog = []model.Airport{
	{Code: "ATL", Name: "Hartsfield-Jackson Atlanta International", City: "Atlanta", HubStatus: model.HubMajor, Lat: 33.6407, Lon: -84.4277},
	{Code: "ORD", Name: "O'Hare International", City: "Chicago", HubStatus: model.HubMajor, Lat: 41.9742, Lon: -87.9073},
	{Code: "DFW", Name: "Dallas/Fort Worth International", City: "Dallas", HubStatus: model.HubMajor, Lat: 32.8998, Lon: -97.0403},
	{Code: "LAX", Name: "Los Angeles International", City: "Los Angeles", HubStatus: model.HubMajor, Lat: 33.9416, Lon: -118.4085},
	{Code: "JFK", Name: "John F. Kennedy International", City: "New York", HubStatus: model.HubMajor, Lat: 40.6413, Lon: -73.7781},
	{Code: "DEN", Name: "Denver International", City: "Denver", HubStatus: model.HubMajor, Lat: 39.8561, Lon: -104.6737},
	{Code: "SEA", Name: "Seattle-Tacoma International", City: "Seattle", HubStatus: model.HubMedium, Lat: 47.4502, Lon: -122.3088},
	{Code: "SFO", Name: "San Francisco International", City: "San Francisco", HubStatus: model.HubMedium, Lat: 37.6213, Lon: -122.3790},
	{Code: "BOS", Name: "Logan International", City: "Boston", HubStatus: model.HubMedium, Lat: 42.3656, Lon: -71.0096},
	{Code: "MIA", Name: "Miami International", City: "Miami", HubStatus: model.HubMedium, Lat: 25.7959, Lon: -80.2870},
	{Code: "PHX", Name: "Phoenix Sky Harbor International", City: "Phoenix", HubStatus: model.HubMedium, Lat: 33.4342, Lon: -112.0116},
	{Code: "MSP", Name: "Minneapolis-Saint Paul International", City: "Minneapolis", HubStatus: model.HubMedium, Lat: 44.8848, Lon: -93.2223},
	{Code: "BNA", Name: "Nashville International", City: "Nashville", HubStatus: model.HubMinor, Lat: 36.1263, Lon: -86.6774},
	{Code: "AUS", Name: "Austin-Bergstrom International", City: "Austin", HubStatus: model.HubMinor, Lat: 30.1975, Lon: -97.6664},
	{Code: "RDU", Name: "Raleigh-Durham International", City: "Raleigh", HubStatus: model.HubMinor, Lat: 35.8801, Lon: -78.7880},
	{Code: "PDX", Name: "Portland International", City: "Portland", HubStatus: model.HubMinor, Lat: 45.5898, Lon: -122.5951},
	{Code: "SAN", Name: "San Diego International", City: "San Diego", HubStatus: model.HubMinor, Lat: 32.7338, Lon: -117.1933},
}

// DefaultCatalog returns a copy of the built-in airport catalog.
func DefaultCatalog() []model.Airport {
	out := make([]model.Airport, len(defaultCatalog))
	copy(out, defaultCatalog)
	return out
}

// LoadCatalog reads an airport catalog from a YAML file of the form
//
//	airports:
//	  - {code: ATL, name: ..., hub_status: Major, lat: 33.64, lon: -84.43}
func LoadCatalog(path string) ([]model.Airport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "network: read catalog %s", path)
	}

	var wrapper struct {
		Airports []model.Airport `yaml:"airports"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "network: parse catalog")
	}

	for i := range wrapper.Airports {
		wrapper.Airports[i].Code = strings.ToUpper(strings.TrimSpace(wrapper.Airports[i].Code))
	}
	if err := ValidateCatalog(wrapper.Airports); err != nil {
		return nil, err
	}
	return wrapper.Airports, nil
}

// ValidateCatalog checks that a catalog can produce at least one route.
func ValidateCatalog(airports []model.Airport) error {
	var errs []string

	if len(airports) < 2 {
		errs = append(errs, fmt.Sprintf("need at least 2 airports, got %d", len(airports)))
	}

	seen := make(map[string]bool, len(airports))
	for _, a := range airports {
		if a.Code == "" {
			errs = append(errs, "airport code is required")
			continue
		}
		if seen[a.Code] {
			errs = append(errs, fmt.Sprintf("duplicate airport %s", a.Code))
		}
		seen[a.Code] = true
		if !a.HubStatus.Valid() {
			errs = append(errs, fmt.Sprintf("%s: unknown hub_status %q", a.Code, a.HubStatus))
		}
		if a.Lat < -90 || a.Lat > 90 || a.Lon < -180 || a.Lon > 180 {
			errs = append(errs, fmt.Sprintf("%s: coordinates out of range", a.Code))
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("network: catalog validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
