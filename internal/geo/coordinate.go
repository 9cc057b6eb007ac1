package geo

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedLocation is returned when a location is not of the form "<city>, <country>".
	ErrMalformedLocation = errors.New("malformed location")

	// ErrCoordinateLookupFailed covers transport errors and pages without a usable coordinate.
	ErrCoordinateLookupFailed = errors.New("coordinate lookup failed")

	// ErrInvalidCoordinate is returned when a resolved coordinate is out of range.
	// Callers running an interactive session treat it as fatal.
	ErrInvalidCoordinate = errors.New("invalid coordinate")
)

const locationSeparator = ", "

// Location is a city and a country code as typed by the user.
type Location struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

func (l Location) String() string {
	return l.City + locationSeparator + l.Country
}

// ParseLocation splits "London, UK" into its city and country parts.
func ParseLocation(value string) (Location, error) {
	parts := strings.Split(value, locationSeparator)
	if len(parts) != 2 {
		return Location{}, fmt.Errorf("%w: %q, expected \"<city>, <country>\"", ErrMalformedLocation, value)
	}

	city := strings.TrimSpace(parts[0])
	country := strings.TrimSpace(parts[1])
	if city == "" || country == "" {
		return Location{}, fmt.Errorf("%w: %q, city and country are required", ErrMalformedLocation, value)
	}

	return Location{City: city, Country: country}, nil
}

// Coordinate is a latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate checks latitude is in [-90, 90] and longitude in [-180, 180].
func (c Coordinate) Validate() error {
	if c.Latitude > 90 || c.Latitude < -90 {
		return fmt.Errorf("%w: wrong latitude %.6f", ErrInvalidCoordinate, c.Latitude)
	}
	if c.Longitude > 180 || c.Longitude < -180 {
		return fmt.Errorf("%w: wrong longitude %.6f", ErrInvalidCoordinate, c.Longitude)
	}
	return nil
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.4f,%.4f", c.Latitude, c.Longitude)
}
