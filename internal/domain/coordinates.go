package domain

import "fmt"

// Immutable geographic coordinates (latitude, longitude) in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// NewCoordinates returns a pointer so callers can express "unresolved" as nil.
func NewCoordinates(lat, lon float64) *Coordinates {
	return &Coordinates{Lat: lat, Lon: lon}
}

// Validate rejects coordinates outside the WGS84 range.
func (c Coordinates) Validate() error {
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("latitude %.6f out of range (-90..90)", c.Lat)
	}
	if c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("longitude %.6f out of range (-180..180)", c.Lon)
	}
	return nil
}

// Depot is the facility every route starts (dropoff) or ends (pickup) at.
type Depot struct {
	Name     string      `json:"name"`
	Address  string      `json:"address"`
	Location Coordinates `json:"location"`
}

// DefaultDepot is used when no home location has been configured.
func DefaultDepot() Depot {
	return Depot{
		Name:     "Reha Center",
		Address:  "Reha Center, treatment location",
		Location: Coordinates{Lat: 50.8, Lon: 7.0},
	}
}
