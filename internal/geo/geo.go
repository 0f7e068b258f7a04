// Package geo holds the distance and travel-time estimates used by planning.
//
// Distances are great-circle (haversine) kilometres on WGS-84 coordinates and
// travel times come from a constant average speed with an urban correction.
package geo

import (
	"math"

	"transport-route-service/internal/domain"
)

const (
	EarthRadiusKm = 6371.0

	// FallbackDistanceKm is used whenever either end of a leg has no coordinates.
	FallbackDistanceKm = 10.0
)

// Haversine returns the great-circle distance between two points in kilometres.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := degToRad(lat2 - lat1)
	dLon := degToRad(lon2 - lon1)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	h := sinLat*sinLat + math.Cos(degToRad(lat1))*math.Cos(degToRad(lat2))*sinLon*sinLon
	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// DistanceKm returns the haversine distance between a and b, or
// FallbackDistanceKm when either point is unresolved (nil).
// Callers must surface unresolved points as a data-quality warning.
func DistanceKm(a, b *domain.Coordinates) float64 {
	if a == nil || b == nil {
		return FallbackDistanceKm
	}
	return Haversine(a.Lat, a.Lon, b.Lat, b.Lon)
}

// TravelModel converts distances into driving minutes.
type TravelModel struct {
	SpeedKmh    float64 `yaml:"speed_kmh"`
	UrbanFactor float64 `yaml:"urban_factor"`
	MinMinutes  float64 `yaml:"min_minutes"`
	MaxMinutes  float64 `yaml:"max_minutes"`
}

func DefaultTravelModel() TravelModel {
	return TravelModel{
		SpeedKmh:    30,
		UrbanFactor: 1.3,
		MinMinutes:  5,
		MaxMinutes:  60,
	}
}

// Minutes estimates the travel time for km, clamped to [MinMinutes, MaxMinutes].
// Zero or negative distances yield MinMinutes.
func (m TravelModel) Minutes(km float64) float64 {
	if km <= 0 || m.SpeedKmh <= 0 {
		return m.MinMinutes
	}

	minutes := km / m.SpeedKmh * 60 * m.UrbanFactor
	if minutes < m.MinMinutes {
		return m.MinMinutes
	}
	if m.MaxMinutes > 0 && minutes > m.MaxMinutes {
		return m.MaxMinutes
	}
	return minutes
}

// TravelMinutes applies the default travel model.
func TravelMinutes(km float64) float64 {
	return DefaultTravelModel().Minutes(km)
}

func degToRad(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}
