package domain

import (
	"fmt"
	"math"
)

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate checks the latitude and longitude ranges.
func (p GeoPoint) Validate() error {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) {
		return fmt.Errorf("%w: %v,%v is not a number", ErrInvalidCoordinates, p.Lat, p.Lon)
	}
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("%w: latitude %v out of [-90, 90]", ErrInvalidCoordinates, p.Lat)
	}
	if p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("%w: longitude %v out of [-180, 180]", ErrInvalidCoordinates, p.Lon)
	}
	return nil
}

// Destination is where the user wants directions to: either plain
// coordinates, or an address with coordinates to fall back on for apps
// that cannot navigate by address.
type Destination struct {
	Coordinates GeoPoint `json:"coordinates"`
	Address     string   `json:"address,omitempty"`
}

// ToCoordinates builds a coordinate destination.
func ToCoordinates(p GeoPoint) Destination {
	return Destination{Coordinates: p}
}

// ToAddress builds an address destination with its fallback coordinates.
func ToAddress(address string, fallback GeoPoint) Destination {
	return Destination{Coordinates: fallback, Address: address}
}

// IsAddress reports whether the destination is address-based.
func (d Destination) IsAddress() bool {
	return d.Address != ""
}
