// Package geo provides great-circle distances and map links for listings.
package geo

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
)

// EarthRadiusMiles is the mean Earth radius used by the haversine formula.
const EarthRadiusMiles = 3958.8

const directionsBaseURL = "https://www.google.com/maps/dir/?api=1"

// Point is a latitude/longitude pair in decimal degrees.
type Point struct {
	Lat float64
	Lng float64
}

// DistanceMiles returns the great-circle distance between a and b.
func DistanceMiles(a, b Point) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusMiles * c
}

// FormatDistance renders miles for display: "Nearby" under 0.1, one decimal under 10,
// whole miles otherwise.
func FormatDistance(miles float64) string {
	switch {
	case miles < 0.1:
		return "Nearby"
	case miles < 10:
		return fmt.Sprintf("%.1f mi", miles)
	default:
		return fmt.Sprintf("%d mi", int(math.Round(miles)))
	}
}

// DirectionsURL builds a Google Maps directions link. The destination prefers coordinates
// and falls back to the address; the origin is omitted when unknown.
func DirectionsURL(origin, dest *Point, address string) string {
	params := url.Values{}
	if origin != nil {
		params.Set("origin", formatPoint(*origin))
	}
	if dest != nil {
		params.Set("destination", formatPoint(*dest))
	} else {
		params.Set("destination", address)
	}
	return directionsBaseURL + "&" + params.Encode()
}

func formatPoint(p Point) string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lng, 'f', -1, 64)
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
