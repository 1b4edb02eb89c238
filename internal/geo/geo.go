// Package geo provides great-circle distance math and a spatial index
// for radius queries over geographic coordinates.
package geo

import "math"

// EarthRadiusKm is the mean Earth radius used for metric conversions.
const EarthRadiusKm = 6371.0088

// Point is a location on the unit sphere. Lat and Lng are in radians;
// X, Y, Z are the corresponding unit direction vector, precomputed once
// so tree construction and chord-distance pruning avoid repeated trig.
type Point struct {
	Lat, Lng float64
	X, Y, Z  float64
}

// NewPoint converts latitude and longitude in degrees to a Point.
func NewPoint(latDeg, lngDeg float64) Point {
	lat := latDeg * math.Pi / 180
	lng := lngDeg * math.Pi / 180
	cosLat := math.Cos(lat)
	return Point{
		Lat: lat,
		Lng: lng,
		X:   cosLat * math.Cos(lng),
		Y:   cosLat * math.Sin(lng),
		Z:   math.Sin(lat),
	}
}

// EpsilonRadians converts a neighbourhood radius in meters to the
// equivalent central angle in radians.
func EpsilonRadians(meters float64) float64 {
	return (meters / 1000) / EarthRadiusKm
}

// Haversine returns the great-circle central angle between a and b in
// radians. Multiply by EarthRadiusKm for a distance in kilometers.
func Haversine(a, b Point) float64 {
	sinLat := math.Sin((b.Lat - a.Lat) / 2)
	sinLng := math.Sin((b.Lng - a.Lng) / 2)
	h := sinLat*sinLat + math.Cos(a.Lat)*math.Cos(b.Lat)*sinLng*sinLng
	return 2 * math.Asin(math.Min(1, math.Sqrt(h)))
}

// DistanceMeters returns the great-circle distance between a and b in meters.
func DistanceMeters(a, b Point) float64 {
	return Haversine(a, b) * EarthRadiusKm * 1000
}

// chordLength returns the 3D Euclidean chord length corresponding to a
// central angle. Chord length is monotonic in the angle, so a chord-space
// radius search is exact for a haversine radius search.
func chordLength(angle float64) float64 {
	return 2 * math.Sin(angle/2)
}
