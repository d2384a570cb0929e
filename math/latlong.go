// math/latlong.go
// Copyright(c) 2024-2025 pbutil contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"fmt"
	gomath "math"
)

// EarthRadiusMeters is the mean radius used for all great-circle
// computations.
const EarthRadiusMeters = 6371000

const MetersToNauticalMiles = 0.000539957

///////////////////////////////////////////////////////////////////////////
// Point2LL

// Point2LL represents a 2D point on the Earth in latitude-longitude.
// Important: 0 (x) is longitude, 1 (y) is latitude
type Point2LL [2]float64

func (p Point2LL) Longitude() float64 {
	return p[0]
}

func (p Point2LL) Latitude() float64 {
	return p[1]
}

// DDString returns the position in decimal degrees, e.g.:
// (39.860901, -75.274864)
func (p Point2LL) DDString() string {
	return fmt.Sprintf("(%f, %f)", p[1], p[0]) // latitude, longitude
}

func (p Point2LL) String() string {
	return p.DDString()
}

func (p Point2LL) IsZero() bool {
	return p[0] == 0 && p[1] == 0
}

// DistanceMeters returns the great-circle distance in meters between the
// two provided lat-long coordinates.
func DistanceMeters(a Point2LL, b Point2LL) float64 {
	// https://www.movable-type.co.uk/scripts/latlong.html
	lat1, lon1 := Radians(a[1]), Radians(a[0])
	lat2, lon2 := Radians(b[1]), Radians(b[0])
	dlat, dlon := lat2-lat1, lon2-lon1

	x := Sqr(gomath.Sin(dlat/2)) + gomath.Cos(lat1)*gomath.Cos(lat2)*Sqr(gomath.Sin(dlon/2))
	c := 2 * gomath.Atan2(gomath.Sqrt(x), gomath.Sqrt(1-x))
	return EarthRadiusMeters * c
}

// NMDistance2LL returns the distance in nautical miles between two
// provided lat-long coordinates.
func NMDistance2LL(a Point2LL, b Point2LL) float64 {
	return DistanceMeters(a, b) * MetersToNauticalMiles
}

// Offset2LL returns the point reached by travelling dist meters from p
// along the great circle with initial heading hdg (degrees true).
func Offset2LL(p Point2LL, hdg float64, dist float64) Point2LL {
	delta := dist / EarthRadiusMeters
	theta := Radians(hdg)
	lat1, lon1 := Radians(p[1]), Radians(p[0])

	lat2 := gomath.Asin(Clamp(gomath.Sin(lat1)*gomath.Cos(delta)+
		gomath.Cos(lat1)*gomath.Sin(delta)*gomath.Cos(theta), -1, 1))
	lon2 := lon1 + gomath.Atan2(gomath.Sin(theta)*gomath.Sin(delta)*gomath.Cos(lat1),
		gomath.Cos(delta)-gomath.Sin(lat1)*gomath.Sin(lat2))

	// Keep longitude in [-180,180).
	lon := Mod(Degrees(lon2)+540, 360) - 180
	return Point2LL{lon, Degrees(lat2)}
}
