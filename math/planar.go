// math/planar.go
// Copyright(c) 2024-2025 pbutil contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import gomath "math"

// metersPerDegree is the length of one degree of latitude.
const metersPerDegree = EarthRadiusMeters * gomath.Pi / 180

// ToPlanar projects p onto a local equirectangular plane centered at ref
// and returns its position in meters. x points north and y points east,
// so a compass heading is the angle from +x towards +y.
func ToPlanar(ref, p Point2LL) [2]float64 {
	return [2]float64{
		(p[1] - ref[1]) * metersPerDegree,
		(p[0] - ref[0]) * metersPerDegree * gomath.Cos(Radians(ref[1])),
	}
}

// FromPlanar is the inverse of ToPlanar.
func FromPlanar(ref Point2LL, v [2]float64) Point2LL {
	return Point2LL{
		ref[0] + v[1]/(metersPerDegree*gomath.Cos(Radians(ref[1]))),
		ref[1] + v[0]/metersPerDegree,
	}
}
