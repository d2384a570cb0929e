// math/vecmat.go
// Copyright(c) 2024-2025 pbutil contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import gomath "math"

///////////////////////////////////////////////////////////////////////////
// point 2f

// Various useful functions for arithmetic with 2D points/vectors.
// Names are brief in order to avoid clutter when they're used.

// a+b
func Add2f(a [2]float64, b [2]float64) [2]float64 {
	return [2]float64{a[0] + b[0], a[1] + b[1]}
}

// a-b
func Sub2f(a [2]float64, b [2]float64) [2]float64 {
	return [2]float64{a[0] - b[0], a[1] - b[1]}
}

// a*s
func Scale2f(a [2]float64, s float64) [2]float64 {
	return [2]float64{s * a[0], s * a[1]}
}

func Dot(a, b [2]float64) float64 {
	return a[0]*b[0] + a[1]*b[1]
}

// Cross returns the z component of the 3D cross product of a and b.
func Cross(a, b [2]float64) float64 {
	return a[0]*b[1] - a[1]*b[0]
}

// Length of v
func Length2f(v [2]float64) float64 {
	return gomath.Sqrt(v[0]*v[0] + v[1]*v[1])
}

// SignedAngleBetween returns the angle in degrees, in (-180,180], that
// rotates v1 onto v2; positive values mean counter-clockwise in a
// right-handed frame.
func SignedAngleBetween(v1, v2 [2]float64) float64 {
	return Degrees(gomath.Atan2(Cross(v1, v2), Dot(v1, v2)))
}

// UnitVector returns the unit vector (cos θ, sin θ) for an angle θ given
// in degrees.
func UnitVector(deg float64) [2]float64 {
	r := Radians(deg)
	return [2]float64{gomath.Cos(r), gomath.Sin(r)}
}
