// math/heading.go
// Copyright(c) 2024-2025 pbutil contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	gomath "math"
)

///////////////////////////////////////////////////////////////////////////
// headings and directions

// Direction classifies where a target lies relative to the direction a
// user is pointing.
type Direction int

const (
	Right Direction = iota
	Straight
	Left
)

func (d Direction) String() string {
	switch d {
	case Right:
		return "right"
	case Straight:
		return "straight"
	case Left:
		return "left"
	default:
		return "ERROR"
	}
}

// straightTolerance is how close (in degrees) to directly behind the user
// a target must be to count as Straight.
const straightTolerance = 0.1

// Bearing returns the rhumb-line bearing from start to end. With
// inDegrees the result is in [0,360); otherwise the same angle is
// returned in radians.
func Bearing(start, end Point2LL, inDegrees bool) float64 {
	dlon := Radians(end[0] - start[0])
	dphi := gomath.Log(gomath.Tan(Radians(end[1])/2+gomath.Pi/4) /
		gomath.Tan(Radians(start[1])/2+gomath.Pi/4))

	// Take the short way around the antimeridian.
	if gomath.Abs(dlon) > gomath.Pi {
		if dlon > 0 {
			dlon = -(2*gomath.Pi - dlon)
		} else {
			dlon = 2*gomath.Pi + dlon
		}
	}

	b := Mod(Degrees(gomath.Atan2(dlon, dphi))+360, 360)
	if inDegrees {
		return b
	}
	return Radians(b)
}

// HeadingDifference returns the minimum difference between two
// headings. (i.e., the result is always in the range [0,180].)
func HeadingDifference(a float64, b float64) float64 {
	d := NormalizeHeading(a) - NormalizeHeading(b)
	if d < 0 {
		d = -d
	}
	if d > 180 {
		d = 360 - d
	}
	return d
}

// Figure out which way is closest: first find the angle to rotate the
// target heading by so that it's aligned with 180 degrees. This lets us
// not worry about the complexities of the wrap around at 0/360..
// Positive results are right (clockwise) turns.
func HeadingSignedTurn(cur, target float64) float64 {
	rot := NormalizeHeading(180 - target)
	return 180 - NormalizeHeading(cur+rot) // w.r.t. 180 target
}

// Reduces it to [0,360).
func NormalizeHeading(h float64) float64 {
	if h < 0 {
		return Mod(360-Mod(-h, 360), 360)
	}
	return Mod(h, 360)
}

// OppositeHeading returns the reciprocal of the given heading, (h+180)
// mod 360.
func OppositeHeading(h float64) float64 {
	return NormalizeHeading(h + 180)
}

// ShortCompass converts a heading expressed in degrees into an abbreviated
// string corresponding to the closest compass direction.
func ShortCompass(heading float64) string {
	h := NormalizeHeading(heading + 22.5) // now [0,45] is north, etc...
	idx := int(h / 45)
	return [...]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}[idx]
}

// TurnLeadDistance returns how far before the end of a straight segment
// a turn of headingDelta degrees has to be started so that a vehicle
// turning on a circle of the given diameter finishes the turn on the new
// course through the segment's end point.
func TurnLeadDistance(headingDelta, turnDiameter float64) float64 {
	half := Radians(headingDelta) / 2
	return gomath.Cos(half)*turnDiameter*gomath.Sin(half) -
		gomath.Tan(gomath.Pi/2-Radians(headingDelta))*Sqr(gomath.Sin(half))*turnDiameter
}

// RelativeDirection returns which side of a user pointing along
// userHeading the target lies on. The user heading and the bearing to the
// target are treated as planar unit vectors; a positive signed angle
// between them is Right and a target within 0.1 degrees of directly
// behind is Straight.
func RelativeDirection(userHeading float64, user, target Point2LL) Direction {
	toTarget := Bearing(user, target, true)
	angle := SignedAngleBetween(UnitVector(userHeading), UnitVector(toTarget))
	if 180-gomath.Abs(angle) < straightTolerance {
		return Straight
	} else if angle > 0 {
		return Right
	}
	return Left
}
