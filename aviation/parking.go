// aviation/parking.go
// Copyright(c) 2024-2025 pbutil contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"fmt"
	"strconv"

	"github.com/pushback-utility/pbutil/math"
)

type ParkingType uint8

var parkingTypeNames = [...]string{"NONE", "RAMP_GA", "RAMP_GA_SMALL", "RAMP_GA_MEDIUM",
	"RAMP_GA_LARGE", "RAMP_CARGO", "RAMP_MIL_CARGO", "RAMP_MIL_COMBAT", "GATE_SMALL",
	"GATE_MEDIUM", "GATE_HEAVY", "DOCK_GA", "FUEL", "VEHICLES"}

func (t ParkingType) String() string {
	if int(t) < len(parkingTypeNames) {
		return parkingTypeNames[t]
	}
	return "ParkingType(" + strconv.Itoa(int(t)) + ")"
}

type PushbackKind uint8

const (
	PushbackNone PushbackKind = iota
	PushbackLeft
	PushbackRight
	PushbackBoth
)

func (p PushbackKind) String() string {
	return [...]string{"NONE", "LEFT", "RIGHT", "BOTH"}[p&3]
}

// ParkingName is the 6-bit name code of a parking spot.
type ParkingName uint8

func (n ParkingName) String() string {
	switch {
	case n == 0:
		return ""
	case n == 1:
		return "PARKING"
	case n >= 2 && n <= 9:
		return [...]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}[n-2] + " PARKING"
	case n == 10:
		return "GATE"
	case n == 11:
		return "DOCK"
	case n >= 12 && n <= 37:
		return "GATE " + string(rune('A'+n-12))
	default:
		return "NAME(" + strconv.Itoa(int(n)) + ")"
	}
}

type ParkingSpot struct {
	Arena Arena
	Index int

	Number   int
	Type     ParkingType
	Pushback PushbackKind
	Name     ParkingName
	Radius   float32 // meters
	Heading  float32
	Tee      [4]float32
	Location math.Point2LL
	Airlines []string
}

// Label returns the name the spot is shown under, e.g. "GATE A 12".
func (s ParkingSpot) Label() string {
	if n := s.Name.String(); n != "" {
		return n + " " + strconv.Itoa(s.Number)
	}
	return strconv.Itoa(s.Number)
}

func (s ParkingSpot) String() string {
	return fmt.Sprintf("%s (%s, r=%.1fm, hdg %.0f)", s.Label(), s.Type, s.Radius, s.Heading)
}

// ParkingTable holds an airport's parking spots; a spot's index is its
// position in the table.
type ParkingTable struct {
	Spots []ParkingSpot
}

// NearestWithinRadius returns the spot closest to p among those whose
// radius p lies strictly inside. Of equally distant spots, the first in
// table order is returned.
func (t *ParkingTable) NearestWithinRadius(p math.Point2LL) (ParkingSpot, error) {
	best, bestDist := -1, 0.
	for i, s := range t.Spots {
		d := math.DistanceMeters(p, s.Location)
		if d < float64(s.Radius) && (best == -1 || d < bestDist) {
			best, bestDist = i, d
		}
	}
	if best == -1 {
		return ParkingSpot{}, fmt.Errorf("no parking at %s: %w", p.DDString(), ErrNotFound)
	}
	return t.Spots[best], nil
}

// ByLabel returns the first spot whose Label matches.
func (t *ParkingTable) ByLabel(label string) (ParkingSpot, error) {
	for _, s := range t.Spots {
		if s.Label() == label {
			return s, nil
		}
	}
	return ParkingSpot{}, fmt.Errorf("%s: %w", label, ErrNotFound)
}
