// bgl/packed.go
// Copyright(c) 2024-2025 pbutil contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package bgl

import (
	"github.com/pushback-utility/pbutil/aviation"
	"github.com/pushback-utility/pbutil/math"
)

// Packed coordinates: longitude spans 360 degrees over 3*2^28 steps from
// -180, latitude spans 180 degrees over 2*2^28 steps down from 90.
const (
	lonUnits = 3 * (1 << 28)
	latUnits = 2 * (1 << 28)
)

func longitudeFromRaw(raw uint32) float64 {
	return float64(raw)*(360.0/lonUnits) - 180
}

func latitudeFromRaw(raw uint32) float64 {
	return 90 - float64(raw)*(180.0/latUnits)
}

func pointFromRaw(lon, lat uint32) math.Point2LL {
	return math.Point2LL{longitudeFromRaw(lon), latitudeFromRaw(lat)}
}

// Taxiway path end word.
const (
	pathEndIndexMask  = 0x0fff
	pathDesignatorBit = 12
)

func unpackPathEnd(w uint16) (end int, designator uint8) {
	return int(w & pathEndIndexMask), uint8(w >> pathDesignatorBit)
}

// Taxiway path type byte.
const (
	pathTypeMask        = 0x1f
	pathDrawSurfaceFlag = 1 << 5
	pathDrawDetailFlag  = 1 << 6
	pathUnusedFlag      = 1 << 7
)

func unpackPathType(b uint8) (t aviation.EdgeType, drawSurface, drawDetail, unused bool) {
	return aviation.EdgeType(b & pathTypeMask), b&pathDrawSurfaceFlag != 0,
		b&pathDrawDetailFlag != 0, b&pathUnusedFlag != 0
}

// Taxiway path edge/lighting byte.
const (
	edgeCenterline        = 1 << 0
	edgeCenterlineLighted = 1 << 1
	edgeLeftShift         = 2
	edgeLeftLighted       = 1 << 4
	edgeRightShift        = 5
	edgeRightLighted      = 1 << 7
	edgeStyleMask         = 0x3
)

func unpackLighting(b uint8) aviation.EdgeLighting {
	return aviation.EdgeLighting{
		Centerline:        b&edgeCenterline != 0,
		CenterlineLighted: b&edgeCenterlineLighted != 0,
		LeftEdge:          (b >> edgeLeftShift) & edgeStyleMask,
		LeftEdgeLighted:   b&edgeLeftLighted != 0,
		RightEdge:         (b >> edgeRightShift) & edgeStyleMask,
		RightEdgeLighted:  b&edgeRightLighted != 0,
	}
}

// Parking identification word.
const (
	parkingCountShift    = 24
	parkingNumberShift   = 12
	parkingNumberMask    = 0xfff
	parkingTypeShift     = 8
	parkingTypeMask      = 0xf
	parkingPushbackShift = 6
	parkingPushbackMask  = 0x3
	parkingNameMask      = 0x3f
)

type parkingIdent struct {
	airlines int
	number   int
	typ      aviation.ParkingType
	pushback aviation.PushbackKind
	name     aviation.ParkingName
}

func unpackParkingIdent(w uint32) parkingIdent {
	return parkingIdent{
		airlines: int(w >> parkingCountShift),
		number:   int((w >> parkingNumberShift) & parkingNumberMask),
		typ:      aviation.ParkingType((w >> parkingTypeShift) & parkingTypeMask),
		pushback: aviation.PushbackKind((w >> parkingPushbackShift) & parkingPushbackMask),
		name:     aviation.ParkingName(w & parkingNameMask),
	}
}
