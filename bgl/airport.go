// bgl/airport.go
// Copyright(c) 2024-2025 pbutil contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package bgl

import (
	"fmt"

	"github.com/pushback-utility/pbutil/aviation"
	"github.com/pushback-utility/pbutil/math"
)

const (
	RecordAirport     = 0x003c
	airportHeaderSize = 0x38
)

// AirportRecord is an airport record as stored in a scenery container:
// the fixed header followed by the decoded taxiway tables.
type AirportRecord struct {
	Offset int
	ID     uint16
	Size   uint32

	RunwayCount   uint8
	ComCount      uint8
	StartCount    uint8
	ApproachCount uint8
	ApronCount    uint8
	HelipadCount  uint8

	RawLongitude      uint32
	RawLatitude       uint32
	RawAltitude       uint32
	RawTowerLongitude uint32
	RawTowerLatitude  uint32
	RawTowerAltitude  uint32
	MagVar            float32
	IdentWord         uint32
	ICAO              string
	Region            uint32
	Fuel              uint32
	UnknownFSX1       uint8
	TrafficScalar     uint8
	UnknownFSX2       uint16

	// Subrecords lists the recognized subrecords in file order.
	Subrecords []Subrecord
	// Consumed is the number of subrecord bytes walked; for a
	// well-formed record it is Size-0x38.
	Consumed int
	// Resyncs counts the 2-byte steps taken over unrecognized tags.
	Resyncs int

	// Airport is the taxiway network decoded from the record.
	Airport *aviation.Airport

	nodes []aviation.TaxiwayNode
	edges []aviation.TaxiwayEdge
	spots []aviation.ParkingSpot
}

func (r *AirportRecord) Location() math.Point2LL {
	return pointFromRaw(r.RawLongitude, r.RawLatitude)
}

func (r *AirportRecord) TowerLocation() math.Point2LL {
	return pointFromRaw(r.RawTowerLongitude, r.RawTowerLatitude)
}

// Altitude returns the airport elevation in meters.
func (r *AirportRecord) Altitude() float64 {
	return float64(int32(r.RawAltitude)) / 1000
}

// DecodeAirport decodes the airport record starting at offset in buf.
// ErrTruncatedData is returned if the record extends past the end of
// buf; ErrMalformedRecord is returned for records whose contents are
// inconsistent. Either way the error is a *DecodeError.
func DecodeAirport(buf []byte, offset int) (*AirportRecord, error) {
	r := &AirportRecord{Offset: offset}
	c := newCursor(buf, offset)

	r.ID = c.u16()
	r.Size = c.u32()
	r.RunwayCount = c.u8()
	r.ComCount = c.u8()
	r.StartCount = c.u8()
	r.ApproachCount = c.u8()
	r.ApronCount = c.u8()
	r.HelipadCount = c.u8()
	r.RawLongitude = c.u32()
	r.RawLatitude = c.u32()
	r.RawAltitude = c.u32()
	r.RawTowerLongitude = c.u32()
	r.RawTowerLatitude = c.u32()
	r.RawTowerAltitude = c.u32()
	r.MagVar = c.f32()
	r.IdentWord = c.u32()
	r.Region = c.u32()
	r.Fuel = c.u32()
	r.UnknownFSX1 = c.u8()
	r.TrafficScalar = c.u8()
	r.UnknownFSX2 = c.u16()
	if c.err != nil {
		return nil, c.err
	}
	r.ICAO = DecodeIdent(r.IdentWord)

	if r.ID != RecordAirport {
		return nil, decodeError(r.ICAO, offset, fmt.Errorf("record id %#04x: %w", r.ID, ErrMalformedRecord))
	}
	if r.Size < airportHeaderSize {
		return nil, decodeError(r.ICAO, offset, fmt.Errorf("record size %d smaller than header: %w",
			r.Size, ErrMalformedRecord))
	}
	if int64(offset)+int64(r.Size) > int64(len(buf)) {
		return nil, decodeError(r.ICAO, offset, fmt.Errorf("record size %d with %d bytes available: %w",
			r.Size, len(buf)-offset, ErrTruncatedData))
	}

	if err := r.walkSubrecords(buf, offset+airportHeaderSize, int(r.Size)-airportHeaderSize); err != nil {
		return nil, decodeError(r.ICAO, offset, err)
	}

	ap := &aviation.Airport{
		ICAO:          r.ICAO,
		Arena:         aviation.NewArena(),
		Location:      r.Location(),
		Altitude:      r.Altitude(),
		TowerLocation: r.TowerLocation(),
		MagVar:        float64(r.MagVar),
	}
	for _, e := range r.edges {
		e.Arena = ap.Arena
		ap.Graph.Edges = append(ap.Graph.Edges, e)
	}
	for _, s := range r.spots {
		s.Arena = ap.Arena
		ap.Parking.Spots = append(ap.Parking.Spots, s)
	}
	ap.Nodes.Nodes = r.nodes
	r.nodes, r.edges, r.spots = nil, nil, nil

	if err := ap.Validate(); err != nil {
		return nil, decodeError(r.ICAO, offset, fmt.Errorf("%w: %w", ErrMalformedRecord, err))
	}
	r.Airport = ap

	return r, nil
}
