// bgl/subrecord.go
// Copyright(c) 2024-2025 pbutil contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package bgl

import (
	"fmt"
)

const (
	TagName              = 0x0019
	TagTowerObject       = 0x0066
	TagRunway            = 0x0004
	TagHelipad           = 0x0026
	TagStart             = 0x0011
	TagCom               = 0x0012
	TagDeleteAirport     = 0x0033
	TagApron             = 0x0037
	TagApron2            = 0x0030
	TagApronEdgeLights   = 0x0031
	TagTaxiwayPoint      = 0x001a
	TagTaxiwayParking    = 0x003d
	TagTaxiwayPath       = 0x001c
	TagTaxiName          = 0x001d
	TagJetway            = 0x003a
	TagApproach          = 0x0024
	TagWaypoint          = 0x0022
	TagBlastFence        = 0x0038
	TagBoundaryFence     = 0x0039
	TagUnknownSubrecord  = 0x003b
	taxiwayCountOffset   = 6
	taxiwayEntriesOffset = 8
)

type subrecordKind struct {
	Name string
	// Width in bytes of the length field that follows the tag.
	LengthWidth int
}

// HeaderLength is the size of the tag and length fields.
func (k subrecordKind) HeaderLength() int {
	return 2 + k.LengthWidth
}

var subrecordKinds = map[uint16]subrecordKind{
	TagName:             {"name", 4},
	TagTowerObject:      {"tower object", 4},
	TagRunway:           {"runway", 4},
	TagHelipad:          {"helipad", 4},
	TagStart:            {"start", 4},
	TagCom:              {"com", 4},
	TagDeleteAirport:    {"delete airport", 4},
	TagApron:            {"apron", 4},
	TagApron2:           {"apron", 4},
	TagApronEdgeLights:  {"apron edge lights", 4},
	TagTaxiwayPoint:     {"taxiway point", 4},
	TagTaxiwayParking:   {"taxiway parking", 4},
	TagTaxiwayPath:      {"taxiway path", 4},
	TagTaxiName:         {"taxi name", 4},
	TagJetway:           {"jetway", 2},
	TagApproach:         {"approach", 4},
	TagWaypoint:         {"waypoint", 4},
	TagBlastFence:       {"blast fence", 4},
	TagBoundaryFence:    {"boundary fence", 4},
	TagUnknownSubrecord: {"unknown", 4},
}

// SubrecordName returns the name of the subrecord kind with the given
// tag, or "" if the tag isn't a known subrecord.
func SubrecordName(tag uint16) string {
	return subrecordKinds[tag].Name
}

// Subrecord describes one subrecord of an airport record.
type Subrecord struct {
	Tag    uint16
	Offset int
	Size   int
}

func (s Subrecord) String() string {
	return fmt.Sprintf("%s (%#04x) at %#x, %d bytes", SubrecordName(s.Tag), s.Tag, s.Offset, s.Size)
}

// walkSubrecords visits the subrecords in the total bytes starting at
// start. Every known subrecord is skipped by its declared length after
// the taxiway kinds have been handed to r.decodeTaxiway. Unknown tags are
// stepped over two bytes at a time.
func (r *AirportRecord) walkSubrecords(buf []byte, start, total int) error {
	off, remaining := start, total
	for remaining > 0 {
		c := newCursor(buf, off)
		tag := c.u16()
		kind, ok := subrecordKinds[tag]
		if c.err != nil {
			return c.err
		}
		if !ok {
			// Bogus data; step forward and try to find a subrecord again.
			off += 2
			remaining -= 2
			r.Consumed += 2
			r.Resyncs++
			continue
		}

		var size int
		if kind.LengthWidth == 2 {
			size = int(c.u16())
		} else {
			size = int(c.u32())
		}
		if c.err != nil {
			return c.err
		}

		if size <= kind.HeaderLength() {
			return &DecodeError{Offset: off,
				Err: fmt.Errorf("%s subrecord length %d: %w", kind.Name, size, ErrMalformedRecord)}
		}
		if size > remaining {
			return &DecodeError{Offset: off,
				Err: fmt.Errorf("%s subrecord length %d overruns record (%d bytes left): %w",
					kind.Name, size, remaining, ErrMalformedRecord)}
		}

		switch tag {
		case TagTaxiwayPoint, TagTaxiwayPath, TagTaxiwayParking:
			if err := r.decodeTaxiway(buf, tag, off, size); err != nil {
				return err
			}
		}

		r.Subrecords = append(r.Subrecords, Subrecord{Tag: tag, Offset: off, Size: size})
		off += size
		remaining -= size
		r.Consumed += size
	}

	if remaining < 0 {
		return &DecodeError{Offset: off,
			Err: fmt.Errorf("subrecords overrun record by %d bytes: %w", -remaining, ErrMalformedRecord)}
	}
	return nil
}
