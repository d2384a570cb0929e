// bgl/taxiway.go
// Copyright(c) 2024-2025 pbutil contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package bgl

import (
	"fmt"

	"github.com/pushback-utility/pbutil/aviation"
)

const (
	taxiwayPointSize   = 12
	taxiwayPathSize    = 20
	taxiwayParkingSize = 36
	airlineCodeSize    = 4
)

// decodeTaxiway decodes the entries of a taxiway point, path or parking
// subrecord of the given size at off, appending them to the record's
// tables. Entries must fit within the subrecord.
func (r *AirportRecord) decodeTaxiway(buf []byte, tag uint16, off, size int) error {
	c := newCursor(buf, off+taxiwayCountOffset)
	n := int(c.u16())
	if c.err != nil {
		return c.err
	}
	end := off + size

	malformed := func(format string, args ...any) error {
		return &DecodeError{Offset: off, Err: fmt.Errorf("%s subrecord: %s: %w", SubrecordName(tag),
			fmt.Sprintf(format, args...), ErrMalformedRecord)}
	}

	switch tag {
	case TagTaxiwayPoint:
		if taxiwayEntriesOffset+n*taxiwayPointSize > size {
			return malformed("%d points don't fit in %d bytes", n, size)
		}
		for range n {
			node := aviation.TaxiwayNode{Index: len(r.nodes)}
			node.Type = c.u8()
			node.Flag = c.u8()
			c.skip(2)
			lon, lat := c.u32(), c.u32()
			node.Location = pointFromRaw(lon, lat)
			r.nodes = append(r.nodes, node)
		}

	case TagTaxiwayPath:
		if taxiwayEntriesOffset+n*taxiwayPathSize > size {
			return malformed("%d paths don't fit in %d bytes", n, size)
		}
		for range n {
			e := aviation.TaxiwayEdge{Index: len(r.edges)}
			e.Start = int(c.u16())
			e.End, e.RunwayDesignator = unpackPathEnd(c.u16())
			e.Type, e.DrawSurface, e.DrawDetail, e.Unused = unpackPathType(c.u8())
			e.TaxiName = c.u8()
			e.Lighting = unpackLighting(c.u8())
			e.Surface = c.u8()
			e.Width = c.f32()
			e.WeightLimit = c.f32()
			e.Unknown = c.u32()
			if c.err == nil && !e.Type.Valid() {
				return malformed("path %d: invalid type %d", e.Index, e.Type)
			}
			r.edges = append(r.edges, e)
		}

	case TagTaxiwayParking:
		for range n {
			if c.off+taxiwayParkingSize > end {
				return malformed("parking %d overruns subrecord", len(r.spots))
			}
			s := aviation.ParkingSpot{Index: len(r.spots)}
			id := unpackParkingIdent(c.u32())
			s.Number, s.Type, s.Pushback, s.Name = id.number, id.typ, id.pushback, id.name
			s.Radius = c.f32()
			s.Heading = c.f32()
			for i := range s.Tee {
				s.Tee[i] = c.f32()
			}
			lon, lat := c.u32(), c.u32()
			s.Location = pointFromRaw(lon, lat)

			if c.off+id.airlines*airlineCodeSize > end {
				return malformed("parking %d: %d airline codes overrun subrecord", s.Index, id.airlines)
			}
			for range id.airlines {
				s.Airlines = append(s.Airlines, c.ascii(airlineCodeSize))
			}
			r.spots = append(r.spots, s)
		}
	}

	return c.err
}
