// bgl/bgltest/builder.go
// Copyright(c) 2024-2025 pbutil contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package bgltest builds scenery containers in memory for tests.
package bgltest

import (
	"encoding/binary"
	gomath "math"

	"github.com/pushback-utility/pbutil/aviation"
	"github.com/pushback-utility/pbutil/math"
)

const (
	TagName           = 0x0019
	TagRunway         = 0x0004
	TagTaxiwayPoint   = 0x001a
	TagTaxiwayParking = 0x003d
	TagTaxiwayPath    = 0x001c
	TagJetway         = 0x003a
	RecordAirport     = 0x003c
	SectionAirport    = 0x0003

	HeaderSize        = 0x38
	AirportHeaderSize = 0x38
	SectionEntrySize  = 24
)

type Node struct {
	Type, Flag uint8
	Location   math.Point2LL
}

type Edge struct {
	Start, End       int
	Type             aviation.EdgeType
	RunwayDesignator uint8
	DrawSurface      bool
	DrawDetail       bool
	TaxiName         uint8
	Lighting         uint8
	Surface          uint8
	Width            float32
	WeightLimit      float32
}

type Spot struct {
	Number   int
	Type     aviation.ParkingType
	Pushback aviation.PushbackKind
	Name     aviation.ParkingName
	Radius   float32
	Heading  float32
	Tee      [4]float32
	Location math.Point2LL
	Airlines []string
}

// Airport describes an airport record. Before and After hold raw bytes
// (usually from Subrecord or Jetway) placed before and after the taxiway
// subrecords.
type Airport struct {
	ICAO     string
	Location math.Point2LL
	Altitude float64
	MagVar   float32
	Nodes    []Node
	Edges    []Edge
	Spots    []Spot

	Before, After [][]byte
}

func u16(b []byte, v uint16) []byte  { return binary.LittleEndian.AppendUint16(b, v) }
func u32(b []byte, v uint32) []byte  { return binary.LittleEndian.AppendUint32(b, v) }
func f32(b []byte, v float32) []byte { return u32(b, gomath.Float32bits(v)) }

func RawLongitude(lon float64) uint32 {
	return uint32(gomath.Round((lon + 180) * 3 * (1 << 28) / 360))
}

func RawLatitude(lat float64) uint32 {
	return uint32(gomath.Round((90 - lat) * 2 * (1 << 28) / 180))
}

// Ident packs s into an ident word; s must be valid.
func Ident(s string) uint32 {
	var v uint32
	for _, ch := range s {
		switch {
		case ch == ' ':
			v = v * 38
		case ch >= '0' && ch <= '9':
			v = v*38 + uint32(ch-'0') + 2
		default:
			v = v*38 + uint32(ch-'A') + 12
		}
	}
	return v << 5
}

// Subrecord returns a subrecord with a 32-bit length field.
func Subrecord(tag uint16, body []byte) []byte {
	b := u32(u16(nil, tag), uint32(6+len(body)))
	return append(b, body...)
}

// Jetway returns a jetway subrecord, which has a 16-bit length field.
func Jetway(body []byte) []byte {
	b := u16(u16(nil, TagJetway), uint16(4+len(body)))
	return append(b, body...)
}

// Record returns a top-level record of the given type.
func Record(tag uint16, body []byte) []byte {
	return Subrecord(tag, body)
}

func (a Airport) pointsSubrecord() []byte {
	b := u16(nil, uint16(len(a.Nodes)))
	for _, n := range a.Nodes {
		b = append(b, n.Type, n.Flag)
		b = u16(b, 0)
		b = u32(b, RawLongitude(n.Location[0]))
		b = u32(b, RawLatitude(n.Location[1]))
	}
	return Subrecord(TagTaxiwayPoint, b)
}

func (a Airport) pathsSubrecord() []byte {
	b := u16(nil, uint16(len(a.Edges)))
	for _, e := range a.Edges {
		b = u16(b, uint16(e.Start))
		b = u16(b, uint16(e.End&0xfff)|uint16(e.RunwayDesignator)<<12)
		t := uint8(e.Type) & 0x1f
		if e.DrawSurface {
			t |= 1 << 5
		}
		if e.DrawDetail {
			t |= 1 << 6
		}
		b = append(b, t, e.TaxiName, e.Lighting, e.Surface)
		b = f32(b, e.Width)
		b = f32(b, e.WeightLimit)
		b = u32(b, 0)
	}
	return Subrecord(TagTaxiwayPath, b)
}

func (a Airport) parkingSubrecord() []byte {
	b := u16(nil, uint16(len(a.Spots)))
	for _, s := range a.Spots {
		id := uint32(len(s.Airlines))<<24 | uint32(s.Number&0xfff)<<12 | uint32(s.Type&0xf)<<8 |
			uint32(s.Pushback&0x3)<<6 | uint32(s.Name&0x3f)
		b = u32(b, id)
		b = f32(b, s.Radius)
		b = f32(b, s.Heading)
		for _, t := range s.Tee {
			b = f32(b, t)
		}
		b = u32(b, RawLongitude(s.Location[0]))
		b = u32(b, RawLatitude(s.Location[1]))
		for _, al := range s.Airlines {
			var code [4]byte
			copy(code[:], al)
			b = append(b, code[:]...)
		}
	}
	return Subrecord(TagTaxiwayParking, b)
}

// Record returns the encoded airport record. Taxiway subrecords are only
// included for non-empty tables.
func (a Airport) Record() []byte {
	var body []byte
	for _, s := range a.Before {
		body = append(body, s...)
	}
	if len(a.Nodes) > 0 {
		body = append(body, a.pointsSubrecord()...)
	}
	if len(a.Edges) > 0 {
		body = append(body, a.pathsSubrecord()...)
	}
	if len(a.Spots) > 0 {
		body = append(body, a.parkingSubrecord()...)
	}
	for _, s := range a.After {
		body = append(body, s...)
	}

	b := u16(nil, RecordAirport)
	b = u32(b, uint32(AirportHeaderSize+len(body)))
	b = append(b, 1, 2, 3, 4, 5, 6) // subrecord counts
	b = u32(b, RawLongitude(a.Location[0]))
	b = u32(b, RawLatitude(a.Location[1]))
	b = u32(b, uint32(int32(gomath.Round(a.Altitude*1000))))
	b = u32(b, RawLongitude(a.Location[0]))
	b = u32(b, RawLatitude(a.Location[1]))
	b = u32(b, uint32(int32(gomath.Round(a.Altitude*1000))))
	b = f32(b, a.MagVar)
	b = u32(b, Ident(a.ICAO))
	b = u32(b, 0) // region
	b = u32(b, 0) // fuel
	b = append(b, 0, 0)
	b = u16(b, 0)
	return append(b, body...)
}

// Section describes one section of a container. Each element of
// Subsections holds the encoded records of one subsection. Wide selects
// the 20-byte subsection layout.
type Section struct {
	Type        uint32
	Wide        bool
	Subsections [][][]byte
}

func (s Section) layout() int {
	if s.Wide {
		return 20
	}
	return 16
}

// Container returns an encoded container holding the given sections.
// Subsection tables and record data follow the section table.
func Container(sections ...Section) []byte {
	b := make([]byte, HeaderSize+SectionEntrySize*len(sections))
	binary.LittleEndian.PutUint32(b[0x14:], uint32(len(sections)))

	for i, s := range sections {
		tableOffset := len(b)
		tableSize := s.layout() * len(s.Subsections)

		// Lay out record data after the table.
		dataOffset := tableOffset + tableSize
		var table, data []byte
		for j, sub := range s.Subsections {
			var recs []byte
			for _, r := range sub {
				recs = append(recs, r...)
			}
			table = u32(table, uint32(j)) // QMID A
			if s.Wide {
				table = u32(table, 0) // QMID B
			}
			table = u32(table, uint32(len(sub)))
			table = u32(table, uint32(dataOffset+len(data)))
			table = u32(table, uint32(len(recs)))
			data = append(data, recs...)
		}
		b = append(b, table...)
		b = append(b, data...)

		var sizeValue uint32
		if s.Wide {
			sizeValue = 0x10000
		}
		hdr := b[HeaderSize+SectionEntrySize*i:]
		binary.LittleEndian.PutUint32(hdr[0:], s.Type)
		binary.LittleEndian.PutUint32(hdr[4:], sizeValue)
		binary.LittleEndian.PutUint32(hdr[8:], uint32(len(s.Subsections)))
		binary.LittleEndian.PutUint32(hdr[12:], uint32(tableOffset))
		binary.LittleEndian.PutUint32(hdr[16:], uint32(tableSize))
	}
	return b
}

// SingleAirport returns a container with one airport section holding
// just the given airport.
func SingleAirport(a Airport) []byte {
	return Container(Section{Type: SectionAirport, Subsections: [][][]byte{{a.Record()}}})
}
