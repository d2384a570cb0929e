// bgl/container.go
// Copyright(c) 2024-2025 pbutil contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package bgl

import (
	"errors"
	"fmt"

	"github.com/pushback-utility/pbutil/aviation"
	"github.com/pushback-utility/pbutil/log"
	"github.com/pushback-utility/pbutil/util"
)

const (
	SectionAirport = 0x0003

	sectionCountOffset = 0x14
	sectionTableOffset = 0x38
	sectionHeaderSize  = 24
)

// Section is one entry of the container's section table. Only airport
// sections have their subsections decoded.
type Section struct {
	Index               int
	Type                uint32
	SizeValue           uint32
	NumSubsections      uint32
	SubsectionOffset    uint32
	TotalSubsectionSize uint32

	Subsections []Subsection
}

// SubsectionLayout returns the size in bytes of each entry of the
// section's subsection table.
func (s Section) SubsectionLayout() int {
	return int(((s.SizeValue & 0x10000) | 0x40000) >> 0x0e)
}

// Subsection is an entry of a section's subsection table; QMIDB is only
// present in the 20-byte layout.
type Subsection struct {
	QMIDA         uint32
	QMIDB         uint32
	NumRecords    uint32
	DataOffset    uint32
	TotalDataSize uint32

	Airports []*AirportRecord
	// Skipped counts records of other types.
	Skipped int
}

// File is a decoded scenery container.
type File struct {
	Sections []Section
	// Problems accumulates the non-fatal errors found while decoding:
	// malformed airport records, unrecognized subsection layouts and
	// resynchronizations.
	Problems util.ErrorLogger
}

// Decode decodes the section table of a scenery container along with all
// of the airport records it holds. Malformed records and sections with
// unrecognized layouts are recorded in File.Problems and otherwise
// skipped; running off the end of buf is an error (ErrTruncatedData)
// that aborts decoding.
func Decode(buf []byte, lg *log.Logger) (*File, error) {
	f := &File{}
	defer f.Problems.CheckDepth(f.Problems.CurrentDepth())

	c := newCursor(buf, sectionCountOffset)
	n := c.u32()
	if c.err != nil {
		return nil, c.err
	}

	for i := range int(n) {
		hdr := sectionTableOffset + i*sectionHeaderSize
		c := newCursor(buf, hdr)
		s := Section{Index: i}
		s.Type = c.u32()
		s.SizeValue = c.u32()
		s.NumSubsections = c.u32()
		s.SubsectionOffset = c.u32()
		s.TotalSubsectionSize = c.u32()
		c.skip(4)
		if c.err != nil {
			return nil, c.err
		}

		if s.Type == SectionAirport {
			f.Problems.Push(fmt.Sprintf("section %d", i))
			err := f.decodeAirportSection(buf, &s)
			f.Problems.Pop()
			if err != nil {
				return nil, err
			}
		}
		f.Sections = append(f.Sections, s)
	}

	if f.Problems.HaveErrors() {
		lg.Warnf("Scenery decoded with %d problem(s)", len(f.Problems.Errors()))
		f.Problems.LogWarnings(lg)
	}
	lg.Debugf("Decoded %d sections, %d airports", len(f.Sections), len(f.Airports()))

	return f, nil
}

func (f *File) decodeAirportSection(buf []byte, s *Section) error {
	layout := s.SubsectionLayout()
	if layout != 16 && layout != 20 {
		f.Problems.Error(&DecodeError{Offset: int(s.SubsectionOffset),
			Err: fmt.Errorf("%d-byte entries: %w", layout, ErrUnrecognizedLayout)})
		return nil
	}

	for j := range int(s.NumSubsections) {
		c := newCursor(buf, int(s.SubsectionOffset)+j*layout)
		var sub Subsection
		sub.QMIDA = c.u32()
		if layout == 20 {
			sub.QMIDB = c.u32()
		}
		sub.NumRecords = c.u32()
		sub.DataOffset = c.u32()
		sub.TotalDataSize = c.u32()
		if c.err != nil {
			return c.err
		}

		f.Problems.Push(fmt.Sprintf("subsection %d", j))
		err := f.decodeRecords(buf, &sub)
		f.Problems.Pop()
		if err != nil {
			return err
		}
		s.Subsections = append(s.Subsections, sub)
	}
	return nil
}

func (f *File) decodeRecords(buf []byte, sub *Subsection) error {
	off := int(sub.DataOffset)
	for range int(sub.NumRecords) {
		c := newCursor(buf, off)
		tag := c.u16()
		size := int(c.u32())
		if c.err != nil {
			return c.err
		}

		if tag == RecordAirport {
			rec, err := DecodeAirport(buf, off)
			if errors.Is(err, ErrTruncatedData) {
				return err
			} else if err != nil {
				f.Problems.Error(err)
			} else {
				if rec.Resyncs > 0 {
					f.Problems.ErrorString("%s: skipped %d bytes of unrecognized subrecord data",
						rec.ICAO, 2*rec.Resyncs)
				}
				sub.Airports = append(sub.Airports, rec)
			}
		} else {
			sub.Skipped++
		}

		off += size
	}
	return nil
}

// Airports returns all of the airport records in the file in file order.
func (f *File) Airports() []*AirportRecord {
	var ap []*AirportRecord
	for _, s := range f.Sections {
		for _, sub := range s.Subsections {
			ap = append(ap, sub.Airports...)
		}
	}
	return ap
}

// FindAirport returns the first airport in the file with the given ICAO
// code.
func (f *File) FindAirport(icao string) (*aviation.Airport, error) {
	for _, r := range f.Airports() {
		if r.ICAO == icao {
			return r.Airport, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", icao, ErrAirportNotFound)
}
