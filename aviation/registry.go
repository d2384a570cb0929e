// aviation/registry.go
// Copyright(c) 2024-2025 pbutil contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iancoleman/orderedmap"

	"github.com/pushback-utility/pbutil/math"
	"github.com/pushback-utility/pbutil/util"
)

// RegistryEntry records which scenery file holds an airport and where
// the airport is.
type RegistryEntry struct {
	ICAO     string
	File     string
	Location math.Point2LL
}

// Registry is the airport index, keyed by ICAO code. Entries keep the
// order in which they appeared in the index file.
type Registry struct {
	m *orderedmap.OrderedMap
}

type registryXMLEntry struct {
	ID        string `xml:"id,attr"`
	File      string `xml:"File"`
	Latitude  string `xml:"Latitude"`
	Longitude string `xml:"Longitude"`
}

// LoadRegistryFile loads the index at path, which may be zstd-compressed.
func LoadRegistryFile(path string) (*Registry, error) {
	r, err := util.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", path, ErrRegistryLoad, err)
	}
	defer r.Close()

	return LoadRegistry(r)
}

// LoadRegistry reads an index of <ICAO id="..."> elements, each holding
// File, Latitude and Longitude children. The ICAO elements may be nested
// under any root element.
func LoadRegistry(r io.Reader) (*Registry, error) {
	reg := &Registry{m: orderedmap.New()}
	decoder := xml.NewDecoder(r)

	for {
		// Rather than declaring types for the whole document, walk
		// through the tokens until we find an ICAO element.
		token, err := decoder.Token()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRegistryLoad, err)
		}

		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != "ICAO" {
			continue
		}

		var xe registryXMLEntry
		if err := decoder.DecodeElement(&xe, &se); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRegistryLoad, err)
		}

		entry, err := xe.entry()
		if err != nil {
			return nil, err
		}
		if _, ok := reg.m.Get(entry.ICAO); ok {
			return nil, fmt.Errorf("%s: duplicate airport: %w", entry.ICAO, ErrRegistryLoad)
		}
		reg.m.Set(entry.ICAO, entry)
	}

	return reg, nil
}

func (xe registryXMLEntry) entry() (RegistryEntry, error) {
	icao := strings.TrimSpace(xe.ID)
	if icao == "" {
		return RegistryEntry{}, fmt.Errorf("empty airport identifier: %w", ErrRegistryLoad)
	}

	file := strings.TrimSpace(xe.File)
	if file == "" {
		return RegistryEntry{}, fmt.Errorf("%s: missing File: %w", icao, ErrRegistryLoad)
	}

	parse := func(s, what string) (float64, error) {
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, fmt.Errorf("%s: missing %s: %w", icao, what, ErrRegistryLoad)
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%s: %s %q: %w", icao, what, s, ErrRegistryLoad)
		}
		return v, nil
	}

	lat, err := parse(xe.Latitude, "Latitude")
	if err != nil {
		return RegistryEntry{}, err
	}
	lon, err := parse(xe.Longitude, "Longitude")
	if err != nil {
		return RegistryEntry{}, err
	}

	return RegistryEntry{ICAO: icao, File: file, Location: math.Point2LL{lon, lat}}, nil
}

func (r *Registry) Len() int {
	return len(r.m.Keys())
}

func (r *Registry) Lookup(icao string) (RegistryEntry, bool) {
	if v, ok := r.m.Get(icao); ok {
		return v.(RegistryEntry), true
	}
	return RegistryEntry{}, false
}

// Entries returns the registry's entries in index-file order.
func (r *Registry) Entries() []RegistryEntry {
	var e []RegistryEntry
	for _, k := range r.m.Keys() {
		v, _ := r.m.Get(k)
		e = append(e, v.(RegistryEntry))
	}
	return e
}

// NearestAirport returns the ICAO code and scenery file of the airport
// closest to p. When several are equally close, the first in index order
// is returned.
func (r *Registry) NearestAirport(p math.Point2LL) (icao, file string, err error) {
	best, bestDist := RegistryEntry{}, 0.
	found := false
	for _, e := range r.Entries() {
		d := math.DistanceMeters(p, e.Location)
		if !found || d < bestDist {
			best, bestDist, found = e, d, true
		}
	}
	if !found {
		return "", "", fmt.Errorf("no airports in registry: %w", ErrNotFound)
	}
	return best.ICAO, best.File, nil
}
