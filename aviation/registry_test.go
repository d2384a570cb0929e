// aviation/registry_test.go
// Copyright(c) 2024-2025 pbutil contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pushback-utility/pbutil/math"
	"github.com/pushback-utility/pbutil/util"
)

const testRegistry = `<?xml version="1.0"?>
<data>
  <ICAO id="EDDM">
    <ICAOName>Munich</ICAOName>
    <File>scenery\world\scenery\APX47170.bgl</File>
    <Latitude>48.3538</Latitude>
    <Longitude>11.7861</Longitude>
  </ICAO>
  <ICAO id="LOWW">
    <File>scenery\world\scenery\APX49170.bgl</File>
    <Latitude>48.1103</Latitude>
    <Longitude>16.5697</Longitude>
  </ICAO>
  <ICAO id="LOWX">
    <File>scenery\world\scenery\APX49171.bgl</File>
    <Latitude>48.1103</Latitude>
    <Longitude>16.5697</Longitude>
  </ICAO>
</data>`

func TestLoadRegistry(t *testing.T) {
	reg, err := LoadRegistry(strings.NewReader(testRegistry))
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if reg.Len() != 3 {
		t.Errorf("expected 3 entries, got %d", reg.Len())
	}

	e, ok := reg.Lookup("EDDM")
	if !ok {
		t.Fatalf("EDDM missing")
	}
	if e.File != `scenery\world\scenery\APX47170.bgl` || e.Location != (math.Point2LL{11.7861, 48.3538}) {
		t.Errorf("unexpected EDDM entry %+v", e)
	}

	var order []string
	for _, e := range reg.Entries() {
		order = append(order, e.ICAO)
	}
	if strings.Join(order, ",") != "EDDM,LOWW,LOWX" {
		t.Errorf("entries out of order: %v", order)
	}
}

func TestNearestAirport(t *testing.T) {
	reg, err := LoadRegistry(strings.NewReader(testRegistry))
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}

	icao, file, err := reg.NearestAirport(math.Point2LL{11.79, 48.35})
	if err != nil || icao != "EDDM" || !strings.HasSuffix(file, "APX47170.bgl") {
		t.Errorf("got %s %s %v, expected EDDM", icao, file, err)
	}

	// LOWW and LOWX share a location; the first one listed wins.
	icao, _, err = reg.NearestAirport(math.Point2LL{16.5, 48.1})
	if err != nil || icao != "LOWW" {
		t.Errorf("got %s %v, expected LOWW", icao, err)
	}

	empty, err := LoadRegistry(strings.NewReader("<data></data>"))
	if err != nil {
		t.Fatalf("empty registry: %v", err)
	}
	if _, _, err := empty.NearestAirport(math.Point2LL{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadRegistryErrors(t *testing.T) {
	entry := func(id, file, lat, lon string) string {
		return `<ICAO id="` + id + `"><File>` + file + `</File><Latitude>` + lat +
			`</Latitude><Longitude>` + lon + `</Longitude></ICAO>`
	}
	tests := []struct {
		name string
		xml  string
	}{
		{"malformed xml", "<data><ICAO id=\"KSEA\"><File>x</File>"},
		{"bad latitude", "<data>" + entry("KSEA", "a.bgl", "north", "-122.3") + "</data>"},
		{"missing longitude", "<data>" + entry("KSEA", "a.bgl", "47.4", "") + "</data>"},
		{"missing file", "<data>" + entry("KSEA", "", "47.4", "-122.3") + "</data>"},
		{"empty id", "<data>" + entry(" ", "a.bgl", "47.4", "-122.3") + "</data>"},
		{"duplicate", "<data>" + entry("KSEA", "a.bgl", "47.4", "-122.3") +
			entry("KSEA", "b.bgl", "47.4", "-122.3") + "</data>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadRegistry(strings.NewReader(tt.xml)); !errors.Is(err, ErrRegistryLoad) {
				t.Errorf("expected ErrRegistryLoad, got %v", err)
			}
		})
	}
}

func TestLoadRegistryFileCompressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runways.xml.zst")
	if err := util.WriteCompressedFile(path, []byte(testRegistry)); err != nil {
		t.Fatal(err)
	}
	reg, err := LoadRegistryFile(path)
	if err != nil {
		t.Fatalf("LoadRegistryFile: %v", err)
	}
	if reg.Len() != 3 {
		t.Errorf("expected 3 entries, got %d", reg.Len())
	}

	if _, err := LoadRegistryFile(filepath.Join(t.TempDir(), "missing.xml")); !errors.Is(err, ErrRegistryLoad) {
		t.Errorf("expected ErrRegistryLoad, got %v", err)
	}
}
