// bgl/container_test.go
// Copyright(c) 2024-2025 pbutil contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package bgl

import (
	"encoding/binary"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/pushback-utility/pbutil/aviation"
	"github.com/pushback-utility/pbutil/bgl/bgltest"
	"github.com/pushback-utility/pbutil/log"
	"github.com/pushback-utility/pbutil/math"
)

func TestDecodeContainer(t *testing.T) {
	eddm := testAirport()
	ksea := bgltest.Airport{ICAO: "KSEA", Location: math.Point2LL{-122.309, 47.449}}
	loww := bgltest.Airport{ICAO: "LOWW", Location: math.Point2LL{16.5697, 48.1103}}
	other := bgltest.Record(0x0013, make([]byte, 20))

	buf := bgltest.Container(
		bgltest.Section{Type: 0x0022, Subsections: [][][]byte{{other}}},
		bgltest.Section{Type: SectionAirport, Subsections: [][][]byte{
			{eddm.Record(), other, ksea.Record()},
			{other},
		}},
		bgltest.Section{Type: SectionAirport, Wide: true, Subsections: [][][]byte{{loww.Record()}}},
	)

	f, err := Decode(buf, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if f.Problems.HaveErrors() {
		t.Errorf("unexpected problems: %s", f.Problems.String())
	}
	if len(f.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(f.Sections))
	}
	if len(f.Sections[0].Subsections) != 0 {
		t.Errorf("non-airport section shouldn't have been decoded")
	}

	s := f.Sections[1]
	if s.SubsectionLayout() != 16 || len(s.Subsections) != 2 || s.Subsections[0].Skipped != 1 ||
		s.Subsections[1].Skipped != 1 {
		t.Errorf("unexpected airport section %+v", s)
	}
	if w := f.Sections[2]; w.SubsectionLayout() != 20 || len(w.Subsections) != 1 || w.Subsections[0].NumRecords != 1 {
		t.Errorf("unexpected wide section %+v", w)
	}

	var icaos []string
	for _, r := range f.Airports() {
		icaos = append(icaos, r.ICAO)
	}
	if len(icaos) != 3 || icaos[0] != "EDDM" || icaos[1] != "KSEA" || icaos[2] != "LOWW" {
		t.Errorf("unexpected airports %v", icaos)
	}

	ap, err := f.FindAirport("LOWW")
	if err != nil || ap.ICAO != "LOWW" {
		t.Errorf("FindAirport(LOWW) = %v, %v", ap, err)
	}
	if _, err := f.FindAirport("KJFK"); !errors.Is(err, ErrAirportNotFound) {
		t.Errorf("expected ErrAirportNotFound, got %v", err)
	}
}

func TestDecodeContainerMalformedRecord(t *testing.T) {
	bad := testAirport()
	bad.ICAO = "BAD"
	bad.Edges[2].End = 50
	good := bgltest.Airport{ICAO: "GOOD"}

	buf := bgltest.Container(bgltest.Section{Type: SectionAirport,
		Subsections: [][][]byte{{bad.Record(), good.Record()}}})

	f, err := Decode(buf, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !f.Problems.Contains(ErrMalformedRecord) {
		t.Errorf("expected malformed record problem, got %q", f.Problems.String())
	}
	if _, err := f.FindAirport("GOOD"); err != nil {
		t.Errorf("record after the malformed one wasn't decoded: %v", err)
	}
	if _, err := f.FindAirport("BAD"); !errors.Is(err, ErrAirportNotFound) {
		t.Errorf("malformed record shouldn't be returned")
	}
}

func TestDecodeContainerResyncReported(t *testing.T) {
	a := bgltest.Airport{ICAO: "KSEA", After: [][]byte{{0xff, 0xff}}}
	lg := log.New("debug", t.TempDir(), nil)
	f, err := Decode(bgltest.SingleAirport(a), lg)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(f.Problems.Errors()) != 1 {
		t.Errorf("expected one problem, got %q", f.Problems.String())
	}
	if b, err := os.ReadFile(lg.LogFile); err != nil || !strings.Contains(string(b), "skipped 2 bytes") {
		t.Errorf("resync warning missing from log: %v", err)
	}
	if r := f.Airports(); len(r) != 1 || r[0].Resyncs != 1 {
		t.Errorf("expected one airport with one resync")
	}
}

func TestSubsectionLayout(t *testing.T) {
	tests := []struct {
		sizeValue uint32
		layout    int
	}{
		{0, 16},
		{0x2345, 16},
		{0x10000, 20},
		{0xffffffff, 20},
	}
	for _, tt := range tests {
		if l := (Section{SizeValue: tt.sizeValue}).SubsectionLayout(); l != tt.layout {
			t.Errorf("size value %#x: layout %d, expected %d", tt.sizeValue, l, tt.layout)
		}
	}
}

func TestDecodeContainerTruncated(t *testing.T) {
	buf := bgltest.SingleAirport(testAirport())

	for _, n := range []int{0x10, 0x38 + 10, len(buf) - 5} {
		_, err := Decode(buf[:n], nil)
		if !errors.Is(err, ErrTruncatedData) {
			t.Errorf("%d bytes: expected ErrTruncatedData, got %v", n, err)
		}
		var de *DecodeError
		if !errors.As(err, &de) {
			t.Errorf("%d bytes: expected a DecodeError", n)
		}
	}

	// Truncation inside an airport record carries its ICAO.
	_, err := Decode(buf[:len(buf)-5], nil)
	var de *DecodeError
	if errors.As(err, &de) && de.ICAO != "EDDM" {
		t.Errorf("expected ICAO EDDM in error, got %q", de.ICAO)
	}

	// A section table entry pointing past the end of the buffer.
	binary.LittleEndian.PutUint32(buf[bgltest.HeaderSize+12:], uint32(len(buf)+100))
	if _, err := Decode(buf, nil); !errors.Is(err, ErrTruncatedData) {
		t.Errorf("expected ErrTruncatedData, got %v", err)
	}
}

// The three-node fixture: a PARKING edge from node 0 to node 1, a TAXI
// edge from 1 to 2, and a single spot at node 1.
func TestEndToEndFixture(t *testing.T) {
	n0 := math.Point2LL{8.5, 47.45}
	n1 := math.Offset2LL(n0, 0, 40)
	n2 := math.Offset2LL(n1, 90, 80)
	a := bgltest.Airport{
		ICAO:  "LSZH",
		Nodes: []bgltest.Node{{Location: n0}, {Location: n1}, {Location: n2}},
		Edges: []bgltest.Edge{
			{Start: 0, End: 1, Type: aviation.EdgeParking},
			{Start: 1, End: 2, Type: aviation.EdgeTaxi},
		},
		Spots: []bgltest.Spot{{Number: 1, Radius: 50, Location: n1}},
	}

	f, err := Decode(bgltest.SingleAirport(a), nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	ap, err := f.FindAirport("LSZH")
	if err != nil {
		t.Fatalf("FindAirport: %v", err)
	}

	spot, err := ap.Parking.NearestWithinRadius(math.Offset2LL(n1, 180, 5))
	if err != nil || spot.Index != 0 {
		t.Fatalf("NearestWithinRadius = %v, %v", spot, err)
	}

	e, ok := ap.Graph.FindEdge(aviation.EdgeParking, 1)
	if !ok || e.Index != 0 {
		t.Fatalf("FindEdge(PARKING, 1) = %v, %v", e, ok)
	}
	if e.Start != 0 {
		t.Errorf("destination node %d, expected 0", e.Start)
	}
	if _, err := ap.Graph.FindIncident(true, aviation.EdgeParking, e.Start); !errors.Is(err, aviation.ErrNoPathFound) {
		t.Errorf("expected ErrNoPathFound, got %v", err)
	}

	// The spot's own index finds no PARKING edge at all.
	if _, ok := ap.Graph.FindEdge(aviation.EdgeParking, spot.Index); ok {
		t.Errorf("unexpected PARKING edge ending at spot index %d", spot.Index)
	}
}
