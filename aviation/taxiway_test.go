// aviation/taxiway_test.go
// Copyright(c) 2024-2025 pbutil contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"errors"
	"testing"

	"github.com/pushback-utility/pbutil/math"
)

func makeTestAirport(edges []TaxiwayEdge, spots []ParkingSpot, nodes ...math.Point2LL) *Airport {
	ap := &Airport{ICAO: "TEST", Arena: NewArena()}
	for i, p := range nodes {
		ap.Nodes.Nodes = append(ap.Nodes.Nodes, TaxiwayNode{Index: i, Location: p})
	}
	for i, e := range edges {
		e.Arena, e.Index = ap.Arena, i
		ap.Graph.Edges = append(ap.Graph.Edges, e)
	}
	for i, s := range spots {
		s.Arena, s.Index = ap.Arena, i
		ap.Parking.Spots = append(ap.Parking.Spots, s)
	}
	return ap
}

func TestFindEdge(t *testing.T) {
	g := TaxiwayGraph{Edges: []TaxiwayEdge{
		{Index: 0, Type: EdgeTaxi, Start: 0, End: 1},
		{Index: 1, Type: EdgeParking, Start: 2, End: 1},
		{Index: 2, Type: EdgeParking, Start: 3, End: 1},
	}}

	e, ok := g.FindEdge(EdgeParking, 1)
	if !ok || e.Index != 1 {
		t.Errorf("expected first PARKING edge ending at 1, got %v (%v)", e, ok)
	}
	if _, ok := g.FindEdge(EdgeParking, 0); ok {
		t.Errorf("expected no PARKING edge ending at 0")
	}
	if _, ok := g.FindEdge(EdgeRunway, 1); ok {
		t.Errorf("expected no RUNWAY edge")
	}
}

func TestFindIncident(t *testing.T) {
	g := TaxiwayGraph{Edges: []TaxiwayEdge{
		{Index: 0, Type: EdgeParking, Start: 0, End: 1},
		{Index: 1, Type: EdgeTaxi, Start: 1, End: 2},
		{Index: 2, Type: EdgeTaxi, Start: 3, End: 1},
		{Index: 3, Type: EdgePath, Start: 1, End: 1},
	}}

	tests := []struct {
		name    string
		exclude bool
		t       EdgeType
		node    int
		others  []int
	}{
		{"non-parking at 1", true, EdgeParking, 1, []int{2, 3, 1, 1}},
		{"taxi only at 1", false, EdgeTaxi, 1, []int{2, 3}},
		{"parking at 0", false, EdgeParking, 0, []int{1}},
		{"loop counted twice", false, EdgePath, 1, []int{1, 1}},
		{"non-parking at 0", true, EdgeParking, 0, nil},
		{"unknown node", false, EdgeTaxi, 9, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inc, err := g.FindIncident(tt.exclude, tt.t, tt.node)
			if len(tt.others) == 0 {
				if !errors.Is(err, ErrNoPathFound) {
					t.Errorf("expected ErrNoPathFound, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(inc) != len(tt.others) {
				t.Fatalf("got %d incident edges, expected %d", len(inc), len(tt.others))
			}
			for i, o := range tt.others {
				if inc[i].Other != o {
					t.Errorf("entry %d: other = %d, expected %d", i, inc[i].Other, o)
				}
				if (inc[i].Edge.Type == tt.t) == tt.exclude {
					t.Errorf("entry %d: edge type %s shouldn't pass the filter", i, inc[i].Edge.Type)
				}
			}
		})
	}
}

func TestFindIncidentSymmetry(t *testing.T) {
	// Every non-loop edge shows up in the incident lists of both of its
	// endpoints, each time pointing at the other one.
	g := TaxiwayGraph{Edges: []TaxiwayEdge{
		{Index: 0, Type: EdgeTaxi, Start: 0, End: 1},
		{Index: 1, Type: EdgeTaxi, Start: 1, End: 2},
		{Index: 2, Type: EdgeTaxi, Start: 2, End: 0},
		{Index: 3, Type: EdgeRunway, Start: 2, End: 3},
	}}
	for _, e := range g.Edges {
		for _, n := range []int{e.Start, e.End} {
			inc, err := g.FindIncident(false, e.Type, n)
			if err != nil {
				t.Fatalf("edge %d node %d: %v", e.Index, n, err)
			}
			found := false
			for _, in := range inc {
				if in.Edge.Index == e.Index && in.Other == e.Other(n) {
					found = true
				}
			}
			if !found {
				t.Errorf("edge %d missing from incident list of node %d", e.Index, n)
			}
		}
	}
}

func TestNodeTableByIndex(t *testing.T) {
	nt := NodeTable{Nodes: []TaxiwayNode{{Index: 0}, {Index: 1, Type: 2}}}
	if n, err := nt.ByIndex(1); err != nil || n.Type != 2 {
		t.Errorf("ByIndex(1) = %v, %v", n, err)
	}
	for _, i := range []int{-1, 2, 100} {
		if _, err := nt.ByIndex(i); !errors.Is(err, ErrNodeNotFound) {
			t.Errorf("ByIndex(%d): expected ErrNodeNotFound, got %v", i, err)
		}
	}
}

func TestResolveNodeArena(t *testing.T) {
	a := makeTestAirport(nil, nil, math.Point2LL{0, 0}, math.Point2LL{0.001, 0})
	b := makeTestAirport(nil, nil, math.Point2LL{0, 0})
	if a.Arena == b.Arena {
		t.Fatalf("arenas should be unique")
	}

	if _, err := a.ResolveNode(a.Arena, 1); err != nil {
		t.Errorf("own index rejected: %v", err)
	}
	if _, err := a.ResolveNode(b.Arena, 0); !errors.Is(err, ErrForeignIndex) {
		t.Errorf("expected ErrForeignIndex, got %v", err)
	}
	if _, err := a.ResolveNode(a.Arena, 5); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("expected ErrNodeNotFound, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	nodes := []math.Point2LL{{0, 0}, {0.001, 0}}
	spots := []ParkingSpot{{}, {}, {}}

	tests := []struct {
		name  string
		edge  TaxiwayEdge
		valid bool
	}{
		{"taxi within nodes", TaxiwayEdge{Type: EdgeTaxi, Start: 0, End: 1}, true},
		{"taxi end past nodes", TaxiwayEdge{Type: EdgeTaxi, Start: 0, End: 2}, false},
		{"start past nodes", TaxiwayEdge{Type: EdgeParking, Start: 2, End: 0}, false},
		{"parking end is a spot", TaxiwayEdge{Type: EdgeParking, Start: 0, End: 2}, true},
		{"parking end past spots", TaxiwayEdge{Type: EdgeParking, Start: 0, End: 3}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ap := makeTestAirport([]TaxiwayEdge{tt.edge}, spots, nodes...)
			err := ap.Validate()
			if tt.valid && err != nil {
				t.Errorf("unexpected error %v", err)
			} else if !tt.valid && !errors.Is(err, ErrNodeNotFound) {
				t.Errorf("expected ErrNodeNotFound, got %v", err)
			}
		})
	}
}

func TestEdgeTarget(t *testing.T) {
	spotLoc := math.Point2LL{0.002, 0.002}
	ap := makeTestAirport([]TaxiwayEdge{
		{Type: EdgeParking, Start: 0, End: 0},
		{Type: EdgeTaxi, Start: 0, End: 1},
	}, []ParkingSpot{{Location: spotLoc}}, math.Point2LL{0, 0}, math.Point2LL{0.001, 0})

	if p, err := ap.EdgeTarget(ap.Graph.Edges[0]); err != nil || p != spotLoc {
		t.Errorf("parking edge target = %v, %v; expected spot location", p, err)
	}
	if p, err := ap.EdgeTarget(ap.Graph.Edges[1]); err != nil || p != ap.Nodes.Nodes[1].Location {
		t.Errorf("taxi edge target = %v, %v; expected node 1", p, err)
	}
	other := makeTestAirport(nil, nil)
	if _, err := other.EdgeTarget(ap.Graph.Edges[1]); !errors.Is(err, ErrForeignIndex) {
		t.Errorf("expected ErrForeignIndex, got %v", err)
	}
}
