// aviation/airport.go
// Copyright(c) 2024-2025 pbutil contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"fmt"
	"sync/atomic"

	"github.com/pushback-utility/pbutil/math"
)

// Arena identifies the decoded airport that node, edge and spot indices
// belong to. Indices are only meaningful within their own arena.
type Arena uint64

var arenaCounter atomic.Uint64

// NewArena returns a process-unique Arena.
func NewArena() Arena {
	return Arena(arenaCounter.Add(1))
}

// Airport is the taxiway network and parking of a single decoded airport.
// It is immutable after construction and may be shared between
// goroutines.
type Airport struct {
	ICAO          string
	Arena         Arena
	Location      math.Point2LL
	Altitude      float64 // meters
	TowerLocation math.Point2LL
	MagVar        float64

	Nodes   NodeTable
	Graph   TaxiwayGraph
	Parking ParkingTable
}

func (ap *Airport) String() string {
	return fmt.Sprintf("%s (%d nodes, %d edges, %d parking spots)", ap.ICAO, ap.Nodes.Len(),
		len(ap.Graph.Edges), len(ap.Parking.Spots))
}

// ResolveNode returns node i, which must have been obtained from this
// airport's arena.
func (ap *Airport) ResolveNode(a Arena, i int) (TaxiwayNode, error) {
	if a != ap.Arena {
		return TaxiwayNode{}, fmt.Errorf("%s: node %d: %w", ap.ICAO, i, ErrForeignIndex)
	}
	return ap.Nodes.ByIndex(i)
}

// EdgeTarget returns the location that edge e leads to. The end of a
// PARKING edge is the index of the parking spot it connects to; if there
// is no such spot, it is taken to be a node.
func (ap *Airport) EdgeTarget(e TaxiwayEdge) (math.Point2LL, error) {
	if e.Arena != ap.Arena {
		return math.Point2LL{}, fmt.Errorf("%s: edge %d: %w", ap.ICAO, e.Index, ErrForeignIndex)
	}
	if e.Type == EdgeParking && e.End >= 0 && e.End < len(ap.Parking.Spots) {
		return ap.Parking.Spots[e.End].Location, nil
	}
	if n, err := ap.Nodes.ByIndex(e.End); err == nil {
		return n.Location, nil
	}
	return math.Point2LL{}, fmt.Errorf("%s: edge %d end %d: %w", ap.ICAO, e.Index, e.End, ErrNodeNotFound)
}

// Validate checks that every edge's endpoints resolve. Starts must be
// nodes; ends must be nodes, or, for PARKING edges, either a node or a
// parking spot.
func (ap *Airport) Validate() error {
	nn, ns := ap.Nodes.Len(), len(ap.Parking.Spots)
	for _, e := range ap.Graph.Edges {
		if e.Start < 0 || e.Start >= nn {
			return fmt.Errorf("edge %d: start %d: %w", e.Index, e.Start, ErrNodeNotFound)
		}
		limit := nn
		if e.Type == EdgeParking {
			limit = max(nn, ns)
		}
		if e.End < 0 || e.End >= limit {
			return fmt.Errorf("edge %d: end %d: %w", e.Index, e.End, ErrNodeNotFound)
		}
	}
	return nil
}
