// aviation/taxiway.go
// Copyright(c) 2024-2025 pbutil contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"fmt"

	"github.com/pushback-utility/pbutil/math"
)

type TaxiwayNode struct {
	Index    int
	Type     uint8
	Flag     uint8
	Location math.Point2LL
}

// NodeTable holds an airport's taxiway points; a node's index is its
// position in the table.
type NodeTable struct {
	Nodes []TaxiwayNode
}

func (t *NodeTable) Len() int {
	return len(t.Nodes)
}

func (t *NodeTable) ByIndex(i int) (TaxiwayNode, error) {
	if i < 0 || i >= len(t.Nodes) {
		return TaxiwayNode{}, fmt.Errorf("%d: %w", i, ErrNodeNotFound)
	}
	return t.Nodes[i], nil
}

type EdgeType uint8

const (
	EdgeTaxi    EdgeType = 1
	EdgeRunway  EdgeType = 2
	EdgeParking EdgeType = 3
	EdgePath    EdgeType = 4
	EdgeClosed  EdgeType = 5
)

func (t EdgeType) Valid() bool {
	return t >= EdgeTaxi && t <= EdgeClosed
}

func (t EdgeType) String() string {
	switch t {
	case EdgeTaxi:
		return "TAXI"
	case EdgeRunway:
		return "RUNWAY"
	case EdgeParking:
		return "PARKING"
	case EdgePath:
		return "PATH"
	case EdgeClosed:
		return "CLOSED"
	default:
		return fmt.Sprintf("EdgeType(%d)", uint8(t))
	}
}

// EdgeLighting is the unpacked edge/centerline byte of a taxiway path.
type EdgeLighting struct {
	Centerline        bool
	CenterlineLighted bool
	LeftEdge          uint8 // 0 none, 1 solid, 2 dashed, 3 solid+dashed
	LeftEdgeLighted   bool
	RightEdge         uint8
	RightEdgeLighted  bool
}

type TaxiwayEdge struct {
	Arena Arena
	Index int

	Start            int
	End              int
	RunwayDesignator uint8
	Type             EdgeType
	DrawSurface      bool
	DrawDetail       bool
	Unused           bool
	// For RUNWAY edges this is the runway number rather than an index
	// into the taxi names.
	TaxiName    uint8
	Lighting    EdgeLighting
	Surface     uint8
	Width       float32 // meters
	WeightLimit float32
	Unknown     uint32
}

func (e TaxiwayEdge) String() string {
	return fmt.Sprintf("%s %d > %d", e.Type, e.Start, e.End)
}

// Other returns the endpoint of e that is not node, or -1 if e doesn't
// touch node.
func (e TaxiwayEdge) Other(node int) int {
	switch node {
	case e.Start:
		return e.End
	case e.End:
		return e.Start
	default:
		return -1
	}
}

// Incident is an edge touching a node, paired with the edge's endpoint on
// the far side of that node.
type Incident struct {
	Edge  TaxiwayEdge
	Other int
}

// TaxiwayGraph holds an airport's taxiway paths in file order.
type TaxiwayGraph struct {
	Edges []TaxiwayEdge
}

// FindEdge returns the first edge of type t whose end index is end.
func (g *TaxiwayGraph) FindEdge(t EdgeType, end int) (TaxiwayEdge, bool) {
	for _, e := range g.Edges {
		if e.Type == t && e.End == end {
			return e, true
		}
	}
	return TaxiwayEdge{}, false
}

// FindIncident returns the edges touching node along with their far
// endpoints. If exclude is false, only edges of type t are considered;
// otherwise only edges of any other type are. An edge with both ends at
// node contributes two entries. ErrNoPathFound is returned if there are
// none.
func (g *TaxiwayGraph) FindIncident(exclude bool, t EdgeType, node int) ([]Incident, error) {
	var inc []Incident
	for _, e := range g.Edges {
		if (e.Type == t) == exclude {
			continue
		}
		if e.Start == node {
			inc = append(inc, Incident{Edge: e, Other: e.End})
		}
		if e.End == node {
			inc = append(inc, Incident{Edge: e, Other: e.Start})
		}
	}
	if len(inc) == 0 {
		return nil, fmt.Errorf("node %d: %w", node, ErrNoPathFound)
	}
	return inc, nil
}
