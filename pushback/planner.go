// pushback/planner.go
// Copyright(c) 2024-2025 pbutil contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package pushback plans and drives an automated pushback from the
// parking spot an aircraft is on to the taxiway it joins.
package pushback

import (
	"errors"
	"fmt"
	gomath "math"
	"time"

	"github.com/brunoga/deep"

	"github.com/pushback-utility/pbutil/aviation"
	"github.com/pushback-utility/pbutil/log"
	"github.com/pushback-utility/pbutil/math"
)

var (
	ErrNotApproved   = errors.New("Pushback not approved")
	ErrNotActive     = errors.New("Pushback not active")
	ErrInvalidRoute  = errors.New("Invalid route")
	ErrNoPathStore   = errors.New("No path store")
	ErrRouteNotReady = errors.New("No pushback route")
)

// alignedTolerance is how close, in degrees, the heading must be to the
// target heading for the turn to be considered complete.
const alignedTolerance = 0.5

type State int

const (
	Idle State = iota
	Approved
	ApproachingTurn
	InTurn
	Final
	Done
)

func (s State) String() string {
	return [...]string{"Idle", "Approved", "ApproachingTurn", "InTurn", "Final", "Done"}[s]
}

// Active reports whether the aircraft is being pushed.
func (s State) Active() bool {
	return s == ApproachingTurn || s == InTurn || s == Final
}

// Sample is a single reading of the aircraft's state. Heading is true
// heading in degrees.
type Sample struct {
	Position     math.Point2LL
	Heading      float64
	OnGround     bool
	ParkingBrake bool
}

// Command is the body-frame actuation for one tick: Speed is the
// longitudinal velocity in m/s (negative is backward) and YawRate is in
// degrees per second, positive clockwise.
type Command struct {
	Speed   float64
	YawRate float64
}

// AirportSource provides decoded airports; *scenery.Library implements
// it.
type AirportSource interface {
	AirportNear(p math.Point2LL) (*aviation.Airport, error)
}

// Route is one way out of the pushback destination: the aircraft turns so
// its tail points at Location.
type Route struct {
	Edge     aviation.TaxiwayEdge
	Node     int // -1 for saved routes
	Location math.Point2LL
	Saved    bool
}

func (r Route) String() string {
	if r.Saved {
		return "saved path to " + r.Location.DDString()
	}
	return fmt.Sprintf("%s toward node %d", r.Edge, r.Node)
}

// Plan is the resolved pushback for the current spot.
type Plan struct {
	ICAO        string
	Spot        aviation.ParkingSpot
	Edge        aviation.TaxiwayEdge // the PARKING edge; zero for saved paths
	Destination math.Point2LL
	Routes      []Route
	Selected    int

	// InitialHeading is the heading that points the tail straight at
	// Destination from the spot.
	InitialHeading float64
	TargetHeading  float64
	// Lead is the turn lead distance, fixed once the turn begins.
	Lead float64
}

func (p *Plan) route() Route {
	return p.Routes[p.Selected]
}

// Snapshot is a copy of the planner's state that shares nothing with it.
type Snapshot struct {
	State     State
	Plan      *Plan
	Remaining float64
	Status    string
}

// Planner runs the pushback state machine. It is driven by calling Update
// once per tick from a single goroutine.
type Planner struct {
	cfg      Config
	airports AirportSource
	paths    PathStore
	lg       *log.Logger

	state     State
	plan      *Plan
	last      Sample
	remaining float64
	started   time.Time
	err       error
}

// NewPlanner returns an Idle planner. paths may be nil if saved paths
// aren't used.
func NewPlanner(cfg Config, airports AirportSource, paths PathStore, lg *log.Logger) *Planner {
	return &Planner{
		cfg:      cfg,
		airports: airports,
		paths:    paths,
		lg:       lg,
	}
}

func (p *Planner) State() State {
	return p.state
}

func (p *Planner) setState(s State) {
	if s != p.state {
		p.lg.Debugf("pushback: %s -> %s", p.state, s)
		p.state = s
	}
}

// Update advances the state machine with a new sample. If the aircraft
// should be actuated this tick, the command is returned along with true.
func (p *Planner) Update(s Sample) (Command, bool) {
	p.last = s

	switch {
	case p.state == Idle || p.state == Approved:
		if s.OnGround && s.ParkingBrake {
			p.setState(Approved)
		} else {
			p.err = nil
			p.setState(Idle)
		}
		return Command{}, false

	case p.state == Done:
		if s.ParkingBrake {
			p.lg.Infof("%s: pushback from %s complete", p.plan.ICAO, p.plan.Spot.Label())
			p.clear()
			p.setState(Idle)
			return Command{}, false
		}
		return Command{}, true

	case s.ParkingBrake:
		// Wait for the brake to be released.
		return Command{}, false
	}

	dist := math.DistanceMeters(s.Position, p.plan.Destination)

	if p.state == ApproachingTurn {
		lead := p.turnLead(s.Heading)
		if dist >= lead {
			p.remaining = dist - lead
			cmd := Command{Speed: -p.cfg.BaseSpeed}
			// The tail leads, so the nose swings away from the side the
			// destination is on.
			switch math.RelativeDirection(s.Heading, s.Position, p.plan.Destination) {
			case math.Right:
				cmd.YawRate = -p.cfg.AlignYawRate
			case math.Left:
				cmd.YawRate = p.cfg.AlignYawRate
			}
			return cmd, true
		}

		p.plan.Lead = lead
		p.remaining = 0
		p.lg.Infof("%s: starting turn to %03.0f, %.1fm from destination", p.plan.ICAO,
			p.plan.TargetHeading, dist)
		p.setState(InTurn)
	}

	if p.state == InTurn {
		if math.HeadingDifference(s.Heading, p.plan.TargetHeading) >= alignedTolerance {
			cmd := Command{Speed: -p.cfg.BaseSpeed / p.cfg.SlowDown, YawRate: p.cfg.TurnYawRate}
			if math.HeadingSignedTurn(s.Heading, p.plan.TargetHeading) < 0 {
				cmd.YawRate = -cmd.YawRate
			}
			return cmd, true
		}
		p.setState(Final)
	}

	// Final
	if dist > p.plan.Lead+p.cfg.FinalMargin {
		p.lg.Infof("%s: pushback done after %s", p.plan.ICAO, time.Since(p.started).Round(time.Second))
		p.setState(Done)
		return Command{}, true
	}
	return Command{Speed: -p.cfg.BaseSpeed}, true
}

func (p *Planner) turnLead(heading float64) float64 {
	delta := math.HeadingDifference(heading, p.plan.TargetHeading)
	lead := math.TurnLeadDistance(delta, p.cfg.TurnDiameter)
	if gomath.IsNaN(lead) || lead > p.cfg.MaxTurnLead {
		return p.cfg.MaxTurnLead
	}
	return math.Max(lead, p.cfg.MinTurnLead)
}

// Start resolves the pushback for the aircraft's current position and
// begins it. The planner must be Approved; if no pushback can be found,
// the error is returned and the planner stays Approved.
func (p *Planner) Start(s Sample) error {
	if p.state != Approved {
		return fmt.Errorf("%s: %w", p.state, ErrNotApproved)
	}

	plan, err := p.resolve(s)
	if err != nil {
		p.err = err
		p.lg.Warnf("unable to start pushback: %v", err)
		return err
	}

	p.err = nil
	p.last = s
	p.plan = plan
	p.started = time.Now()
	p.remaining = math.Max(0, math.DistanceMeters(s.Position, plan.Destination)-p.turnLead(s.Heading))
	p.lg.Infof("%s: pushback from %s to %s, %d route(s)", plan.ICAO, plan.Spot.Label(),
		plan.Destination.DDString(), len(plan.Routes))
	p.setState(ApproachingTurn)
	return nil
}

func (p *Planner) resolve(s Sample) (*Plan, error) {
	ap, err := p.airports.AirportNear(s.Position)
	if err != nil {
		return nil, err
	}

	spot, err := ap.Parking.NearestWithinRadius(s.Position)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ap.ICAO, err)
	}

	plan := &Plan{
		ICAO: ap.ICAO,
		Spot: spot,
	}

	if saved, ok := p.savedPath(ap.ICAO, spot.Label()); ok {
		plan.Destination = saved.Points[0]
		plan.Routes = []Route{{Node: -1, Location: saved.Points[1], Saved: true}}
	} else {
		edge, ok := ap.Graph.FindEdge(aviation.EdgeParking, spot.Index)
		if !ok {
			return nil, fmt.Errorf("%s: %s: no parking path: %w", ap.ICAO, spot.Label(), aviation.ErrNotFound)
		}
		dest, err := ap.ResolveNode(edge.Arena, edge.Start)
		if err != nil {
			return nil, err
		}
		inc, err := ap.Graph.FindIncident(true, aviation.EdgeParking, edge.Start)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", ap.ICAO, spot.Label(), err)
		}

		plan.Edge = edge
		plan.Destination = dest.Location
		for _, in := range inc {
			n, err := ap.ResolveNode(in.Edge.Arena, in.Other)
			if err != nil {
				return nil, err
			}
			plan.Routes = append(plan.Routes, Route{Edge: in.Edge, Node: in.Other, Location: n.Location})
		}
	}

	plan.InitialHeading = math.Bearing(plan.Destination, spot.Location, true)
	plan.TargetHeading = targetHeading(plan.Destination, plan.route())
	return plan, nil
}

func (p *Planner) savedPath(icao, spot string) (SavedPath, bool) {
	if p.paths == nil {
		return SavedPath{}, false
	}
	saved, err := p.paths.Load(icao, spot)
	if err != nil {
		if !errors.Is(err, aviation.ErrNotFound) {
			p.lg.Warnf("%s %s: ignoring saved path: %v", icao, spot, err)
		}
		return SavedPath{}, false
	}
	return saved, true
}

// The aircraft ends up with its tail toward the route.
func targetHeading(dest math.Point2LL, r Route) float64 {
	return math.OppositeHeading(math.Bearing(dest, r.Location, true))
}

// Routes returns the ways out of the pushback destination; the first is
// selected when the pushback starts.
func (p *Planner) Routes() []Route {
	if p.plan == nil {
		return nil
	}
	return append([]Route(nil), p.plan.Routes...)
}

// SelectRoute chooses which route to turn onto. It may only be called
// before the turn begins.
func (p *Planner) SelectRoute(i int) error {
	if p.state != ApproachingTurn {
		return fmt.Errorf("%s: %w", p.state, ErrNotActive)
	}
	if i < 0 || i >= len(p.plan.Routes) {
		return fmt.Errorf("route %d of %d: %w", i, len(p.plan.Routes), ErrInvalidRoute)
	}

	p.plan.Selected = i
	p.plan.TargetHeading = targetHeading(p.plan.Destination, p.plan.route())
	p.lg.Infof("%s: selected %s, target heading %03.0f", p.plan.ICAO, p.plan.route(), p.plan.TargetHeading)
	return nil
}

// RecordPath saves the current pushback's destination and selected
// route as the custom path for its spot.
func (p *Planner) RecordPath() (SavedPath, error) {
	if p.paths == nil {
		return SavedPath{}, ErrNoPathStore
	}
	if p.plan == nil {
		return SavedPath{}, ErrRouteNotReady
	}

	sp := SavedPath{
		ICAO:     p.plan.ICAO,
		Spot:     p.plan.Spot.Label(),
		Points:   []math.Point2LL{p.plan.Destination, p.plan.route().Location},
		Recorded: time.Now(),
	}
	if err := p.paths.Save(sp); err != nil {
		return SavedPath{}, err
	}
	p.lg.Infof("%s: saved pushback path for %s", sp.ICAO, sp.Spot)
	return sp, nil
}

// Reset returns the planner to Idle, discarding any pushback in progress.
func (p *Planner) Reset() {
	if p.state.Active() {
		p.lg.Infof("%s: pushback cancelled", p.plan.ICAO)
	}
	p.clear()
	p.setState(Idle)
}

func (p *Planner) clear() {
	p.plan = nil
	p.remaining = 0
	p.err = nil
}

// Err returns the error from the last failed Start, if the planner is
// still waiting to be started.
func (p *Planner) Err() error {
	return p.err
}

// Status returns a message for the pilot describing what happens next.
func (p *Planner) Status() string {
	switch {
	case p.state == Idle:
		return "Set parking brake on the ground to request pushback"
	case p.state == Approved && p.err != nil:
		return "Unable to push back: " + p.err.Error()
	case p.state == Approved:
		return "Shift+P to start pushback"
	case p.state == Done && !p.last.ParkingBrake:
		return "Pushback complete, set parking brake"
	case p.state.Active() && p.last.ParkingBrake:
		return "Release parking brake"
	case p.state == ApproachingTurn:
		return fmt.Sprintf("%d m remaining until turning begins", int(gomath.Round(p.remaining)))
	case p.state == InTurn:
		return fmt.Sprintf("Turning to heading %03.0f", p.plan.TargetHeading)
	default:
		return "Pushing back"
	}
}

// Snapshot returns a deep copy of the planner's current state.
func (p *Planner) Snapshot() Snapshot {
	s := Snapshot{
		State:     p.state,
		Remaining: p.remaining,
		Status:    p.Status(),
	}
	if p.plan != nil {
		s.Plan = deep.MustCopy(p.plan)
	}
	return s
}
