// pushback/track.go
// Copyright(c) 2024-2025 pbutil contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package pushback

import (
	gomath "math"

	"github.com/pushback-utility/pbutil/math"
)

// Track is the planned ground track of a pushback, made of straight
// segments and circular arcs. Points are in meters in the local plane
// of math.ToPlanar centered at Ref (x north, y east). The track follows
// the direction the aircraft moves in, which is tail first.
type Track struct {
	Ref      math.Point2LL
	Segments []TrackSegment
	Length   float64
}

type TrackSegment struct {
	P0, P1    [2]float64
	Arc       *TrackArc // nil for straight segments
	StartDist float64
	Length    float64
}

// TrackArc is a circular arc. Angles are compass bearings from Center in
// radians; a positive Sweep turns clockwise.
type TrackArc struct {
	Center     [2]float64
	Radius     float64
	StartAngle float64
	Sweep      float64
}

// Track returns the planned ground track for the current pushback: from
// the parking spot straight toward the destination, around the turn and
// FinalMargin meters along the selected route.
func (p *Planner) Track() (Track, bool) {
	if p.plan == nil {
		return Track{}, false
	}

	lead := p.plan.Lead
	if lead == 0 {
		lead = p.turnLead(p.plan.InitialHeading)
	}
	return planTrack(p.plan.Spot.Location, p.plan.Destination, p.plan.InitialHeading, p.plan.TargetHeading,
		lead, p.cfg.FinalMargin), true
}

// planTrack builds the track for an aircraft at start pushing back toward
// dest with its nose on initialHeading and turning to targetHeading,
// starting the turn lead meters before dest.
func planTrack(start, dest math.Point2LL, initialHeading, targetHeading, lead, margin float64) Track {
	in := math.OppositeHeading(initialHeading)
	out := math.OppositeHeading(targetHeading)
	delta := math.HeadingSignedTurn(in, out)

	tr := Track{Ref: dest}
	p0 := math.ToPlanar(dest, start)

	half := math.Radians(math.Abs(delta)) / 2
	if math.Abs(delta) < 1 || gomath.Tan(half) < 1e-6 {
		// Straight through the destination.
		end := math.Scale2f(math.UnitVector(out), margin)
		tr.addLine(p0, end)
		return tr
	}

	radius := lead / gomath.Tan(half)
	turnStart := math.Scale2f(math.UnitVector(initialHeading), lead)
	turnEnd := math.Scale2f(math.UnitVector(out), lead)

	// The center is off to the side of the approach the turn goes toward.
	side := in + 90
	if delta < 0 {
		side = in - 90
	}
	center := math.Add2f(turnStart, math.Scale2f(math.UnitVector(side), radius))
	startAngle := math.Radians(math.OppositeHeading(side))

	tr.addLine(p0, turnStart)
	tr.addArc(turnStart, turnEnd, TrackArc{
		Center:     center,
		Radius:     radius,
		StartAngle: startAngle,
		Sweep:      math.Radians(delta),
	})
	tr.addLine(turnEnd, math.Add2f(turnEnd, math.Scale2f(math.UnitVector(out), margin)))
	return tr
}

func (t *Track) addLine(p0, p1 [2]float64) {
	seg := TrackSegment{
		P0:        p0,
		P1:        p1,
		StartDist: t.Length,
		Length:    math.Length2f(math.Sub2f(p1, p0)),
	}
	t.Segments = append(t.Segments, seg)
	t.Length += seg.Length
}

func (t *Track) addArc(p0, p1 [2]float64, arc TrackArc) {
	seg := TrackSegment{
		P0:        p0,
		P1:        p1,
		Arc:       &arc,
		StartDist: t.Length,
		Length:    arc.Radius * math.Abs(arc.Sweep),
	}
	t.Segments = append(t.Segments, seg)
	t.Length += seg.Length
}

// Project projects p onto the track, returning the distance along the
// track, the signed offset from it in meters (positive to the right of
// the direction of travel) and the track's direction of travel there.
func (t *Track) Project(p math.Point2LL) (dist, offset, heading float64) {
	v := math.ToPlanar(t.Ref, p)

	best := -1.
	for _, seg := range t.Segments {
		var segDist, segOffset, segHeading float64
		if seg.Arc != nil {
			segDist, segOffset, segHeading = projectOntoArc(v, seg)
		} else {
			segDist, segOffset, segHeading = projectOntoLine(v, seg)
		}

		d := math.Length2f(math.Sub2f(v, pointOnSegment(seg, segDist)))
		if best < 0 || d < best {
			best = d
			dist, offset, heading = seg.StartDist+segDist, segOffset, segHeading
		}
	}
	return
}

// PointAtDistance returns the location and direction of travel at the
// given distance along the track. Distances past either end extend the
// first or last segment in a straight line.
func (t *Track) PointAtDistance(dist float64) (math.Point2LL, float64) {
	if len(t.Segments) == 0 {
		return t.Ref, 0
	}

	if dist < 0 {
		seg := t.Segments[0]
		h := segmentHeading(seg, 0)
		return math.FromPlanar(t.Ref, math.Add2f(seg.P0, math.Scale2f(math.UnitVector(h), dist))), h
	}
	if dist > t.Length {
		seg := t.Segments[len(t.Segments)-1]
		h := segmentHeading(seg, seg.Length)
		return math.FromPlanar(t.Ref, math.Add2f(seg.P1, math.Scale2f(math.UnitVector(h), dist-t.Length))), h
	}

	for _, seg := range t.Segments {
		if dist <= seg.StartDist+seg.Length {
			local := dist - seg.StartDist
			return math.FromPlanar(t.Ref, pointOnSegment(seg, local)), segmentHeading(seg, local)
		}
	}

	seg := t.Segments[len(t.Segments)-1]
	return math.FromPlanar(t.Ref, seg.P1), segmentHeading(seg, seg.Length)
}

// Polyline returns the track as a sequence of points; arcs are sampled
// about once per degree.
func (t *Track) Polyline() []math.Point2LL {
	if len(t.Segments) == 0 {
		return nil
	}

	var pts []math.Point2LL
	for i, seg := range t.Segments {
		if i == 0 {
			pts = append(pts, math.FromPlanar(t.Ref, seg.P0))
		}
		if seg.Arc != nil {
			steps := max(1, int(math.Abs(math.Degrees(seg.Arc.Sweep))))
			for s := 1; s <= steps; s++ {
				pts = append(pts, math.FromPlanar(t.Ref, pointOnArc(*seg.Arc, float64(s)/float64(steps))))
			}
		} else {
			pts = append(pts, math.FromPlanar(t.Ref, seg.P1))
		}
	}
	return pts
}

func projectOntoLine(p [2]float64, seg TrackSegment) (dist, offset, heading float64) {
	d := math.Sub2f(seg.P1, seg.P0)
	if seg.Length < 1e-6 {
		return 0, math.Length2f(math.Sub2f(p, seg.P0)), 0
	}

	t := math.Clamp(math.Dot(math.Sub2f(p, seg.P0), d)/(seg.Length*seg.Length), 0, 1)
	dist = t * seg.Length

	// (-d[1], d[0]) is to the right of d in a north/east frame.
	right := math.Scale2f([2]float64{-d[1], d[0]}, 1/seg.Length)
	onLine := math.Add2f(seg.P0, math.Scale2f(d, t))
	offset = math.Dot(math.Sub2f(p, onLine), right)

	heading = segmentHeading(seg, dist)
	return
}

func projectOntoArc(p [2]float64, seg TrackSegment) (dist, offset, heading float64) {
	arc := seg.Arc
	dp := math.Sub2f(p, arc.Center)
	rel := gomath.Atan2(dp[1], dp[0]) - arc.StartAngle
	for rel > gomath.Pi {
		rel -= 2 * gomath.Pi
	}
	for rel < -gomath.Pi {
		rel += 2 * gomath.Pi
	}

	if arc.Sweep > 0 && rel < 0 {
		rel += 2 * gomath.Pi
	} else if arc.Sweep < 0 && rel > 0 {
		rel -= 2 * gomath.Pi
	}
	t := math.Clamp(rel/arc.Sweep, 0, 1)
	dist = t * seg.Length

	// Clockwise arcs have the center on the right, so being outside the
	// circle is to the left.
	radial := math.Length2f(dp) - arc.Radius
	if arc.Sweep > 0 {
		offset = -radial
	} else {
		offset = radial
	}

	heading = segmentHeading(seg, dist)
	return
}

func pointOnArc(arc TrackArc, t float64) [2]float64 {
	a := arc.StartAngle + arc.Sweep*t
	return math.Add2f(arc.Center, math.Scale2f([2]float64{gomath.Cos(a), gomath.Sin(a)}, arc.Radius))
}

func pointOnSegment(seg TrackSegment, dist float64) [2]float64 {
	if seg.Length < 1e-6 {
		return seg.P0
	}
	t := dist / seg.Length
	if seg.Arc != nil {
		return pointOnArc(*seg.Arc, t)
	}
	return math.Add2f(seg.P0, math.Scale2f(math.Sub2f(seg.P1, seg.P0), t))
}

func segmentHeading(seg TrackSegment, dist float64) float64 {
	if seg.Arc != nil {
		a := math.Degrees(seg.Arc.StartAngle + seg.Arc.Sweep*dist/seg.Length)
		if seg.Arc.Sweep > 0 {
			return math.NormalizeHeading(a + 90)
		}
		return math.NormalizeHeading(a - 90)
	}

	d := math.Sub2f(seg.P1, seg.P0)
	return math.NormalizeHeading(math.Degrees(gomath.Atan2(d[1], d[0])))
}
