// bridge/bridge.go
// Copyright(c) 2024-2025 pbutil contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package bridge connects the pushback planner to a simulator.
package bridge

import (
	"errors"
	"time"

	"github.com/pushback-utility/pbutil/math"
	"github.com/pushback-utility/pbutil/pushback"
	"github.com/pushback-utility/pbutil/rand"
)

var ErrDisconnected = errors.New("Simulator disconnected")

// Sensor provides the aircraft's state once per tick.
type Sensor interface {
	Sample() (pushback.Sample, error)
}

// Actuator applies the planner's commands to the aircraft.
type Actuator interface {
	Apply(cmd pushback.Command) error
}

// Tick runs one planner step: it reads a sample from s, updates the
// planner and applies the resulting command, if any, to a.
func Tick(p *pushback.Planner, s Sensor, a Actuator) (pushback.Sample, error) {
	sample, err := s.Sample()
	if err != nil {
		p.Reset()
		return pushback.Sample{}, err
	}
	if cmd, ok := p.Update(sample); ok {
		if err := a.Apply(cmd); err != nil {
			p.Reset()
			return sample, err
		}
	}
	return sample, nil
}

// Kinematic is a stand-in for a simulator: a point aircraft that moves
// along its heading at the commanded body speed and yaws at the commanded
// rate. It implements both Sensor and Actuator.
type Kinematic struct {
	Position     math.Point2LL
	Heading      float64
	OnGround     bool
	ParkingBrake bool

	// PositionNoise and HeadingNoise, if non-zero, bound the uniform
	// noise added to reported samples, in meters and degrees.
	PositionNoise float64
	HeadingNoise  float64

	cmd       pushback.Command
	rand      rand.Rand
	connected bool
}

// NewKinematic returns a Kinematic aircraft on the ground with its
// parking brake set.
func NewKinematic(p math.Point2LL, heading float64, seed int64) *Kinematic {
	k := &Kinematic{
		Position:     p,
		Heading:      math.NormalizeHeading(heading),
		OnGround:     true,
		ParkingBrake: true,
		rand:         rand.New(),
		connected:    true,
	}
	k.rand.Seed(seed)
	return k
}

func (k *Kinematic) Sample() (pushback.Sample, error) {
	if !k.connected {
		return pushback.Sample{}, ErrDisconnected
	}

	s := pushback.Sample{
		Position:     k.Position,
		Heading:      k.Heading,
		OnGround:     k.OnGround,
		ParkingBrake: k.ParkingBrake,
	}
	if k.PositionNoise > 0 {
		d := [2]float64{k.rand.Symmetric(k.PositionNoise), k.rand.Symmetric(k.PositionNoise)}
		s.Position = math.FromPlanar(k.Position, d)
	}
	if k.HeadingNoise > 0 {
		s.Heading = math.NormalizeHeading(s.Heading + k.rand.Symmetric(k.HeadingNoise))
	}
	return s, nil
}

func (k *Kinematic) Apply(cmd pushback.Command) error {
	if !k.connected {
		return ErrDisconnected
	}
	k.cmd = cmd
	return nil
}

// Command returns the command currently being applied.
func (k *Kinematic) Command() pushback.Command {
	return k.cmd
}

// Step advances the aircraft by dt. The aircraft doesn't move while the
// parking brake is set.
func (k *Kinematic) Step(dt time.Duration) {
	if k.ParkingBrake {
		return
	}

	s := dt.Seconds()
	// Integrate along the heading at the middle of the step.
	mid := k.Heading + k.cmd.YawRate*s/2
	v := math.Scale2f(math.UnitVector(mid), k.cmd.Speed*s)
	k.Position = math.FromPlanar(k.Position, v)
	k.Heading = math.NormalizeHeading(k.Heading + k.cmd.YawRate*s)
}

// Disconnect makes subsequent Sample and Apply calls fail.
func (k *Kinematic) Disconnect() {
	k.connected = false
}
