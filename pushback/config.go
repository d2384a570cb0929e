// pushback/config.go
// Copyright(c) 2024-2025 pbutil contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package pushback

import (
	gomath "math"

	"github.com/pushback-utility/pbutil/util"
)

// Config holds the tunables of the pushback maneuver. Distances are in
// meters, speeds in meters per second and yaw rates in degrees per
// second.
type Config struct {
	TurnDiameter float64 `json:"turn_diameter"`
	BaseSpeed    float64 `json:"base_speed"`
	// SlowDown divides BaseSpeed while turning.
	SlowDown     float64 `json:"slow_down"`
	TurnYawRate  float64 `json:"turn_yaw_rate"`
	AlignYawRate float64 `json:"align_yaw_rate"`
	// FinalMargin is how far past the turn lead the aircraft keeps
	// pushing straight once the turn is complete.
	FinalMargin float64 `json:"final_margin"`
	MinTurnLead float64 `json:"min_turn_lead"`
	// MaxTurnLead caps the lead for turns approaching 180 degrees, where
	// the lead distance grows without bound.
	MaxTurnLead float64 `json:"max_turn_lead"`
}

func DefaultConfig() Config {
	return Config{
		TurnDiameter: 120 / gomath.Pi,
		BaseSpeed:    1,
		SlowDown:     1.015,
		TurnYawRate:  1,
		AlignYawRate: 0.1,
		FinalMargin:  10,
		MinTurnLead:  1,
		MaxTurnLead:  100,
	}
}

// Check reports any unusable values to e.
func (c *Config) Check(e *util.ErrorLogger) {
	e.Push("pushback")
	defer e.Pop()

	positive := []struct {
		name string
		v    float64
	}{
		{"turn_diameter", c.TurnDiameter},
		{"base_speed", c.BaseSpeed},
		{"slow_down", c.SlowDown},
		{"turn_yaw_rate", c.TurnYawRate},
		{"align_yaw_rate", c.AlignYawRate},
	}
	for _, p := range positive {
		if p.v <= 0 {
			e.ErrorString("%s: must be positive, got %g", p.name, p.v)
		}
	}
	if c.FinalMargin < 0 {
		e.ErrorString("final_margin: must not be negative, got %g", c.FinalMargin)
	}
	if c.MinTurnLead < 0 {
		e.ErrorString("min_turn_lead: must not be negative, got %g", c.MinTurnLead)
	}
	if c.MaxTurnLead < c.MinTurnLead {
		e.ErrorString("max_turn_lead: %g is less than min_turn_lead %g", c.MaxTurnLead, c.MinTurnLead)
	}
}
