// Package metabolism implements the per-player hunger/thirst/energy
// simulation: activity-modulated passive drain, food/potion restoration
// driven by the effect diff detector, a consumable poison state machine,
// and rate-limited native-debuff drain. It generalizes the teacher's
// MetabolismSystem (a single OnTimeTick handler mutating narrative
// Prisoner stats) into a tick-scheduled engine over opaque player ids.
package metabolism

import (
	"math"

	"github.com/moshpitcodes/livinglands-core/internal/hostapi"
)

const (
	statMin = 0.0
	statMax = 100.0
)

// clamp restricts v to [statMin, statMax].
func clamp(v float64) float64 {
	return math.Max(statMin, math.Min(statMax, v))
}

// DrainProfile configures the activity-modulated passive drain rate for
// one stat (hunger, thirst, or energy).
type DrainProfile struct {
	BaseDrain            float64
	SprintBonus          float64
	SwimBonus            float64
	CombatBonus          float64
	Multiplier           float64
	DamageStartThreshold float64
}

// Rate computes the per-second drain rate for the given activity snapshot.
func (d DrainProfile) Rate(activity hostapi.MovementStates) float64 {
	rate := d.BaseDrain
	if activity.Sprinting {
		rate += d.SprintBonus
	}
	if activity.Swimming {
		rate += d.SwimBonus
	}
	if activity.InCombat {
		rate += d.CombatBonus
	}
	return rate * d.Multiplier
}

// DrainConfig bundles the three stats' drain profiles.
type DrainConfig struct {
	Hunger DrainProfile
	Thirst DrainProfile
	Energy DrainProfile
}

// DefaultDrainConfig returns reasonable defaults: slow baseline drain,
// amplified by sprinting/swimming/combat. A sedentary player starting at
// full vitals crosses the thirst damage threshold after roughly 70 minutes
// of real time, hunger after roughly 95, and energy after roughly 150.
func DefaultDrainConfig() DrainConfig {
	return DrainConfig{
		Hunger: DrainProfile{BaseDrain: 0.015, SprintBonus: 0.01, SwimBonus: 0.004, CombatBonus: 0.008, Multiplier: 1.0, DamageStartThreshold: 15},
		Thirst: DrainProfile{BaseDrain: 0.02, SprintBonus: 0.015, SwimBonus: -0.01, CombatBonus: 0.006, Multiplier: 1.0, DamageStartThreshold: 15},
		Energy: DrainProfile{BaseDrain: 0.01, SprintBonus: 0.03, SwimBonus: 0.02, CombatBonus: 0.015, Multiplier: 1.0, DamageStartThreshold: 10},
	}
}

// DangerFlags reports which stats are at or below their damage-start
// threshold after a drain step; the host's own damage system consumes
// this, out of this framework's scope.
type DangerFlags struct {
	Hunger bool
	Thirst bool
	Energy bool
}
