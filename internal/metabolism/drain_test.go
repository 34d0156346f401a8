package metabolism

import (
	"testing"

	"github.com/moshpitcodes/livinglands-core/internal/hostapi"
)

func TestDrainProfileRateAppliesActivityBonuses(t *testing.T) {
	profile := DrainProfile{BaseDrain: 1.0, SprintBonus: 0.5, SwimBonus: 0.2, CombatBonus: 0.1, Multiplier: 2.0}

	idle := profile.Rate(hostapi.MovementStates{})
	if idle != 2.0 {
		t.Errorf("idle rate = %v, want 2.0", idle)
	}

	sprinting := profile.Rate(hostapi.MovementStates{Sprinting: true})
	if sprinting != 3.0 {
		t.Errorf("sprinting rate = %v, want 3.0 (sprint bonus doubled)", sprinting)
	}

	all := profile.Rate(hostapi.MovementStates{Sprinting: true, Swimming: true, InCombat: true})
	if all != 3.6 {
		t.Errorf("combined rate = %v, want 3.6", all)
	}
}

func TestClampBoundsToStatRange(t *testing.T) {
	if got := clamp(-5); got != statMin {
		t.Errorf("clamp(-5) = %v, want %v", got, statMin)
	}
	if got := clamp(150); got != statMax {
		t.Errorf("clamp(150) = %v, want %v", got, statMax)
	}
	if got := clamp(42); got != 42 {
		t.Errorf("clamp(42) = %v, want 42", got)
	}
}
