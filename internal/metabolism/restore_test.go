package metabolism

import (
	"testing"

	"github.com/moshpitcodes/livinglands-core/internal/effectdiff"
)

func TestActualRestoreClampsToHeadroom(t *testing.T) {
	if got := ActualRestore(90, 30); got != 10 {
		t.Errorf("ActualRestore(90, 30) = %v, want 10", got)
	}
	if got := ActualRestore(100, 30); got != 0 {
		t.Errorf("ActualRestore(100, 30) = %v, want 0", got)
	}
	if got := ActualRestore(50, 20); got != 20 {
		t.Errorf("ActualRestore(50, 20) = %v, want 20", got)
	}
	if got := ActualRestore(50, -5); got != 0 {
		t.Errorf("ActualRestore with negative restore = %v, want 0", got)
	}
}

func TestBaseRestoreForTierUsesUnusedZeroSlot(t *testing.T) {
	r := BaseRestoreForTier(effectdiff.Tier(0))
	if r.Hunger != 0 || r.Thirst != 0 || r.Energy != 0 {
		t.Errorf("tier 0 should be the unused placeholder, got %+v", r)
	}
	if r := BaseRestoreForTier(effectdiff.Tier3); r.Hunger != 50 {
		t.Errorf("Tier3 hunger = %v, want 50", r.Hunger)
	}
}

func TestRestorationForAppliesKindMultiplier(t *testing.T) {
	water := RestorationFor(effectdiff.Tier2, effectdiff.KindWater)
	if water.Hunger != 0 {
		t.Errorf("water hunger restore = %v, want 0", water.Hunger)
	}
	if water.Thirst != 60 { // base 30 * 2.0
		t.Errorf("water thirst restore = %v, want 60", water.Thirst)
	}

	unknown := RestorationFor(effectdiff.Tier1, effectdiff.Kind("NOT_A_REAL_KIND"))
	generic := RestorationFor(effectdiff.Tier1, effectdiff.KindGeneric)
	if unknown != generic {
		t.Errorf("unrecognized kind should fall back to generic multiplier, got %+v vs %+v", unknown, generic)
	}
}

func TestInstantHealTier2RestoresSpecScenarioAmount(t *testing.T) {
	tier := effectdiff.DeriveTier("Food_Instant_Heal_T2")
	kind := effectdiff.DeriveKind("Food_Instant_Heal_T2")
	if tier != effectdiff.Tier2 || kind != effectdiff.KindInstantHeal {
		t.Fatalf("got tier=%v kind=%v, want Tier2/INSTANT_HEAL", tier, kind)
	}

	amounts := RestorationFor(tier, kind)
	if amounts.Hunger != 7.5 {
		t.Errorf("hunger restore = %v, want 7.5", amounts.Hunger)
	}
}
