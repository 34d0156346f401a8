package metabolism

import (
	"testing"
	"time"

	"github.com/moshpitcodes/livinglands-core/internal/effectdiff"
)

func TestDebuffTrackerRateLimitsPerKind(t *testing.T) {
	tr := NewDebuffTracker()
	cfg := DefaultDebuffConfig()
	now := time.Now()

	delta := tr.Apply("p1", effectdiff.DebuffBurn, effectdiff.Tier2, cfg, now)
	if !delta.Fired {
		t.Fatal("first application should fire")
	}

	delta = tr.Apply("p1", effectdiff.DebuffBurn, effectdiff.Tier2, cfg, now.Add(time.Millisecond))
	if delta.Fired {
		t.Error("second application within tick interval should not fire")
	}

	delta = tr.Apply("p1", effectdiff.DebuffBurn, effectdiff.Tier2, cfg, now.Add(cfg[effectdiff.DebuffBurn].TickInterval))
	if !delta.Fired {
		t.Error("application after tick interval elapses should fire")
	}
}

func TestDebuffTrackerAppliesTierMultiplier(t *testing.T) {
	tr := NewDebuffTracker()
	cfg := DefaultDebuffConfig()
	now := time.Now()

	low := tr.Apply("p1", effectdiff.DebuffBurn, effectdiff.Tier1, cfg, now)
	tr2 := NewDebuffTracker()
	high := tr2.Apply("p1", effectdiff.DebuffBurn, effectdiff.Tier3, cfg, now)

	if !(low.Hunger < high.Hunger) {
		t.Errorf("expected Tier3 drain (%v) to exceed Tier1 drain (%v)", high.Hunger, low.Hunger)
	}
}

func TestDebuffTrackerUnrecognizedKindDoesNotFire(t *testing.T) {
	tr := NewDebuffTracker()
	cfg := DebuffConfig{}
	delta := tr.Apply("p1", effectdiff.DebuffBurn, effectdiff.Tier2, cfg, time.Now())
	if delta.Fired {
		t.Error("an unrecognized debuff kind should never fire")
	}
}

func TestDebuffTrackerReconcileEvictsInactiveKinds(t *testing.T) {
	tr := NewDebuffTracker()
	cfg := DefaultDebuffConfig()
	now := time.Now()
	tr.Apply("p1", effectdiff.DebuffBurn, effectdiff.Tier2, cfg, now)

	tr.Reconcile("p1", map[effectdiff.DebuffKind]struct{}{})

	if _, seen := tr.lastTick[debuffKey{playerID: "p1", kind: effectdiff.DebuffBurn}]; seen {
		t.Error("expected BURN tracking to be evicted once no longer active")
	}
}

func TestDebuffTrackerForgetDropsAllPlayerKinds(t *testing.T) {
	tr := NewDebuffTracker()
	cfg := DefaultDebuffConfig()
	now := time.Now()
	tr.Apply("p1", effectdiff.DebuffBurn, effectdiff.Tier2, cfg, now)
	tr.Apply("p1", effectdiff.DebuffSlow, effectdiff.Tier1, cfg, now)
	tr.Apply("p2", effectdiff.DebuffBurn, effectdiff.Tier1, cfg, now)

	tr.Forget("p1")

	for key := range tr.lastTick {
		if key.playerID == "p1" {
			t.Errorf("expected all p1 tracking dropped, found %+v", key)
		}
	}
	if _, seen := tr.lastTick[debuffKey{playerID: "p2", kind: effectdiff.DebuffBurn}]; !seen {
		t.Error("Forget should not affect other players")
	}
}
