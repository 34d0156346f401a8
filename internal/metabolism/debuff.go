package metabolism

import (
	"time"

	"github.com/moshpitcodes/livinglands-core/internal/effectdiff"
)

// DebuffTuning configures one native-debuff kind's per-tick interval and
// base per-stat drain, before tier multiplier.
type DebuffTuning struct {
	TickInterval time.Duration
	HungerBase   float64
	ThirstBase   float64
	EnergyBase   float64
}

// DebuffConfig bundles tuning for every recognized native-debuff kind.
type DebuffConfig map[effectdiff.DebuffKind]DebuffTuning

// DefaultDebuffConfig gives each native-debuff kind a modest drain,
// heavier for the ones that imply the player is actively taking damage
// (BURN) and lighter for pure mobility debuffs (ROOT, SLOW).
func DefaultDebuffConfig() DebuffConfig {
	return DebuffConfig{
		effectdiff.DebuffPoison: {TickInterval: time.Second, HungerBase: 0.4, ThirstBase: 0.4, EnergyBase: 0.2},
		effectdiff.DebuffBurn:   {TickInterval: time.Second, HungerBase: 0.6, ThirstBase: 0.8, EnergyBase: 0.3},
		effectdiff.DebuffStun:   {TickInterval: time.Second, HungerBase: 0.1, ThirstBase: 0.1, EnergyBase: 0.5},
		effectdiff.DebuffFreeze: {TickInterval: time.Second, HungerBase: 0.2, ThirstBase: 0.1, EnergyBase: 0.4},
		effectdiff.DebuffRoot:   {TickInterval: time.Second, HungerBase: 0.1, ThirstBase: 0.1, EnergyBase: 0.1},
		effectdiff.DebuffSlow:   {TickInterval: time.Second, HungerBase: 0.1, ThirstBase: 0.1, EnergyBase: 0.1},
	}
}

// debuffKey identifies one (player, debuff kind) rate-limit tracking slot.
type debuffKey struct {
	playerID string
	kind     effectdiff.DebuffKind
}

// DebuffTracker rate-limits native-debuff drain per (player, kind),
// evicting a slot once that kind is no longer active on the player —
// the same per-tick interval gating the teacher's IsolationSystem used for
// its 24h punishment cell, generalized from a single hardcoded kind to an
// arbitrary debuff-kind set.
type DebuffTracker struct {
	lastTick map[debuffKey]time.Time
}

// NewDebuffTracker returns an empty tracker.
func NewDebuffTracker() *DebuffTracker {
	return &DebuffTracker{lastTick: make(map[debuffKey]time.Time)}
}

// DebuffDelta is the stat drain one debuff application yields, along with
// whether the interval gate actually let this call fire.
type DebuffDelta struct {
	Hunger float64
	Thirst float64
	Energy float64
	Fired  bool
}

// Apply computes the drain for one active debuff detection, respecting the
// kind's configured tick interval. tier scales the per-stat bases the same
// way effectdiff.PoisonDrainMultiplier scales poison drain.
func (t *DebuffTracker) Apply(playerID string, kind effectdiff.DebuffKind, tier effectdiff.Tier, cfg DebuffConfig, now time.Time) DebuffDelta {
	tuning, ok := cfg[kind]
	if !ok {
		return DebuffDelta{}
	}

	key := debuffKey{playerID: playerID, kind: kind}
	last, seen := t.lastTick[key]
	if seen && now.Sub(last) < tuning.TickInterval {
		return DebuffDelta{}
	}
	t.lastTick[key] = now

	mult := effectdiff.PoisonDrainMultiplier(tier)
	return DebuffDelta{
		Hunger: tuning.HungerBase * mult,
		Thirst: tuning.ThirstBase * mult,
		Energy: tuning.EnergyBase * mult,
		Fired:  true,
	}
}

// Reconcile evicts tracking for any (playerID, kind) pair not present in
// activeKinds, matching spec.md's "evicted when that kind is not active"
// rule.
func (t *DebuffTracker) Reconcile(playerID string, activeKinds map[effectdiff.DebuffKind]struct{}) {
	for key := range t.lastTick {
		if key.playerID != playerID {
			continue
		}
		if _, active := activeKinds[key.kind]; !active {
			delete(t.lastTick, key)
		}
	}
}

// Forget drops all tracking for playerID, called on session unregister.
func (t *DebuffTracker) Forget(playerID string) {
	for key := range t.lastTick {
		if key.playerID == playerID {
			delete(t.lastTick, key)
		}
	}
}
