package metabolism

import (
	"math/rand"
	"time"
)

// PoisonKind identifies which consumable poison effect is active.
type PoisonKind string

const (
	PoisonRandom     PoisonKind = "RANDOM" // resolved to one of the below at Apply
	PoisonMildToxin  PoisonKind = "MILD_TOXIN"
	PoisonSlowPoison PoisonKind = "SLOW_POISON"
	PoisonPurge      PoisonKind = "PURGE"
)

var resolvablePoisonKinds = []PoisonKind{PoisonMildToxin, PoisonSlowPoison, PoisonPurge}

// PoisonTuning configures the tick rate and per-stat drain for one poison
// kind. PURGE additionally uses DrainDuration/DrainInterval for its rapid
// drain phase; its per-tick fields below apply during that phase only.
type PoisonTuning struct {
	TickInterval time.Duration
	Duration     time.Duration
	HungerPerTick float64
	ThirstPerTick float64
	EnergyPerTick float64

	// PURGE-only:
	DrainDuration time.Duration
	DrainInterval time.Duration
}

// PoisonConfig bundles tuning for every resolvable poison kind.
type PoisonConfig map[PoisonKind]PoisonTuning

// DefaultPoisonConfig mirrors spec.md's description: MILD_TOXIN drains
// faster over a shorter window than SLOW_POISON, which uses smaller rates
// over a longer window; PURGE front-loads the most rapid drain of the three
// in a short drain phase, then a no-drain recovery phase before expiring.
func DefaultPoisonConfig() PoisonConfig {
	return PoisonConfig{
		PoisonMildToxin: {
			TickInterval:  2 * time.Second,
			Duration:      20 * time.Second,
			HungerPerTick: 1.5,
			ThirstPerTick: 1.5,
			EnergyPerTick: 1.0,
		},
		PoisonSlowPoison: {
			TickInterval:  5 * time.Second,
			Duration:      90 * time.Second,
			HungerPerTick: 0.5,
			ThirstPerTick: 0.5,
			EnergyPerTick: 0.3,
		},
		PoisonPurge: {
			TickInterval:  1 * time.Second,
			Duration:      45 * time.Second,
			HungerPerTick: 3.0,
			ThirstPerTick: 3.0,
			EnergyPerTick: 2.0,
			DrainDuration: 15 * time.Second,
			DrainInterval: time.Second,
		},
	}
}

// PoisonState is one player's active consumable poison, if any.
type PoisonState struct {
	Kind            PoisonKind
	StartTime       time.Time
	Duration        time.Duration
	LastTickTime    time.Time
	TicksApplied    int
	InRecoveryPhase bool // PURGE only
}

// ApplyPoison resolves RANDOM to a concrete kind and starts a fresh state,
// replacing whatever was previously active, per spec.md.
func ApplyPoison(kind PoisonKind, cfg PoisonConfig, now time.Time) PoisonState {
	resolved := kind
	if kind == PoisonRandom {
		resolved = resolvablePoisonKinds[rand.Intn(len(resolvablePoisonKinds))]
	}
	tuning := cfg[resolved]
	return PoisonState{
		Kind:         resolved,
		StartTime:    now,
		Duration:     tuning.Duration,
		LastTickTime: now,
	}
}

// IsExpired reports whether the state's duration has elapsed as of now.
func (p PoisonState) IsExpired(now time.Time) bool {
	return now.Sub(p.StartTime) > p.Duration
}

// PoisonDelta is the stat drain one poison tick applies.
type PoisonDelta struct {
	Hunger float64
	Thirst float64
	Energy float64
}

// Tick advances the poison state by one tick if its tick interval has
// elapsed, returning the updated state and the drain to apply (if any).
// Callers must discard the state once IsExpired reports true on the
// following tick.
func (p PoisonState) Tick(cfg PoisonConfig, now time.Time) (PoisonState, PoisonDelta) {
	tuning := cfg[p.Kind]
	if now.Sub(p.LastTickTime) < tuning.TickInterval {
		return p, PoisonDelta{}
	}

	next := p
	next.LastTickTime = now

	if p.Kind != PoisonPurge {
		next.TicksApplied++
		return next, PoisonDelta{
			Hunger: tuning.HungerPerTick,
			Thirst: tuning.ThirstPerTick,
			Energy: tuning.EnergyPerTick,
		}
	}

	// PURGE: two phases. Drain phase lasts DrainDuration/DrainInterval
	// ticks of rapid drain (using the tuning's per-tick fields, same as any
	// other kind), then flips to a no-drain recovery phase that runs out
	// the remaining Duration naturally.
	if next.InRecoveryPhase {
		return next, PoisonDelta{}
	}

	elapsedDrain := time.Duration(p.TicksApplied) * tuning.DrainInterval
	if elapsedDrain >= tuning.DrainDuration {
		next.InRecoveryPhase = true
		return next, PoisonDelta{}
	}

	next.TicksApplied++
	return next, PoisonDelta{
		Hunger: tuning.HungerPerTick,
		Thirst: tuning.ThirstPerTick,
		Energy: tuning.EnergyPerTick,
	}
}
