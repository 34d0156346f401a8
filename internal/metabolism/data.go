package metabolism

import (
	"sync"
	"time"

	"github.com/moshpitcodes/livinglands-core/internal/hostapi"
)

// PlayerMetabolismData is one tracked player's vitals. It is exclusively
// owned by the Engine but read from more than one goroutine (the world
// thread during a tick, a scheduler goroutine during a persistence flush),
// hence the per-player mutex spec.md calls for rather than a coarser
// engine-wide lock.
type PlayerMetabolismData struct {
	mu sync.Mutex

	Hunger float64
	Thirst float64
	Energy float64

	Activity     hostapi.MovementStates
	activitySet  time.Time

	TotalDepleted RestoreAmounts // stats only; never persisted back
	TotalRestored RestoreAmounts

	Poison  *PoisonState
	LastTickTime time.Time
}

// NewPlayerMetabolismData starts a player at full vitals, matching a fresh
// spawn/reconnect with no prior session state.
func NewPlayerMetabolismData(now time.Time) *PlayerMetabolismData {
	return &PlayerMetabolismData{
		Hunger:       statMax,
		Thirst:       statMax,
		Energy:       statMax,
		LastTickTime: now,
	}
}

// Snapshot returns a copy of the vitals under lock, safe to read from any
// goroutine (e.g. a HUD aggregator module).
func (d *PlayerMetabolismData) Snapshot() (hunger, thirst, energy float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.Hunger, d.Thirst, d.Energy
}

// applyDrain subtracts rate*deltaSeconds from each stat, clamped to
// [0,100], and returns which stats are at or below their damage-start
// threshold afterward.
func (d *PlayerMetabolismData) applyDrain(cfg DrainConfig, activity hostapi.MovementStates, deltaSeconds float64) DangerFlags {
	d.mu.Lock()
	defer d.mu.Unlock()

	hungerDrop := cfg.Hunger.Rate(activity) * deltaSeconds
	thirstDrop := cfg.Thirst.Rate(activity) * deltaSeconds
	energyDrop := cfg.Energy.Rate(activity) * deltaSeconds

	d.Hunger = clamp(d.Hunger - hungerDrop)
	d.Thirst = clamp(d.Thirst - thirstDrop)
	d.Energy = clamp(d.Energy - energyDrop)

	d.TotalDepleted.Hunger += hungerDrop
	d.TotalDepleted.Thirst += thirstDrop
	d.TotalDepleted.Energy += energyDrop

	d.Activity = activity
	d.activitySet = time.Now()

	return DangerFlags{
		Hunger: d.Hunger <= cfg.Hunger.DamageStartThreshold,
		Thirst: d.Thirst <= cfg.Thirst.DamageStartThreshold,
		Energy: d.Energy <= cfg.Energy.DamageStartThreshold,
	}
}

// applyRestore adds a restoration, clamped per ActualRestore, and returns
// the actual per-stat deltas applied (for notification dispatch).
func (d *PlayerMetabolismData) applyRestore(amounts RestoreAmounts) RestoreAmounts {
	d.mu.Lock()
	defer d.mu.Unlock()

	actual := RestoreAmounts{
		Hunger: ActualRestore(d.Hunger, amounts.Hunger),
		Thirst: ActualRestore(d.Thirst, amounts.Thirst),
		Energy: ActualRestore(d.Energy, amounts.Energy),
	}
	d.Hunger += actual.Hunger
	d.Thirst += actual.Thirst
	d.Energy += actual.Energy

	d.TotalRestored.Hunger += actual.Hunger
	d.TotalRestored.Thirst += actual.Thirst
	d.TotalRestored.Energy += actual.Energy

	return actual
}

// applyPoisonDelta subtracts a poison tick's drain, clamped to [0,100].
func (d *PlayerMetabolismData) applyPoisonDelta(delta PoisonDelta) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Hunger = clamp(d.Hunger - delta.Hunger)
	d.Thirst = clamp(d.Thirst - delta.Thirst)
	d.Energy = clamp(d.Energy - delta.Energy)
}

// applyDebuffDelta subtracts a native-debuff tick's drain.
func (d *PlayerMetabolismData) applyDebuffDelta(delta DebuffDelta) {
	if !delta.Fired {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Hunger = clamp(d.Hunger - delta.Hunger)
	d.Thirst = clamp(d.Thirst - delta.Thirst)
	d.Energy = clamp(d.Energy - delta.Energy)
}
