package metabolism

import (
	"sync"
	"time"

	"github.com/moshpitcodes/livinglands-core/internal/effectdiff"
	"github.com/moshpitcodes/livinglands-core/internal/hostapi"
	"github.com/moshpitcodes/livinglands-core/internal/platform/logger"
	"github.com/moshpitcodes/livinglands-core/internal/platform/metrics"
	"github.com/moshpitcodes/livinglands-core/internal/scheduler"
	"github.com/moshpitcodes/livinglands-core/internal/session"
)

// FastTickInterval is how often the engine polls the effect diff
// detector — fast enough to observe an instant-heal effect whose host-side
// duration is only ~100 ms.
const FastTickInterval = 50 * time.Millisecond

// DefaultSlowTickInterval is the default passive-drain/poison/debuff
// cadence; configurable per spec.md.
const DefaultSlowTickInterval = 1500 * time.Millisecond

// Notifier is the narrow slice of host notification dispatch the engine
// needs to report an actual restore/drain delta to a player. Module Host
// Services implements this; the engine only depends on the interface to
// avoid an import cycle.
type Notifier interface {
	NotifyVitalsChange(playerID string, hunger, thirst, energy float64)
}

// Engine runs the fast and slow metabolism ticks over every ECS-ready
// session in the registry, generalizing the teacher's single
// OnTimeTick-per-game-hour handler into two independently-scheduled tasks
// over an arbitrary tracked-player set.
type Engine struct {
	sessions *session.Registry
	sched    *scheduler.Scheduler
	logger   *logger.Logger
	metrics  *metrics.Collector
	notifier Notifier

	assets hostapi.AssetMap

	drainCfg  DrainConfig
	poisonCfg PoisonConfig
	debuffCfg DebuffConfig

	detector *effectdiff.Detector
	debuffs  *DebuffTracker

	slowInterval time.Duration

	mu      sync.RWMutex
	players map[string]*PlayerMetabolismData
}

// New creates a metabolism Engine. assets resolves effect indices to
// string ids; sessions provides ECS-ready dispatch; notifier may be nil if
// no notification dispatch is wired (tests, headless replay).
func New(sessions *session.Registry, sched *scheduler.Scheduler, assets hostapi.AssetMap, log *logger.Logger, m *metrics.Collector, notifier Notifier) *Engine {
	return &Engine{
		sessions:     sessions,
		sched:        sched,
		logger:       log,
		metrics:      m,
		notifier:     notifier,
		assets:       assets,
		drainCfg:     DefaultDrainConfig(),
		poisonCfg:    DefaultPoisonConfig(),
		debuffCfg:    DefaultDebuffConfig(),
		detector:     effectdiff.New(),
		debuffs:      NewDebuffTracker(),
		slowInterval: DefaultSlowTickInterval,
		players:      make(map[string]*PlayerMetabolismData),
	}
}

// Track begins tracking playerID, creating fresh vitals at full stats. A
// player already tracked is left untouched (idempotent, matching the
// session registry's own register contract).
func (e *Engine) Track(playerID string, now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.players[playerID]; ok {
		return
	}
	e.players[playerID] = NewPlayerMetabolismData(now)
}

// Untrack stops tracking playerID and discards its detector/debuff state,
// called on session unregister so per-player maps don't grow unbounded
// across connect/disconnect churn.
func (e *Engine) Untrack(playerID string) {
	e.mu.Lock()
	delete(e.players, playerID)
	e.mu.Unlock()

	e.detector.Forget(playerID)
	e.debuffs.Forget(playerID)
}

// Data returns the tracked vitals for playerID, if any.
func (e *Engine) Data(playerID string) (*PlayerMetabolismData, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	d, ok := e.players[playerID]
	return d, ok
}

// IsBelowDeathThreshold reports whether playerID's hunger or thirst is at
// or below its damage-start threshold, the condition the event router uses
// to decide whether an entity-remove should be treated as a
// metabolism-caused death.
func (e *Engine) IsBelowDeathThreshold(playerID string) bool {
	d, ok := e.Data(playerID)
	if !ok {
		return false
	}
	hunger, thirst, _ := d.Snapshot()
	return hunger <= e.drainCfg.Hunger.DamageStartThreshold || thirst <= e.drainCfg.Thirst.DamageStartThreshold
}

// ResetVitals restores playerID's vitals to full and clears any active
// poison, used by the event router's death/respawn reset path.
func (e *Engine) ResetVitals(playerID string, now time.Time) {
	d, ok := e.Data(playerID)
	if !ok {
		return
	}
	d.mu.Lock()
	d.Hunger = statMax
	d.Thirst = statMax
	d.Energy = statMax
	d.Poison = nil
	d.LastTickTime = now
	d.mu.Unlock()
	e.logger.Event("VITALS_RESET", playerID, "metabolism reset to initial values")
}

// ApplyPoison starts a consumable poison effect on playerID, replacing any
// existing one.
func (e *Engine) ApplyPoison(playerID string, kind PoisonKind, now time.Time) {
	d, ok := e.Data(playerID)
	if !ok {
		return
	}
	state := ApplyPoison(kind, e.poisonCfg, now)
	d.mu.Lock()
	d.Poison = &state
	d.mu.Unlock()
	e.logger.Event("POISON_APPLIED", playerID, "kind="+string(state.Kind))
}

// trackedPlayerIDs returns a snapshot of currently tracked player ids.
func (e *Engine) trackedPlayerIDs() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ids := make([]string, 0, len(e.players))
	for id := range e.players {
		ids = append(ids, id)
	}
	return ids
}

// Start schedules the fast and slow ticks on the engine's Scheduler.
func (e *Engine) Start() {
	e.sched.SchedulePeriodic("metabolism-fast-tick", FastTickInterval, e.fastTick)
	e.sched.SchedulePeriodic("metabolism-slow-tick", e.slowInterval, e.slowTick)
}

// Shutdown cancels both ticks.
func (e *Engine) Shutdown() {
	e.sched.Cancel("metabolism-fast-tick")
	e.sched.Cancel("metabolism-slow-tick")
}

func (e *Engine) fastTick(now time.Time) {
	start := time.Now()
	for _, playerID := range e.trackedPlayerIDs() {
		playerID := playerID
		e.sessions.ExecuteOnWorldWithHandles(playerID, func(entity hostapi.EntityRef, store hostapi.EntityStore, network hostapi.PlayerNetworkHandle, _ hostapi.PlayerEntityHandle) {
			e.processFastTickForPlayer(playerID, entity, store, network, now)
		})
	}
	if e.metrics != nil {
		e.metrics.FastTickCount.Inc()
		e.metrics.RecordTick(time.Since(start))
	}
}

func (e *Engine) processFastTickForPlayer(playerID string, entity hostapi.EntityRef, store hostapi.EntityStore, network hostapi.PlayerNetworkHandle, now time.Time) {
	if !entity.Valid() {
		return
	}
	ctrl, ok := store.GetComponent(entity, "EffectController").(hostapi.EffectController)
	if !ok || ctrl == nil || e.assets == nil {
		return
	}

	active := effectdiff.ResolveActive(ctrl, e.assets)
	detected := e.detector.Detect(playerID, active)
	if len(detected) == 0 {
		return
	}

	d, ok := e.Data(playerID)
	if !ok {
		return
	}

	for _, effect := range detected {
		if _, isDebuff := effectdiff.DeriveDebuffKind(effect.ID); isDebuff {
			continue // native debuffs are handled by the slow tick's rate-limited drain
		}
		amounts := RestorationFor(effect.Tier, effect.Kind)
		actual := d.applyRestore(amounts)
		if network != nil {
			h, t, en := d.Snapshot()
			_ = actual
			if e.notifier != nil {
				e.notifier.NotifyVitalsChange(playerID, h, t, en)
			}
		}
	}
}

func (e *Engine) slowTick(now time.Time) {
	start := time.Now()
	deltaSeconds := e.slowInterval.Seconds()

	for _, playerID := range e.trackedPlayerIDs() {
		playerID := playerID
		e.sessions.ExecuteOnWorldWithHandles(playerID, func(entity hostapi.EntityRef, store hostapi.EntityStore, network hostapi.PlayerNetworkHandle, playerEntity hostapi.PlayerEntityHandle) {
			e.processSlowTickForPlayer(playerID, entity, store, network, playerEntity, deltaSeconds, now)
		})
	}
	if e.metrics != nil {
		e.metrics.SlowTickCount.Inc()
	}
	_ = start
}

func (e *Engine) processSlowTickForPlayer(
	playerID string,
	entity hostapi.EntityRef,
	store hostapi.EntityStore,
	network hostapi.PlayerNetworkHandle,
	playerEntity hostapi.PlayerEntityHandle,
	deltaSeconds float64,
	now time.Time,
) {
	if !entity.Valid() {
		return
	}
	if playerEntity != nil && playerEntity.IsCreative() {
		return
	}

	d, ok := e.Data(playerID)
	if !ok {
		return
	}

	var activity hostapi.MovementStates
	if playerEntity != nil {
		activity = playerEntity.MovementStates()
	}
	danger := d.applyDrain(e.drainCfg, activity, deltaSeconds)

	e.tickPoison(d, now)

	activeDebuffKinds := make(map[effectdiff.DebuffKind]struct{})
	if ctrl, ok := store.GetComponent(entity, "EffectController").(hostapi.EffectController); ok && ctrl != nil && e.assets != nil {
		for _, active := range effectdiff.ResolveActive(ctrl, e.assets) {
			kind, isDebuff := effectdiff.DeriveDebuffKind(active.ID)
			if !isDebuff {
				continue
			}
			activeDebuffKinds[kind] = struct{}{}
			tier := effectdiff.DeriveTier(active.ID)
			delta := e.debuffs.Apply(playerID, kind, tier, e.debuffCfg, now)
			d.applyDebuffDelta(delta)
		}
	}
	e.debuffs.Reconcile(playerID, activeDebuffKinds)

	if network != nil && e.notifier != nil {
		h, t, en := d.Snapshot()
		e.notifier.NotifyVitalsChange(playerID, h, t, en)
	}
	_ = danger // consumed by the host's own damage system, out of scope here
}

// tickPoison advances playerID's active poison state by one tick, clearing
// it once expired.
func (e *Engine) tickPoison(d *PlayerMetabolismData, now time.Time) {
	d.mu.Lock()
	poison := d.Poison
	d.mu.Unlock()
	if poison == nil {
		return
	}

	if poison.IsExpired(now) {
		d.mu.Lock()
		d.Poison = nil
		d.mu.Unlock()
		return
	}

	next, delta := poison.Tick(e.poisonCfg, now)
	d.mu.Lock()
	d.Poison = &next
	d.mu.Unlock()
	d.applyPoisonDelta(delta)
}
