package metabolism

import (
	"testing"
	"time"

	"github.com/moshpitcodes/livinglands-core/internal/hostapi"
	"github.com/moshpitcodes/livinglands-core/internal/hostapi/hostapitest"
	"github.com/moshpitcodes/livinglands-core/internal/platform/logger"
	"github.com/moshpitcodes/livinglands-core/internal/platform/metrics"
	"github.com/moshpitcodes/livinglands-core/internal/scheduler"
	"github.com/moshpitcodes/livinglands-core/internal/session"
)

func newTestEngine() *Engine {
	d := &hostapitest.WorldDispatcher{}
	sessions := session.NewRegistry(d, logger.NewLogger(), metrics.New())
	sched := scheduler.New(scheduler.NewClock(), logger.NewLogger())
	assets := hostapitest.NewAssetMap(map[int]string{})
	return New(sessions, sched, assets, logger.NewLogger(), metrics.New(), nil)
}

func TestEngineTrackIsIdempotent(t *testing.T) {
	e := newTestEngine()
	now := time.Now()
	e.Track("p1", now)
	e.Track("p1", now.Add(time.Hour))

	d, ok := e.Data("p1")
	if !ok {
		t.Fatal("expected p1 to be tracked")
	}
	if !d.LastTickTime.Equal(now) {
		t.Error("second Track call should not reset an already-tracked player's state")
	}
}

func TestEngineUntrackDropsDataAndDetectorState(t *testing.T) {
	e := newTestEngine()
	now := time.Now()
	e.Track("p1", now)
	e.Untrack("p1")

	if _, ok := e.Data("p1"); ok {
		t.Error("expected p1 to be dropped after Untrack")
	}
}

func TestIsBelowDeathThreshold(t *testing.T) {
	e := newTestEngine()
	now := time.Now()
	e.Track("p1", now)

	if e.IsBelowDeathThreshold("p1") {
		t.Error("freshly tracked player at full vitals should not be below death threshold")
	}

	d, _ := e.Data("p1")
	d.mu.Lock()
	d.Hunger = e.drainCfg.Hunger.DamageStartThreshold
	d.mu.Unlock()

	if !e.IsBelowDeathThreshold("p1") {
		t.Error("expected player at the hunger damage threshold to report below death threshold")
	}
}

func TestIsBelowDeathThresholdUntrackedPlayer(t *testing.T) {
	e := newTestEngine()
	if e.IsBelowDeathThreshold("ghost") {
		t.Error("an untracked player should never report below death threshold")
	}
}

func TestResetVitalsRestoresFullAndClearsPoison(t *testing.T) {
	e := newTestEngine()
	now := time.Now()
	e.Track("p1", now)
	e.ApplyPoison("p1", PoisonMildToxin, now)

	d, _ := e.Data("p1")
	d.mu.Lock()
	d.Hunger = 5
	d.mu.Unlock()

	e.ResetVitals("p1", now.Add(time.Minute))

	h, th, en := d.Snapshot()
	if h != statMax || th != statMax || en != statMax {
		t.Errorf("got (%v,%v,%v), want all at %v after reset", h, th, en, statMax)
	}
	d.mu.Lock()
	poison := d.Poison
	d.mu.Unlock()
	if poison != nil {
		t.Error("expected poison to be cleared after ResetVitals")
	}
}

func TestApplyPoisonStartsActiveState(t *testing.T) {
	e := newTestEngine()
	now := time.Now()
	e.Track("p1", now)
	e.ApplyPoison("p1", PoisonSlowPoison, now)

	d, _ := e.Data("p1")
	d.mu.Lock()
	poison := d.Poison
	d.mu.Unlock()
	if poison == nil || poison.Kind != PoisonSlowPoison {
		t.Errorf("got %+v, want an active SLOW_POISON state", poison)
	}
}

func TestProcessFastTickDetectsAndRestoresInstantHealScenario(t *testing.T) {
	assets := hostapitest.NewAssetMap(map[int]string{42: "Food_Instant_Heal_T2"})
	d := &hostapitest.WorldDispatcher{}
	sessions := session.NewRegistry(d, logger.NewLogger(), metrics.New())
	sched := scheduler.New(scheduler.NewClock(), logger.NewLogger())
	e := New(sessions, sched, assets, logger.NewLogger(), metrics.New(), nil)

	now := time.Now()
	e.Track("p1", now)
	data, _ := e.Data("p1")
	data.mu.Lock()
	data.Hunger = 50
	data.mu.Unlock()

	entity := hostapitest.NewEntityRef()
	store := hostapitest.NewEntityStore()
	ctrl := &hostapitest.EffectController{}
	ctrl.SetEffects([]hostapi.ActiveEffect{{Index: 42}})
	store.Set(entity, "EffectController", ctrl)

	// First tick (t=30ms per spec.md §8 scenario 1): {42} newly active.
	e.processFastTickForPlayer("p1", entity, store, nil, now.Add(30*time.Millisecond))

	hunger, _, _ := data.Snapshot()
	if hunger != 57.5 {
		t.Errorf("hunger after detection = %v, want 57.5 (50 + 30*0.25)", hunger)
	}

	// Effect clears (t=130ms): no further restoration from re-detecting.
	ctrl.SetEffects(nil)
	e.processFastTickForPlayer("p1", entity, store, nil, now.Add(130*time.Millisecond))
	hunger, _, _ = data.Snapshot()
	if hunger != 57.5 {
		t.Errorf("hunger after effect clears = %v, want unchanged 57.5", hunger)
	}
}

func TestApplyPoisonUntrackedPlayerIsNoop(t *testing.T) {
	e := newTestEngine()
	e.ApplyPoison("ghost", PoisonMildToxin, time.Now())
	if _, ok := e.Data("ghost"); ok {
		t.Error("ApplyPoison should not start tracking an untracked player")
	}
}
