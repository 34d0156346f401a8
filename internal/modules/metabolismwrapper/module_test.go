package metabolismwrapper

import (
	"testing"

	"github.com/moshpitcodes/livinglands-core/internal/hostapi/hostapitest"
	"github.com/moshpitcodes/livinglands-core/internal/moduleruntime"
	"github.com/moshpitcodes/livinglands-core/internal/platform/logger"
	"github.com/moshpitcodes/livinglands-core/internal/platform/metrics"
	"github.com/moshpitcodes/livinglands-core/internal/scheduler"
	"github.com/moshpitcodes/livinglands-core/internal/session"
)

func newTestModule(t *testing.T) *Module {
	t.Helper()
	log := logger.NewLogger()
	sessions := session.NewRegistry(&hostapitest.WorldDispatcher{}, log, metrics.New())
	sched := scheduler.New(scheduler.NewClock(), log)
	m := New(hostapitest.NewAssetMap(map[int]string{}))
	if err := m.Setup(&moduleruntime.Context{Logger: log, Sessions: sessions, Scheduler: sched}); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	return m
}

func TestTrackAndUntrackDelegateToEngine(t *testing.T) {
	m := newTestModule(t)
	m.Track("p1")

	if _, ok := m.Engine().Data("p1"); !ok {
		t.Fatal("expected Track to register p1 with the underlying engine")
	}

	m.Untrack("p1")
	if _, ok := m.Engine().Data("p1"); ok {
		t.Error("expected Untrack to drop p1 from the underlying engine")
	}
}

func TestEngineReturnsUsableInstance(t *testing.T) {
	m := newTestModule(t)
	if m.Engine() == nil {
		t.Fatal("expected a non-nil engine after Setup")
	}
}
