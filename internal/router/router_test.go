package router

import (
	"context"
	"testing"
	"time"

	"github.com/moshpitcodes/livinglands-core/internal/hostapi"
	"github.com/moshpitcodes/livinglands-core/internal/hostapi/hostapitest"
	"github.com/moshpitcodes/livinglands-core/internal/platform/logger"
	"github.com/moshpitcodes/livinglands-core/internal/platform/metrics"
)

type fakeMetabolism struct {
	belowThreshold map[string]bool
	resetCalls     []string
}

func (f *fakeMetabolism) IsBelowDeathThreshold(playerID string) bool { return f.belowThreshold[playerID] }
func (f *fakeMetabolism) ResetVitals(playerID string, now time.Time) {
	f.resetCalls = append(f.resetCalls, playerID)
}

type fakeLeveling struct {
	awards []string
}

func (f *fakeLeveling) AwardBlockBreakXP(playerID string, blockType string) {
	f.awards = append(f.awards, playerID+":"+blockType)
}

func playerID(b byte) [16]byte {
	var id [16]byte
	id[0] = b
	return id
}

func newTestRouter(meta MetabolismResetter, lvl LevelingDispatcher) (*Router, *hostapitest.EventBus) {
	bus := hostapitest.NewEventBus()
	r := New(bus, meta, lvl, logger.NewLogger(), metrics.New())
	return r, bus
}

func TestDeathPathMarksForResetOnlyBelowThreshold(t *testing.T) {
	meta := &fakeMetabolism{belowThreshold: map[string]bool{playerIDString(hostapi.Event{PlayerID: playerID(1)}): true}}
	_, bus := newTestRouter(meta, nil)

	bus.Publish(context.Background(), hostapi.Event{Type: hostapi.EventEntityRemove, PlayerID: playerID(1)})
	bus.Publish(context.Background(), hostapi.Event{Type: hostapi.EventAddPlayerWorld, PlayerID: playerID(1)})

	if len(meta.resetCalls) != 1 {
		t.Fatalf("got %d reset calls, want 1", len(meta.resetCalls))
	}
}

func TestDeathPathDedupsWithinWindow(t *testing.T) {
	meta := &fakeMetabolism{belowThreshold: map[string]bool{playerIDString(hostapi.Event{PlayerID: playerID(1)}): true}}
	r, bus := newTestRouter(meta, nil)
	fixed := time.Now()
	r.now = func() time.Time { return fixed }

	bus.Publish(context.Background(), hostapi.Event{Type: hostapi.EventEntityRemove, PlayerID: playerID(1)})
	bus.Publish(context.Background(), hostapi.Event{Type: hostapi.EventKillFeed, PlayerID: playerID(1)})

	r.mu.Lock()
	_, marked := r.pendingDeath[playerIDString(hostapi.Event{PlayerID: playerID(1)})]
	r.mu.Unlock()
	if !marked {
		t.Fatal("expected player to be marked for reset")
	}

	// Both death events arrived inside the dedup window, so the player was
	// marked once; AddPlayerWorld must reset exactly once.
	bus.Publish(context.Background(), hostapi.Event{Type: hostapi.EventAddPlayerWorld, PlayerID: playerID(1)})
	if len(meta.resetCalls) != 1 {
		t.Errorf("got %d resets, want exactly 1 despite two death events", len(meta.resetCalls))
	}
}

func TestDeathPathIgnoresPlayersAboveThreshold(t *testing.T) {
	meta := &fakeMetabolism{belowThreshold: map[string]bool{}}
	_, bus := newTestRouter(meta, nil)

	bus.Publish(context.Background(), hostapi.Event{Type: hostapi.EventEntityRemove, PlayerID: playerID(1)})
	bus.Publish(context.Background(), hostapi.Event{Type: hostapi.EventAddPlayerWorld, PlayerID: playerID(1)})

	if len(meta.resetCalls) != 0 {
		t.Errorf("expected no reset for a player above the death threshold, got %d", len(meta.resetCalls))
	}
}

func TestBlockBreakSuppressesXPForPlayerPlacedBlocks(t *testing.T) {
	lvl := &fakeLeveling{}
	_, bus := newTestRouter(nil, lvl)
	pos := BlockEventPayload{WorldID: "w1", X: 1, Y: 2, Z: 3, BlockType: "STONE_PLAIN", Natural: true}

	bus.Publish(context.Background(), hostapi.Event{Type: hostapi.EventBlockPlace, PlayerID: playerID(1), Payload: pos})
	bus.Publish(context.Background(), hostapi.Event{Type: hostapi.EventBlockBreak, PlayerID: playerID(1), Payload: pos})

	if len(lvl.awards) != 0 {
		t.Errorf("expected no XP award for breaking a player-placed block, got %v", lvl.awards)
	}
}

func TestBlockBreakAwardsXPForNaturalBlocks(t *testing.T) {
	lvl := &fakeLeveling{}
	_, bus := newTestRouter(nil, lvl)
	pos := BlockEventPayload{WorldID: "w1", X: 4, Y: 5, Z: 6, BlockType: "ORE_IRON", Natural: true}

	bus.Publish(context.Background(), hostapi.Event{Type: hostapi.EventBlockBreak, PlayerID: playerID(9), Payload: pos})

	if len(lvl.awards) != 1 {
		t.Fatalf("got %d awards, want 1", len(lvl.awards))
	}
}

func TestBlockBreakSkipsNonNaturalUnplacedBlocks(t *testing.T) {
	lvl := &fakeLeveling{}
	_, bus := newTestRouter(nil, lvl)
	pos := BlockEventPayload{WorldID: "w1", X: 1, Y: 1, Z: 1, BlockType: "MECHANISM", Natural: false}

	bus.Publish(context.Background(), hostapi.Event{Type: hostapi.EventBlockBreak, PlayerID: playerID(1), Payload: pos})

	if len(lvl.awards) != 0 {
		t.Errorf("expected no XP award for a non-natural, non-player-placed block, got %v", lvl.awards)
	}
}

func TestBlockBreakNoLevelingModuleIsSafe(t *testing.T) {
	_, bus := newTestRouter(nil, nil)
	pos := BlockEventPayload{WorldID: "w1", X: 1, Y: 1, Z: 1, BlockType: "ORE_IRON", Natural: true}

	bus.Publish(context.Background(), hostapi.Event{Type: hostapi.EventBlockBreak, PlayerID: playerID(1), Payload: pos})
}
