package router

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/moshpitcodes/livinglands-core/internal/hostapi"
	"github.com/moshpitcodes/livinglands-core/internal/persistence"
	"github.com/moshpitcodes/livinglands-core/internal/platform/logger"
	"github.com/moshpitcodes/livinglands-core/internal/platform/metrics"
)

// DedupWindow is the cool-down within which a second event of the same
// (player, class) is treated as a duplicate of the first, per spec.md's
// "kill-feed and damage paths cover overlapping situations" note.
const DedupWindow = 1 * time.Second

// eventClass groups hostapi.EventType values that can double-report the
// same underlying occurrence.
type eventClass string

const (
	classDeath     eventClass = "death"
	classBlockEdit eventClass = "block_edit"
)

func classify(t hostapi.EventType) (eventClass, bool) {
	switch t {
	case hostapi.EventEntityRemove, hostapi.EventKillFeed:
		return classDeath, true
	case hostapi.EventBlockPlace, hostapi.EventBlockBreak:
		return classBlockEdit, true
	default:
		return "", false
	}
}

// MetabolismResetter is the narrow slice of the metabolism engine the
// router depends on, kept as an interface to avoid a router<->metabolism
// import cycle with the consumer-module wiring layer.
type MetabolismResetter interface {
	IsBelowDeathThreshold(playerID string) bool
	ResetVitals(playerID string, now time.Time)
}

// LevelingDispatcher is the leveling consumer's XP-award entry point.
type LevelingDispatcher interface {
	AwardBlockBreakXP(playerID string, blockType string)
}

// BlockEventPayload is the payload shape for EventBlockPlace/EventBlockBreak.
type BlockEventPayload struct {
	WorldID   string
	X, Y, Z   int
	BlockType string
	Natural   bool // true for a naturally-generated block, false for one a module doesn't recognize as player content
}

// Router fans host events to this framework's consumers. One Router is
// created per framework instance and registered against the host's
// EventBus at startup.
type Router struct {
	bus        hostapi.EventBus
	metabolism MetabolismResetter
	leveling   LevelingDispatcher
	claims     *ClaimBlockTracking
	audit      *persistence.SQLiteAudit // optional, nil disables recap recording
	logger     *logger.Logger
	metrics    *metrics.Collector

	now func() time.Time

	mu           sync.Mutex
	pendingDeath map[string]struct{} // players marked for metabolism-death reset on next world-add
	lastSeen     map[dedupKey]time.Time
}

type dedupKey struct {
	playerID string
	class    eventClass
}

// New creates a Router bound to bus. leveling may be nil if the leveling
// module isn't registered; block-break XP dispatch is then a no-op.
func New(bus hostapi.EventBus, metabolism MetabolismResetter, leveling LevelingDispatcher, log *logger.Logger, m *metrics.Collector) *Router {
	r := &Router{
		bus:          bus,
		metabolism:   metabolism,
		leveling:     leveling,
		claims:       NewClaimBlockTracking(50_000),
		logger:       log,
		metrics:      m,
		now:          time.Now,
		pendingDeath: make(map[string]struct{}),
		lastSeen:     make(map[dedupKey]time.Time),
	}
	r.bus.RegisterGlobal(r.dispatch)
	return r
}

// SetAudit attaches an optional SQLite-backed audit ledger; every
// subsequently dispatched event is also recorded there for later recap
// reconstruction. Passing nil disables recording again.
func (r *Router) SetAudit(a *persistence.SQLiteAudit) {
	r.audit = a
}

func (r *Router) recordAudit(ctx context.Context, e hostapi.Event) {
	if r.audit == nil {
		return
	}
	rec := persistence.AuditRecord{
		ID:        uuid.NewString(),
		Timestamp: r.now(),
		EventType: string(e.Type),
		PlayerID:  playerIDString(e),
		Summary:   persistence.PayloadSummary(e.Payload),
	}
	if err := r.audit.Record(ctx, rec); err != nil {
		r.logger.Warn("audit record failed: " + err.Error())
	}
}

// dispatch is the router's single entry point, generalizing the teacher's
// Engine.dispatch switch statement over events.EventType to hostapi's
// event set.
func (r *Router) dispatch(ctx context.Context, e hostapi.Event) {
	if r.metrics != nil {
		r.metrics.RouterDispatched.WithLabelValues(string(e.Type)).Inc()
	}
	r.recordAudit(ctx, e)

	switch e.Type {
	case hostapi.EventEntityRemove, hostapi.EventKillFeed:
		r.handleDeathPath(e)
	case hostapi.EventAddPlayerWorld:
		r.handleAddToWorld(e)
	case hostapi.EventBlockPlace:
		r.handleBlockPlace(e)
	case hostapi.EventBlockBreak:
		r.handleBlockBreak(e)
	}
}

// playerIDString renders the event's 128-bit player id as a lookup key.
func playerIDString(e hostapi.Event) string {
	return string(e.PlayerID[:])
}

func (r *Router) duplicate(playerID string, class eventClass) bool {
	key := dedupKey{playerID: playerID, class: class}
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()
	if last, ok := r.lastSeen[key]; ok && now.Sub(last) < DedupWindow {
		return true
	}
	r.lastSeen[key] = now
	return false
}

func (r *Router) handleDeathPath(e hostapi.Event) {
	playerID := playerIDString(e)
	if r.duplicate(playerID, classDeath) {
		return
	}
	if r.metabolism == nil || !r.metabolism.IsBelowDeathThreshold(playerID) {
		return
	}

	r.mu.Lock()
	r.pendingDeath[playerID] = struct{}{}
	r.mu.Unlock()
	r.logger.Event("METABOLISM_DEATH_MARKED", playerID, "marked for vitals reset on next world add")
}

func (r *Router) handleAddToWorld(e hostapi.Event) {
	playerID := playerIDString(e)

	r.mu.Lock()
	_, marked := r.pendingDeath[playerID]
	if marked {
		delete(r.pendingDeath, playerID)
	}
	r.mu.Unlock()

	if !marked || r.metabolism == nil {
		return
	}
	r.metabolism.ResetVitals(playerID, r.now())
}

func (r *Router) handleBlockPlace(e hostapi.Event) {
	payload, ok := e.Payload.(BlockEventPayload)
	if !ok {
		return
	}
	r.claims.RecordPlaced(BlockPos{WorldID: payload.WorldID, X: payload.X, Y: payload.Y, Z: payload.Z})
}

func (r *Router) handleBlockBreak(e hostapi.Event) {
	payload, ok := e.Payload.(BlockEventPayload)
	if !ok {
		return
	}
	pos := BlockPos{WorldID: payload.WorldID, X: payload.X, Y: payload.Y, Z: payload.Z}
	wasPlayerPlaced := r.claims.ClearBreak(pos)
	if wasPlayerPlaced || !payload.Natural {
		return
	}
	if r.leveling == nil {
		return
	}
	r.leveling.AwardBlockBreakXP(playerIDString(e), payload.BlockType)
}

// Claims exposes the claim-block tracker for the janitor task that reports
// its size and for tests.
func (r *Router) Claims() *ClaimBlockTracking {
	return r.claims
}
