// Package session tracks connected players and their lazily-populated ECS
// handles, generalizing the teacher's network.Hub (a map of websocket
// clients guarded by sync.RWMutex plus register/unregister channels) from
// "websocket client" to "player session with world-thread access".
package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/moshpitcodes/livinglands-core/internal/apperrors"
	"github.com/moshpitcodes/livinglands-core/internal/hostapi"
	"github.com/moshpitcodes/livinglands-core/internal/platform/logger"
	"github.com/moshpitcodes/livinglands-core/internal/platform/metrics"
)

// PlayerSession is one connected player. All fields besides the embedded
// atomics are set once at construction and never mutated; the mutable
// surface is exactly the handle bundle and ecsReady.
type PlayerSession struct {
	PlayerID    string
	ConnectedAt time.Time

	ecsReady atomic.Bool
	handles  atomic.Pointer[ecsHandles]
}

// IsECSReady reports whether the full handle bundle is currently published.
// This is an acquire load: if it returns true, a subsequent Handles() call
// is guaranteed (by Go's happens-before rules for atomics) to observe the
// bundle written by the SetECSHandles call that made it true.
func (s *PlayerSession) IsECSReady() bool {
	return s.ecsReady.Load()
}

// handlesSnapshot returns the currently published bundle, or nil if none
// has ever been published.
func (s *PlayerSession) handlesSnapshot() *ecsHandles {
	return s.handles.Load()
}

// Registry tracks all connected PlayerSessions, keyed by player id, under a
// single RWMutex guarding the map — deliberately a plain map rather than
// sync.Map, matching the teacher's Hub.clients, since reads here are
// dominated by full-registry iteration (for_each) rather than independent
// single-key lookups.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*PlayerSession

	dispatcher hostapi.WorldDispatcher
	logger     *logger.Logger
	metrics    *metrics.Collector
}

// NewRegistry creates an empty registry bound to the host's world
// dispatcher.
func NewRegistry(dispatcher hostapi.WorldDispatcher, log *logger.Logger, m *metrics.Collector) *Registry {
	return &Registry{
		sessions:   make(map[string]*PlayerSession),
		dispatcher: dispatcher,
		logger:     log,
		metrics:    m,
	}
}

// Register creates a session for playerID, or returns the existing one if
// already registered — idempotent, logging a warning on the duplicate
// path, matching spec.md's register contract.
func (r *Registry) Register(playerID string) *PlayerSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.sessions[playerID]; ok {
		r.logger.Warn("duplicate session register for player " + playerID)
		return existing
	}

	s := &PlayerSession{PlayerID: playerID, ConnectedAt: time.Now()}
	r.sessions[playerID] = s
	if r.metrics != nil {
		r.metrics.SessionsTotal.Inc()
		r.metrics.SessionsActive.Set(float64(len(r.sessions)))
	}
	r.logger.Event("SESSION_REGISTER", playerID, "player session registered")
	return s
}

// Unregister clears ecs_ready before dropping the handle bundle, then
// removes the session from the registry — the order spec.md's invariant
// requires so no concurrent reader observes a stale-but-still-ready
// session mid-teardown.
func (r *Registry) Unregister(playerID string) {
	r.mu.Lock()
	s, ok := r.sessions[playerID]
	if ok {
		s.ecsReady.Store(false)
		s.handles.Store(nil)
		delete(r.sessions, playerID)
	}
	if r.metrics != nil {
		r.metrics.SessionsActive.Set(float64(len(r.sessions)))
	}
	r.mu.Unlock()

	if !ok {
		return
	}
	r.logger.Event("SESSION_UNREGISTER", playerID, "player session unregistered")
}

// Get returns the session for playerID, or (nil, false) if not registered.
func (r *Registry) Get(playerID string) (*PlayerSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[playerID]
	return s, ok
}

// Require returns the session for playerID or ErrSessionNotFound.
func (r *Registry) Require(playerID string) (*PlayerSession, error) {
	s, ok := r.Get(playerID)
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	return s, nil
}

// IsECSReady reports whether playerID's session is registered and ready.
func (r *Registry) IsECSReady(playerID string) bool {
	s, ok := r.Get(playerID)
	return ok && s.IsECSReady()
}

// SetECSHandles publishes all five lazy handles at once and derives
// ecs_ready from them. Publication order matters: the bundle is stored
// first (release), then ecs_ready is flipped true (release) — any reader
// that loads ecs_ready true afterward is guaranteed to load the bundle
// just stored, per Go's atomic happens-before guarantee, with no separate
// manual memory barrier required.
func (r *Registry) SetECSHandles(
	playerID string,
	entity hostapi.EntityRef,
	store hostapi.EntityStore,
	world hostapi.WorldHandle,
	network hostapi.PlayerNetworkHandle,
	playerEntity hostapi.PlayerEntityHandle,
) error {
	s, ok := r.Get(playerID)
	if !ok {
		return apperrors.ErrSessionNotFound
	}

	bundle := &ecsHandles{
		entity:       entity,
		store:        store,
		world:        world,
		network:      network,
		playerEntity: playerEntity,
	}
	s.handles.Store(bundle)

	ready := entity != nil && entity.Valid() && store != nil && world != nil
	s.ecsReady.Store(ready)
	if ready {
		r.logger.Event("SESSION_ECS_READY", playerID, "ECS handle bundle published")
	}
	return nil
}

// ForEach invokes fn for every currently registered session. fn must not
// call back into the Registry's mutating methods.
func (r *Registry) ForEach(fn func(*PlayerSession)) {
	r.mu.RLock()
	snapshot := make([]*PlayerSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		snapshot = append(snapshot, s)
	}
	r.mu.RUnlock()

	for _, s := range snapshot {
		fn(s)
	}
}

// ForEachECSReady invokes fn only for sessions currently ready.
func (r *Registry) ForEachECSReady(fn func(*PlayerSession)) {
	r.ForEach(func(s *PlayerSession) {
		if s.IsECSReady() {
			fn(s)
		}
	})
}

// ExecuteOnWorld dispatches action onto the host's world thread if the
// player's session is ECS-ready. It is fire-and-forget: no completion
// signal, no guarantee the entity is still valid by the time action runs.
// Returns false without dispatching if the session isn't ready.
func (r *Registry) ExecuteOnWorld(playerID string, action func()) bool {
	s, ok := r.Get(playerID)
	if !ok || !s.IsECSReady() {
		return false
	}
	bundle := s.handlesSnapshot()
	if bundle == nil {
		return false
	}
	r.dispatcher.Execute(action)
	return true
}

// ExecuteOnWorldWithHandles is ExecuteOnWorld's handle-bearing counterpart:
// it dispatches fn onto the world thread with the player's current handle
// bundle, for callers (the metabolism engine, the notification dispatcher) that need
// to read host state rather than just fire an action. Same fire-and-forget
// contract: no completion signal, and the bundle may describe an entity
// that becomes invalid before fn actually runs.
func (r *Registry) ExecuteOnWorldWithHandles(playerID string, fn func(hostapi.EntityRef, hostapi.EntityStore, hostapi.PlayerNetworkHandle, hostapi.PlayerEntityHandle)) bool {
	s, ok := r.Get(playerID)
	if !ok || !s.IsECSReady() {
		return false
	}
	bundle := s.handlesSnapshot()
	if bundle == nil {
		return false
	}
	r.dispatcher.Execute(func() {
		fn(bundle.entity, bundle.store, bundle.network, bundle.playerEntity)
	})
	return true
}

// Count returns the number of currently registered sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
