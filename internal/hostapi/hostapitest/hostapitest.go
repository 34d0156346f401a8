// Package hostapitest provides in-memory fakes for every interface in
// hostapi, for use by package tests that need a host without a real game
// engine attached — the same role the teacher's test package played by
// constructing engine subsystems directly against an in-memory EventLog.
package hostapitest

import (
	"context"
	"sync"

	"github.com/moshpitcodes/livinglands-core/internal/hostapi"
)

// EntityRef is a fake entity reference whose validity a test can flip.
type EntityRef struct {
	alive bool
}

// NewEntityRef returns a valid fake entity reference.
func NewEntityRef() *EntityRef { return &EntityRef{alive: true} }

// Valid reports the reference's current liveness.
func (e *EntityRef) Valid() bool { return e.alive }

// Invalidate marks the reference dead, simulating entity removal.
func (e *EntityRef) Invalidate() { e.alive = false }

// EntityStore is an in-memory component table keyed by (ref, component).
type EntityStore struct {
	mu         sync.Mutex
	components map[*EntityRef]map[string]any
}

// NewEntityStore returns an empty store.
func NewEntityStore() *EntityStore {
	return &EntityStore{components: make(map[*EntityRef]map[string]any)}
}

// Set installs a component value for ref.
func (s *EntityStore) Set(ref *EntityRef, componentType string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.components[ref] == nil {
		s.components[ref] = make(map[string]any)
	}
	s.components[ref][componentType] = value
}

// GetComponent implements hostapi.EntityStore.
func (s *EntityStore) GetComponent(ref hostapi.EntityRef, componentType string) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	er, ok := ref.(*EntityRef)
	if !ok {
		return nil
	}
	return s.components[er][componentType]
}

// WorldHandle is a fake world identified by a fixed string.
type WorldHandle struct{ id string }

// NewWorldHandle returns a world handle with the given id.
func NewWorldHandle(id string) *WorldHandle { return &WorldHandle{id: id} }

// ID implements hostapi.WorldHandle.
func (w *WorldHandle) ID() string { return w.id }

// WorldDispatcher runs Execute synchronously and records every call, so
// tests can assert dispatch happened without needing a real world thread.
type WorldDispatcher struct {
	mu    sync.Mutex
	Calls int
}

// Execute implements hostapi.WorldDispatcher by invoking fn inline.
func (d *WorldDispatcher) Execute(fn func()) {
	d.mu.Lock()
	d.Calls++
	d.mu.Unlock()
	fn()
}

// EffectController reports a fixed, test-controlled effect set.
type EffectController struct {
	mu      sync.Mutex
	Effects []hostapi.ActiveEffect
}

// SetEffects replaces the reported effect set.
func (c *EffectController) SetEffects(effects []hostapi.ActiveEffect) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Effects = effects
}

// ActiveEffects implements hostapi.EffectController.
func (c *EffectController) ActiveEffects() []hostapi.ActiveEffect {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]hostapi.ActiveEffect, len(c.Effects))
	copy(out, c.Effects)
	return out
}

// AssetMap is a fixed index-to-asset-id table.
type AssetMap struct {
	entries map[int]string
}

// NewAssetMap builds an AssetMap from the given index-to-id table.
func NewAssetMap(entries map[int]string) *AssetMap {
	return &AssetMap{entries: entries}
}

// Resolve implements hostapi.AssetMap.
func (a *AssetMap) Resolve(index int) (hostapi.AssetRef, bool) {
	id, ok := a.entries[index]
	if !ok {
		return hostapi.AssetRef{}, false
	}
	return hostapi.AssetRef{ID: id}, true
}

// PlayerNetworkHandle records every notification sent to it, for test
// assertions, instead of talking to a real connection.
type PlayerNetworkHandle struct {
	mu       sync.Mutex
	Chats    []string
	Sounds   []string
	Titles   [][2]string
}

func (h *PlayerNetworkHandle) SendChat(message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Chats = append(h.Chats, message)
}

func (h *PlayerNetworkHandle) PlaySound(soundID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Sounds = append(h.Sounds, soundID)
}

func (h *PlayerNetworkHandle) ShowTitle(title, subtitle string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Titles = append(h.Titles, [2]string{title, subtitle})
}

// PlayerEntityHandle is a fake with test-settable movement/game-mode state.
type PlayerEntityHandle struct {
	Creative  bool
	Movements hostapi.MovementStates
}

func (h *PlayerEntityHandle) IsCreative() bool { return h.Creative }

func (h *PlayerEntityHandle) MovementStates() hostapi.MovementStates { return h.Movements }

// EventBus is a synchronous in-memory bus: Publish invokes matching
// handlers inline on the calling goroutine, which is sufficient for tests
// that don't exercise real concurrency.
type EventBus struct {
	mu       sync.Mutex
	handlers map[hostapi.EventType][]hostapi.Handler
	global   []hostapi.Handler
}

// NewEventBus returns an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{handlers: make(map[hostapi.EventType][]hostapi.Handler)}
}

func (b *EventBus) Register(t hostapi.EventType, h hostapi.Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[t] = append(b.handlers[t], h)
}

func (b *EventBus) RegisterGlobal(h hostapi.Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.global = append(b.global, h)
}

func (b *EventBus) Publish(ctx context.Context, e hostapi.Event) {
	b.mu.Lock()
	handlers := append([]hostapi.Handler{}, b.handlers[e.Type]...)
	globals := append([]hostapi.Handler{}, b.global...)
	b.mu.Unlock()

	for _, h := range handlers {
		h(ctx, e)
	}
	for _, h := range globals {
		h(ctx, e)
	}
}
