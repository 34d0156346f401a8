// Package hostapi defines the boundary between this framework and the host
// voxel game's entity-component runtime. Everything in this package is an
// interface or a plain data type the host binding must supply; nothing here
// touches the host's concrete types directly, per the "reflective field
// extraction" re-architecture note in the spec's design notes.
package hostapi

import "context"

// EntityRef is an opaque, host-assigned handle to a live entity. It may
// become invalid at any time; every consumer re-validates defensively
// rather than trusting a cached reference.
type EntityRef interface {
	// Valid reports whether the entity this reference names is still alive.
	Valid() bool
}

// EntityStore resolves components by entity reference. A nil return means
// the component is absent; callers must not treat that as an error.
type EntityStore interface {
	GetComponent(ref EntityRef, componentType string) any
}

// WorldHandle identifies the specific world/dimension a player's entity
// currently occupies. Opaque to this framework.
type WorldHandle interface {
	ID() string
}

// WorldDispatcher is the host's single simulation thread. Execute is
// fire-and-forget: it schedules the closure to run on the world thread and
// returns immediately, with no completion signal. Callers must tolerate the
// closure running against entities that are no longer valid.
type WorldDispatcher interface {
	Execute(fn func())
}

// ActiveEffect is one entry reported by an EffectController.
type ActiveEffect struct {
	Index             int
	IsDebuff          bool
	RemainingDuration float64
	InitialDuration   float64
}

// EffectController exposes the set of effects currently active on a
// player's entity. Reads must happen on the world thread.
type EffectController interface {
	ActiveEffects() []ActiveEffect
}

// AssetRef is the string identity of a resolved game asset (an effect,
// item, or sound).
type AssetRef struct {
	ID string
}

// AssetMap resolves a numeric effect/asset index to its string identity.
// A false second return means the index is unknown; effectdiff.ResolveActive
// skips such indices without logging them.
type AssetMap interface {
	Resolve(index int) (AssetRef, bool)
}

// PlayerNetworkHandle is the host's per-player network/connection handle,
// one of the five lazily-populated ECS handles on a PlayerSession.
type PlayerNetworkHandle interface {
	SendChat(message string)
	PlaySound(soundID string)
	ShowTitle(title, subtitle string)
}

// PlayerEntityHandle exposes host-side player entity queries that do not
// fit EntityStore's generic component lookup (game-mode, movement state).
type PlayerEntityHandle interface {
	IsCreative() bool
	MovementStates() MovementStates
}

// MovementStates is the activity snapshot read once per slow tick.
type MovementStates struct {
	Sprinting bool
	Swimming  bool
	InCombat  bool
}

// EventType identifies a category of host event delivered over the event
// bus (entity lifecycle, block, damage, kill).
type EventType string

const (
	EventEntityRemove    EventType = "ENTITY_REMOVE"
	EventAddPlayerWorld  EventType = "ADD_PLAYER_TO_WORLD"
	EventKillFeed        EventType = "KILL_FEED"
	EventBlockPlace      EventType = "BLOCK_PLACE"
	EventBlockBreak      EventType = "BLOCK_BREAK"
	EventPickup          EventType = "PICKUP"
	EventDamage          EventType = "DAMAGE"
	EventPlayerConnect   EventType = "PLAYER_CONNECT"
	EventPlayerReady     EventType = "PLAYER_READY"
	EventPlayerDisconnect EventType = "PLAYER_DISCONNECT"
)

// Event is the envelope delivered by the host's event bus.
type Event struct {
	Type     EventType
	PlayerID [16]byte // player identifier, 128-bit per spec.md
	Payload  any
}

// Handler processes one delivered Event.
type Handler func(ctx context.Context, e Event)

// EventBus is the host's event delivery mechanism. Register binds a handler
// to one event type; RegisterGlobal binds a handler invoked for every event.
type EventBus interface {
	Register(t EventType, h Handler)
	RegisterGlobal(h Handler)
	Publish(ctx context.Context, e Event)
}
