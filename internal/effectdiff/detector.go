package effectdiff

import (
	"sync"
	"time"

	"github.com/moshpitcodes/livinglands-core/internal/hostapi"
)

// CleanupInterval is the default cool-down before a processed effect index
// may be re-detected, matching spec.md's 200 ms default.
const CleanupInterval = 200 * time.Millisecond

// DetectedEffect is one newly-applied effect emitted by the detector.
type DetectedEffect struct {
	Index int
	ID    string
	Tier  Tier
	Kind  Kind
}

// playerState is one player's detector bookkeeping: the indices seen last
// tick, and recently-processed indices keyed to their eviction deadline —
// the same timestamp-keyed map-with-eviction shape the teacher's
// ChaosSystem.delayedEvents uses for its own deferred-reveal mechanic.
type playerState struct {
	previous  map[int]struct{}
	processed map[int]time.Time // index -> eviction deadline
}

// Detector tracks per-player effect state across ticks. It never touches
// the host directly; callers supply the current index set and an
// AssetMap-resolved id for each, having already done that work on the
// world thread.
type Detector struct {
	mu      sync.Mutex
	players map[string]*playerState
	now     func() time.Time
}

// New creates an empty Detector using the system clock.
func New() *Detector {
	return &Detector{
		players: make(map[string]*playerState),
		now:     time.Now,
	}
}

func (d *Detector) stateFor(playerID string) *playerState {
	s, ok := d.players[playerID]
	if !ok {
		s = &playerState{
			previous:  make(map[int]struct{}),
			processed: make(map[int]time.Time),
		}
		d.players[playerID] = s
	}
	return s
}

// Active is one currently-active effect as reported by the host, already
// resolved to its string id.
type Active struct {
	Index int
	ID    string
}

// Detect processes one tick's worth of active effects for playerID and
// returns the subset that are newly-applied per spec.md's emission rule.
// Only ids effectdiff.IsRecognizedConsumable (or a debuff prefix) resolves
// are considered; anything else is tracked for ongoing-ness only, never
// emitted.
func (d *Detector) Detect(playerID string, active []Active) []DetectedEffect {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := d.stateFor(playerID)
	now := d.now()
	d.evictExpired(s, now)

	currentSet := make(map[int]struct{}, len(active))
	var emitted []DetectedEffect

	for _, a := range active {
		currentSet[a.Index] = struct{}{}

		if _, seen := s.previous[a.Index]; seen {
			continue
		}
		if _, processing := s.processed[a.Index]; processing {
			continue
		}

		_, isDebuff := DeriveDebuffKind(a.ID)
		if !IsRecognizedConsumable(a.ID) && !isDebuff {
			continue
		}

		emitted = append(emitted, DetectedEffect{
			Index: a.Index,
			ID:    a.ID,
			Tier:  DeriveTier(a.ID),
			Kind:  DeriveKind(a.ID),
		})
		s.processed[a.Index] = now.Add(CleanupInterval)
	}

	s.previous = currentSet
	return emitted
}

// evictExpired drops processed-index entries whose cool-down has elapsed,
// permitting re-detection of repeated consumptions of the same effect.
func (d *Detector) evictExpired(s *playerState, now time.Time) {
	for idx, deadline := range s.processed {
		if !now.Before(deadline) {
			delete(s.processed, idx)
		}
	}
}

// Forget drops all detector state for playerID, called on session
// unregister so the map doesn't grow unbounded across player churn.
func (d *Detector) Forget(playerID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.players, playerID)
}

// ResolveActive reads an EffectController and AssetMap on the world
// thread — the only place those two interfaces may be touched — and
// returns the resolved Active slice ready for Detect. Indices the
// AssetMap can't resolve are dropped silently: nothing is logged, and the
// caller is not told which indices were missing.
func ResolveActive(ctrl hostapi.EffectController, assets hostapi.AssetMap) []Active {
	raw := ctrl.ActiveEffects()
	out := make([]Active, 0, len(raw))
	for _, e := range raw {
		ref, ok := assets.Resolve(e.Index)
		if !ok {
			continue
		}
		out = append(out, Active{Index: e.Index, ID: ref.ID})
	}
	return out
}
