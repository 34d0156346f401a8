// Package leveling owns the persisted leveling profile document and awards
// block-break XP through the router.LevelingDispatcher interface. XP curves,
// level thresholds, and any notion of "level up" are explicitly out of
// scope; this module only accumulates counters the profile document holds.
package leveling

import (
	"encoding/json"
	"sync"

	"github.com/moshpitcodes/livinglands-core/internal/domain/module"
	"github.com/moshpitcodes/livinglands-core/internal/moduleruntime"
	"github.com/moshpitcodes/livinglands-core/internal/persistence"
)

const ID = "leveling"

// blockBreakXP is the flat XP amount awarded per recognized block break.
// Not a curve, not configurable per item: a single constant, since scaling
// XP by block rarity is the kind of leveling-curve design this framework
// deliberately leaves to the host.
const blockBreakXP = 1

// ProfessionProgress tracks one profession's accumulated counters. The
// profession name itself is derived from the broken block's type by
// classifyProfession, a flat lookup table, not a skill tree.
type ProfessionProgress struct {
	BlocksBroken int `json:"blocksBroken"`
	XpEarned     int `json:"xpEarned"`
}

// Profile is the document this module owns, one per player.
type Profile struct {
	PlayerID      string                        `json:"playerId"`
	HudEnabled    bool                          `json:"hudEnabled"`
	TotalXpEarned int                           `json:"totalXpEarned"`
	Professions   map[string]ProfessionProgress `json:"professions"`
}

func newProfile(playerID string) *Profile {
	return &Profile{
		PlayerID:    playerID,
		HudEnabled:  true,
		Professions: make(map[string]ProfessionProgress),
	}
}

// Module is the leveling consumer module: a thin moduleruntime.Module
// wrapping an in-memory profile cache backed by a persistence.FileSink,
// mirroring the teacher's cmd/jail-server wiring of one concrete system per
// domain concern.
type Module struct {
	sink *persistence.FileSink

	mu       sync.Mutex
	profiles map[string]*Profile
}

func New() *Module {
	return &Module{profiles: make(map[string]*Profile)}
}

func (m *Module) Descriptor() module.Descriptor {
	return module.Descriptor{
		ID:          ID,
		Version:     "1.0.0",
		DisplayName: "Leveling",
		Enabled:     true,
	}
}

func (m *Module) Setup(ctx *moduleruntime.Context) error {
	m.sink = ctx.Sink
	return nil
}

func (m *Module) Start(ctx *moduleruntime.Context) error {
	return nil
}

func (m *Module) Shutdown(ctx *moduleruntime.Context) error {
	return nil
}

func (m *Module) documentID(playerID string) persistence.DocumentID {
	return persistence.DocumentID{Module: ID, Owner: playerID}
}

// Track loads (or creates) playerID's profile into the in-memory cache, in
// the same spirit as the metabolism engine's Track: called on session
// register.
func (m *Module) Track(playerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[playerID]; ok {
		return
	}
	m.profiles[playerID] = m.load(playerID)
}

// Untrack flushes and evicts playerID's profile from the in-memory cache,
// called on session unregister.
func (m *Module) Untrack(playerID string) {
	m.mu.Lock()
	p, ok := m.profiles[playerID]
	delete(m.profiles, playerID)
	m.mu.Unlock()
	if ok {
		m.save(playerID, p)
	}
}

func (m *Module) load(playerID string) *Profile {
	doc, ok, err := m.sink.Load(m.documentID(playerID))
	if err != nil || !ok {
		return newProfile(playerID)
	}
	raw, err := json.Marshal(doc.Fields)
	if err != nil {
		return newProfile(playerID)
	}
	p := newProfile(playerID)
	if err := json.Unmarshal(raw, p); err != nil {
		return newProfile(playerID)
	}
	if p.Professions == nil {
		p.Professions = make(map[string]ProfessionProgress)
	}
	return p
}

func (m *Module) save(playerID string, p *Profile) {
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return
	}
	_ = m.sink.Save(m.documentID(playerID), persistence.Document{SchemaVersion: 1, Fields: fields})
}

// Profile returns a copy of playerID's current profile; false if playerID
// is not tracked.
func (m *Module) Profile(playerID string) (Profile, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[playerID]
	if !ok {
		return Profile{}, false
	}
	return *p, true
}

// AwardBlockBreakXP implements router.LevelingDispatcher. It is a no-op for
// an untracked player (session not registered with this module yet).
func (m *Module) AwardBlockBreakXP(playerID string, blockType string) {
	profession := classifyProfession(blockType)

	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[playerID]
	if !ok {
		return
	}
	progress := p.Professions[profession]
	progress.BlocksBroken++
	progress.XpEarned += blockBreakXP
	p.Professions[profession] = progress
	p.TotalXpEarned += blockBreakXP

	m.save(playerID, p)
}

// classifyProfession maps a block type id to a profession bucket. This is a
// flat lookup, not a skill tree: any block type not recognized falls into a
// single "GENERAL" bucket.
func classifyProfession(blockType string) string {
	switch {
	case hasAnyPrefix(blockType, "ORE_", "STONE_", "COBBLESTONE"):
		return "MINING"
	case hasAnyPrefix(blockType, "LOG_", "WOOD_", "PLANKS_"):
		return "WOODCUTTING"
	case hasAnyPrefix(blockType, "CROP_", "WHEAT", "CARROT", "POTATO"):
		return "FARMING"
	default:
		return "GENERAL"
	}
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if len(s) >= len(p) && s[:len(p)] == p {
			return true
		}
	}
	return false
}
