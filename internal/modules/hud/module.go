// Package hud owns per-player HUD visibility flags and assembles the data a
// host-side HUD would render. Actual widget layout, positioning, and
// drawing are explicitly out of scope; this module only tracks which panels
// a player has toggled on and reads the live values they'd display.
package hud

import (
	"encoding/json"
	"sync"

	"github.com/moshpitcodes/livinglands-core/internal/domain/module"
	"github.com/moshpitcodes/livinglands-core/internal/modules/metabolismwrapper"
	"github.com/moshpitcodes/livinglands-core/internal/moduleruntime"
	"github.com/moshpitcodes/livinglands-core/internal/persistence"
)

const ID = "hud"

// Visibility is the persisted per-player panel toggle set.
type Visibility struct {
	PlayerID      string `json:"playerId"`
	MetabolismBar bool   `json:"metabolismBar"`
	EffectTray    bool   `json:"effectTray"`
	ClaimGrid     bool   `json:"claimGrid"`
}

func defaultVisibility(playerID string) *Visibility {
	return &Visibility{PlayerID: playerID, MetabolismBar: true, EffectTray: true, ClaimGrid: false}
}

// Snapshot is the read-optimized projection a host HUD would poll once per
// frame or on-demand, mirroring the teacher's PrisonerSnapshot split between
// source-of-truth documents and a cheap display-ready view.
type Snapshot struct {
	Visibility
	Hunger float64 `json:"hunger"`
	Thirst float64 `json:"thirst"`
	Energy float64 `json:"energy"`
}

// Module is the HUD aggregator consumer module. It depends on the
// metabolism module to read live vitals directly rather than receiving them
// via a notification, per the per-tick chat-spam tradeoff noted in
// hostservices.Notifications.NotifyVitalsChange.
type Module struct {
	sink       *persistence.FileSink
	metabolism *metabolismwrapper.Module

	mu    sync.Mutex
	flags map[string]*Visibility
}

func New() *Module {
	return &Module{flags: make(map[string]*Visibility)}
}

func (m *Module) Descriptor() module.Descriptor {
	return module.Descriptor{
		ID:           ID,
		Version:      "1.0.0",
		DisplayName:  "HUD",
		Dependencies: []string{metabolismwrapper.ID},
		Enabled:      true,
	}
}

func (m *Module) Setup(ctx *moduleruntime.Context) error {
	m.sink = ctx.Sink
	mod, err := moduleruntime.Get[*metabolismwrapper.Module](ctx.Runtime, metabolismwrapper.ID)
	if err != nil {
		return err
	}
	m.metabolism = mod
	return nil
}

func (m *Module) Start(ctx *moduleruntime.Context) error    { return nil }
func (m *Module) Shutdown(ctx *moduleruntime.Context) error { return nil }

func docID(playerID string) persistence.DocumentID {
	return persistence.DocumentID{Module: ID, Owner: playerID}
}

// Track loads playerID's visibility flags into the in-memory cache.
func (m *Module) Track(playerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.flags[playerID]; ok {
		return
	}
	m.flags[playerID] = m.load(playerID)
}

// Untrack flushes and evicts playerID's visibility flags.
func (m *Module) Untrack(playerID string) {
	m.mu.Lock()
	v, ok := m.flags[playerID]
	delete(m.flags, playerID)
	m.mu.Unlock()
	if ok {
		m.save(playerID, v)
	}
}

func (m *Module) load(playerID string) *Visibility {
	doc, ok, err := m.sink.Load(docID(playerID))
	if err != nil || !ok {
		return defaultVisibility(playerID)
	}
	raw, err := json.Marshal(doc.Fields)
	if err != nil {
		return defaultVisibility(playerID)
	}
	v := defaultVisibility(playerID)
	if err := json.Unmarshal(raw, v); err != nil {
		return defaultVisibility(playerID)
	}
	return v
}

func (m *Module) save(playerID string, v *Visibility) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return
	}
	_ = m.sink.Save(docID(playerID), persistence.Document{SchemaVersion: 1, Fields: fields})
}

// SetVisibility updates and persists one player's panel toggles.
func (m *Module) SetVisibility(playerID string, metabolismBar, effectTray, claimGrid bool) {
	m.mu.Lock()
	v, ok := m.flags[playerID]
	if !ok {
		v = defaultVisibility(playerID)
		m.flags[playerID] = v
	}
	v.MetabolismBar = metabolismBar
	v.EffectTray = effectTray
	v.ClaimGrid = claimGrid
	m.mu.Unlock()

	m.save(playerID, v)
}

// Snapshot assembles the current display-ready view for playerID: stored
// visibility flags plus live vitals read straight from the metabolism
// engine. The second return is false if playerID isn't tracked by this
// module.
func (m *Module) Snapshot(playerID string) (Snapshot, bool) {
	m.mu.Lock()
	v, ok := m.flags[playerID]
	m.mu.Unlock()
	if !ok {
		return Snapshot{}, false
	}

	out := Snapshot{Visibility: *v}
	if data, ok := m.metabolism.Engine().Data(playerID); ok {
		out.Hunger, out.Thirst, out.Energy = data.Snapshot()
	}
	return out, true
}
