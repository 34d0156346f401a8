// Package claims owns the persisted shape of a player's land plots. It
// deliberately implements none of the actual land-claim behavior a host
// would want on top of that — no permission checks on block edits inside a
// plot, no claim-grid UI, no plot-overlap resolution policy. Those are
// explicit non-goals; this module is the document store and nothing more.
// XP suppression for player-placed blocks is owned by the event router's
// ClaimBlockTracking, not duplicated here.
package claims

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"github.com/moshpitcodes/livinglands-core/internal/apperrors"
	"github.com/moshpitcodes/livinglands-core/internal/domain/module"
	"github.com/moshpitcodes/livinglands-core/internal/moduleruntime"
	"github.com/moshpitcodes/livinglands-core/internal/persistence"
)

const ID = "claims"

// Plot is an axis-aligned claimed region in one world, owned by one player.
// Bounds are inclusive on both ends, matching how the host already reports
// block-edit coordinates on BlockEventPayload.
type Plot struct {
	ID            string `json:"id"`
	OwnerPlayerID string `json:"ownerPlayerId"`
	WorldID       string `json:"worldId"`
	MinX          int    `json:"minX"`
	MinY          int    `json:"minY"`
	MinZ          int    `json:"minZ"`
	MaxX          int    `json:"maxX"`
	MaxY          int    `json:"maxY"`
	MaxZ          int    `json:"maxZ"`
}

// ownerIndex is the small document recording which plot ids belong to a
// player, so Plots(ownerID) doesn't require scanning every plot document.
type ownerIndex struct {
	PlotIDs []string `json:"plotIds"`
}

// Module is the claims consumer module: an in-memory plot cache backed by
// two document kinds on the shared FileSink (per-plot documents and a
// per-owner index), in the same owner/fields shape the leveling module
// uses.
type Module struct {
	sink *persistence.FileSink

	mu      sync.Mutex
	plots   map[string]*Plot
	indexes map[string]*ownerIndex
}

func New() *Module {
	return &Module{
		plots:   make(map[string]*Plot),
		indexes: make(map[string]*ownerIndex),
	}
}

func (m *Module) Descriptor() module.Descriptor {
	return module.Descriptor{
		ID:          ID,
		Version:     "1.0.0",
		DisplayName: "Claims",
		Enabled:     true,
	}
}

func (m *Module) Setup(ctx *moduleruntime.Context) error {
	m.sink = ctx.Sink
	return nil
}

func (m *Module) Start(ctx *moduleruntime.Context) error    { return nil }
func (m *Module) Shutdown(ctx *moduleruntime.Context) error { return nil }

func plotDocID(plotID string) persistence.DocumentID {
	return persistence.DocumentID{Module: ID, Owner: "plot/" + plotID}
}

func indexDocID(ownerID string) persistence.DocumentID {
	return persistence.DocumentID{Module: ID, Owner: "index/" + ownerID}
}

// CreatePlot persists a new plot owned by ownerID and returns it.
func (m *Module) CreatePlot(ownerID, worldID string, minX, minY, minZ, maxX, maxY, maxZ int) (Plot, error) {
	p := &Plot{
		ID:            uuid.NewString(),
		OwnerPlayerID: ownerID,
		WorldID:       worldID,
		MinX:          minX, MinY: minY, MinZ: minZ,
		MaxX: maxX, MaxY: maxY, MaxZ: maxZ,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.plots[p.ID] = p
	idx := m.indexFor(ownerID)
	idx.PlotIDs = append(idx.PlotIDs, p.ID)

	if err := m.savePlotLocked(p); err != nil {
		return Plot{}, err
	}
	if err := m.saveIndexLocked(ownerID, idx); err != nil {
		return Plot{}, err
	}
	return *p, nil
}

// DeletePlot removes plotID from its owner's index and from storage.
func (m *Module) DeletePlot(plotID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.plots[plotID]
	if !ok {
		return apperrors.ErrDocumentNotFound
	}
	delete(m.plots, plotID)

	idx := m.indexFor(p.OwnerPlayerID)
	filtered := idx.PlotIDs[:0]
	for _, id := range idx.PlotIDs {
		if id != plotID {
			filtered = append(filtered, id)
		}
	}
	idx.PlotIDs = filtered

	if err := m.saveIndexLocked(p.OwnerPlayerID, idx); err != nil {
		return err
	}
	return m.sink.Delete(plotDocID(plotID))
}

// Plots returns every plot owned by ownerID, loading the owner's index and
// any not-yet-cached plot documents from storage on first access.
func (m *Module) Plots(ownerID string) []Plot {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexFor(ownerID)
	out := make([]Plot, 0, len(idx.PlotIDs))
	for _, id := range idx.PlotIDs {
		if p, ok := m.plots[id]; ok {
			out = append(out, *p)
			continue
		}
		if p, ok := m.loadPlotLocked(id); ok {
			m.plots[id] = p
			out = append(out, *p)
		}
	}
	return out
}

// Contains reports whether (worldID,x,y,z) falls inside any plot ownerID
// owns. Exposed purely as the document-shape query a permission layer built
// on top of this module would need; this module performs no access-control
// decision of its own.
func (m *Module) Contains(ownerID, worldID string, x, y, z int) bool {
	for _, p := range m.Plots(ownerID) {
		if p.WorldID != worldID {
			continue
		}
		if x >= p.MinX && x <= p.MaxX && y >= p.MinY && y <= p.MaxY && z >= p.MinZ && z <= p.MaxZ {
			return true
		}
	}
	return false
}

func (m *Module) indexFor(ownerID string) *ownerIndex {
	if idx, ok := m.indexes[ownerID]; ok {
		return idx
	}
	idx := m.loadIndexLocked(ownerID)
	m.indexes[ownerID] = idx
	return idx
}

func (m *Module) loadIndexLocked(ownerID string) *ownerIndex {
	doc, ok, err := m.sink.Load(indexDocID(ownerID))
	idx := &ownerIndex{}
	if err != nil || !ok {
		return idx
	}
	raw, err := json.Marshal(doc.Fields)
	if err != nil {
		return idx
	}
	_ = json.Unmarshal(raw, idx)
	return idx
}

func (m *Module) saveIndexLocked(ownerID string, idx *ownerIndex) error {
	raw, err := json.Marshal(idx)
	if err != nil {
		return err
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return err
	}
	return m.sink.Save(indexDocID(ownerID), persistence.Document{SchemaVersion: 1, Fields: fields})
}

func (m *Module) loadPlotLocked(plotID string) (*Plot, bool) {
	doc, ok, err := m.sink.Load(plotDocID(plotID))
	if err != nil || !ok {
		return nil, false
	}
	raw, err := json.Marshal(doc.Fields)
	if err != nil {
		return nil, false
	}
	p := &Plot{}
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, false
	}
	return p, true
}

func (m *Module) savePlotLocked(p *Plot) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return err
	}
	return m.sink.Save(plotDocID(p.ID), persistence.Document{SchemaVersion: 1, Fields: fields})
}
