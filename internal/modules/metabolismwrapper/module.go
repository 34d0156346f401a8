// Package metabolismwrapper is the thin moduleruntime.Module adapter that
// registers the metabolism engine with the runtime and exposes its vitals
// to the other consumer modules through a narrow public interface, rather
// than letting them reach into internal/metabolism directly.
package metabolismwrapper

import (
	"time"

	"github.com/moshpitcodes/livinglands-core/internal/domain/module"
	"github.com/moshpitcodes/livinglands-core/internal/hostapi"
	"github.com/moshpitcodes/livinglands-core/internal/metabolism"
	"github.com/moshpitcodes/livinglands-core/internal/moduleruntime"
)

const ID = "metabolism"

// Module wraps a *metabolism.Engine as a runtime module.
type Module struct {
	engine *metabolism.Engine
	assets hostapi.AssetMap
}

// New creates the metabolism module. The engine itself is constructed in
// Setup (not injected) since it needs the Context's scheduler/sessions/logger,
// which are only available there.
func New(assets hostapi.AssetMap) *Module {
	return &Module{assets: assets}
}

func (m *Module) Descriptor() module.Descriptor {
	return module.Descriptor{
		ID:          ID,
		Version:     "1.0.0",
		DisplayName: "Metabolism",
		Enabled:     true,
	}
}

func (m *Module) Setup(ctx *moduleruntime.Context) error {
	m.engine = metabolism.New(ctx.Sessions, ctx.Scheduler, m.assets, ctx.Logger, nil, nil)
	return nil
}

func (m *Module) Start(ctx *moduleruntime.Context) error {
	m.engine.Start()
	return nil
}

func (m *Module) Shutdown(ctx *moduleruntime.Context) error {
	m.engine.Shutdown()
	return nil
}

// Engine exposes the underlying metabolism engine for other modules that
// declare a dependency on this one (hud reads vitals for display).
func (m *Module) Engine() *metabolism.Engine {
	return m.engine
}

// Track begins tracking playerID; called by the composition root on
// session register.
func (m *Module) Track(playerID string) {
	m.engine.Track(playerID, time.Now())
}

// Untrack stops tracking playerID; called on session unregister.
func (m *Module) Untrack(playerID string) {
	m.engine.Untrack(playerID)
}
