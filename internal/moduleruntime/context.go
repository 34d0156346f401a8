package moduleruntime

import (
	"github.com/moshpitcodes/livinglands-core/internal/hostapi"
	"github.com/moshpitcodes/livinglands-core/internal/persistence"
	"github.com/moshpitcodes/livinglands-core/internal/platform/logger"
	"github.com/moshpitcodes/livinglands-core/internal/scheduler"
	"github.com/moshpitcodes/livinglands-core/internal/session"
)

// Context is issued once per module at setup and held for the module's
// entire lifetime, mirroring the teacher's Engine holding shared
// eventLog/logger/ticker references that every subsystem constructor took
// by pointer. The Runtime that created it outlives every module.
type Context struct {
	Logger   *logger.Logger
	Root     string // plugin/module root directory for config and document storage
	Bus      hostapi.EventBus
	Sessions *session.Registry
	Sink     *persistence.FileSink
	Clock    scheduler.Clock
	Scheduler *scheduler.Scheduler
	Runtime  *Runtime
}

// WithModuleLogger returns a copy of the context whose Logger is tagged
// with the given module id, so every log line a module emits is
// attributable without that module having to do the tagging itself.
func (c *Context) WithModuleLogger(moduleID string) *Context {
	cp := *c
	cp.Logger = c.Logger.With("module", moduleID)
	return &cp
}
