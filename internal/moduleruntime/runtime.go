// Package moduleruntime drives module registration, dependency-ordered
// lifecycle transitions, and the inter-module capability lookup consumer
// modules use to find each other. It generalizes the teacher's Engine
// (which owned a fixed, hand-wired list of subsystems) into a registry
// that orders an arbitrary module set by declared dependency.
package moduleruntime

import (
	"fmt"
	"sort"

	"github.com/moshpitcodes/livinglands-core/internal/apperrors"
	"github.com/moshpitcodes/livinglands-core/internal/domain/module"
	"github.com/moshpitcodes/livinglands-core/internal/platform/logger"
	"github.com/moshpitcodes/livinglands-core/internal/platform/metrics"
)

// Module is the interface every consumer module implements. Its concrete Go
// type serves as the capability tag for type-safe downcast via Get[T],
// replacing a sealed class hierarchy with a simple discriminator.
type Module interface {
	Descriptor() module.Descriptor
	Setup(ctx *Context) error
	Start(ctx *Context) error
	Shutdown(ctx *Context) error
}

// entry is the runtime's bookkeeping record for one registered module.
type entry struct {
	mod   Module
	state module.State
}

// Runtime owns every registered module's lifecycle state and the shared
// Context issued to each at setup.
type Runtime struct {
	modules map[string]*entry
	order   []string // topological order, computed by SetupAll

	logger  *logger.Logger
	metrics *metrics.Collector
	context *Context
}

// New creates a Runtime that will hand ctx to every module at setup.
func New(ctx *Context, log *logger.Logger, m *metrics.Collector) *Runtime {
	return &Runtime{
		modules: make(map[string]*entry),
		logger:  log,
		metrics: m,
		context: ctx,
	}
}

// Register stores mod with its declared dependencies. Must be called
// before SetupAll.
func (r *Runtime) Register(mod Module) {
	d := mod.Descriptor()
	r.modules[d.ID] = &entry{mod: mod, state: module.StateDisabled}
}

// Get returns the module registered under id if it matches the requested
// capability tag T, or ErrModuleNotFound / a type-mismatch miss (reported
// the same way, since both are "not available under this tag").
func Get[T Module](r *Runtime, id string) (T, error) {
	var zero T
	e, ok := r.modules[id]
	if !ok {
		return zero, apperrors.ErrModuleNotFound
	}
	typed, ok := e.mod.(T)
	if !ok {
		return zero, apperrors.ErrModuleNotFound
	}
	return typed, nil
}

// IsEnabled reports whether id is registered and its descriptor marks it
// enabled.
func (r *Runtime) IsEnabled(id string) bool {
	e, ok := r.modules[id]
	if !ok {
		return false
	}
	return e.mod.Descriptor().Enabled
}

// State returns the current lifecycle state for id.
func (r *Runtime) State(id string) (module.State, bool) {
	e, ok := r.modules[id]
	if !ok {
		return "", false
	}
	return e.state, true
}

// topoSort computes a dependency order over all registered modules using
// Kahn's algorithm, returning apperrors.ErrDependencyCycle if the graph
// isn't a DAG, or apperrors.ErrMissingDependency if a declared dependency
// was never registered.
func (r *Runtime) topoSort() ([]string, error) {
	ids := make([]string, 0, len(r.modules))
	for id := range r.modules {
		ids = append(ids, id)
	}
	sort.Strings(ids) // deterministic iteration for ties

	indegree := make(map[string]int, len(ids))
	dependents := make(map[string][]string, len(ids))
	for _, id := range ids {
		indegree[id] = 0
	}
	for _, id := range ids {
		deps := r.modules[id].mod.Descriptor().Dependencies
		for _, dep := range deps {
			if _, ok := r.modules[dep]; !ok {
				return nil, fmt.Errorf("module %q depends on unregistered module %q: %w", id, dep, apperrors.ErrMissingDependency)
			}
			dependents[dep] = append(dependents[dep], id)
			indegree[id]++
		}
	}

	var queue []string
	for _, id := range ids {
		if indegree[id] == 0 {
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)

	var order []string
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)

		next := append([]string{}, dependents[id]...)
		sort.Strings(next)
		for _, dep := range next {
			indegree[dep]--
			if indegree[dep] == 0 {
				queue = append(queue, dep)
				sort.Strings(queue)
			}
		}
	}

	if len(order) != len(ids) {
		for _, id := range ids {
			if indegree[id] > 0 {
				return nil, fmt.Errorf("module %q closes a dependency cycle: %w", id, apperrors.ErrDependencyCycle)
			}
		}
		return nil, apperrors.ErrDependencyCycle
	}
	return order, nil
}

// SetupAll orders every registered module by dependency and calls Setup on
// each enabled one in that order. A module's own Setup failure moves it to
// ERROR and is logged, but does not halt setup of unrelated modules.
func (r *Runtime) SetupAll() error {
	order, err := r.topoSort()
	if err != nil {
		return err
	}
	r.order = order

	for _, id := range order {
		e := r.modules[id]
		if !e.mod.Descriptor().Enabled {
			continue
		}
		if depErr := r.dependenciesReady(id); depErr != nil {
			e.state = module.StateError
			r.logger.Error("module "+id+" lifecycle step failed", depErr)
			if r.metrics != nil {
				r.metrics.ModuleStateTransitions.WithLabelValues(id, string(module.StateError)).Inc()
			}
			continue
		}
		next, terr := module.Transition(e.state, module.StateSetup)
		if terr != nil {
			return fmt.Errorf("module %q: %w", id, terr)
		}
		if err := r.runLifecycleStep(id, e, next, e.mod.Setup); err != nil {
			continue // isolated per spec.md: one module's failure doesn't halt the rest
		}
	}
	return nil
}

// dependenciesReady reports whether every dependency of id has completed
// Setup. A dependency that is registered but disabled — and therefore
// never leaves DISABLED — fails this check the same way an unregistered
// one would, per spec.md §4.4's "disabled or unregistered" refusal rule.
func (r *Runtime) dependenciesReady(id string) error {
	for _, dep := range r.modules[id].mod.Descriptor().Dependencies {
		depEntry, ok := r.modules[dep]
		if !ok {
			return fmt.Errorf("module %q depends on unregistered module %q: %w", id, dep, apperrors.ErrMissingDependency)
		}
		if depEntry.state != module.StateSetup && depEntry.state != module.StateStarted {
			return fmt.Errorf("module %q depends on disabled module %q: %w", id, dep, apperrors.ErrMissingDependency)
		}
	}
	return nil
}

// StartAll starts every module currently in SETUP, in the same
// dependency order SetupAll computed.
func (r *Runtime) StartAll() error {
	for _, id := range r.order {
		e := r.modules[id]
		if e.state != module.StateSetup {
			continue
		}
		next, terr := module.Transition(e.state, module.StateStarted)
		if terr != nil {
			return fmt.Errorf("module %q: %w", id, terr)
		}
		_ = r.runLifecycleStep(id, e, next, e.mod.Start)
	}
	return nil
}

// ShutdownAll shuts every module down in reverse dependency order. Each
// module's Shutdown error is logged but never propagated to the caller.
func (r *Runtime) ShutdownAll() {
	for i := len(r.order) - 1; i >= 0; i-- {
		id := r.order[i]
		e := r.modules[id]
		if e.state != module.StateStarted && e.state != module.StateSetup {
			continue
		}
		next, terr := module.Transition(e.state, module.StateStopped)
		if terr != nil {
			r.logger.Warn(fmt.Sprintf("module %q: %s", id, terr.Error()))
			continue
		}
		_ = r.runLifecycleStep(id, e, next, e.mod.Shutdown)
	}
}

// runLifecycleStep invokes step, recovering a panic the way the teacher's
// subsystems trust callers not to produce but a framework-level runtime
// cannot assume away. On error or panic the module moves to ERROR instead
// of the requested next state.
func (r *Runtime) runLifecycleStep(id string, e *entry, next module.State, step func(*Context) error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("module %q panicked: %v", id, rec)
		}
		if err != nil {
			e.state = module.StateError
			r.logger.Error("module "+id+" lifecycle step failed", err)
			if r.metrics != nil {
				r.metrics.ModuleStateTransitions.WithLabelValues(id, string(module.StateError)).Inc()
			}
			return
		}
		e.state = next
		r.logger.Event("MODULE_TRANSITION", id, "-> "+string(next))
		if r.metrics != nil {
			r.metrics.ModuleStateTransitions.WithLabelValues(id, string(next)).Inc()
		}
	}()
	err = step(r.context)
	return err
}
