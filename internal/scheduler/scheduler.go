// Package scheduler is the framework's heartbeat: a monotonic clock plus a
// set of independently cancellable periodic/one-shot tasks. It generalizes
// the single hardcoded game-tick loop the teacher's engine package used into
// N named tasks so every module gets its own cadence.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/moshpitcodes/livinglands-core/internal/platform/logger"
)

// Clock wraps time.Now behind one type. It is a concrete struct, not an
// interface, so a test cannot substitute a fake clock through it. All reads
// are monotonic per the standard library's own guarantee.
type Clock struct{}

// NewClock returns the system clock.
func NewClock() Clock { return Clock{} }

// Now returns the current time.
func (Clock) Now() time.Time { return time.Now() }

// Task is a unit of scheduled work. It receives the tick time it fired at.
type Task func(at time.Time)

// taskHandle tracks one scheduled task's goroutine and cancellation.
type taskHandle struct {
	name   string
	stop   chan struct{}
	done   chan struct{}
}

// Scheduler owns a set of named periodic or one-shot tasks, each running on
// its own goroutine, matching the teacher's one-ticker-one-goroutine shape
// rather than a single multiplexed loop.
type Scheduler struct {
	clock  Clock
	logger *logger.Logger

	mu      sync.Mutex
	tasks   map[string]*taskHandle
	stopped bool
}

// New creates a Scheduler bound to the given clock and logger.
func New(clock Clock, log *logger.Logger) *Scheduler {
	return &Scheduler{
		clock:  clock,
		logger: log,
		tasks:  make(map[string]*taskHandle),
	}
}

// SchedulePeriodic runs task every interval until Cancel(name) or
// Shutdown is called. A task already registered under name is replaced;
// the previous goroutine is stopped first.
func (s *Scheduler) SchedulePeriodic(name string, interval time.Duration, task Task) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		s.logger.Warn("rejected SchedulePeriodic(" + name + ") after Shutdown")
		return
	}
	if existing, ok := s.tasks[name]; ok {
		close(existing.stop)
		<-existing.done
	}
	h := &taskHandle{name: name, stop: make(chan struct{}), done: make(chan struct{})}
	s.tasks[name] = h
	s.mu.Unlock()

	go func() {
		defer close(h.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-h.stop:
				return
			case at := <-ticker.C:
				s.runSafely(name, task, at)
			}
		}
	}()
}

// ScheduleOnce runs task a single time after delay, unless cancelled first.
func (s *Scheduler) ScheduleOnce(name string, delay time.Duration, task Task) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		s.logger.Warn("rejected ScheduleOnce(" + name + ") after Shutdown")
		return
	}
	if existing, ok := s.tasks[name]; ok {
		close(existing.stop)
		<-existing.done
	}
	h := &taskHandle{name: name, stop: make(chan struct{}), done: make(chan struct{})}
	s.tasks[name] = h
	s.mu.Unlock()

	go func() {
		defer close(h.done)
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-h.stop:
			return
		case at := <-timer.C:
			s.runSafely(name, task, at)
		}
	}()
}

// runSafely recovers a panicking task so one broken module can't take the
// scheduler goroutine down with it.
func (s *Scheduler) runSafely(name string, task Task, at time.Time) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scheduled task panicked", nil)
			s.logger.Event("TASK_PANIC", name, "recovered from panic in scheduled task")
			_ = r
		}
	}()
	task(at)
}

// Cancel stops the named task, if registered. It blocks until the task's
// goroutine has exited.
func (s *Scheduler) Cancel(name string) {
	s.mu.Lock()
	h, ok := s.tasks[name]
	if ok {
		delete(s.tasks, name)
	}
	s.mu.Unlock()

	if !ok {
		return
	}
	close(h.stop)
	<-h.done
}

// Shutdown cancels every task, waiting up to grace for each to exit before
// returning. It does not forcibly kill goroutines past the grace period; it
// simply stops waiting.
func (s *Scheduler) Shutdown(ctx context.Context) {
	s.mu.Lock()
	s.stopped = true
	handles := make([]*taskHandle, 0, len(s.tasks))
	for _, h := range s.tasks {
		handles = append(handles, h)
	}
	s.tasks = make(map[string]*taskHandle)
	s.mu.Unlock()

	for _, h := range handles {
		close(h.stop)
	}
	for _, h := range handles {
		select {
		case <-h.done:
		case <-ctx.Done():
			s.logger.Warn("scheduler shutdown grace period expired for task " + h.name)
		}
	}
}
