package scheduler

import (
	"github.com/robfig/cron/v3"

	"github.com/moshpitcodes/livinglands-core/internal/platform/logger"
)

// CronSchedule layers calendar-style jobs (e.g. "run at 03:00 every day")
// on top of the Scheduler's interval primitives. Its one user is the
// composition root in cmd/livinglands-server, for the nightly
// claim-tracking janitor that logs the tracker's size; it is not a
// substitute for
// SchedulePeriodic/ScheduleOnce, which cover sub-day cadences.
type CronSchedule struct {
	c      *cron.Cron
	logger *logger.Logger
}

// NewCronSchedule starts a cron runner. Call Stop to release its goroutine.
func NewCronSchedule(log *logger.Logger) *CronSchedule {
	return &CronSchedule{
		c:      cron.New(),
		logger: log,
	}
}

// AddFunc registers task under the given standard five-field cron spec.
// Returns false if spec failed to parse; the job is not scheduled in that
// case.
func (cs *CronSchedule) AddFunc(spec string, task func()) bool {
	_, err := cs.c.AddFunc(spec, func() {
		defer func() {
			if r := recover(); r != nil {
				cs.logger.Error("cron job panicked", nil)
				_ = r
			}
		}()
		task()
	})
	if err != nil {
		cs.logger.Error("invalid cron spec "+spec, err)
		return false
	}
	return true
}

// Start begins running scheduled cron jobs in their own goroutine.
func (cs *CronSchedule) Start() {
	cs.c.Start()
}

// Stop halts the cron runner and waits for any in-flight job to finish.
func (cs *CronSchedule) Stop() {
	ctx := cs.c.Stop()
	<-ctx.Done()
}
