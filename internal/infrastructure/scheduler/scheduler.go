// Package scheduler runs background jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	appctx "coopledger/internal/core/context"
	"coopledger/pkg/logger"
)

// Job is a unit of background work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// JobFunc adapts a function to Job.
type JobFunc struct {
	JobName string
	Fn      func(ctx context.Context) error
}

func (j JobFunc) Name() string                  { return j.JobName }
func (j JobFunc) Run(ctx context.Context) error { return j.Fn(ctx) }

// Scheduler manages background jobs.
type Scheduler struct {
	cron    *cron.Cron
	log     *logger.Logger
	ctx     context.Context
	timeout time.Duration
}

// New creates a scheduler. Jobs run with ctx as parent and are cut off
// after timeout.
func New(ctx context.Context, log *logger.Logger, timeout time.Duration) *Scheduler {
	log = log.WithComponent("scheduler")
	ctx = logger.WithLogger(ctx, log)
	ctx = appctx.WithActor(ctx, &appctx.Actor{StaffName: appctx.DefaultStaffName, Source: "worker"})
	return &Scheduler{
		// SkipIfStillRunning keeps a slow run from overlapping the next tick.
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		log:     log,
		ctx:     ctx,
		timeout: timeout,
	}
}

// Start starts the scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started")
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// AddJob registers job under a cron schedule, for example "5 0 * * *",
// "@hourly" or "@every 5s".
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		_ = s.RunNow(job)
	})
	if err != nil {
		return fmt.Errorf("schedule %s: %w", job.Name(), err)
	}

	s.log.Infow("job registered", "job", job.Name(), "schedule", schedule)
	return nil
}

// RunNow executes job immediately, outside its schedule.
func (s *Scheduler) RunNow(job Job) error {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	start := time.Now()
	err := job.Run(ctx)
	if err != nil {
		s.log.Errorw("job failed", "job", job.Name(), "error", err)
		return err
	}
	s.log.Debugw("job completed", "job", job.Name(), "took_ms", time.Since(start).Milliseconds())
	return nil
}

// Entries returns the number of registered jobs.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
