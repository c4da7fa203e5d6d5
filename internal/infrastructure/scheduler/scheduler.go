package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
)

type Logger interface {
	Infof(template string, args ...interface{})
	Errorf(template string, args ...interface{})
}

type Scheduler struct {
	cron   *cron.Cron
	logger Logger
	ctx    context.Context
}

// New creates a scheduler using 6-field cron specs (with seconds). A run that
// is still going when its next tick arrives makes that tick a no-op.
func New(logger Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		logger: logger,
		ctx:    context.Background(),
	}
}

// AddJob registers job under name. A failing run is logged; it does not
// remove the job from the schedule.
func (s *Scheduler) AddJob(name, spec string, job func(context.Context) error) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.logger.Infof("=== Triggered scheduled %s ===", name)
		if err := job(s.ctx); err != nil {
			s.logger.Errorf("Scheduled %s failed: %v", name, err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	return nil
}

// Start runs jobs in the background with ctx passed to each run.
func (s *Scheduler) Start(ctx context.Context) {
	s.ctx = ctx
	s.cron.Start()
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Run starts the scheduler and blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	s.Start(ctx)
	for _, e := range s.cron.Entries() {
		s.logger.Infof("Next run at %s", e.Next.Format("2006-01-02 15:04:05 MST"))
	}
	<-ctx.Done()
	s.Stop()
}
