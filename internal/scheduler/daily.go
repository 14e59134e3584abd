// Package scheduler runs the daily reminder job on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Job is run once per tick. It must be safe to run again for the same day.
type Job interface {
	RunDaily(ctx context.Context) (int, error)
}

// Scheduler fires Job on a standard five-field cron spec evaluated in UTC.
// Overlapping runs are skipped and panics are recovered.
type Scheduler struct {
	cron    *cron.Cron
	entry   cron.EntryID
	job     Job
	timeout time.Duration
	logger  *logrus.Logger
}

func New(spec string, job Job, timeout time.Duration, logger *logrus.Logger) (*Scheduler, error) {
	clog := cron.PrintfLogger(logger)
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.Recover(clog), cron.SkipIfStillRunning(clog)),
	)
	s := &Scheduler{cron: c, job: job, timeout: timeout, logger: logger}
	id, err := c.AddFunc(spec, func() { s.RunOnce(context.Background()) })
	if err != nil {
		return nil, fmt.Errorf("parse cron spec %q: %w", spec, err)
	}
	s.entry = id
	return s, nil
}

// RunOnce runs the job now, bounded by the configured timeout.
func (s *Scheduler) RunOnce(ctx context.Context) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	start := time.Now()
	n, err := s.job.RunDaily(ctx)
	entry := s.logger.WithFields(logrus.Fields{"created": n, "took_ms": time.Since(start).Milliseconds()})
	if err != nil {
		entry.WithError(err).Error("daily reminder run finished with errors")
		return
	}
	entry.Info("daily reminder run finished")
}

// Next returns the first fire time after t.
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.cron.Entry(s.entry).Schedule.Next(t)
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.WithField("next", s.Next(time.Now()).Format(time.RFC3339)).Info("reminder scheduler started")
}

// Stop stops scheduling and waits for a running job until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("reminder job still running at shutdown")
	}
}
