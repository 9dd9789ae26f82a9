// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs background jobs on cron schedules.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/ofolio/internal/auth"
	"github.com/olegiv/ofolio/internal/service"
)

// EveryMinute is the schedule of the scheduled-post publisher.
const EveryMinute = "* * * * *"

// jobTimeout bounds a single job run.
const jobTimeout = 30 * time.Second

// Job is a named unit of background work.
type Job struct {
	Name     string
	Schedule string
	Run      func(ctx context.Context) error
}

// Scheduler handles scheduled jobs such as publishing due posts.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger

	mu   sync.Mutex
	jobs map[string]Job
}

// New creates a new scheduler instance. Schedules are evaluated in UTC.
func New(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		logger: logger,
		jobs:   make(map[string]Job),
	}
}

// Add registers job. The schedule is a standard five-field cron expression.
func (s *Scheduler) Add(job Job) error {
	if job.Name == "" || job.Run == nil {
		return errors.New("job needs a name and a run function")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.jobs[job.Name]; exists {
		return fmt.Errorf("job %q already registered", job.Name)
	}

	if _, err := s.cron.AddFunc(job.Schedule, func() {
		s.run(context.Background(), job)
	}); err != nil {
		return fmt.Errorf("invalid schedule %q for job %q: %w", job.Schedule, job.Name, err)
	}
	s.jobs[job.Name] = job
	return nil
}

// Start begins running the registered jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// RunNow runs the named job immediately and returns its error.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	job, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	return s.run(ctx, job)
}

func (s *Scheduler) run(ctx context.Context, job Job) error {
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	start := time.Now()
	err := job.Run(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "scheduled job failed", "job", job.Name, "error", err)
		return err
	}
	s.logger.DebugContext(ctx, "scheduled job finished", "job", job.Name, "duration", time.Since(start))
	return nil
}

// DuePublisher publishes scheduled posts whose time has come.
type DuePublisher interface {
	PublishDue(ctx context.Context) service.Result[service.BulkResult]
}

// PublishDueJob returns the job that publishes due posts every minute as
// the system actor "system:scheduler".
func PublishDueJob(p DuePublisher, logger *slog.Logger) Job {
	return Job{
		Name:     "publish_scheduled_posts",
		Schedule: EveryMinute,
		Run: func(ctx context.Context) error {
			ctx = auth.WithActor(ctx, auth.SystemActor("scheduler"))
			res := p.PublishDue(ctx)
			if !res.OK {
				return errors.New(res.Message)
			}
			if res.Data.Count > 0 {
				logger.InfoContext(ctx, "published scheduled posts", "count", res.Data.Count, "ids", res.Data.IDs)
			}
			if len(res.Data.Failed) > 0 {
				logger.WarnContext(ctx, "scheduled posts left for the next run", "ids", res.Data.Failed)
			}
			return nil
		},
	}
}
