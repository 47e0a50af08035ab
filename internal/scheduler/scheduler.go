// Package scheduler posts a periodic digest of the newest saved search.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/rewired-gh/boligpris/internal/history"
	"github.com/rewired-gh/boligpris/internal/logger"
	"github.com/rewired-gh/boligpris/internal/models"
	"github.com/rewired-gh/boligpris/internal/query"
	"github.com/rewired-gh/boligpris/internal/session"
)

// Notifier delivers a rendered series.
type Notifier interface {
	SendChart(category models.Category, result models.SeriesResult) error
}

// Scheduler re-runs the newest history entry on a cron schedule.
type Scheduler struct {
	Cron     *cron.Cron
	builder  *query.Builder
	fetcher  session.Fetcher
	recorder *history.Recorder
	notifier Notifier
	ctx      context.Context
}

// New creates a scheduler. The builder should carry its own navigator so
// digest runs do not touch the interactive session's query params.
func New(ctx context.Context, builder *query.Builder, fetcher session.Fetcher, recorder *history.Recorder, notifier Notifier) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(),
		builder:  builder,
		fetcher:  fetcher,
		recorder: recorder,
		notifier: notifier,
		ctx:      ctx,
	}
}

// Register adds the digest job using a standard 5-field cron expression.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.digestTask); err != nil {
		return fmt.Errorf("register digest task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	logger.Info("Scheduler started")
}

// Stop stops the scheduler and waits for a running digest to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	logger.Info("Scheduler stopped")
}

func (s *Scheduler) digestTask() {
	logger.Info("Running digest")
	if err := s.RunDigest(s.ctx); err != nil {
		logger.Error("Digest failed: %v", err)
	}
}

// RunDigest fetches the newest saved search and hands the result to the
// notifier. An empty history is not an error.
func (s *Scheduler) RunDigest(ctx context.Context) error {
	rec, ok := s.recorder.Latest()
	if !ok {
		logger.Info("History is empty, no digest to send")
		return nil
	}

	q, err := s.builder.Build(rec.Selection())
	if err != nil {
		return fmt.Errorf("saved search %v is unusable: %w", rec, err)
	}

	ds, err := s.fetcher.Query(ctx, q.Payload)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", q.RangeLabel(), err)
	}

	p := session.NewProjector()
	p.Apply(p.Issue(), q.Category, q.Periods, ds)

	if err := s.notifier.SendChart(q.Category, p.Result()); err != nil {
		return fmt.Errorf("failed to send digest: %w", err)
	}
	logger.Info("Digest sent for %s (%s)", q.RangeLabel(), q.Category.Label)
	return nil
}
