package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jaehui/notisync/internal/models"
)

// EventSource is the calendar adapter the runner fetches from. Consumers
// depend on this interface rather than a concrete client so passes can be
// driven from fixtures in tests.
type EventSource interface {
	// Events returns the source's events inside w, cancelled ones
	// included, in the source's own order (start-time ascending).
	Events(ctx context.Context, w Window) ([]models.SourceEvent, error)
}

// Runner ties one pass together: select the window, fetch the batch,
// reconcile it. The record store is queried fresh each pass; nothing is
// cached between runs.
type Runner struct {
	Source     EventSource
	Reconciler *Reconciler
	Windows    WindowSelector
	Logger     *slog.Logger

	// Now is the clock used for window selection; defaults to time.Now.
	Now func() time.Time
}

// Run executes one sync pass. A fetch failure is the only pass-level
// error; everything after the fetch degrades to per-event outcomes.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	now := time.Now()
	if r.Now != nil {
		now = r.Now()
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	w := r.Windows.Select(now)
	logger.Info("starting sync pass",
		slog.Time("time_min", w.Start),
		slog.Time("time_max", w.End),
		slog.String("strategy", r.Windows.Strategy))

	events, err := r.Source.Events(ctx, w)
	if err != nil {
		return Result{}, fmt.Errorf("fetch events: %w", err)
	}
	if len(events) == 0 {
		logger.Info("no events in window")
		return Result{}, nil
	}

	res := r.Reconciler.Reconcile(ctx, events)
	logger.Info("sync pass finished",
		slog.Int("events", len(events)),
		slog.Int("created", res.Created),
		slog.Int("skipped", res.Skipped),
		slog.Int("archived", res.Archived),
		slog.Int("failed", res.Failed))
	return res, nil
}
