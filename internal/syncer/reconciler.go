// Package syncer implements the sync core: window selection, date
// normalization, and the per-event reconcile state machine.
package syncer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jaehui/notisync/internal/apperr"
	"github.com/jaehui/notisync/internal/models"
	"github.com/jaehui/notisync/internal/store"
)

// Action is the decision the reconciler took for one event.
type Action string

const (
	// ActionCreated means a new record was persisted.
	ActionCreated Action = "created"
	// ActionSkipped means a record for the external id already exists.
	ActionSkipped Action = "skipped"
	// ActionArchived means the existing record was soft-deleted.
	ActionArchived Action = "archived"
	// ActionNone means a cancelled event had nothing to archive.
	ActionNone Action = "none"
	// ActionFailed means the event could not be processed; Outcome.Err
	// carries the cause.
	ActionFailed Action = "failed"
)

// Outcome records what happened to one source event.
type Outcome struct {
	ExternalID string `json:"external_id"`
	Title      string `json:"title"`
	Action     Action `json:"action"`
	Err        error  `json:"-"`
	Detail     string `json:"detail,omitempty"`
}

// Result aggregates one sync pass. No error aborts a pass: every failure
// is local to its event and surfaces here instead of propagating.
type Result struct {
	Created  int       `json:"created"`
	Skipped  int       `json:"skipped"`
	Archived int       `json:"archived"`
	Failed   int       `json:"failed"`
	Outcomes []Outcome `json:"outcomes"`
}

// Reconciler diffs source events against the record store and applies
// create/skip/archive transitions. It processes events strictly in the
// order given: the duplicate lookup and the create are not atomic, so
// concurrent processing could reintroduce duplicate records.
type Reconciler struct {
	store       store.RecordStore
	logger      *slog.Logger
	placeholder string
}

// NewReconciler creates a Reconciler. placeholder is the title substituted
// for events that arrive without one.
func NewReconciler(st store.RecordStore, logger *slog.Logger, placeholder string) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	if placeholder == "" {
		placeholder = "Untitled"
	}
	return &Reconciler{store: st, logger: logger, placeholder: placeholder}
}

// Reconcile runs one pass over events. Events missing the external id or
// the start value never reach the state machine; they are dropped with a
// debug log and produce no outcome and no store calls.
//
// Re-running Reconcile with the same events against the same store state
// is idempotent: confirmed events that already have a record are skipped,
// and archiving is keyed on the store's own view of what exists.
func (r *Reconciler) Reconcile(ctx context.Context, events []models.SourceEvent) Result {
	var res Result
	for _, ev := range events {
		if !ev.Processable() {
			r.logger.Debug("dropping event without required fields",
				slog.String("external_id", ev.ExternalID),
				slog.String("title", ev.Title))
			continue
		}
		out := r.reconcileOne(ctx, ev)
		res.Outcomes = append(res.Outcomes, out)
		switch out.Action {
		case ActionCreated:
			res.Created++
		case ActionSkipped, ActionNone:
			res.Skipped++
		case ActionArchived:
			res.Archived++
		case ActionFailed:
			res.Failed++
		}
		r.logOutcome(out)
	}
	return res
}

func (r *Reconciler) reconcileOne(ctx context.Context, ev models.SourceEvent) Outcome {
	title := ev.Title
	if title == "" {
		title = r.placeholder
	}
	out := Outcome{ExternalID: ev.ExternalID, Title: title}

	if ev.Cancelled() {
		return r.archive(ctx, out)
	}
	return r.create(ctx, ev, out)
}

// create handles confirmed events: normalize dates, check for an existing
// record, persist when none exists.
func (r *Reconciler) create(ctx context.Context, ev models.SourceEvent, out Outcome) Outcome {
	dates, err := NormalizeDates(ev)
	if err != nil {
		out.Action = ActionFailed
		out.Err = err
		return out
	}

	existing, err := r.store.FindByExternalID(ctx, ev.ExternalID)
	if err != nil {
		// A lookup error is indistinguishable from "no results".
		// Creating here could produce a duplicate, so skip creation
		// and surface the error instead.
		out.Action = ActionFailed
		out.Err = fmt.Errorf("%w: %v", apperr.ErrLookupFailed, err)
		return out
	}
	if len(existing) > 0 {
		out.Action = ActionSkipped
		out.Detail = "already synced"
		return out
	}

	internalID, err := r.store.Create(ctx, out.Title, dates, ev.ExternalID)
	if err != nil {
		out.Action = ActionFailed
		out.Err = fmt.Errorf("%w: %v", apperr.ErrCreateFailed, err)
		return out
	}
	out.Action = ActionCreated
	out.Detail = internalID
	return out
}

// archive handles cancelled events: find the previously synced record and
// mark it archived. Multiple matches mean the store itself holds
// duplicates; the first is used as the archive target.
func (r *Reconciler) archive(ctx context.Context, out Outcome) Outcome {
	existing, err := r.store.FindByExternalID(ctx, out.ExternalID)
	if err != nil {
		out.Action = ActionFailed
		out.Err = fmt.Errorf("%w: %v", apperr.ErrLookupFailed, err)
		return out
	}
	if len(existing) == 0 {
		out.Action = ActionNone
		out.Detail = "nothing to archive"
		return out
	}

	if err := r.store.Archive(ctx, existing[0].InternalID); err != nil {
		out.Action = ActionFailed
		out.Err = fmt.Errorf("%w: %v", apperr.ErrArchiveFailed, err)
		return out
	}
	out.Action = ActionArchived
	out.Detail = existing[0].InternalID
	return out
}

func (r *Reconciler) logOutcome(out Outcome) {
	attrs := []any{
		slog.String("external_id", out.ExternalID),
		slog.String("title", out.Title),
	}
	switch out.Action {
	case ActionCreated:
		r.logger.Info("event synced", attrs...)
	case ActionSkipped:
		r.logger.Info("duplicate event skipped", attrs...)
	case ActionArchived:
		r.logger.Info("cancelled event archived", attrs...)
	case ActionNone:
		r.logger.Warn("nothing to archive for cancelled event", attrs...)
	case ActionFailed:
		r.logger.Error("event sync failed", append(attrs, slog.String("error", out.Err.Error()))...)
	}
}
