// Package store defines the record-store abstraction the reconciler
// drives. Implementations live in the notion and sqlite subpackages.
package store

import (
	"context"

	"github.com/jaehui/notisync/internal/models"
)

// RecordStore is the interface for synced-record persistence. The
// reconciler is the only writer; it enforces the at-most-one-active-record
// per external id invariant, the store just executes the calls.
type RecordStore interface {
	// FindByExternalID returns the non-archived records whose external id
	// equals id, empty when none exist. Store-side duplicates are
	// tolerated: callers treat one-or-more as "exists".
	FindByExternalID(ctx context.Context, id string) ([]models.SyncedRecord, error)
	// Create persists a new record and returns the store-assigned
	// internal id.
	Create(ctx context.Context, title string, dates models.DateRange, externalID string) (string, error)
	// Archive soft-deletes the record with the given internal id. The
	// record is never physically removed.
	Archive(ctx context.Context, internalID string) error
}
