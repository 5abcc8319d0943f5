// Package models defines the domain types for notisync.
package models

import "time"

// EventStatus is the lifecycle state reported by the calendar source.
type EventStatus string

// Statuses reported by the calendar source. Anything that is not
// cancelled is treated as an active event.
const (
	StatusConfirmed EventStatus = "confirmed"
	StatusCancelled EventStatus = "cancelled"
)

// SourceEvent is one calendar occurrence as returned by the event source.
// Start/End are kept raw because the source mixes date-only values
// ("2006-01-02") and RFC 3339 date-times; normalization happens in the
// reconciler, not at the adapter boundary.
type SourceEvent struct {
	ExternalID string      `json:"external_id"`
	Title      string      `json:"title,omitempty"`
	StartRaw   string      `json:"start_raw"`
	EndRaw     string      `json:"end_raw,omitempty"`
	Status     EventStatus `json:"status"`
}

// Processable reports whether the event carries the fields required to
// enter the sync state machine. Events without a stable id or a start
// value are dropped silently.
func (e SourceEvent) Processable() bool {
	return e.ExternalID != "" && e.StartRaw != ""
}

// Cancelled reports whether the event was deleted at the source.
func (e SourceEvent) Cancelled() bool {
	return e.Status == StatusCancelled
}

// DateRange is a normalized calendar date range. Start and End hold
// midnight UTC of the calendar date; time-of-day has already been
// discarded. A zero End means the range is a single day.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end,omitempty"`
}

// HasEnd reports whether the range spans more than one day.
func (r DateRange) HasEnd() bool {
	return !r.End.IsZero()
}

// ISODate is the wire format for calendar dates.
const ISODate = "2006-01-02"

// SyncedRecord is one row in the record store representing a previously
// synced event. InternalID is the store-assigned key; ExternalID mirrors
// SourceEvent.ExternalID and is the dedup key.
type SyncedRecord struct {
	InternalID string    `json:"internal_id"`
	ExternalID string    `json:"external_id"`
	Title      string    `json:"title"`
	Dates      DateRange `json:"dates"`
	Archived   bool      `json:"archived"`
}
