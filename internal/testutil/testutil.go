// Package testutil provides shared test fakes: an in-memory record store
// with failure injection and a fixed-batch event source.
package testutil

import (
	"context"
	"strconv"
	"sync"

	"github.com/jaehui/notisync/internal/models"
	"github.com/jaehui/notisync/internal/store"
	"github.com/jaehui/notisync/internal/syncer"
)

// MemStore is an in-memory RecordStore. Calls are counted and any
// operation can be made to fail by setting the corresponding error.
type MemStore struct {
	mu      sync.Mutex
	nextID  int
	Records []models.SyncedRecord

	FindErr    error
	CreateErr  error
	ArchiveErr error

	FindCalls    int
	CreateCalls  int
	ArchiveCalls int
}

var _ store.RecordStore = (*MemStore)(nil)

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{nextID: 1}
}

// Seed adds a non-archived record, bypassing call counting.
func (s *MemStore) Seed(title, externalID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := strconv.Itoa(s.nextID)
	s.nextID++
	s.Records = append(s.Records, models.SyncedRecord{
		InternalID: id,
		ExternalID: externalID,
		Title:      title,
	})
	return id
}

// FindByExternalID returns the non-archived records for id.
func (s *MemStore) FindByExternalID(_ context.Context, id string) ([]models.SyncedRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FindCalls++
	if s.FindErr != nil {
		return nil, s.FindErr
	}
	var out []models.SyncedRecord
	for _, rec := range s.Records {
		if rec.ExternalID == id && !rec.Archived {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Create appends a record and returns its internal id.
func (s *MemStore) Create(_ context.Context, title string, dates models.DateRange, externalID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CreateCalls++
	if s.CreateErr != nil {
		return "", s.CreateErr
	}
	id := strconv.Itoa(s.nextID)
	s.nextID++
	s.Records = append(s.Records, models.SyncedRecord{
		InternalID: id,
		ExternalID: externalID,
		Title:      title,
		Dates:      dates,
	})
	return id, nil
}

// Archive marks the record with internalID archived.
func (s *MemStore) Archive(_ context.Context, internalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ArchiveCalls++
	if s.ArchiveErr != nil {
		return s.ArchiveErr
	}
	for i := range s.Records {
		if s.Records[i].InternalID == internalID {
			s.Records[i].Archived = true
			return nil
		}
	}
	return nil
}

// Active returns the non-archived records for an external id.
func (s *MemStore) Active(externalID string) []models.SyncedRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.SyncedRecord
	for _, rec := range s.Records {
		if rec.ExternalID == externalID && !rec.Archived {
			out = append(out, rec)
		}
	}
	return out
}

// Snapshot returns a copy of all records, archived included.
func (s *MemStore) Snapshot() []models.SyncedRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.SyncedRecord, len(s.Records))
	copy(out, s.Records)
	return out
}

// StaticSource is an EventSource returning a fixed batch.
type StaticSource struct {
	Batch []models.SourceEvent
	Err   error
}

var _ syncer.EventSource = (*StaticSource)(nil)

// Events returns the fixed batch regardless of the window.
func (s *StaticSource) Events(context.Context, syncer.Window) ([]models.SourceEvent, error) {
	return s.Batch, s.Err
}
