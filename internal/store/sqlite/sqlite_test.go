package sqlite

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jaehui/notisync/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "notisync-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func day(s string) time.Time {
	t, err := time.Parse(models.ISODate, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestCreateAndFind(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	id, err := db.Create(ctx, "Standup", models.DateRange{Start: day("2024-05-01"), End: day("2024-05-02")}, "ev-1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id == "" {
		t.Fatal("empty internal id")
	}

	recs, err := db.FindByExternalID(ctx, "ev-1")
	if err != nil {
		t.Fatalf("FindByExternalID: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("records = %d, want 1", len(recs))
	}
	rec := recs[0]
	if rec.InternalID != id || rec.Title != "Standup" || rec.ExternalID != "ev-1" {
		t.Errorf("record = %+v", rec)
	}
	if got := rec.Dates.Start.Format(models.ISODate); got != "2024-05-01" {
		t.Errorf("start = %s, want 2024-05-01", got)
	}
	if got := rec.Dates.End.Format(models.ISODate); got != "2024-05-02" {
		t.Errorf("end = %s, want 2024-05-02", got)
	}
}

func TestFindUnknownIDIsEmpty(t *testing.T) {
	db := testDB(t)

	recs, err := db.FindByExternalID(context.Background(), "nope")
	if err != nil {
		t.Fatalf("FindByExternalID: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("records = %d, want 0", len(recs))
	}
}

func TestStartOnlyRecordHasNoEnd(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if _, err := db.Create(ctx, "One day", models.DateRange{Start: day("2024-05-01")}, "ev-1"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	recs, err := db.FindByExternalID(ctx, "ev-1")
	if err != nil {
		t.Fatalf("FindByExternalID: %v", err)
	}
	if recs[0].Dates.HasEnd() {
		t.Errorf("end = %v, want none", recs[0].Dates.End)
	}
}

func TestArchiveHidesRecordFromLookup(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	id, err := db.Create(ctx, "Standup", models.DateRange{Start: day("2024-05-01")}, "ev-1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := db.Archive(ctx, id); err != nil {
		t.Fatalf("Archive: %v", err)
	}

	recs, err := db.FindByExternalID(ctx, "ev-1")
	if err != nil {
		t.Fatalf("FindByExternalID: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("archived record still returned: %+v", recs)
	}

	// The row is soft-deleted, not removed.
	var n int
	if err := db.conn.QueryRow(`SELECT count(*) FROM records WHERE external_id = 'ev-1'`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("rows = %d, want 1", n)
	}
}

func TestArchiveUnknownID(t *testing.T) {
	db := testDB(t)
	if err := db.Archive(context.Background(), "999"); err == nil {
		t.Fatal("archiving a missing record should fail")
	}
	if err := db.Archive(context.Background(), "not-a-number"); err == nil {
		t.Fatal("non-numeric internal id should fail")
	}
}
