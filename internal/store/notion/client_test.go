package notion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jaehui/notisync/internal/models"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	c := New("secret-token", "db-123", PropertyNames{})
	c.BaseURL = ts.URL
	c.HTTP = ts.Client()
	return c
}

func day(s string) time.Time {
	t, err := time.Parse(models.ISODate, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestFindByExternalID(t *testing.T) {
	var gotPath, gotAuth, gotVersion string
	var gotBody map[string]any

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotVersion = r.Header.Get("Notion-Version")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		_, _ = w.Write([]byte(`{
			"results": [{
				"id": "page-1",
				"archived": false,
				"properties": {
					"Name": {"title": [{"plain_text": "Standup"}]},
					"Date": {"date": {"start": "2024-05-01", "end": "2024-05-02"}},
					"event_id": {"rich_text": [{"plain_text": "ev-1"}]}
				}
			}]
		}`))
	})

	recs, err := c.FindByExternalID(context.Background(), "ev-1")
	if err != nil {
		t.Fatalf("FindByExternalID: %v", err)
	}

	if gotPath != "/databases/db-123/query" {
		t.Errorf("path = %s", gotPath)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("authorization = %q", gotAuth)
	}
	if gotVersion != apiVersion {
		t.Errorf("notion version = %q, want %q", gotVersion, apiVersion)
	}

	filter, _ := gotBody["filter"].(map[string]any)
	if filter["property"] != "event_id" {
		t.Errorf("filter property = %v, want event_id", filter["property"])
	}
	rt, _ := filter["rich_text"].(map[string]any)
	if rt["equals"] != "ev-1" {
		t.Errorf("filter equals = %v, want ev-1", rt["equals"])
	}

	if len(recs) != 1 {
		t.Fatalf("records = %d, want 1", len(recs))
	}
	rec := recs[0]
	if rec.InternalID != "page-1" || rec.ExternalID != "ev-1" || rec.Title != "Standup" {
		t.Errorf("record = %+v", rec)
	}
	if got := rec.Dates.Start.Format(models.ISODate); got != "2024-05-01" {
		t.Errorf("start = %s", got)
	}
	if got := rec.Dates.End.Format(models.ISODate); got != "2024-05-02" {
		t.Errorf("end = %s", got)
	}
}

func TestFindByExternalIDEmpty(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"results": []}`))
	})

	recs, err := c.FindByExternalID(context.Background(), "ev-1")
	if err != nil {
		t.Fatalf("FindByExternalID: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("records = %d, want 0", len(recs))
	}
}

func TestCreate(t *testing.T) {
	var gotPath string
	var gotBody createRequest

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"id": "page-9"}`))
	})

	dates := models.DateRange{Start: day("2024-05-01"), End: day("2024-05-02")}
	id, err := c.Create(context.Background(), "Standup", dates, "ev-1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id != "page-9" {
		t.Errorf("internal id = %q, want page-9", id)
	}
	if gotPath != "/pages" {
		t.Errorf("path = %s", gotPath)
	}
	if gotBody.Parent.DatabaseID != "db-123" {
		t.Errorf("parent = %+v", gotBody.Parent)
	}

	title := gotBody.Properties["Name"].Title
	if len(title) != 1 || title[0].Text == nil || title[0].Text.Content != "Standup" {
		t.Errorf("title property = %+v", title)
	}
	date := gotBody.Properties["Date"].Date
	if date == nil || date.Start != "2024-05-01" || date.End != "2024-05-02" {
		t.Errorf("date property = %+v", date)
	}
	extID := gotBody.Properties["event_id"].RichText
	if len(extID) != 1 || extID[0].Text == nil || extID[0].Text.Content != "ev-1" {
		t.Errorf("external id property = %+v", extID)
	}
}

func TestCreateStartOnlyOmitsEnd(t *testing.T) {
	var gotBody createRequest
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"id": "page-9"}`))
	})

	if _, err := c.Create(context.Background(), "One day", models.DateRange{Start: day("2024-05-01")}, "ev-1"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got := gotBody.Properties["Date"].Date; got == nil || got.End != "" {
		t.Errorf("date property = %+v, want no end", got)
	}
}

func TestArchive(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody archiveRequest

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"id": "page-1", "archived": true}`))
	})

	if err := c.Archive(context.Background(), "page-1"); err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if gotMethod != http.MethodPatch || gotPath != "/pages/page-1" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
	if !gotBody.Archived {
		t.Error("archived flag not set")
	}
}

func TestNonSuccessStatusIsError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message": "validation error"}`))
	})

	if _, err := c.FindByExternalID(context.Background(), "ev-1"); err == nil {
		t.Error("query: expected error on 400")
	}
	if _, err := c.Create(context.Background(), "T", models.DateRange{Start: day("2024-05-01")}, "ev-1"); err == nil {
		t.Error("create: expected error on 400")
	}
	if err := c.Archive(context.Background(), "page-1"); err == nil {
		t.Error("archive: expected error on 400")
	}
}

func TestDefaultPropertyNames(t *testing.T) {
	c := New("tok", "db", PropertyNames{Title: "이름", Date: "진행일"})
	if c.Props.Title != "이름" || c.Props.Date != "진행일" {
		t.Errorf("custom names not kept: %+v", c.Props)
	}
	if c.Props.ExternalID != "event_id" {
		t.Errorf("external id default = %q, want event_id", c.Props.ExternalID)
	}
}
