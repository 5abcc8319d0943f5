// Package calendar implements the event source against the Google
// Calendar API.
package calendar

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/jaehui/notisync/internal/models"
	"github.com/jaehui/notisync/internal/syncer"
)

// GoogleSource reads events from one Google calendar.
type GoogleSource struct {
	svc        *gcal.Service
	calendarID string
}

var _ syncer.EventSource = (*GoogleSource)(nil)

// NewGoogleSource wraps an existing calendar service. Tests use this with
// a service pointed at a local endpoint.
func NewGoogleSource(svc *gcal.Service, calendarID string) *GoogleSource {
	return &GoogleSource{svc: svc, calendarID: calendarID}
}

// NewGoogleSourceFromFile builds a read-only calendar service from a
// service-account credentials file.
func NewGoogleSourceFromFile(ctx context.Context, credentialsFile, calendarID string) (*GoogleSource, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("calendar: read credentials file: %w", err)
	}
	conf, err := google.JWTConfigFromJSON(data, gcal.CalendarReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("calendar: parse credentials: %w", err)
	}
	svc, err := gcal.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("calendar: create service: %w", err)
	}
	return NewGoogleSource(svc, calendarID), nil
}

// Events lists the calendar's events inside w, expanded to single
// occurrences and ordered by start time. Deleted events are included so
// cancellations can be reconciled. Pagination is followed until the last
// page.
func (s *GoogleSource) Events(ctx context.Context, w syncer.Window) ([]models.SourceEvent, error) {
	var events []models.SourceEvent
	pageToken := ""
	for {
		call := s.svc.Events.List(s.calendarID).
			TimeMin(w.Start.Format(time.RFC3339)).
			TimeMax(w.End.Format(time.RFC3339)).
			ShowDeleted(true).
			SingleEvents(true).
			OrderBy("startTime").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("calendar: list events: %w", err)
		}
		for _, item := range resp.Items {
			events = append(events, toSourceEvent(item))
		}
		if resp.NextPageToken == "" {
			return events, nil
		}
		pageToken = resp.NextPageToken
	}
}

// toSourceEvent maps an API item onto the domain event. All-day events
// carry Date, timed events DateTime; whichever is set becomes the raw
// value, and the normalizer tells them apart later by shape.
func toSourceEvent(item *gcal.Event) models.SourceEvent {
	ev := models.SourceEvent{
		ExternalID: item.Id,
		Title:      item.Summary,
		Status:     models.EventStatus(item.Status),
	}
	if item.Start != nil {
		ev.StartRaw = item.Start.DateTime
		if ev.StartRaw == "" {
			ev.StartRaw = item.Start.Date
		}
	}
	if item.End != nil {
		ev.EndRaw = item.End.DateTime
		if ev.EndRaw == "" {
			ev.EndRaw = item.End.Date
		}
	}
	return ev
}
