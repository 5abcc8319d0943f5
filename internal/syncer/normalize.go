package syncer

import (
	"fmt"
	"time"

	"github.com/jaehui/notisync/internal/apperr"
	"github.com/jaehui/notisync/internal/models"
)

// parseRaw parses a raw calendar value: a full RFC 3339 date-time first,
// falling back to a plain date. dateOnly reports which form matched.
func parseRaw(raw string) (t time.Time, dateOnly bool, err error) {
	if t, err = time.Parse(time.RFC3339, raw); err == nil {
		return t, false, nil
	}
	if t, err = time.Parse(models.ISODate, raw); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, fmt.Errorf("%w: %q", apperr.ErrUnparseableDate, raw)
}

// dateOf truncates a parsed value to its calendar date, midnight UTC.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NormalizeDates turns an event's raw start/end strings into a canonical
// date range, discarding time-of-day.
//
// All-day events carry an exclusive end date (a two-day event ending on
// the 3rd reports end=2006-01-03), so one day is subtracted when the end
// value is date-only. Timed ends are kept as-is. The End field is set
// only when it lands strictly after Start; a same-day range is
// represented as start-only.
func NormalizeDates(ev models.SourceEvent) (models.DateRange, error) {
	start, _, err := parseRaw(ev.StartRaw)
	if err != nil {
		return models.DateRange{}, err
	}
	r := models.DateRange{Start: dateOf(start)}

	if ev.EndRaw == "" {
		return r, nil
	}
	end, endDateOnly, err := parseRaw(ev.EndRaw)
	if err != nil {
		return models.DateRange{}, err
	}
	endDate := dateOf(end)
	if endDateOnly {
		endDate = endDate.AddDate(0, 0, -1)
	}
	if endDate.After(r.Start) {
		r.End = endDate
	}
	return r, nil
}
