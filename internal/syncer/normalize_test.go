package syncer

import (
	"errors"
	"testing"

	"github.com/jaehui/notisync/internal/apperr"
	"github.com/jaehui/notisync/internal/models"
)

func TestNormalizeDates(t *testing.T) {
	cases := []struct {
		name      string
		start     string
		end       string
		wantStart string
		wantEnd   string // empty means no end
	}{
		{
			name:      "all-day multi-day range subtracts exclusive end",
			start:     "2024-05-01",
			end:       "2024-05-03",
			wantStart: "2024-05-01",
			wantEnd:   "2024-05-02",
		},
		{
			name:      "all-day single day omits end after adjustment",
			start:     "2024-05-01",
			end:       "2024-05-02",
			wantStart: "2024-05-01",
		},
		{
			name:      "no end value",
			start:     "2024-05-01",
			wantStart: "2024-05-01",
		},
		{
			name:      "timed end is not adjusted",
			start:     "2024-05-01T10:00:00+09:00",
			end:       "2024-05-03T11:00:00+09:00",
			wantStart: "2024-05-01",
			wantEnd:   "2024-05-03",
		},
		{
			name:      "timed same-day range omits end",
			start:     "2024-05-01T10:00:00+09:00",
			end:       "2024-05-01T11:00:00+09:00",
			wantStart: "2024-05-01",
		},
		{
			name:      "timed next-day end keeps end",
			start:     "2024-05-01T23:00:00+09:00",
			end:       "2024-05-02T01:00:00+09:00",
			wantStart: "2024-05-01",
			wantEnd:   "2024-05-02",
		},
		{
			name:      "end before start omits end",
			start:     "2024-05-05",
			end:       "2024-05-03",
			wantStart: "2024-05-05",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev := models.SourceEvent{StartRaw: tc.start, EndRaw: tc.end}
			r, err := NormalizeDates(ev)
			if err != nil {
				t.Fatalf("NormalizeDates: %v", err)
			}
			if got := r.Start.Format(models.ISODate); got != tc.wantStart {
				t.Errorf("start = %s, want %s", got, tc.wantStart)
			}
			if tc.wantEnd == "" {
				if r.HasEnd() {
					t.Errorf("end = %s, want none", r.End.Format(models.ISODate))
				}
				return
			}
			if !r.HasEnd() {
				t.Fatalf("end missing, want %s", tc.wantEnd)
			}
			if got := r.End.Format(models.ISODate); got != tc.wantEnd {
				t.Errorf("end = %s, want %s", got, tc.wantEnd)
			}
		})
	}
}

func TestNormalizeDatesUnparseable(t *testing.T) {
	for _, ev := range []models.SourceEvent{
		{StartRaw: "05/01/2024"},
		{StartRaw: "2024-05-01", EndRaw: "next tuesday"},
	} {
		_, err := NormalizeDates(ev)
		if !errors.Is(err, apperr.ErrUnparseableDate) {
			t.Errorf("NormalizeDates(%q, %q): err = %v, want ErrUnparseableDate", ev.StartRaw, ev.EndRaw, err)
		}
	}
}
