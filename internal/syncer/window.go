package syncer

import (
	"fmt"
	"strconv"
	"time"
)

// Window strategies.
const (
	StrategyCurrentMonth = "current-month"
	StrategyRolling24h   = "rolling-24h"
)

// Window is the half-open time range [Start, End) covered by one sync pass.
type Window struct {
	Start time.Time
	End   time.Time
}

// WindowSelector computes the sync window from a point in time. It is a
// pure function of the clock: no inputs beyond "now", no failure modes.
type WindowSelector struct {
	Strategy string
	Location *time.Location
}

// NewWindowSelector builds a selector for the given strategy and a fixed
// UTC offset in "+09:00" form.
func NewWindowSelector(strategy, offset string) (WindowSelector, error) {
	switch strategy {
	case StrategyCurrentMonth, StrategyRolling24h:
	default:
		return WindowSelector{}, fmt.Errorf("unknown window strategy %q", strategy)
	}
	loc, err := ParseOffset(offset)
	if err != nil {
		return WindowSelector{}, err
	}
	return WindowSelector{Strategy: strategy, Location: loc}, nil
}

// Select returns the window containing now.
//
// current-month spans the first instant of now's calendar month to the
// first instant of the next month; time.Date normalizes month 13, which
// handles the December → January year rollover. rolling-24h spans the
// start of today to the start of tomorrow in the selector's offset.
func (s WindowSelector) Select(now time.Time) Window {
	t := now.In(s.Location)
	switch s.Strategy {
	case StrategyRolling24h:
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.Location)
		return Window{Start: day, End: day.AddDate(0, 0, 1)}
	default:
		month := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, s.Location)
		return Window{Start: month, End: month.AddDate(0, 1, 0)}
	}
}

// ParseOffset converts a fixed UTC offset like "+09:00" into a Location.
func ParseOffset(offset string) (*time.Location, error) {
	if len(offset) != 6 || (offset[0] != '+' && offset[0] != '-') || offset[3] != ':' {
		return nil, fmt.Errorf("timezone offset %q: want ±HH:MM form", offset)
	}
	h, errH := strconv.Atoi(offset[1:3])
	m, errM := strconv.Atoi(offset[4:6])
	if errH != nil || errM != nil {
		return nil, fmt.Errorf("timezone offset %q: want ±HH:MM form", offset)
	}
	if h > 14 || m > 59 {
		return nil, fmt.Errorf("timezone offset %q: out of range", offset)
	}
	sec := h*3600 + m*60
	if offset[0] == '-' {
		sec = -sec
	}
	return time.FixedZone("UTC"+offset, sec), nil
}
