// Package window converts an inclusive calendar-day range into epoch
// millisecond bounds and tests pull request creation times against it.
//
// Dates are parsed as naive calendar dates in the supplied location
// (time.Local unless configured otherwise) while the server reports creation
// times as UTC epoch milliseconds, so the effective window shifts with the
// local UTC offset.
package window

import (
	"fmt"
	"time"
)

// DateLayout is the layout of start and end dates
const DateLayout = "2006-01-02"

// DisplayLayout is the layout used to render creation timestamps
const DisplayLayout = "2006-01-02 15:04:05"

// Window is a closed [StartMs, EndMs] interval built from two calendar dates
type Window struct {
	Start   string
	End     string
	StartMs int64
	EndMs   int64
}

// New parses start and end in loc. EndMs is one second before the midnight
// that follows end.
func New(start, end string, loc *time.Location) (Window, error) {
	if loc == nil {
		loc = time.Local
	}

	startDate, err := time.ParseInLocation(DateLayout, start, loc)
	if err != nil {
		return Window{}, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	endDate, err := time.ParseInLocation(DateLayout, end, loc)
	if err != nil {
		return Window{}, fmt.Errorf("invalid end date %q: %w", end, err)
	}
	if endDate.Before(startDate) {
		return Window{}, fmt.Errorf("end date %s is before start date %s", end, start)
	}

	endOfDay := time.Date(endDate.Year(), endDate.Month(), endDate.Day()+1, 0, 0, 0, 0, loc).Add(-time.Second)

	return Window{
		Start:   start,
		End:     end,
		StartMs: startDate.UnixMilli(),
		EndMs:   endOfDay.UnixMilli(),
	}, nil
}

// Contains reports whether createdAtMs falls inside the window, bounds included
func (w Window) Contains(createdAtMs int64) bool {
	return w.StartMs <= createdAtMs && createdAtMs <= w.EndMs
}

// InWindow parses the dates in the local timezone and tests createdAtMs
func InWindow(createdAtMs int64, startDate, endDate string) (bool, error) {
	w, err := New(startDate, endDate, time.Local)
	if err != nil {
		return false, err
	}
	return w.Contains(createdAtMs), nil
}

// FormatTimestamp renders epoch milliseconds in loc
func FormatTimestamp(ms int64, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return time.UnixMilli(ms).In(loc).Format(DisplayLayout)
}

// LoadLocation resolves a timezone name. An empty name yields fallback.
func LoadLocation(name string, fallback *time.Location) (*time.Location, error) {
	if name == "" {
		return fallback, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", name, err)
	}
	return loc, nil
}
