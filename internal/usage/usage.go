// Package usage counts account-name resolutions per calendar day.
//
// Resolve calls hand a label to a Recorder, which never blocks; a Worker
// drains the queue into a Store and optionally forwards each event to a
// Publisher.
package usage

import (
	"context"
	"time"
)

// DayLayout is the calendar-day key format (UTC).
const DayLayout = "2006-01-02"

// Event is one counted resolution.
type Event struct {
	Day   string    `json:"day"`
	Label string    `json:"label"`
	At    time.Time `json:"at"`
}

// Store keeps per-day counters by label.
type Store interface {
	Increment(ctx context.Context, day, label string) error
	Counts(ctx context.Context, day string) (map[string]int64, error)
}

// Publisher forwards events to an external stream.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// Day returns the UTC calendar-day key for t.
func Day(t time.Time) string {
	return t.UTC().Format(DayLayout)
}
