package reminder

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/zqn-cloud/jarvis/internal/observability"
)

const dateLayout = "2006-01-02"

// dateLayouts are the forms an event date may take; only the calendar day is used.
var dateLayouts = []string{
	dateLayout,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// EventRecord is the slice of a backend event the summarizer reads.
type EventRecord struct {
	Title     string `json:"title"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	Completed bool   `json:"completed"`
}

// DecodeEvents decodes the backend's event list. A value that is not an array counts
// as no events, and each record is decoded on its own so one malformed record never
// drops the rest.
func DecodeEvents(ctx context.Context, raw json.RawMessage) []EventRecord {
	if isAbsent(raw) {
		return []EventRecord{}
	}
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		observability.Logger(ctx).Warn("ignoring malformed event list", "error", err)
		return []EventRecord{}
	}

	events := make([]EventRecord, 0, len(records))
	for i, r := range records {
		var e EventRecord
		if err := json.Unmarshal(r, &e); err != nil {
			observability.Logger(ctx).Warn("skipping malformed event record", "index", i, "error", err)
			continue
		}
		events = append(events, e)
	}
	return events
}

// DecodeLocation decodes the backend's current location. A missing location is nil.
// A location that is not an object, or whose coordinates are not numbers, keeps only
// the coordinates that decode, so the weather slot reports it as incomplete.
func DecodeLocation(ctx context.Context, raw json.RawMessage) *Location {
	if isAbsent(raw) {
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		observability.Logger(ctx).Warn("ignoring malformed location", "error", err)
		return &Location{}
	}
	return &Location{
		Latitude:  coordinate(fields["latitude"]),
		Longitude: coordinate(fields["longitude"]),
	}
}

// coordinate accepts a JSON number or a numeric string.
func coordinate(raw json.RawMessage) *float64 {
	if isAbsent(raw) {
		return nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err == nil {
		return &v
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &v
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// day returns the record's calendar day at midnight UTC.
func (e EventRecord) day() (time.Time, bool) {
	if e.Date == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, e.Date); err == nil {
			return civilDay(t), true
		}
	}
	return time.Time{}, false
}

// label is the title followed by the start time, if any.
func (e EventRecord) label() string {
	return strings.TrimSpace(e.Title + " " + e.StartTime)
}

// civilDay drops the clock and zone of t, keeping the wall-clock date.
func civilDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
