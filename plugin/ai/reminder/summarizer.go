package reminder

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
)

const (
	// LookaheadDays is how far past today the summary looks.
	LookaheadDays = 10

	// NoEventsText is the summary when nothing is scheduled.
	NoEventsText = "未来10天暂无行程"
)

type datedEvent struct {
	day   time.Time
	event EventRecord
}

// Summarize renders the "important" slot from an event snapshot.
//
// Completed records and records without a parseable date are skipped one by one.
// Today's events come first, then the earliest future day within the lookahead.
// When the window is empty, the earliest unfinished upcoming event is named instead.
func Summarize(events []EventRecord, today time.Time) (summary string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("summarize events panicked", "panic", r, "events", len(events))
			summary = firstUnfinished(events)
		}
	}()

	if len(events) == 0 {
		return NoEventsText
	}

	start := civilDay(today)
	end := start.AddDate(0, 0, LookaheadDays)

	var upcoming, window []datedEvent
	for _, e := range events {
		if e.Completed {
			continue
		}
		day, ok := e.day()
		if !ok {
			continue
		}
		if day.Before(start) {
			continue
		}
		upcoming = append(upcoming, datedEvent{day: day, event: e})
		if !day.After(end) {
			window = append(window, datedEvent{day: day, event: e})
		}
	}

	if len(window) == 0 {
		return nearest(upcoming)
	}

	var todays, future []datedEvent
	for _, d := range window {
		if d.day.Equal(start) {
			todays = append(todays, d)
		} else {
			future = append(future, d)
		}
	}

	var parts []string
	if len(todays) > 0 {
		parts = append(parts, renderDay("今天", todays, false))
	}
	if len(future) > 0 {
		sort.SliceStable(future, func(i, j int) bool { return future[i].day.Before(future[j].day) })
		first := future[0].day
		var sameDay []datedEvent
		for _, d := range future {
			if d.day.Equal(first) {
				sameDay = append(sameDay, d)
			}
		}
		parts = append(parts, renderDay(dayLabel(daysBetween(start, first)), sameDay, true))
	}

	if len(parts) == 0 {
		return NoEventsText
	}
	return strings.Join(parts, "；")
}

// renderDay renders one day group. The plural form lists at most two labels and
// always appends the full count.
func renderDay(label string, group []datedEvent, withDate bool) string {
	if len(group) == 1 {
		text := fmt.Sprintf("%s：%s", label, group[0].event.label())
		if withDate {
			text += fmt.Sprintf("（%s）", group[0].day.Format(dateLayout))
		}
		return text
	}

	shown := group
	if len(shown) > 2 {
		shown = shown[:2]
	}
	labels := make([]string, 0, len(shown))
	for _, d := range shown {
		labels = append(labels, d.event.label())
	}
	return fmt.Sprintf("%s有%d个：%s 等%d个", label, len(group), strings.Join(labels, "、"), len(group))
}

func dayLabel(days int) string {
	if days == 1 {
		return "明天"
	}
	return fmt.Sprintf("%d天后", days)
}

// nearest names the earliest upcoming event outside the window.
func nearest(upcoming []datedEvent) string {
	if len(upcoming) == 0 {
		return NoEventsText
	}
	sort.SliceStable(upcoming, func(i, j int) bool { return upcoming[i].day.Before(upcoming[j].day) })
	d := upcoming[0]
	return fmt.Sprintf("最近行程：%s（%s）", d.event.label(), d.day.Format(dateLayout))
}

func firstUnfinished(events []EventRecord) string {
	for _, e := range events {
		if !e.Completed && e.Title != "" {
			return "最近事件：" + e.Title
		}
	}
	return NoEventsText
}
