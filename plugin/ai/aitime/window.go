package aitime

import "fmt"

// DefaultDurationMinutes is the length of a window whose end was not stated.
const DefaultDurationMinutes = 60

// TimeWindow is a start/end pair in zero-padded 24-hour "HH:MM" form.
// Start and End are either both set or both empty.
type TimeWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// IsZero reports whether the window carries no time.
func (w TimeWindow) IsZero() bool {
	return w.Start == "" && w.End == ""
}

// String implements fmt.Stringer.
func (w TimeWindow) String() string {
	if w.IsZero() {
		return "<none>"
	}
	return w.Start + "-" + w.End
}

// NewTimeWindow builds a window from a start clock and an optional end clock.
// A nil end defaults to start plus DefaultDurationMinutes, wrapping past midnight.
func NewTimeWindow(start Clock, end *Clock) TimeWindow {
	e := start.AddMinutes(DefaultDurationMinutes)
	if end != nil {
		e = *end
	}
	return TimeWindow{Start: start.String(), End: e.String()}
}

// Clock is an hour/minute pair. Values are formatted as-is; callers validate.
type Clock struct {
	Hour   int
	Minute int
}

// String formats the clock as "HH:MM".
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// AddMinutes returns the clock shifted by n minutes modulo 24 hours.
func (c Clock) AddMinutes(n int) Clock {
	total := ((c.Hour*60+c.Minute+n)%(24*60) + 24*60) % (24 * 60)
	return Clock{Hour: total / 60, Minute: total % 60}
}
