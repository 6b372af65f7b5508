package aitime

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

// Pre-compiled patterns, tried in this order.
var (
	// 9:00-10:30, 9：00到10：30
	numericRangePattern = regexp.MustCompile(`(\d{1,2})[:：](\d{2})\s*(?:到|至|-|~)\s*(\d{1,2})[:：](\d{2})`)

	// 下午三点到五点半, 3点-5点, pm3点~5点
	wordedRangePattern = regexp.MustCompile(
		`(上午|早上|中午|下午|晚上|pm|am)?\s*([零〇一二两三四五六七八九十\d]{1,3})点(半)?` +
			`\s*(?:到|至|-|~)\s*` +
			`(上午|早上|中午|下午|晚上|pm|am)?\s*([零〇一二两三四五六七八九十\d]{1,3})点(半)?`)

	// 15:30, 15：30
	numericPattern = regexp.MustCompile(`(\d{1,2})[:：](\d{2})`)

	// 晚上七点半, 3点
	wordedPattern = regexp.MustCompile(`(上午|早上|中午|下午|晚上|pm|am)?\s*([零〇一二两三四五六七八九十\d]{1,3})点(半)?`)
)

// ExtractWindow finds a single time or a time range in text.
//
// The cascade is: numeric range, worded range, single numeric time, single worded time.
// The first pattern that yields an hour wins. A worded range whose second half has no
// meridiem marker inherits the first one. When only a start is found the end is one hour
// later with the same minute. Hours above 23 reject the whole extraction.
func ExtractWindow(text string) (TimeWindow, bool) {
	// Full-width digits and separators (１５：３０～１６：００) fold to ASCII first.
	text = strings.ToLower(width.Fold.String(text))

	start, end, ok := matchRange(text)
	if !ok {
		start, ok = matchSingle(text)
	}
	if !ok || start.Hour > 23 {
		return TimeWindow{}, false
	}
	if end == nil {
		end = &Clock{Hour: (start.Hour + 1) % 24, Minute: start.Minute}
	}
	return NewTimeWindow(start, end), true
}

func matchRange(text string) (Clock, *Clock, bool) {
	if m := numericRangePattern.FindStringSubmatch(text); m != nil {
		start := Clock{Hour: atoi(m[1]), Minute: atoi(m[2])}
		end := Clock{Hour: atoi(m[3]), Minute: atoi(m[4])}
		return start, &end, true
	}

	m := wordedRangePattern.FindStringSubmatch(text)
	if m == nil {
		return Clock{}, nil, false
	}
	firstMeridiem := m[1]
	secondMeridiem := m[4]
	if secondMeridiem == "" {
		secondMeridiem = firstMeridiem
	}
	h1, ok1 := parseHourToken(m[2])
	h2, ok2 := parseHourToken(m[5])
	if !ok1 || !ok2 {
		return Clock{}, nil, false
	}
	start := Clock{Hour: applyMeridiem(h1, firstMeridiem), Minute: halfMinute(m[3])}
	end := Clock{Hour: applyMeridiem(h2, secondMeridiem), Minute: halfMinute(m[6])}
	return start, &end, true
}

func matchSingle(text string) (Clock, bool) {
	if m := numericPattern.FindStringSubmatch(text); m != nil {
		return Clock{Hour: atoi(m[1]), Minute: atoi(m[2])}, true
	}

	m := wordedPattern.FindStringSubmatch(text)
	if m == nil {
		return Clock{}, false
	}
	hour, ok := parseHourToken(m[2])
	if !ok {
		return Clock{}, false
	}
	return Clock{Hour: applyMeridiem(hour, m[1]), Minute: halfMinute(m[3])}, true
}

// parseHourToken resolves a token through ParseNumeral, then a plain integer parse.
func parseHourToken(token string) (int, bool) {
	if n, ok := ParseNumeral(token); ok {
		return n, true
	}
	n, err := strconv.Atoi(token)
	if err != nil {
		return 0, false
	}
	return n, true
}

// applyMeridiem shifts afternoon and evening hours into 24-hour form.
// Twelve is never shifted, so "晚上十二点" stays 12:00.
func applyMeridiem(hour int, meridiem string) int {
	if isPM(meridiem) && hour != 12 {
		return (hour + 12) % 24
	}
	return hour
}

func isPM(meridiem string) bool {
	return strings.Contains(meridiem, "下午") ||
		strings.Contains(meridiem, "晚上") ||
		strings.Contains(meridiem, "pm")
}

func halfMinute(marker string) int {
	if marker != "" {
		return 30
	}
	return 0
}

// atoi is only called on \d captures.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
