package aitime

import "strings"

// dayPartWindows lists coarse day-part keywords by priority. The first entry with any
// keyword present in the text decides the window.
var dayPartWindows = []struct {
	keywords []string
	window   TimeWindow
}{
	{[]string{"晚上", "夜里", "夜间"}, TimeWindow{Start: "18:00", End: "19:00"}},
	{[]string{"下午"}, TimeWindow{Start: "15:00", End: "16:00"}},
	{[]string{"中午"}, TimeWindow{Start: "12:00", End: "13:00"}},
	{[]string{"早上", "上午", "早晨"}, TimeWindow{Start: "09:00", End: "10:00"}},
}

// KeywordWindow maps day-part words to a default window when no explicit time was found.
// The text is matched as given, without case folding.
func KeywordWindow(text string) (TimeWindow, bool) {
	for _, dp := range dayPartWindows {
		for _, kw := range dp.keywords {
			if strings.Contains(text, kw) {
				return dp.window, true
			}
		}
	}
	return TimeWindow{}, false
}
