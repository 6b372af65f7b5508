package schedule

import (
	"strings"
)

// GeneralCategory is the id used when the proposed category is not offered.
const GeneralCategory = "general"

// CategoryOption is one calendar type offered by the backend for a single request.
type CategoryOption struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// ColorOption is one color a calendar type may use.
type ColorOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// colorSynonyms maps utterance keywords to color option names.
// Order matters: the first keyword found in the utterance wins.
var colorSynonyms = []struct {
	keyword string
	name    string
}{
	{"粉", "pink"},
	{"粉色", "pink"},
	{"pink", "pink"},
	{"蓝", "blue"},
	{"蓝色", "blue"},
	{"blue", "blue"},
	{"绿", "green"},
	{"绿色", "green"},
	{"green", "green"},
	{"紫", "purple"},
	{"紫色", "purple"},
	{"purple", "purple"},
	{"红", "red"},
	{"红色", "red"},
	{"red", "red"},
	{"黄", "amber"},
	{"黄色", "amber"},
	{"橙", "amber"},
	{"橙色", "amber"},
	{"amber", "amber"},
}

// PickCategory returns proposed if it is one of the offered ids, otherwise "general".
// The comparison is exact and case-sensitive.
func PickCategory(proposed string, options []CategoryOption) string {
	if proposed == "" {
		return GeneralCategory
	}
	for _, opt := range options {
		if opt.ID == proposed {
			return proposed
		}
	}
	return GeneralCategory
}

// PickColor coerces a proposed color into one of the offered values.
// It tries, in order: the value itself, an option name, a synonym found in
// the utterance, and finally the first option. Returned values are upper-cased.
// An empty option set yields "".
func PickColor(proposed, utterance string, options []ColorOption) string {
	if len(options) == 0 {
		return ""
	}

	byName := make(map[string]string, len(options))
	for _, opt := range options {
		key := strings.ToLower(opt.Name)
		if _, ok := byName[key]; !ok {
			byName[key] = strings.ToUpper(opt.Value)
		}
	}

	upper := strings.ToUpper(proposed)
	for _, opt := range options {
		if strings.ToUpper(opt.Value) == upper && upper != "" {
			return upper
		}
	}

	if value, ok := byName[strings.ToLower(proposed)]; ok && proposed != "" {
		return value
	}

	text := strings.ToLower(utterance)
	for _, syn := range colorSynonyms {
		value, ok := byName[syn.name]
		if ok && strings.Contains(text, syn.keyword) {
			return value
		}
	}

	return strings.ToUpper(options[0].Value)
}
