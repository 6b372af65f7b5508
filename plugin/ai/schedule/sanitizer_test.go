package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var testCategories = []CategoryOption{
	{ID: "work", Name: "工作"},
	{ID: "life", Name: "生活"},
	{ID: "Study", Name: "学习"},
}

var testColors = []ColorOption{
	{Name: "Amber", Value: "#F59E0B"},
	{Name: "Pink", Value: "#ec4899"},
	{Name: "Blue", Value: "#3B82F6"},
	{Name: "Green", Value: "#22C55E"},
	{Name: "Purple", Value: "#A855F7"},
	{Name: "Red", Value: "#EF4444"},
}

func TestPickCategory(t *testing.T) {
	tests := []struct {
		name     string
		proposed string
		options  []CategoryOption
		expected string
	}{
		{"valid id passes through", "work", testCategories, "work"},
		{"case sensitive hit", "Study", testCategories, "Study"},
		{"case mismatch falls back", "study", testCategories, GeneralCategory},
		{"unknown id", "sports", testCategories, GeneralCategory},
		{"missing id", "", testCategories, GeneralCategory},
		{"name is not an id", "工作", testCategories, GeneralCategory},
		{"empty option set", "work", nil, GeneralCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PickCategory(tt.proposed, tt.options))
		})
	}
}

func TestPickCategory_OptionsArePerCall(t *testing.T) {
	assert.Equal(t, GeneralCategory, PickCategory("gym", testCategories))

	withGym := append([]CategoryOption{{ID: "gym", Name: "健身"}}, testCategories...)
	assert.Equal(t, "gym", PickCategory("gym", withGym))

	assert.Equal(t, GeneralCategory, PickCategory("gym", testCategories))
}

func TestPickColor(t *testing.T) {
	tests := []struct {
		name      string
		proposed  string
		utterance string
		expected  string
	}{
		{"exact value", "#3B82F6", "工作日程", "#3B82F6"},
		{"lower-case value is upper-cased", "#ec4899", "", "#EC4899"},
		{"name match", "purple", "", "#A855F7"},
		{"name match any case", "RED", "", "#EF4444"},
		{"synonym in utterance", "粉色", "创建一个粉色的健身类型", "#EC4899"},
		{"english synonym", "", "a BLUE type for work", "#3B82F6"},
		{"orange maps to amber", "#123456", "橙色的学习类型", "#F59E0B"},
		{"nothing matches", "#123456", "随便", "#F59E0B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PickColor(tt.proposed, tt.utterance, testColors))
		})
	}
}

func TestPickColor_PinkCaseInsensitive(t *testing.T) {
	options := []ColorOption{{Name: "Pink", Value: "#EC4899"}, {Name: "Blue", Value: "#3B82F6"}}

	for _, utterance := range []string{"粉色的类型", "我要粉", "PINK please"} {
		assert.Equal(t, "#EC4899", PickColor("粉色", utterance, options), utterance)
	}
}

func TestPickColor_SynonymNeedsOption(t *testing.T) {
	// No pink option offered: the synonym cannot resolve and the first option wins.
	options := []ColorOption{{Name: "Blue", Value: "#3B82F6"}}
	assert.Equal(t, "#3B82F6", PickColor("", "粉色", options))
}

func TestPickColor_EmptyOptions(t *testing.T) {
	assert.Equal(t, "", PickColor("#EC4899", "粉色", nil))
}
