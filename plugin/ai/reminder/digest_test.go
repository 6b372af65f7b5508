package reminder

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDigest(t *testing.T) {
	d := BuildDigest(testToday, "晴，约 20°C，天气适宜，适合外出", CommuteFallbackText, NoEventsText)

	require.Len(t, d.Reminders, 3)
	expected := []Item{
		{ID: "weather_2026-10-18", Type: ItemTypeWeather, Title: "今日天气", Subtitle: "晴，约 20°C，天气适宜，适合外出"},
		{ID: "commute_2026-10-18", Type: ItemTypeCommute, Title: "通勤提醒", Subtitle: CommuteFallbackText},
		{ID: "important_2026-10-18", Type: ItemTypeImportant, Title: "重要提醒", Subtitle: NoEventsText},
	}
	assert.Equal(t, expected, d.Reminders)
}

func TestDigestJSON(t *testing.T) {
	d := BuildDigest(testToday, "w", "c", "i")

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{"reminders":[
		{"id":"weather_2026-10-18","type":"weather","title":"今日天气","subtitle":"w"},
		{"id":"commute_2026-10-18","type":"commute","title":"通勤提醒","subtitle":"c"},
		{"id":"important_2026-10-18","type":"important","title":"重要提醒","subtitle":"i"}
	]}`, string(data))
}
