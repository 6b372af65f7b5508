package reminder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCommute(t *testing.T) {
	tests := []struct {
		name     string
		plan     *CommutePlan
		expected string
	}{
		{
			name: "full route",
			plan: &CommutePlan{
				From:   Place{Type: "home", Address: "沙田"},
				To:     Place{Type: "school", Address: "科大"},
				Routes: []Route{{Mode: "driving", DurationMinutes: 25, DistanceKM: 8.5, TrafficStatus: "normal"}},
			},
			expected: "沙田 → 科大，约 8.5km / 25分钟 / 路况normal",
		},
		{
			name: "type used when address empty",
			plan: &CommutePlan{
				From:   Place{Type: "home"},
				To:     Place{},
				Routes: []Route{{DurationMinutes: 35}},
			},
			expected: "home → 目的地，约 35分钟",
		},
		{
			name: "no parts",
			plan: &CommutePlan{
				Routes: []Route{{Mode: "walking"}},
			},
			expected: "出发地 → 目的地，约 路况信息暂无",
		},
		{
			name:     "no routes",
			plan:     &CommutePlan{From: Place{Address: "家"}},
			expected: CommuteFallbackText,
		},
		{
			name:     "nil plan",
			plan:     nil,
			expected: CommuteFallbackText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatCommute(tt.plan))
		})
	}
}
