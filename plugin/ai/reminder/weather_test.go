package reminder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zqn-cloud/jarvis/plugin/ai"
)

func ptr(f float64) *float64 { return &f }

func TestAdvice(t *testing.T) {
	tests := []struct {
		desc     string
		temp     float64
		expected string
	}{
		{"小雨", 20, "出门记得带伞，注意防滑"},
		{"Light Rain", 35, "出门记得带伞，注意防滑"},
		{"雷阵雨", 30, "出门记得带伞，注意防滑"},
		{"雷暴", 30, "注意雷电天气，尽量避免户外停留"},
		{"小雪", -2, "道路湿滑，注意保暖和防滑"},
		{"雾", 15, "能见度低，出行请减速，必要时佩戴口罩"},
		{"晴", 33, "高温注意防暑，多喝水少暴晒"},
		{"晴", 28, "天气较热，注意防晒补水"},
		{"多云", 5, "低温注意保暖，出门加衣"},
		{"多云", 10, "有点凉，出门注意加件外套"},
		{"晴", 20, "天气适宜，适合外出"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			assert.Equal(t, tt.expected, Advice(tt.desc, tt.temp))
		})
	}
}

func TestWeatherProvider_Fallbacks(t *testing.T) {
	noKey := NewWeatherProvider(ai.WeatherConfig{})
	assert.Equal(t, WeatherNoKeyText, noKey.Summary(context.Background(), &Location{Latitude: ptr(1), Longitude: ptr(2)}))

	p := NewWeatherProvider(ai.WeatherConfig{APIKey: "k", BaseURL: "http://127.0.0.1:0"})
	assert.Equal(t, WeatherNoLocationText, p.Summary(context.Background(), nil))
	assert.Equal(t, WeatherPartialText, p.Summary(context.Background(), &Location{Latitude: ptr(22.39)}))
	assert.Equal(t, WeatherFailedText, p.Summary(context.Background(), &Location{Latitude: ptr(22.39), Longitude: ptr(114.1)}))
}

func TestWeatherProvider_Summary(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/weather", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "k", q.Get("appid"))
		assert.Equal(t, "metric", q.Get("units"))
		assert.Equal(t, "zh_cn", q.Get("lang"))
		assert.Equal(t, "22.39", q.Get("lat"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"weather":[{"description":"多云"}],"main":{"temp":23.6}}`))
	}))
	defer server.Close()

	p := NewWeatherProvider(ai.WeatherConfig{APIKey: "k", BaseURL: server.URL + "/"})
	loc := &Location{Latitude: ptr(22.39), Longitude: ptr(114.1)}

	assert.Equal(t, "多云，约 24°C，天气适宜，适合外出", p.Summary(context.Background(), loc))
	assert.Equal(t, "多云，约 24°C，天气适宜，适合外出", p.Summary(context.Background(), loc))
	assert.Equal(t, int32(1), calls.Load(), "second lookup is served from cache")
	assert.Equal(t, 1, p.cache.Len())
}

func TestWeatherProvider_BadResponseNotCached(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"cod":401,"message":"Invalid API key"}`))
	}))
	defer server.Close()

	p := NewWeatherProvider(ai.WeatherConfig{APIKey: "bad", BaseURL: server.URL})
	loc := &Location{Latitude: ptr(1), Longitude: ptr(2)}

	assert.Equal(t, WeatherFailedText, p.Summary(context.Background(), loc))
	assert.Zero(t, p.cache.Len())
}
