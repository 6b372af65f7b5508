package reminder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/pkg/errors"

	"github.com/zqn-cloud/jarvis/internal/observability"
	"github.com/zqn-cloud/jarvis/plugin/ai"
	"github.com/zqn-cloud/jarvis/plugin/ai/timeout"
)

// Weather texts used instead of an error.
const (
	WeatherNoKeyText      = "未配置天气 key"
	WeatherNoLocationText = "未获取到定位，无法查询天气"
	WeatherPartialText    = "定位信息不完整，无法查询天气"
	WeatherFailedText     = "天气查询失败"
)

const weatherCacheSize = 256

// Location is the user's last reported position.
type Location struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// weatherAdvice is checked in order; the first rule that matches wins.
var weatherAdvice = []struct {
	keywords []string
	advice   string
}{
	{[]string{"雨", "rain", "drizzle", "storm"}, "出门记得带伞，注意防滑"},
	{[]string{"雪", "snow"}, "道路湿滑，注意保暖和防滑"},
	{[]string{"雷", "thunder"}, "注意雷电天气，尽量避免户外停留"},
	{[]string{"雾", "fog", "霾", "haze"}, "能见度低，出行请减速，必要时佩戴口罩"},
}

// Advice returns a one-line suggestion for a weather description and temperature.
func Advice(description string, temp float64) string {
	lower := strings.ToLower(description)
	for _, rule := range weatherAdvice {
		for _, k := range rule.keywords {
			if strings.Contains(lower, k) {
				return rule.advice
			}
		}
	}
	switch {
	case temp >= 32:
		return "高温注意防暑，多喝水少暴晒"
	case temp >= 28:
		return "天气较热，注意防晒补水"
	case temp <= 5:
		return "低温注意保暖，出门加衣"
	case temp <= 12:
		return "有点凉，出门注意加件外套"
	default:
		return "天气适宜，适合外出"
	}
}

// WeatherProvider renders a short weather line from OpenWeather.
// It never returns an error; failures become a fixed text.
type WeatherProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
	cache   *expirable.LRU[string, string]
}

// NewWeatherProvider creates a provider. Rendered lines are cached per rounded
// coordinate for timeout.WeatherCacheTTL.
func NewWeatherProvider(cfg ai.WeatherConfig) *WeatherProvider {
	t := cfg.Timeout
	if t <= 0 {
		t = timeout.WeatherTimeout
	}
	return &WeatherProvider{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: t},
		cache:   expirable.NewLRU[string, string](weatherCacheSize, nil, timeout.WeatherCacheTTL),
	}
}

// Summary returns "{desc}，约 {temp}°C，{advice}" or one of the fallback texts.
func (w *WeatherProvider) Summary(ctx context.Context, loc *Location) string {
	if w.apiKey == "" {
		return WeatherNoKeyText
	}
	if loc == nil {
		return WeatherNoLocationText
	}
	if loc.Latitude == nil || loc.Longitude == nil {
		return WeatherPartialText
	}

	key := fmt.Sprintf("%.2f,%.2f", *loc.Latitude, *loc.Longitude)
	if text, ok := w.cache.Get(key); ok {
		return text
	}

	text, err := w.fetch(ctx, *loc.Latitude, *loc.Longitude)
	if err != nil {
		observability.Logger(ctx).Warn("weather lookup failed", "error", err)
		return WeatherFailedText
	}
	w.cache.Add(key, text)
	return text
}

type weatherResponse struct {
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main *struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
}

func (w *WeatherProvider) fetch(ctx context.Context, lat, lon float64) (string, error) {
	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%g", lat))
	params.Set("lon", fmt.Sprintf("%g", lon))
	params.Set("appid", w.apiKey)
	params.Set("units", "metric")
	params.Set("lang", "zh_cn")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+"/weather?"+params.Encode(), nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to build weather request")
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "failed to call weather api")
	}
	defer resp.Body.Close()

	var body weatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", errors.Wrapf(err, "failed to decode weather response (status %d)", resp.StatusCode)
	}
	if len(body.Weather) == 0 || body.Main == nil {
		return "", errors.Errorf("incomplete weather response (status %d)", resp.StatusCode)
	}

	desc := body.Weather[0].Description
	temp := body.Main.Temp
	return fmt.Sprintf("%s，约 %.0f°C，%s", desc, temp, Advice(desc, temp)), nil
}
