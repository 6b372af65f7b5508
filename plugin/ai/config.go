package ai

import (
	"errors"
	"time"

	"github.com/zqn-cloud/jarvis/internal/profile"
	"github.com/zqn-cloud/jarvis/plugin/ai/timeout"
)

// Config represents AI configuration.
type Config struct {
	LLM     LLMConfig
	Weather WeatherConfig
}

// LLMConfig represents LLM configuration.
type LLMConfig struct {
	Model       string // gpt-4o-mini
	APIKey      string
	BaseURL     string
	Temperature float32 // default: 0.2
	Timeout     time.Duration
}

// WeatherConfig represents the weather provider configuration.
type WeatherConfig struct {
	APIKey  string // empty disables lookups
	BaseURL string
	Timeout time.Duration
}

// NewConfigFromProfile creates AI config from profile.
func NewConfigFromProfile(p *profile.Profile) *Config {
	return &Config{
		LLM: LLMConfig{
			Model:       p.OpenAIModel,
			APIKey:      p.OpenAIAPIKey,
			BaseURL:     p.OpenAIBaseURL,
			Temperature: 0.2,
			Timeout:     timeout.LLMTimeout,
		},
		Weather: WeatherConfig{
			APIKey:  p.OpenWeatherAPIKey,
			BaseURL: p.OpenWeatherBaseURL,
			Timeout: timeout.WeatherTimeout,
		},
	}
}

// Validate validates the configuration.
// A missing weather key is allowed; the digest then reports weather as unconfigured.
func (c *Config) Validate() error {
	if c.LLM.Model == "" {
		return errors.New("LLM model is required")
	}
	if c.LLM.APIKey == "" {
		return errors.New("LLM API key is required")
	}
	return nil
}
