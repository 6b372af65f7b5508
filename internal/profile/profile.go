package profile

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the agent server.
// It is read-only once the server has started.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Version is the current version of server
	Version string
	// Timezone is the IANA zone that defines "today" for scheduling (default: Asia/Shanghai)
	Timezone string

	// Jarvis backend
	APIBase  string // JARVIS_API_BASE (default: http://localhost:8000/api/v1)
	APIToken string // JARVIS_TOKEN

	// LLM
	OpenAIBaseURL string // OPENAI_API_BASE (default: https://xiaoai.plus/v1)
	OpenAIAPIKey  string // OPENAI_API_KEY
	OpenAIModel   string // OPENAI_MODEL (default: gpt-4o-mini)

	// Weather
	OpenWeatherAPIKey  string // OPENWEATHER_API_KEY
	OpenWeatherBaseURL string // OPENWEATHER_API_BASE (default: https://api.openweathermap.org/data/2.5)

	// Rate limiting of the agent endpoints, per client IP
	RateLimitRPS   float64 // JARVIS_RATE_LIMIT_RPS (default: 10)
	RateLimitBurst int     // JARVIS_RATE_LIMIT_BURST (default: 20)
}

// Defaults applied when neither a flag nor the environment sets a value.
const (
	DefaultAPIBase            = "http://localhost:8000/api/v1"
	DefaultOpenAIBaseURL      = "https://xiaoai.plus/v1"
	DefaultOpenAIModel        = "gpt-4o-mini"
	DefaultOpenWeatherBaseURL = "https://api.openweathermap.org/data/2.5"
	DefaultTimezone           = "Asia/Shanghai"
	DefaultPort               = 8001
)

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from environment variables.
// Only unset fields are filled, so values bound from flags win.
func (p *Profile) FromEnv() {
	setIfEmpty := func(dst *string, key, defaultValue string) {
		if *dst == "" {
			*dst = getEnvOrDefault(key, defaultValue)
		}
	}

	setIfEmpty(&p.APIBase, "JARVIS_API_BASE", DefaultAPIBase)
	setIfEmpty(&p.APIToken, "JARVIS_TOKEN", "")
	setIfEmpty(&p.OpenAIBaseURL, "OPENAI_API_BASE", DefaultOpenAIBaseURL)
	setIfEmpty(&p.OpenAIAPIKey, "OPENAI_API_KEY", "")
	setIfEmpty(&p.OpenAIModel, "OPENAI_MODEL", DefaultOpenAIModel)
	setIfEmpty(&p.OpenWeatherAPIKey, "OPENWEATHER_API_KEY", "")
	setIfEmpty(&p.OpenWeatherBaseURL, "OPENWEATHER_API_BASE", DefaultOpenWeatherBaseURL)
	setIfEmpty(&p.Timezone, "JARVIS_TIMEZONE", DefaultTimezone)
}

// Location returns the scheduling time zone. Validate has already checked it loads.
func (p *Profile) Location() *time.Location {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.FixedZone("CST", 8*60*60)
	}
	return loc
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}
	if p.Port == 0 {
		p.Port = DefaultPort
	}
	if p.RateLimitRPS <= 0 {
		p.RateLimitRPS = 10
	}
	if p.RateLimitBurst <= 0 {
		p.RateLimitBurst = 20
	}

	p.APIBase = strings.TrimRight(p.APIBase, "/")
	if _, err := url.ParseRequestURI(p.APIBase); err != nil {
		return errors.Wrapf(err, "invalid backend api base %q", p.APIBase)
	}
	if p.Timezone == "" {
		p.Timezone = DefaultTimezone
	}
	if _, err := time.LoadLocation(p.Timezone); err != nil {
		return errors.Wrapf(err, "invalid timezone %q", p.Timezone)
	}
	if p.Mode == "prod" && p.APIToken == "" {
		return errors.New("JARVIS_TOKEN is required in prod mode")
	}
	return nil
}

// String renders the profile for startup logs without secrets.
func (p *Profile) String() string {
	return fmt.Sprintf("mode=%s addr=%s:%d backend=%s model=%s tz=%s weather=%t",
		p.Mode, p.Addr, p.Port, p.APIBase, p.OpenAIModel, p.Timezone, p.OpenWeatherAPIKey != "")
}
