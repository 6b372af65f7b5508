package reminder

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zqn-cloud/jarvis/internal/observability"
)

// Context is the snapshot the backend returns for reminder generation. Both fields
// stay raw so that a malformed value degrades the digest instead of failing it.
type Context struct {
	CurrentLocation json.RawMessage `json:"current_location"`
	Events          json.RawMessage `json:"events"`
}

// ContextSource supplies reminder inputs. The Jarvis backend client implements it.
type ContextSource interface {
	ReminderContext(ctx context.Context) (*Context, error)
	Commute(ctx context.Context) (*CommutePlan, error)
}

// WeatherSource renders the weather slot. It never fails.
type WeatherSource interface {
	Summary(ctx context.Context, loc *Location) string
}

// Generator builds the daily digest from backend context.
type Generator struct {
	source  ContextSource
	weather WeatherSource
}

// NewGenerator creates a generator.
func NewGenerator(source ContextSource, weather WeatherSource) *Generator {
	return &Generator{source: source, weather: weather}
}

// Generate fetches the context, then renders weather and commute concurrently.
// Only a failure to fetch the context is returned; every slot degrades to text.
func (g *Generator) Generate(ctx context.Context, today time.Time) (*Digest, error) {
	rc, err := g.source.ReminderContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch reminder context: %w", err)
	}

	logger := observability.Logger(ctx)
	loc := DecodeLocation(ctx, rc.CurrentLocation)

	var weatherText, commuteText string
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		weatherText = g.weather.Summary(egCtx, loc)
		return nil
	})
	eg.Go(func() error {
		plan, err := g.source.Commute(egCtx)
		if err != nil {
			logger.Warn("commute lookup failed", "error", err)
			commuteText = CommuteFallbackText
			return nil
		}
		commuteText = FormatCommute(plan)
		return nil
	})
	_ = eg.Wait()

	events := DecodeEvents(ctx, rc.Events)
	important := Summarize(events, today)

	digest := BuildDigest(today, weatherText, commuteText, important)
	logger.Info("generated reminders",
		"events", len(events),
		"weather", weatherText,
		"important", important,
	)
	return &digest, nil
}
